package database

import (
	"context"
	"sync"

	"github.com/safing/treebase/config"
	"github.com/safing/treebase/database/storage"
	"github.com/safing/treebase/log"
)

// DataSource connects models to a database through a connector.
type DataSource struct {
	connector storage.Connector

	models     map[string]*Model
	modelsLock sync.Mutex
}

// NewDataSource creates a data source using the registered connector with
// the given name. It does not connect.
func NewDataSource(connectorName string, settings *config.Settings) (*DataSource, error) {
	connector, err := storage.New(connectorName, settings)
	if err != nil {
		return nil, err
	}
	return NewDataSourceWith(connector), nil
}

// NewDataSourceWith creates a data source using the given connector.
func NewDataSourceWith(connector storage.Connector) *DataSource {
	return &DataSource{
		connector: connector,
		models:    make(map[string]*Model),
	}
}

// Connector returns the connector of the data source.
func (ds *DataSource) Connector() storage.Connector {
	return ds.connector
}

// Connect connects the data source.
func (ds *DataSource) Connect(ctx context.Context) error {
	_, err := ds.connector.Connect(ctx)
	if err != nil {
		return err
	}
	log.Debugf("database: data source connected")
	return nil
}

// Disconnect disconnects the data source.
func (ds *DataSource) Disconnect(ctx context.Context) error {
	return ds.connector.Disconnect(ctx)
}

// Connected returns whether the data source is connected.
func (ds *DataSource) Connected() bool {
	return ds.connector.Connected()
}

// Model returns the model with the given name.
func (ds *DataSource) Model(name string) *Model {
	ds.modelsLock.Lock()
	defer ds.modelsLock.Unlock()

	m, ok := ds.models[name]
	if !ok {
		m = &Model{
			name:     name,
			accessor: ds.connector.Accessor(name),
		}
		ds.models[name] = m
	}
	return m
}
