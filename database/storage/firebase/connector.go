// Package firebase maps records onto a Firebase Realtime Database tree.
//
// Each model is stored below the configured database path, keyed by record
// id. Stored records carry the name of their model in the "_type" field.
package firebase

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/safing/treebase/config"
	"github.com/safing/treebase/database/storage"
	"github.com/safing/treebase/database/tree"
	"github.com/safing/treebase/log"
	"github.com/safing/treebase/metrics"

	// Register tree backends.
	_ "github.com/safing/treebase/database/tree/badgertree"
	_ "github.com/safing/treebase/database/tree/bbolttree"
	_ "github.com/safing/treebase/database/tree/memtree"
	_ "github.com/safing/treebase/database/tree/rtdb"
)

// ConnectorName is the name the connector is registered with.
const ConnectorName = "firebase3"

func init() {
	_ = storage.Register(ConnectorName, New)
}

// Connector holds the handle to the database tree.
type Connector struct {
	settings *config.Settings

	connectGroup singleflight.Group

	app    tree.App
	db     tree.Ref
	dbLock sync.Mutex
}

// New returns a new, unconnected connector.
func New(settings *config.Settings) (storage.Connector, error) {
	return NewConnector(settings), nil
}

// NewConnector returns a new, unconnected connector.
func NewConnector(settings *config.Settings) *Connector {
	if settings == nil {
		settings = &config.Settings{}
	}
	return &Connector{
		settings: settings.Clone(),
	}
}

// Handle returns the open handle, or nil if not connected.
func (c *Connector) Handle() tree.Ref {
	c.dbLock.Lock()
	defer c.dbLock.Unlock()

	return c.db
}

// Connected returns whether a handle is open.
func (c *Connector) Connected() bool {
	return c.Handle() != nil
}

// Connect opens a session to the configured tree and returns the handle to
// the database subtree. If already connected, the existing handle is
// returned. Concurrent calls share one connection attempt.
func (c *Connector) Connect(ctx context.Context) (tree.Ref, error) {
	// check settings before touching the remote
	if c.settings.Database == "" {
		return nil, &storage.ConfigError{
			Setting: "database",
			Msg:     "database name must be specified for the firebase connector",
		}
	}
	if err := tree.ValidatePath(c.settings.Database); err != nil {
		return nil, &storage.ConfigError{
			Setting: "database",
			Msg:     err.Error(),
		}
	}

	if db := c.Handle(); db != nil {
		return db, nil
	}

	v, err, _ := c.connectGroup.Do("connect", func() (interface{}, error) {
		if db := c.Handle(); db != nil {
			return db, nil
		}

		app, err := tree.Open(ctx, c.settings.BackendName(), c.settings)
		if err != nil {
			return nil, &storage.ConnectionError{Err: err}
		}
		db := app.Ref(c.settings.Database)

		c.dbLock.Lock()
		c.app = app
		c.db = db
		c.dbLock.Unlock()

		metrics.ConnectionOpened()
		log.Infof("firebase: connected to %s database at %s", c.settings.BackendName(), db.Path())
		return db, nil
	})
	if err != nil {
		log.Warningf("firebase: failed to connect: %s", err)
		return nil, err
	}
	return v.(tree.Ref), nil
}

// Disconnect takes the session offline and releases it. It is a no-op if not
// connected.
func (c *Connector) Disconnect(ctx context.Context) error {
	c.dbLock.Lock()
	app := c.app
	c.app = nil
	c.db = nil
	c.dbLock.Unlock()

	if app == nil {
		return nil
	}
	metrics.ConnectionClosed()

	if err := app.Close(ctx); err != nil {
		log.Warningf("firebase: failed to disconnect: %s", err)
		return &storage.DisconnectionError{Err: err}
	}
	log.Infof("firebase: disconnected")
	return nil
}

// Accessor returns the record accessor for the given model.
func (c *Connector) Accessor(modelName string) storage.Accessor {
	return NewAccessor(c, modelName)
}
