/*
Package database is the host side of treebase: data sources that dispatch
record operations of named models to a connector.

A data source is created with the name of a registered connector and its
settings:

	ds, err := database.NewDataSource(firebase.ConnectorName, settings)
	if err != nil {
		return err
	}
	if err := ds.Connect(ctx); err != nil {
		return err
	}
	defer ds.Disconnect(ctx)

	customers := ds.Model("Customer")
	charlie, err := customers.Create(ctx, record.New("0", map[string]interface{}{
		"name": "Charlie",
		"age":  24,
	}))

Queries are evaluated on the client, after reading all records of a model:

	adults, err := customers.Find(ctx, query.New("Customer").Where(
		query.Where("age", query.GreaterThanOrEqual, 18),
	).OrderBy("name").Limit(10))

Records of different models may share one database subtree; they are told
apart by the "_type" field the connector stores with every record.
*/
package database
