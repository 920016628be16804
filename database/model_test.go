package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/treebase/config"
	"github.com/safing/treebase/database/query"
	"github.com/safing/treebase/database/record"
	"github.com/safing/treebase/database/storage"
	"github.com/safing/treebase/database/storage/firebase"
	"github.com/safing/treebase/database/tree/treetest"
)

func testPersons() []*record.Record {
	return []*record.Record{
		record.New("0", map[string]interface{}{"name": "Charlie", "age": 24}),
		record.New("1", map[string]interface{}{"name": "Mary", "age": 24}),
		record.New("2", map[string]interface{}{"name": "David", "age": 24}),
		record.New("", map[string]interface{}{"name": "Jason", "age": 44}),
	}
}

func newTestDataSource(t *testing.T, settings *config.Settings) *DataSource {
	t.Helper()

	if settings == nil {
		settings = &config.Settings{
			Backend:  config.BackendMemory,
			Location: treetest.RandomDatabase(t),
		}
	}
	settings.Database = treetest.RandomDatabase(t)

	ds, err := NewDataSource(firebase.ConnectorName, settings)
	require.NoError(t, err)
	require.NoError(t, ds.Connect(context.Background()))
	t.Cleanup(func() {
		_, err := ds.Model("person").DestroyAll(context.Background())
		assert.NoError(t, err)
		assert.NoError(t, ds.Disconnect(context.Background()))
	})
	return ds
}

func TestDataSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ds := newTestDataSource(t, nil)
	assert.True(t, ds.Connected())
	assert.Same(t, ds.Model("person"), ds.Model("person"))
	assert.Equal(t, "person", ds.Model("person").Name())

	require.NoError(t, ds.Disconnect(ctx))
	require.NoError(t, ds.Disconnect(ctx))
	assert.False(t, ds.Connected())
	require.NoError(t, ds.Connect(ctx))
	require.NoError(t, ds.Connect(ctx))
	assert.True(t, ds.Connected())

	_, err := NewDataSource("unknown", &config.Settings{})
	assert.Error(t, err)

	missingDB, err := NewDataSource(firebase.ConnectorName, &config.Settings{Backend: config.BackendMemory})
	require.NoError(t, err)
	var configErr *storage.ConfigError
	assert.ErrorAs(t, missingDB.Connect(ctx), &configErr)
}

func TestCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	persons := testPersons()
	person := newTestDataSource(t, nil).Model("person")

	// with an id
	created, err := person.Create(ctx, persons[0])
	require.NoError(t, err)
	assert.Equal(t, "0", created.ID)
	assert.Equal(t, "Charlie", created.Fields["name"])

	// without an id
	created, err = person.Create(ctx, persons[3])
	require.NoError(t, err)
	assert.Len(t, created.ID, 20)
	assert.Equal(t, "Jason", created.Fields["name"])
	assert.Empty(t, persons[3].ID, "input must not be modified")

	// duplicate id
	_, err = person.Create(ctx, persons[0])
	assert.ErrorIs(t, err, storage.ErrConflict)
}

func TestFindByID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	persons := testPersons()
	person := newTestDataSource(t, nil).Model("person")

	_, err := person.Create(ctx, persons[0])
	require.NoError(t, err)
	jason, err := person.Create(ctx, persons[3])
	require.NoError(t, err)

	found, err := person.FindByID(ctx, "0")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "0", found.ID)
	assert.Equal(t, "Charlie", found.Fields["name"])
	assert.EqualValues(t, 24, found.Fields["age"])

	found, err = person.FindByID(ctx, jason.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, jason.ID, found.ID)
	assert.Equal(t, "Jason", found.Fields["name"])
	assert.EqualValues(t, 44, found.Fields["age"])

	found, err = person.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, found)

	exists, err := person.Exists(ctx, "0")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = person.Exists(ctx, "1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFindByIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	person := newTestDataSource(t, nil).Model("person")
	for _, p := range testPersons()[:3] {
		_, err := person.Create(ctx, p)
		require.NoError(t, err)
	}

	found, err := person.FindByIDs(ctx, []string{"2", "lorem", "0"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "2", found[0].ID)
	assert.Equal(t, "0", found[1].ID)

	_, err = person.FindByIDs(ctx, []string{"0", "in/valid"})
	assert.Error(t, err)
}

func TestDestroyByID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	person := newTestDataSource(t, nil).Model("person")
	_, err := person.Create(ctx, testPersons()[0])
	require.NoError(t, err)

	count, err := person.DestroyByID(ctx, "0")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = person.DestroyByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	persons := testPersons()
	person := newTestDataSource(t, nil).Model("person")
	_, err := person.Create(ctx, persons[0])
	require.NoError(t, err)

	// update
	charlie, err := person.FindByID(ctx, "0")
	require.NoError(t, err)
	charlie.Set("name", "Charlie II")
	saved, err := person.Save(ctx, charlie)
	require.NoError(t, err)
	assert.Equal(t, "0", saved.ID)
	assert.Equal(t, "Charlie II", saved.Fields["name"])
	assert.EqualValues(t, 24, saved.Fields["age"])

	// create
	saved, err = person.Save(ctx, persons[1])
	require.NoError(t, err)
	assert.Equal(t, "1", saved.ID)
	found, err := person.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Mary", found.Fields["name"])

	// create without id
	saved, err = person.ReplaceOrCreate(ctx, persons[3])
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
}

func TestReplaceByID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	person := newTestDataSource(t, nil).Model("person")
	_, err := person.Create(ctx, testPersons()[0])
	require.NoError(t, err)

	replaced, err := person.ReplaceByID(ctx, "0", map[string]interface{}{"name": "Charlie II", "age": 25})
	require.NoError(t, err)
	assert.Equal(t, "0", replaced.ID)
	assert.Equal(t, "Charlie II", replaced.Fields["name"])

	replaced, err = person.ReplaceByID(ctx, "0", map[string]interface{}{"name": "Charlie III"})
	require.NoError(t, err)
	assert.NotContains(t, replaced.Fields, "age")
	found, err := person.FindByID(ctx, "0")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "Charlie III"}, found.Fields)

	_, err = person.ReplaceByID(ctx, "lorem", map[string]interface{}{"name": "Charlie II", "age": 25})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	found, err = person.FindByID(ctx, "lorem")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ds := newTestDataSource(t, nil)
	person := ds.Model("person")
	for _, p := range testPersons() {
		_, err := person.Create(ctx, p)
		require.NoError(t, err)
	}
	// another model in the same subtree
	_, err := ds.Model("pet").Create(ctx, record.New("p0", map[string]interface{}{"name": "Jason"}))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, err := ds.Model("pet").DestroyAll(ctx)
		assert.NoError(t, err)
	})

	all, err := person.Find(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	// where name
	found, err := person.Find(ctx, query.New("person").Where(query.Where("name", query.SameAs, "Jason")))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Jason", found[0].Fields["name"])

	// where id in
	found, err = person.Find(ctx, query.New("person").Where(query.Where("id", query.In, []string{"0", "2"})))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "0", found[0].ID)
	assert.Equal(t, "2", found[1].ID)

	// order, offset and limit
	q, err := query.ParseQuery("query person where age == 24 orderby name offset 1 limit 1")
	require.NoError(t, err)
	found, err = person.Find(ctx, q)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "David", found[0].Fields["name"])

	found, err = person.Find(ctx, query.New("person").OrderBy("age").Offset(10))
	require.NoError(t, err)
	assert.Empty(t, found)

	count, err := person.Count(ctx, query.New("person").Where(query.Where("age", query.GreaterThan, 30)))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = person.Find(ctx, query.New("pet"))
	assert.ErrorIs(t, err, ErrModelMismatch)
	_, err = person.Find(ctx, query.New("person").Limit(-1))
	assert.Error(t, err)
}

func TestDestroy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	person := newTestDataSource(t, nil).Model("person")
	for _, p := range testPersons() {
		_, err := person.Create(ctx, p)
		require.NoError(t, err)
	}

	count, err := person.Destroy(ctx, query.New("person").Where(query.Where("id", query.In, "0,1,lorem")))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = person.DestroyAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = person.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestLocalBackends(t *testing.T) {
	t.Parallel()

	for _, backend := range []string{config.BackendBBolt, config.BackendBadger} {
		backend := backend
		t.Run(backend, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			person := newTestDataSource(t, &config.Settings{
				Backend:  backend,
				Location: t.TempDir(),
				Format:   "msgpack",
			}).Model("person")

			for _, p := range testPersons() {
				_, err := person.Create(ctx, p)
				require.NoError(t, err)
			}
			found, err := person.FindByID(ctx, "1")
			require.NoError(t, err)
			assert.Equal(t, "Mary", found.Fields["name"])

			count, err := person.Count(ctx, query.New("person").Where(query.Where("age", query.Equals, 24)))
			require.NoError(t, err)
			assert.Equal(t, 3, count)
		})
	}
}
