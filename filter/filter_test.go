package filter_test

import (
	"context"
	"testing"

	"catalog/common"
	"catalog/filter"
	"catalog/query"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const joinTables = " JOIN sl_dataset_tables ON sl_dataset_tables.dataset_id = sl_datasets.id" +
	" JOIN sl_tables ON sl_dataset_tables.table_id = sl_tables.id"

func build(t *testing.T, q *query.Query) (string, []any) {
	t.Helper()
	stmt, args, err := q.Build(query.SQLite)
	require.NoError(t, err)
	return stmt, args
}

func TestDatasetIsNullOrEmpty(t *testing.T) {
	ctx := context.Background()
	base := query.From(common.SqlaTables, common.SqlaTableIdCol)
	f := filter.DatasetIsNullOrEmpty{}
	assert.Equal(t, "Null or Empty", f.Name())
	assert.Equal(t, "dataset_is_null_or_empty", f.ArgName())

	for _, value := range []any{true, "true", "1", 1, float64(1)} {
		q, err := f.Apply(ctx, base, value)
		require.NoError(t, err, value)
		stmt, args := build(t, q)
		assert.Equal(t, "SELECT tables.id FROM tables WHERE (tables.sql IS NULL OR tables.sql = ?)", stmt, value)
		assert.Equal(t, []any{""}, args)
	}

	for _, value := range []any{false, "false", "0", 0, float64(0), nil, "", "  "} {
		q, err := f.Apply(ctx, base, value)
		require.NoError(t, err, value)
		stmt, _ := build(t, q)
		assert.Equal(t, "SELECT tables.id FROM tables WHERE NOT ((tables.sql IS NULL OR tables.sql = ?))", stmt, value)
	}

	_, err := f.Apply(ctx, base, "maybe")
	assert.True(t, errdefs.IsInvalidArgument(err))
	assert.Empty(t, base.Filters())
}

func TestDatasetIsPhysicalOrVirtual(t *testing.T) {
	ctx := context.Background()
	base := query.From(common.Datasets, common.DatasetIdCol)
	f := filter.DatasetIsPhysicalOrVirtual{}

	q, err := f.Apply(ctx, base, true)
	require.NoError(t, err)
	stmt, args := build(t, q)
	assert.Equal(t, "SELECT sl_datasets.id FROM sl_datasets WHERE sl_datasets.is_physical = ?", stmt)
	assert.Equal(t, []any{true}, args)

	q, err = f.Apply(ctx, base, false)
	require.NoError(t, err)
	stmt, _ = build(t, q)
	assert.Equal(t, "SELECT sl_datasets.id FROM sl_datasets WHERE NOT (sl_datasets.is_physical = ?)", stmt)
}

func TestDatasetAllText(t *testing.T) {
	ctx := context.Background()
	base := query.From(common.Datasets, common.DatasetIdCol)
	f := filter.DatasetAllText{}

	for _, value := range []any{nil, "", "   ", false, 0, float64(0), []any{}} {
		q, err := f.Apply(ctx, base, value)
		require.NoError(t, err)
		assert.Same(t, base, q, value)
	}

	q, err := f.Apply(ctx, base, "Sales")
	require.NoError(t, err)
	stmt, args := build(t, q)
	assert.Equal(t, "SELECT sl_datasets.id FROM sl_datasets WHERE "+
		"(LOWER(sl_datasets.name) LIKE LOWER(?) OR LOWER(sl_datasets.expression) LIKE LOWER(?))", stmt)
	assert.Equal(t, []any{"%Sales%", "%Sales%"}, args)

	q, err = f.Apply(ctx, base, float64(2024))
	require.NoError(t, err)
	_, args = build(t, q)
	assert.Equal(t, []any{"%2024%", "%2024%"}, args)

	// 非空值原样拼进模式
	q, err = f.Apply(ctx, base, " Sales ")
	require.NoError(t, err)
	_, args = build(t, q)
	assert.Equal(t, []any{"% Sales %", "% Sales %"}, args)

	q, err = f.Apply(ctx, base, true)
	require.NoError(t, err)
	_, args = build(t, q)
	assert.Equal(t, []any{"%true%", "%true%"}, args)
}

func TestDatasetSchemaAndDatabase(t *testing.T) {
	ctx := context.Background()
	base := query.From(common.Datasets, common.DatasetIdCol)
	schema := filter.DatasetSchema{}
	database := filter.DatasetDatabase{}

	t.Run("Test Empty Value", func(t *testing.T) {
		q, err := schema.Apply(ctx, base, "")
		require.NoError(t, err)
		assert.Same(t, base, q)
		q, err = database.Apply(ctx, base, nil)
		require.NoError(t, err)
		assert.Same(t, base, q)

		for _, value := range []any{false, 0, float64(0)} {
			q, err = schema.Apply(ctx, base, value)
			require.NoError(t, err)
			assert.Same(t, base, q, value)
			q, err = database.Apply(ctx, base, value)
			require.NoError(t, err)
			assert.Same(t, base, q, value)
		}
	})

	t.Run("Test Schema Kept As Given", func(t *testing.T) {
		q, err := schema.Apply(ctx, base, " public ")
		require.NoError(t, err)
		_, args := build(t, q)
		assert.Equal(t, []any{" public "}, args)
	})

	t.Run("Test Schema", func(t *testing.T) {
		q, err := schema.Apply(ctx, base, "public")
		require.NoError(t, err)
		stmt, args := build(t, q)
		assert.Equal(t, "SELECT DISTINCT sl_datasets.id FROM sl_datasets"+joinTables+" WHERE sl_tables.schema = ?", stmt)
		assert.Equal(t, []any{"public"}, args)
	})

	t.Run("Test Schema And Database Share Join", func(t *testing.T) {
		dbid := common.NewDatabaseId()
		q, err := schema.Apply(ctx, base, "public")
		require.NoError(t, err)
		q, err = database.Apply(ctx, q, dbid.String())
		require.NoError(t, err)
		stmt, args := build(t, q)
		assert.Equal(t, "SELECT DISTINCT sl_datasets.id FROM sl_datasets"+joinTables+
			" WHERE (sl_tables.schema = ? AND sl_tables.database_id = ?)", stmt)
		assert.Equal(t, []any{"public", dbid}, args)
	})

	t.Run("Test Bad Database Id", func(t *testing.T) {
		_, err := database.Apply(ctx, base, "not-an-id")
		require.Error(t, err)
		assert.True(t, errdefs.IsInvalidArgument(err))
	})
}

func TestColumnFilters(t *testing.T) {
	ctx := context.Background()
	base := query.From(common.SqlaTables, common.SqlaTableIdCol)
	col := common.SqlaTableNameCol

	cases := []struct {
		f    filter.Filter
		stmt string
		arg  string
	}{
		{filter.Equal{Column: col}, "tables.table_name = ?", "orders"},
		{filter.NotEqual{Column: col}, "tables.table_name != ?", "orders"},
		{filter.Contains{Column: col}, "LOWER(tables.table_name) LIKE LOWER(?)", "%orders%"},
		{filter.StartsWith{Column: col}, "LOWER(tables.table_name) LIKE LOWER(?)", "orders%"},
	}
	for _, c := range cases {
		q, err := c.f.Apply(ctx, base, "orders")
		require.NoError(t, err)
		stmt, args := build(t, q)
		assert.Equal(t, "SELECT tables.id FROM tables WHERE "+c.stmt, stmt, c.f.ArgName())
		assert.Equal(t, []any{c.arg}, args)

		for _, value := range []any{"", false, 0} {
			q, err = c.f.Apply(ctx, base, value)
			require.NoError(t, err)
			assert.Same(t, base, q, value)
		}
	}
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	r := filter.NewRegistry().
		Register("tables", filter.DatasetSchema{}, filter.DatasetDatabase{}).
		Register("name", filter.DatasetAllText{})

	assert.Equal(t, []string{"tables", "name"}, r.Columns())
	assert.Len(t, r.Filters("tables"), 2)

	f, err := r.Lookup("tables", "db")
	require.NoError(t, err)
	assert.Equal(t, "Database", f.Name())

	_, err = r.Lookup("tables", "dataset_all_text")
	require.Error(t, err)
	assert.True(t, errdefs.IsInvalidArgument(err))
	assert.Equal(t, "invalid filter 'tables=dataset_all_text'", err.Error())

	_, err = r.Lookup("owner", "eq")
	assert.True(t, errdefs.IsInvalidArgument(err))

	col, ok := r.ColumnOf("schema")
	assert.True(t, ok)
	assert.Equal(t, "tables", col)
	_, ok = r.ColumnOf("sw")
	assert.False(t, ok)

	base := query.From(common.Datasets, common.DatasetIdCol)
	q, err := r.Apply(ctx, base, filter.Arg{Col: "name", Opr: "dataset_all_text", Value: "x"})
	require.NoError(t, err)
	assert.Len(t, q.Filters(), 1)

	_, err = r.Apply(ctx, base, filter.Arg{Col: "tables", Opr: "db", Value: "zzz"})
	require.Error(t, err)
	var invalid *filter.InvalidFilterError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "tables", invalid.Col)
	assert.Equal(t, "db", invalid.Opr)
	assert.Equal(t, "zzz", invalid.Value)
	assert.Contains(t, err.Error(), `invalid filter 'tables=db' with value "zzz"`)
	assert.True(t, errdefs.IsInvalidArgument(err))

	// 同名操作符替换旧的
	r.Register("name", filter.DatasetAllText{})
	assert.Len(t, r.Filters("name"), 1)
}
