package query_test

import (
	"testing"

	"catalog/query"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	items    query.Table = "items"
	itemTags query.Table = "item_tags"
	tags     query.Table = "tags"
)

// 解析回 where 子句，确认生成的是合法 SQL
func parseWhere(t *testing.T, stmt string) sqlparser.Expr {
	t.Helper()
	parsed, err := sqlparser.Parse("SELECT * FROM items WHERE " + stmt)
	require.NoError(t, err, stmt)
	sel, ok := parsed.(*sqlparser.Select)
	require.True(t, ok)
	require.NotNil(t, sel.Where)
	return sel.Where.Expr
}

func TestBuildExpr(t *testing.T) {
	t.Run("Test Or Connect", func(t *testing.T) {
		e := query.Or(query.IsNull(items.C("body")), query.Eq(items.C("body"), ""))
		stmt, args, err := query.BuildExpr(query.SQLite, e)
		require.NoError(t, err)
		assert.Equal(t, "(items.body IS NULL OR items.body = ?)", stmt)
		assert.Equal(t, []any{""}, args)

		_, ok := parseWhere(t, stmt).(*sqlparser.ParenExpr)
		assert.True(t, ok)
	})

	t.Run("Test Not Connect", func(t *testing.T) {
		e := query.Not(query.IsTrue(items.C("active")))
		stmt, args, err := query.BuildExpr(query.SQLite, e)
		require.NoError(t, err)
		assert.Equal(t, "NOT (items.active = ?)", stmt)
		assert.Equal(t, []any{true}, args)

		_, ok := parseWhere(t, stmt).(*sqlparser.NotExpr)
		assert.True(t, ok)
	})

	t.Run("Test ILike Dialect", func(t *testing.T) {
		e := query.Or(
			query.ILike(items.C("title"), "%foo%"),
			query.ILike(items.C("body"), "%foo%"),
		)
		stmt, args, err := query.BuildExpr(query.SQLite, e)
		require.NoError(t, err)
		assert.Equal(t, "(LOWER(items.title) LIKE LOWER(?) OR LOWER(items.body) LIKE LOWER(?))", stmt)
		assert.Equal(t, []any{"%foo%", "%foo%"}, args)
		parseWhere(t, stmt)

		stmt, _, err = query.BuildExpr(query.Postgres, e)
		require.NoError(t, err)
		assert.Equal(t, "(items.title ILIKE $1 OR items.body ILIKE $2)", stmt)
	})

	t.Run("Test Eq Nil", func(t *testing.T) {
		stmt, args, err := query.BuildExpr(query.SQLite, query.Eq(items.C("owner"), nil))
		require.NoError(t, err)
		assert.Equal(t, "items.owner IS NULL", stmt)
		assert.Empty(t, args)

		stmt, _, err = query.BuildExpr(query.SQLite, query.NotEq(items.C("owner"), nil))
		require.NoError(t, err)
		assert.Equal(t, "items.owner IS NOT NULL", stmt)
	})

	t.Run("Test In", func(t *testing.T) {
		stmt, args, err := query.BuildExpr(query.Postgres, query.In(items.C("id"), "a", "b", "c"))
		require.NoError(t, err)
		assert.Equal(t, "items.id IN ($1, $2, $3)", stmt)
		assert.Equal(t, []any{"a", "b", "c"}, args)

		_, _, err = query.BuildExpr(query.SQLite, query.In(items.C("id")))
		assert.Error(t, err)
	})

	t.Run("Test Empty Connect", func(t *testing.T) {
		_, _, err := query.BuildExpr(query.SQLite, query.And())
		assert.Error(t, err)
		_, _, err = query.BuildExpr(query.SQLite, nil)
		assert.Error(t, err)
		_, _, err = query.BuildExpr(query.SQLite, query.Or(query.IsNull(items.C("a")), nil))
		assert.Error(t, err)
	})
}

func TestQueryBuild(t *testing.T) {
	base := query.From(items, items.C("id"), items.C("title"))

	t.Run("Test Plain Select", func(t *testing.T) {
		stmt, args, err := base.Build(query.SQLite)
		require.NoError(t, err)
		assert.Equal(t, "SELECT items.id, items.title FROM items", stmt)
		assert.Empty(t, args)
	})

	t.Run("Test Where Does Not Mutate", func(t *testing.T) {
		q := base.Where(query.Eq(items.C("title"), "a"))
		assert.Len(t, q.Filters(), 1)
		assert.Empty(t, base.Filters())

		q2 := q.Where(query.Not(query.IsNull(items.C("body"))))
		stmt, args, err := q2.Build(query.SQLite)
		require.NoError(t, err)
		assert.Equal(t, "SELECT items.id, items.title FROM items WHERE (items.title = ? AND NOT (items.body IS NULL))", stmt)
		assert.Equal(t, []any{"a"}, args)
		assert.Len(t, q.Filters(), 1)
	})

	t.Run("Test Join Once", func(t *testing.T) {
		joinTags := func(q *query.Query) *query.Query {
			return q.
				Join(itemTags, query.EqCol(itemTags.C("item_id"), items.C("id"))).
				Join(tags, query.EqCol(itemTags.C("tag_id"), tags.C("id")))
		}
		q := joinTags(base).Where(query.Eq(tags.C("name"), "red"))
		q = joinTags(q).Where(query.Eq(tags.C("kind"), "color"))
		assert.True(t, q.Joined(tags))
		assert.False(t, base.Joined(tags))

		stmt, args, err := q.OrderBy(items.C("title"), true).Limit(25).Offset(50).Build(query.SQLite)
		require.NoError(t, err)
		assert.Equal(t,
			"SELECT DISTINCT items.id, items.title FROM items"+
				" JOIN item_tags ON item_tags.item_id = items.id"+
				" JOIN tags ON item_tags.tag_id = tags.id"+
				" WHERE (tags.name = ? AND tags.kind = ?)"+
				" ORDER BY items.title DESC LIMIT 25 OFFSET 50",
			stmt)
		assert.Equal(t, []any{"red", "color"}, args)

		stmt, args, err = q.BuildCount(query.Postgres)
		require.NoError(t, err)
		assert.Equal(t,
			"SELECT COUNT(DISTINCT items.id) FROM items"+
				" JOIN item_tags ON item_tags.item_id = items.id"+
				" JOIN tags ON item_tags.tag_id = tags.id"+
				" WHERE (tags.name = $1 AND tags.kind = $2)",
			stmt)
		assert.Equal(t, []any{"red", "color"}, args)
	})

	t.Run("Test Count Without Join", func(t *testing.T) {
		stmt, _, err := base.Where(query.IsNull(items.C("body"))).Limit(10).BuildCount(query.SQLite)
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM items WHERE items.body IS NULL", stmt)
	})

	t.Run("Test Missing Table", func(t *testing.T) {
		_, _, err := query.From("").Build(query.SQLite)
		assert.Error(t, err)
		_, _, err = query.From("").BuildCount(query.SQLite)
		assert.Error(t, err)
	})

	t.Run("Test Star Select", func(t *testing.T) {
		stmt, _, err := query.From(tags).OrderBy(tags.C("name"), false).Build(query.SQLite)
		require.NoError(t, err)
		assert.Equal(t, "SELECT tags.* FROM tags ORDER BY tags.name ASC", stmt)
	})
}
