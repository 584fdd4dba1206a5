package query

import (
	"fmt"

	"github.com/pkg/errors"
)

type join struct {
	table Table
	on    Expr
}

type sortNode struct {
	col  Column
	desc bool
}

// Query is an immutable SELECT under construction. Every method returns a
// new Query and leaves the receiver untouched.
type Query struct {
	table    Table
	columns  []Column
	joins    []join
	filter   []Expr
	sort     []sortNode
	limit    int
	offset   int
	distinct bool
}

// From starts a query on table. The first column is the key used by
// BuildCount once the query has joins.
func From(table Table, cols ...Column) *Query {
	return &Query{
		table:   table,
		columns: append([]Column{}, cols...),
	}
}

func (q *Query) clone() *Query {
	n := *q
	n.columns = append([]Column{}, q.columns...)
	n.joins = append([]join{}, q.joins...)
	n.filter = append([]Expr{}, q.filter...)
	n.sort = append([]sortNode{}, q.sort...)
	return &n
}

func (q *Query) Table() Table {
	return q.table
}

func (q *Query) Joined(t Table) bool {
	for _, j := range q.joins {
		if j.table == t {
			return true
		}
	}
	return false
}

// Join adds an inner join. Joining a table twice keeps the first join.
func (q *Query) Join(t Table, on Expr) *Query {
	if q.Joined(t) {
		return q
	}
	n := q.clone()
	n.joins = append(n.joins, join{table: t, on: on})
	n.distinct = true
	return n
}

// Where ANDs e onto the existing clauses.
func (q *Query) Where(e Expr) *Query {
	n := q.clone()
	n.filter = append(n.filter, e)
	return n
}

func (q *Query) OrderBy(col Column, desc bool) *Query {
	n := q.clone()
	n.sort = append(n.sort, sortNode{col: col, desc: desc})
	return n
}

// Limit takes effect only when positive; offset is rendered with it.
func (q *Query) Limit(limit int) *Query {
	n := q.clone()
	n.limit = limit
	return n
}

func (q *Query) Offset(offset int) *Query {
	n := q.clone()
	n.offset = offset
	return n
}

func (q *Query) Filters() []Expr {
	return append([]Expr{}, q.filter...)
}

func (q *Query) buildJoin(b *Builder) (err error) {
	for _, j := range q.joins {
		b.WriteString(fmt.Sprintf(" JOIN %s ON ", j.table))
		if j.on == nil {
			err = errors.Errorf("join %s without condition", j.table)
			return
		}
		if err = j.on.BuildExpr(b); err != nil {
			return
		}
	}
	return
}

func (q *Query) buildFilter(b *Builder) (err error) {
	switch len(q.filter) {
	case 0:
		return
	case 1:
		b.WriteString(" WHERE ")
		if q.filter[0] == nil {
			return errors.New("nil where clause")
		}
		err = q.filter[0].BuildExpr(b)
	default:
		b.WriteString(" WHERE ")
		err = And(q.filter...).BuildExpr(b)
	}
	return
}

func (q *Query) buildSort(b *Builder) {
	if len(q.sort) == 0 {
		return
	}
	b.WriteString(" ORDER BY ")
	sortLen := len(q.sort)
	for idx, s := range q.sort {
		b.WriteString(s.col.String())
		if s.desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
		if idx != sortLen-1 {
			b.WriteString(", ")
		}
	}
}

// Build renders the SELECT statement with its args.
func (q *Query) Build(d Dialect) (stmt string, args []any, err error) {
	if q.table == "" {
		err = errors.New("query without table")
		return
	}
	b := NewBuilder(d)
	b.WriteString("SELECT ")
	if q.distinct {
		b.WriteString("DISTINCT ")
	}
	if len(q.columns) == 0 {
		b.WriteString(fmt.Sprintf("%s.*", q.table))
	}
	for idx, col := range q.columns {
		if idx != 0 {
			b.WriteString(", ")
		}
		b.WriteString(col.String())
	}
	b.WriteString(fmt.Sprintf(" FROM %s", q.table))
	if err = q.buildJoin(b); err != nil {
		return
	}
	if err = q.buildFilter(b); err != nil {
		return
	}
	q.buildSort(b)
	if q.limit > 0 {
		b.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", q.limit, q.offset))
	}
	stmt = b.String()
	args = b.Args()
	return
}

// BuildCount renders a COUNT over the same joins and clauses, ignoring
// order and pagination.
func (q *Query) BuildCount(d Dialect) (stmt string, args []any, err error) {
	if q.table == "" {
		err = errors.New("query without table")
		return
	}
	b := NewBuilder(d)
	if q.distinct && len(q.columns) > 0 {
		b.WriteString(fmt.Sprintf("SELECT COUNT(DISTINCT %s)", q.columns[0]))
	} else {
		b.WriteString("SELECT COUNT(*)")
	}
	b.WriteString(fmt.Sprintf(" FROM %s", q.table))
	if err = q.buildJoin(b); err != nil {
		return
	}
	if err = q.buildFilter(b); err != nil {
		return
	}
	stmt = b.String()
	args = b.Args()
	return
}
