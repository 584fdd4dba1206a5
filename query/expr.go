package query

import (
	"github.com/pkg/errors"
)

// Table is the name of a relation.
type Table string

func (t Table) C(name string) Column {
	return Column{Table: t, Name: name}
}

type Column struct {
	Table Table
	Name  string
}

func (c Column) String() string {
	if c.Table == "" {
		return c.Name
	}
	return string(c.Table) + "." + c.Name
}

// Expr renders itself into a Builder.
type Expr interface {
	BuildExpr(b *Builder) error
}

var (
	opAnd = "$and"
	opOr  = "$or"
	opNot = "$not"
)

const (
	opIsNull = "is_null"
	opIsTrue = "is_true"
	opEq     = "eq"
	opNotEq  = "neq"
	opEqCol  = "eq_col"
	opLike   = "like"
	opILike  = "ilike"
	opIn     = "in"
)

type connectNode struct {
	Connect    string
	ChildNodes []Expr
}

type opNode struct {
	Op    string
	Col   Column
	Other Column
	Value any
}

func And(exprs ...Expr) Expr {
	return &connectNode{Connect: opAnd, ChildNodes: exprs}
}

func Or(exprs ...Expr) Expr {
	return &connectNode{Connect: opOr, ChildNodes: exprs}
}

func Not(e Expr) Expr {
	return &connectNode{Connect: opNot, ChildNodes: []Expr{e}}
}

func IsNull(col Column) Expr {
	return &opNode{Op: opIsNull, Col: col}
}

// IsTrue compares a boolean column with true.
func IsTrue(col Column) Expr {
	return &opNode{Op: opIsTrue, Col: col}
}

func Eq(col Column, v any) Expr {
	return &opNode{Op: opEq, Col: col, Value: v}
}

func NotEq(col Column, v any) Expr {
	return &opNode{Op: opNotEq, Col: col, Value: v}
}

// EqCol compares two columns, used for join conditions.
func EqCol(left, right Column) Expr {
	return &opNode{Op: opEqCol, Col: left, Other: right}
}

func Like(col Column, pattern string) Expr {
	return &opNode{Op: opLike, Col: col, Value: pattern}
}

func ILike(col Column, pattern string) Expr {
	return &opNode{Op: opILike, Col: col, Value: pattern}
}

// In matches col against a list of values. An empty list is an error.
func In(col Column, values ...any) Expr {
	return &opNode{Op: opIn, Col: col, Value: values}
}

func (n *connectNode) BuildExpr(b *Builder) (err error) {
	if len(n.ChildNodes) == 0 {
		err = errors.Errorf("connect %s without child node", n.Connect)
		return
	}
	switch n.Connect {
	case opAnd:
		err = n.joinChild(b, "(", " AND ")
	case opOr:
		err = n.joinChild(b, "(", " OR ")
	case opNot:
		err = n.joinChild(b, "NOT (", " AND ")
	default:
		err = errors.Errorf("unsupport query connect type of %s", n.Connect)
	}
	return
}

func (n *connectNode) joinChild(b *Builder, open string, sep string) (err error) {
	end := len(n.ChildNodes) - 1
	b.WriteString(open)
	for idx, child := range n.ChildNodes {
		if child == nil {
			err = errors.Errorf("nil child node in %s", n.Connect)
			return
		}
		if err = child.BuildExpr(b); err != nil {
			return
		}
		if idx != end {
			b.WriteString(sep)
		}
	}
	b.WriteString(")")
	return
}

func (n *opNode) BuildExpr(b *Builder) (err error) {
	col := n.Col.String()
	switch n.Op {
	case opIsNull:
		b.WriteString(col + " IS NULL")
	case opIsTrue:
		b.WriteString(col + " = " + b.Bind(true))
	case opEq:
		if n.Value == nil {
			b.WriteString(col + " IS NULL")
			return
		}
		b.WriteString(col + " = " + b.Bind(n.Value))
	case opNotEq:
		if n.Value == nil {
			b.WriteString(col + " IS NOT NULL")
			return
		}
		b.WriteString(col + " != " + b.Bind(n.Value))
	case opEqCol:
		b.WriteString(col + " = " + n.Other.String())
	case opLike:
		b.WriteString(col + " LIKE " + b.Bind(n.Value))
	case opILike:
		b.WriteString(b.Dialect().ilike(col, b.Bind(n.Value)))
	case opIn:
		values, _ := n.Value.([]any)
		if len(values) == 0 {
			err = errors.Errorf("in %s without value", col)
			return
		}
		b.WriteString(col + " IN (")
		for idx, v := range values {
			if idx != 0 {
				b.WriteString(", ")
			}
			b.WriteString(b.Bind(v))
		}
		b.WriteString(")")
	default:
		err = errors.Errorf("unsupport query op type: %s", n.Op)
	}
	return
}

// BuildExpr renders a single expression for d.
func BuildExpr(d Dialect, e Expr) (stmt string, args []any, err error) {
	if e == nil {
		err = errors.New("nil expression")
		return
	}
	b := NewBuilder(d)
	if err = e.BuildExpr(b); err != nil {
		return
	}
	stmt = b.String()
	args = b.Args()
	return
}
