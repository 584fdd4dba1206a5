package filter

import (
	"context"

	"catalog/query"

	"github.com/containerd/log"
)

const (
	OprEqual      = "eq"
	OprNotEqual   = "neq"
	OprContains   = "ct"
	OprStartsWith = "sw"
)

// Equal, NotEqual, Contains and StartsWith are the plain column operators
// every searchable column may offer. An empty value leaves the query as is.
type Equal struct{ Column query.Column }

type NotEqual struct{ Column query.Column }

type Contains struct{ Column query.Column }

type StartsWith struct{ Column query.Column }

func (Equal) Name() string         { return "Equal to" }
func (Equal) ArgName() string      { return OprEqual }
func (NotEqual) Name() string      { return "Not Equal to" }
func (NotEqual) ArgName() string   { return OprNotEqual }
func (Contains) Name() string      { return "Contains" }
func (Contains) ArgName() string   { return OprContains }
func (StartsWith) Name() string    { return "Starts with" }
func (StartsWith) ArgName() string { return OprStartsWith }

func (f Equal) Apply(ctx context.Context, q *query.Query, value any) (*query.Query, error) {
	return applyColumn(ctx, q, f, value, func(s string) query.Expr {
		return query.Eq(f.Column, s)
	})
}

func (f NotEqual) Apply(ctx context.Context, q *query.Query, value any) (*query.Query, error) {
	return applyColumn(ctx, q, f, value, func(s string) query.Expr {
		return query.NotEq(f.Column, s)
	})
}

func (f Contains) Apply(ctx context.Context, q *query.Query, value any) (*query.Query, error) {
	return applyColumn(ctx, q, f, value, func(s string) query.Expr {
		return query.ILike(f.Column, "%"+s+"%")
	})
}

func (f StartsWith) Apply(ctx context.Context, q *query.Query, value any) (*query.Query, error) {
	return applyColumn(ctx, q, f, value, func(s string) query.Expr {
		return query.ILike(f.Column, s+"%")
	})
}

func applyColumn(ctx context.Context, q *query.Query, f Filter, value any, clause func(string) query.Expr) (*query.Query, error) {
	if isEmpty(value) {
		log.G(ctx).WithField("filter", f.ArgName()).Debug("skip filter without value")
		return q, nil
	}
	s, err := toString(f.ArgName(), value)
	if err != nil {
		return nil, err
	}
	return q.Where(clause(s)), nil
}
