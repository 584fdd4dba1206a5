package filter

import (
	"context"

	"catalog/query"

	"github.com/containerd/log"
)

// Registry lists, per searchable column, the filters a request may use.
type Registry struct {
	columns []string
	filters map[string][]Filter
}

func NewRegistry() *Registry {
	return &Registry{
		columns: []string{},
		filters: map[string][]Filter{},
	}
}

// Register adds filters to col. A later filter with the same ArgName on the
// same column replaces the earlier one.
func (r *Registry) Register(col string, filters ...Filter) *Registry {
	if _, ok := r.filters[col]; !ok {
		r.columns = append(r.columns, col)
	}
	for _, f := range filters {
		replaced := false
		for idx, old := range r.filters[col] {
			if old.ArgName() == f.ArgName() {
				r.filters[col][idx] = f
				replaced = true
				break
			}
		}
		if !replaced {
			r.filters[col] = append(r.filters[col], f)
		}
	}
	return r
}

func (r *Registry) Columns() []string {
	return append([]string{}, r.columns...)
}

func (r *Registry) Filters(col string) []Filter {
	return append([]Filter{}, r.filters[col]...)
}

func (r *Registry) Lookup(col string, opr string) (f Filter, err error) {
	filters, ok := r.filters[col]
	if !ok {
		err = &InvalidFilterError{Col: col, Opr: opr}
		return
	}
	for _, item := range filters {
		if item.ArgName() == opr {
			f = item
			return
		}
	}
	err = &InvalidFilterError{Col: col, Opr: opr}
	return
}

// ColumnOf finds the first column that offers opr.
func (r *Registry) ColumnOf(opr string) (col string, ok bool) {
	for _, c := range r.columns {
		for _, f := range r.filters[c] {
			if f.ArgName() == opr {
				return c, true
			}
		}
	}
	return
}

// Apply looks up the filter for arg and applies it to q.
func (r *Registry) Apply(ctx context.Context, q *query.Query, arg Arg) (*query.Query, error) {
	f, err := r.Lookup(arg.Col, arg.Opr)
	if err != nil {
		return nil, err
	}
	nq, err := f.Apply(ctx, q, arg.Value)
	if err != nil {
		return nil, &InvalidFilterError{Col: arg.Col, Opr: arg.Opr, Value: arg.Value, Err: err}
	}
	log.G(ctx).WithFields(log.Fields{
		"col":    arg.Col,
		"filter": arg.Opr,
	}).Debug("apply filter")
	return nq, nil
}
