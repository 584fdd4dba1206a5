package catalog

import (
	"context"
	"time"

	"catalog/common"
	"catalog/filter"
	"catalog/query"
	"catalog/tx"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/pkg/errors"
)

// ListResult is one page of a list view plus the total number of matches.
type ListResult[T any] struct {
	Count  int
	Ids    []string
	Result []T
}

// resource 描述一个列表页：基础查询、可搜索的列、可排序的列
type resource[T any] struct {
	name         string
	base         *query.Query
	search       *filter.Registry
	order        map[string]query.Column
	key          query.Column
	defaultOrder string
	scan         func(row rowScanner) (T, error)
	id           func(T) string
}

var datasetResource = &resource[*common.Dataset]{
	name: "datasets",
	base: query.From(common.Datasets, datasetColumns...),
	search: filter.NewRegistry().
		Register("name",
			filter.DatasetAllText{},
			filter.Equal{Column: common.DatasetNameCol},
			filter.Contains{Column: common.DatasetNameCol},
			filter.StartsWith{Column: common.DatasetNameCol},
		).
		Register("is_physical", filter.DatasetIsPhysicalOrVirtual{}).
		Register("tables", filter.DatasetSchema{}, filter.DatasetDatabase{}),
	order: map[string]query.Column{
		"name":       common.DatasetNameCol,
		"changed_on": common.DatasetChangedOnCol,
	},
	key:          common.DatasetIdCol,
	defaultOrder: "changed_on",
	scan:         scanDataset,
	id:           func(d *common.Dataset) string { return d.Id.String() },
}

var sqlaTableResource = &resource[*common.SqlaTable]{
	name: "tables",
	base: query.From(common.SqlaTables, sqlaTableColumns...),
	search: filter.NewRegistry().
		Register("sql", filter.DatasetIsNullOrEmpty{}).
		Register("table_name",
			filter.Equal{Column: common.SqlaTableNameCol},
			filter.Contains{Column: common.SqlaTableNameCol},
			filter.StartsWith{Column: common.SqlaTableNameCol},
		).
		Register("schema",
			filter.Equal{Column: common.SqlaTableSchemaCol},
			filter.NotEqual{Column: common.SqlaTableSchemaCol},
		),
	order: map[string]query.Column{
		"table_name": common.SqlaTableNameCol,
		"schema":     common.SqlaTableSchemaCol,
		"changed_on": common.SqlaTableChangedOnCol,
	},
	key:          common.SqlaTableIdCol,
	defaultOrder: "changed_on",
	scan:         scanSqlaTable,
	id:           func(t *common.SqlaTable) string { return t.Id.String() },
}

// DatasetSearch exposes the dataset search registry, e.g. for ArgsFromValues.
func DatasetSearch() *filter.Registry {
	return datasetResource.search
}

func SqlaTableSearch() *filter.Registry {
	return sqlaTableResource.search
}

func (s *SqliteImpl) ListDatasets(ctx context.Context, tx tx.ReadTx, args filter.Args) (ret *ListResult[*common.Dataset], err error) {
	ret, err = list(ctx, s, tx, datasetResource, args)
	if err != nil {
		return
	}
	err = s.loadDatasetTables(tx, ret.Result)
	return
}

func (s *SqliteImpl) ListSqlaTables(ctx context.Context, tx tx.ReadTx, args filter.Args) (*ListResult[*common.SqlaTable], error) {
	return list(ctx, s, tx, sqlaTableResource, args)
}

// buildQuery 把请求里的过滤、排序、分页叠加到基础查询上
func buildQuery[T any](ctx context.Context, s *SqliteImpl, r *resource[T], args filter.Args) (q *query.Query, err error) {
	if err = args.Validate(); err != nil {
		return
	}
	logger := log.G(ctx).WithField("resource", r.name)

	q = r.base
	for _, arg := range args.Filters {
		q, err = r.search.Apply(ctx, q, arg)
		if err != nil {
			s.metrics.FilterRejected(r.name)
			logger.WithError(err).Warn("reject filter")
			return nil, err
		}
		s.metrics.FilterApplied(r.name, arg.Opr)
	}

	orderColumn := args.OrderColumn
	if orderColumn == "" {
		orderColumn = r.defaultOrder
	}
	col, ok := r.order[orderColumn]
	if !ok {
		err = errors.Wrapf(errdefs.ErrInvalidArgument, "cannot order %s by %q", r.name, orderColumn)
		return nil, err
	}
	desc := args.OrderDirection != filter.OrderAsc
	q = q.OrderBy(col, desc).OrderBy(r.key, false)

	pageSize := args.PageSize
	if pageSize == 0 {
		pageSize = s.config.List.PageSize
	}
	if maxSize := s.config.List.MaxPageSize; maxSize > 0 && pageSize > maxSize {
		pageSize = maxSize
	}
	q = q.Limit(pageSize).Offset(args.Page * pageSize)
	return
}

func list[T any](ctx context.Context, s *SqliteImpl, tx tx.ReadTx, r *resource[T], args filter.Args) (ret *ListResult[T], err error) {
	start := time.Now()
	defer s.metrics.ObserveList(r.name, start)

	q, err := buildQuery(ctx, s, r, args)
	if err != nil {
		return
	}

	countStmt, countArgs, err := q.BuildCount(s.Dialect())
	if err != nil {
		return
	}
	ret = &ListResult[T]{
		Ids:    []string{},
		Result: []T{},
	}
	if err = tx.QueryRow(countStmt, countArgs...).Scan(&ret.Count); err != nil {
		return nil, errors.Wrapf(err, "count %s", r.name)
	}

	stmt, stmtArgs, err := q.Build(s.Dialect())
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(stmt, stmtArgs...)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", r.name)
	}
	defer rows.Close()
	for rows.Next() {
		var item T
		if item, err = r.scan(rows); err != nil {
			return nil, err
		}
		ret.Result = append(ret.Result, item)
		ret.Ids = append(ret.Ids, r.id(item))
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	log.G(ctx).WithFields(log.Fields{
		"resource": r.name,
		"count":    ret.Count,
		"page":     len(ret.Result),
		"duration": time.Since(start),
	}).Debug("list")
	return
}
