package filter

import (
	"context"

	"catalog/common"
	"catalog/query"

	"github.com/containerd/log"
	"github.com/pkg/errors"
)

const (
	ArgDatasetIsNullOrEmpty       = "dataset_is_null_or_empty"
	ArgDatasetIsPhysicalOrVirtual = "dataset_is_physical_or_virtual"
	ArgDatasetAllText             = "dataset_all_text"
	ArgSchema                     = "schema"
	ArgDatabase                   = "db"
)

// DatasetIsNullOrEmpty keeps legacy datasets whose sql is missing or
// blank, or the opposite when the value is false.
type DatasetIsNullOrEmpty struct{}

func (DatasetIsNullOrEmpty) Name() string    { return "Null or Empty" }
func (DatasetIsNullOrEmpty) ArgName() string { return ArgDatasetIsNullOrEmpty }

func (f DatasetIsNullOrEmpty) Apply(ctx context.Context, q *query.Query, value any) (*query.Query, error) {
	v, err := truthy(f.ArgName(), value)
	if err != nil {
		return nil, err
	}
	clause := query.Or(
		query.IsNull(common.SqlaTableSqlCol),
		query.Eq(common.SqlaTableSqlCol, ""),
	)
	if !v {
		clause = query.Not(clause)
	}
	return q.Where(clause), nil
}

// DatasetIsPhysicalOrVirtual keeps physical datasets, or virtual ones
// when the value is false.
type DatasetIsPhysicalOrVirtual struct{}

func (DatasetIsPhysicalOrVirtual) Name() string    { return "Physical or Virtual" }
func (DatasetIsPhysicalOrVirtual) ArgName() string { return ArgDatasetIsPhysicalOrVirtual }

func (f DatasetIsPhysicalOrVirtual) Apply(ctx context.Context, q *query.Query, value any) (*query.Query, error) {
	v, err := truthy(f.ArgName(), value)
	if err != nil {
		return nil, err
	}
	clause := query.IsTrue(common.DatasetIsPhysicalCol)
	if !v {
		clause = query.Not(clause)
	}
	return q.Where(clause), nil
}

// DatasetAllText matches the value anywhere in the dataset name or
// expression, ignoring case.
type DatasetAllText struct{}

func (DatasetAllText) Name() string    { return "All Text" }
func (DatasetAllText) ArgName() string { return ArgDatasetAllText }

func (f DatasetAllText) Apply(ctx context.Context, q *query.Query, value any) (*query.Query, error) {
	if isEmpty(value) {
		log.G(ctx).WithField("filter", f.ArgName()).Debug("skip filter without value")
		return q, nil
	}
	s, err := toString(f.ArgName(), value)
	if err != nil {
		return nil, err
	}
	pattern := "%" + s + "%"
	return q.Where(query.Or(
		query.ILike(common.DatasetNameCol, pattern),
		query.ILike(common.DatasetExpressionCol, pattern),
	)), nil
}

// 数据集通过关联表连到物理表
func joinDatasetTables(q *query.Query) *query.Query {
	return q.
		Join(common.DatasetTables, query.EqCol(common.DatasetTablesDatasetIdCol, common.DatasetIdCol)).
		Join(common.Tables, query.EqCol(common.DatasetTablesTableIdCol, common.TableIdCol))
}

// DatasetSchema keeps datasets built on a table in the given schema.
type DatasetSchema struct{}

func (DatasetSchema) Name() string    { return "Schema" }
func (DatasetSchema) ArgName() string { return ArgSchema }

func (f DatasetSchema) Apply(ctx context.Context, q *query.Query, value any) (*query.Query, error) {
	if isEmpty(value) {
		log.G(ctx).WithField("filter", f.ArgName()).Debug("skip filter without value")
		return q, nil
	}
	schema, err := toString(f.ArgName(), value)
	if err != nil {
		return nil, err
	}
	return joinDatasetTables(q).Where(query.Eq(common.TableSchemaCol, schema)), nil
}

// DatasetDatabase keeps datasets built on a table of the given database.
type DatasetDatabase struct{}

func (DatasetDatabase) Name() string    { return "Database" }
func (DatasetDatabase) ArgName() string { return ArgDatabase }

func (f DatasetDatabase) Apply(ctx context.Context, q *query.Query, value any) (*query.Query, error) {
	if isEmpty(value) {
		log.G(ctx).WithField("filter", f.ArgName()).Debug("skip filter without value")
		return q, nil
	}
	var dbid common.DatabaseId
	switch v := value.(type) {
	case common.DatabaseId:
		dbid = v
	default:
		s, err := toString(f.ArgName(), value)
		if err != nil {
			return nil, err
		}
		if dbid, err = common.ParseDatabaseId(s); err != nil {
			return nil, errors.Wrap(err, f.ArgName())
		}
	}
	return joinDatasetTables(q).Where(query.Eq(common.TableDatabaseIdCol, dbid)), nil
}
