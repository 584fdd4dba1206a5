package catalog

import (
	"context"

	"catalog/common"
	"catalog/config"
	"catalog/filter"
	"catalog/tx"
)

type Catalog interface {
	// 打开数据库
	Open(ctx context.Context, dbPath string, cfg *config.Config) error
	ReadTx(ctx context.Context) (tx.ReadTx, error)
	WriteTx(ctx context.Context) (tx.WriteTx, error)
	// 关闭数据库
	Close(ctx context.Context) error

	CreateDatabase(ctx context.Context, tx tx.WriteTx, database *common.Database) error
	OpenDatabase(ctx context.Context, tx tx.ReadTx, id common.DatabaseId) (*common.Database, error)

	CreateTable(ctx context.Context, tx tx.WriteTx, table *common.Table) error
	OpenTable(ctx context.Context, tx tx.ReadTx, id common.TableId) (*common.Table, error)

	CreateSqlaTable(ctx context.Context, tx tx.WriteTx, table *common.SqlaTable) error
	OpenSqlaTable(ctx context.Context, tx tx.ReadTx, id common.SqlaTableId) (*common.SqlaTable, error)
	SetSqlaTableSql(ctx context.Context, tx tx.WriteTx, id common.SqlaTableId, definition *string) error

	CreateDataset(ctx context.Context, tx tx.WriteTx, dataset *common.Dataset) error
	OpenDataset(ctx context.Context, tx tx.ReadTx, id common.DatasetId) (*common.Dataset, error)
	DeleteDataset(ctx context.Context, tx tx.WriteTx, id common.DatasetId) error

	// 列表页
	ListDatasets(ctx context.Context, tx tx.ReadTx, args filter.Args) (*ListResult[*common.Dataset], error)
	ListSqlaTables(ctx context.Context, tx tx.ReadTx, args filter.Args) (*ListResult[*common.SqlaTable], error)
}

var _ Catalog = (*SqliteImpl)(nil)
