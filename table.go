package catalog

import (
	"context"
	"database/sql"

	"catalog/common"
	"catalog/tx"

	"github.com/pkg/errors"
)

func (s *SqliteImpl) CreateTable(ctx context.Context, tx tx.WriteTx, table *common.Table) (err error) {
	if table.Id == (common.TableId{}) {
		table.Id = common.NewTableId()
	}
	stmt := `
	INSERT INTO sl_tables
	(id, database_id, catalog, schema, name)
	VALUES
	(?, ?, ?, ?, ?)`
	if _, err = tx.Exec(stmt, table.Id, table.DatabaseId, table.Catalog, table.Schema, table.Name); err != nil {
		err = errors.Wrapf(err, "create table %s.%s", table.Schema, table.Name)
	}
	return
}

func (s *SqliteImpl) OpenTable(ctx context.Context, tx tx.ReadTx, id common.TableId) (table *common.Table, err error) {
	t := &common.Table{}
	stmt := `
	SELECT id, database_id, catalog, schema, name
	FROM sl_tables
	WHERE id = ?`
	err = tx.QueryRow(stmt, id).Scan(&t.Id, &t.DatabaseId, &t.Catalog, &t.Schema, &t.Name)
	if err == sql.ErrNoRows {
		err = errors.Wrapf(common.ErrTableNotFound, "%v", id)
		return
	}
	if err != nil {
		return
	}
	table = t
	return
}
