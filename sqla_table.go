package catalog

import (
	"context"
	"database/sql"
	"time"

	"catalog/common"
	"catalog/query"
	"catalog/tx"

	"github.com/pkg/errors"
)

var sqlaTableColumns = []query.Column{
	common.SqlaTableIdCol,
	common.SqlaTableNameCol,
	common.SqlaTableSchemaCol,
	common.SqlaTableDatabaseIdCol,
	common.SqlaTableSqlCol,
	common.SqlaTableChangedOnCol,
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSqlaTable(row rowScanner) (t *common.SqlaTable, err error) {
	t = &common.SqlaTable{}
	var definition sql.NullString
	if err = row.Scan(&t.Id, &t.TableName, &t.Schema, &t.DatabaseId, &definition, &t.ChangedOn); err != nil {
		return nil, err
	}
	if definition.Valid {
		t.Sql = &definition.String
	}
	return
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func (s *SqliteImpl) CreateSqlaTable(ctx context.Context, tx tx.WriteTx, table *common.SqlaTable) (err error) {
	if table.Id == (common.SqlaTableId{}) {
		table.Id = common.NewSqlaTableId()
	}
	if table.ChangedOn.IsZero() {
		table.ChangedOn = time.Now()
	}
	stmt := `
	INSERT INTO tables
	(id, table_name, schema, database_id, sql, changed_on)
	VALUES
	(?, ?, ?, ?, ?, ?)`
	_, err = tx.Exec(stmt,
		table.Id, table.TableName, table.Schema, table.DatabaseId,
		nullString(table.Sql), formatTime(table.ChangedOn),
	)
	if err != nil {
		err = errors.Wrapf(err, "create sqla table %s", table.TableName)
	}
	return
}

func (s *SqliteImpl) OpenSqlaTable(ctx context.Context, tx tx.ReadTx, id common.SqlaTableId) (table *common.SqlaTable, err error) {
	q := query.From(common.SqlaTables, sqlaTableColumns...).Where(query.Eq(common.SqlaTableIdCol, id))
	stmt, args, err := q.Build(s.Dialect())
	if err != nil {
		return
	}
	table, err = scanSqlaTable(tx.QueryRow(stmt, args...))
	if err == sql.ErrNoRows {
		err = errors.Wrapf(common.ErrSqlaTableNotFound, "%v", id)
	}
	return
}

// SetSqlaTableSql replaces the query behind a legacy dataset; nil clears it.
func (s *SqliteImpl) SetSqlaTableSql(ctx context.Context, tx tx.WriteTx, id common.SqlaTableId, definition *string) (err error) {
	stmt := `UPDATE tables SET sql = ?, changed_on = ? WHERE id = ?`
	result, err := tx.Exec(stmt, nullString(definition), formatTime(time.Now()), id)
	if err != nil {
		return
	}
	n, err := result.RowsAffected()
	if err != nil {
		return
	}
	if n == 0 {
		err = errors.Wrapf(common.ErrSqlaTableNotFound, "%v", id)
	}
	return
}
