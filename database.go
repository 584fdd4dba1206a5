package catalog

import (
	"context"
	"database/sql"
	"time"

	"catalog/common"
	"catalog/tx"

	"github.com/pkg/errors"
)

const timeLayout = "2006-01-02 15:04:05.000000"

// 固定宽度，按字符串排序即按时间排序
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func (s *SqliteImpl) CreateDatabase(ctx context.Context, tx tx.WriteTx, database *common.Database) (err error) {
	if database.Id == (common.DatabaseId{}) {
		database.Id = common.NewDatabaseId()
	}
	stmt := `
	INSERT INTO dbs
	(id, database_name, backend)
	VALUES
	(?, ?, ?)`
	if _, err = tx.Exec(stmt, database.Id, database.Name, database.Backend); err != nil {
		err = errors.Wrapf(err, "create database %s", database.Name)
	}
	return
}

func (s *SqliteImpl) OpenDatabase(ctx context.Context, tx tx.ReadTx, id common.DatabaseId) (database *common.Database, err error) {
	d := &common.Database{}
	stmt := `SELECT id, database_name, backend FROM dbs WHERE id = ?`
	err = tx.QueryRow(stmt, id).Scan(&d.Id, &d.Name, &d.Backend)
	if err == sql.ErrNoRows {
		err = errors.Wrapf(common.ErrDatabaseNotFound, "%v", id)
		return
	}
	if err != nil {
		return
	}
	database = d
	return
}
