package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"catalog/config"
	"catalog/metrics"
	"catalog/query"
	"catalog/tx"

	"github.com/containerd/log"
	"github.com/pkg/errors"
)

const initSchema = `
CREATE TABLE IF NOT EXISTS dbs (
	id TEXT PRIMARY KEY,
	database_name TEXT NOT NULL UNIQUE,
	backend TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tables (
	id TEXT PRIMARY KEY,
	table_name TEXT NOT NULL,
	schema TEXT NOT NULL DEFAULT '',
	database_id TEXT NOT NULL,
	sql TEXT,
	changed_on TIMESTAMP NOT NULL,
	FOREIGN KEY (database_id) REFERENCES dbs(id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS sl_tables (
	id TEXT PRIMARY KEY,
	database_id TEXT NOT NULL,
	catalog TEXT NOT NULL DEFAULT '',
	schema TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	FOREIGN KEY (database_id) REFERENCES dbs(id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS sl_datasets (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	expression TEXT NOT NULL DEFAULT '',
	is_physical BOOLEAN NOT NULL DEFAULT 1,
	extra TEXT NOT NULL DEFAULT '{}',
	changed_on TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS sl_dataset_tables (
	dataset_id TEXT NOT NULL,
	table_id TEXT NOT NULL,
	PRIMARY KEY (dataset_id, table_id),
	FOREIGN KEY (dataset_id) REFERENCES sl_datasets(id) ON DELETE CASCADE,
	FOREIGN KEY (table_id) REFERENCES sl_tables(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_sl_tables_schema ON sl_tables(schema);
CREATE INDEX IF NOT EXISTS idx_sl_tables_database_id ON sl_tables(database_id);
CREATE INDEX IF NOT EXISTS idx_sl_dataset_tables_table_id ON sl_dataset_tables(table_id);
`

type SqliteImpl struct {
	lock    *sync.Mutex
	db      *sql.DB
	config  *config.Config
	metrics *metrics.Metrics
}

type Option func(s *SqliteImpl)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SqliteImpl) {
		s.metrics = m
	}
}

func NewSqliteImpl(opts ...Option) (s *SqliteImpl) {
	s = &SqliteImpl{
		lock:   &sync.Mutex{},
		db:     nil,
		config: config.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return
}

func dsn(dbPath string, busyTimeout int) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=%d", dbPath, busyTimeout)
}

// Open connects to the sqlite file at dbPath and creates missing tables.
// A nil cfg keeps the defaults.
func (s *SqliteImpl) Open(ctx context.Context, dbPath string, cfg *config.Config) (err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if cfg != nil {
		s.config = cfg
	}
	db, err := sql.Open("sqlite3", dsn(dbPath, s.config.DB.BusyTimeout))
	if err != nil {
		return errors.Wrapf(err, "open %s", dbPath)
	}
	if dbPath == ":memory:" {
		// 每个连接都是独立的内存库
		db.SetMaxOpenConns(1)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return
	}
	if _, err = tx.ExecContext(ctx, initSchema); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "create schema")
	}
	if err = tx.Commit(); err != nil {
		return
	}

	// 验证外键支持是否启用
	var fkEnabled int
	if err = db.QueryRowContext(ctx, "PRAGMA foreign_keys;").Scan(&fkEnabled); err != nil {
		return
	}
	if fkEnabled != 1 {
		err = errors.New("failed to enable foreign key support")
		return
	}
	s.db = db
	log.G(ctx).WithField("path", dbPath).Debug("catalog opened")
	return
}

func (s *SqliteImpl) Dialect() query.Dialect {
	return query.SQLite
}

func (s *SqliteImpl) ReadTx(ctx context.Context) (rtx tx.ReadTx, err error) {
	if s.db == nil {
		err = errors.New("catalog is not open")
		return
	}
	t, err := s.db.BeginTx(ctx, &sql.TxOptions{
		ReadOnly: true,
	})
	if err != nil {
		return
	}
	rtx = &sqliteReadTx{
		ctx: ctx,
		tx:  t,
	}
	return
}

func (s *SqliteImpl) WriteTx(ctx context.Context) (wtx tx.WriteTx, err error) {
	if s.db == nil {
		err = errors.New("catalog is not open")
		return
	}
	t, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return
	}
	wtx = &sqliteWriteTx{
		ctx: ctx,
		tx:  t,
	}
	return
}

// 关闭数据库
func (s *SqliteImpl) Close(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
