package catalog

import (
	"context"
	"database/sql"
	"time"

	"catalog/common"
	"catalog/query"
	"catalog/tx"
	"catalog/utils"

	"github.com/pkg/errors"
)

var datasetColumns = []query.Column{
	common.DatasetIdCol,
	common.DatasetNameCol,
	common.DatasetExpressionCol,
	common.DatasetIsPhysicalCol,
	common.DatasetExtraCol,
	common.DatasetChangedOnCol,
}

func scanDataset(row rowScanner) (d *common.Dataset, err error) {
	d = &common.Dataset{}
	if err = row.Scan(&d.Id, &d.Name, &d.Expression, &d.IsPhysical, &d.Extra, &d.ChangedOn); err != nil {
		return nil, err
	}
	d.Tables = []common.TableId{}
	return
}

func (s *SqliteImpl) CreateDataset(ctx context.Context, tx tx.WriteTx, dataset *common.Dataset) (err error) {
	if dataset.Id == (common.DatasetId{}) {
		dataset.Id = common.NewDatasetId()
	}
	if dataset.ChangedOn.IsZero() {
		dataset.ChangedOn = time.Now()
	}
	if dataset.Extra == nil {
		dataset.Extra = utils.JSONMap{}
	}
	stmt := `
	INSERT INTO sl_datasets
	(id, name, expression, is_physical, extra, changed_on)
	VALUES
	(?, ?, ?, ?, ?, ?)`
	_, err = tx.Exec(stmt,
		dataset.Id, dataset.Name, dataset.Expression, dataset.IsPhysical,
		dataset.Extra, formatTime(dataset.ChangedOn),
	)
	if err != nil {
		return errors.Wrapf(err, "create dataset %s", dataset.Name)
	}
	// 插入数据集-表关联表
	insertTable := `
	INSERT INTO sl_dataset_tables
	(dataset_id, table_id)
	VALUES
	(?, ?)`
	for _, tid := range dataset.Tables {
		if _, err = tx.Exec(insertTable, dataset.Id, tid); err != nil {
			return errors.Wrapf(err, "link dataset %s to table %v", dataset.Name, tid)
		}
	}
	return
}

func (s *SqliteImpl) OpenDataset(ctx context.Context, tx tx.ReadTx, id common.DatasetId) (dataset *common.Dataset, err error) {
	q := query.From(common.Datasets, datasetColumns...).Where(query.Eq(common.DatasetIdCol, id))
	stmt, args, err := q.Build(s.Dialect())
	if err != nil {
		return
	}
	d, err := scanDataset(tx.QueryRow(stmt, args...))
	if err == sql.ErrNoRows {
		err = errors.Wrapf(common.ErrDatasetNotFound, "%v", id)
		return
	}
	if err != nil {
		return
	}
	if err = s.loadDatasetTables(tx, []*common.Dataset{d}); err != nil {
		return
	}
	dataset = d
	return
}

func (s *SqliteImpl) DeleteDataset(ctx context.Context, tx tx.WriteTx, id common.DatasetId) (err error) {
	result, err := tx.Exec(`DELETE FROM sl_datasets WHERE id = ?`, id)
	if err != nil {
		return
	}
	n, err := result.RowsAffected()
	if err != nil {
		return
	}
	if n == 0 {
		err = errors.Wrapf(common.ErrDatasetNotFound, "%v", id)
	}
	return
}

// loadDatasetTables 一次查出所有数据集关联的表
func (s *SqliteImpl) loadDatasetTables(tx tx.ReadTx, datasets []*common.Dataset) (err error) {
	if len(datasets) == 0 {
		return
	}
	byId := map[common.DatasetId]*common.Dataset{}
	ids := make([]any, 0, len(datasets))
	for _, d := range datasets {
		byId[d.Id] = d
		ids = append(ids, d.Id)
	}
	q := query.From(common.DatasetTables, common.DatasetTablesDatasetIdCol, common.DatasetTablesTableIdCol).
		Where(query.In(common.DatasetTablesDatasetIdCol, ids...)).
		OrderBy(common.DatasetTablesTableIdCol, false)
	stmt, args, err := q.Build(s.Dialect())
	if err != nil {
		return
	}
	rows, err := tx.Query(stmt, args...)
	if err != nil {
		return
	}
	defer rows.Close()
	for rows.Next() {
		var did common.DatasetId
		var tid common.TableId
		if err = rows.Scan(&did, &tid); err != nil {
			return
		}
		if d, ok := byId[did]; ok {
			d.Tables = append(d.Tables, tid)
		}
	}
	err = rows.Err()
	return
}
