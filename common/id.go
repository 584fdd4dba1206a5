package common

import (
	"database/sql/driver"

	"github.com/pkg/errors"
	"github.com/rs/xid"
)

type DatabaseId xid.ID

type TableId xid.ID

type SqlaTableId xid.ID

type DatasetId xid.ID

func parseId(s string) (id xid.ID, err error) {
	id, err = xid.FromString(s)
	if err != nil {
		err = errors.Wrapf(ErrInvalidId, "%q", s)
	}
	return
}

// Scan 实现 sql.Scanner 接口
func (id *DatabaseId) Scan(value interface{}) error {
	return (*xid.ID)(id).Scan(value)
}

// Value 实现 driver.Valuer 接口
func (id DatabaseId) Value() (driver.Value, error) {
	return xid.ID(id).Value()
}

func (id DatabaseId) String() string {
	return xid.ID(id).String()
}

func NewDatabaseId() DatabaseId {
	return DatabaseId(xid.New())
}

func ParseDatabaseId(s string) (DatabaseId, error) {
	id, err := parseId(s)
	return DatabaseId(id), err
}

// Scan 实现 sql.Scanner 接口
func (id *TableId) Scan(value interface{}) error {
	return (*xid.ID)(id).Scan(value)
}

// Value 实现 driver.Valuer 接口
func (id TableId) Value() (driver.Value, error) {
	return xid.ID(id).Value()
}

func (id TableId) String() string {
	return xid.ID(id).String()
}

func NewTableId() TableId {
	return TableId(xid.New())
}

func ParseTableId(s string) (TableId, error) {
	id, err := parseId(s)
	return TableId(id), err
}

// Scan 实现 sql.Scanner 接口
func (id *SqlaTableId) Scan(value interface{}) error {
	return (*xid.ID)(id).Scan(value)
}

// Value 实现 driver.Valuer 接口
func (id SqlaTableId) Value() (driver.Value, error) {
	return xid.ID(id).Value()
}

func (id SqlaTableId) String() string {
	return xid.ID(id).String()
}

func NewSqlaTableId() SqlaTableId {
	return SqlaTableId(xid.New())
}

// Scan 实现 sql.Scanner 接口
func (id *DatasetId) Scan(value interface{}) error {
	return (*xid.ID)(id).Scan(value)
}

// Value 实现 driver.Valuer 接口
func (id DatasetId) Value() (driver.Value, error) {
	return xid.ID(id).Value()
}

func (id DatasetId) String() string {
	return xid.ID(id).String()
}

func NewDatasetId() DatasetId {
	return DatasetId(xid.New())
}

func ParseDatasetId(s string) (DatasetId, error) {
	id, err := parseId(s)
	return DatasetId(id), err
}
