package common

import (
	"time"

	"catalog/utils"
)

type Database struct {
	Id      DatabaseId
	Name    string
	Backend string
}

// Table 是数据库里的一张物理表
type Table struct {
	Id         TableId
	DatabaseId DatabaseId
	Catalog    string
	Schema     string
	Name       string
}

// SqlaTable is the legacy dataset: a table reference, or a virtual
// dataset when Sql holds a query.
type SqlaTable struct {
	Id         SqlaTableId
	TableName  string
	Schema     string
	DatabaseId DatabaseId
	Sql        *string
	ChangedOn  time.Time
}

// IsVirtual reports whether the dataset is defined by a query.
func (t *SqlaTable) IsVirtual() bool {
	return t.Sql != nil && *t.Sql != ""
}

type Dataset struct {
	Id         DatasetId
	Name       string
	Expression string
	IsPhysical bool
	Extra      utils.JSONMap
	ChangedOn  time.Time
	Tables     []TableId
}
