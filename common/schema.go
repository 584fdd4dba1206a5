package common

import "catalog/query"

const (
	Databases     query.Table = "dbs"
	SqlaTables    query.Table = "tables"
	Tables        query.Table = "sl_tables"
	Datasets      query.Table = "sl_datasets"
	DatasetTables query.Table = "sl_dataset_tables"
)

var (
	SqlaTableIdCol         = SqlaTables.C("id")
	SqlaTableNameCol       = SqlaTables.C("table_name")
	SqlaTableSchemaCol     = SqlaTables.C("schema")
	SqlaTableDatabaseIdCol = SqlaTables.C("database_id")
	SqlaTableSqlCol        = SqlaTables.C("sql")
	SqlaTableChangedOnCol  = SqlaTables.C("changed_on")

	TableIdCol         = Tables.C("id")
	TableDatabaseIdCol = Tables.C("database_id")
	TableCatalogCol    = Tables.C("catalog")
	TableSchemaCol     = Tables.C("schema")
	TableNameCol       = Tables.C("name")

	DatasetIdCol         = Datasets.C("id")
	DatasetNameCol       = Datasets.C("name")
	DatasetExpressionCol = Datasets.C("expression")
	DatasetIsPhysicalCol = Datasets.C("is_physical")
	DatasetExtraCol      = Datasets.C("extra")
	DatasetChangedOnCol  = Datasets.C("changed_on")

	DatasetTablesDatasetIdCol = DatasetTables.C("dataset_id")
	DatasetTablesTableIdCol   = DatasetTables.C("table_id")
)
