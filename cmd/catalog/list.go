package main

import (
	"fmt"
	"strings"

	"catalog"
	"catalog/common"
	"catalog/filter"
	"catalog/tx"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

// flagArg 把一个命令行参数映射成 (col, opr) 过滤器
type flagArg struct {
	flag  string
	col   string
	opr   string
	usage string
}

var datasetFlags = []flagArg{
	{"text", "name", filter.ArgDatasetAllText, "match name or expression, case insensitive"},
	{"physical", "is_physical", filter.ArgDatasetIsPhysicalOrVirtual, "true for physical datasets, false for virtual ones"},
	{"schema", "tables", filter.ArgSchema, "only datasets over a table in this schema"},
	{"db", "tables", filter.ArgDatabase, "only datasets over a table in this database id"},
}

var sqlaTableFlags = []flagArg{
	{"null-or-empty", "sql", filter.ArgDatasetIsNullOrEmpty, "true for tables without sql, false for virtual ones"},
	{"name", "table_name", filter.OprContains, "table name contains"},
	{"schema", "schema", filter.OprEqual, "schema equals"},
}

type listOptions struct {
	q        string
	page     int
	pageSize int
	order    string
	values   map[string]*string
}

func (o *listOptions) bind(cmd *cobra.Command, flags []flagArg) {
	fs := cmd.Flags()
	fs.StringVar(&o.q, "q", "", `JSON request, e.g. {"filters":[{"col":"tables","opr":"schema","value":"public"}]}`)
	fs.IntVar(&o.page, "page", 0, "page number, starting at 0")
	fs.IntVar(&o.pageSize, "page-size", 0, "rows per page, 0 for list.page_size")
	fs.StringVar(&o.order, "order", "", "order column, optionally followed by :asc or :desc")
	o.values = map[string]*string{}
	for _, f := range flags {
		o.values[f.flag] = fs.String(f.flag, "", f.usage)
	}
}

// args 合并 --q 和快捷参数，快捷参数追加在 --q 的过滤器之后
func (o *listOptions) args(flags []flagArg) (args filter.Args, err error) {
	if args, err = filter.ParseArgs(o.q); err != nil {
		return
	}
	for _, f := range flags {
		if v, ok := o.values[f.flag]; ok && *v != "" {
			args.Filters = append(args.Filters, filter.Arg{Col: f.col, Opr: f.opr, Value: *v})
		}
	}
	if o.order != "" {
		col, dir, _ := strings.Cut(o.order, ":")
		args.OrderColumn = col
		args.OrderDirection = strings.ToLower(dir)
	}
	if o.page != 0 {
		args.Page = o.page
	}
	if o.pageSize != 0 {
		args.PageSize = o.pageSize
	}
	err = args.Validate()
	return
}

func render[T any](ret *catalog.ListResult[T], item func(T) map[string]any) (out string, err error) {
	out = "{}"
	if out, err = sjson.Set(out, "count", ret.Count); err != nil {
		return
	}
	if out, err = sjson.Set(out, "ids", ret.Ids); err != nil {
		return
	}
	if out, err = sjson.Set(out, "result", []any{}); err != nil {
		return
	}
	for _, r := range ret.Result {
		if out, err = sjson.Set(out, "result.-1", item(r)); err != nil {
			return
		}
	}
	return
}

func datasetJSON(d *common.Dataset) map[string]any {
	tables := make([]string, 0, len(d.Tables))
	for _, tid := range d.Tables {
		tables = append(tables, tid.String())
	}
	return map[string]any{
		"id":          d.Id.String(),
		"name":        d.Name,
		"expression":  d.Expression,
		"is_physical": d.IsPhysical,
		"extra":       map[string]any(d.Extra),
		"changed_on":  d.ChangedOn,
		"tables":      tables,
	}
}

func sqlaTableJSON(t *common.SqlaTable) map[string]any {
	return map[string]any{
		"id":          t.Id.String(),
		"table_name":  t.TableName,
		"schema":      t.Schema,
		"database_id": t.DatabaseId.String(),
		"sql":         t.Sql,
		"is_virtual":  t.IsVirtual(),
		"changed_on":  t.ChangedOn,
	}
}

func (a *app) datasetsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "datasets", Short: "Dataset commands"}
	opts := &listOptions{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := opts.args(datasetFlags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return a.withReadTx(ctx, func(s *catalog.SqliteImpl, rtx tx.ReadTx) error {
				ret, err := s.ListDatasets(ctx, rtx, args)
				if err != nil {
					return err
				}
				out, err := render(ret, datasetJSON)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	opts.bind(list, datasetFlags)
	cmd.AddCommand(list)
	return cmd
}

func (a *app) tablesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tables", Short: "Legacy table dataset commands"}
	opts := &listOptions{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List legacy table datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := opts.args(sqlaTableFlags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return a.withReadTx(ctx, func(s *catalog.SqliteImpl, rtx tx.ReadTx) error {
				ret, err := s.ListSqlaTables(ctx, rtx, args)
				if err != nil {
					return err
				}
				out, err := render(ret, sqlaTableJSON)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	opts.bind(list, sqlaTableFlags)
	cmd.AddCommand(list)
	return cmd
}
