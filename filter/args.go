package filter

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// MaxPage 限制页码，页码乘页大小不会溢出
const MaxPage = math.MaxInt32

// Arg is one (col, opr, value) filter a request carries.
type Arg struct {
	Col   string
	Opr   string
	Value any
}

// Args is a decoded list request. A zero Page/PageSize means "use the default".
type Args struct {
	Filters        []Arg
	OrderColumn    string
	OrderDirection string
	Page           int
	PageSize       int
}

func invalidArgs(format string, a ...any) error {
	return errors.Wrapf(errdefs.ErrInvalidArgument, format, a...)
}

// ParseArgs decodes the JSON form of a list request:
//
//	{"filters":[{"col":"tables","opr":"schema","value":"public"}],
//	 "order_column":"changed_on","order_direction":"desc","page":0,"page_size":25}
func ParseArgs(q string) (args Args, err error) {
	if strings.TrimSpace(q) == "" {
		return
	}
	if !gjson.Valid(q) {
		err = invalidArgs("invaild list args")
		return
	}
	result := gjson.Parse(q)
	if !result.IsObject() {
		err = invalidArgs("list args is not an object")
		return
	}

	filters := result.Get("filters")
	if filters.Exists() {
		if !filters.IsArray() {
			err = invalidArgs("filters is not an array")
			return
		}
		for idx, item := range filters.Array() {
			if !item.IsObject() {
				err = invalidArgs("filter %d is not an object", idx)
				return
			}
			col := item.Get("col")
			opr := item.Get("opr")
			if col.Type != gjson.String || opr.Type != gjson.String {
				err = invalidArgs("filter %d needs col and opr", idx)
				return
			}
			args.Filters = append(args.Filters, Arg{
				Col:   col.Str,
				Opr:   opr.Str,
				Value: item.Get("value").Value(),
			})
		}
	}

	if v := result.Get("order_column"); v.Exists() {
		if v.Type != gjson.String {
			err = invalidArgs("order_column is not a string")
			return
		}
		args.OrderColumn = v.Str
	}
	if v := result.Get("order_direction"); v.Exists() {
		if v.Type != gjson.String {
			err = invalidArgs("order_direction is not a string")
			return
		}
		args.OrderDirection = strings.ToLower(v.Str)
	}
	if args.Page, err = parseIntField(result, "page"); err != nil {
		return
	}
	if args.PageSize, err = parseIntField(result, "page_size"); err != nil {
		return
	}
	err = args.Validate()
	return
}

func parseIntField(result gjson.Result, key string) (n int, err error) {
	v := result.Get(key)
	if !v.Exists() {
		return
	}
	if v.Type != gjson.Number || v.Num != float64(int(v.Num)) {
		err = invalidArgs("%s is not an integer", key)
		return
	}
	n = int(v.Num)
	return
}

// ArgsFromValues reads list args out of URL query parameters. "q" holds the
// JSON form; any other parameter named after a registered operator becomes a
// filter on that operator's column. Unknown parameters are ignored.
func ArgsFromValues(values url.Values, r *Registry) (args Args, err error) {
	if args, err = ParseArgs(values.Get("q")); err != nil {
		return
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := values.Get(key)
		switch key {
		case "q":
		case "order_column":
			args.OrderColumn = value
		case "order_direction":
			args.OrderDirection = strings.ToLower(value)
		case "page":
			if args.Page, err = strconv.Atoi(value); err != nil {
				err = invalidArgs("page is not an integer")
				return
			}
		case "page_size":
			if args.PageSize, err = strconv.Atoi(value); err != nil {
				err = invalidArgs("page_size is not an integer")
				return
			}
		default:
			if r == nil {
				continue
			}
			col, ok := r.ColumnOf(key)
			if !ok {
				continue
			}
			args.Filters = append(args.Filters, Arg{Col: col, Opr: key, Value: value})
		}
	}
	err = args.Validate()
	return
}

func (a Args) Validate() error {
	switch a.OrderDirection {
	case "", OrderAsc, OrderDesc:
	default:
		return invalidArgs("order_direction must be %s or %s, got %q", OrderAsc, OrderDesc, a.OrderDirection)
	}
	if a.Page < 0 || a.Page > MaxPage {
		return invalidArgs("page must be between 0 and %d, got %d", MaxPage, a.Page)
	}
	if a.PageSize < 0 || a.PageSize > MaxPage {
		return invalidArgs("page_size must be between 0 and %d, got %d", MaxPage, a.PageSize)
	}
	return nil
}
