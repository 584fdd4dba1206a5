// Package filter holds the search filters the list views apply to a query.
// A filter receives the raw value a request carried and returns the query
// with its clause added, or the query unchanged when the value is empty.
package filter

import (
	"context"
	"fmt"
	"strings"

	"catalog/query"

	"github.com/containerd/errdefs"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

type Filter interface {
	// Name is the label shown next to the filter.
	Name() string
	// ArgName is the operator a request uses to select the filter.
	ArgName() string
	Apply(ctx context.Context, q *query.Query, value any) (*query.Query, error)
}

// InvalidFilterError reports a filter a request asked for that cannot be
// applied: unknown column or operator, or a value of the wrong shape.
type InvalidFilterError struct {
	Col   string
	Opr   string
	Value any
	Err   error
}

func (e *InvalidFilterError) Error() string {
	msg := "invalid filter"
	if e.Col != "" {
		msg += " '" + e.Col
		if e.Opr != "" {
			msg += "=" + e.Opr
		}
		msg += "'"
	}
	if e.Value != nil {
		msg = fmt.Sprintf("%s with value %q", msg, cast.ToString(e.Value))
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *InvalidFilterError) Unwrap() []error {
	if e.Err == nil {
		return []error{errdefs.ErrInvalidArgument}
	}
	return []error{errdefs.ErrInvalidArgument, e.Err}
}

// InvalidParameter marks this error as ErrInvalidParameter
func (e *InvalidFilterError) InvalidParameter() {}

// isEmpty 判断请求值是否等于没有给：nil、空白字符串、false、数字零、空列表
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return cast.ToFloat64(v) == 0
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

// truthy 把请求值转成 bool，空值当 false
func truthy(argName string, value any) (ret bool, err error) {
	if isEmpty(value) {
		return
	}
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	ret, err = cast.ToBoolE(value)
	if err != nil {
		err = errors.Wrapf(errdefs.ErrInvalidArgument, "%s: cannot use %v as a boolean", argName, value)
	}
	return
}

func toString(argName string, value any) (ret string, err error) {
	ret, err = cast.ToStringE(value)
	if err != nil {
		err = errors.Wrapf(errdefs.ErrInvalidArgument, "%s: cannot use %T as text", argName, value)
	}
	return
}
