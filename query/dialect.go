package query

import (
	"bytes"
	"fmt"
)

// Dialect decides how placeholders and case-insensitive matches are rendered.
type Dialect struct {
	Name        string
	placeholder func(n int) string
	ilike       func(left, right string) string
}

var (
	// SQLite 没有 ILIKE，用 LOWER 两边对齐
	SQLite = Dialect{
		Name:        "sqlite3",
		placeholder: func(int) string { return "?" },
		ilike: func(left, right string) string {
			return fmt.Sprintf("LOWER(%s) LIKE LOWER(%s)", left, right)
		},
	}
	Postgres = Dialect{
		Name:        "postgres",
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		ilike: func(left, right string) string {
			return fmt.Sprintf("%s ILIKE %s", left, right)
		},
	}
)

// Builder collects statement text and bound args while an Expr tree renders.
type Builder struct {
	dialect Dialect
	buffer  bytes.Buffer
	args    []any
}

func NewBuilder(d Dialect) *Builder {
	return &Builder{
		dialect: d,
		args:    []any{},
	}
}

func (b *Builder) Dialect() Dialect {
	return b.dialect
}

func (b *Builder) WriteString(s string) {
	b.buffer.WriteString(s)
}

// Bind 追加参数并返回对应的占位符
func (b *Builder) Bind(v any) string {
	b.args = append(b.args, v)
	return b.dialect.placeholder(len(b.args))
}

func (b *Builder) String() string {
	return b.buffer.String()
}

func (b *Builder) Args() []any {
	return b.args
}
