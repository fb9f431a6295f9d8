package warehouse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is one record of a result set keyed by column name.
type Row map[string]any

// Table is a tabular result: the column order as returned by the warehouse and the
// rows in result order.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Statement is a named, parameterized SQL statement. Placeholders are written as `?`
// and rebound to the driver's bind style by the gateway.
type Statement struct {
	Name string
	SQL  string
	Args []any
}

func NewStatement(name, sql string, args ...any) Statement {
	return Statement{Name: name, SQL: sql, Args: args}
}

// EmptyTable is a result with no columns and no rows.
func EmptyTable() *Table {
	return &Table{Columns: []string{}, Rows: []Row{}}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// column resolves name against the table's columns ignoring case, since warehouses
// differ in how they fold unquoted identifiers.
func (t *Table) column(name string) (string, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// Strings returns the values of one column in row order, skipping nulls.
func (t *Table) Strings(name string) ([]string, error) {
	if t == nil {
		return nil, nil
	}
	col, ok := t.column(name)
	if !ok {
		return nil, fmt.Errorf("column %q not in result", name)
	}
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		v, ok := r[col]
		if !ok || v == nil {
			continue
		}
		out = append(out, toString(v))
	}
	return out, nil
}

// Get returns a value by column name ignoring case.
func (r Row) Get(name string) (any, bool) {
	if v, ok := r[name]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func (r Row) String(name string) string {
	v, ok := r.Get(name)
	if !ok || v == nil {
		return ""
	}
	return toString(v)
}

// Int64 reads an integer column. Warehouses hand back integers as int64, int32,
// float64, decimals rendered as strings or raw bytes depending on the driver.
func (r Row) Int64(name string) (int64, bool) {
	v, ok := r.Get(name)
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	case []byte:
		i, err := strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		return fmt.Sprint(s)
	}
}

// normalize converts driver byte slices into strings so rows serialize as text.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// Qualify prefixes a table with its catalog/schema path. An empty schema leaves the
// table name bare, which is how the sqlite test databases address tables.
func Qualify(schema, table string) string {
	if schema == "" {
		return table
	}
	return schema + "." + table
}
