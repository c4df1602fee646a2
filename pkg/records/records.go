// Package records defines the in-memory row and table model shared by the
// parser, transformer, inspection and writer packages.
//
// A Record is a loosely typed row keyed by column name. A Table pairs a slice
// of records with the ordered column list so that column order observed in the
// source survives every transformation and ends up unchanged in the output
// files.
//
// Value conventions:
//   - nil (or a missing key) is a null cell.
//   - Integral JSON numbers are int64; other numbers are float64.
//   - Everything else is a string or bool as decoded.
package records

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Record is a single row keyed by column name.
type Record map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of columns plus the rows that carry them.
type Table struct {
	Columns []string
	Rows    []Record
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// HasColumn reports whether name is one of the table's columns.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// WithColumn returns a copy of the column list with name appended when it is
// not already present. Rows are shared with t.
func (t Table) WithColumn(name string) Table {
	if t.HasColumn(name) {
		return t
	}
	cols := make([]string, 0, len(t.Columns)+1)
	cols = append(cols, t.Columns...)
	cols = append(cols, name)
	return Table{Columns: cols, Rows: t.Rows}
}

// Clone deep-copies the column list and each row map.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// IsNull reports whether v represents a missing value. Float NaN counts as
// null, matching the way numeric nulls are usually materialized.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	}
	return false
}

// AsFloat converts numeric values to float64. Strings are not parsed; use
// ParseNumber for text.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// IsNumeric reports whether v is a non-null number.
func IsNumeric(v any) bool {
	_, ok := AsFloat(v)
	return ok
}

// ParseNumber parses text into int64 when it is integral and float64
// otherwise. Surrounding whitespace is not tolerated by strconv, so callers
// should trim first when that is desired. Words strconv would read as NaN or
// infinity ("nan", "Inf") are rejected.
func ParseNumber(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &strconv.NumError{Func: "ParseNumber", Num: s, Err: strconv.ErrSyntax}
	}
	return f, nil
}

// Normalize maps a decoded json.Number onto int64 or float64 and leaves every
// other value untouched.
func Normalize(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return string(n)
}

// FormatValue renders a cell for delimited output. Nulls become the empty
// string and whole floats are written without a trailing fraction. Anything
// else is written as JSON text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
