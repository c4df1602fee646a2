// Package probe builds a read-only diagnostic report for a parsed table:
// shape, column dtypes, null counts, numeric summary statistics and the
// number of exact-duplicate rows. Inspect never mutates its input; the
// rendering lives in render.go so callers can log or print the same Report.
package probe

import (
	"math"
	"sort"

	"sportetl/internal/transformer/builtin"
	"sportetl/pkg/records"
)

// Inferred dtypes, named after the pandas dtypes the report mirrors.
const (
	DTypeInt    = "int64"
	DTypeFloat  = "float64"
	DTypeBool   = "bool"
	DTypeObject = "object"
)

// Report is the result of Inspect.
type Report struct {
	Rows       int
	Columns    []ColumnInfo
	Duplicates int
}

// ColumnInfo describes one column. Stats is nil for non-numeric columns.
type ColumnInfo struct {
	Name    string
	DType   string
	NonNull int
	Nulls   int
	Stats   *Stats
}

// Stats holds describe()-style statistics over the non-null values of a
// numeric column. Std is the sample standard deviation and is NaN when
// fewer than two values are present.
type Stats struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Inspect summarizes t. Columns are reported in table order.
func Inspect(t records.Table) Report {
	rep := Report{
		Rows:       t.Len(),
		Columns:    make([]ColumnInfo, 0, len(t.Columns)),
		Duplicates: builtin.CountDuplicates(t),
	}
	for _, name := range t.Columns {
		rep.Columns = append(rep.Columns, inspectColumn(name, t.Rows))
	}
	return rep
}

// NullCounts returns column name -> null count, the isnull().sum() view.
func (r Report) NullCounts() map[string]int {
	out := make(map[string]int, len(r.Columns))
	for _, c := range r.Columns {
		out[c.Name] = c.Nulls
	}
	return out
}

// Column returns the info for name.
func (r Report) Column(name string) (ColumnInfo, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// NumericColumns lists the columns that carry Stats.
func (r Report) NumericColumns() []ColumnInfo {
	var out []ColumnInfo
	for _, c := range r.Columns {
		if c.Stats != nil {
			out = append(out, c)
		}
	}
	return out
}

func inspectColumn(name string, rows []records.Record) ColumnInfo {
	ci := ColumnInfo{Name: name}
	vals := make([]any, 0, len(rows))
	for _, r := range rows {
		v := r[name]
		if records.IsNull(v) {
			ci.Nulls++
			continue
		}
		vals = append(vals, v)
	}
	ci.NonNull = len(vals)
	ci.DType = inferDType(vals, ci.Nulls > 0)
	if ci.DType == DTypeInt || ci.DType == DTypeFloat {
		nums := make([]float64, 0, len(vals))
		for _, v := range vals {
			f, _ := records.AsFloat(v)
			nums = append(nums, f)
		}
		ci.Stats = describe(nums)
	}
	return ci
}

// inferDType picks the narrowest dtype every non-null value satisfies.
// An integer column holding nulls widens to float64, as a NaN-backed
// column would.
func inferDType(vals []any, hasNulls bool) string {
	if len(vals) == 0 {
		if hasNulls {
			return DTypeFloat
		}
		return DTypeObject
	}
	if allMatch(vals, isInt) {
		if hasNulls {
			return DTypeFloat
		}
		return DTypeInt
	}
	if allMatch(vals, records.IsNumeric) {
		return DTypeFloat
	}
	if allMatch(vals, isBool) {
		return DTypeBool
	}
	return DTypeObject
}

func allMatch(vals []any, fn func(any) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

func isInt(v any) bool {
	switch v.(type) {
	case int, int32, int64:
		return true
	}
	return false
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func describe(nums []float64) *Stats {
	s := &Stats{Count: len(nums), Std: math.NaN()}
	if len(nums) == 0 {
		s.Mean, s.Min, s.Max = math.NaN(), math.NaN(), math.NaN()
		s.Q25, s.Q50, s.Q75 = math.NaN(), math.NaN(), math.NaN()
		return s
	}
	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)

	var sum float64
	for _, f := range sorted {
		sum += f
	}
	s.Mean = sum / float64(len(sorted))
	if len(sorted) > 1 {
		var ss float64
		for _, f := range sorted {
			d := f - s.Mean
			ss += d * d
		}
		s.Std = math.Sqrt(ss / float64(len(sorted)-1))
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.50)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
