// Package builtin contains the reusable table transformers that make up the
// cleaning chain.
package builtin

import (
	"sportetl/internal/etlerr"
	"sportetl/pkg/records"
)

// ImputeMean replaces nulls in each of Fields with the arithmetic mean of that
// column's non-null values. All means are computed from the input before any
// cell is replaced, so the order of Fields does not matter.
//
// A column that received at least one imputed value becomes float64 in every
// row, the way a numeric column with missing values is promoted to floating
// point. Columns with no non-null values, or absent from the table, are left
// as they are; DropNulls removes their rows afterwards.
type ImputeMean struct {
	Fields []string
}

func (ImputeMean) Name() string { return "impute-mean" }

func (m ImputeMean) Apply(in records.Table) (records.Table, error) {
	means := make(map[string]float64, len(m.Fields))
	for _, f := range m.Fields {
		if !in.HasColumn(f) {
			continue
		}
		var sum float64
		var n int
		nulls := 0
		for i, r := range in.Rows {
			v := r[f]
			if records.IsNull(v) {
				nulls++
				continue
			}
			x, ok := records.AsFloat(v)
			if !ok {
				return records.Table{}, etlerr.Newf(etlerr.KindCoercion, "impute",
					"row %d column %q: non-numeric value %v", i, f, v)
			}
			sum += x
			n++
		}
		if n > 0 && nulls > 0 {
			means[f] = sum / float64(n)
		}
	}

	for f, mean := range means {
		for _, r := range in.Rows {
			if records.IsNull(r[f]) {
				r[f] = mean
				continue
			}
			x, _ := records.AsFloat(r[f])
			r[f] = x
		}
	}
	return in, nil
}

// CountNulls returns how many cells of fields are null in t. It reports the
// number of cells ImputeMean would fill for columns that have a mean.
func CountNulls(t records.Table, fields ...string) int {
	n := 0
	for _, r := range t.Rows {
		for _, f := range fields {
			if records.IsNull(r[f]) {
				n++
			}
		}
	}
	return n
}
