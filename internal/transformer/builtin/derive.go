package builtin

import (
	"fmt"

	"sportetl/internal/etlerr"
	"sportetl/pkg/records"
)

// Derive computes Target for every row from the row's own Factors. Op is
// "product" (default) or "sum". The result is int64 when every factor is an
// integer and float64 otherwise; a null factor yields a null Target.
// Target is appended to the column list when not already present.
type Derive struct {
	Target  string
	Factors []string
	Op      string
}

func (d Derive) Name() string { return "derive-" + d.Target }

func (d Derive) Apply(in records.Table) (records.Table, error) {
	if d.Target == "" || len(d.Factors) == 0 {
		return records.Table{}, fmt.Errorf("derive: target and factors are required")
	}
	op := d.Op
	if op == "" {
		op = "product"
	}
	if op != "product" && op != "sum" {
		return records.Table{}, fmt.Errorf("derive: unknown op %q", d.Op)
	}

	out := in.WithColumn(d.Target)
	for i, r := range out.Rows {
		allInt := true
		var acc float64
		var iacc int64
		if op == "product" {
			acc, iacc = 1, 1
		}
		null := false
		for _, f := range d.Factors {
			v := r[f]
			if records.IsNull(v) {
				null = true
				break
			}
			x, ok := records.AsFloat(v)
			if !ok {
				return records.Table{}, etlerr.Newf(etlerr.KindCoercion, "derive",
					"row %d column %q: non-numeric value %q", i, f, records.FormatValue(v))
			}
			iv, isInt := v.(int64)
			allInt = allInt && isInt
			if op == "product" {
				acc *= x
				iacc *= iv
			} else {
				acc += x
				iacc += iv
			}
		}
		switch {
		case null:
			r[d.Target] = nil
		case allInt:
			r[d.Target] = iacc
		default:
			r[d.Target] = acc
		}
	}
	return out, nil
}
