package builtin

import (
	"strings"

	"sportetl/internal/etlerr"
	"sportetl/pkg/records"
)

// Coerce converts the cells of Fields to numbers: int64 when integral,
// float64 otherwise. Surrounding spaces in text are ignored.
//
// Nulls stay null. A value that cannot be converted is left untouched, unless
// Strict is set, in which case Apply fails with an etlerr coercion error
// naming the row, field and value.
type Coerce struct {
	Fields []string
	Strict bool
}

func (Coerce) Name() string { return "coerce" }

func (c Coerce) Apply(in records.Table) (records.Table, error) {
	for i, r := range in.Rows {
		for _, field := range c.Fields {
			v := r[field]
			if records.IsNull(v) {
				continue
			}
			out, ok := toNumber(v)
			if !ok {
				if c.Strict {
					return records.Table{}, etlerr.Newf(etlerr.KindCoercion, "coerce",
						"row %d column %q: cannot convert %q to a number", i, field, records.FormatValue(v))
				}
				continue
			}
			r[field] = out
		}
	}
	return in, nil
}

func toNumber(v any) (any, bool) {
	if s, ok := v.(string); ok {
		n, err := records.ParseNumber(strings.TrimSpace(s))
		if err != nil {
			return nil, false
		}
		return n, true
	}
	if records.IsNumeric(v) {
		return records.Normalize(v), true
	}
	return nil, false
}
