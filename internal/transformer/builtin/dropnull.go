package builtin

import "sportetl/pkg/records"

// DropNulls removes every row that has a null in any of Fields. With no
// Fields, every table column is checked. A key missing from a row counts as
// null. Row order is preserved.
type DropNulls struct {
	Fields []string
}

func (DropNulls) Name() string { return "drop-nulls" }

func (d DropNulls) Apply(in records.Table) (records.Table, error) {
	fields := d.Fields
	if len(fields) == 0 {
		fields = in.Columns
	}
	out := make([]records.Record, 0, len(in.Rows))
	for _, rec := range in.Rows {
		ok := true
		for _, f := range fields {
			if records.IsNull(rec[f]) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	return records.Table{Columns: in.Columns, Rows: out}, nil
}
