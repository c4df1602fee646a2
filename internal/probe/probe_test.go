package probe

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"sportetl/pkg/records"
)

func sample() records.Table {
	return records.Table{
		Columns: []string{"Sport", "Games Played", "Goals", "Matches Won", "Active"},
		Rows: []records.Record{
			{"Sport": "Soccer", "Games Played": int64(10), "Goals": nil, "Matches Won": "5", "Active": true},
			{"Sport": "Soccer", "Games Played": int64(10), "Goals": int64(3), "Matches Won": "5", "Active": true},
			{"Sport": "Rugby", "Games Played": int64(4), "Goals": int64(1), "Matches Won": "2", "Active": false},
			{"Sport": "Rugby", "Games Played": int64(4), "Goals": int64(1), "Matches Won": "2", "Active": false},
		},
	}
}

func TestInspect_ShapeTypesAndNulls(t *testing.T) {
	t.Parallel()

	in := sample()
	before := in.Clone()
	rep := Inspect(in)

	if !reflect.DeepEqual(in, before) {
		t.Fatalf("Inspect mutated its input")
	}
	if rep.Rows != 4 || len(rep.Columns) != 5 {
		t.Fatalf("shape=(%d,%d); want (4,5)", rep.Rows, len(rep.Columns))
	}
	if rep.Duplicates != 1 {
		t.Fatalf("Duplicates=%d; want 1", rep.Duplicates)
	}

	tests := []struct {
		col     string
		dtype   string
		nonNull int
		nulls   int
		numeric bool
	}{
		{"Sport", DTypeObject, 4, 0, false},
		{"Games Played", DTypeInt, 4, 0, true},
		{"Goals", DTypeFloat, 3, 1, true},
		{"Matches Won", DTypeObject, 4, 0, false},
		{"Active", DTypeBool, 4, 0, false},
	}
	for i, tt := range tests {
		c := rep.Columns[i]
		if c.Name != tt.col {
			t.Fatalf("column %d=%q; want %q", i, c.Name, tt.col)
		}
		if c.DType != tt.dtype || c.NonNull != tt.nonNull || c.Nulls != tt.nulls {
			t.Fatalf("%s: got dtype=%s nonNull=%d nulls=%d", tt.col, c.DType, c.NonNull, c.Nulls)
		}
		if (c.Stats != nil) != tt.numeric {
			t.Fatalf("%s: stats presence=%v; want %v", tt.col, c.Stats != nil, tt.numeric)
		}
	}

	nulls := rep.NullCounts()
	if nulls["Goals"] != 1 || nulls["Sport"] != 0 {
		t.Fatalf("NullCounts=%v", nulls)
	}
}

func TestInspect_Describe(t *testing.T) {
	t.Parallel()

	in := records.Table{Columns: []string{"v"}}
	for _, v := range []any{int64(1), int64(2), int64(3), int64(4)} {
		in.Rows = append(in.Rows, records.Record{"v": v})
	}
	c, ok := Inspect(in).Column("v")
	if !ok || c.Stats == nil {
		t.Fatalf("missing stats for v")
	}
	s := *c.Stats
	want := Stats{Count: 4, Mean: 2.5, Min: 1, Q25: 1.75, Q50: 2.5, Q75: 3.25, Max: 4}
	wantStd := math.Sqrt(5.0 / 3.0)
	if math.Abs(s.Std-wantStd) > 1e-12 {
		t.Fatalf("Std=%v; want %v", s.Std, wantStd)
	}
	s.Std = 0
	if s != want {
		t.Fatalf("stats=%+v; want %+v", s, want)
	}
}

func TestQuantile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sorted []float64
		q      float64
		want   float64
	}{
		{"single", []float64{7}, 0.25, 7},
		{"exact rank", []float64{1, 2, 3}, 0.5, 2},
		{"interpolated", []float64{0, 10}, 0.25, 2.5},
		{"max", []float64{1, 5, 9}, 1, 9},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := quantile(tt.sorted, tt.q); got != tt.want {
				t.Fatalf("quantile(%v, %v)=%v; want %v", tt.sorted, tt.q, got, tt.want)
			}
		})
	}
}

func TestInspect_EdgeColumns(t *testing.T) {
	t.Parallel()

	in := records.Table{
		Columns: []string{"empty", "one", "mixed"},
		Rows: []records.Record{
			{"empty": nil, "one": 2.5, "mixed": int64(1)},
			{"mixed": "x"},
		},
	}
	rep := Inspect(in)

	empty, _ := rep.Column("empty")
	if empty.DType != DTypeFloat || empty.Nulls != 2 || empty.Stats == nil || empty.Stats.Count != 0 {
		t.Fatalf("empty=%+v", empty)
	}
	if !math.IsNaN(empty.Stats.Mean) {
		t.Fatalf("mean of no values should be NaN")
	}
	one, _ := rep.Column("one")
	if one.Stats.Count != 1 || !math.IsNaN(one.Stats.Std) || one.Stats.Q75 != 2.5 {
		t.Fatalf("one=%+v", *one.Stats)
	}
	mixed, _ := rep.Column("mixed")
	if mixed.DType != DTypeObject || mixed.Stats != nil {
		t.Fatalf("mixed=%+v", mixed)
	}
	if _, ok := rep.Column("absent"); ok {
		t.Fatalf("Column(absent) reported ok")
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Render(&buf, Inspect(sample())); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"shape: (4, 5)",
		"Games Played",
		"float64",
		"25%",
		"1.666667",
		"3.464102",
		"duplicated rows: 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
