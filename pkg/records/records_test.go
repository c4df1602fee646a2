package records

import (
	"encoding/json"
	"math"
	"testing"
)

func TestIsNull(t *testing.T) {
	cases := []struct {
		v    any
		want bool
	}{
		{nil, true},
		{math.NaN(), true},
		{0.0, false},
		{int64(0), false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsNull(tc.v); got != tc.want {
			t.Fatalf("IsNull(%#v)=%v; want %v", tc.v, got, tc.want)
		}
	}
}

func TestNormalizeJSONNumber(t *testing.T) {
	if got := Normalize(json.Number("10")); got != int64(10) {
		t.Fatalf("Normalize(10)=%#v; want int64(10)", got)
	}
	if got := Normalize(json.Number("2.5")); got != 2.5 {
		t.Fatalf("Normalize(2.5)=%#v; want 2.5", got)
	}
	if got := Normalize("x"); got != "x" {
		t.Fatalf("Normalize(string) changed value: %#v", got)
	}
}

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber("5")
	if err != nil || v != int64(5) {
		t.Fatalf("ParseNumber(5)=%#v,%v", v, err)
	}
	v, err = ParseNumber("5.25")
	if err != nil || v != 5.25 {
		t.Fatalf("ParseNumber(5.25)=%#v,%v", v, err)
	}
	for _, s := range []string{"five", "NaN", "inf", "Infinity"} {
		if _, err := ParseNumber(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestFormatValue(t *testing.T) {
	cases := map[string]any{
		"":        nil,
		"30":      30.0,
		"2.5":     2.5,
		"7":       int64(7),
		"abc":     "abc",
		"true":    true,
		`{"a":1}`: map[string]any{"a": 1},
		"[1,2]":   []any{1, 2},
	}
	for want, v := range cases {
		if got := FormatValue(v); got != want {
			t.Fatalf("FormatValue(%#v)=%q; want %q", v, got, want)
		}
	}
}

func TestTableWithColumnAndClone(t *testing.T) {
	tbl := Table{Columns: []string{"a"}, Rows: []Record{{"a": int64(1)}}}
	got := tbl.WithColumn("b")
	if len(got.Columns) != 2 || got.Columns[1] != "b" {
		t.Fatalf("WithColumn columns=%v", got.Columns)
	}
	if len(tbl.Columns) != 1 {
		t.Fatalf("WithColumn mutated original columns: %v", tbl.Columns)
	}
	if again := got.WithColumn("b"); len(again.Columns) != 2 {
		t.Fatalf("WithColumn duplicated existing column: %v", again.Columns)
	}

	cp := tbl.Clone()
	cp.Rows[0]["a"] = int64(2)
	if tbl.Rows[0]["a"] != int64(1) {
		t.Fatalf("Clone shares row maps with original")
	}
}
