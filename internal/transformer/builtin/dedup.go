package builtin

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"sportetl/pkg/records"

	"github.com/zeebo/xxh3"
)

// DeDup removes exact duplicate rows: every table column forms the key and
// the first occurrence wins, so surviving rows keep their original order.
//
// Rows are hashed with xxh3 over a type-tagged encoding of each value.
// Numbers compare by value, so int64(3) and float64(3) are the same key;
// the string "3" is not. A missing cell and an explicit null are equal.
type DeDup struct{}

func (DeDup) Name() string { return "dedup" }

func (DeDup) Apply(in records.Table) (records.Table, error) {
	if len(in.Rows) == 0 {
		return in, nil
	}
	seen := make(map[xxh3.Uint128]struct{}, len(in.Rows))
	out := make([]records.Record, 0, len(in.Rows))
	buf := make([]byte, 0, 256)
	for _, r := range in.Rows {
		buf = appendKey(buf[:0], r, in.Columns)
		h := xxh3.Hash128(buf)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, r)
	}
	return records.Table{Columns: in.Columns, Rows: out}, nil
}

// CountDuplicates reports how many rows of t repeat an earlier row across all
// columns.
func CountDuplicates(t records.Table) int {
	seen := make(map[xxh3.Uint128]struct{}, len(t.Rows))
	dups := 0
	buf := make([]byte, 0, 256)
	for _, r := range t.Rows {
		buf = appendKey(buf[:0], r, t.Columns)
		h := xxh3.Hash128(buf)
		if _, ok := seen[h]; ok {
			dups++
			continue
		}
		seen[h] = struct{}{}
	}
	return dups
}

// appendKey encodes the values of fields in r.
func appendKey(buf []byte, r records.Record, fields []string) []byte {
	for _, f := range fields {
		buf = appendValue(buf, r[f])
	}
	return buf
}

func appendValue(buf []byte, v any) []byte {
	if records.IsNull(v) {
		return append(buf, 'z')
	}
	if f, ok := records.AsFloat(v); ok {
		buf = append(buf, 'n')
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return appendLenPrefixed(buf, strconv.FormatInt(int64(f), 10))
		}
		if i, isInt := v.(int64); isInt {
			return appendLenPrefixed(buf, strconv.FormatInt(i, 10))
		}
		return appendLenPrefixed(buf, strconv.FormatFloat(f, 'g', -1, 64))
	}
	switch x := v.(type) {
	case string:
		return appendLenPrefixed(append(buf, 's'), x)
	case bool:
		if x {
			return append(buf, 'b', 1)
		}
		return append(buf, 'b', 0)
	}
	return appendLenPrefixed(append(buf, 'o'), fmt.Sprint(v))
}

func appendLenPrefixed(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}
