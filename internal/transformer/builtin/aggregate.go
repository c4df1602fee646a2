package builtin

import (
	"fmt"
	"sort"

	"sportetl/internal/etlerr"
	"sportetl/pkg/records"
)

// GroupSum groups rows by the By column and sums each of Sum per group.
//
// The output table has columns [By, Sum...] and one row per distinct By
// value. Groups are first ordered by their By value, then stably sorted
// ascending by SortBy, which must be one of Sum (empty keeps By order).
// Nulls are skipped while summing. A summed column is float64 in every group
// when any input value in it is a float, int64 otherwise.
type GroupSum struct {
	By     string
	Sum    []string
	SortBy string
}

func (GroupSum) Name() string { return "group-sum" }

func (g GroupSum) Apply(in records.Table) (records.Table, error) {
	if g.By == "" {
		return records.Table{}, fmt.Errorf("group-sum: By is required")
	}
	if g.SortBy != "" && !contains(g.Sum, g.SortBy) {
		return records.Table{}, fmt.Errorf("group-sum: sort column %q is not summed", g.SortBy)
	}

	isFloat := make(map[string]bool, len(g.Sum))
	for _, r := range in.Rows {
		for _, c := range g.Sum {
			if _, ok := r[c].(float64); ok {
				isFloat[c] = true
			}
		}
	}

	type group struct {
		key  any
		sums map[string]float64
		ints map[string]int64
	}
	groups := map[string]*group{}
	for i, r := range in.Rows {
		k := r[g.By]
		if records.IsNull(k) {
			continue
		}
		gk := records.FormatValue(k)
		grp, ok := groups[gk]
		if !ok {
			grp = &group{key: k, sums: map[string]float64{}, ints: map[string]int64{}}
			groups[gk] = grp
		}
		for _, c := range g.Sum {
			v := r[c]
			if records.IsNull(v) {
				continue
			}
			x, ok := records.AsFloat(v)
			if !ok {
				return records.Table{}, etlerr.Newf(etlerr.KindCoercion, "group-sum",
					"row %d column %q: non-numeric value %q", i, c, records.FormatValue(v))
			}
			grp.sums[c] += x
			if iv, isInt := v.(int64); isInt {
				grp.ints[c] += iv
			} else {
				grp.ints[c] += int64(x)
			}
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if g.SortBy != "" {
		sort.SliceStable(keys, func(i, j int) bool {
			return groups[keys[i]].sums[g.SortBy] < groups[keys[j]].sums[g.SortBy]
		})
	}

	out := records.Table{Columns: append([]string{g.By}, g.Sum...)}
	out.Rows = make([]records.Record, 0, len(keys))
	for _, k := range keys {
		grp := groups[k]
		rec := records.Record{g.By: grp.key}
		for _, c := range g.Sum {
			if isFloat[c] {
				rec[c] = grp.sums[c]
			} else {
				rec[c] = grp.ints[c]
			}
		}
		out.Rows = append(out.Rows, rec)
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
