package probe

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Render writes rep as three tables (column info, numeric summary and the
// duplicate count) in the layout of a dataframe info()/describe() dump.
func Render(w io.Writer, rep Report) error {
	if _, err := fmt.Fprintf(w, "shape: (%d, %d)\n", rep.Rows, len(rep.Columns)); err != nil {
		return err
	}

	info := newTable(w)
	info.SetHeader([]string{"#", "column", "non-null", "null", "dtype"})
	for i, c := range rep.Columns {
		info.Append([]string{
			strconv.Itoa(i),
			c.Name,
			strconv.Itoa(c.NonNull),
			strconv.Itoa(c.Nulls),
			c.DType,
		})
	}
	info.Render()

	if num := rep.NumericColumns(); len(num) > 0 {
		desc := newTable(w)
		desc.SetHeader([]string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"})
		for _, c := range num {
			s := c.Stats
			desc.Append([]string{
				c.Name,
				strconv.Itoa(s.Count),
				formatStat(s.Mean),
				formatStat(s.Std),
				formatStat(s.Min),
				formatStat(s.Q25),
				formatStat(s.Q50),
				formatStat(s.Q75),
				formatStat(s.Max),
			})
		}
		desc.Render()
	}

	_, err := fmt.Fprintf(w, "duplicated rows: %d\n", rep.Duplicates)
	return err
}

func newTable(w io.Writer) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	return t
}

func formatStat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}
