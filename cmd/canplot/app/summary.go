package app

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/roman-kulish/can-flightlog/internal/series"
)

// writeSummary prints column statistics, one row per column.
func writeSummary(w io.Writer, summaries []series.ColumnSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "column\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Name,
			s.Count,
			formatStat(s.Mean),
			formatStat(s.Std),
			formatStat(s.Min),
			formatStat(s.Q25),
			formatStat(s.Q50),
			formatStat(s.Q75),
			formatStat(s.Max),
		)
	}
	return tw.Flush()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
