package series

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

// TimestampColumn is the column name of row timestamps in summaries and exports.
const TimestampColumn = "timestamp"

// ColumnSummary holds descriptive statistics of one column. Statistics of an
// empty column are NaN; Std is NaN for fewer than two values.
type ColumnSummary struct {
	Name  string
	Count int
	Mean  float64
	Std   float64 // Sample standard deviation (n-1)
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Describe summarises the timestamp column followed by every typed field, in
// column order. Absent cells are ignored.
func Describe(t *Table) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(telemetry.Fields())+1)
	out = append(out, summarize(TimestampColumn, t.Timestamps()))

	for _, f := range telemetry.Fields() {
		var values []float64
		for _, v := range t.Column(f) {
			if v != nil {
				values = append(values, *v)
			}
		}
		out = append(out, summarize(f.String(), values))
	}
	return out
}

func summarize(name string, values []float64) ColumnSummary {
	nan := math.NaN()
	s := ColumnSummary{
		Name:  name,
		Count: len(values),
		Mean:  nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan,
	}
	if len(values) == 0 {
		return s
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		s.Std = nan
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.50)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

// quantile interpolates linearly between the closest ranks of sorted values,
// i.e. position (n-1)*p.
func quantile(sorted []float64, p float64) float64 {
	pos := float64(len(sorted)-1) * p
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}
