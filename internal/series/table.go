package series

import (
	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

// Table is a row-ordered series with one row per accepted frame. IMU columns
// are gap-filled between their first and last observation; pilot and
// propulsion columns are only present on rows of their own message.
type Table struct {
	Rows   []telemetry.Sample
	Kernel KernelName
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Timestamps returns the row timestamps in seconds.
func (t *Table) Timestamps() []float64 {
	ts := make([]float64, len(t.Rows))
	for i := range t.Rows {
		ts[i] = t.Rows[i].Timestamp
	}
	return ts
}

// Column returns the values of field f, one per row, nil where absent.
func (t *Table) Column(f telemetry.Field) []*float64 {
	col := make([]*float64, len(t.Rows))
	for i := range t.Rows {
		col[i] = t.Rows[i].Value(f)
	}
	return col
}

// TimeRange returns the first and last row timestamps. It returns zeros for an
// empty table.
func (t *Table) TimeRange() (start, end float64) {
	if len(t.Rows) == 0 {
		return 0, 0
	}
	return t.Rows[0].Timestamp, t.Rows[len(t.Rows)-1].Timestamp
}

// MissingChannels returns the fields that are absent from every row, i.e. no
// frame of the owning message was ever seen.
func (t *Table) MissingChannels() []telemetry.Field {
	var missing []telemetry.Field
	for _, f := range telemetry.Fields() {
		seen := false
		for i := range t.Rows {
			if t.Rows[i].Has(f) {
				seen = true
				break
			}
		}
		if !seen {
			missing = append(missing, f)
		}
	}
	return missing
}
