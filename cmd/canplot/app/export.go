package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/roman-kulish/can-flightlog/internal/series"
	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

// writeCSV writes the series table with a timestamp column followed by every
// typed field. Absent cells are left empty.
func writeCSV(w io.Writer, t *series.Table) error {
	fields := telemetry.Fields()

	cw := csv.NewWriter(w)

	record := make([]string, 0, len(fields)+1)
	record = append(record, series.TimestampColumn)
	for _, f := range fields {
		record = append(record, f.String())
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range t.Rows {
		row := &t.Rows[i]

		record = record[:0]
		record = append(record, strconv.FormatFloat(row.Timestamp, 'f', -1, 64))
		for _, f := range fields {
			if v := row.Value(f); v != nil {
				record = append(record, strconv.FormatFloat(*v, 'f', -1, 64))
			} else {
				record = append(record, "")
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func exportCSV(path string, t *series.Table) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	return writeCSV(out, t)
}
