package storage

import (
	"database/sql"
	"errors"

	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && *err == nil && !errors.Is(cErr, sql.ErrTxDone) {
		*err = cErr
	}
}

func toSeriesRowData(sessionID, rowIndex int64, s *telemetry.Sample) *seriesRowData {
	data := seriesRowData{
		SessionID: sessionID,
		RowIndex:  rowIndex,
		Timestamp: s.Timestamp,
		MessageID: s.MessageID,
	}
	for i, f := range telemetry.Fields() {
		data.Values[i] = toSQLNullFloat64(s.Value(f))
	}
	return &data
}

func (d *seriesRowData) args() []any {
	args := make([]any, 0, seriesRowNumColumns)
	args = append(args, d.SessionID, d.RowIndex, d.Timestamp, d.MessageID)
	for _, v := range d.Values {
		args = append(args, v)
	}
	return args
}

// scanArgs returns scan destinations matching selectSeriesRowsSQL.
func (d *seriesRowData) scanArgs() []any {
	dest := make([]any, 0, seriesRowNumColumns-1)
	dest = append(dest, &d.RowIndex, &d.Timestamp, &d.MessageID)
	for i := range d.Values {
		dest = append(dest, &d.Values[i])
	}
	return dest
}

func (d *seriesRowData) toSeriesRow() *SeriesRow {
	row := SeriesRow{
		Index: d.RowIndex,
		Sample: telemetry.Sample{
			Timestamp: d.Timestamp,
			MessageID: d.MessageID,
		},
	}
	for i, f := range telemetry.Fields() {
		if d.Values[i].Valid {
			row.Set(f, d.Values[i].Float64)
		}
	}
	return &row
}

func toSQLNullFloat64(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
