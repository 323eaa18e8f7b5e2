package storage

import (
	"database/sql"
	"time"

	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

// Session is a single decode run persisted to the store.
type Session struct {
	ID        int64     `json:"id"`
	StartTime time.Time `json:"startTime"`
	Source    string    `json:"source"`           // Trace the session was decoded from
	Config    *string   `json:"config,omitempty"` // JSON encoded run configuration
}

// SeriesRow is a series table row as read back from the store.
type SeriesRow struct {
	Index int64 `json:"index"` // Row position within the session
	telemetry.Sample
}

type seriesRowData struct {
	SessionID int64
	RowIndex  int64
	Timestamp float64
	MessageID string
	Values    [12]sql.NullFloat64 // In telemetry.Fields order
}
