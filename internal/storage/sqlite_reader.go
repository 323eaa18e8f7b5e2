package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roman-kulish/can-flightlog/internal/frame"
)

// ErrNoData indicates that no data exists for the given parameters.
var ErrNoData = errors.New("no data available")

// SeriesReader provides an iterator-based interface for reading stored series
// rows with optional time and message ID filtering.
type SeriesReader interface {
	// Session returns metadata about the session this reader is accessing.
	Session() *Session

	// Next advances the iterator and returns true if there is another row
	// to read, false when the iteration is complete or if an error occurred.
	Next(context.Context) bool

	// Current returns the current row in the iteration.
	Current() *SeriesRow

	// Error returns any error that occurred during iteration.
	Error() error

	// Close releases any resources associated with the reader.
	Close() error
}

var _ SeriesReader = (*SqliteSeriesReader)(nil)

// ReaderOption configures a SeriesReader with specific filtering criteria.
type ReaderOption func(*SqliteSeriesReader)

// WithTimeRange limits rows to timestamps within [start, end] seconds.
func WithTimeRange(start, end float64) ReaderOption {
	return func(r *SqliteSeriesReader) {
		r.startTime = &start
		r.endTime = &end
	}
}

// WithMessageID limits rows to those decoded from the given message ID.
func WithMessageID(id string) ReaderOption {
	return func(r *SqliteSeriesReader) {
		id = frame.NormalizeID(id)
		r.messageID = &id
	}
}

func newSqliteSeriesReader(ctx context.Context, db *sql.DB, sessionID int64, opts ...ReaderOption) (*SqliteSeriesReader, error) {
	sr := &SqliteSeriesReader{
		db:        db,
		sessionID: sessionID,
	}
	for _, opt := range opts {
		opt(sr)
	}
	if err := sr.init(ctx); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return sr, nil
}

// SqliteSeriesReader implements SeriesReader for SQLite database backend.
type SqliteSeriesReader struct {
	db *sql.DB

	sessionID int64
	session   *Session

	startTime *float64 // Optional start of time range filter
	endTime   *float64 // Optional end of time range filter
	messageID *string  // Optional message ID filter

	current *SeriesRow
	rows    *sql.Rows
	err     error
}

func (sr *SqliteSeriesReader) init(ctx context.Context) error {
	if sr.db == nil {
		return errors.New("database connection required")
	}
	if sr.sessionID <= 0 {
		return errors.New("session ID required")
	}

	steps := []struct {
		msg string
		fn  func(context.Context) error
	}{
		{msg: "loading session", fn: sr.loadSession},
		{msg: "checking filters", fn: sr.checkFilters},
		{msg: "initializing query", fn: sr.initQuery},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.msg, err)
		}
	}
	return nil
}

func (sr *SqliteSeriesReader) loadSession(ctx context.Context) (err error) {
	sr.session, err = loadSession(ctx, sr.db, sr.sessionID)
	return
}

func (sr *SqliteSeriesReader) checkFilters(context.Context) error {
	if sr.startTime != nil && sr.endTime != nil && *sr.startTime > *sr.endTime {
		return fmt.Errorf("start time %g is after end time %g", *sr.startTime, *sr.endTime)
	}
	return nil
}

func (sr *SqliteSeriesReader) initQuery(ctx context.Context) (err error) {
	stmt, err := sr.db.PrepareContext(ctx, selectSeriesRowsSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	sr.rows, err = stmt.QueryContext(ctx,
		sr.sessionID,
		sr.startTime, sr.startTime,
		sr.endTime, sr.endTime,
		sr.messageID, sr.messageID,
	)
	return err
}

func (sr *SqliteSeriesReader) Session() *Session {
	return sr.session
}

func (sr *SqliteSeriesReader) Next(ctx context.Context) bool {
	if sr.err != nil || sr.rows == nil {
		return false
	}

	select {
	case <-ctx.Done():
		sr.err = ctx.Err()
		return false
	default:
	}

	if !sr.rows.Next() {
		return false
	}

	var data seriesRowData
	if err := sr.rows.Scan(data.scanArgs()...); err != nil {
		sr.err = fmt.Errorf("scanning row: %w", err)
		return false
	}
	sr.current = data.toSeriesRow()
	return true
}

func (sr *SqliteSeriesReader) Current() *SeriesRow {
	return sr.current
}

func (sr *SqliteSeriesReader) Error() error {
	if sr.err != nil {
		return sr.err
	}
	if sr.rows != nil {
		return sr.rows.Err()
	}
	return nil
}

func (sr *SqliteSeriesReader) Close() error {
	if sr.rows != nil {
		err := sr.rows.Close()
		sr.current = nil
		sr.rows = nil
		return err
	}
	return nil
}
