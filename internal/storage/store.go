// Package storage persists decoded flight-log series to SQLite.
package storage

import (
	"context"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

// Store provides an interface for persisting decode sessions and their series
// rows.
type Store interface {
	// CreateSession registers a new decode session and returns its unique identifier.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - source: Path or name of the trace being decoded
	//   - config: Optional run configuration. Can be string, []byte, or JSON-serializable object
	CreateSession(ctx context.Context, source string, config any) (sessionID int64, err error)

	// Session retrieves a session by its ID. ErrNoData is returned when the
	// session does not exist.
	Session(ctx context.Context, id int64) (*Session, error)

	// Sessions returns all sessions ordered by start time.
	Sessions(ctx context.Context) ([]*Session, error)

	// StoreSeries saves series rows of a session in arrival order. Rows are
	// written in batches, each batch in its own transaction.
	StoreSeries(ctx context.Context, sessionID int64, rows []telemetry.Sample) error

	// ReadSeries returns a reader over the stored rows of a session.
	ReadSeries(ctx context.Context, sessionID int64, opts ...ReaderOption) (*SqliteSeriesReader, error)

	// Close releases all database connections and resources.
	// It is safe to call Close multiple times.
	Close() error
}

var _ Store = (*SqliteStore)(nil)
