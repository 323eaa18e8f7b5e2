// Package canlog reads CAN traces exported by the bus analyser as
// semicolon-separated text.
package canlog

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/roman-kulish/can-flightlog/internal/frame"
)

const (
	// DefaultSkipLines is the length of the preamble the trace converter writes
	// before the column header.
	DefaultSkipLines = 30
	DefaultDelimiter = ';'

	ColumnID   = "ID (hex)"
	ColumnTime = "Time (ms)"
)

// ErrMalformedRow is wrapped by row-level errors reported through RowError.
var ErrMalformedRow = errors.New("malformed row")

// RowError describes a trace row that could not be turned into a frame.
type RowError struct {
	Line int // Record number after the header, starting at 1
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{ErrMalformedRow, e.Err}
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithSkipLines sets the number of preamble lines before the header row.
func WithSkipLines(n int) ReaderOption {
	return func(r *Reader) {
		r.skipLines = max(n, 0)
	}
}

// WithDelimiter sets the field delimiter.
func WithDelimiter(d rune) ReaderOption {
	return func(r *Reader) {
		r.delimiter = d
	}
}

// Reader iterates over the frames of a trace. It is not safe for concurrent use.
type Reader struct {
	skipLines int
	delimiter rune

	src     io.Reader
	closer  io.Closer
	csv     *csv.Reader
	idCol   int
	timeCol int
	dataCol [8]int

	line    int
	current frame.RawFrame
	skipped []error
	err     error
}

// Open opens the trace at path. The returned Reader must be closed.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}

	r, err := NewReader(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader creates a Reader over src, skipping the preamble and resolving the
// required columns from the header row.
func NewReader(src io.Reader, opts ...ReaderOption) (*Reader, error) {
	r := &Reader{
		skipLines: DefaultSkipLines,
		delimiter: DefaultDelimiter,
		src:       src,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.init(); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return r, nil
}

func (r *Reader) init() error {
	br := bufio.NewReader(r.src)
	for i := 0; i < r.skipLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("trace ended within the %d line preamble", r.skipLines)
			}
			return fmt.Errorf("skipping preamble: %w", err)
		}
	}

	r.csv = csv.NewReader(br)
	r.csv.Comma = r.delimiter
	r.csv.FieldsPerRecord = -1
	r.csv.LazyQuotes = true
	r.csv.ReuseRecord = true

	header, err := r.csv.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	return r.resolveColumns(header)
}

func (r *Reader) resolveColumns(header []string) error {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	lookup := func(name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, fmt.Errorf("missing column %q", name)
		}
		return i, nil
	}

	var err error
	if r.idCol, err = lookup(ColumnID); err != nil {
		return err
	}
	if r.timeCol, err = lookup(ColumnTime); err != nil {
		return err
	}
	for i := range r.dataCol {
		if r.dataCol[i], err = lookup(fmt.Sprintf("D%d", i)); err != nil {
			return err
		}
	}
	return nil
}

// Next advances to the next frame. It returns false at the end of the trace,
// on a read error or when ctx is done. Rows whose timestamp cannot be parsed
// are skipped and reported by Skipped.
func (r *Reader) Next(ctx context.Context) bool {
	if r.err != nil || r.csv == nil {
		return false
	}

	for {
		select {
		case <-ctx.Done():
			r.err = ctx.Err()
			return false
		default:
		}

		record, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return false
		}
		if err != nil {
			r.err = fmt.Errorf("reading trace: %w", err)
			return false
		}
		r.line++

		f, err := r.toFrame(record)
		if err != nil {
			r.skipped = append(r.skipped, &RowError{Line: r.line, Err: err})
			continue
		}
		r.current = f
		return true
	}
}

func (r *Reader) toFrame(record []string) (frame.RawFrame, error) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	var f frame.RawFrame
	f.MessageID = field(r.idCol)

	ts, err := strconv.ParseFloat(field(r.timeCol), 64)
	if err != nil {
		return f, fmt.Errorf("parsing %s: %w", ColumnTime, err)
	}
	f.TimestampMS = ts

	for i, col := range r.dataCol {
		f.Data[i] = field(col)
	}
	return f, nil
}

// Current returns the frame read by the last successful call to Next.
func (r *Reader) Current() frame.RawFrame {
	return r.current
}

// Skipped returns the errors of rows that were dropped so far.
func (r *Reader) Skipped() []error {
	return r.skipped
}

// Error returns the error that stopped the iteration, if any.
func (r *Reader) Error() error {
	return r.err
}

// Close releases the underlying file, if the Reader owns one.
func (r *Reader) Close() error {
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// ReadAll drains r and returns all frames in trace order.
func ReadAll(ctx context.Context, r *Reader) ([]frame.RawFrame, error) {
	var frames []frame.RawFrame
	for r.Next(ctx) {
		frames = append(frames, r.Current())
	}
	if err := r.Error(); err != nil {
		return nil, err
	}
	return frames, nil
}
