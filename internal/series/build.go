package series

import (
	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

// Option configures Build.
type Option func(*builder)

// WithKernel sets the interpolation kernel used to fill IMU gaps. The default
// is RowLinear.
func WithKernel(k Kernel) Option {
	return func(b *builder) {
		if k != nil {
			b.kernel = k
		}
	}
}

type builder struct {
	kernel Kernel
}

// Build materialises one row per sample, in input order, and fills the gaps of
// each IMU column independently using the configured kernel. Rows before the
// first or after the last observation of a column stay absent for that column.
// Pilot and propulsion columns are left exactly as decoded.
//
// The input is not modified; building the same samples twice yields equal
// tables.
func Build(samples []telemetry.Sample, opts ...Option) *Table {
	b := builder{kernel: RowLinear{}}
	for _, opt := range opts {
		opt(&b)
	}

	rows := make([]telemetry.Sample, len(samples))
	copy(rows, samples)

	for _, f := range telemetry.IMUFields() {
		b.fillColumn(rows, f)
	}

	return &Table{Rows: rows, Kernel: b.kernel.Name()}
}

// fillColumn runs a forward scan for the nearest prior known row and a
// backward scan for the nearest next known row, then fills every absent cell
// that has both.
func (b *builder) fillColumn(rows []telemetry.Sample, f telemetry.Field) {
	n := len(rows)
	if n == 0 {
		return
	}

	prev := make([]int, n)
	last := -1
	for i := range rows {
		if rows[i].Has(f) {
			last = i
		}
		prev[i] = last
	}

	next := make([]int, n)
	last = -1
	for i := n - 1; i >= 0; i-- {
		if rows[i].Has(f) {
			last = i
		}
		next[i] = last
	}

	for i := range rows {
		if rows[i].Has(f) {
			continue
		}
		lo, hi := prev[i], next[i]
		if lo < 0 || hi < 0 {
			continue
		}

		rows[i].Set(f, b.kernel.Fill(Gap{
			Lo:      lo,
			Hi:      hi,
			At:      i,
			LoValue: *rows[lo].Value(f),
			HiValue: *rows[hi].Value(f),
			LoTime:  rows[lo].Timestamp,
			HiTime:  rows[hi].Timestamp,
			AtTime:  rows[i].Timestamp,
		}))
	}
}
