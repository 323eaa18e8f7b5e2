// Package series turns decoded CAN samples into a row-aligned time series.
package series

import (
	"github.com/roman-kulish/can-flightlog/internal/frame"
	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

// ExtractResult is the outcome of filtering and decoding a trace.
type ExtractResult struct {
	Samples []telemetry.Sample // Decoded samples of known messages, in trace order
	Unknown int                // Frames dropped because their ID is not on the allow-list
	Errors  []error            // One entry per malformed frame that was skipped
}

// Skipped returns the number of malformed frames that were dropped.
func (r *ExtractResult) Skipped() int {
	return len(r.Errors)
}

// Extract decodes every frame whose ID is on frame.KnownMessageIDs, keeping
// trace order. Unknown IDs are dropped silently. A malformed frame is skipped
// and its error recorded; it never aborts the extraction.
func Extract(frames []frame.RawFrame) *ExtractResult {
	res := &ExtractResult{Samples: make([]telemetry.Sample, 0, len(frames))}

	for _, f := range frames {
		if !frame.ParseMessageKind(f.MessageID).Known() {
			res.Unknown++
			continue
		}

		s, err := frame.Decode(f)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Samples = append(res.Samples, s)
	}

	return res
}
