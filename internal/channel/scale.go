// Package channel projects decoded channels into display units.
package channel

import (
	"errors"
	"fmt"
)

// ErrScaleRange matches every *ScaleRangeError via errors.Is.
var ErrScaleRange = errors.New("empty source range")

// ScaleRangeError is returned when a scale is requested from a source range of
// zero width, which would divide by zero.
type ScaleRangeError struct {
	OldMin, OldMax float64
}

func (e *ScaleRangeError) Error() string {
	return fmt.Sprintf("cannot scale from empty range [%g, %g]", e.OldMin, e.OldMax)
}

func (e *ScaleRangeError) Is(target error) bool {
	return target == ErrScaleRange
}

// Scale maps every value from [oldMin, oldMax] onto [newMin, newMax]:
//
//	newMin + (newMax-newMin) / (oldMax-oldMin) * (v-oldMin)
//
// Values outside the source range are extrapolated, not clamped. Absent (nil)
// values stay absent. The input is never modified.
func Scale(values []*float64, oldMin, oldMax, newMin, newMax float64) ([]*float64, error) {
	if oldMax == oldMin {
		return nil, &ScaleRangeError{OldMin: oldMin, OldMax: oldMax}
	}

	span, oldSpan := newMax-newMin, oldMax-oldMin
	out := make([]*float64, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		// multiply before dividing so range end points map exactly
		scaled := newMin + span*(*v-oldMin)/oldSpan
		out[i] = &scaled
	}
	return out, nil
}
