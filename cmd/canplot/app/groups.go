package app

import (
	"fmt"
	"math"

	"github.com/roman-kulish/can-flightlog/internal/channel"
	"github.com/roman-kulish/can-flightlog/internal/series"
	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

const timeAxisLabel = "Time (s)"

// panel is one line chart within a group, sharing the time axis with the
// other panels.
type panel struct {
	Field  telemetry.Field
	Label  string // Y axis label
	Legend string
	Scaled bool // Values are mapped through the channel's display preset
}

// chartGroup is rendered to a single image of stacked panels.
type chartGroup struct {
	Name   string // Used in the output file name
	Title  string
	Panels []panel
}

var chartGroups = []chartGroup{
	{
		Name:  "pitch",
		Title: "Pitch Data",
		Panels: []panel{
			{Field: telemetry.PitchInput, Label: "Pitch Input (Degrees)", Legend: "Pitch Input (Scaled Degrees)", Scaled: true},
			{Field: telemetry.PitchAngle, Label: "Pitch Angle (Radians)", Legend: "Pitch Angle (Radians)"},
			{Field: telemetry.PitchRate, Label: "Pitch Rate (Radians/s)", Legend: "Pitch Rate (Radians/s)"},
		},
	},
	{
		Name:  "roll",
		Title: "Roll Data",
		Panels: []panel{
			{Field: telemetry.RollInput, Label: "Roll Input (Degrees)", Legend: "Roll Input (Scaled Degrees)", Scaled: true},
			{Field: telemetry.RollAngle, Label: "Roll Angle (Radians)", Legend: "Roll Angle (Radians)"},
			{Field: telemetry.RollRate, Label: "Roll Rate (Radians/s)", Legend: "Roll Rate (Radians/s)"},
		},
	},
	{
		Name:  "yaw",
		Title: "Yaw Data",
		Panels: []panel{
			{Field: telemetry.YawInput, Label: "Yaw Input (Degrees/s)", Legend: "Yaw Input (Scaled Degrees/s)", Scaled: true},
			{Field: telemetry.YawAngle, Label: "Yaw Angle (Radians)", Legend: "Yaw Angle (Radians)"},
			{Field: telemetry.YawRate, Label: "Yaw Rate (Radians/s)", Legend: "Yaw Rate (Radians/s)"},
		},
	},
	{
		Name:  "throttle",
		Title: "Throttle and Prop Spin Data",
		Panels: []panel{
			{Field: telemetry.HoverThrottle, Label: "Hover Throttle (%)", Legend: "Hover Throttle (Scaled %)", Scaled: true},
			{Field: telemetry.PusherThrottle, Label: "Pusher Throttle (%)", Legend: "Pusher Throttle (Scaled %)", Scaled: true},
			{Field: telemetry.PropSpin, Label: "Prop Spin (On/Off)", Legend: "Prop Spin (On/Off)", Scaled: true},
		},
	},
}

// points returns the present (timestamp, value) pairs of the panel's channel,
// scaled when the panel asks for it. Absent and non-finite cells are skipped,
// so sparse channels are drawn by connecting the points that exist.
func (p panel) points(t *series.Table, presets map[telemetry.Field]channel.Preset) (xs, ys []float64, err error) {
	values := t.Column(p.Field)
	if p.Scaled {
		preset, ok := presets[p.Field]
		if !ok {
			return nil, nil, fmt.Errorf("no display scale for %s", p.Field)
		}
		if values, err = preset.Apply(values); err != nil {
			return nil, nil, fmt.Errorf("scaling %s: %w", p.Field, err)
		}
	}

	timestamps := t.Timestamps()
	for i, v := range values {
		if v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
			xs = append(xs, timestamps[i])
			ys = append(ys, *v)
		}
	}
	return xs, ys, nil
}
