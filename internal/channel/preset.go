package channel

import (
	"fmt"

	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

// Preset is a named display scale for one channel.
type Preset struct {
	OldMin float64 `yaml:"oldMin"`
	OldMax float64 `yaml:"oldMax"`
	NewMin float64 `yaml:"newMin"`
	NewMax float64 `yaml:"newMax"`
	Unit   string  `yaml:"unit"` // Display unit, e.g. "Degrees" or "%"
}

// Apply scales values with the preset's ranges.
func (p Preset) Apply(values []*float64) ([]*float64, error) {
	out, err := Scale(values, p.OldMin, p.OldMax, p.NewMin, p.NewMax)
	if err != nil {
		return nil, fmt.Errorf("applying %s scale: %w", p.Unit, err)
	}
	return out, nil
}

// DefaultPresets returns the display scales for the pilot and propulsion
// channels. Stick inputs span the full signed 16-bit range. IMU channels are
// already in physical units and have no preset.
func DefaultPresets() map[telemetry.Field]Preset {
	return map[telemetry.Field]Preset{
		telemetry.PitchInput:     {OldMin: -32767, OldMax: 32768, NewMin: -30, NewMax: 30, Unit: "Degrees"},
		telemetry.RollInput:      {OldMin: -32767, OldMax: 32768, NewMin: -30, NewMax: 30, Unit: "Degrees"},
		telemetry.YawInput:       {OldMin: -32767, OldMax: 32768, NewMin: -60, NewMax: 60, Unit: "Degrees/s"},
		telemetry.HoverThrottle:  {OldMin: 0, OldMax: 65535, NewMin: 0, NewMax: 100, Unit: "%"},
		telemetry.PusherThrottle: {OldMin: -32767, OldMax: 32768, NewMin: -100, NewMax: 100, Unit: "%"},
		telemetry.PropSpin:       {OldMin: 0, OldMax: 255, NewMin: 0, NewMax: 1, Unit: "On/Off"},
	}
}
