package series

import (
	"math"
	"testing"

	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

func TestDescribe(t *testing.T) {
	samples := []telemetry.Sample{
		imuSample(1, telemetry.PitchAngle, ptr(1)),
		imuSample(2, telemetry.PitchAngle, ptr(2)),
		imuSample(3, telemetry.PitchAngle, ptr(3)),
		imuSample(4, telemetry.PitchAngle, ptr(4)),
	}

	summaries := Describe(Build(samples))
	if len(summaries) != len(telemetry.Fields())+1 {
		t.Fatalf("Expected %d columns, got %d", len(telemetry.Fields())+1, len(summaries))
	}
	if summaries[0].Name != TimestampColumn {
		t.Errorf("Expected first column %q, got %q", TimestampColumn, summaries[0].Name)
	}

	var pitch ColumnSummary
	for _, s := range summaries {
		if s.Name == telemetry.PitchAngle.String() {
			pitch = s
		}
	}

	expected := ColumnSummary{
		Name:  "pitch_angle",
		Count: 4,
		Mean:  2.5,
		Std:   math.Sqrt(5.0 / 3.0),
		Min:   1,
		Q25:   1.75,
		Q50:   2.5,
		Q75:   3.25,
		Max:   4,
	}

	checks := []struct {
		name      string
		got, want float64
	}{
		{"mean", pitch.Mean, expected.Mean},
		{"std", pitch.Std, expected.Std},
		{"min", pitch.Min, expected.Min},
		{"25%", pitch.Q25, expected.Q25},
		{"50%", pitch.Q50, expected.Q50},
		{"75%", pitch.Q75, expected.Q75},
		{"max", pitch.Max, expected.Max},
	}
	if pitch.Count != expected.Count {
		t.Errorf("count: expected %d, got %d", expected.Count, pitch.Count)
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
}

func TestDescribe_EmptyAndSingle(t *testing.T) {
	summaries := Describe(Build([]telemetry.Sample{imuSample(7, telemetry.YawRate, ptr(-2))}))

	for _, s := range summaries {
		switch s.Name {
		case "yaw_rate":
			if s.Count != 1 || s.Mean != -2 || s.Q50 != -2 {
				t.Errorf("Unexpected single-value summary: %+v", s)
			}
			if !math.IsNaN(s.Std) {
				t.Errorf("Expected NaN std for one value, got %v", s.Std)
			}

		case "hover_throttle":
			if s.Count != 0 || !math.IsNaN(s.Mean) || !math.IsNaN(s.Max) {
				t.Errorf("Expected empty summary, got %+v", s)
			}
		}
	}
}
