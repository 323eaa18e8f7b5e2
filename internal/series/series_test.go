package series

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/roman-kulish/can-flightlog/internal/frame"
	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

func ptr(v float64) *float64 {
	return &v
}

func imuSample(ts float64, f telemetry.Field, v *float64) telemetry.Sample {
	s := telemetry.Sample{Timestamp: ts, MessageID: "0001"}
	if v != nil {
		s.Set(f, *v)
	}
	return s
}

func rawFrame(id string, ts float64, data ...string) frame.RawFrame {
	f := frame.RawFrame{MessageID: id, TimestampMS: ts}
	for i := range f.Data {
		f.Data[i] = "00"
	}
	copy(f.Data[:], data)
	return f
}

func assertColumn(t *testing.T, got, expected []*float64) {
	t.Helper()

	if len(got) != len(expected) {
		t.Fatalf("Expected %d rows, got %d", len(expected), len(got))
	}
	for i := range expected {
		switch {
		case expected[i] == nil && got[i] != nil:
			t.Errorf("Row %d: expected absent, got %v", i, *got[i])
		case expected[i] != nil && got[i] == nil:
			t.Errorf("Row %d: expected %v, got absent", i, *expected[i])
		case expected[i] != nil && math.Abs(*got[i]-*expected[i]) > 1e-12:
			t.Errorf("Row %d: expected %v, got %v", i, *expected[i], *got[i])
		}
	}
}

func TestBuild_InterpolatesInterior(t *testing.T) {
	values := []*float64{nil, ptr(1), nil, nil, ptr(4), nil}

	samples := make([]telemetry.Sample, len(values))
	for i, v := range values {
		samples[i] = imuSample(float64(i), telemetry.PitchAngle, v)
	}

	table := Build(samples)

	assertColumn(t, table.Column(telemetry.PitchAngle), []*float64{nil, ptr(1), ptr(2), ptr(3), ptr(4), nil})

	if table.Kernel != KernelRows {
		t.Errorf("Expected default kernel %q, got %q", KernelRows, table.Kernel)
	}

	// input samples must be left untouched
	if samples[2].PitchAngle != nil {
		t.Error("Build modified its input")
	}
}

func TestBuild_ColumnsAreIndependent(t *testing.T) {
	samples := []telemetry.Sample{
		imuSample(0, telemetry.PitchAngle, ptr(0)),
		imuSample(1, telemetry.RollRate, ptr(10)),
		imuSample(2, telemetry.PitchAngle, ptr(2)),
		imuSample(3, telemetry.RollRate, ptr(20)),
	}

	table := Build(samples)

	assertColumn(t, table.Column(telemetry.PitchAngle), []*float64{ptr(0), ptr(1), ptr(2), nil})
	assertColumn(t, table.Column(telemetry.RollRate), []*float64{nil, ptr(10), ptr(15), ptr(20)})
	assertColumn(t, table.Column(telemetry.YawRate), []*float64{nil, nil, nil, nil})
}

func TestBuild_ControlChannelsStaySparse(t *testing.T) {
	res := Extract([]frame.RawFrame{
		rawFrame("07E3", 0, "00", "10"),
		rawFrame("0001", 10, "3F", "80"),
		rawFrame("0001", 20, "40", "00"),
		rawFrame("07E3", 30, "00", "30"),
	})
	if res.Skipped() != 0 {
		t.Fatalf("Unexpected malformed frames: %v", res.Errors)
	}

	table := Build(res.Samples)

	assertColumn(t, table.Column(telemetry.RollInput), []*float64{ptr(16), nil, nil, ptr(48)})
	assertColumn(t, table.Column(telemetry.PitchAngle), []*float64{nil, ptr(1), ptr(2), nil})
}

func TestBuild_TimeKernel(t *testing.T) {
	samples := []telemetry.Sample{
		imuSample(0, telemetry.YawAngle, ptr(0)),
		imuSample(1, telemetry.YawAngle, nil),
		imuSample(9, telemetry.YawAngle, nil),
		imuSample(10, telemetry.YawAngle, ptr(10)),
	}

	rows := Build(samples, WithKernel(RowLinear{}))
	assertColumn(t, rows.Column(telemetry.YawAngle), []*float64{ptr(0), ptr(10.0 / 3), ptr(20.0 / 3), ptr(10)})

	timed := Build(samples, WithKernel(TimeLinear{}))
	assertColumn(t, timed.Column(telemetry.YawAngle), []*float64{ptr(0), ptr(1), ptr(9), ptr(10)})
	if timed.Kernel != KernelTime {
		t.Errorf("Expected kernel %q, got %q", KernelTime, timed.Kernel)
	}
}

func TestTimeLinear_EqualTimestamps(t *testing.T) {
	got := TimeLinear{}.Fill(Gap{Lo: 0, Hi: 2, At: 1, LoValue: 0, HiValue: 4, LoTime: 5, HiTime: 5, AtTime: 5})
	if got != 2 {
		t.Errorf("Expected row-position fallback 2, got %v", got)
	}
}

func TestBuild_Empty(t *testing.T) {
	table := Build(nil)
	if table.Len() != 0 {
		t.Errorf("Expected empty table, got %d rows", table.Len())
	}
	if len(table.MissingChannels()) != len(telemetry.Fields()) {
		t.Errorf("Expected every channel missing, got %v", table.MissingChannels())
	}
	start, end := table.TimeRange()
	if start != 0 || end != 0 {
		t.Errorf("Expected zero time range, got %v..%v", start, end)
	}
}

func TestExtract_Filtering(t *testing.T) {
	frames := []frame.RawFrame{
		rawFrame("0001", 0, "3F", "80"),
		rawFrame("0700", 1, "FF", "FF", "FF", "FF"),
		rawFrame("07e4", 2, "01", "00", "FF", "FF"),
		rawFrame("0001", 3, "3F", "8X"),
		rawFrame("ABCD", 4),
		rawFrame("0003", 5, "BF", "80"),
	}

	res := Extract(frames)

	if res.Unknown != 2 {
		t.Errorf("Expected 2 unknown frames, got %d", res.Unknown)
	}
	if res.Skipped() != 1 {
		t.Errorf("Expected 1 malformed frame, got %d", res.Skipped())
	}
	if !errors.Is(res.Errors[0], frame.ErrMalformedHex) {
		t.Errorf("Expected malformed hex error, got %v", res.Errors[0])
	}

	var ids []string
	for _, s := range res.Samples {
		ids = append(ids, s.MessageID)
	}
	if !reflect.DeepEqual(ids, []string{"0001", "07E4", "0003"}) {
		t.Errorf("Unexpected surviving IDs: %v", ids)
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	frames := []frame.RawFrame{
		rawFrame("07E3", 0, "80", "00", "7F", "FF", "00", "00", "FF", "FF"),
		rawFrame("0002", 5, "3F", "80"),
		rawFrame("07E4", 7, "01", "00", "FF", "FF"),
		rawFrame("0002", 9, "40", "40"),
		rawFrame("0006", 12, "C0"),
	}

	first := Build(Extract(frames).Samples)
	second := Build(Extract(frames).Samples)

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical tables for identical input")
	}
}

func TestMissingChannels(t *testing.T) {
	table := Build([]telemetry.Sample{
		imuSample(0, telemetry.PitchAngle, ptr(1)),
		imuSample(1, telemetry.PitchRate, ptr(1)),
	})

	missing := table.MissingChannels()
	for _, f := range missing {
		if f == telemetry.PitchAngle || f == telemetry.PitchRate {
			t.Errorf("%s was observed but reported missing", f)
		}
	}
	if len(missing) != len(telemetry.Fields())-2 {
		t.Errorf("Expected %d missing channels, got %v", len(telemetry.Fields())-2, missing)
	}
}

func TestParseKernel(t *testing.T) {
	for name, want := range map[string]KernelName{"": KernelRows, "rows": KernelRows, "time": KernelTime} {
		k, err := ParseKernel(name)
		if err != nil {
			t.Fatalf("ParseKernel(%q): %v", name, err)
		}
		if k.Name() != want {
			t.Errorf("ParseKernel(%q): expected %q, got %q", name, want, k.Name())
		}
	}
	if _, err := ParseKernel("cubic"); err == nil {
		t.Error("Expected error for unknown kernel")
	}
}
