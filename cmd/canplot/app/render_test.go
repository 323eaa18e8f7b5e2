package app

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/roman-kulish/can-flightlog/internal/channel"
	"github.com/roman-kulish/can-flightlog/internal/series"
	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

func testTable() *series.Table {
	samples := make([]telemetry.Sample, 0, 8)
	for i := 0; i < 8; i++ {
		s := telemetry.Sample{Timestamp: float64(i) * 0.25}
		switch i % 2 {
		case 0:
			s.MessageID = "07E3"
			s.Set(telemetry.RollInput, float64(i*1000))
			s.Set(telemetry.PitchInput, float64(-i*1000))
			s.Set(telemetry.YawInput, 0)
			s.Set(telemetry.HoverThrottle, float64(i*8000))
		default:
			s.MessageID = "0001"
			s.Set(telemetry.PitchAngle, float64(i)/10)
		}
		samples = append(samples, s)
	}
	return series.Build(samples)
}

func testRenderer(t *testing.T, presets map[telemetry.Field]channel.Preset) *ChartRenderer {
	t.Helper()

	r, err := NewChartRenderer(RenderConfig{PanelWidth: 400, PanelHeight: 160, ColorTheme: JungleTheme}, presets)
	if err != nil {
		t.Fatalf("NewChartRenderer failed: %v", err)
	}
	return r
}

func TestChartRenderer_Render(t *testing.T) {
	r := testRenderer(t, channel.DefaultPresets())

	for _, group := range chartGroups {
		t.Run(group.Name, func(t *testing.T) {
			img, panelErrs, err := r.Render(testTable(), group)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if len(panelErrs) != 0 {
				t.Errorf("Unexpected panel errors: %v", panelErrs)
			}

			expected := image.Rect(0, 0, 400, defaultTopBorder+3*160+defaultBottomBorder)
			if img.Bounds() != expected {
				t.Errorf("Expected bounds %v, got %v", expected, img.Bounds())
			}
		})
	}
}

func TestChartRenderer_ScaleErrorDropsPanel(t *testing.T) {
	presets := channel.DefaultPresets()
	presets[telemetry.PitchInput] = channel.Preset{OldMin: 5, OldMax: 5, NewMin: 0, NewMax: 1}

	r := testRenderer(t, presets)

	img, panelErrs, err := r.Render(testTable(), chartGroups[0])
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if img == nil {
		t.Fatal("Expected an image with the remaining panels")
	}
	if len(panelErrs) != 1 {
		t.Fatalf("Expected 1 panel error, got %v", panelErrs)
	}

	var pe *PanelError
	if !errors.As(panelErrs[0], &pe) || pe.Field != telemetry.PitchInput {
		t.Errorf("Expected pitch_input panel error, got %v", panelErrs[0])
	}
	if !errors.Is(panelErrs[0], channel.ErrScaleRange) {
		t.Errorf("Expected ErrScaleRange, got %v", panelErrs[0])
	}
}

func TestChartRenderer_EmptyTable(t *testing.T) {
	r := testRenderer(t, channel.DefaultPresets())

	img, panelErrs, err := r.Render(series.Build(nil), chartGroups[3])
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(panelErrs) != 0 {
		t.Errorf("Empty panels are not errors, got %v", panelErrs)
	}

	// placeholder background in the middle of the first panel
	if c := img.RGBAAt(200, defaultTopBorder+10); c != placeholderColor {
		t.Errorf("Expected placeholder color, got %v", c)
	}
}

func TestChartRenderer_SinglePoint(t *testing.T) {
	s := telemetry.Sample{Timestamp: 1, MessageID: "0006"}
	s.Set(telemetry.YawRate, 0.5)

	r := testRenderer(t, channel.DefaultPresets())
	if _, panelErrs, err := r.Render(series.Build([]telemetry.Sample{s}), chartGroups[2]); err != nil || len(panelErrs) != 0 {
		t.Errorf("Expected single point to render, got %v, %v", err, panelErrs)
	}
}

func TestEncodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))

	var buf bytes.Buffer
	if err := encodeImage(&buf, img, ImagePNG); err != nil {
		t.Fatalf("encodeImage failed: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decoding png: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("Expected bounds %v, got %v", img.Bounds(), decoded.Bounds())
	}

	buf.Reset()
	if err = encodeImage(&buf, img, ImageJPEG); err != nil || buf.Len() == 0 {
		t.Errorf("Expected jpeg output, got %v", err)
	}
	if err = encodeImage(&buf, img, "gif"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestPalette(t *testing.T) {
	for theme := range validColorThemes {
		colors := palette(theme, 3)
		if len(colors) != 3 {
			t.Fatalf("%s: expected 3 colors, got %d", theme, len(colors))
		}
		if colors[0] == colors[2] {
			t.Errorf("%s: expected distinct colors, got %v", theme, colors)
		}
		for _, c := range colors {
			if c.A != 0xff {
				t.Errorf("%s: expected opaque color, got %v", theme, c)
			}
		}
	}
}

func TestPaddedRange(t *testing.T) {
	testCases := []struct {
		lo, hi         float64
		wantLo, wantHi float64
	}{
		{0, 10, 0, 10},
		{5, 5, 4, 6},
		{100, 100, 90, 110},
		{0, 0, -1, 1},
	}

	for _, tc := range testCases {
		lo, hi := paddedRange(tc.lo, tc.hi)
		if lo != tc.wantLo || hi != tc.wantHi {
			t.Errorf("paddedRange(%v, %v): expected %v..%v, got %v..%v", tc.lo, tc.hi, tc.wantLo, tc.wantHi, lo, hi)
		}
	}
}
