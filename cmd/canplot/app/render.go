package app

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/roman-kulish/can-flightlog/internal/channel"
	"github.com/roman-kulish/can-flightlog/internal/series"
	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

const (
	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultBottomBorder = 36

	lineWidth = 1.5
	dotWidth  = 2.5
)

// BorderConfig defines the sizes of white space around the panels
type BorderConfig struct {
	Top    int // Space for the group title
	Bottom int // Space for the information bar
}

// RenderConfig holds all configuration options for chart rendering
type RenderConfig struct {
	PanelWidth  int
	PanelHeight int

	FontSize   float64
	ColorTheme ColorTheme

	BorderConfig BorderConfig
}

// PanelError reports a panel that could not be drawn. The rest of the group
// is rendered regardless.
type PanelError struct {
	Group string
	Field telemetry.Field
	Err   error
}

func (e *PanelError) Error() string {
	return fmt.Sprintf("%s panel %s: %v", e.Group, e.Field, e.Err)
}

func (e *PanelError) Unwrap() error {
	return e.Err
}

// ChartRenderer draws chart groups of a series table
type ChartRenderer struct {
	config  RenderConfig
	presets map[telemetry.Field]channel.Preset
	font    *truetype.Font
}

// NewChartRenderer creates a new chart renderer with the given configuration.
// presets supplies the display scales of scaled panels.
func NewChartRenderer(config RenderConfig, presets map[telemetry.Field]channel.Preset) (*ChartRenderer, error) {
	// Set defaults for zero values
	if config.PanelWidth == 0 {
		config.PanelWidth = defaultPanelWidth
	}
	if config.PanelHeight == 0 {
		config.PanelHeight = defaultPanelHeight
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.ColorTheme == "" {
		config.ColorTheme = ClassicTheme
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}

	parsedFont, err := parseFont()
	if err != nil {
		return nil, err
	}

	return &ChartRenderer{
		config:  config,
		presets: presets,
		font:    parsedFont,
	}, nil
}

// Render draws the panels of group stacked vertically under a title, with an
// info bar at the bottom. Panels that fail are replaced with a placeholder
// and reported in the returned slice; the error is for the image as a whole.
func (r *ChartRenderer) Render(t *series.Table, group chartGroup) (*image.RGBA, []error, error) {
	width := r.config.PanelWidth
	height := r.config.BorderConfig.Top + len(group.Panels)*r.config.PanelHeight + r.config.BorderConfig.Bottom
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Fill with white background
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ann := newAnnotator(r.font, annotatorConfig{
		FontSize: r.config.FontSize,
		Borders:  r.config.BorderConfig,
	})
	defer ann.Close()

	timeStart, timeEnd := t.TimeRange()
	colors := palette(r.config.ColorTheme, len(group.Panels))

	var panelErrs []error
	var points int
	for i, p := range group.Panels {
		area := image.Rect(
			0,
			r.config.BorderConfig.Top+i*r.config.PanelHeight,
			width,
			r.config.BorderConfig.Top+(i+1)*r.config.PanelHeight,
		)

		xs, ys, err := p.points(t, r.presets)
		if err != nil {
			panelErrs = append(panelErrs, &PanelError{Group: group.Name, Field: p.Field, Err: err})
			if err = ann.drawPlaceholder(img, area, p.Label+": scale error"); err != nil {
				return nil, panelErrs, err
			}
			continue
		}
		if len(xs) == 0 {
			if err = ann.drawPlaceholder(img, area, p.Label+": no data"); err != nil {
				return nil, panelErrs, err
			}
			continue
		}

		ch := r.panelChart(p, xs, ys, timeStart, timeEnd, colors[i], i == len(group.Panels)-1)
		panelImg, err := renderChart(ch)
		if err != nil {
			panelErrs = append(panelErrs, &PanelError{Group: group.Name, Field: p.Field, Err: err})
			if err = ann.drawPlaceholder(img, area, p.Label+": render error"); err != nil {
				return nil, panelErrs, err
			}
			continue
		}
		draw.Draw(img, area, panelImg, panelImg.Bounds().Min, draw.Src)
		points += len(xs)
	}

	info := groupInfo{
		Title:     group.Title,
		TimeStart: timeStart,
		TimeEnd:   timeEnd,
		Rows:      t.Len(),
		Points:    points,
		Theme:     r.config.ColorTheme,
	}
	if err := ann.annotate(img, info); err != nil {
		return nil, panelErrs, fmt.Errorf("drawing annotations: %w", err)
	}

	return img, panelErrs, nil
}

func (r *ChartRenderer) panelChart(p panel, xs, ys []float64, timeStart, timeEnd float64, col drawing.Color, withTimeLabel bool) *chart.Chart {
	// go-chart needs two points and non-empty ranges to draw a line.
	if len(xs) == 1 {
		xs = []float64{xs[0], xs[0]}
		ys = []float64{ys[0], ys[0]}
	}
	xMin, xMax := paddedRange(timeStart, timeEnd)
	yMin, yMax := paddedRange(minMax(ys))

	style := chart.Style{
		StrokeColor: col,
		StrokeWidth: lineWidth,
	}
	if len(xs) <= 2 {
		style.DotColor = col
		style.DotWidth = dotWidth
	}

	xAxis := chart.XAxis{
		Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		ValueFormatter: func(v any) string {
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%.1f", f)
			}
			return ""
		},
	}
	if withTimeLabel {
		xAxis.Name = timeAxisLabel
	}

	ch := chart.Chart{
		Width:      r.config.PanelWidth,
		Height:     r.config.PanelHeight,
		Font:       r.font,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 16, Bottom: 14}},
		XAxis:      xAxis,
		YAxis: chart.YAxis{
			Name:  p.Label,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    p.Legend,
				XValues: xs,
				YValues: ys,
				Style:   style,
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return &ch
}

func renderChart(ch *chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decoding chart: %w", err)
	}
	return img, nil
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// paddedRange widens a degenerate range so it can be drawn.
func paddedRange(lo, hi float64) (float64, float64) {
	if hi > lo {
		return lo, hi
	}
	pad := math.Max(math.Abs(lo)*0.1, 1)
	return lo - pad, hi + pad
}
