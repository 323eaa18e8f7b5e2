package app

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	dpi      = 120.0
	fontSize = 10.0
)

var placeholderColor = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}

// parseFont returns the monospaced face used for annotations and chart text.
func parseFont() (*truetype.Font, error) {
	f, err := freetype.ParseFont(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return f, nil
}

type annotatorConfig struct {
	FontSize float64
	Borders  BorderConfig
}

// groupInfo is what the info bar reports about a rendered group.
type groupInfo struct {
	Title     string
	TimeStart float64
	TimeEnd   float64
	Rows      int
	Points    int
	Theme     ColorTheme
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(parsedFont *truetype.Font, config annotatorConfig) *annotator {
	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, info groupInfo) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	ops := []struct {
		msg string
		fn  func(*image.RGBA, groupInfo) error
	}{
		{"drawing title", a.drawTitle},
		{"drawing info bar", a.drawInfoBar},
	}
	for _, op := range ops {
		if err := op.fn(img, info); err != nil {
			return fmt.Errorf("%s: %w", op.msg, err)
		}
	}
	return nil
}

func (a *annotator) drawTitle(img *image.RGBA, info groupInfo) error {
	area := image.Rect(0, 0, img.Bounds().Dx(), a.config.Borders.Top)
	return a.drawCentered(info.Title, area)
}

func (a *annotator) drawInfoBar(img *image.RGBA, info groupInfo) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Time: %.3fs - %.3fs", info.TimeStart, info.TimeEnd))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Rows: %s", humanize.Comma(int64(info.Rows))))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Points: %s", humanize.Comma(int64(info.Points))))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Theme: %s", info.Theme))

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	// Center text vertically in bottom border
	textY := img.Bounds().Max.Y - (a.config.Borders.Bottom-fontHeight)/2 - metrics.Descent.Round()

	pt := freetype.Pt(10, textY)
	if _, err := a.context.DrawString(sb.String(), pt); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}
	return nil
}

// drawPlaceholder fills area with a flat background and a centered message.
// It is used for panels that have nothing to plot.
func (a *annotator) drawPlaceholder(img *image.RGBA, area image.Rectangle, message string) error {
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			img.Set(x, y, placeholderColor)
		}
	}

	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)
	return a.drawCentered(message, area)
}

func (a *annotator) drawCentered(text string, area image.Rectangle) error {
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	width := font.MeasureString(a.fontFace, text).Round()

	x := area.Min.X + (area.Dx()-width)/2
	y := area.Min.Y + (area.Dy()+fontHeight)/2 - metrics.Descent.Round()

	if _, err := a.context.DrawString(text, freetype.Pt(max(x, area.Min.X), y)); err != nil {
		return fmt.Errorf("drawing %q: %w", text, err)
	}
	return nil
}
