package app

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	ClassicTheme   ColorTheme = "classic"
	GrayscaleTheme ColorTheme = "grayscale"
	JungleTheme    ColorTheme = "jungle"
	ThermalTheme   ColorTheme = "thermal"
	MarineTheme    ColorTheme = "marine"

	// Gradient positions below this are too dark to tell apart on white.
	minThemePosition = 0.2
)

type ColorTheme string

var validColorThemes = map[ColorTheme]struct{}{
	ClassicTheme:   {},
	GrayscaleTheme: {},
	JungleTheme:    {},
	ThermalTheme:   {},
	MarineTheme:    {},
}

// getColorTheme returns the gradient of a theme over [0,1].
func getColorTheme(theme ColorTheme) func(float64) colorful.Color {
	switch theme {
	case GrayscaleTheme: // Black -> Light gray
		return func(p float64) colorful.Color {
			v := math.Pow(p, 0.7) * 0.8
			return colorful.Color{R: v, G: v, B: v}
		}

	case JungleTheme: // Dark Green -> Yellow
		return func(p float64) colorful.Color {
			return colorful.Hsv(120-(p*60), 1.0, 0.3+(math.Pow(p, 0.6)*0.7))
		}

	case ThermalTheme: // Black -> Red -> Yellow
		return func(p float64) colorful.Color {
			if p < 0.5 {
				return colorful.Color{R: p * 2}
			}
			return colorful.Color{R: 1, G: (p - 0.5) * 1.6}
		}

	case MarineTheme: // Deep Blue -> Cyan
		return func(p float64) colorful.Color {
			return colorful.Hsv(240-(p*60), 1.0-(p*0.5), 0.3+(math.Pow(p, 0.6)*0.7))
		}

	default: // Blue -> Red
		return func(p float64) colorful.Color {
			return colorful.Hsv(240-(p*240), 0.9+(p*0.1), 0.4+math.Pow(p, 0.7)*0.5)
		}
	}
}

// palette picks n evenly spaced line colors from the theme gradient.
func palette(theme ColorTheme, n int) []drawing.Color {
	gradient := getColorTheme(theme)

	colors := make([]drawing.Color, n)
	for i := range colors {
		p := 1.0
		if n > 1 {
			p = minThemePosition + (1-minThemePosition)*float64(i)/float64(n-1)
		}
		r, g, b := gradient(p).Clamped().RGB255()
		colors[i] = drawing.Color{R: r, G: g, B: b, A: 0xff}
	}
	return colors
}
