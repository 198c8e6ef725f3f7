package viz

import (
	"fmt"
	"math"
	"strconv"
)

// Tone is the hue family a heatmap value is drawn with
type Tone string

const (
	ToneBackground Tone = "background"
	TonePositive   Tone = "positive"
	ToneNegative   Tone = "negative"
	ToneNeutral    Tone = "neutral"
)

// RGB is an 8-bit color triple
type RGB struct {
	R, G, B uint8
}

// Hex renders the triple as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Color is a tone at a given intensity
type Color struct {
	Tone  Tone
	Alpha float64
	RGB   RGB
}

// CSS renders the color as rgba(); the background renders flat.
func (c Color) CSS() string {
	if c.Tone == ToneBackground {
		return c.RGB.Hex()
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.RGB.R, c.RGB.G, c.RGB.B,
		strconv.FormatFloat(c.Alpha, 'f', -1, 64))
}

// Scale maps sentiment values to colors with hard thresholds and no
// smoothing between bands.
type Scale struct {
	Threshold  float64 // Bands split at +Threshold and -Threshold
	Positive   RGB
	Negative   RGB
	Neutral    RGB
	Background RGB
}

// DefaultScale returns the dashboard's green/red/amber scale split at ±0.5
func DefaultScale() Scale {
	return Scale{
		Threshold:  0.5,
		Positive:   RGB{76, 175, 80},
		Negative:   RGB{244, 67, 54},
		Neutral:    RGB{255, 152, 0},
		Background: RGB{0xf5, 0xf5, 0xf5},
	}
}

// Color returns the display color for v. When present is false the cell
// is empty and the flat background is returned regardless of v.
// Alpha is |v| and is not clamped.
func (s Scale) Color(v float64, present bool) Color {
	if !present {
		return Color{Tone: ToneBackground, Alpha: 1, RGB: s.Background}
	}

	alpha := math.Abs(v)
	switch {
	case v > s.Threshold:
		return Color{Tone: TonePositive, Alpha: alpha, RGB: s.Positive}
	case v < -s.Threshold:
		return Color{Tone: ToneNegative, Alpha: alpha, RGB: s.Negative}
	default:
		return Color{Tone: ToneNeutral, Alpha: alpha, RGB: s.Neutral}
	}
}
