package game

import (
	"fmt"
	"image/color"
	"math"
	"time"
)

var (
	introBackground = color.Black
	introInk        = color.White
	mapBackground   = color.White
	countryColor    = color.RGBA{R: 255, A: 255}
	cityColor       = color.Black
	labelColor      = color.Black
)

// hsv builds a color from hue in degrees and saturation and value in 0-1.
func hsv(h, s, v float64, alpha uint8) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	// premultiplied for ebiten
	a := float64(alpha) / 255
	return color.RGBA{
		R: uint8((r + m) * 255 * a),
		G: uint8((g + m) * 255 * a),
		B: uint8((b + m) * 255 * a),
		A: alpha,
	}
}

// formatDuration formats a duration as MM:SS.
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
