package game

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/sandmap/internal/vec"
)

func strokeLine(dst *ebiten.Image, a, b vec.Vec2, clr color.Color) {
	vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, clr, true)
}

func fillCircle(dst *ebiten.Image, c vec.Vec2, r float64, clr color.Color) {
	vector.DrawFilledCircle(dst, float32(c.X), float32(c.Y), float32(r), clr, true)
}

func fillRect(dst *ebiten.Image, x, y, w, h float64, clr color.Color) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), clr, false)
}

// radialDot is the default particle sprite: white with alpha falling off
// from the centre.
func radialDot(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-r, float64(y)+0.5-r) / r
			a := uint8(255 * vec.Clamp(1-d, 0, 1) * vec.Clamp(1-d, 0, 1))
			img.SetRGBA(x, y, color.RGBA{R: a, G: a, B: a, A: a})
		}
	}
	return img
}
