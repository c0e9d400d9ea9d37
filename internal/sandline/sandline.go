// Package sandline accumulates a generative sand drawing on a persistent
// pixel buffer. Strokes are laid down as scattered translucent grains, either
// along bezier curves between tweeted points or by a pen springing toward the
// latest target.
package sandline

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/harmonica"
	"golang.org/x/image/draw"

	"github.com/iburimskiy/sandmap/internal/vec"
)

// Mode selects how strokes are placed.
type Mode int

const (
	Attractor Mode = iota
	Bezier
)

func (m Mode) String() string {
	switch m {
	case Attractor:
		return "attractor"
	case Bezier:
		return "bezier"
	}
	return "unknown"
}

const (
	// MaxPoints bounds the remembered control points.
	MaxPoints = 256
	// CurveTicks is how many updates one bezier segment takes to draw.
	CurveTicks = 90
	// orbitStep is the angle the attractor anchor advances per update.
	orbitStep = 0.05
	gainJitter = 0.05
)

var (
	Background = color.NRGBA{R: 12, G: 10, B: 14, A: 255}
	Ink        = color.NRGBA{R: 240, G: 226, B: 200, A: 255}
)

// Point is a control point pushed by a tweet.
type Point struct {
	Pos       vec.Vec2
	MaxOffset float64
	MaxRadius float64
}

type segment struct {
	from, ctrl, to vec.Vec2
	progress       float64
}

func (s segment) at(t float64) vec.Vec2 {
	u := 1 - t
	return s.from.Scale(u * u).Add(s.ctrl.Scale(2 * u * t)).Add(s.to.Scale(t * t))
}

// tangent of the curve at t, not normalised.
func (s segment) tangent(t float64) vec.Vec2 {
	return s.ctrl.Sub(s.from).Scale(2 * (1 - t)).Add(s.to.Sub(s.ctrl).Scale(2 * t))
}

// Canvas is the drawing state. It is owned by a single goroutine; readers
// use Image together with Version to pick up changes.
type Canvas struct {
	pix     *image.RGBA
	mode    Mode
	target  vec.Vec2
	points  []Point
	grains  int
	alpha   uint8
	gain    float64
	version uint64

	pen    vec.Vec2
	penVel vec.Vec2
	spring harmonica.Spring
	orbit  float64

	curve   segment
	drawing bool
}

// New allocates a w×h canvas. grains is the number of grains per stroke and
// alpha the opacity of the densest grain.
func New(w, h, grains int, alpha uint8) *Canvas {
	if grains < 2 {
		grains = 2
	}
	c := &Canvas{
		pix:    image.NewRGBA(image.Rect(0, 0, w, h)),
		mode:   Bezier,
		grains: grains,
		alpha:  alpha,
		gain:   rand.Float64(),
		spring: harmonica.NewSpring(harmonica.FPS(60), 2.0, 0.6),
	}
	c.clear()
	return c
}

func (c *Canvas) clear() {
	draw.Draw(c.pix, c.pix.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
	b := c.pix.Bounds()
	c.pen = vec.Vec2{X: float64(b.Dx()) / 2, Y: float64(b.Dy()) / 2}
	c.penVel = vec.Vec2{}
	c.points = c.points[:0]
	c.drawing = false
	c.orbit = 0
	c.version++
}

// Mode returns the current stroke mode.
func (c *Canvas) Mode() Mode { return c.mode }

// SetMode switches stroke placement. A bezier segment in progress keeps
// drawing only while the mode stays Bezier.
func (c *Canvas) SetMode(m Mode) { c.mode = m }

// Target returns the attractor target.
func (c *Canvas) Target() vec.Vec2 { return c.target }

// SetTarget moves the point the attractor pen springs toward.
func (c *Canvas) SetTarget(p vec.Vec2) { c.target = p }

// Points returns the remembered control points, oldest first.
func (c *Canvas) Points() []Point { return c.points }

// AddPoint pushes a control point. In Bezier mode it starts a new curve from
// the previous point, bent by up to maxOffset pixels.
func (c *Canvas) AddPoint(pos vec.Vec2, maxOffset, maxRadius float64) {
	from := c.pen
	if n := len(c.points); n > 0 {
		from = c.points[n-1].Pos
	}
	if len(c.points) == MaxPoints {
		copy(c.points, c.points[1:])
		c.points = c.points[:MaxPoints-1]
	}
	c.points = append(c.points, Point{Pos: pos, MaxOffset: maxOffset, MaxRadius: maxRadius})

	if c.mode == Bezier {
		mid := from.Lerp(pos, 0.5)
		ctrl := mid.Add(vec.Vec2{
			X: (rand.Float64()*2 - 1) * maxOffset,
			Y: (rand.Float64()*2 - 1) * maxOffset,
		})
		c.curve = segment{from: from, ctrl: ctrl, to: pos}
		c.drawing = true
	}
}

// Drawing reports whether a bezier segment is still being laid down.
func (c *Canvas) Drawing() bool { return c.drawing }

// Update lays down one frame of grains.
func (c *Canvas) Update() {
	if len(c.points) == 0 {
		return
	}
	last := c.points[len(c.points)-1]

	switch c.mode {
	case Attractor:
		c.pen.X, c.penVel.X = c.spring.Update(c.pen.X, c.penVel.X, c.target.X)
		c.pen.Y, c.penVel.Y = c.spring.Update(c.pen.Y, c.penVel.Y, c.target.Y)
		c.orbit += orbitStep
		anchor := c.target.Add(vec.Vec2{
			X: math.Cos(c.orbit) * last.MaxRadius,
			Y: math.Sin(c.orbit) * last.MaxRadius,
		})
		c.stroke(c.pen, anchor)
	case Bezier:
		if !c.drawing {
			return
		}
		s := &c.curve
		s.progress += 1.0 / CurveTicks
		if s.progress >= 1 {
			s.progress = 1
			c.drawing = false
		}
		p := s.at(s.progress)
		n := s.tangent(s.progress)
		normal := vec.Vec2{X: -n.Y, Y: n.X}
		if l := normal.Len(); l > 0 {
			normal = normal.Scale(last.MaxRadius / l)
		}
		c.stroke(p, p.Add(normal))
		c.pen = p
	}
}

// stroke scatters grains from a toward b, densest near a.
func (c *Canvas) stroke(a, b vec.Vec2) {
	c.gain = vec.Clamp(c.gain+(rand.Float64()*2-1)*gainJitter, 0, 1)
	w := c.gain / float64(c.grains-1)
	for i := 0; i < c.grains; i++ {
		t := math.Sin(math.Sin(float64(i) * w))
		p := a.Lerp(b, t)
		fade := 1 - float64(i)/float64(c.grains)
		c.plot(p, uint8(float64(c.alpha)*fade))
	}
	c.version++
}

func (c *Canvas) plot(p vec.Vec2, alpha uint8) {
	if alpha == 0 {
		return
	}
	pt := image.Pt(int(math.Floor(p.X)), int(math.Floor(p.Y)))
	if !pt.In(c.pix.Bounds()) {
		return
	}
	ink := Ink
	ink.A = alpha
	draw.Draw(c.pix, image.Rectangle{Min: pt, Max: pt.Add(image.Pt(1, 1))}, &image.Uniform{C: ink}, image.Point{}, draw.Over)
}

// Reset clears strokes and pixels. The pixel buffer stays allocated.
func (c *Canvas) Reset() { c.clear() }

// Image returns the live pixel buffer. Callers must not modify it.
func (c *Canvas) Image() *image.RGBA { return c.pix }

// Snapshot returns a copy of the pixel buffer.
func (c *Canvas) Snapshot() *image.RGBA {
	out := image.NewRGBA(c.pix.Bounds())
	copy(out.Pix, c.pix.Pix)
	return out
}

// Version changes whenever the pixels do.
func (c *Canvas) Version() uint64 { return c.version }

// Bounds returns the canvas size.
func (c *Canvas) Bounds() image.Rectangle { return c.pix.Bounds() }
