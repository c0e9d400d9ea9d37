// Package game is the ebiten front end: it drives the exhibit from the
// update loop and renders it read-only in Draw.
package game

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/iburimskiy/sandmap/internal/config"
	"github.com/iburimskiy/sandmap/internal/dispatch"
	"github.com/iburimskiy/sandmap/internal/exhibit"
	"github.com/iburimskiy/sandmap/internal/firework"
	"github.com/iburimskiy/sandmap/internal/session"
	"github.com/iburimskiy/sandmap/internal/vec"
	"github.com/iburimskiy/sandmap/internal/view"
)

const (
	labelSize     = 18
	introSize     = 22
	citySize      = 14
	dotSize       = 32
	particleSize  = 1.2
	greetingFade  = 0.8
	levelGain     = 4
	introLineGap  = 1.6
	timerFontSize = 12

	// cityNameHeight is the height of a city name on the map, in scene
	// units; the on-screen size is clamped to the pixel range below.
	cityNameHeight = 6
	cityNameMin    = 6
	cityNameMax    = 28
)

const introText = `Put on the headphones.

When you're ready, press the joystick button to start.

If you want, you'll have the chance to explore the map using the joystick.

Watch the artwork unfolding and when you're too bored/excited
press the joystick again to save the current image.

All of the images picked up by the audience will be later displayed on my website.`

// Option configures a Game.
type Option func(*Game)

// WithKeyboard routes the keyboard fallback into q, which the exhibit must
// drain as one of its sources.
func WithKeyboard(q *dispatch.Queue) Option {
	return func(g *Game) { g.keys = newKeyboard(q) }
}

// WithFont replaces Go Regular with a TTF or OTF font.
func WithFont(ttf []byte) Option {
	return func(g *Game) { g.font = ttf }
}

// WithDotTexture sets the sprite used for burst particles.
func WithDotTexture(img *ebiten.Image) Option {
	return func(g *Game) { g.dot = img }
}

// WithLevel shows a loudness meter fed by level.
func WithLevel(level func() float64) Option {
	return func(g *Game) { g.level = level }
}

// WithDone closes the window once done is closed.
func WithDone(done <-chan struct{}) Option {
	return func(g *Game) { g.done = done }
}

// WithDebug prints frame statistics.
func WithDebug(debug bool) Option {
	return func(g *Game) { g.debug = debug }
}

type Game struct {
	exhibit *exhibit.Exhibit
	keys    *keyboard
	view    view.View

	font      []byte
	labelFace *text.GoTextFace
	introFace *text.GoTextFace
	timerFace *text.GoTextFace
	cityFace  *text.GoTextFace

	canvas        *ebiten.Image
	canvasVersion uint64
	dot           *ebiten.Image

	level func() float64
	debug bool
	done  <-chan struct{}

	lastState    session.State
	sessionStart time.Time
	greeting     *gween.Tween
	greetAlpha   float32
}

// New builds the front end for ex.
func New(ex *exhibit.Exhibit, opts ...Option) (*Game, error) {
	cfg := ex.Config()
	g := &Game{
		exhibit:   ex,
		font:      goregular.TTF,
		canvas:    ebiten.NewImage(cfg.CanvasWidth, cfg.CanvasHeight),
		lastState: ex.Session().State(),
	}
	g.view = view.New(config.PanelWidth, config.WindowHeight, view.DefaultFOV)
	g.view.Offset = ex.Registry().Centroid().Scale(-1)

	for _, opt := range opts {
		opt(g)
	}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(g.font))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	g.labelFace = &text.GoTextFace{Source: src, Size: labelSize}
	g.introFace = &text.GoTextFace{Source: src, Size: introSize}
	g.timerFace = &text.GoTextFace{Source: src, Size: timerFontSize}
	g.cityFace = &text.GoTextFace{Source: src, Size: citySize}
	if g.dot == nil {
		g.dot = ebiten.NewImageFromImage(radialDot(dotSize))
	}
	return g, nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}
	if g.keys != nil {
		g.keys.update()
	}

	g.exhibit.Update()

	if st := g.exhibit.Session().State(); st != g.lastState {
		switch st {
		case session.Active:
			g.sessionStart = time.Now()
			g.greeting = nil
		case session.Intro:
			g.greeting = gween.New(0, 1, greetingFade, ease.OutCubic)
			g.greetAlpha = 0
		}
		g.lastState = st
	}
	if g.greeting != nil {
		var done bool
		g.greetAlpha, done = g.greeting.Update(1 / float32(config.FrameRate))
		if done {
			g.greeting = nil
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.exhibit.ShowsIntro() {
		g.drawIntro(screen)
	} else {
		panel := screen.SubImage(image.Rect(0, 0, config.PanelWidth, config.WindowHeight)).(*ebiten.Image)
		v := g.view.Camera(g.exhibit.Camera().Position(), g.exhibit.Camera().Orientation())

		panel.Fill(mapBackground)
		g.drawMap(panel, v)
		g.drawFireworks(panel, v)
		g.drawLabels(panel)
		g.drawCanvas(screen)
		g.drawLevel(screen)
	}

	if g.debug {
		msg := fmt.Sprintf("TPS %.0f  FPS %.0f  fireworks %d", ebiten.ActualTPS(), ebiten.ActualFPS(), g.exhibit.Fireworks().Len())
		ebitenutil.DebugPrintAt(screen, msg, 12, config.WindowHeight-20)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

func (g *Game) drawIntro(screen *ebiten.Image) {
	screen.Fill(introBackground)

	op := &text.DrawOptions{}
	op.GeoM.Translate(config.WindowWidth/3, config.WindowHeight/4)
	op.ColorScale.ScaleWithColor(introInk)
	op.LineSpacing = introSize * introLineGap
	text.Draw(screen, introText, g.introFace, op)

	if g.exhibit.Session().Greeting() {
		op := &text.DrawOptions{}
		op.GeoM.Translate(config.WindowWidth/3, config.WindowHeight/4-3*introSize)
		op.ColorScale.ScaleWithColor(introInk)
		op.ColorScale.ScaleAlpha(g.greetAlpha)
		text.Draw(screen, "Thank you! Your artwork has been saved.", g.introFace, op)
	}
}

func (g *Game) drawMap(panel *ebiten.Image, v view.View) {
	reg := g.exhibit.Registry()
	for _, m := range reg.Countries {
		strokePolyline(panel, v, m.Points, m.Closed, countryColor)
	}
	for _, c := range reg.Cities {
		s, scale, ok := v.Anchor(c.Position)
		if !ok {
			continue
		}
		for _, m := range c.Meshes {
			strokePolyline(panel, v, m.Points, m.Closed, cityColor)
		}

		px := vec.Clamp(scale*cityNameHeight, cityNameMin, cityNameMax)
		op := &text.DrawOptions{}
		op.GeoM.Scale(px/citySize, px/citySize)
		op.GeoM.Translate(s.X+px/3, s.Y-px)
		op.ColorScale.ScaleWithColor(cityColor)
		text.Draw(panel, c.Name, g.cityFace, op)
	}
}

func strokePolyline(dst *ebiten.Image, v view.View, pts []vec.Vec3, closed bool, clr color.Color) {
	n := len(pts)
	if n < 2 {
		return
	}
	segments := n - 1
	if closed {
		segments = n
	}
	prev, prevOK := v.Project(pts[0])
	for i := 1; i <= segments; i++ {
		cur, curOK := v.Project(pts[i%n])
		if prevOK && curOK {
			strokeLine(dst, prev, cur, clr)
		}
		prev, prevOK = cur, curOK
	}
}

func (g *Game) drawFireworks(panel *ebiten.Image, v view.View) {
	bounds := g.dot.Bounds()
	half := float64(bounds.Dx()) / 2

	g.exhibit.Fireworks().Each(func(f *firework.Firework) {
		if !f.Exploded() {
			s, ok := v.Project(f.Rocket.Position)
			if !ok {
				return
			}
			r := max(1, v.Scale(f.Rocket.Position, firework.SphereSize))
			fillCircle(panel, s, r, f.Color)
			return
		}
		for i := range f.Particles {
			p := &f.Particles[i]
			if !p.Alive() || p.Alpha <= 0 {
				continue
			}
			s, ok := v.Project(p.Position)
			if !ok || !v.Visible(s) {
				continue
			}
			size := max(2, v.Scale(p.Position, particleSize)) / float64(bounds.Dx())
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(-half, -half)
			op.GeoM.Scale(size, size)
			op.GeoM.Translate(s.X, s.Y)
			op.ColorScale.ScaleWithColor(f.Color)
			op.ColorScale.ScaleAlpha(p.Alpha)
			panel.DrawImage(g.dot, op)
		}
	})
}

func (g *Game) drawLabels(panel *ebiten.Image) {
	draw := func(s string, x, y float64, face *text.GoTextFace) {
		if s == "" {
			return
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleWithColor(labelColor)
		text.Draw(panel, s, face, op)
	}
	draw(g.exhibit.CityLabel(), 20, 30, g.labelFace)
	draw(g.exhibit.HashtagLabel(), config.WindowWidth/8, 30, g.labelFace)
	if g.exhibit.SavePending() {
		draw("saving artwork!", 20, 70, g.timerFace)
	}
	if !g.sessionStart.IsZero() {
		draw(formatDuration(time.Since(g.sessionStart)), 20, config.WindowHeight-40, g.timerFace)
	}
}

func (g *Game) drawCanvas(screen *ebiten.Image) {
	c := g.exhibit.Canvas()
	if v := c.Version(); v != g.canvasVersion {
		g.canvas.WritePixels(c.Image().Pix)
		g.canvasVersion = v
	}
	b := g.canvas.Bounds()
	scale := min(float64(config.WindowWidth-config.PanelWidth)/float64(b.Dx()), float64(config.WindowHeight)/float64(b.Dy()))
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(config.PanelWidth, 0)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.canvas, op)
}

func (g *Game) drawLevel(screen *ebiten.Image) {
	if g.level == nil {
		return
	}
	lvl := vec.Clamp(g.level()*levelGain, 0, 1)
	if lvl == 0 {
		return
	}
	width := float64(config.WindowWidth-config.PanelWidth-40) * lvl
	fillRect(screen, config.PanelWidth+20, config.WindowHeight-24, width, 4, hsv(200-160*lvl, 0.8, 0.9, 200))
}
