// Package exhibit runs the installation: it owns every subsystem and
// advances them once per frame from the update loop.
package exhibit

import (
	"image"
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/sandmap/internal/ambience"
	"github.com/iburimskiy/sandmap/internal/artwork"
	"github.com/iburimskiy/sandmap/internal/camera"
	"github.com/iburimskiy/sandmap/internal/config"
	"github.com/iburimskiy/sandmap/internal/dispatch"
	"github.com/iburimskiy/sandmap/internal/firework"
	"github.com/iburimskiy/sandmap/internal/geo"
	"github.com/iburimskiy/sandmap/internal/joystick"
	"github.com/iburimskiy/sandmap/internal/logging"
	"github.com/iburimskiy/sandmap/internal/metrics"
	"github.com/iburimskiy/sandmap/internal/registry"
	"github.com/iburimskiy/sandmap/internal/sandline"
	"github.com/iburimskiy/sandmap/internal/session"
	"github.com/iburimskiy/sandmap/internal/vec"
)

// Stroke parameters derived from a tweet.
const (
	MinRadius       = 32
	MaxRadius       = 64
	AttractorChance = 0.25
	offsetFallback  = 256
)

// Ambience plays chatter for a nation.
type Ambience interface {
	PlayForNation(nation string) (ambience.Bucket, bool)
}

// Saver persists finished drawings.
type Saver interface {
	SaveArtwork(img image.Image, at time.Time) (string, error)
	SaveLegend(img image.Image, labels []artwork.Label) (string, error)
}

type dropCounter interface {
	TakeDropped() uint64
}

// Exhibit owns the camera, joystick, fireworks, canvas and session.
// Everything but the sources is touched only from Update and HandleTweet.
type Exhibit struct {
	cfg    *config.Config
	logger zerolog.Logger

	registry   *registry.Registry
	proj       *geo.Projection
	box        geo.Box
	dispatcher *dispatch.Dispatcher
	sources    []dispatch.Source

	joystick *joystick.Debouncer
	camera   *camera.Camera
	pool     *firework.Pool
	canvas   *sandline.Canvas
	session  *session.Machine

	ambience Ambience
	thanks   ambience.Track
	saver    Saver
	metrics  *metrics.Manager
	rng      *rand.Rand
	now      func() time.Time

	cityLabel    string
	hashtagLabel string
	lastArtwork  string
}

// Option configures an Exhibit.
type Option func(*Exhibit)

func WithLogger(l zerolog.Logger) Option { return func(e *Exhibit) { e.logger = l } }

func WithAmbience(a Ambience) Option { return func(e *Exhibit) { e.ambience = a } }

// WithThanks sets the sound played when a session ends.
func WithThanks(t ambience.Track) Option { return func(e *Exhibit) { e.thanks = t } }

func WithSaver(s Saver) Option { return func(e *Exhibit) { e.saver = s } }

func WithMetrics(m *metrics.Manager) Option { return func(e *Exhibit) { e.metrics = m } }

// WithSources adds message sources drained every Update, in order.
func WithSources(src ...dispatch.Source) Option {
	return func(e *Exhibit) { e.sources = append(e.sources, src...) }
}

func WithRand(r *rand.Rand) Option { return func(e *Exhibit) { e.rng = r } }

func WithClock(now func() time.Time) Option { return func(e *Exhibit) { e.now = now } }

// New assembles an exhibit over a loaded registry.
func New(cfg *config.Config, reg *registry.Registry, opts ...Option) (*Exhibit, error) {
	e := &Exhibit{
		cfg:      cfg,
		logger:   zerolog.Nop(),
		registry: reg,
		proj:     geo.NewProjection(cfg.GeoScale),
		box: geo.Box{
			X:     cfg.GeoBBox.X,
			Y:     cfg.GeoBBox.Y,
			Right: cfg.GeoBBox.Width,
			Top:   cfg.GeoBBox.Height,
		},
		joystick: joystick.New(),
		camera: camera.New(
			vec.Vec3(cfg.CamPosition),
			vec.Vec3(cfg.CamOrientation),
			cfg.CamMoveSpeed,
			cfg.CamOrientSpeed,
		),
		pool:   firework.NewPool(cfg.FireworkPoolCap),
		canvas: sandline.New(cfg.CanvasWidth, cfg.CanvasHeight, cfg.SandGrains, uint8(cfg.SandAlpha)),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.saver == nil {
		e.saver = artwork.NewSaver(cfg.OutputDir)
	}

	d, err := dispatch.New(logging.NewDispatcherLogger(e.logger))
	if err != nil {
		return nil, err
	}
	e.dispatcher = d
	e.registerHandlers()

	e.session = session.New(cfg.GreetingTicks(), e.logger)
	e.session.OnStart = func(uuid.UUID) { e.metrics.SessionStarted() }
	e.session.OnFinish = e.finishSession
	return e, nil
}

// Update advances one frame: act on the press queued last frame, drain
// input, step the session, then the scene when the exhibit is visible.
// A press drained this frame stays pending until the next one, so the
// render pass can announce it.
func (e *Exhibit) Update() {
	if e.joystick.Consume() {
		e.session.Press()
	}

	for _, src := range e.sources {
		e.dispatcher.Drain(src)
		if dc, ok := src.(dropCounter); ok {
			if n := dc.TakeDropped(); n > 0 {
				e.logger.Warn().Uint64("dropped", n).Msg("inbox full, messages dropped")
				e.metrics.OSCDropped(n)
			}
		}
	}
	e.session.Tick()

	if e.session.ShowsIntro() {
		return
	}
	e.canvas.Update()
	e.pool.Update()
	e.metrics.SetFireworksActive(e.pool.Active())

	st := e.joystick.State
	if st.ZoomIn {
		e.camera.ZoomIn()
	}
	if st.ZoomOut {
		e.camera.ZoomOut()
	}
	e.camera.ApplyInput(st.Axis)
	e.camera.Tick()
}

// HandleTweet places a tweet on the map. It reports whether the city was
// found.
func (e *Exhibit) HandleTweet(t Tweet) bool {
	e.metrics.TweetReceived()
	e.cityLabel = t.CityLabel()
	e.hashtagLabel = t.HashtagLabel()

	var pos vec.Vec3
	if t.HasCoordinates() {
		pos = e.proj.Project(t.Lon, t.Lat)
	} else {
		city, ok := e.registry.Lookup(t.City)
		if !ok {
			e.logger.Warn().Str("city", t.City).Str("nation", t.Nation).Msg("city not found")
			e.metrics.TweetUnresolved()
			return false
		}
		pos = city.Position
	}

	if e.pool.Add(firework.New(pos, color.Black)) {
		e.logger.Debug().Msg("oldest firework evicted")
	}
	e.metrics.FireworkSpawned()

	if e.ambience != nil {
		if b, ok := e.ambience.PlayForNation(t.Nation); ok {
			e.metrics.AmbiencePlayed(string(b))
		}
	}

	if e.session.ShowsIntro() {
		return true
	}
	screen := geo.ToCanvas(pos, e.box, e.cfg.CanvasWidth, e.cfg.CanvasHeight)
	maxOffset, maxRadius := e.strokeParams(e.hashtagLabel)
	mode := sandline.Bezier
	if e.rng.Float64() < AttractorChance {
		mode = sandline.Attractor
	}
	e.canvas.SetMode(mode)
	e.canvas.SetTarget(screen)
	e.canvas.AddPoint(screen, maxOffset, maxRadius)
	e.logger.Debug().
		Str("city", t.City).
		Str("mode", mode.String()).
		Float64("x", screen.X).
		Float64("y", screen.Y).
		Msg("stroke added")
	return true
}

// strokeParams derives the bend and width of a stroke from the displayed
// hashtag text. The first character is the '#'.
func (e *Exhibit) strokeParams(label string) (maxOffset, maxRadius float64) {
	if len(label) >= 2 {
		maxOffset = float64(int(float64(label[1]) * 0.5))
	} else {
		maxOffset = float64(e.rng.IntN(offsetFallback))
	}
	maxRadius = vec.Clamp(float64(len(label)), MinRadius, MaxRadius)
	return maxOffset, maxRadius
}

func (e *Exhibit) finishSession(id uuid.UUID) {
	if e.thanks != nil {
		if err := e.thanks.Play(1, 0); err != nil {
			e.logger.Error().Err(err).Msg("play thanks")
		}
	}
	e.saveArtwork(id)
	e.canvas.Reset()
}

func (e *Exhibit) saveArtwork(id uuid.UUID) {
	path, err := e.saver.SaveArtwork(e.canvas.Snapshot(), e.now())
	if err != nil {
		e.logger.Error().Err(err).Str("session", id.String()).Msg("save artwork")
		return
	}
	e.lastArtwork = path
	e.metrics.ArtworkSaved()
	e.logger.Info().Str("session", id.String()).Str("path", path).Msg("artwork saved")
}

// Shutdown saves the current drawing, then the same drawing with the city
// names written over it.
func (e *Exhibit) Shutdown() {
	e.saveArtwork(e.session.ID())
	path, err := e.saver.SaveLegend(e.canvas.Snapshot(), e.Legend())
	if err != nil {
		e.logger.Error().Err(err).Msg("save legend")
		return
	}
	e.logger.Info().Str("path", path).Msg("legend saved")
}

// Legend places every city that falls on the canvas.
func (e *Exhibit) Legend() []artwork.Label {
	var labels []artwork.Label
	for _, c := range e.registry.Cities {
		p := geo.ToCanvas(c.Position, e.box, e.cfg.CanvasWidth, e.cfg.CanvasHeight)
		if !geo.Inside(p, e.cfg.CanvasWidth, e.cfg.CanvasHeight) {
			continue
		}
		labels = append(labels, artwork.Label{Text: c.Name, Pos: p})
	}
	return labels
}

// Push dispatches msg immediately, outside the per-frame drain.
func (e *Exhibit) Push(msg dispatch.Message) error { return e.dispatcher.Dispatch(msg) }

func (e *Exhibit) Config() *config.Config          { return e.cfg }
func (e *Exhibit) Registry() *registry.Registry    { return e.registry }
func (e *Exhibit) Camera() *camera.Camera          { return e.camera }
func (e *Exhibit) Fireworks() *firework.Pool       { return e.pool }
func (e *Exhibit) Canvas() *sandline.Canvas        { return e.canvas }
func (e *Exhibit) Session() *session.Machine       { return e.session }
func (e *Exhibit) Joystick() joystick.State        { return e.joystick.State }
func (e *Exhibit) ShowsIntro() bool                { return e.session.ShowsIntro() }

// SavePending reports whether a press that will end the session and save
// the drawing is waiting for the next Update.
func (e *Exhibit) SavePending() bool {
	return e.session.State() == session.Active && e.joystick.Ready()
}
func (e *Exhibit) CityLabel() string               { return e.cityLabel }
func (e *Exhibit) HashtagLabel() string            { return e.hashtagLabel }
func (e *Exhibit) LastArtwork() string             { return e.lastArtwork }
