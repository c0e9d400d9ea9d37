package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	WindowWidth  = 1920
	WindowHeight = 1080

	// The map and the artwork each take half of the window.
	PanelWidth = WindowWidth / 2

	FrameRate = 60

	// Firework pool
	FireworkPoolCap = 15

	// Camera
	CamMoveSpeed   = 0.065
	CamOrientSpeed = 0.05
)

// ErrInvalid is returned by Validate for an unusable configuration.
var ErrInvalid = errors.New("invalid config")

// Rect is the projected range mapped onto the canvas, in scene units.
// Width and Height are the far edges, so x spans X..Width.
type Rect struct {
	X      float64 `koanf:"x"`
	Y      float64 `koanf:"y"`
	Width  float64 `koanf:"width"`
	Height float64 `koanf:"height"`
}

// Vec3 is a config friendly 3D vector.
type Vec3 struct {
	X float64 `koanf:"x"`
	Y float64 `koanf:"y"`
	Z float64 `koanf:"z"`
}

// Assets lists the files loaded at startup.
type Assets struct {
	GeoJSON    string            `koanf:"geojson"`
	DotTexture string            `koanf:"dot_texture"`
	// Font is an optional TTF for map labels and the legend; empty uses Go Regular.
	Font       string            `koanf:"font"`
	Sounds     map[string]string `koanf:"sounds"`
	Thanks     string            `koanf:"thanks"`
}

// Config holds every tunable of the installation.
type Config struct {
	CanvasWidth  int  `koanf:"canvas_width"`
	CanvasHeight int  `koanf:"canvas_height"`
	GeoBBox      Rect `koanf:"geo_bbox"`
	// GeoScale multiplies the normalised projection.
	GeoScale float64 `koanf:"geo_scale"`

	CamMoveSpeed   float64 `koanf:"cam_move_speed"`
	CamOrientSpeed float64 `koanf:"cam_orient_speed"`
	CamPosition    Vec3    `koanf:"cam_position"`
	CamOrientation Vec3    `koanf:"cam_orientation"`

	FireworkPoolCap int `koanf:"firework_pool_cap"`

	// SandGrains is the number of sand grains deposited per stroke step.
	SandGrains int `koanf:"sand_grains"`
	// SandAlpha is the opacity of one grain, 0-255.
	SandAlpha int `koanf:"sand_alpha"`

	// GreetingDuration is how long the thank you screen stays up.
	GreetingDuration time.Duration `koanf:"greeting_duration"`

	OSCAddr      string  `koanf:"osc_addr"`
	InboxSize    int     `koanf:"inbox_size"`
	MetricsAddr  string  `koanf:"metrics_addr"`
	OutputDir    string  `koanf:"output_dir"`
	LogLevel     string  `koanf:"log_level"`
	LogPretty    bool    `koanf:"log_pretty"`
	Volume       float64 `koanf:"volume"`
	Headless     bool    `koanf:"headless"`
	Fullscreen   bool    `koanf:"fullscreen"`
	Assets       Assets  `koanf:"assets"`
}

// Default returns the compiled-in configuration of the installation.
func Default() *Config {
	return &Config{
		CanvasWidth:  PanelWidth,
		CanvasHeight: WindowHeight,
		GeoBBox:      Rect{X: -310, Y: -120, Width: 406, Height: 184},
		GeoScale:     400,

		CamMoveSpeed:   CamMoveSpeed,
		CamOrientSpeed: CamOrientSpeed,
		CamPosition:    Vec3{X: 0, Y: -212, Z: 512},
		CamOrientation: Vec3{X: 26},

		FireworkPoolCap: FireworkPoolCap,

		SandGrains: 35,
		SandAlpha:  18,

		GreetingDuration: 4 * time.Second,

		OSCAddr:     ":9000",
		InboxSize:   1024,
		MetricsAddr: "",
		OutputDir:   ".",
		LogLevel:    "info",
		LogPretty:   true,
		Volume:      0.5,
		Assets: Assets{
			GeoJSON:    "data/world_cities_countries.geojson",
			DotTexture: "data/dot.png",
			Sounds: map[string]string{
				"orient":  "data/sounds/chatting_jp.wav",
				"english": "data/sounds/chatting_en.wav",
				"spanish": "data/sounds/chatting_es.wav",
				"french":  "data/sounds/chatting_fr.wav",
				"german":  "data/sounds/chatting_de.wav",
				"greek":   "data/sounds/chatting_gr.wav",
				"italian": "data/sounds/chatting_it.wav",
			},
			Thanks: "data/sounds/thanks.wav",
		},
	}
}

// GreetingTicks converts GreetingDuration into frames.
func (c *Config) GreetingTicks() int {
	return int(c.GreetingDuration.Seconds() * FrameRate)
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	switch {
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalid, c.CanvasWidth, c.CanvasHeight)
	case c.GeoBBox.Width == c.GeoBBox.X || c.GeoBBox.Height == c.GeoBBox.Y:
		return fmt.Errorf("%w: degenerate geo_bbox", ErrInvalid)
	case c.GeoScale <= 0:
		return fmt.Errorf("%w: geo_scale must be positive", ErrInvalid)
	case c.FireworkPoolCap <= 0:
		return fmt.Errorf("%w: firework_pool_cap must be positive", ErrInvalid)
	case c.OSCAddr == "":
		return fmt.Errorf("%w: osc_addr must not be empty", ErrInvalid)
	case c.InboxSize <= 0:
		return fmt.Errorf("%w: inbox_size must be positive", ErrInvalid)
	case c.SandAlpha < 0 || c.SandAlpha > 255:
		return fmt.Errorf("%w: sand_alpha out of range", ErrInvalid)
	}
	return nil
}
