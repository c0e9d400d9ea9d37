package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/ncruces/zenity"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/sandmap/internal/ambience"
	"github.com/iburimskiy/sandmap/internal/artwork"
	"github.com/iburimskiy/sandmap/internal/config"
	"github.com/iburimskiy/sandmap/internal/dispatch"
	"github.com/iburimskiy/sandmap/internal/exhibit"
	"github.com/iburimskiy/sandmap/internal/game"
	"github.com/iburimskiy/sandmap/internal/geo"
	"github.com/iburimskiy/sandmap/internal/logging"
	"github.com/iburimskiy/sandmap/internal/metrics"
	"github.com/iburimskiy/sandmap/internal/osc"
	"github.com/iburimskiy/sandmap/internal/registry"
)

const windowTitle = "sandmap"

// configEnv names the optional YAML config file.
const configEnv = "SANDMAP_CONFIG"

func main() {
	cfg, err := config.Load(os.Getenv(configEnv))
	if err != nil {
		fatal(err, false)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogPretty)

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("sandmap stopped")
		fatal(err, cfg.Headless)
	}
}

func fatal(err error, headless bool) {
	fmt.Fprintln(os.Stderr, "sandmap:", err)
	if !headless {
		_ = zenity.Error(err.Error(), zenity.Title(windowTitle), zenity.ErrorIcon)
	}
	os.Exit(1)
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := registry.LoadFile(cfg.Assets.GeoJSON, geo.NewProjection(cfg.GeoScale))
	if err != nil {
		return err
	}
	logger.Info().
		Int("cities", len(reg.Cities)).
		Int("outlines", len(reg.Countries)).
		Msg("map loaded")

	m := metrics.NewManager()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Error().Err(err).Msg("metrics server")
			}
		}()
	}

	engine := ambience.NewEngine(ambience.DefaultSampleRate, cfg.Volume)
	if err := engine.Start(); err != nil {
		logger.Warn().Err(err).Msg("audio disabled")
	}
	defer engine.Close()

	tracks, err := ambience.LoadTracks(engine, cfg.Assets.Sounds)
	if err != nil {
		logger.Warn().Err(err).Msg("chatter disabled")
		tracks = nil
	}
	selector := ambience.NewSelector(tracks, ambience.WithLogger(logger))
	defer selector.StopAll()

	receiver, err := osc.Listen(cfg.OSCAddr, cfg.InboxSize, logger)
	if err != nil {
		return err
	}
	defer receiver.Close()

	var font []byte
	if cfg.Assets.Font != "" {
		if font, err = os.ReadFile(cfg.Assets.Font); err != nil {
			logger.Warn().Err(err).Msg("using built-in font")
			font = nil
		}
	}
	saver := artwork.NewSaver(cfg.OutputDir)
	saver.Font = font

	keys := &dispatch.Queue{}
	opts := []exhibit.Option{
		exhibit.WithSaver(saver),
		exhibit.WithLogger(logger),
		exhibit.WithAmbience(selector),
		exhibit.WithMetrics(m),
		exhibit.WithSources(receiver, keys),
	}
	if thanks, err := engine.Load(cfg.Assets.Thanks); err != nil {
		logger.Warn().Err(err).Msg("thanks sound disabled")
	} else {
		opts = append(opts, exhibit.WithThanks(thanks))
	}

	ex, err := exhibit.New(cfg, reg, opts...)
	if err != nil {
		return err
	}
	defer ex.Shutdown()

	if cfg.Headless {
		return runHeadless(ctx, ex, logger)
	}
	return runWindow(ctx, cfg, ex, keys, engine, font, logger)
}

func runWindow(ctx context.Context, cfg *config.Config, ex *exhibit.Exhibit, keys *dispatch.Queue, engine *ambience.Engine, font []byte, logger zerolog.Logger) error {
	opts := []game.Option{
		game.WithKeyboard(keys),
		game.WithLevel(engine.Level),
		game.WithDone(ctx.Done()),
		game.WithDebug(logging.ParseLevel(cfg.LogLevel) <= zerolog.DebugLevel),
	}
	if font != nil {
		opts = append(opts, game.WithFont(font))
	}
	if cfg.Assets.DotTexture != "" {
		dot, _, err := ebitenutil.NewImageFromFile(cfg.Assets.DotTexture)
		if err != nil {
			logger.Warn().Err(err).Msg("using built-in particle sprite")
		} else {
			opts = append(opts, game.WithDotTexture(dot))
		}
	}

	g, err := game.New(ex, opts...)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetTPS(config.FrameRate)

	logger.Info().Msg("window open")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// runHeadless drives the exhibit on a ticker, without a window.
func runHeadless(ctx context.Context, ex *exhibit.Exhibit, logger zerolog.Logger) error {
	logger.Info().Msg("running headless")
	ticker := time.NewTicker(time.Second / config.FrameRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			ex.Update()
		}
	}
}
