// Package metrics exposes Prometheus counters for the installation.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Manager owns every metric. A nil *Manager is valid and records nothing.
type Manager struct {
	namespace string
	subsystem string
	enabled   bool
	registry  *prometheus.Registry

	tweetsReceived   prometheus.Counter
	tweetsUnresolved prometheus.Counter
	fireworksSpawned prometheus.Counter
	fireworksActive  prometheus.Gauge
	ambiencePlays    *prometheus.CounterVec
	artworksSaved    prometheus.Counter
	sessionsStarted  prometheus.Counter
	oscDropped       prometheus.Counter
}

// NewManager creates a manager on its own registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "sandmap",
		subsystem: "exhibit",
		enabled:   true,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	counter := func(name, help string) prometheus.Counter {
		return auto.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		})
	}

	m.tweetsReceived = counter("tweets_received_total", "Tweets received from the bridge")
	m.tweetsUnresolved = counter("tweets_unresolved_total", "Tweets whose city could not be placed")
	m.fireworksSpawned = counter("fireworks_spawned_total", "Fireworks launched")
	m.artworksSaved = counter("artworks_saved_total", "Sand drawings written to disk")
	m.sessionsStarted = counter("sessions_started_total", "Visitor sessions started")
	m.oscDropped = counter("osc_dropped_total", "OSC messages dropped because the inbox was full")

	m.fireworksActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fireworks_active",
		Help:      "Fireworks still visible",
	})
	m.ambiencePlays = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ambience_plays_total",
		Help:      "Chatter tracks started, by bucket",
	}, []string{"bucket"})
}

func (m *Manager) on() bool { return m != nil && m.enabled }

func (m *Manager) TweetReceived() {
	if m.on() {
		m.tweetsReceived.Inc()
	}
}

func (m *Manager) TweetUnresolved() {
	if m.on() {
		m.tweetsUnresolved.Inc()
	}
}

func (m *Manager) FireworkSpawned() {
	if m.on() {
		m.fireworksSpawned.Inc()
	}
}

func (m *Manager) SetFireworksActive(n int) {
	if m.on() {
		m.fireworksActive.Set(float64(n))
	}
}

func (m *Manager) AmbiencePlayed(bucket string) {
	if m.on() {
		m.ambiencePlays.WithLabelValues(bucket).Inc()
	}
}

func (m *Manager) ArtworkSaved() {
	if m.on() {
		m.artworksSaved.Inc()
	}
}

func (m *Manager) SessionStarted() {
	if m.on() {
		m.sessionsStarted.Inc()
	}
}

// OSCDropped adds n dropped messages.
func (m *Manager) OSCDropped(n uint64) {
	if m.on() && n > 0 {
		m.oscDropped.Add(float64(n))
	}
}

// Registry returns the registry metrics live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Manager) Serve(ctx context.Context, addr string, logger zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("metrics listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
