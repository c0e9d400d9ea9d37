package ambience

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

const (
	MinSpeed = 0.85
	MaxSpeed = 1.1
)

// Track is one playable recording.
type Track interface {
	// Play starts the track from offset at the given speed. A track that
	// is already playing is restarted, never layered.
	Play(speed float64, offset time.Duration) error
	Stop()
	Playing() bool
}

// Selector picks and restarts the chatter track for a nation.
type Selector struct {
	tracks map[Bucket]Track
	rng    *rand.Rand
	logger zerolog.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand sets the random source used for speed and offset.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) { s.rng = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Selector) { s.logger = l }
}

// NewSelector builds a selector over tracks keyed by bucket. Buckets without
// a track are skipped silently.
func NewSelector(tracks map[Bucket]Track, opts ...Option) *Selector {
	s := &Selector{
		tracks: tracks,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlayForNation stops and replays the bucket track of nation. Unknown
// nations are a no-op. It reports the bucket and whether a track started.
func (s *Selector) PlayForNation(nation string) (Bucket, bool) {
	b, ok := ForNation(nation)
	if !ok {
		return "", false
	}
	t, ok := s.tracks[b]
	if !ok || t == nil {
		return b, false
	}

	t.Stop()
	speed := MinSpeed + s.rng.Float64()*(MaxSpeed-MinSpeed)
	var offset time.Duration
	if w := b.Window(); w > 0 {
		offset = time.Duration(s.rng.Int64N(int64(w)))
	}
	if err := t.Play(speed, offset); err != nil {
		s.logger.Error().Err(err).Str("bucket", string(b)).Msg("play ambience")
		return b, false
	}
	s.logger.Debug().
		Str("nation", nation).
		Str("bucket", string(b)).
		Float64("speed", speed).
		Dur("offset", offset).
		Msg("ambience")
	return b, true
}

// StopAll silences every bucket.
func (s *Selector) StopAll() {
	for _, t := range s.tracks {
		if t != nil {
			t.Stop()
		}
	}
}

// Playing lists the buckets currently audible.
func (s *Selector) Playing() []Bucket {
	var out []Bucket
	for _, b := range Buckets {
		if t, ok := s.tracks[b]; ok && t != nil && t.Playing() {
			out = append(out, b)
		}
	}
	return out
}
