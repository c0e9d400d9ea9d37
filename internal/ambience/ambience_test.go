package ambience

import (
	"errors"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	op     string
	speed  float64
	offset time.Duration
}

type fakeTrack struct {
	calls   []call
	playing bool
	err     error
}

func (f *fakeTrack) Play(speed float64, offset time.Duration) error {
	f.calls = append(f.calls, call{op: "play", speed: speed, offset: offset})
	if f.err != nil {
		return f.err
	}
	f.playing = true
	return nil
}

func (f *fakeTrack) Stop() {
	f.calls = append(f.calls, call{op: "stop"})
	f.playing = false
}

func (f *fakeTrack) Playing() bool { return f.playing }

func fakeTracks() map[Bucket]*fakeTrack {
	out := make(map[Bucket]*fakeTrack)
	for _, b := range Buckets {
		out[b] = &fakeTrack{}
	}
	return out
}

func newTestSelector(fakes map[Bucket]*fakeTrack) *Selector {
	tracks := make(map[Bucket]Track, len(fakes))
	for b, f := range fakes {
		tracks[b] = f
	}
	return NewSelector(tracks, WithRand(rand.New(rand.NewPCG(1, 2))))
}

func TestForNation(t *testing.T) {
	cases := map[string]Bucket{
		"Japan":            Orient,
		"China":            Orient,
		"United States":    English,
		"Ireland":          English,
		"Kingdom of Spain": Spanish,
		"Andorra":          Spanish,
		"France":           French,
		"Germany":          German,
		"Greece":           Greek,
		"Italy":            Italian,
	}
	for nation, want := range cases {
		got, ok := ForNation(nation)
		assert.True(t, ok, nation)
		assert.Equal(t, want, got, nation)
	}

	_, ok := ForNation("Spain")
	assert.False(t, ok)
	_, ok = ForNation("japan")
	assert.False(t, ok)
}

func TestWindows(t *testing.T) {
	assert.Equal(t, time.Duration(0), Orient.Window())
	assert.Equal(t, 120*time.Second, English.Window())
	assert.Equal(t, 60*time.Second, Spanish.Window())
	for _, b := range []Bucket{French, German, Greek, Italian} {
		assert.Equal(t, 35*time.Second, b.Window(), b)
	}
}

func TestParseBucket(t *testing.T) {
	b, err := ParseBucket("greek")
	require.NoError(t, err)
	assert.Equal(t, Greek, b)

	_, err = ParseBucket("klingon")
	assert.Error(t, err)
}

func TestPlayForNationStopsBeforePlay(t *testing.T) {
	fakes := fakeTracks()
	s := newTestSelector(fakes)

	b, ok := s.PlayForNation("Japan")
	require.True(t, ok)
	assert.Equal(t, Orient, b)
	b, ok = s.PlayForNation("Japan")
	require.True(t, ok)
	assert.Equal(t, Orient, b)

	calls := fakes[Orient].calls
	require.Len(t, calls, 4)
	assert.Equal(t, []string{"stop", "play", "stop", "play"},
		[]string{calls[0].op, calls[1].op, calls[2].op, calls[3].op})
	assert.Equal(t, []Bucket{Orient}, s.Playing())

	for b, f := range fakes {
		if b != Orient {
			assert.Empty(t, f.calls, b)
		}
	}
}

func TestPlayForNationRandomization(t *testing.T) {
	fakes := fakeTracks()
	s := newTestSelector(fakes)

	for i := 0; i < 200; i++ {
		s.PlayForNation("Japan")
		s.PlayForNation("Canada")
	}
	for _, c := range fakes[Orient].calls {
		if c.op != "play" {
			continue
		}
		assert.Equal(t, time.Duration(0), c.offset)
		assert.GreaterOrEqual(t, c.speed, MinSpeed)
		assert.Less(t, c.speed, MaxSpeed)
	}
	for _, c := range fakes[English].calls {
		if c.op != "play" {
			continue
		}
		assert.GreaterOrEqual(t, c.offset, time.Duration(0))
		assert.Less(t, c.offset, 120*time.Second)
	}
}

func TestPlayForNationUnknown(t *testing.T) {
	fakes := fakeTracks()
	s := newTestSelector(fakes)

	b, ok := s.PlayForNation("Atlantis")
	assert.False(t, ok)
	assert.Equal(t, Bucket(""), b)
	for _, f := range fakes {
		assert.Empty(t, f.calls)
	}
}

func TestPlayForNationMissingTrackOrError(t *testing.T) {
	s := NewSelector(map[Bucket]Track{})
	b, ok := s.PlayForNation("Italy")
	assert.False(t, ok)
	assert.Equal(t, Italian, b)

	broken := &fakeTrack{err: errors.New("boom")}
	s = NewSelector(map[Bucket]Track{Greek: broken})
	_, ok = s.PlayForNation("Greece")
	assert.False(t, ok)
	assert.False(t, broken.Playing())
}

func TestStopAll(t *testing.T) {
	fakes := fakeTracks()
	s := newTestSelector(fakes)
	s.PlayForNation("France")
	s.PlayForNation("Germany")
	assert.Len(t, s.Playing(), 2)

	s.StopAll()
	assert.Empty(t, s.Playing())
}

func silentTrack(e *Engine, n int) *SampleTrack {
	buf := beep.NewBuffer(e.format)
	buf.Append(beep.Silence(n))
	return e.NewTrack(buf)
}

func pump(e *Engine, n int) {
	samples := make([][2]float64, 512)
	for i := 0; i < n; i++ {
		e.tap.Stream(samples)
	}
}

func TestSampleTrackRestartDoesNotLayer(t *testing.T) {
	e := NewEngine(DefaultSampleRate, 0.5)
	tr := silentTrack(e, int(DefaultSampleRate))

	require.NoError(t, tr.Play(1, 0))
	require.NoError(t, tr.Play(1, 200*time.Millisecond))
	pump(e, 1)
	assert.Equal(t, 1, e.Voices())
	assert.True(t, tr.Playing())

	tr.Stop()
	pump(e, 1)
	assert.Equal(t, 0, e.Voices())
	assert.False(t, tr.Playing())
}

func TestSampleTrackFinishes(t *testing.T) {
	e := NewEngine(DefaultSampleRate, 0.5)
	tr := silentTrack(e, 100)
	require.NoError(t, tr.Play(1, 0))
	pump(e, 8)
	assert.False(t, tr.Playing())
	assert.Equal(t, 0, e.Voices())
}

func TestSampleTrackOffsetWraps(t *testing.T) {
	e := NewEngine(DefaultSampleRate, 0.5)
	tr := silentTrack(e, int(DefaultSampleRate))
	assert.Equal(t, time.Second, tr.Len())
	assert.NoError(t, tr.Play(1, 90*time.Second))
	assert.True(t, tr.Playing())
}

func TestSampleTrackEmpty(t *testing.T) {
	e := NewEngine(DefaultSampleRate, 0.5)
	tr := silentTrack(e, 0)
	assert.ErrorIs(t, tr.Play(1, 0), ErrEmptyTrack)
}

func TestLoadUnsupported(t *testing.T) {
	e := NewEngine(DefaultSampleRate, 0.5)
	_, err := e.Load(filepath.Join(t.TempDir(), "chatter.ogg"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadTracks(e, map[string]string{"klingon": "x.wav"})
	assert.Error(t, err)
}

type constStreamer struct{ v float64 }

func (c constStreamer) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i] = [2]float64{c.v, c.v}
	}
	return len(samples), true
}

func (constStreamer) Err() error { return nil }

func TestLevelTap(t *testing.T) {
	tap := NewLevelTap(constStreamer{v: 0.5}, 16)
	assert.Equal(t, 0.0, tap.Level())
	assert.Empty(t, tap.Snapshot(8))

	buf := make([][2]float64, 4)
	n, ok := tap.Stream(buf)
	assert.Equal(t, 4, n)
	assert.True(t, ok)
	assert.Len(t, tap.Snapshot(8), 4)
	assert.InDelta(t, 0.5, tap.Level(), 1e-9)

	tap.Stream(make([][2]float64, 40))
	assert.Len(t, tap.Snapshot(100), 16)
	assert.NoError(t, tap.Err())
}
