package ambience

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	levelRingSize     = 4096
	resampleQuality   = 4
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrEmptyTrack        = errors.New("empty audio track")
)

// Engine mixes every track into a single speaker stream.
type Engine struct {
	format  beep.Format
	mixer   *beep.Mixer
	tap     *LevelTap
	volume  float64
	started bool
}

// NewEngine prepares a mixer at sampleRate. volume is linear, 1 is unity.
func NewEngine(sampleRate beep.SampleRate, volume float64) *Engine {
	mixer := &beep.Mixer{}
	return &Engine{
		format: beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2},
		mixer:  mixer,
		tap:    NewLevelTap(mixer, levelRingSize),
		volume: volume,
	}
}

// Start opens the audio device and begins streaming the mixer.
func (e *Engine) Start() error {
	if e.started {
		return nil
	}
	sr := e.format.SampleRate
	if err := speaker.Init(sr, sr.N(time.Second/20)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(e.tap)
	e.started = true
	return nil
}

// Close silences everything.
func (e *Engine) Close() {
	speaker.Lock()
	e.mixer.Clear()
	speaker.Unlock()
	if e.started {
		speaker.Clear()
	}
}

// Level is the current output loudness.
func (e *Engine) Level() float64 { return e.tap.Level() }

// Voices is the number of streams in the mixer.
func (e *Engine) Voices() int {
	speaker.Lock()
	defer speaker.Unlock()
	return e.mixer.Len()
}

// Load decodes a wav, mp3 or flac file fully into memory.
func (e *Engine) Load(path string) (*SampleTrack, error) {
	var decode func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	case ".mp3":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	case ".flac":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, format, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	return e.NewTrack(buf), nil
}

// NewTrack wraps an already decoded buffer.
func (e *Engine) NewTrack(buf *beep.Buffer) *SampleTrack {
	return &SampleTrack{engine: e, buf: buf}
}

// SampleTrack is a decoded recording played through the engine mixer.
type SampleTrack struct {
	engine *Engine
	buf    *beep.Buffer
	ctrl   *beep.Ctrl
}

// Len is the track duration.
func (t *SampleTrack) Len() time.Duration {
	return t.buf.Format().SampleRate.D(t.buf.Len())
}

// Play restarts the track at offset, wrapped around its length.
func (t *SampleTrack) Play(speed float64, offset time.Duration) error {
	n := t.buf.Len()
	if n == 0 {
		return ErrEmptyTrack
	}
	if speed <= 0 {
		speed = 1
	}
	pos := t.buf.Format().SampleRate.N(offset) % n

	ratio := speed * float64(t.buf.Format().SampleRate) / float64(t.engine.format.SampleRate)
	volume := &effects.Volume{
		Streamer: beep.ResampleRatio(resampleQuality, ratio, t.buf.Streamer(pos, n)),
		Base:     2,
		Volume:   math.Log2(math.Max(t.engine.volume, 1e-6)),
		Silent:   t.engine.volume <= 0,
	}
	ctrl := &beep.Ctrl{}
	ctrl.Streamer = beep.Seq(volume, beep.Callback(func() {
		// runs on the speaker goroutine with the speaker lock held
		if t.ctrl == ctrl {
			t.ctrl = nil
		}
	}))

	speaker.Lock()
	t.stopLocked()
	t.ctrl = ctrl
	t.engine.mixer.Add(ctrl)
	speaker.Unlock()
	return nil
}

// Stop drops the current playback. The mixer removes the stream on its
// next read.
func (t *SampleTrack) Stop() {
	speaker.Lock()
	t.stopLocked()
	speaker.Unlock()
}

func (t *SampleTrack) stopLocked() {
	if t.ctrl != nil {
		t.ctrl.Streamer = nil
		t.ctrl = nil
	}
}

// Playing reports whether the track is audible.
func (t *SampleTrack) Playing() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return t.ctrl != nil
}

// LoadTracks loads one track per configured bucket.
func LoadTracks(e *Engine, paths map[string]string) (map[Bucket]Track, error) {
	tracks := make(map[Bucket]Track, len(paths))
	for name, path := range paths {
		b, err := ParseBucket(name)
		if err != nil {
			return nil, err
		}
		t, err := e.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", b, err)
		}
		tracks[b] = t
	}
	return tracks, nil
}
