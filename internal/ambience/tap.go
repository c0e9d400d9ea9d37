package ambience

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// LevelTap wraps a beep.Streamer and records the last samples into a ring
// buffer so the renderer can show how loud the room currently is.
type LevelTap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

// NewLevelTap keeps the last ringSize stereo samples of src.
func NewLevelTap(src beep.Streamer, ringSize int) *LevelTap {
	if ringSize <= 0 {
		ringSize = 1
	}
	return &LevelTap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *LevelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.filled = min(t.filled+n, len(t.buffer))
		t.mu.Unlock()
	}
	return n, ok
}

func (t *LevelTap) Err() error { return t.Source.Err() }

// Snapshot returns up to the last n samples, most recent last.
func (t *LevelTap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.filled)
	out := make([][2]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := range out {
		out[i] = t.buffer[idx]
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}

// Level is the RMS of the buffered samples, both channels averaged.
func (t *LevelTap) Level() float64 {
	samples := t.Snapshot(len(t.buffer))
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		m := (s[0] + s[1]) / 2
		sum += m * m
	}
	return math.Sqrt(sum / float64(len(samples)))
}
