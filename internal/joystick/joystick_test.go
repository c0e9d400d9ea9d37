package joystick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebounceOneActionPerTwoPresses(t *testing.T) {
	d := New()

	var actions int
	var skips []bool
	for _, raw := range []int{1, 0, 1, 0} {
		d.Raw(raw)
		skips = append(skips, d.State.SkipNext)
		if d.Consume() {
			actions++
		}
	}

	assert.Equal(t, 1, actions)
	// toggles only on value=1 events
	assert.Equal(t, []bool{false, false, true, true}, skips)
}

func TestDebounceLongSequence(t *testing.T) {
	d := New()
	actions := 0
	for i := 0; i < 8; i++ {
		d.Raw(1)
		d.Consume()
		d.Raw(0)
		if d.Consume() {
			actions++
		}
	}
	assert.Equal(t, 4, actions)
}

func TestConsumeClearsOnce(t *testing.T) {
	d := New()
	d.Raw(1)
	d.Raw(0)
	assert.True(t, d.Ready())
	assert.True(t, d.Consume())
	assert.False(t, d.State.Pressed)
	assert.False(t, d.Consume(), "held button must not act twice")
}

func TestReleaseDoesNotToggle(t *testing.T) {
	d := New()
	before := d.State.SkipNext
	d.Raw(0)
	assert.Equal(t, before, d.State.SkipNext)
	assert.True(t, d.State.Pressed)
}

func TestZoomLevels(t *testing.T) {
	d := New()
	assert.True(t, d.Zoom(PinZoomIn, 1))
	assert.True(t, d.State.ZoomIn)
	assert.True(t, d.Zoom(PinZoomOut, 1))
	assert.True(t, d.State.ZoomOut)
	d.Zoom(PinZoomIn, 0)
	assert.False(t, d.State.ZoomIn)
	assert.False(t, d.Zoom(5, 1))
}

func TestAnalogRemap(t *testing.T) {
	d := New()
	limit := 0.065 * SpeedMult

	assert.True(t, d.Analog(PinAxisY, 1023, 0.065))
	assert.InDelta(t, -limit, d.State.Axis.Y, 1e-12)

	assert.True(t, d.Analog(PinAxisX, 0, 0.065))
	assert.InDelta(t, limit, d.State.Axis.X, 1e-12)

	assert.False(t, d.Analog(7, 0, 0.065))
}
