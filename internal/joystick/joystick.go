// Package joystick holds the Arduino joystick state and the debounce filter
// for its push button.
package joystick

import "github.com/iburimskiy/sandmap/internal/vec"

// Arduino pin assignments.
const (
	PinButton  = 2
	PinZoomIn  = 8
	PinZoomOut = 9

	PinAxisY = 0
	PinAxisX = 1
)

const (
	// AnalogMax is the raw reading at one end of an axis.
	AnalogMax = 1023.0
	// SpeedMult scales the camera move speed into the joystick range.
	SpeedMult = 0.3538
)

// State is the latest joystick reading.
type State struct {
	Pressed  bool
	SkipNext bool
	Axis     vec.Vec2

	ZoomIn  bool
	ZoomOut bool
}

// Debouncer turns the raw button stream into logical presses.
//
// The hardware reports two press transitions for every physical press. The
// filter keeps a two-state toggle (SkipNext) that flips on every rising edge
// (raw value != 0) and never on a release, so only every second press is
// an actionable one. The button is active-low: Pressed is the negated raw value.
type Debouncer struct {
	State State
}

// New returns a debouncer in the power-on state. The first physical press
// acts and the one after it is skipped.
func New() *Debouncer {
	return &Debouncer{State: State{SkipNext: true}}
}

// Raw records a raw digital reading of the button pin.
func (d *Debouncer) Raw(value int) {
	d.State.Pressed = value == 0
	if value != 0 {
		d.State.SkipNext = !d.State.SkipNext
	}
}

// Ready reports whether a debounced press is waiting to be consumed.
func (d *Debouncer) Ready() bool {
	return d.State.Pressed && !d.State.SkipNext
}

// Consume reports whether a debounced press was waiting and clears it, so
// a held button acts once rather than every frame.
func (d *Debouncer) Consume() bool {
	if !d.Ready() {
		return false
	}
	d.State.Pressed = false
	return true
}

// Zoom records a level-triggered zoom pin reading.
func (d *Debouncer) Zoom(pin, value int) bool {
	switch pin {
	case PinZoomIn:
		d.State.ZoomIn = value != 0
	case PinZoomOut:
		d.State.ZoomOut = value != 0
	default:
		return false
	}
	return true
}

// Analog remaps a raw axis reading into [-moveSpeed*SpeedMult, moveSpeed*SpeedMult].
// The raw range is inverted by the wiring: 1023 maps to the negative end.
func (d *Debouncer) Analog(pin int, value, moveSpeed float64) bool {
	limit := moveSpeed * SpeedMult
	mapped := vec.Map(value, AnalogMax, 0, -limit, limit)
	switch pin {
	case PinAxisY:
		d.State.Axis.Y = mapped
	case PinAxisX:
		d.State.Axis.X = mapped
	default:
		return false
	}
	return true
}
