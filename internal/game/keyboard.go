package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/sandmap/internal/dispatch"
	"github.com/iburimskiy/sandmap/internal/exhibit"
	"github.com/iburimskiy/sandmap/internal/joystick"
)

// analog readings the keyboard emulates: the wiring inverts the axis, so a
// reading of 0 is full speed in the positive direction.
const (
	analogPositive = 0
	analogRest     = joystick.AnalogMax / 2
	analogNegative = joystick.AnalogMax
)

// keyboard turns keys into the same OSC messages the Arduino bridge sends,
// for running the installation without hardware.
type keyboard struct {
	out     *dispatch.Queue
	prevKey map[ebiten.Key]bool
	axisX   float64
	axisY   float64
}

func newKeyboard(out *dispatch.Queue) *keyboard {
	return &keyboard{
		out:     out,
		prevKey: map[ebiten.Key]bool{},
		axisX:   analogRest,
		axisY:   analogRest,
	}
}

func (k *keyboard) update() {
	edge := func(key ebiten.Key) (down, up bool) {
		pressed := ebiten.IsKeyPressed(key)
		was := k.prevKey[key]
		k.prevKey[key] = pressed
		return pressed && !was, !pressed && was
	}

	// Every physical press of the real button reports twice; a key down
	// and its release emulate one of those reports each.
	if down, up := edge(ebiten.KeySpace); down || up {
		k.digital(joystick.PinButton, 1)
		k.digital(joystick.PinButton, 0)
	}

	for key, pin := range map[ebiten.Key]int{
		ebiten.KeyBracketLeft:  joystick.PinZoomIn,
		ebiten.KeyBracketRight: joystick.PinZoomOut,
	} {
		switch down, up := edge(key); {
		case down:
			k.digital(pin, 1)
		case up:
			k.digital(pin, 0)
		}
	}

	k.axis(joystick.PinAxisX, &k.axisX, ebiten.KeyArrowRight, ebiten.KeyArrowLeft)
	k.axis(joystick.PinAxisY, &k.axisY, ebiten.KeyArrowUp, ebiten.KeyArrowDown)
}

func (k *keyboard) axis(pin int, last *float64, positive, negative ebiten.Key) {
	value := analogRest
	switch {
	case ebiten.IsKeyPressed(positive):
		value = analogPositive
	case ebiten.IsKeyPressed(negative):
		value = analogNegative
	}
	if value == *last {
		return
	}
	*last = value
	k.out.Push(dispatch.NewMessage(exhibit.AddrAnalog, int32(pin), float32(value)))
}

func (k *keyboard) digital(pin, value int) {
	k.out.Push(dispatch.NewMessage(exhibit.AddrDigital, int32(pin), int32(value)))
}
