package exhibit

import (
	"github.com/iburimskiy/sandmap/internal/dispatch"
	"github.com/iburimskiy/sandmap/internal/joystick"
)

// OSC addresses of the two bridges.
const (
	AddrDigital = "/arduino/digital"
	AddrAnalog  = "/arduino/analog"
	AddrTweet   = "/twitter-app"
)

func (e *Exhibit) registerHandlers() {
	e.dispatcher.Register(AddrDigital, e.handleDigital, dispatch.Logged())
	e.dispatcher.Register(AddrAnalog, e.handleAnalog)
	e.dispatcher.Register(AddrTweet, e.handleTweet, dispatch.Logged())
}

func (e *Exhibit) handleDigital(msg dispatch.Message) error {
	pin, err := msg.Int(0)
	if err != nil {
		return err
	}
	value, err := msg.Int(1)
	if err != nil {
		return err
	}
	if pin == joystick.PinButton {
		e.joystick.Raw(value)
		return nil
	}
	e.joystick.Zoom(pin, value)
	return nil
}

func (e *Exhibit) handleAnalog(msg dispatch.Message) error {
	pin, err := msg.Int(0)
	if err != nil {
		return err
	}
	value, err := msg.Float(1)
	if err != nil {
		return err
	}
	e.joystick.Analog(pin, value, e.cfg.CamMoveSpeed)
	return nil
}

func (e *Exhibit) handleTweet(msg dispatch.Message) error {
	var t Tweet
	var err error
	if t.City, err = msg.String(0); err != nil {
		return err
	}
	if t.Hashtags, err = msg.String(1); err != nil {
		return err
	}
	if t.Nation, err = msg.String(2); err != nil {
		return err
	}
	if t.Lon, err = msg.Float(3); err != nil {
		return err
	}
	if t.Lat, err = msg.Float(4); err != nil {
		return err
	}
	e.HandleTweet(t)
	return nil
}
