// Package session tracks the visitor flow: the intro screen and an active
// drawing session. Ending a session returns to the intro screen with a
// thank you greeting shown for a while.
package session

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State of the installation.
type State int

const (
	Intro State = iota
	// Active is a running session; the next press ends it.
	Active
)

func (s State) String() string {
	switch s {
	case Intro:
		return "intro"
	case Active:
		return "active"
	}
	return "unknown"
}

// Machine is the session state machine. It is driven from the update loop
// and is not safe for concurrent use.
type Machine struct {
	state         State
	greetingTicks int
	remaining     int
	id            uuid.UUID
	logger        zerolog.Logger

	// OnStart runs when a session becomes active.
	OnStart func(id uuid.UUID)
	// OnFinish runs when an active session ends, before the intro returns.
	OnFinish func(id uuid.UUID)
}

// New returns a machine in Intro. The greeting after a session lasts
// greetingTicks updates.
func New(greetingTicks int, logger zerolog.Logger) *Machine {
	return &Machine{
		state:         Intro,
		greetingTicks: greetingTicks,
		logger:        logger,
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// ID returns the current session id, the zero UUID outside a session.
func (m *Machine) ID() uuid.UUID { return m.id }

// ShowsIntro reports whether the intro screen covers the exhibit.
func (m *Machine) ShowsIntro() bool { return m.state != Active }

// Greeting reports whether the intro screen still thanks the last visitor.
func (m *Machine) Greeting() bool { return m.state == Intro && m.remaining > 0 }

// Press handles one debounced button press and returns the new state.
func (m *Machine) Press() State {
	switch m.state {
	case Intro:
		m.start()
	case Active:
		m.finish()
	}
	return m.state
}

func (m *Machine) start() {
	m.id = uuid.New()
	m.state = Active
	m.remaining = 0
	m.logger.Info().Str("session", m.id.String()).Msg("session started")
	if m.OnStart != nil {
		m.OnStart(m.id)
	}
}

func (m *Machine) finish() {
	id := m.id
	m.logger.Info().Str("session", id.String()).Msg("session finished")
	if m.OnFinish != nil {
		m.OnFinish(id)
	}
	m.id = uuid.Nil
	m.state = Intro
	m.remaining = m.greetingTicks
}

// Tick advances the greeting timer by one update.
func (m *Machine) Tick() {
	if m.remaining > 0 {
		m.remaining--
	}
}
