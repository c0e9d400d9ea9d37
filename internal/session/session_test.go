package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartsInIntro(t *testing.T) {
	m := New(10, zerolog.Nop())
	assert.Equal(t, Intro, m.State())
	assert.True(t, m.ShowsIntro())
	assert.False(t, m.Greeting())
	assert.Equal(t, uuid.Nil, m.ID())
}

func TestPressCycle(t *testing.T) {
	m := New(10, zerolog.Nop())
	var started, finished []uuid.UUID
	m.OnStart = func(id uuid.UUID) { started = append(started, id) }
	m.OnFinish = func(id uuid.UUID) { finished = append(finished, id) }

	assert.Equal(t, Active, m.Press())
	assert.False(t, m.ShowsIntro())
	require.Len(t, started, 1)
	assert.NotEqual(t, uuid.Nil, m.ID())
	assert.Empty(t, finished)

	first := m.ID()
	assert.Equal(t, Intro, m.Press())
	assert.True(t, m.ShowsIntro())
	assert.True(t, m.Greeting())
	require.Len(t, finished, 1)
	assert.Equal(t, first, finished[0])
	assert.Equal(t, uuid.Nil, m.ID())
}

func TestGreetingTimesOut(t *testing.T) {
	m := New(3, zerolog.Nop())
	m.Press()
	m.Press()
	require.True(t, m.Greeting())

	m.Tick()
	m.Tick()
	assert.True(t, m.Greeting())
	m.Tick()
	assert.False(t, m.Greeting())
	assert.Equal(t, Intro, m.State())
	assert.True(t, m.ShowsIntro())
}

func TestPressDuringGreetingStartsNewSession(t *testing.T) {
	m := New(100, zerolog.Nop())
	m.Press()
	first := m.ID()
	m.Press()

	assert.Equal(t, Active, m.Press())
	assert.NotEqual(t, first, m.ID())
	assert.False(t, m.Greeting())

	for i := 0; i < 200; i++ {
		m.Tick()
	}
	assert.Equal(t, Active, m.State())
}

func TestTickOutsideGreeting(t *testing.T) {
	m := New(1, zerolog.Nop())
	m.Tick()
	assert.Equal(t, Intro, m.State())
	m.Press()
	m.Tick()
	assert.Equal(t, Active, m.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "intro", Intro.String())
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "unknown", State(9).String())
}
