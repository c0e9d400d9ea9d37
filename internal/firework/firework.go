// Package firework simulates the bursts shown at tweeted cities and keeps
// the most recent ones in a bounded pool.
package firework

import (
	"image/color"

	"github.com/tanema/gween/ease"

	"github.com/iburimskiy/sandmap/internal/vec"
)

// State of a firework. The transition is one way.
type State int

const (
	Rising State = iota
	Exploded
)

func (s State) String() string {
	if s == Exploded {
		return "exploded"
	}
	return "rising"
}

// Tunables of the simulation, in scene units per tick.
const (
	FuseTicks  = 45
	BurstSize  = 60
	Gravity    = 0.004
	Drag       = 0.96
	RocketDrag = 1.0
	SphereSize = 0.23
)

var (
	LaunchSpeed = Range{Min: 0.28, Max: 0.36}
	BurstSpeed  = Range{Min: 0.05, Max: 0.22}
	BurstLife   = Range{Min: 50, Max: 90}
)

// Firework is a rocket that rises from a city and bursts into particles.
type Firework struct {
	Origin    vec.Vec3
	State     State
	Color     color.Color
	Rocket    Particle
	Particles []Particle
	ticks     int
}

// New launches a firework from pos.
func New(pos vec.Vec3, c color.Color) Firework {
	return Firework{
		Origin: pos,
		State:  Rising,
		Color:  c,
		Rocket: Particle{
			Position: pos,
			Velocity: vec.Vec3{Z: LaunchSpeed.Random()},
			Life:     FuseTicks,
			Alpha:    1,
		},
	}
}

// Update advances the simulation by one tick.
func (f *Firework) Update() {
	f.ticks++
	switch f.State {
	case Rising:
		f.Rocket.step(Gravity, RocketDrag)
		if f.Rocket.Velocity.Z <= 0 || f.ticks >= FuseTicks {
			f.explode()
		}
	case Exploded:
		for i := range f.Particles {
			p := &f.Particles[i]
			if !p.Alive() {
				continue
			}
			p.step(Gravity, Drag)
			t := float32(p.Age) / float32(p.Life)
			p.Alpha = 1 - ease.OutQuad(t, 0, 1, 1)
			if p.Alpha < 0 {
				p.Alpha = 0
			}
		}
	}
}

func (f *Firework) explode() {
	f.State = Exploded
	f.Particles = make([]Particle, BurstSize)
	for i := range f.Particles {
		f.Particles[i] = Particle{
			Position: f.Rocket.Position,
			Velocity: randomDirection().Scale(BurstSpeed.Random()),
			Life:     int(BurstLife.Random()),
			Alpha:    1,
		}
	}
}

// Exploded reports whether the rocket has burst.
func (f *Firework) Exploded() bool { return f.State == Exploded }

// Done reports whether the burst has fully faded.
func (f *Firework) Done() bool {
	if f.State != Exploded {
		return false
	}
	for i := range f.Particles {
		if f.Particles[i].Alive() {
			return false
		}
	}
	return true
}
