package firework

import (
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/sandmap/internal/vec"
)

// Particle is one simulated point.
type Particle struct {
	Position vec.Vec3
	Velocity vec.Vec3
	Age      int
	Life     int
	Alpha    float32
}

// Alive reports whether the particle still has lifetime left.
func (p *Particle) Alive() bool {
	return p.Age < p.Life
}

func (p *Particle) step(gravity, drag float64) {
	p.Velocity.Z -= gravity
	p.Velocity = p.Velocity.Scale(drag)
	p.Position = p.Position.Add(p.Velocity)
	p.Age++
}

// Range is a closed interval sampled uniformly.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// randomDirection is a uniformly distributed unit vector.
func randomDirection() vec.Vec3 {
	z := rand.Float64()*2 - 1
	theta := rand.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return vec.Vec3{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}
}
