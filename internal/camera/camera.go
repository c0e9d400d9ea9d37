package camera

import (
	"math"

	"github.com/iburimskiy/sandmap/internal/vec"
)

const (
	// Friction is the constant deceleration opposing the current velocity.
	Friction = 0.003
	// Damping is applied to the velocity after acceleration and friction.
	Damping = 0.975
	// RestThreshold snaps slower velocities to zero.
	RestThreshold = 0.0009

	MaxMoveSpeed   = 0.71
	MaxOrientSpeed = 0.21
)

// Mover integrates acceleration into velocity and position once per tick.
// The same model drives translation and orientation, each with its own MaxSpeed.
type Mover struct {
	Position     vec.Vec3
	Velocity     vec.Vec3
	Acceleration vec.Vec3
	MaxSpeed     float64
}

// Apply adds an acceleration for the next tick only.
func (m *Mover) Apply(delta vec.Vec3) {
	m.Acceleration = m.Acceleration.Add(delta)
}

// Tick advances the mover by one frame and consumes the pending acceleration.
func (m *Mover) Tick() {
	// Friction can stop a mover but never reverse it.
	friction := m.Velocity.Normalize().Scale(-math.Min(Friction, m.Velocity.Len()))

	v := m.Velocity.Add(m.Acceleration).Add(friction).Scale(Damping)
	v = v.Limit(m.MaxSpeed)
	if v.Len() < RestThreshold {
		v = vec.Vec3{}
	}
	m.Velocity = v

	m.Position = m.Position.Add(v)
	m.Acceleration = vec.Vec3{}
}

// Resting reports whether the mover has no velocity left.
func (m *Mover) Resting() bool {
	return m.Velocity == vec.Vec3{}
}

// Camera is the joystick driven viewpoint: a translation mover and an
// orientation mover (Euler angles in degrees).
type Camera struct {
	Move   Mover
	Orient Mover

	MoveSpeed   float64
	OrientSpeed float64
}

// New returns a camera at rest at the given position and orientation.
func New(position, orientation vec.Vec3, moveSpeed, orientSpeed float64) *Camera {
	return &Camera{
		Move:        Mover{Position: position, MaxSpeed: MaxMoveSpeed},
		Orient:      Mover{Position: orientation, MaxSpeed: MaxOrientSpeed},
		MoveSpeed:   moveSpeed,
		OrientSpeed: orientSpeed,
	}
}

// ApplyInput feeds the joystick axis into the translation acceleration.
// It has to be re-applied every frame the caller wants motion.
func (c *Camera) ApplyInput(delta vec.Vec2) {
	c.Move.Apply(vec.Vec3{X: delta.X, Y: delta.Y})
}

// ZoomIn is a one-shot acceleration along +z.
func (c *Camera) ZoomIn() {
	c.Move.Apply(vec.Vec3{Z: c.MoveSpeed})
}

// ZoomOut is a one-shot acceleration along -z.
func (c *Camera) ZoomOut() {
	c.Move.Apply(vec.Vec3{Z: -c.MoveSpeed})
}

// Tick advances translation and orientation.
func (c *Camera) Tick() {
	c.Move.Tick()
	c.Orient.Tick()
}

// Position returns the current camera position.
func (c *Camera) Position() vec.Vec3 { return c.Move.Position }

// Orientation returns the current Euler angles in degrees.
func (c *Camera) Orientation() vec.Vec3 { return c.Orient.Position }
