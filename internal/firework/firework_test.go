package firework

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/sandmap/internal/vec"
)

func TestNewIsRising(t *testing.T) {
	f := New(vec.Vec3{X: 1, Y: 2}, color.Black)
	assert.Equal(t, Rising, f.State)
	assert.False(t, f.Exploded())
	assert.False(t, f.Done())
	assert.Equal(t, vec.Vec3{X: 1, Y: 2}, f.Rocket.Position)
	assert.Greater(t, f.Rocket.Velocity.Z, 0.0)
}

func TestRocketRisesThenExplodes(t *testing.T) {
	f := New(vec.Vec3{}, color.Black)

	f.Update()
	assert.Greater(t, f.Rocket.Position.Z, 0.0)

	for i := 1; i < FuseTicks; i++ {
		f.Update()
	}
	require.True(t, f.Exploded())
	assert.Equal(t, "exploded", f.State.String())
	assert.Len(t, f.Particles, BurstSize)
	for _, p := range f.Particles {
		assert.Equal(t, f.Rocket.Position, p.Position)
	}
}

func TestBurstFadesOut(t *testing.T) {
	f := New(vec.Vec3{}, color.Black)
	for i := 0; i < FuseTicks; i++ {
		f.Update()
	}
	require.True(t, f.Exploded())

	f.Update()
	assert.Less(t, f.Particles[0].Alpha, float32(1))

	for i := 0; i < int(BurstLife.Max)+1; i++ {
		f.Update()
	}
	assert.True(t, f.Done())
	for _, p := range f.Particles {
		assert.False(t, p.Alive())
	}

	// a done firework keeps updating without effect
	f.Update()
	assert.True(t, f.Done())
}

func TestPoolNeverExceedsCap(t *testing.T) {
	p := NewPool(DefaultCap)
	for i := 0; i < 100; i++ {
		p.Add(New(vec.Vec3{X: float64(i)}, color.Black))
		require.LessOrEqual(t, p.Len(), DefaultCap)
	}
	assert.Equal(t, DefaultCap, p.Len())
}

func TestPoolFIFOEviction(t *testing.T) {
	p := NewPool(DefaultCap)
	for i := 1; i <= DefaultCap; i++ {
		assert.False(t, p.Add(New(vec.Vec3{X: float64(i)}, color.Black)))
	}
	assert.Equal(t, 1.0, p.At(0).Origin.X)

	// 16th insertion evicts the first
	assert.True(t, p.Add(New(vec.Vec3{X: 16}, color.Black)))
	assert.Equal(t, DefaultCap, p.Len())

	var xs []float64
	p.Each(func(f *Firework) { xs = append(xs, f.Origin.X) })
	assert.NotContains(t, xs, 1.0)
	assert.Equal(t, 2.0, xs[0])
	assert.Equal(t, 16.0, xs[len(xs)-1])
}

func TestPoolAtBounds(t *testing.T) {
	p := NewPool(3)
	assert.Nil(t, p.At(0))
	p.Add(New(vec.Vec3{}, color.Black))
	assert.NotNil(t, p.At(0))
	assert.Nil(t, p.At(1))
	assert.Nil(t, p.At(-1))
}

func TestPoolUpdateAndReset(t *testing.T) {
	p := NewPool(4)
	p.Add(New(vec.Vec3{}, color.Black))
	p.Add(New(vec.Vec3{}, color.Black))
	assert.Equal(t, 2, p.Active())

	p.Update()
	p.Each(func(f *Firework) {
		assert.Greater(t, f.Rocket.Position.Z, 0.0)
	})

	p.Reset()
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, 4, p.Cap())
}

func TestNewPoolDefaultCap(t *testing.T) {
	assert.Equal(t, DefaultCap, NewPool(0).Cap())
}
