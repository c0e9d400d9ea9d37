package vec

import "math"

// Vec2 is a 2D float64 vector used for screen and canvas space.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D float64 vector used for world space, velocities and Euler angles.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2    { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len() float64            { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64     { return v.Sub(o).Len() }
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) LenSq() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }
func (v Vec3) Len() float64   { return math.Sqrt(v.LenSq()) }

// Normalize returns the unit vector in the direction of v.
// The zero vector normalizes to the zero vector, never NaN.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	inv := 1.0 / l
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Limit scales v down so its magnitude is at most max.
func (v Vec3) Limit(max float64) Vec3 {
	lsq := v.LenSq()
	if lsq > max*max && lsq > 0 {
		return v.Scale(max / math.Sqrt(lsq))
	}
	return v
}

// XY drops the z component.
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

// Map linearly remaps value from [inMin,inMax] to [outMin,outMax].
// Inverted ranges are allowed on either side. A degenerate input range maps to outMin.
func Map(value, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return outMin + (value-inMin)*(outMax-outMin)/(inMax-inMin)
}

// Clamp bounds v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
