// Package view is the perspective transform from scene space to the map
// panel.
package view

import (
	"math"

	"github.com/iburimskiy/sandmap/internal/vec"
)

const (
	DefaultFOV = 60.0
	nearPlane  = 0.1
)

// View looks down -z from Eye, rotated by Orientation (Euler degrees,
// applied x then y then z). Scene points are shifted by Offset first.
type View struct {
	Eye         vec.Vec3
	Orientation vec.Vec3
	Offset      vec.Vec3

	width, height float64
	focal         float64
}

// New returns a view over a width×height panel with a vertical field of
// view in degrees.
func New(width, height int, fov float64) View {
	if fov <= 0 || fov >= 180 {
		fov = DefaultFOV
	}
	return View{
		width:  float64(width),
		height: float64(height),
		focal:  float64(height) / 2 / math.Tan(fov*math.Pi/360),
	}
}

// Camera returns v looking from eye with the given orientation.
func (v View) Camera(eye, orientation vec.Vec3) View {
	v.Eye = eye
	v.Orientation = orientation
	return v
}

// toEye moves a scene point into camera space.
func (v View) toEye(p vec.Vec3) vec.Vec3 {
	d := p.Add(v.Offset).Sub(v.Eye)
	d = rotateZ(d, -v.Orientation.Z)
	d = rotateY(d, -v.Orientation.Y)
	return rotateX(d, -v.Orientation.X)
}

// Project returns the panel position of p, and false when p is behind the
// camera.
func (v View) Project(p vec.Vec3) (vec.Vec2, bool) {
	e := v.toEye(p)
	depth := -e.Z
	if depth < nearPlane {
		return vec.Vec2{}, false
	}
	return vec.Vec2{
		X: v.width/2 + v.focal*e.X/depth,
		Y: v.height/2 - v.focal*e.Y/depth,
	}, true
}

// Scale is the on-screen size of a scene length at p, zero when p is behind
// the camera.
func (v View) Scale(p vec.Vec3, size float64) float64 {
	depth := -v.toEye(p).Z
	if depth < nearPlane {
		return 0
	}
	return v.focal * size / depth
}

// Anchor projects p and reports whether it lands on the panel. scale is the
// on-screen length of one scene unit at p.
func (v View) Anchor(p vec.Vec3) (s vec.Vec2, scale float64, ok bool) {
	s, ok = v.Project(p)
	if !ok || !v.Visible(s) {
		return vec.Vec2{}, 0, false
	}
	return s, v.Scale(p, 1), true
}

// Visible reports whether a panel position is on the panel.
func (v View) Visible(s vec.Vec2) bool {
	return s.X >= 0 && s.Y >= 0 && s.X < v.width && s.Y < v.height
}

func rotateX(p vec.Vec3, deg float64) vec.Vec3 {
	s, c := math.Sincos(deg * math.Pi / 180)
	return vec.Vec3{X: p.X, Y: c*p.Y - s*p.Z, Z: s*p.Y + c*p.Z}
}

func rotateY(p vec.Vec3, deg float64) vec.Vec3 {
	s, c := math.Sincos(deg * math.Pi / 180)
	return vec.Vec3{X: c*p.X + s*p.Z, Y: p.Y, Z: -s*p.X + c*p.Z}
}

func rotateZ(p vec.Vec3, deg float64) vec.Vec3 {
	s, c := math.Sincos(deg * math.Pi / 180)
	return vec.Vec3{X: c*p.X - s*p.Y, Y: s*p.X + c*p.Y, Z: p.Z}
}
