// Package geo projects geographic coordinates into scene space and scene
// space into the artwork canvas.
package geo

import (
	"math"

	"github.com/wroge/wgs84"

	"github.com/iburimskiy/sandmap/internal/vec"
)

const (
	// MaxLatitude is the Web Mercator cut-off, the projection diverges at the poles.
	MaxLatitude = 85.05112878

	// halfExtent is the EPSG:3857 easting at longitude 180.
	halfExtent = 20037508.342789244
)

// Projection is a cylindrical Mercator projection scaled so that longitude
// ±180 lands on ±Scale in scene units.
type Projection struct {
	Scale float64

	transform func(lon, lat, h float64) (x, y, z float64)
}

// NewProjection creates a projection with the given global scale factor.
func NewProjection(scale float64) *Projection {
	epsg := wgs84.EPSG()
	return &Projection{
		Scale:     scale,
		transform: epsg.Transform(4326, 3857),
	}
}

// Project maps (lon, lat) in degrees to a scene position on the z=0 plane.
func (p *Projection) Project(lon, lat float64) vec.Vec3 {
	lat = vec.Clamp(lat, -MaxLatitude, MaxLatitude)
	x, y, _ := p.transform(lon, lat, 0)
	return vec.Vec3{
		X: x / halfExtent * p.Scale,
		Y: y / halfExtent * p.Scale,
	}
}

// Box is the scene-space window that is stretched over the canvas. The far
// edges are absolute coordinates, not extents: x runs from X to Right and y
// from Y to Top.
type Box struct {
	X, Y       float64
	Right, Top float64
}

// ToCanvas remaps a scene position into canvas pixels, flipping y so north is up.
func ToCanvas(pos vec.Vec3, box Box, width, height int) vec.Vec2 {
	return vec.Vec2{
		X: vec.Map(pos.X, box.X, box.Right, 0, float64(width)),
		Y: vec.Map(pos.Y, box.Y, box.Top, float64(height), 0),
	}
}

// Inside reports whether a canvas point lies on the canvas.
func Inside(p vec.Vec2, width, height int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(width) && p.Y < float64(height) &&
		!math.IsNaN(p.X) && !math.IsNaN(p.Y)
}
