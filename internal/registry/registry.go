// Package registry is the city registry: cities and country outlines loaded
// from a GeoJSON feature collection and projected into scene space.
package registry

import (
	"errors"
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"

	"github.com/iburimskiy/sandmap/internal/geo"
	"github.com/iburimskiy/sandmap/internal/vec"
)

// ErrNoCities is returned when a feature collection holds no named points.
var ErrNoCities = errors.New("no cities in feature collection")

// markerSize is the half width of the cross drawn at a city, in scene units.
const markerSize = 0.6

// Mesh is a projected polyline.
type Mesh struct {
	Points []vec.Vec3
	Closed bool
}

// City is immutable after load.
type City struct {
	Name     string
	Position vec.Vec3
	Meshes   []Mesh
}

// Registry owns every city and country outline.
type Registry struct {
	Cities    []City
	Countries []Mesh
}

// nameKeys are the property names tried, in order, for a feature's name.
var nameKeys = []string{"name", "NAME", "city", "CITY_NAME"}

// LoadFile reads a GeoJSON file.
func LoadFile(path string, proj *geo.Projection) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Load(data, proj)
}

// Load builds a registry from GeoJSON. Named Point features become cities,
// Polygon and MultiPolygon features become country outlines.
func Load(data []byte, proj *geo.Projection) (*Registry, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing geojson: %w", err)
	}

	r := &Registry{}
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		switch {
		case f.Geometry.IsPoint():
			name := featureName(f)
			if name == "" || len(f.Geometry.Point) < 2 {
				continue
			}
			pos := proj.Project(f.Geometry.Point[0], f.Geometry.Point[1])
			r.Cities = append(r.Cities, City{
				Name:     name,
				Position: pos,
				Meshes:   marker(pos),
			})
		case f.Geometry.IsPolygon():
			r.addPolygon(f.Geometry.Polygon, proj)
		case f.Geometry.IsMultiPolygon():
			for _, poly := range f.Geometry.MultiPolygon {
				r.addPolygon(poly, proj)
			}
		}
	}

	if len(r.Cities) == 0 {
		return nil, ErrNoCities
	}
	return r, nil
}

func (r *Registry) addPolygon(rings [][][]float64, proj *geo.Projection) {
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		m := Mesh{Points: make([]vec.Vec3, 0, len(ring)), Closed: true}
		for _, p := range ring {
			if len(p) < 2 {
				continue
			}
			m.Points = append(m.Points, proj.Project(p[0], p[1]))
		}
		r.Countries = append(r.Countries, m)
	}
}

func featureName(f *geojson.Feature) string {
	for _, key := range nameKeys {
		if name, err := f.PropertyString(key); err == nil && name != "" {
			return name
		}
	}
	return ""
}

func marker(pos vec.Vec3) []Mesh {
	return []Mesh{
		{Points: []vec.Vec3{pos.Add(vec.Vec3{X: -markerSize}), pos.Add(vec.Vec3{X: markerSize})}},
		{Points: []vec.Vec3{pos.Add(vec.Vec3{Y: -markerSize}), pos.Add(vec.Vec3{Y: markerSize})}},
	}
}

// Lookup scans the cities in load order and returns the first exact name match.
func (r *Registry) Lookup(name string) (City, bool) {
	for i := range r.Cities {
		if r.Cities[i].Name == name {
			return r.Cities[i], true
		}
	}
	return City{}, false
}

// Centroid is the mean of every country vertex, or of the cities when no
// outlines were loaded. The camera looks at it.
func (r *Registry) Centroid() vec.Vec3 {
	var sum vec.Vec3
	n := 0
	for _, m := range r.Countries {
		for _, p := range m.Points {
			sum = sum.Add(p)
			n++
		}
	}
	if n == 0 {
		for _, c := range r.Cities {
			sum = sum.Add(c.Position)
			n++
		}
	}
	if n == 0 {
		return vec.Vec3{}
	}
	return sum.Scale(1 / float64(n))
}
