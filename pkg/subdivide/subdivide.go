// Package subdivide partitions a site boundary into sub-parcels of
// bounded area. Two interchangeable strategies are provided: an
// axis-aligned grid with clipping, and a Voronoi tessellation with
// clipping. Either way every returned parcel lies inside the boundary,
// parcels touch only along shared edges, and their areas sum to
// approximately the boundary area.
package subdivide

import (
	"fmt"
	"math/rand"

	"github.com/bartekjanek/siteplanner/pkg/clipper"
	"github.com/bartekjanek/siteplanner/pkg/geo"
	"github.com/bartekjanek/siteplanner/pkg/validation"
)

// Parcel is one sub-parcel produced by subdivision: a polygon plus its
// shoelace area. Parcels are read-only after creation.
type Parcel struct {
	ID      string      `json:"id"`
	Polygon geo.Polygon `json:"polygon"`
	AreaM2  float64     `json:"area_m2"`
}

// AreaRange is the target sub-parcel area range in square planar units.
type AreaRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Mid returns the midpoint of the range.
func (r AreaRange) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Contains reports whether a falls inside the range.
func (r AreaRange) Contains(a float64) bool {
	return a >= r.Min && a <= r.Max
}

// Strategy produces a parcel set covering the boundary.
type Strategy interface {
	Name() string
	Subdivide(boundary geo.Polygon, target AreaRange) ([]Parcel, *validation.Report, error)
}

// ForName returns the strategy with the given name. A nil clip selects
// the default in-process kernel; rng is only used by the Voronoi
// strategy and may be nil for the grid.
func ForName(name string, clip clipper.Clipper, rng *rand.Rand) (Strategy, error) {
	if clip == nil {
		clip = clipper.New()
	}
	switch name {
	case "grid":
		return &GridStrategy{Clip: clip}, nil
	case "voronoi":
		return &VoronoiStrategy{Clip: clip, Rand: rng}, nil
	default:
		return nil, fmt.Errorf("unknown subdivision strategy %q", name)
	}
}

// collectLoops clips one candidate cell against the boundary and
// appends every surviving sub-loop as its own parcel. Cells straddling
// a non-convex boundary may split into multiple disjoint loops.
func collectLoops(clip clipper.Clipper, cell, boundary geo.Polygon, parcels []Parcel) []Parcel {
	for _, loop := range clip.Intersect(cell, boundary) {
		area := loop.Area()
		if area <= clipper.MinArea {
			continue
		}
		parcels = append(parcels, Parcel{
			ID:      fmt.Sprintf("parcel_%03d", len(parcels)),
			Polygon: loop,
			AreaM2:  area,
		})
	}
	return parcels
}
