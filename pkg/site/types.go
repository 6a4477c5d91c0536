package site

import (
	"github.com/bartekjanek/siteplanner/pkg/geo"
)

// Definition is the top-level site definition handed to the planner by
// the host: one boundary polygon, one entry point, and the planning
// parameters.
type Definition struct {
	SpecVersion string         `yaml:"spec_version" json:"spec_version"`
	Site        SiteDef        `yaml:"site" json:"site"`
	Subdivision SubdivisionDef `yaml:"subdivision" json:"subdivision"`
	Roads       RoadsDef       `yaml:"roads" json:"roads"`
	Buildings   BuildingsDef   `yaml:"buildings" json:"buildings"`
}

// SiteDef describes the input site geometry.
type SiteDef struct {
	Name     string        `yaml:"name" json:"name"`
	Boundary []geo.Point2D `yaml:"boundary" json:"boundary"`
	Entry    geo.Point2D   `yaml:"entry" json:"entry"`
}

// BoundaryPolygon returns the site boundary as a geo.Polygon.
func (s SiteDef) BoundaryPolygon() geo.Polygon {
	return geo.Polygon{Vertices: s.Boundary}
}

// SubdivisionDef selects and parameterizes the subdivision strategy.
type SubdivisionDef struct {
	Strategy      string  `yaml:"strategy" json:"strategy"` // "grid" or "voronoi"
	TargetAreaMin float64 `yaml:"target_area_min" json:"target_area_min"`
	TargetAreaMax float64 `yaml:"target_area_max" json:"target_area_max"`
	Seed          *int64  `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// RoadsDef holds road network parameters.
type RoadsDef struct {
	WidthM float64 `yaml:"width_m" json:"width_m"`
}

// BuildingsDef holds building placement parameters.
type BuildingsDef struct {
	AreaMinM2  float64 `yaml:"area_min_m2" json:"area_min_m2"`
	AreaMaxM2  float64 `yaml:"area_max_m2" json:"area_max_m2"`
	ClearanceM float64 `yaml:"clearance_m" json:"clearance_m"`
}

// Defaults used when the definition leaves a parameter zero.
const (
	DefaultRoadWidthM  = 6.0
	DefaultAreaMinM2   = 807.0
	DefaultAreaMaxM2   = 1615.0
	DefaultClearanceM  = 2.0
	DefaultStrategy    = "grid"
)

// ApplyDefaults fills unset parameters in place.
func (d *Definition) ApplyDefaults() {
	if d.Subdivision.Strategy == "" {
		d.Subdivision.Strategy = DefaultStrategy
	}
	if d.Roads.WidthM == 0 {
		d.Roads.WidthM = DefaultRoadWidthM
	}
	if d.Buildings.AreaMinM2 == 0 {
		d.Buildings.AreaMinM2 = DefaultAreaMinM2
	}
	if d.Buildings.AreaMaxM2 == 0 {
		d.Buildings.AreaMaxM2 = DefaultAreaMaxM2
	}
	if d.Buildings.ClearanceM == 0 {
		d.Buildings.ClearanceM = DefaultClearanceM
	}
}
