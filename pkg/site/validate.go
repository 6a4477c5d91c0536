package site

import (
	"errors"
	"fmt"

	"github.com/bartekjanek/siteplanner/pkg/validation"
)

// ErrInvalidBoundary is returned when the boundary polygon fails the
// input preconditions. Boundary problems are fatal to the whole run;
// the pipeline refuses to subdivide a malformed site.
var ErrInvalidBoundary = errors.New("invalid site boundary")

// Validate checks the input preconditions: the boundary must be a
// simple closed loop with at least 3 distinct vertices and non-zero
// area, and the target area range must be ordered and positive.
func (d *Definition) Validate() *validation.Report {
	report := validation.NewReport()

	boundary := d.Site.BoundaryPolygon()
	if boundary.Len() < 3 {
		report.AddError(validation.Result{
			Level:       validation.LevelInput,
			Message:     fmt.Sprintf("boundary has %d vertices, need at least 3", boundary.Len()),
			Field:       "site.boundary",
			ActualValue: boundary.Len(),
		})
		return report
	}

	for i, v := range d.Site.Boundary {
		next := d.Site.Boundary[(i+1)%len(d.Site.Boundary)]
		if v.Equals(next, 1e-9) {
			report.AddError(validation.Result{
				Level:   validation.LevelInput,
				Message: fmt.Sprintf("boundary vertices %d and %d coincide", i, (i+1)%len(d.Site.Boundary)),
				Field:   "site.boundary",
			})
		}
	}

	if boundary.Area() < 1e-9 {
		report.AddError(validation.Result{
			Level:       validation.LevelInput,
			Message:     "boundary has zero area",
			Field:       "site.boundary",
			ActualValue: boundary.Area(),
		})
	}

	if boundary.SelfIntersects() {
		report.AddError(validation.Result{
			Level:   validation.LevelInput,
			Message: "boundary is self-intersecting",
			Field:   "site.boundary",
		})
	}

	sub := d.Subdivision
	if sub.TargetAreaMin <= 0 || sub.TargetAreaMax <= 0 {
		report.AddError(validation.Result{
			Level:    validation.LevelInput,
			Message:  "target area range must be positive",
			Field:    "subdivision",
			Expected: "target_area_min > 0 and target_area_max > 0",
		})
	} else if sub.TargetAreaMin > sub.TargetAreaMax {
		report.AddError(validation.Result{
			Level:       validation.LevelInput,
			Message:     "target area range is inverted",
			Field:       "subdivision",
			ActualValue: fmt.Sprintf("[%g, %g]", sub.TargetAreaMin, sub.TargetAreaMax),
			Expected:    "target_area_min <= target_area_max",
		})
	}

	if sub.Strategy != "grid" && sub.Strategy != "voronoi" {
		report.AddError(validation.Result{
			Level:       validation.LevelInput,
			Message:     "unknown subdivision strategy",
			Field:       "subdivision.strategy",
			ActualValue: sub.Strategy,
			Expected:    `"grid" or "voronoi"`,
		})
	}

	return report
}
