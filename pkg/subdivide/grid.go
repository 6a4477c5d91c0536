package subdivide

import (
	"fmt"
	"math"

	"github.com/bartekjanek/siteplanner/pkg/clipper"
	"github.com/bartekjanek/siteplanner/pkg/geo"
	"github.com/bartekjanek/siteplanner/pkg/validation"
)

// maxGridDivisions caps the column/row correction loop so it always
// terminates.
const maxGridDivisions = 999

// GridStrategy overlays a rectangular grid on the boundary's bounding
// box and clips each cell to the boundary.
type GridStrategy struct {
	Clip clipper.Clipper
}

// Name implements Strategy.
func (g *GridStrategy) Name() string { return "grid" }

// Subdivide implements Strategy.
func (g *GridStrategy) Subdivide(boundary geo.Polygon, target AreaRange) ([]Parcel, *validation.Report, error) {
	report := validation.NewReport()
	if g.Clip == nil {
		g.Clip = clipper.New()
	}

	bbMin, bbMax := boundary.BoundingBox()
	width := bbMax.X - bbMin.X
	height := bbMax.Y - bbMin.Y

	cols, rows := gridDivisions(width, height, target)

	cellW := width / float64(cols)
	cellH := height / float64(rows)
	if cellW*cellH > target.Max {
		report.AddWarning(validation.Result{
			Level: validation.LevelSpatial,
			Message: fmt.Sprintf("grid cell area %.1f still above target max %.1f after correction",
				cellW*cellH, target.Max),
		})
	}

	var parcels []Parcel
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			x0 := bbMin.X + float64(c)*cellW
			y0 := bbMin.Y + float64(r)*cellH
			cell := geo.NewPolygon(
				geo.Pt(x0, y0),
				geo.Pt(x0+cellW, y0),
				geo.Pt(x0+cellW, y0+cellH),
				geo.Pt(x0, y0+cellH),
			)
			parcels = collectLoops(g.Clip, cell, boundary, parcels)
		}
	}

	report.AddInfo(validation.Result{
		Level: validation.LevelSpatial,
		Message: fmt.Sprintf("grid subdivision: %dx%d cells over %.1fx%.1f bbox produced %d parcels",
			cols, rows, width, height, len(parcels)),
	})
	return parcels, report, nil
}

// gridDivisions picks column and row counts for the bounding box.
// Initial counts divide each extent by the square root of the target
// mid area, rounding up so cells start at or below that area. The
// correction loop then refines only oversized cells (area above the
// range max), adding columns first, then rows, capped at
// maxGridDivisions. Undersized cells are accepted; clipping against
// the boundary shrinks cells below the range anyway.
func gridDivisions(width, height float64, target AreaRange) (int, int) {
	side := math.Sqrt(target.Mid())
	cols := int(math.Ceil(width / side))
	rows := int(math.Ceil(height / side))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	for (width/float64(cols))*(height/float64(rows)) > target.Max {
		if cols < maxGridDivisions {
			cols++
		} else if rows < maxGridDivisions {
			rows++
		} else {
			break
		}
	}
	return cols, rows
}
