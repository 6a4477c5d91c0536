// Package placement positions one building footprint inside each
// sub-parcel while keeping a minimum clearance from every road
// centerline in the network.
package placement

import (
	"errors"
	"math"
	"math/rand"

	"github.com/bartekjanek/siteplanner/pkg/clipper"
	"github.com/bartekjanek/siteplanner/pkg/geo"
	"github.com/bartekjanek/siteplanner/pkg/subdivide"
)

// ErrInfeasible is returned when a parcel cannot host a building within
// the attempt bound without violating clearance. Per-parcel and
// non-fatal: the caller skips the parcel and continues.
var ErrInfeasible = errors.New("no clearance-valid placement in parcel")

// DefaultAttempts is the shift-and-rescan bound for one placement.
const DefaultAttempts = 10

// shiftStepM is the fixed extra distance added to each clearance
// deficit when shifting the candidate center.
const shiftStepM = 0.5

// Options parameterizes building placement.
type Options struct {
	AreaMinM2  float64 // footprint area drawn uniformly from [min, max]
	AreaMaxM2  float64
	ClearanceM float64 // minimum distance from center to any road
	Attempts   int     // 0 means DefaultAttempts
}

// Placement is a successfully placed building.
type Placement struct {
	ParcelID  string      `json:"parcel_id"`
	Center    geo.Point2D `json:"center"`
	SideM     float64     `json:"side_m"`
	Footprint geo.Polygon `json:"footprint"` // square clipped to the parcel
}

// Place finds a clearance-valid center for a square footprint inside
// the parcel and clips the square to the parcel polygon.
//
// The candidate center starts at the parcel's vertex-mean centroid and
// walks the Scanning→Shifting loop: any road closer than the clearance
// pushes the center away along that road's perpendicular by the deficit
// plus a fixed step; a shift that exits the parcel retries the opposite
// direction at double magnitude, and failing both is immediately
// infeasible. Every accepted shift restarts the scan from the first
// road. Exhausting the attempt bound is infeasible too.
//
// Returns (nil, nil) when the final clip against the parcel is
// degenerate; that placement is silently skipped, not an error.
func Place(parcel subdivide.Parcel, network []geo.Segment, clip clipper.Clipper, rng *rand.Rand, opts Options) (*Placement, error) {
	if clip == nil {
		clip = clipper.New()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	attempts := opts.Attempts
	if attempts == 0 {
		attempts = DefaultAttempts
	}

	area := opts.AreaMinM2 + rng.Float64()*(opts.AreaMaxM2-opts.AreaMinM2)
	side := math.Sqrt(area)

	center := parcel.Polygon.VertexMean()
	for attempt := 0; attempt < attempts; attempt++ {
		violating, deficit, found := firstViolation(network, center, opts.ClearanceM)
		if !found {
			return clipSquare(parcel, center, side, clip), nil
		}
		shifted, ok := shiftAway(parcel.Polygon, violating, center, deficit+shiftStepM)
		if !ok {
			return nil, ErrInfeasible
		}
		center = shifted
	}
	return nil, ErrInfeasible
}

// firstViolation scans the network in order and returns the first road
// closer than clearance, with its clearance deficit.
func firstViolation(network []geo.Segment, center geo.Point2D, clearance float64) (geo.Segment, float64, bool) {
	for _, road := range network {
		if d := road.DistanceTo(center); d < clearance {
			return road, clearance - d, true
		}
	}
	return geo.Segment{}, 0, false
}

// shiftAway moves the center away from the road's closest point by the
// given magnitude, staying inside the parcel. If the shift exits the
// parcel the opposite direction is tried at double magnitude; failing
// both reports no valid shift.
func shiftAway(parcel geo.Polygon, road geo.Segment, center geo.Point2D, magnitude float64) (geo.Point2D, bool) {
	away := center.Sub(road.ClosestPoint(center)).Normalize()
	if away.Length() < 1e-9 {
		// Center sits on the road centerline; pick its left perpendicular.
		away = road.Direction().Perp()
	}

	shifted := center.Add(away.Scale(magnitude))
	if parcel.Contains(shifted) {
		return shifted, true
	}
	opposite := center.Sub(away.Scale(2 * magnitude))
	if parcel.Contains(opposite) {
		return opposite, true
	}
	return geo.Point2D{}, false
}

// clipSquare builds the axis-aligned square footprint and clips it to
// the parcel. A degenerate clip yields nil.
func clipSquare(parcel subdivide.Parcel, center geo.Point2D, side float64, clip clipper.Clipper) *Placement {
	half := side / 2
	square := geo.NewPolygon(
		geo.Pt(center.X-half, center.Y-half),
		geo.Pt(center.X+half, center.Y-half),
		geo.Pt(center.X+half, center.Y+half),
		geo.Pt(center.X-half, center.Y+half),
	)

	loops := clip.Intersect(square, parcel.Polygon)
	var best geo.Polygon
	for _, loop := range loops {
		if loop.Area() > best.Area() {
			best = loop
		}
	}
	if best.Area() <= clipper.MinArea {
		return nil
	}
	return &Placement{
		ParcelID:  parcel.ID,
		Center:    center,
		SideM:     side,
		Footprint: best,
	}
}
