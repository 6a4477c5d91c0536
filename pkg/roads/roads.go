// Package roads synthesizes the access-road network for a subdivided
// site: a primary spine following shared sub-parcel boundaries, plus a
// branch connector from each sub-parcel to the nearest spine segment.
package roads

import (
	"fmt"

	"github.com/bartekjanek/siteplanner/pkg/clipper"
	"github.com/bartekjanek/siteplanner/pkg/geo"
	"github.com/bartekjanek/siteplanner/pkg/subdivide"
	"github.com/bartekjanek/siteplanner/pkg/validation"
)

// Kind distinguishes spine segments from branch connectors.
type Kind string

const (
	KindSpine  Kind = "spine"
	KindBranch Kind = "branch"
)

// Segment is one road centerline with its fixed width.
type Segment struct {
	ID         string      `json:"id"`
	Kind       Kind        `json:"kind"`
	Centerline geo.Segment `json:"centerline"`
	WidthM     float64     `json:"width_m"`
	// ParcelID is set on branches: the parcel the branch serves.
	ParcelID string `json:"parcel_id,omitempty"`
}

// Footprint is the realized road surface: the centerline rectangle
// extruded to width and clipped to the site.
type Footprint struct {
	SegmentID string      `json:"segment_id"`
	Polygon   geo.Polygon `json:"polygon"`
}

// Network is the centerline collection accumulated during one planning
// run. It is appended to only during Build, in generation order (spine
// before branches), and read-only thereafter; building placement must
// see it in full.
type Network struct {
	Segments []Segment `json:"segments"`
}

// Centerlines returns the bare centerline segments for clearance and
// nearest-road queries.
func (n *Network) Centerlines() []geo.Segment {
	lines := make([]geo.Segment, len(n.Segments))
	for i, s := range n.Segments {
		lines[i] = s.Centerline
	}
	return lines
}

// Options parameterizes network generation.
type Options struct {
	WidthM    float64 // road width; footprints extend WidthM/2 each side
	Tolerance float64 // edge-equality tolerance; 0 means geo.SegmentTolerance
}

// Build generates the road network for the given parcel set. The entry
// point is accepted for the host contract but does not gate spine
// construction: the spine is derived purely from shared sub-parcel
// boundaries. Footprints are clipped to the site boundary, which the
// parcels tile.
//
// With zero shared boundaries (a single parcel, or a fully disjoint
// tiling) the spine is empty and every branch is skipped; that is not
// an error.
func Build(entry geo.Point2D, parcels []subdivide.Parcel, boundary geo.Polygon, clip clipper.Clipper, opts Options) (*Network, []Footprint, *validation.Report) {
	_ = entry
	report := validation.NewReport()
	if clip == nil {
		clip = clipper.New()
	}
	tol := opts.Tolerance
	if tol == 0 {
		tol = geo.SegmentTolerance
	}

	network := &Network{}
	var footprints []Footprint

	spine := sharedEdges(parcels, tol)
	for i, edge := range spine {
		seg := Segment{
			ID:         fmt.Sprintf("spine_%03d", i),
			Kind:       KindSpine,
			Centerline: edge,
			WidthM:     opts.WidthM,
		}
		network.Segments = append(network.Segments, seg)
		footprints = appendFootprint(footprints, clip, boundary, seg)
	}

	if len(spine) == 0 {
		report.AddWarning(validation.Result{
			Level:   validation.LevelSpatial,
			Message: "no shared boundaries between parcels; spine is empty and branches are skipped",
		})
	}

	branchCount := 0
	for _, parcel := range parcels {
		centroid := parcel.Polygon.VertexMean()
		nearest, ok := nearestSegment(spine, centroid)
		if !ok {
			continue
		}
		seg := Segment{
			ID:         fmt.Sprintf("branch_%03d", branchCount),
			Kind:       KindBranch,
			Centerline: geo.Seg(nearest.ClosestPoint(centroid), centroid),
			WidthM:     opts.WidthM,
			ParcelID:   parcel.ID,
		}
		network.Segments = append(network.Segments, seg)
		footprints = appendFootprint(footprints, clip, boundary, seg)
		branchCount++
	}

	report.AddInfo(validation.Result{
		Level: validation.LevelSpatial,
		Message: fmt.Sprintf("road network: %d spine segments, %d branches, %d clipped footprints",
			len(spine), branchCount, len(footprints)),
	})
	return network, footprints, report
}

// sharedEdges finds every boundary edge shared by two parcels, under
// tolerance equality in either orientation, deduplicated. This is an
// O(P²·E²) pairwise scan; parcel counts are small (tens), so a spatial
// edge index is not worth its complexity here.
func sharedEdges(parcels []subdivide.Parcel, tol float64) []geo.Segment {
	var shared []geo.Segment
	for i := 0; i < len(parcels); i++ {
		for j := i + 1; j < len(parcels); j++ {
			for _, ei := range parcels[i].Polygon.Edges() {
				for _, ej := range parcels[j].Polygon.Edges() {
					if !ei.EqualWithin(ej, tol) {
						continue
					}
					if !containsSegment(shared, ei, tol) {
						shared = append(shared, ei)
					}
				}
			}
		}
	}
	return shared
}

func containsSegment(segs []geo.Segment, s geo.Segment, tol float64) bool {
	for _, o := range segs {
		if o.EqualWithin(s, tol) {
			return true
		}
	}
	return false
}

// nearestSegment returns the spine segment with minimum distance to pt.
func nearestSegment(spine []geo.Segment, pt geo.Point2D) (geo.Segment, bool) {
	if len(spine) == 0 {
		return geo.Segment{}, false
	}
	best := spine[0]
	bestDist := best.DistanceTo(pt)
	for _, s := range spine[1:] {
		if d := s.DistanceTo(pt); d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best, true
}

// appendFootprint extrudes the segment to a width rectangle on the
// left-hand perpendicular, clips it to the site, and appends every
// surviving loop. Degenerate clips are silently skipped.
func appendFootprint(footprints []Footprint, clip clipper.Clipper, boundary geo.Polygon, seg Segment) []Footprint {
	rect, ok := footprintRect(seg.Centerline, seg.WidthM)
	if !ok {
		return footprints
	}
	for _, loop := range clip.Intersect(rect, boundary) {
		if loop.Area() <= clipper.MinArea {
			continue
		}
		footprints = append(footprints, Footprint{SegmentID: seg.ID, Polygon: loop})
	}
	return footprints
}

// footprintRect builds the rectangle of the given width centered on the
// segment, offset along the left-hand perpendicular of its direction.
func footprintRect(s geo.Segment, width float64) (geo.Polygon, bool) {
	dir := s.Direction()
	if dir.Length() < 1e-9 || width <= 0 {
		return geo.Polygon{}, false
	}
	half := dir.Perp().Scale(width / 2)
	return geo.NewPolygon(
		s.Start.Sub(half),
		s.End.Sub(half),
		s.End.Add(half),
		s.Start.Add(half),
	), true
}
