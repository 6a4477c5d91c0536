package roads

import (
	"math"
	"testing"

	"github.com/bartekjanek/siteplanner/pkg/geo"
	"github.com/bartekjanek/siteplanner/pkg/subdivide"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// fourQuadrants returns a 10x10 site split into four 5x5 parcels.
func fourQuadrants() ([]subdivide.Parcel, geo.Polygon) {
	boundary := geo.NewPolygon(geo.Pt(0, 0), geo.Pt(10, 0), geo.Pt(10, 10), geo.Pt(0, 10))
	sq := func(id string, x0, y0 float64) subdivide.Parcel {
		poly := geo.NewPolygon(
			geo.Pt(x0, y0), geo.Pt(x0+5, y0), geo.Pt(x0+5, y0+5), geo.Pt(x0, y0+5),
		)
		return subdivide.Parcel{ID: id, Polygon: poly, AreaM2: poly.Area()}
	}
	return []subdivide.Parcel{
		sq("parcel_000", 0, 0), sq("parcel_001", 5, 0),
		sq("parcel_002", 0, 5), sq("parcel_003", 5, 5),
	}, boundary
}

func TestSpineFromSharedEdges(t *testing.T) {
	parcels, boundary := fourQuadrants()
	network, footprints, _ := Build(geo.Pt(0, 5), parcels, boundary, nil, Options{WidthM: 2})

	// A 2x2 grid has 4 internal shared edges: the interior cross.
	spineCount := 0
	branchCount := 0
	for _, s := range network.Segments {
		switch s.Kind {
		case KindSpine:
			spineCount++
		case KindBranch:
			branchCount++
		}
	}
	if spineCount != 4 {
		t.Errorf("expected 4 spine segments, got %d", spineCount)
	}
	if branchCount != 4 {
		t.Errorf("expected 4 branches (one per parcel), got %d", branchCount)
	}
	if len(footprints) == 0 {
		t.Error("expected clipped road footprints")
	}
}

func TestSpinePrecedesBranches(t *testing.T) {
	parcels, boundary := fourQuadrants()
	network, _, _ := Build(geo.Origin, parcels, boundary, nil, Options{WidthM: 2})

	seenBranch := false
	for _, s := range network.Segments {
		if s.Kind == KindBranch {
			seenBranch = true
		} else if seenBranch {
			t.Fatal("spine segment appended after a branch")
		}
	}
}

func TestBranchEndpoints(t *testing.T) {
	parcels, boundary := fourQuadrants()
	network, _, _ := Build(geo.Origin, parcels, boundary, nil, Options{WidthM: 2})

	var spine []geo.Segment
	for _, s := range network.Segments {
		if s.Kind == KindSpine {
			spine = append(spine, s.Centerline)
		}
	}

	for _, s := range network.Segments {
		if s.Kind != KindBranch {
			continue
		}
		// The far endpoint is the owning parcel's vertex-mean centroid.
		var owner *subdivide.Parcel
		for i := range parcels {
			if parcels[i].ID == s.ParcelID {
				owner = &parcels[i]
			}
		}
		if owner == nil {
			t.Fatalf("branch %s has unknown parcel %q", s.ID, s.ParcelID)
		}
		want := owner.Polygon.VertexMean()
		if !s.Centerline.End.Equals(want, 1e-9) {
			t.Errorf("branch %s ends at (%f,%f), expected centroid (%f,%f)",
				s.ID, s.Centerline.End.X, s.Centerline.End.Y, want.X, want.Y)
		}
		// The near endpoint lies on some spine segment.
		onSpine := false
		for _, sp := range spine {
			if sp.DistanceTo(s.Centerline.Start) < 1e-9 {
				onSpine = true
				break
			}
		}
		if !onSpine {
			t.Errorf("branch %s start (%f,%f) not on any spine segment",
				s.ID, s.Centerline.Start.X, s.Centerline.Start.Y)
		}
	}
}

func TestSingleParcelNoSpineNoBranches(t *testing.T) {
	boundary := geo.NewPolygon(geo.Pt(0, 0), geo.Pt(10, 0), geo.Pt(10, 10), geo.Pt(0, 10))
	parcels := []subdivide.Parcel{{ID: "parcel_000", Polygon: boundary, AreaM2: boundary.Area()}}

	network, footprints, report := Build(geo.Origin, parcels, boundary, nil, Options{WidthM: 2})
	if len(network.Segments) != 0 {
		t.Errorf("expected empty network, got %d segments", len(network.Segments))
	}
	if len(footprints) != 0 {
		t.Errorf("expected no footprints, got %d", len(footprints))
	}
	if !report.Valid {
		t.Error("an empty spine is not an error")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	parcels, boundary := fourQuadrants()
	first, _, _ := Build(geo.Origin, parcels, boundary, nil, Options{WidthM: 2})
	second, _, _ := Build(geo.Origin, parcels, boundary, nil, Options{WidthM: 2})

	if len(first.Segments) != len(second.Segments) {
		t.Fatalf("segment counts differ: %d vs %d", len(first.Segments), len(second.Segments))
	}
	for i := range first.Segments {
		a, b := first.Segments[i], second.Segments[i]
		if a.ID != b.ID || !a.Centerline.EqualWithin(b.Centerline, 1e-12) {
			t.Errorf("segment %d differs between runs", i)
		}
	}
}

func TestFootprintsClippedToSite(t *testing.T) {
	parcels, boundary := fourQuadrants()
	_, footprints, _ := Build(geo.Origin, parcels, boundary, nil, Options{WidthM: 2})

	bbMin, bbMax := boundary.BoundingBox()
	for _, fp := range footprints {
		fpMin, fpMax := fp.Polygon.BoundingBox()
		if fpMin.X < bbMin.X-tolerance || fpMin.Y < bbMin.Y-tolerance ||
			fpMax.X > bbMax.X+tolerance || fpMax.Y > bbMax.Y+tolerance {
			t.Errorf("footprint for %s extends outside the site", fp.SegmentID)
		}
	}
}
