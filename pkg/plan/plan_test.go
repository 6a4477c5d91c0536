package plan

import (
	"errors"
	"math"
	"testing"

	"github.com/bartekjanek/siteplanner/pkg/geo"
	"github.com/bartekjanek/siteplanner/pkg/roads"
	"github.com/bartekjanek/siteplanner/pkg/site"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func gridDefinition(seed int64) *site.Definition {
	return &site.Definition{
		SpecVersion: "1",
		Site: site.SiteDef{
			Name: "test-site",
			Boundary: []geo.Point2D{
				geo.Pt(0, 0), geo.Pt(100, 0), geo.Pt(100, 100), geo.Pt(0, 100),
			},
			Entry: geo.Pt(0, 50),
		},
		Subdivision: site.SubdivisionDef{
			Strategy:      "grid",
			TargetAreaMin: 2400,
			TargetAreaMax: 2600,
			Seed:          &seed,
		},
	}
}

func TestRunGridPipeline(t *testing.T) {
	def := gridDefinition(42)
	result, report, err := Run(def, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Valid {
		t.Fatalf("expected a valid report, got %d errors", len(report.Errors))
	}

	// 100x100 with target mid 2500 gives a 2x2 grid of 2500 parcels.
	if len(result.Parcels) != 4 {
		t.Fatalf("expected 4 parcels, got %d", len(result.Parcels))
	}
	for _, p := range result.Parcels {
		if !approxEqual(p.AreaM2, 2500, 1.0) {
			t.Errorf("parcel %s area %f, expected 2500", p.ID, p.AreaM2)
		}
	}

	spines, branches := 0, 0
	for _, s := range result.Network.Segments {
		switch s.Kind {
		case roads.KindSpine:
			spines++
		case roads.KindBranch:
			branches++
		}
	}
	if spines == 0 {
		t.Error("expected spine segments from the interior shared edges")
	}
	if branches != len(result.Parcels) {
		t.Errorf("expected one branch per parcel, got %d for %d parcels",
			branches, len(result.Parcels))
	}

	if len(result.Buildings)+len(result.Skipped) != len(result.Parcels) {
		t.Errorf("buildings (%d) plus skipped (%d) must cover all %d parcels",
			len(result.Buildings), len(result.Skipped), len(result.Parcels))
	}
	for _, b := range result.Buildings {
		for _, c := range result.Network.Centerlines() {
			if d := c.DistanceTo(b.Center); d < def.Buildings.ClearanceM {
				t.Errorf("building in %s within clearance of a road: %f", b.ParcelID, d)
			}
		}
	}

	if result.RunID == "" {
		t.Error("expected a run id")
	}
	if result.Strategy != "grid" {
		t.Errorf("strategy %q, expected grid", result.Strategy)
	}
}

func TestRunVoronoiPipeline(t *testing.T) {
	def := gridDefinition(7)
	def.Subdivision.Strategy = "voronoi"

	result, report, err := Run(def, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Valid {
		t.Fatal("expected a valid report")
	}
	if len(result.Parcels) == 0 {
		t.Fatal("expected parcels")
	}
	total := 0.0
	for _, p := range result.Parcels {
		total += p.AreaM2
	}
	if !approxEqual(total, 10000, 100) {
		t.Errorf("parcel areas sum to %f, expected ~10000", total)
	}
}

func TestRunDeterministicWithSeed(t *testing.T) {
	first, _, err := Run(gridDefinition(99), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := Run(gridDefinition(99), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Buildings) != len(second.Buildings) {
		t.Fatalf("building counts differ: %d vs %d", len(first.Buildings), len(second.Buildings))
	}
	for i := range first.Buildings {
		a, b := first.Buildings[i], second.Buildings[i]
		if !a.Center.Equals(b.Center, 1e-12) || !approxEqual(a.SideM, b.SideM, 1e-12) {
			t.Errorf("building %d differs between seeded runs", i)
		}
	}
	if first.RunID == second.RunID {
		t.Error("run ids must be unique per run")
	}
}

func TestRunInvalidBoundary(t *testing.T) {
	def := gridDefinition(1)
	def.Site.Boundary = def.Site.Boundary[:2]

	result, report, err := Run(def, Options{})
	if !errors.Is(err, site.ErrInvalidBoundary) {
		t.Fatalf("expected ErrInvalidBoundary, got %v", err)
	}
	if result != nil {
		t.Error("expected no result for an invalid boundary")
	}
	if report == nil || report.Valid {
		t.Error("expected an invalid report")
	}
}

func TestRunUnknownStrategy(t *testing.T) {
	def := gridDefinition(1)
	def.Subdivision.Strategy = "spiral"

	if _, _, err := Run(def, Options{}); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}
