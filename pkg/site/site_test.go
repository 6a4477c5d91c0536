package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bartekjanek/siteplanner/pkg/geo"
)

func validDefinition() *Definition {
	return &Definition{
		SpecVersion: "1",
		Site: SiteDef{
			Name: "riverside",
			Boundary: []geo.Point2D{
				geo.Pt(0, 0), geo.Pt(100, 0), geo.Pt(100, 100), geo.Pt(0, 100),
			},
			Entry: geo.Pt(0, 50),
		},
		Subdivision: SubdivisionDef{
			Strategy:      "grid",
			TargetAreaMin: 2400,
			TargetAreaMax: 2600,
		},
	}
}

func TestValidateAcceptsValidDefinition(t *testing.T) {
	report := validDefinition().Validate()
	if !report.Valid {
		t.Fatalf("expected valid report, errors: %v", report.Errors)
	}
}

func TestValidateRejectsTooFewVertices(t *testing.T) {
	def := validDefinition()
	def.Site.Boundary = def.Site.Boundary[:2]
	report := def.Validate()
	if report.Valid {
		t.Fatal("expected invalid report for a 2-vertex boundary")
	}
}

func TestValidateRejectsZeroArea(t *testing.T) {
	def := validDefinition()
	def.Site.Boundary = []geo.Point2D{geo.Pt(0, 0), geo.Pt(50, 0), geo.Pt(100, 0)}
	report := def.Validate()
	if report.Valid {
		t.Fatal("expected invalid report for a collinear boundary")
	}
}

func TestValidateRejectsSelfIntersection(t *testing.T) {
	def := validDefinition()
	// Bowtie: edges (0,0)-(10,10) and (10,0)-(0,10) cross.
	def.Site.Boundary = []geo.Point2D{
		geo.Pt(0, 0), geo.Pt(10, 10), geo.Pt(10, 0), geo.Pt(0, 10),
	}
	report := def.Validate()
	if report.Valid {
		t.Fatal("expected invalid report for a self-intersecting boundary")
	}
}

func TestValidateRejectsCoincidentVertices(t *testing.T) {
	def := validDefinition()
	def.Site.Boundary = []geo.Point2D{
		geo.Pt(0, 0), geo.Pt(0, 0), geo.Pt(100, 0), geo.Pt(100, 100), geo.Pt(0, 100),
	}
	report := def.Validate()
	if report.Valid {
		t.Fatal("expected invalid report for coincident consecutive vertices")
	}
}

func TestValidateRejectsInvertedAreaRange(t *testing.T) {
	def := validDefinition()
	def.Subdivision.TargetAreaMin = 2600
	def.Subdivision.TargetAreaMax = 2400
	report := def.Validate()
	if report.Valid {
		t.Fatal("expected invalid report for an inverted target range")
	}
}

func TestValidateRejectsNonPositiveAreaRange(t *testing.T) {
	def := validDefinition()
	def.Subdivision.TargetAreaMin = 0
	def.Subdivision.TargetAreaMax = -5
	report := def.Validate()
	if report.Valid {
		t.Fatal("expected invalid report for a non-positive target range")
	}
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	def := validDefinition()
	def.Subdivision.Strategy = "spiral"
	report := def.Validate()
	if report.Valid {
		t.Fatal("expected invalid report for unknown strategy")
	}
}

func TestApplyDefaults(t *testing.T) {
	def := &Definition{}
	def.ApplyDefaults()
	if def.Subdivision.Strategy != DefaultStrategy {
		t.Errorf("strategy %q, expected %q", def.Subdivision.Strategy, DefaultStrategy)
	}
	if def.Roads.WidthM != DefaultRoadWidthM {
		t.Errorf("road width %f, expected %f", def.Roads.WidthM, DefaultRoadWidthM)
	}
	if def.Buildings.AreaMinM2 != DefaultAreaMinM2 || def.Buildings.AreaMaxM2 != DefaultAreaMaxM2 {
		t.Errorf("building area range [%f,%f], expected defaults",
			def.Buildings.AreaMinM2, def.Buildings.AreaMaxM2)
	}
	if def.Buildings.ClearanceM != DefaultClearanceM {
		t.Errorf("clearance %f, expected %f", def.Buildings.ClearanceM, DefaultClearanceM)
	}
}

const sampleYAML = `spec_version: "1"
site:
  name: riverside
  boundary:
    - {x: 0, y: 0}
    - {x: 100, y: 0}
    - {x: 100, y: 100}
    - {x: 0, y: 100}
  entry: {x: 0, y: 50}
subdivision:
  strategy: voronoi
  target_area_min: 900
  target_area_max: 1100
  seed: 42
roads:
  width_m: 8
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	def, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Site.Name != "riverside" {
		t.Errorf("site name %q", def.Site.Name)
	}
	if len(def.Site.Boundary) != 4 {
		t.Errorf("boundary has %d vertices, expected 4", len(def.Site.Boundary))
	}
	if def.Subdivision.Strategy != "voronoi" {
		t.Errorf("strategy %q, expected voronoi", def.Subdivision.Strategy)
	}
	if def.Subdivision.Seed == nil || *def.Subdivision.Seed != 42 {
		t.Error("expected seed 42")
	}
	if def.Roads.WidthM != 8 {
		t.Errorf("road width %f, expected explicit 8", def.Roads.WidthM)
	}
	// Unset fields get defaults on load.
	if def.Buildings.ClearanceM != DefaultClearanceM {
		t.Errorf("clearance %f, expected default", def.Buildings.ClearanceM)
	}
}

func TestLoadProjectMissingFile(t *testing.T) {
	if _, err := LoadProject(t.TempDir()); err == nil {
		t.Fatal("expected error for missing site.yaml")
	}
}
