package subdivide

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/bartekjanek/siteplanner/pkg/clipper"
	"github.com/bartekjanek/siteplanner/pkg/geo"
	"github.com/bartekjanek/siteplanner/pkg/validation"
)

// ErrSeedingFailed is returned when seed generation cannot place the
// required number of points inside the boundary, even after falling
// back to centroid-offset jitter. This happens on pathological
// boundaries whose interior is vanishingly small relative to their
// bounding box.
var ErrSeedingFailed = errors.New("voronoi seeding failed")

// Seeding attempt budgets. Rejection sampling gets a generous budget
// per seed before the jitter fallback kicks in; an uncapped sampling
// loop can hang on thin boundaries.
const (
	rejectionAttemptsPerSeed = 1000
	jitterAttemptsPerSeed    = 1000
)

// VoronoiStrategy tessellates the boundary with a Voronoi diagram over
// randomly seeded points.
type VoronoiStrategy struct {
	Clip clipper.Clipper
	// Rand is the random source for seeding. Pass a seeded generator
	// for deterministic output; nil falls back to a fixed-seed source.
	Rand *rand.Rand
}

// Name implements Strategy.
func (v *VoronoiStrategy) Name() string { return "voronoi" }

// Subdivide implements Strategy.
func (v *VoronoiStrategy) Subdivide(boundary geo.Polygon, target AreaRange) ([]Parcel, *validation.Report, error) {
	report := validation.NewReport()
	if v.Clip == nil {
		v.Clip = clipper.New()
	}

	rng := v.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	count := int(math.Round(boundary.Area() / target.Mid()))
	if count < 1 {
		count = 1
	}

	seeds, usedFallback, err := generateSeeds(rng, boundary, count)
	if err != nil {
		report.AddError(validation.Result{
			Level:       validation.LevelSpatial,
			Message:     fmt.Sprintf("could not seed %d points inside boundary", count),
			ActualValue: len(seeds),
		})
		return nil, report, err
	}
	if usedFallback {
		report.AddWarning(validation.Result{
			Level:   validation.LevelSpatial,
			Message: "rejection sampling exhausted its budget; used centroid-jitter fallback seeding",
		})
	}

	bbMin, bbMax := boundary.BoundingBox()
	envelope := geo.NewPolygon(
		geo.Pt(bbMin.X, bbMin.Y),
		geo.Pt(bbMax.X, bbMin.Y),
		geo.Pt(bbMax.X, bbMax.Y),
		geo.Pt(bbMin.X, bbMax.Y),
	)

	var parcels []Parcel
	for _, cell := range geo.Voronoi(seeds, envelope) {
		if cell.Polygon.IsEmpty() {
			continue
		}
		parcels = collectLoops(v.Clip, cell.Polygon, boundary, parcels)
	}

	report.AddInfo(validation.Result{
		Level: validation.LevelSpatial,
		Message: fmt.Sprintf("voronoi subdivision: %d seeds produced %d parcels",
			len(seeds), len(parcels)),
	})
	return parcels, report, nil
}

// generateSeeds places count points strictly inside the boundary.
// Primary scheme: uniform rejection sampling over the bounding box.
// Fallback: jittered offsets around the boundary centroid, shrinking
// toward the centroid as attempts accumulate.
func generateSeeds(rng *rand.Rand, boundary geo.Polygon, count int) ([]geo.Point2D, bool, error) {
	bbMin, bbMax := boundary.BoundingBox()
	width := bbMax.X - bbMin.X
	height := bbMax.Y - bbMin.Y

	seeds := make([]geo.Point2D, 0, count)
	budget := count * rejectionAttemptsPerSeed
	for attempt := 0; attempt < budget && len(seeds) < count; attempt++ {
		pt := geo.Pt(bbMin.X+rng.Float64()*width, bbMin.Y+rng.Float64()*height)
		if boundary.Contains(pt) {
			seeds = append(seeds, pt)
		}
	}
	if len(seeds) == count {
		return seeds, false, nil
	}

	centroid := boundary.Centroid()
	scale := math.Max(width, height) / 2
	budget = count * jitterAttemptsPerSeed
	for attempt := 0; attempt < budget && len(seeds) < count; attempt++ {
		// Shrink the jitter radius as attempts accumulate so points
		// converge on the centroid.
		r := scale * (1 - float64(attempt)/float64(budget))
		pt := centroid.Add(geo.Pt((rng.Float64()*2-1)*r, (rng.Float64()*2-1)*r))
		if boundary.Contains(pt) {
			seeds = append(seeds, pt)
		}
	}
	if len(seeds) < count {
		return seeds, true, ErrSeedingFailed
	}
	return seeds, true, nil
}
