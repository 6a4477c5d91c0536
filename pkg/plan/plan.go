// Package plan runs the three-stage planning pipeline: parcel
// subdivision, road network synthesis, and clearance-constrained
// building placement, strictly in that order. Placement depends on the
// complete road network and network generation depends on the complete
// parcel set; nothing here runs out of order.
package plan

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/bartekjanek/siteplanner/pkg/clipper"
	"github.com/bartekjanek/siteplanner/pkg/placement"
	"github.com/bartekjanek/siteplanner/pkg/roads"
	"github.com/bartekjanek/siteplanner/pkg/site"
	"github.com/bartekjanek/siteplanner/pkg/subdivide"
	"github.com/bartekjanek/siteplanner/pkg/validation"
)

// Options overrides pipeline collaborators, mainly for tests.
type Options struct {
	// Clip substitutes the polygon-boolean kernel; nil selects the
	// default in-process kernel.
	Clip clipper.Clipper
	// Rand substitutes the random source; nil derives one from the
	// site definition's seed, or the wall clock when no seed is set.
	Rand *rand.Rand
}

// Result is the complete output of one planning run. Every shape is an
// independent renderable handed to the host; there are no
// cross-references the host must resolve.
type Result struct {
	RunID       string                `json:"run_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	SiteName    string                `json:"site_name"`
	Strategy    string                `json:"strategy"`
	Parcels     []subdivide.Parcel    `json:"parcels"`
	Network     *roads.Network        `json:"network"`
	Footprints  []roads.Footprint     `json:"road_footprints"`
	Buildings   []placement.Placement `json:"buildings"`
	// Skipped lists parcels that could not host a building.
	Skipped []string `json:"skipped_parcels,omitempty"`
}

// Run executes the full pipeline for one site definition. Input
// problems are fatal; per-parcel placement failures and degenerate
// clips are recovered locally so the run plans as many parcels as it
// can.
func Run(def *site.Definition, opts Options) (*Result, *validation.Report, error) {
	def.ApplyDefaults()

	report := def.Validate()
	if !report.Valid {
		return nil, report, site.ErrInvalidBoundary
	}

	clip := opts.Clip
	if clip == nil {
		clip = clipper.New()
	}
	rng := opts.Rand
	if rng == nil {
		seed := time.Now().UnixNano()
		if def.Subdivision.Seed != nil {
			seed = *def.Subdivision.Seed
		}
		rng = rand.New(rand.NewSource(seed))
	}

	boundary := def.Site.BoundaryPolygon()
	target := subdivide.AreaRange{Min: def.Subdivision.TargetAreaMin, Max: def.Subdivision.TargetAreaMax}

	strategy, err := subdivide.ForName(def.Subdivision.Strategy, clip, rng)
	if err != nil {
		report.AddError(validation.Result{Level: validation.LevelInput, Message: err.Error()})
		return nil, report, err
	}

	parcels, subReport, err := strategy.Subdivide(boundary, target)
	report.Merge(subReport)
	if err != nil {
		return nil, report, fmt.Errorf("subdividing site: %w", err)
	}

	network, footprints, roadReport := roads.Build(def.Site.Entry, parcels, boundary, clip, roads.Options{
		WidthM: def.Roads.WidthM,
	})
	report.Merge(roadReport)

	centerlines := network.Centerlines()
	placeOpts := placement.Options{
		AreaMinM2:  def.Buildings.AreaMinM2,
		AreaMaxM2:  def.Buildings.AreaMaxM2,
		ClearanceM: def.Buildings.ClearanceM,
	}

	var buildings []placement.Placement
	var skipped []string
	for _, parcel := range parcels {
		placed, err := placement.Place(parcel, centerlines, clip, rng, placeOpts)
		if errors.Is(err, placement.ErrInfeasible) {
			skipped = append(skipped, parcel.ID)
			report.AddWarning(validation.Result{
				Level:   validation.LevelPlacement,
				Message: fmt.Sprintf("parcel %s: no clearance-valid building position", parcel.ID),
				Field:   parcel.ID,
			})
			continue
		}
		if placed == nil {
			// Degenerate footprint clip; skip silently.
			continue
		}
		buildings = append(buildings, *placed)
	}

	report.AddInfo(validation.Result{
		Level: validation.LevelPlacement,
		Message: fmt.Sprintf("placed %d buildings across %d parcels (%d infeasible)",
			len(buildings), len(parcels), len(skipped)),
	})

	return &Result{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		SiteName:    def.Site.Name,
		Strategy:    strategy.Name(),
		Parcels:     parcels,
		Network:     network,
		Footprints:  footprints,
		Buildings:   buildings,
		Skipped:     skipped,
	}, report, nil
}
