package geo

// VoronoiCell represents one cell in a planar Voronoi diagram.
type VoronoiCell struct {
	SeedIndex int     // index into the original seed slice
	Seed      Point2D // the seed point
	Polygon   Polygon // the cell boundary, clipped to the bounding envelope
}

// Voronoi computes the Voronoi diagram of the given seed points,
// clipped to the given bounding polygon.
//
// Uses half-plane intersection for cell geometry, which is robust for
// the small seed counts produced by parcel subdivision.
func Voronoi(seeds []Point2D, bounds Polygon) []VoronoiCell {
	n := len(seeds)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []VoronoiCell{{
			SeedIndex: 0,
			Seed:      seeds[0],
			Polygon:   bounds,
		}}
	}

	cells := make([]VoronoiCell, n)
	for i := 0; i < n; i++ {
		cells[i] = VoronoiCell{
			SeedIndex: i,
			Seed:      seeds[i],
			Polygon:   voronoiCellByHalfPlanes(i, seeds, bounds),
		}
	}
	return cells
}

// voronoiCellByHalfPlanes computes a Voronoi cell by intersecting half-planes.
// For each other seed, clip the bounds to the half-plane closer to seed[i].
func voronoiCellByHalfPlanes(seedIdx int, seeds []Point2D, bounds Polygon) Polygon {
	cell := bounds
	seed := seeds[seedIdx]
	for j, other := range seeds {
		if j == seedIdx {
			continue
		}
		mid := MidPoint(seed, other)
		dir := other.Sub(seed).Perp()
		cell = ClipToHalfPlane(cell, mid, mid.Add(dir))
		if cell.IsEmpty() {
			break
		}
	}
	return cell
}
