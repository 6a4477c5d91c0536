package clipper

import (
	"math"

	"github.com/bartekjanek/siteplanner/pkg/geo"
)

// Union computes a ∪ b by walking the merged boundary. Returns nil when
// the inputs do not overlap. Shared collinear edges may produce a
// slightly simplified boundary; callers get "simple loop, area >= 0"
// and nothing more.
func (k *Kernel) Union(a, b geo.Polygon) *geo.Polygon {
	if a.IsEmpty() && b.IsEmpty() {
		return nil
	}
	if a.IsEmpty() {
		b := b.EnsureCCW()
		return &b
	}
	if b.IsEmpty() {
		a := a.EnsureCCW()
		return &a
	}
	a = a.EnsureCCW()
	b = b.EnsureCCW()

	if len(k.Intersect(a, b)) == 0 {
		return nil
	}
	if containsAllVertices(a, b) {
		return &a
	}
	if containsAllVertices(b, a) {
		return &b
	}

	ra := augmentRing(a, b)
	rb := augmentRing(b, a)
	if poly := walkUnion(ra, rb, a, b); poly != nil {
		return poly
	}
	// Walk degenerated (typically collinear shared edges); fall back to
	// the larger operand.
	if a.Area() >= b.Area() {
		return &a
	}
	return &b
}

// containsAllVertices reports whether every vertex of inner lies inside
// or on outer.
func containsAllVertices(outer, inner geo.Polygon) bool {
	const tol = 1e-9
	for _, v := range inner.Vertices {
		if outer.Contains(v) {
			continue
		}
		onEdge := false
		for _, e := range outer.Edges() {
			if e.DistanceTo(v) <= tol {
				onEdge = true
				break
			}
		}
		if !onEdge {
			return false
		}
	}
	return true
}

// ringVertex is a polygon vertex augmented with boundary crossings.
type ringVertex struct {
	pt    geo.Point2D
	cross bool
}

// augmentRing returns the vertices of a with every proper intersection
// against b's edges inserted in traversal order.
func augmentRing(a, b geo.Polygon) []ringVertex {
	n := len(a.Vertices)
	ring := make([]ringVertex, 0, n*2)
	for i := 0; i < n; i++ {
		edge := a.Edge(i)
		ring = append(ring, ringVertex{pt: edge.Start})

		type hit struct {
			t  float64
			pt geo.Point2D
		}
		var hits []hit
		for _, be := range b.Edges() {
			if pt, t, ok := segmentIntersection(edge, be); ok {
				hits = append(hits, hit{t: t, pt: pt})
			}
		}
		for i := 1; i < len(hits); i++ {
			for j := i; j > 0 && hits[j].t < hits[j-1].t; j-- {
				hits[j], hits[j-1] = hits[j-1], hits[j]
			}
		}
		for _, h := range hits {
			ring = append(ring, ringVertex{pt: h.pt, cross: true})
		}
	}
	return ring
}

// segmentIntersection returns the proper intersection of two segments
// and its parameter along the first segment.
func segmentIntersection(s1, s2 geo.Segment) (geo.Point2D, float64, bool) {
	const eps = 1e-9
	d1 := s1.End.Sub(s1.Start)
	d2 := s2.End.Sub(s2.Start)
	denom := d1.Cross(d2)
	if math.Abs(denom) < eps {
		return geo.Point2D{}, 0, false
	}
	diff := s2.Start.Sub(s1.Start)
	t := diff.Cross(d2) / denom
	u := diff.Cross(d1) / denom
	if t <= eps || t >= 1-eps || u <= eps || u >= 1-eps {
		return geo.Point2D{}, 0, false
	}
	return s1.Start.Add(d1.Scale(t)), t, true
}

// walkUnion traverses the union boundary, switching rings at crossings
// so the walk always stays outside the other polygon.
func walkUnion(ra, rb []ringVertex, a, b geo.Polygon) *geo.Polygon {
	const tol = 1e-9

	start := -1
	for i, v := range ra {
		if !v.cross && !b.Contains(v.pt) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	rings := [2][]ringVertex{ra, rb}
	others := [2]geo.Polygon{b, a}
	cur, idx := 0, start
	startPt := ra[start].pt

	var out []geo.Point2D
	maxSteps := 4 * (len(ra) + len(rb))
	for step := 0; step < maxSteps; step++ {
		v := rings[cur][idx]
		if len(out) > 2 && v.pt.Equals(startPt, tol) {
			return &geo.Polygon{Vertices: out}
		}
		if len(out) == 0 || !out[len(out)-1].Equals(v.pt, tol) {
			out = append(out, v.pt)
		}

		next := (idx + 1) % len(rings[cur])
		if v.cross {
			// At a crossing, continue on whichever ring leaves the
			// interior of the other polygon.
			mid := geo.MidPoint(v.pt, rings[cur][next].pt)
			if others[cur].Contains(mid) {
				other := 1 - cur
				j := findRingVertex(rings[other], v.pt, tol)
				if j < 0 {
					return nil
				}
				cur = other
				idx = (j + 1) % len(rings[cur])
				continue
			}
		}
		idx = next
	}
	return nil
}

func findRingVertex(ring []ringVertex, pt geo.Point2D, tol float64) int {
	for i, v := range ring {
		if v.cross && v.pt.Equals(pt, tol) {
			return i
		}
	}
	return -1
}
