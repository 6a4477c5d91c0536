// Package clipper defines the polygon-boolean kernel contract used by
// subdivision, road footprinting, and building placement, together with
// a default in-process implementation.
//
// The planner only requires that a kernel with this contract exists; a
// host CAD environment may substitute its own solid-modelling kernel
// (extrude to a thin solid, intersect, flatten back) behind the same
// interface.
package clipper

import (
	"github.com/bartekjanek/siteplanner/pkg/geo"
)

// MinArea is the threshold below which a boolean result is considered
// degenerate and discarded.
const MinArea = 1e-6

// Clipper is the boolean-operation contract. Degenerate or empty
// results are reported as an empty slice (Intersect) or nil (Union),
// never as errors.
type Clipper interface {
	// Intersect returns the intersection of a and b as zero or more
	// simple loops. A convex operand clipped against a non-convex one
	// may split into several disjoint loops; each is returned
	// separately.
	Intersect(a, b geo.Polygon) []geo.Polygon

	// Union returns the union of a and b, or nil when they do not
	// overlap. No guarantee is made about output topology beyond
	// "simple loop, area >= 0".
	Union(a, b geo.Polygon) *geo.Polygon
}

// Kernel is the default clipper built on half-plane clipping.
// Intersect requires at least one convex operand; every clip shape the
// planner produces (grid cell, Voronoi cell, road rectangle, building
// square) is convex, and the kernel picks the convex operand as the
// clip shape automatically.
type Kernel struct{}

// New returns the default kernel.
func New() *Kernel {
	return &Kernel{}
}

// Intersect computes a ∩ b via successive half-plane clips against the
// convex operand, then splits the result at repeated vertices so that
// disjoint pieces come back as separate loops.
func (k *Kernel) Intersect(a, b geo.Polygon) []geo.Polygon {
	if a.IsEmpty() || b.IsEmpty() {
		return nil
	}
	subject, clip := a, b
	if !isConvex(clip) && isConvex(subject) {
		subject, clip = clip, subject
	}
	clip = clip.EnsureCCW()

	out := subject
	n := len(clip.Vertices)
	for i := 0; i < n && !out.IsEmpty(); i++ {
		e := clip.Edge(i)
		out = geo.ClipToHalfPlane(out, e.Start, e.End)
	}
	if out.IsEmpty() {
		return nil
	}

	var loops []geo.Polygon
	for _, loop := range splitAtRepeatedVertices(out) {
		if loop.Area() > MinArea {
			loops = append(loops, loop)
		}
	}
	return loops
}

// isConvex reports whether the polygon is convex (consistent turn
// direction at every vertex).
func isConvex(p geo.Polygon) bool {
	n := len(p.Vertices)
	if n < 4 {
		return n == 3
	}
	sign := 0.0
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		c := p.Vertices[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		if cross > 1e-9 {
			if sign < 0 {
				return false
			}
			sign = 1
		} else if cross < -1e-9 {
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return true
}

// splitAtRepeatedVertices splits a loop that revisits a vertex into the
// separate sub-loops on either side of the revisit. Half-plane clipping
// of a non-convex subject joins disjoint pieces through bridge edges
// running along the clip boundary; insertTouchPoints first turns those
// collinear bridges into explicit repeated vertices.
func splitAtRepeatedVertices(p geo.Polygon) []geo.Polygon {
	const tol = 1e-9
	p = insertTouchPoints(p, tol)
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !p.Vertices[i].Equals(p.Vertices[j], tol) {
				continue
			}
			first := geo.Polygon{Vertices: append([]geo.Point2D{}, p.Vertices[i:j]...)}
			rest := geo.Polygon{Vertices: append(append([]geo.Point2D{}, p.Vertices[j:]...), p.Vertices[:i]...)}
			var out []geo.Polygon
			if !first.IsEmpty() {
				out = append(out, splitAtRepeatedVertices(first)...)
			}
			if !rest.IsEmpty() {
				out = append(out, splitAtRepeatedVertices(rest)...)
			}
			return out
		}
	}
	return []geo.Polygon{p}
}

// insertTouchPoints splits any edge that passes through a non-adjacent
// vertex of the same loop, so the vertex appears on both sides of the
// touch and the repeated-vertex split can separate the loops.
func insertTouchPoints(p geo.Polygon, tol float64) geo.Polygon {
	for changed := true; changed; {
		changed = false
		n := len(p.Vertices)
		for i := 0; i < n && !changed; i++ {
			v := p.Vertices[i]
			for j := 0; j < n; j++ {
				// Skip the edges incident to v.
				if j == i || (j+1)%n == i {
					continue
				}
				e := p.Edge(j)
				if v.Equals(e.Start, tol) || v.Equals(e.End, tol) {
					continue
				}
				if e.DistanceTo(v) > tol {
					continue
				}
				verts := make([]geo.Point2D, 0, n+1)
				verts = append(verts, p.Vertices[:j+1]...)
				verts = append(verts, v)
				verts = append(verts, p.Vertices[j+1:]...)
				p = geo.Polygon{Vertices: verts}
				changed = true
				break
			}
		}
	}
	return p
}
