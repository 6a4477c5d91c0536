package geo

// SegmentTolerance is the default tolerance for segment endpoint equality.
const SegmentTolerance = 1e-3

// Segment is an ordered pair of endpoints, used for road centerlines
// and polygon boundary edges.
type Segment struct {
	Start Point2D `json:"start"`
	End   Point2D `json:"end"`
}

// Seg is a shorthand constructor for Segment.
func Seg(start, end Point2D) Segment {
	return Segment{Start: start, End: end}
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Direction returns the unit vector from Start to End.
func (s Segment) Direction() Point2D {
	return s.End.Sub(s.Start).Normalize()
}

// Midpoint returns the segment midpoint.
func (s Segment) Midpoint() Point2D {
	return MidPoint(s.Start, s.End)
}

// EqualWithin reports whether s and o have matching endpoints within tol,
// in either orientation.
func (s Segment) EqualWithin(o Segment, tol float64) bool {
	if s.Start.Equals(o.Start, tol) && s.End.Equals(o.End, tol) {
		return true
	}
	return s.Start.Equals(o.End, tol) && s.End.Equals(o.Start, tol)
}

// Project returns the parameter t of the orthogonal projection of pt
// onto the segment's supporting line, clamped to [0,1].
func (s Segment) Project(pt Point2D) float64 {
	d := s.End.Sub(s.Start)
	lenSq := d.Dot(d)
	if lenSq < 1e-12 {
		return 0
	}
	t := pt.Sub(s.Start).Dot(d) / lenSq
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// ClosestPoint returns the point on the segment closest to pt.
func (s Segment) ClosestPoint(pt Point2D) Point2D {
	return s.Start.Lerp(s.End, s.Project(pt))
}

// DistanceTo returns the minimum distance from pt to the segment.
func (s Segment) DistanceTo(pt Point2D) float64 {
	return s.ClosestPoint(pt).Distance(pt)
}
