package geom

import "github.com/go-gl/mathgl/mgl32"

// Segment is an ordered pair of points. Intersection tests treat it as
// undirected; projection uses A as the origin of the parameter.
type Segment struct {
	A, B mgl32.Vec2
}

// Seg builds a segment from two grid points.
func Seg(a, b IVec2) Segment {
	return Segment{A: a.Vec2(), B: b.Vec2()}
}

func cross2(a, b mgl32.Vec2) float32 {
	return a[0]*b[1] - a[1]*b[0]
}

// segmentParam returns the interpolation parameter of p's foot on the line
// through s. Callers must not pass a zero-length segment.
func segmentParam(p mgl32.Vec2, s Segment) float32 {
	d := s.B.Sub(s.A)
	return p.Sub(s.A).Dot(d) / d.Dot(d)
}

// ProjectOntoSegment returns the orthogonal projection of p onto the
// infinite line through s. The foot is not clamped to the segment.
func ProjectOntoSegment(p mgl32.Vec2, s Segment) mgl32.Vec2 {
	t := segmentParam(p, s)
	return s.A.Add(s.B.Sub(s.A).Mul(t))
}

// ClosestPointOnSegment returns the point of s nearest to p.
func ClosestPointOnSegment(p mgl32.Vec2, s Segment) mgl32.Vec2 {
	t := mgl32.Clamp(segmentParam(p, s), 0, 1)
	return s.A.Add(s.B.Sub(s.A).Mul(t))
}

// SegmentsCross reports whether two segments intersect. Parallel and
// collinear segments never cross, even when they overlap. Touching at an
// endpoint counts as crossing, so callers that allow shared vertices must
// exclude them before calling.
func SegmentsCross(a, b Segment) bool {
	r := a.B.Sub(a.A)
	s := b.B.Sub(b.A)
	denom := cross2(r, s)
	if denom == 0 {
		return false
	}
	qp := b.A.Sub(a.A)
	t := cross2(qp, s) / denom
	u := cross2(qp, r) / denom
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}
