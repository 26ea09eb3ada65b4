package hull

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// ConvexHull is the intersection of the interior half-spaces of Planes.
type ConvexHull struct {
	Planes []CuttingPlane
}

// SignedDistance is the largest signed distance to any plane: negative in
// the interior, positive outside, zero on a face or edge.
func (h *ConvexHull) SignedDistance(point mgl32.Vec3) float32 {
	return float32(h.distance64(vec64(point)))
}

func (h *ConvexHull) distance64(point mgl64.Vec3) float64 {
	dist := math.Inf(-1)
	for _, plane := range h.Planes {
		dist = max(dist, plane.distance64(point))
	}
	return dist
}

// Contains reports whether point is inside or on the boundary.
func (h *ConvexHull) Contains(point mgl32.Vec3) bool {
	return h.SignedDistance(point) <= Epsilon
}

// Vertices intersects every triple of planes and keeps the points that lie
// on the hull. A vertex where more than three planes meet is reported once
// per triple.
func (h *ConvexHull) Vertices() []mgl32.Vec3 {
	var vertices []mgl32.Vec3
	for i, p1 := range h.Planes {
		// j starts at 1 so there is always a third plane to meet the line.
		for j := 1; j < i; j++ {
			line, ok := p1.intersectPlane64(h.Planes[j])
			if !ok {
				continue
			}
			for k := 0; k < j; k++ {
				point, ok := h.Planes[k].intersectLine64(line)
				if !ok {
					continue
				}
				if abs64(h.distance64(point)) < float64(Epsilon) {
					vertices = append(vertices, vec32(point))
				}
			}
		}
	}
	return vertices
}

// Bounds returns the axis-aligned box around the hull's vertices. It
// reports false for a hull with no vertices.
func (h *ConvexHull) Bounds() (lo, hi mgl32.Vec3, ok bool) {
	vertices := h.Vertices()
	if len(vertices) == 0 {
		return lo, hi, false
	}
	lo, hi = vertices[0], vertices[0]
	for _, v := range vertices[1:] {
		for axis := 0; axis < 3; axis++ {
			lo[axis] = min(lo[axis], v[axis])
			hi[axis] = max(hi[axis], v[axis])
		}
	}
	return lo, hi, true
}

// Simplify drops planes touching fewer than three vertices. It returns
// nil, false when three or fewer planes remain, since those cannot bound a
// volume.
func (h *ConvexHull) Simplify() (*ConvexHull, bool) {
	vertices := h.Vertices()

	kept := make([]CuttingPlane, 0, len(h.Planes))
	for _, plane := range h.Planes {
		touching := 0
		for _, v := range vertices {
			if abs32(plane.SignedDistance(v)) <= Epsilon {
				touching++
			}
		}
		if touching >= 3 {
			kept = append(kept, plane)
		}
	}

	if len(kept) <= 3 {
		return nil, false
	}
	return &ConvexHull{Planes: kept}, true
}

// FromPoints builds the convex hull of a point cloud. Candidate planes come
// from every triple of points; a candidate is dropped if all points lie on
// it or points lie on both sides, and flipped if the points lie on its
// outer side. It reports false for clouds that do not enclose a volume.
func FromPoints(points []mgl32.Vec3) (*ConvexHull, bool) {
	var planes []CuttingPlane
	for ai, a := range points {
		for bi := 0; bi < ai; bi++ {
			for ci := 0; ci < bi; ci++ {
				plane, ok := FromTriangle([3]mgl32.Vec3{a, points[bi], points[ci]})
				if !ok {
					continue
				}
				if plane, ok = supporting(plane, points); ok {
					planes = append(planes, plane)
				}
			}
		}
	}
	return (&ConvexHull{Planes: planes}).Simplify()
}

// supporting orients plane so every point is on its interior side, or
// reports false when the plane does not support the cloud.
func supporting(plane CuttingPlane, points []mgl32.Vec3) (CuttingPlane, bool) {
	var lo, hi float32
	for _, p := range points {
		d := plane.SignedDistance(p)
		lo = min(lo, d)
		hi = max(hi, d)
	}

	switch {
	case lo >= -Epsilon && hi <= Epsilon:
		// Every point is on the plane.
		return plane, false
	case lo < -Epsilon && hi > Epsilon:
		return plane, false
	case hi > Epsilon:
		return plane.Flipped(), true
	}
	return plane, true
}
