// Package hull represents convex solids as intersections of half-spaces.
//
// A CuttingPlane keeps everything on the side its normal points away from.
// A ConvexHull is a set of planes; a point is inside when its signed
// distance to every plane is non-positive. Vertex enumeration is the naive
// triple-intersection algorithm, which is fine for the small plane counts
// the editor produces.
package hull

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance for every degeneracy and on-plane test.
const Epsilon float32 = 0.0001

// CuttingPlane is a plane through Point with an outward unit Normal.
type CuttingPlane struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
}

// InfiniteLine is a bidirectional line through Point.
type InfiniteLine struct {
	Point     mgl32.Vec3
	Direction mgl32.Vec3
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Planes and points are stored in float32; every solve runs in float64 and
// rounds once at the end.
func vec64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Flipped returns the plane with its normal reversed.
func (p CuttingPlane) Flipped() CuttingPlane {
	return CuttingPlane{Point: p.Point, Normal: p.Normal.Mul(-1)}
}

// SignedDistance is positive on the exterior side of the plane.
func (p CuttingPlane) SignedDistance(point mgl32.Vec3) float32 {
	return float32(p.distance64(vec64(point)))
}

func (p CuttingPlane) distance64(point mgl64.Vec3) float64 {
	return point.Sub(vec64(p.Point)).Dot(vec64(p.Normal))
}

// FromTriangle returns the plane through three points. It reports false
// when an edge from the first point is shorter than Epsilon or the points
// are collinear.
func FromTriangle(points [3]mgl32.Vec3) (CuttingPlane, bool) {
	eps := float64(Epsilon)
	d1 := vec64(points[1]).Sub(vec64(points[0]))
	d2 := vec64(points[2]).Sub(vec64(points[0]))
	if d1.Len() < eps || d2.Len() < eps {
		return CuttingPlane{}, false
	}
	normal := d1.Normalize().Cross(d2.Normalize())
	if normal.Len() < eps {
		return CuttingPlane{}, false
	}
	return CuttingPlane{Point: points[0], Normal: vec32(normal.Normalize())}, true
}

type line64 struct {
	point, dir mgl64.Vec3
}

// IntersectPlane returns the line shared by two planes, or false when they
// are parallel or coincide.
//
// The line's point is a*N1 + b*N2 for the a, b that put it on both planes,
// which has the closed form ((N2·P2)N1 - (N1·P1)N2) × -(N1×N2) / |N1×N2|².
// A result that does not lie on both planes is an arithmetic bug and panics.
func (p CuttingPlane) IntersectPlane(other CuttingPlane) (InfiniteLine, bool) {
	line, ok := p.intersectPlane64(other)
	if !ok {
		return InfiniteLine{}, false
	}
	return InfiniteLine{Point: vec32(line.point), Direction: vec32(line.dir)}, true
}

func (p CuttingPlane) intersectPlane64(other CuttingPlane) (line64, bool) {
	eps := float64(Epsilon)
	n1, n2 := vec64(p.Normal), vec64(other.Normal)
	perp := n1.Cross(n2)
	if perp.Len() < eps {
		return line64{}, false
	}

	lenSq := perp.Dot(perp)
	point := n1.Mul(n2.Dot(vec64(other.Point))).
		Sub(n2.Mul(n1.Dot(vec64(p.Point)))).
		Cross(perp.Mul(-1)).
		Mul(1 / lenSq)

	if d := abs64(p.distance64(point)); d > eps {
		panic(fmt.Sprintf("hull: plane intersection %v is %g off the first plane", point, d))
	}
	if d := abs64(other.distance64(point)); d > eps {
		panic(fmt.Sprintf("hull: plane intersection %v is %g off the second plane", point, d))
	}

	return line64{point: point, dir: perp.Normalize()}, true
}

// IntersectLine returns where line meets the plane, or false when the line
// is parallel to it.
func (p CuttingPlane) IntersectLine(line InfiniteLine) (mgl32.Vec3, bool) {
	point, ok := p.intersectLine64(line64{point: vec64(line.Point), dir: vec64(line.Direction)})
	if !ok {
		return mgl32.Vec3{}, false
	}
	return vec32(point), true
}

func (p CuttingPlane) intersectLine64(line line64) (mgl64.Vec3, bool) {
	eps := float64(Epsilon)
	n, p1 := vec64(p.Normal), vec64(p.Point)
	denom := n.Dot(line.dir)
	if abs64(denom) < eps {
		return mgl64.Vec3{}, false
	}

	// (P + tD - P1)·N1 = 0  =>  t = (P1·N1 - P·N1) / D·N1
	t := (p1.Dot(n) - line.point.Dot(n)) / denom
	point := line.point.Add(line.dir.Mul(t))

	if d := abs64(p.distance64(point)); d >= eps {
		panic(fmt.Sprintf("hull: line intersection %v is %g off the plane", point, d))
	}
	return point, true
}
