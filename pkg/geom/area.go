package geom

import "github.com/go-gl/mathgl/mgl32"

// Point2 is satisfied by the two point types outlines are stored in.
type Point2 interface {
	IVec2 | mgl32.Vec2
}

func coords[P Point2](p P) (float32, float32) {
	switch v := any(p).(type) {
	case IVec2:
		return float32(v.X), float32(v.Y)
	case mgl32.Vec2:
		return v[0], v[1]
	}
	panic("unreachable")
}

// SignedPolygonArea computes the shoelace area of the closed loop through
// points. It is positive for counter-clockwise loops and 0 for fewer than
// three points.
func SignedPolygonArea[P Point2](points []P) float32 {
	if len(points) <= 2 {
		return 0
	}
	var sum float32
	for i := range points {
		j := (i + 1) % len(points)
		xi, yi := coords(points[i])
		xj, yj := coords(points[j])
		sum += (yi + yj) * (xi - xj)
	}
	return sum * 0.5
}
