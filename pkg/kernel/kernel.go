// Package kernel defines the solid modeling interface the editor turns
// building outlines and convex hulls into meshes with. The sdfx
// subpackage provides the implementation.
package kernel

import "github.com/go-gl/mathgl/mgl32"

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Volume is an implicit solid: negative signed distance inside, positive
// outside. Bounds reports false for a volume with no extent.
// *hull.ConvexHull satisfies it.
type Volume interface {
	SignedDistance(p mgl32.Vec3) float32
	Bounds() (lo, hi mgl32.Vec3, ok bool)
}

// Kernel builds solids and meshes them.
type Kernel interface {
	// Extrude grows or shrinks a closed 2D outline by offset (positive is
	// outward) and extrudes it along +Z from z = 0 to z = height.
	Extrude(outline [][2]float64, offset, height float64) (Solid, error)
	// Implicit wraps a signed distance volume.
	Implicit(v Volume) (Solid, error)

	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Scale(s Solid, k float64) Solid

	ToMesh(s Solid) (*Mesh, error)
}
