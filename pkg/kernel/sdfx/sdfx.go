// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/tfbe/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl32"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 64

// ErrUnbounded is returned for a volume that reports no extent.
var ErrUnbounded = errors.New("sdfx: volume has no bounds")

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// volume adapts a kernel.Volume to sdf.SDF3.
type volume struct {
	v  kernel.Volume
	bb sdf.Box3
}

func (v *volume) Evaluate(p v3.Vec) float64 {
	return float64(v.v.SignedDistance(mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}))
}

func (v *volume) BoundingBox() sdf.Box3 { return v.bb }

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a kernel that meshes with the given marching cubes
// resolution along the longest axis. Non-positive cells selects
// DefaultMeshCells.
func New(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// MeshCells returns the marching cubes resolution.
func (k *SdfxKernel) MeshCells() int { return k.cells }

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Extrude offsets a closed outline and extrudes it upward from z = 0.
// sdf.Extrude3D centers the prism on the origin, so it is lifted by half
// the height.
func (k *SdfxKernel) Extrude(outline [][2]float64, offset, height float64) (kernel.Solid, error) {
	if len(outline) < 3 {
		return nil, fmt.Errorf("sdfx: outline needs 3 points, got %d", len(outline))
	}
	if height <= 0 {
		return nil, fmt.Errorf("sdfx: extrude height %g must be positive", height)
	}
	vertices := make([]v2.Vec, len(outline))
	for i, p := range outline {
		vertices[i] = v2.Vec{X: p[0], Y: p[1]}
	}
	profile, err := sdf.Polygon2D(vertices)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	if offset != 0 {
		profile = sdf.Offset2D(profile, offset)
	}
	prism := sdf.Extrude3D(profile, height)
	return wrap(sdf.Transform3D(prism, sdf.Translate3d(v3.Vec{Z: height / 2}))), nil
}

// Implicit wraps a signed distance volume. Its box is padded a little so
// the surface never lies exactly on the meshing boundary.
func (k *SdfxKernel) Implicit(v kernel.Volume) (kernel.Solid, error) {
	lo, hi, ok := v.Bounds()
	if !ok {
		return nil, ErrUnbounded
	}
	bb := sdf.Box3{
		Min: v3.Vec{X: float64(lo[0]), Y: float64(lo[1]), Z: float64(lo[2])},
		Max: v3.Vec{X: float64(hi[0]), Y: float64(hi[1]), Z: float64(hi[2])},
	}
	pad := 0.01 * bb.Size().MaxComponent()
	if pad == 0 {
		return nil, ErrUnbounded
	}
	bb.Min = bb.Min.SubScalar(pad)
	bb.Max = bb.Max.AddScalar(pad)
	return wrap(&volume{v: v, bb: bb}), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Scale scales a solid uniformly about the origin.
func (k *SdfxKernel) Scale(s kernel.Solid, factor float64) kernel.Solid {
	return wrap(sdf.ScaleUniform3D(unwrap(s), factor))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
