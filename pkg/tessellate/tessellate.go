// Package tessellate turns level geometry into triangle meshes using a
// geometry kernel. Each building becomes one wall mesh and each convex hull
// one solid mesh, all in Y-up world units.
package tessellate

import (
	"fmt"

	"github.com/chazu/tfbe/pkg/building"
	"github.com/chazu/tfbe/pkg/hull"
	"github.com/chazu/tfbe/pkg/kernel"
)

// Options sets wall dimensions in grid units and the grid scale.
type Options struct {
	WallThickness float64
	WallHeight    float64
	VoxelSize     float64
	// Floor adds a slab of wall thickness under each building.
	Floor bool
}

// DefaultOptions matches the editor's default building parameters.
func DefaultOptions() Options {
	return Options{
		WallThickness: building.DefaultParams().WallThickness,
		WallHeight:    3,
		VoxelSize:     128,
	}
}

// Level tessellates every building and hull. The tessellator is read-only
// and never mutates its inputs.
func Level(k kernel.Kernel, buildings []*building.Building, hulls []*hull.ConvexHull, opts Options) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for i, b := range buildings {
		m, err := Building(k, b, opts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: building %d: %w", i, err)
		}
		meshes = append(meshes, m)
	}
	for i, h := range hulls {
		m, err := Hull(k, h, opts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: hull %d: %w", i, err)
		}
		m.Name = fmt.Sprintf("hull-%d", i)
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// Building builds the walls around an outline: the outline grown by half
// the wall thickness minus the outline shrunk by the same amount. The
// inner prism overshoots both ends so the room is open.
func Building(k kernel.Kernel, b *building.Building, opts Options) (*kernel.Mesh, error) {
	half := opts.WallThickness / 2
	height := opts.WallHeight

	// Grid (x, z) maps to profile (x, -z) so that rotating the +Z
	// extrusion to +Y lands the footprint back on (x, z).
	points := b.Points()
	profile := make([][2]float64, len(points))
	for i, p := range points {
		profile[i] = [2]float64{float64(p.X), -float64(p.Y)}
	}

	outer, err := k.Extrude(profile, half, height)
	if err != nil {
		return nil, err
	}
	inner, err := k.Extrude(profile, -half, height+2)
	if err != nil {
		return nil, err
	}
	solid := k.Difference(outer, k.Translate(inner, 0, 0, -1))

	if opts.Floor {
		floor, err := k.Extrude(profile, half, opts.WallThickness)
		if err != nil {
			return nil, err
		}
		solid = k.Union(solid, k.Translate(floor, 0, 0, -opts.WallThickness))
	}

	solid = k.Rotate(solid, -90, 0, 0)
	solid = k.Translate(solid, 0, float64(b.FloorY()), 0)
	if opts.VoxelSize != 1 {
		solid = k.Scale(solid, opts.VoxelSize)
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for building %s: %w", b.ID(), err)
	}
	mesh.Name = "building-" + b.ID().String()
	return mesh, nil
}

// Hull meshes a convex hull given in grid units.
func Hull(k kernel.Kernel, h *hull.ConvexHull, opts Options) (*kernel.Mesh, error) {
	solid, err := k.Implicit(h)
	if err != nil {
		return nil, err
	}
	if opts.VoxelSize != 1 {
		solid = k.Scale(solid, opts.VoxelSize)
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for hull: %w", err)
	}
	return mesh, nil
}
