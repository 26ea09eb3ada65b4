package voxel

import (
	"github.com/chazu/tfbe/pkg/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// Handle is an opaque reference to a visual owned by the renderer. The
// world stores and forwards handles but never interprets them.
type Handle uint64

// Renderer is the rendering collaborator. SpawnVoxel draws a cell at a world
// position and returns its handle; Despawn removes a visual. A handle may
// already be gone by the time Despawn is called.
type Renderer interface {
	SpawnVoxel(coord geom.IVec3, position mgl32.Vec3, material Material) Handle
	Despawn(h Handle)
}

// NopRenderer draws nothing. Useful for headless worlds.
type NopRenderer struct{}

func (NopRenderer) SpawnVoxel(geom.IVec3, mgl32.Vec3, Material) Handle { return 0 }
func (NopRenderer) Despawn(Handle)                                   {}
