package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// IVec2 is an integer grid point. For building outlines it is the (x, z)
// footprint of a world grid cell.
type IVec2 struct {
	X, Y int
}

// IVec3 is an integer voxel grid coordinate.
type IVec3 struct {
	X, Y, Z int
}

// Unit directions on the voxel grid.
var (
	UnitX    = IVec3{1, 0, 0}
	UnitY    = IVec3{0, 1, 0}
	UnitZ    = IVec3{0, 0, 1}
	NegUnitX = IVec3{-1, 0, 0}
	NegUnitY = IVec3{0, -1, 0}
	NegUnitZ = IVec3{0, 0, -1}
)

// Directions lists the six face directions of a voxel.
var Directions = [6]IVec3{UnitX, UnitY, UnitZ, NegUnitX, NegUnitY, NegUnitZ}

func (a IVec2) Add(b IVec2) IVec2 { return IVec2{a.X + b.X, a.Y + b.Y} }
func (a IVec2) Sub(b IVec2) IVec2 { return IVec2{a.X - b.X, a.Y - b.Y} }

// Vec2 converts the point to float coordinates.
func (a IVec2) Vec2() mgl32.Vec2 { return mgl32.Vec2{float32(a.X), float32(a.Y)} }

func (a IVec2) String() string { return fmt.Sprintf("(%d, %d)", a.X, a.Y) }

func (a IVec3) Add(b IVec3) IVec3 { return IVec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a IVec3) Sub(b IVec3) IVec3 { return IVec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a IVec3) Neg() IVec3        { return IVec3{-a.X, -a.Y, -a.Z} }
func (a IVec3) Scale(s int) IVec3 { return IVec3{a.X * s, a.Y * s, a.Z * s} }

// IsZero reports whether a is the grid origin.
func (a IVec3) IsZero() bool { return a == IVec3{} }

// XZ drops the vertical component, giving the column the cell belongs to.
func (a IVec3) XZ() IVec2 { return IVec2{a.X, a.Z} }

// Vec3 converts the coordinate to float coordinates.
func (a IVec3) Vec3() mgl32.Vec3 { return mgl32.Vec3{float32(a.X), float32(a.Y), float32(a.Z)} }

func (a IVec3) String() string { return fmt.Sprintf("(%d, %d, %d)", a.X, a.Y, a.Z) }

// FromFlat lifts a footprint point to a grid coordinate at height y.
func FromFlat(p IVec2, y int) IVec3 { return IVec3{p.X, y, p.Y} }
