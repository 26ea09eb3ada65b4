package voxel

import (
	"fmt"

	"github.com/chazu/tfbe/pkg/geom"
)

// Symmetry selects how edits are mirrored about the center column.
type Symmetry int

const (
	SymmetryNone     Symmetry = iota
	SymmetryRotation          // half turn about the y axis
	SymmetryMirrorX           // reflection across x = 0
)

func (s Symmetry) String() string {
	switch s {
	case SymmetryNone:
		return "none"
	case SymmetryRotation:
		return "rotation"
	case SymmetryMirrorX:
		return "mirror-x"
	default:
		return "unknown"
	}
}

// ParseSymmetry converts a name produced by String back to a Symmetry.
func ParseSymmetry(name string) (Symmetry, error) {
	switch name {
	case "none", "":
		return SymmetryNone, nil
	case "rotation":
		return SymmetryRotation, nil
	case "mirror-x", "mirror_x", "mirrorx":
		return SymmetryMirrorX, nil
	}
	return SymmetryNone, fmt.Errorf("voxel: unknown symmetry %q", name)
}

// Mirror returns the coordinate an edit at v is mirrored to. Cells in the
// center column (x = z = 0) have no partner, and neither do cells that
// mirror onto themselves.
func (s Symmetry) Mirror(v geom.IVec3) (geom.IVec3, bool) {
	if v.X == 0 && v.Z == 0 {
		return geom.IVec3{}, false
	}
	var m geom.IVec3
	switch s {
	case SymmetryRotation:
		m = geom.IVec3{X: -v.X, Y: v.Y, Z: -v.Z}
	case SymmetryMirrorX:
		m = geom.IVec3{X: -v.X, Y: v.Y, Z: v.Z}
	default:
		return geom.IVec3{}, false
	}
	return m, m != v
}
