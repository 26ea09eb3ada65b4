package building

import (
	"math"

	"github.com/chazu/tfbe/pkg/geom"
)

// Params holds the wall dimensions the outline rules are derived from, in
// grid units.
type Params struct {
	// WallThickness is the full thickness of the wall solid built around
	// the outline.
	WallThickness float64
	// MaxCornerExtension bounds WallThickness / sin(angle/2), the distance
	// a wall's inner corner retreats from its pivot.
	MaxCornerExtension float64
	// MinInteriorThickness is the smallest allowed gap between a point and
	// an edge it is not part of.
	MinInteriorThickness float64
}

// DefaultParams returns the editor's built-in wall dimensions.
func DefaultParams() Params {
	return Params{
		WallThickness:        0.25,
		MaxCornerExtension:   1.0,
		MinInteriorThickness: 0.5,
	}
}

// Validity relaxes the point-count requirement for outlines that are still
// being drawn or dragged.
type Validity struct {
	AllowSinglePoint bool
	AllowTwoPoints   bool
}

// Corner is a pivot point with its two neighbours on the outline.
type Corner struct {
	A, Pivot, B geom.IVec2
}

// IsCornerTooSharp reports whether a wall of the configured thickness would
// have to retreat too far at the pivot. Degenerate corners (a neighbour on
// the pivot, or a fully folded back edge) are always too sharp.
func IsCornerTooSharp(c Corner, params Params) bool {
	da := c.A.Vec2().Sub(c.Pivot.Vec2())
	db := c.B.Vec2().Sub(c.Pivot.Vec2())
	if da.Len() == 0 || db.Len() == 0 {
		return true
	}
	cos := float64(da.Normalize().Dot(db.Normalize()))
	angle := math.Acos(math.Max(-1, math.Min(1, cos)))
	sinHalf := math.Sin(angle / 2)
	if sinHalf <= 0 {
		return true
	}
	return params.WallThickness/sinHalf >= params.MaxCornerExtension
}

// IsValid decides whether outline is a legal building footprint. One or two
// points are accepted only when opts allows them. Three or more points must
// pass every check below.
func IsValid(outline []geom.IVec2, opts Validity, params Params) bool {
	switch len(outline) {
	case 0:
		return false
	case 1:
		return opts.AllowSinglePoint
	case 2:
		return opts.AllowTwoPoints && outline[0] != outline[1]
	}

	ok := checkCorners(outline, params)
	ok = checkDuplicates(outline) && ok
	ok = checkClearance(outline, params) && ok
	ok = checkCrossings(outline) && ok
	ok = checkOrientation(outline) && ok
	return ok
}

// checkCorners applies the sharp corner rule at every vertex.
func checkCorners(outline []geom.IVec2, params Params) bool {
	n := len(outline)
	for i, pivot := range outline {
		c := Corner{A: outline[(i+n-1)%n], Pivot: pivot, B: outline[(i+1)%n]}
		if IsCornerTooSharp(c, params) {
			return false
		}
	}
	return true
}

func checkDuplicates(outline []geom.IVec2) bool {
	for i := range outline {
		for j := i + 1; j < len(outline); j++ {
			if outline[i] == outline[j] {
				return false
			}
		}
	}
	return true
}

// checkClearance rejects any point closer than the minimum interior
// thickness to an edge it is not an endpoint of.
func checkClearance(outline []geom.IVec2, params Params) bool {
	n := len(outline)
	for pi, p := range outline {
		for ei := range outline {
			ej := (ei + 1) % n
			if pi == ei || pi == ej {
				continue
			}
			near := geom.ClosestPointOnSegment(p.Vec2(), geom.Seg(outline[ei], outline[ej]))
			if float64(near.Sub(p.Vec2()).Len()) < params.MinInteriorThickness {
				return false
			}
		}
	}
	return true
}

// checkCrossings rejects any two edges that cross without sharing an endpoint.
func checkCrossings(outline []geom.IVec2) bool {
	n := len(outline)
	for i := range outline {
		a := geom.Seg(outline[i], outline[(i+1)%n])
		for j := i + 1; j < n; j++ {
			if j == i+1 || (j+1)%n == i {
				continue
			}
			b := geom.Seg(outline[j], outline[(j+1)%n])
			if geom.SegmentsCross(a, b) {
				return false
			}
		}
	}
	return true
}

// checkOrientation requires a counter-clockwise loop. Reversal is left to
// the caller.
func checkOrientation(outline []geom.IVec2) bool {
	return geom.SignedPolygonArea(outline) > 0
}
