// Package building models room footprints drawn on the editing grid and
// decides whether an outline is a legal footprint.
package building

import (
	"fmt"

	"github.com/chazu/tfbe/pkg/geom"
	"github.com/google/uuid"
)

// Building is a validated footprint resting on an integer floor height.
// Outlines are counter-clockwise, simple, and free of too-sharp corners;
// World never stores an outline that fails IsValid.
type Building struct {
	id      uuid.UUID
	floorY  int
	outline []geom.IVec2
}

// New creates a building. It panics when the outline has fewer than three
// points or repeats a point: callers validate before constructing.
func New(floorY int, outline []geom.IVec2) *Building {
	if len(outline) < 3 {
		panic("building: floor outline must contain at least 3 points")
	}
	seen := make(map[geom.IVec2]struct{}, len(outline))
	for _, p := range outline {
		if _, dup := seen[p]; dup {
			panic(fmt.Sprintf("building: floor outline has duplicate point %s", p))
		}
		seen[p] = struct{}{}
	}
	return &Building{
		id:      uuid.New(),
		floorY:  floorY,
		outline: append([]geom.IVec2(nil), outline...),
	}
}

// ID returns the stable identifier assigned at construction.
func (b *Building) ID() uuid.UUID { return b.id }

// FloorY returns the y position of the base of the building.
func (b *Building) FloorY() int { return b.floorY }

// Points returns the outline. The slice must not be modified.
func (b *Building) Points() []geom.IVec2 { return b.outline }

// Clone returns a deep copy sharing the same id.
func (b *Building) Clone() *Building {
	return &Building{
		id:      b.id,
		floorY:  b.floorY,
		outline: append([]geom.IVec2(nil), b.outline...),
	}
}

// IsValid reports whether the building's outline passes every check.
func (b *Building) IsValid(opts Validity, params Params) bool {
	return IsValid(b.outline, opts, params)
}

// Edges returns the closed loop of outline segments.
func (b *Building) Edges() []geom.Segment {
	edges := make([]geom.Segment, len(b.outline))
	for i, p := range b.outline {
		edges[i] = geom.Seg(p, b.outline[(i+1)%len(b.outline)])
	}
	return edges
}
