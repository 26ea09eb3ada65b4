package building

import (
	"github.com/chazu/tfbe/pkg/geom"
	"github.com/google/uuid"
)

// World is the ordered collection of buildings in the level. Every stored
// building satisfies IsValid under the world's Params.
type World struct {
	params    Params
	buildings []*Building
}

// NewWorld creates an empty building world.
func NewWorld(params Params) *World {
	return &World{params: params}
}

// Params returns the wall dimensions validation runs with.
func (w *World) Params() Params { return w.params }

// Buildings returns the current buildings in insertion order.
func (w *World) Buildings() []*Building { return w.buildings }

// Len returns the number of buildings.
func (w *World) Len() int { return len(w.buildings) }

// InsertBuilding adds b to the world. An invalid building is rejected and
// InsertBuilding returns false.
func (w *World) InsertBuilding(b *Building) bool {
	if b == nil || !b.IsValid(Validity{}, w.params) {
		return false
	}
	w.buildings = append(w.buildings, b)
	return true
}

// Find returns the building with the given id, or nil.
func (w *World) Find(id uuid.UUID) *Building {
	for _, b := range w.buildings {
		if b.id == id {
			return b
		}
	}
	return nil
}

// PointAt finds an outline point equal to p among the buildings standing on
// floorY. When several of them share the point, the last one wins, matching
// the topmost drawn handle.
func (w *World) PointAt(p geom.IVec2, floorY int) (buildingIndex, pointIndex int, ok bool) {
	for bi, b := range w.buildings {
		if b.floorY != floorY {
			continue
		}
		for pi, q := range b.outline {
			if q == p {
				buildingIndex, pointIndex, ok = bi, pi, true
			}
		}
	}
	return buildingIndex, pointIndex, ok
}

// SetBuildingPoint moves one outline point. The move is applied only if the
// resulting outline is still valid; otherwise nothing changes and it
// returns false.
func (w *World) SetBuildingPoint(buildingIndex, pointIndex int, p geom.IVec2) bool {
	if buildingIndex < 0 || buildingIndex >= len(w.buildings) {
		return false
	}
	b := w.buildings[buildingIndex]
	if pointIndex < 0 || pointIndex >= len(b.outline) {
		return false
	}
	if b.outline[pointIndex] == p {
		return true
	}

	moved := b.Clone()
	moved.outline[pointIndex] = p
	if !moved.IsValid(Validity{}, w.params) {
		return false
	}
	w.buildings[buildingIndex] = moved
	return true
}
