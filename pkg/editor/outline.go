package editor

import (
	"github.com/chazu/tfbe/pkg/building"
	"github.com/chazu/tfbe/pkg/geom"
	"github.com/chazu/tfbe/pkg/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// MarkerKind distinguishes outline overlay markers.
type MarkerKind int

const (
	MarkerPoint MarkerKind = iota
	MarkerSegment
)

// Marker identifies one overlay visual drawn over a building outline. A
// point marker uses only A.
type Marker struct {
	Kind MarkerKind
	A, B geom.IVec3
}

// Overlay draws outline markers on top of the scene.
type Overlay interface {
	SpawnMarker(m Marker, from, to mgl32.Vec3) voxel.Handle
	Despawn(h voxel.Handle)
}

// NopOverlay draws nothing.
type NopOverlay struct{}

func (NopOverlay) SpawnMarker(Marker, mgl32.Vec3, mgl32.Vec3) voxel.Handle { return 0 }
func (NopOverlay) Despawn(voxel.Handle)                                  {}

func (e *Editor) gridToWorld(v geom.IVec3) mgl32.Vec3 {
	return v.Vec3().Mul(e.voxels.Config().VoxelSize)
}

// PlaceOutlinePoint clicks p with the building tool. Closing the loop
// inserts the finished building into the world.
func (e *Editor) PlaceOutlinePoint(p geom.IVec2) (building.PlaceResult, *building.Building) {
	result, b := e.draft.Place(p)
	if result == building.Closed && !e.buildings.InsertBuilding(b) {
		return building.Rejected, nil
	}
	return result, b
}

// CancelOutline discards the outline being drawn.
func (e *Editor) CancelOutline() { e.draft.Reset() }

// BeginDrag grabs the outline point under p, if any. Only buildings on the
// floor outlines are drawn at can be grabbed.
func (e *Editor) BeginDrag(p geom.IVec2) bool {
	bi, pi, ok := e.buildings.PointAt(p, e.draft.FloorY)
	if !ok {
		e.dragging = nil
		return false
	}
	e.dragging = &drag{building: bi, point: pi}
	return true
}

// DragTo moves the grabbed point to p. Moves that would make the outline
// invalid are ignored and DragTo returns false.
func (e *Editor) DragTo(p geom.IVec2) bool {
	if e.dragging == nil {
		return false
	}
	return e.buildings.SetBuildingPoint(e.dragging.building, e.dragging.point, p)
}

// EndDrag releases the grabbed point.
func (e *Editor) EndDrag() { e.dragging = nil }

// Dragging reports whether an outline point is grabbed.
func (e *Editor) Dragging() bool { return e.dragging != nil }

// RefreshOutlinePreview draws a marker for every outline point and edge.
// Markers that are unchanged since the last refresh are kept, and markers
// of moved or removed points are despawned.
func (e *Editor) RefreshOutlinePreview() {
	for _, b := range e.buildings.Buildings() {
		points := b.Points()
		for i, p := range points {
			a := geom.FromFlat(p, b.FloorY())
			c := geom.FromFlat(points[(i+1)%len(points)], b.FloorY())
			seg := Marker{Kind: MarkerSegment, A: a, B: c}
			e.outlines.Render(seg, func() voxel.Handle {
				return e.overlay.SpawnMarker(seg, e.gridToWorld(a), e.gridToWorld(c))
			})
		}
		for _, p := range points {
			a := geom.FromFlat(p, b.FloorY())
			pt := Marker{Kind: MarkerPoint, A: a}
			e.outlines.Render(pt, func() voxel.Handle {
				at := e.gridToWorld(a)
				return e.overlay.SpawnMarker(pt, at, at)
			})
		}
	}
	e.outlines.CollectGarbage(e.overlay.Despawn)
}

// OutlineMarkers returns the number of live outline markers.
func (e *Editor) OutlineMarkers() int { return e.outlines.Len() }
