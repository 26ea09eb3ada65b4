// Package editor holds the state one editing session works on: the voxel
// world, the buildings, the outline being drawn, the current material and
// the face selection. Input handlers call into an Editor once per event and
// call Frame between events so each event becomes one undoable action.
package editor

import (
	"slices"

	"github.com/chazu/tfbe/pkg/building"
	"github.com/chazu/tfbe/pkg/geom"
	"github.com/chazu/tfbe/pkg/hull"
	"github.com/chazu/tfbe/pkg/preview"
	"github.com/chazu/tfbe/pkg/voxel"
)

// Config is the static setup of an Editor.
type Config struct {
	Voxel    voxel.Config
	Building building.Params
	Palette  voxel.Palette
	// FloorY is the grid height new outlines are drawn at.
	FloorY int
}

// DefaultConfig returns the stock voxel, wall and palette settings.
func DefaultConfig() Config {
	return Config{
		Voxel:    voxel.DefaultConfig(),
		Building: building.DefaultParams(),
		Palette:  voxel.DefaultPalette(),
	}
}

type drag struct {
	building, point int
}

// Editor is an editing session. It is not safe for concurrent use.
type Editor struct {
	cfg       Config
	voxels    *voxel.World
	buildings *building.World
	draft     *building.Draft

	material  voxel.Material
	selection []voxel.SelectedFace
	before    voxel.EditorState

	dragging *drag
	hulls    []*hull.ConvexHull

	overlay  Overlay
	outlines *preview.Previewer[Marker]
}

// New creates an editor. The origin voxel is placed and becomes the floor
// of the undo history. Either collaborator may be nil.
func New(cfg Config, renderer voxel.Renderer, overlay Overlay) *Editor {
	if overlay == nil {
		overlay = NopOverlay{}
	}
	e := &Editor{
		cfg:       cfg,
		voxels:    voxel.New(cfg.Voxel, cfg.Palette, renderer),
		buildings: building.NewWorld(cfg.Building),
		draft:     building.NewDraft(cfg.FloorY, cfg.Building),
		material:  cfg.Palette.Gray,
		overlay:   overlay,
		outlines:  preview.New[Marker](),
	}
	e.voxels.AddVoxel(geom.IVec3{}, cfg.Palette.Gray)
	e.voxels.ResetHistory()
	e.record()
	return e
}

// Voxels returns the voxel world.
func (e *Editor) Voxels() *voxel.World { return e.voxels }

// Buildings returns the building world.
func (e *Editor) Buildings() *building.World { return e.buildings }

// Draft returns the outline currently being drawn.
func (e *Editor) Draft() *building.Draft { return e.draft }

// Hulls returns the convex solids placed in the level.
func (e *Editor) Hulls() []*hull.ConvexHull { return e.hulls }

// AddHull places a convex solid in the level.
func (e *Editor) AddHull(h *hull.ConvexHull) { e.hulls = append(e.hulls, h) }

// Palette returns the session's materials.
func (e *Editor) Palette() voxel.Palette { return e.cfg.Palette }

// Material returns the material new voxels are painted with.
func (e *Editor) Material() voxel.Material { return e.material }

// SetMaterial changes the current material.
func (e *Editor) SetMaterial(m voxel.Material) { e.material = m }

// Selection returns a copy of the selected faces.
func (e *Editor) Selection() []voxel.SelectedFace { return slices.Clone(e.selection) }

// SetSelection replaces the selection.
func (e *Editor) SetSelection(faces []voxel.SelectedFace) { e.selection = slices.Clone(faces) }

// ToggleFace adds face to the selection, or removes it if already selected.
func (e *Editor) ToggleFace(face voxel.SelectedFace) {
	if i := slices.Index(e.selection, face); i >= 0 {
		e.selection = slices.Delete(e.selection, i, i+1)
		return
	}
	e.selection = append(e.selection, face)
}

// Frame ends the current input event. Voxel edits made since the previous
// Frame are committed as one action, and the selection is recorded so that
// undoing the next action can restore it. It reports whether an action was
// committed.
func (e *Editor) Frame() bool {
	committed := false
	if e.voxels.HasChangesToCommit() {
		e.voxels.CommitChanges(e.before)
		committed = true
	}
	e.record()
	return committed
}

func (e *Editor) record() {
	e.before = voxel.EditorState{Selection: slices.Clone(e.selection)}
}

// Undo reverts the last voxel action and restores the selection that was
// active before it. Pending edits are committed first. It returns false if
// there was nothing to undo.
func (e *Editor) Undo() bool {
	e.Frame()
	if e.voxels.UndoDepth() == 0 {
		return false
	}
	state := e.voxels.UndoLastAction()
	e.selection = slices.Clone(state.Selection)
	e.record()
	return true
}

// Extrude pushes the selected faces outward with the current material.
func (e *Editor) Extrude() {
	e.selection = e.voxels.Extrude(e.selection, e.material)
}

// Erase deletes the selected voxels.
func (e *Editor) Erase() {
	e.selection = e.voxels.Erase(e.selection)
}

// Depress sinks the selected faces by one cell.
func (e *Editor) Depress() {
	e.selection = e.voxels.Depress(e.selection, e.material)
}

// Fill repaints the selected voxels with the current material.
func (e *Editor) Fill() {
	e.voxels.Fill(e.selection, e.material)
}

// ShiftSelection moves the selected columns by steps shift increments.
func (e *Editor) ShiftSelection(steps int) int {
	return e.voxels.ShiftSelection(e.selection, steps)
}
