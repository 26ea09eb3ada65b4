// Package voxel implements the editor's sparse voxel grid.
//
// The World owns the only authoritative copy of voxel state. Every physical
// mutation pushes exactly one reversal command onto an undo log; commit
// boundaries group those commands into user-visible actions. Rendered
// visuals are requested through a Renderer and tracked only by opaque
// handle, so undo can despawn and redraw them at any depth.
//
// A World is not safe for concurrent use. Callers serialize edits, one input
// event at a time.
package voxel

import (
	"iter"
	"maps"
	"slices"

	"github.com/chazu/tfbe/pkg/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultVoxelSize is the world-space edge length of one grid cell.
const DefaultVoxelSize float32 = 128

// Cell is the state of one present voxel.
type Cell struct {
	Material Material
	rendered Handle
	drawn    bool
}

// Rendered returns the cell's visual handle, if one is live.
func (c *Cell) Rendered() (Handle, bool) { return c.rendered, c.drawn }

// Config controls a world's symmetry and column shift limits.
type Config struct {
	Symmetry  Symmetry
	VoxelSize float32
	// MaxColumnShift bounds the absolute accumulated shift of any column.
	MaxColumnShift int
}

// DefaultConfig mirrors edits by rotation and allows columns to move up to
// half a voxel.
func DefaultConfig() Config {
	return Config{
		Symmetry:       SymmetryRotation,
		VoxelSize:      DefaultVoxelSize,
		MaxColumnShift: int(DefaultVoxelSize / 2),
	}
}

// World is a sparse map from grid coordinates to cells plus per-column
// vertical render offsets.
type World struct {
	cfg      Config
	palette  Palette
	renderer Renderer

	cells       map[geom.IVec3]*Cell
	columnShift map[geom.IVec2]int

	undoLog []undoOp
	commits []commit
}

// New creates an empty world. A nil renderer draws nothing.
func New(cfg Config, palette Palette, renderer Renderer) *World {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if cfg.VoxelSize <= 0 {
		cfg.VoxelSize = DefaultVoxelSize
	}
	return &World{
		cfg:         cfg,
		palette:     palette,
		renderer:    renderer,
		cells:       make(map[geom.IVec3]*Cell),
		columnShift: make(map[geom.IVec2]int),
	}
}

// Symmetry returns the active mirroring mode.
func (w *World) Symmetry() Symmetry { return w.cfg.Symmetry }

// SetSymmetry changes the mirroring mode for later edits. It is editor
// configuration, not voxel state, and is not recorded for undo.
func (w *World) SetSymmetry(s Symmetry) { w.cfg.Symmetry = s }

// Palette returns the materials the world was created with.
func (w *World) Palette() Palette { return w.palette }

// Config returns the world's configuration.
func (w *World) Config() Config { return w.cfg }

// Len returns the number of present voxels.
func (w *World) Len() int { return len(w.cells) }

// HasVoxel reports whether a voxel is present at v.
func (w *World) HasVoxel(v geom.IVec3) bool {
	_, ok := w.cells[v]
	return ok
}

// Cell returns the cell at v, or nil.
func (w *World) Cell(v geom.IVec3) *Cell { return w.cells[v] }

// Material returns the material of the voxel at v.
func (w *World) Material(v geom.IVec3) (Material, bool) {
	c, ok := w.cells[v]
	if !ok {
		return "", false
	}
	return c.Material, true
}

// All iterates over a snapshot of the present voxels in no particular
// order. Mutating the world during iteration does not affect the snapshot.
func (w *World) All() iter.Seq2[geom.IVec3, Material] {
	snapshot := make(map[geom.IVec3]Material, len(w.cells))
	for v, c := range w.cells {
		snapshot[v] = c.Material
	}
	return maps.All(snapshot)
}

// ColumnShift returns the accumulated vertical offset of a column.
func (w *World) ColumnShift(column geom.IVec2) int { return w.columnShift[column] }

// Position returns the world-space center a voxel is drawn at, including
// its column shift.
func (w *World) Position(v geom.IVec3) mgl32.Vec3 {
	shift := float32(w.columnShift[v.XZ()])
	return v.Vec3().Mul(w.cfg.VoxelSize).Add(mgl32.Vec3{0, shift, 0})
}

// AddVoxel sets the voxel at v to material, replacing any existing voxel.
// With symmetry enabled the mirrored cell receives the complementary
// material through a second independent edit.
func (w *World) AddVoxel(v geom.IVec3, material Material) {
	w.addVoxel(v, material)
	if m, ok := w.cfg.Symmetry.Mirror(v); ok {
		w.addVoxel(m, w.palette.Complement(material))
	}
}

// RemoveVoxel removes the voxel at v and its mirror, if present. The origin
// voxel is never removed.
func (w *World) RemoveVoxel(v geom.IVec3) {
	if !v.IsZero() {
		w.removeVoxel(v)
	}
	if m, ok := w.cfg.Symmetry.Mirror(v); ok {
		w.removeVoxel(m)
	}
}

// ShiftColumn moves every voxel in column up by the given amount at render
// time; grid coordinates are unchanged. The mirrored column shifts too. A
// shift that would take either column past MaxColumnShift is rejected as a
// whole and ShiftColumn returns false.
func (w *World) ShiftColumn(column geom.IVec2, by int) bool {
	mirror, mirrored := w.cfg.Symmetry.Mirror(geom.FromFlat(column, 0))
	if !w.shiftAllowed(column, by) || (mirrored && !w.shiftAllowed(mirror.XZ(), by)) {
		return false
	}
	w.shiftColumn(column, by)
	if mirrored {
		w.shiftColumn(mirror.XZ(), by)
	}
	return true
}

func (w *World) shiftAllowed(column geom.IVec2, by int) bool {
	if w.cfg.MaxColumnShift <= 0 {
		return true
	}
	next := w.columnShift[column] + by
	return next <= w.cfg.MaxColumnShift && next >= -w.cfg.MaxColumnShift
}

// removeVoxel deletes the cell at v without the origin guard and records
// how to restore it.
func (w *World) removeVoxel(v geom.IVec3) {
	c, ok := w.cells[v]
	if !ok {
		return
	}
	delete(w.cells, v)
	w.push(undoOp{kind: opReinsert, coord: v, material: c.Material})
	w.despawn(c)
}

func (w *World) addVoxel(v geom.IVec3, material Material) {
	w.removeVoxel(v)
	w.cells[v] = &Cell{Material: material}
	w.redraw(v)
	w.push(undoOp{kind: opDelete, coord: v})
}

func (w *World) shiftColumn(column geom.IVec2, by int) {
	w.addShift(column, by)
	w.push(undoOp{kind: opShift, column: column, delta: by})
	w.redrawColumn(column)
}

func (w *World) addShift(column geom.IVec2, by int) {
	next := w.columnShift[column] + by
	if next == 0 {
		delete(w.columnShift, column)
		return
	}
	w.columnShift[column] = next
}

// redraw despawns the visual at v, if any, and spawns a fresh one.
func (w *World) redraw(v geom.IVec3) {
	c, ok := w.cells[v]
	if !ok {
		return
	}
	w.despawn(c)
	c.rendered = w.renderer.SpawnVoxel(v, w.Position(v), c.Material)
	c.drawn = true
}

func (w *World) redrawColumn(column geom.IVec2) {
	var affected []geom.IVec3
	for v := range w.cells {
		if v.XZ() == column {
			affected = append(affected, v)
		}
	}
	slices.SortFunc(affected, func(a, b geom.IVec3) int { return a.Y - b.Y })
	for _, v := range affected {
		w.redraw(v)
	}
}

func (w *World) despawn(c *Cell) {
	if !c.drawn {
		return
	}
	w.renderer.Despawn(c.rendered)
	c.rendered, c.drawn = 0, false
}
