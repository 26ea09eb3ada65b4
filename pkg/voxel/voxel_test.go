package voxel

import (
	"maps"
	"testing"

	"github.com/chazu/tfbe/pkg/geom"
	"github.com/go-gl/mathgl/mgl32"
)

type visual struct {
	coord    geom.IVec3
	position mgl32.Vec3
	material Material
}

// recorder is a Renderer that keeps every live visual.
type recorder struct {
	next     Handle
	live     map[Handle]visual
	despawns int
}

func newRecorder() *recorder { return &recorder{live: make(map[Handle]visual)} }

func (r *recorder) SpawnVoxel(coord geom.IVec3, position mgl32.Vec3, material Material) Handle {
	r.next++
	r.live[r.next] = visual{coord, position, material}
	return r.next
}

func (r *recorder) Despawn(h Handle) {
	delete(r.live, h)
	r.despawns++
}

func newWorld(s Symmetry) (*World, *recorder) {
	cfg := DefaultConfig()
	cfg.Symmetry = s
	r := newRecorder()
	return New(cfg, DefaultPalette(), r), r
}

// checkVisuals asserts that exactly one visual exists per present cell and
// that it is drawn where the cell belongs.
func checkVisuals(t *testing.T, w *World, r *recorder) {
	t.Helper()
	if len(r.live) != w.Len() {
		t.Fatalf("%d live visuals for %d voxels", len(r.live), w.Len())
	}
	for v, m := range w.All() {
		h, ok := w.Cell(v).Rendered()
		if !ok {
			t.Fatalf("voxel %s has no visual", v)
		}
		got, ok := r.live[h]
		if !ok {
			t.Fatalf("voxel %s references despawned visual %d", v, h)
		}
		if got.coord != v || got.material != m || got.position != w.Position(v) {
			t.Errorf("visual for %s = %+v, want %s at %v", v, got, m, w.Position(v))
		}
	}
}

func iv(x, y, z int) geom.IVec3 { return geom.IVec3{X: x, Y: y, Z: z} }

func TestAddRemoveCommitUndo(t *testing.T) {
	w, r := newWorld(SymmetryNone)
	p := w.Palette()
	v := iv(1, 0, 0)

	w.AddVoxel(v, p.Gray)
	w.RemoveVoxel(v)
	snapshot := EditorState{Selection: []SelectedFace{{Voxel: v, Normal: geom.UnitY}}}
	w.CommitChanges(snapshot)

	got := w.UndoLastAction()
	if w.HasVoxel(v) {
		t.Errorf("voxel %s present after undo", v)
	}
	if len(got.Selection) != 1 || got.Selection[0] != snapshot.Selection[0] {
		t.Errorf("UndoLastAction() = %+v, want %+v", got, snapshot)
	}
	checkVisuals(t, w, r)
}

func TestProtectedOrigin(t *testing.T) {
	for _, s := range []Symmetry{SymmetryNone, SymmetryRotation, SymmetryMirrorX} {
		t.Run(s.String(), func(t *testing.T) {
			w, r := newWorld(s)
			w.AddVoxel(geom.IVec3{}, w.Palette().Gray)
			w.RemoveVoxel(geom.IVec3{})
			if !w.HasVoxel(geom.IVec3{}) {
				t.Error("origin voxel removed")
			}
			checkVisuals(t, w, r)
		})
	}
}

func TestSymmetryPairing(t *testing.T) {
	p := DefaultPalette()
	tests := []struct {
		name     string
		sym      Symmetry
		at       geom.IVec3
		material Material
		mirror   geom.IVec3
		want     Material
	}{
		{"rotation red", SymmetryRotation, iv(2, 1, 3), p.Red, iv(-2, 1, -3), p.Blue},
		{"rotation blue", SymmetryRotation, iv(2, 1, 3), p.Blue, iv(-2, 1, -3), p.Red},
		{"rotation gray", SymmetryRotation, iv(-1, 0, 4), p.Gray, iv(1, 0, -4), p.Gray},
		{"mirror-x red", SymmetryMirrorX, iv(2, 1, 3), p.Red, iv(-2, 1, 3), p.Blue},
		{"mirror-x outside", SymmetryMirrorX, iv(5, 0, 0), p.Outside, iv(-5, 0, 0), p.Outside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := newWorld(tt.sym)
			w.AddVoxel(tt.at, tt.material)
			if got, ok := w.Material(tt.mirror); !ok || got != tt.want {
				t.Errorf("Material(%s) = %q, %v, want %q", tt.mirror, got, ok, tt.want)
			}
			if got, _ := w.Material(tt.at); got != tt.material {
				t.Errorf("Material(%s) = %q, want %q", tt.at, got, tt.material)
			}
			w.RemoveVoxel(tt.at)
			if w.Len() != 0 {
				t.Errorf("%d voxels left after removing a mirrored pair", w.Len())
			}
			checkVisuals(t, w, r)
		})
	}
}

func TestSymmetryCenterColumn(t *testing.T) {
	w, r := newWorld(SymmetryRotation)
	w.AddVoxel(iv(0, 3, 0), w.Palette().Red)
	if w.Len() != 1 {
		t.Errorf("center column edit touched %d voxels, want 1", w.Len())
	}

	w.SetSymmetry(SymmetryMirrorX)
	w.AddVoxel(iv(0, 0, 2), w.Palette().Red)
	if w.Len() != 2 {
		t.Errorf("edit on the mirror plane touched %d voxels, want 1", w.Len()-1)
	}
	checkVisuals(t, w, r)
}

func TestRoundTripUndo(t *testing.T) {
	w, r := newWorld(SymmetryRotation)
	p := w.Palette()
	w.AddVoxel(geom.IVec3{}, p.Gray)
	w.AddVoxel(iv(2, 0, 1), p.Red)
	w.ShiftColumn(geom.IVec2{X: 2, Y: 1}, 16)
	w.CommitChanges(EditorState{})

	voxels := maps.Collect(w.All())
	columns := []geom.IVec2{{X: 2, Y: 1}, {X: -2, Y: -1}, {X: 0, Y: 0}, {X: 3, Y: 0}}
	shifts := make(map[geom.IVec2]int)
	for _, c := range columns {
		shifts[c] = w.ColumnShift(c)
	}

	w.AddVoxel(iv(2, 0, 1), p.Blue)
	w.AddVoxel(iv(3, 1, 0), p.Gray)
	w.RemoveVoxel(iv(-2, 0, -1))
	w.RemoveVoxel(geom.IVec3{})
	w.ShiftColumn(geom.IVec2{X: 2, Y: 1}, 32)
	w.ShiftColumn(geom.IVec2{X: 0, Y: 0}, -16)
	w.AddVoxel(iv(0, 1, 0), p.Outside)
	if !w.HasChangesToCommit() {
		t.Fatal("no changes to commit after edits")
	}
	w.CommitChanges(EditorState{})
	checkVisuals(t, w, r)

	w.UndoLastAction()
	if got := maps.Collect(w.All()); !maps.Equal(got, voxels) {
		t.Errorf("voxels after undo = %v, want %v", got, voxels)
	}
	for _, c := range columns {
		if got := w.ColumnShift(c); got != shifts[c] {
			t.Errorf("ColumnShift(%s) = %d, want %d", c, got, shifts[c])
		}
	}
	checkVisuals(t, w, r)

	w.UndoLastAction()
	if w.Len() != 0 {
		t.Errorf("%d voxels after undoing everything", w.Len())
	}
	if got := w.ColumnShift(geom.IVec2{X: 2, Y: 1}); got != 0 {
		t.Errorf("ColumnShift after undoing everything = %d", got)
	}
	checkVisuals(t, w, r)
}

func TestHasChangesToCommit(t *testing.T) {
	w, _ := newWorld(SymmetryNone)
	if w.HasChangesToCommit() {
		t.Error("fresh world has changes")
	}
	w.AddVoxel(iv(1, 0, 0), w.Palette().Gray)
	if !w.HasChangesToCommit() {
		t.Error("no changes after AddVoxel")
	}
	w.CommitChanges(EditorState{})
	if w.HasChangesToCommit() {
		t.Error("changes remain after commit")
	}
	w.RemoveVoxel(iv(5, 5, 5))
	if w.HasChangesToCommit() {
		t.Error("removing an absent voxel recorded a change")
	}
	w.UndoLastAction()
	if w.HasChangesToCommit() {
		t.Error("changes remain after undo")
	}
	if w.UndoDepth() != 0 {
		t.Errorf("UndoDepth() = %d, want 0", w.UndoDepth())
	}
}

func TestUndoWithoutBoundary(t *testing.T) {
	w, r := newWorld(SymmetryRotation)
	w.AddVoxel(iv(1, 0, 1), w.Palette().Red)

	got := w.UndoLastAction()
	if got.Selection != nil {
		t.Errorf("UndoLastAction() = %+v, want empty state", got)
	}
	if w.Len() != 0 {
		t.Errorf("%d voxels left", w.Len())
	}
	checkVisuals(t, w, r)
}

func TestUndoRestoresEachAction(t *testing.T) {
	w, _ := newWorld(SymmetryNone)
	p := w.Palette()
	var states []EditorState
	for i := 1; i <= 3; i++ {
		state := EditorState{Selection: []SelectedFace{{Voxel: iv(i-1, 0, 0), Normal: geom.UnitX}}}
		states = append(states, state)
		w.AddVoxel(iv(i, 0, 0), p.Gray)
		w.CommitChanges(state)
	}
	for i := 3; i >= 1; i-- {
		got := w.UndoLastAction()
		if got.Selection[0] != states[i-1].Selection[0] {
			t.Errorf("undo %d returned %+v, want %+v", i, got, states[i-1])
		}
		if w.HasVoxel(iv(i, 0, 0)) || w.Len() != i-1 {
			t.Errorf("after undo %d: %d voxels, has %s = %v", i, w.Len(), iv(i, 0, 0), w.HasVoxel(iv(i, 0, 0)))
		}
	}
}

func TestResetHistory(t *testing.T) {
	w, _ := newWorld(SymmetryNone)
	w.AddVoxel(iv(1, 0, 0), w.Palette().Gray)
	w.CommitChanges(EditorState{})
	w.ResetHistory()

	w.UndoLastAction()
	if !w.HasVoxel(iv(1, 0, 0)) {
		t.Error("undo went below the history floor")
	}
}

func TestShiftColumnRedraws(t *testing.T) {
	w, r := newWorld(SymmetryNone)
	v := iv(1, 2, 0)
	w.AddVoxel(v, w.Palette().Gray)
	w.AddVoxel(iv(1, 3, 0), w.Palette().Gray)
	w.CommitChanges(EditorState{})

	if !w.ShiftColumn(v.XZ(), 32) {
		t.Fatal("ShiftColumn rejected")
	}
	if want := (mgl32.Vec3{128, 256 + 32, 0}); w.Position(v) != want {
		t.Errorf("Position(%s) = %v, want %v", v, w.Position(v), want)
	}
	if !w.HasVoxel(v) {
		t.Error("shift moved the grid coordinate")
	}
	checkVisuals(t, w, r)

	w.CommitChanges(EditorState{})
	w.UndoLastAction()
	if want := (mgl32.Vec3{128, 256, 0}); w.Position(v) != want {
		t.Errorf("Position(%s) after undo = %v, want %v", v, w.Position(v), want)
	}
	checkVisuals(t, w, r)
}

func TestShiftColumnBound(t *testing.T) {
	w, _ := newWorld(SymmetryRotation)
	col := geom.IVec2{X: 1, Y: 1}
	mirror := geom.IVec2{X: -1, Y: -1}

	for i, want := range []bool{true, true, false} {
		if got := w.ShiftColumn(col, 32); got != want {
			t.Errorf("shift %d = %v, want %v", i, got, want)
		}
	}
	if w.ColumnShift(col) != 64 || w.ColumnShift(mirror) != 64 {
		t.Errorf("shifts = %d, %d, want 64, 64", w.ColumnShift(col), w.ColumnShift(mirror))
	}
	if !w.ShiftColumn(col, -128) {
		t.Error("shift to the negative limit rejected")
	}

	// A shift the mirror cannot take is rejected for both columns.
	w.SetSymmetry(SymmetryNone)
	other := geom.IVec2{X: 2, Y: 0}
	w.ShiftColumn(other, 64)
	w.SetSymmetry(SymmetryRotation)
	if w.ShiftColumn(geom.IVec2{X: -2, Y: 0}, 32) {
		t.Error("shift accepted although the mirrored column is at its limit")
	}
	if got := w.ColumnShift(geom.IVec2{X: -2, Y: 0}); got != 0 {
		t.Errorf("rejected shift moved the column by %d", got)
	}
}

func TestExtrude(t *testing.T) {
	w, r := newWorld(SymmetryNone)
	p := w.Palette()
	w.AddVoxel(geom.IVec3{}, p.Gray)
	sel := []SelectedFace{{Voxel: geom.IVec3{}, Normal: geom.UnitY}}

	sel = w.Extrude(sel, p.Red)
	if len(sel) != 1 || sel[0].Voxel != iv(0, 1, 0) {
		t.Fatalf("selection after extrude = %+v", sel)
	}
	if m, _ := w.Material(iv(0, 1, 0)); m != p.Red {
		t.Errorf("extruded material = %q, want %q", m, p.Red)
	}

	w.AddVoxel(iv(0, 2, 0), p.Gray)
	if sel = w.Extrude(sel, p.Red); len(sel) != 0 {
		t.Errorf("extrude into an occupied cell kept %+v", sel)
	}
	checkVisuals(t, w, r)
}

func TestExtrudeSharedTarget(t *testing.T) {
	w, _ := newWorld(SymmetryNone)
	p := w.Palette()
	w.AddVoxel(iv(1, 0, 0), p.Gray)
	w.AddVoxel(iv(0, 0, 1), p.Gray)
	// Both faces point at (1, 0, 1).
	sel := []SelectedFace{
		{Voxel: iv(1, 0, 0), Normal: geom.UnitZ},
		{Voxel: iv(0, 0, 1), Normal: geom.UnitX},
	}
	sel = w.Extrude(sel, p.Blue)
	if len(sel) != 2 {
		t.Errorf("selection after shared extrude = %+v, want both faces", sel)
	}
	if w.Len() != 3 {
		t.Errorf("Len() = %d, want 3", w.Len())
	}
}

func TestErase(t *testing.T) {
	w, r := newWorld(SymmetryNone)
	p := w.Palette()
	w.AddVoxel(geom.IVec3{}, p.Gray)
	w.AddVoxel(iv(0, 1, 0), p.Gray)

	sel := w.Erase([]SelectedFace{{Voxel: iv(0, 1, 0), Normal: geom.UnitY}})
	if len(sel) != 1 || sel[0].Voxel != (geom.IVec3{}) {
		t.Errorf("selection after erase = %+v", sel)
	}
	if w.HasVoxel(iv(0, 1, 0)) {
		t.Error("erased voxel still present")
	}

	sel = w.Erase(sel)
	if !w.HasVoxel(geom.IVec3{}) {
		t.Error("erase removed the origin")
	}
	if len(sel) != 0 {
		t.Errorf("selection behind the origin = %+v", sel)
	}
	checkVisuals(t, w, r)
}

func TestDepress(t *testing.T) {
	w, r := newWorld(SymmetryNone)
	p := w.Palette()
	for x := range 3 {
		for z := range 3 {
			w.AddVoxel(iv(x, 0, z), p.Gray)
		}
	}

	sel := w.Depress([]SelectedFace{{Voxel: iv(1, 0, 1), Normal: geom.UnitY}}, p.Red)
	if len(sel) != 1 || sel[0].Voxel != iv(1, -1, 1) {
		t.Fatalf("selection after depress = %+v", sel)
	}
	if w.HasVoxel(iv(1, 0, 1)) {
		t.Error("depressed voxel still present")
	}
	if m, _ := w.Material(iv(1, -1, 1)); m != p.Red {
		t.Errorf("floor of the dent = %q, want %q", m, p.Red)
	}
	for _, rim := range []geom.IVec3{iv(0, -1, 1), iv(2, -1, 1), iv(1, -1, 0), iv(1, -1, 2)} {
		if m, ok := w.Material(rim); !ok || m != p.Gray {
			t.Errorf("rim %s = %q, %v, want gray", rim, m, ok)
		}
	}
	if w.Len() != 13 {
		t.Errorf("Len() = %d, want 13", w.Len())
	}
	checkVisuals(t, w, r)
}

func TestFill(t *testing.T) {
	w, r := newWorld(SymmetryRotation)
	p := w.Palette()
	w.AddVoxel(iv(1, 0, 0), p.Gray)
	w.Fill([]SelectedFace{{Voxel: iv(1, 0, 0), Normal: geom.UnitY}}, p.Red)
	if m, _ := w.Material(iv(1, 0, 0)); m != p.Red {
		t.Errorf("filled = %q, want red", m)
	}
	if m, _ := w.Material(iv(-1, 0, 0)); m != p.Blue {
		t.Errorf("mirror of fill = %q, want blue", m)
	}
	checkVisuals(t, w, r)
}

func TestShiftSelection(t *testing.T) {
	w, _ := newWorld(SymmetryNone)
	sel := []SelectedFace{
		{Voxel: iv(1, 0, 1), Normal: geom.UnitY},
		{Voxel: iv(1, 3, 1), Normal: geom.UnitX},
		{Voxel: iv(2, 0, 1), Normal: geom.UnitY},
	}
	if got := w.ShiftSelection(sel, -1); got != 2 {
		t.Errorf("ShiftSelection() = %d, want 2", got)
	}
	if got := w.ColumnShift(geom.IVec2{X: 1, Y: 1}); got != -ColumnShiftStep {
		t.Errorf("ColumnShift = %d, want %d", got, -ColumnShiftStep)
	}
}
