package voxel

import "github.com/chazu/tfbe/pkg/geom"

// ColumnShiftStep is the offset one shift gesture applies.
const ColumnShiftStep = 32

// Extrude pushes every selected face one cell outward along its normal,
// filling new cells with material. Faces whose target cell is already
// occupied by something other than this extrusion are dropped from the
// selection. The returned selection holds the extruded faces.
func (w *World) Extrude(selection []SelectedFace, material Material) []SelectedFace {
	var next []SelectedFace
	extruded := make(map[geom.IVec3]bool)
	for _, face := range selection {
		target := face.Voxel.Add(face.Normal)
		if w.HasVoxel(target) && !extruded[target] {
			continue
		}
		extruded[target] = true
		next = append(next, SelectedFace{Voxel: target, Normal: face.Normal})
		if !w.HasVoxel(target) {
			w.AddVoxel(target, material)
		}
	}
	return dedupe(next)
}

// Erase removes every selected voxel and selects the faces behind them
// that still exist.
func (w *World) Erase(selection []SelectedFace) []SelectedFace {
	next := make([]SelectedFace, 0, len(selection))
	for _, face := range selection {
		w.RemoveVoxel(face.Voxel)
		next = append(next, SelectedFace{Voxel: face.Voxel.Sub(face.Normal), Normal: face.Normal})
	}
	return w.existing(next)
}

// Depress sinks every selected face one cell inward. Cells behind the
// selection are created with material where missing, and the rim around
// the dent is filled from the material of the cell just outside it.
func (w *World) Depress(selection []SelectedFace, material Material) []SelectedFace {
	next := make([]SelectedFace, 0, len(selection))
	for _, face := range selection {
		w.RemoveVoxel(face.Voxel)
		next = append(next, SelectedFace{Voxel: face.Voxel.Sub(face.Normal), Normal: face.Normal})
	}

	for _, face := range next {
		if !w.HasVoxel(face.Voxel) {
			w.AddVoxel(face.Voxel, material)
		}
	}

	for _, face := range next {
		for _, dir := range geom.Directions {
			if dir == face.Normal || dir.Neg() == face.Normal {
				continue
			}
			edge := face.Voxel.Add(dir)
			if w.HasVoxel(edge) {
				continue
			}
			if above, ok := w.Material(edge.Add(face.Normal)); ok {
				w.AddVoxel(edge, above)
			}
		}
	}
	return w.existing(next)
}

// Fill repaints every selected voxel with material. The selection is
// unchanged.
func (w *World) Fill(selection []SelectedFace, material Material) {
	for _, face := range selection {
		w.AddVoxel(face.Voxel, material)
	}
}

// ShiftSelection shifts each column touched by the selection once, by
// steps multiples of ColumnShiftStep. It returns how many columns moved;
// columns already at the shift limit are left alone.
func (w *World) ShiftSelection(selection []SelectedFace, steps int) int {
	seen := make(map[geom.IVec2]bool)
	moved := 0
	for _, face := range selection {
		column := face.Voxel.XZ()
		if seen[column] {
			continue
		}
		seen[column] = true
		if w.ShiftColumn(column, steps*ColumnShiftStep) {
			moved++
		}
	}
	return moved
}

func (w *World) existing(faces []SelectedFace) []SelectedFace {
	kept := faces[:0]
	for _, face := range faces {
		if w.HasVoxel(face.Voxel) {
			kept = append(kept, face)
		}
	}
	return dedupe(kept)
}

func dedupe(faces []SelectedFace) []SelectedFace {
	seen := make(map[SelectedFace]bool, len(faces))
	out := faces[:0]
	for _, face := range faces {
		if seen[face] {
			continue
		}
		seen[face] = true
		out = append(out, face)
	}
	return out
}
