package engine

import (
	"fmt"
	"slices"

	"github.com/chazu/tfbe/pkg/building"
	"github.com/chazu/tfbe/pkg/editor"
	"github.com/chazu/tfbe/pkg/geom"
	"github.com/chazu/tfbe/pkg/hull"
	"github.com/chazu/tfbe/pkg/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// Op enumerates script commands.
type Op int

const (
	OpVoxel Op = iota
	OpErase
	OpShift
	OpCommit
	OpUndo
	OpSymmetry
	OpMaterial
	OpSelect
	OpDeselect
	OpExtrude
	OpDepress
	OpFill
	OpEraseSelection
	OpShiftSelection
	OpBuilding
	OpHull
)

func (o Op) String() string {
	switch o {
	case OpVoxel:
		return "voxel"
	case OpErase:
		return "erase"
	case OpShift:
		return "shift"
	case OpCommit:
		return "commit"
	case OpUndo:
		return "undo"
	case OpSymmetry:
		return "symmetry"
	case OpMaterial:
		return "material"
	case OpSelect:
		return "select-face"
	case OpDeselect:
		return "deselect"
	case OpExtrude:
		return "extrude"
	case OpDepress:
		return "depress"
	case OpFill:
		return "fill"
	case OpEraseSelection:
		return "erase-selection"
	case OpShiftSelection:
		return "shift-selection"
	case OpBuilding:
		return "building"
	case OpHull:
		return "hull"
	default:
		return "unknown"
	}
}

// Command is one editor operation recorded by a script. Only the fields
// its Op uses are set.
type Command struct {
	Op       Op
	Voxel    geom.IVec3
	Normal   geom.IVec3
	Column   geom.IVec2
	Delta    int
	Material string // empty means the editor's current material
	Symmetry voxel.Symmetry
	FloorY   int
	Points   []geom.IVec2
	Hull     []mgl32.Vec3
}

// Script is the immutable result of evaluating source. Evaluation never
// touches an editor; Apply replays the commands afterwards.
type Script struct {
	Commands []Command
}

// Len returns the number of commands.
func (s *Script) Len() int { return len(s.Commands) }

// Warning reports a command the editor rejected.
type Warning struct {
	Command int
	Op      Op
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("command %d (%s): %s", w.Command, w.Op, w.Message)
}

// Apply runs the commands against e in order. Each (commit) ends an
// undoable action, and edits left pending at the end are committed as a
// final action. Rejected commands are skipped and reported.
func (s *Script) Apply(e *editor.Editor) []Warning {
	var warnings []Warning
	warn := func(i int, c Command, format string, args ...any) {
		warnings = append(warnings, Warning{Command: i, Op: c.Op, Message: fmt.Sprintf(format, args...)})
	}

	for i, c := range s.Commands {
		switch c.Op {
		case OpVoxel:
			m, err := material(e, c.Material)
			if err != nil {
				warn(i, c, "%v", err)
				continue
			}
			e.Voxels().AddVoxel(c.Voxel, m)
		case OpErase:
			if c.Voxel.IsZero() {
				warn(i, c, "origin voxel is protected")
			}
			e.Voxels().RemoveVoxel(c.Voxel)
		case OpShift:
			if !e.Voxels().ShiftColumn(c.Column, c.Delta) {
				warn(i, c, "shift of column %s by %d exceeds the limit", c.Column, c.Delta)
			}
		case OpCommit:
			e.Frame()
		case OpUndo:
			if !e.Undo() {
				warn(i, c, "nothing to undo")
			}
		case OpSymmetry:
			e.Voxels().SetSymmetry(c.Symmetry)
		case OpMaterial:
			m, err := material(e, c.Material)
			if err != nil {
				warn(i, c, "%v", err)
				continue
			}
			e.SetMaterial(m)
		case OpSelect:
			e.ToggleFace(voxel.SelectedFace{Voxel: c.Voxel, Normal: c.Normal})
		case OpDeselect:
			e.SetSelection(nil)
		case OpExtrude:
			e.Extrude()
		case OpDepress:
			e.Depress()
		case OpFill:
			e.Fill()
		case OpEraseSelection:
			e.Erase()
		case OpShiftSelection:
			e.ShiftSelection(c.Delta)
		case OpBuilding:
			outline := slices.Clone(c.Points)
			if geom.SignedPolygonArea(outline) < 0 {
				slices.Reverse(outline)
			}
			if !building.IsValid(outline, building.Validity{}, e.Buildings().Params()) {
				warn(i, c, "outline %v is not a valid building", c.Points)
				continue
			}
			e.Buildings().InsertBuilding(building.New(c.FloorY, outline))
		case OpHull:
			h, ok := hull.FromPoints(c.Hull)
			if !ok {
				warn(i, c, "points do not bound a solid")
				continue
			}
			e.AddHull(h)
		default:
			warn(i, c, "unknown command")
		}
	}
	e.Frame()
	return warnings
}

func material(e *editor.Editor, name string) (voxel.Material, error) {
	if name == "" {
		return e.Material(), nil
	}
	return e.Palette().Lookup(name)
}
