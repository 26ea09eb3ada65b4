package voxel

import (
	"fmt"

	"github.com/chazu/tfbe/pkg/geom"
)

type opKind int

const (
	opReinsert opKind = iota // restore a removed cell
	opDelete                 // remove an added cell
	opShift                  // subtract a column shift
)

func (k opKind) String() string {
	switch k {
	case opReinsert:
		return "reinsert"
	case opDelete:
		return "delete"
	case opShift:
		return "shift"
	default:
		return "unknown"
	}
}

// undoOp carries exactly what is needed to invert one mutation.
type undoOp struct {
	kind     opKind
	coord    geom.IVec3
	material Material
	column   geom.IVec2
	delta    int
}

func (op undoOp) String() string {
	switch op.kind {
	case opReinsert:
		return fmt.Sprintf("reinsert %s %s", op.coord, op.material)
	case opDelete:
		return fmt.Sprintf("delete %s", op.coord)
	case opShift:
		return fmt.Sprintf("shift %s by %d", op.column, -op.delta)
	}
	return op.kind.String()
}

// SelectedFace is one face of a voxel picked by the user.
type SelectedFace struct {
	Voxel  geom.IVec3
	Normal geom.IVec3
}

// EditorState is the incidental editor state restored by undo.
type EditorState struct {
	Selection []SelectedFace
}

type commit struct {
	index int
	state EditorState
}

func (w *World) push(op undoOp) {
	w.undoLog = append(w.undoLog, op)
}

// revert applies one reversal command. Reversals do not push new entries.
func (w *World) revert(op undoOp) {
	switch op.kind {
	case opReinsert:
		w.cells[op.coord] = &Cell{Material: op.material}
		w.redraw(op.coord)
	case opDelete:
		c, ok := w.cells[op.coord]
		if !ok {
			return
		}
		delete(w.cells, op.coord)
		w.despawn(c)
	case opShift:
		w.addShift(op.column, -op.delta)
		w.redrawColumn(op.column)
	default:
		panic(fmt.Sprintf("voxel: unknown undo op %d", op.kind))
	}
}

func (w *World) lastCommitIndex() int {
	if len(w.commits) == 0 {
		return 0
	}
	return w.commits[len(w.commits)-1].index
}

// HasChangesToCommit reports whether edits were made since the last commit
// boundary.
func (w *World) HasChangesToCommit() bool {
	return len(w.undoLog) != w.lastCommitIndex()
}

// CommitChanges closes the current action so that its edits are undone as a
// unit. state is the editor state from just before the action and is
// handed back by UndoLastAction.
func (w *World) CommitChanges(state EditorState) {
	w.commits = append(w.commits, commit{index: len(w.undoLog), state: state})
}

// UndoLastAction reverts every edit back to the previous commit boundary,
// newest first, and returns the editor state recorded when the undone
// action was committed. With no boundaries it reverts the whole log and
// returns an empty state.
func (w *World) UndoLastAction() EditorState {
	var state EditorState
	if n := len(w.commits); n > 0 {
		state = w.commits[n-1].state
		w.commits = w.commits[:n-1]
	}

	until := w.lastCommitIndex()
	for len(w.undoLog) > until {
		op := w.undoLog[len(w.undoLog)-1]
		w.undoLog = w.undoLog[:len(w.undoLog)-1]
		w.revert(op)
	}
	return state
}

// UndoDepth returns the number of committed actions available to undo.
func (w *World) UndoDepth() int { return len(w.commits) }

// ResetHistory forgets every edit and boundary, making the current state
// the floor that undo cannot go below.
func (w *World) ResetHistory() {
	w.undoLog = nil
	w.commits = nil
}
