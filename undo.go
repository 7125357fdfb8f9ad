package sprig

import (
	"maps"
	"time"
)

// ActionType identifies the kind of undoable edit.
type ActionType string

// ActionPixelChange is an edit to one object's pixel grid.
const ActionPixelChange ActionType = "pixel-change"

// ObjectSnapshot captures the slice of one object's state an action
// restores. Pixels, when non-nil, replaces the object's pixel map
// wholesale; the other fields merge in only when set.
type ObjectSnapshot struct {
	Pixels  map[string]string `json:"pixels,omitempty"`
	Name    *string           `json:"name,omitempty"`
	Visible *bool             `json:"visible,omitempty"`
}

// UndoableAction is one reversible edit to exactly one object: the named
// object's state before and after a completed gesture.
type UndoableAction struct {
	Type      ActionType     `json:"type"`
	ObjectID  string         `json:"objectId"`
	Before    ObjectSnapshot `json:"before"`
	After     ObjectSnapshot `json:"after"`
	Timestamp time.Time      `json:"timestamp"`
}

// SnapshotPixels copies an object's pixel map for use as a gesture
// before/after snapshot. Returns an empty map for a nil object so gesture
// bookkeeping never branches on missing targets.
func SnapshotPixels(obj *PixelObject) map[string]string {
	if obj == nil {
		return map[string]string{}
	}
	return maps.Clone(obj.Pixels)
}

// NewPixelChangeAction builds the action for a completed drawing gesture.
// ok is false when before and after are equal — an empty gesture emits no
// action.
func NewPixelChangeAction(objectID string, before, after map[string]string) (UndoableAction, bool) {
	if maps.Equal(before, after) {
		return UndoableAction{}, false
	}
	return UndoableAction{
		Type:      ActionPixelChange,
		ObjectID:  objectID,
		Before:    ObjectSnapshot{Pixels: before},
		After:     ObjectSnapshot{Pixels: after},
		Timestamp: time.Now(),
	}, true
}

// MergePixelChangeActions collapses a contiguous run of pixel-change
// actions on the same object into one action: the first action's before
// plus the cumulative overlay of every after in order, later overlays
// winning on conflicting keys. Hosts use this to batch intermediate
// gestures into one logical edit. ok is false for an empty run or a run
// that mixes objects or action types.
func MergePixelChangeActions(run []UndoableAction) (UndoableAction, bool) {
	if len(run) == 0 {
		return UndoableAction{}, false
	}
	first := run[0]
	if first.Type != ActionPixelChange {
		return UndoableAction{}, false
	}
	after := maps.Clone(first.After.Pixels)
	for _, a := range run[1:] {
		if a.ObjectID != first.ObjectID || a.Type != ActionPixelChange {
			return UndoableAction{}, false
		}
		for k, v := range a.After.Pixels {
			after[k] = v
		}
	}
	return UndoableAction{
		Type:      ActionPixelChange,
		ObjectID:  first.ObjectID,
		Before:    first.Before,
		After:     ObjectSnapshot{Pixels: after},
		Timestamp: run[len(run)-1].Timestamp,
	}, true
}

// applySnapshot restores a snapshot onto the named object, shallow-copying
// every ancestor on the path. Returns the asset unchanged if the object is
// gone (deleted since the action was recorded).
func applySnapshot(a *Asset, objectID string, snap ObjectSnapshot) *Asset {
	objects, ok := updateObject(a.Objects, objectID, func(obj *PixelObject) *PixelObject {
		dup := obj.clone()
		if snap.Pixels != nil {
			dup.Pixels = maps.Clone(snap.Pixels)
		}
		if snap.Name != nil {
			dup.Name = *snap.Name
		}
		if snap.Visible != nil {
			dup.Visible = *snap.Visible
		}
		return dup
	})
	if !ok {
		return a
	}
	out := a.clone()
	out.Objects = objects
	return out
}

// ActionLog holds the undo and redo stacks. Pushing a new action clears the
// redo stack; undoing or redoing with an empty stack is a no-op.
type ActionLog struct {
	undo []UndoableAction
	redo []UndoableAction
}

// NewActionLog creates an empty log.
func NewActionLog() *ActionLog {
	return &ActionLog{}
}

// Push records a completed action and invalidates any redo history.
func (l *ActionLog) Push(action UndoableAction) {
	l.undo = append(l.undo, action)
	l.redo = l.redo[:0]
}

// CanUndo reports whether an action is available to undo.
func (l *ActionLog) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether an action is available to redo.
func (l *ActionLog) CanRedo() bool { return len(l.redo) > 0 }

// Undo restores the most recent action's before state. ok is false when the
// log is empty; the asset comes back unchanged.
func (l *ActionLog) Undo(a *Asset) (*Asset, *UndoableAction, bool) {
	if len(l.undo) == 0 {
		return a, nil, false
	}
	action := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, action)
	return applySnapshot(a, action.ObjectID, action.Before), &action, true
}

// Redo reapplies the most recently undone action's after state. ok is false
// when nothing has been undone.
func (l *ActionLog) Redo(a *Asset) (*Asset, *UndoableAction, bool) {
	if len(l.redo) == 0 {
		return a, nil, false
	}
	action := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, action)
	return applySnapshot(a, action.ObjectID, action.After), &action, true
}
