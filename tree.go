package sprig

import "strconv"

// Tree mutation operations. Every operation returns a new Asset built with
// structural sharing; the receiver is never mutated. Operations that end up
// changing nothing (missing id, move to the same slot, reparent into one's
// own subtree) return the receiver unchanged so callers can compare
// pointers to detect no-ops.

// AddObject creates a default object and inserts it into the tree. With a
// parentID it is appended to that node's children; with parentID == "" it is
// appended at root level with an order one above the current maximum. The
// new object becomes the active drawing target either way.
func (a *Asset) AddObject(parentID string) *Asset {
	obj := NewPixelObject(defaultObjectName(a))

	if parentID == "" {
		obj.Order = maxOrder(a.Objects) + 1
		out := a.clone()
		out.Objects = append(append([]*PixelObject{}, a.Objects...), obj)
		out.ActiveObjectID = obj.ID
		return out
	}

	objects, ok := updateObject(a.Objects, parentID, func(parent *PixelObject) *PixelObject {
		obj.Order = maxOrder(parent.Children) + 1
		dup := parent.clone()
		dup.Children = append(append([]*PixelObject{}, parent.Children...), obj)
		return dup
	})
	if !ok {
		return a
	}
	out := a.clone()
	out.Objects = objects
	out.ActiveObjectID = obj.ID
	return out
}

// DeleteObject removes the object and its entire subtree. If the active
// object disappears with it, the active id is cleared.
func (a *Asset) DeleteObject(id string) *Asset {
	objects, removed := removeFromTree(a.Objects, id)
	if removed == nil {
		return a
	}
	out := a.clone()
	out.Objects = objects
	if out.ActiveObjectID != "" && FindObject(objects, out.ActiveObjectID) == nil {
		out.ActiveObjectID = ""
	}
	return out
}

// RenameObject sets the object's display name.
func (a *Asset) RenameObject(id, name string) *Asset {
	objects, ok := updateObject(a.Objects, id, func(obj *PixelObject) *PixelObject {
		dup := obj.clone()
		dup.Name = name
		return dup
	})
	if !ok {
		return a
	}
	out := a.clone()
	out.Objects = objects
	return out
}

// ToggleVisibility flips the object's visible flag.
func (a *Asset) ToggleVisibility(id string) *Asset {
	objects, ok := updateObject(a.Objects, id, func(obj *PixelObject) *PixelObject {
		dup := obj.clone()
		dup.Visible = !obj.Visible
		return dup
	})
	if !ok {
		return a
	}
	out := a.clone()
	out.Objects = objects
	return out
}

// MoveObject detaches the dragged object's subtree and reinserts it at the
// given index under newParentID ("" for root level). Sibling order values at
// the insertion level are recomputed so that list position 0 carries the
// highest order — the top of a top-to-bottom layer list paints topmost.
//
// Moving an object into its own descendant is rejected before any mutation;
// so is a move whose destination equals the current location.
func (a *Asset) MoveObject(draggedID, newParentID string, index int) *Asset {
	dragged := FindObject(a.Objects, draggedID)
	if dragged == nil {
		return a
	}
	// Cycle prevention: the destination parent must not live inside the
	// dragged subtree (or be the dragged object itself).
	if newParentID != "" {
		if newParentID == draggedID || FindObject(dragged.Children, newParentID) != nil {
			return a
		}
		if FindObject(a.Objects, newParentID) == nil {
			return a
		}
	}

	oldParentID, oldIndex, found := locateParent(a.Objects, "", draggedID)
	if !found {
		return a
	}
	if oldParentID == newParentID {
		if index == oldIndex {
			return a
		}
		// Removing the dragged object first shifts later siblings left by
		// one; compensate when moving toward the end of the same list.
		if index > oldIndex {
			index--
		}
		if index == oldIndex {
			return a
		}
	}

	objects, removed := removeFromTree(a.Objects, draggedID)
	if removed == nil {
		return a
	}

	out := a.clone()
	if newParentID == "" {
		out.Objects = insertWithOrder(objects, removed, index)
		return out
	}
	objects, ok := updateObject(objects, newParentID, func(parent *PixelObject) *PixelObject {
		dup := parent.clone()
		dup.Children = insertWithOrder(parent.Children, removed, index)
		return dup
	})
	if !ok {
		return a
	}
	out.Objects = objects
	return out
}

// removeFromTree filters the object with the given id (and its subtree) out
// of the forest. Levels not on the path to the removal are shared.
func removeFromTree(objects []*PixelObject, id string) ([]*PixelObject, *PixelObject) {
	for i, obj := range objects {
		if obj.ID == id {
			out := make([]*PixelObject, 0, len(objects)-1)
			out = append(out, objects[:i]...)
			out = append(out, objects[i+1:]...)
			return out, obj
		}
		if kids, removed := removeFromTree(obj.Children, id); removed != nil {
			out := make([]*PixelObject, len(objects))
			copy(out, objects)
			dup := obj.clone()
			dup.Children = kids
			out[i] = dup
			return out, removed
		}
	}
	return objects, nil
}

// insertWithOrder inserts node at index (clamped to the list bounds) and
// recomputes every sibling's order at this level: order = count-1-position,
// a strict descending sequence matching list position. Each sibling is
// shallow-copied because its order changes.
func insertWithOrder(siblings []*PixelObject, node *PixelObject, index int) []*PixelObject {
	if index < 0 {
		index = 0
	}
	if index > len(siblings) {
		index = len(siblings)
	}
	out := make([]*PixelObject, 0, len(siblings)+1)
	out = append(out, siblings[:index]...)
	out = append(out, node)
	out = append(out, siblings[index:]...)
	for i, obj := range out {
		dup := obj.clone()
		dup.Order = float64(len(out) - 1 - i)
		out[i] = dup
	}
	return out
}

// maxOrder returns the highest order among the given siblings, or -1 for an
// empty list so the first object lands at order 0.
func maxOrder(objects []*PixelObject) float64 {
	max := -1.0
	for _, obj := range objects {
		if obj.Order > max {
			max = obj.Order
		}
	}
	return max
}

// defaultObjectName numbers new objects by total tree size.
func defaultObjectName(a *Asset) string {
	return "Object " + strconv.Itoa(len(Flatten(a.Objects))+1)
}
