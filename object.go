package sprig

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PixelObject is a node in the scene tree: a sparse pixel grid plus a
// transform, color effects, and an ordered child list. An object exclusively
// owns its Children subtree; the mutation operations on Asset reject any
// move that would place a node under its own descendant.
//
// Pixel grid keys are "x,y" strings with integer coordinates in
// [-canvasSize/2, canvasSize/2); values are color strings in any form
// ParseColor accepts.
//
// PixelObject values are never mutated in place. Every tree operation
// shallow-copies the ancestors on the path to the changed node and shares
// every untouched subtree.
type PixelObject struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Pixels      map[string]string `json:"pixels"`
	Transform   Transform         `json:"transform"`
	ColorTint   Color             `json:"colorTint"`
	Adjustments ColorAdjustments  `json:"colorAdjustments"`
	Visible     bool              `json:"visible"`
	Order       float64           `json:"order"`
	Children    []*PixelObject    `json:"children"`
}

// objectIDCounter is a plain counter (no atomic — sprig is single-threaded).
var objectIDCounter uint64

func nextObjectID() string {
	objectIDCounter++
	return fmt.Sprintf("obj-%d-%d", time.Now().UnixMilli(), objectIDCounter)
}

// NewPixelObject creates an object with a fresh unique id, an identity
// transform, the default white tint, and an empty pixel grid.
func NewPixelObject(name string) *PixelObject {
	return &PixelObject{
		ID:        nextObjectID(),
		Name:      name,
		Pixels:    map[string]string{},
		Transform: IdentityTransform(),
		ColorTint: ColorWhite,
		Visible:   true,
	}
}

// clone returns a shallow copy of obj. Pixels and Children are shared;
// callers that change either must replace the field on the copy.
func (obj *PixelObject) clone() *PixelObject {
	dup := *obj
	return &dup
}

// PixelKey builds the "x,y" grid key for integer canvas coordinates.
func PixelKey(x, y int) string {
	return strconv.Itoa(x) + "," + strconv.Itoa(y)
}

// ParsePixelKey parses an "x,y" grid key. ok is false for malformed keys,
// which renderers skip silently.
func ParsePixelKey(key string) (x, y int, ok bool) {
	sx, sy, found := strings.Cut(key, ",")
	if !found {
		return 0, 0, false
	}
	x, err := strconv.Atoi(sx)
	if err != nil {
		return 0, 0, false
	}
	y, err = strconv.Atoi(sy)
	if err != nil {
		return 0, 0, false
	}
	return x, y, true
}

// Asset is the persisted document: the root-level object list, animations,
// and the id of the object drawing tools target by default. Hosts hand a
// structurally valid Asset to the core and persist the values the mutation
// operations hand back; schema validation happens at that boundary, not here.
type Asset struct {
	Version        int                `json:"version"`
	Objects        []*PixelObject     `json:"objects"`
	Animations     []*SpriteAnimation `json:"animations"`
	ActiveObjectID string             `json:"activeObjectId,omitempty"`
}

// CurrentAssetVersion is the schema version written by NewAsset.
const CurrentAssetVersion = 2

// NewAsset creates an empty document at the current schema version.
func NewAsset() *Asset {
	return &Asset{Version: CurrentAssetVersion}
}

// clone returns a shallow copy of a. Objects and Animations are shared.
func (a *Asset) clone() *Asset {
	dup := *a
	return &dup
}

// LoadAsset decodes a persisted asset document. The caller (the import
// boundary) is responsible for schema migration before handing the result
// to the core.
func LoadAsset(data []byte) (*Asset, error) {
	var a Asset
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse asset: %w", err)
	}
	return &a, nil
}

// Encode serializes the asset for persistence.
func (a *Asset) Encode() ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode asset: %w", err)
	}
	return data, nil
}

// FindObject locates an object anywhere in the tree by id.
// Returns nil if no object matches; callers treat that as "no target".
func FindObject(objects []*PixelObject, id string) *PixelObject {
	for _, obj := range objects {
		if obj.ID == id {
			return obj
		}
		if found := FindObject(obj.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// FindObject locates an object anywhere in the asset's tree by id.
func (a *Asset) FindObject(id string) *PixelObject {
	return FindObject(a.Objects, id)
}

// locateParent finds the parent of the object with the given id.
// parentID is "" when the object sits at root level. found is false if the
// id is not in the tree at all.
func locateParent(objects []*PixelObject, parentID, id string) (foundParentID string, index int, found bool) {
	for i, obj := range objects {
		if obj.ID == id {
			return parentID, i, true
		}
		if p, idx, ok := locateParent(obj.Children, obj.ID, id); ok {
			return p, idx, ok
		}
	}
	return "", 0, false
}

// updateObject rebuilds the path from the roots to the object with the given
// id, replacing that object with fn(obj). Ancestors are shallow-copied;
// unrelated subtrees are shared. Returns ok=false (and the input slice
// unchanged) when the id is absent.
func updateObject(objects []*PixelObject, id string, fn func(*PixelObject) *PixelObject) ([]*PixelObject, bool) {
	for i, obj := range objects {
		if obj.ID == id {
			out := make([]*PixelObject, len(objects))
			copy(out, objects)
			out[i] = fn(obj)
			return out, true
		}
		if kids, ok := updateObject(obj.Children, id, fn); ok {
			out := make([]*PixelObject, len(objects))
			copy(out, objects)
			dup := obj.clone()
			dup.Children = kids
			out[i] = dup
			return out, true
		}
	}
	return objects, false
}

// FlatObject pairs an object with its world transform, the composition of
// every ancestor transform applied outside its own.
type FlatObject struct {
	Object *PixelObject
	World  Transform
}

// Flatten walks the tree depth-first and returns every object paired with
// its world transform. The full-scene render sorts this flat list by the
// single global Order key, so nested objects interleave with root-level
// ones — a property of the document model the renderer preserves rather
// than second-guesses.
func Flatten(objects []*PixelObject) []FlatObject {
	var out []FlatObject
	for _, obj := range objects {
		out = flattenInto(out, obj, IdentityTransform())
	}
	return out
}

func flattenInto(out []FlatObject, obj *PixelObject, parent Transform) []FlatObject {
	world := Compose(parent, obj.Transform)
	out = append(out, FlatObject{Object: obj, World: world})
	for _, child := range obj.Children {
		out = flattenInto(out, child, world)
	}
	return out
}
