package sprig

import "testing"

// buildAsset constructs a small test tree by id:
//
//	root: a (order 2), b (order 1), c (order 0)
//	a children: a1, a2
func buildAsset() *Asset {
	a := &Asset{
		Version: CurrentAssetVersion,
		Objects: []*PixelObject{
			{ID: "a", Name: "A", Order: 2, Visible: true, Transform: IdentityTransform(), ColorTint: ColorWhite,
				Children: []*PixelObject{
					{ID: "a1", Name: "A1", Order: 1, Visible: true, Transform: IdentityTransform(), ColorTint: ColorWhite},
					{ID: "a2", Name: "A2", Order: 0, Visible: true, Transform: IdentityTransform(), ColorTint: ColorWhite},
				}},
			{ID: "b", Name: "B", Order: 1, Visible: true, Transform: IdentityTransform(), ColorTint: ColorWhite},
			{ID: "c", Name: "C", Order: 0, Visible: true, Transform: IdentityTransform(), ColorTint: ColorWhite},
		},
	}
	return a
}

func rootIDs(a *Asset) []string {
	ids := make([]string, len(a.Objects))
	for i, obj := range a.Objects {
		ids[i] = obj.ID
	}
	return ids
}

func assertIDs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

// --- FindObject / locateParent ---

func TestFindObjectNested(t *testing.T) {
	a := buildAsset()
	if obj := a.FindObject("a2"); obj == nil || obj.Name != "A2" {
		t.Fatalf("FindObject(a2) = %v", obj)
	}
	if obj := a.FindObject("missing"); obj != nil {
		t.Errorf("FindObject(missing) = %v, want nil", obj)
	}
}

func TestLocateParent(t *testing.T) {
	a := buildAsset()
	parent, idx, found := locateParent(a.Objects, "", "a2")
	if !found || parent != "a" || idx != 1 {
		t.Errorf("locateParent(a2) = (%q, %d, %v)", parent, idx, found)
	}
	parent, idx, found = locateParent(a.Objects, "", "b")
	if !found || parent != "" || idx != 1 {
		t.Errorf("locateParent(b) = (%q, %d, %v)", parent, idx, found)
	}
	if _, _, found = locateParent(a.Objects, "", "missing"); found {
		t.Error("locateParent(missing) found = true")
	}
}

// --- AddObject ---

func TestAddObjectRoot(t *testing.T) {
	a := buildAsset()
	out := a.AddObject("")
	if out == a {
		t.Fatal("AddObject returned the receiver")
	}
	if len(out.Objects) != 4 {
		t.Fatalf("root count = %d, want 4", len(out.Objects))
	}
	added := out.Objects[3]
	if added.Order != 3 {
		t.Errorf("order = %v, want 3 (max+1)", added.Order)
	}
	if out.ActiveObjectID != added.ID {
		t.Errorf("active = %q, want %q", out.ActiveObjectID, added.ID)
	}
	if !added.Visible || added.ColorTint != ColorWhite || !added.Transform.IsIdentity() {
		t.Errorf("added defaults wrong: %+v", added)
	}
	// New tree has 6 objects total, so the name counts the pre-add tree.
	if added.Name != "Object 6" {
		t.Errorf("name = %q, want Object 6", added.Name)
	}
	// Receiver untouched.
	if len(a.Objects) != 3 {
		t.Errorf("receiver mutated: %d roots", len(a.Objects))
	}
}

func TestAddObjectUnderParent(t *testing.T) {
	a := buildAsset()
	out := a.AddObject("b")
	b := out.FindObject("b")
	if len(b.Children) != 1 {
		t.Fatalf("b children = %d, want 1", len(b.Children))
	}
	if b.Children[0].Order != 0 {
		t.Errorf("first child order = %v, want 0", b.Children[0].Order)
	}
	if out.ActiveObjectID != b.Children[0].ID {
		t.Errorf("active = %q", out.ActiveObjectID)
	}
	// Sibling subtree shared, not copied.
	if out.Objects[0] != a.Objects[0] {
		t.Error("untouched subtree was copied")
	}
}

func TestAddObjectMissingParent(t *testing.T) {
	a := buildAsset()
	if out := a.AddObject("missing"); out != a {
		t.Error("expected receiver back for missing parent")
	}
}

// --- DeleteObject ---

func TestDeleteObjectSubtree(t *testing.T) {
	a := buildAsset()
	out := a.DeleteObject("a")
	assertIDs(t, rootIDs(out), []string{"b", "c"})
	if out.FindObject("a1") != nil {
		t.Error("descendant survived subtree delete")
	}
}

func TestDeleteObjectClearsActive(t *testing.T) {
	a := buildAsset()
	a.ActiveObjectID = "a1"
	out := a.DeleteObject("a")
	if out.ActiveObjectID != "" {
		t.Errorf("active = %q, want cleared", out.ActiveObjectID)
	}
}

func TestDeleteObjectKeepsUnrelatedActive(t *testing.T) {
	a := buildAsset()
	a.ActiveObjectID = "b"
	out := a.DeleteObject("c")
	if out.ActiveObjectID != "b" {
		t.Errorf("active = %q, want b", out.ActiveObjectID)
	}
}

func TestDeleteObjectMissing(t *testing.T) {
	a := buildAsset()
	if out := a.DeleteObject("missing"); out != a {
		t.Error("expected receiver back for missing id")
	}
}

// --- Rename / ToggleVisibility ---

func TestRenameObject(t *testing.T) {
	a := buildAsset()
	out := a.RenameObject("a1", "Renamed")
	if got := out.FindObject("a1").Name; got != "Renamed" {
		t.Errorf("name = %q", got)
	}
	if a.FindObject("a1").Name != "A1" {
		t.Error("receiver mutated")
	}
	// Path to a1 copied, sibling shared.
	if out.Objects[0] == a.Objects[0] {
		t.Error("ancestor not copied")
	}
	if out.Objects[1] != a.Objects[1] {
		t.Error("unrelated root copied")
	}
}

func TestToggleVisibility(t *testing.T) {
	a := buildAsset()
	out := a.ToggleVisibility("b")
	if out.FindObject("b").Visible {
		t.Error("visible not flipped")
	}
	out = out.ToggleVisibility("b")
	if !out.FindObject("b").Visible {
		t.Error("visible not flipped back")
	}
}

// --- MoveObject ---

func TestMoveObjectWithinRoot(t *testing.T) {
	a := buildAsset()
	// Move c to the front of the root list.
	out := a.MoveObject("c", "", 0)
	assertIDs(t, rootIDs(out), []string{"c", "a", "b"})
	// Orders recomputed descending from position: 2, 1, 0.
	for i, want := range []float64{2, 1, 0} {
		if out.Objects[i].Order != want {
			t.Errorf("order[%d] = %v, want %v", i, out.Objects[i].Order, want)
		}
	}
}

func TestMoveObjectTowardEnd(t *testing.T) {
	a := buildAsset()
	// a sits at index 0; asking for index 2 lands after removal shift.
	out := a.MoveObject("a", "", 2)
	assertIDs(t, rootIDs(out), []string{"b", "a", "c"})
}

func TestMoveObjectReparent(t *testing.T) {
	a := buildAsset()
	out := a.MoveObject("b", "a", 1)
	assertIDs(t, rootIDs(out), []string{"a", "c"})
	kids := out.FindObject("a").Children
	assertIDs(t, []string{kids[0].ID, kids[1].ID, kids[2].ID}, []string{"a1", "b", "a2"})
	for i, want := range []float64{2, 1, 0} {
		if kids[i].Order != want {
			t.Errorf("child order[%d] = %v, want %v", i, kids[i].Order, want)
		}
	}
}

func TestMoveObjectOutOfParent(t *testing.T) {
	a := buildAsset()
	out := a.MoveObject("a1", "", 1)
	assertIDs(t, rootIDs(out), []string{"a", "a1", "b", "c"})
	if len(out.FindObject("a").Children) != 1 {
		t.Error("a1 still under a")
	}
}

func TestMoveObjectSamePositionNoOp(t *testing.T) {
	a := buildAsset()
	if out := a.MoveObject("b", "", 1); out != a {
		t.Error("same-slot move should return the receiver")
	}
	// Index one past the old slot collapses back to it after removal shift.
	if out := a.MoveObject("b", "", 2); out != a {
		t.Error("adjacent-slot move should return the receiver")
	}
}

func TestMoveObjectRejectsCycle(t *testing.T) {
	a := buildAsset()
	if out := a.MoveObject("a", "a1", 0); out != a {
		t.Error("move into own descendant must be rejected")
	}
	if out := a.MoveObject("a", "a", 0); out != a {
		t.Error("move into self must be rejected")
	}
}

func TestMoveObjectMissingTargets(t *testing.T) {
	a := buildAsset()
	if out := a.MoveObject("missing", "", 0); out != a {
		t.Error("missing dragged id should be a no-op")
	}
	if out := a.MoveObject("b", "missing", 0); out != a {
		t.Error("missing parent id should be a no-op")
	}
}

func TestMoveObjectClampsIndex(t *testing.T) {
	a := buildAsset()
	out := a.MoveObject("a1", "", 99)
	assertIDs(t, rootIDs(out), []string{"a", "b", "c", "a1"})
}

// --- insertWithOrder / maxOrder ---

func TestInsertWithOrderDescending(t *testing.T) {
	node := &PixelObject{ID: "n"}
	out := insertWithOrder([]*PixelObject{{ID: "x"}, {ID: "y"}}, node, 1)
	assertIDs(t, []string{out[0].ID, out[1].ID, out[2].ID}, []string{"x", "n", "y"})
	for i, want := range []float64{2, 1, 0} {
		if out[i].Order != want {
			t.Errorf("order[%d] = %v, want %v", i, out[i].Order, want)
		}
	}
}

func TestMaxOrderEmpty(t *testing.T) {
	if got := maxOrder(nil); got != -1 {
		t.Errorf("maxOrder(nil) = %v, want -1", got)
	}
}

// --- Flatten ---

func TestFlattenDepthFirst(t *testing.T) {
	a := buildAsset()
	flat := Flatten(a.Objects)
	ids := make([]string, len(flat))
	for i, f := range flat {
		ids[i] = f.Object.ID
	}
	assertIDs(t, ids, []string{"a", "a1", "a2", "b", "c"})
}

func TestFlattenComposesWorldTransforms(t *testing.T) {
	a := buildAsset()
	a.Objects[0].Transform = Transform{X: 10, Y: 0, ScaleX: 2, ScaleY: 2}
	a.Objects[0].Children[0].Transform = Transform{X: 5, Y: 0, ScaleX: 1, ScaleY: 1}
	flat := Flatten(a.Objects)
	// a1's world: parent translation + child translation inside 2x scale.
	assertTransformNear(t, "a1 world", flat[1].World,
		Transform{X: 20, Y: 0, ScaleX: 2, ScaleY: 2})
	// Root siblings keep their own transform.
	if flat[3].World != a.Objects[1].Transform {
		t.Errorf("b world = %+v", flat[3].World)
	}
}

// --- Pixel keys ---

func TestPixelKeyRoundtrip(t *testing.T) {
	x, y, ok := ParsePixelKey(PixelKey(-7, 12))
	if !ok || x != -7 || y != 12 {
		t.Errorf("roundtrip = (%d, %d, %v)", x, y, ok)
	}
}

func TestParsePixelKeyMalformed(t *testing.T) {
	for _, key := range []string{"", "5", "a,b", "1,2,3", "1.5,2"} {
		if _, _, ok := ParsePixelKey(key); ok {
			t.Errorf("ParsePixelKey(%q) ok = true", key)
		}
	}
}

// --- Asset encode/decode ---

func TestAssetEncodeDecode(t *testing.T) {
	a := buildAsset()
	a.ActiveObjectID = "b"
	a.Objects[1].Pixels = map[string]string{"0,0": "#ff0000"}
	data, err := a.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := LoadAsset(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != CurrentAssetVersion || got.ActiveObjectID != "b" {
		t.Errorf("decoded header: %+v", got)
	}
	if got.FindObject("b").Pixels["0,0"] != "#ff0000" {
		t.Error("pixels lost in roundtrip")
	}
	assertIDs(t, rootIDs(got), rootIDs(a))
}

func TestLoadAssetInvalid(t *testing.T) {
	if _, err := LoadAsset([]byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
