package sprig

import "testing"

// recordingSink captures emitted events in order.
type recordingSink struct {
	events []EditEvent
}

func (s *recordingSink) EmitEvent(event EditEvent) { s.events = append(s.events, event) }

func newTestEditor() *Editor {
	asset := NewAsset().AddObject("")
	return NewEditor(asset, EditorConfig{CanvasSize: 16})
}

// runPendingTick fires the editor's scheduled tool tick the way the top of
// Update would.
func (e *Editor) runPendingTick() {
	if fn := e.pendingTick; fn != nil {
		e.pendingTick = nil
		fn()
	}
}

// --- Construction / defaults ---

func TestNewEditorDefaults(t *testing.T) {
	e := NewEditor(NewAsset(), EditorConfig{})
	if e.CanvasSize() != 64 {
		t.Errorf("size = %d, want 64", e.CanvasSize())
	}
	if e.LeftColor() != "#000000" || e.RightColor() != "#ffffff" {
		t.Errorf("colors = %q, %q", e.LeftColor(), e.RightColor())
	}
	if e.tool != e.pen {
		t.Error("pen is not the initial tool")
	}
}

func TestEditorActiveObject(t *testing.T) {
	e := newTestEditor()
	if e.ActiveObject() == nil {
		t.Fatal("AddObject did not leave an active object")
	}
	if e.SelectedObject() != e.ActiveObject() {
		t.Error("selection diverged from the active object")
	}
}

// --- ApplyPixels ---

func TestEditorApplyPixelsNewSnapshot(t *testing.T) {
	e := newTestEditor()
	before := e.Asset()
	e.ApplyPixels(PixelDelta{"0,0": "#ff0000"})
	after := e.Asset()
	if after == before {
		t.Fatal("ApplyPixels did not produce a new snapshot")
	}
	if after.FindObject(after.ActiveObjectID).Pixels["0,0"] != "#ff0000" {
		t.Error("delta not applied")
	}
	if len(before.FindObject(before.ActiveObjectID).Pixels) != 0 {
		t.Error("previous snapshot mutated")
	}
}

func TestEditorApplyPixelsErase(t *testing.T) {
	e := newTestEditor()
	e.ApplyPixels(PixelDelta{"0,0": "#ff0000", "1,0": "#ff0000"})
	e.ApplyPixels(PixelDelta{"0,0": Erased})
	pixels := e.ActiveObject().Pixels
	if _, ok := pixels["0,0"]; ok {
		t.Error("erased pixel still present")
	}
	if pixels["1,0"] != "#ff0000" {
		t.Error("unrelated pixel lost")
	}
}

func TestEditorApplyPixelsNoActiveObject(t *testing.T) {
	e := NewEditor(NewAsset(), EditorConfig{CanvasSize: 16})
	before := e.Asset()
	e.ApplyPixels(PixelDelta{"0,0": "#ff0000"})
	if e.Asset() != before {
		t.Error("delta applied with no active object")
	}
}

// --- Gesture machine ---

func TestEditorGestureCommitsAction(t *testing.T) {
	e := newTestEditor()
	sink := &recordingSink{}
	e.SetEventSink(sink)

	e.processPointer(0, 0, true, MouseButtonLeft)
	e.processPointer(3, 0, true, MouseButtonLeft)
	e.runPendingTick()
	e.processPointer(3, 0, false, MouseButtonLeft)

	if !e.Log().CanUndo() {
		t.Fatal("gesture did not push an action")
	}
	if len(sink.events) != 1 || sink.events[0].Type != EventActionCommitted {
		t.Fatalf("events = %+v", sink.events)
	}
	if sink.events[0].Action == nil || sink.events[0].Action.Type != ActionPixelChange {
		t.Error("committed event missing the action")
	}
}

func TestEditorEmptyGestureNoAction(t *testing.T) {
	e := newTestEditor()
	// Press and release outside the canvas: nothing drawn, nothing logged.
	e.processPointer(100, 100, true, MouseButtonLeft)
	e.processPointer(100, 100, false, MouseButtonLeft)
	if e.Log().CanUndo() {
		t.Error("empty gesture pushed an action")
	}
}

func TestEditorGestureCapturesButton(t *testing.T) {
	e := newTestEditor()
	e.processPointer(0, 0, true, MouseButtonRight)
	e.processPointer(2, 0, true, MouseButtonLeft) // mid-gesture button noise
	e.runPendingTick()
	e.processPointer(2, 0, false, MouseButtonLeft)
	// Entire stroke keeps the press-time right-button color.
	for _, v := range e.ActiveObject().Pixels {
		if v != e.RightColor() {
			t.Fatalf("pixel color %q, want right color", v)
		}
	}
}

func TestEditorStationaryMoveIgnored(t *testing.T) {
	e := newTestEditor()
	e.processPointer(0, 0, true, MouseButtonLeft)
	e.processPointer(0, 0, true, MouseButtonLeft)
	if e.pendingTick != nil {
		t.Error("stationary pointer scheduled a drain")
	}
}

// --- Undo / redo round trip ---

func TestEditorUndoRedo(t *testing.T) {
	e := newTestEditor()
	sink := &recordingSink{}
	e.SetEventSink(sink)

	e.processPointer(0, 0, true, MouseButtonLeft)
	e.processPointer(0, 0, false, MouseButtonLeft)
	if len(e.ActiveObject().Pixels) != 1 {
		t.Fatalf("pixels = %v", e.ActiveObject().Pixels)
	}

	e.UndoEdit()
	if len(e.ActiveObject().Pixels) != 0 {
		t.Error("undo left pixels behind")
	}
	e.RedoEdit()
	if len(e.ActiveObject().Pixels) != 1 {
		t.Error("redo did not restore the stroke")
	}

	types := make([]EditEventType, len(sink.events))
	for i, ev := range sink.events {
		types[i] = ev.Type
	}
	want := []EditEventType{EventActionCommitted, EventUndo, EventRedo}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("event types = %v, want %v", types, want)
		}
	}
}

func TestEditorUndoEmptyLogNoEvent(t *testing.T) {
	e := newTestEditor()
	sink := &recordingSink{}
	e.SetEventSink(sink)
	e.UndoEdit()
	e.RedoEdit()
	if len(sink.events) != 0 {
		t.Errorf("events = %+v", sink.events)
	}
}

// --- Tool switching ---

func TestEditorSetToolDeactivatesPrevious(t *testing.T) {
	e := newTestEditor()
	e.processPointer(0, 0, true, MouseButtonLeft)
	e.processPointer(3, 0, true, MouseButtonLeft)
	if e.pendingTick == nil {
		t.Fatal("no drain scheduled")
	}
	e.SetTool(e.Eraser())
	if e.pendingTick != nil {
		t.Error("switching tools left a pending drain")
	}
}

func TestEditorSetToolSameIsNoOp(t *testing.T) {
	e := newTestEditor()
	e.processPointer(0, 0, true, MouseButtonLeft)
	e.processPointer(3, 0, true, MouseButtonLeft)
	e.SetTool(e.Pen())
	if e.pendingTick == nil {
		t.Error("re-setting the active tool cancelled its drain")
	}
}

// --- SetAsset ---

func TestEditorSetAssetResets(t *testing.T) {
	e := newTestEditor()
	e.processPointer(0, 0, true, MouseButtonLeft)
	e.processPointer(0, 0, false, MouseButtonLeft)
	if !e.Log().CanUndo() {
		t.Fatal("setup gesture missing")
	}
	e.SetAsset(NewAsset().AddObject(""))
	if e.Log().CanUndo() {
		t.Error("history survived SetAsset")
	}
	if e.pointerDown {
		t.Error("gesture state survived SetAsset")
	}
}

// --- Eyedropper ---

func TestEditorPickColor(t *testing.T) {
	e := newTestEditor()
	e.ApplyPixels(PixelDelta{"2,3": "#ff8000"})
	got, ok := e.PickColor(2, 3)
	if !ok || got != "#ff8000" {
		t.Errorf("PickColor = %q, %v", got, ok)
	}
}

func TestEditorPickColorTransparent(t *testing.T) {
	e := newTestEditor()
	if _, ok := e.PickColor(0, 0); ok {
		t.Error("picked a color from an empty canvas")
	}
	if _, ok := e.PickColor(1000, 0); ok {
		t.Error("picked a color outside the canvas")
	}
}

// --- Coordinate mapping ---

func TestScreenToCanvasCells(t *testing.T) {
	e := newTestEditor() // size 16, zoom 8, no pan
	x, y := e.screenToCanvas(0, 0)
	if x != -8 || y != -8 {
		t.Errorf("origin maps to (%v, %v), want (-8, -8)", x, y)
	}
	// Anywhere inside one zoomed cell maps to the same canvas cell.
	x1, _ := e.screenToCanvas(64, 0)
	x2, _ := e.screenToCanvas(71, 0)
	if x1 != 0 || x2 != 0 {
		t.Errorf("cell mapping = %v, %v, want 0, 0", x1, x2)
	}
}

// --- Animation mode ---

func TestEditAnimationWiresGhosts(t *testing.T) {
	e := newTestEditor()
	anim := &SpriteAnimation{
		ID:   "anim",
		Grid: GridConfig{Rows: 1, Cols: 3},
		Loop: true,
	}
	e.EditAnimation(anim, 1)
	if len(e.ghosts) != 3 {
		t.Errorf("ghosts = %v", e.ghosts)
	}
	if e.Player() == nil {
		t.Fatal("no player in animation mode")
	}
	e.EditAnimation(nil, 0)
	if e.Player() != nil || e.ghosts != nil {
		t.Error("leaving animation mode kept state")
	}
}

func TestEditAnimationFrameEvents(t *testing.T) {
	e := newTestEditor()
	sink := &recordingSink{}
	e.SetEventSink(sink)
	anim := &SpriteAnimation{
		ID:     "anim",
		Frames: FrameList{CellFrame{CellIndex: 0, Duration: 10}, CellFrame{CellIndex: 1, Duration: 10}},
		Loop:   true,
		Grid:   GridConfig{Rows: 1, Cols: 2},
	}
	e.EditAnimation(anim, 0)
	e.Player().Start()
	e.Player().Update(10)
	if len(sink.events) != 1 {
		t.Fatalf("events = %+v", sink.events)
	}
	ev := sink.events[0]
	if ev.Type != EventFrameAdvanced || ev.AnimationID != "anim" || ev.Frame != 1 {
		t.Errorf("frame event = %+v", ev)
	}
}
