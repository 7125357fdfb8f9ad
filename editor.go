package sprig

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// EditorConfig configures a new Editor.
type EditorConfig struct {
	// CanvasSize is the square canvas edge in pixels. Defaults to 64.
	CanvasSize int
	// LeftColor and RightColor are the colors drawn by the left and right
	// pointer buttons. Default to opaque black and white.
	LeftColor  string
	RightColor string
	// Tools tunes the stroke tools' curve smoothing.
	Tools ToolConfig
}

// Editor drives the whole core from an Ebitengine game loop: it owns the
// current Asset snapshot, the active tool, the undo log, pointer and
// keyboard dispatch, zoom/pan presentation, ghost overlays, and animation
// playback. It implements ToolContext, so tools talk back to it through the
// same narrow boundary a headless host would provide.
//
// All pointer and keyboard work happens inside Update, in arrival order, on
// the one goroutine Ebitengine drives — the scheduling primitive's "next
// visual tick" is simply the next Update call.
type Editor struct {
	asset *Asset
	size  int

	left  string
	right string

	pen    *StrokeTool
	eraser *StrokeTool
	fill   *FillTool
	tool   Tool

	log  *ActionLog
	sink EventSink

	// Gesture state. The button is captured at press time, so a mid-gesture
	// button change cannot switch colors.
	pointerDown   bool
	button        MouseButton
	lastX, lastY  float64
	gestureBefore map[string]string

	// Tick scheduling: at most one pending callback, run at the top of the
	// next Update.
	pendingTick func()

	// Animation authoring state.
	anim   *SpriteAnimation
	cell   int
	player *Player
	ghosts []GhostOverlay

	// Presentation.
	zoom      float64
	zoomTween *gween.Tween
	panX      float64
	panY      float64
	raster    *image.RGBA
	dirty     bool
	display   *ebiten.Image

	// Keyboard edge detection.
	prevUndoKey, prevRedoKey               bool
	prevPenKey, prevEraserKey, prevFillKey bool
	prevMiddle                             bool
}

// NewEditor creates an editor over the given asset.
func NewEditor(asset *Asset, cfg EditorConfig) *Editor {
	if cfg.CanvasSize <= 0 {
		cfg.CanvasSize = 64
	}
	if cfg.LeftColor == "" {
		cfg.LeftColor = "#000000"
	}
	if cfg.RightColor == "" {
		cfg.RightColor = "#ffffff"
	}
	e := &Editor{
		asset:  asset,
		size:   cfg.CanvasSize,
		left:   cfg.LeftColor,
		right:  cfg.RightColor,
		pen:    NewPenTool(cfg.Tools),
		eraser: NewEraserTool(cfg.Tools),
		fill:   NewFillTool(),
		log:    NewActionLog(),
		zoom:   8,
		dirty:  true,
	}
	e.tool = e.pen
	return e
}

// Asset returns the editor's current asset snapshot. Hosts persist this
// value; it is never mutated in place, so the pointer identity changes with
// every edit.
func (e *Editor) Asset() *Asset { return e.asset }

// SetAsset replaces the document, dropping gesture state and history.
func (e *Editor) SetAsset(asset *Asset) {
	e.tool.Deactivate(e)
	e.asset = asset
	e.log = NewActionLog()
	e.pointerDown = false
	e.gestureBefore = nil
	e.dirty = true
}

// SetEventSink sets the optional ECS bridge.
func (e *Editor) SetEventSink(sink EventSink) { e.sink = sink }

// Log exposes the undo log, letting hosts merge or inspect actions.
func (e *Editor) Log() *ActionLog { return e.log }

// SetTool switches the active tool, deactivating the previous one (which
// cancels any pending stroke drain).
func (e *Editor) SetTool(t Tool) {
	if t == nil || t == e.tool {
		return
	}
	e.tool.Deactivate(e)
	e.tool = t
	t.Activate(e)
}

// Pen returns the editor's pen tool.
func (e *Editor) Pen() Tool { return e.pen }

// Eraser returns the editor's eraser tool.
func (e *Editor) Eraser() Tool { return e.eraser }

// Fill returns the editor's fill tool.
func (e *Editor) Fill() Tool { return e.fill }

// SetColors sets the left- and right-button draw colors.
func (e *Editor) SetColors(left, right string) {
	e.left = left
	e.right = right
}

// EditAnimation selects the animation (and grid cell) being authored.
// Ghost overlays follow the animation's grid shape and loop flag. Pass nil
// to leave animation mode.
func (e *Editor) EditAnimation(anim *SpriteAnimation, cell int) {
	e.anim = anim
	e.cell = cell
	e.player = nil
	e.ghosts = nil
	if anim != nil {
		e.ghosts = CalculateGhostOverlays(anim.Grid, anim.Loop)
		e.player = NewPlayer(anim)
		e.player.OnFrame = func(frame int) {
			e.dirty = true
			e.emit(EditEvent{Type: EventFrameAdvanced, AnimationID: anim.ID, Frame: frame})
		}
	}
	e.dirty = true
}

// Player returns the playback player for the animation being authored, or
// nil outside animation mode.
func (e *Editor) Player() *Player { return e.player }

// --- ToolContext ---

// CanvasSize returns the square canvas edge in pixels.
func (e *Editor) CanvasSize() int { return e.size }

// LeftColor returns the primary draw color.
func (e *Editor) LeftColor() string { return e.left }

// RightColor returns the secondary draw color.
func (e *Editor) RightColor() string { return e.right }

// PixelAt reads a pixel from the active object's grid.
func (e *Editor) PixelAt(x, y int) (string, bool) {
	obj := e.ActiveObject()
	if obj == nil {
		return "", false
	}
	color, ok := obj.Pixels[PixelKey(x, y)]
	return color, ok
}

// ApplyPixels writes a batched delta to the active object's pixel grid,
// producing a new Asset snapshot with structural sharing. With no active
// object the delta is dropped.
func (e *Editor) ApplyPixels(delta PixelDelta) {
	obj := e.ActiveObject()
	if obj == nil || len(delta) == 0 {
		return
	}
	objects, ok := updateObject(e.asset.Objects, obj.ID, func(o *PixelObject) *PixelObject {
		dup := o.clone()
		pixels := make(map[string]string, len(o.Pixels)+len(delta))
		for k, v := range o.Pixels {
			pixels[k] = v
		}
		for k, v := range delta {
			if v == Erased {
				delete(pixels, k)
			} else {
				pixels[k] = v
			}
		}
		dup.Pixels = pixels
		return dup
	})
	if !ok {
		return
	}
	next := e.asset.clone()
	next.Objects = objects
	e.asset = next
	e.dirty = true
}

// ActiveObject returns the object drawing tools target, or nil.
func (e *Editor) ActiveObject() *PixelObject {
	if e.asset.ActiveObjectID == "" {
		return nil
	}
	return e.asset.FindObject(e.asset.ActiveObjectID)
}

// SelectedObject returns the same target as ActiveObject; the editor keeps
// no separate selection.
func (e *Editor) SelectedObject() *PixelObject { return e.ActiveObject() }

// ScheduleTick registers fn to run once at the top of the next Update,
// replacing any previously scheduled callback.
func (e *Editor) ScheduleTick(fn func()) { e.pendingTick = fn }

// CancelTick discards a pending tick callback.
func (e *Editor) CancelTick() { e.pendingTick = nil }

// --- Game loop ---

// Update runs one editor tick: the pending tool tick first, then pointer
// and keyboard input in arrival order, then zoom tweening and animation
// playback. Implements the update half of the ebiten.Game contract.
func (e *Editor) Update() error {
	if fn := e.pendingTick; fn != nil {
		e.pendingTick = nil
		fn()
	}

	dt := 1.0 / float64(ebiten.TPS())

	e.processPointerInput()
	e.processKeys()
	e.processWheel()

	if e.zoomTween != nil {
		v, done := e.zoomTween.Update(float32(dt))
		e.zoom = float64(v)
		if done {
			e.zoomTween = nil
		}
	}
	if e.player != nil {
		e.player.Update(dt * 1000)
	}
	return nil
}

// processPointerInput reads the mouse and feeds the tool state machine.
func (e *Editor) processPointerInput() {
	mx, my := ebiten.CursorPosition()
	cx, cy := e.screenToCanvas(float64(mx), float64(my))

	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if middle && !e.prevMiddle {
		if picked, ok := e.PickColor(int(cx), int(cy)); ok {
			e.left = picked
		}
	}
	e.prevMiddle = middle

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	pressed := left || right
	button := MouseButtonLeft
	if !left && right {
		button = MouseButtonRight
	}

	e.processPointer(cx, cy, pressed, button)
}

// processPointer is the gesture state machine, separated from the ebiten
// polling so tests can drive it directly.
func (e *Editor) processPointer(cx, cy float64, pressed bool, button MouseButton) {
	switch {
	case pressed && !e.pointerDown:
		e.pointerDown = true
		e.button = button
		e.lastX, e.lastY = cx, cy
		e.gestureBefore = SnapshotPixels(e.ActiveObject())
		e.tool.PointerDown(e, cx, cy, button)
	case pressed && e.pointerDown:
		if cx != e.lastX || cy != e.lastY {
			e.tool.PointerMove(e, cx, cy)
			e.lastX, e.lastY = cx, cy
		}
	case !pressed && e.pointerDown:
		e.tool.PointerUp(e, cx, cy)
		e.pointerDown = false
		e.commitGesture()
	}
}

// commitGesture snapshots the gesture result and pushes an undoable action
// when anything actually changed.
func (e *Editor) commitGesture() {
	before := e.gestureBefore
	e.gestureBefore = nil
	obj := e.ActiveObject()
	if obj == nil || before == nil {
		return
	}
	action, ok := NewPixelChangeAction(obj.ID, before, SnapshotPixels(obj))
	if !ok {
		return
	}
	e.log.Push(action)
	e.emit(EditEvent{Type: EventActionCommitted, ObjectID: obj.ID, Action: &action})
}

// processKeys handles undo/redo and tool switching shortcuts.
func (e *Editor) processKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)

	undoKey := ctrl && ebiten.IsKeyPressed(ebiten.KeyZ)
	if undoKey && !e.prevUndoKey {
		e.UndoEdit()
	}
	e.prevUndoKey = undoKey

	redoKey := ctrl && ebiten.IsKeyPressed(ebiten.KeyY)
	if redoKey && !e.prevRedoKey {
		e.RedoEdit()
	}
	e.prevRedoKey = redoKey

	penKey := ebiten.IsKeyPressed(ebiten.KeyP)
	if penKey && !e.prevPenKey {
		e.SetTool(e.pen)
	}
	e.prevPenKey = penKey

	eraserKey := ebiten.IsKeyPressed(ebiten.KeyE)
	if eraserKey && !e.prevEraserKey {
		e.SetTool(e.eraser)
	}
	e.prevEraserKey = eraserKey

	fillKey := ebiten.IsKeyPressed(ebiten.KeyG)
	if fillKey && !e.prevFillKey {
		e.SetTool(e.fill)
	}
	e.prevFillKey = fillKey
}

// processWheel retargets the zoom tween on scroll.
func (e *Editor) processWheel() {
	_, wy := ebiten.Wheel()
	if wy == 0 {
		return
	}
	target := e.zoom * math.Pow(1.25, wy)
	if target < 1 {
		target = 1
	}
	if target > 64 {
		target = 64
	}
	e.zoomTween = gween.New(float32(e.zoom), float32(target), 0.15, ease.OutQuad)
}

// UndoEdit undoes the most recent action. No-op with an empty log.
func (e *Editor) UndoEdit() {
	next, action, ok := e.log.Undo(e.asset)
	if !ok {
		return
	}
	e.asset = next
	e.dirty = true
	e.emit(EditEvent{Type: EventUndo, ObjectID: action.ObjectID, Action: action})
}

// RedoEdit reapplies the most recently undone action.
func (e *Editor) RedoEdit() {
	next, action, ok := e.log.Redo(e.asset)
	if !ok {
		return
	}
	e.asset = next
	e.dirty = true
	e.emit(EditEvent{Type: EventRedo, ObjectID: action.ObjectID, Action: action})
}

// PickColor samples the composited raster at a centered canvas coordinate
// — the eyedropper. ok is false outside the canvas or over a fully
// transparent pixel.
func (e *Editor) PickColor(x, y int) (string, bool) {
	half := e.size / 2
	px, py := x+half, y+half
	if px < 0 || py < 0 || px >= e.size || py >= e.size {
		return "", false
	}
	if e.raster == nil || e.dirty {
		e.raster = RenderAsset(e.asset, e.size)
		e.renderGhost(e.raster)
		e.dirty = false
	}
	i := e.raster.PixOffset(px, py)
	if e.raster.Pix[i+3] == 0 {
		return "", false
	}
	return FormatColor(e.raster.Pix[i], e.raster.Pix[i+1], e.raster.Pix[i+2], e.raster.Pix[i+3]), true
}

func (e *Editor) emit(event EditEvent) {
	if e.sink != nil {
		e.sink.EmitEvent(event)
	}
}

// screenToCanvas maps a screen position to centered canvas cell
// coordinates. The result is integral: tools round, so handing them the
// cell directly keeps clicks and curve anchors on the same grid.
func (e *Editor) screenToCanvas(sx, sy float64) (float64, float64) {
	half := float64(e.size / 2)
	return math.Floor((sx-e.panX)/e.zoom) - half,
		math.Floor((sy-e.panY)/e.zoom) - half
}

// --- Drawing ---

// Draw composites the scene (re-rendering only when an edit dirtied it),
// overlays ghosts, and presents the raster scaled by the current zoom.
// Implements the draw half of the ebiten.Game contract.
func (e *Editor) Draw(screen *ebiten.Image) {
	if e.dirty || e.raster == nil {
		e.raster = RenderAsset(e.asset, e.size)
		e.renderGhost(e.raster)
		e.dirty = false
	}
	if e.display == nil {
		e.display = ebiten.NewImage(e.size, e.size)
	}
	e.display.WritePixels(e.raster.Pix)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(e.zoom, e.zoom)
	op.GeoM.Translate(e.panX, e.panY)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(e.display, &op)
}

// renderGhost blends the ghost source cell's pixels into the authored
// cell's position at the animation's ghosting alpha.
func (e *Editor) renderGhost(dst *image.RGBA) {
	if e.anim == nil || !e.anim.Ghosting {
		return
	}
	source := -1
	for _, g := range e.ghosts {
		if g.Target == e.cell {
			source = g.Source
			break
		}
	}
	if source < 0 {
		return
	}
	obj := e.ActiveObject()
	if obj == nil {
		return
	}

	cellW, cellH := e.anim.Grid.CellSize(e.size)
	dx := (e.cell%e.anim.Grid.Cols - source%e.anim.Grid.Cols) * cellW
	dy := (e.cell/e.anim.Grid.Cols - source/e.anim.Grid.Cols) * cellH
	half := e.size / 2
	alpha := e.anim.GhostingAlpha
	if alpha <= 0 {
		alpha = 0.5
	}

	for key, cs := range ExtractCell(obj, e.anim.Grid, source, e.size) {
		x, y, ok := ParsePixelKey(key)
		if !ok {
			continue
		}
		px, py := x+dx+half, y+dy+half
		if px < 0 || py < 0 || px >= e.size || py >= e.size {
			continue
		}
		r, g, b, a := ParseColor(cs)
		blendPixel(dst, dst.PixOffset(px, py), r, g, b, clamp255(float64(a)*alpha))
	}
}

// Layout uses the outside size as the logical screen size, so one screen
// pixel stays one logical pixel at every window size.
func (e *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// --- Run helper ---

// RunConfig configures the Run convenience wrapper.
type RunConfig struct {
	Title  string
	Width  int
	Height int
}

// Run opens a window and drives the editor with ebiten.RunGame. For full
// control, embed the editor in your own ebiten.Game instead.
func Run(e *Editor, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	return ebiten.RunGame(e)
}
