package sprig

import "math"

// PixelDelta is a batched set of pixel writes keyed by "x,y". The value
// Erased deletes the pixel instead of coloring it.
type PixelDelta map[string]string

// Erased is the PixelDelta value that removes a pixel. The empty string is
// never a valid color, so the two value spaces cannot collide.
const Erased = ""

// ToolContext is the narrow boundary drawing tools operate through. It
// exposes canvas bounds, the current draw colors, pixel access on the
// active object, and the "next visual tick" scheduling primitive — nothing
// else crosses into the tool layer.
//
// ScheduleTick registers fn to run once on the next visual tick, replacing
// any previously scheduled callback; CancelTick discards a pending one.
// Together they give tools a deterministic way to coalesce input without
// knowing what drives the ticks.
type ToolContext interface {
	CanvasSize() int
	LeftColor() string
	RightColor() string
	PixelAt(x, y int) (color string, ok bool)
	ApplyPixels(delta PixelDelta)
	ActiveObject() *PixelObject
	SelectedObject() *PixelObject
	ScheduleTick(fn func())
	CancelTick()
}

// Tool is the capability set shared by all drawing tools. A gesture is one
// PointerDown, any number of PointerMoves, then one PointerUp; Deactivate
// may interrupt a gesture and must leave no partial state behind.
type Tool interface {
	Activate(ctx ToolContext)
	Deactivate(ctx ToolContext)
	PointerDown(ctx ToolContext, x, y float64, button MouseButton)
	PointerMove(ctx ToolContext, x, y float64)
	PointerUp(ctx ToolContext, x, y float64)
}

// ToolConfig tunes the stroke tools' curve smoothing.
type ToolConfig struct {
	// Smoothing scales the curve tangents, in [0, 1]. 0 draws straight
	// segments between input points.
	Smoothing float64
	// MinSpacing is the densest curve sample distance in pixels.
	MinSpacing float64
}

// DefaultToolConfig is the stroke tuning used when a zero ToolConfig is given.
var DefaultToolConfig = ToolConfig{Smoothing: 0.75, MinSpacing: 0.5}

func (c ToolConfig) orDefault() ToolConfig {
	if c.MinSpacing <= 0 {
		c.MinSpacing = DefaultToolConfig.MinSpacing
	}
	if c.Smoothing == 0 {
		c.Smoothing = DefaultToolConfig.Smoothing
	}
	return c
}

// --- Pen / eraser ---

// StrokeTool is the pen and eraser state machine. All per-gesture state
// lives on the instance and is threaded through the Tool calls — there is
// no package-level tool state.
//
// PointerDown commits one pixel immediately. PointerMove only buffers raw
// points and schedules a drain on the next visual tick; the drain smooths
// the buffered points into a curve anchored at the last committed point and
// writes every sample in one batch. PointerUp force-drains synchronously.
// No input point is ever discarded without being drawn or merged into a
// curve — except by an explicit Deactivate, which cancels the pending tick
// and drops the buffer deterministically.
type StrokeTool struct {
	cfg   ToolConfig
	erase bool

	down        bool
	color       string
	buffer      []Point
	last        Point
	tickPending bool
	draining    bool
}

// NewPenTool creates a pen that draws with the gesture button's color.
func NewPenTool(cfg ToolConfig) *StrokeTool {
	return &StrokeTool{cfg: cfg.orDefault()}
}

// NewEraserTool creates an eraser: the identical state machine writing
// Erased instead of a color.
func NewEraserTool(cfg ToolConfig) *StrokeTool {
	return &StrokeTool{cfg: cfg.orDefault(), erase: true}
}

// Activate is a no-op; stroke tools hold no cross-gesture state.
func (p *StrokeTool) Activate(ToolContext) {}

// Deactivate cancels any pending drain and discards buffered points.
// Already-applied deltas stay; nothing half-drawn is left behind.
func (p *StrokeTool) Deactivate(ctx ToolContext) {
	if p.tickPending {
		ctx.CancelTick()
	}
	p.reset()
}

// PointerDown starts a gesture: writes one pixel at the press point and
// records it as the stroke anchor.
func (p *StrokeTool) PointerDown(ctx ToolContext, x, y float64, button MouseButton) {
	p.reset()
	p.down = true
	p.color = p.strokeColor(ctx, button)
	p.last = Point{X: x, Y: y}

	delta := PixelDelta{}
	writeSample(delta, ctx.CanvasSize(), p.last, p.color)
	if len(delta) > 0 {
		ctx.ApplyPixels(delta)
	}
}

// PointerMove buffers the raw point and schedules a drain if none is
// pending. Nothing is drawn here; the drain owns all curve output.
func (p *StrokeTool) PointerMove(ctx ToolContext, x, y float64) {
	if !p.down {
		return
	}
	p.buffer = append(p.buffer, Point{X: x, Y: y})
	if !p.tickPending {
		p.tickPending = true
		ctx.ScheduleTick(func() { p.drain(ctx) })
	}
}

// PointerUp force-drains any remaining buffer synchronously, then clears
// all per-gesture state.
func (p *StrokeTool) PointerUp(ctx ToolContext, x, y float64) {
	if !p.down {
		return
	}
	if p.tickPending {
		ctx.CancelTick()
		p.tickPending = false
	}
	p.drain(ctx)
	p.reset()
}

// drain smooths the buffered points (anchored at the last committed point)
// into a curve and writes every sample as one batch. Re-entrancy guarded:
// if ApplyPixels feeds back into PointerMove, the new points are buffered
// and a fresh tick is scheduled instead of recursing.
func (p *StrokeTool) drain(ctx ToolContext) {
	p.tickPending = false
	if p.draining {
		return
	}
	if len(p.buffer) == 0 {
		return
	}
	p.draining = true
	defer func() { p.draining = false }()

	pts := make([]Point, 0, len(p.buffer)+1)
	pts = append(pts, p.last)
	pts = append(pts, p.buffer...)
	p.buffer = p.buffer[:0]

	curve := smoothStroke(pts, p.cfg.Smoothing, p.cfg.MinSpacing)
	if len(curve) == 0 {
		return
	}

	size := ctx.CanvasSize()
	delta := PixelDelta{}
	for _, sample := range curve {
		writeSample(delta, size, sample, p.color)
	}
	p.last = curve[len(curve)-1]
	if len(delta) > 0 {
		ctx.ApplyPixels(delta)
	}

	// Input that arrived re-entrantly during ApplyPixels gets its own tick.
	if len(p.buffer) > 0 && !p.tickPending {
		p.tickPending = true
		ctx.ScheduleTick(func() { p.drain(ctx) })
	}
}

func (p *StrokeTool) strokeColor(ctx ToolContext, button MouseButton) string {
	if p.erase {
		return Erased
	}
	if button == MouseButtonRight {
		return ctx.RightColor()
	}
	return ctx.LeftColor()
}

func (p *StrokeTool) reset() {
	p.down = false
	p.buffer = nil
	p.last = Point{}
	p.tickPending = false
}

// writeSample rounds a curve sample to its pixel cell and records it in the
// delta if inside the canvas. Later writes win on duplicate keys within the
// same drain.
func writeSample(delta PixelDelta, size int, pt Point, color string) {
	x := int(math.Round(pt.X))
	y := int(math.Round(pt.Y))
	half := size / 2
	if x < -half || y < -half || x >= half || y >= half {
		return
	}
	delta[PixelKey(x, y)] = color
}

// --- Flood fill ---

// FillTool replaces a 4-connected same-colored region with the gesture
// button's color. It acts entirely on PointerDown; moves and releases are
// ignored.
type FillTool struct{}

// NewFillTool creates a flood fill tool.
func NewFillTool() *FillTool {
	return &FillTool{}
}

// Activate is a no-op.
func (f *FillTool) Activate(ToolContext) {}

// Deactivate is a no-op; fill holds no gesture state.
func (f *FillTool) Deactivate(ToolContext) {}

// PointerDown flood-fills from the pressed cell. Pixels with no entry form
// a single implicit "empty" color class and fill like any other region.
// Filling a region with its own color is a no-op.
func (f *FillTool) PointerDown(ctx ToolContext, x, y float64, button MouseButton) {
	size := ctx.CanvasSize()
	half := size / 2
	sx := int(math.Round(x))
	sy := int(math.Round(y))
	if sx < -half || sy < -half || sx >= half || sy >= half {
		return
	}

	fill := ctx.LeftColor()
	if button == MouseButtonRight {
		fill = ctx.RightColor()
	}
	target, _ := ctx.PixelAt(sx, sy) // missing entry reads as the empty class ""
	if target == fill {
		return
	}

	// Iterative BFS; the visited set bounds the walk alongside the canvas
	// extent, so a uniform region of N cells is expanded exactly N times.
	type cell struct{ x, y int }
	queue := []cell{{sx, sy}}
	visited := map[cell]bool{{sx, sy}: true}
	delta := PixelDelta{}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		delta[PixelKey(c.x, c.y)] = fill

		for _, n := range [4]cell{{c.x + 1, c.y}, {c.x - 1, c.y}, {c.x, c.y + 1}, {c.x, c.y - 1}} {
			if n.x < -half || n.y < -half || n.x >= half || n.y >= half || visited[n] {
				continue
			}
			current, _ := ctx.PixelAt(n.x, n.y)
			if current != target {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	ctx.ApplyPixels(delta)
}

// PointerMove is ignored; fill does not participate in drags.
func (f *FillTool) PointerMove(ToolContext, float64, float64) {}

// PointerUp is ignored.
func (f *FillTool) PointerUp(ToolContext, float64, float64) {}
