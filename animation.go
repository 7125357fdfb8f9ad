package sprig

import (
	"encoding/json"
	"fmt"
)

// GridConfig partitions the square canvas into rows × cols equal cells.
// Cell index 0 is the top-left cell; indices advance row-major.
type GridConfig struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// CellCount returns the number of grid cells.
func (g GridConfig) CellCount() int {
	return g.Rows * g.Cols
}

// CellSize returns a cell's width and height for the given canvas size.
func (g GridConfig) CellSize(canvasSize int) (w, h int) {
	return canvasSize / g.Cols, canvasSize / g.Rows
}

// AnimationFrame is one playback step. Two historical schema shapes coexist:
// CellFrame references a grid cell by geometry, ObjectFrame references a
// pixel object by id. The import boundary must normalize an animation to a
// single shape; the player runs whichever shape its frames carry.
type AnimationFrame interface {
	// FrameDuration is how long the frame shows, in milliseconds.
	FrameDuration() float64
	isFrame()
}

// CellFrame shows one grid cell of the owning object's canvas.
type CellFrame struct {
	CellIndex int     `json:"cellIndex"`
	Duration  float64 `json:"duration"`
}

// FrameDuration returns the frame's duration in milliseconds.
func (f CellFrame) FrameDuration() float64 { return f.Duration }

func (CellFrame) isFrame() {}

// ObjectFrame shows one pixel object for its duration.
type ObjectFrame struct {
	ObjectID string  `json:"objectId"`
	Duration float64 `json:"duration"`
}

// FrameDuration returns the frame's duration in milliseconds.
func (f ObjectFrame) FrameDuration() float64 { return f.Duration }

func (ObjectFrame) isFrame() {}

// FrameList is an ordered frame sequence with schema-aware JSON handling:
// decoding detects the cellIndex and objectId shapes per frame.
type FrameList []AnimationFrame

// UnmarshalJSON decodes frames of either historical shape. A frame carrying
// neither a cellIndex nor an objectId key is a schema error.
func (fl *FrameList) UnmarshalJSON(data []byte) error {
	var raw []struct {
		CellIndex *int    `json:"cellIndex"`
		ObjectID  *string `json:"objectId"`
		Duration  float64 `json:"duration"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse frames: %w", err)
	}
	out := make(FrameList, 0, len(raw))
	for i, f := range raw {
		switch {
		case f.CellIndex != nil:
			out = append(out, CellFrame{CellIndex: *f.CellIndex, Duration: f.Duration})
		case f.ObjectID != nil:
			out = append(out, ObjectFrame{ObjectID: *f.ObjectID, Duration: f.Duration})
		default:
			return fmt.Errorf("parse frames: frame %d has neither cellIndex nor objectId", i)
		}
	}
	*fl = out
	return nil
}

// MarshalJSON encodes each frame in its own shape.
func (fl FrameList) MarshalJSON() ([]byte, error) {
	out := make([]any, len(fl))
	for i, f := range fl {
		out[i] = f
	}
	return json.Marshal(out)
}

// SpriteAnimation is a named frame sequence over a grid layout, plus the
// authoring flags the editor honors (ghosting, sticky grid).
type SpriteAnimation struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Frames        FrameList  `json:"frames"`
	Loop          bool       `json:"loop"`
	Playing       bool       `json:"playing"`
	Grid          GridConfig `json:"gridConfig"`
	StickyGrid    bool       `json:"stickyGrid"`
	Ghosting      bool       `json:"ghosting"`
	GhostingAlpha float64    `json:"ghostingAlpha"`
}

// ExtractCell slices an object's pixel map down to the pixels inside one
// grid cell. Keys stay in full-canvas coordinates: a cell's local
// [0,cellW)×[0,cellH) range maps to cellCol*cellW - half + localX (and the
// analogous Y), so the result composites back exactly where it came from.
func ExtractCell(obj *PixelObject, grid GridConfig, index, canvasSize int) map[string]string {
	out := map[string]string{}
	if obj == nil || grid.Rows <= 0 || grid.Cols <= 0 || index < 0 || index >= grid.CellCount() {
		return out
	}
	cellW, cellH := grid.CellSize(canvasSize)
	half := canvasSize / 2
	col := index % grid.Cols
	row := index / grid.Cols

	for localY := 0; localY < cellH; localY++ {
		y := row*cellH - half + localY
		for localX := 0; localX < cellW; localX++ {
			x := col*cellW - half + localX
			key := PixelKey(x, y)
			if color, ok := obj.Pixels[key]; ok {
				out[key] = color
			}
		}
	}
	return out
}

// GhostOverlay names a grid cell (Target) and the neighboring cell whose
// content shows semi-transparently behind it (Source) while authoring.
type GhostOverlay struct {
	Target int
	Source int
}

// CalculateGhostOverlays returns the ghost geometry for a grid: every cell
// i > 0 ghosts cell i-1, and cell 0 ghosts the last cell only when the
// animation loops and there is more than one cell. The result depends only
// on grid shape and the loop flag, never on which frames exist.
func CalculateGhostOverlays(grid GridConfig, loop bool) []GhostOverlay {
	n := grid.CellCount()
	var out []GhostOverlay
	if loop && n > 1 {
		out = append(out, GhostOverlay{Target: 0, Source: n - 1})
	}
	for i := 1; i < n; i++ {
		out = append(out, GhostOverlay{Target: i, Source: i - 1})
	}
	return out
}

// Player advances one animation on the caller's update clock. Like
// everything in sprig it is frame-driven and single-threaded: call Update
// with the elapsed milliseconds each tick. A player owns at most one
// advancing clock — Start always discards any in-progress frame timing
// before beginning a new play cycle.
type Player struct {
	anim    *SpriteAnimation
	frame   int
	elapsed float64
	playing bool

	// OnFrame, when set, fires after each frame advance with the new index.
	OnFrame func(frame int)
}

// NewPlayer creates a stopped player for the animation.
func NewPlayer(anim *SpriteAnimation) *Player {
	return &Player{anim: anim}
}

// Start begins playback from frame 0, cancelling any in-progress timing
// from a previous play cycle.
func (p *Player) Start() {
	p.frame = 0
	p.elapsed = 0
	p.playing = len(p.anim.Frames) > 0
	p.anim.Playing = p.playing
}

// Stop halts playback, keeping the current frame.
func (p *Player) Stop() {
	p.playing = false
	p.elapsed = 0
	p.anim.Playing = false
}

// Update advances playback by dt milliseconds, stepping over as many frames
// as the elapsed time covers. On passing the final frame the player loops
// to frame 0 if the animation loops, otherwise it stops there and clears
// the playing flag.
func (p *Player) Update(dt float64) {
	if !p.playing || len(p.anim.Frames) == 0 {
		return
	}
	p.elapsed += dt
	for {
		dur := p.anim.Frames[p.frame].FrameDuration()
		if dur <= 0 || p.elapsed < dur {
			return
		}
		p.elapsed -= dur
		if p.frame+1 >= len(p.anim.Frames) {
			if p.anim.Loop {
				p.frame = 0
			} else {
				p.playing = false
				p.anim.Playing = false
				p.elapsed = 0
				return
			}
		} else {
			p.frame++
		}
		if p.OnFrame != nil {
			p.OnFrame(p.frame)
		}
	}
}

// Frame returns the current frame index.
func (p *Player) Frame() int { return p.frame }

// Playing reports whether playback is running.
func (p *Player) Playing() bool { return p.playing }
