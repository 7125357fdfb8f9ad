package sprig

// Color represents an RGBA color with components in [0, 1]. Used for object
// tints, where it acts as a multiply blend with A applied as a final
// multiplier over the whole pixel.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorAdjustments are post-effects applied to an object's raster after the
// tint. Each component is in [-1, 1]; zero is the identity.
type ColorAdjustments struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
}

// IsIdentity reports whether applying c would leave every pixel unchanged.
func (c ColorAdjustments) IsIdentity() bool {
	return c.Brightness == 0 && c.Contrast == 0 && c.Saturation == 0
}

// Point is a 2D point in canvas coordinates. Tools accumulate raw pointer
// input as Points; pixel writes round to the nearest integer cell.
type Point struct {
	X, Y float64
}

// MouseButton identifies a pointer button. The pen and fill tools pick the
// left or right draw color based on the button that started the gesture.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button
)

// EditEventType identifies a kind of editor event forwarded to an EventSink.
type EditEventType uint8

const (
	EventActionCommitted EditEventType = iota // an undoable action was pushed to the log
	EventUndo                                 // an action was undone
	EventRedo                                 // an action was redone
	EventFrameAdvanced                        // an animation player moved to a new frame
)

// EditEvent carries editor event data for the ECS bridge.
type EditEvent struct {
	Type        EditEventType
	ObjectID    string
	AnimationID string
	Frame       int
	// Action is set for EventActionCommitted, EventUndo, and EventRedo.
	Action *UndoableAction
}

// EventSink is the interface for optional ECS integration. When set on an
// Editor, edit events are forwarded to it. See the sprig/ecs submodule for a
// Donburi-backed implementation.
type EventSink interface {
	EmitEvent(event EditEvent)
}
