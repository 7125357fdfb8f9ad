package ecs

import (
	"github.com/phanxgames/sprig"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EditEventType is the Donburi event type for sprig edit events. Subscribe
// to this in your ECS systems to receive action, undo/redo, and playback
// notifications.
var EditEventType = events.NewEventType[sprig.EditEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Edit
// events are published to EditEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) sprig.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event sprig.EditEvent) {
	EditEventType.Publish(s.world, event)
}
