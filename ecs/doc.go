// Package ecs provides ECS adapters for sprig's edit event system.
//
// The primary adapter is [NewDonburiSink], which bridges sprig edit events
// (action committed, undo, redo, frame advanced) into a [Donburi] world as
// typed events. Subscribe to [EditEventType] in your ECS systems to react
// to document edits.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	editor.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
