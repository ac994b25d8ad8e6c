// Package ecs bridges moonlight page events into a [Donburi] world.
//
// [NewDonburiSink] returns a [moonlight.EventSink] that publishes every
// navigation, menu and modal event as a typed Donburi event. Subscribe to
// [PageEventType] in your ECS systems to receive them:
//
//	sink := ecs.NewDonburiSink(world)
//	backdrop.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
