package ecs

import (
	"github.com/phanxgames/moonlight"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// PageEventType is the Donburi event type for moonlight page events.
var PageEventType = events.NewEventType[moonlight.PageEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Events are queued on PageEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) moonlight.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) PublishPageEvent(event moonlight.PageEvent) {
	PageEventType.Publish(s.world, event)
}
