package ecs

import (
	"github.com/phanxgames/tendril"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GraphEventType is the Donburi event type for tendril graph events.
// Subscribe to this in your ECS systems to receive node lifecycle and
// output-change events.
var GraphEventType = events.NewEventType[tendril.GraphEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Graph
// events are published to GraphEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) tendril.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event tendril.GraphEvent) {
	GraphEventType.Publish(s.world, event)
}
