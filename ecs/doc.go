// Package ecs provides ECS adapters for tendril's graph event stream.
//
// The primary adapter is [NewDonburiSink], which bridges graph events
// (node registered/unregistered, output changed) into a [Donburi] world as
// typed events. Subscribe to [GraphEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	store.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
