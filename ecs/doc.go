// Package ecs provides ECS adapters for rowan tilemaps.
//
// Two bridges are offered. [SpawnObjects] turns the object records of a
// parsed map layer into [Donburi] entities carrying an [Object] component,
// so gameplay systems can query spawn points, triggers, and placed tiles
// like any other entity. [PublishCollisions] wraps a Donburi world in a
// rowan collision callback that republishes every tile hit as a typed
// event; subscribe to [TileCollisionEventType] to receive them.
//
// Usage:
//
//	entries := ecs.SpawnObjects(world, m, "things")
//	m.SetTileIndexCallback([]int{spikeIndex}, ecs.PublishCollisions(world), nil, nil)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
