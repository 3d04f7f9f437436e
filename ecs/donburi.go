package ecs

import (
	"github.com/emberforge/rowan"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ObjectData is the component payload for an entity spawned from a map
// object record: the record's shape, placement, and editor properties.
type ObjectData struct {
	Name          string
	Type          string
	Kind          rowan.ObjectKind
	X, Y          float64
	Width, Height float64
	GID           int
	Points        []rowan.Vec2
	Properties    map[string]any
}

// Object is the Donburi component carrying an object record.
var Object = donburi.NewComponentType[ObjectData]()

// SpawnObjects creates one entity per object record of the named object
// layer of m, each carrying an Object component. Returns the created
// entries; an unknown layer name yields none.
func SpawnObjects(world donburi.World, m *rowan.Tilemap, layerName string) []*donburi.Entry {
	objs := m.Objects[layerName]
	entries := make([]*donburi.Entry, 0, len(objs))
	for _, o := range objs {
		entry := world.Entry(world.Create(Object))
		donburi.SetValue(entry, Object, ObjectData{
			Name:       o.Name,
			Type:       o.Type,
			Kind:       o.Kind,
			X:          o.X,
			Y:          o.Y,
			Width:      o.Width,
			Height:     o.Height,
			GID:        o.GID,
			Points:     o.Points,
			Properties: o.Properties,
		})
		entries = append(entries, entry)
	}
	return entries
}

// TileCollisionEvent is the Donburi event published for every tile hit
// routed through PublishCollisions.
type TileCollisionEvent struct {
	Tile *rowan.Tile
	Body any
}

// TileCollisionEventType is the Donburi event type for tile collision hits.
// Subscribe to this in your ECS systems and drain it with ProcessEvents.
var TileCollisionEventType = events.NewEventType[TileCollisionEvent]()

// PublishCollisions returns a collision callback that republishes every hit
// into the world as a TileCollisionEvent. The returned callback always
// allows the physics separation to proceed.
func PublishCollisions(world donburi.World) rowan.CollisionFunc {
	return func(_ any, tile *rowan.Tile, body any) bool {
		TileCollisionEventType.Publish(world, TileCollisionEvent{Tile: tile, Body: body})
		return true
	}
}
