// Package rowan is a tilemap engine for [Ebitengine].
//
// Rowan provides the sparse 2D tile grid, per-tile collision metadata,
// incremental dirty-region rendering, and a tolerant parser for [Tiled]
// JSON/CSV exports that a tile-based 2D game needs.
//
// # Quick start
//
// Parse a Tiled JSON export, bind a tileset image, and render a layer:
//
//	tm, err := rowan.ParseTiledJSON(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	tm.AddTilesetImage("ground", "ground", source, 0, 0, 0, 0, 0)
//
//	view := rowan.NewTilemapLayer(tm, 0, 640, 480)
//	// each frame:
//	view.Render(camView)
//	view.Draw(screen)
//
// Render only repaints what changed: a still camera is a no-op frame, a
// small scroll shifts the existing canvas and repaints the newly exposed
// edge strips, and only structural changes (tile edits, resize) force a
// full redraw.
//
// # Data model
//
// A [Tilemap] owns an ordered list of [Layer] grids, the [Tileset] and
// [ImageCollection] lists, and a global gid lookup table. [Tile] is a
// single cell: grid position, pixel geometry, tile-type index (-1 means
// empty), rotation/flip state, four face-collision flags, and an optional
// collision callback invoked by an external physics collaborator.
//
// The mutation API ([Tilemap.PutTile], [Tilemap.Copy]/[Tilemap.Paste],
// [Tilemap.Fill], [Tilemap.SetCollision], ...) marks layers dirty and
// keeps the "interesting faces" optimization current via
// [Tilemap.CalculateFaces]. Many sequential collision updates can be
// batched with [Tilemap.SetPreventRecalculate].
//
// # Collaborators
//
// Rowan deliberately stops at narrow interfaces: images come from an
// [ImageSource], the camera is any world-space view [Rect] (see
// [Scroller] for a gween-animated provider), and physics reads
// [Tile.Collides] and face flags itself.
//
// Rowan is single-threaded and frame-driven; it provides no locking.
//
// [Ebitengine]: https://ebitengine.org
// [Tiled]: https://www.mapeditor.org
package rowan
