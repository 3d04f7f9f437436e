package rowan

import (
	"log"
	"math/rand/v2"
)

// LayerRef identifies a layer in Tilemap operations: nil selects the current
// layer, an int is a layer index, a string is a layer name, and a *Layer or
// *TilemapLayer selects the layer it is bound to.
type LayerRef any

// tileSource locates a gid within the tileset list: source-pixel offset plus
// tileset ordinal. Unmapped gids carry tileset == noTileset.
type tileSource struct {
	x, y    int
	tileset int
}

const noTileset = -1

// Tilemap owns the ordered layer list, the tileset and image-collection
// lists, the global gid lookup table, and the map-wide collision-index set.
//
// Layer-scoped operations accept a LayerRef and default to the current
// layer (see SetLayer) when passed nil.
type Tilemap struct {
	// Width and Height are the base layer dimensions in tiles.
	Width  int
	Height int
	// TileWidth and TileHeight are the map's tile pixel dimensions.
	TileWidth  int
	TileHeight int
	// Orientation from the map data. Only "orthogonal" maps parse.
	Orientation string
	// Format records which parser produced this map.
	Format Format
	// Version is the map format version from the editor export.
	Version float64
	// Properties from the map editor.
	Properties map[string]any

	// Layers is the ordered layer list, addressable by index or name.
	Layers []*Layer
	// Tilesets is the ordered list of uniform tilesets.
	Tilesets []*Tileset
	// ImageCollections is the ordered list of non-uniform tilesets.
	ImageCollections []*ImageCollection
	// Objects maps object-layer name to its object records.
	Objects map[string][]*Object
	// Collision maps object-layer name to its polyline records only,
	// consumed by an external physics collaborator.
	Collision map[string][]*Object
	// Images holds the image-layer records.
	Images []*ImageLayer

	// tiles is the global gid lookup table, rebuilt deterministically
	// whenever the tileset list changes.
	tiles []tileSource
	// collideIndexes is the map-level set of colliding tile indexes.
	collideIndexes map[int]struct{}

	currentLayer       int
	preventRecalculate bool
	pendingRecalc      map[int]struct{}

	// tilesetRevision bumps on structural tileset changes so render views
	// can invalidate their per-gid caches.
	tilesetRevision int
}

// NewTilemap creates an empty map with the given dimensions. Use Create or
// CreateBlankLayer to add layers.
func NewTilemap(width, height, tileWidth, tileHeight int) *Tilemap {
	return &Tilemap{
		Width:          width,
		Height:         height,
		TileWidth:      tileWidth,
		TileHeight:     tileHeight,
		Orientation:    "orthogonal",
		Objects:        make(map[string][]*Object),
		Collision:      make(map[string][]*Object),
		collideIndexes: make(map[int]struct{}),
		pendingRecalc:  make(map[int]struct{}),
	}
}

// WidthInPixels returns the map width in pixels.
func (m *Tilemap) WidthInPixels() int { return m.Width * m.TileWidth }

// HeightInPixels returns the map height in pixels.
func (m *Tilemap) HeightInPixels() int { return m.Height * m.TileHeight }

// TilesetRevision increments whenever the tileset list changes structurally.
// Render views compare it to decide when their gid caches are stale.
func (m *Tilemap) TilesetRevision() int { return m.tilesetRevision }

// --- Layer management ---

// LayerIndex resolves a LayerRef to a layer index, or -1 (logged) when the
// reference doesn't name a layer of this map.
func (m *Tilemap) LayerIndex(ref LayerRef) int {
	switch v := ref.(type) {
	case nil:
		return m.currentLayer
	case int:
		if v >= 0 && v < len(m.Layers) {
			return v
		}
	case string:
		for i, l := range m.Layers {
			if l.Name == v {
				return i
			}
		}
	case *Layer:
		for i, l := range m.Layers {
			if l == v {
				return i
			}
		}
	case *TilemapLayer:
		if v.Map == m {
			return v.index
		}
	}
	if globalDebug {
		log.Printf("rowan: layer reference %v not found", ref)
	}
	return -1
}

// LayerData resolves a LayerRef to its Layer, or nil when unknown.
func (m *Tilemap) LayerData(ref LayerRef) *Layer {
	i := m.LayerIndex(ref)
	if i < 0 {
		return nil
	}
	return m.Layers[i]
}

// SetLayer changes the current layer, the default target of layer-scoped
// operations called with a nil LayerRef.
func (m *Tilemap) SetLayer(ref LayerRef) {
	if i := m.LayerIndex(ref); i >= 0 {
		m.currentLayer = i
	}
}

// CurrentLayer returns the index of the current layer.
func (m *Tilemap) CurrentLayer() int { return m.currentLayer }

// CreateBlankLayer allocates a new layer fully populated with empty tiles
// and appends it. Returns nil (logged) when a layer with that name exists.
// Non-positive tile dimensions fall back to the map's.
func (m *Tilemap) CreateBlankLayer(name string, width, height, tileWidth, tileHeight int) *Layer {
	for _, l := range m.Layers {
		if l.Name == name {
			if globalDebug {
				log.Printf("rowan: layer %q already exists", name)
			}
			return nil
		}
	}
	if tileWidth <= 0 {
		tileWidth = m.TileWidth
	}
	if tileHeight <= 0 {
		tileHeight = m.TileHeight
	}
	l := NewLayer(name, width, height, tileWidth, tileHeight)
	m.Layers = append(m.Layers, l)
	m.currentLayer = len(m.Layers) - 1
	if width > m.Width {
		m.Width = width
	}
	if height > m.Height {
		m.Height = height
	}
	return l
}

// Create drops all existing layers and starts the map over with a single
// blank layer of the given dimensions.
func (m *Tilemap) Create(name string, width, height, tileWidth, tileHeight int) *Layer {
	m.Layers = nil
	m.currentLayer = 0
	m.Width = width
	m.Height = height
	if tileWidth > 0 {
		m.TileWidth = tileWidth
	}
	if tileHeight > 0 {
		m.TileHeight = tileHeight
	}
	return m.CreateBlankLayer(name, width, height, tileWidth, tileHeight)
}

// --- Tileset management ---

// TilesetIndex returns the ordinal of the named tileset, or -1.
func (m *Tilemap) TilesetIndex(name string) int {
	for i, ts := range m.Tilesets {
		if ts.Name == name {
			return i
		}
	}
	return -1
}

// AddTilesetImage binds an image to a tileset and rebuilds the global gid
// table.
//
// For maps parsed from Tiled JSON, name must match a tileset entry from the
// map data; its stored slicing metadata is reused and tileWidth through
// firstGID are ignored. For CSV or blank maps a new tileset is registered
// with the given slicing (non-positive tile dimensions fall back to the
// map's, firstGID <= 0 picks the next free gid).
//
// Returns nil (logged) when the image key is unknown or a Tiled map has no
// tileset entry with that name.
func (m *Tilemap) AddTilesetImage(name, key string, source ImageSource, tileWidth, tileHeight, margin, spacing, firstGID int) *Tileset {
	if key == "" {
		key = name
	}
	if source == nil || !source.CheckImageKey(key) {
		if globalDebug {
			log.Printf("rowan: image key %q not found, tileset %q not bound", key, name)
		}
		return nil
	}
	img := source.Image(key)

	if i := m.TilesetIndex(name); i >= 0 {
		ts := m.Tilesets[i]
		ts.SetImage(img)
		m.rebuildTileIndex()
		return ts
	}

	if m.Format == FormatTiledJSON {
		if globalDebug {
			log.Printf("rowan: map data has no tileset named %q", name)
		}
		return nil
	}

	if tileWidth <= 0 {
		tileWidth = m.TileWidth
	}
	if tileHeight <= 0 {
		tileHeight = m.TileHeight
	}
	if firstGID <= 0 {
		firstGID = 1
		for _, ts := range m.Tilesets {
			if next := ts.FirstGID + ts.Total; next > firstGID {
				firstGID = next
			}
		}
	}
	ts := NewTileset(name, firstGID, tileWidth, tileHeight, margin, spacing, nil)
	ts.SetImage(img)
	m.Tilesets = append(m.Tilesets, ts)
	m.rebuildTileIndex()
	return ts
}

// rebuildTileIndex rebuilds the global gid table from scratch: each
// tileset's gid range is walked in raster order and assigned its
// (source-x, source-y, tileset ordinal) triple. Unclaimed gids keep the
// unmapped sentinel.
func (m *Tilemap) rebuildTileIndex() {
	maxGID := 0
	for _, ts := range m.Tilesets {
		if last := ts.FirstGID + ts.Total - 1; last > maxGID {
			maxGID = last
		}
	}
	m.tiles = make([]tileSource, maxGID+1)
	for i := range m.tiles {
		m.tiles[i].tileset = noTileset
	}
	for ordinal, ts := range m.Tilesets {
		for i := 0; i < ts.Total; i++ {
			gid := ts.FirstGID + i
			sx, sy, ok := ts.SourceXY(gid)
			if !ok {
				continue
			}
			m.tiles[gid] = tileSource{x: sx, y: sy, tileset: ordinal}
		}
	}
	m.tilesetRevision++
}

// TilesetForGID returns the tileset responsible for the given gid, or nil.
func (m *Tilemap) TilesetForGID(gid int) *Tileset {
	if gid < 0 || gid >= len(m.tiles) {
		return nil
	}
	src := m.tiles[gid]
	if src.tileset == noTileset {
		return nil
	}
	return m.Tilesets[src.tileset]
}

// --- Tile access ---

// GetTile returns the tile at grid coordinates (x, y). Out-of-bounds
// coordinates and empty cells return nil, unless nonNull is set, in which
// case the in-bounds empty Tile itself is returned.
func (m *Tilemap) GetTile(x, y int, layer LayerRef, nonNull bool) *Tile {
	l := m.LayerData(layer)
	if l == nil || !l.InBounds(x, y) {
		return nil
	}
	t := l.Data[y][x]
	if t == nil {
		return nil
	}
	if t.Index < 0 && !nonNull {
		return nil
	}
	return t
}

// GetTileWorldXY snaps the pixel coordinates to the tile grid via floor
// division and returns the tile there.
func (m *Tilemap) GetTileWorldXY(wx, wy float64, layer LayerRef, nonNull bool) *Tile {
	l := m.LayerData(layer)
	if l == nil {
		return nil
	}
	x := floorDiv(wx, float64(l.TileWidth))
	y := floorDiv(wy, float64(l.TileHeight))
	return m.GetTile(x, y, layer, nonNull)
}

// HasTile reports whether a populated (non-empty) tile exists at (x, y).
func (m *Tilemap) HasTile(x, y int, layer LayerRef) bool {
	return m.GetTile(x, y, layer, false) != nil
}

// PutTile writes a tile index at (x, y). Collision flags stored for that
// index via the SetCollision family are applied automatically. The layer is
// marked dirty and faces are recalculated. Returns the written tile, or nil
// for out-of-bounds coordinates.
func (m *Tilemap) PutTile(index, x, y int, layer LayerRef) *Tile {
	li := m.LayerIndex(layer)
	if li < 0 {
		return nil
	}
	l := m.Layers[li]
	t := l.ensureTile(x, y)
	if t == nil {
		return nil
	}
	t.Index = index
	m.applyStoredCollision(t)
	l.Dirty = true
	m.recalculate(li)
	return t
}

// PutTileCopy copies src's full tile state onto the cell at (x, y). A nil
// src delegates to RemoveTile.
func (m *Tilemap) PutTileCopy(src *Tile, x, y int, layer LayerRef) *Tile {
	if src == nil {
		m.RemoveTile(x, y, layer)
		return nil
	}
	li := m.LayerIndex(layer)
	if li < 0 {
		return nil
	}
	l := m.Layers[li]
	t := l.ensureTile(x, y)
	if t == nil {
		return nil
	}
	t.CopyFrom(src)
	l.Dirty = true
	m.recalculate(li)
	return t
}

// PutTileWorldXY writes a tile index at the cell containing the pixel
// coordinates.
func (m *Tilemap) PutTileWorldXY(index int, wx, wy float64, layer LayerRef) *Tile {
	l := m.LayerData(layer)
	if l == nil {
		return nil
	}
	x := floorDiv(wx, float64(l.TileWidth))
	y := floorDiv(wy, float64(l.TileHeight))
	return m.PutTile(index, x, y, layer)
}

// RemoveTile replaces the cell at (x, y) with a fresh empty tile and returns
// the tile that was removed (nil if the cell was out of bounds or already
// null).
func (m *Tilemap) RemoveTile(x, y int, layer LayerRef) *Tile {
	li := m.LayerIndex(layer)
	if li < 0 {
		return nil
	}
	l := m.Layers[li]
	if !l.InBounds(x, y) {
		return nil
	}
	old := l.Data[y][x]
	l.Data[y][x] = NewTile(l, EmptyTile, x, y, float64(l.TileWidth), float64(l.TileHeight))
	l.Dirty = true
	m.recalculate(li)
	return old
}

// RemoveTileWorldXY removes the tile at the cell containing the pixel
// coordinates and returns it.
func (m *Tilemap) RemoveTileWorldXY(wx, wy float64, layer LayerRef) *Tile {
	l := m.LayerData(layer)
	if l == nil {
		return nil
	}
	x := floorDiv(wx, float64(l.TileWidth))
	y := floorDiv(wy, float64(l.TileHeight))
	return m.RemoveTile(x, y, layer)
}

// applyStoredCollision applies the map-level collision set to a tile whose
// index just changed.
func (m *Tilemap) applyStoredCollision(t *Tile) {
	if _, ok := m.collideIndexes[t.Index]; ok {
		t.SetCollision(true, true, true, true)
	} else {
		t.ResetCollision()
	}
}

// --- Region operations ---

// TileBlock is the operation-local result of Copy: the region origin and
// size plus the tile references in row-major order.
type TileBlock struct {
	X, Y          int
	Width, Height int
	Layer         int
	Tiles         []*Tile
}

// Copy collects the tiles of the given region. A non-positive width or
// height selects the remainder of the layer from (x, y). The returned block
// references the live tiles; mutate them and Paste the block back to pick
// up the dirty/recalculate side effects.
func (m *Tilemap) Copy(x, y, width, height int, layer LayerRef) *TileBlock {
	li := m.LayerIndex(layer)
	if li < 0 {
		return nil
	}
	l := m.Layers[li]

	if width <= 0 {
		width = l.Width - x
	}
	if height <= 0 {
		height = l.Height - y
	}
	if x < 0 {
		width += x
		x = 0
	}
	if y < 0 {
		height += y
		y = 0
	}
	if x+width > l.Width {
		width = l.Width - x
	}
	if y+height > l.Height {
		height = l.Height - y
	}
	if width <= 0 || height <= 0 {
		return nil
	}

	block := &TileBlock{X: x, Y: y, Width: width, Height: height, Layer: li}
	block.Tiles = make([]*Tile, 0, width*height)
	for ty := y; ty < y+height; ty++ {
		for tx := x; tx < x+width; tx++ {
			block.Tiles = append(block.Tiles, l.Data[ty][tx])
		}
	}
	return block
}

// Paste copies each block tile's state onto the destination cell offset by
// the difference between (x, y) and the block's recorded origin, then marks
// the layer dirty and recalculates faces.
func (m *Tilemap) Paste(x, y int, block *TileBlock, layer LayerRef) {
	if block == nil || len(block.Tiles) == 0 {
		return
	}
	li := m.LayerIndex(layer)
	if li < 0 {
		return
	}
	l := m.Layers[li]

	dx := x - block.X
	dy := y - block.Y
	for _, src := range block.Tiles {
		if src == nil {
			continue
		}
		dst := l.ensureTile(src.X+dx, src.Y+dy)
		if dst == nil {
			continue
		}
		if dst != src {
			dst.CopyFrom(src)
		}
	}
	l.Dirty = true
	m.recalculate(li)
}

// Fill sets every cell's index within the region to the given index,
// applying stored collision flags.
func (m *Tilemap) Fill(index, x, y, width, height int, layer LayerRef) {
	block := m.Copy(x, y, width, height, layer)
	if block == nil {
		return
	}
	for _, t := range block.Tiles {
		if t == nil {
			continue
		}
		t.Index = index
		m.applyStoredCollision(t)
	}
	m.Paste(block.X, block.Y, block, block.Layer)
}

// Replace swaps every occurrence of source for dest within the region.
func (m *Tilemap) Replace(source, dest, x, y, width, height int, layer LayerRef) {
	block := m.Copy(x, y, width, height, layer)
	if block == nil {
		return
	}
	for _, t := range block.Tiles {
		if t != nil && t.Index == source {
			t.Index = dest
		}
	}
	m.Paste(block.X, block.Y, block, block.Layer)
}

// Swap exchanges all occurrences of indexA and indexB within the region.
func (m *Tilemap) Swap(indexA, indexB, x, y, width, height int, layer LayerRef) {
	block := m.Copy(x, y, width, height, layer)
	if block == nil {
		return
	}
	for _, t := range block.Tiles {
		if t == nil {
			continue
		}
		switch t.Index {
		case indexA:
			t.Index = indexB
		case indexB:
			t.Index = indexA
		}
	}
	m.Paste(block.X, block.Y, block, block.Layer)
}

// Random assigns every cell in the region a random pick from the distinct
// non-empty indexes already present there. A region with no populated tiles
// is left untouched.
func (m *Tilemap) Random(x, y, width, height int, layer LayerRef) {
	block := m.Copy(x, y, width, height, layer)
	if block == nil {
		return
	}
	var indexes []int
	seen := make(map[int]struct{})
	for _, t := range block.Tiles {
		if t == nil || t.Index < 0 {
			continue
		}
		if _, ok := seen[t.Index]; !ok {
			seen[t.Index] = struct{}{}
			indexes = append(indexes, t.Index)
		}
	}
	if len(indexes) == 0 {
		return
	}
	for _, t := range block.Tiles {
		if t == nil {
			continue
		}
		t.Index = indexes[rand.IntN(len(indexes))]
	}
	m.Paste(block.X, block.Y, block, block.Layer)
}

// Shuffle permutes the indexes of the region's cells.
func (m *Tilemap) Shuffle(x, y, width, height int, layer LayerRef) {
	block := m.Copy(x, y, width, height, layer)
	if block == nil {
		return
	}
	indexes := make([]int, 0, len(block.Tiles))
	for _, t := range block.Tiles {
		if t == nil {
			indexes = append(indexes, EmptyTile)
			continue
		}
		indexes = append(indexes, t.Index)
	}
	rand.Shuffle(len(indexes), func(i, j int) {
		indexes[i], indexes[j] = indexes[j], indexes[i]
	})
	for i, t := range block.Tiles {
		if t != nil {
			t.Index = indexes[i]
		}
	}
	m.Paste(block.X, block.Y, block, block.Layer)
}

// ForEach applies fn to every tile in the region (null cells are skipped),
// then runs the paste side effects so edits made by fn take render and
// collision effect.
func (m *Tilemap) ForEach(fn func(*Tile), x, y, width, height int, layer LayerRef) {
	block := m.Copy(x, y, width, height, layer)
	if block == nil {
		return
	}
	for _, t := range block.Tiles {
		if t != nil {
			fn(t)
		}
	}
	m.Paste(block.X, block.Y, block, block.Layer)
}

// --- Collision ---

// SetCollision toggles collision for every tile whose index appears in
// indexes, across the whole layer, and maintains the map-level collision
// set. Pass recalculate=false to defer face recalculation (see
// SetPreventRecalculate for batching many updates).
func (m *Tilemap) SetCollision(indexes []int, collides bool, layer LayerRef, recalculate bool) {
	for _, index := range indexes {
		m.setCollisionByIndex(index, collides, layer, false)
	}
	if recalculate {
		if li := m.LayerIndex(layer); li >= 0 {
			m.recalculate(li)
		}
	}
}

// SetCollisionBetween toggles collision for every tile index in
// [start, stop] inclusive.
func (m *Tilemap) SetCollisionBetween(start, stop int, collides bool, layer LayerRef, recalculate bool) {
	if start > stop {
		return
	}
	for index := start; index <= stop; index++ {
		m.setCollisionByIndex(index, collides, layer, false)
	}
	if recalculate {
		if li := m.LayerIndex(layer); li >= 0 {
			m.recalculate(li)
		}
	}
}

// SetCollisionByExclusion toggles collision for every populated tile whose
// index is NOT in indexes.
func (m *Tilemap) SetCollisionByExclusion(indexes []int, collides bool, layer LayerRef, recalculate bool) {
	li := m.LayerIndex(layer)
	if li < 0 {
		return
	}
	excluded := make(map[int]struct{}, len(indexes))
	for _, i := range indexes {
		excluded[i] = struct{}{}
	}
	seen := make(map[int]struct{})
	for _, row := range m.Layers[li].Data {
		for _, t := range row {
			if t == nil || t.Index < 0 {
				continue
			}
			if _, skip := excluded[t.Index]; skip {
				continue
			}
			if _, done := seen[t.Index]; done {
				continue
			}
			seen[t.Index] = struct{}{}
			m.setCollisionByIndex(t.Index, collides, li, false)
		}
	}
	if recalculate {
		m.recalculate(li)
	}
}

// setCollisionByIndex applies the collision toggle for one tile index across
// a layer and maintains the collideIndexes set.
func (m *Tilemap) setCollisionByIndex(index int, collides bool, layer LayerRef, recalculate bool) {
	li := m.LayerIndex(layer)
	if li < 0 {
		return
	}
	if collides {
		m.collideIndexes[index] = struct{}{}
	} else {
		delete(m.collideIndexes, index)
	}
	for _, row := range m.Layers[li].Data {
		for _, t := range row {
			if t == nil || t.Index != index {
				continue
			}
			if collides {
				t.SetCollision(true, true, true, true)
			} else {
				t.ResetCollision()
			}
		}
	}
	if recalculate {
		m.recalculate(li)
	}
}

// SetPreventRecalculate toggles batched-update mode. While active, face
// recalculation requests accumulate per layer instead of running; switching
// the mode off runs one CalculateFaces pass per pending layer.
func (m *Tilemap) SetPreventRecalculate(prevent bool) {
	if prevent == m.preventRecalculate {
		return
	}
	m.preventRecalculate = prevent
	if !prevent {
		for li := range m.pendingRecalc {
			m.CalculateFaces(li)
		}
		clear(m.pendingRecalc)
	}
}

// recalculate runs CalculateFaces immediately, or defers it while
// batched-update mode is active.
func (m *Tilemap) recalculate(layerIndex int) {
	if m.preventRecalculate {
		m.pendingRecalc[layerIndex] = struct{}{}
		return
	}
	m.CalculateFaces(layerIndex)
}

// CalculateFaces recomputes the interesting-face flags for every tile of a
// layer: a face stays set only when the tile collides and the neighbor in
// that direction is absent or non-colliding. Physics and debug rendering
// then only consider the boundary edges of solid regions.
func (m *Tilemap) CalculateFaces(layerIndex int) {
	if layerIndex < 0 || layerIndex >= len(m.Layers) {
		return
	}
	l := m.Layers[layerIndex]
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			t := l.Data[y][x]
			if t == nil {
				continue
			}
			t.FaceTop = t.CollideUp
			t.FaceBottom = t.CollideDown
			t.FaceLeft = t.CollideLeft
			t.FaceRight = t.CollideRight
			if !t.Collides() {
				continue
			}
			if above := m.GetTileAbove(layerIndex, x, y); above != nil && above.Collides() {
				t.FaceTop = false
			}
			if below := m.GetTileBelow(layerIndex, x, y); below != nil && below.Collides() {
				t.FaceBottom = false
			}
			if left := m.GetTileLeft(layerIndex, x, y); left != nil && left.Collides() {
				t.FaceLeft = false
			}
			if right := m.GetTileRight(layerIndex, x, y); right != nil && right.Collides() {
				t.FaceRight = false
			}
		}
	}
}

// GetTileAbove returns the raw cell above (x, y), which may be empty.
func (m *Tilemap) GetTileAbove(layerIndex, x, y int) *Tile {
	return m.rawTile(layerIndex, x, y-1)
}

// GetTileBelow returns the raw cell below (x, y).
func (m *Tilemap) GetTileBelow(layerIndex, x, y int) *Tile {
	return m.rawTile(layerIndex, x, y+1)
}

// GetTileLeft returns the raw cell left of (x, y).
func (m *Tilemap) GetTileLeft(layerIndex, x, y int) *Tile {
	return m.rawTile(layerIndex, x-1, y)
}

// GetTileRight returns the raw cell right of (x, y).
func (m *Tilemap) GetTileRight(layerIndex, x, y int) *Tile {
	return m.rawTile(layerIndex, x+1, y)
}

func (m *Tilemap) rawTile(layerIndex, x, y int) *Tile {
	if layerIndex < 0 || layerIndex >= len(m.Layers) {
		return nil
	}
	return m.Layers[layerIndex].TileAt(x, y)
}

// --- Callbacks ---

// SetTileIndexCallback registers a collision hook for every tile of the
// given indexes on a layer. A nil fn clears the hooks.
func (m *Tilemap) SetTileIndexCallback(indexes []int, fn CollisionFunc, context any, layer LayerRef) {
	l := m.LayerData(layer)
	if l == nil {
		return
	}
	for _, index := range indexes {
		if fn == nil {
			delete(l.Callbacks, index)
			continue
		}
		l.Callbacks[index] = &CollisionCallback{Fn: fn, Context: context}
	}
}

// SetTileLocationCallback registers a collision hook on each individual tile
// within the region. A nil fn clears them.
func (m *Tilemap) SetTileLocationCallback(x, y, width, height int, fn CollisionFunc, context any, layer LayerRef) {
	block := m.Copy(x, y, width, height, layer)
	if block == nil {
		return
	}
	for _, t := range block.Tiles {
		if t != nil {
			t.SetCollisionCallback(fn, context)
		}
	}
}

// --- Search ---

// SearchTileIndex scans the layer row-major (or reversed) for the Nth
// (0-based skip) populated tile with the given index. Returns nil when the
// scan is exhausted.
func (m *Tilemap) SearchTileIndex(index, skip int, reverse bool, layer LayerRef) *Tile {
	l := m.LayerData(layer)
	if l == nil {
		return nil
	}
	count := 0
	if reverse {
		for y := l.Height - 1; y >= 0; y-- {
			for x := l.Width - 1; x >= 0; x-- {
				t := l.Data[y][x]
				if t != nil && t.Index == index {
					if count == skip {
						return t
					}
					count++
				}
			}
		}
		return nil
	}
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			t := l.Data[y][x]
			if t != nil && t.Index == index {
				if count == skip {
					return t
				}
				count++
			}
		}
	}
	return nil
}

// floorDiv converts a pixel coordinate to a tile coordinate, rounding
// toward negative infinity so negative pixels land outside the grid.
func floorDiv(v, size float64) int {
	if size <= 0 {
		return 0
	}
	q := v / size
	i := int(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}
