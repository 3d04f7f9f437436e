package rowan

// Layer is a named 2D tile grid owned by exactly one Tilemap.
//
// The grid is row-major: Data[y][x]. Cells hold owned Tile values, or nil
// when null-insertion mode was active during parsing.
type Layer struct {
	// Name uniquely identifies the layer within its map.
	Name string
	// Width and Height are the grid dimensions in tiles.
	Width  int
	Height int
	// TileWidth and TileHeight are the per-tile pixel dimensions.
	TileWidth  int
	TileHeight int
	// WidthInPixels and HeightInPixels are the layer's pixel dimensions.
	WidthInPixels  int
	HeightInPixels int
	// Alpha is the layer opacity applied by render views.
	Alpha float64
	// Visible layers are drawn; invisible ones are skipped entirely.
	Visible bool
	// Properties from the map editor.
	Properties map[string]any
	// Callbacks maps a tile index to the collision hook a physics
	// collaborator should invoke for every tile of that index.
	Callbacks map[int]*CollisionCallback
	// Data is the row-major tile grid.
	Data [][]*Tile
	// Dirty forces bound render views to fully repaint on their next frame.
	Dirty bool
}

// NewLayer allocates a layer fully populated with empty tiles.
func NewLayer(name string, width, height, tileWidth, tileHeight int) *Layer {
	l := &Layer{
		Name:           name,
		Width:          width,
		Height:         height,
		TileWidth:      tileWidth,
		TileHeight:     tileHeight,
		WidthInPixels:  width * tileWidth,
		HeightInPixels: height * tileHeight,
		Alpha:          1,
		Visible:        true,
		Callbacks:      make(map[int]*CollisionCallback),
	}
	l.Data = make([][]*Tile, height)
	for y := range l.Data {
		row := make([]*Tile, width)
		for x := range row {
			row[x] = NewTile(l, EmptyTile, x, y, float64(tileWidth), float64(tileHeight))
		}
		l.Data[y] = row
	}
	return l
}

// InBounds reports whether (x, y) is a valid grid coordinate.
func (l *Layer) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

// TileAt returns the raw cell at (x, y), nil for out-of-bounds coordinates
// or null-inserted cells. The returned tile may be empty (Index -1).
func (l *Layer) TileAt(x, y int) *Tile {
	if !l.InBounds(x, y) {
		return nil
	}
	return l.Data[y][x]
}

// ensureTile returns the cell at (x, y), materializing a fresh empty tile
// for null-inserted cells. Returns nil out of bounds.
func (l *Layer) ensureTile(x, y int) *Tile {
	if !l.InBounds(x, y) {
		return nil
	}
	t := l.Data[y][x]
	if t == nil {
		t = NewTile(l, EmptyTile, x, y, float64(l.TileWidth), float64(l.TileHeight))
		l.Data[y][x] = t
	}
	return t
}
