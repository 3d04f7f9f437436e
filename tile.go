package rowan

// EmptyTile is the tile-type index of an empty cell. A tile with a negative
// index is excluded from rendering and collision.
const EmptyTile = -1

// CollisionFunc is invoked by an external physics collaborator when a body
// touches a tile carrying a collision callback. Rowan never calls it itself.
// Returning false tells the physics step to skip separation for this tile.
type CollisionFunc func(context any, tile *Tile, body any) bool

// CollisionCallback pairs a CollisionFunc with the context it was registered
// with. The context is owned by the registering collaborator; rowan only
// stores the reference.
type CollisionCallback struct {
	Fn      CollisionFunc
	Context any
}

// Tile is a single cell in a Layer grid.
//
// A Tile belongs to exactly one layer (non-owning back-reference). Its pixel
// geometry is derived from the grid position: WorldX = X * Width,
// WorldY = Y * Height. Flipped is a horizontal mirror applied before
// Rotation.
type Tile struct {
	// Layer is the layer this tile lives on.
	Layer *Layer
	// Index is the tile type: the gid into the map's tileset gid-space,
	// or EmptyTile for an empty cell.
	Index int
	// X and Y are the grid coordinates within the layer.
	X, Y int
	// Width and Height are the tile's pixel dimensions.
	Width, Height float64
	// WorldX and WorldY are the pixel coordinates of the top-left corner.
	WorldX, WorldY float64
	// Rotation in radians, one of 0, Pi/2, Pi, 3*Pi/2.
	Rotation float64
	// Flipped mirrors the tile horizontally, before rotation.
	Flipped bool
	// Alpha applied when this tile is drawn.
	Alpha float64
	// Properties is an arbitrary bag merged from the map editor's
	// per-tile properties.
	Properties map[string]any

	// Face flags. A face is "interesting" when it is a collision boundary
	// adjacent to non-solid space; see Tilemap.CalculateFaces.
	FaceTop, FaceBottom, FaceLeft, FaceRight bool

	// Independent per-edge collision flags.
	CollideLeft, CollideRight, CollideUp, CollideDown bool

	// Callback is the optional per-tile collision hook.
	Callback *CollisionCallback
}

// NewTile creates a tile at grid position (x, y) on the given layer.
func NewTile(layer *Layer, index, x, y int, width, height float64) *Tile {
	return &Tile{
		Layer:  layer,
		Index:  index,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		WorldX: float64(x) * width,
		WorldY: float64(y) * height,
		Alpha:  1,
	}
}

// Left returns the x coordinate of the tile's left edge in pixels.
func (t *Tile) Left() float64 { return t.WorldX }

// Right returns the x coordinate of the tile's right edge in pixels.
func (t *Tile) Right() float64 { return t.WorldX + t.Width }

// Top returns the y coordinate of the tile's top edge in pixels.
func (t *Tile) Top() float64 { return t.WorldY }

// Bottom returns the y coordinate of the tile's bottom edge in pixels.
func (t *Tile) Bottom() float64 { return t.WorldY + t.Height }

// CenterX returns the x coordinate of the tile's midpoint in pixels.
func (t *Tile) CenterX() float64 { return t.WorldX + t.Width/2 }

// CenterY returns the y coordinate of the tile's midpoint in pixels.
func (t *Tile) CenterY() float64 { return t.WorldY + t.Height/2 }

// IsEmpty reports whether this cell holds no tile type.
func (t *Tile) IsEmpty() bool { return t.Index < 0 }

// Collides reports whether any of the four collision flags is set.
func (t *Tile) Collides() bool {
	return t.CollideLeft || t.CollideRight || t.CollideUp || t.CollideDown
}

// CanCollide reports whether a physics collaborator should consider this
// tile at all: it collides, carries its own callback, or its layer has a
// callback registered for its index.
func (t *Tile) CanCollide() bool {
	if t.Collides() || t.Callback != nil {
		return true
	}
	return t.Layer != nil && t.Layer.Callbacks[t.Index] != nil
}

// IsInteresting reports whether the tile matters for the requested checks:
// collision flags, face flags, or both.
func (t *Tile) IsInteresting(collides, faces bool) bool {
	switch {
	case collides && faces:
		return t.Collides() || t.FaceTop || t.FaceBottom || t.FaceLeft || t.FaceRight || t.Callback != nil
	case collides:
		return t.Collides()
	case faces:
		return t.FaceTop || t.FaceBottom || t.FaceLeft || t.FaceRight
	}
	return false
}

// SetCollision sets the collision flags per edge and mirrors them onto the
// face flags. CalculateFaces later clears faces shared with solid neighbors.
func (t *Tile) SetCollision(left, right, up, down bool) {
	t.CollideLeft = left
	t.CollideRight = right
	t.CollideUp = up
	t.CollideDown = down
	t.FaceLeft = left
	t.FaceRight = right
	t.FaceTop = up
	t.FaceBottom = down
}

// ResetCollision clears all collision and face flags.
func (t *Tile) ResetCollision() {
	t.CollideLeft = false
	t.CollideRight = false
	t.CollideUp = false
	t.CollideDown = false
	t.FaceTop = false
	t.FaceBottom = false
	t.FaceLeft = false
	t.FaceRight = false
}

// SetCollisionCallback registers the per-tile collision hook. A nil fn
// clears it.
func (t *Tile) SetCollisionCallback(fn CollisionFunc, context any) {
	if fn == nil {
		t.Callback = nil
		return
	}
	t.Callback = &CollisionCallback{Fn: fn, Context: context}
}

// ContainsPoint reports whether the pixel coordinate (x, y) falls within
// this tile.
func (t *Tile) ContainsPoint(x, y float64) bool {
	return x >= t.WorldX && x < t.WorldX+t.Width &&
		y >= t.WorldY && y < t.WorldY+t.Height
}

// Intersects reports whether the pixel-space rectangle overlaps this tile.
func (t *Tile) Intersects(x, y, right, bottom float64) bool {
	return right > t.WorldX && bottom > t.WorldY &&
		x < t.WorldX+t.Width && y < t.WorldY+t.Height
}

// CopyFrom copies the tile-type state of src onto t: index, alpha,
// rotation/flip, properties, collision and face flags, and callback. Grid
// position and layer binding are left alone.
func (t *Tile) CopyFrom(src *Tile) {
	t.Index = src.Index
	t.Alpha = src.Alpha
	t.Rotation = src.Rotation
	t.Flipped = src.Flipped
	t.Properties = src.Properties
	t.CollideLeft = src.CollideLeft
	t.CollideRight = src.CollideRight
	t.CollideUp = src.CollideUp
	t.CollideDown = src.CollideDown
	t.FaceTop = src.FaceTop
	t.FaceBottom = src.FaceBottom
	t.FaceLeft = src.FaceLeft
	t.FaceRight = src.FaceRight
	t.Callback = src.Callback
}

// Destroy clears the callback, properties, and layer binding. Only needed
// when a tile must release references before its layer goes away; cells
// replaced via RemoveTile are simply dropped for the GC.
func (t *Tile) Destroy() {
	t.Callback = nil
	t.Properties = nil
	t.Layer = nil
}
