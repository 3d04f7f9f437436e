package rowan

// Format identifies the external map data format handed to Parse.
type Format uint8

const (
	FormatCSV       Format = iota // comma-separated tile indexes, one map row per line
	FormatTiledJSON               // Tiled editor JSON export
)

// GID flag bits (Tiled TMX/JSON convention). The low 29 bits of a raw
// layer cell are the global tile id; the high three bits encode flips.
const (
	gidFlipH    uint32 = 1 << 31 // horizontal flip
	gidFlipV    uint32 = 1 << 30 // vertical flip
	gidFlipD    uint32 = 1 << 29 // diagonal flip (90 degree rotation)
	gidFlagMask uint32 = gidFlipH | gidFlipV | gidFlipD
)

// Vec2 is a 2D vector used for positions and polygon/polyline points.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// InsertNull controls how the parsers fill empty cells. When false (the
// default) every empty cell holds a Tile with Index -1; when true empty
// cells are nil, which uses less memory for sparse maps but means GetTile
// callers must expect nil even with nonNull set.
var InsertNull bool

// SetDebug toggles diagnostic logging for configuration errors (unknown
// image keys, duplicate layer names, unresolvable layer references).
// Data-loss warnings from the parser log regardless.
func SetDebug(enabled bool) {
	globalDebug = enabled
}

// globalDebug gates the chatty diagnostics. Plain bool, no atomics; rowan
// is single-threaded like the rest of an ebiten update loop.
var globalDebug bool
