package rowan

import (
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// ImageSource is the image-lookup collaborator queried when binding a
// tileset image. An asset cache typically implements it.
type ImageSource interface {
	// CheckImageKey reports whether an image exists under the given key.
	CheckImageKey(key string) bool
	// Image returns the image stored under the given key.
	Image(key string) *ebiten.Image
}

// Tileset holds the slicing metadata for a uniform tileset image: tile pixel
// size, margin, spacing, the first gid it is responsible for, and a
// precomputed list of source-pixel offsets per local tile ordinal.
// Slicing metadata is immutable after construction; only the backing image
// may be (re)bound via SetImage.
type Tileset struct {
	// Name is the tileset name from the map data.
	Name string
	// FirstGID is the first gid this tileset claims. The tileset covers
	// FirstGID <= gid < FirstGID+Total.
	FirstGID int
	// LastGID is back-filled by the parser as the next tileset's
	// FirstGID - 1; for the final tileset it equals FirstGID + Total - 1.
	// Informational; range checks use Total.
	LastGID int
	// TileWidth and TileHeight are the dimensions of each tile in pixels.
	TileWidth  int
	TileHeight int
	// Margin is the pixel border around the whole tileset image.
	Margin int
	// Spacing is the pixel gap between adjacent tiles.
	Spacing int
	// Properties from the map editor.
	Properties map[string]any
	// TileProperties holds per-tile property bags keyed by local tile id.
	TileProperties map[int]map[string]any

	// Image is the backing tileset image, nil until bound.
	Image *ebiten.Image

	// Rows, Columns, and Total are derived from the image dimensions.
	Rows    int
	Columns int
	Total   int

	// coords is the flat (x, y) source-offset list indexed by local ordinal.
	coords []image.Point
}

// NewTileset creates a tileset with the given slicing metadata. Rows,
// columns, and draw coordinates are computed when an image is bound.
func NewTileset(name string, firstGID, tileWidth, tileHeight, margin, spacing int, properties map[string]any) *Tileset {
	return &Tileset{
		Name:       name,
		FirstGID:   firstGID,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Margin:     margin,
		Spacing:    spacing,
		Properties: properties,
	}
}

// SetImage binds the tileset image and derives row/column counts and the
// per-ordinal draw coordinates. Image dimensions that are not an exact
// multiple of the tile size are tolerated with a warning; the counts floor.
func (ts *Tileset) SetImage(img *ebiten.Image) {
	ts.Image = img
	b := img.Bounds()
	ts.updateDimensions(b.Dx(), b.Dy())
}

// updateDimensions recomputes slicing from the given image size.
func (ts *Tileset) updateDimensions(imageWidth, imageHeight int) {
	if ts.TileWidth <= 0 || ts.TileHeight <= 0 {
		log.Printf("rowan: tileset %q has invalid tile dimensions %dx%d", ts.Name, ts.TileWidth, ts.TileHeight)
		return
	}

	spanW := imageWidth - ts.Margin*2 + ts.Spacing
	spanH := imageHeight - ts.Margin*2 + ts.Spacing
	stepW := ts.TileWidth + ts.Spacing
	stepH := ts.TileHeight + ts.Spacing

	if spanW%stepW != 0 || spanH%stepH != 0 {
		log.Printf("rowan: tileset %q image (%dx%d) is not an exact multiple of its tile size (%dx%d), flooring counts",
			ts.Name, imageWidth, imageHeight, ts.TileWidth, ts.TileHeight)
	}

	ts.Columns = spanW / stepW
	ts.Rows = spanH / stepH
	if ts.Columns < 0 {
		ts.Columns = 0
	}
	if ts.Rows < 0 {
		ts.Rows = 0
	}
	ts.Total = ts.Rows * ts.Columns

	ts.coords = make([]image.Point, 0, ts.Total)
	for row := 0; row < ts.Rows; row++ {
		for col := 0; col < ts.Columns; col++ {
			ts.coords = append(ts.coords, image.Point{
				X: ts.Margin + col*stepW,
				Y: ts.Margin + row*stepH,
			})
		}
	}
}

// Contains reports whether this tileset is responsible for the given gid.
func (ts *Tileset) Contains(gid int) bool {
	return gid >= ts.FirstGID && gid < ts.FirstGID+ts.Total
}

// SourceXY returns the source-pixel offset of the given gid within the
// tileset image. ok is false when the gid is outside this tileset's range.
func (ts *Tileset) SourceXY(gid int) (x, y int, ok bool) {
	ordinal := gid - ts.FirstGID
	if ordinal < 0 || ordinal >= len(ts.coords) {
		return 0, 0, false
	}
	p := ts.coords[ordinal]
	return p.X, p.Y, true
}

// TileImage returns the sub-image for the given gid, or nil when the gid is
// out of range or no image is bound.
func (ts *Tileset) TileImage(gid int) *ebiten.Image {
	if ts.Image == nil {
		return nil
	}
	sx, sy, ok := ts.SourceXY(gid)
	if !ok {
		return nil
	}
	r := image.Rect(sx, sy, sx+ts.TileWidth, sy+ts.TileHeight)
	return ts.Image.SubImage(r).(*ebiten.Image)
}

// Draw blits the tile for the given gid at (dx, dy) on dst. Out-of-range
// gids and unbound tilesets draw nothing.
func (ts *Tileset) Draw(dst *ebiten.Image, dx, dy float64, gid int) {
	sub := ts.TileImage(gid)
	if sub == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(dx, dy)
	dst.DrawImage(sub, &op)
}

// CollectionImage is one member of an ImageCollection: a single gid backed
// by its own image.
type CollectionImage struct {
	GID   int
	Key   string
	Image *ebiten.Image
}

// ImageCollection is the non-uniform variant of a tileset: each member image
// has its own gid and there is no shared slicing.
type ImageCollection struct {
	Name        string
	FirstGID    int
	ImageWidth  int
	ImageHeight int
	Properties  map[string]any

	Images []CollectionImage

	lastGID int
}

// NewImageCollection creates an empty image collection claiming gids from
// firstGID onward. Members are registered with AddImage.
func NewImageCollection(name string, firstGID, imageWidth, imageHeight int, properties map[string]any) *ImageCollection {
	return &ImageCollection{
		Name:        name,
		FirstGID:    firstGID,
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
		Properties:  properties,
		lastGID:     firstGID,
	}
}

// AddImage registers an image key under the given gid.
func (c *ImageCollection) AddImage(gid int, key string) {
	c.Images = append(c.Images, CollectionImage{GID: gid, Key: key})
	if gid > c.lastGID {
		c.lastGID = gid
	}
}

// Total returns the number of member images.
func (c *ImageCollection) Total() int { return len(c.Images) }

// Contains reports whether the gid falls within this collection's range.
func (c *ImageCollection) Contains(gid int) bool {
	return gid >= c.FirstGID && gid <= c.lastGID
}
