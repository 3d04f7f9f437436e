package rowan

import (
	"image"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// RenderSettings controls how a TilemapLayer repaints its canvas.
type RenderSettings struct {
	// EnableScrollDelta allows shift-and-patch rendering: on small scrolls
	// the existing canvas content is blitted by the scroll delta and only
	// the newly exposed edge strips are repainted.
	EnableScrollDelta bool
	// MissingColor fills cells whose index resolves to no tileset. Nil
	// disables the fallback fill and such cells render as nothing.
	MissingColor color.Color
}

// DebugSettings controls the collision debug overlay.
type DebugSettings struct {
	// CollidingFill is painted over every colliding tile.
	CollidingFill color.Color
	// FaceColor strokes the interesting faces of colliding tiles.
	FaceColor color.Color
}

// TilemapLayer is the render-facing view over one Tilemap layer. It owns a
// drawing surface sized to the viewport (not the whole map) and repaints it
// incrementally: dirty layers force a full redraw, an unchanged scroll is a
// no-op frame, and small scrolls shift the canvas and patch the exposed
// edges.
type TilemapLayer struct {
	// Map is the tilemap this view reads from.
	Map *Tilemap

	// X and Y position the canvas on the destination passed to Draw.
	X, Y float64

	// ScrollFactorX and ScrollFactorY scale camera movement for this
	// layer, producing parallax. 1 means the layer scrolls with the
	// camera.
	ScrollFactorX float64
	ScrollFactorY float64

	// Wrap repeats tile coordinates modulo the layer size during
	// rendering, for seamless looping backgrounds. Looks correct only
	// when the world bounds match the map bounds; not enforced.
	Wrap bool

	// Debug enables the collision overlay.
	Debug bool

	RenderSettings RenderSettings
	DebugSettings  DebugSettings

	index int
	layer *Layer

	canvas *ebiten.Image
	// copyCanvas is the scratch surface for the shift blit; a canvas can
	// never be drawn onto itself.
	copyCanvas *ebiten.Image

	// Current scroll offsets (camera view x scroll factor, pixel-floored).
	scrollX float64
	scrollY float64

	dirty bool

	// mc is the scroll-offset and tileset-lookup cache used for
	// incremental-redraw bookkeeping.
	mc struct {
		scrollX      int
		scrollY      int
		renderWidth  int
		renderHeight int
		tilesets     []*Tileset
		resolved     []bool
		revision     int
	}

	stats RenderStats
}

// NewTilemapLayer binds a render view to one layer of a tilemap with a
// viewport-sized canvas. Returns nil (logged) when the layer reference
// doesn't resolve.
func NewTilemapLayer(m *Tilemap, layer LayerRef, width, height int) *TilemapLayer {
	index := m.LayerIndex(layer)
	if index < 0 {
		if globalDebug {
			log.Printf("rowan: cannot create layer view, layer %v not found", layer)
		}
		return nil
	}
	if globalDebug {
		debugCheckLayerShape(m.Layers[index])
	}
	l := &TilemapLayer{
		Map:           m,
		index:         index,
		layer:         m.Layers[index],
		ScrollFactorX: 1,
		ScrollFactorY: 1,
		RenderSettings: RenderSettings{
			EnableScrollDelta: true,
			MissingColor:      color.RGBA{R: 255, G: 0, B: 255, A: 255},
		},
		DebugSettings: DebugSettings{
			CollidingFill: color.RGBA{R: 0, G: 255, B: 0, A: 92},
			FaceColor:     color.RGBA{R: 0, G: 255, B: 0, A: 255},
		},
		canvas: ebiten.NewImage(width, height),
		dirty:  true,
	}
	l.mc.revision = -1
	return l
}

// Layer returns the layer data this view renders.
func (l *TilemapLayer) Layer() *Layer { return l.layer }

// Index returns the layer index within the map.
func (l *TilemapLayer) Index() int { return l.index }

// Canvas returns the drawing surface, updated in place each Render.
func (l *TilemapLayer) Canvas() *ebiten.Image { return l.canvas }

// Stats returns the redraw counters accumulated since creation.
func (l *TilemapLayer) Stats() RenderStats { return l.stats }

// SetDirty forces a full redraw on the next Render.
func (l *TilemapLayer) SetDirty() { l.dirty = true }

// Resize replaces the canvas with one of the given pixel dimensions and
// forces a full redraw.
func (l *TilemapLayer) Resize(width, height int) {
	l.canvas = ebiten.NewImage(width, height)
	l.copyCanvas = nil
	l.dirty = true
}

// Draw blits the canvas onto dst at (X, Y) with the layer's alpha. Invisible
// layers draw nothing.
func (l *TilemapLayer) Draw(dst *ebiten.Image) {
	if l.layer == nil || !l.layer.Visible {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(l.X, l.Y)
	if l.layer.Alpha < 1 {
		op.ColorScale.ScaleAlpha(float32(l.layer.Alpha))
	}
	dst.DrawImage(l.canvas, &op)
}

// Render brings the canvas up to date for the given world-space camera view
// rectangle. It reports whether any repainting happened: a frame with an
// unchanged viewport and scroll position is a no-op.
func (l *TilemapLayer) Render(view Rect) bool {
	if l.layer == nil {
		return false
	}

	l.scrollX = math.Floor(view.X * l.ScrollFactorX)
	l.scrollY = math.Floor(view.Y * l.ScrollFactorY)
	sx := int(l.scrollX)
	sy := int(l.scrollY)

	b := l.canvas.Bounds()
	w, h := b.Dx(), b.Dy()

	if l.dirty || l.layer.Dirty || w != l.mc.renderWidth || h != l.mc.renderHeight {
		l.commitScroll(sx, sy, w, h)
		l.renderFull()
		l.debugLog()
		return true
	}

	shiftX := l.mc.scrollX - sx
	shiftY := l.mc.scrollY - sy
	if shiftX == 0 && shiftY == 0 {
		l.stats.SkippedFrames++
		return false
	}

	min := w
	if h < min {
		min = h
	}
	if l.RenderSettings.EnableScrollDelta && abs(shiftX)+abs(shiftY) < min {
		l.commitScroll(sx, sy, w, h)
		l.renderDeltaScroll(shiftX, shiftY)
		l.debugLog()
		return true
	}

	l.commitScroll(sx, sy, w, h)
	l.renderFull()
	l.debugLog()
	return true
}

// commitScroll records the scroll offset and viewport size the canvas is
// about to represent.
func (l *TilemapLayer) commitScroll(sx, sy, w, h int) {
	l.mc.scrollX = sx
	l.mc.scrollY = sy
	l.mc.renderWidth = w
	l.mc.renderHeight = h
}

// renderFull clears the canvas and draws every tile cell overlapping the
// viewport.
func (l *TilemapLayer) renderFull() {
	l.canvas.Clear()

	tw := l.layer.TileWidth
	th := l.layer.TileHeight
	left := intFloorDiv(l.mc.scrollX, tw)
	top := intFloorDiv(l.mc.scrollY, th)
	right := intFloorDiv(l.mc.scrollX+l.mc.renderWidth-1, tw)
	bottom := intFloorDiv(l.mc.scrollY+l.mc.renderHeight-1, th)

	l.renderRegion(left, top, right, bottom)

	l.dirty = false
	l.layer.Dirty = false
	l.stats.FullRedraws++
}

// renderDeltaScroll shifts the existing canvas content by (shiftX, shiftY)
// and repaints only the newly exposed edge strips. The blit goes through the
// scratch canvas: a surface cannot be drawn onto itself, and overlapping
// same-surface blits are unreliable on some platforms anyway.
func (l *TilemapLayer) renderDeltaScroll(shiftX, shiftY int) {
	w := l.mc.renderWidth
	h := l.mc.renderHeight

	if l.copyCanvas == nil || !l.copyCanvas.Bounds().Eq(l.canvas.Bounds()) {
		l.copyCanvas = ebiten.NewImage(w, h)
	}
	l.copyCanvas.Clear()
	l.copyCanvas.DrawImage(l.canvas, nil)
	l.canvas.Clear()
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(shiftX), float64(shiftY))
	l.canvas.DrawImage(l.copyCanvas, &op)

	tw := l.layer.TileWidth
	th := l.layer.TileHeight
	top := intFloorDiv(l.mc.scrollY, th)
	bottom := intFloorDiv(l.mc.scrollY+h-1, th)
	left := intFloorDiv(l.mc.scrollX, tw)
	right := intFloorDiv(l.mc.scrollX+w-1, tw)

	// Vertical strip exposed on the left or right edge.
	if shiftX > 0 {
		stripRight := intFloorDiv(l.mc.scrollX+shiftX-1, tw)
		l.clearTileRect(left, top, stripRight, bottom)
		l.renderRegion(left, top, stripRight, bottom)
	} else if shiftX < 0 {
		stripLeft := intFloorDiv(l.mc.scrollX+w+shiftX, tw)
		l.clearTileRect(stripLeft, top, right, bottom)
		l.renderRegion(stripLeft, top, right, bottom)
	}

	// Horizontal strip exposed on the top or bottom edge.
	if shiftY > 0 {
		stripBottom := intFloorDiv(l.mc.scrollY+shiftY-1, th)
		l.clearTileRect(left, top, right, stripBottom)
		l.renderRegion(left, top, right, stripBottom)
	} else if shiftY < 0 {
		stripTop := intFloorDiv(l.mc.scrollY+h+shiftY, th)
		l.clearTileRect(left, stripTop, right, bottom)
		l.renderRegion(left, stripTop, right, bottom)
	}

	l.stats.DeltaScrolls++
}

// clearTileRect clears the canvas pixels covered by the inclusive tile-space
// rectangle. The redraw regions are tile-aligned, so partially re-rendered
// tiles must be wiped first to avoid double blending.
func (l *TilemapLayer) clearTileRect(left, top, right, bottom int) {
	tw := l.layer.TileWidth
	th := l.layer.TileHeight
	r := image.Rect(
		left*tw-l.mc.scrollX,
		top*th-l.mc.scrollY,
		(right+1)*tw-l.mc.scrollX,
		(bottom+1)*th-l.mc.scrollY,
	)
	l.canvas.SubImage(r).(*ebiten.Image).Clear()
}

// renderRegion draws every populated tile in the inclusive tile-space
// rectangle. Coordinates outside the layer are skipped, or wrapped modulo
// the layer size when Wrap is set.
func (l *TilemapLayer) renderRegion(left, top, right, bottom int) {
	width := l.layer.Width
	height := l.layer.Height
	tw := l.layer.TileWidth
	th := l.layer.TileHeight

	for ty := top; ty <= bottom; ty++ {
		ny := ty
		if l.Wrap {
			ny = ((ty % height) + height) % height
		} else if ty < 0 || ty >= height {
			continue
		}
		for tx := left; tx <= right; tx++ {
			nx := tx
			if l.Wrap {
				nx = ((tx % width) + width) % width
			} else if tx < 0 || tx >= width {
				continue
			}
			t := l.layer.Data[ny][nx]
			if t == nil || t.Index < 0 {
				continue
			}
			dx := float64(tx*tw - l.mc.scrollX)
			dy := float64(ty*th - l.mc.scrollY)
			l.drawTile(t, dx, dy)
		}
	}
}

// drawTile paints a single tile at canvas position (dx, dy), resolving its
// index to a tileset through the lookup cache. Unresolvable indexes fall
// back to a fill rectangle when configured.
func (l *TilemapLayer) drawTile(t *Tile, dx, dy float64) {
	ts := l.resolveTileset(t.Index)
	var sub *ebiten.Image
	if ts != nil {
		sub = ts.TileImage(t.Index)
	}
	if sub == nil {
		if c := l.RenderSettings.MissingColor; c != nil {
			l.fillTileRect(dx, dy, c)
			l.stats.TilesDrawn++
			if l.Debug && t.Collides() {
				l.drawTileDebug(t, dx, dy)
			}
		}
		return
	}

	tw := float64(l.layer.TileWidth)
	th := float64(l.layer.TileHeight)

	var op ebiten.DrawImageOptions
	if t.Rotation != 0 || t.Flipped {
		// Mirror before rotation, both centered on the tile midpoint.
		op.GeoM.Translate(-tw/2, -th/2)
		if t.Flipped {
			op.GeoM.Scale(-1, 1)
		}
		op.GeoM.Rotate(t.Rotation)
		op.GeoM.Translate(dx+tw/2, dy+th/2)
	} else {
		op.GeoM.Translate(dx, dy)
	}
	if t.Alpha < 1 {
		op.ColorScale.ScaleAlpha(float32(t.Alpha))
	}
	l.canvas.DrawImage(sub, &op)
	l.stats.TilesDrawn++

	if l.Debug && t.Collides() {
		l.drawTileDebug(t, dx, dy)
	}
}

// fillTileRect fills one tile cell on the canvas with a solid color.
func (l *TilemapLayer) fillTileRect(dx, dy float64, c color.Color) {
	r := image.Rect(int(dx), int(dy), int(dx)+l.layer.TileWidth, int(dy)+l.layer.TileHeight)
	l.canvas.SubImage(r).(*ebiten.Image).Fill(c)
}

// drawTileDebug overlays the colliding-tile fill and strokes the interesting
// faces.
func (l *TilemapLayer) drawTileDebug(t *Tile, dx, dy float64) {
	tw := l.layer.TileWidth
	th := l.layer.TileHeight
	x := int(dx)
	y := int(dy)

	if c := l.DebugSettings.CollidingFill; c != nil {
		r := image.Rect(x, y, x+tw, y+th)
		l.canvas.SubImage(r).(*ebiten.Image).Fill(c)
	}

	c := l.DebugSettings.FaceColor
	if c == nil {
		return
	}
	if t.FaceTop {
		l.canvas.SubImage(image.Rect(x, y, x+tw, y+1)).(*ebiten.Image).Fill(c)
	}
	if t.FaceBottom {
		l.canvas.SubImage(image.Rect(x, y+th-1, x+tw, y+th)).(*ebiten.Image).Fill(c)
	}
	if t.FaceLeft {
		l.canvas.SubImage(image.Rect(x, y, x+1, y+th)).(*ebiten.Image).Fill(c)
	}
	if t.FaceRight {
		l.canvas.SubImage(image.Rect(x+tw-1, y, x+tw, y+th)).(*ebiten.Image).Fill(c)
	}
}

// resolveTileset resolves a tile index to its tileset through the per-gid
// cache. The cache is discarded whenever the map's tileset list changes
// structurally.
func (l *TilemapLayer) resolveTileset(index int) *Tileset {
	if index < 0 {
		return nil
	}
	if l.mc.revision != l.Map.TilesetRevision() {
		l.mc.tilesets = nil
		l.mc.resolved = nil
		l.mc.revision = l.Map.TilesetRevision()
	}
	if index >= len(l.mc.tilesets) {
		grown := make([]*Tileset, index+1)
		copy(grown, l.mc.tilesets)
		l.mc.tilesets = grown
		grownR := make([]bool, index+1)
		copy(grownR, l.mc.resolved)
		l.mc.resolved = grownR
	}
	if !l.mc.resolved[index] {
		l.mc.tilesets[index] = l.Map.TilesetForGID(index)
		l.mc.resolved[index] = true
	}
	return l.mc.tilesets[index]
}

// --- Coordinate transforms ---

// FixX converts a camera/world pixel x coordinate into this layer's
// scroll-factor-adjusted local space. Layers with a scroll factor of 1
// share the camera's space.
func (l *TilemapLayer) FixX(x float64) float64 {
	if l.ScrollFactorX == 1 || l.scrollX == 0 {
		return x
	}
	return l.scrollX + (x - l.scrollX/l.ScrollFactorX)
}

// FixY is FixX for the y axis.
func (l *TilemapLayer) FixY(y float64) float64 {
	if l.ScrollFactorY == 1 || l.scrollY == 0 {
		return y
	}
	return l.scrollY + (y - l.scrollY/l.ScrollFactorY)
}

// TileX converts a world pixel x coordinate to a tile column, flooring
// after the parallax adjustment.
func (l *TilemapLayer) TileX(x float64) int {
	return floorDiv(l.FixX(x), float64(l.layer.TileWidth))
}

// TileY converts a world pixel y coordinate to a tile row.
func (l *TilemapLayer) TileY(y float64) int {
	return floorDiv(l.FixY(y), float64(l.layer.TileHeight))
}

// GetTiles returns the tiles overlapping the pixel-space rectangle, for the
// physics collaborator's broad phase. When collides or interestingFace is
// set, only tiles interesting for those checks are returned. The returned
// slice is owned by the caller.
func (l *TilemapLayer) GetTiles(x, y, width, height float64, collides, interestingFace bool) []*Tile {
	fx := l.FixX(x)
	fy := l.FixY(y)
	tw := float64(l.layer.TileWidth)
	th := float64(l.layer.TileHeight)

	left := floorDiv(fx, tw)
	top := floorDiv(fy, th)
	right := floorDiv(fx+width-1, tw)
	bottom := floorDiv(fy+height-1, th)

	filter := collides || interestingFace
	var out []*Tile
	for ty := top; ty <= bottom; ty++ {
		for tx := left; tx <= right; tx++ {
			t := l.layer.TileAt(tx, ty)
			if t == nil {
				continue
			}
			if filter && !t.IsInteresting(collides, interestingFace) {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// intFloorDiv divides pixels by tile size, rounding toward negative
// infinity.
func intFloorDiv(v, size int) int {
	if size <= 0 {
		return 0
	}
	q := v / size
	if v%size != 0 && (v < 0) != (size < 0) {
		q--
	}
	return q
}
