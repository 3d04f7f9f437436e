package rowan

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for view X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Scroller animates and clamps a camera view rectangle and feeds it to one
// or more TilemapLayer views each frame. It is a convenience collaborator;
// callers managing their own camera can pass a Rect to Render directly.
type Scroller struct {
	// View is the current world-space camera rectangle.
	View Rect

	// BoundsEnabled clamps the view so it stays within Bounds.
	BoundsEnabled bool
	// Bounds is the world-space rectangle the view is clamped to when
	// BoundsEnabled is true. Typically the map's pixel dimensions.
	Bounds Rect

	scrollTween *scrollAnim
}

// NewScroller creates a scroller with the given viewport dimensions at the
// origin.
func NewScroller(width, height float64) *Scroller {
	return &Scroller{
		View: Rect{Width: width, Height: height},
	}
}

// SetBounds enables view clamping, typically to the map's pixel size.
func (s *Scroller) SetBounds(bounds Rect) {
	s.BoundsEnabled = true
	s.Bounds = bounds
	s.clampToBounds()
}

// SetBoundsToMap clamps the view to the pixel dimensions of the given map.
func (s *Scroller) SetBoundsToMap(m *Tilemap) {
	s.SetBounds(Rect{Width: float64(m.WidthInPixels()), Height: float64(m.HeightInPixels())})
}

// ClearBounds disables view clamping.
func (s *Scroller) ClearBounds() {
	s.BoundsEnabled = false
}

// ScrollTo animates the view's top-left corner to the given world position
// over duration seconds.
func (s *Scroller) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	s.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(s.View.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(s.View.Y), float32(y), duration, easeFn),
	}
}

// ScrollToTile animates the view so the given tile of the map sits at the
// view center.
func (s *Scroller) ScrollToTile(m *Tilemap, tileX, tileY int, duration float32, easeFn ease.TweenFunc) {
	worldX := float64(tileX*m.TileWidth) + float64(m.TileWidth)/2
	worldY := float64(tileY*m.TileHeight) + float64(m.TileHeight)/2
	s.ScrollTo(worldX-s.View.Width/2, worldY-s.View.Height/2, duration, easeFn)
}

// Scrolling reports whether a scroll animation is in flight.
func (s *Scroller) Scrolling() bool {
	return s.scrollTween != nil
}

// Update advances the scroll animation and bounds clamping. dt is the frame
// delta in seconds.
func (s *Scroller) Update(dt float32) {
	if s.scrollTween != nil {
		if !s.scrollTween.doneX {
			val, done := s.scrollTween.tweenX.Update(dt)
			s.View.X = float64(val)
			s.scrollTween.doneX = done
		}
		if !s.scrollTween.doneY {
			val, done := s.scrollTween.tweenY.Update(dt)
			s.View.Y = float64(val)
			s.scrollTween.doneY = done
		}
		if s.scrollTween.doneX && s.scrollTween.doneY {
			s.scrollTween = nil
		}
	}

	if s.BoundsEnabled {
		s.clampToBounds()
	}
}

// clampToBounds restricts the view so it stays within Bounds. Views larger
// than the bounds are centered on them.
func (s *Scroller) clampToBounds() {
	minX := s.Bounds.X
	maxX := s.Bounds.X + s.Bounds.Width - s.View.Width
	minY := s.Bounds.Y
	maxY := s.Bounds.Y + s.Bounds.Height - s.View.Height

	if minX > maxX {
		s.View.X = s.Bounds.X + (s.Bounds.Width-s.View.Width)/2
	} else {
		s.View.X = math.Max(minX, math.Min(s.View.X, maxX))
	}
	if minY > maxY {
		s.View.Y = s.Bounds.Y + (s.Bounds.Height-s.View.Height)/2
	} else {
		s.View.Y = math.Max(minY, math.Min(s.View.Y, maxY))
	}
}
