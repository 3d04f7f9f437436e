package rowan

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestNewScroller(t *testing.T) {
	s := NewScroller(100, 80)
	if s.View.X != 0 || s.View.Y != 0 || s.View.Width != 100 || s.View.Height != 80 {
		t.Errorf("View = %+v, want 100x80 at origin", s.View)
	}
	if s.BoundsEnabled {
		t.Error("bounds should start disabled")
	}
	if s.Scrolling() {
		t.Error("no scroll should be in flight")
	}
}

func TestScrollTo_Linear(t *testing.T) {
	s := NewScroller(100, 100)
	s.ScrollTo(50, 20, 1, ease.Linear)
	if !s.Scrolling() {
		t.Fatal("scroll should be in flight")
	}

	s.Update(0.5)
	if !approxEqual(s.View.X, 25, 0.001) || !approxEqual(s.View.Y, 10, 0.001) {
		t.Errorf("halfway = (%v, %v), want (25, 10)", s.View.X, s.View.Y)
	}

	s.Update(0.5)
	if !approxEqual(s.View.X, 50, 0.001) || !approxEqual(s.View.Y, 20, 0.001) {
		t.Errorf("end = (%v, %v), want (50, 20)", s.View.X, s.View.Y)
	}
	if s.Scrolling() {
		t.Error("finished scroll should clear")
	}
}

func TestScrollTo_OvershootClampsToEnd(t *testing.T) {
	s := NewScroller(100, 100)
	s.ScrollTo(40, 0, 1, ease.Linear)
	s.Update(5)
	if !approxEqual(s.View.X, 40, 0.001) {
		t.Errorf("View.X = %v, want exactly 40", s.View.X)
	}
	if s.Scrolling() {
		t.Error("overshoot should finish the scroll")
	}
}

func TestScrollToTile_CentersTile(t *testing.T) {
	m := NewTilemap(10, 10, 16, 16)
	s := NewScroller(100, 100)
	s.ScrollToTile(m, 2, 3, 1, ease.Linear)
	s.Update(1)
	// Tile (2,3) center is (40, 56); view top-left centers it.
	if !approxEqual(s.View.X, -10, 0.001) || !approxEqual(s.View.Y, 6, 0.001) {
		t.Errorf("View = (%v, %v), want (-10, 6)", s.View.X, s.View.Y)
	}
}

func TestClampToBounds(t *testing.T) {
	s := NewScroller(100, 100)
	s.SetBounds(Rect{0, 0, 200, 150})

	s.View.X, s.View.Y = -10, -10
	s.Update(0)
	if s.View.X != 0 || s.View.Y != 0 {
		t.Errorf("View = (%v, %v), want clamped to (0, 0)", s.View.X, s.View.Y)
	}

	s.View.X, s.View.Y = 150, 100
	s.Update(0)
	if s.View.X != 100 || s.View.Y != 50 {
		t.Errorf("View = (%v, %v), want clamped to (100, 50)", s.View.X, s.View.Y)
	}
}

func TestSetBounds_ClampsImmediately(t *testing.T) {
	s := NewScroller(100, 100)
	s.View.X = 500
	s.SetBounds(Rect{0, 0, 160, 160})
	if s.View.X != 60 {
		t.Errorf("View.X = %v, want 60 right after SetBounds", s.View.X)
	}
}

func TestBoundsSmallerThanView_Centers(t *testing.T) {
	s := NewScroller(100, 100)
	s.SetBounds(Rect{0, 0, 50, 50})
	if s.View.X != -25 || s.View.Y != -25 {
		t.Errorf("View = (%v, %v), want centered (-25, -25)", s.View.X, s.View.Y)
	}
}

func TestSetBoundsToMap(t *testing.T) {
	m := NewTilemap(10, 10, 16, 16)
	s := NewScroller(100, 100)
	s.SetBoundsToMap(m)
	if !s.BoundsEnabled || s.Bounds.Width != 160 || s.Bounds.Height != 160 {
		t.Errorf("Bounds = %+v, want the map's 160x160", s.Bounds)
	}

	s.ClearBounds()
	if s.BoundsEnabled {
		t.Error("ClearBounds should disable clamping")
	}
	s.View.X = 500
	s.Update(0)
	if s.View.X != 500 {
		t.Error("with bounds cleared the view must not clamp")
	}
}

func TestScrollWithBounds_ClampsDuringAnimation(t *testing.T) {
	s := NewScroller(100, 100)
	s.SetBounds(Rect{0, 0, 160, 160})
	s.ScrollTo(-50, 0, 1, ease.Linear)
	s.Update(1)
	if s.View.X != 0 {
		t.Errorf("View.X = %v, want clamped to 0", s.View.X)
	}
}
