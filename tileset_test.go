package rowan

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestTilesetSetImage_DerivesCounts(t *testing.T) {
	ts := NewTileset("terrain", 1, 32, 32, 0, 0, nil)
	ts.SetImage(ebiten.NewImage(128, 64))
	if ts.Columns != 4 || ts.Rows != 2 || ts.Total != 8 {
		t.Errorf("slicing = %dx%d (%d total), want 4x2 (8)", ts.Columns, ts.Rows, ts.Total)
	}
}

func TestTilesetUpdateDimensions_MarginAndSpacing(t *testing.T) {
	// 2 margin all around, 2 spacing: 3 columns x 2 rows of 16px tiles is
	// 2+16+2+16+2+16+2 = 56 wide and 2+16+2+16+2 = 38 tall.
	ts := NewTileset("spaced", 1, 16, 16, 2, 2, nil)
	ts.updateDimensions(56, 38)
	if ts.Columns != 3 || ts.Rows != 2 {
		t.Fatalf("slicing = %dx%d, want 3x2", ts.Columns, ts.Rows)
	}

	// Ordinal 4 is row 1, column 1: x = 2 + 1*18 = 20, y = 2 + 1*18 = 20.
	x, y, ok := ts.SourceXY(5)
	if !ok {
		t.Fatal("SourceXY(5) not ok")
	}
	if x != 20 || y != 20 {
		t.Errorf("SourceXY(5) = (%d, %d), want (20, 20)", x, y)
	}
}

func TestTilesetUpdateDimensions_FloorsInexactMultiples(t *testing.T) {
	ts := NewTileset("ragged", 1, 32, 32, 0, 0, nil)
	ts.updateDimensions(100, 70)
	if ts.Columns != 3 || ts.Rows != 2 || ts.Total != 6 {
		t.Errorf("slicing = %dx%d (%d total), want floored 3x2 (6)", ts.Columns, ts.Rows, ts.Total)
	}
}

func TestTilesetContains(t *testing.T) {
	ts := NewTileset("terrain", 5, 32, 32, 0, 0, nil)
	ts.updateDimensions(128, 64) // 8 tiles, gids 5..12
	tests := []struct {
		gid    int
		expect bool
	}{
		{4, false},
		{5, true},
		{12, true},
		{13, false},
	}
	for _, tt := range tests {
		if got := ts.Contains(tt.gid); got != tt.expect {
			t.Errorf("Contains(%d) = %v, want %v", tt.gid, got, tt.expect)
		}
	}
}

func TestTilesetSourceXY_OutOfRange(t *testing.T) {
	ts := NewTileset("terrain", 1, 32, 32, 0, 0, nil)
	ts.updateDimensions(64, 64) // 4 tiles, gids 1..4
	if _, _, ok := ts.SourceXY(0); ok {
		t.Error("SourceXY below range should not be ok")
	}
	if _, _, ok := ts.SourceXY(5); ok {
		t.Error("SourceXY above range should not be ok")
	}
}

func TestTilesetTileImage(t *testing.T) {
	ts := NewTileset("terrain", 1, 16, 16, 0, 0, nil)
	if ts.TileImage(1) != nil {
		t.Error("TileImage without a bound image should be nil")
	}
	ts.SetImage(ebiten.NewImage(64, 32))
	sub := ts.TileImage(6) // ordinal 5: row 1, col 1
	if sub == nil {
		t.Fatal("TileImage(6) = nil")
	}
	b := sub.Bounds()
	if b.Min.X != 16 || b.Min.Y != 16 || b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("sub-image bounds = %v, want 16x16 at (16, 16)", b)
	}
	if ts.TileImage(99) != nil {
		t.Error("TileImage out of range should be nil")
	}
}

func TestImageCollection(t *testing.T) {
	ic := NewImageCollection("props", 10, 0, 0, nil)
	ic.AddImage(10, "barrel.png")
	ic.AddImage(12, "crate.png")

	if ic.Total() != 2 {
		t.Errorf("Total() = %d, want 2", ic.Total())
	}
	tests := []struct {
		gid    int
		expect bool
	}{
		{9, false},
		{10, true},
		{11, true}, // inside the claimed range even without a member
		{12, true},
		{13, false},
	}
	for _, tt := range tests {
		if got := ic.Contains(tt.gid); got != tt.expect {
			t.Errorf("Contains(%d) = %v, want %v", tt.gid, got, tt.expect)
		}
	}
}
