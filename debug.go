package rowan

import (
	"fmt"
	"os"
)

// RenderStats holds cumulative repaint counters for a TilemapLayer.
// Useful for verifying that the incremental-redraw paths are actually
// being taken.
type RenderStats struct {
	// FullRedraws counts frames where the whole canvas was repainted.
	FullRedraws int
	// DeltaScrolls counts frames resolved by shifting the canvas and
	// patching the exposed strips.
	DeltaScrolls int
	// SkippedFrames counts frames where nothing changed and no painting
	// happened.
	SkippedFrames int
	// TilesDrawn counts individual tile blits, fallback fills included.
	TilesDrawn int
}

// debugLog prints the repaint counters to stderr. Only emits when global
// debug mode is on.
func (l *TilemapLayer) debugLog() {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[rowan] layer %q: full: %d | delta: %d | skipped: %d | tiles: %d\n",
		l.layer.Name, l.stats.FullRedraws, l.stats.DeltaScrolls,
		l.stats.SkippedFrames, l.stats.TilesDrawn)
}

// debugCheckLayerShape warns on stderr when a layer's Data grid does not
// match its declared dimensions. Parsed maps always agree; hand-built data
// might not.
func debugCheckLayerShape(layer *Layer) {
	if len(layer.Data) != layer.Height {
		_, _ = fmt.Fprintf(os.Stderr, "[rowan] warning: layer %q has %d rows, declared height %d\n",
			layer.Name, len(layer.Data), layer.Height)
		return
	}
	for y, row := range layer.Data {
		if len(row) != layer.Width {
			_, _ = fmt.Fprintf(os.Stderr, "[rowan] warning: layer %q row %d has %d cells, declared width %d\n",
				layer.Name, y, len(row), layer.Width)
			return
		}
	}
}
