package rowan

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"testing"
)

// --- CSV ---

func TestParseCSV_Basic(t *testing.T) {
	m, err := ParseCSV("1,2,3\n4,5,6", 16, 16)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if m.Width != 3 || m.Height != 2 {
		t.Fatalf("map size = %dx%d, want 3x2", m.Width, m.Height)
	}
	if m.Format != FormatCSV {
		t.Errorf("Format = %v, want FormatCSV", m.Format)
	}
	if len(m.Layers) != 1 || m.Layers[0].Name != "layer" {
		t.Fatalf("want a single layer named \"layer\", got %v", m.Layers)
	}

	tile := m.GetTile(0, 0, nil, false)
	if tile == nil || tile.Index != 1 {
		t.Fatalf("tile (0,0) = %v, want index 1", tile)
	}
	if tile.WorldX != 0 || tile.WorldY != 0 {
		t.Errorf("tile (0,0) world = (%v, %v), want (0, 0)", tile.WorldX, tile.WorldY)
	}
	last := m.GetTile(2, 1, nil, false)
	if last == nil || last.Index != 6 {
		t.Fatalf("tile (2,1) = %v, want index 6", last)
	}
	if last.WorldX != 32 || last.WorldY != 16 {
		t.Errorf("tile (2,1) world = (%v, %v), want (32, 16)", last.WorldX, last.WorldY)
	}
}

func TestParseCSV_ZeroIsEmpty(t *testing.T) {
	m, err := ParseCSV("0,1\n2,0", 16, 16)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if m.HasTile(0, 0, nil) {
		t.Error("cell 0 should be empty")
	}
	empty := m.GetTile(0, 0, nil, true)
	if empty == nil || empty.Index != EmptyTile {
		t.Errorf("nonNull get of empty cell = %v, want tile with index -1", empty)
	}
	if !m.HasTile(1, 0, nil) {
		t.Error("cell 1 should be populated")
	}
}

func TestParseCSV_WindowsLineEndings(t *testing.T) {
	m, err := ParseCSV("1,2\r\n3,4\r\n", 16, 16)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if m.Width != 2 || m.Height != 2 {
		t.Errorf("map size = %dx%d, want 2x2", m.Width, m.Height)
	}
}

func TestParseCSV_RaggedRow(t *testing.T) {
	if _, err := ParseCSV("1,2,3\n4,5", 16, 16); err == nil {
		t.Error("ragged row should be an error")
	}
}

func TestParseCSV_BadCell(t *testing.T) {
	if _, err := ParseCSV("1,x\n2,3", 16, 16); err == nil {
		t.Error("non-numeric cell should be an error")
	}
}

func TestParseCSV_InsertNull(t *testing.T) {
	InsertNull = true
	defer func() { InsertNull = false }()

	m, err := ParseCSV("0,1", 16, 16)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if m.Layers[0].Data[0][0] != nil {
		t.Error("empty cell should be nil in null-insertion mode")
	}
	if m.GetTile(0, 0, nil, true) != nil {
		t.Error("nonNull get of a nil cell should still be nil")
	}
	if m.Layers[0].Data[0][1] == nil {
		t.Error("populated cell should not be nil")
	}
}

// --- Parse dispatch ---

func TestParse_EmptyPayload(t *testing.T) {
	m, err := Parse(nil, FormatTiledJSON, 16, 16)
	if err != nil {
		t.Fatalf("empty payload should not error, got %v", err)
	}
	if m == nil || len(m.Layers) != 0 {
		t.Error("empty payload should yield an empty map")
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	if _, err := Parse([]byte("1,2"), Format(99), 16, 16); err == nil {
		t.Error("unknown format should be an error")
	}
}

// --- Tiled JSON ---

const tiledBasicJSON = `{
	"width": 3, "height": 2,
	"tilewidth": 16, "tileheight": 16,
	"orientation": "orthogonal",
	"version": 1.1,
	"properties": {"music": "cave"},
	"tilesets": [{
		"name": "terrain",
		"firstgid": 1,
		"image": "terrain.png",
		"imagewidth": 64, "imageheight": 32,
		"tilewidth": 16, "tileheight": 16,
		"margin": 0, "spacing": 0
	}],
	"layers": [{
		"type": "tilelayer",
		"name": "ground",
		"width": 3, "height": 2,
		"data": [1, 2, 3, 0, 0, 6]
	}]
}`

func TestParseTiledJSON_Basic(t *testing.T) {
	m, err := ParseTiledJSON([]byte(tiledBasicJSON))
	if err != nil {
		t.Fatalf("ParseTiledJSON: %v", err)
	}
	if m.Width != 3 || m.Height != 2 || m.TileWidth != 16 || m.TileHeight != 16 {
		t.Fatalf("map dims = %dx%d tiles of %dx%d", m.Width, m.Height, m.TileWidth, m.TileHeight)
	}
	if m.Version != 1.1 {
		t.Errorf("Version = %v, want 1.1", m.Version)
	}
	if m.Properties["music"] != "cave" {
		t.Errorf("Properties = %v", m.Properties)
	}
	if len(m.Layers) != 1 {
		t.Fatalf("layers = %d, want 1", len(m.Layers))
	}

	tile := m.GetTile(0, 0, "ground", false)
	if tile == nil || tile.Index != 1 {
		t.Fatalf("tile (0,0) = %v, want index 1", tile)
	}
	if m.HasTile(0, 1, nil) {
		t.Error("cell 0 should be empty")
	}
	if got := m.GetTile(2, 1, nil, false); got == nil || got.Index != 6 {
		t.Fatalf("tile (2,1) = %v, want index 6", got)
	}

	if len(m.Tilesets) != 1 {
		t.Fatalf("tilesets = %d, want 1", len(m.Tilesets))
	}
	ts := m.Tilesets[0]
	if ts.Total != 8 {
		t.Errorf("tileset total = %d, want 8", ts.Total)
	}
	if ts.LastGID != 8 {
		t.Errorf("LastGID = %d, want 8", ts.LastGID)
	}
	if m.TilesetForGID(3) != ts {
		t.Error("gid 3 should resolve to the tileset")
	}
	if m.TilesetForGID(9) != nil {
		t.Error("gid 9 is out of range")
	}
}

func TestParseTiledJSON_NonOrthogonal(t *testing.T) {
	data := `{"width": 1, "height": 1, "tilewidth": 16, "tileheight": 16, "orientation": "isometric"}`
	m, err := ParseTiledJSON([]byte(data))
	if err == nil {
		t.Fatal("isometric orientation should be an error")
	}
	if m != nil {
		t.Error("map should be nil on orientation error")
	}
}

func TestParseTiledJSON_MalformedJSON(t *testing.T) {
	if _, err := ParseTiledJSON([]byte("{not json")); err == nil {
		t.Error("malformed JSON should be an error")
	}
}

func TestParseTiledJSON_CompressedLayerDropped(t *testing.T) {
	data := `{
		"width": 1, "height": 1, "tilewidth": 16, "tileheight": 16,
		"orientation": "orthogonal",
		"layers": [{
			"type": "tilelayer", "name": "packed",
			"width": 1, "height": 1,
			"encoding": "base64", "compression": "zlib",
			"data": "eJxjYAAAAAIAAQ=="
		}]
	}`
	m, err := ParseTiledJSON([]byte(data))
	if err != nil {
		t.Fatalf("compressed layer should not be fatal, got %v", err)
	}
	if len(m.Layers) != 0 {
		t.Errorf("compressed layer should be dropped, got %d layers", len(m.Layers))
	}
}

func TestParseTiledJSON_Base64Flags(t *testing.T) {
	cells := []uint32{
		5 | gidFlipH,             // mirrored, no rotation
		6 | gidFlipV | gidFlipD,  // 270 degrees
		7,                        // plain
		8 | gidFlipH | gidFlipV | gidFlipD, // mirrored, 90 degrees
	}
	buf := make([]byte, 4*len(cells))
	for i, c := range cells {
		binary.LittleEndian.PutUint32(buf[i*4:], c)
	}
	data := fmt.Sprintf(`{
		"width": 4, "height": 1, "tilewidth": 16, "tileheight": 16,
		"orientation": "orthogonal",
		"layers": [{
			"type": "tilelayer", "name": "ground",
			"width": 4, "height": 1,
			"encoding": "base64",
			"data": %q
		}]
	}`, base64.StdEncoding.EncodeToString(buf))

	m, err := ParseTiledJSON([]byte(data))
	if err != nil {
		t.Fatalf("ParseTiledJSON: %v", err)
	}
	l := m.Layers[0]

	t0 := l.Data[0][0]
	if t0.Index != 5 || !t0.Flipped || t0.Rotation != 0 {
		t.Errorf("cell 0 = index %d flipped %v rot %v, want 5 true 0", t0.Index, t0.Flipped, t0.Rotation)
	}
	t1 := l.Data[0][1]
	if t1.Index != 6 || t1.Flipped || !approxEqual(t1.Rotation, 3*math.Pi/2, epsilon) {
		t.Errorf("cell 1 = index %d flipped %v rot %v, want 6 false 3pi/2", t1.Index, t1.Flipped, t1.Rotation)
	}
	t2 := l.Data[0][2]
	if t2.Index != 7 || t2.Flipped || t2.Rotation != 0 {
		t.Errorf("cell 2 = index %d flipped %v rot %v, want 7 false 0", t2.Index, t2.Flipped, t2.Rotation)
	}
	t3 := l.Data[0][3]
	if t3.Index != 8 || !t3.Flipped || !approxEqual(t3.Rotation, math.Pi/2, epsilon) {
		t.Errorf("cell 3 = index %d flipped %v rot %v, want 8 true pi/2", t3.Index, t3.Flipped, t3.Rotation)
	}
}

func TestGidTransform(t *testing.T) {
	tests := []struct {
		name     string
		cell     uint32
		rotation float64
		flipped  bool
	}{
		{"plain", 0, 0, false},
		{"D", gidFlipD, 3 * math.Pi / 2, true},
		{"V", gidFlipV, math.Pi, true},
		{"V+D", gidFlipV | gidFlipD, 3 * math.Pi / 2, false},
		{"H", gidFlipH, 0, true},
		{"H+D", gidFlipH | gidFlipD, math.Pi / 2, false},
		{"H+V", gidFlipH | gidFlipV, math.Pi, false},
		{"H+V+D", gidFlipH | gidFlipV | gidFlipD, math.Pi / 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rot, flipped := gidTransform(tt.cell)
			if !approxEqual(rot, tt.rotation, epsilon) || flipped != tt.flipped {
				t.Errorf("gidTransform = (%v, %v), want (%v, %v)", rot, flipped, tt.rotation, tt.flipped)
			}
		})
	}
}

func TestParseTiledJSON_Objects(t *testing.T) {
	data := `{
		"width": 1, "height": 1, "tilewidth": 16, "tileheight": 16,
		"orientation": "orthogonal",
		"layers": [{
			"type": "objectgroup", "name": "things",
			"objects": [
				{"name": "spawn", "x": 10, "y": 20, "width": 16, "height": 16},
				{"name": "zone", "x": 0, "y": 0, "width": 32, "height": 32, "ellipse": true},
				{"name": "wall", "x": 0, "y": 0, "polyline": [{"x": 0, "y": 0}, {"x": 100, "y": 0}]},
				{"name": "hill", "x": 0, "y": 0, "polygon": [{"x": 0, "y": 0}, {"x": 10, "y": 0}, {"x": 5, "y": -10}]},
				{"name": "coin", "x": 48, "y": 16, "gid": 12, "visible": false}
			]
		}]
	}`
	m, err := ParseTiledJSON([]byte(data))
	if err != nil {
		t.Fatalf("ParseTiledJSON: %v", err)
	}

	objs := m.Objects["things"]
	if len(objs) != 5 {
		t.Fatalf("objects = %d, want 5", len(objs))
	}
	kinds := []ObjectKind{ObjectRectangle, ObjectEllipse, ObjectPolyline, ObjectPolygon, ObjectTile}
	for i, want := range kinds {
		if objs[i].Kind != want {
			t.Errorf("object %d kind = %v, want %v", i, objs[i].Kind, want)
		}
	}
	if objs[4].GID != 12 || objs[4].Visible {
		t.Errorf("tile object = gid %d visible %v, want 12 false", objs[4].GID, objs[4].Visible)
	}

	coll := m.Collision["things"]
	if len(coll) != 1 || coll[0].Name != "wall" {
		t.Fatalf("collision records = %v, want just the polyline", coll)
	}
	if len(coll[0].Points) != 2 || coll[0].Points[1].X != 100 {
		t.Errorf("polyline points = %v", coll[0].Points)
	}
}

func TestParseTiledJSON_ImageLayer(t *testing.T) {
	data := `{
		"width": 1, "height": 1, "tilewidth": 16, "tileheight": 16,
		"orientation": "orthogonal",
		"layers": [{
			"type": "imagelayer", "name": "backdrop",
			"image": "sky.png", "x": 0, "y": -32, "opacity": 0.5
		}]
	}`
	m, err := ParseTiledJSON([]byte(data))
	if err != nil {
		t.Fatalf("ParseTiledJSON: %v", err)
	}
	if len(m.Images) != 1 {
		t.Fatalf("image layers = %d, want 1", len(m.Images))
	}
	il := m.Images[0]
	if il.Image != "sky.png" || il.Y != -32 || il.Alpha != 0.5 || !il.Visible {
		t.Errorf("image layer = %+v", il)
	}
}

func TestParseTiledJSON_LayerVisibilityAndOpacity(t *testing.T) {
	data := `{
		"width": 1, "height": 1, "tilewidth": 16, "tileheight": 16,
		"orientation": "orthogonal",
		"layers": [{
			"type": "tilelayer", "name": "hidden",
			"width": 1, "height": 1,
			"visible": false, "opacity": 0.25,
			"data": [1]
		}]
	}`
	m, err := ParseTiledJSON([]byte(data))
	if err != nil {
		t.Fatalf("ParseTiledJSON: %v", err)
	}
	l := m.Layers[0]
	if l.Visible {
		t.Error("layer should be invisible")
	}
	if l.Alpha != 0.25 {
		t.Errorf("Alpha = %v, want 0.25", l.Alpha)
	}
}

func TestParseTiledJSON_TilePropertiesEnriched(t *testing.T) {
	data := `{
		"width": 2, "height": 1, "tilewidth": 16, "tileheight": 16,
		"orientation": "orthogonal",
		"tilesets": [{
			"name": "terrain", "firstgid": 1,
			"image": "terrain.png",
			"imagewidth": 64, "imageheight": 16,
			"tilewidth": 16, "tileheight": 16,
			"tileproperties": {"1": {"slippery": true}}
		}],
		"layers": [{
			"type": "tilelayer", "name": "ground",
			"width": 2, "height": 1,
			"data": [2, 1]
		}]
	}`
	m, err := ParseTiledJSON([]byte(data))
	if err != nil {
		t.Fatalf("ParseTiledJSON: %v", err)
	}
	// Gid 2 is local id 1, which carries the property bag.
	enriched := m.GetTile(0, 0, nil, false)
	if enriched == nil || enriched.Properties["slippery"] != true {
		t.Errorf("tile (0,0) properties = %v, want slippery", enriched.Properties)
	}
	plain := m.GetTile(1, 0, nil, false)
	if plain == nil || plain.Properties != nil {
		t.Errorf("tile (1,0) properties = %v, want none", plain.Properties)
	}
}

func TestParseTiledJSON_ImageCollectionAndGidBackfill(t *testing.T) {
	data := `{
		"width": 1, "height": 1, "tilewidth": 16, "tileheight": 16,
		"orientation": "orthogonal",
		"tilesets": [
			{
				"name": "terrain", "firstgid": 1,
				"image": "terrain.png",
				"imagewidth": 64, "imageheight": 16,
				"tilewidth": 16, "tileheight": 16
			},
			{
				"name": "props", "firstgid": 20,
				"tiles": {"0": {"image": "barrel.png"}, "3": {"image": "crate.png"}}
			}
		],
		"layers": []
	}`
	m, err := ParseTiledJSON([]byte(data))
	if err != nil {
		t.Fatalf("ParseTiledJSON: %v", err)
	}
	if len(m.Tilesets) != 1 || len(m.ImageCollections) != 1 {
		t.Fatalf("got %d tilesets, %d collections", len(m.Tilesets), len(m.ImageCollections))
	}
	if m.Tilesets[0].LastGID != 19 {
		t.Errorf("LastGID = %d, want back-filled 19", m.Tilesets[0].LastGID)
	}
	ic := m.ImageCollections[0]
	if ic.Total() != 2 {
		t.Errorf("collection members = %d, want 2", ic.Total())
	}
	if !ic.Contains(23) || ic.Contains(24) {
		t.Error("collection gid range should end at firstgid+3")
	}
}

func TestParseTiledJSON_ShortLayerDataDropped(t *testing.T) {
	data := `{
		"width": 2, "height": 2, "tilewidth": 16, "tileheight": 16,
		"orientation": "orthogonal",
		"layers": [{
			"type": "tilelayer", "name": "short",
			"width": 2, "height": 2,
			"data": [1, 2]
		}]
	}`
	m, err := ParseTiledJSON([]byte(data))
	if err != nil {
		t.Fatalf("short data should not be fatal, got %v", err)
	}
	if len(m.Layers) != 0 {
		t.Error("layer with too few cells should be dropped")
	}
}
