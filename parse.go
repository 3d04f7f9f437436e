package rowan

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
)

// ObjectKind distinguishes the shape of an object-layer record.
type ObjectKind uint8

const (
	ObjectRectangle ObjectKind = iota // default shape
	ObjectEllipse
	ObjectPolygon
	ObjectPolyline
	ObjectTile // placed tile object, identified by gid
)

// Object is one record from a Tiled object layer.
type Object struct {
	Name string
	Type string
	Kind ObjectKind
	// X, Y, Width, Height are in pixels.
	X, Y          float64
	Width, Height float64
	// GID is set for tile objects.
	GID int
	// Rotation in degrees, as exported.
	Rotation float64
	Visible  bool
	// Points holds the polygon/polyline vertices relative to (X, Y).
	Points     []Vec2
	Properties map[string]any
}

// ImageLayer is one record from a Tiled image layer.
type ImageLayer struct {
	Name       string
	Image      string
	X, Y       float64
	Alpha      float64
	Visible    bool
	Properties map[string]any
}

// --- JSON structure types (Tiled JSON export schema) ---

type tiledMapJSON struct {
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	TileWidth   int                `json:"tilewidth"`
	TileHeight  int                `json:"tileheight"`
	Orientation string             `json:"orientation"`
	Version     float64            `json:"version"`
	Properties  map[string]any     `json:"properties"`
	Layers      []tiledLayerJSON   `json:"layers"`
	Tilesets    []tiledTilesetJSON `json:"tilesets"`
}

type tiledLayerJSON struct {
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Visible     *bool             `json:"visible"`
	Opacity     *float64          `json:"opacity"`
	X           float64           `json:"x"`
	Y           float64           `json:"y"`
	Data        json.RawMessage   `json:"data"`
	Encoding    string            `json:"encoding"`
	Compression string            `json:"compression"`
	Image       string            `json:"image"`
	Objects     []tiledObjectJSON `json:"objects"`
	Properties  map[string]any    `json:"properties"`
}

type tiledObjectJSON struct {
	Name       string           `json:"name"`
	Type       string           `json:"type"`
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	GID        int              `json:"gid"`
	Rotation   float64          `json:"rotation"`
	Visible    *bool            `json:"visible"`
	Ellipse    bool             `json:"ellipse"`
	Polyline   []tiledPointJSON `json:"polyline"`
	Polygon    []tiledPointJSON `json:"polygon"`
	Properties map[string]any   `json:"properties"`
}

type tiledPointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type tiledTilesetJSON struct {
	Name           string                    `json:"name"`
	FirstGID       int                       `json:"firstgid"`
	Image          string                    `json:"image"`
	ImageWidth     int                       `json:"imagewidth"`
	ImageHeight    int                       `json:"imageheight"`
	TileWidth      int                       `json:"tilewidth"`
	TileHeight     int                       `json:"tileheight"`
	Margin         int                       `json:"margin"`
	Spacing        int                       `json:"spacing"`
	Properties     map[string]any            `json:"properties"`
	TileProperties map[string]map[string]any `json:"tileproperties"`
	Tiles          map[string]struct {
		Image string `json:"image"`
	} `json:"tiles"`
}

// --- Entry points ---

// Parse converts a raw map payload into a Tilemap. The tile dimensions only
// apply to CSV data, which doesn't carry its own. An empty payload yields an
// empty map with a warning rather than an error, matching the tolerance of
// the rest of the parser.
func Parse(data []byte, format Format, tileWidth, tileHeight int) (*Tilemap, error) {
	if len(data) == 0 {
		log.Printf("rowan: empty map payload, producing an empty map")
		return NewTilemap(0, 0, tileWidth, tileHeight), nil
	}
	switch format {
	case FormatCSV:
		return ParseCSV(string(data), tileWidth, tileHeight)
	case FormatTiledJSON:
		return ParseTiledJSON(data)
	}
	return nil, fmt.Errorf("rowan: unknown map format %d", format)
}

// ParseCSV parses comma-separated tile data: each line is one map row, each
// cell one tile index. Zero means empty. The result has a single layer named
// "layer".
func ParseCSV(data string, tileWidth, tileHeight int) (*Tilemap, error) {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.Trim(data, "\n")
	rows := strings.Split(data, "\n")

	height := len(rows)
	width := len(strings.Split(rows[0], ","))

	m := NewTilemap(width, height, tileWidth, tileHeight)
	m.Format = FormatCSV
	l := NewLayer("layer", width, height, tileWidth, tileHeight)
	m.Layers = append(m.Layers, l)

	for y, row := range rows {
		cells := strings.Split(row, ",")
		if len(cells) != width {
			return nil, fmt.Errorf("rowan: csv row %d has %d cells, want %d", y, len(cells), width)
		}
		for x, cell := range cells {
			index, err := strconv.Atoi(strings.TrimSpace(cell))
			if err != nil {
				return nil, fmt.Errorf("rowan: csv cell (%d,%d): %w", x, y, err)
			}
			if index <= 0 {
				if InsertNull {
					l.Data[y][x] = nil
				}
				continue
			}
			l.Data[y][x].Index = index
		}
	}
	return m, nil
}

// ParseTiledJSON parses a Tiled JSON export. Only orthogonal maps are
// supported; any other orientation is a recoverable, caller-visible error.
// Tile layers with unsupported compression are dropped with a warning and
// parsing continues.
func ParseTiledJSON(data []byte) (*Tilemap, error) {
	var raw tiledMapJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("rowan: failed to parse map JSON: %w", err)
	}
	if raw.Orientation != "orthogonal" {
		return nil, fmt.Errorf("rowan: unsupported map orientation %q, only orthogonal maps are supported", raw.Orientation)
	}

	m := NewTilemap(raw.Width, raw.Height, raw.TileWidth, raw.TileHeight)
	m.Format = FormatTiledJSON
	m.Version = raw.Version
	m.Properties = raw.Properties

	parseTilesets(&raw, m)

	for i := range raw.Layers {
		rl := &raw.Layers[i]
		switch rl.Type {
		case "tilelayer":
			parseTileLayer(rl, m)
		case "objectgroup":
			parseObjectGroup(rl, m)
		case "imagelayer":
			parseImageLayer(rl, m)
		default:
			if globalDebug {
				log.Printf("rowan: skipping unknown layer type %q (%s)", rl.Type, rl.Name)
			}
		}
	}

	m.rebuildTileIndex()
	enrichTileProperties(m)
	return m, nil
}

// parseTilesets splits tileset entries into uniform Tilesets (those with a
// shared image) and ImageCollections (per-member images), back-filling each
// entry's last gid once the subsequent entry is seen.
func parseTilesets(raw *tiledMapJSON, m *Tilemap) {
	var prevTS *Tileset
	var prevIC *ImageCollection

	for i := range raw.Tilesets {
		rt := &raw.Tilesets[i]

		// Back-fill the previous entry's gid range.
		if prevTS != nil {
			prevTS.LastGID = rt.FirstGID - 1
		}
		if prevIC != nil {
			prevIC.lastGID = rt.FirstGID - 1
		}
		prevTS, prevIC = nil, nil

		if rt.Image != "" {
			ts := NewTileset(rt.Name, rt.FirstGID, rt.TileWidth, rt.TileHeight, rt.Margin, rt.Spacing, rt.Properties)
			ts.updateDimensions(rt.ImageWidth, rt.ImageHeight)
			ts.LastGID = ts.FirstGID + ts.Total - 1
			if len(rt.TileProperties) > 0 {
				ts.TileProperties = make(map[int]map[string]any, len(rt.TileProperties))
				for id, props := range rt.TileProperties {
					local, err := strconv.Atoi(id)
					if err != nil {
						continue
					}
					ts.TileProperties[local] = props
				}
			}
			m.Tilesets = append(m.Tilesets, ts)
			prevTS = ts
			continue
		}

		if len(rt.Tiles) > 0 {
			ic := NewImageCollection(rt.Name, rt.FirstGID, rt.ImageWidth, rt.ImageHeight, rt.Properties)
			for id, entry := range rt.Tiles {
				local, err := strconv.Atoi(id)
				if err != nil {
					continue
				}
				ic.AddImage(rt.FirstGID+local, entry.Image)
			}
			m.ImageCollections = append(m.ImageCollections, ic)
			prevIC = ic
			continue
		}

		if globalDebug {
			log.Printf("rowan: tileset %q has neither an image nor a tiles map, skipping", rt.Name)
		}
	}
}

// parseTileLayer decodes one tile layer's cell data and populates a Layer.
// Unsupported compression drops the layer (warning, non-fatal).
func parseTileLayer(rl *tiledLayerJSON, m *Tilemap) {
	cells, ok := decodeLayerData(rl)
	if !ok {
		return
	}
	if len(cells) < rl.Width*rl.Height {
		log.Printf("rowan: layer %q has %d cells, want %d, dropping layer", rl.Name, len(cells), rl.Width*rl.Height)
		return
	}

	l := NewLayer(rl.Name, rl.Width, rl.Height, m.TileWidth, m.TileHeight)
	if rl.Visible != nil {
		l.Visible = *rl.Visible
	}
	if rl.Opacity != nil {
		l.Alpha = *rl.Opacity
	}
	l.Properties = rl.Properties

	for y := 0; y < rl.Height; y++ {
		for x := 0; x < rl.Width; x++ {
			cell := cells[y*rl.Width+x]
			gid := cell &^ gidFlagMask
			if gid == 0 {
				if InsertNull {
					l.Data[y][x] = nil
				}
				continue
			}
			t := l.Data[y][x]
			t.Index = int(gid)
			t.Rotation, t.Flipped = gidTransform(cell)
		}
	}
	m.Layers = append(m.Layers, l)
}

// decodeLayerData returns the raw uint32 cells of a tile layer. ok is false
// when the layer must be dropped.
func decodeLayerData(rl *tiledLayerJSON) ([]uint32, bool) {
	if rl.Compression != "" {
		log.Printf("rowan: layer %q uses unsupported compression %q, dropping layer", rl.Name, rl.Compression)
		return nil, false
	}

	if rl.Encoding == "base64" {
		var encoded string
		if err := json.Unmarshal(rl.Data, &encoded); err != nil {
			log.Printf("rowan: layer %q base64 data is not a string, dropping layer", rl.Name)
			return nil, false
		}
		buf, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			log.Printf("rowan: layer %q base64 decode failed (%v), dropping layer", rl.Name, err)
			return nil, false
		}
		cells := make([]uint32, len(buf)/4)
		for i := range cells {
			cells[i] = binary.LittleEndian.Uint32(buf[i*4:])
		}
		return cells, true
	}

	var cells []uint32
	if err := json.Unmarshal(rl.Data, &cells); err != nil {
		log.Printf("rowan: layer %q has malformed cell data (%v), dropping layer", rl.Name, err)
		return nil, false
	}
	return cells, true
}

// gidTransform maps the three gid flag bits to the (rotation, flipped) pair
// a renderer applies: flipped mirrors horizontally before rotating.
//
// The combination value is (H << 2) | (V << 1) | D. Combination 3 (V+D) has
// no explicit mapping in the reference material; it is completed by symmetry
// as a plain 270 degree rotation.
func gidTransform(cell uint32) (rotation float64, flipped bool) {
	var fv int
	if cell&gidFlipH != 0 {
		fv |= 4
	}
	if cell&gidFlipV != 0 {
		fv |= 2
	}
	if cell&gidFlipD != 0 {
		fv |= 1
	}
	switch fv {
	case 1:
		return 3 * math.Pi / 2, true
	case 2:
		return math.Pi, true
	case 3:
		return 3 * math.Pi / 2, false
	case 4:
		return 0, true
	case 5:
		return math.Pi / 2, false
	case 6:
		return math.Pi, false
	case 7:
		return math.Pi / 2, true
	}
	return 0, false
}

// parseObjectGroup splits an object layer into the general Objects map and,
// for polylines, the Collision map consumed by physics.
func parseObjectGroup(rl *tiledLayerJSON, m *Tilemap) {
	for i := range rl.Objects {
		ro := &rl.Objects[i]
		o := &Object{
			Name:       ro.Name,
			Type:       ro.Type,
			X:          ro.X,
			Y:          ro.Y,
			Width:      ro.Width,
			Height:     ro.Height,
			GID:        ro.GID,
			Rotation:   ro.Rotation,
			Visible:    true,
			Properties: ro.Properties,
		}
		if ro.Visible != nil {
			o.Visible = *ro.Visible
		}

		switch {
		case ro.GID > 0:
			o.Kind = ObjectTile
		case len(ro.Polyline) > 0:
			o.Kind = ObjectPolyline
			o.Points = toPoints(ro.Polyline)
			m.Collision[rl.Name] = append(m.Collision[rl.Name], o)
		case len(ro.Polygon) > 0:
			o.Kind = ObjectPolygon
			o.Points = toPoints(ro.Polygon)
		case ro.Ellipse:
			o.Kind = ObjectEllipse
		default:
			o.Kind = ObjectRectangle
		}
		m.Objects[rl.Name] = append(m.Objects[rl.Name], o)
	}
}

func toPoints(raw []tiledPointJSON) []Vec2 {
	pts := make([]Vec2, len(raw))
	for i, p := range raw {
		pts[i] = Vec2{X: p.X, Y: p.Y}
	}
	return pts
}

// parseImageLayer records an image layer.
func parseImageLayer(rl *tiledLayerJSON, m *Tilemap) {
	il := &ImageLayer{
		Name:       rl.Name,
		Image:      rl.Image,
		X:          rl.X,
		Y:          rl.Y,
		Alpha:      1,
		Visible:    true,
		Properties: rl.Properties,
	}
	if rl.Opacity != nil {
		il.Alpha = *rl.Opacity
	}
	if rl.Visible != nil {
		il.Visible = *rl.Visible
	}
	m.Images = append(m.Images, il)
}

// enrichTileProperties merges tileset-defined per-tile properties into every
// placed tile. Tileset keys win on collision.
func enrichTileProperties(m *Tilemap) {
	for _, l := range m.Layers {
		for _, row := range l.Data {
			for _, t := range row {
				if t == nil || t.Index <= 0 {
					continue
				}
				ts := m.TilesetForGID(t.Index)
				if ts == nil || ts.TileProperties == nil {
					continue
				}
				props, ok := ts.TileProperties[t.Index-ts.FirstGID]
				if !ok {
					continue
				}
				if t.Properties == nil {
					t.Properties = make(map[string]any, len(props))
				}
				for k, v := range props {
					t.Properties[k] = v
				}
			}
		}
	}
}
