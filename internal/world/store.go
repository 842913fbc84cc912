// Package world holds the in-memory tile grid the terrain mesh is generated from.
package world

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/parkterrain/internal/logger"
	"github.com/Faultbox/parkterrain/pkg/formats"
)

// ErrInvalidDimensions is returned when a source reports a non-positive grid size.
var ErrInvalidDimensions = errors.New("invalid tile grid dimensions")

// TileSource is the engine's query-by-coordinate interface for bulk tile fetches.
type TileSource interface {
	Dimensions() (width, height int)
	ElementsAt(x, y int) ([]formats.TileElement, error)
}

// Tile is one grid cell and its owned element list.
type Tile struct {
	X, Y     int
	Elements []formats.TileElement

	surface int // index into Elements, -1 if absent
}

// NewTile creates a tile owning a copy of elements and caches its surface element index.
func NewTile(x, y int, elements []formats.TileElement) Tile {
	owned := make([]formats.TileElement, len(elements))
	copy(owned, elements)

	surface := -1
	for i, e := range owned {
		if e.Type == formats.ElementSurface {
			surface = i
			break
		}
	}

	return Tile{X: x, Y: y, Elements: owned, surface: surface}
}

// HasSurface reports whether the tile carries a Surface element.
func (t *Tile) HasSurface() bool {
	return t.surface >= 0
}

// Surface returns the tile's surface view, or a flat height-0 surface if it has none.
func (t *Tile) Surface() formats.SurfaceElement {
	if t.surface < 0 {
		return formats.SurfaceElement{}
	}
	s, _ := t.Elements[t.surface].AsSurface()
	return s
}

// Store is a rectangular grid of tiles, row-major.
type Store struct {
	Width  int
	Height int
	tiles  []Tile
}

// NewStore creates a store of empty tiles.
func NewStore(width, height int) *Store {
	s := &Store{
		Width:  width,
		Height: height,
		tiles:  make([]Tile, width*height),
	}
	for y := range height {
		for x := range width {
			s.tiles[y*width+x] = NewTile(x, y, nil)
		}
	}
	return s
}

// Load populates a new store from a single bulk fetch of src.
func Load(src TileSource) (*Store, error) {
	width, height := src.Dimensions()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	s := &Store{
		Width:  width,
		Height: height,
		tiles:  make([]Tile, width*height),
	}

	missing := 0
	for y := range height {
		for x := range width {
			elements, err := src.ElementsAt(x, y)
			if err != nil {
				return nil, fmt.Errorf("fetching tile (%d, %d): %w", x, y, err)
			}
			if len(elements) > formats.MaxElementsPerTile {
				return nil, fmt.Errorf("tile (%d, %d): %w: %d", x, y, formats.ErrTooManyElements, len(elements))
			}
			tile := NewTile(x, y, elements)
			if !tile.HasSurface() {
				missing++
			}
			s.tiles[y*width+x] = tile
		}
	}

	if missing > 0 {
		logger.Warn("tiles without surface element, treating as flat",
			zap.Int("count", missing))
	}
	logger.Info("tile store loaded",
		zap.Int("width", width),
		zap.Int("height", height))

	return s, nil
}

// Set replaces the tile at (x, y). Out of bounds coordinates are ignored.
func (s *Store) Set(x, y int, elements ...formats.TileElement) {
	if !s.InBounds(x, y) {
		return
	}
	s.tiles[y*s.Width+x] = NewTile(x, y, elements)
}

// InBounds reports whether (x, y) lies inside the grid.
func (s *Store) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.Width && y < s.Height
}

// Tile returns the tile at the given coordinates.
// Returns nil if coordinates are out of bounds.
func (s *Store) Tile(x, y int) *Tile {
	if !s.InBounds(x, y) {
		return nil
	}
	return &s.tiles[y*s.Width+x]
}

// SurfaceAt returns the surface of the tile at (x, y).
// Missing tiles and tiles without a surface yield the zero (flat, height 0) surface.
func (s *Store) SurfaceAt(x, y int) formats.SurfaceElement {
	t := s.Tile(x, y)
	if t == nil {
		return formats.SurfaceElement{}
	}
	return t.Surface()
}

// HeightRange returns the lowest and highest surface base heights in the grid.
func (s *Store) HeightRange() (lo, hi uint8) {
	if len(s.tiles) == 0 {
		return 0, 0
	}
	lo, hi = 255, 0
	for i := range s.tiles {
		h := s.tiles[i].Surface().BaseHeight
		lo = min(lo, h)
		hi = max(hi, h)
	}
	return lo, hi
}
