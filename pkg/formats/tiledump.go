package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Tile dump format errors.
var (
	ErrInvalidTileDumpMagic       = errors.New("invalid tile dump magic: expected 'PKTD'")
	ErrUnsupportedTileDumpVersion = errors.New("unsupported tile dump version")
	ErrTruncatedTileDump          = errors.New("truncated tile dump data")
	ErrTooManyElements            = errors.New("too many elements in tile")
)

const tileDumpMagic = "PKTD"

// MaxTileDumpSize is the largest accepted map edge, in tiles.
const MaxTileDumpSize = 1024

// TileDumpVersion represents the tile dump file version.
type TileDumpVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v TileDumpVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CurrentTileDumpVersion is the version written by WriteTileDump.
var CurrentTileDumpVersion = TileDumpVersion{Major: 1, Minor: 0}

// TileDump is a wholesale capture of the engine's tile grid.
// Tiles are stored row-major: index y*Width+x.
type TileDump struct {
	Version TileDumpVersion
	Width   int
	Height  int
	Tiles   [][]TileElement
}

// NewTileDump creates an empty dump of the given size.
func NewTileDump(width, height int) *TileDump {
	return &TileDump{
		Version: CurrentTileDumpVersion,
		Width:   width,
		Height:  height,
		Tiles:   make([][]TileElement, width*height),
	}
}

// Dimensions returns the grid size in tiles.
func (d *TileDump) Dimensions() (int, int) {
	return d.Width, d.Height
}

// ElementsAt returns the element list of the tile at (x, y).
func (d *TileDump) ElementsAt(x, y int) ([]TileElement, error) {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return nil, fmt.Errorf("tile (%d, %d) outside %dx%d dump", x, y, d.Width, d.Height)
	}
	return d.Tiles[y*d.Width+x], nil
}

// SetElements replaces the element list of the tile at (x, y). Out of bounds coordinates are ignored.
func (d *TileDump) SetElements(x, y int, elements ...TileElement) {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return
	}
	d.Tiles[y*d.Width+x] = elements
}

// CountByType returns the number of elements of each type across the whole dump.
func (d *TileDump) CountByType() map[ElementType]int {
	counts := make(map[ElementType]int)
	for _, elements := range d.Tiles {
		for _, e := range elements {
			counts[e.Type]++
		}
	}
	return counts
}

// ParseTileDump parses a tile dump from raw bytes.
func ParseTileDump(data []byte) (*TileDump, error) {
	if len(data) < 10 {
		return nil, ErrTruncatedTileDump
	}

	if string(data[0:4]) != tileDumpMagic {
		return nil, ErrInvalidTileDumpMagic
	}

	version := TileDumpVersion{
		Major: data[4],
		Minor: data[5],
	}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTileDumpVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var width, height uint16
	if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
		return nil, fmt.Errorf("%w: reading width", ErrTruncatedTileDump)
	}
	if err := binary.Read(r, binary.LittleEndian, &height); err != nil {
		return nil, fmt.Errorf("%w: reading height", ErrTruncatedTileDump)
	}

	if width == 0 || height == 0 || width > MaxTileDumpSize || height > MaxTileDumpSize {
		return nil, fmt.Errorf("invalid tile dump dimensions: %dx%d", width, height)
	}

	dump := NewTileDump(int(width), int(height))
	dump.Version = version

	record := make([]byte, ElementRecordSize)
	for i := range dump.Tiles {
		count, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: reading element count of tile %d", ErrTruncatedTileDump, i)
		}
		if int(count) > MaxElementsPerTile {
			return nil, fmt.Errorf("%w: tile %d has %d", ErrTooManyElements, i, count)
		}

		elements := make([]TileElement, count)
		for j := range elements {
			if _, err := io.ReadFull(r, record); err != nil {
				return nil, fmt.Errorf("%w: reading element %d of tile %d", ErrTruncatedTileDump, j, i)
			}
			elements[j] = decodeElement(record)
		}
		dump.Tiles[i] = elements
	}

	return dump, nil
}

// ParseTileDumpFile parses a tile dump from disk.
func ParseTileDumpFile(path string) (*TileDump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tile dump: %w", err)
	}
	return ParseTileDump(data)
}

// WriteTileDump serializes d in the current format version.
func WriteTileDump(w io.Writer, d *TileDump) error {
	if d.Width <= 0 || d.Height <= 0 || d.Width > MaxTileDumpSize || d.Height > MaxTileDumpSize {
		return fmt.Errorf("invalid tile dump dimensions: %dx%d", d.Width, d.Height)
	}
	if len(d.Tiles) != d.Width*d.Height {
		return fmt.Errorf("tile dump has %d tiles, want %d", len(d.Tiles), d.Width*d.Height)
	}

	buf := make([]byte, 0, 10+len(d.Tiles)*(1+ElementRecordSize))
	buf = append(buf, tileDumpMagic...)
	buf = append(buf, CurrentTileDumpVersion.Major, CurrentTileDumpVersion.Minor)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(d.Width))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(d.Height))

	for i, elements := range d.Tiles {
		if len(elements) > MaxElementsPerTile {
			return fmt.Errorf("%w: tile %d has %d", ErrTooManyElements, i, len(elements))
		}
		buf = append(buf, byte(len(elements)))
		for _, e := range elements {
			buf = encodeElement(buf, e)
		}
	}

	_, err := w.Write(buf)
	return err
}

// WriteTileDumpFile writes d to path.
func WriteTileDumpFile(path string, d *TileDump) error {
	var buf bytes.Buffer
	if err := WriteTileDump(&buf, d); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
