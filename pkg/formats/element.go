package formats

import "fmt"

// ElementRecordSize is the size in bytes of one tile element on the wire.
const ElementRecordSize = 4 + ElementSlotCount

// ElementSlotCount is the number of opaque per-type byte slots in an element.
const ElementSlotCount = 8

// MaxElementsPerTile is the largest element count the engine delivers for a single tile.
const MaxElementsPerTile = 16

// ElementType is the type tag of a tile element.
type ElementType uint8

// Element types, in engine tag order.
const (
	ElementSurface ElementType = iota
	ElementPath
	ElementTrack
	ElementSmallScenery
	ElementEntrance
	ElementWall
	ElementLargeScenery
	ElementBanner
	ElementCorrupt
)

// String returns a human-readable element type name.
func (t ElementType) String() string {
	switch t {
	case ElementSurface:
		return "Surface"
	case ElementPath:
		return "Path"
	case ElementTrack:
		return "Track"
	case ElementSmallScenery:
		return "SmallScenery"
	case ElementEntrance:
		return "Entrance"
	case ElementWall:
		return "Wall"
	case ElementLargeScenery:
		return "LargeScenery"
	case ElementBanner:
		return "Banner"
	case ElementCorrupt:
		return "Corrupt"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// Surface element slot offsets.
const (
	surfaceSlotSlope       = 1
	surfaceSlotWaterHeight = 2
	surfaceSlotGrassLength = 3
	surfaceSlotOwnership   = 4
	surfaceSlotStyle       = 5
	surfaceSlotEdgeStyle   = 6
)

// Slope is a surface slope bitmask: four corner-up bits plus a double-height modifier.
type Slope uint8

// Slope bits.
const (
	SlopeNorthUp Slope = 0x01
	SlopeEastUp  Slope = 0x02
	SlopeSouthUp Slope = 0x04
	SlopeWestUp  Slope = 0x08

	SlopeDoubleHeight Slope = 0x10

	SlopeAllCornersUp = SlopeNorthUp | SlopeEastUp | SlopeSouthUp | SlopeWestUp
	SlopeMask         = SlopeAllCornersUp | SlopeDoubleHeight
)

// Has reports whether every bit of corner is set.
func (s Slope) Has(corner Slope) bool {
	return s&corner == corner
}

// Corners returns only the four corner-up bits.
func (s Slope) Corners() Slope {
	return s & SlopeAllCornersUp
}

// IsDoubleHeight reports whether the double-height modifier is set.
func (s Slope) IsDoubleHeight() bool {
	return s&SlopeDoubleHeight != 0
}

// TileElement is one fixed-size element record as delivered by the simulation engine.
// The slot bytes are opaque; typed views such as AsSurface give them names.
type TileElement struct {
	Type            ElementType
	Flags           uint8
	BaseHeight      uint8
	ClearanceHeight uint8
	Slots           [ElementSlotCount]byte
}

// SurfaceElement is the named view of a Surface element's slots.
type SurfaceElement struct {
	BaseHeight      uint8
	ClearanceHeight uint8
	Slope           Slope
	WaterHeight     uint8
	GrassLength     uint8
	Ownership       uint8
	SurfaceStyle    uint8
	EdgeStyle       uint8
}

// AsSurface returns the surface view of e. The second result is false if e is not a Surface element.
func (e TileElement) AsSurface() (SurfaceElement, bool) {
	if e.Type != ElementSurface {
		return SurfaceElement{}, false
	}
	return SurfaceElement{
		BaseHeight:      e.BaseHeight,
		ClearanceHeight: e.ClearanceHeight,
		Slope:           Slope(e.Slots[surfaceSlotSlope]) & SlopeMask,
		WaterHeight:     e.Slots[surfaceSlotWaterHeight],
		GrassLength:     e.Slots[surfaceSlotGrassLength],
		Ownership:       e.Slots[surfaceSlotOwnership],
		SurfaceStyle:    e.Slots[surfaceSlotStyle],
		EdgeStyle:       e.Slots[surfaceSlotEdgeStyle],
	}, true
}

// NewSurfaceElement encodes a surface view back into a wire record.
func NewSurfaceElement(s SurfaceElement) TileElement {
	e := TileElement{
		Type:            ElementSurface,
		BaseHeight:      s.BaseHeight,
		ClearanceHeight: s.ClearanceHeight,
	}
	e.Slots[surfaceSlotSlope] = uint8(s.Slope & SlopeMask)
	e.Slots[surfaceSlotWaterHeight] = s.WaterHeight
	e.Slots[surfaceSlotGrassLength] = s.GrassLength
	e.Slots[surfaceSlotOwnership] = s.Ownership
	e.Slots[surfaceSlotStyle] = s.SurfaceStyle
	e.Slots[surfaceSlotEdgeStyle] = s.EdgeStyle
	return e
}

// decodeElement decodes a single wire record. Unknown type tags decode as Corrupt.
func decodeElement(b []byte) TileElement {
	e := TileElement{
		Type:            ElementType(b[0]),
		Flags:           b[1],
		BaseHeight:      b[2],
		ClearanceHeight: b[3],
	}
	if e.Type > ElementCorrupt {
		e.Type = ElementCorrupt
	}
	copy(e.Slots[:], b[4:ElementRecordSize])
	return e
}

// encodeElement appends the wire record for e to dst.
func encodeElement(dst []byte, e TileElement) []byte {
	dst = append(dst, byte(e.Type), e.Flags, e.BaseHeight, e.ClearanceHeight)
	return append(dst, e.Slots[:]...)
}
