package terrain

import "github.com/Faultbox/parkterrain/pkg/formats"

// HeightStep is the elevation a raised corner gains, in base-height units.
const HeightStep = 2

// WaterHeightStep converts a surface's water height slot to base-height units.
const WaterHeightStep = 2

// OppositeCorner returns the corner diagonally across the tile from corner.
func OppositeCorner(corner formats.Slope) formats.Slope {
	switch corner {
	case formats.SlopeNorthUp:
		return formats.SlopeSouthUp
	case formats.SlopeEastUp:
		return formats.SlopeWestUp
	case formats.SlopeSouthUp:
		return formats.SlopeNorthUp
	case formats.SlopeWestUp:
		return formats.SlopeEastUp
	default:
		return 0
	}
}

// CornerHeight returns the elevation of one corner of a tile, in base-height units.
//
// A raised corner sits one HeightStep above the base. On a double-height slope the
// simulation raises three corners and leaves the fourth down; the corner diagonally
// across from the lowered one sits a further HeightStep up.
func CornerHeight(baseHeight uint8, slope, corner formats.Slope) int {
	height := int(baseHeight)
	if slope.Has(corner) {
		height += HeightStep
	}
	if slope.IsDoubleHeight() {
		others := formats.SlopeAllCornersUp &^ OppositeCorner(corner)
		if slope.Corners() == others {
			height += HeightStep
		}
	}
	return height
}

// CornerHeights returns the four corner elevations of a surface in N, E, S, W order.
func CornerHeights(s formats.SurfaceElement) [4]int {
	return [4]int{
		CornerHeight(s.BaseHeight, s.Slope, formats.SlopeNorthUp),
		CornerHeight(s.BaseHeight, s.Slope, formats.SlopeEastUp),
		CornerHeight(s.BaseHeight, s.Slope, formats.SlopeSouthUp),
		CornerHeight(s.BaseHeight, s.Slope, formats.SlopeWestUp),
	}
}
