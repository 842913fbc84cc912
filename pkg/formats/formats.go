// Package formats provides parsers for the park simulation's data exchange formats.
//
// A tile dump (.pktd) is a wholesale capture of the simulation's tile grid:
//
//	magic    "PKTD"
//	version  major, minor (1 byte each)
//	width    uint16 LE, 1..MaxTileDumpSize
//	height   uint16 LE, 1..MaxTileDumpSize
//	tiles    width*height entries, row-major
//
// Each tile entry is an element count (at most MaxElementsPerTile) followed by
// that many ElementRecordSize-byte records: type, flags, base height,
// clearance height and eight per-type slot bytes.
package formats
