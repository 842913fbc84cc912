// Package terrain builds the renderable terrain mesh from the tile grid.
package terrain

import (
	"github.com/Faultbox/parkterrain/pkg/math"
)

// Vertex is an immutable mesh vertex. Two vertices are the same vertex
// only if every field is exactly equal.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// Mesh holds the finished terrain geometry handed to the renderer.
// Submeshes[i] is an index list drawn with Materials[i].
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	UVs       []math.Vec2
	Submeshes [][]uint32
	Materials []RequestedMaterial
	Bounds    Bounds
}

// VertexCount returns the number of unique vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles across all submeshes.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, indices := range m.Submeshes {
		n += len(indices) / 3
	}
	return n
}

// Vertex returns vertex i reassembled from the attribute arrays.
func (m *Mesh) Vertex(i uint32) Vertex {
	return Vertex{Position: m.Positions[i], Normal: m.Normals[i], UV: m.UVs[i]}
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the extent of the box on each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}
