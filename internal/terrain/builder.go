package terrain

import "github.com/Faultbox/parkterrain/pkg/math"

// MeshBuilder collects deduplicated vertices and one index list per submesh.
// It is reused across rebuilds: Clear keeps all backing storage.
type MeshBuilder struct {
	vertices  []Vertex
	lookup    map[Vertex]uint32
	submeshes [][]uint32
}

// NewMeshBuilder creates an empty builder.
func NewMeshBuilder() *MeshBuilder {
	return &MeshBuilder{
		lookup: make(map[Vertex]uint32),
	}
}

// AddVertex returns the index of v, appending it if no equal vertex exists yet.
func (b *MeshBuilder) AddVertex(v Vertex) uint32 {
	if idx, ok := b.lookup[v]; ok {
		return idx
	}
	idx := uint32(len(b.vertices))
	b.vertices = append(b.vertices, v)
	b.lookup[v] = idx
	return idx
}

// AddTriangle appends triangle (a, b, c) to submesh in the given winding order.
// Front faces wind clockwise when seen from outside.
func (b *MeshBuilder) AddTriangle(v0, v1, v2 Vertex, submesh int) {
	list := b.indexList(submesh)
	*list = append(*list, b.AddVertex(v0), b.AddVertex(v1), b.AddVertex(v2))
}

// AddQuad appends a quad whose corners are given clockwise, split along the a-c diagonal.
func (b *MeshBuilder) AddQuad(v0, v1, v2, v3 Vertex, submesh int) {
	b.AddTriangle(v0, v1, v2, submesh)
	b.AddTriangle(v2, v3, v0, submesh)
}

// indexList returns the index list of submesh, growing the submesh set as needed.
// Lists revived from a previous rebuild are truncated but keep their capacity.
func (b *MeshBuilder) indexList(submesh int) *[]uint32 {
	for len(b.submeshes) <= submesh {
		n := len(b.submeshes)
		if n < cap(b.submeshes) {
			b.submeshes = b.submeshes[:n+1]
			b.submeshes[n] = b.submeshes[n][:0]
		} else {
			b.submeshes = append(b.submeshes, nil)
		}
	}
	return &b.submeshes[submesh]
}

// Clear empties the builder without releasing backing storage.
func (b *MeshBuilder) Clear() {
	b.vertices = b.vertices[:0]
	clear(b.lookup)
	b.submeshes = b.submeshes[:0]
}

// VertexCount returns the number of unique vertices added since the last Clear.
func (b *MeshBuilder) VertexCount() int {
	return len(b.vertices)
}

// SubmeshCount returns the number of submeshes touched since the last Clear.
func (b *MeshBuilder) SubmeshCount() int {
	return len(b.submeshes)
}

// Build returns the finished mesh, or nil if no vertex was ever added.
// The mesh owns copies of the builder's data.
func (b *MeshBuilder) Build() *Mesh {
	if len(b.vertices) == 0 {
		return nil
	}

	m := &Mesh{
		Positions: make([]math.Vec3, len(b.vertices)),
		Normals:   make([]math.Vec3, len(b.vertices)),
		UVs:       make([]math.Vec2, len(b.vertices)),
		Submeshes: make([][]uint32, len(b.submeshes)),
		Bounds: Bounds{
			Min: b.vertices[0].Position,
			Max: b.vertices[0].Position,
		},
	}

	for i, v := range b.vertices {
		m.Positions[i] = v.Position
		m.Normals[i] = v.Normal
		m.UVs[i] = v.UV
		m.Bounds.Min = m.Bounds.Min.Min(v.Position)
		m.Bounds.Max = m.Bounds.Max.Max(v.Position)
	}

	for i, indices := range b.submeshes {
		m.Submeshes[i] = append(make([]uint32, 0, len(indices)), indices...)
	}

	return m
}
