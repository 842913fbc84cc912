package terrain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNoMesh is returned when exporting a nil mesh.
var ErrNoMesh = errors.New("no mesh to export")

// WriteOBJ writes m as a Wavefront OBJ document with one group per submesh.
// Faces keep the mesh's index order, which is counter-clockwise in OBJ's right-handed space.
func WriteOBJ(w io.Writer, m *Mesh) error {
	if m == nil {
		return ErrNoMesh
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# parkterrain mesh: %d vertices, %d triangles\n", m.VertexCount(), m.TriangleCount())
	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	for _, uv := range m.UVs {
		fmt.Fprintf(bw, "vt %g %g\n", uv.X, uv.Y)
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
	}

	for i, indices := range m.Submeshes {
		name := fmt.Sprintf("submesh_%d", i)
		if i < len(m.Materials) {
			name = fmt.Sprintf("%s_%s_%d", name, m.Materials[i].Kind, m.Materials[i].Style)
		}
		fmt.Fprintf(bw, "g %s\n", name)

		for t := 0; t+2 < len(indices); t += 3 {
			a, b, c := indices[t]+1, indices[t+1]+1, indices[t+2]+1
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
	}

	return bw.Flush()
}

// WriteOBJFile writes m to path.
func WriteOBJFile(path string, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating OBJ file: %w", err)
	}
	if err := WriteOBJ(f, m); err != nil {
		f.Close()
		return fmt.Errorf("writing OBJ: %w", err)
	}
	return f.Close()
}
