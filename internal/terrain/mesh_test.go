package terrain

import (
	"reflect"
	"testing"

	"github.com/Faultbox/parkterrain/internal/world"
	"github.com/Faultbox/parkterrain/pkg/formats"
	"github.com/Faultbox/parkterrain/pkg/math"
)

// flatStore creates a store where every tile is a flat surface at baseHeight.
func flatStore(width, height int, baseHeight uint8) *world.Store {
	store := world.NewStore(width, height)
	for y := range height {
		for x := range width {
			setSurface(store, x, y, formats.SurfaceElement{BaseHeight: baseHeight})
		}
	}
	return store
}

func setSurface(store *world.Store, x, y int, s formats.SurfaceElement) {
	store.Set(x, y, formats.NewSurfaceElement(s))
}

// hillStore creates a varied map exercising slopes, double slopes and height steps.
func hillStore() *world.Store {
	store := flatStore(6, 6, 4)
	setSurface(store, 1, 1, formats.SurfaceElement{BaseHeight: 4, Slope: formats.SlopeNorthUp})
	setSurface(store, 2, 1, formats.SurfaceElement{BaseHeight: 4, Slope: formats.SlopeWestUp | formats.SlopeSouthUp})
	setSurface(store, 3, 2, formats.SurfaceElement{BaseHeight: 8, SurfaceStyle: 2, EdgeStyle: 1})
	setSurface(store, 2, 3, formats.SurfaceElement{
		BaseHeight: 4,
		Slope:      formats.SlopeNorthUp | formats.SlopeEastUp | formats.SlopeWestUp | formats.SlopeDoubleHeight,
	})
	setSurface(store, 4, 4, formats.SurfaceElement{BaseHeight: 0, WaterHeight: 4})
	store.Set(1, 4) // no surface
	return store
}

// triangles returns every triangle of the mesh as vertex triples.
func triangles(m *Mesh) [][3]Vertex {
	var out [][3]Vertex
	for _, indices := range m.Submeshes {
		for i := 0; i+2 < len(indices); i += 3 {
			out = append(out, [3]Vertex{m.Vertex(indices[i]), m.Vertex(indices[i+1]), m.Vertex(indices[i+2])})
		}
	}
	return out
}

func TestGenerate_FlatThreeByThree(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	m := g.Generate(flatStore(3, 3, 0))
	if m == nil {
		t.Fatal("Generate() returned nil for a 3x3 grid")
	}

	stats := g.Stats()
	if stats.Tiles != 1 {
		t.Errorf("processed %d tiles, want 1", stats.Tiles)
	}
	if stats.Skirts != 0 {
		t.Errorf("emitted %d skirts, want 0", stats.Skirts)
	}
	if m.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d, want 4", m.VertexCount())
	}
	if m.TriangleCount() != 2 {
		t.Errorf("TriangleCount() = %d, want 2", m.TriangleCount())
	}
	if len(m.Submeshes) != 1 {
		t.Errorf("expected 1 submesh, got %d", len(m.Submeshes))
	}
	if len(m.Materials) != 1 || m.Materials[0] != (RequestedMaterial{Kind: MaterialSurface}) {
		t.Errorf("Materials = %v, want [surface/0]", m.Materials)
	}

	// Only tile (1, 1) is processed: corners span grid (1,1)..(2,2).
	if m.Bounds.Min != (math.Vec3{X: 1, Y: 0, Z: 1}) || m.Bounds.Max != (math.Vec3{X: 2, Y: 0, Z: 2}) {
		t.Errorf("Bounds = %+v", m.Bounds)
	}
}

func TestGenerate_FlatCapTakesSplitPath(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	m := g.Generate(flatStore(3, 3, 6))

	if g.Stats().SplitCaps != 1 {
		t.Errorf("SplitCaps = %d, want 1", g.Stats().SplitCaps)
	}
	for _, p := range m.Positions {
		if p.Y != 6*DefaultOptions().HeightScale {
			t.Errorf("flat cap vertex at height %v", p.Y)
		}
	}
	for _, n := range m.Normals {
		if n != math.Up {
			t.Errorf("flat cap normal = %v, want up", n)
		}
	}
}

func TestGenerate_EastWestSlopeTakesQuadPath(t *testing.T) {
	store := flatStore(3, 3, 0)
	setSurface(store, 1, 1, formats.SurfaceElement{Slope: formats.SlopeEastUp})

	g := NewGenerator(DefaultOptions())
	g.Generate(store)

	if g.Stats().SplitCaps != 0 {
		t.Errorf("SplitCaps = %d, want 0", g.Stats().SplitCaps)
	}
	if g.Stats().Caps != 1 {
		t.Errorf("Caps = %d, want 1", g.Stats().Caps)
	}
}

func TestGenerate_RaisedCornerSkirts(t *testing.T) {
	store := flatStore(3, 3, 0)
	setSurface(store, 1, 1, formats.SurfaceElement{Slope: formats.SlopeNorthUp})

	g := NewGenerator(DefaultOptions())
	m := g.Generate(store)

	// The raised north corner borders the +y and +x neighbours.
	if g.Stats().Skirts != 2 {
		t.Fatalf("Skirts = %d, want 2", g.Stats().Skirts)
	}

	facing := make(map[math.Vec3]int)
	for _, tri := range triangles(m) {
		if tri[0].Normal.Y == 0 {
			facing[tri[0].Normal]++
		}
	}
	// Each skirt is a full quad: two triangles per facing.
	if facing[math.Vec3{Z: 1}] != 2 || facing[math.Vec3{X: 1}] != 2 {
		t.Errorf("skirt triangles by facing = %v, want two +Z and two +X", facing)
	}
}

func TestGenerate_SingleSkirtOnNorthSide(t *testing.T) {
	store := flatStore(3, 3, 0)
	setSurface(store, 1, 1, formats.SurfaceElement{Slope: formats.SlopeNorthUp})
	// The +x neighbour's west corner matches the raised corner, closing that side.
	setSurface(store, 2, 1, formats.SurfaceElement{Slope: formats.SlopeWestUp})

	g := NewGenerator(DefaultOptions())
	m := g.Generate(store)

	if g.Stats().Skirts != 1 {
		t.Fatalf("Skirts = %d, want 1", g.Stats().Skirts)
	}

	step := HeightStep * DefaultOptions().HeightScale
	var skirt [][3]Vertex
	for _, tri := range triangles(m) {
		if tri[0].Normal == (math.Vec3{Z: 1}) {
			skirt = append(skirt, tri)
		}
	}
	if len(skirt) != 2 {
		t.Fatalf("expected one skirt quad (2 triangles) facing +Z, got %d triangles", len(skirt))
	}

	// Quad (N top, W top, W bottom, N bottom), bottoms at the neighbour's corner heights.
	wantFirst := [3]math.Vec3{{X: 2, Y: step, Z: 2}, {X: 1, Y: 0, Z: 2}, {X: 1, Y: 0, Z: 2}}
	wantSecond := [3]math.Vec3{{X: 1, Y: 0, Z: 2}, {X: 2, Y: 0, Z: 2}, {X: 2, Y: step, Z: 2}}
	for i, want := range [][3]math.Vec3{wantFirst, wantSecond} {
		for j := range want {
			if skirt[i][j].Position != want[j] {
				t.Errorf("skirt triangle %d vertex %d at %v, want %v", i, j, skirt[i][j].Position, want[j])
			}
		}
	}
}

func TestGenerate_EqualHeightsNoSkirt(t *testing.T) {
	store := flatStore(5, 5, 10)

	g := NewGenerator(DefaultOptions())
	g.Generate(store)

	if g.Stats().Skirts != 0 {
		t.Errorf("Skirts = %d, want 0", g.Stats().Skirts)
	}
	if g.Stats().Tiles != 9 {
		t.Errorf("Tiles = %d, want 9", g.Stats().Tiles)
	}
}

func TestGenerate_PlateauSkirtsSpanToNeighbour(t *testing.T) {
	store := flatStore(3, 3, 0)
	setSurface(store, 1, 1, formats.SurfaceElement{BaseHeight: 4})

	g := NewGenerator(DefaultOptions())
	m := g.Generate(store)

	if g.Stats().Skirts != 4 {
		t.Fatalf("Skirts = %d, want 4", g.Stats().Skirts)
	}
	// 2 cap triangles + 4 skirt quads
	if m.TriangleCount() != 10 {
		t.Errorf("TriangleCount() = %d, want 10", m.TriangleCount())
	}
	if m.Bounds.Min.Y != 0 || m.Bounds.Max.Y != 1 {
		t.Errorf("height bounds = [%v, %v], want [0, 1]", m.Bounds.Min.Y, m.Bounds.Max.Y)
	}
	for i, uv := range m.UVs {
		n := m.Normals[i]
		if n.Y == 0 && uv.Y != m.Positions[i].Y {
			t.Errorf("skirt uv.v = %v, want elevation %v", uv.Y, m.Positions[i].Y)
		}
	}
}

func TestGenerate_WindingFacesNormal(t *testing.T) {
	opts := DefaultOptions()
	opts.Water = true

	m := NewGenerator(opts).Generate(hillStore())
	if m == nil {
		t.Fatal("Generate() returned nil")
	}

	for i, tri := range triangles(m) {
		face := tri[1].Position.Sub(tri[0].Position).Cross(tri[2].Position.Sub(tri[0].Position))
		if face.Length() == 0 {
			// Flush side of a skirt quad.
			if tri[0].Normal.Y != 0 {
				t.Errorf("cap triangle %d is degenerate: %+v", i, tri)
			}
			continue
		}
		if face.Dot(tri[0].Normal) <= 0 {
			t.Errorf("triangle %d winds away from its normal %v", i, tri[0].Normal)
		}
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	store := hillStore()
	g := NewGenerator(DefaultOptions())

	first := g.Generate(store)
	firstStats := g.Stats()
	second := g.Generate(store)

	if !reflect.DeepEqual(first, second) {
		t.Error("rebuilding an unchanged grid produced different meshes")
	}
	if firstStats != g.Stats() {
		t.Errorf("stats differ between rebuilds: %+v vs %+v", firstStats, g.Stats())
	}

	other := NewGenerator(DefaultOptions()).Generate(store)
	if !reflect.DeepEqual(first, other) {
		t.Error("fresh generator disagrees with reused generator")
	}
}

func TestGenerate_SharedVerticesAcrossTiles(t *testing.T) {
	m := NewGenerator(DefaultOptions()).Generate(flatStore(4, 3, 0))

	// Two flush caps share their common edge.
	if m.VertexCount() != 6 {
		t.Errorf("VertexCount() = %d, want 6", m.VertexCount())
	}
}

func TestGenerate_NoInteriorTiles(t *testing.T) {
	g := NewGenerator(DefaultOptions())

	for _, size := range [][2]int{{1, 1}, {2, 2}, {2, 5}, {5, 2}} {
		if m := g.Generate(flatStore(size[0], size[1], 0)); m != nil {
			t.Errorf("%dx%d grid: expected nil mesh, got %d vertices", size[0], size[1], m.VertexCount())
		}
	}
}

func TestGenerate_MissingSurfaceIsFlat(t *testing.T) {
	store := flatStore(3, 3, 0)
	store.Set(1, 1, formats.TileElement{Type: formats.ElementPath, BaseHeight: 40})

	g := NewGenerator(DefaultOptions())
	m := g.Generate(store)

	want := NewGenerator(DefaultOptions()).Generate(flatStore(3, 3, 0))
	if !reflect.DeepEqual(m, want) {
		t.Error("tile without surface did not generate as flat height 0")
	}
}

func TestGenerate_DoubleHeightCorners(t *testing.T) {
	store := flatStore(3, 3, 0)
	slope := formats.SlopeNorthUp | formats.SlopeEastUp | formats.SlopeWestUp | formats.SlopeDoubleHeight
	setSurface(store, 1, 1, formats.SurfaceElement{Slope: slope})

	m := NewGenerator(DefaultOptions()).Generate(store)

	scale := DefaultOptions().HeightScale
	want := map[math.Vec3]bool{
		{X: 2, Y: 2 * HeightStep * scale, Z: 2}: false, // N, opposite the lowered S corner
		{X: 2, Y: HeightStep * scale, Z: 1}:     false, // E
		{X: 1, Y: 0, Z: 1}:                      false, // S
		{X: 1, Y: HeightStep * scale, Z: 2}:     false, // W
	}
	for _, p := range m.Positions {
		if _, ok := want[p]; ok {
			want[p] = true
		}
	}
	for p, seen := range want {
		if !seen {
			t.Errorf("missing cap corner %v", p)
		}
	}
}

func TestGenerate_ScaleOptions(t *testing.T) {
	store := flatStore(3, 3, 4)
	opts := Options{TileScale: 32, HeightScale: 8}

	m := NewGenerator(opts).Generate(store)

	if m.Bounds.Min != (math.Vec3{X: 32, Y: 32, Z: 32}) || m.Bounds.Max != (math.Vec3{X: 64, Y: 32, Z: 64}) {
		t.Errorf("Bounds = %+v", m.Bounds)
	}
}

func TestGenerate_StyleBuckets(t *testing.T) {
	store := flatStore(4, 3, 0)
	setSurface(store, 1, 1, formats.SurfaceElement{BaseHeight: 2, SurfaceStyle: 3, EdgeStyle: 1})
	setSurface(store, 2, 1, formats.SurfaceElement{BaseHeight: 0, SurfaceStyle: 5})

	opts := DefaultOptions()
	opts.StyleBuckets = true
	m := NewGenerator(opts).Generate(store)

	want := []RequestedMaterial{
		{Kind: MaterialSurface, Style: 3},
		{Kind: MaterialEdge, Style: 1},
		{Kind: MaterialSurface, Style: 5},
	}
	if !reflect.DeepEqual(m.Materials, want) {
		t.Errorf("Materials = %v, want %v", m.Materials, want)
	}
	if len(m.Submeshes) != 3 {
		t.Fatalf("expected 3 submeshes, got %d", len(m.Submeshes))
	}
	for i, indices := range m.Submeshes {
		if len(indices) == 0 {
			t.Errorf("submesh %d (%s) is empty", i, m.Materials[i])
		}
	}

	// Without buckets everything lands in the generic surface submesh.
	plain := NewGenerator(DefaultOptions()).Generate(store)
	if len(plain.Submeshes) != 1 || plain.Materials[0] != (RequestedMaterial{Kind: MaterialSurface}) {
		t.Errorf("default generator used materials %v", plain.Materials)
	}
}

func TestGenerate_Water(t *testing.T) {
	store := flatStore(3, 3, 2)
	setSurface(store, 1, 1, formats.SurfaceElement{BaseHeight: 2, WaterHeight: 3})

	plain := NewGenerator(DefaultOptions())
	plain.Generate(store)
	if plain.Stats().WaterQuads != 0 {
		t.Errorf("water emitted with Water disabled")
	}

	opts := DefaultOptions()
	opts.Water = true
	g := NewGenerator(opts)
	m := g.Generate(store)

	if g.Stats().WaterQuads != 1 {
		t.Fatalf("WaterQuads = %d, want 1", g.Stats().WaterQuads)
	}
	water := -1
	for i, mat := range m.Materials {
		if mat.Kind == MaterialWater {
			water = i
		}
	}
	if water < 0 {
		t.Fatalf("no water material in %v", m.Materials)
	}
	level := float32(3*WaterHeightStep) * opts.HeightScale
	for _, idx := range m.Submeshes[water] {
		if m.Positions[idx].Y != level {
			t.Errorf("water vertex at %v, want %v", m.Positions[idx].Y, level)
		}
	}

	// Water at or below the surface is hidden.
	setSurface(store, 1, 1, formats.SurfaceElement{BaseHeight: 6, WaterHeight: 3})
	g.Generate(store)
	if g.Stats().WaterQuads != 0 {
		t.Errorf("WaterQuads = %d for submerged-below-ground water, want 0", g.Stats().WaterQuads)
	}
}
