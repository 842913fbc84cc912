package terrain

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/parkterrain/internal/logger"
	"github.com/Faultbox/parkterrain/internal/world"
	"github.com/Faultbox/parkterrain/pkg/formats"
	"github.com/Faultbox/parkterrain/pkg/math"
)

// Options controls how tiles map to world space and which optional geometry is emitted.
type Options struct {
	TileScale   float32 // world units per tile edge
	HeightScale float32 // world units per base-height unit

	// StyleBuckets puts caps and skirts into per-style submeshes instead of the
	// single generic Surface submesh.
	StyleBuckets bool

	// Water emits a flat quad at the tile's water level where it covers the cap.
	Water bool
}

// DefaultOptions returns the options used by the stock renderer.
func DefaultOptions() Options {
	return Options{
		TileScale:   1.0,
		HeightScale: 0.25,
	}
}

// Stats counts the geometry emitted by one rebuild.
type Stats struct {
	Tiles      int
	Caps       int
	SplitCaps  int
	Skirts     int
	WaterQuads int
	Vertices   int
	Triangles  int
}

// edge describes one tile side: the neighbour offset, the two local corners
// on that side in clockwise order seen from outside, and the neighbour corners
// that coincide with them.
type edge struct {
	dx, dy          int
	first, second   int // indices into the N, E, S, W corner array
	nFirst, nSecond formats.Slope
}

// Corner indices in the N, E, S, W order used by CornerHeights.
const (
	cornerN = iota
	cornerE
	cornerS
	cornerW
)

// cornerOffsets is the grid corner of each tile corner relative to the tile origin.
var cornerOffsets = [4][2]int{
	cornerN: {1, 1},
	cornerE: {1, 0},
	cornerS: {0, 0},
	cornerW: {0, 1},
}

var edges = [4]edge{
	{dx: 0, dy: 1, first: cornerN, second: cornerW, nFirst: formats.SlopeEastUp, nSecond: formats.SlopeSouthUp},
	{dx: 1, dy: 0, first: cornerE, second: cornerN, nFirst: formats.SlopeSouthUp, nSecond: formats.SlopeWestUp},
	{dx: 0, dy: -1, first: cornerS, second: cornerE, nFirst: formats.SlopeWestUp, nSecond: formats.SlopeNorthUp},
	{dx: -1, dy: 0, first: cornerW, second: cornerS, nFirst: formats.SlopeNorthUp, nSecond: formats.SlopeEastUp},
}

// Generator rebuilds the terrain mesh from a tile store. It owns the builder and
// material registry it reuses between rebuilds and is not safe for concurrent use.
type Generator struct {
	opts      Options
	builder   *MeshBuilder
	materials MaterialRegistry
	stats     Stats
	log       *zap.Logger
}

// NewGenerator creates a generator with the given options.
func NewGenerator(opts Options) *Generator {
	return &Generator{
		opts:    opts,
		builder: NewMeshBuilder(),
		log:     logger.Named("terrain"),
	}
}

// Stats returns the counters of the last rebuild.
func (g *Generator) Stats() Stats {
	return g.stats
}

// Generate performs a full rebuild over the interior tiles of store.
// Returns nil if the rebuild produced no geometry.
func (g *Generator) Generate(store *world.Store) *Mesh {
	start := time.Now()

	g.builder.Clear()
	g.materials.Reset()
	g.stats = Stats{}

	for y := 1; y <= store.Height-2; y++ {
		for x := 1; x <= store.Width-2; x++ {
			g.generateTile(store, x, y)
		}
	}

	mesh := g.builder.Build()
	if mesh == nil {
		g.log.Debug("terrain rebuild produced no geometry",
			zap.Int("width", store.Width),
			zap.Int("height", store.Height))
		return nil
	}
	mesh.Materials = g.materials.Materials()

	g.stats.Vertices = mesh.VertexCount()
	g.stats.Triangles = mesh.TriangleCount()

	g.log.Debug("terrain mesh rebuilt",
		zap.Int("tiles", g.stats.Tiles),
		zap.Int("caps", g.stats.Caps),
		zap.Int("split_caps", g.stats.SplitCaps),
		zap.Int("skirts", g.stats.Skirts),
		zap.Int("water_quads", g.stats.WaterQuads),
		zap.Int("vertices", g.stats.Vertices),
		zap.Int("triangles", g.stats.Triangles),
		zap.Int("submeshes", len(mesh.Submeshes)),
		zap.Duration("elapsed", time.Since(start)))

	return mesh
}

func (g *Generator) generateTile(store *world.Store, x, y int) {
	surface := store.SurfaceAt(x, y)
	heights := CornerHeights(surface)

	var corners [4]math.Vec3
	for i := range corners {
		corners[i] = g.cornerPosition(x+cornerOffsets[i][0], y+cornerOffsets[i][1], heights[i])
	}

	g.stats.Tiles++
	g.addCap(surface, x, y, corners)

	for _, e := range edges {
		g.addSkirt(store, surface, x, y, heights, corners, e)
	}

	if g.opts.Water {
		g.addWater(surface, x, y, heights)
	}
}

// addCap emits the top face of a tile.
func (g *Generator) addCap(surface formats.SurfaceElement, x, y int, corners [4]math.Vec3) {
	n, e, s, w := corners[cornerN], corners[cornerE], corners[cornerS], corners[cornerW]
	normal := w.Sub(e).Cross(n.Sub(s)).Normalize()

	vn := g.capVertex(n, normal, x+1, y+1)
	ve := g.capVertex(e, normal, x+1, y)
	vs := g.capVertex(s, normal, x, y)
	vw := g.capVertex(w, normal, x, y+1)

	submesh := g.surfaceSubmesh(surface)
	g.stats.Caps++

	// Neither E nor W raised: fold along the E-W edge so N and S slopes stay planar.
	if surface.Slope&(formats.SlopeEastUp|formats.SlopeWestUp) == 0 {
		g.builder.AddTriangle(vw, vn, ve, submesh)
		g.builder.AddTriangle(ve, vs, vw, submesh)
		g.stats.SplitCaps++
		return
	}
	g.builder.AddQuad(vn, ve, vs, vw, submesh)
}

func (g *Generator) capVertex(pos, normal math.Vec3, cx, cy int) Vertex {
	return Vertex{
		Position: pos,
		Normal:   normal,
		UV:       math.Vec2{X: float32(cx), Y: float32(cy)},
	}
}

// addSkirt closes the gap between this tile's side and a lower neighbour.
func (g *Generator) addSkirt(store *world.Store, surface formats.SurfaceElement, x, y int,
	heights [4]int, corners [4]math.Vec3, e edge) {

	neighbour := store.SurfaceAt(x+e.dx, y+e.dy)
	nFirst := CornerHeight(neighbour.BaseHeight, neighbour.Slope, e.nFirst)
	nSecond := CornerHeight(neighbour.BaseHeight, neighbour.Slope, e.nSecond)

	hFirst, hSecond := heights[e.first], heights[e.second]
	if hFirst <= nFirst && hSecond <= nSecond {
		return
	}

	normal := math.Vec3{X: float32(e.dx), Z: float32(e.dy)}
	topFirst, topSecond := corners[e.first], corners[e.second]
	bottomFirst := g.cornerPosition(x+cornerOffsets[e.first][0], y+cornerOffsets[e.first][1], nFirst)
	bottomSecond := g.cornerPosition(x+cornerOffsets[e.second][0], y+cornerOffsets[e.second][1], nSecond)

	tf := Vertex{Position: topFirst, Normal: normal, UV: math.Vec2{X: 0, Y: topFirst.Y}}
	ts := Vertex{Position: topSecond, Normal: normal, UV: math.Vec2{X: 1, Y: topSecond.Y}}
	bs := Vertex{Position: bottomSecond, Normal: normal, UV: math.Vec2{X: 1, Y: bottomSecond.Y}}
	bf := Vertex{Position: bottomFirst, Normal: normal, UV: math.Vec2{X: 0, Y: bottomFirst.Y}}

	// A side flush with the neighbour makes one of the two triangles zero-area.
	g.builder.AddQuad(tf, ts, bs, bf, g.edgeSubmesh(surface))
	g.stats.Skirts++
}

// addWater emits a flat water quad when the water level is above the lowest cap corner.
func (g *Generator) addWater(surface formats.SurfaceElement, x, y int, heights [4]int) {
	if surface.WaterHeight == 0 {
		return
	}
	level := int(surface.WaterHeight) * WaterHeightStep
	if level <= min(heights[0], heights[1], heights[2], heights[3]) {
		return
	}

	var v [4]Vertex
	for i := range v {
		cx, cy := x+cornerOffsets[i][0], y+cornerOffsets[i][1]
		v[i] = Vertex{
			Position: g.cornerPosition(cx, cy, level),
			Normal:   math.Up,
			UV:       math.Vec2{X: float32(cx), Y: float32(cy)},
		}
	}

	g.builder.AddQuad(v[cornerN], v[cornerE], v[cornerS], v[cornerW], g.materials.IndexOf(MaterialWater))
	g.stats.WaterQuads++
}

func (g *Generator) surfaceSubmesh(surface formats.SurfaceElement) int {
	if g.opts.StyleBuckets {
		return g.materials.Index(MaterialSurface, surface.SurfaceStyle)
	}
	return g.materials.IndexOf(MaterialSurface)
}

func (g *Generator) edgeSubmesh(surface formats.SurfaceElement) int {
	if g.opts.StyleBuckets {
		return g.materials.Index(MaterialEdge, surface.EdgeStyle)
	}
	return g.materials.IndexOf(MaterialSurface)
}

// cornerPosition converts a grid corner and elevation to world space.
func (g *Generator) cornerPosition(cx, cy, height int) math.Vec3 {
	return math.Vec3{
		X: float32(cx) * g.opts.TileScale,
		Y: float32(height) * g.opts.HeightScale,
		Z: float32(cy) * g.opts.TileScale,
	}
}
