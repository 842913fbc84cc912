// Package preview renders a top-down image of a finished terrain mesh.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	gomath "math"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/Faultbox/parkterrain/internal/terrain"
	"github.com/Faultbox/parkterrain/pkg/math"
)

// ErrNoMesh is returned when asked to render a nil mesh.
var ErrNoMesh = errors.New("no mesh to render")

// Options controls the preview raster.
type Options struct {
	Size           int     // output edge length in pixels
	Supersample    int     // render at Size*Supersample, then downscale
	LightAzimuth   float64 // degrees, 0 = +X, counter-clockwise towards +Z
	LightElevation float64 // degrees above the horizon
}

// DefaultOptions returns the preview settings used by the CLI.
func DefaultOptions() Options {
	return Options{
		Size:           512,
		Supersample:    2,
		LightAzimuth:   135,
		LightElevation: 45,
	}
}

// edgeEpsilon keeps pixels centred on a shared edge from dropping out of both triangles.
const edgeEpsilon = 1e-9

var (
	lowColor   = [3]float64{72, 128, 58}
	highColor  = [3]float64{196, 184, 132}
	edgeColor  = [3]float64{122, 92, 64}
	waterColor = [3]float64{52, 104, 170}
)

// Render rasterizes m orthographically from above. The map's +Z axis points up in the image.
func Render(m *terrain.Mesh, opts Options) (*image.RGBA, error) {
	if m == nil {
		return nil, ErrNoMesh
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid preview size %d", opts.Size)
	}
	ss := max(opts.Supersample, 1)

	canvas := newCanvas(opts.Size * ss)
	r := &renderer{
		canvas: canvas,
		bounds: m.Bounds,
		light:  lightDir(opts.LightAzimuth, opts.LightElevation),
	}
	extent := max(m.Bounds.Size().X, m.Bounds.Size().Z)
	if extent > 0 {
		r.scale = float64(canvas.size) / float64(extent)
	}

	for sub, indices := range m.Submeshes {
		kind := terrain.MaterialSurface
		if sub < len(m.Materials) {
			kind = m.Materials[sub].Kind
		}
		for i := 0; i+2 < len(indices); i += 3 {
			r.triangle(m, indices[i], indices[i+1], indices[i+2], kind)
		}
	}

	if ss == 1 {
		return canvas.img, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), canvas.img, canvas.img.Bounds(), draw.Src, nil)
	return dst, nil
}

// WriteWebP encodes img losslessly to path, creating parent directories.
func WriteWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("WebP encode: %w", err)
	}
	return f.Close()
}

// canvas is a square color target with a height buffer.
type canvas struct {
	size   int
	img    *image.RGBA
	height []float32 // highest surface drawn per pixel
}

func newCanvas(size int) *canvas {
	h := make([]float32, size*size)
	for i := range h {
		h[i] = float32(gomath.Inf(-1))
	}
	return &canvas{
		size:   size,
		img:    image.NewRGBA(image.Rect(0, 0, size, size)),
		height: h,
	}
}

type renderer struct {
	canvas *canvas
	bounds terrain.Bounds
	scale  float64
	light  math.Vec3
}

func lightDir(azimuth, elevation float64) math.Vec3 {
	az := azimuth * gomath.Pi / 180
	el := elevation * gomath.Pi / 180
	return math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Cos(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(gomath.Cos(el) * gomath.Sin(az)),
	}
}

// project maps a world position to canvas pixel space.
func (r *renderer) project(p math.Vec3) (float64, float64) {
	x := float64(p.X-r.bounds.Min.X) * r.scale
	y := float64(r.bounds.Max.Z-p.Z) * r.scale
	return x, y
}

func (r *renderer) triangle(m *terrain.Mesh, i0, i1, i2 uint32, kind terrain.MaterialKind) {
	p0, p1, p2 := m.Positions[i0], m.Positions[i1], m.Positions[i2]

	normal := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	if normal.Y <= 0 {
		return // vertical skirts and back faces are invisible from above
	}

	x0, y0 := r.project(p0)
	x1, y1 := r.project(p1)
	x2, y2 := r.project(p2)

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if gomath.Abs(det) < 1e-9 {
		return
	}
	invDet := 1 / det

	size := r.canvas.size
	minX := max(int(gomath.Floor(min(x0, x1, x2))), 0)
	maxX := min(int(gomath.Ceil(max(x0, x1, x2))), size-1)
	minY := max(int(gomath.Floor(min(y0, y1, y2))), 0)
	maxY := min(int(gomath.Ceil(max(y0, y1, y2))), size-1)

	shade := 0.35 + 0.65*gomath.Max(0, float64(normal.Dot(r.light)))

	for py := minY; py <= maxY; py++ {
		cy := float64(py) + 0.5
		for px := minX; px <= maxX; px++ {
			cx := float64(px) + 0.5

			w0 := ((y1-y2)*(cx-x2) + (x2-x1)*(cy-y2)) * invDet
			w1 := ((y2-y0)*(cx-x2) + (x0-x2)*(cy-y2)) * invDet
			w2 := 1 - w0 - w1
			if w0 < -edgeEpsilon || w1 < -edgeEpsilon || w2 < -edgeEpsilon {
				continue
			}

			h := float32(w0)*p0.Y + float32(w1)*p1.Y + float32(w2)*p2.Y
			idx := py*size + px
			if h < r.canvas.height[idx] {
				continue
			}
			r.canvas.height[idx] = h
			r.canvas.img.SetRGBA(px, py, r.color(kind, h, shade))
		}
	}
}

func (r *renderer) color(kind terrain.MaterialKind, h float32, shade float64) color.RGBA {
	var base [3]float64
	switch kind {
	case terrain.MaterialWater:
		base = waterColor
	case terrain.MaterialEdge:
		base = edgeColor
	default:
		t := 0.0
		if span := r.bounds.Size().Y; span > 0 {
			t = float64((h - r.bounds.Min.Y) / span)
		}
		for i := range base {
			base[i] = lowColor[i] + (highColor[i]-lowColor[i])*t
		}
	}
	return color.RGBA{
		R: clamp8(base[0] * shade),
		G: clamp8(base[1] * shade),
		B: clamp8(base[2] * shade),
		A: 255,
	}
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
