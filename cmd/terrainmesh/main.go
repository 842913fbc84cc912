// terrainmesh is a CLI utility for turning park tile dumps into terrain meshes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/parkterrain/internal/config"
	"github.com/Faultbox/parkterrain/internal/logger"
	"github.com/Faultbox/parkterrain/internal/preview"
	"github.com/Faultbox/parkterrain/internal/terrain"
	"github.com/Faultbox/parkterrain/internal/world"
	"github.com/Faultbox/parkterrain/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "build", "obj":
		cmdBuild(args)
	case "preview":
		cmdPreview(args)
	case "synth":
		cmdSynth(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terrainmesh - park terrain mesh generator

Usage:
  terrainmesh <command> [options]

Commands:
  info [dump.pktd]                Show tile dump and mesh statistics
  build [dump.pktd] [out.obj]     Generate the terrain mesh as Wavefront OBJ
  preview [dump.pktd] [out.webp]  Render a top-down WebP preview
  synth <out.pktd>                Write a synthetic rolling-hills dump
  config [path]                   Write the effective config as YAML

Common options:
  -config <path>     Config file (default ./parkterrain.yaml or user config dir)
  -map <path>        Tile dump (instead of the positional argument)
  -out <dir>         Output directory
  -tile-scale <f>    World units per tile
  -height-scale <f>  World units per height unit
  -styles            Split submeshes by surface and edge style
  -water             Emit water surfaces
  -debug             Enable debug logging
  -log <path>        Also log to a rotated file

Examples:
  terrainmesh synth -width 64 -height 64 hills.pktd
  terrainmesh info hills.pktd
  terrainmesh build -water hills.pktd hills.obj
  terrainmesh preview -size 1024 hills.pktd`)
}

// setup parses args, loads the config and initializes logging.
// Returns the config and the remaining positional arguments.
func setup(name string, args []string, extra func(fs *flag.FlagSet)) (*config.Config, []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags := config.BindFlags(fs)
	if extra != nil {
		extra(fs)
	}
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing logger: %v\n", err)
		os.Exit(1)
	}

	return cfg, fs.Args()
}

// loadStore reads the tile dump named by the first positional argument or the config.
func loadStore(cfg *config.Config, args []string) (*formats.TileDump, *world.Store, []string) {
	path := cfg.Data.TileDump
	if len(args) > 0 {
		path, args = args[0], args[1:]
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: no tile dump given (positional argument, -map or data.tile_dump)")
		os.Exit(1)
	}

	dump, err := formats.ParseTileDumpFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := world.Load(dump)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("tile dump loaded",
		zap.String("path", path),
		zap.String("version", dump.Version.String()),
		zap.Int("width", dump.Width),
		zap.Int("height", dump.Height))

	cfg.Data.TileDump = path
	return dump, store, args
}

// outputPath returns the explicit output path or derives one from the dump name.
func outputPath(cfg *config.Config, args []string, ext string) string {
	if len(args) > 0 {
		return args[0]
	}
	base := strings.TrimSuffix(filepath.Base(cfg.Data.TileDump), filepath.Ext(cfg.Data.TileDump))
	return filepath.Join(cfg.Data.OutputDir, base+ext)
}

func terrainOptions(cfg *config.Config) terrain.Options {
	return terrain.Options{
		TileScale:    cfg.Terrain.TileScale,
		HeightScale:  cfg.Terrain.HeightScale,
		StyleBuckets: cfg.Terrain.StyleBuckets,
		Water:        cfg.Terrain.Water,
	}
}

func previewOptions(cfg *config.Config) preview.Options {
	return preview.Options{
		Size:           cfg.Preview.Size,
		Supersample:    cfg.Preview.Supersample,
		LightAzimuth:   cfg.Preview.LightAzimuth,
		LightElevation: cfg.Preview.LightElevation,
	}
}

func generate(cfg *config.Config, store *world.Store) (*terrain.Mesh, terrain.Stats) {
	gen := terrain.NewGenerator(terrainOptions(cfg))
	mesh := gen.Generate(store)
	if mesh == nil {
		fmt.Fprintln(os.Stderr, "Error: map has no interior tiles, nothing to build")
		os.Exit(1)
	}
	return mesh, gen.Stats()
}

func cmdInfo(args []string) {
	cfg, rest := setup("info", args, nil)
	defer logger.Sync()

	dump, store, _ := loadStore(cfg, rest)

	fmt.Printf("Tile dump: %s\n", cfg.Data.TileDump)
	fmt.Printf("Version:   %s\n", dump.Version)
	fmt.Printf("Size:      %dx%d tiles\n", dump.Width, dump.Height)

	lo, hi := store.HeightRange()
	fmt.Printf("Heights:   %d..%d\n", lo, hi)
	fmt.Println()
	fmt.Println("Elements by type:")

	type typeStat struct {
		t     formats.ElementType
		count int
	}
	var stats []typeStat
	for t, count := range dump.CountByType() {
		stats = append(stats, typeStat{t, count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].t < stats[j].t
	})
	for _, s := range stats {
		fmt.Printf("  %-14s %d\n", s.t, s.count)
	}

	mesh, st := generate(cfg, store)
	fmt.Println()
	fmt.Println("Mesh:")
	fmt.Printf("  Tiles:      %d\n", st.Tiles)
	fmt.Printf("  Caps:       %d (%d split)\n", st.Caps, st.SplitCaps)
	fmt.Printf("  Skirts:     %d\n", st.Skirts)
	if cfg.Terrain.Water {
		fmt.Printf("  Water:      %d\n", st.WaterQuads)
	}
	fmt.Printf("  Vertices:   %d\n", st.Vertices)
	fmt.Printf("  Triangles:  %d\n", st.Triangles)
	size := mesh.Bounds.Size()
	fmt.Printf("  Bounds:     %.2f x %.2f x %.2f\n", size.X, size.Y, size.Z)
	for i, mat := range mesh.Materials {
		fmt.Printf("  Submesh %d:  %-12s %d triangles\n", i, mat, len(mesh.Submeshes[i])/3)
	}
}

func cmdBuild(args []string) {
	cfg, rest := setup("build", args, nil)
	defer logger.Sync()

	_, store, rest := loadStore(cfg, rest)
	mesh, st := generate(cfg, store)

	out := outputPath(cfg, rest, ".obj")
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}
	if err := terrain.WriteOBJFile(out, mesh); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("mesh written",
		zap.String("path", out),
		zap.Int("vertices", st.Vertices),
		zap.Int("triangles", st.Triangles))
	fmt.Printf("Wrote %s (%d vertices, %d triangles)\n", out, st.Vertices, st.Triangles)
}

func cmdPreview(args []string) {
	cfg, rest := setup("preview", args, nil)
	defer logger.Sync()

	_, store, rest := loadStore(cfg, rest)
	mesh, _ := generate(cfg, store)

	img, err := preview.Render(mesh, previewOptions(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := outputPath(cfg, rest, ".webp")
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}
	if err := preview.WriteWebP(out, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("preview written", zap.String("path", out), zap.Int("size", cfg.Preview.Size))
	fmt.Printf("Wrote %s (%dx%d)\n", out, cfg.Preview.Size, cfg.Preview.Size)
}

func cmdSynth(args []string) {
	opts := DefaultSynthOptions()
	cfg, rest := setup("synth", args, func(fs *flag.FlagSet) {
		fs.IntVar(&opts.Width, "width", opts.Width, "Map width in tiles")
		fs.IntVar(&opts.Height, "height", opts.Height, "Map height in tiles")
		fs.Float64Var(&opts.Amplitude, "amplitude", opts.Amplitude, "Hill amplitude in land steps")
		fs.Float64Var(&opts.Frequency, "frequency", opts.Frequency, "Hill frequency in radians per tile")
		fs.IntVar(&opts.WaterLevel, "water-level", opts.WaterLevel, "Water level in water units (0 = dry)")
		fs.IntVar(&opts.Styles, "style-count", opts.Styles, "Number of surface styles to cycle through")
	})
	defer logger.Sync()

	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terrainmesh synth [options] <out.pktd>")
		os.Exit(1)
	}

	dump, err := Synthesize(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := rest[0]
	if !filepath.IsAbs(out) && filepath.Dir(out) == "." && cfg.Data.OutputDir != "" {
		out = filepath.Join(cfg.Data.OutputDir, out)
	}
	if err := formats.WriteTileDumpFile(out, dump); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("synthetic dump written",
		zap.String("path", out),
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.Float64("amplitude", opts.Amplitude))
	fmt.Printf("Wrote %s (%dx%d tiles)\n", out, opts.Width, opts.Height)
}

func cmdConfig(args []string) {
	cfg, rest := setup("config", args, nil)
	defer logger.Sync()

	var err error
	path := filepath.Join(config.ConfigDir(), "config.yaml")
	if len(rest) > 0 {
		path = rest[0]
		err = cfg.SaveTo(path)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}
