package config

import (
	"flag"
	"strconv"
)

// Flags holds command-line overrides. Zero values leave the config untouched.
type Flags struct {
	ConfigPath   string
	Debug        bool
	LogFile      string
	TileDump     string
	OutputDir    string
	TileScale    float64
	HeightScale  float64
	StyleBuckets OptionalBool
	Water        OptionalBool
	PreviewSize  int
}

// OptionalBool is a boolean flag that records whether it was given, so
// -water=false can switch off a setting the config file enables.
type OptionalBool struct {
	Value bool
	IsSet bool
}

// Bool returns an OptionalBool explicitly set to v.
func Bool(v bool) OptionalBool {
	return OptionalBool{Value: v, IsSet: true}
}

// String implements flag.Value.
func (b *OptionalBool) String() string {
	return strconv.FormatBool(b.Value)
}

// Set implements flag.Value.
func (b *OptionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.Value, b.IsSet = v, true
	return nil
}

// IsBoolFlag lets the flag be given without a value.
func (b *OptionalBool) IsBoolFlag() bool {
	return true
}

// BindFlags registers the shared override flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log", "", "Also log to this file (rotated)")
	fs.StringVar(&f.TileDump, "map", "", "Tile dump to read")
	fs.StringVar(&f.OutputDir, "out", "", "Output directory")
	fs.Float64Var(&f.TileScale, "tile-scale", 0, "World units per tile")
	fs.Float64Var(&f.HeightScale, "height-scale", 0, "World units per height unit")
	fs.Var(&f.StyleBuckets, "styles", "Split submeshes by surface and edge style (-styles=false to disable)")
	fs.Var(&f.Water, "water", "Emit water surfaces (-water=false to disable)")
	fs.IntVar(&f.PreviewSize, "size", 0, "Preview size in pixels")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.TileDump != "" {
		cfg.Data.TileDump = f.TileDump
	}
	if f.OutputDir != "" {
		cfg.Data.OutputDir = f.OutputDir
	}
	if f.TileScale > 0 {
		cfg.Terrain.TileScale = float32(f.TileScale)
	}
	if f.HeightScale > 0 {
		cfg.Terrain.HeightScale = float32(f.HeightScale)
	}
	if f.StyleBuckets.IsSet {
		cfg.Terrain.StyleBuckets = f.StyleBuckets.Value
	}
	if f.Water.IsSet {
		cfg.Terrain.Water = f.Water.Value
	}
	if f.PreviewSize > 0 {
		cfg.Preview.Size = f.PreviewSize
	}
}
