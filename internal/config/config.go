// Package config handles terrain tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Preview PreviewConfig `yaml:"preview"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig holds mesh generation settings.
type TerrainConfig struct {
	TileScale    float32 `yaml:"tile_scale"`    // world units per tile
	HeightScale  float32 `yaml:"height_scale"`  // world units per base-height unit
	StyleBuckets bool    `yaml:"style_buckets"` // per-style submeshes instead of one surface submesh
	Water        bool    `yaml:"water"`         // emit water surfaces
}

// PreviewConfig holds top-down preview settings.
type PreviewConfig struct {
	Size           int     `yaml:"size"`
	Supersample    int     `yaml:"supersample"`
	LightAzimuth   float64 `yaml:"light_azimuth"`
	LightElevation float64 `yaml:"light_elevation"`
}

// DataConfig holds input/output paths.
type DataConfig struct {
	TileDump  string `yaml:"tile_dump"`  // tile grid captured from the simulation
	OutputDir string `yaml:"output_dir"` // where build/preview write by default
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			TileScale:    1.0,
			HeightScale:  0.25,
			StyleBuckets: false,
			Water:        false,
		},
		Preview: PreviewConfig{
			Size:           512,
			Supersample:    2,
			LightAzimuth:   135,
			LightElevation: 45,
		},
		Data: DataConfig{
			TileDump:  "",
			OutputDir: ".",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
