// Package config handles atlaspack configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Packing  PackingConfig  `yaml:"packing"`
	Textures TexturesConfig `yaml:"textures"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PackingConfig holds atlas packing algorithm parameters.
type PackingConfig struct {
	// ResolutionScaling scales the requested output texture resolution.
	ResolutionScaling float64 `yaml:"resolution_scaling"`
	// RotationNum is the number of candidate orientations tried per chart.
	// Only quadrant rotations are supported, so valid values are 1 and 4.
	RotationNum int `yaml:"rotation_num"`
	// GutterWidth is the empty border placed around charts, in grid units.
	GutterWidth int `yaml:"gutter_width"`
	// PermutationLimit is the batch size below which the packer is allowed
	// to search insertion-order permutations.
	PermutationLimit int `yaml:"permutation_limit"`
}

// TexturesConfig describes the source textures of the input mesh.
type TexturesConfig struct {
	// Sizes lists the pixel dimensions of each source texture, in texture
	// index order. Empty means one 1024x1024 texture.
	Sizes []TextureSizeConfig `yaml:"sizes"`
}

// TextureSizeConfig is a width/height pair in pixels.
type TextureSizeConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Packing: PackingConfig{
			ResolutionScaling: 1.0,
			RotationNum:       4,
			GutterWidth:       4,
			PermutationLimit:  50,
		},
		Textures: TexturesConfig{},
		Output: OutputConfig{
			Path: "packed.obj",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
