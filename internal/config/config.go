// Package config loads tool configuration from an optional YAML file with
// environment overrides. Every pipeline threshold is exposed here so
// deployments can tune behavior without touching the algorithm.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"rvg-enhancer/internal/enhance"
)

// Config is the full user-editable configuration.
type Config struct {
	Logging Logging        `mapstructure:"logging"`
	Output  Output         `mapstructure:"output"`
	Tuning  enhance.Tuning `mapstructure:"tuning"`
}

// Logging controls verbosity and output format.
type Logging struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console, json
}

// Output controls where and how processed images are written.
type Output struct {
	Suffix string `mapstructure:"suffix"` // appended to the input base name
	Dir    string `mapstructure:"dir"`    // empty means next to the input
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Logging: Logging{Level: "info", Format: "console"},
		Output:  Output{Suffix: "_processed"},
		Tuning:  enhance.DefaultTuning(),
	}
}

// Load reads configuration from path (optional; empty means defaults only)
// and applies RVG_ENHANCER_* environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("RVG_ENHANCER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Tuning.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid tuning in config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("output.suffix", d.Output.Suffix)
	v.SetDefault("output.dir", d.Output.Dir)

	t := d.Tuning
	v.SetDefault("tuning.clip_limit_min", t.ClipLimitMin)
	v.SetDefault("tuning.clip_limit_max", t.ClipLimitMax)
	v.SetDefault("tuning.contrast_full_scale", t.ContrastFullScale)
	v.SetDefault("tuning.tile_grid_size", t.TileGridSize)
	v.SetDefault("tuning.bilateral_diameter", t.BilateralDiameter)
	v.SetDefault("tuning.bilateral_sigma_color", t.BilateralSigmaColor)
	v.SetDefault("tuning.bilateral_sigma_space", t.BilateralSigmaSpace)
	v.SetDefault("tuning.denoise_scale", t.DenoiseScale)
	v.SetDefault("tuning.denoise_min", t.DenoiseMin)
	v.SetDefault("tuning.denoise_max", t.DenoiseMax)
	v.SetDefault("tuning.denoise_skip_below", t.DenoiseSkipBelow)
	v.SetDefault("tuning.template_window_size", t.TemplateWindowSize)
	v.SetDefault("tuning.search_window_size", t.SearchWindowSize)
	v.SetDefault("tuning.sharpen_band_edges", t.SharpenBandEdges)
	v.SetDefault("tuning.sharpen_strengths", t.SharpenStrengths)
	v.SetDefault("tuning.sharpen_kernel_size", t.SharpenKernelSize)
	v.SetDefault("tuning.sharpen_sigma", t.SharpenSigma)
	v.SetDefault("tuning.noise_patch_size", t.NoisePatchSize)
}
