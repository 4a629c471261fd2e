// Package enhance maps measured quality characteristics of a radiograph to
// per-stage filter parameters and applies the enhancement stages in a fixed
// order. The package does no logging or I/O; failures surface as typed
// errors to the caller.
package enhance

import "fmt"

// Tuning collects every threshold and filter constant the mapper and stages
// consume. It is injected rather than read from package-level state so tests
// and deployments can exercise boundary values without global mutation.
type Tuning struct {
	// CLAHE clip limit range and the contrast reading treated as full scale.
	ClipLimitMin      float64 `mapstructure:"clip_limit_min"`
	ClipLimitMax      float64 `mapstructure:"clip_limit_max"`
	ContrastFullScale float64 `mapstructure:"contrast_full_scale"`
	TileGridSize      int     `mapstructure:"tile_grid_size"`

	// Edge-preserving smoothing.
	BilateralDiameter   int     `mapstructure:"bilateral_diameter"`
	BilateralSigmaColor float64 `mapstructure:"bilateral_sigma_color"`
	BilateralSigmaSpace float64 `mapstructure:"bilateral_sigma_space"`

	// Non-local-means denoising. Noise readings below DenoiseSkipBelow skip
	// the stage entirely to preserve fine diagnostic detail.
	DenoiseScale       float64 `mapstructure:"denoise_scale"`
	DenoiseMin         float64 `mapstructure:"denoise_min"`
	DenoiseMax         float64 `mapstructure:"denoise_max"`
	DenoiseSkipBelow   float64 `mapstructure:"denoise_skip_below"`
	TemplateWindowSize int     `mapstructure:"template_window_size"`
	SearchWindowSize   int     `mapstructure:"search_window_size"`

	// Unsharp masking. Band edges partition the sharpness axis; strengths
	// has one more entry than edges and descends from blurriest to sharpest.
	SharpenBandEdges  []float64 `mapstructure:"sharpen_band_edges"`
	SharpenStrengths  []float64 `mapstructure:"sharpen_strengths"`
	SharpenKernelSize int       `mapstructure:"sharpen_kernel_size"`
	SharpenSigma      float64   `mapstructure:"sharpen_sigma"`

	// Background patch size for noise estimation.
	NoisePatchSize int `mapstructure:"noise_patch_size"`
}

// DefaultTuning returns the stock parameters for dental radiographs.
func DefaultTuning() Tuning {
	return Tuning{
		ClipLimitMin:        1.0,
		ClipLimitMax:        3.0,
		ContrastFullScale:   255.0,
		TileGridSize:        8,
		BilateralDiameter:   9,
		BilateralSigmaColor: 75.0,
		BilateralSigmaSpace: 75.0,
		DenoiseScale:        0.6,
		DenoiseMin:          5.0,
		DenoiseMax:          15.0,
		DenoiseSkipBelow:    2.0,
		TemplateWindowSize:  7,
		SearchWindowSize:    21,
		SharpenBandEdges:    []float64{20, 50, 100},
		SharpenStrengths:    []float64{2.0, 1.7, 1.1, 0.7},
		SharpenKernelSize:   5,
		SharpenSigma:        1.2,
		NoisePatchSize:      40,
	}
}

// Validate rejects tunings a stage cannot act on.
func (t Tuning) Validate() error {
	if t.ClipLimitMin <= 0 || t.ClipLimitMax < t.ClipLimitMin {
		return fmt.Errorf("invalid clip limit range [%g, %g]", t.ClipLimitMin, t.ClipLimitMax)
	}
	if t.ContrastFullScale <= 0 {
		return fmt.Errorf("contrast full scale must be positive, got %g", t.ContrastFullScale)
	}
	if t.TileGridSize < 1 {
		return fmt.Errorf("tile grid size must be at least 1, got %d", t.TileGridSize)
	}
	if t.DenoiseMin < 0 || t.DenoiseMax < t.DenoiseMin {
		return fmt.Errorf("invalid denoise strength range [%g, %g]", t.DenoiseMin, t.DenoiseMax)
	}
	if t.TemplateWindowSize < 1 || t.SearchWindowSize < t.TemplateWindowSize {
		return fmt.Errorf("invalid denoise windows: template %d, search %d",
			t.TemplateWindowSize, t.SearchWindowSize)
	}
	if len(t.SharpenStrengths) != len(t.SharpenBandEdges)+1 {
		return fmt.Errorf("sharpen bands need %d strengths, got %d",
			len(t.SharpenBandEdges)+1, len(t.SharpenStrengths))
	}
	for i := 1; i < len(t.SharpenBandEdges); i++ {
		if t.SharpenBandEdges[i] <= t.SharpenBandEdges[i-1] {
			return fmt.Errorf("sharpen band edges must be strictly increasing")
		}
	}
	if t.SharpenKernelSize < 3 || t.SharpenKernelSize%2 == 0 {
		return fmt.Errorf("sharpen kernel size must be odd and at least 3, got %d", t.SharpenKernelSize)
	}
	if t.SharpenSigma <= 0 {
		return fmt.Errorf("sharpen sigma must be positive, got %g", t.SharpenSigma)
	}
	if t.NoisePatchSize < 2 {
		return fmt.Errorf("noise patch size must be at least 2, got %d", t.NoisePatchSize)
	}
	return nil
}
