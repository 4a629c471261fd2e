package enhance

import "rvg-enhancer/internal/metrics"

// StageConfig carries every per-stage parameter for one image. It is derived
// deterministically from a single upfront Profile and never changes once the
// pipeline starts.
type StageConfig struct {
	ClipLimit    float64
	TileGridSize int

	BilateralDiameter   int
	BilateralSigmaColor float64
	BilateralSigmaSpace float64

	DenoiseStrength    float64
	SkipDenoise        bool
	TemplateWindowSize int
	SearchWindowSize   int

	SharpenStrength   float64
	SharpenKernelSize int
	SharpenSigma      float64
}

// MapProfile translates measured quality characteristics into concrete
// filter parameters. All inputs are clamped into valid ranges first, so a
// degenerate profile (flat image, all zeros) still yields a usable config.
func MapProfile(p metrics.Profile, t Tuning) StageConfig {
	strength, skip := denoiseStrengthFor(p.NoiseLevel, t)

	return StageConfig{
		ClipLimit:           clipLimitFor(p.Contrast, t),
		TileGridSize:        t.TileGridSize,
		BilateralDiameter:   t.BilateralDiameter,
		BilateralSigmaColor: t.BilateralSigmaColor,
		BilateralSigmaSpace: t.BilateralSigmaSpace,
		DenoiseStrength:     strength,
		SkipDenoise:         skip,
		TemplateWindowSize:  t.TemplateWindowSize,
		SearchWindowSize:    t.SearchWindowSize,
		SharpenStrength:     sharpenStrengthFor(p.Sharpness, t),
		SharpenKernelSize:   t.SharpenKernelSize,
		SharpenSigma:        t.SharpenSigma,
	}
}

// clipLimitFor descends linearly from ClipLimitMax at zero contrast to
// ClipLimitMin at full-scale contrast: low-contrast images get aggressive
// local equalization, images with an already strong histogram spread get a
// near-identity clip limit.
func clipLimitFor(contrast float64, t Tuning) float64 {
	c := clamp(contrast, 0, t.ContrastFullScale)
	span := t.ClipLimitMax - t.ClipLimitMin
	return clamp(t.ClipLimitMax-span*(c/t.ContrastFullScale), t.ClipLimitMin, t.ClipLimitMax)
}

// denoiseStrengthFor grows monotonically with the noise reading. Readings
// below the skip threshold disable the stage entirely rather than running it
// at minimal strength, which would still erode fine detail.
func denoiseStrengthFor(noise float64, t Tuning) (float64, bool) {
	if noise < t.DenoiseSkipBelow {
		return 0, true
	}
	return clamp(noise*t.DenoiseScale, t.DenoiseMin, t.DenoiseMax), false
}

// sharpenStrengthFor maps the sharpness reading onto descending strength
// bands: the blurriest images get the strongest sharpening. A reading equal
// to a band edge belongs to the next (sharper) band. Banding keeps the
// behavior auditable and insensitive to estimator jitter near boundaries.
func sharpenStrengthFor(sharpness float64, t Tuning) float64 {
	for i, edge := range t.SharpenBandEdges {
		if sharpness < edge {
			return t.SharpenStrengths[i]
		}
	}
	return t.SharpenStrengths[len(t.SharpenStrengths)-1]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
