package enhance

import (
	"rvg-enhancer/internal/imaging"
	"rvg-enhancer/internal/metrics"
)

// Report pairs before/after quality profiles with similarity scores for one
// enhanced image. Reporting is read-only and has no effect on the pipeline.
type Report struct {
	Before metrics.Profile
	After  metrics.Profile
	PSNR   float64
	SSIM   float64
}

// Evaluate compares an original image against its enhanced counterpart.
func (p *Pipeline) Evaluate(original, processed *imaging.Gray) (Report, error) {
	before, err := p.Measure(original)
	if err != nil {
		return Report{}, err
	}

	after, err := p.Measure(processed)
	if err != nil {
		return Report{}, err
	}

	psnr, err := metrics.PSNR(original, processed)
	if err != nil {
		return Report{}, err
	}

	ssim, err := metrics.SSIM(original, processed)
	if err != nil {
		return Report{}, err
	}

	return Report{Before: before, After: after, PSNR: psnr, SSIM: ssim}, nil
}
