package enhance

import (
	"context"
	"fmt"

	"rvg-enhancer/internal/imaging"
	"rvg-enhancer/internal/metrics"
)

// StageError reports which stage aborted an image's enhancement. The caller
// keeps the original image untouched; there is no partial output.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Pipeline enhances one radiograph at a time. The quality profile is
// measured exactly once from the input image and every stage configuration
// derives from that single profile; stages never re-measure intermediate
// results, so parameter selection stays deterministic and order-independent
// of stage internals.
//
// A Pipeline holds no per-image state and is safe to reuse across images,
// including from different goroutines.
type Pipeline struct {
	tuning Tuning
	noise  metrics.NoiseEstimator
	stages []Stage
}

// New builds a pipeline with the default background-patch noise estimator.
func New(tuning Tuning) (*Pipeline, error) {
	return NewWithNoiseEstimator(tuning, metrics.NewPatchNoiseEstimator(tuning.NoisePatchSize))
}

// NewWithNoiseEstimator builds a pipeline with a caller-supplied noise
// estimator, for deployments where the corner-patch background assumption
// does not hold.
func NewWithNoiseEstimator(tuning Tuning, noise metrics.NoiseEstimator) (*Pipeline, error) {
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}
	if noise == nil {
		return nil, fmt.Errorf("noise estimator is nil")
	}

	return &Pipeline{
		tuning: tuning,
		noise:  noise,
		stages: defaultStages(),
	}, nil
}

// Measure computes the quality profile the mapper would see for img.
func (p *Pipeline) Measure(img *imaging.Gray) (metrics.Profile, error) {
	return metrics.MeasureProfile(img, p.noise)
}

// Enhance runs the fixed stage sequence on img and returns a new image; img
// itself is never modified. Any stage failure aborts the whole image and is
// returned as a *StageError. The context is consulted between stages only,
// so cancellation is caller-level and never yields partial output.
func (p *Pipeline) Enhance(ctx context.Context, img *imaging.Gray) (*imaging.Gray, error) {
	if err := imaging.Validate(img, "enhance"); err != nil {
		return nil, err
	}

	profile, err := p.Measure(img)
	if err != nil {
		return nil, err
	}
	cfg := MapProfile(profile, p.tuning)

	current, owned := img, false
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			if owned {
				current.Close()
			}
			return nil, err
		}

		if stage.Skip(cfg) {
			continue
		}

		next, err := stage.Apply(current, cfg)
		if err != nil {
			if owned {
				current.Close()
			}
			return nil, &StageError{Stage: stage.Name(), Err: err}
		}

		if owned {
			current.Close()
		}
		current, owned = next, true
	}

	if !owned {
		return img.Clone()
	}
	return current, nil
}
