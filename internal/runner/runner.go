// Package runner wires decoding, enhancement, evaluation and output writing
// together, one image at a time. All user-visible reporting happens here;
// the core packages stay silent.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"rvg-enhancer/internal/config"
	"rvg-enhancer/internal/dicomio"
	"rvg-enhancer/internal/enhance"
	"rvg-enhancer/internal/imageio"
	"rvg-enhancer/internal/imaging"
)

// Runner processes radiograph files through the adaptive pipeline.
type Runner struct {
	pipeline *enhance.Pipeline
	cfg      config.Config
	log      zerolog.Logger
}

// Result describes one successfully processed image.
type Result struct {
	Input  string
	Output string
	Report enhance.Report
}

func New(cfg config.Config, log zerolog.Logger) (*Runner, error) {
	pipeline, err := enhance.New(cfg.Tuning)
	if err != nil {
		return nil, err
	}

	return &Runner{pipeline: pipeline, cfg: cfg, log: log}, nil
}

// Supported reports whether path looks like an input radiograph. Files that
// already carry the output suffix are excluded so a scan never reprocesses
// its own results.
func (r *Runner) Supported(path string) bool {
	if !dicomio.IsDICOMPath(path) && !imageio.IsRasterPath(path) {
		return false
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return !strings.HasSuffix(base, r.cfg.Output.Suffix)
}

// ProcessFile enhances a single file and writes the result next to it (or
// into the configured output directory). On failure the input file is left
// untouched and no output is written.
func (r *Runner) ProcessFile(ctx context.Context, path string) (Result, error) {
	img, err := r.decode(path)
	if err != nil {
		return Result{}, err
	}
	defer img.Close()

	processed, err := r.pipeline.Enhance(ctx, img)
	if err != nil {
		var stageErr *enhance.StageError
		if errors.As(err, &stageErr) {
			r.log.Error().Str("file", path).Str("stage", stageErr.Stage).Err(stageErr.Err).
				Msg("enhancement aborted")
		}
		return Result{}, fmt.Errorf("enhancement of %s failed: %w", path, err)
	}
	defer processed.Close()

	report, err := r.pipeline.Evaluate(img, processed)
	if err != nil {
		return Result{}, fmt.Errorf("evaluation of %s failed: %w", path, err)
	}

	outPath := r.outputPath(path)
	if err := imageio.Save(outPath, processed); err != nil {
		return Result{}, err
	}

	r.log.Info().
		Str("file", path).
		Str("output", outPath).
		Float64("contrast_before", report.Before.Contrast).
		Float64("contrast_after", report.After.Contrast).
		Float64("noise_before", report.Before.NoiseLevel).
		Float64("noise_after", report.After.NoiseLevel).
		Float64("sharpness_before", report.Before.Sharpness).
		Float64("sharpness_after", report.After.Sharpness).
		Float64("psnr", report.PSNR).
		Float64("ssim", report.SSIM).
		Msg("image enhanced")

	return Result{Input: path, Output: outPath, Report: report}, nil
}

// ProcessDir enhances every supported file directly under dir. Individual
// failures are logged and skipped; the scan keeps going.
func (r *Runner) ProcessDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list directory %s: %w", dir, err)
	}

	processed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if !r.Supported(path) {
			continue
		}

		if _, err := r.ProcessFile(ctx, path); err != nil {
			r.log.Warn().Str("file", path).Err(err).Msg("skipping file")
			continue
		}
		processed++
	}

	if processed == 0 {
		r.log.Warn().Str("dir", dir).Msg("no processable radiographs found")
	}

	return processed, nil
}

func (r *Runner) decode(path string) (*imaging.Gray, error) {
	if dicomio.IsDICOMPath(path) {
		return dicomio.Decode(path)
	}
	return imageio.Load(path)
}

func (r *Runner) outputPath(input string) string {
	dir := r.cfg.Output.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+r.cfg.Output.Suffix+".png")
}
