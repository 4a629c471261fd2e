package enhance

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"rvg-enhancer/internal/imaging"
)

// Stage is one transform in the enhancement pipeline. Apply must not mutate
// its input and must not consult anything beyond the input image and the
// upfront StageConfig.
type Stage interface {
	Name() string
	Skip(cfg StageConfig) bool
	Apply(img *imaging.Gray, cfg StageConfig) (*imaging.Gray, error)
}

// claheStage applies contrast-limited adaptive histogram equalization. It
// runs first so the later stages operate on a stable intensity distribution.
type claheStage struct{}

func (s *claheStage) Name() string { return "clahe" }

func (s *claheStage) Skip(StageConfig) bool { return false }

func (s *claheStage) Apply(img *imaging.Gray, cfg StageConfig) (*imaging.Gray, error) {
	if err := imaging.Validate(img, s.Name()); err != nil {
		return nil, err
	}

	clahe := gocv.NewCLAHEWithParams(cfg.ClipLimit, image.Point{X: cfg.TileGridSize, Y: cfg.TileGridSize})
	defer clahe.Close()

	dst := gocv.NewMat()
	clahe.Apply(img.Mat(), &dst)

	out, err := imaging.FromMat(dst)
	if err != nil {
		dst.Close()
		return nil, fmt.Errorf("equalization produced unusable output: %w", err)
	}
	return out, nil
}

// bilateralStage smooths while preserving edges between anatomy and
// background.
type bilateralStage struct{}

func (s *bilateralStage) Name() string { return "bilateral" }

func (s *bilateralStage) Skip(StageConfig) bool { return false }

func (s *bilateralStage) Apply(img *imaging.Gray, cfg StageConfig) (*imaging.Gray, error) {
	if err := imaging.Validate(img, s.Name()); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	gocv.BilateralFilter(img.Mat(), &dst, cfg.BilateralDiameter, cfg.BilateralSigmaColor, cfg.BilateralSigmaSpace)

	out, err := imaging.FromMat(dst)
	if err != nil {
		dst.Close()
		return nil, fmt.Errorf("bilateral filter produced unusable output: %w", err)
	}
	return out, nil
}

// denoiseStage runs fast non-local-means denoising. Skipped entirely when
// the measured noise is below the configured threshold.
type denoiseStage struct{}

func (s *denoiseStage) Name() string { return "denoise" }

func (s *denoiseStage) Skip(cfg StageConfig) bool { return cfg.SkipDenoise }

func (s *denoiseStage) Apply(img *imaging.Gray, cfg StageConfig) (*imaging.Gray, error) {
	if err := imaging.Validate(img, s.Name()); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	gocv.FastNlMeansDenoisingWithParams(img.Mat(), &dst,
		float32(cfg.DenoiseStrength), cfg.TemplateWindowSize, cfg.SearchWindowSize)

	out, err := imaging.FromMat(dst)
	if err != nil {
		dst.Close()
		return nil, fmt.Errorf("denoising produced unusable output: %w", err)
	}
	return out, nil
}

// sharpenStage applies unsharp masking: the image weighted against its own
// Gaussian blur. It runs last so it acts on the already-denoised result
// instead of amplifying noise a later stage would have removed.
type sharpenStage struct{}

func (s *sharpenStage) Name() string { return "sharpen" }

func (s *sharpenStage) Skip(StageConfig) bool { return false }

func (s *sharpenStage) Apply(img *imaging.Gray, cfg StageConfig) (*imaging.Gray, error) {
	if err := imaging.Validate(img, s.Name()); err != nil {
		return nil, err
	}

	k := cfg.SharpenKernelSize
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(img.Mat(), &blurred, image.Pt(k, k), cfg.SharpenSigma, cfg.SharpenSigma, gocv.BorderDefault)

	dst := gocv.NewMat()
	gocv.AddWeighted(img.Mat(), cfg.SharpenStrength, blurred, -(cfg.SharpenStrength - 1), 0, &dst)

	out, err := imaging.FromMat(dst)
	if err != nil {
		dst.Close()
		return nil, fmt.Errorf("sharpening produced unusable output: %w", err)
	}
	return out, nil
}

// defaultStages returns the fixed stage order: contrast correction first,
// smoothing and denoising on the corrected distribution, sharpening last.
func defaultStages() []Stage {
	return []Stage{
		&claheStage{},
		&bilateralStage{},
		&denoiseStage{},
		&sharpenStage{},
	}
}
