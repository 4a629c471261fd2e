// Package metrics measures quality characteristics of grayscale radiographs
// and compares pipeline outputs. All functions are pure: no logging, no I/O,
// no shared state.
package metrics

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"rvg-enhancer/internal/imaging"
)

// Profile holds the quality characteristics measured once from the original
// decoded image. Every stage configuration derives from this single profile;
// nothing is re-measured mid-pipeline.
type Profile struct {
	Contrast   float64
	NoiseLevel float64
	Sharpness  float64
	Brightness float64
}

// NoiseEstimator abstracts the noise measurement so the background-patch
// heuristic can be swapped without touching the pipeline or the mapper.
type NoiseEstimator interface {
	EstimateNoise(img *imaging.Gray) float64
}

// MeasureProfile computes all estimators over one image.
func MeasureProfile(img *imaging.Gray, noise NoiseEstimator) (Profile, error) {
	if err := imaging.Validate(img, "profile measurement"); err != nil {
		return Profile{}, err
	}

	return Profile{
		Contrast:   Contrast(img),
		NoiseLevel: noise.EstimateNoise(img),
		Sharpness:  Sharpness(img),
		Brightness: Brightness(img),
	}, nil
}

// Brightness is the arithmetic mean of all samples.
func Brightness(img *imaging.Gray) float64 {
	mat := img.Mat()
	return mat.Mean().Val1
}

// Contrast is the spread between the 99th and 1st intensity percentiles.
// Percentiles rather than min/max keep the estimate robust to single-pixel
// outliers such as sensor defects or burned-in annotations.
func Contrast(img *imaging.Gray) float64 {
	var hist [256]int
	rows, cols := img.Rows(), img.Cols()

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			hist[img.At(y, x)]++
		}
	}

	total := rows * cols
	low := percentile(hist, total, 0.01)
	high := percentile(hist, total, 0.99)

	return float64(high - low)
}

func percentile(hist [256]int, total int, q float64) int {
	target := int(math.Ceil(q * float64(total)))
	if target < 1 {
		target = 1
	}

	cumulative := 0
	for v := 0; v < 256; v++ {
		cumulative += hist[v]
		if cumulative >= target {
			return v
		}
	}

	return 255
}

// Sharpness is the variance of the Laplacian response. High variance means
// strong, well-defined edges; near zero means a blurred image.
func Sharpness(img *imaging.Gray) float64 {
	laplacian := gocv.NewMat()
	defer laplacian.Close()
	gocv.Laplacian(img.Mat(), &laplacian, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	mean := laplacian.Mean().Val1
	rows, cols := laplacian.Rows(), laplacian.Cols()

	sumSquaredDiff := 0.0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			diff := laplacian.GetDoubleAt(y, x) - mean
			sumSquaredDiff += diff * diff
		}
	}

	return sumSquaredDiff / float64(rows*cols)
}

// PatchNoiseEstimator estimates sensor noise from the standard deviation of
// small patches at the image corners and edge midpoints. In radiographs
// these regions are typically background, so their local variance tracks
// acquisition noise rather than anatomy. This is a domain heuristic, not an
// invariant; see NoiseEstimator.
type PatchNoiseEstimator struct {
	PatchSize int
}

const DefaultNoisePatchSize = 40

func NewPatchNoiseEstimator(patchSize int) *PatchNoiseEstimator {
	if patchSize <= 0 {
		patchSize = DefaultNoisePatchSize
	}
	return &PatchNoiseEstimator{PatchSize: patchSize}
}

// EstimateNoise returns the mean per-patch standard deviation. Undersized
// images degrade gracefully: the patch shrinks to fit, and an image too
// small to hold even a 2x2 patch reports zero noise rather than failing.
func (e *PatchNoiseEstimator) EstimateNoise(img *imaging.Gray) float64 {
	if imaging.Validate(img, "noise estimation") != nil {
		return 0
	}

	rows, cols := img.Rows(), img.Cols()
	ps := e.PatchSize
	if minDim := min(rows, cols); minDim < ps {
		ps = minDim / 2
	}
	if ps < 2 {
		return 0
	}

	regions := patchLayout(rows, cols, ps)

	sum := 0.0
	for _, r := range regions {
		sum += patchStdDev(img, r)
	}

	return sum / float64(len(regions))
}

// patchLayout places patches at the four corners and four edge midpoints.
func patchLayout(rows, cols, ps int) []image.Rectangle {
	midY := rows/2 - ps/2
	midX := cols/2 - ps/2

	return []image.Rectangle{
		image.Rect(0, 0, ps, ps),
		image.Rect(cols-ps, 0, cols, ps),
		image.Rect(0, rows-ps, ps, rows),
		image.Rect(cols-ps, rows-ps, cols, rows),
		image.Rect(0, midY, ps, midY+ps),
		image.Rect(cols-ps, midY, cols, midY+ps),
		image.Rect(midX, 0, midX+ps, ps),
		image.Rect(midX, rows-ps, midX+ps, rows),
	}
}

func patchStdDev(img *imaging.Gray, r image.Rectangle) float64 {
	count := float64(r.Dx() * r.Dy())

	sum := 0.0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sum += float64(img.At(y, x))
		}
	}
	mean := sum / count

	sumSquaredDiff := 0.0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			diff := float64(img.At(y, x)) - mean
			sumSquaredDiff += diff * diff
		}
	}

	return math.Sqrt(sumSquaredDiff / count)
}
