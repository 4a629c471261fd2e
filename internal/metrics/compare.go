package metrics

import (
	"math"

	"gocv.io/x/gocv"

	"rvg-enhancer/internal/imaging"
)

// PSNR returns the peak signal-to-noise ratio between two same-shaped
// images, in dB. Identical images yield +Inf.
func PSNR(original, processed *imaging.Gray) (float64, error) {
	if err := imaging.ValidatePair(original, processed, "PSNR"); err != nil {
		return 0, err
	}

	mse, err := MSE(original, processed)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}

	const maxVal = 255.0
	return 20 * math.Log10(maxVal/math.Sqrt(mse)), nil
}

// MSE returns the mean squared error between two same-shaped images.
func MSE(original, processed *imaging.Gray) (float64, error) {
	if err := imaging.ValidatePair(original, processed, "MSE"); err != nil {
		return 0, err
	}

	rows, cols := original.Rows(), original.Cols()

	sumSquaredDiff := 0.0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			diff := float64(original.At(y, x)) - float64(processed.At(y, x))
			sumSquaredDiff += diff * diff
		}
	}

	return sumSquaredDiff / float64(rows*cols), nil
}

// SSIM returns a structural similarity score in [0, 1] computed from global
// image statistics. 1 means structurally identical.
func SSIM(original, processed *imaging.Gray) (float64, error) {
	if err := imaging.ValidatePair(original, processed, "SSIM"); err != nil {
		return 0, err
	}

	// Stabilizing constants for 8-bit dynamic range: (0.01*255)^2, (0.03*255)^2.
	const c1, c2 = 6.5025, 58.5225

	f1, f2 := gocv.NewMat(), gocv.NewMat()
	defer f1.Close()
	defer f2.Close()

	origMat := original.Mat()
	procMat := processed.Mat()
	origMat.ConvertTo(&f1, gocv.MatTypeCV32F)
	procMat.ConvertTo(&f2, gocv.MatTypeCV32F)

	mu1 := f1.Mean().Val1
	mu2 := f2.Mean().Val1

	f1Sq, f2Sq, f1f2 := gocv.NewMat(), gocv.NewMat(), gocv.NewMat()
	defer f1Sq.Close()
	defer f2Sq.Close()
	defer f1f2.Close()

	gocv.Multiply(f1, f1, &f1Sq)
	gocv.Multiply(f2, f2, &f2Sq)
	gocv.Multiply(f1, f2, &f1f2)

	sigma1Sq := f1Sq.Mean().Val1 - mu1*mu1
	sigma2Sq := f2Sq.Mean().Val1 - mu2*mu2
	sigma12 := f1f2.Mean().Val1 - mu1*mu2

	num := (2*mu1*mu2 + c1) * (2*sigma12 + c2)
	den := (mu1*mu1 + mu2*mu2 + c1) * (sigma1Sq + sigma2Sq + c2)
	if den == 0 {
		return 1.0, nil
	}

	return num / den, nil
}
