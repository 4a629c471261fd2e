// Package imageio loads and saves raster radiographs through OpenCV. DICOM
// sources are handled by the dicomio package; everything here already sits
// in a conventional raster container.
package imageio

import (
	"fmt"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"rvg-enhancer/internal/imaging"
)

// IsRasterPath reports whether path has a raster extension OpenCV can read.
func IsRasterPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

// Load reads an image file as 8-bit grayscale.
func Load(path string) (*imaging.Gray, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("failed to read image %s", path)
	}

	img, err := imaging.FromMat(mat)
	if err != nil {
		mat.Close()
		return nil, fmt.Errorf("unusable image data in %s: %w", path, err)
	}
	return img, nil
}

// Save writes img to path; the extension picks the container format.
func Save(path string, img *imaging.Gray) error {
	if err := imaging.Validate(img, "save"); err != nil {
		return err
	}

	if ok := gocv.IMWrite(path, img.Mat()); !ok {
		return fmt.Errorf("failed to write image %s", path)
	}
	return nil
}
