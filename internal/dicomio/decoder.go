// Package dicomio decodes DICOM and DICOM-compatible RVG radiograph files
// into the 8-bit grayscale representation the pipeline consumes.
package dicomio

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"rvg-enhancer/internal/imaging"
)

// IsDICOMPath reports whether path has a DICOM/RVG extension.
func IsDICOMPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dcm", ".rvg":
		return true
	}
	return false
}

// Decode reads the first frame of a DICOM file, applies the rescale slope
// and intercept, inverts MONOCHROME1 data, and normalizes the result to
// 8-bit regardless of the source bit depth.
func Decode(path string) (*imaging.Gray, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DICOM file %s: %w", path, err)
	}

	pixelEl, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("no pixel data in %s: %w", path, err)
	}

	info := dicom.MustGetPixelDataInfo(pixelEl.Value)
	if len(info.Frames) == 0 {
		return nil, fmt.Errorf("no frames in %s", path)
	}

	native, err := info.Frames[0].GetNativeFrame()
	if err != nil {
		return nil, fmt.Errorf("unsupported encapsulated pixel data in %s: %w", path, err)
	}
	if native.Rows <= 0 || native.Cols <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d in %s", native.Cols, native.Rows, path)
	}
	if len(native.Data) != native.Rows*native.Cols {
		return nil, fmt.Errorf("frame length %d does not match %dx%d in %s",
			len(native.Data), native.Cols, native.Rows, path)
	}

	slope := floatTagOrDefault(&ds, tag.RescaleSlope, 1)
	intercept := floatTagOrDefault(&ds, tag.RescaleIntercept, 0)

	samples := make([]float64, len(native.Data))
	for i, px := range native.Data {
		samples[i] = float64(px[0])*slope + intercept
	}

	// MONOCHROME1 stores low values as bright; flip it so higher always
	// means brighter before normalization.
	if stringTagOrDefault(&ds, tag.PhotometricInterpretation, "") == "MONOCHROME1" {
		maxVal := samples[0]
		for _, v := range samples[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		for i := range samples {
			samples[i] = maxVal - samples[i]
		}
	}

	return imaging.NormalizeTo8Bit(native.Rows, native.Cols, samples)
}

// floatTagOrDefault reads a decimal-string tag, tolerating absent or
// malformed values.
func floatTagOrDefault(ds *dicom.Dataset, t tag.Tag, def float64) float64 {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return def
	}

	strs, ok := el.Value.GetValue().([]string)
	if !ok || len(strs) == 0 {
		return def
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(strs[0]), 64)
	if err != nil {
		return def
	}
	return v
}

func stringTagOrDefault(ds *dicom.Dataset, t tag.Tag, def string) string {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return def
	}

	strs, ok := el.Value.GetValue().([]string)
	if !ok || len(strs) == 0 {
		return def
	}
	return strings.TrimSpace(strs[0])
}
