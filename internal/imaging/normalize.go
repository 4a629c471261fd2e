package imaging

import "fmt"

// NormalizeTo8Bit stretches arbitrary-depth samples onto the full 8-bit
// range. Radiograph sources commonly deliver 10-16 bit data; the pipeline
// operates on 8-bit regardless of source depth. A flat input (max == min)
// maps to all zeros rather than failing.
func NormalizeTo8Bit(rows, cols int, samples []float64) (*Gray, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", cols, rows)
	}
	if len(samples) != rows*cols {
		return nil, fmt.Errorf("sample count %d does not match %dx%d", len(samples), cols, rows)
	}

	minVal, maxVal := samples[0], samples[0]
	for _, v := range samples[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	img, err := New(rows, cols)
	if err != nil {
		return nil, err
	}

	span := maxVal - minVal
	if span == 0 {
		return img, nil
	}

	scale := 255.0 / span
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.Set(y, x, uint8((samples[y*cols+x]-minVal)*scale+0.5))
		}
	}

	return img, nil
}
