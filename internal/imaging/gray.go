// Package imaging provides the single-channel 8-bit image value that flows
// through the enhancement pipeline. Every transform produces a new Gray;
// inputs are never mutated, so before/after measurements stay unambiguous.
package imaging

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Gray wraps a CV_8UC1 gocv.Mat. Ownership of the underlying Mat transfers
// to the Gray; callers release it with Close.
type Gray struct {
	mat    gocv.Mat
	closed bool
}

// New allocates a zeroed rows x cols grayscale image.
func New(rows, cols int) (*Gray, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", cols, rows)
	}

	mat := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("failed to create Mat with size %dx%d", cols, rows)
	}

	return &Gray{mat: mat}, nil
}

// FromMat takes ownership of mat. The Mat must be non-empty, single channel
// and 8-bit; anything else is rejected so that downstream stages can assume
// a uniform sample format.
func FromMat(mat gocv.Mat) (*Gray, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("source Mat is empty")
	}
	if mat.Rows() <= 0 || mat.Cols() <= 0 {
		return nil, fmt.Errorf("source Mat has invalid dimensions: %dx%d", mat.Cols(), mat.Rows())
	}
	if mat.Channels() != 1 {
		return nil, fmt.Errorf("expected single channel, got %d", mat.Channels())
	}
	if mat.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("expected 8-bit samples, got Mat type %d", int(mat.Type()))
	}

	return &Gray{mat: mat}, nil
}

// FromPixels builds a Gray from a row-major sample slice.
func FromPixels(rows, cols int, pixels []uint8) (*Gray, error) {
	if len(pixels) != rows*cols {
		return nil, fmt.Errorf("pixel count %d does not match %dx%d", len(pixels), cols, rows)
	}

	img, err := New(rows, cols)
	if err != nil {
		return nil, err
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.mat.SetUCharAt(y, x, pixels[y*cols+x])
		}
	}

	return img, nil
}

// Mat exposes the backing Mat for gocv operations. Callers must treat it as
// read-only; writable copies come from Clone.
func (g *Gray) Mat() gocv.Mat {
	return g.mat
}

func (g *Gray) Rows() int {
	return g.mat.Rows()
}

func (g *Gray) Cols() int {
	return g.mat.Cols()
}

func (g *Gray) Empty() bool {
	return g.closed || g.mat.Empty()
}

// At returns the sample at (y, x).
func (g *Gray) At(y, x int) uint8 {
	return g.mat.GetUCharAt(y, x)
}

// Set writes the sample at (y, x). Reserved for construction; pipeline
// stages never call it on their inputs.
func (g *Gray) Set(y, x int, v uint8) {
	g.mat.SetUCharAt(y, x, v)
}

// Clone returns an independent deep copy.
func (g *Gray) Clone() (*Gray, error) {
	if g.Empty() {
		return nil, fmt.Errorf("cannot clone empty image")
	}

	cloned := g.mat.Clone()
	if cloned.Empty() {
		cloned.Close()
		return nil, fmt.Errorf("failed to clone Mat")
	}

	return &Gray{mat: cloned}, nil
}

// Close releases the backing Mat. Safe to call more than once.
func (g *Gray) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.mat.Close()
}
