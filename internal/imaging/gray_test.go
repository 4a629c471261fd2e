package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestFromPixelsRoundTrip(t *testing.T) {
	pixels := []uint8{10, 20, 30, 40, 50, 60}

	img, err := FromPixels(2, 3, pixels)
	require.NoError(t, err)
	defer img.Close()

	assert.Equal(t, 2, img.Rows())
	assert.Equal(t, 3, img.Cols())
	assert.Equal(t, uint8(10), img.At(0, 0))
	assert.Equal(t, uint8(60), img.At(1, 2))
}

func TestFromPixelsRejectsMismatchedLength(t *testing.T) {
	_, err := FromPixels(2, 3, []uint8{1, 2, 3})
	assert.Error(t, err)
}

func TestFromMatRejectsUnusableMats(t *testing.T) {
	empty := gocv.NewMat()
	_, err := FromMat(empty)
	assert.Error(t, err)
	empty.Close()

	color := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	_, err = FromMat(color)
	assert.Error(t, err)
	color.Close()

	wide := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV16UC1)
	_, err = FromMat(wide)
	assert.Error(t, err)
	wide.Close()
}

func TestCloneIsIndependent(t *testing.T) {
	img, err := FromPixels(2, 2, []uint8{1, 2, 3, 4})
	require.NoError(t, err)
	defer img.Close()

	clone, err := img.Clone()
	require.NoError(t, err)
	defer clone.Close()

	clone.Set(0, 0, 99)
	assert.Equal(t, uint8(1), img.At(0, 0))
	assert.Equal(t, uint8(99), clone.At(0, 0))
}

func TestCloseIsIdempotent(t *testing.T) {
	img, err := New(4, 4)
	require.NoError(t, err)

	img.Close()
	img.Close()
	assert.True(t, img.Empty())
}

func TestValidateRejectsNilAndClosed(t *testing.T) {
	assert.Error(t, Validate(nil, "test"))

	img, err := New(4, 4)
	require.NoError(t, err)
	img.Close()
	assert.Error(t, Validate(img, "test"))
}

func TestValidatePairRejectsShapeMismatch(t *testing.T) {
	a, err := New(4, 4)
	require.NoError(t, err)
	defer a.Close()

	b, err := New(4, 5)
	require.NoError(t, err)
	defer b.Close()

	assert.Error(t, ValidatePair(a, b, "test"))
	assert.NoError(t, ValidatePair(a, a, "test"))
}

func TestNormalizeTo8BitStretchesFullRange(t *testing.T) {
	samples := []float64{100, 612, 1124, 1636}

	img, err := NormalizeTo8Bit(2, 2, samples)
	require.NoError(t, err)
	defer img.Close()

	assert.Equal(t, uint8(0), img.At(0, 0))
	assert.Equal(t, uint8(255), img.At(1, 1))
	assert.InDelta(t, 85, int(img.At(0, 1)), 1)
}

func TestNormalizeTo8BitFlatInput(t *testing.T) {
	img, err := NormalizeTo8Bit(2, 2, []float64{7, 7, 7, 7})
	require.NoError(t, err)
	defer img.Close()

	assert.Equal(t, uint8(0), img.At(0, 0))
	assert.Equal(t, uint8(0), img.At(1, 1))
}
