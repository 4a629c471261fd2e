package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rvg-enhancer/internal/config"
	"rvg-enhancer/internal/imageio"
	"rvg-enhancer/internal/imaging"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	r, err := New(config.Default(), zerolog.Nop())
	require.NoError(t, err)
	return r
}

// writeTestRadiograph saves a small gradient image with a bright block, so
// the pipeline has real structure to work on.
func writeTestRadiograph(t *testing.T, path string) {
	t.Helper()

	const size = 64
	pixels := make([]uint8, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			pixels[y*size+x] = uint8(40 + x)
		}
	}
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			pixels[y*size+x] = 180
		}
	}

	img, err := imaging.FromPixels(size, size, pixels)
	require.NoError(t, err)
	defer img.Close()

	require.NoError(t, imageio.Save(path, img))
}

func TestSupported(t *testing.T) {
	r := newTestRunner(t)

	assert.True(t, r.Supported("scan.dcm"))
	assert.True(t, r.Supported("scan.rvg"))
	assert.True(t, r.Supported("scan.png"))
	assert.True(t, r.Supported("scan.JPG"))

	assert.False(t, r.Supported("notes.txt"))
	assert.False(t, r.Supported("scan"))
	assert.False(t, r.Supported("scan_processed.png"))
}

func TestProcessFileWritesOutput(t *testing.T) {
	r := newTestRunner(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "scan.png")
	writeTestRadiograph(t, input)

	result, err := r.ProcessFile(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, input, result.Input)
	assert.Equal(t, filepath.Join(dir, "scan_processed.png"), result.Output)
	assert.FileExists(t, result.Output)
	assert.Greater(t, result.Report.PSNR, 0.0)

	// The input file is left untouched.
	info, err := os.Stat(input)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestProcessFileOutputDir(t *testing.T) {
	cfg := config.Default()
	outDir := t.TempDir()
	cfg.Output.Dir = outDir

	r, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	input := filepath.Join(t.TempDir(), "scan.png")
	writeTestRadiograph(t, input)

	result, err := r.ProcessFile(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "scan_processed.png"), result.Output)
	assert.FileExists(t, result.Output)
}

func TestProcessFileMissingInput(t *testing.T) {
	r := newTestRunner(t)

	_, err := r.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestProcessDir(t *testing.T) {
	r := newTestRunner(t)

	dir := t.TempDir()
	writeTestRadiograph(t, filepath.Join(dir, "a.png"))
	writeTestRadiograph(t, filepath.Join(dir, "b.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not an image"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	count, err := r.ProcessDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.FileExists(t, filepath.Join(dir, "a_processed.png"))
	assert.FileExists(t, filepath.Join(dir, "b_processed.png"))
}

func TestProcessDirRescanSkipsOwnOutput(t *testing.T) {
	r := newTestRunner(t)

	dir := t.TempDir()
	writeTestRadiograph(t, filepath.Join(dir, "a.png"))

	count, err := r.ProcessDir(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// A second scan must not reprocess a_processed.png.
	count, err = r.ProcessDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoFileExists(t, filepath.Join(dir, "a_processed_processed.png"))
}

func TestProcessDirMissing(t *testing.T) {
	r := newTestRunner(t)

	_, err := r.ProcessDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
