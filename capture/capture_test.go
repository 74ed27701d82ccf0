package capture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStillReplaysFile(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	src.Set(2, 3, color.RGBA{255, 0, 0, 255})

	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	s, err := LoadStill(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), s.Bounds())

	a, err := s.Capture()
	require.NoError(t, err)
	r, g, b, _ := a.At(2, 3).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b})

	// Frames are independent copies.
	a.Set(2, 3, color.RGBA{0, 0, 0, 255})
	again, err := s.Capture()
	require.NoError(t, err)
	r, _, _, _ = again.At(2, 3).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestLoadStillMissingFile(t *testing.T) {
	_, err := LoadStill(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestSourceFunc(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 1, 1))
	var src Source = SourceFunc(func() (*image.RGBA, error) { return want, nil })
	got, err := src.Capture()
	require.NoError(t, err)
	assert.Same(t, want, got)
}
