package vision

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

var redRange = Range{
	Lower: HSV{H: 0, S: 100, V: 100},
	Upper: HSV{H: 10, S: 255, V: 255},
}

func frameWith(w, h int, squares ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 255}}, image.Point{}, draw.Src)
	red := &image.Uniform{color.RGBA{255, 0, 0, 255}}
	for _, r := range squares {
		draw.Draw(img, r, red, image.Point{}, draw.Src)
	}
	return img
}

func TestFindSingleSquare(t *testing.T) {
	d := NewDetector(redRange)
	defer d.Close()

	// 20x20 = 400px square spanning x 40..59, y 30..49.
	frame := frameWith(160, 120, image.Rect(40, 30, 60, 50))

	dets, err := d.Find(frame)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.InDelta(t, 50, dets[0].X, 1)
	assert.InDelta(t, 40, dets[0].Y, 1)
	assert.Greater(t, dets[0].Area, 300.0)
	assert.LessOrEqual(t, dets[0].Area, 400.0)
}

func TestFindSeveralSquares(t *testing.T) {
	d := NewDetector(redRange)
	defer d.Close()

	frame := frameWith(200, 200, image.Rect(10, 10, 30, 30), image.Rect(120, 140, 150, 170))

	dets, err := d.Find(frame)
	require.NoError(t, err)
	require.Len(t, dets, 2)
	centers := []image.Point{image.Pt(dets[0].X, dets[0].Y), image.Pt(dets[1].X, dets[1].Y)}
	assert.Contains(t, centers, image.Pt(19, 19))
	assert.Contains(t, centers, image.Pt(134, 154))
}

func TestFindNoiseFloor(t *testing.T) {
	d := NewDetector(redRange)
	defer d.Close()

	// 4x4 = 16px blob and a lone pixel: both under the noise floor.
	frame := frameWith(64, 64, image.Rect(10, 10, 14, 14), image.Rect(40, 40, 41, 41))

	dets, err := d.Find(frame)
	require.NoError(t, err)
	assert.Empty(t, dets)
}

func TestFindIgnoresColorsOutOfRange(t *testing.T) {
	d := NewDetector(redRange)
	defer d.Close()

	frame := frameWith(64, 64)
	blue := &image.Uniform{color.RGBA{0, 0, 255, 255}}
	draw.Draw(frame, image.Rect(10, 10, 40, 40), blue, image.Point{}, draw.Src)

	dets, err := d.Find(frame)
	require.NoError(t, err)
	assert.Empty(t, dets)
}

func TestFindMinAreaOption(t *testing.T) {
	d := NewDetector(redRange, WithMinArea(500))
	defer d.Close()

	dets, err := d.Find(frameWith(100, 100, image.Rect(10, 10, 30, 30)))
	require.NoError(t, err)
	assert.Empty(t, dets)
}

func TestFindEmptyFrame(t *testing.T) {
	d := NewDetector(redRange)
	defer d.Close()

	_, err := d.Find(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, ErrEmptyFrame)
	_, err = d.Find(nil)
	assert.ErrorIs(t, err, ErrEmptyFrame)
}

type recordingOverlay struct {
	calls int
	last  []Detection
}

func (o *recordingOverlay) Show(_ gocv.Mat, dets []Detection) {
	o.calls++
	o.last = dets
}

func TestFindFeedsOverlay(t *testing.T) {
	o := &recordingOverlay{}
	d := NewDetector(redRange, WithOverlay(o))
	defer d.Close()

	dets, err := d.Find(frameWith(100, 100, image.Rect(10, 10, 30, 30)))
	require.NoError(t, err)

	assert.Equal(t, 1, o.calls)
	assert.Equal(t, dets, o.last)
}

func TestRangeValidate(t *testing.T) {
	assert.NoError(t, redRange.Validate())
	bad := Range{Lower: HSV{H: 20}, Upper: HSV{H: 10, S: 255, V: 255}}
	assert.Error(t, bad.Validate())
}
