// Package capture provides frame sources for the control loop.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/kbinani/screenshot"
	"gocv.io/x/gocv"
)

// ErrNoDisplay is returned when no active display can be captured.
var ErrNoDisplay = errors.New("no active display")

// Source produces one frame per call.
type Source interface {
	Capture() (*image.RGBA, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (*image.RGBA, error)

func (f SourceFunc) Capture() (*image.RGBA, error) { return f() }

// Screen captures a fixed rectangle of the desktop.
type Screen struct {
	Region image.Rectangle
}

// NewScreen returns a Screen for region. An empty region selects the whole
// primary display.
func NewScreen(region image.Rectangle) (*Screen, error) {
	if region.Empty() {
		if screenshot.NumActiveDisplays() < 1 {
			return nil, ErrNoDisplay
		}
		region = screenshot.GetDisplayBounds(0)
	}
	return &Screen{Region: region}, nil
}

func (s *Screen) Capture() (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(s.Region)
	if err != nil {
		return nil, fmt.Errorf("capture %v: %w", s.Region, err)
	}
	return img, nil
}

// Still replays a single image from disk on every call.
type Still struct {
	Path  string
	frame *image.RGBA
}

// LoadStill decodes the image at path.
func LoadStill(path string) (*Still, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("read image %q: empty or unsupported", path)
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert image %q: %w", path, err)
	}
	return &Still{Path: path, frame: toRGBA(img)}, nil
}

// Capture returns a copy so callers may draw on the frame.
func (s *Still) Capture() (*image.RGBA, error) {
	return toRGBA(s.frame), nil
}

// Bounds is the size of the stored frame.
func (s *Still) Bounds() image.Rectangle { return s.frame.Bounds() }

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
