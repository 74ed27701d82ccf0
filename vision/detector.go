// Package vision finds colored objects in captured frames.
package vision

import (
	"fmt"
	"image"
	"log/slog"

	"gocv.io/x/gocv"
)

// DefaultMinArea is the contour area, in pixels, below which a blob is noise.
const DefaultMinArea = 20

// Overlay receives the cleaned mask and the detections of every pass.
type Overlay interface {
	Show(mask gocv.Mat, detections []Detection)
}

// Option configures a Detector.
type Option func(*Detector)

// WithMinArea sets the noise floor. Non-positive values are ignored.
func WithMinArea(area float64) Option {
	return func(d *Detector) {
		if area > 0 {
			d.minArea = area
		}
	}
}

// WithOverlay attaches a debug overlay.
func WithOverlay(o Overlay) Option {
	return func(d *Detector) { d.overlay = o }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.log = l
		}
	}
}

// Detector segments frames by an HSV range. It keeps no state between
// frames; Close releases the structuring element.
type Detector struct {
	rng     Range
	minArea float64
	kernel  gocv.Mat
	overlay Overlay
	log     *slog.Logger
}

// NewDetector builds a Detector for rng.
func NewDetector(rng Range, opts ...Option) *Detector {
	d := &Detector{
		rng:     rng,
		minArea: DefaultMinArea,
		kernel:  gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(d)
	}
	d.log = d.log.With("component", "vision")
	return d
}

// Close frees native resources.
func (d *Detector) Close() error {
	return d.kernel.Close()
}

// Find converts frame to a BGR matrix and runs FindMat on it.
func (d *Detector) Find(frame image.Image) ([]Detection, error) {
	if frame == nil || frame.Bounds().Empty() {
		return nil, ErrEmptyFrame
	}
	bgr, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	defer bgr.Close()
	return d.FindMat(bgr)
}

// FindMat returns the centroid and area of every external blob of in-range
// pixels in a BGR frame, in contour discovery order.
func (d *Detector) FindMat(bgr gocv.Mat) ([]Detection, error) {
	if bgr.Empty() {
		return nil, ErrEmptyFrame
	}
	if ch := bgr.Channels(); ch != 3 {
		return nil, fmt.Errorf("%w: want 3 channels, got %d", ErrBadFrame, ch)
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, d.rng.Lower.scalar(), d.rng.Upper.scalar(), &mask)

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(mask, &opened, gocv.MorphOpen, d.kernel)

	contours := gocv.FindContours(opened, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	detections := make([]Detection, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area < d.minArea {
			continue
		}
		x, y, ok := contourMoments(contour.ToPoints()).centroid()
		if !ok {
			continue
		}
		detections = append(detections, Detection{X: x, Y: y, Area: area})
	}

	d.log.Debug("vision: found objects", "count", len(detections), "contours", contours.Size())
	if d.overlay != nil {
		d.overlay.Show(opened, detections)
	}
	return detections, nil
}
