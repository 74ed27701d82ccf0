package vision

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

var (
	// ErrEmptyFrame is returned for frames without pixels.
	ErrEmptyFrame = errors.New("empty frame")
	// ErrBadFrame is returned for frames that are not 3-channel color images.
	ErrBadFrame = errors.New("unsupported frame")
)

// Detection is one color blob found in a frame: its centroid in frame
// coordinates and its contour area in pixels.
type Detection struct {
	X    int
	Y    int
	Area float64
}

// HSV is a color in OpenCV's 8-bit hue/saturation/value space.
type HSV struct {
	H, S, V uint8
}

func (c HSV) scalar() gocv.Scalar {
	return gocv.NewScalar(float64(c.H), float64(c.S), float64(c.V), 0)
}

// Range is an inclusive componentwise HSV range.
type Range struct {
	Lower HSV
	Upper HSV
}

// Validate checks that every lower component is not above its upper one.
func (r Range) Validate() error {
	if r.Lower.H > r.Upper.H || r.Lower.S > r.Upper.S || r.Lower.V > r.Upper.V {
		return fmt.Errorf("hsv range %v..%v: lower bound above upper bound", r.Lower, r.Upper)
	}
	return nil
}
