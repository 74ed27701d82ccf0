package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var markerColor = color.RGBA{0, 255, 0, 0}

// Window shows the detection mask with centroids circled.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a debug window titled title.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

func (w *Window) Show(mask gocv.Mat, detections []Detection) {
	img := gocv.NewMat()
	defer img.Close()
	gocv.CvtColor(mask, &img, gocv.ColorGrayToBGR)
	for _, d := range detections {
		gocv.Circle(&img, image.Pt(d.X, d.Y), 6, markerColor, 2)
	}
	w.win.IMShow(img)
	w.win.WaitKey(1)
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}

// Wait blocks until a key is pressed in the window.
func (w *Window) Wait() {
	w.win.WaitKey(0)
}
