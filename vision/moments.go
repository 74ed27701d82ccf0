package vision

import "image"

// moments holds the raw spatial moments of a closed polygon.
type moments struct {
	M00, M10, M01 float64
}

// contourMoments computes the zeroth and first moments of the polygon
// outlined by pts using Green's theorem, the same way OpenCV treats a
// contour. The sign of every moment follows the winding direction, so
// centroids (M10/M00, M01/M00) do not depend on it.
func contourMoments(pts []image.Point) moments {
	var m moments
	n := len(pts)
	if n < 3 {
		return m
	}
	for i := 0; i < n; i++ {
		p := pts[i]
		q := pts[(i+1)%n]
		cross := float64(p.X*q.Y - q.X*p.Y)
		m.M00 += cross
		m.M10 += float64(p.X+q.X) * cross
		m.M01 += float64(p.Y+q.Y) * cross
	}
	m.M00 /= 2
	m.M10 /= 6
	m.M01 /= 6
	return m
}

// centroid returns the polygon centroid truncated to integer pixels. ok is
// false for degenerate polygons with no area.
func (m moments) centroid() (x, y int, ok bool) {
	if m.M00 == 0 {
		return 0, 0, false
	}
	return int(m.M10 / m.M00), int(m.M01 / m.M00), true
}
