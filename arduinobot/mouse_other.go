//go:build !windows

package arduinobot

import "wingman/input"

func getMousePosition() (x, y int, err error) {
	return 0, 0, input.ErrUnavailable
}
