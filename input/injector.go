// Package input defines the input-injection capability the bot drives and the
// backends that implement it.
package input

import (
	"errors"
	"strings"
)

// ErrUnavailable is returned by backends that cannot inject input on this platform.
var ErrUnavailable = errors.New("input backend unavailable")

// Mouse button names accepted wherever a key is expected.
const (
	ButtonLeft   = "left"
	ButtonRight  = "right"
	ButtonMiddle = "middle"
)

// Injector presses keys and drives the pointer. Any call may fail.
type Injector interface {
	Press(key string) error
	Release(key string) error
	Click(button string) error
	MoveTo(x, y int) error
	MoveBy(dx, dy int) error
}

// Locator is implemented by backends that can report the pointer position.
type Locator interface {
	Position() (x, y int, err error)
}

// IsButton reports whether key names a mouse button rather than a keyboard key.
func IsButton(key string) bool {
	switch strings.ToLower(key) {
	case ButtonLeft, ButtonRight, ButtonMiddle:
		return true
	}
	return false
}
