// Package robot injects input through robotgo. It needs cgo and the desktop
// automation headers, so only the command wiring imports it.
package robot

import (
	"fmt"
	"strings"

	"github.com/go-vgo/robotgo"

	"wingman/input"
)

// Backend injects input through the OS-level desktop automation layer.
type Backend struct{}

var (
	_ input.Injector = Backend{}
	_ input.Locator  = Backend{}
)

func (Backend) Press(key string) error {
	if input.IsButton(key) {
		if err := robotgo.Toggle(strings.ToLower(key)); err != nil {
			return fmt.Errorf("robot: mouse down %s: %w", key, err)
		}
		return nil
	}
	if err := robotgo.KeyToggle(key, "down"); err != nil {
		return fmt.Errorf("robot: key down %s: %w", key, err)
	}
	return nil
}

func (Backend) Release(key string) error {
	if input.IsButton(key) {
		if err := robotgo.Toggle(strings.ToLower(key), "up"); err != nil {
			return fmt.Errorf("robot: mouse up %s: %w", key, err)
		}
		return nil
	}
	if err := robotgo.KeyToggle(key, "up"); err != nil {
		return fmt.Errorf("robot: key up %s: %w", key, err)
	}
	return nil
}

func (Backend) Click(button string) error {
	if !input.IsButton(button) {
		return fmt.Errorf("robot: click: %q is not a mouse button", button)
	}
	robotgo.Click(strings.ToLower(button))
	return nil
}

func (Backend) MoveTo(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (Backend) MoveBy(dx, dy int) error {
	robotgo.MoveRelative(dx, dy)
	return nil
}

func (Backend) Position() (int, int, error) {
	x, y := robotgo.Location()
	return x, y, nil
}
