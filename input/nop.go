package input

import "log/slog"

// Nop is the null backend: every call is logged and succeeds.
// It is selected when no real backend can be opened so the rest of the
// system keeps running on detection and selection alone.
type Nop struct {
	Logger *slog.Logger
}

func (n Nop) log() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

func (n Nop) Press(key string) error {
	n.log().Debug("input: press (no backend)", "key", key)
	return nil
}

func (n Nop) Release(key string) error {
	n.log().Debug("input: release (no backend)", "key", key)
	return nil
}

func (n Nop) Click(button string) error {
	n.log().Debug("input: click (no backend)", "button", button)
	return nil
}

func (n Nop) MoveTo(x, y int) error {
	n.log().Debug("input: move to (no backend)", "x", x, "y", y)
	return nil
}

func (n Nop) MoveBy(dx, dy int) error {
	n.log().Debug("input: move by (no backend)", "dx", dx, "dy", dy)
	return nil
}
