package hotkey

import (
	"context"

	hook "github.com/robotn/gohook"
)

// Global listens for system-wide key presses, so the game window can keep
// focus.
type Global struct {
	d *Dispatcher
}

func NewGlobal(d *Dispatcher) *Global {
	return &Global{d: d}
}

func (g *Global) Run(ctx context.Context) error {
	for _, k := range g.d.Keys() {
		key := k
		hook.Register(hook.KeyDown, []string{key}, func(hook.Event) {
			g.d.Press(key)
		})
	}
	g.d.log.Info("hotkey: global hook started", "keys", g.d.Describe())

	s := hook.Start()
	done := hook.Process(s)
	select {
	case <-ctx.Done():
		hook.End()
		return ctx.Err()
	case <-done:
		return nil
	}
}
