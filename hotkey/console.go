package hotkey

import (
	"context"
	"fmt"

	"github.com/eiannone/keyboard"
)

// Console reads keys from the terminal in raw mode. It is the fallback when
// a global hook is not available. Raw mode swallows Ctrl+C, so Interrupt is
// called for it instead.
type Console struct {
	d         *Dispatcher
	Interrupt func()
}

func NewConsole(d *Dispatcher, interrupt func()) *Console {
	return &Console{d: d, Interrupt: interrupt}
}

func (c *Console) Run(ctx context.Context) error {
	events, err := keyboard.GetKeys(10)
	if err != nil {
		return fmt.Errorf("open console keyboard: %w", err)
	}
	defer keyboard.Close()
	c.d.log.Info("hotkey: console listener started", "keys", c.d.Describe())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Err != nil {
				return fmt.Errorf("read console key: %w", ev.Err)
			}
			switch {
			case ev.Key == keyboard.KeyCtrlC:
				if c.Interrupt != nil {
					c.Interrupt()
				}
			case ev.Key == keyboard.KeySpace:
				c.d.Press("space")
			case ev.Rune != 0:
				c.d.Press(string(ev.Rune))
			}
		}
	}
}
