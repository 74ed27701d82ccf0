// Package hotkey maps single key presses to operator commands.
package hotkey

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Binding runs Action when Key is pressed.
type Binding struct {
	Key    string
	Name   string
	Action func()
}

// Listener delivers key presses until ctx is done.
type Listener interface {
	Run(ctx context.Context) error
}

// Dispatcher routes a pressed key to its binding.
type Dispatcher struct {
	bindings map[string]Binding
	order    []string
	log      *slog.Logger
}

// NewDispatcher indexes bindings by lower-cased key. Empty or duplicate keys
// are rejected.
func NewDispatcher(bindings []Binding, logger *slog.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		bindings: make(map[string]Binding, len(bindings)),
		log:      logger.With("component", "hotkey"),
	}
	for _, b := range bindings {
		k := strings.ToLower(b.Key)
		if k == "" {
			return nil, fmt.Errorf("hotkey %q has no key", b.Name)
		}
		if prev, dup := d.bindings[k]; dup {
			return nil, fmt.Errorf("key %q bound to both %q and %q", k, prev.Name, b.Name)
		}
		d.bindings[k] = b
		d.order = append(d.order, k)
	}
	return d, nil
}

// Keys lists the bound keys in declaration order.
func (d *Dispatcher) Keys() []string { return d.order }

// Press runs the action bound to key and reports whether there was one. A
// panicking action is logged and swallowed.
func (d *Dispatcher) Press(key string) bool {
	b, ok := d.bindings[strings.ToLower(key)]
	if !ok {
		return false
	}
	defer func() {
		if p := recover(); p != nil {
			d.log.Error("hotkey: action panicked", "hotkey", b.Name, "panic", p)
		}
	}()
	d.log.Debug("hotkey: pressed", "key", b.Key, "hotkey", b.Name)
	if b.Action != nil {
		b.Action()
	}
	return true
}

// Describe returns a "key=name" summary for logs.
func (d *Dispatcher) Describe() string {
	parts := make([]string, 0, len(d.order))
	for _, k := range d.order {
		parts = append(parts, k+"="+d.bindings[k].Name)
	}
	return strings.Join(parts, " ")
}
