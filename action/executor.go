// Package action turns decisions into timed key and pointer actuations.
//
// Every call absorbs injection failures: errors are logged and a pressed key
// is always released, so nothing here can crash or stall the control loop.
package action

import (
	"context"
	"image"
	"log/slog"
	"time"

	"wingman/input"
)

const (
	defaultPollInterval = 50 * time.Millisecond
	defaultMoveInterval = 20 * time.Millisecond
)

// Request is a single actuation: hold Key for Hold, on the caller's
// goroutine when Blocking, detached otherwise.
type Request struct {
	Key      string
	Hold     time.Duration
	Blocking bool
}

// Options tunes an Executor. Zero values fall back to defaults.
type Options struct {
	// Origin is the screen position of the frame's top-left pixel.
	Origin image.Point
	// FireKey overrides the machine gun binding for Fire.
	FireKey string
	// PollInterval bounds how long a held action takes to notice cancellation.
	PollInterval time.Duration
	// MoveInterval is the step period of ContinuousMove.
	MoveInterval time.Duration
	// WeaponLoopInterval is the pause between weapon loop shots.
	WeaponLoopInterval time.Duration
	// WeaponLoopHold is how long each weapon loop shot holds the key.
	WeaponLoopHold time.Duration
	Logger         *slog.Logger
}

// Executor sequences and times calls to an input.Injector.
type Executor struct {
	in     input.Injector
	keys   Bindings
	gates  *Gates
	opts   Options
	log    *slog.Logger
	weapon weaponLoop
}

// New builds an Executor. gates may be shared with a mission sequencer; nil
// creates a private set.
func New(in input.Injector, keys Bindings, gates *Gates, opts Options) *Executor {
	if in == nil {
		in = input.Nop{Logger: opts.Logger}
	}
	if gates == nil {
		gates = NewGates()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.MoveInterval <= 0 {
		opts.MoveInterval = defaultMoveInterval
	}
	if opts.WeaponLoopInterval <= 0 {
		opts.WeaponLoopInterval = 1100 * time.Millisecond
	}
	if opts.FireKey == "" {
		opts.FireKey = keys.MachineGun
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		in:    in,
		keys:  keys,
		gates: gates,
		opts:  opts,
		log:   log.With("component", "action"),
	}
}

// Gates returns the exclusive gates used by this executor.
func (e *Executor) Gates() *Gates { return e.gates }

// Bindings returns the key bindings the executor was built with.
func (e *Executor) Bindings() Bindings { return e.keys }

// Hold presses key, keeps it down for d or until ctx is done, then releases
// it. The release runs on every exit path, including a failed press.
func (e *Executor) Hold(ctx context.Context, key string, d time.Duration) {
	if ctx.Err() != nil {
		e.log.Debug("action: hold skipped, cancelled", "key", key)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("action: hold panicked", "key", key, "panic", r)
		}
		e.release(key)
	}()

	if err := e.in.Press(key); err != nil {
		e.log.Warn("action: press failed", "key", key, "error", err)
		return
	}
	e.log.Debug("action: holding", "key", key, "hold", d)
	if !e.sleep(ctx, d) {
		e.log.Debug("action: hold cut short", "key", key)
	}
}

// release lets key go. A panicking backend is logged and swallowed.
func (e *Executor) release(key string) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("action: release panicked", "key", key, "panic", r)
		}
	}()
	if err := e.in.Release(key); err != nil {
		e.log.Warn("action: release failed", "key", key, "error", err)
	}
}

// Tap presses and releases key at once. Mouse buttons are clicked.
func (e *Executor) Tap(key string) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("action: tap panicked", "key", key, "panic", r)
		}
	}()
	if input.IsButton(key) {
		if err := e.in.Click(key); err != nil {
			e.log.Warn("action: click failed", "button", key, "error", err)
		}
		return
	}
	if err := e.in.Press(key); err != nil {
		e.log.Warn("action: press failed", "key", key, "error", err)
	}
	if err := e.in.Release(key); err != nil {
		e.log.Warn("action: release failed", "key", key, "error", err)
	}
}

// Do executes r. Detached requests are fire-and-forget.
func (e *Executor) Do(ctx context.Context, r Request) {
	if r.Blocking {
		e.Hold(ctx, r.Key, r.Hold)
		return
	}
	go e.Hold(ctx, r.Key, r.Hold)
}

// Maneuver holds the key bound to m. It returns false when m has no binding.
func (e *Executor) Maneuver(ctx context.Context, m Maneuver, hold time.Duration, blocking bool) bool {
	key, err := e.keys.Key(m)
	if err != nil {
		e.log.Warn("action: maneuver skipped", "maneuver", m, "error", err)
		return false
	}
	e.log.Debug("action: maneuver", "maneuver", m, "key", key, "hold", hold, "blocking", blocking)
	e.Do(ctx, Request{Key: key, Hold: hold, Blocking: blocking})
	return true
}

// Fire triggers the fire binding. A positive hold runs detached behind the
// firing gate; a request made while a previous hold is still running is
// dropped and Fire returns false. A zero hold is an instant click.
func (e *Executor) Fire(ctx context.Context, hold time.Duration) bool {
	key := e.opts.FireKey
	if hold <= 0 {
		e.Tap(key)
		return true
	}
	started := e.gates.TryGo(GateFiring, func() {
		e.Hold(ctx, key, hold)
	})
	if !started {
		e.log.Debug("action: already firing, skipping overlapping fire")
	}
	return started
}

// Aim moves the pointer toward target, given in frame coordinates. With a
// backend that reports the pointer position the move covers smoothing of the
// remaining distance; otherwise it jumps to the target.
func (e *Executor) Aim(target image.Point, smoothing float64) {
	abs := e.opts.Origin.Add(target)
	if smoothing <= 0 || smoothing > 1 {
		smoothing = 1
	}
	next := abs
	if loc, ok := e.in.(input.Locator); ok && smoothing < 1 {
		cx, cy, err := loc.Position()
		if err != nil {
			e.log.Debug("action: pointer position unavailable", "error", err)
		} else {
			next = image.Pt(
				cx+int(float64(abs.X-cx)*smoothing),
				cy+int(float64(abs.Y-cy)*smoothing),
			)
		}
	}
	e.log.Debug("action: aim", "target", abs, "to", next)
	if err := e.in.MoveTo(next.X, next.Y); err != nil {
		e.log.Warn("action: move failed", "x", next.X, "y", next.Y, "error", err)
	}
}

// sleep waits d in PollInterval slices and reports false if ctx ended first.
func (e *Executor) sleep(ctx context.Context, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		left := time.Until(deadline)
		if left <= 0 {
			return true
		}
		step := min(left, e.opts.PollInterval)
		t := time.NewTimer(step)
		select {
		case <-ctx.Done():
			t.Stop()
			return false
		case <-t.C:
		}
	}
}
