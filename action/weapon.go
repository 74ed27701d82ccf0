package action

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// weaponLoop is the state of the repeating active-weapon task. active is the
// only thing the task reads; mu guards the task handle.
type weaponLoop struct {
	active  atomic.Bool
	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// StartWeaponLoop starts the repeating fire task. It is a no-op returning
// false when the loop is already active.
func (e *Executor) StartWeaponLoop() bool {
	w := &e.weapon
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.active.Load() {
		e.log.Debug("action: weapon loop already active")
		return false
	}
	w.active.Store(true)
	if w.running {
		// The previous task has not exited yet; it sees active again and carries on.
		e.log.Info("action: weapon loop resumed")
		return true
	}

	release, ok := e.gates.TryAcquire(GateWeaponLoop)
	if !ok {
		w.active.Store(false)
		e.log.Warn("action: weapon loop gate busy")
		return false
	}
	w.running = true
	done := make(chan struct{})
	w.done = done

	go func() {
		defer close(done)
		defer release()
		for {
			e.weaponLoopBody()
			w.mu.Lock()
			if w.active.Load() {
				w.mu.Unlock()
				continue
			}
			w.running = false
			release()
			w.mu.Unlock()
			return
		}
	}()
	e.log.Info("action: weapon loop started", "interval", e.opts.WeaponLoopInterval)
	return true
}

// StopWeaponLoop clears the active flag and waits, bounded, for the task to
// exit. Stopping an inactive loop is a no-op.
func (e *Executor) StopWeaponLoop() {
	w := &e.weapon
	w.mu.Lock()
	wasActive := w.active.Swap(false)
	done := w.done
	w.mu.Unlock()
	if !wasActive || done == nil {
		return
	}

	wait := e.opts.WeaponLoopHold + 2*e.opts.PollInterval + 250*time.Millisecond
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-done:
		e.log.Info("action: weapon loop stopped")
	case <-t.C:
		e.log.Warn("action: weapon loop did not stop in time", "waited", wait)
	}
}

// ToggleWeaponLoop flips the weapon loop and returns whether it is now active.
func (e *Executor) ToggleWeaponLoop() bool {
	if e.weapon.active.Load() {
		e.StopWeaponLoop()
		return false
	}
	e.StartWeaponLoop()
	return e.weapon.active.Load()
}

// WeaponLoopActive reports whether the weapon loop is on.
func (e *Executor) WeaponLoopActive() bool {
	return e.weapon.active.Load()
}

func (e *Executor) weaponLoopBody() {
	key, err := e.keys.Key(ActiveWeapon)
	if err != nil {
		e.log.Warn("action: weapon loop has no key", "error", err)
		e.weapon.active.Store(false)
		return
	}
	for e.weapon.active.Load() {
		if e.opts.WeaponLoopHold > 0 {
			e.Hold(context.Background(), key, e.opts.WeaponLoopHold)
		} else {
			e.Tap(key)
		}
		e.waitActive(e.opts.WeaponLoopInterval)
	}
}

// waitActive sleeps up to d, returning early once the weapon loop is stopped.
func (e *Executor) waitActive(d time.Duration) {
	deadline := time.Now().Add(d)
	for e.weapon.active.Load() {
		left := time.Until(deadline)
		if left <= 0 {
			return
		}
		time.Sleep(min(left, e.opts.PollInterval))
	}
}
