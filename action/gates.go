package action

import (
	"sync"
)

// Gate names shared by the executor and the mission sequencer.
const (
	GateFiring     = "firing"
	GateWeaponLoop = "weapon-loop"
	GateMission    = "mission"
)

// Gates is a set of named non-blocking locks. Acquisition never waits: it
// either succeeds at once or reports the action as already in progress.
type Gates struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewGates returns an empty gate set.
func NewGates() *Gates {
	return &Gates{held: make(map[string]bool)}
}

// TryAcquire takes the named gate. The returned release func is safe to call
// more than once; only the first call frees the gate.
func (g *Gates) TryAcquire(name string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held[name] {
		return nil, false
	}
	g.held[name] = true
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, name)
			g.mu.Unlock()
		})
	}, true
}

// Held reports whether the named gate is currently taken.
func (g *Gates) Held(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held[name]
}

// TryRun runs body on the calling goroutine if the gate is free.
func (g *Gates) TryRun(name string, body func()) bool {
	release, ok := g.TryAcquire(name)
	if !ok {
		return false
	}
	defer release()
	body()
	return true
}

// TryGo runs body on a new goroutine if the gate is free. The gate is
// released when body returns or panics.
func (g *Gates) TryGo(name string, body func()) bool {
	release, ok := g.TryAcquire(name)
	if !ok {
		return false
	}
	go func() {
		defer release()
		body()
	}()
	return true
}
