// Package inputtest provides an in-memory input.Injector for tests.
package inputtest

import (
	"sync"
	"time"
)

// Call is one recorded injector call.
type Call struct {
	Op     string // press, release, click, move_to, move_by
	Key    string
	X, Y   int
	At     time.Time
	Failed bool
}

// Recorder records every call it receives. Errors can be injected per op.
type Recorder struct {
	mu      sync.Mutex
	calls   []Call
	held    map[string]int
	maxHeld map[string]int
	fail    map[string]error
	posX    int
	posY    int
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{
		held:    make(map[string]int),
		maxHeld: make(map[string]int),
		fail:    make(map[string]error),
	}
}

// FailOn makes every subsequent call of op return err. A nil err clears it.
func (r *Recorder) FailOn(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, op)
		return
	}
	r.fail[op] = err
}

// SetPosition sets the pointer position reported by Position.
func (r *Recorder) SetPosition(x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posX, r.posY = x, y
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.At = time.Now()
	err := r.fail[c.Op]
	c.Failed = err != nil
	r.calls = append(r.calls, c)
	if err != nil {
		return err
	}
	switch c.Op {
	case "press":
		r.held[c.Key]++
		if r.held[c.Key] > r.maxHeld[c.Key] {
			r.maxHeld[c.Key] = r.held[c.Key]
		}
	case "release":
		if r.held[c.Key] > 0 {
			r.held[c.Key]--
		}
	case "move_to":
		r.posX, r.posY = c.X, c.Y
	case "move_by":
		r.posX += c.X
		r.posY += c.Y
	}
	return nil
}

func (r *Recorder) Press(key string) error   { return r.record(Call{Op: "press", Key: key}) }
func (r *Recorder) Release(key string) error { return r.record(Call{Op: "release", Key: key}) }
func (r *Recorder) Click(button string) error {
	return r.record(Call{Op: "click", Key: button})
}
func (r *Recorder) MoveTo(x, y int) error   { return r.record(Call{Op: "move_to", X: x, Y: y}) }
func (r *Recorder) MoveBy(dx, dy int) error { return r.record(Call{Op: "move_by", X: dx, Y: dy}) }

// Calls returns a copy of all recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Count returns how many calls of op were made for key. An empty key matches any.
func (r *Recorder) Count(op, key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Op == op && (key == "" || c.Key == key) {
			n++
		}
	}
	return n
}

// Last returns the most recent call of op for key.
func (r *Recorder) Last(op, key string) (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.calls) - 1; i >= 0; i-- {
		c := r.calls[i]
		if c.Op == op && (key == "" || c.Key == key) {
			return c, true
		}
	}
	return Call{}, false
}

// Held reports whether key is currently pressed.
func (r *Recorder) Held(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.held[key] > 0
}

// MaxHeld returns the largest number of overlapping presses seen for key.
func (r *Recorder) MaxHeld(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxHeld[key]
}

// Position implements input.Locator. The position follows MoveTo and MoveBy.
func (r *Recorder) Position() (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.posX, r.posY, nil
}

// Reset forgets recorded calls but keeps failure settings.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.held = make(map[string]int)
	r.maxHeld = make(map[string]int)
}
