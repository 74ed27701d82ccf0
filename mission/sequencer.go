// Package mission runs named, cancellable, mutually exclusive scripts of
// executor calls.
package mission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"wingman/action"
)

// ErrUnknownMission is returned by Begin for names with no script.
var ErrUnknownMission = errors.New("unknown mission")

// Outcome is how a Begin call ended.
type Outcome int

const (
	OutcomeSkipped Outcome = iota // another mission was running
	OutcomeCompleted
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// State is the sequencer state.
type State int

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

type run struct {
	id         string
	name       string
	ctx        context.Context
	cancel     context.CancelFunc
	detach     func() bool
	completion *action.Signal
	cancelled  atomic.Bool
	outcome    Outcome
}

// Sequencer runs at most one mission at a time.
type Sequencer struct {
	exec    *action.Executor
	scripts map[string]Script
	log     *slog.Logger

	mu       sync.Mutex
	current  *run
	// trailing is the last run that completed normally. Its detached steps
	// may still be running and are cut short by Cancel.
	trailing *run
	last     Outcome
}

// New returns a Sequencer over scripts. It shares the executor's gates.
func New(exec *action.Executor, scripts map[string]Script, logger *slog.Logger) *Sequencer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sequencer{
		exec:    exec,
		scripts: scripts,
		log:     logger.With("component", "mission"),
	}
}

// Names lists the known missions in alphabetical order.
func (s *Sequencer) Names() []string {
	names := make([]string, 0, len(s.scripts))
	for n := range s.scripts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Begin runs the named mission and blocks until it completes, is cancelled
// or ctx is done. If a mission is already running the call returns
// OutcomeSkipped at once; starts are dropped, never queued.
func (s *Sequencer) Begin(ctx context.Context, name string) (Outcome, error) {
	script, ok := s.scripts[name]
	if !ok {
		return OutcomeSkipped, fmt.Errorf("%w: %q", ErrUnknownMission, name)
	}

	// The gate and current change together so Cancel always sees the run
	// that holds the gate.
	s.mu.Lock()
	release, ok := s.exec.Gates().TryAcquire(action.GateMission)
	if !ok {
		s.mu.Unlock()
		s.log.Info("mission: already running, dropping start", "mission", name)
		return OutcomeSkipped, nil
	}
	// The run context survives a normal completion. It ends on Cancel or
	// when the caller's ctx is done.
	mctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r := &run{
		id:         uuid.NewString(),
		name:       name,
		ctx:        mctx,
		cancel:     cancel,
		detach:     context.AfterFunc(ctx, cancel),
		completion: action.NewSignal(),
	}
	s.current = r
	s.mu.Unlock()

	s.log.Info("mission: started", "mission", name, "run", r.id, "steps", len(script))
	go s.execute(r, script, release)

	select {
	case <-r.completion.Done():
	case <-ctx.Done():
	}
	if r.cancelled.Load() || ctx.Err() != nil {
		return OutcomeCancelled, nil
	}
	return r.outcome, nil
}

func (s *Sequencer) execute(r *run, script Script, release func()) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			s.log.Error("mission: task panicked", "mission", r.name, "run", r.id, "panic", p)
		}
		outcome := OutcomeCompleted
		if r.ctx.Err() != nil {
			outcome = OutcomeCancelled
		}
		r.outcome = outcome
		r.detach()

		s.mu.Lock()
		s.last = outcome
		if s.current == r {
			s.current = nil
		}
		if outcome == OutcomeCompleted {
			s.trailing = r
		} else {
			r.cancel()
		}
		release()
		s.mu.Unlock()

		r.completion.Set()
		s.log.Info("mission: finished", "mission", r.name, "run", r.id, "outcome", outcome, "elapsed", time.Since(start))
	}()

	for i, st := range script {
		if r.ctx.Err() != nil {
			s.log.Info("mission: cancelled, skipping remaining steps", "mission", r.name, "run", r.id, "remaining", len(script)-i)
			return
		}
		s.step(r, i, st)
	}
}

func (s *Sequencer) step(r *run, i int, st Step) {
	defer func() {
		if p := recover(); p != nil {
			s.log.Error("mission: step panicked", "mission", r.name, "run", r.id, "step", i, "kind", st.Kind, "panic", p)
		}
	}()
	s.log.Debug("mission: step", "mission", r.name, "run", r.id, "step", i, "kind", st.Kind, "maneuver", st.Maneuver)
	if err := st.run(r.ctx, s.exec); err != nil {
		s.log.Warn("mission: step failed", "mission", r.name, "run", r.id, "step", i, "error", err)
	}
}

// Cancel aborts the running mission: held keys are released within one
// poll interval, the waiting caller is woken at once and the weapon loop is
// stopped. Detached steps left over from the last completed mission are cut
// short too. It is safe to call when nothing is running.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	r, t := s.current, s.trailing
	s.trailing = nil
	s.mu.Unlock()

	if t != nil {
		t.cancel()
	}

	if r != nil {
		r.cancelled.Store(true)
		r.cancel()
		r.completion.Set()
		s.log.Info("mission: cancel requested", "mission", r.name, "run", r.id)
	} else {
		s.log.Debug("mission: cancel with nothing running")
	}
	s.exec.StopWeaponLoop()
}

// State reports whether a mission task is running.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return StateRunning
	}
	return StateIdle
}

// Last returns the outcome of the most recently finished mission.
func (s *Sequencer) Last() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
