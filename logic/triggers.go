package logic

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// TriggerEnv is what a trigger condition can see about the current tick.
type TriggerEnv struct {
	Detections int
	HasTarget  bool
	Fire       bool
	TargetX    int
	TargetY    int
	Distance   float64
	IdleTicks  int
	Tick       int
	WeaponLoop bool
}

// TriggerSpec declares a trigger before compilation.
type TriggerSpec struct {
	Name     string
	When     string
	Mission  string
	Cooldown time.Duration
}

type trigger struct {
	TriggerSpec
	program *vm.Program
	last    time.Time
}

// Triggers maps tick conditions to missions. The first trigger, in declared
// order, whose condition holds and whose cooldown has elapsed wins.
type Triggers struct {
	mu   sync.Mutex
	list []*trigger
	log  *slog.Logger
}

// CompileTriggers compiles every condition up front; any compile error fails
// the whole set.
func CompileTriggers(specs []TriggerSpec, logger *slog.Logger) (*Triggers, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Triggers{log: logger.With("component", "triggers")}
	for i, s := range specs {
		prog, err := expr.Compile(s.When, expr.Env(TriggerEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile trigger %d %q: %w", i, s.Name, err)
		}
		t.list = append(t.list, &trigger{TriggerSpec: s, program: prog})
	}
	return t, nil
}

// Len is the number of compiled triggers.
func (t *Triggers) Len() int { return len(t.list) }

// Match returns the mission of the first trigger that fires for env.
func (t *Triggers) Match(env TriggerEnv, now time.Time) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tr := range t.list {
		if !tr.last.IsZero() && now.Sub(tr.last) < tr.Cooldown {
			continue
		}
		out, err := vm.Run(tr.program, env)
		if err != nil {
			t.log.Warn("trigger condition error", "trigger", tr.Name, "error", err)
			continue
		}
		if ok, _ := out.(bool); !ok {
			continue
		}
		tr.last = now
		t.log.Debug("trigger fired", "trigger", tr.Name, "mission", tr.Mission)
		return tr.Mission, true
	}
	return "", false
}
