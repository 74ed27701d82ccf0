package mission

import (
	"context"
	"fmt"
	"time"

	"wingman/action"
)

// Kind selects what a Step does.
type Kind string

const (
	KindHold       Kind = "hold"
	KindMove       Kind = "move"
	KindPause      Kind = "pause"
	KindFire       Kind = "fire"
	KindWeaponLoop Kind = "weapon_loop"
)

// Step is one executor call of a mission script.
type Step struct {
	Kind     Kind
	Maneuver action.Maneuver
	Hold     time.Duration
	Blocking bool
	VX, VY   float64
	Duration time.Duration
	Enable   bool
}

// Script is a fixed ordered list of steps.
type Script []Step

// Hold holds the key bound to m for d and waits for the release.
func Hold(m action.Maneuver, d time.Duration) Step {
	return Step{Kind: KindHold, Maneuver: m, Hold: d, Blocking: true}
}

// Detached holds the key bound to m for d without waiting for it.
func Detached(m action.Maneuver, d time.Duration) Step {
	return Step{Kind: KindHold, Maneuver: m, Hold: d}
}

// Move drifts the pointer at (vx, vy) units per second for d, detached.
func Move(vx, vy float64, d time.Duration) Step {
	return Step{Kind: KindMove, VX: vx, VY: vy, Duration: d}
}

// Pause waits d.
func Pause(d time.Duration) Step {
	return Step{Kind: KindPause, Duration: d}
}

// Fire fires the primary weapon for d.
func Fire(d time.Duration) Step {
	return Step{Kind: KindFire, Hold: d}
}

// WeaponLoop starts or stops the repeating active-weapon loop.
func WeaponLoop(on bool) Step {
	return Step{Kind: KindWeaponLoop, Enable: on}
}

// Validate checks every step against the bindings it will run with.
func (s Script) Validate(keys action.Bindings) error {
	if len(s) == 0 {
		return fmt.Errorf("script has no steps")
	}
	for i, st := range s {
		switch st.Kind {
		case KindHold:
			if _, err := keys.Key(st.Maneuver); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			if st.Hold < 0 {
				return fmt.Errorf("step %d: negative hold", i)
			}
		case KindMove, KindPause:
			if st.Duration <= 0 {
				return fmt.Errorf("step %d: %s needs a positive duration", i, st.Kind)
			}
		case KindFire, KindWeaponLoop:
		default:
			return fmt.Errorf("step %d: unknown kind %q", i, st.Kind)
		}
	}
	return nil
}

func (st Step) run(ctx context.Context, e *action.Executor) error {
	switch st.Kind {
	case KindHold:
		if !e.Maneuver(ctx, st.Maneuver, st.Hold, st.Blocking) {
			return fmt.Errorf("maneuver %q not performed", st.Maneuver)
		}
	case KindMove:
		e.ContinuousMove(ctx, st.VX, st.VY, st.Duration)
	case KindPause:
		t := time.NewTimer(st.Duration)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	case KindFire:
		e.Fire(ctx, st.Hold)
	case KindWeaponLoop:
		if st.Enable {
			e.StartWeaponLoop()
		} else {
			e.StopWeaponLoop()
		}
	default:
		return fmt.Errorf("unknown step kind %q", st.Kind)
	}
	return nil
}

// Builtins returns the stock missions.
func Builtins() map[string]Script {
	return map[string]Script{
		"loiter": {
			Detached(action.Afterburner, 3*time.Second),
			Hold(action.NoseUp, 1200*time.Millisecond),
			Hold(action.RollLeft, 600*time.Millisecond),
			Pause(300 * time.Millisecond),
			Hold(action.NoseUp, 800*time.Millisecond),
			Hold(action.RollRight, 600*time.Millisecond),
		},
		"evade": {
			Hold(action.Flares, 100*time.Millisecond),
			Hold(action.RollRight, 800*time.Millisecond),
			Hold(action.NoseDown, 600*time.Millisecond),
			Detached(action.Afterburner, 2*time.Second),
			Hold(action.Flares, 100*time.Millisecond),
			Hold(action.RollLeft, 500*time.Millisecond),
		},
		"climb": {
			Detached(action.Afterburner, 4*time.Second),
			Move(0, -300, 2*time.Second),
			Hold(action.NoseUp, 2*time.Second),
		},
		"break-left": {
			Hold(action.Airbrake, 400*time.Millisecond),
			Hold(action.RollLeft, 700*time.Millisecond),
			Hold(action.NoseUp, time.Second),
		},
		"break-right": {
			Hold(action.Airbrake, 400*time.Millisecond),
			Hold(action.RollRight, 700*time.Millisecond),
			Hold(action.NoseUp, time.Second),
		},
	}
}
