package action

import (
	"context"
	"math"
	"time"
)

// ContinuousMove nudges the pointer by (vx, vy) units per second for d,
// one step every MoveInterval. It runs detached; the first injection failure
// ends it and is only logged. ctx cancellation also ends it.
func (e *Executor) ContinuousMove(ctx context.Context, vx, vy float64, d time.Duration) {
	interval := e.opts.MoveInterval
	dx := int(vx * interval.Seconds())
	dy := int(vy * interval.Seconds())

	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.log.Error("action: continuous move panicked", "panic", r)
			}
		}()
		e.log.Info("action: starting continuous move", "vx", vx, "vy", vy, "duration", d)
		end := time.Now().Add(d)
		t := time.NewTicker(interval)
		defer t.Stop()
		for time.Now().Before(end) {
			if err := e.in.MoveBy(dx, dy); err != nil {
				e.log.Error("action: continuous move failed", "error", err)
				return
			}
			select {
			case <-ctx.Done():
				e.log.Info("action: continuous move cancelled")
				return
			case <-t.C:
			}
		}
		e.log.Info("action: finished continuous move")
	}()
}

// ContinuousMoveUp moves the pointer upward at speed units per second.
func (e *Executor) ContinuousMoveUp(ctx context.Context, speed float64, d time.Duration) {
	e.ContinuousMove(ctx, 0, -math.Abs(speed), d)
}
