// Package logic runs the capture → detect → decide → act loop.
package logic

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"wingman/action"
	"wingman/capture"
	"wingman/mission"
	"wingman/targeting"
	"wingman/vision"
)

// Detector finds objects in a frame.
type Detector interface {
	Find(frame image.Image) ([]vision.Detection, error)
}

// Parts are the collaborators a Bot drives. Triggers may be nil.
type Parts struct {
	Source    capture.Source
	Detector  Detector
	Selector  *targeting.Selector
	Executor  *action.Executor
	Sequencer *mission.Sequencer
	Triggers  *Triggers
}

// Config tunes the loop.
type Config struct {
	TickInterval      time.Duration
	MaxErrors         int
	ErrorBackoff      time.Duration
	FireHold          time.Duration
	FireWithoutTarget bool
}

// Bot is the control loop. It starts paused.
type Bot struct {
	Parts
	cfg     Config
	running *action.Signal
	log     *slog.Logger

	// Owned by the loop goroutine.
	errorCounter int
	idleTicks    int
	ticks        int
}

// New builds a paused Bot.
func New(parts Parts, cfg Config, logger *slog.Logger) *Bot {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 50 * time.Millisecond
	}
	if cfg.MaxErrors < 1 {
		cfg.MaxErrors = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		Parts:   parts,
		cfg:     cfg,
		running: action.NewSignal(),
		log:     logger.With("component", "bot"),
	}
}

// ToggleRunning flips between running and paused and returns the new state.
// Safe from any goroutine.
func (b *Bot) ToggleRunning() bool {
	on := b.running.Toggle()
	if on {
		b.log.Info("bot: running")
	} else {
		b.log.Info("bot: paused")
	}
	return on
}

// SetRunning forces the running state.
func (b *Bot) SetRunning(on bool) {
	if on {
		b.running.Set()
	} else {
		b.running.Clear()
	}
}

// Running reports whether the loop is ticking.
func (b *Bot) Running() bool { return b.running.IsSet() }

// Run ticks until ctx is done, blocking while paused. It returns ctx.Err().
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info("bot: started, waiting for toggle", "tick_interval", b.cfg.TickInterval)
	for {
		if err := b.running.Wait(ctx); err != nil {
			return err
		}
		_ = b.Tick(ctx)
		if !sleep(ctx, b.cfg.TickInterval) {
			return ctx.Err()
		}
	}
}

// Tick runs one iteration. Panics are recovered and returned as errors so a
// bad frame never kills the loop.
func (b *Bot) Tick(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("tick panicked: %v", p)
			b.log.Error("bot: tick panicked", "panic", p)
		}
	}()
	b.ticks++

	frame, err := b.Source.Capture()
	if err != nil {
		b.captureFailed(ctx, err)
		return err
	}
	b.errorCounter = 0

	dets, err := b.Detector.Find(frame)
	if err != nil {
		b.log.Warn("bot: detection failed, skipping tick", "error", err)
		return err
	}

	now := time.Now()
	dec := b.Selector.Decide(dets, now)
	if dec.HasTarget {
		b.idleTicks = 0
		b.log.Debug("bot: target", "x", dec.Target.X, "y", dec.Target.Y, "distance", dec.Distance)
		b.Executor.Aim(dec.Target, dec.Smoothing)
	} else {
		b.idleTicks++
	}
	if dec.Fire && (dec.HasTarget || b.cfg.FireWithoutTarget) {
		b.log.Debug("bot: firing")
		b.Executor.Fire(ctx, b.cfg.FireHold)
	}

	if b.Triggers == nil || b.Sequencer == nil {
		return nil
	}
	env := TriggerEnv{
		Detections: len(dets),
		HasTarget:  dec.HasTarget,
		Fire:       dec.Fire,
		TargetX:    dec.Target.X,
		TargetY:    dec.Target.Y,
		Distance:   dec.Distance,
		IdleTicks:  b.idleTicks,
		Tick:       b.ticks,
		WeaponLoop: b.Executor.WeaponLoopActive(),
	}
	if name, ok := b.Triggers.Match(env, now); ok {
		outcome, err := b.Sequencer.Begin(ctx, name)
		if err != nil {
			b.log.Warn("bot: trigger named a missing mission", "mission", name, "error", err)
			return nil
		}
		b.log.Info("bot: triggered mission done", "mission", name, "outcome", outcome)
		if outcome == mission.OutcomeCompleted {
			b.idleTicks = 0
		}
	}
	return nil
}

func (b *Bot) captureFailed(ctx context.Context, err error) {
	b.errorCounter++
	b.log.Warn("bot: capture error", "count", b.errorCounter, "max", b.cfg.MaxErrors, "error", err)
	if b.errorCounter < b.cfg.MaxErrors {
		return
	}
	b.log.Error("bot: too many capture errors, backing off", "backoff", b.cfg.ErrorBackoff)
	sleep(ctx, b.cfg.ErrorBackoff)
	b.errorCounter = 0
}

// ErrorCount is the current run of consecutive capture failures.
func (b *Bot) ErrorCount() int { return b.errorCounter }

// sleep waits d or until ctx is done, reporting whether it slept fully.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// IsShutdown reports whether err is the normal result of stopping Run.
func IsShutdown(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
