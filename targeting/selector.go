// Package targeting picks which detection to engage and rate-limits firing.
package targeting

import (
	"image"
	"log/slog"
	"math"
	"sync"
	"time"

	"wingman/vision"
)

// DefaultCooldown is the minimum time between two permitted shots.
const DefaultCooldown = 200 * time.Millisecond

// Decision is the outcome of one tick. It is only valid for that tick.
type Decision struct {
	Target    image.Point
	HasTarget bool
	Distance  float64
	Fire      bool
	Smoothing float64
}

// Selector chooses the detection nearest to a fixed aim point.
type Selector struct {
	aim       image.Point
	smoothing float64
	cooldown  time.Duration
	log       *slog.Logger

	mu       sync.Mutex
	lastFire time.Time
}

// NewSelector returns a Selector aiming at aim. A zero cooldown permits a
// shot every tick; a negative one selects DefaultCooldown.
func NewSelector(aim image.Point, smoothing float64, cooldown time.Duration, logger *slog.Logger) *Selector {
	if cooldown < 0 {
		cooldown = DefaultCooldown
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		aim:       aim,
		smoothing: smoothing,
		cooldown:  cooldown,
		log:       logger.With("component", "targeting"),
	}
}

// CenterOf returns the aim point at the middle of a width x height frame.
func CenterOf(width, height int) image.Point {
	return image.Pt(width/2, height/2)
}

// Aim returns the fixed aim point.
func (s *Selector) Aim() image.Point { return s.aim }

// Decide picks the nearest detection and decides whether firing is allowed.
// Target selection and fire gating are independent: a permitted shot is
// recorded even when nothing was detected, so Decide must be called exactly
// once per tick.
func (s *Selector) Decide(detections []vision.Detection, now time.Time) Decision {
	d := Decision{Smoothing: s.smoothing}

	best := math.Inf(1)
	for _, det := range detections {
		dist := math.Hypot(float64(det.X-s.aim.X), float64(det.Y-s.aim.Y))
		if dist < best {
			best = dist
			d.Target = image.Pt(det.X, det.Y)
			d.HasTarget = true
		}
	}
	if d.HasTarget {
		d.Distance = best
	}

	s.mu.Lock()
	if now.Sub(s.lastFire) >= s.cooldown {
		d.Fire = true
		s.lastFire = now
	}
	s.mu.Unlock()

	s.log.Debug("targeting: decided", "detections", len(detections), "target", d.Target, "has_target", d.HasTarget, "fire", d.Fire)
	return d
}

// LastFire returns when firing was last permitted.
func (s *Selector) LastFire() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFire
}
