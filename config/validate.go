package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"wingman/action"
)

// Validate reports every problem at once, joined and wrapped in ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Region.Width < 0 || c.Region.Height < 0 {
		add("region: negative size %dx%d", c.Region.Width, c.Region.Height)
	} else if (c.Region.Width == 0) != (c.Region.Height == 0) {
		add("region: width and height must both be set or both be zero")
	}

	hsvOK := true
	for name, b := range map[string][]int{"lower": c.EnemyHSV.Lower, "upper": c.EnemyHSV.Upper} {
		if len(b) != 3 {
			add("enemy_hsv.%s: want 3 values, got %d", name, len(b))
			hsvOK = false
			continue
		}
		for _, v := range b {
			if v < 0 || v > 255 {
				add("enemy_hsv.%s: %d out of 0-255", name, v)
				hsvOK = false
			}
		}
	}
	if hsvOK {
		if err := c.EnemyHSV.Range().Validate(); err != nil {
			add("enemy_hsv: %w", err)
		}
	}

	if c.Aim.Smoothing <= 0 || c.Aim.Smoothing > 1 {
		add("aim.smoothing: %v not in (0, 1]", c.Aim.Smoothing)
	}
	if c.Aim.FireCooldown < 0 {
		add("aim.fire_cooldown: negative")
	}
	if c.Aim.FireHold < 0 {
		add("aim.fire_hold: negative")
	}

	for _, m := range action.Maneuvers {
		if _, err := c.Controls.Key(m); err != nil {
			add("controls: %w", err)
		}
	}

	if c.WeaponLoop.Interval <= 0 {
		add("weapon_loop.interval: must be positive")
	}
	if c.WeaponLoop.Hold < 0 {
		add("weapon_loop.hold: negative")
	}
	if c.Detection.MinArea <= 0 {
		add("detection.min_area: must be positive")
	}

	if c.Loop.TickInterval <= 0 {
		add("loop.tick_interval: must be positive")
	}
	if c.Loop.MaxErrors < 1 {
		add("loop.max_errors: must be at least 1")
	}
	if c.Loop.ErrorBackoff < 0 {
		add("loop.error_backoff: negative")
	}

	seen := map[string]string{}
	for name, key := range map[string]string{
		"toggle_running":     c.Hotkeys.ToggleRunning,
		"toggle_weapon_loop": c.Hotkeys.ToggleWeaponLoop,
		"cancel_mission":     c.Hotkeys.CancelMission,
	} {
		if key == "" {
			add("hotkeys.%s: empty", name)
			continue
		}
		if other, dup := seen[key]; dup {
			add("hotkeys: %q bound to both %s and %s", key, other, name)
		}
		seen[key] = name
	}

	switch c.Input.Backend {
	case BackendNone, BackendRobot:
	case BackendArduino:
		if c.Input.Arduino.BaudRate <= 0 {
			add("input.arduino.baud_rate: must be positive")
		}
		if c.Input.Arduino.MaxErrors < 1 {
			add("input.arduino.max_errors: must be at least 1")
		}
	default:
		add("input.backend: unknown %q", c.Input.Backend)
	}

	scripts := c.Scripts()
	names := make([]string, 0, len(c.Missions))
	for name := range c.Missions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := scripts[name].Validate(c.Controls.Bindings); err != nil {
			add("missions.%s: %w", name, err)
		}
	}
	for i, t := range c.Triggers {
		if t.When == "" {
			add("triggers[%d]: empty when", i)
		}
		if _, ok := scripts[t.Mission]; !ok {
			add("triggers[%d]: unknown mission %q", i, t.Mission)
		}
		if t.Cooldown < 0 {
			add("triggers[%d]: negative cooldown", i)
		}
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		add("log_level: %w", err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
