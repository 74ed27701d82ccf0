// Package config loads the bot configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"wingman/action"
	"wingman/input"
	"wingman/mission"
	"wingman/vision"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WINGMAN_"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete bot configuration.
type Config struct {
	Region     Region                   `yaml:"region" envPrefix:"REGION_"`
	EnemyHSV   HSVRange                 `yaml:"enemy_hsv"`
	Aim        Aim                      `yaml:"aim" envPrefix:"AIM_"`
	Controls   Controls                 `yaml:"controls" envPrefix:"CONTROLS_"`
	WeaponLoop WeaponLoop               `yaml:"weapon_loop" envPrefix:"WEAPON_LOOP_"`
	Detection  Detection                `yaml:"detection" envPrefix:"DETECTION_"`
	Loop       Loop                     `yaml:"loop" envPrefix:"LOOP_"`
	Hotkeys    Hotkeys                  `yaml:"hotkeys" envPrefix:"HOTKEY_"`
	Input      Input                    `yaml:"input" envPrefix:"INPUT_"`
	Triggers   []Trigger                `yaml:"triggers"`
	Missions   map[string][]MissionStep `yaml:"missions"`
	Debug      Debug                    `yaml:"debug" envPrefix:"DEBUG_"`
	LogLevel   string                   `yaml:"log_level" env:"LOG_LEVEL"`
}

// Region is the captured screen rectangle. A zero width or height means the
// whole primary display.
type Region struct {
	Left   int `yaml:"left" env:"LEFT"`
	Top    int `yaml:"top" env:"TOP"`
	Width  int `yaml:"width" env:"WIDTH"`
	Height int `yaml:"height" env:"HEIGHT"`
}

// Rect returns the region as a rectangle in screen coordinates.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height)
}

// HSVRange holds inclusive [h, s, v] bounds.
type HSVRange struct {
	Lower []int `yaml:"lower"`
	Upper []int `yaml:"upper"`
}

// Range converts the bounds for the detector. Call Validate first.
func (h HSVRange) Range() vision.Range {
	return vision.Range{
		Lower: vision.HSV{H: uint8(h.Lower[0]), S: uint8(h.Lower[1]), V: uint8(h.Lower[2])},
		Upper: vision.HSV{H: uint8(h.Upper[0]), S: uint8(h.Upper[1]), V: uint8(h.Upper[2])},
	}
}

type Aim struct {
	Smoothing         float64 `yaml:"smoothing" env:"SMOOTHING"`
	FireCooldown      float64 `yaml:"fire_cooldown" env:"FIRE_COOLDOWN"`
	FireHold          float64 `yaml:"fire_hold" env:"FIRE_HOLD"`
	FireWithoutTarget bool    `yaml:"fire_without_target" env:"FIRE_WITHOUT_TARGET"`
}

// Controls are the key bindings plus the primary fire control.
type Controls struct {
	action.Bindings `yaml:",inline"`
	FireButton      string `yaml:"fire_button" env:"FIRE_BUTTON"`
	LeftMouseButton *bool  `yaml:"left_mouse_button" env:"LEFT_MOUSE_BUTTON"`
}

// FireKey resolves the primary fire control: left_mouse_button wins, then
// fire_button, then the left button.
func (c Controls) FireKey() string {
	if c.LeftMouseButton != nil && *c.LeftMouseButton {
		return input.ButtonLeft
	}
	if c.FireButton != "" {
		return c.FireButton
	}
	return input.ButtonLeft
}

type WeaponLoop struct {
	Interval float64 `yaml:"interval" env:"INTERVAL"`
	Hold     float64 `yaml:"hold" env:"HOLD"`
}

type Detection struct {
	MinArea float64 `yaml:"min_area" env:"MIN_AREA"`
}

type Loop struct {
	TickInterval float64 `yaml:"tick_interval" env:"TICK_INTERVAL"`
	MaxErrors    int     `yaml:"max_errors" env:"MAX_ERRORS"`
	ErrorBackoff float64 `yaml:"error_backoff" env:"ERROR_BACKOFF"`
}

type Hotkeys struct {
	ToggleRunning    string `yaml:"toggle_running" env:"TOGGLE_RUNNING"`
	ToggleWeaponLoop string `yaml:"toggle_weapon_loop" env:"TOGGLE_WEAPON_LOOP"`
	CancelMission    string `yaml:"cancel_mission" env:"CANCEL_MISSION"`
}

// Input backend names.
const (
	BackendNone    = "none"
	BackendRobot   = "robot"
	BackendArduino = "arduino"
)

type Input struct {
	Backend string  `yaml:"backend" env:"BACKEND"`
	Arduino Arduino `yaml:"arduino" envPrefix:"ARDUINO_"`
}

// Arduino settings. An empty port is discovered by VID/PID; delays are in
// milliseconds and zero keeps the firmware default.
type Arduino struct {
	Port        string  `yaml:"port" env:"PORT"`
	VID         string  `yaml:"vid" env:"VID"`
	PID         string  `yaml:"pid" env:"PID"`
	BaudRate    int     `yaml:"baud_rate" env:"BAUD_RATE"`
	Timeout     float64 `yaml:"timeout" env:"TIMEOUT"`
	MaxErrors   int     `yaml:"max_errors" env:"MAX_ERRORS"`
	KeyDelay    int     `yaml:"key_delay" env:"KEY_DELAY"`
	MouseDelay  int     `yaml:"mouse_delay" env:"MOUSE_DELAY"`
	MoveDelay   int     `yaml:"move_delay" env:"MOVE_DELAY"`
	MoveStep    int     `yaml:"move_step" env:"MOVE_STEP"`
	KeyJitter   int     `yaml:"key_jitter" env:"KEY_JITTER"`
	MouseJitter int     `yaml:"mouse_jitter" env:"MOUSE_JITTER"`
}

// Trigger begins Mission when the When expression holds, at most once per
// Cooldown seconds.
type Trigger struct {
	Name     string  `yaml:"name"`
	When     string  `yaml:"when"`
	Mission  string  `yaml:"mission"`
	Cooldown float64 `yaml:"cooldown"`
}

// MissionStep is the YAML form of mission.Step.
type MissionStep struct {
	Kind     string  `yaml:"kind"`
	Maneuver string  `yaml:"maneuver"`
	Hold     float64 `yaml:"hold"`
	Blocking *bool   `yaml:"blocking"`
	VX       float64 `yaml:"vx"`
	VY       float64 `yaml:"vy"`
	Duration float64 `yaml:"duration"`
	Enable   bool    `yaml:"enable"`
}

type Debug struct {
	ShowWindow bool `yaml:"show_window" env:"SHOW_WINDOW"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		EnemyHSV: HSVRange{
			Lower: []int{0, 120, 120},
			Upper: []int{10, 255, 255},
		},
		Aim: Aim{
			Smoothing:    0.25,
			FireCooldown: 0.2,
		},
		Controls:   Controls{Bindings: action.DefaultBindings()},
		WeaponLoop: WeaponLoop{Interval: 1.1},
		Detection:  Detection{MinArea: vision.DefaultMinArea},
		Loop: Loop{
			TickInterval: 0.05,
			MaxErrors:    5,
			ErrorBackoff: 2,
		},
		Hotkeys: Hotkeys{
			ToggleRunning:    "m",
			ToggleWeaponLoop: "n",
			CancelMission:    "b",
		},
		Input: Input{
			Backend: BackendRobot,
			Arduino: Arduino{VID: "2341", PID: "8036", BaudRate: 115200, Timeout: 2, MaxErrors: 5},
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults, applies WINGMAN_* environment overrides
// and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Seconds converts a configured number of seconds to a duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Scripts returns the built-in missions overlaid with the configured ones.
func (c *Config) Scripts() map[string]mission.Script {
	scripts := mission.Builtins()
	for name, steps := range c.Missions {
		s := make(mission.Script, 0, len(steps))
		for _, st := range steps {
			s = append(s, st.step())
		}
		scripts[name] = s
	}
	return scripts
}

func (st MissionStep) step() mission.Step {
	blocking := true
	if st.Blocking != nil {
		blocking = *st.Blocking
	}
	return mission.Step{
		Kind:     mission.Kind(st.Kind),
		Maneuver: action.Maneuver(st.Maneuver),
		Hold:     Seconds(st.Hold),
		Blocking: blocking,
		VX:       st.VX,
		VY:       st.VY,
		Duration: Seconds(st.Duration),
		Enable:   st.Enable,
	}
}
