package action

import (
	"fmt"

	"wingman/input"
)

// Maneuver names one bindable aircraft action.
type Maneuver string

const (
	NoseUp       Maneuver = "nose_up"
	NoseDown     Maneuver = "nose_down"
	Afterburner  Maneuver = "afterburner"
	Airbrake     Maneuver = "airbrake"
	RollLeft     Maneuver = "roll_left"
	RollRight    Maneuver = "roll_right"
	Flares       Maneuver = "flares"
	MachineGun   Maneuver = "machine_gun"
	ActiveWeapon Maneuver = "active_weapon"
	Wingsweep    Maneuver = "wingsweep"
	SwitchWeapon Maneuver = "switch_weapon"
	Special      Maneuver = "special"
)

// Maneuvers lists every bindable maneuver.
var Maneuvers = []Maneuver{
	NoseUp, NoseDown, Afterburner, Airbrake, RollLeft, RollRight,
	Flares, MachineGun, ActiveWeapon, Wingsweep, SwitchWeapon, Special,
}

// Bindings maps each maneuver to a single key or a "left"/"right" mouse
// button. It is passed by value and never modified after construction.
type Bindings struct {
	NoseUp       string `yaml:"nose_up"`
	NoseDown     string `yaml:"nose_down"`
	Afterburner  string `yaml:"afterburner"`
	Airbrake     string `yaml:"airbrake"`
	RollLeft     string `yaml:"roll_left"`
	RollRight    string `yaml:"roll_right"`
	Flares       string `yaml:"flares"`
	MachineGun   string `yaml:"machine_gun"`
	ActiveWeapon string `yaml:"active_weapon"`
	Wingsweep    string `yaml:"wingsweep"`
	SwitchWeapon string `yaml:"switch_weapon"`
	Special      string `yaml:"special"`
}

// DefaultBindings returns the stock layout.
func DefaultBindings() Bindings {
	return Bindings{
		NoseUp:       "s",
		NoseDown:     "w",
		Afterburner:  "e",
		Airbrake:     "h",
		RollLeft:     "a",
		RollRight:    "d",
		Flares:       "c",
		MachineGun:   input.ButtonLeft,
		ActiveWeapon: input.ButtonRight,
		Wingsweep:    "k",
		SwitchWeapon: "v",
		Special:      "x",
	}
}

// Key returns the key bound to m.
func (b Bindings) Key(m Maneuver) (string, error) {
	var k string
	switch m {
	case NoseUp:
		k = b.NoseUp
	case NoseDown:
		k = b.NoseDown
	case Afterburner:
		k = b.Afterburner
	case Airbrake:
		k = b.Airbrake
	case RollLeft:
		k = b.RollLeft
	case RollRight:
		k = b.RollRight
	case Flares:
		k = b.Flares
	case MachineGun:
		k = b.MachineGun
	case ActiveWeapon:
		k = b.ActiveWeapon
	case Wingsweep:
		k = b.Wingsweep
	case SwitchWeapon:
		k = b.SwitchWeapon
	case Special:
		k = b.Special
	default:
		return "", fmt.Errorf("unknown maneuver %q", m)
	}
	if k == "" {
		return "", fmt.Errorf("maneuver %q is not bound", m)
	}
	return k, nil
}
