package arduinobot

import (
	"fmt"
	"strings"

	"wingman/input"
)

// Key codes understood by the Arduino Keyboard library.
var namedKeys = map[string]int{
	"ctrl":      0x80,
	"shift":     0x81,
	"alt":       0x82,
	"cmd":       0x83,
	"up":        0xDA,
	"down":      0xD9,
	"backspace": 0xB2,
	"tab":       0xB3,
	"enter":     0xB0,
	"esc":       0xB1,
	"insert":    0xD1,
	"delete":    0xD4,
	"pageup":    0xD3,
	"pagedown":  0xD6,
	"home":      0xD2,
	"end":       0xD5,
	"space":     ' ',
	"f1":        0xC2,
	"f2":        0xC3,
	"f3":        0xC4,
	"f4":        0xC5,
	"f5":        0xC6,
	"f6":        0xC7,
	"f7":        0xC8,
	"f8":        0xC9,
	"f9":        0xCA,
	"f10":       0xCB,
	"f11":       0xCC,
	"f12":       0xCD,
}

func keyCode(key string) (int, error) {
	k := strings.ToLower(key)
	if code, ok := namedKeys[k]; ok {
		return code, nil
	}
	if len(k) == 1 && k[0] >= 0x21 && k[0] <= 0x7e {
		return int(k[0]), nil
	}
	return 0, fmt.Errorf("no arduino key code for %q", key)
}

func buttonCode(button string) int {
	switch strings.ToLower(button) {
	case input.ButtonRight:
		return 2
	case input.ButtonMiddle:
		return 4
	default:
		return 1
	}
}
