// Package arduinobot drives an Arduino HID emulator over USB serial. Every
// command is a short ASCII frame answered by "ready".
package arduinobot

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"wingman/input"
)

const reply = "ready"

// Config holds everything needed to reach the board.
type Config struct {
	// PortName skips discovery when set.
	PortName    string
	VID         string
	PID         string
	BaudRate    int
	ReadTimeout time.Duration
	// SettleDelay is how long the board needs after the port opens.
	SettleDelay time.Duration
	// MaxErrors consecutive failures trigger a reconnect.
	MaxErrors      int
	ReconnectDelay time.Duration
	Tuning         Tuning
	Logger         *slog.Logger
}

// Tuning is sent to the board after every connect. Zero fields keep the
// firmware defaults.
type Tuning struct {
	KeyDelay    int // ms between key down and up
	MouseDelay  int // ms between button down and up
	MoveDelay   int // ms between pointer steps
	MoveStep    int // pixels per pointer step
	KeyJitter   int // random ms added to KeyDelay
	MouseJitter int // random ms added to MouseDelay
}

// Port is the part of serial.Port the protocol uses.
type Port interface {
	io.ReadWriter
	Close() error
	ResetInputBuffer() error
}

// Opener connects to the board.
type Opener func(Config) (Port, error)

// Controller sends commands to the board. It implements input.Injector and
// input.Locator and is safe for concurrent use.
type Controller struct {
	config Config
	open   Opener
	log    *slog.Logger

	mu           sync.Mutex
	port         Port
	errorCounter int
}

var _ input.Injector = (*Controller)(nil)

// NewController finds the board, opens it and applies the tuning.
func NewController(config Config) (*Controller, error) {
	return Dial(config, openSerial)
}

// Dial builds a Controller on a custom opener.
func Dial(config Config, open Opener) (*Controller, error) {
	if config.MaxErrors < 1 {
		config.MaxErrors = 5
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	c := &Controller{
		config: config,
		open:   open,
		log:    log.With("component", "arduino"),
	}
	port, err := open(config)
	if err != nil {
		return nil, err
	}
	c.port = port
	if err := c.tune(); err != nil {
		port.Close()
		return nil, fmt.Errorf("tune board: %w", err)
	}
	return c, nil
}

func openSerial(config Config) (Port, error) {
	name := config.PortName
	if name == "" {
		var err error
		if name, err = findArduinoPort(config.VID, config.PID); err != nil {
			return nil, err
		}
	}
	port, err := serial.Open(name, &serial.Mode{BaudRate: config.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("open port %s: %w", name, err)
	}
	if config.ReadTimeout > 0 {
		if err := port.SetReadTimeout(config.ReadTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("set read timeout: %w", err)
		}
	}
	settle := config.SettleDelay
	if settle == 0 {
		settle = 2 * time.Second
	}
	time.Sleep(settle)
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("arduino: connected", "port", name, "baud", config.BaudRate)
	return port, nil
}

// findArduinoPort looks up a USB serial port by VID and PID. Without either
// it takes the first USB port.
func findArduinoPort(vid, pid string) (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("list serial ports: %w", err)
	}
	for _, port := range ports {
		if !port.IsUSB {
			continue
		}
		if vid == "" && pid == "" {
			return port.Name, nil
		}
		if strings.EqualFold(port.VID, vid) && strings.EqualFold(port.PID, pid) {
			return port.Name, nil
		}
	}
	return "", fmt.Errorf("%w: no USB serial device with VID=%s PID=%s", input.ErrUnavailable, vid, pid)
}

func (c *Controller) tune() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tuneLocked()
}

func (c *Controller) tuneLocked() error {
	t := c.config.Tuning
	for _, s := range []struct {
		op    string
		value int
	}{
		{"00", t.KeyDelay},
		{"01", t.MouseDelay},
		{"02", t.MoveDelay},
		{"03", t.MoveStep},
		{"04", t.KeyJitter},
		{"05", t.MouseJitter},
	} {
		if s.value <= 0 {
			continue
		}
		if err := c.exchangeLocked(s.op + strconv.Itoa(s.value)); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the port.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	c.log.Info("arduino: port closed")
	return err
}

// send runs one command and reconnects after MaxErrors failures in a row.
func (c *Controller) send(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.exchangeLocked(cmd)
	if err == nil {
		c.errorCounter = 0
		return nil
	}
	c.errorCounter++
	c.log.Warn("arduino: command failed", "count", c.errorCounter, "max", c.config.MaxErrors, "error", err)
	if c.errorCounter >= c.config.MaxErrors {
		c.reconnectLocked()
	}
	return err
}

func (c *Controller) exchangeLocked(cmd string) error {
	if c.port == nil {
		return errors.New("port closed")
	}
	if err := c.port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("reset input buffer: %w", err)
	}
	if _, err := c.port.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("write %q: %w", cmd, err)
	}
	buf := make([]byte, len(reply))
	if _, err := io.ReadFull(c.port, buf); err != nil {
		return fmt.Errorf("read reply to %q: %w", cmd, err)
	}
	if string(buf) != reply {
		return fmt.Errorf("unexpected reply to %q: %q", cmd, buf)
	}
	c.log.Debug("arduino: sent", "cmd", cmd)
	return nil
}

func (c *Controller) reconnectLocked() {
	c.log.Error("arduino: too many errors, reconnecting")
	if c.port != nil {
		c.port.Close()
		c.port = nil
	}
	time.Sleep(c.config.ReconnectDelay)
	port, err := c.open(c.config)
	if err != nil {
		c.log.Error("arduino: reconnect failed", "error", err)
		return
	}
	c.port = port
	c.errorCounter = 0
	if err := c.tuneLocked(); err != nil {
		c.log.Warn("arduino: re-tune failed", "error", err)
	}
	c.log.Info("arduino: connection restarted")
}

// Press holds a key or mouse button down.
func (c *Controller) Press(key string) error {
	if input.IsButton(key) {
		return c.send("7" + strconv.Itoa(buttonCode(key)))
	}
	code, err := keyCode(key)
	if err != nil {
		return err
	}
	return c.send("3" + strconv.Itoa(code))
}

// Release lets a key or mouse button go.
func (c *Controller) Release(key string) error {
	if input.IsButton(key) {
		return c.send("8" + strconv.Itoa(buttonCode(key)))
	}
	code, err := keyCode(key)
	if err != nil {
		return err
	}
	return c.send("4" + strconv.Itoa(code))
}

// Click clicks a mouse button.
func (c *Controller) Click(button string) error {
	if !input.IsButton(button) {
		return fmt.Errorf("click: %q is not a mouse button", button)
	}
	return c.send("6" + strconv.Itoa(buttonCode(button)))
}

// MoveBy moves the pointer by a relative offset.
func (c *Controller) MoveBy(dx, dy int) error {
	return c.send(moveCommand(dx, dy))
}

// MoveTo moves the pointer to an absolute position. The board only moves
// relatively, so this needs the current cursor position from the host.
func (c *Controller) MoveTo(x, y int) error {
	cx, cy, err := getMousePosition()
	if err != nil {
		return fmt.Errorf("read cursor position: %w", err)
	}
	return c.send(moveCommand(x-cx, y-cy))
}

// Position returns the host cursor position.
func (c *Controller) Position() (int, int, error) {
	return getMousePosition()
}

// moveCommand encodes a delta as "5", both signs, then |dx|*65535+|dy|.
func moveCommand(dx, dy int) string {
	sx, sy := "+", "+"
	if dx < 0 {
		sx = "-"
	}
	if dy < 0 {
		sy = "-"
	}
	coordinate := int(math.Abs(float64(dx)))*65535 + int(math.Abs(float64(dy)))
	return fmt.Sprintf("5%s%s%d", sx, sy, coordinate)
}
