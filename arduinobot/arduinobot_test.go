package arduinobot

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort answers every write with a canned reply.
type fakePort struct {
	mu      sync.Mutex
	sent    []string
	pending bytes.Buffer
	reply   string
	closed  bool
}

func newFakePort() *fakePort { return &fakePort{reply: reply} }

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errors.New("closed")
	}
	p.sent = append(p.sent, string(b))
	p.pending.WriteString(p.reply)
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.Read(b)
}

func (p *fakePort) ResetInputBuffer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending.Reset()
	return nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePort) Sent() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.sent...)
}

func dialFake(t *testing.T, cfg Config, ports ...*fakePort) *Controller {
	t.Helper()
	i := 0
	c, err := Dial(cfg, func(Config) (Port, error) {
		if i >= len(ports) {
			return nil, errors.New("no more ports")
		}
		p := ports[i]
		i++
		return p, nil
	})
	require.NoError(t, err)
	return c
}

func TestCommandFraming(t *testing.T) {
	port := newFakePort()
	c := dialFake(t, Config{}, port)

	require.NoError(t, c.Press("e"))
	require.NoError(t, c.Release("e"))
	require.NoError(t, c.Press("left"))
	require.NoError(t, c.Release("right"))
	require.NoError(t, c.Click("middle"))
	require.NoError(t, c.Press("F1"))
	require.NoError(t, c.Press("space"))
	require.NoError(t, c.MoveBy(3, -2))
	require.NoError(t, c.MoveBy(-1, 0))

	assert.Equal(t, []string{
		"3101",
		"4101",
		"71",
		"82",
		"64",
		"3194",
		"332",
		"5+-196607",
		"5-+65535",
	}, port.Sent())
}

func TestButtonNamesIgnoreCase(t *testing.T) {
	port := newFakePort()
	c := dialFake(t, Config{}, port)

	require.NoError(t, c.Press("Right"))
	require.NoError(t, c.Release("MIDDLE"))
	require.NoError(t, c.Click("Left"))

	assert.Equal(t, []string{"72", "84", "61"}, port.Sent())
}

func TestTuningSentOnConnect(t *testing.T) {
	port := newFakePort()
	dialFake(t, Config{Tuning: Tuning{KeyDelay: 40, MoveStep: 3}}, port)
	assert.Equal(t, []string{"0040", "033"}, port.Sent())
}

func TestUnexpectedReplyIsAnError(t *testing.T) {
	port := newFakePort()
	c := dialFake(t, Config{MaxErrors: 10}, port)
	port.reply = "busy!"

	err := c.Press("e")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected reply")
}

func TestUnknownKey(t *testing.T) {
	port := newFakePort()
	c := dialFake(t, Config{}, port)
	assert.Error(t, c.Press("hyper"))
	assert.Error(t, c.Click("e"))
	assert.Empty(t, port.Sent())
}

func TestReconnectAfterMaxErrors(t *testing.T) {
	first, second := newFakePort(), newFakePort()
	c := dialFake(t, Config{MaxErrors: 2}, first, second)
	first.reply = "nope!"

	assert.Error(t, c.Press("a"))
	assert.Error(t, c.Press("a"))
	assert.True(t, first.closed)

	require.NoError(t, c.Press("b"))
	assert.Equal(t, []string{"398"}, second.Sent())
}

func TestSuccessResetsErrorCount(t *testing.T) {
	port, spare := newFakePort(), newFakePort()
	c := dialFake(t, Config{MaxErrors: 2}, port, spare)

	port.reply = "nope!"
	assert.Error(t, c.Press("a"))
	port.reply = reply
	require.NoError(t, c.Press("a"))
	port.reply = "nope!"
	assert.Error(t, c.Press("a"))

	assert.False(t, port.closed)
	assert.Empty(t, spare.Sent())
}

func TestClose(t *testing.T) {
	port := newFakePort()
	c := dialFake(t, Config{}, port)
	require.NoError(t, c.Close())
	assert.True(t, port.closed)
	assert.NoError(t, c.Close())
	assert.Error(t, c.Press("a"))
}
