package action

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wingman/input/inputtest"
)

func TestStartWeaponLoopIsIdempotent(t *testing.T) {
	e, rec := newTestExecutor(t, Options{
		WeaponLoopInterval: 50 * time.Millisecond,
		PollInterval:       5 * time.Millisecond,
	})

	require.True(t, e.StartWeaponLoop())
	assert.False(t, e.StartWeaponLoop())
	time.Sleep(275 * time.Millisecond)
	e.StopWeaponLoop()

	// One task fires at 0, 50, ... 250ms; a second task would double that.
	shots := rec.Count("click", "right")
	assert.GreaterOrEqual(t, shots, 4)
	assert.LessOrEqual(t, shots, 7)
}

func TestStopWeaponLoopEndsTask(t *testing.T) {
	e, rec := newTestExecutor(t, Options{
		WeaponLoopInterval: 20 * time.Millisecond,
		PollInterval:       5 * time.Millisecond,
	})

	e.StartWeaponLoop()
	require.Eventually(t, func() bool { return rec.Count("click", "right") >= 2 }, time.Second, 5*time.Millisecond)
	e.StopWeaponLoop()

	assert.False(t, e.WeaponLoopActive())
	assert.False(t, e.Gates().Held(GateWeaponLoop))
	n := rec.Count("click", "right")
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, n, rec.Count("click", "right"))
}

func TestStopInactiveWeaponLoopIsNoop(t *testing.T) {
	e, _ := newTestExecutor(t, Options{})

	start := time.Now()
	e.StopWeaponLoop()
	e.StopWeaponLoop()

	assert.Less(t, time.Since(start), 20*time.Millisecond)
	assert.False(t, e.WeaponLoopActive())
}

func TestToggleWeaponLoop(t *testing.T) {
	e, _ := newTestExecutor(t, Options{
		WeaponLoopInterval: 20 * time.Millisecond,
		PollInterval:       5 * time.Millisecond,
	})

	assert.True(t, e.ToggleWeaponLoop())
	assert.True(t, e.WeaponLoopActive())
	assert.False(t, e.ToggleWeaponLoop())
	assert.False(t, e.WeaponLoopActive())
	assert.True(t, e.ToggleWeaponLoop())
	e.StopWeaponLoop()
}

func TestWeaponLoopHoldsConfiguredKey(t *testing.T) {
	keys := DefaultBindings()
	keys.ActiveWeapon = "space"
	rec := inputtest.New()
	e := New(rec, keys, nil, Options{
		WeaponLoopInterval: 30 * time.Millisecond,
		WeaponLoopHold:     10 * time.Millisecond,
		PollInterval:       5 * time.Millisecond,
	})

	e.StartWeaponLoop()
	require.Eventually(t, func() bool { return rec.Count("release", "space") >= 2 }, time.Second, 5*time.Millisecond)
	e.StopWeaponLoop()

	assert.Equal(t, 1, rec.MaxHeld("space"))
	assert.False(t, rec.Held("space"))
}
