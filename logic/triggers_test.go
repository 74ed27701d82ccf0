package logic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileTriggersRejectsBadExpressions(t *testing.T) {
	for _, when := range []string{
		"Detections >",
		"Detections + 1",
		"Altitude > 3",
	} {
		_, err := CompileTriggers([]TriggerSpec{{Name: "bad", When: when, Mission: "evade"}}, nil)
		assert.Error(t, err, when)
	}
}

func TestTriggersFirstMatchWins(t *testing.T) {
	tr, err := CompileTriggers([]TriggerSpec{
		{Name: "crowded", When: "Detections >= 3", Mission: "evade"},
		{Name: "bored", When: "IdleTicks > 10", Mission: "loiter"},
		{Name: "any", When: "Detections > 0", Mission: "break-left"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Len())

	now := time.Now()
	m, ok := tr.Match(TriggerEnv{Detections: 4}, now)
	require.True(t, ok)
	assert.Equal(t, "evade", m)

	m, ok = tr.Match(TriggerEnv{IdleTicks: 11}, now)
	require.True(t, ok)
	assert.Equal(t, "loiter", m)

	_, ok = tr.Match(TriggerEnv{}, now)
	assert.False(t, ok)
}

func TestTriggerCooldown(t *testing.T) {
	tr, err := CompileTriggers([]TriggerSpec{
		{Name: "t", When: "HasTarget && Distance < 50", Mission: "evade", Cooldown: time.Second},
	}, nil)
	require.NoError(t, err)

	env := TriggerEnv{HasTarget: true, Distance: 10}
	t0 := time.Now()
	_, ok := tr.Match(env, t0)
	require.True(t, ok)
	_, ok = tr.Match(env, t0.Add(500*time.Millisecond))
	assert.False(t, ok)
	_, ok = tr.Match(env, t0.Add(time.Second))
	assert.True(t, ok)
}

func TestTriggerRuntimeErrorIsSkipped(t *testing.T) {
	tr, err := CompileTriggers([]TriggerSpec{
		{Name: "broken", When: "Tick % IdleTicks == 0", Mission: "evade"},
		{Name: "fallback", When: "true", Mission: "loiter"},
	}, nil)
	require.NoError(t, err)

	m, ok := tr.Match(TriggerEnv{Tick: 3, IdleTicks: 0}, time.Now())
	require.True(t, ok)
	assert.Equal(t, "loiter", m)
}
