package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRoutesKeys(t *testing.T) {
	var toggled, cancelled int
	d, err := NewDispatcher([]Binding{
		{Key: "m", Name: "toggle_running", Action: func() { toggled++ }},
		{Key: "B", Name: "cancel_mission", Action: func() { cancelled++ }},
	}, nil)
	require.NoError(t, err)

	assert.True(t, d.Press("m"))
	assert.True(t, d.Press("M"))
	assert.True(t, d.Press("b"))
	assert.False(t, d.Press("q"))

	assert.Equal(t, 2, toggled)
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, []string{"m", "b"}, d.Keys())
	assert.Equal(t, "m=toggle_running b=cancel_mission", d.Describe())
}

func TestDispatcherRejectsBadBindings(t *testing.T) {
	_, err := NewDispatcher([]Binding{{Key: "", Name: "x"}}, nil)
	assert.Error(t, err)

	_, err = NewDispatcher([]Binding{
		{Key: "m", Name: "a"},
		{Key: "M", Name: "b"},
	}, nil)
	assert.Error(t, err)
}

func TestDispatcherSurvivesPanickingAction(t *testing.T) {
	d, err := NewDispatcher([]Binding{
		{Key: "n", Name: "boom", Action: func() { panic("boom") }},
	}, nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() { assert.True(t, d.Press("n")) })
}
