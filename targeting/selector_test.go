package targeting

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wingman/vision"
)

func TestDecideNearestToAimPoint(t *testing.T) {
	tests := []struct {
		name       string
		detections []vision.Detection
		want       image.Point
	}{
		{
			name:       "single",
			detections: []vision.Detection{{X: 10, Y: 10, Area: 50}},
			want:       image.Pt(10, 10),
		},
		{
			name: "nearest wins regardless of area",
			detections: []vision.Detection{
				{X: 0, Y: 0, Area: 900},
				{X: 110, Y: 95, Area: 21},
				{X: 300, Y: 200, Area: 400},
			},
			want: image.Pt(110, 95),
		},
		{
			name: "tie goes to first in input order",
			detections: []vision.Detection{
				{X: 90, Y: 100, Area: 30},
				{X: 110, Y: 100, Area: 30},
				{X: 100, Y: 90, Area: 30},
			},
			want: image.Pt(90, 100),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector(image.Pt(100, 100), 0.3, 0, nil)

			d := s.Decide(tt.detections, time.Now())

			require.True(t, d.HasTarget)
			assert.Equal(t, tt.want, d.Target)
			assert.Equal(t, 0.3, d.Smoothing)
		})
	}
}

func TestDecideEmptyHasNoTargetButFireFollowsCooldown(t *testing.T) {
	s := NewSelector(image.Pt(100, 100), 0.25, 200*time.Millisecond, nil)
	now := time.Now()

	d := s.Decide(nil, now)
	assert.False(t, d.HasTarget)
	assert.True(t, d.Fire, "first call is never on cooldown")

	d = s.Decide(nil, now.Add(50*time.Millisecond))
	assert.False(t, d.HasTarget)
	assert.False(t, d.Fire)
}

func TestDecideFireCooldown(t *testing.T) {
	s := NewSelector(image.Pt(0, 0), 0.25, 200*time.Millisecond, nil)
	dets := []vision.Detection{{X: 5, Y: 5, Area: 40}}
	t0 := time.Now()

	first := s.Decide(dets, t0)
	require.True(t, first.Fire)
	assert.Equal(t, t0, s.LastFire())

	early := s.Decide(dets, t0.Add(199*time.Millisecond))
	assert.False(t, early.Fire)
	assert.True(t, early.HasTarget, "target is found while fire is withheld")
	assert.Equal(t, t0, s.LastFire(), "withheld fire does not move the timestamp")

	onTime := s.Decide(dets, t0.Add(200*time.Millisecond))
	assert.True(t, onTime.Fire)
	assert.Equal(t, t0.Add(200*time.Millisecond), s.LastFire())

	later := s.Decide(dets, t0.Add(500*time.Millisecond))
	assert.True(t, later.Fire)
	assert.True(t, s.LastFire().After(t0.Add(200*time.Millisecond)))
}

func TestDecideZeroCooldownFiresEveryTick(t *testing.T) {
	s := NewSelector(image.Pt(0, 0), 0.25, 0, nil)
	t0 := time.Now()

	assert.True(t, s.Decide(nil, t0).Fire)
	assert.True(t, s.Decide(nil, t0).Fire)
	assert.True(t, s.Decide(nil, t0.Add(time.Millisecond)).Fire)
}

func TestDecideNegativeCooldownUsesDefault(t *testing.T) {
	s := NewSelector(image.Pt(0, 0), 0.25, -time.Second, nil)
	t0 := time.Now()

	s.Decide(nil, t0)
	assert.False(t, s.Decide(nil, t0.Add(DefaultCooldown-time.Millisecond)).Fire)
	assert.True(t, s.Decide(nil, t0.Add(2*DefaultCooldown)).Fire)
}

func TestCenterOf(t *testing.T) {
	assert.Equal(t, image.Pt(400, 300), CenterOf(800, 600))
	assert.Equal(t, image.Pt(50, 50), CenterOf(101, 101))
}
