package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wingman/config"
	"wingman/input"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCheckPrintsSummary(t *testing.T) {
	path := writeFile(t, "config.yaml", `
region: {left: 0, top: 0, width: 640, height: 480}
input: {backend: none}
missions:
  dive:
    - {kind: hold, maneuver: nose_down, hold: 1}
triggers:
  - {name: crowd, when: "Detections > 2", mission: evade, cooldown: 3}
`)
	out, err := execute(t, "check", "--config", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "(0,0)-(640,480)")
	assert.Contains(t, out, "backend:    none")
	assert.Contains(t, out, "dive")
	assert.Contains(t, out, "loiter")
	assert.Contains(t, out, `when "Detections > 2" -> evade`)
	assert.Contains(t, out, "config OK")
}

func TestCheckRejectsBadTrigger(t *testing.T) {
	path := writeFile(t, "config.yaml", `
triggers:
  - {name: broken, when: "Detections >", mission: evade}
`)
	_, err := execute(t, "check", "--config", path, "--log-level", "error")
	assert.Error(t, err)
}

func TestCheckRejectsInvalidConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", "aim: {smoothing: 3}\n")
	_, err := execute(t, "check", "--config", path)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestDetectReportsTarget(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 255}}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(20, 20, 40, 40), &image.Uniform{color.RGBA{255, 0, 0, 255}}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(110, 40, 130, 60), &image.Uniform{color.RGBA{255, 0, 0, 255}}, image.Point{}, draw.Src)

	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	out, err := execute(t, "detect", "--image", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "2 detection(s)")
	assert.Contains(t, out, "target (119,49)")
}

func TestDetectRequiresImage(t *testing.T) {
	_, err := execute(t, "detect")
	assert.Error(t, err)
}

func TestNewInjectorFallsBackToNop(t *testing.T) {
	cfg := config.Default()
	cfg.Input.Backend = config.BackendNone
	in, closeFn := newInjector(cfg, nil)
	defer closeFn()
	assert.IsType(t, input.Nop{}, in)
}

func TestConfiguredZeroCooldownIsKept(t *testing.T) {
	cfg := config.Default()
	cfg.Aim.FireCooldown = 0
	require.NoError(t, cfg.Validate())

	sel := newSelector(cfg, image.Rect(0, 0, 200, 100), nil)
	now := time.Now()
	assert.True(t, sel.Decide(nil, now).Fire)
	assert.True(t, sel.Decide(nil, now.Add(time.Millisecond)).Fire)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("DEBUG")
	assert.NoError(t, err)
	_, err = newLogger("chatty")
	assert.Error(t, err)
}
