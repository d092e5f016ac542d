package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
scene = "forest"

[window]
width = 1920
height = 1080
msaa = 1

[camera]
fov = 90

[profiler]
enabled = true
interval = "500ms"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "forest", cfg.Scene)
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 1080, cfg.Window.Height)
	assert.Equal(t, 1, cfg.Window.MSAA)
	assert.Equal(t, "oxy-viewer", cfg.Window.Title)
	assert.Equal(t, float32(90), cfg.Camera.Fov)
	assert.Equal(t, float32(100), cfg.Camera.Far)
	assert.True(t, cfg.Profiler.Enabled)
	assert.Equal(t, Duration(500*time.Millisecond), cfg.Profiler.Interval)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  title: lights
camera:
  walking_step: 20
assets:
  hot_reload: true
  workers: 2
profiler:
  interval: 2s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lights", cfg.Window.Title)
	assert.Equal(t, 20, cfg.Camera.WalkingStep)
	assert.True(t, cfg.Assets.HotReload)
	assert.Equal(t, 2, cfg.Assets.Workers)
	assert.Equal(t, Duration(2*time.Second), cfg.Profiler.Interval)
}

func TestAssetRootExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	cfg, err := Parse([]byte("[assets]\nroot = \"~/viewer\"\n"), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "viewer"), cfg.Assets.Root)
}

func TestInvalidValuesAreRejected(t *testing.T) {
	cases := map[string]string{
		"fov":      "[camera]\nfov = 10\n",
		"msaa":     "[window]\nmsaa = 2\n",
		"clip":     "[camera]\nnear = 5\nfar = 1\n",
		"step":     "[camera]\nsensitivity_step = 21\n",
		"duration": "[profiler]\ninterval = \"soon\"\n",
		"skybox":   "[assets]\nskybox = \"\"\n",
		"syntax":   "[window\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data), FormatTOML)
			assert.Error(t, err)
		})
	}
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "viewer.ini"))
	assert.ErrorContains(t, err, "unsupported config extension")
}

func TestEncodeRoundTripsThroughParse(t *testing.T) {
	cfg := Default()
	cfg.Scene = "models"
	cfg.Profiler.Interval = Duration(3 * time.Second)

	for _, format := range []Format{FormatTOML, FormatYAML} {
		data, err := Encode(cfg, format)
		require.NoError(t, err)
		decoded, err := Parse(data, format)
		require.NoError(t, err)
		assert.Equal(t, cfg, decoded)
	}
}
