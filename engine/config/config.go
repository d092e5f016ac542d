package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a configuration file.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// Duration is a time.Duration written as a Go duration string, e.g. "1s" or "500ms".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the viewer configuration.
type Config struct {
	Window   Window   `toml:"window" yaml:"window"`
	Camera   Camera   `toml:"camera" yaml:"camera"`
	Assets   Assets   `toml:"assets" yaml:"assets"`
	Profiler Profiler `toml:"profiler" yaml:"profiler"`

	// Scene is the id of a scene to open on start instead of the menu.
	Scene string `toml:"scene" yaml:"scene"`
}

type Window struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	VSync  bool   `toml:"vsync" yaml:"vsync"`
	// MSAA is the sample count, 1 (off) or 4.
	MSAA             int  `toml:"msaa" yaml:"msaa"`
	SoftwareRenderer bool `toml:"software_renderer" yaml:"software_renderer"`
}

type Camera struct {
	Fov             float32 `toml:"fov" yaml:"fov"`
	Near            float32 `toml:"near" yaml:"near"`
	Far             float32 `toml:"far" yaml:"far"`
	SensitivityStep int     `toml:"sensitivity_step" yaml:"sensitivity_step"`
	WalkingStep     int     `toml:"walking_step" yaml:"walking_step"`
}

type Assets struct {
	// Root is the directory holding shaders/, textures/ and models/. A leading ~ is expanded.
	Root      string `toml:"root" yaml:"root"`
	HotReload bool   `toml:"hot_reload" yaml:"hot_reload"`
	// Workers is the size of the prefetch pool; 0 picks one per spare CPU.
	Workers int `toml:"workers" yaml:"workers"`

	// Model is the file within models/ shown by the models scene.
	Model string `toml:"model" yaml:"model"`
	// Skybox is the directory within textures/ holding the cubemap faces right, left, top,
	// bottom, front and back, with extension SkyboxExt.
	Skybox    string `toml:"skybox" yaml:"skybox"`
	SkyboxExt string `toml:"skybox_ext" yaml:"skybox_ext"`
}

type Profiler struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Interval Duration `toml:"interval" yaml:"interval"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "oxy-viewer",
			Width:  1280,
			Height: 720,
			VSync:  true,
			MSAA:   4,
		},
		Camera: Camera{
			Fov:             60,
			Near:            0.1,
			Far:             100,
			SensitivityStep: 10,
			WalkingStep:     10,
		},
		Assets: Assets{
			Root:      "assets",
			Model:     "house.glb",
			Skybox:    "skybox",
			SkyboxExt: "jpg",
		},
		Profiler: Profiler{
			Interval: Duration(time.Second),
		},
	}
}

// Load reads a configuration file over the defaults. The format follows the extension:
// .toml, or .yaml/.yml. A missing file yields the defaults; an empty path does too.
//
// Parameters:
//   - path: the file path, where a leading ~ is the home directory
//
// Returns:
//   - Config: the configuration
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to expand %s: %w", path, err)
	}

	format, err := formatOf(expanded)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(expanded)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", expanded, err)
	}
	return cfg, nil
}

// Parse decodes configuration data over the defaults and validates the result.
//
// Parameters:
//   - data: the encoded configuration
//   - format: the encoding
//
// Returns:
//   - Config: the configuration
//   - error: error if the data cannot be decoded or is invalid
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("unknown config format %d", format)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Assets.Root, err = homedir.Expand(cfg.Assets.Root); err != nil {
		return Config{}, fmt.Errorf("failed to expand asset root: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg in the given format.
//
// Parameters:
//   - cfg: the configuration
//   - format: the encoding
//
// Returns:
//   - []byte: the encoded configuration
//   - error: error if encoding fails
func Encode(cfg Config, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(cfg)
	case FormatYAML:
		return yaml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("unknown config format %d", format)
	}
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Window.MSAA != 1 && c.Window.MSAA != 4:
		return fmt.Errorf("msaa must be 1 or 4, got %d", c.Window.MSAA)
	case c.Camera.Fov < 30 || c.Camera.Fov > 130:
		return fmt.Errorf("fov %.1f is outside 30..130", c.Camera.Fov)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("clip range %.3f..%.3f is invalid", c.Camera.Near, c.Camera.Far)
	case c.Camera.SensitivityStep < 0 || c.Camera.SensitivityStep > 20:
		return fmt.Errorf("sensitivity step %d is outside 0..20", c.Camera.SensitivityStep)
	case c.Camera.WalkingStep < 0 || c.Camera.WalkingStep > 20:
		return fmt.Errorf("walking step %d is outside 0..20", c.Camera.WalkingStep)
	case c.Assets.Model == "" || c.Assets.Skybox == "" || c.Assets.SkyboxExt == "":
		return fmt.Errorf("model and skybox must be set")
	case c.Assets.Workers < 0:
		return fmt.Errorf("workers must not be negative, got %d", c.Assets.Workers)
	case c.Profiler.Interval <= 0:
		return fmt.Errorf("profiler interval must be positive")
	}
	return nil
}

func formatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}
