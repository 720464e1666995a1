// Package config holds the settings of the viewer. Settings are read from
// a TOML file, every key that is not present keeps its default value.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Window WindowConfig `toml:"window"`
	Render RenderConfig `toml:"render"`
	Camera CameraConfig `toml:"camera"`
	Model  ModelConfig  `toml:"model"`
	Log    LogConfig    `toml:"log"`

	// write a cpu profile while the window is open
	Profile bool `toml:"profile"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type RenderConfig struct {
	MSAA       bool       `toml:"msaa"`
	Depth      bool       `toml:"depth"`
	ClearColor [4]float32 `toml:"clear_color"`

	// number of textures kept on the gpu
	TextureCacheSize int `toml:"texture_cache_size"`
}

type CameraConfig struct {
	Eye    [3]float32 `toml:"eye"`
	Target [3]float32 `toml:"target"`
	Up     [3]float32 `toml:"up"`

	// vertical field of view in degrees
	FovY float32 `toml:"fov_y"`
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
}

type ModelConfig struct {
	// height of the model after fitting it into the view
	TargetHeight float32 `toml:"target_height"`

	// limit for a single staging buffer in bytes, zero for no limit
	MaxBufferBytes int `toml:"max_buffer_bytes"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  900,
			Height: 540,
			Title:  "AnimationViewer",
		},
		Render: RenderConfig{
			MSAA:             true,
			Depth:            true,
			ClearColor:       [4]float32{0.7, 0.7, 0.7, 1.0},
			TextureCacheSize: 64,
		},
		Camera: CameraConfig{
			Eye:    [3]float32{0, 0, 3},
			Target: [3]float32{0, 0, 0},
			Up:     [3]float32{0, 1, 0},
			FovY:   45,
			Near:   0.1,
			Far:    100,
		},
		Model: ModelConfig{
			TargetHeight: 0.6,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path on top of the defaults.
func Load(path string) (Config, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	defer fp.Close()

	conf, err := Decode(fp)
	if err != nil {
		return Config{}, fmt.Errorf("load %q: %w", path, err)
	}

	return conf, nil
}

// Decode parses a TOML document on top of the defaults. Unknown keys
// are rejected. The result is validated.
func Decode(r io.Reader) (Config, error) {
	conf := Default()

	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&conf); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return Config{}, fmt.Errorf("unknown keys: %s", strictErr.String())
		}

		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

// Encode writes the config as TOML.
func (c Config) Encode(w io.Writer) error {
	buf, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	_, err = io.Copy(w, bytes.NewReader(buf))
	return err
}

func (c Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height))
	}

	for idx, value := range c.Render.ClearColor {
		if value < 0 || value > 1 {
			errs = append(errs, fmt.Errorf("render.clear_color[%d]: %v not in [0, 1]", idx, value))
		}
	}

	if c.Render.TextureCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("render.texture_cache_size: must be positive, got %d", c.Render.TextureCacheSize))
	}

	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov_y: %v not in (0, 180)", c.Camera.FovY))
	}

	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera: invalid clip range [%v, %v]", c.Camera.Near, c.Camera.Far))
	}

	if c.Camera.Eye == c.Camera.Target {
		errs = append(errs, errors.New("camera: eye and target must differ"))
	}

	if c.Model.TargetHeight <= 0 {
		errs = append(errs, fmt.Errorf("model.target_height: must be positive, got %v", c.Model.TargetHeight))
	}

	if c.Model.MaxBufferBytes < 0 {
		errs = append(errs, fmt.Errorf("model.max_buffer_bytes: must not be negative, got %d", c.Model.MaxBufferBytes))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}

// SlogLevel parses the configured level, e.g. "debug" or "warn".
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return slog.LevelInfo, err
	}

	return level, nil
}
