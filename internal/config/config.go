// Package config loads pkrender settings from a TOML file and merges them
// with command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Defaults applied by Resolve.
const (
	DefaultOutput   = "out.png"
	DefaultQuality  = 90
	DefaultDebounce = 100 * time.Millisecond
)

// Config holds render settings. Relative paths are resolved against the
// directory of the config file.
type Config struct {
	Scene  string `toml:"scene"`
	Output string `toml:"output"`
	Target string `toml:"target"`

	Workers   int  `toml:"workers"`
	ChunkSize int  `toml:"chunk_size"`
	MaxShapes int  `toml:"max_shape_floats"`
	GPU       bool `toml:"gpu"`
	Quality   int  `toml:"quality"`

	Watch    bool     `toml:"watch"`
	Debounce Duration `toml:"debounce"`

	LogLevel string `toml:"log_level"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Load reads a TOML config file. Fields not set in the file keep their
// zero values. Unknown keys are errors.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("config: parse %s:%d:%d: %w", path, row, col, err)
		}
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	cfg.Scene = relTo(dir, cfg.Scene)
	cfg.Output = relTo(dir, cfg.Output)
	cfg.Target = relTo(dir, cfg.Target)
	return cfg, nil
}

// Encode returns cfg as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Flags holds command-line values that override the config file.
// Zero values leave the file setting alone.
type Flags struct {
	Scene   string
	Output  string
	Target  string
	Workers int
	Quality int
	GPU     bool
	Watch   bool
	Verbose bool
}

// Resolve applies flags over c and fills remaining fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Target != "" {
		c.Target = flags.Target
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Quality > 0 {
		c.Quality = flags.Quality
	}
	c.GPU = c.GPU || flags.GPU
	c.Watch = c.Watch || flags.Watch
	if flags.Verbose {
		c.LogLevel = "debug"
	}

	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Quality <= 0 || c.Quality > 100 {
		c.Quality = DefaultQuality
	}
	if c.Debounce <= 0 {
		c.Debounce = Duration(DefaultDebounce)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports settings that cannot be rendered.
func (c *Config) Validate() error {
	if c.Scene == "" {
		return errors.New("config: no scene given")
	}
	if c.MaxShapes < 0 {
		return fmt.Errorf("config: max_shape_floats must not be negative, got %d", c.MaxShapes)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

func relTo(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
