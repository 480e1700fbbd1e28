package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pkrender.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
scene = "scenes/a.yaml"
output = "/tmp/out.webp"
workers = 3
gpu = true
debounce = "250ms"
log_level = "warn"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	dir := filepath.Dir(path)
	if want := filepath.Join(dir, "scenes", "a.yaml"); cfg.Scene != want {
		t.Errorf("Scene = %q, want %q", cfg.Scene, want)
	}
	if cfg.Output != "/tmp/out.webp" {
		t.Errorf("Output = %q, want absolute path kept", cfg.Output)
	}
	if cfg.Target != "" {
		t.Errorf("Target = %q, want empty", cfg.Target)
	}
	if cfg.Workers != 3 || !cfg.GPU || cfg.LogLevel != "warn" {
		t.Errorf("cfg = %+v", cfg)
	}
	if time.Duration(cfg.Debounce) != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", time.Duration(cfg.Debounce))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "colour = 1\n", "parse"},
		{"bad duration", "debounce = \"soon\"\n", "parse"},
		{"bad type", "workers = \"many\"\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Error("Load(missing) error = nil")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		flags Flags
		check func(t *testing.T, c Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, c Config) {
				if c.Output != DefaultOutput || c.Quality != DefaultQuality || c.LogLevel != "info" {
					t.Errorf("cfg = %+v", c)
				}
				if c.Workers != runtime.NumCPU() {
					t.Errorf("Workers = %d, want %d", c.Workers, runtime.NumCPU())
				}
				if time.Duration(c.Debounce) != DefaultDebounce {
					t.Errorf("Debounce = %v", time.Duration(c.Debounce))
				}
			},
		},
		{
			name:  "flags override file",
			cfg:   Config{Scene: "a.yaml", Workers: 2, Quality: 50},
			flags: Flags{Scene: "b.yaml", Workers: 8, Quality: 75, Verbose: true},
			check: func(t *testing.T, c Config) {
				if c.Scene != "b.yaml" || c.Workers != 8 || c.Quality != 75 || c.LogLevel != "debug" {
					t.Errorf("cfg = %+v", c)
				}
			},
		},
		{
			name:  "zero flags keep file",
			cfg:   Config{Scene: "a.yaml", Workers: 2, GPU: true},
			flags: Flags{},
			check: func(t *testing.T, c Config) {
				if c.Scene != "a.yaml" || c.Workers != 2 || !c.GPU {
					t.Errorf("cfg = %+v", c)
				}
			},
		},
		{
			name: "out of range quality",
			cfg:  Config{Quality: 150},
			check: func(t *testing.T, c Config) {
				if c.Quality != DefaultQuality {
					t.Errorf("Quality = %d, want %d", c.Quality, DefaultQuality)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.cfg
			c.Resolve(tt.flags)
			tt.check(t, c)
		})
	}
}

func TestValidate(t *testing.T) {
	ok := Config{Scene: "a.yaml", LogLevel: "info"}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	for _, c := range []Config{
		{LogLevel: "info"},
		{Scene: "a.yaml", LogLevel: "loud"},
		{Scene: "a.yaml", LogLevel: "info", MaxShapes: -1},
	} {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%+v) error = nil", c)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in := Config{Scene: "/s.yaml", Output: "/o.png", Workers: 4, Debounce: Duration(time.Second)}
	data, err := in.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	path := writeConfig(t, string(data))
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v\n%s", err, data)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
