// Package config loads quill.toml, the per-project settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name searched for when no explicit path is given.
const FileName = "quill.toml"

// Config mirrors quill.toml. Zero values mean "use the default".
type Config struct {
	Diagnostics Diagnostics `toml:"diagnostics"`
	Check       Check       `toml:"check"`
}

type Diagnostics struct {
	Color    string `toml:"color"`     // auto|on|off
	Context  int    `toml:"context"`   // строки контекста вокруг меток
	Max      int    `toml:"max"`       // лимит диагностик на файл
	PathMode string `toml:"path_mode"` // relative|absolute|basename|auto
}

type Check struct {
	Jobs       int      `toml:"jobs"`
	Cache      bool     `toml:"cache"`
	Extensions []string `toml:"extensions"`
}

// Loaded is a decoded config together with where it came from.
// Path is empty when defaults are used.
type Loaded struct {
	Path   string
	Config Config
}

// Default returns the settings used without a quill.toml.
func Default() Config {
	return Config{
		Diagnostics: Diagnostics{Color: "auto", Context: 1, Max: 100, PathMode: "relative"},
		Check:       Check{Extensions: []string{".ql"}},
	}
}

// Find walks up from startDir looking for quill.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads an explicit config file, or discovers one from startDir when
// path is empty. A missing discovered file yields defaults; a missing
// explicit file is an error.
func Load(path, startDir string) (Loaded, error) {
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return Loaded{}, err
		}
		if !ok {
			return Loaded{Config: Default()}, nil
		}
		path = found
	}
	cfg, err := Decode(path)
	if err != nil {
		return Loaded{}, err
	}
	return Loaded{Path: path, Config: cfg}, nil
}

// Decode parses path on top of Default and validates the result.
func Decode(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	if !slices.Contains([]string{"auto", "on", "off"}, c.Diagnostics.Color) {
		return fmt.Errorf("[diagnostics].color must be auto, on or off, got %q", c.Diagnostics.Color)
	}
	if !slices.Contains([]string{"relative", "absolute", "basename", "auto"}, c.Diagnostics.PathMode) {
		return fmt.Errorf("[diagnostics].path_mode: unknown mode %q", c.Diagnostics.PathMode)
	}
	if c.Diagnostics.Context < 0 {
		return fmt.Errorf("[diagnostics].context must be >= 0")
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("[diagnostics].max must be >= 0")
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must be >= 0")
	}
	for _, ext := range c.Check.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("[check].extensions: %q must start with a dot", ext)
		}
	}
	return nil
}
