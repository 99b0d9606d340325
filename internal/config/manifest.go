// Package config loads and validates the oxide.toml application manifest.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Manifest is the root of oxide.toml, matching the Rust Manifest struct
// field-for-field (app, core, window, dev sections).
type Manifest struct {
	App    AppConfig    `toml:"app"`
	Core   CoreConfig   `toml:"core"`
	Window WindowConfig `toml:"window"`
	Dev    DevConfig    `toml:"dev"`
}

// AppConfig carries the user-facing application identity.
type AppConfig struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
	Entry       string `toml:"entry"`
}

// CoreConfig declares the minimum runtime version this manifest requires.
type CoreConfig struct {
	Requires string `toml:"requires"`
}

// WindowConfig controls the native window created at startup.
type WindowConfig struct {
	Title       string `toml:"title"`
	Width       uint32 `toml:"width"`
	Height      uint32 `toml:"height"`
	MinWidth    uint32 `toml:"min_width"`
	MinHeight   uint32 `toml:"min_height"`
	Resizable   bool   `toml:"resizable"`
	Decorations bool   `toml:"decorations"`
}

// DevConfig controls developer-facing tooling.
type DevConfig struct {
	HotReload   bool `toml:"hot_reload"`
	Inspector   bool `toml:"inspector"`
	DebugLayout bool `toml:"debug_layout"`
}

// Default returns the manifest used when no oxide.toml is found, matching
// the defaults documented in SPEC_FULL.md §7.
func Default() Manifest {
	return Manifest{
		App: AppConfig{
			ID:      "app.oxidekit",
			Name:    "OxideKit App",
			Version: "0.1.0",
			Entry:   "ui/app.oui",
		},
		Core: CoreConfig{Requires: ">=0.1.0"},
		Window: WindowConfig{
			Title:       "OxideKit App",
			Width:       1280,
			Height:      720,
			Resizable:   true,
			Decorations: true,
		},
		Dev: DevConfig{
			HotReload:   true,
			Inspector:   false,
			DebugLayout: false,
		},
	}
}

// Load reads and parses an oxide.toml file at path, filling any field left
// unset in the file with the value from Default().
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("config: reading manifest %q: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("config: parsing manifest %q: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("config: invalid manifest %q: %w", path, err)
	}

	return m, nil
}

// Validate checks structurally-required fields beyond what TOML parsing
// alone guarantees.
func (m Manifest) Validate() error {
	if m.Window.Width == 0 || m.Window.Height == 0 {
		return fmt.Errorf("window dimensions must be non-zero, got %dx%d", m.Window.Width, m.Window.Height)
	}
	return nil
}
