// Package config holds the generator settings: output layout, the skip
// directives for hand-defined types, and the instrumentation toggle.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config drives one generation run.
type Config struct {
	// Package is the Go package name of the emitted files.
	Package string `toml:"package"`
	// Output is the directory the emitted files are written to.
	Output string `toml:"output"`
	// Runtime is the import path of the runtime package the emitted
	// code links against.
	Runtime string `toml:"runtime"`
	// Instrument emits a diagnostic call record before every wrapper
	// call. Off by default.
	Instrument bool `toml:"instrument"`
	// Skip lists types ("Widget") or members ("Widget.GetValue") that
	// are already hand-defined and must be silently omitted.
	Skip []string `toml:"skip"`

	skipSet map[string]bool
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{
		Package: "bindings",
		Output:  "./bindings",
		Runtime: "gobind/bindrt",
	}
}

// Load reads a TOML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("reading config: unknown key %s", undecoded[0])
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Package == "" {
		return fmt.Errorf("config: package name must not be empty")
	}
	if c.Runtime == "" {
		return fmt.Errorf("config: runtime import path must not be empty")
	}
	for _, entry := range c.Skip {
		if entry == "" || strings.Count(entry, ".") > 1 {
			return fmt.Errorf("config: bad skip entry %q, want Type or Type.Member", entry)
		}
	}
	return nil
}

func (c *Config) skips() map[string]bool {
	if c.skipSet == nil {
		c.skipSet = make(map[string]bool, len(c.Skip))
		for _, entry := range c.Skip {
			c.skipSet[entry] = true
		}
	}
	return c.skipSet
}

// SkipType reports whether a whole type is hand-defined elsewhere.
func (c *Config) SkipType(typeName string) bool {
	return c.skips()[typeName]
}

// SkipMember reports whether one member of a type is hand-defined.
func (c *Config) SkipMember(typeName, member string) bool {
	return c.skips()[typeName+"."+member]
}
