package config

import (
	"github.com/justapithecus/hilt/paths"
	"github.com/justapithecus/hilt/types"
)

// Session defaults, used when neither flag nor config file sets a value.
const (
	DefaultSeed   = int64(42)
	DefaultMaxLen = 1000
)

// Config represents a hilt.yaml configuration file.
// All values are optional and act as defaults for the labeling commands.
// CLI flags always override config values.
type Config struct {
	Seed      *int64          `yaml:"seed"`
	MaxLen    *int            `yaml:"max_len"`
	Dirs      DirsConfig      `yaml:"dirs"`
	Annotator types.Annotator `yaml:"annotator"`
}

// DirsConfig overrides pieces of the directory layout.
type DirsConfig struct {
	Inputs  string `yaml:"inputs"`
	Outputs string `yaml:"outputs"`
	Logs    string `yaml:"logs"`
	Reports string `yaml:"reports"`
	Merged  string `yaml:"merged"`
}

// SeedOr returns the configured seed or fallback.
func (c *Config) SeedOr(fallback int64) int64 {
	if c != nil && c.Seed != nil {
		return *c.Seed
	}
	return fallback
}

// MaxLenOr returns the configured max_len or fallback.
func (c *Config) MaxLenOr(fallback int) int {
	if c != nil && c.MaxLen != nil {
		return *c.MaxLen
	}
	return fallback
}

// ResolveDirs merges configured directory overrides over the defaults.
func (c *Config) ResolveDirs() paths.Dirs {
	d := paths.DefaultDirs()
	if c == nil {
		return d
	}
	if c.Dirs.Inputs != "" {
		d.Inputs = c.Dirs.Inputs
	}
	if c.Dirs.Outputs != "" {
		d.Outputs = c.Dirs.Outputs
	}
	if c.Dirs.Logs != "" {
		d.Logs = c.Dirs.Logs
	}
	if c.Dirs.Reports != "" {
		d.Reports = c.Dirs.Reports
	}
	if c.Dirs.Merged != "" {
		d.Merged = c.Dirs.Merged
	}
	return d
}
