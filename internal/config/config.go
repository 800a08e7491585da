// Package config holds the linter settings shared read-only by every rule.
package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Config is the effective linter configuration. It is never mutated after
// Load returns, so a single value is shared by all workers.
type Config struct {
	ValidVersions   []string `toml:"valid-odoo-versions" yaml:"valid-odoo-versions" json:"valid-odoo-versions"`
	OutputFormat    string   `toml:"output-format" yaml:"output-format" json:"output-format"`
	Enable          []string `toml:"enable" yaml:"enable" json:"enable"`
	Disable         []string `toml:"disable" yaml:"disable" json:"disable"`
	RequiredAuthors []string `toml:"manifest-required-authors" yaml:"manifest-required-authors" json:"manifest-required-authors"`
	AllowedLicenses []string `toml:"license-allowed" yaml:"license-allowed" json:"license-allowed"`
	AllowedStatuses []string `toml:"development-status-allowed" yaml:"development-status-allowed" json:"development-status-allowed"`
	Exclude         []string `toml:"exclude" yaml:"exclude" json:"exclude"`

	// Source is the file the values came from; empty for defaults.
	Source string `toml:"-" yaml:"-" json:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ValidVersions: []string{"14.0", "15.0", "16.0", "17.0", "18.0"},
		OutputFormat:  "text",
		Enable:        []string{},
		Disable:       []string{},
		RequiredAuthors: []string{
			"Odoo Community Association (OCA)",
		},
		AllowedLicenses: []string{
			"AGPL-3",
			"LGPL-3",
			"GPL-2",
			"GPL-2 or any later version",
			"GPL-3",
			"GPL-3 or any later version",
		},
		AllowedStatuses: []string{"Alpha", "Beta", "Production/Stable", "Mature"},
		Exclude: []string{
			".git",
			".tox",
			".venv",
			"venv",
			"__pycache__",
			"*.egg-info",
			"build",
			"dist",
		},
	}
}

// IsEnabled reports whether diagnostics with the given code should be
// emitted. An empty Enable list enables everything; Disable always wins.
func (c *Config) IsEnabled(code string) bool {
	if c == nil {
		return true
	}
	if len(c.Enable) > 0 && !slices.Contains(c.Enable, code) {
		return false
	}
	return !slices.Contains(c.Disable, code)
}

// IsExcluded reports whether path matches one of the exclude patterns.
// Plain patterns match as substrings of the path. Patterns with glob
// metacharacters match any single path segment or the whole path.
func (c *Config) IsExcluded(path string) bool {
	if c == nil || len(c.Exclude) == 0 {
		return false
	}
	slashed := filepath.ToSlash(path)
	var segments []string
	for _, pattern := range c.Exclude {
		if pattern == "" {
			continue
		}
		if !isGlob(pattern) {
			if strings.Contains(slashed, pattern) {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
		if segments == nil {
			segments = strings.Split(slashed, "/")
		}
		for _, seg := range segments {
			if ok, _ := doublestar.Match(pattern, seg); ok {
				return true
			}
		}
	}
	return false
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Clone returns a deep copy; used by the CLI before applying flag overrides.
func (c *Config) Clone() *Config {
	if c == nil {
		return Default()
	}
	out := *c
	out.ValidVersions = slices.Clone(c.ValidVersions)
	out.Enable = slices.Clone(c.Enable)
	out.Disable = slices.Clone(c.Disable)
	out.RequiredAuthors = slices.Clone(c.RequiredAuthors)
	out.AllowedLicenses = slices.Clone(c.AllowedLicenses)
	out.AllowedStatuses = slices.Clone(c.AllowedStatuses)
	out.Exclude = slices.Clone(c.Exclude)
	return &out
}
