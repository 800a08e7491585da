package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestIsEnabled(t *testing.T) {
	tests := []struct {
		name    string
		enable  []string
		disable []string
		code    string
		want    bool
	}{
		{name: "defaults", code: "OCA001", want: true},
		{name: "enabled", enable: []string{"OCA001"}, code: "OCA001", want: true},
		{name: "not in enable list", enable: []string{"OCA001"}, code: "OCA002", want: false},
		{name: "disabled", disable: []string{"OCA001"}, code: "OCA001", want: false},
		{name: "disable wins", enable: []string{"OCA001"}, disable: []string{"OCA001"}, code: "OCA001", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Enable = tt.enable
			cfg.Disable = tt.disable
			if got := cfg.IsEnabled(tt.code); got != tt.want {
				t.Fatalf("IsEnabled(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestIsExcluded(t *testing.T) {
	cfg := Default()
	tests := []struct {
		path string
		want bool
	}{
		{path: "addons/sale/models/order.py", want: false},
		{path: "addons/.venv/lib/x.py", want: true},
		{path: "addons/__pycache__/x.py", want: true},
		{path: "pkg/foo.egg-info/setup.py", want: true},
		{path: "build/lib/x.py", want: true},
		// substring semantics: "build" also matches inside other names
		{path: "src/rebuild_tools.py", want: true},
	}
	for _, tt := range tests {
		if got := cfg.IsExcluded(tt.path); got != tt.want {
			t.Errorf("IsExcluded(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	cfg.Exclude = []string{"**/migrations/**"}
	if !cfg.IsExcluded("mod/migrations/16.0.1.0.0/pre.py") {
		t.Errorf("doublestar pattern did not match")
	}
	if cfg.IsExcluded("mod/models/x.py") {
		t.Errorf("doublestar pattern matched unrelated path")
	}
}

func TestLoadPyprojectSection(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pyproject.toml", `
[project]
name = "x"

[tool.ocalint]
valid-odoo-versions = ["17.0"]
disable = ["OCA001"]
output-format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg.ValidVersions, []string{"17.0"}) {
		t.Errorf("ValidVersions = %v", cfg.ValidVersions)
	}
	if cfg.OutputFormat != "json" {
		t.Errorf("OutputFormat = %q", cfg.OutputFormat)
	}
	if cfg.IsEnabled("OCA001") {
		t.Errorf("OCA001 should be disabled")
	}
	if !reflect.DeepEqual(cfg.RequiredAuthors, Default().RequiredAuthors) {
		t.Errorf("unset keys must keep defaults, got %v", cfg.RequiredAuthors)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q", cfg.Source)
	}
}

func TestLoadPyprojectWithoutSectionUsesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pyproject.toml", "[project]\nname = \"x\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg.Exclude, Default().Exclude) {
		t.Errorf("Exclude = %v", cfg.Exclude)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".ocalint.yaml", `
enable: [OCA009, OCA010]
license-allowed:
  - LGPL-3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsEnabled("OCA010") || cfg.IsEnabled("OCA001") {
		t.Errorf("enable list not applied: %v", cfg.Enable)
	}
	if !reflect.DeepEqual(cfg.AllowedLicenses, []string{"LGPL-3"}) {
		t.Errorf("AllowedLicenses = %v", cfg.AllowedLicenses)
	}
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "toml syntax", file: "ocalint.toml", content: "enable = [\n"},
		{name: "yaml syntax", file: ".ocalint.yml", content: "enable: [OCA001\n"},
		{name: "unknown key", file: "ocalint.toml", content: "enabled = [\"OCA001\"]\n"},
		{name: "wrong type", file: "ocalint.toml", content: "exclude = \"build\"\n"},
		{name: "bad code", file: ".ocalint.yaml", content: "disable: [W0101]\n"},
		{name: "bad format", file: "ocalint.toml", content: "output-format = \"xml\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, err := Load(path)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pyproject.toml", "[tool.ocalint]\ndisable = [\"OCA002\"]\n")
	// A pyproject without the section closer to the start does not stop the search.
	writeFile(t, root, "a/pyproject.toml", "[project]\nname = \"a\"\n")
	start := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(start, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Discover(start)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.IsEnabled("OCA002") {
		t.Errorf("expected config from root pyproject, got source %q", cfg.Source)
	}
}

func TestEncode(t *testing.T) {
	cfg := Default()
	out, err := Encode(cfg, "toml")
	if err != nil {
		t.Fatalf("Encode toml: %v", err)
	}
	if !strings.Contains(string(out), "valid-odoo-versions") {
		t.Errorf("toml output missing keys:\n%s", out)
	}
	path := writeFile(t, t.TempDir(), "ocalint.toml", string(out))
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload encoded config: %v", err)
	}
	if !reflect.DeepEqual(back.AllowedStatuses, cfg.AllowedStatuses) {
		t.Errorf("AllowedStatuses = %v", back.AllowedStatuses)
	}

	y, err := Encode(cfg, "yaml")
	if err != nil {
		t.Fatalf("Encode yaml: %v", err)
	}
	if !strings.Contains(string(y), "manifest-required-authors:") {
		t.Errorf("yaml output missing keys:\n%s", y)
	}
	if _, err := Encode(cfg, "ini"); err == nil {
		t.Errorf("expected error for unknown format")
	}
}
