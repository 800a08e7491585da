package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every syntax or schema problem in a configuration file.
var ErrInvalid = errors.New("invalid configuration")

// PyprojectSection is the table read from pyproject.toml.
const PyprojectSection = "tool.ocalint"

// Candidates are tried in this order in every directory Discover visits.
var Candidates = []string{"ocalint.toml", ".ocalint.yaml", ".ocalint.yml", "pyproject.toml"}

const schemaURL = "ocalint://config.schema.json"

//go:embed schema.json
var schemaSource string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Load reads a configuration file. The format follows the file name:
// *.yaml/*.yml are YAML, pyproject.toml contributes its [tool.ocalint]
// table, any other file is a TOML document with top-level keys.
// Keys the file does not set keep their defaults.
func Load(path string) (*Config, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	cfg, err := fromRaw(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Discover walks from dir up to the filesystem root and loads the first
// configuration file it finds. A pyproject.toml without a [tool.ocalint]
// table does not count. When nothing is found the defaults are returned.
func Discover(dir string) (*Config, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range Candidates {
			candidate := filepath.Join(abs, name)
			if _, err := os.Stat(candidate); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return nil, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
			if name == "pyproject.toml" {
				ok, err := pyprojectHasSection(candidate)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
			}
			return Load(candidate)
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			break
		}
		abs = parent
	}
	return Default(), nil
}

func isPyproject(path string) bool {
	return filepath.Base(path) == "pyproject.toml"
}

func pyprojectHasSection(path string) (bool, error) {
	var doc map[string]any
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return false, fmt.Errorf("%s: failed to parse TOML: %w: %w", path, ErrInvalid, err)
	}
	return meta.IsDefined(strings.Split(PyprojectSection, ".")...), nil
}

func readRaw(path string) (map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w: %w", path, ErrInvalid, err)
		}
		return doc, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var doc map[string]any
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w: %w", path, ErrInvalid, err)
	}
	if !isPyproject(path) {
		return doc, nil
	}
	keys := strings.Split(PyprojectSection, ".")
	if !meta.IsDefined(keys...) {
		return nil, nil
	}
	tool, _ := doc[keys[0]].(map[string]any)
	section, ok := tool[keys[1]].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: [%s] must be a table: %w", path, PyprojectSection, ErrInvalid)
	}
	return section, nil
}

// fromRaw validates a decoded document against the schema and overlays it
// on the defaults. The JSON round trip normalises TOML and YAML scalar
// types into what the validator expects.
func fromRaw(raw map[string]any) (*Config, error) {
	cfg := Default()
	if len(raw) == 0 {
		return cfg, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return cfg, nil
}

// Encode writes cfg in the requested format ("toml" or "yaml").
func Encode(cfg *Config, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "toml":
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return []byte(b.String()), nil
	case "yaml", "yml":
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown config format %q", format)
}
