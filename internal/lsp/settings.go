package lsp

import (
	"encoding/json"
	"path/filepath"
	"slices"

	"ocalint/internal/config"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	s.applySettings(params.Settings)
	s.reloadConfig()
	s.scheduleDiagnostics()
	return nil
}

// applySettings merges client settings into the overrides. Fields absent
// from raw keep their previous values.
func (s *Server) applySettings(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logf("ignoring malformed settings: %v", err)
		return
	}
	in := settings.Ocalint
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.ConfigPath != nil {
		s.overrides.ConfigPath = in.ConfigPath
	}
	if in.Enable != nil {
		s.overrides.Enable = slices.Clone(in.Enable)
	}
	if in.Disable != nil {
		s.overrides.Disable = slices.Clone(in.Disable)
	}
	if in.Trace != nil {
		s.traceLSP = *in.Trace
	}
}

// reloadConfig rebuilds the effective configuration and marks every open
// document for re-analysis. A configuration that fails to load is logged
// and replaced by the defaults.
func (s *Server) reloadConfig() {
	s.mu.Lock()
	root := s.workspaceRoot
	fixed := s.fixedConfig
	base := s.base
	ov := s.overrides
	s.mu.Unlock()

	if !fixed {
		var (
			cfg *config.Config
			err error
		)
		switch {
		case ov.ConfigPath != nil && *ov.ConfigPath != "":
			path := *ov.ConfigPath
			if !filepath.IsAbs(path) && root != "" {
				path = filepath.Join(root, path)
			}
			cfg, err = config.Load(path)
		case root != "":
			cfg, err = config.Discover(root)
		default:
			cfg = config.Default()
		}
		if err != nil {
			s.logf("config: %v", err)
			cfg = config.Default()
		}
		base = cfg
	}

	eff := base.Clone()
	if ov.Enable != nil {
		eff.Enable = slices.Clone(ov.Enable)
	}
	if ov.Disable != nil {
		eff.Disable = slices.Clone(ov.Disable)
	}

	s.mu.Lock()
	s.base = base
	s.cfg = eff
	s.mu.Unlock()
	s.markAllDirty()
}
