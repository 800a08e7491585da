package rules

import "ocalint/internal/config"

// ForFile builds fresh rule instances for one file, in a fixed order.
// The manifest rule joins only for manifest filenames.
func ForFile(cfg *config.Config, filename string, src []byte) []Rule {
	out := []Rule{
		newPrintRule(cfg, filename, src),
		newCommitRule(cfg, filename, src),
		newSQLInjectionRule(cfg, filename, src),
		newImportRule(cfg, filename, src),
		newMethodRule(cfg, filename, src),
		newTranslationRule(cfg, filename, src),
	}
	if IsManifest(filename) {
		out = append(out, newManifestRule(cfg, filename, src))
	}
	return out
}

// Names lists the rule names ForFile can return, manifest last.
func Names() []string {
	return []string{"print", "commit", "sql-injection", "imports", "methods", "translation", "manifest"}
}
