package rules

import (
	"fmt"
	"strings"

	"ocalint/internal/config"
	"ocalint/internal/diag"
	"ocalint/internal/pytree"
)

const msgExceptionWarning = "`odoo.exceptions.Warning` is a deprecated alias to `odoo.exceptions.UserError` " +
	"use `from odoo.exceptions import UserError`"

// importRule checks `from X import ...` statements:
// absolute imports of the addon being linted, and the deprecated Warning
// exception alias.
type importRule struct{ base }

func newImportRule(cfg *config.Config, filename string, src []byte) *importRule {
	return &importRule{base: newBase(cfg, filename, src)}
}

func (r *importRule) Name() string { return "imports" }

func (r *importRule) ImportFrom(n pytree.Node) {
	module, ok := pytree.ImportFromModule(n)
	if !ok || module == "" {
		return
	}
	if addon, ok := addonName(module); ok && strings.Contains(r.filename, addon) {
		r.emit(diag.AddonsRelativeImport, diag.SevWarning, n, fmt.Sprintf(
			`Same Odoo module absolute import. You should use relative import with "." instead of "odoo.addons.%s"`,
			addon))
	}
	if module != "odoo.exceptions" {
		return
	}
	for _, name := range pytree.ImportFromNames(n) {
		if name == "Warning" {
			r.emit(diag.ExceptionWarning, diag.SevRefactor, n, msgExceptionWarning)
		}
	}
}

// addonName extracts <mod> from odoo.addons.<mod>[.rest].
func addonName(module string) (string, bool) {
	parts := strings.Split(module, ".")
	if len(parts) < 3 || parts[0] != "odoo" || parts[1] != "addons" {
		return "", false
	}
	return parts[2], true
}
