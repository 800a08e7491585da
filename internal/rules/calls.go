package rules

import (
	"ocalint/internal/config"
	"ocalint/internal/diag"
	"ocalint/internal/pytree"
)

const (
	msgPrintUsed    = "Print used. Use `logger` instead."
	msgCommit       = "Use of cr.commit() directly - More info " + contributingURL + "#never-commit-the-transaction"
	msgSQLInjection = "SQL injection risk. Use parameters if you can. - More info " + contributingURL + "#no-sql-injection"
	msgTranslation  = "Use lazy % or .format() or % formatting in odoo._ functions"

	contributingURL = "https://github.com/OCA/odoo-community.org/blob/master/website/Contribution/CONTRIBUTING.rst"
)

// printRule flags calls to the print builtin.
type printRule struct{ base }

func newPrintRule(cfg *config.Config, filename string, src []byte) *printRule {
	return &printRule{base: newBase(cfg, filename, src)}
}

func (r *printRule) Name() string { return "print" }

func (r *printRule) Call(n pytree.Node) {
	if name, ok := calleeName(n); ok && name == "print" {
		r.emit(diag.PrintUsed, diag.SevWarning, n, msgPrintUsed)
	}
}

// commitRule flags explicit transaction commits on a cursor.
type commitRule struct{ base }

func newCommitRule(cfg *config.Config, filename string, src []byte) *commitRule {
	return &commitRule{base: newBase(cfg, filename, src)}
}

func (r *commitRule) Name() string { return "commit" }

func (r *commitRule) Call(n pytree.Node) {
	if isCursorCall(n, "commit") {
		r.emit(diag.InvalidCommit, diag.SevError, n, msgCommit)
	}
}

// sqlInjectionRule flags cursor.execute calls whose query is built with
// string formatting.
type sqlInjectionRule struct{ base }

func newSQLInjectionRule(cfg *config.Config, filename string, src []byte) *sqlInjectionRule {
	return &sqlInjectionRule{base: newBase(cfg, filename, src)}
}

func (r *sqlInjectionRule) Name() string { return "sql-injection" }

func (r *sqlInjectionRule) Call(n pytree.Node) {
	if !isCursorCall(n, "execute") {
		return
	}
	query, ok := pytree.FirstArg(n)
	if !ok || !isFormattedString(query) {
		return
	}
	r.emit(diag.SQLInjection, diag.SevError, n, msgSQLInjection)
}

// isFormattedString matches `a % b` (any binary operator), f-strings and
// `"...".format(...)`.
func isFormattedString(n pytree.Node) bool {
	switch n.Type() {
	case "binary_operator":
		return true
	case "call":
		_, attr, ok := pytree.Attribute(pytree.CallFunc(n))
		return ok && attr == "format"
	}
	return pytree.IsFString(n)
}

// translationRule flags f-strings passed to the `_` translation helper.
type translationRule struct{ base }

func newTranslationRule(cfg *config.Config, filename string, src []byte) *translationRule {
	return &translationRule{base: newBase(cfg, filename, src)}
}

func (r *translationRule) Name() string { return "translation" }

func (r *translationRule) Call(n pytree.Node) {
	name, ok := calleeName(n)
	if !ok || name != "_" {
		return
	}
	if arg, ok := pytree.FirstArg(n); ok && pytree.IsFString(arg) {
		r.emit(diag.TranslationFString, diag.SevWarning, n, msgTranslation)
	}
}
