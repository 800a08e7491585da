// Package rules implements the Odoo checks. Every rule observes the nodes
// it cares about during the shared tree walk and collects its own
// diagnostics; rules never fail and never modify the tree.
package rules

import (
	"ocalint/internal/config"
	"ocalint/internal/diag"
	"ocalint/internal/pytree"
)

// Rule is a per-file checker instance.
type Rule interface {
	pytree.Visitor
	// Name identifies the rule in traces and metrics.
	Name() string
	// Diagnostics returns what the rule found, in emission order.
	Diagnostics() []diag.Diagnostic
}

// base carries the state every rule needs. A base is created per file and
// never reused.
type base struct {
	pytree.BaseVisitor
	cfg      *config.Config
	filename string
	source   []byte
	diags    []diag.Diagnostic
}

func newBase(cfg *config.Config, filename string, source []byte) base {
	if cfg == nil {
		cfg = config.Default()
	}
	return base{cfg: cfg, filename: filename, source: source}
}

func (b *base) Diagnostics() []diag.Diagnostic {
	return b.diags
}

// emit records a diagnostic at n unless the code is switched off.
// Nodes without a location (the module itself) are reported at 1:0.
func (b *base) emit(code diag.Code, sev diag.Severity, n pytree.Node, msg string) {
	if !b.cfg.IsEnabled(code.ID()) {
		return
	}
	pos := diag.NoPosition
	if sp, ok := n.Span(); ok {
		pos = diag.Position{
			Line:      sp.Line,
			Column:    sp.Column,
			EndLine:   sp.EndLine,
			EndColumn: sp.EndColumn,
		}
	}
	b.diags = append(b.diags, diag.New(code, sev, b.filename, pos, msg))
}

// cursorNames are the receivers treated as a database cursor.
var cursorNames = map[string]bool{
	"cr":     true,
	"cursor": true,
	"_cr":    true,
}

// isCursorCall matches `<cursor>.<method>(...)`.
func isCursorCall(call pytree.Node, method string) bool {
	obj, attr, ok := pytree.Attribute(pytree.CallFunc(call))
	if !ok || attr != method {
		return false
	}
	name, ok := pytree.Name(obj)
	return ok && cursorNames[name]
}

// calleeName returns the bare callee name of `name(...)`.
func calleeName(call pytree.Node) (string, bool) {
	return pytree.Name(pytree.CallFunc(call))
}
