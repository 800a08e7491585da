package rules

import (
	"fmt"
	"strings"

	"ocalint/internal/config"
	"ocalint/internal/diag"
	"ocalint/internal/pytree"
)

const (
	msgComputeName   = `Name of compute method should start with "_compute_"`
	computePrefix    = "_compute_"
	dependsDecorator = "api.depends"
)

// superRequired lists the ORM overrides that must chain to super().
var superRequired = map[string]bool{
	"create": true,
	"write":  true,
	"copy":   true,
	"unlink": true,
}

// methodRule checks compute method naming and missing super() calls in
// ORM overrides.
type methodRule struct{ base }

func newMethodRule(cfg *config.Config, filename string, src []byte) *methodRule {
	return &methodRule{base: newBase(cfg, filename, src)}
}

func (r *methodRule) Name() string { return "methods" }

func (r *methodRule) FunctionDef(n pytree.Node) {
	name := pytree.FunctionName(n)
	for _, dec := range pytree.Decorators(n) {
		if decoratorName(dec) == dependsDecorator && !strings.HasPrefix(name, computePrefix) {
			r.emit(diag.MethodCompute, diag.SevConvention, n, msgComputeName)
		}
	}
	if !superRequired[name] {
		return
	}
	body := pytree.FunctionBody(n)
	if isTrivialBody(body) || callsSuper(body) {
		return
	}
	r.emit(diag.MethodRequiredSuper, diag.SevWarning, n,
		fmt.Sprintf("Missing `super` call in \"%s\" method.", name))
}

// decoratorName renders `name`, `obj.attr` and `obj.attr(...)` decorators.
// An attribute on anything but a bare name renders with an empty object,
// e.g. `.depends`.
func decoratorName(dec pytree.Node) string {
	dec = pytree.Unparen(dec)
	if name, ok := pytree.Name(dec); ok {
		return name
	}
	target := dec
	if dec.Type() == "call" {
		target = pytree.CallFunc(dec)
	}
	obj, attr, ok := pytree.Attribute(target)
	if !ok {
		return ""
	}
	objName, _ := pytree.Name(obj)
	return objName + "." + attr
}

// isTrivialBody matches a body made of a single `pass` or a single
// constant expression such as a docstring or `...`.
func isTrivialBody(body []pytree.Node) bool {
	if len(body) != 1 {
		return false
	}
	stmt := body[0]
	switch stmt.Type() {
	case "pass_statement":
		return true
	case "expression_statement":
		exprs := stmt.NamedChildren()
		return len(exprs) == 1 && pytree.IsConstant(exprs[0])
	}
	return false
}

func callsSuper(body []pytree.Node) bool {
	found := false
	for _, stmt := range body {
		pytree.Inspect(stmt, func(n pytree.Node) bool {
			if found {
				return false
			}
			if n.Type() == "call" {
				if name, ok := calleeName(n); ok && name == "super" {
					found = true
					return false
				}
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}
