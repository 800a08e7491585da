package literal

import "ocalint/internal/pytree"

// ManifestDict finds the dict literal a manifest file defines. It scans the
// module body in order and takes the first statement that is either a
// single-target assignment to a plain name whose value is a dict display,
// or a bare dict expression. Chained and annotated assignments do not count.
func ManifestDict(module pytree.Node) (*Mapping, bool) {
	for _, stmt := range module.NamedChildren() {
		if stmt.Type() != "expression_statement" {
			continue
		}
		// `{...}, 2` is a tuple statement, not a dict
		exprs := stmt.NamedChildren()
		if len(exprs) != 1 {
			continue
		}
		dict, ok := manifestCandidate(exprs[0])
		if !ok {
			continue
		}
		v, err := Eval(dict)
		if err != nil {
			continue
		}
		m, _ := v.AsDict()
		return m, true
	}
	return nil, false
}

func manifestCandidate(expr pytree.Node) (pytree.Node, bool) {
	if pytree.Unparen(expr).Type() == "dictionary" {
		return expr, true
	}
	if expr.Type() != "assignment" || !expr.Field("type").IsNil() {
		return pytree.Node{}, false
	}
	if _, ok := pytree.Name(expr.Field("left")); !ok {
		return pytree.Node{}, false
	}
	value := expr.Field("right")
	if pytree.Unparen(value).Type() != "dictionary" {
		return pytree.Node{}, false
	}
	return value, true
}
