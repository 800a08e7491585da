package pytree

import "strings"

// Unparen strips redundant parentheses: ((x)) is x in CPython's tree.
func Unparen(n Node) Node {
	for n.Type() == "parenthesized_expression" {
		inner := n.NamedChildren()
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}

// Name returns the identifier text when n is a bare name.
func Name(n Node) (string, bool) {
	n = Unparen(n)
	if n.Type() != "identifier" {
		return "", false
	}
	return n.Text(), true
}

// Attribute splits `object.attr`.
func Attribute(n Node) (object Node, attr string, ok bool) {
	n = Unparen(n)
	if n.Type() != "attribute" {
		return Node{}, "", false
	}
	return n.Field("object"), n.Field("attribute").Text(), true
}

// CallFunc returns the callee of a call node.
func CallFunc(call Node) Node {
	return call.Field("function")
}

// CallArgs returns the positional arguments of a call, in order.
// Keyword arguments and **kwargs are not positional; *args is.
func CallArgs(call Node) []Node {
	args := call.Field("arguments")
	switch args.Type() {
	case "argument_list":
	case "generator_expression":
		return []Node{args}
	default:
		return nil
	}
	var out []Node
	for _, a := range args.NamedChildren() {
		switch a.Type() {
		case "keyword_argument", "dictionary_splat":
			continue
		}
		out = append(out, a)
	}
	return out
}

// FirstArg returns the first positional argument with parentheses removed.
func FirstArg(call Node) (Node, bool) {
	args := CallArgs(call)
	if len(args) == 0 {
		return Node{}, false
	}
	return Unparen(args[0]), true
}

// ImportFromModule returns the dotted module of a `from X import ...`
// statement. Relative imports yield the part after the dots; `from . import x`
// has no module.
func ImportFromModule(n Node) (string, bool) {
	if n.Type() == "future_import_statement" {
		return "__future__", true
	}
	mod := n.Field("module_name")
	switch mod.Type() {
	case "dotted_name":
		return dottedName(mod), true
	case "relative_import":
		for _, c := range mod.NamedChildren() {
			if c.Type() == "dotted_name" {
				return dottedName(c), true
			}
		}
	}
	return "", false
}

// ImportFromNames returns the imported names, using the original name for
// aliased imports (`from m import a as b` yields "a").
func ImportFromNames(n Node) []string {
	children := n.NamedChildren()
	if n.Type() == "import_from_statement" && len(children) > 0 {
		// first named child is the module_name field
		children = children[1:]
	}
	var out []string
	for _, c := range children {
		switch c.Type() {
		case "dotted_name":
			out = append(out, dottedName(c))
		case "aliased_import":
			out = append(out, dottedName(c.Field("name")))
		case "wildcard_import":
			out = append(out, "*")
		}
	}
	return out
}

func dottedName(n Node) string {
	var parts []string
	for _, c := range n.NamedChildren() {
		if c.Type() == "identifier" {
			parts = append(parts, c.Text())
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(n.Text())
	}
	return strings.Join(parts, ".")
}

// FunctionName returns the name of a function definition.
func FunctionName(fn Node) string {
	return fn.Field("name").Text()
}

// FunctionBody returns the statements of the function body.
func FunctionBody(fn Node) []Node {
	return fn.Field("body").NamedChildren()
}

// Decorators returns the decorator expressions applied to a definition,
// outermost first.
func Decorators(def Node) []Node {
	parent := def.Parent()
	if parent.Type() != "decorated_definition" {
		return nil
	}
	var out []Node
	for _, c := range parent.NamedChildren() {
		if c.Type() != "decorator" {
			continue
		}
		if expr := c.NamedChildren(); len(expr) > 0 {
			out = append(out, expr[0])
		}
	}
	return out
}

// IsFString reports an f-string, including an implicit concatenation that
// contains one.
func IsFString(n Node) bool {
	n = Unparen(n)
	switch n.Type() {
	case "string":
		prefix, _, _, ok := splitStringLiteral(n.Text())
		return ok && strings.ContainsAny(prefix, "fF")
	case "concatenated_string":
		for _, c := range n.NamedChildren() {
			if IsFString(c) {
				return true
			}
		}
	}
	return false
}

// IsConstant reports a node CPython folds into an ast.Constant.
func IsConstant(n Node) bool {
	n = Unparen(n)
	switch n.Type() {
	case "integer", "float", "true", "false", "none", "ellipsis":
		return true
	case "string", "concatenated_string":
		return !IsFString(n)
	}
	return false
}
