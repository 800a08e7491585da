package pytree

import "strings"

// Python 2 statements that tree-sitter still accepts but CPython 3 rejects.
var legacyStatements = map[string]bool{
	"print_statement": true,
	"exec_statement":  true,
}

// rejected reports constructs the grammar accepts but CPython's parser
// refuses, such as Python 2 statements or `del f()`.
func rejected(n Node) bool {
	if legacyStatements[n.Type()] || !wellFormed(n) {
		return true
	}
	for _, c := range n.NamedChildren() {
		if rejected(c) {
			return true
		}
	}
	return false
}

func wellFormed(n Node) bool {
	switch n.Type() {
	case "delete_statement":
		for _, target := range n.NamedChildren() {
			if !deletable(target) {
				return false
			}
		}
	case "assignment":
		left := n.Field("left")
		if !n.Field("type").IsNil() {
			return singleTarget(left)
		}
		return assignable(left)
	case "augmented_assignment":
		return singleTarget(n.Field("left"))
	case "for_statement":
		return assignable(n.Field("left"))
	case "parameters", "lambda_parameters":
		return defaultsOrdered(n)
	case "integer":
		return validInteger(n.Text())
	case "for_in_clause":
		// `for x in a, b` inside a comprehension is Python 2 only
		return !hasComma(n)
	case "call":
		return generatorAlone(n.Field("arguments"))
	case "string":
		return validNamedEscapes(n.Text())
	case "concatenated_string":
		return sameLiteralKind(n)
	}
	return true
}

func validNamedEscapes(lit string) bool {
	prefix, _, body, ok := splitStringLiteral(lit)
	if !ok || strings.ContainsAny(prefix, "rRbBfF") || !strings.Contains(body, `\N`) {
		return true
	}
	_, err := unescape(body)
	return err == nil
}

// sameLiteralKind rejects "a" b"b": bytes and str never concatenate.
func sameLiteralKind(n Node) bool {
	kind := -1
	for _, c := range n.NamedChildren() {
		prefix, _, _, ok := splitStringLiteral(c.Text())
		if !ok {
			continue
		}
		k := 0
		if isBytesPrefix(prefix) {
			k = 1
		}
		if kind >= 0 && k != kind {
			return false
		}
		kind = k
	}
	return true
}

func assignable(n Node) bool {
	switch n.Type() {
	case "identifier", "attribute", "subscript":
		return true
	case "parenthesized_expression":
		return assignable(firstNamed(n))
	case "pattern_list", "tuple_pattern", "list_pattern", "expression_list", "tuple", "list":
		starred := 0
		for _, c := range n.NamedChildren() {
			if c.Type() == "list_splat_pattern" || c.Type() == "list_splat" {
				if starred++; starred > 1 {
					return false
				}
				c = firstNamed(c)
			}
			if !assignable(c) {
				return false
			}
		}
		return true
	}
	return false
}

// singleTarget accepts what augmented and annotated assignments allow:
// one name, attribute or subscript, optionally parenthesized.
func singleTarget(n Node) bool {
	switch n.Type() {
	case "identifier", "attribute", "subscript":
		return true
	case "parenthesized_expression":
		return singleTarget(firstNamed(n))
	case "tuple_pattern":
		items := n.NamedChildren()
		return len(items) == 1 && !hasComma(n) && singleTarget(items[0])
	}
	return false
}

func deletable(n Node) bool {
	switch n.Type() {
	case "identifier", "attribute", "subscript":
		return true
	case "parenthesized_expression":
		return deletable(firstNamed(n))
	case "expression_list", "tuple", "list", "pattern_list", "tuple_pattern", "list_pattern":
		for _, c := range n.NamedChildren() {
			if !deletable(c) {
				return false
			}
		}
		return true
	}
	return false
}

// defaultsOrdered checks that no positional parameter without a default
// follows one with a default. Keyword-only parameters are exempt.
func defaultsOrdered(params Node) bool {
	seenDefault := false
	for _, p := range params.NamedChildren() {
		switch p.Type() {
		case "default_parameter", "typed_default_parameter":
			seenDefault = true
		case "typed_parameter":
			switch firstNamed(p).Type() {
			case "list_splat_pattern", "dictionary_splat_pattern":
				return true
			}
			if seenDefault {
				return false
			}
		case "identifier":
			if seenDefault {
				return false
			}
		case "list_splat_pattern", "dictionary_splat_pattern", "keyword_separator":
			return true
		}
	}
	return true
}

// validInteger rejects 0777-style decimals and Python 2 long suffixes.
// All-zero forms such as 00 stay valid.
func validInteger(text string) bool {
	lower := strings.ToLower(strings.ReplaceAll(text, "_", ""))
	if strings.HasSuffix(lower, "j") {
		return true
	}
	if strings.HasSuffix(lower, "l") {
		return false
	}
	if len(lower) > 1 && lower[0] == '0' && lower[1] >= '0' && lower[1] <= '9' {
		return strings.Trim(lower, "0") == ""
	}
	return true
}

// generatorAlone rejects an unparenthesized generator that shares the
// argument list with other arguments.
func generatorAlone(args Node) bool {
	switch args.Type() {
	case "generator_expression":
		return !hasComma(args)
	case "argument_list":
		for _, c := range args.NamedChildren() {
			switch {
			case c.Type() == "for_in_clause":
				return false
			case c.Type() == "generator_expression" && !strings.HasPrefix(c.Text(), "("):
				return false
			}
		}
	}
	return true
}

func hasComma(n Node) bool {
	for _, c := range n.Children() {
		if c.Type() == "," {
			return true
		}
	}
	return false
}

func firstNamed(n Node) Node {
	items := n.NamedChildren()
	if len(items) == 0 {
		return Node{}
	}
	return items[0]
}
