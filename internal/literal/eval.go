// Package literal rebuilds compile-time literal values (dicts, lists,
// strings, numbers, booleans, None) from a Python syntax tree without
// executing anything.
package literal

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"ocalint/internal/pytree"
)

// ErrNotLiteral marks a subtree that is not a pure literal: a call, a name,
// a binary expression, an f-string and so on.
var ErrNotLiteral = errors.New("not a literal")

// Eval converts a literal expression into a Value.
//
// Dict entries whose key is not a string literal, or whose value is not a
// literal, are dropped. A list with any non-literal element is itself not a
// literal, so a partially known list never leaks out.
func Eval(n pytree.Node) (Value, error) {
	n = pytree.Unparen(n)
	switch n.Type() {
	case "dictionary":
		return DictValue(evalDict(n)), nil
	case "list":
		elems := n.NamedChildren()
		items := make([]Value, 0, len(elems))
		for _, e := range elems {
			v, err := Eval(e)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return ListValue(items), nil
	case "string", "concatenated_string":
		if s, ok := pytree.StringValue(n); ok {
			return StrValue(s), nil
		}
		if b, ok := pytree.BytesValue(n); ok {
			return BytesValue(b), nil
		}
		return Value{}, ErrNotLiteral
	case "integer":
		return parseInt(n.Text())
	case "float":
		return parseFloat(n.Text())
	case "true":
		return BoolValue(true), nil
	case "false":
		return BoolValue(false), nil
	case "none":
		return NoneValue(), nil
	case "unary_operator":
		return evalUnary(n)
	}
	return Value{}, ErrNotLiteral
}

func evalDict(n pytree.Node) *Mapping {
	m := NewMapping()
	for _, entry := range n.NamedChildren() {
		if entry.Type() != "pair" {
			// **spread has no literal key
			continue
		}
		key, ok := pytree.StringValue(entry.Field("key"))
		if !ok || key == "" {
			continue
		}
		v, err := Eval(entry.Field("value"))
		if err != nil {
			continue
		}
		m.Set(key, v)
	}
	return m
}

// evalUnary folds -N and +N on numeric literals.
func evalUnary(n pytree.Node) (Value, error) {
	op := n.Field("operator").Text()
	v, err := Eval(n.Field("argument"))
	if err != nil {
		return Value{}, err
	}
	switch op {
	case "+":
		if v.kind == Int || v.kind == Float {
			return v, nil
		}
	case "-":
		switch v.kind {
		case Int:
			if v.wide == nil && v.num != math.MinInt64 {
				return IntValue(-v.num), nil
			}
			n, _ := v.AsBigInt()
			return BigIntValue(n.Neg(n)), nil
		case Float:
			return FloatValue(-v.float), nil
		}
	}
	return Value{}, ErrNotLiteral
}

func parseInt(text string) (Value, error) {
	clean := strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(clean)
	if strings.HasSuffix(lower, "j") || strings.HasSuffix(lower, "l") {
		// complex and Python 2 long literals
		return Value{}, ErrNotLiteral
	}
	if n, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return IntValue(n), nil
	}
	if bi, ok := new(big.Int).SetString(lower, 0); ok {
		return BigIntValue(bi), nil
	}
	return Value{}, ErrNotLiteral
}

func parseFloat(text string) (Value, error) {
	clean := strings.ReplaceAll(text, "_", "")
	if strings.HasSuffix(strings.ToLower(clean), "j") {
		return Value{}, ErrNotLiteral
	}
	f, err := strconv.ParseFloat(clean, 64)
	// 1e400 overflows to inf, as in CPython
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Value{}, ErrNotLiteral
	}
	return FloatValue(f), nil
}
