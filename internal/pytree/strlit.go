package pytree

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/unicode/runenames"
)

// StringValue decodes a plain str literal or an implicit concatenation of
// str literals. f-strings and bytes literals report false.
func StringValue(n Node) (string, bool) {
	return literalText(n, false)
}

// BytesValue decodes a bytes literal or a concatenation of bytes literals.
func BytesValue(n Node) ([]byte, bool) {
	s, ok := literalText(n, true)
	if !ok {
		return nil, false
	}
	return []byte(s), true
}

func literalText(n Node, wantBytes bool) (string, bool) {
	n = Unparen(n)
	switch n.Type() {
	case "string":
		return decodeStringLiteral(n.Text(), wantBytes)
	case "concatenated_string":
		var b strings.Builder
		for _, c := range n.NamedChildren() {
			s, ok := literalText(c, wantBytes)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		return b.String(), true
	}
	return "", false
}

func decodeStringLiteral(lit string, wantBytes bool) (string, bool) {
	prefix, _, body, ok := splitStringLiteral(lit)
	if !ok || strings.ContainsAny(prefix, "fF") || isBytesPrefix(prefix) != wantBytes {
		return "", false
	}
	if strings.ContainsAny(prefix, "rR") {
		return body, true
	}
	if wantBytes {
		return unescapeBytes(body), true
	}
	s, err := unescape(body)
	if err != nil {
		return "", false
	}
	return s, true
}

func isBytesPrefix(prefix string) bool {
	return strings.ContainsAny(prefix, "bB")
}

// splitStringLiteral splits a literal such as rb"x" into its prefix, its
// quote (one or three characters) and the body between the quotes.
func splitStringLiteral(lit string) (prefix, quote, body string, ok bool) {
	i := strings.IndexAny(lit, `'"`)
	if i < 0 {
		return "", "", "", false
	}
	prefix, rest := lit[:i], lit[i:]
	quote = rest[:1]
	if len(rest) >= 6 && (strings.HasPrefix(rest, `"""`) || strings.HasPrefix(rest, `'''`)) {
		quote = rest[:3]
	}
	if len(rest) < 2*len(quote) || !strings.HasSuffix(rest, quote) {
		return "", "", "", false
	}
	return prefix, quote, rest[len(quote) : len(rest)-len(quote)], true
}

// unescape applies Python str escape sequences. Unknown escapes keep the
// backslash, as CPython does. An unknown \N{...} name is an error.
func unescape(body string) (string, error) {
	if !strings.Contains(body, `\`) {
		return body, nil
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			i++
			continue
		}
		if n, ok := skipEscapedNewline(body, i); ok {
			i = n
			continue
		}
		next := body[i+1]
		switch {
		case next == '\'' || next == '"':
			b.WriteByte(next)
			i += 2
		case next >= '0' && next <= '7':
			v, j := octal(body, i+1)
			b.WriteRune(rune(v))
			i = j
		case next == 'N':
			r, j, err := namedEscape(body, i)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i = j
		default:
			value, _, tail, err := strconv.UnquoteChar(body[i:], 0)
			if err != nil {
				b.WriteByte(c)
				i++
				continue
			}
			b.WriteRune(value)
			i = len(body) - len(tail)
		}
	}
	return b.String(), nil
}

// unescapeBytes applies bytes escapes: \x and octal produce raw bytes,
// and \u, \U and \N are not escapes at all.
func unescapeBytes(body string) string {
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			i++
			continue
		}
		if n, ok := skipEscapedNewline(body, i); ok {
			i = n
			continue
		}
		next := body[i+1]
		switch {
		case next == '\'' || next == '"':
			b.WriteByte(next)
			i += 2
		case next >= '0' && next <= '7':
			v, j := octal(body, i+1)
			b.WriteByte(byte(v))
			i = j
		case next == 'x':
			if i+4 <= len(body) {
				if v, err := strconv.ParseUint(body[i+2:i+4], 16, 8); err == nil {
					b.WriteByte(byte(v))
					i += 4
					continue
				}
			}
			b.WriteByte(c)
			i++
		case next == 'u' || next == 'U' || next == 'N':
			b.WriteByte(c)
			i++
		default:
			value, _, tail, err := strconv.UnquoteChar(body[i:], 0)
			if err != nil {
				b.WriteByte(c)
				i++
				continue
			}
			b.WriteByte(byte(value))
			i = len(body) - len(tail)
		}
	}
	return b.String()
}

func skipEscapedNewline(body string, i int) (int, bool) {
	switch body[i+1] {
	case '\n':
		return i + 2, true
	case '\r':
		i += 2
		if i < len(body) && body[i] == '\n' {
			i++
		}
		return i, true
	}
	return i, false
}

// octal reads up to three octal digits starting at start.
func octal(body string, start int) (int, int) {
	j, v := start, 0
	for j < len(body) && j < start+3 && body[j] >= '0' && body[j] <= '7' {
		v = v*8 + int(body[j]-'0')
		j++
	}
	return v, j
}

var errUnknownName = errors.New("unknown \\N character name")

// namedEscape decodes \N{NAME} at body[i:]. Names match case-insensitively.
func namedEscape(body string, i int) (rune, int, error) {
	rest := body[i+2:]
	if !strings.HasPrefix(rest, "{") {
		return 0, 0, errUnknownName
	}
	end := strings.IndexByte(rest, '}')
	if end < 0 {
		return 0, 0, errUnknownName
	}
	r, ok := lookupRuneName(rest[1:end])
	if !ok {
		return 0, 0, errUnknownName
	}
	return r, i + 2 + end + 1, nil
}

const cjkPrefix = "CJK UNIFIED IDEOGRAPH-"

var runeNames = sync.OnceValue(func() map[string]rune {
	names := make(map[string]rune, 40000)
	for r := rune(0); r <= 0x10FFFF; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		name := runenames.Name(r)
		if name == "" || strings.HasPrefix(name, "<") {
			continue
		}
		names[name] = r
	}
	return names
})

func lookupRuneName(name string) (rune, bool) {
	upper := strings.ToUpper(name)
	if hex, ok := strings.CutPrefix(upper, cjkPrefix); ok {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, false
		}
		return rune(v), true
	}
	r, ok := runeNames()[upper]
	return r, ok
}
