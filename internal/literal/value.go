package literal

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	None Kind = iota
	Str
	Bytes
	Int
	Float
	Bool
	List
	Dict
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Str:
		return "str"
	case Bytes:
		return "bytes"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case List:
		return "list"
	case Dict:
		return "dict"
	}
	return "unknown"
}

// Value is a literal reconstructed from syntax. The zero Value is None.
// Integers outside the int64 range live in wide.
type Value struct {
	kind  Kind
	str   string
	num   int64
	wide  *big.Int
	float float64
	items []Value
	dict  *Mapping
}

func NoneValue() Value              { return Value{kind: None} }
func StrValue(s string) Value       { return Value{kind: Str, str: s} }
func BytesValue(b []byte) Value     { return Value{kind: Bytes, str: string(b)} }
func IntValue(n int64) Value        { return Value{kind: Int, num: n} }
func FloatValue(f float64) Value    { return Value{kind: Float, float: f} }
func ListValue(items []Value) Value { return Value{kind: List, items: items} }
func DictValue(m *Mapping) Value    { return Value{kind: Dict, dict: m} }

// BigIntValue stores an integer of any size.
func BigIntValue(n *big.Int) Value {
	if n.IsInt64() {
		return IntValue(n.Int64())
	}
	return Value{kind: Int, wide: new(big.Int).Set(n)}
}

func BoolValue(b bool) Value {
	v := Value{kind: Bool}
	if b {
		v.num = 1
	}
	return v
}

func (v Value) Kind() Kind { return v.kind }

// AsString returns the string payload of a Str value.
func (v Value) AsString() (string, bool) {
	if v.kind != Str {
		return "", false
	}
	return v.str, true
}

// AsInt returns an Int that fits in int64.
func (v Value) AsInt() (int64, bool) {
	if v.kind != Int || v.wide != nil {
		return 0, false
	}
	return v.num, true
}

func (v Value) AsBigInt() (*big.Int, bool) {
	if v.kind != Int {
		return nil, false
	}
	if v.wide != nil {
		return new(big.Int).Set(v.wide), true
	}
	return big.NewInt(v.num), true
}

func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != Bytes {
		return nil, false
	}
	return []byte(v.str), true
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != Float {
		return 0, false
	}
	return v.float, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.num != 0, true
}

func (v Value) AsList() ([]Value, bool) {
	if v.kind != List {
		return nil, false
	}
	return v.items, true
}

func (v Value) AsDict() (*Mapping, bool) {
	if v.kind != Dict {
		return nil, false
	}
	return v.dict, true
}

// Truthy follows Python truth testing.
func (v Value) Truthy() bool {
	switch v.kind {
	case Str, Bytes:
		return v.str != ""
	case Int:
		return v.wide != nil || v.num != 0
	case Bool:
		return v.num != 0
	case Float:
		return v.float != 0
	case List:
		return len(v.items) > 0
	case Dict:
		return v.dict.Len() > 0
	}
	return false
}

// String renders the value the way Python's str() would, which is what
// ends up in diagnostic messages.
func (v Value) String() string {
	if v.kind == Str {
		return v.str
	}
	return v.Repr()
}

// Repr renders the value like Python's repr().
func (v Value) Repr() string {
	switch v.kind {
	case None:
		return "None"
	case Str:
		return quotePy(v.str)
	case Bytes:
		return quoteBytes(v.str)
	case Int:
		if v.wide != nil {
			return v.wide.String()
		}
		return strconv.FormatInt(v.num, 10)
	case Float:
		return formatFloat(v.float)
	case Bool:
		if v.num != 0 {
			return "True"
		}
		return "False"
	case List:
		parts := make([]string, len(v.items))
		for i, it := range v.items {
			parts[i] = it.Repr()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Dict:
		parts := make([]string, 0, v.dict.Len())
		for _, k := range v.dict.Keys() {
			val, _ := v.dict.Get(k)
			parts = append(parts, quotePy(k)+": "+val.Repr())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "?"
}

// Native converts to plain Go values (nil, string, []byte, int64 or
// *big.Int, float64, bool, []any, map[string]any).
func (v Value) Native() any {
	switch v.kind {
	case Str:
		return v.str
	case Bytes:
		return []byte(v.str)
	case Int:
		if v.wide != nil {
			return new(big.Int).Set(v.wide)
		}
		return v.num
	case Float:
		return v.float
	case Bool:
		return v.num != 0
	case List:
		out := make([]any, len(v.items))
		for i, it := range v.items {
			out[i] = it.Native()
		}
		return out
	case Dict:
		out := make(map[string]any, v.dict.Len())
		for _, k := range v.dict.Keys() {
			val, _ := v.dict.Get(k)
			out[k] = val.Native()
		}
		return out
	}
	return nil
}

// formatFloat follows Python's float repr. Exponents from -4 to 15 print
// positionally.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	_, exp, _ := strings.Cut(sci, "e")
	if e, err := strconv.Atoi(exp); err == nil && (e < -4 || e >= 16) {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// quoteBytes renders bytes like Python's repr(b"...").
func quoteBytes(s string) string {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		q = '"'
	}
	var b strings.Builder
	b.WriteString("b")
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' || c == q:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, `\x%02x`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func quotePy(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// Mapping is an insertion-ordered string-keyed dictionary.
type Mapping struct {
	keys   []string
	values map[string]Value
}

func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Value)}
}

// Set stores a value; re-setting a key keeps its original position.
func (m *Mapping) Set(key string, v Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}
