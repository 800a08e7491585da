package pytree

import (
	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
)

// Kind is the closed set of node kinds rules can subscribe to.
type Kind uint8

const (
	KindOther Kind = iota
	KindModule
	KindCall
	KindImportFrom
	KindFunctionDef
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindCall:
		return "call"
	case KindImportFrom:
		return "import_from"
	case KindFunctionDef:
		return "function_def"
	}
	return "other"
}

// Span is a node location: 1-based lines, 0-based byte columns.
type Span struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Node is a lightweight handle on a tree-sitter node plus its source.
// The zero Node is valid and behaves as an absent node.
type Node struct {
	n   *sitter.Node
	src []byte
}

func (n Node) IsNil() bool { return n.n == nil }

// Type is the raw grammar node type, e.g. "call" or "binary_operator".
func (n Node) Type() string {
	if n.n == nil {
		return ""
	}
	return n.n.Type()
}

func (n Node) Kind() Kind {
	switch n.Type() {
	case "module":
		return KindModule
	case "call":
		return KindCall
	case "import_from_statement", "future_import_statement":
		return KindImportFrom
	case "function_definition":
		// async def is a separate statement kind in CPython's tree
		if n.IsAsync() {
			return KindOther
		}
		return KindFunctionDef
	}
	return KindOther
}

// Text returns the source slice covered by the node.
func (n Node) Text() string {
	if n.n == nil {
		return ""
	}
	return n.n.Content(n.src)
}

// Field returns the child stored under a grammar field name.
func (n Node) Field(name string) Node {
	if n.n == nil {
		return Node{}
	}
	return n.wrap(n.n.ChildByFieldName(name))
}

// NamedChildren returns named children, comments excluded.
func (n Node) NamedChildren() []Node {
	if n.n == nil {
		return nil
	}
	count := int(n.n.NamedChildCount())
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		out = append(out, n.wrap(c))
	}
	return out
}

// Children returns every child including anonymous tokens.
func (n Node) Children() []Node {
	if n.n == nil {
		return nil
	}
	count := int(n.n.ChildCount())
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.n.Child(i); c != nil {
			out = append(out, n.wrap(c))
		}
	}
	return out
}

// Parent returns the enclosing node.
func (n Node) Parent() Node {
	if n.n == nil {
		return Node{}
	}
	return n.wrap(n.n.Parent())
}

// IsAsync reports an `async def` / `async for` / `async with`.
func (n Node) IsAsync() bool {
	if n.n == nil || n.n.ChildCount() == 0 {
		return false
	}
	first := n.n.Child(0)
	return first != nil && first.Type() == "async"
}

// Span reports the node location. The module root has none: CPython's
// Module node carries no line information either.
func (n Node) Span() (Span, bool) {
	if n.n == nil || n.Type() == "module" {
		return Span{}, false
	}
	start, end := n.n.StartPoint(), n.n.EndPoint()
	line, err := safecast.Conv[int](start.Row)
	if err != nil {
		return Span{}, false
	}
	col, err := safecast.Conv[int](start.Column)
	if err != nil {
		return Span{}, false
	}
	sp := Span{Line: line + 1, Column: col}
	if endLine, err := safecast.Conv[int](end.Row); err == nil {
		if endCol, err := safecast.Conv[int](end.Column); err == nil {
			sp.EndLine = endLine + 1
			sp.EndColumn = endCol
		}
	}
	return sp, true
}

func (n Node) wrap(c *sitter.Node) Node {
	if c == nil {
		return Node{}
	}
	return Node{n: c, src: n.src}
}
