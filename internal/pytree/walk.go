package pytree

// Visitor receives the node kinds rules care about. Every other node is
// walked through without a callback.
type Visitor interface {
	Module(n Node)
	Call(n Node)
	ImportFrom(n Node)
	FunctionDef(n Node)
}

// BaseVisitor implements Visitor with no-ops; embed it and override the
// callbacks you need.
type BaseVisitor struct{}

func (BaseVisitor) Module(Node)      {}
func (BaseVisitor) Call(Node)        {}
func (BaseVisitor) ImportFrom(Node)  {}
func (BaseVisitor) FunctionDef(Node) {}

// Walk performs a single depth-first, pre-order traversal from root and
// dispatches each node to every visitor in order. Walk(root, v) is the
// per-visitor traversal; passing several visitors shares one pass.
func Walk(root Node, visitors ...Visitor) {
	if root.IsNil() || len(visitors) == 0 {
		return
	}
	walk(root, visitors)
}

func walk(n Node, visitors []Visitor) {
	switch n.Kind() {
	case KindModule:
		for _, v := range visitors {
			v.Module(n)
		}
	case KindCall:
		for _, v := range visitors {
			v.Call(n)
		}
	case KindImportFrom:
		for _, v := range visitors {
			v.ImportFrom(n)
		}
	case KindFunctionDef:
		for _, v := range visitors {
			v.FunctionDef(n)
		}
	}
	for _, c := range n.NamedChildren() {
		walk(c, visitors)
	}
}

// Inspect calls fn for n and every named descendant until fn returns false
// for a subtree.
func Inspect(n Node, fn func(Node) bool) {
	if n.IsNil() || !fn(n) {
		return
	}
	for _, c := range n.NamedChildren() {
		Inspect(c, fn)
	}
}
