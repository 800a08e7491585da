package pytree

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax reports source that does not parse as Python 3.
var ErrSyntax = errors.New("syntax error")

// Tree owns a parsed tree-sitter tree and the source it points into.
// Close must be called once the tree is no longer needed.
type Tree struct {
	tree *sitter.Tree
	src  []byte
}

// Parse parses src as a Python module.
// Source with ERROR/MISSING nodes, or with constructs CPython refuses at
// parse time (see rejected), yields ErrSyntax.
func Parse(ctx context.Context, src []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if tree == nil {
		return nil, ErrSyntax
	}
	root := tree.RootNode()
	if root == nil || root.HasError() || rejected(Node{n: root, src: src}) {
		tree.Close()
		return nil, ErrSyntax
	}
	return &Tree{tree: tree, src: src}, nil
}

// Root returns the module node.
func (t *Tree) Root() Node {
	if t == nil || t.tree == nil {
		return Node{}
	}
	return Node{n: t.tree.RootNode(), src: t.src}
}

// Source returns the parsed bytes.
func (t *Tree) Source() []byte {
	if t == nil {
		return nil
	}
	return t.src
}

func (t *Tree) Close() {
	if t == nil || t.tree == nil {
		return
	}
	t.tree.Close()
	t.tree = nil
}
