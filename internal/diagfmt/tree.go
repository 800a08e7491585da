package diagfmt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"ocalint/internal/pytree"
)

const maxLeafText = 40

// TreeSpan is the serialized location of a TreeNode.
type TreeSpan struct {
	Line      int `json:"line"`
	Column    int `json:"column"`
	EndLine   int `json:"end_line"`
	EndColumn int `json:"end_column"`
}

// TreeNode is a plain copy of a syntax node used by the tree dumps. Kind is
// set only for node kinds rules subscribe to; Text only for leaves.
type TreeNode struct {
	Type     string     `json:"type"`
	Kind     string     `json:"kind,omitempty"`
	Span     *TreeSpan  `json:"span,omitempty"`
	Text     string     `json:"text,omitempty"`
	Children []TreeNode `json:"children,omitempty"`
}

// BuildTree copies the named nodes under n.
func BuildTree(n pytree.Node) TreeNode {
	out := TreeNode{Type: n.Type()}
	if k := n.Kind(); k != pytree.KindOther {
		out.Kind = k.String()
	}
	if sp, ok := n.Span(); ok {
		out.Span = &TreeSpan{Line: sp.Line, Column: sp.Column, EndLine: sp.EndLine, EndColumn: sp.EndColumn}
	}
	children := n.NamedChildren()
	if len(children) == 0 {
		out.Text = n.Text()
		return out
	}
	out.Children = make([]TreeNode, 0, len(children))
	for _, c := range children {
		out.Children = append(out.Children, BuildTree(c))
	}
	return out
}

// FormatTreePretty draws the tree with box-drawing connectors:
//
//	module
//	└─ expression_statement 1:0-1:10
//	   └─ call [call] 1:0-1:10
func FormatTreePretty(w io.Writer, root TreeNode) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(treeLabel(root) + "\n")
	writeTreeChildren(bw, root.Children, "")
	return bw.Flush()
}

func writeTreeChildren(w *bufio.Writer, children []TreeNode, prefix string) {
	for i, c := range children {
		connector, next := "├─ ", "│  "
		if i == len(children)-1 {
			connector, next = "└─ ", "   "
		}
		w.WriteString(prefix + connector + treeLabel(c) + "\n")
		writeTreeChildren(w, c.Children, prefix+next)
	}
}

func treeLabel(n TreeNode) string {
	var b strings.Builder
	b.WriteString(n.Type)
	if n.Kind != "" {
		b.WriteString(" [" + n.Kind + "]")
	}
	if n.Span != nil {
		fmt.Fprintf(&b, " %d:%d-%d:%d", n.Span.Line, n.Span.Column, n.Span.EndLine, n.Span.EndColumn)
	}
	if n.Text != "" && n.Text != n.Type {
		b.WriteString(" " + strconv.Quote(runewidth.Truncate(n.Text, maxLeafText, "...")))
	}
	return b.String()
}

// FormatTreeJSON writes root as indented JSON.
func FormatTreeJSON(w io.Writer, root TreeNode) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(root)
}
