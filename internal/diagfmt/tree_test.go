package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"ocalint/internal/pytree"
)

func parseTree(t *testing.T, src string) TreeNode {
	t.Helper()
	tree, err := pytree.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	defer tree.Close()
	return BuildTree(tree.Root())
}

func TestFormatTreePretty(t *testing.T) {
	root := parseTree(t, "print('x')\n")
	var buf bytes.Buffer
	if err := FormatTreePretty(&buf, root); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "module [module]" {
		t.Errorf("root line = %q", lines[0])
	}
	if lines[1] != "└─ expression_statement 1:0-1:10" {
		t.Errorf("statement line = %q", lines[1])
	}
	if lines[2] != "   └─ call [call] 1:0-1:10" {
		t.Errorf("call line = %q", lines[2])
	}
	if !strings.Contains(buf.String(), `identifier 1:0-1:5 "print"`) {
		t.Errorf("missing leaf text:\n%s", buf.String())
	}
}

func TestFormatTreeJSON(t *testing.T) {
	root := parseTree(t, "from odoo.addons.sale import models\n")
	var buf bytes.Buffer
	if err := FormatTreeJSON(&buf, root); err != nil {
		t.Fatal(err)
	}
	var got TreeNode
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Type != "module" || got.Span != nil || len(got.Children) != 1 {
		t.Fatalf("unexpected root %+v", got)
	}
	imp := got.Children[0]
	if imp.Kind != "import_from" || imp.Span == nil || imp.Span.EndColumn != 35 {
		t.Errorf("unexpected import node %+v", imp)
	}
}

func TestTreeLabelTruncatesLongLeaves(t *testing.T) {
	n := TreeNode{Type: "string_content", Text: strings.Repeat("a", 100)}
	label := treeLabel(n)
	if !strings.HasSuffix(label, `..."`) || len(label) > len("string_content ")+maxLeafText+2 {
		t.Errorf("label = %q", label)
	}
}
