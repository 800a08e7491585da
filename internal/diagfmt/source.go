package diagfmt

import (
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"ocalint/internal/diag"
)

const tabWidth = 4

// sourceCache keeps the lines of every file a formatter has shown, so a
// file with many findings is read once.
type sourceCache struct {
	read  func(string) ([]byte, error)
	files map[string][]string
}

func newSourceCache(read func(string) ([]byte, error)) *sourceCache {
	if read == nil {
		read = os.ReadFile
	}
	return &sourceCache{read: read, files: make(map[string][]string)}
}

func (c *sourceCache) line(path string, n int) (string, bool) {
	lines, ok := c.files[path]
	if !ok {
		data, err := c.read(path)
		if err == nil {
			text := strings.TrimPrefix(string(data), "\ufeff")
			lines = strings.Split(strings.TrimRight(text, "\n"), "\n")
		}
		c.files[path] = lines
	}
	if n < 1 || n > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[n-1], "\r"), true
}

// snippet renders the offending line with a caret underline:
//
//	  |
//	3 |     cr.commit()
//	  |     ^^^^^^^^^^^
//
// It returns "" when the line cannot be read.
func (c *sourceCache) snippet(d diag.Diagnostic) string {
	text, ok := c.line(d.Filename, d.Line)
	if !ok {
		return ""
	}
	col := min(max(d.Column, 0), len(text))
	end := len(text)
	if d.HasEnd() && (d.EndLine == 0 || d.EndLine == d.Line) {
		end = min(max(d.EndColumn, col), len(text))
	}

	prefix := displayWidth(text[:col])
	width := max(displayWidth(text[:end])-prefix, 1)

	num := strconv.Itoa(d.Line)
	gutter := strings.Repeat(" ", len(num))
	var b strings.Builder
	b.WriteString(gutter + " |\n")
	b.WriteString(num + " | " + expandTabs(text) + "\n")
	b.WriteString(gutter + " | " + strings.Repeat(" ", prefix) + strings.Repeat("^", width) + "\n")
	return b.String()
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}
