// Package testkit holds checks shared by tests and fuzz harnesses.
package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"ocalint/internal/diag"
)

// CheckDiagnostics verifies the invariants every finding for src must hold:
// 1) the code is a known OCA code and the filename is the analyzed one
// 2) the start lies inside src (1-based line, 0-based byte column)
// 3) an end position, when present, is inside src and not before the start
func CheckDiagnostics(ds []diag.Diagnostic, filename string, src []byte) error {
	lines := bytes.Split(src, []byte{'\n'})
	for i, d := range ds {
		if _, ok := diag.ParseCode(d.Code.ID()); !ok {
			return fmt.Errorf("diagnostic %d: unknown code %v", i, d.Code)
		}
		if d.Filename != filename {
			return fmt.Errorf("diagnostic %d: filename %q, want %q", i, d.Filename, filename)
		}
		if err := checkPoint(lines, d.Line, d.Column); err != nil {
			return fmt.Errorf("diagnostic %d (%s) start: %w", i, d.Code.ID(), err)
		}
		if !d.HasEnd() {
			continue
		}
		if err := checkPoint(lines, d.EndLine, d.EndColumn); err != nil {
			return fmt.Errorf("diagnostic %d (%s) end: %w", i, d.Code.ID(), err)
		}
		if d.EndLine < d.Line || (d.EndLine == d.Line && d.EndColumn < d.Column) {
			return fmt.Errorf("diagnostic %d (%s): end %d:%d before start %d:%d",
				i, d.Code.ID(), d.EndLine, d.EndColumn, d.Line, d.Column)
		}
	}
	return nil
}

func checkPoint(lines [][]byte, line, col int) error {
	if line < 1 || line > len(lines) {
		return fmt.Errorf("line %d outside 1..%d", line, len(lines))
	}
	width, err := safecast.Conv[int](len(lines[line-1]))
	if err != nil {
		return err
	}
	if col < 0 || col > width {
		return fmt.Errorf("column %d outside 0..%d on line %d", col, width, line)
	}
	return nil
}
