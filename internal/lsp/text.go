package lsp

// lineIndex holds the byte offset at which each line starts.
type lineIndex []int

func newLineIndex(text string) lineIndex {
	idx := lineIndex{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// lineBounds returns the byte range of line l without its newline.
func (idx lineIndex) lineBounds(text string, l int) (start, end int) {
	start = idx[l]
	end = len(text)
	if l+1 < len(idx) {
		end = idx[l+1] - 1
	}
	return start, end
}

// offset converts an LSP position (UTF-16 units) into a byte offset.
// Positions past the end of a line stop at the line end; lines past the
// end of the text map to len(text).
func (idx lineIndex) offset(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	if pos.Line >= len(idx) {
		return len(text)
	}
	start, end := idx.lineBounds(text, pos.Line)
	units := 0
	for i, r := range text[start:end] {
		if units >= pos.Character {
			return start + i
		}
		units += utf16Len(r)
	}
	return end
}

// position converts a 1-based line and a 0-based byte column into an LSP
// position counted in UTF-16 units. Out-of-range values are clamped to the
// document.
func (idx lineIndex) position(text string, line, byteCol int) position {
	l := line - 1
	if l < 0 {
		l = 0
	}
	if l >= len(idx) {
		l = len(idx) - 1
		byteCol = len(text)
	}
	start, end := idx.lineBounds(text, l)
	off := min(start+max(byteCol, 0), end)
	units := 0
	for _, r := range text[start:off] {
		units += utf16Len(r)
	}
	return position{Line: l, Character: units}
}

func utf16Len(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

// applyChanges applies content changes in order. A change without a range
// replaces the whole document.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		idx := newLineIndex(text)
		start := idx.offset(text, change.Range.Start)
		end := max(idx.offset(text, change.Range.End), start)
		text = text[:start] + change.Text + text[end:]
	}
	return text
}
