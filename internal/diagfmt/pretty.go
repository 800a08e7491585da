package diagfmt

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"

	"ocalint/internal/diag"
)

// TextFormatter prints one Ruff-style line per diagnostic followed by a
// summary, e.g.
//
//	addon/models/x.py:3:4: OCA001 Print used. Use `logger` instead.
//
//	Found 1 error(s).
type TextFormatter struct {
	Opts Options
}

func (f TextFormatter) Format(w io.Writer, ds []diag.Diagnostic) error {
	return Text(w, ds, f.Opts)
}

// Text sorts a copy of ds by filename, line and column. Nothing is written
// for an empty input. With opts.ShowSource each line is followed by a
// source snippet.
func Text(w io.Writer, ds []diag.Diagnostic, opts Options) error {
	if len(ds) == 0 {
		return nil
	}
	sorted := append([]diag.Diagnostic(nil), ds...)
	diag.SortDiagnostics(sorted)

	pathColor := color.New(color.Bold)
	codeColor := color.New(color.FgRed, color.Bold)
	if opts.Color {
		pathColor.EnableColor()
		codeColor.EnableColor()
	} else {
		pathColor.DisableColor()
		codeColor.DisableColor()
	}

	var src *sourceCache
	if opts.ShowSource {
		src = newSourceCache(opts.ReadFile)
	}

	bw := bufio.NewWriter(w)
	for _, d := range sorted {
		fmt.Fprintf(bw, "%s:%d:%d: %s %s\n",
			pathColor.Sprint(formatPath(d.Filename, opts.PathMode, opts.BaseDir)),
			d.Line, d.Column,
			codeColor.Sprint(d.Code.ID()),
			d.Message)
		if src != nil {
			if snip := src.snippet(d); snip != "" {
				bw.WriteString(snip)
				bw.WriteString("\n")
			}
		}
	}
	fmt.Fprintf(bw, "\nFound %d error(s).\n", len(sorted))
	return bw.Flush()
}
