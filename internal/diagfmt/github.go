package diagfmt

import (
	"bufio"
	"fmt"
	"io"

	"ocalint/internal/diag"
)

// GitHubFormatter emits GitHub Actions workflow annotations. Only
// error-severity findings become `::error`; the rest are `::warning`.
type GitHubFormatter struct {
	Opts Options
}

func (f GitHubFormatter) Format(w io.Writer, ds []diag.Diagnostic) error {
	return GitHub(w, ds, f.Opts)
}

func GitHub(w io.Writer, ds []diag.Diagnostic, opts Options) error {
	bw := bufio.NewWriter(w)
	for _, d := range ds {
		level := "warning"
		if d.Severity == diag.SevError {
			level = "error"
		}
		fmt.Fprintf(bw, "::%s file=%s,line=%d,col=%d,title=%s::%s\n",
			level, formatPath(d.Filename, opts.PathMode, opts.BaseDir), d.Line, d.Column, d.Code.ID(), d.Message)
	}
	return bw.Flush()
}
