// Package diagfmt renders diagnostics for humans and machines.
package diagfmt

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"ocalint/internal/diag"
)

// ErrUnknownFormat is returned by Registry.Get for unregistered names.
var ErrUnknownFormat = errors.New("unknown format")

// Formatter writes a batch of diagnostics. Formatters that need a stable
// order sort a copy; the input slice is never modified.
type Formatter interface {
	Format(w io.Writer, ds []diag.Diagnostic) error
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(w io.Writer, ds []diag.Diagnostic) error

func (f FormatterFunc) Format(w io.Writer, ds []diag.Diagnostic) error { return f(w, ds) }

// Registry maps format names to formatters. It is built once at startup
// and passed to whoever renders output.
type Registry struct {
	formats map[string]Formatter
}

// NewRegistry returns a registry with text, json, sarif, github and msgpack.
func NewRegistry(opts Options) *Registry {
	r := &Registry{formats: make(map[string]Formatter)}
	r.Register("text", TextFormatter{Opts: opts})
	r.Register("json", JSONFormatter{Opts: opts})
	r.Register("sarif", SarifFormatter{Opts: opts})
	r.Register("github", GitHubFormatter{Opts: opts})
	r.Register("msgpack", MsgpackFormatter{Opts: opts})
	return r
}

// Register adds or replaces a formatter. Names are case-insensitive.
func (r *Registry) Register(name string, f Formatter) {
	r.formats[strings.ToLower(name)] = f
}

// Get looks a formatter up by name.
func (r *Registry) Get(name string) (Formatter, error) {
	if f, ok := r.formats[strings.ToLower(name)]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s. Available formats: %s", ErrUnknownFormat, name, strings.Join(r.Names(), ", "))
}

// Names returns the registered format names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// records converts diagnostics into their serialized form with paths
// rendered per opts. A nil input still yields an empty, non-nil slice.
func records(ds []diag.Diagnostic, opts Options) []diag.Record {
	out := make([]diag.Record, 0, len(ds))
	for _, d := range ds {
		rec := d.Record()
		rec.Filename = formatPath(rec.Filename, opts.PathMode, opts.BaseDir)
		out = append(out, rec)
	}
	return out
}
