// Package driver runs the rule set over files and directories.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"ocalint/internal/config"
	"ocalint/internal/diag"
	"ocalint/internal/pytree"
	"ocalint/internal/rules"
	"ocalint/internal/trace"
)

// ErrPathNotFound is returned when the path given to AnalyzePath does not exist.
var ErrPathNotFound = errors.New("path does not exist")

// Session holds what is shared across the files of one run. Config is
// read-only once the session starts.
type Session struct {
	Config    *config.Config
	Recursive bool
	Jobs      int // <= 0 means GOMAXPROCS
	Progress  ProgressSink
	Metrics   *Metrics
}

// NewSession returns a recursive session using cfg, or the defaults when
// cfg is nil.
func NewSession(cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Session{Config: cfg, Recursive: true}
}

// AnalyzeFile is NewSession(cfg).AnalyzeFile.
func AnalyzeFile(ctx context.Context, cfg *config.Config, path string) []diag.Diagnostic {
	return NewSession(cfg).AnalyzeFile(ctx, path)
}

// AnalyzeFile returns the diagnostics of one file, unsorted. Unreadable
// and malformed files yield an empty result; the reason goes to the
// tracer and the metrics only.
func (s *Session) AnalyzeFile(ctx context.Context, path string) []diag.Diagnostic {
	return s.run(ctx, path, func() ([]byte, bool) { return readSource(path) })
}

// AnalyzeSource lints src as the contents of path without touching the
// file system. Exclusions are not applied.
func (s *Session) AnalyzeSource(ctx context.Context, path string, src []byte) []diag.Diagnostic {
	return s.run(ctx, path, func() ([]byte, bool) { return decodeSource(src) })
}

func (s *Session) run(ctx context.Context, path string, load func() ([]byte, bool)) []diag.Diagnostic {
	start := time.Now()
	s.emit(Event{File: path, Status: StatusWorking})

	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeFile, "file:"+path, trace.ParentSpan(ctx))

	var (
		ds     []diag.Diagnostic
		reason string
	)
	if src, ok := load(); ok {
		ds, reason = s.analyze(ctx, path, src, span.ID())
	} else {
		reason = ReasonUnreadable
	}

	ev := Event{File: path, Status: StatusDone, Diagnostics: len(ds), Elapsed: time.Since(start)}
	if reason != "" {
		ev.Status = StatusSkipped
		ev.Reason = reason
		trace.Point(tr, trace.ScopeFile, "skip", span.ID(), map[string]string{"path": path, "reason": reason})
		span.WithExtra("reason", reason)
	}
	span.WithExtra("diagnostics", strconv.Itoa(len(ds))).End("")

	s.Metrics.observeFile(ev)
	for _, d := range ds {
		s.Metrics.observeCode(d.Code.ID())
	}
	s.emit(ev)
	return ds
}

func (s *Session) analyze(ctx context.Context, path string, src []byte, spanID uint64) ([]diag.Diagnostic, string) {
	tree, err := pytree.Parse(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ReasonCanceled
		}
		return nil, ReasonMalformed
	}
	defer tree.Close()

	cfg := s.Config
	if cfg == nil {
		cfg = config.Default()
	}
	rs := rules.ForFile(cfg, path, src)
	visitors := make([]pytree.Visitor, len(rs))
	for i, r := range rs {
		visitors[i] = r
	}
	// один проход по дереву на все правила файла
	pytree.Walk(tree.Root(), visitors...)

	var out []diag.Diagnostic
	tr := trace.FromContext(ctx)
	for _, r := range rs {
		got := r.Diagnostics()
		trace.Point(tr, trace.ScopeRule, "rule:"+r.Name(), spanID, map[string]string{"diagnostics": strconv.Itoa(len(got))})
		out = append(out, got...)
	}
	return out, ""
}

// readSource reads path and strips a byte-order mark. UTF-16 files with a
// BOM are transcoded to UTF-8. Anything that is not valid UTF-8 afterwards
// is rejected.
func readSource(path string) ([]byte, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return decodeSource(raw)
}

func decodeSource(raw []byte) ([]byte, bool) {
	src, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil || !utf8.Valid(src) {
		return nil, false
	}
	return src, true
}

// AnalyzeDir lints every Python file under dir.
func (s *Session) AnalyzeDir(ctx context.Context, dir string) ([]diag.Diagnostic, error) {
	files, err := s.Discover(dir)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeFiles(ctx, files)
}

// AnalyzePath lints a single file or a directory.
func (s *Session) AnalyzePath(ctx context.Context, path string) ([]diag.Diagnostic, error) {
	files, err := s.Files(path)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeFiles(ctx, files)
}

// Files resolves path to the list AnalyzePath would analyze. A file is
// returned as is, without applying exclusions.
func (s *Session) Files(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return s.Discover(path)
	}
	return []string{path}, nil
}

// AnalyzeFiles analyzes files on up to Jobs goroutines and concatenates
// the results in input order.
func (s *Session) AnalyzeFiles(ctx context.Context, files []string) ([]diag.Diagnostic, error) {
	if len(files) == 0 {
		return nil, nil
	}
	for _, f := range files {
		s.emit(Event{File: f, Status: StatusQueued})
	}

	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopePhase, "analyze", trace.ParentSpan(ctx))
	span.WithExtra("files", strconv.Itoa(len(files)))
	ctx = trace.WithSpan(ctx, span)

	results := make([][]diag.Diagnostic, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(s.jobs(), len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, гонки нет
			results[i] = s.AnalyzeFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.End(err.Error())
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]diag.Diagnostic, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	span.WithExtra("diagnostics", strconv.Itoa(total)).End("")
	return out, nil
}

func (s *Session) jobs() int {
	if s.Jobs > 0 {
		return s.Jobs
	}
	return max(runtime.GOMAXPROCS(0), 1)
}
