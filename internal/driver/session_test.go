package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"ocalint/internal/config"
	"ocalint/internal/diag"
	"ocalint/internal/trace"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func codes(ds []diag.Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Code.ID())
	}
	return out
}

type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) OnEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func TestAnalyzeFileAbsorbsBadInput(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		path    string
		wantWhy string
	}{
		{name: "empty", path: writeFile(t, dir, "empty.py", ""), wantWhy: ""},
		{name: "syntax error", path: writeFile(t, dir, "broken.py", "def f(:\n    pass\n"), wantWhy: ReasonMalformed},
		{name: "python 2", path: writeFile(t, dir, "py2.py", "print 'hello'\n"), wantWhy: ReasonMalformed},
		{name: "invalid utf-8", path: writeFile(t, dir, "latin.py", "x = '\xe9\xff'\n"), wantWhy: ReasonUnreadable},
		{name: "missing", path: filepath.Join(dir, "nope.py"), wantWhy: ReasonUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &collector{}
			s := NewSession(nil)
			s.Progress = sink
			s.Metrics = NewMetrics()

			ds := s.AnalyzeFile(context.Background(), tt.path)
			if len(ds) != 0 {
				t.Fatalf("expected no diagnostics, got %v", ds)
			}
			last := sink.events[len(sink.events)-1]
			if last.Reason != tt.wantWhy {
				t.Errorf("reason = %q, want %q", last.Reason, tt.wantWhy)
			}
			if tt.wantWhy != "" {
				if last.Status != StatusSkipped {
					t.Errorf("status = %s, want skipped", last.Status)
				}
				if got := testutil.ToFloat64(s.Metrics.skipped.WithLabelValues(tt.wantWhy)); got != 1 {
					t.Errorf("skipped{%s} = %v, want 1", tt.wantWhy, got)
				}
			}
		})
	}
}

func TestAnalyzeFileFindsViolations(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "models/sale.py", "print('x')\ncr.commit()\n")
	ds := AnalyzeFile(context.Background(), nil, path)
	if got := strings.Join(codes(ds), ","); got != "OCA001,OCA002" {
		t.Fatalf("codes = %s", got)
	}
	if ds[0].Filename != path || ds[0].Line != 1 || ds[0].Column != 0 {
		t.Errorf("first diagnostic = %+v", ds[0])
	}
}

func TestAnalyzeFileStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bom.py", "\xef\xbb\xbfprint('x')\n")
	ds := AnalyzeFile(context.Background(), nil, path)
	if len(ds) != 1 || ds[0].Line != 1 || ds[0].Column != 0 {
		t.Fatalf("diagnostics = %+v", ds)
	}
}

func TestAnalyzeSourceSkipsRejectedSyntax(t *testing.T) {
	s := NewSession(nil)
	for _, stmt := range []string{
		"del f()",
		"(a, b) += 1",
		"f(x for x in y, 1)",
		"def f(x=1, y): pass",
		"x = 0777",
	} {
		src := stmt + "\nprint(1)\n"
		if ds := s.AnalyzeSource(context.Background(), "mod/a.py", []byte(src)); len(ds) != 0 {
			t.Errorf("%q: got %+v, want no diagnostics", stmt, ds)
		}
	}
}

func TestAnalyzeSourceIgnoresDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "__manifest__.py")
	s := NewSession(nil)
	ds := s.AnalyzeSource(context.Background(), path, []byte("print('x')\n"))
	if got := strings.Join(codes(ds), ","); got != "OCA001" {
		t.Fatalf("codes = %s", got)
	}
	ds = s.AnalyzeSource(context.Background(), path, []byte("{'name': 'x'}\n"))
	if len(ds) == 0 || ds[0].Code != diag.ManifestRequiredKey {
		t.Fatalf("manifest rules did not run on in-memory source: %+v", ds)
	}
	if ds := s.AnalyzeSource(context.Background(), path, []byte{0xc3, 0x28}); len(ds) != 0 {
		t.Errorf("invalid UTF-8 produced %+v", ds)
	}
}

func TestAnalyzeFileIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.py", "from odoo.exceptions import Warning\nprint(1)\n")
	s := NewSession(nil)
	first := s.AnalyzeFile(context.Background(), path)
	second := s.AnalyzeFile(context.Background(), path)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\n%v\n%v", first, second)
	}
}

func TestAnalyzeFileHonorsDisable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.py", "print('x')\ncr.commit()\n")
	cfg := config.Default()
	cfg.Disable = []string{"OCA001"}
	if got := strings.Join(codes(AnalyzeFile(context.Background(), cfg, path)), ","); got != "OCA002" {
		t.Errorf("codes = %s, want OCA002", got)
	}
}

func TestAnalyzeFileRunsManifestRules(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "my_addon/__manifest__.py", "{'name': 'My addon'}\n")
	ds := AnalyzeFile(context.Background(), nil, path)
	if len(ds) != 3 {
		t.Fatalf("expected 3 missing-key findings, got %v", ds)
	}
	for _, d := range ds {
		if d.Code != diag.ManifestRequiredKey {
			t.Errorf("unexpected %s", d)
		}
	}
}

func TestAnalyzeDirOrderAndExclusion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.py", "print('b')\n")
	writeFile(t, dir, "a.py", "print('a')\n")
	writeFile(t, dir, "sub/c.py", "print('c')\n")
	writeFile(t, dir, "__pycache__/d.py", "print('d')\n")
	writeFile(t, dir, "notes.txt", "print('txt')\n")

	for _, jobs := range []int{1, 4} {
		s := NewSession(nil)
		s.Jobs = jobs
		ds, err := s.AnalyzeDir(context.Background(), dir)
		if err != nil {
			t.Fatalf("jobs=%d: %v", jobs, err)
		}
		var names []string
		for _, d := range ds {
			rel, _ := filepath.Rel(dir, d.Filename)
			names = append(names, filepath.ToSlash(rel))
		}
		if got := strings.Join(names, ","); got != "a.py,b.py,sub/c.py" {
			t.Errorf("jobs=%d: files = %s", jobs, got)
		}
	}
}

func TestAnalyzeDirNonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "print('a')\n")
	writeFile(t, dir, "sub/c.py", "print('c')\n")
	s := NewSession(nil)
	s.Recursive = false
	files, err := s.Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "a.py" {
		t.Errorf("files = %v", files)
	}
}

func TestAnalyzeDirGlobExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "addon/models/a.py", "print('a')\n")
	writeFile(t, dir, "addon/tests/test_a.py", "print('t')\n")
	cfg := config.Default()
	cfg.Exclude = []string{"test_*.py"}
	s := NewSession(cfg)
	files, err := s.Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || !strings.HasSuffix(filepath.ToSlash(files[0]), "models/a.py") {
		t.Errorf("files = %v", files)
	}
}

func TestAnalyzePath(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.py", "print('a')\n")
	s := NewSession(nil)

	ds, err := s.AnalyzePath(context.Background(), file)
	if err != nil || len(ds) != 1 {
		t.Fatalf("file: %v %v", ds, err)
	}
	ds, err = s.AnalyzePath(context.Background(), dir)
	if err != nil || len(ds) != 1 {
		t.Fatalf("dir: %v %v", ds, err)
	}
	_, err = s.AnalyzePath(context.Background(), filepath.Join(dir, "missing"))
	if !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
}

func TestAnalyzeFilesCanceled(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.py", "print('a')\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSession(nil).AnalyzeFiles(ctx, []string{file})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAnalyzeTracesSkippedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.py", "x = 1\n")
	writeFile(t, dir, "bad.py", "def (\n")
	ring := trace.NewRingTracer(64, trace.LevelFile)
	ctx := trace.WithTracer(context.Background(), ring)

	if _, err := NewSession(nil).AnalyzeDir(ctx, dir); err != nil {
		t.Fatal(err)
	}
	var skips []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindPoint && ev.Name == "skip" {
			skips = append(skips, filepath.Base(ev.Extra["path"])+"="+ev.Extra["reason"])
		}
	}
	if strings.Join(skips, ",") != "bad.py=malformed" {
		t.Errorf("skip events = %v", skips)
	}
}

func TestMetricsCountDiagnostics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "print(1)\nprint(2)\n")
	s := NewSession(nil)
	s.Metrics = NewMetrics()
	if _, err := s.AnalyzeDir(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(s.Metrics.diagnostics.WithLabelValues("OCA001")); got != 2 {
		t.Errorf("diagnostics{OCA001} = %v", got)
	}
	if got := testutil.ToFloat64(s.Metrics.files); got != 1 {
		t.Errorf("files = %v", got)
	}
	out := filepath.Join(dir, "ocalint.prom")
	if err := s.Metrics.WriteTextfile(out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil || !strings.Contains(string(data), "ocalint_diagnostics_total") {
		t.Errorf("textfile: %v\n%s", err, data)
	}
}
