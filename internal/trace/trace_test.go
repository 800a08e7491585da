package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeRun, false},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeFile, false},
		{LevelFile, ScopeFile, true},
		{LevelFile, ScopeRule, false},
		{LevelDebug, ScopeRule, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "phase", "FILE", "debug"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelFile, FormatText)
	run := Begin(tr, ScopeRun, "check", 0)
	file := Begin(tr, ScopeFile, "file:a.py", run.ID())
	Begin(tr, ScopeRule, "rule:print", file.ID()).End("")
	file.WithExtra("diagnostics", "2").End("")
	run.End("ok")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events (rule span filtered), got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "→ check") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "← file:a.py {diagnostics=2}") {
		t.Errorf("file end = %q", lines[2])
	}
	if !strings.Contains(lines[3], "(ok)") {
		t.Errorf("run end = %q", lines[3])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeFile, "skip", 7, map[string]string{"reason": "malformed"})

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if ev["kind"] != "point" || ev["scope"] != "file" || ev["parent_id"] != float64(7) {
		t.Errorf("unexpected event %v", ev)
	}
	if extra := ev["extra"].(map[string]any); extra["reason"] != "malformed" {
		t.Errorf("extra = %v", extra)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeFile, Name: name})
	}
	snap := r.Snapshot()
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ""); got != "cde" {
		t.Fatalf("snapshot = %q, want cde", got)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("dump:\n%s", buf.String())
	}
}

func TestNewModes(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must yield a disabled tracer")
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePhase, "discover", 0).End("")
	if buf.Len() == 0 {
		t.Errorf("stream half wrote nothing")
	}
	ring := Ring(tr)
	if ring == nil || len(ring.Snapshot()) != 2 {
		t.Fatalf("ring half missing events")
	}
	if err := tr.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Errorf("expected Nop without tracer")
	}
	r := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	span := Begin(FromContext(ctx), ScopePhase, "analyze", 0)
	ctx = WithSpan(ctx, span)
	if ParentSpan(ctx) != span.ID() || span.ID() == 0 {
		t.Errorf("ParentSpan = %d, want %d", ParentSpan(ctx), span.ID())
	}
}

func TestInertSpanKeepsParent(t *testing.T) {
	s := Begin(Nop, ScopeFile, "x", 42)
	if s.ID() != 42 {
		t.Errorf("inert span ID = %d, want parent 42", s.ID())
	}
	if d := s.End(""); d != 0 {
		t.Errorf("inert span duration = %v", d)
	}
}

func TestHeartbeat(t *testing.T) {
	r := NewRingTracer(16, LevelPhase)
	h := StartHeartbeat(r, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	h.Stop()
	h.Stop()
	if len(r.Snapshot()) == 0 {
		t.Errorf("no heartbeat recorded")
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Errorf("disabled tracer must not start a heartbeat")
	}
}
