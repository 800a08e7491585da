package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
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

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errb bytes.Buffer
	code = newApp().execute(context.Background(), args, &out, &errb)
	return code, out.String(), errb.String()
}

func TestCheckExitCodes(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clean/a.py", "x = 1\n")
	warn := writeFile(t, dir, "warn/a.py", "print('x')\n")
	fail := writeFile(t, dir, "fail/a.py", "cr.commit()\n")

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantOut  string
	}{
		{name: "clean", path: filepath.Dir(clean), wantCode: 0, wantOut: ""},
		{name: "warning only", path: filepath.Dir(warn), wantCode: 0, wantOut: "OCA001 Print used"},
		{name: "error", path: filepath.Dir(fail), wantCode: 1, wantOut: "OCA002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, stderr := run(t, "check", "--no-config", "--ui=off", tt.path)
			if code != tt.wantCode {
				t.Fatalf("exit = %d, want %d (stderr %q)", code, tt.wantCode, stderr)
			}
			if tt.wantOut == "" && out != "" {
				t.Errorf("expected no output, got %q", out)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output %q missing %q", out, tt.wantOut)
			}
		})
	}
}

func TestCheckMissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	code, out, stderr := run(t, "check", "--no-config", missing)
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if out != "" {
		t.Errorf("unexpected stdout %q", out)
	}
	if stderr != "Error: Path does not exist: "+missing+"\n" {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestBarePathBehavesAsCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "print('x')\n")
	_, viaCheck, _ := run(t, "check", "--ui=off", dir)
	_, bare, _ := run(t, "--ui=off", dir)
	if bare == "" || bare != viaCheck {
		t.Errorf("bare output %q differs from check output %q", bare, viaCheck)
	}
}

func TestNoArgsPrintsHelp(t *testing.T) {
	code, out, _ := run(t)
	if code != 0 || !strings.Contains(out, "Usage:") {
		t.Errorf("exit = %d, out = %q", code, out)
	}
}

func TestCheckJSONFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.py", "print('b')\n")
	writeFile(t, dir, "a.py", "print('a')\n")
	code, out, _ := run(t, "check", "--no-config", "--ui=off", "--format", "json", "--path-mode", "basename", dir)
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	var recs []map[string]any
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(recs) != 2 || recs[0]["filename"] != "a.py" || recs[1]["filename"] != "b.py" {
		t.Errorf("records = %v", recs)
	}
}

func TestCheckUnknownFormat(t *testing.T) {
	code, _, stderr := run(t, "check", "--no-config", "--format", "xml", t.TempDir())
	if code != exitUsage {
		t.Fatalf("exit = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(stderr, "Available formats: github, json, msgpack, sarif, text") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCheckUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/a.py", "print('x')\ncr.commit()\n")
	cfgPath := writeFile(t, dir, "ocalint.toml", "disable = [\"OCA002\"]\noutput-format = \"github\"\n")

	code, out, stderr := run(t, "check", "--ui=off", "--config", cfgPath, filepath.Join(dir, "src"))
	if code != 0 {
		t.Fatalf("exit = %d, stderr %q", code, stderr)
	}
	if !strings.HasPrefix(out, "::warning file=") || strings.Contains(out, "OCA002") {
		t.Errorf("output = %q", out)
	}

	bad := writeFile(t, dir, "bad.toml", "enable = \"OCA001\"\n")
	if code, _, _ := run(t, "check", "--config", bad, dir); code != exitUsage {
		t.Errorf("invalid config exit = %d, want %d", code, exitUsage)
	}
	if code, _, _ := run(t, "check", "--config", filepath.Join(dir, "missing.toml"), dir); code != exitUsage {
		t.Errorf("missing config exit = %d, want %d", code, exitUsage)
	}
}

func TestCheckTimingsAndMetrics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "print('x')\n")
	metrics := filepath.Join(t.TempDir(), "ocalint.prom")
	trace := filepath.Join(t.TempDir(), "trace.ndjson")

	code, _, stderr := run(t, "check", "--no-config", "--ui=off", "--timings",
		"--metrics-file", metrics, "--trace", trace, "--trace-level", "file", dir)
	if code != 0 {
		t.Fatalf("exit = %d, stderr %q", code, stderr)
	}
	for _, want := range []string{"timings:", "discover", "analyze", "render"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
	data, err := os.ReadFile(metrics)
	if err != nil || !strings.Contains(string(data), `ocalint_diagnostics_total{code="OCA001"} 1`) {
		t.Errorf("metrics: %v\n%s", err, data)
	}
	traceData, err := os.ReadFile(trace)
	if err != nil {
		t.Fatal(err)
	}
	first, _, _ := strings.Cut(string(traceData), "\n")
	var ev map[string]any
	if err := json.Unmarshal([]byte(first), &ev); err != nil || ev["name"] != "check" {
		t.Errorf("first trace event = %q (%v)", first, err)
	}
}

func TestConfigCommand(t *testing.T) {
	code, out, _ := run(t, "config", "--no-config")
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.HasPrefix(out, "# source: built-in defaults\n") || !strings.Contains(out, "valid-odoo-versions") {
		t.Errorf("out = %q", out)
	}
	code, out, _ = run(t, "config", "--no-config", "--format", "yaml")
	if code != 0 || !strings.Contains(out, "output-format: text") {
		t.Errorf("yaml out = %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	code, out, _ := run(t, "version", "--format", "json", "--rules")
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "ocalint" || len(payload.Rules) != 14 || !strings.HasPrefix(payload.Rules[0], "OCA001 ") {
		t.Errorf("payload = %+v", payload)
	}
	if code, _, _ := run(t, "version", "--format", "xml"); code != exitUsage {
		t.Errorf("bad format exit = %d", code)
	}
}

func TestParseAutoSwitch(t *testing.T) {
	tests := []struct {
		in   string
		want autoSwitch
	}{
		{in: "", want: switchAuto},
		{in: "AUTO", want: switchAuto},
		{in: "on", want: switchOn},
		{in: " off ", want: switchOff},
	}
	for _, tt := range tests {
		got, err := parseAutoSwitch("ui", tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseAutoSwitch(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := parseAutoSwitch("color", "maybe"); err == nil || !strings.Contains(err.Error(), "--color") {
		t.Errorf("expected --color error, got %v", err)
	}
	if !switchOn.enabledFor(os.Stderr) || switchOff.enabledFor(os.Stderr) {
		t.Errorf("explicit modes ignored")
	}
}

func lspFrame(body string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func TestLSPCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode int
	}{
		{
			name: "clean shutdown",
			input: lspFrame(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`) +
				lspFrame(`{"jsonrpc":"2.0","id":2,"method":"shutdown"}`) +
				lspFrame(`{"jsonrpc":"2.0","method":"exit"}`),
			wantCode: 0,
		},
		{
			name:     "exit without shutdown",
			input:    lspFrame(`{"jsonrpc":"2.0","method":"exit"}`),
			wantCode: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newApp()
			a.root.SetIn(strings.NewReader(tt.input))
			var out, errb bytes.Buffer
			code := a.execute(context.Background(), []string{"lsp", "--no-config"}, &out, &errb)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr %q)", code, tt.wantCode, errb.String())
			}
			if tt.wantCode == 0 && !strings.Contains(out.String(), `"name":"ocalint"`) {
				t.Errorf("initialize response missing server info: %q", out.String())
			}
		})
	}
}

func TestCheckShowSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\nprint('x')\n")
	code, out, _ := run(t, "check", "--no-config", "--ui=off", "--show-source", dir)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "2 | print('x')\n  | ^^^^^^^^^^\n") {
		t.Errorf("missing source snippet:\n%s", out)
	}
}

func TestTreeCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "print('x')\n")
	code, out, stderr := run(t, "tree", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if !strings.HasPrefix(out, "module [module]\n└─ expression_statement") {
		t.Errorf("unexpected tree:\n%s", out)
	}

	code, out, _ = run(t, "tree", "--format=json", path)
	if code != 0 || !json.Valid([]byte(out)) {
		t.Errorf("json tree: code %d, output %q", code, out)
	}

	broken := writeFile(t, dir, "b.py", "print 'x'\n")
	if code, _, _ := run(t, "tree", broken); code != 1 {
		t.Errorf("syntax error exit code = %d, want 1", code)
	}
	if code, _, _ := run(t, "tree", "--format=xml", path); code != 2 {
		t.Errorf("bad format exit code = %d, want 2", code)
	}
}
