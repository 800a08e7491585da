package diag

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
)

func TestDiagnosticString(t *testing.T) {
	d := New(PrintUsed, SevWarning, "addon/models.py", Position{Line: 3, Column: 4}, "Print used. Use `logger` instead.")
	got := d.String()
	want := "addon/models.py:3:4: OCA001 Print used. Use `logger` instead."
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if !strings.Contains(got, d.Code.ID()) || !strings.Contains(got, strconv.Itoa(d.Line)) {
		t.Errorf("String() %q lacks code or line", got)
	}
}

func TestNewFallsBackToDefaultPosition(t *testing.T) {
	d := New(ManifestRequiredKey, SevConvention, "__manifest__.py", Position{}, "missing")
	if d.Line != 1 || d.Column != 0 {
		t.Fatalf("expected 1:0, got %d:%d", d.Line, d.Column)
	}
	if d.HasEnd() {
		t.Fatalf("default position must not carry an end")
	}
}

func TestRecordJSONShape(t *testing.T) {
	tests := []struct {
		name    string
		pos     Position
		wantEnd bool
	}{
		{name: "with end", pos: Position{Line: 2, Column: 1, EndLine: 2, EndColumn: 9}, wantEnd: true},
		{name: "without end", pos: Position{Line: 5, Column: 0}, wantEnd: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(InvalidCommit, SevError, "a.py", tt.pos, "msg")
			data, err := json.Marshal(d.Record())
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var raw map[string]any
			if err := json.Unmarshal(data, &raw); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			for _, key := range []string{"code", "message", "filename", "location", "end_location", "level", "fix"} {
				if _, ok := raw[key]; !ok {
					t.Errorf("missing key %q in %s", key, data)
				}
			}
			if raw["level"] != "error" {
				t.Errorf("level = %v, want error", raw["level"])
			}
			if got := raw["end_location"] != nil; got != tt.wantEnd {
				t.Errorf("end_location present = %v, want %v", got, tt.wantEnd)
			}
			loc := raw["location"].(map[string]any)
			if loc["row"].(float64) != float64(tt.pos.Line) {
				t.Errorf("row = %v, want %d", loc["row"], tt.pos.Line)
			}
		})
	}
}

func TestCodeIDs(t *testing.T) {
	codes := Codes()
	if len(codes) != 14 {
		t.Fatalf("expected 14 codes, got %d", len(codes))
	}
	if codes[0].ID() != "OCA001" || codes[13].ID() != "OCA014" {
		t.Fatalf("unexpected code range %s..%s", codes[0].ID(), codes[13].ID())
	}
	if UnknownCode.ID() != "OCA000" {
		t.Errorf("UnknownCode.ID() = %s", UnknownCode.ID())
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in   string
		want Code
		ok   bool
	}{
		{"OCA007", MethodRequiredSuper, true},
		{"oca003", SQLInjection, true},
		{"print-used", PrintUsed, true},
		{"OCA015", UnknownCode, false},
		{"OCA1", UnknownCode, false},
		{"E501", UnknownCode, false},
	}
	for _, tt := range tests {
		got, ok := ParseCode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCode(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBagSortAndErrors(t *testing.T) {
	bag := NewBag(4)
	bag.Add(New(PrintUsed, SevWarning, "b.py", Position{Line: 1}, "x"))
	bag.Add(New(PrintUsed, SevWarning, "a.py", Position{Line: 9, Column: 2}, "x"))
	bag.Add(New(InvalidCommit, SevError, "a.py", Position{Line: 9, Column: 1}, "x"))
	bag.Add(New(PrintUsed, SevWarning, "a.py", Position{Line: 3}, "x"))

	if !bag.HasErrors() {
		t.Fatalf("expected HasErrors")
	}
	sorted := bag.Sorted()
	want := []string{"a.py:3:0", "a.py:9:1", "a.py:9:2", "b.py:1:0"}
	for i, d := range sorted {
		if !strings.HasPrefix(d.String(), want[i]+":") {
			t.Errorf("sorted[%d] = %s, want prefix %s", i, d, want[i])
		}
	}
	if bag.Items()[0].Filename != "b.py" {
		t.Errorf("Sorted must not reorder the bag")
	}
	if got := bag.CountByCode()[PrintUsed]; got != 3 {
		t.Errorf("CountByCode[PrintUsed] = %d, want 3", got)
	}
}

func TestSeverityRoundTrip(t *testing.T) {
	for _, s := range []Severity{SevInfo, SevConvention, SevRefactor, SevWarning, SevError} {
		got, err := ParseSeverity(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSeverity(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Errorf("expected error for unknown severity")
	}
}
