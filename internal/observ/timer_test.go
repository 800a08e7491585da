package observ

import (
	"strings"
	"testing"
)

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	d := tm.Begin("discover")
	tm.End(d, "12 files")
	a := tm.Begin("analyze")
	tm.End(a, "")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "discover" || r.Phases[0].Note != "12 files" {
		t.Fatalf("report = %+v", r)
	}
	s := tm.Summary()
	for _, want := range []string{"timings:", "discover", "// 12 files", "analyze", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if len(tm.Report().Phases) != 0 {
		t.Errorf("nil timer must report nothing")
	}
}
