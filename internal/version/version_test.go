package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origV, origC, origD := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = origV, origC, origD })
}

func TestString(t *testing.T) {
	tests := []struct {
		name, version, commit, date, want string
	}{
		{name: "plain", version: "1.2.3", commit: "none", want: "ocalint 1.2.3 (none)"},
		{name: "long commit", version: "1.2.3", commit: "abcdef0123456789", want: "ocalint 1.2.3 (abcdef012345)"},
		{name: "with date", version: "0.1.0-dev", commit: "abc", date: "2024-01-15", want: "ocalint 0.1.0-dev (abc) built 2024-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.version, tt.commit, tt.date)
			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	withVersion(t, "1.2.3-rc.1", "", "")
	got := Colored()
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc.1") {
		t.Errorf("Colored() = %q", got)
	}

	withVersion(t, "nightly", "", "")
	if got := Colored(); got != "nightly" {
		t.Errorf("non-semver version must pass through, got %q", got)
	}
}
