package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCurrentTrimsAndDefaults(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	Version = "  1.2.3 "
	GitCommit = "abc123def456\n"
	BuildDate = ""
	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != "abc123def456" || info.BuildDate != "" {
		t.Fatalf("unexpected info %+v", info)
	}

	Version = " "
	if got := Current().Version; got != "dev" {
		t.Fatalf("empty version must become dev, got %q", got)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	tests := []struct {
		in   string
		want string
	}{
		{"0.1.0", "0.1.0"},
		{"1.0.0-beta.1", "1.0.0-beta.1"},
		{"dev", "dev"},
		{"1.2", "1.2"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in); got != tt.want {
			t.Fatalf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColoredEmitsEscapes(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = orig })

	got := Colored("0.1.0-dev")
	if got == "0.1.0-dev" {
		t.Fatalf("expected colored output, got %q", got)
	}
}
