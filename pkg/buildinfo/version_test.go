package buildinfo

import (
	"strings"
	"testing"
)

func TestReadPrefersLdflags(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02"

	got := Read()
	want := Info{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-02"}
	if got != want {
		t.Errorf("Read() = %+v, want %+v", got, want)
	}
}

func TestTemplate(t *testing.T) {
	defer func(v string) { Version = v }(Version)
	Version = "v9.9.9"

	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version: v9.9.9\n") {
		t.Errorf("Template() = %q", tmpl)
	}
	if !strings.HasSuffix(tmpl, "\n") {
		t.Error("Template() should end with a newline")
	}
}
