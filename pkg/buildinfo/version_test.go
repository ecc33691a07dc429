package buildinfo

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
	Version, Commit, Date = "v0.3.0", "abc123", "2026-01-02T03:04:05Z"

	info := Get()
	if info.Version != "v0.3.0" || info.Commit != "abc123" || info.Date != "2026-01-02T03:04:05Z" {
		t.Errorf("Get() = %+v", info)
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"version":"v0.3.0","commit":"abc123","date":"2026-01-02T03:04:05Z"}`; string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}

	for _, s := range []string{String(), Template()} {
		if !strings.Contains(s, "v0.3.0") || !strings.Contains(s, "abc123") {
			t.Errorf("%q lacks version or commit", s)
		}
	}
}

func TestTemplateHasName(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} version ") {
		t.Errorf("Template() = %q", Template())
	}
}
