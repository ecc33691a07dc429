package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/cellgrid/pkg/cache"
	"github.com/matzehuels/cellgrid/pkg/core/hint"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"json, txt", []string{"json", "txt"}},
		{"svg,,png,", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "grids/form.json", "grids/form"},
		{"", "dashboard.toml", "dashboard"},
		{"", "form.layout.json", "form"},
		{"out/form.svg", "form.json", "out/form"},
		{"out/form.layout.json", "form.json", "out/form"},
		{"out/form", "form.json", "out/form"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name           string
		format, output string
		single         bool
		want           string
	}{
		{"derived svg", "svg", "", true, "form.svg"},
		{"derived layout", "json", "", true, "form.layout.json"},
		{"explicit single", "png", "shot.image", true, "shot.image"},
		{"explicit base", "txt", "out/grid", false, "out/grid.txt"},
		{"explicit with extension", "pdf", "out/grid.svg", false, "out/grid.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.format, tt.output, "form.json", tt.single); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "form.json")

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": []byte("<svg/>"), "txt": []byte("┌┐\n")},
		formats:   []string{"svg", "txt"},
		input:     input,
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	want := []string{filepath.Join(dir, "form.svg"), filepath.Join(dir, "form.txt")}
	if !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(want[0])
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("form.svg = %q, %v", data, err)
	}
}

func TestWriteArtifactsStdoutNeedsOneFormat(t *testing.T) {
	_, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": nil, "png": nil},
		formats:   []string{"svg", "png"},
		input:     "form.json",
		output:    stdoutPath,
	})
	if err == nil {
		t.Error("expected an error for two formats on stdout")
	}
}

func TestFormatLength(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{100, "100"},
		{12.5, "12.5"},
		{1.0 / 3, "0.33"},
		{hint.Unlimited, "∞"},
	}
	for _, tt := range tests {
		if got := formatLength(tt.v); got != tt.want {
			t.Errorf("formatLength(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(os.Stderr, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"solve", "hints", "render", "preview", "serve", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}
	if !strings.Contains(root.Short, "grid") {
		t.Errorf("root short description = %q", root.Short)
	}
}

func TestCacheFlagsKeyer(t *testing.T) {
	if k := (cacheFlags{}).keyer(); k != nil {
		t.Errorf("file cache keyer = %T, want nil", k)
	}
	if k := (cacheFlags{noCache: true, redis: "redis://x"}).keyer(); k != nil {
		t.Errorf("--no-cache keyer = %T, want nil", k)
	}
	for _, f := range []cacheFlags{{redis: "redis://x"}, {mongo: "mongodb://x"}} {
		k := f.keyer()
		if k == nil {
			t.Fatalf("keyer(%+v) = nil, want a scoped keyer", f)
		}
		if key := k.LayoutKey("abc", cache.LayoutKeyOpts{}); !strings.HasPrefix(key, appName+":") {
			t.Errorf("shared cache key %q lacks the %q prefix", key, appName+":")
		}
	}
}
