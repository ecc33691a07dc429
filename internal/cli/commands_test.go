package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/cellgrid/pkg/core/engine"
	"github.com/matzehuels/cellgrid/pkg/document"
	"github.com/matzehuels/cellgrid/pkg/errors"
	"github.com/matzehuels/cellgrid/pkg/pipeline"
)

const pairDoc = `name = "pair"
spacing = 0

[[elements]]
id = "a"
row = 0
column = 0
  [elements.width]
  preferred = 30
  policy = "fixed"
  [elements.height]
  preferred = 10
  policy = "fixed"

[[elements]]
id = "b"
row = 0
column = 1
  [elements.width]
  preferred = 20
  policy = "expanding"
  [elements.height]
  preferred = 10
  policy = "fixed"
`

// setup writes the pair document to a temp dir and points the cache at
// another one.
func setup(t *testing.T) (docPath string) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envRedis, "")
	t.Setenv(envMongo, "")

	docPath = filepath.Join(t.TempDir(), "pair.toml")
	if err := os.WriteFile(docPath, []byte(pairDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	return docPath
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSolveWritesArtifacts(t *testing.T) {
	doc := setup(t)
	base := strings.TrimSuffix(doc, ".toml")

	if _, err := runCLI(t, "solve", doc, "-f", "svg,json,txt", "--width", "100", "--columns", "10", "--rows", "3"); err != nil {
		t.Fatalf("solve: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil || !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("pair.svg = %.30q, %v", svg, err)
	}
	l, err := document.ReadLayoutFile(base + ".layout.json")
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if l.Width != 100 || len(l.Elements) != 2 {
		t.Errorf("layout width %v with %d elements, want 100 with 2", l.Width, len(l.Elements))
	}
	txt, err := os.ReadFile(base + ".txt")
	if err != nil || strings.Count(string(txt), "\n") != 3 {
		t.Errorf("pair.txt = %q, %v", txt, err)
	}
}

func TestSolveRejectsUnknownFormat(t *testing.T) {
	doc := setup(t)
	_, err := runCLI(t, "solve", doc, "-f", "gif")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("solve -f gif error = %v, want UNSUPPORTED", err)
	}
}

func TestSolveMissingFile(t *testing.T) {
	setup(t)
	if _, err := runCLI(t, "solve", filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing document")
	}
}

func TestRenderFromLayout(t *testing.T) {
	doc := setup(t)
	base := strings.TrimSuffix(doc, ".toml")
	if _, err := runCLI(t, "solve", doc, "-f", "json", "--no-cache"); err != nil {
		t.Fatalf("solve: %v", err)
	}

	out := filepath.Join(t.TempDir(), "sketch.txt")
	if _, err := runCLI(t, "render", base+".layout.json", "-f", "txt", "-o", out, "--columns", "12", "--rows", "4"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read sketch: %v", err)
	}
	if lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n"); len(lines) != 4 {
		t.Errorf("sketch has %d lines, want 4:\n%s", len(lines), data)
	}
}

func TestHintsJSON(t *testing.T) {
	doc := setup(t)
	out, err := runCLI(t, "hints", doc, "--json")
	if err != nil {
		t.Fatalf("hints: %v", err)
	}

	var h pipeline.Hints
	if err := json.Unmarshal([]byte(out), &h); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if h.Preferred.Width != 50 || h.Preferred.Height != 10 {
		t.Errorf("preferred = %+v, want {50 10}", h.Preferred)
	}
	if h.Rows != 1 || h.Columns != 2 {
		t.Errorf("grid = %dx%d, want 1x2", h.Rows, h.Columns)
	}
}

func TestHintsTable(t *testing.T) {
	doc := setup(t)
	out, err := runCLI(t, "hints", doc)
	if err != nil {
		t.Fatalf("hints: %v", err)
	}
	for _, want := range []string{"minimum", "preferred", "maximum", "50", "∞"} {
		if !strings.Contains(out, want) {
			t.Errorf("hints table lacks %q:\n%s", want, out)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	doc := setup(t)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	dir := strings.TrimSpace(out)
	if want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName); dir != want {
		t.Errorf("cache path = %q, want %q", dir, want)
	}

	if _, err := runCLI(t, "solve", doc, "-f", "svg"); err != nil {
		t.Fatalf("solve: %v", err)
	}
	if entries := countFiles(t, dir); entries == 0 {
		t.Fatal("solve left the cache empty")
	}

	if _, err := runCLI(t, "cache", "info"); err != nil {
		t.Errorf("cache info: %v", err)
	}
	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if entries := countFiles(t, dir); entries != 0 {
		t.Errorf("%d entries left after clear", entries)
	}
}

func TestCacheClearWithoutCache(t *testing.T) {
	setup(t)
	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Errorf("cache clear on a missing cache: %v", err)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	_ = filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func TestCompletion(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion bash: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion does not mention the command")
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}

// =============================================================================
// Preview
// =============================================================================

func newTestPreview(t *testing.T) previewModel {
	t.Helper()
	doc, err := document.Parse([]byte(pairDoc), document.FormatTOML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return newPreviewModel(doc, newLogger(io.Discard, LogInfo), 8, 16)
}

func update(t *testing.T, m previewModel, msg tea.Msg) (previewModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(previewModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm, cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPreviewFollowsWindow(t *testing.T) {
	m := newTestPreview(t)
	if !strings.Contains(m.View(), "measuring") {
		t.Errorf("view before sizing = %q", m.View())
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 7})
	if m.err != nil {
		t.Fatalf("solve: %v", m.err)
	}
	if m.layout.Width != 160 || m.layout.Height != 80 {
		t.Errorf("layout = %vx%v, want 160x80", m.layout.Width, m.layout.Height)
	}

	view := m.View()
	if lines := strings.Count(view, "\n"); lines != 1+m.canvasLines() {
		t.Errorf("view has %d newlines, want %d", lines, 1+m.canvasLines())
	}
	if !strings.Contains(view, "q quit") {
		t.Error("view lacks the key help")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 12})
	if m.layout.Width != 320 {
		t.Errorf("layout width after resize = %v, want 320", m.layout.Width)
	}
}

func TestPreviewReusesGrid(t *testing.T) {
	m := newTestPreview(t)
	g := m.grid
	if g == nil {
		t.Fatal("preview did not build the grid")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 7})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 12})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 7})
	if m.grid != g {
		t.Error("resizing rebuilt the grid")
	}
	if m.layout.Width != 160 || m.layout.Height != 80 {
		t.Errorf("layout after resizing back = %vx%v, want 160x80", m.layout.Width, m.layout.Height)
	}
	if cols := m.grid.Engine().Segments(engine.Horizontal); len(cols) != 2 || cols[0].Length != 30 {
		t.Errorf("column segments = %+v, want 2 starting with 30", cols)
	}
}

func TestPreviewInvalidDocument(t *testing.T) {
	doc, err := document.Parse([]byte(pairDoc), document.FormatTOML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	doc.Elements = append(doc.Elements, doc.Elements[0])

	m := newPreviewModel(doc, newLogger(io.Discard, LogInfo), 8, 16)
	if m.err == nil {
		t.Fatal("expected a build error for a duplicate id")
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 7})
	if !strings.Contains(m.View(), m.err.Error()) {
		t.Errorf("view does not show the error: %q", m.View())
	}
}

func TestPreviewKeys(t *testing.T) {
	m := newTestPreview(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 7})

	m, _ = update(t, m, key("d"))
	if m.direction != "rtl" || m.layout.Direction != "rtl" {
		t.Errorf("direction = %q, layout %q, want rtl", m.direction, m.layout.Direction)
	}
	if a := m.layout.Elements[0]; a.Rect.X != 160-30 {
		t.Errorf("mirrored element x = %v, want 130", a.Rect.X)
	}

	m, _ = update(t, m, key("f"))
	if !m.fixed || m.layout.Width != 50 {
		t.Errorf("fixed layout width = %v, want the preferred 50", m.layout.Width)
	}

	m, _ = update(t, m, key("c"))
	if m.color {
		t.Error("c should turn colors off")
	}

	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not return tea.Quit")
	}
}
