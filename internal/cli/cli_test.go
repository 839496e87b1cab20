package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/slotcraft/pkg/core/element"
	"github.com/matzehuels/slotcraft/pkg/core/engine"
	"github.com/matzehuels/slotcraft/pkg/core/placement"
	"github.com/matzehuels/slotcraft/pkg/core/template"
	"github.com/matzehuels/slotcraft/pkg/errors"
	"github.com/matzehuels/slotcraft/pkg/pipeline"
)

const assetsJSON = `[
  {"id": "shoe", "assetType": "product", "url": "https://cdn.example.com/shoe.png", "displayName": "Shoe"},
  {"id": "acme", "assetType": "logo", "url": "https://cdn.example.com/acme.svg", "displayName": "Acme"}
]`

// execute runs the CLI with args and returns what the command wrote to
// stdout. Status output and the cache are redirected into the test.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	prev := uiOut
	uiOut = io.Discard
	t.Cleanup(func() { uiOut = prev })

	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func decodeOut[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	return v
}

func templateIDs(ts []template.Template) []string {
	ids := make([]string, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
	}
	return ids
}

func TestTemplatesList(t *testing.T) {
	out, err := execute(t, "templates", "list", "--json", "--category", "social")
	if err != nil {
		t.Fatalf("templates list error: %v", err)
	}
	got := templateIDs(decodeOut[[]template.Template](t, out))
	if !slices.Equal(got, []string{"story-hero", "video-thumbnail"}) {
		t.Errorf("ids = %v", got)
	}

	out, err = execute(t, "templates", "list")
	if err != nil {
		t.Fatalf("templates list (table) error: %v", err)
	}
	if !strings.Contains(out, "product-spotlight") || !strings.Contains(out, "Premium") {
		t.Errorf("table output missing rows:\n%s", out)
	}

	if _, err := execute(t, "templates", "list", "--category", "weird"); !errors.Is(err, errors.ErrCodeInvalidEnum) {
		t.Errorf("bad category error = %v", err)
	}
}

func TestTemplatesShow(t *testing.T) {
	out, err := execute(t, "templates", "show", "story-hero", "--json")
	if err != nil {
		t.Fatalf("templates show error: %v", err)
	}
	if got := decodeOut[template.Template](t, out); got.ID != "story-hero" || len(got.Slots) != 2 {
		t.Errorf("template = %s with %d slots", got.ID, len(got.Slots))
	}

	out, err = execute(t, "templates", "show", "speaker-card")
	if err != nil {
		t.Fatalf("templates show (table) error: %v", err)
	}
	if !strings.Contains(out, "event-logo") {
		t.Errorf("slot table missing event-logo:\n%s", out)
	}

	if _, err := execute(t, "templates", "show", "nope"); !errors.Is(err, errors.ErrCodeTemplateNotFound) {
		t.Errorf("missing template error = %v", err)
	}
}

func TestExtraCatalog(t *testing.T) {
	extra := writeFile(t, "extra.toml", `
[[templates]]
id = "quote-card"
name = "Quote Card"
category = "social"
target_canvas = ["instagram-post"]
color_scheme = "muted"

[[templates.slots]]
id = "portrait"
accepted_types = ["avatar", "photo"]
required = true
position = { x = 50, y = 40 }
size = { width = 40, height = 40 }
default_opacity = 100
auto_fit = "cover"
`)

	out, err := execute(t, "--catalog", extra, "templates", "list", "--json", "--category", "social")
	if err != nil {
		t.Fatalf("templates list error: %v", err)
	}
	got := templateIDs(decodeOut[[]template.Template](t, out))
	if !slices.Contains(got, "quote-card") {
		t.Errorf("ids = %v, want quote-card included", got)
	}

	if _, err := execute(t, "validate", extra); err != nil {
		t.Errorf("validate error: %v", err)
	}

	broken := writeFile(t, "broken.toml", strings.Replace(mustRead(t, extra), "x = 50", "x = 150", 1))
	if _, err := execute(t, "validate", broken); !errors.Is(err, errors.ErrCodeInvalidTemplate) {
		t.Errorf("validate broken error = %v", err)
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestValidateBuiltin(t *testing.T) {
	out, err := execute(t, "validate", "--json")
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	reports := decodeOut[[]validationReport](t, out)
	if len(reports) != 8 {
		t.Errorf("reports = %d, want 8", len(reports))
	}
}

func TestAssign(t *testing.T) {
	assets := writeFile(t, "assets.json", assetsJSON)

	out, err := execute(t, "assign", "product-spotlight", "--assets", assets, "--elements", "--no-cache")
	if err != nil {
		t.Fatalf("assign error: %v", err)
	}
	res := decodeOut[pipeline.Result](t, out)
	if !res.Status.IsComplete || len(res.Applied.Placements) != 2 || len(res.Elements) != 2 {
		t.Errorf("result: complete=%v placements=%d elements=%d",
			res.Status.IsComplete, len(res.Applied.Placements), len(res.Elements))
	}

	dest := filepath.Join(t.TempDir(), "out.json")
	out, err = execute(t, "assign", "product-spotlight", "--assets", assets, "--canvas", "facebook-post", "--elements", "-o", dest)
	if err != nil {
		t.Fatalf("assign -o error: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty with -o", out)
	}
	saved := decodeOut[pipeline.Result](t, mustRead(t, dest))
	if saved.Canvas == nil || saved.Canvas.Width != 1200 || saved.Canvas.Height != 630 {
		t.Errorf("canvas = %+v, want 1200x630", saved.Canvas)
	}

	assignment := writeFile(t, "assignment.json", `{"logo": "acme"}`)
	out, err = execute(t, "assign", "product-spotlight", "--assets", assets, "--assignment", assignment, "--no-cache")
	if err != nil {
		t.Fatalf("assign --assignment error: %v", err)
	}
	res = decodeOut[pipeline.Result](t, out)
	if !slices.Equal(res.Status.UnfilledRequiredSlotIDs, []string{"product"}) {
		t.Errorf("unfilled = %v, want [product]", res.Status.UnfilledRequiredSlotIDs)
	}

	if _, err := execute(t, "assign", "product-spotlight", "--assets", filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing assets error = %v", err)
	}
}

func TestStatus(t *testing.T) {
	assets := writeFile(t, "assets.json", `[{"id": "shoe", "assetType": "product", "url": "https://cdn.example.com/shoe.png"}]`)

	out, err := execute(t, "status", "product-spotlight", "--assets", assets, "--json")
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	st := decodeOut[engine.TemplateStatus](t, out)
	if st.IsComplete || st.FilledCount != 1 || !slices.Equal(st.UnfilledRequiredSlotIDs, []string{"logo"}) {
		t.Errorf("status = %+v", st)
	}
}

func TestSuggest(t *testing.T) {
	assets := writeFile(t, "assets.json", assetsJSON)

	out, err := execute(t, "suggest", "--assets", assets, "--limit", "1", "--json", "--no-cache")
	if err != nil {
		t.Fatalf("suggest error: %v", err)
	}
	ss := decodeOut[[]pipeline.Suggestion](t, out)
	if len(ss) != 1 || ss[0].TemplateID != "product-spotlight" {
		t.Errorf("suggestions = %+v", ss)
	}

	out, err = execute(t, "suggest", "--assets", assets, "--category", "social")
	if err != nil {
		t.Fatalf("suggest (table) error: %v", err)
	}
	if !strings.Contains(out, "story-hero") || strings.Contains(out, "product-spotlight") {
		t.Errorf("table output:\n%s", out)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	assets := writeFile(t, "assets.json", assetsJSON)
	out, err := execute(t, "assign", "product-spotlight", "--assets", assets, "--no-cache")
	if err != nil {
		t.Fatalf("assign error: %v", err)
	}
	res := decodeOut[pipeline.Result](t, out)

	data, err := json.Marshal(map[string]any{"placements": res.Applied.Placements})
	if err != nil {
		t.Fatal(err)
	}
	placements := writeFile(t, "placements.json", string(data))

	out, err = execute(t, "elements", "--placements", placements, "--canvas", "twitter-post")
	if err != nil {
		t.Fatalf("elements error: %v", err)
	}
	els := decodeOut[[]element.ImageElement](t, out)
	if len(els) != 2 || els[0].Src != "https://cdn.example.com/shoe.png" {
		t.Fatalf("elements = %+v", els)
	}
	elements := writeFile(t, "elements.json", out)

	out, err = execute(t, "placements", "--elements", elements, "--assets", assets, "--canvas", "twitter-post")
	if err != nil {
		t.Fatalf("placements error: %v", err)
	}
	back := decodeOut[[]placement.AssetPlacement](t, out)
	if len(back) != 2 {
		t.Fatalf("placements = %d, want 2", len(back))
	}
	for i, p := range back {
		want := res.Applied.Placements[i]
		if d := p.Position.X - want.Position.X; d > 1e-9 || d < -1e-9 {
			t.Errorf("placement %d X = %v, want %v", i, p.Position.X, want.Position.X)
		}
		if d := p.Size.Height - want.Size.Height; d > 1e-9 || d < -1e-9 {
			t.Errorf("placement %d height = %v, want %v", i, p.Size.Height, want.Size.Height)
		}
	}

	if _, err := execute(t, "elements", "--placements", placements); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("elements without canvas error = %v", err)
	}
	if _, err := execute(t, "elements", "--placements", placements, "--width", "100"); err == nil {
		t.Error("elements with width only succeeded")
	}
}

func TestCacheCommands(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}

	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if strings.TrimSpace(out.String()) != dir {
		t.Errorf("cache path = %q, want %q", out.String(), dir)
	}

	prev := uiOut
	uiOut = io.Discard
	defer func() { uiOut = prev }()

	assets := writeFile(t, "assets.json", assetsJSON)
	root = New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"assign", "story-hero", "--assets", assets})
	if err := root.Execute(); err != nil {
		t.Fatalf("assign error: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) == 0 {
		t.Fatal("assign did not populate the cache")
	}

	root = New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
}
