package pipeline

import (
	"context"
	"io"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slotcraft/pkg/cache"
	"github.com/matzehuels/slotcraft/pkg/core/catalog"
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/template"
	"github.com/matzehuels/slotcraft/pkg/errors"
	"github.com/matzehuels/slotcraft/pkg/observability"
)

var (
	shoe = media.Asset{ID: "shoe", Type: media.TypeProduct, URL: "https://cdn.example.com/shoe.png", DisplayName: "Shoe"}
	acme = media.Asset{ID: "acme", Type: media.TypeLogo, URL: "https://cdn.example.com/acme.svg", DisplayName: "Acme"}
)

func newTestRunner(c cache.Cache) *Runner {
	return NewRunner(catalog.Builtin(), c, nil, log.New(io.Discard))
}

func TestArrange(t *testing.T) {
	r := newTestRunner(nil)

	res, hit, err := r.Arrange(context.Background(), Request{
		TemplateID: "product-spotlight",
		Assets:     []media.Asset{shoe, acme},
	})
	if err != nil {
		t.Fatalf("Arrange() error: %v", err)
	}
	if hit {
		t.Error("Arrange() reported a cache hit with a null cache")
	}
	if !res.Status.IsComplete || res.Status.FilledCount != 2 {
		t.Errorf("Status = %+v", res.Status)
	}
	if res.Assignment.Slots["product"] != "shoe" || res.Assignment.Slots["logo"] != "acme" {
		t.Errorf("Assignment = %v", res.Assignment.Slots)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v", res.Warnings)
	}
	if res.Canvas != nil || res.Elements != nil {
		t.Error("elements computed without being requested")
	}
}

func TestArrangeElements(t *testing.T) {
	r := newTestRunner(nil)

	tests := []struct {
		name         string
		req          Request
		wantW, wantH float64
	}{
		{"template default", Request{}, 1080, 1080},
		{"canvas type", Request{CanvasType: template.CanvasFacebookPost}, 1200, 630},
		{"explicit size", Request{CanvasType: template.CanvasFacebookPost, CanvasWidth: 500, CanvasHeight: 400}, 500, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.TemplateID = "product-spotlight"
			req.Assets = []media.Asset{shoe, acme}
			req.Elements = true

			res, _, err := r.Arrange(context.Background(), req)
			if err != nil {
				t.Fatalf("Arrange() error: %v", err)
			}
			if res.Canvas == nil || res.Canvas.Width != tt.wantW || res.Canvas.Height != tt.wantH {
				t.Fatalf("Canvas = %+v, want %vx%v", res.Canvas, tt.wantW, tt.wantH)
			}
			if len(res.Elements) != 2 {
				t.Fatalf("len(Elements) = %d, want 2", len(res.Elements))
			}
			// product slot: center 50/52, size 70x65
			e := res.Elements[0]
			if e.AssetID != "shoe" {
				t.Fatalf("Elements[0] = %s, want shoe", e.AssetID)
			}
			if math.Abs(e.X-0.15*tt.wantW) > 1e-9 || math.Abs(e.Width-0.70*tt.wantW) > 1e-9 {
				t.Errorf("element x/width = %v/%v", e.X, e.Width)
			}
		})
	}
}

func TestArrangeExplicitAssignment(t *testing.T) {
	r := newTestRunner(nil)
	res, _, err := r.Arrange(context.Background(), Request{
		TemplateID: "product-spotlight",
		Assets:     []media.Asset{shoe, acme},
		Assignment: map[string]string{"background": "shoe", "logo": "acme", "product": "ghost", "nope": "shoe"},
	})
	if err != nil {
		t.Fatalf("Arrange() error: %v", err)
	}
	ids := make([]string, len(res.Applied.Placements))
	for i, p := range res.Applied.Placements {
		ids[i] = p.SlotID
	}
	// shoe is a product, which the background slot does not accept
	if !slices.Equal(ids, []string{"logo"}) {
		t.Errorf("placed slots = %v", ids)
	}
	if res.Status.IsComplete || !slices.Equal(res.Status.UnfilledRequiredSlotIDs, []string{"product"}) {
		t.Errorf("Status = %+v", res.Status)
	}
	if len(res.Assignment.Slots) != 1 || res.Assignment.Slots["logo"] != "acme" {
		t.Errorf("Assignment.Slots = %v, want only logo", res.Assignment.Slots)
	}
	if !slices.Equal(res.Assignment.UnfilledRequired, res.Status.UnfilledRequiredSlotIDs) {
		t.Errorf("Assignment.UnfilledRequired = %v, Status = %v",
			res.Assignment.UnfilledRequired, res.Status.UnfilledRequiredSlotIDs)
	}
}

func TestArrangeCache(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute)
	r := newTestRunner(c)
	ctx := context.Background()
	req := Request{TemplateID: "story-hero", Assets: []media.Asset{shoe}, Elements: true}

	first, hit, err := r.Arrange(ctx, req)
	if err != nil || hit {
		t.Fatalf("first Arrange() hit=%v err=%v", hit, err)
	}
	second, hit, err := r.Arrange(ctx, req)
	if err != nil || !hit {
		t.Fatalf("second Arrange() hit=%v err=%v", hit, err)
	}
	if second.Status.FilledCount != first.Status.FilledCount || len(second.Elements) != len(first.Elements) {
		t.Errorf("cached result differs: %+v vs %+v", second.Status, first.Status)
	}

	req.Refresh = true
	if _, hit, _ := r.Arrange(ctx, req); hit {
		t.Error("Refresh still hit the cache")
	}

	req.Refresh = false
	req.Assets = []media.Asset{shoe, acme}
	if _, hit, _ := r.Arrange(ctx, req); hit {
		t.Error("different assets hit the cache")
	}
}

func TestArrangeCacheKeyCoversCanvas(t *testing.T) {
	bare := template.Template{ID: "bare", Name: "Bare", Category: template.CategorySocial, Slots: []template.Slot{{
		ID: "hero", AcceptedTypes: []media.AssetType{media.TypeProduct}, Required: true,
		Position: template.Position{X: 50, Y: 50}, Size: template.Size{Width: 50, Height: 50}, DefaultOpacity: 100,
	}}}
	r := NewRunner(catalog.MustNew(bare), cache.NewMemoryCache(time.Minute), nil, log.New(io.Discard))
	ctx := context.Background()

	req := Request{TemplateID: "bare", Assets: []media.Asset{shoe}}
	if _, _, err := r.Arrange(ctx, req); err != nil {
		t.Fatalf("Arrange() error: %v", err)
	}
	req.Elements = true
	if _, hit, err := r.Arrange(ctx, req); !errors.Is(err, errors.ErrCodeInvalidInput) || hit {
		t.Errorf("Arrange(elements, no canvas) hit=%v err=%v, want INVALID_INPUT", hit, err)
	}

	req.CanvasType, req.CanvasWidth, req.CanvasHeight = template.CanvasFacebookPost, 500, 400
	if _, hit, err := r.Arrange(ctx, req); err != nil || hit {
		t.Fatalf("first sized Arrange() hit=%v err=%v", hit, err)
	}
	req.CanvasType = template.CanvasTwitterPost
	res, hit, err := r.Arrange(ctx, req)
	if err != nil {
		t.Fatalf("Arrange() error: %v", err)
	}
	if hit || res.Canvas.Type != template.CanvasTwitterPost {
		t.Errorf("hit=%v canvas=%+v, want a fresh twitter-post result", hit, res.Canvas)
	}
}

func TestArrangeErrors(t *testing.T) {
	r := newTestRunner(nil)

	tests := []struct {
		name string
		req  Request
		code errors.Code
	}{
		{"unknown template", Request{TemplateID: "nope"}, errors.ErrCodeTemplateNotFound},
		{"bad template id", Request{TemplateID: "../x"}, errors.ErrCodeInvalidID},
		{"bad asset type", Request{TemplateID: "story-hero",
			Assets: []media.Asset{{ID: "a", Type: "selfie", URL: "https://x/a.png"}}}, errors.ErrCodeInvalidEnum},
		{"half canvas", Request{TemplateID: "story-hero", CanvasWidth: 100}, errors.ErrCodeInvalidInput},
		{"unknown canvas", Request{TemplateID: "story-hero", CanvasType: "tiktok"}, errors.ErrCodeInvalidEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := r.Arrange(context.Background(), tt.req); !errors.Is(err, tt.code) {
				t.Errorf("Arrange() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArrangeBatch(t *testing.T) {
	r := newTestRunner(nil)
	r.Concurrency = 2

	items, err := r.ArrangeBatch(context.Background(), []Request{
		{TemplateID: "product-spotlight", Assets: []media.Asset{shoe, acme}},
		{TemplateID: "missing"},
		{TemplateID: "story-hero", Assets: []media.Asset{shoe}},
	})
	if err != nil {
		t.Fatalf("ArrangeBatch() error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len(items) = %d", len(items))
	}
	for i, it := range items {
		if it.Index != i {
			t.Errorf("items[%d].Index = %d", i, it.Index)
		}
	}
	if items[0].Result == nil || !items[0].Result.Status.IsComplete {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].Result != nil || items[1].Code != string(errors.ErrCodeTemplateNotFound) {
		t.Errorf("items[1] = %+v", items[1])
	}
	if items[2].Result == nil || items[2].Result.TemplateID != "story-hero" {
		t.Errorf("items[2] = %+v", items[2])
	}

	if _, err := r.ArrangeBatch(context.Background(), make([]Request, MaxBatch+1)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("oversized batch error = %v", err)
	}
}

func suggestionIDs(ss []Suggestion) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.TemplateID
	}
	return out
}

func TestSuggest(t *testing.T) {
	r := newTestRunner(cache.NewMemoryCache(time.Minute))
	ctx := context.Background()
	assets := []media.Asset{shoe, acme}

	all, hit, err := r.Suggest(ctx, assets, SuggestOptions{})
	if err != nil || hit {
		t.Fatalf("Suggest() hit=%v err=%v", hit, err)
	}
	if len(all) != catalog.Builtin().Len() {
		t.Fatalf("len = %d, want every template", len(all))
	}
	if got := suggestionIDs(all[:2]); !slices.Equal(got, []string{"product-spotlight", "story-hero"}) {
		t.Errorf("top two = %v", got)
	}
	for _, s := range all[2:] {
		if s.Status.IsComplete {
			t.Errorf("%s complete but ranked below incomplete templates", s.TemplateID)
		}
	}

	if _, hit, _ := r.Suggest(ctx, assets, SuggestOptions{}); !hit {
		t.Error("repeated Suggest() missed the cache")
	}

	top, _, err := r.Suggest(ctx, assets, SuggestOptions{Limit: 1})
	if err != nil || !slices.Equal(suggestionIDs(top), []string{"product-spotlight"}) {
		t.Errorf("Limit 1 = %v, %v", suggestionIDs(top), err)
	}

	social, _, err := r.Suggest(ctx, assets, SuggestOptions{Query: catalog.Query{Category: template.CategorySocial}})
	if err != nil || !slices.Equal(suggestionIDs(social), []string{"story-hero", "video-thumbnail"}) {
		t.Errorf("social = %v, %v", suggestionIDs(social), err)
	}

	if _, _, err := r.Suggest(ctx, assets, SuggestOptions{Limit: -1}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative limit error = %v", err)
	}
}

func TestRankOrder(t *testing.T) {
	slot := func(id string, required bool, types ...media.AssetType) template.Slot {
		return template.Slot{ID: id, Required: required, AcceptedTypes: types,
			Position: template.Position{X: 50, Y: 50}, Size: template.Size{Width: 10, Height: 10}}
	}
	ts := []template.Template{
		{ID: "none", Slots: []template.Slot{slot("a", true, media.TypeIcon)}},
		{ID: "partial", Slots: []template.Slot{slot("a", true, media.TypeLogo), slot("b", true, media.TypeIcon)}},
		{ID: "optional-only", Slots: []template.Slot{slot("a", false, media.TypeLogo), slot("b", false, media.TypeProduct)}},
		{ID: "complete", Slots: []template.Slot{slot("a", true, media.TypeLogo)}},
	}

	got := suggestionIDs(Rank(ts, []media.Asset{shoe, acme}))
	want := []string{"complete", "optional-only", "partial", "none"}
	if !slices.Equal(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

type recordingArrangeHooks struct {
	observability.NoopArrangeHooks
	started, completed []string
}

func (h *recordingArrangeHooks) OnArrangeStart(_ context.Context, templateID string, _ int) {
	h.started = append(h.started, templateID)
}

func (h *recordingArrangeHooks) OnArrangeComplete(_ context.Context, templateID string, _ int, _ bool, _ time.Duration, err error) {
	if err != nil {
		templateID += "!"
	}
	h.completed = append(h.completed, templateID)
}

func TestArrangeHooks(t *testing.T) {
	h := &recordingArrangeHooks{}
	observability.SetArrangeHooks(h)
	defer observability.Reset()

	r := newTestRunner(nil)
	_, _, _ = r.Arrange(context.Background(), Request{TemplateID: "story-hero"})
	_, _, _ = r.Arrange(context.Background(), Request{TemplateID: "missing"})

	if !slices.Equal(h.started, []string{"story-hero", "missing"}) {
		t.Errorf("started = %v", h.started)
	}
	if !slices.Equal(h.completed, []string{"story-hero", "missing!"}) {
		t.Errorf("completed = %v", h.completed)
	}
}
