package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/slotcraft/internal/config"
	"github.com/matzehuels/slotcraft/pkg/core/element"
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/placement"
	"github.com/matzehuels/slotcraft/pkg/design"
	"github.com/matzehuels/slotcraft/pkg/design/memory"
	"github.com/matzehuels/slotcraft/pkg/pipeline"
)

const owner = "alice"

var (
	shoe = media.Asset{ID: "shoe", Type: media.TypeProduct, URL: "https://cdn.example.com/shoe.png"}
	acme = media.Asset{ID: "acme", Type: media.TypeLogo, URL: "https://cdn.example.com/acme.svg"}
	star = media.Asset{ID: "star", Type: media.TypeIcon, URL: "https://cdn.example.com/star.svg"}
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	logger := log.New(io.Discard)
	reg := prometheus.NewRegistry()
	s := New(Options{
		Runner:  pipeline.NewRunner(nil, nil, nil, logger),
		Store:   memory.New(),
		Logger:  logger,
		Config:  config.Default().Server,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return s.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any, withOwner bool) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withOwner {
		req.Header.Set("X-Slotcraft-Owner", owner)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/healthz", nil, false)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/metrics", nil, false); rec.Code != http.StatusOK {
		t.Errorf("metrics = %d", rec.Code)
	}
}

func TestTemplates(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
		total  int
	}{
		{"all", "/api/v1/templates", http.StatusOK, 8},
		{"category", "/api/v1/templates?category=social", http.StatusOK, 2},
		{"canvas and premium", "/api/v1/templates?canvasType=instagram-post&premium=free", http.StatusOK, 2},
		{"text", "/api/v1/templates?q=poster", http.StatusOK, 1},
		{"bad category", "/api/v1/templates?category=weird", http.StatusBadRequest, 0},
		{"bad premium", "/api/v1/templates?premium=paid", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, nil, false)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			got := decodeBody[templateList](t, rec)
			if got.Total != tt.total || len(got.Templates) != tt.total {
				t.Errorf("total = %d, want %d", got.Total, tt.total)
			}
		})
	}
}

func TestGetTemplate(t *testing.T) {
	h := newTestServer(t)

	if rec := do(t, h, http.MethodGet, "/api/v1/templates/story-hero", nil, false); rec.Code != http.StatusOK {
		t.Errorf("get = %d", rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/api/v1/templates/nope", nil, false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing = %d", rec.Code)
	}
	if got := decodeBody[errorResponse](t, rec); got.Code != "TEMPLATE_NOT_FOUND" {
		t.Errorf("code = %q", got.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/templates/story-hero/validation", nil, false)
	var v struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil || !v.Valid {
		t.Errorf("validation = %+v, %v", v, err)
	}
}

func TestMatchAndAssign(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/templates/product-spotlight/match", slotRequest{Asset: acme}, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("match = %d %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[matchResponse](t, rec); got.SlotID != "logo" {
		t.Errorf("slotId = %q, want logo", got.SlotID)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/templates/product-spotlight/match", slotRequest{Asset: star}, false)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("no eligible slot = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/templates/product-spotlight/assign",
		slotRequest{Asset: shoe, Assets: []media.Asset{acme}, Assignment: map[string]string{"logo": "acme"}}, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("assign = %d %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[assignResponse](t, rec)
	if got.SlotID != "product" || got.Assignment.Slots["logo"] != "acme" || got.Assignment.Slots["product"] != "shoe" {
		t.Errorf("assign = %+v", got)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/templates/product-spotlight/assign",
		slotRequest{Asset: shoe, Assets: []media.Asset{acme}, Assignment: map[string]string{
			"product": "acme",
			"nope":    "acme",
			"logo":    "ghost",
		}}, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("assign with stale pairs = %d %s", rec.Code, rec.Body.String())
	}
	got = decodeBody[assignResponse](t, rec)
	if got.SlotID != "product" || len(got.Assignment.Slots) != 1 {
		t.Errorf("stale pairs kept: %+v", got.Assignment.Slots)
	}
	if !slices.Equal(got.Assignment.UnfilledRequired, []string{"logo"}) {
		t.Errorf("unfilledRequired = %v, want [logo]", got.Assignment.UnfilledRequired)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/templates/product-spotlight/match",
		map[string]any{"asset": map[string]string{"id": "x", "assetType": "selfie", "url": "https://x"}}, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad asset type = %d", rec.Code)
	}
}

func TestArrange(t *testing.T) {
	h := newTestServer(t)
	req := pipeline.Request{TemplateID: "product-spotlight", Assets: []media.Asset{shoe, acme}, Elements: true}

	rec := do(t, h, http.MethodPost, "/api/v1/arrange", req, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("arrange = %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	res := decodeBody[pipeline.Result](t, rec)
	if !res.Status.IsComplete || len(res.Elements) != 2 || res.Canvas.Width != 1080 {
		t.Errorf("result = %+v", res.Status)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/arrange", pipeline.Request{TemplateID: "nope"}, false)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown template = %d", rec.Code)
	}
}

func TestArrangeBatchAndSuggest(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/arrange/batch", batchRequest{Requests: []pipeline.Request{
		{TemplateID: "story-hero", Assets: []media.Asset{shoe}},
		{TemplateID: "missing"},
	}}, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("batch = %d %s", rec.Code, rec.Body.String())
	}
	batch := decodeBody[batchResponse](t, rec)
	if len(batch.Items) != 2 || batch.Items[0].Result == nil || batch.Items[1].Code != "TEMPLATE_NOT_FOUND" {
		t.Errorf("batch = %+v", batch)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/suggest", map[string]any{
		"assets": []media.Asset{shoe, acme},
		"limit":  2,
	}, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("suggest = %d %s", rec.Code, rec.Body.String())
	}
	sugg := decodeBody[suggestResponse](t, rec)
	if len(sugg.Suggestions) != 2 || sugg.Suggestions[0].TemplateID != "product-spotlight" {
		t.Errorf("suggestions = %+v", sugg.Suggestions)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	h := newTestServer(t)

	arranged := do(t, h, http.MethodPost, "/api/v1/arrange",
		pipeline.Request{TemplateID: "product-spotlight", Assets: []media.Asset{shoe, acme}}, false)
	res := decodeBody[pipeline.Result](t, arranged)

	rec := do(t, h, http.MethodPost, "/api/v1/convert/elements",
		toElementsRequest{Placements: res.Applied.Placements, CanvasWidth: 1000, CanvasHeight: 500}, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("to elements = %d %s", rec.Code, rec.Body.String())
	}
	els := decodeBody[elementsResponse](t, rec).Elements

	rec = do(t, h, http.MethodPost, "/api/v1/convert/placements",
		toPlacementsRequest{Elements: els, Assets: []media.Asset{shoe}, CanvasWidth: 1000, CanvasHeight: 500}, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("to placements = %d %s", rec.Code, rec.Body.String())
	}
	ps := decodeBody[placementsResponse](t, rec).Placements
	if len(ps) != 1 || ps[0].AssetID != "shoe" {
		t.Fatalf("placements = %+v", ps)
	}
	if d := ps[0].Position.X - res.Applied.Placements[0].Position.X; d > 1e-9 || d < -1e-9 {
		t.Errorf("round trip X drift %v", d)
	}

	if rec := do(t, h, http.MethodPost, "/api/v1/convert/elements", toElementsRequest{}, false); rec.Code != http.StatusBadRequest {
		t.Errorf("zero canvas = %d", rec.Code)
	}
}

func TestDesigns(t *testing.T) {
	h := newTestServer(t)
	body := design.Design{
		Name:       "Launch",
		TemplateID: "product-spotlight",
		Canvas:     design.Canvas{Width: 1080, Height: 1080},
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/designs", nil, false); rec.Code != http.StatusBadRequest {
		t.Errorf("missing owner = %d", rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/api/v1/designs", body, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	d := decodeBody[design.Design](t, rec)
	if d.ID == "" || d.Owner != owner {
		t.Fatalf("created = %+v", d)
	}
	path := "/api/v1/designs/" + d.ID

	if rec := do(t, h, http.MethodGet, path, nil, true); rec.Code != http.StatusOK {
		t.Errorf("get = %d", rec.Code)
	}
	list := decodeBody[designList](t, do(t, h, http.MethodGet, "/api/v1/designs", nil, true))
	if len(list.Designs) != 1 {
		t.Errorf("list = %d designs", len(list.Designs))
	}

	els := []element.ImageElement{
		element.FromPlacement(placementFor(t, h, shoe), 1080, 1080),
		{ID: "orphan", Type: element.TypeImage, AssetID: "deleted"},
	}
	rec = do(t, h, http.MethodPut, path+"/elements", saveElementsRequest{Elements: els, Assets: []media.Asset{shoe, acme}}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("save elements = %d %s", rec.Code, rec.Body.String())
	}
	if saved := decodeBody[design.Design](t, rec); len(saved.Placements) != 1 {
		t.Errorf("saved placements = %d, want 1", len(saved.Placements))
	}

	rec = do(t, h, http.MethodGet, path+"/revalidate", nil, true)
	rv := decodeBody[design.Revalidation](t, rec)
	if rv.Status.IsComplete || rv.Status.FilledCount != 1 {
		t.Errorf("revalidate = %+v", rv.Status)
	}

	body.TemplateID = "nope"
	if rec := do(t, h, http.MethodPut, path, body, true); rec.Code != http.StatusNotFound {
		t.Errorf("update with unknown template = %d", rec.Code)
	}

	if rec := do(t, h, http.MethodDelete, path, nil, true); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, path, nil, true); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted = %d", rec.Code)
	}
}

// placementFor arranges asset alone into product-spotlight and returns its
// placement.
func placementFor(t *testing.T, h http.Handler, asset media.Asset) placement.AssetPlacement {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/arrange",
		pipeline.Request{TemplateID: "product-spotlight", Assets: []media.Asset{asset}}, false)
	res := decodeBody[pipeline.Result](t, rec)
	if len(res.Applied.Placements) != 1 {
		t.Fatalf("placements = %d, want 1", len(res.Applied.Placements))
	}
	return res.Applied.Placements[0]
}

func TestRequestChecks(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/arrange", strings.NewReader("templateId=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("form body = %d, want 415", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/arrange", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d, want 400", rec.Code)
	}
	if got := decodeBody[errorResponse](t, rec); got.Code != "INVALID_INPUT" {
		t.Errorf("code = %q", got.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/designs", nil, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing owner = %d", rec.Code)
	}
}
