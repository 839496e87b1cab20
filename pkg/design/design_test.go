package design

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/slotcraft/pkg/core/catalog"
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/placement"
	"github.com/matzehuels/slotcraft/pkg/errors"
	"github.com/matzehuels/slotcraft/pkg/observability"
)

func TestPrepare(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	d := &Design{Owner: "alice", TemplateID: "product-spotlight"}
	if err := Prepare(d, now); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if len(d.ID) != 26 {
		t.Errorf("ID = %q, want a ULID", d.ID)
	}
	if d.Name != "product-spotlight" {
		t.Errorf("Name = %q, want template id", d.Name)
	}
	if d.Placements == nil {
		t.Error("Placements is nil")
	}
	if d.CreatedAt.Location() != time.UTC || !d.CreatedAt.Equal(now) || !d.UpdatedAt.Equal(now) {
		t.Errorf("timestamps = %v / %v", d.CreatedAt, d.UpdatedAt)
	}

	later := now.Add(time.Hour)
	if err := Prepare(d, later); err != nil {
		t.Fatal(err)
	}
	if !d.CreatedAt.Equal(now) || !d.UpdatedAt.Equal(later) {
		t.Errorf("second Prepare() timestamps = %v / %v", d.CreatedAt, d.UpdatedAt)
	}
}

func TestPrepareErrors(t *testing.T) {
	tests := []struct {
		name string
		d    *Design
		code errors.Code
	}{
		{"nil", nil, errors.ErrCodeInvalidInput},
		{"no owner", &Design{TemplateID: "t"}, errors.ErrCodeInvalidID},
		{"bad id", &Design{Owner: "a", ID: "..", TemplateID: "t"}, errors.ErrCodeInvalidID},
		{"no template", &Design{Owner: "a"}, errors.ErrCodeInvalidID},
		{"negative canvas", &Design{Owner: "a", TemplateID: "t", Canvas: Canvas{Width: -1}}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Prepare(tt.d, time.Now()); !errors.Is(err, tt.code) {
				t.Errorf("Prepare() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSortByUpdated(t *testing.T) {
	base := time.Now()
	ds := []Design{
		{ID: "b", UpdatedAt: base},
		{ID: "c", UpdatedAt: base.Add(time.Minute)},
		{ID: "a", UpdatedAt: base},
	}
	SortByUpdated(ds)

	var got []string
	for _, d := range ds {
		got = append(got, d.ID)
	}
	if want := []string{"c", "a", "b"}; !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestClone(t *testing.T) {
	d := Design{Placements: []placement.AssetPlacement{{AssetID: "x"}}}
	c := d.Clone()
	c.Placements[0].AssetID = "y"
	if d.Placements[0].AssetID != "x" {
		t.Error("Clone() shares placements")
	}
}

func place(asset media.Asset, slotID string) placement.AssetPlacement {
	return placement.AssetPlacement{AssetID: asset.ID, Asset: asset, SlotID: slotID}
}

func TestRevalidate(t *testing.T) {
	cat := catalog.Builtin()
	shoe := media.Asset{ID: "shoe", Type: media.TypeProduct, URL: "https://x/shoe.png"}
	logo := media.Asset{ID: "acme", Type: media.TypeLogo, URL: "https://x/acme.svg"}
	icon := media.Asset{ID: "star", Type: media.TypeIcon, URL: "https://x/star.svg"}
	pic := media.Asset{ID: "pic", Type: media.TypePhoto, URL: "https://x/pic.jpg"}

	tests := []struct {
		name       string
		placements []placement.AssetPlacement
		complete   bool
		filled     int
		orphans    []string
	}{
		{"complete", []placement.AssetPlacement{place(shoe, "product"), place(logo, "logo")}, true, 2, []string{}},
		{"stale slot ids rematched", []placement.AssetPlacement{place(shoe, "gone"), place(logo, "")}, true, 2, []string{}},
		{"wrong slot type rematched", []placement.AssetPlacement{place(logo, "product"), place(shoe, "logo")}, true, 2, []string{}},
		{"orphan", []placement.AssetPlacement{place(shoe, "product"), place(icon, "logo")}, false, 1, []string{"star"}},
		{"repeated asset", []placement.AssetPlacement{place(pic, "background"), place(pic, "product"), place(logo, "logo")}, false, 2, []string{"pic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Design{Owner: "alice", TemplateID: "product-spotlight", Placements: tt.placements}
			r, err := Revalidate(d, cat)
			if err != nil {
				t.Fatalf("Revalidate() error: %v", err)
			}
			if r.Status.IsComplete != tt.complete || r.Status.FilledCount != tt.filled {
				t.Errorf("Status = %+v", r.Status)
			}
			if !slices.Equal(r.Orphans, tt.orphans) {
				t.Errorf("Orphans = %v, want %v", r.Orphans, tt.orphans)
			}
			if !r.Validation.Valid {
				t.Errorf("Validation = %+v", r.Validation)
			}
		})
	}

	if _, err := Revalidate(Design{TemplateID: "missing"}, cat); !errors.Is(err, errors.ErrCodeTemplateNotFound) {
		t.Errorf("Revalidate(missing) error = %v", err)
	}
}

type recordingHooks struct {
	observability.NoopStoreHooks
	ops []string
}

func (h *recordingHooks) OnStoreOp(_ context.Context, backend, op string, _ time.Duration, err error) {
	h.ops = append(h.ops, backend+":"+op)
}

type stubStore struct{ Store }

func (stubStore) Get(context.Context, string, string) (*Design, error) {
	return nil, NotFound("alice", "x")
}

func (stubStore) List(context.Context, string) ([]Design, error) { return nil, nil }

func TestInstrument(t *testing.T) {
	h := &recordingHooks{}
	observability.SetStoreHooks(h)
	defer observability.Reset()

	s := Instrument(stubStore{}, "stub", nil)
	if _, err := s.Get(context.Background(), "alice", "x"); !errors.IsNotFound(err) {
		t.Errorf("Get() error = %v", err)
	}
	if _, err := s.List(context.Background(), "alice"); err != nil {
		t.Fatal(err)
	}
	if want := []string{"stub:get", "stub:list"}; !slices.Equal(h.ops, want) {
		t.Errorf("ops = %v, want %v", h.ops, want)
	}
}
