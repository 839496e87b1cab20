// Package designtest provides a conformance suite for design.Store
// implementations.
package designtest

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/placement"
	"github.com/matzehuels/slotcraft/pkg/design"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

// Sample returns a design owned by owner with a single placement.
func Sample(owner string) *design.Design {
	return &design.Design{
		Owner:      owner,
		Name:       "Launch post",
		TemplateID: "product-spotlight",
		Canvas:     design.Canvas{Type: "instagram-post", Width: 1080, Height: 1080},
		Placements: []placement.AssetPlacement{{
			AssetID: "shoe",
			Asset:   media.Asset{ID: "shoe", Type: media.TypeProduct, URL: "https://cdn.example.com/shoe.png"},
			SlotID:  "product",
			Position: placement.Position{X: 50, Y: 52, Anchor: placement.AnchorCenter},
			Size:     placement.Size{Width: 70, Height: 65, Unit: placement.UnitPercent, MaintainAspectRatio: true},
			Opacity:  100,
			ZIndex:   1,
		}},
	}
}

// Run exercises newStore against the design.Store contract. newStore must
// return an empty store; Run closes it.
func Run(t *testing.T, newStore func(t *testing.T) design.Store) {
	t.Helper()

	t.Run("SaveAndGet", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		ctx := context.Background()

		d := Sample("alice")
		if err := s.Save(ctx, d); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		if d.ID == "" {
			t.Fatal("Save() did not assign an id")
		}
		if d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
			t.Error("Save() did not set timestamps")
		}

		got, err := s.Get(ctx, "alice", d.ID)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if got.Name != d.Name || got.TemplateID != d.TemplateID || got.Canvas != d.Canvas {
			t.Errorf("Get() = %+v, want %+v", got, d)
		}
		if len(got.Placements) != 1 || got.Placements[0] != d.Placements[0] {
			t.Errorf("Placements = %+v", got.Placements)
		}
		if !got.CreatedAt.Equal(d.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, d.CreatedAt)
		}
	})

	t.Run("SavePreservesCreatedAt", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		ctx := context.Background()

		d := Sample("alice")
		if err := s.Save(ctx, d); err != nil {
			t.Fatal(err)
		}
		created := d.CreatedAt
		time.Sleep(2 * time.Millisecond)

		update := Sample("alice")
		update.ID = d.ID
		update.Name = "Renamed"
		if err := s.Save(ctx, update); err != nil {
			t.Fatalf("Save(update) error: %v", err)
		}

		got, err := s.Get(ctx, "alice", d.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != "Renamed" {
			t.Errorf("Name = %q, want Renamed", got.Name)
		}
		if !got.CreatedAt.Equal(created) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
		}
		if !got.UpdatedAt.After(created) {
			t.Errorf("UpdatedAt %v not after %v", got.UpdatedAt, created)
		}
	})

	t.Run("OwnersAreIsolated", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		ctx := context.Background()

		d := Sample("alice")
		if err := s.Save(ctx, d); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Get(ctx, "bob", d.ID); !errors.Is(err, errors.ErrCodeDesignNotFound) {
			t.Errorf("Get(other owner) error = %v, want DESIGN_NOT_FOUND", err)
		}
		list, err := s.List(ctx, "bob")
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 0 {
			t.Errorf("List(bob) = %d designs, want 0", len(list))
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		ctx := context.Background()

		first, second := Sample("alice"), Sample("alice")
		if err := s.Save(ctx, first); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
		if err := s.Save(ctx, second); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
		if err := s.Save(ctx, first); err != nil {
			t.Fatal(err)
		}

		list, err := s.List(ctx, "alice")
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("List() = %d designs, want 2", len(list))
		}
		if list[0].ID != first.ID || list[1].ID != second.ID {
			t.Errorf("List() order = [%s %s], want [%s %s]", list[0].ID, list[1].ID, first.ID, second.ID)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		ctx := context.Background()

		d := Sample("alice")
		if err := s.Save(ctx, d); err != nil {
			t.Fatal(err)
		}
		if err := s.Delete(ctx, "alice", d.ID); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		if _, err := s.Get(ctx, "alice", d.ID); !errors.Is(err, errors.ErrCodeDesignNotFound) {
			t.Errorf("Get(deleted) error = %v", err)
		}
		if err := s.Delete(ctx, "alice", d.ID); !errors.Is(err, errors.ErrCodeDesignNotFound) {
			t.Errorf("Delete(missing) error = %v", err)
		}
	})

	t.Run("RejectsInvalid", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		ctx := context.Background()

		bad := []*design.Design{
			{Owner: "", TemplateID: "x"},
			{Owner: "../etc", TemplateID: "x"},
			{Owner: "alice", ID: "a/b", TemplateID: "x"},
			{Owner: "alice", TemplateID: ""},
		}
		for _, d := range bad {
			if err := s.Save(ctx, d); err == nil {
				t.Errorf("Save(%+v) succeeded, want error", d)
			}
		}
	})
}
