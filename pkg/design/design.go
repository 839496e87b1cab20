// Package design persists saved arrangements.
//
// A [Design] is a template id, a canvas and the placements a user settled
// on. Designs are stored per owner through the [Store] interface, with
// backends in the subpackages:
//   - memory: in-process map, for tests and single-node servers
//   - file: one JSON file per design, for the CLI
//   - sqlite: a single database file
//   - redis: shared storage for multi-instance servers
//   - mongo: document storage
//   - s3: object storage, one object per design
//
// Package stores selects a backend from configuration.
//
// Saved placements can drift from their template when the catalog changes.
// [Revalidate] re-runs the engine over a saved design and reports what is
// still complete.
package design

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/matzehuels/slotcraft/pkg/core/placement"
	"github.com/matzehuels/slotcraft/pkg/core/template"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

// Canvas is the pixel size a design was arranged for.
type Canvas struct {
	Type   template.CanvasType `json:"type,omitempty" bson:"type,omitempty"`
	Width  float64             `json:"width" bson:"width"`
	Height float64             `json:"height" bson:"height"`
}

// Design is a saved arrangement.
type Design struct {
	ID         string                     `json:"id" bson:"_id"`
	Owner      string                     `json:"owner" bson:"owner"`
	Name       string                     `json:"name" bson:"name"`
	TemplateID string                     `json:"templateId" bson:"template_id"`
	Canvas     Canvas                     `json:"canvas" bson:"canvas"`
	Placements []placement.AssetPlacement `json:"placements" bson:"placements"`
	CreatedAt  time.Time                  `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time                  `json:"updatedAt" bson:"updated_at"`
}

// Store is the interface for design storage backends.
type Store interface {
	// Get retrieves a design. It returns a DESIGN_NOT_FOUND error when the
	// owner has no design with that id.
	Get(ctx context.Context, owner, id string) (*Design, error)

	// Save inserts or replaces a design. Backends call Prepare first, so
	// an empty ID is filled in and timestamps are maintained.
	Save(ctx context.Context, d *Design) error

	// Delete removes a design. Deleting a missing design returns
	// DESIGN_NOT_FOUND.
	Delete(ctx context.Context, owner, id string) error

	// List returns the owner's designs, most recently updated first.
	List(ctx context.Context, owner string) ([]Design, error)

	// Close releases backend resources.
	Close() error
}

// NewID returns a new lexically sortable design id.
func NewID() string {
	return ulid.Make().String()
}

// Prepare validates d and fills in its id and timestamps. It is called by
// every backend before writing.
func Prepare(d *Design, now time.Time) error {
	if d == nil {
		return errors.New(errors.ErrCodeInvalidInput, "design is nil")
	}
	if err := errors.ValidateID("owner", d.Owner); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = NewID()
	} else if err := errors.ValidateID("design", d.ID); err != nil {
		return err
	}
	if err := errors.ValidateID("template", d.TemplateID); err != nil {
		return err
	}
	if strings.TrimSpace(d.Name) == "" {
		d.Name = d.TemplateID
	}
	if d.Canvas.Width < 0 || d.Canvas.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must not be negative")
	}
	if d.Placements == nil {
		d.Placements = []placement.AssetPlacement{}
	}

	now = now.UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	return nil
}

// NotFound returns the DESIGN_NOT_FOUND error for owner and id.
func NotFound(owner, id string) error {
	return errors.New(errors.ErrCodeDesignNotFound, "design %q not found for %s", id, owner)
}

// SortByUpdated orders designs newest first, breaking ties by id.
func SortByUpdated(ds []Design) {
	slices.SortFunc(ds, func(a, b Design) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// Clone returns a deep copy of d.
func (d Design) Clone() Design {
	out := d
	out.Placements = slices.Clone(d.Placements)
	return out
}
