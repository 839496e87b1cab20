package template

import (
	"slices"

	"github.com/matzehuels/slotcraft/pkg/core/media"
)

// Position is a slot center in percent of the canvas (0–100 on each axis).
type Position struct {
	X float64 `json:"x" toml:"x" bson:"x"`
	Y float64 `json:"y" toml:"y" bson:"y"`
}

// Size is a slot extent in percent of the canvas (0–100 on each axis).
type Size struct {
	Width  float64 `json:"width" toml:"width" bson:"width"`
	Height float64 `json:"height" toml:"height" bson:"height"`
}

// Area returns Width × Height in percent² units. Only the relative order of
// areas matters to matching.
func (s Size) Area() float64 { return s.Width * s.Height }

// Slot is a named placeholder region within a template.
type Slot struct {
	ID             string            `json:"id" toml:"id" bson:"id"`
	Label          string            `json:"label" toml:"label" bson:"label"`
	AcceptedTypes  []media.AssetType `json:"acceptedTypes" toml:"accepted_types" bson:"accepted_types"`
	Required       bool              `json:"required" toml:"required" bson:"required"`
	Position       Position          `json:"position" toml:"position" bson:"position"`
	Size           Size              `json:"size" toml:"size" bson:"size"`
	ZIndex         int               `json:"zIndex" toml:"z_index" bson:"z_index"`
	DefaultOpacity float64           `json:"defaultOpacity" toml:"default_opacity" bson:"default_opacity"`
	AutoFit        AutoFit           `json:"autoFit" toml:"auto_fit" bson:"auto_fit"`
	Hint           string            `json:"hint,omitempty" toml:"hint" bson:"hint,omitempty"`
}

// Accepts reports whether the slot takes assets of type t.
func (s Slot) Accepts(t media.AssetType) bool {
	return slices.Contains(s.AcceptedTypes, t)
}

// Template is a named canvas layout made of ordered slots.
type Template struct {
	ID           string       `json:"id" toml:"id" bson:"_id"`
	Name         string       `json:"name" toml:"name" bson:"name"`
	Description  string       `json:"description" toml:"description" bson:"description"`
	Category     Category     `json:"category" toml:"category" bson:"category"`
	TargetCanvas []CanvasType `json:"targetCanvas" toml:"target_canvas" bson:"target_canvas"`
	IsPremium    bool         `json:"isPremium" toml:"is_premium" bson:"is_premium"`
	ColorScheme  ColorScheme  `json:"colorScheme" toml:"color_scheme" bson:"color_scheme"`
	Tags         []string     `json:"tags" toml:"tags" bson:"tags"`
	Slots        []Slot       `json:"slots" toml:"slots" bson:"slots"`
	UseCount     *int         `json:"useCount,omitempty" toml:"use_count" bson:"use_count,omitempty"`
}

// Slot returns the slot with the given id and its declaration index.
func (t *Template) Slot(id string) (Slot, int, bool) {
	for i, s := range t.Slots {
		if s.ID == id {
			return s, i, true
		}
	}
	return Slot{}, -1, false
}

// SupportsCanvas reports whether the template targets canvas type c.
func (t *Template) SupportsCanvas(c CanvasType) bool {
	return slices.Contains(t.TargetCanvas, c)
}

// RequiredSlotIDs returns the ids of required slots in declaration order.
// When an id is declared twice only its first slot counts.
func (t *Template) RequiredSlotIDs() []string {
	var ids []string
	seen := make(map[string]bool, len(t.Slots))
	for _, s := range t.Slots {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		if s.Required {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// DefaultCanvas returns the pixel size of the template's first target canvas.
// ok is false when the template declares no known canvas type.
func (t *Template) DefaultCanvas() (width, height float64, ok bool) {
	for _, c := range t.TargetCanvas {
		if w, h := c.Dimensions(); w > 0 && h > 0 {
			return w, h, true
		}
	}
	return 0, 0, false
}

// Clone returns a deep copy so callers can never mutate catalog data.
func (t Template) Clone() Template {
	out := t
	out.TargetCanvas = slices.Clone(t.TargetCanvas)
	out.Tags = slices.Clone(t.Tags)
	if t.UseCount != nil {
		n := *t.UseCount
		out.UseCount = &n
	}
	if t.Slots != nil {
		out.Slots = make([]Slot, len(t.Slots))
		for i, s := range t.Slots {
			s.AcceptedTypes = slices.Clone(s.AcceptedTypes)
			out.Slots[i] = s
		}
	}
	return out
}
