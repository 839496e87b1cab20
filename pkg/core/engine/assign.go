package engine

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/template"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

// SlotAssignment maps slot ids to asset ids.
//
// Unfilled and UnfilledRequired list the template's empty slots in
// declaration order. They describe the assignment at the time it was built;
// [Apply] recomputes them from Slots and never trusts them.
type SlotAssignment struct {
	Slots            map[string]string `json:"slots" bson:"slots"`
	Unfilled         []string          `json:"unfilled" bson:"unfilled"`
	UnfilledRequired []string          `json:"unfilledRequired" bson:"unfilled_required"`
}

// NewAssignment builds an assignment for t from an explicit slot → asset map.
//
// Pairs are kept only when the slot exists in t, the asset is in assets and
// the slot accepts its type. Slots are visited in declaration order and an
// asset fills at most one slot, so a repeated asset stays in its first slot.
func NewAssignment(t template.Template, slots map[string]string, assets []media.Asset) SlotAssignment {
	a := SlotAssignment{Slots: make(map[string]string, len(slots))}
	byID := media.Index(assets)
	used := make(map[string]bool, len(slots))
	seen := make(map[string]bool, len(t.Slots))
	for _, s := range t.Slots {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		assetID, ok := slots[s.ID]
		if !ok || used[assetID] {
			continue
		}
		asset, ok := byID[assetID]
		if !ok || !s.Accepts(asset.Type) {
			continue
		}
		a.Slots[s.ID] = assetID
		used[assetID] = true
	}
	a.refresh(t)
	return a
}

// AssetSlot returns the slot holding assetID, if any.
func (a SlotAssignment) AssetSlot(assetID string) (string, bool) {
	for slotID, id := range a.Slots {
		if id == assetID {
			return slotID, true
		}
	}
	return "", false
}

// Len returns the number of filled slots.
func (a SlotAssignment) Len() int { return len(a.Slots) }

func (a *SlotAssignment) refresh(t template.Template) {
	a.Unfilled = []string{}
	a.UnfilledRequired = []string{}
	seen := make(map[string]bool, len(t.Slots))
	for _, s := range t.Slots {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		if _, ok := a.Slots[s.ID]; ok {
			continue
		}
		a.Unfilled = append(a.Unfilled, s.ID)
		if s.Required {
			a.UnfilledRequired = append(a.UnfilledRequired, s.ID)
		}
	}
}

// FindBestSlot returns the id of the best open slot in t for asset.
//
// A slot is open when it accepts the asset's type and is not a key of
// current.Slots. It returns an error with code NO_ELIGIBLE_SLOT when no slot
// is open.
func FindBestSlot(t template.Template, asset media.Asset, current SlotAssignment) (string, error) {
	best := -1
	for i, s := range t.Slots {
		if !s.Accepts(asset.Type) {
			continue
		}
		if _, taken := current.Slots[s.ID]; taken {
			continue
		}
		if best < 0 || outranks(s, t.Slots[best]) {
			best = i
		}
	}
	if best < 0 {
		return "", errors.New(errors.ErrCodeNoEligibleSlot,
			"no open slot in template %q accepts %s asset %q", t.ID, asset.Type, asset.ID)
	}
	return t.Slots[best].ID, nil
}

// outranks reports whether a ranks strictly above b. Slots are visited in
// declaration order, so equal ranks keep the earlier slot.
func outranks(a, b template.Slot) bool {
	if a.Required != b.Required {
		return a.Required
	}
	if aa, ba := a.Size.Area(), b.Size.Area(); aa != ba {
		return aa > ba
	}
	return a.ZIndex < b.ZIndex
}

// AssignAsset places asset into its best open slot and returns the updated
// assignment along with the chosen slot id. current is not modified.
//
// If the asset already occupies a slot it is moved: that slot is freed
// before ranking, so it competes with the other open slots.
func AssignAsset(t template.Template, asset media.Asset, current SlotAssignment) (SlotAssignment, string, error) {
	next := SlotAssignment{Slots: make(map[string]string, len(current.Slots)+1)}
	for slotID, assetID := range current.Slots {
		if assetID != asset.ID {
			next.Slots[slotID] = assetID
		}
	}

	slotID, err := FindBestSlot(t, asset, next)
	if err != nil {
		return current, "", err
	}
	next.Slots[slotID] = asset.ID
	next.refresh(t)
	return next, slotID, nil
}

// AutoAssign fills t from assets, required slots first, then optional slots,
// each taking the first unused asset whose type it accepts.
//
// The result depends only on the inputs, so repeated calls are equal.
// Assets with an id already used earlier in the pool are skipped.
func AutoAssign(t template.Template, assets []media.Asset) SlotAssignment {
	a := SlotAssignment{Slots: make(map[string]string)}
	used := make(map[string]bool, len(assets))

	required, optional := partition(t.Slots)
	for _, group := range [][]template.Slot{required, optional} {
		for _, s := range group {
			if _, filled := a.Slots[s.ID]; filled {
				continue
			}
			for _, asset := range assets {
				if used[asset.ID] || !s.Accepts(asset.Type) {
					continue
				}
				a.Slots[s.ID] = asset.ID
				used[asset.ID] = true
				break
			}
		}
	}

	a.refresh(t)
	return a
}

func partition(slots []template.Slot) (required, optional []template.Slot) {
	for _, s := range slots {
		if s.Required {
			required = append(required, s)
		} else {
			optional = append(optional, s)
		}
	}
	return required, optional
}

// SortedSlotIDs returns the filled slot ids of a in t's declaration order,
// followed by any ids unknown to t in lexical order.
func SortedSlotIDs(t template.Template, a SlotAssignment) []string {
	order := make(map[string]int, len(t.Slots))
	for i, s := range t.Slots {
		if _, ok := order[s.ID]; !ok {
			order[s.ID] = i
		}
	}
	ids := slices.Collect(maps.Keys(a.Slots))
	slices.SortFunc(ids, func(x, y string) int {
		ix, okx := order[x]
		iy, oky := order[y]
		switch {
		case okx && oky:
			return ix - iy
		case okx:
			return -1
		case oky:
			return 1
		}
		return cmp.Compare(x, y)
	})
	return ids
}
