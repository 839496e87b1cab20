package engine

import (
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/placement"
	"github.com/matzehuels/slotcraft/pkg/core/template"
)

// SlotToPlacement places asset into slot. Geometry, zIndex and opacity are
// copied from the slot unchanged; rotation starts at 0.
func SlotToPlacement(slot template.Slot, asset media.Asset) placement.AssetPlacement {
	return placement.AssetPlacement{
		AssetID: asset.ID,
		Asset:   asset,
		SlotID:  slot.ID,
		Position: placement.Position{
			X:      slot.Position.X,
			Y:      slot.Position.Y,
			Anchor: placement.AnchorCenter,
		},
		Size: placement.Size{
			Width:               slot.Size.Width,
			Height:              slot.Size.Height,
			Unit:                placement.UnitPercent,
			MaintainAspectRatio: slot.AutoFit != template.FitFill,
		},
		Rotation: 0,
		Opacity:  slot.DefaultOpacity,
		ZIndex:   slot.ZIndex,
	}
}

// Apply resolves an assignment against assets and builds the applied
// template.
//
// Placements follow slot declaration order. Pairs naming an unknown slot, an
// asset missing from assets, or an asset whose type the slot does not accept
// are skipped, and their slots count as unfilled. The template is cloned so
// the result never aliases catalog data.
func Apply(t template.Template, a SlotAssignment, assets []media.Asset) placement.AppliedTemplate {
	byID := media.Index(assets)
	out := placement.AppliedTemplate{
		Template:                t.Clone(),
		Placements:              []placement.AssetPlacement{},
		UnfilledRequiredSlotIDs: []string{},
	}

	done := make(map[string]bool, len(t.Slots))
	for _, s := range t.Slots {
		if done[s.ID] {
			continue
		}
		done[s.ID] = true

		asset, ok := resolve(s, a, byID)
		if !ok {
			if s.Required {
				out.UnfilledRequiredSlotIDs = append(out.UnfilledRequiredSlotIDs, s.ID)
			}
			continue
		}
		out.Placements = append(out.Placements, SlotToPlacement(s, asset))
	}
	return out
}

func resolve(s template.Slot, a SlotAssignment, assets map[string]media.Asset) (media.Asset, bool) {
	assetID, ok := a.Slots[s.ID]
	if !ok {
		return media.Asset{}, false
	}
	asset, ok := assets[assetID]
	if !ok || !s.Accepts(asset.Type) {
		return media.Asset{}, false
	}
	return asset, true
}

// TemplateStatus summarizes how far an applied template is from complete.
type TemplateStatus struct {
	IsComplete              bool     `json:"isComplete"`
	FilledCount             int      `json:"filledCount"`
	TotalRequired           int      `json:"totalRequired"`
	UnfilledRequiredSlotIDs []string `json:"unfilledRequiredSlotIds"`
}

// Status reports completion of an applied template. Only required slots
// affect IsComplete.
func Status(applied placement.AppliedTemplate) TemplateStatus {
	unfilled := applied.UnfilledRequiredSlotIDs
	if unfilled == nil {
		unfilled = []string{}
	}
	return TemplateStatus{
		IsComplete:              len(unfilled) == 0,
		FilledCount:             len(applied.Placements),
		TotalRequired:           len(applied.Template.RequiredSlotIDs()),
		UnfilledRequiredSlotIDs: unfilled,
	}
}
