package design

import (
	"github.com/matzehuels/slotcraft/pkg/core/catalog"
	"github.com/matzehuels/slotcraft/pkg/core/engine"
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/template"
)

// Revalidation is the result of checking a saved design against the
// current catalog.
type Revalidation struct {
	Status     engine.TemplateStatus `json:"status"`
	Validation template.Validation   `json:"validation"`

	// Orphans lists asset ids of saved placements that no longer fit any
	// open slot of the template, or that repeat an asset placed earlier.
	Orphans []string `json:"orphans"`
}

// Revalidate rebuilds the assignment behind d and recomputes its status.
//
// Placements that remember their slot keep it while the slot still exists
// and accepts the asset. The rest are re-matched with engine.AssignAsset in
// saved order. Only the first placement of an asset counts. The design itself
// is not modified.
func Revalidate(d Design, cat *catalog.Catalog) (Revalidation, error) {
	tmpl, err := cat.Get(d.TemplateID)
	if err != nil {
		return Revalidation{}, err
	}

	assets := make([]media.Asset, 0, len(d.Placements))
	slots := make(map[string]string, len(d.Placements))
	var pending []media.Asset
	orphans := []string{}
	seen := make(map[string]bool, len(d.Placements))
	for _, p := range d.Placements {
		if seen[p.AssetID] {
			orphans = append(orphans, p.AssetID)
			continue
		}
		seen[p.AssetID] = true
		assets = append(assets, p.Asset)
		if s, _, ok := tmpl.Slot(p.SlotID); ok && s.Accepts(p.Asset.Type) {
			if _, taken := slots[s.ID]; !taken {
				slots[s.ID] = p.AssetID
				continue
			}
		}
		pending = append(pending, p.Asset)
	}

	a := engine.NewAssignment(tmpl, slots, assets)
	for _, asset := range pending {
		next, _, err := engine.AssignAsset(tmpl, asset, a)
		if err != nil {
			orphans = append(orphans, asset.ID)
			continue
		}
		a = next
	}

	return Revalidation{
		Status:     engine.Status(engine.Apply(tmpl, a, assets)),
		Validation: template.Validate(tmpl),
		Orphans:    orphans,
	}, nil
}
