// Package placement defines the percent-space records produced when a
// template slot is filled with an asset.
//
// Placements keep the slot's coordinate convention: the position is the
// center of the region and both position and size are percentages of the
// canvas. Pixel geometry lives in package element; the two are never mixed.
package placement

import (
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/template"
)

// Anchor names the point of a region that Position refers to.
type Anchor string

// AnchorCenter is the only anchor placements use.
const AnchorCenter Anchor = "center"

// Unit names the unit of a Size.
type Unit string

// UnitPercent is the only unit placements use.
const UnitPercent Unit = "percent"

// Position is a center-anchored point in percent of the canvas.
type Position struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Anchor Anchor  `json:"anchor" bson:"anchor"`
}

// Size is an extent in percent of the canvas.
type Size struct {
	Width               float64 `json:"width" bson:"width"`
	Height              float64 `json:"height" bson:"height"`
	Unit                Unit    `json:"unit" bson:"unit"`
	MaintainAspectRatio bool    `json:"maintainAspectRatio" bson:"maintain_aspect_ratio"`
}

// AssetPlacement pairs an asset with a region of the canvas.
//
// SlotID records the slot the placement was derived from. It is empty for
// placements reconstructed from renderer elements, since the renderer does
// not track slots.
type AssetPlacement struct {
	AssetID  string      `json:"assetId" bson:"asset_id"`
	Asset    media.Asset `json:"asset" bson:"asset"`
	SlotID   string      `json:"slotId,omitempty" bson:"slot_id,omitempty"`
	Position Position    `json:"position" bson:"position"`
	Size     Size        `json:"size" bson:"size"`
	Rotation float64     `json:"rotation" bson:"rotation"`
	Opacity  float64     `json:"opacity" bson:"opacity"`
	ZIndex   int         `json:"zIndex" bson:"z_index"`
}

// AppliedTemplate is a template together with the placements filling it.
type AppliedTemplate struct {
	Template                template.Template `json:"template" bson:"template"`
	Placements              []AssetPlacement  `json:"placements" bson:"placements"`
	UnfilledRequiredSlotIDs []string          `json:"unfilledRequiredSlotIds" bson:"unfilled_required_slot_ids"`
}
