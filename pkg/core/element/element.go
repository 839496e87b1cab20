// Package element converts placements to and from renderer image elements.
//
// Placements are center-anchored and measured in percent of the canvas.
// Elements are what the canvas renderer draws: top-left anchored, measured
// in pixels. [FromPlacement] goes one way; [ToPlacements] and
// [ToPlacementsOnCanvas] come back.
//
// Element ids are name-based UUIDs of the asset id, so converting the same
// placement twice yields the same id and renderers can diff their scenes.
package element

import (
	"github.com/google/uuid"

	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/placement"
)

// TypeImage is the element type this package produces and consumes.
const TypeImage = "image"

// Namespace seeds element ids. Changing it changes every id.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://slotcraft.dev/element"))

// Rect is a top-left anchored rectangle in pixels.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// ImageElement is a drawable image record in pixel space.
type ImageElement struct {
	ID   string `json:"id" bson:"id"`
	Type string `json:"type" bson:"type"`
	Rect `bson:",inline"`

	Src                 string  `json:"src" bson:"src"`
	ThumbnailSrc        string  `json:"thumbnailSrc,omitempty" bson:"thumbnail_src,omitempty"`
	AssetID             string  `json:"assetId" bson:"asset_id"`
	DisplayName         string  `json:"displayName" bson:"display_name"`
	Rotation            float64 `json:"rotation" bson:"rotation"`
	MaintainAspectRatio bool    `json:"maintainAspectRatio" bson:"maintain_aspect_ratio"`
	ZIndex              int     `json:"zIndex" bson:"z_index"`
	Opacity             float64 `json:"opacity" bson:"opacity"`
}

// ID returns the element id for an asset.
func ID(assetID string) string {
	return uuid.NewSHA1(Namespace, []byte(assetID)).String()
}

// FromPlacement converts p to an image element on a canvas of the given
// pixel size.
func FromPlacement(p placement.AssetPlacement, canvasWidth, canvasHeight float64) ImageElement {
	w := p.Size.Width / 100 * canvasWidth
	h := p.Size.Height / 100 * canvasHeight
	return ImageElement{
		ID:   ID(p.AssetID),
		Type: TypeImage,
		Rect: Rect{
			X:      p.Position.X/100*canvasWidth - w/2,
			Y:      p.Position.Y/100*canvasHeight - h/2,
			Width:  w,
			Height: h,
		},
		Src:                 p.Asset.URL,
		ThumbnailSrc:        p.Asset.ThumbnailURL,
		AssetID:             p.AssetID,
		DisplayName:         p.Asset.DisplayName,
		Rotation:            p.Rotation,
		MaintainAspectRatio: p.Size.MaintainAspectRatio,
		ZIndex:              p.ZIndex,
		Opacity:             p.Opacity,
	}
}

// FromPlacements converts every placement, preserving order.
func FromPlacements(ps []placement.AssetPlacement, canvasWidth, canvasHeight float64) []ImageElement {
	out := make([]ImageElement, len(ps))
	for i, p := range ps {
		out[i] = FromPlacement(p, canvasWidth, canvasHeight)
	}
	return out
}

// ToPlacements rebuilds placements from renderer elements.
//
// Non-image elements are ignored. Elements whose asset is not in assets are
// dropped without error: a deleted asset removes its placement. Geometry is
// copied unchanged, so callers must pass elements whose x, y, width and
// height already hold percent values. Use [ToPlacementsOnCanvas] for pixel
// elements.
func ToPlacements(elements []ImageElement, assets []media.Asset) []placement.AssetPlacement {
	return convert(elements, assets, func(r Rect) (placement.Position, placement.Size) {
		return placement.Position{X: r.X, Y: r.Y, Anchor: placement.AnchorCenter},
			placement.Size{Width: r.Width, Height: r.Height, Unit: placement.UnitPercent}
	})
}

// ToPlacementsOnCanvas is the exact inverse of [FromPlacement]: it converts
// top-left pixel rectangles back to center-anchored percent geometry.
// A non-positive canvas dimension maps that axis to 0.
func ToPlacementsOnCanvas(elements []ImageElement, assets []media.Asset, canvasWidth, canvasHeight float64) []placement.AssetPlacement {
	return convert(elements, assets, func(r Rect) (placement.Position, placement.Size) {
		return placement.Position{
				X:      percent(r.X+r.Width/2, canvasWidth),
				Y:      percent(r.Y+r.Height/2, canvasHeight),
				Anchor: placement.AnchorCenter,
			}, placement.Size{
				Width:  percent(r.Width, canvasWidth),
				Height: percent(r.Height, canvasHeight),
				Unit:   placement.UnitPercent,
			}
	})
}

func percent(px, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return px / total * 100
}

func convert(elements []ImageElement, assets []media.Asset, geom func(Rect) (placement.Position, placement.Size)) []placement.AssetPlacement {
	byID := media.Index(assets)
	out := make([]placement.AssetPlacement, 0, len(elements))
	for _, el := range elements {
		if el.Type != TypeImage {
			continue
		}
		asset, ok := byID[el.AssetID]
		if !ok {
			continue
		}
		pos, size := geom(el.Rect)
		size.MaintainAspectRatio = el.MaintainAspectRatio
		out = append(out, placement.AssetPlacement{
			AssetID:  asset.ID,
			Asset:    asset,
			Position: pos,
			Size:     size,
			Rotation: el.Rotation,
			Opacity:  el.Opacity,
			ZIndex:   el.ZIndex,
		})
	}
	return out
}
