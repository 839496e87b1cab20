// Package media defines the read-only media asset values consumed by the
// template engine.
//
// Assets are owned by the external media library service. The engine never
// mutates or persists them; it only matches [Asset.Type] against the
// accepted types of template slots.
package media

import (
	"strings"

	"github.com/matzehuels/slotcraft/pkg/errors"
)

// AssetType tags the kind of content an asset holds. The vocabulary is closed:
// slots declare accepted types from the same set.
type AssetType string

// Asset types.
const (
	TypeLogo         AssetType = "logo"
	TypePhoto        AssetType = "photo"
	TypeProduct      AssetType = "product"
	TypeAvatar       AssetType = "avatar"
	TypeScreenshot   AssetType = "screenshot"
	TypeIllustration AssetType = "illustration"
	TypeBackground   AssetType = "background"
	TypeIcon         AssetType = "icon"
)

// AssetTypes lists every known asset type in display order.
var AssetTypes = []AssetType{
	TypeLogo, TypePhoto, TypeProduct, TypeAvatar,
	TypeScreenshot, TypeIllustration, TypeBackground, TypeIcon,
}

// ParseAssetType converts s to an AssetType, rejecting unknown values.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseAssetType(s string) (AssetType, error) {
	v := AssetType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range AssetTypes {
		if v == t {
			return v, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidEnum, "unknown asset type %q", s)
}

// String returns the wire value.
func (t AssetType) String() string { return string(t) }

// UnmarshalText implements encoding.TextUnmarshaler so JSON and TOML decoding
// reject typos instead of carrying them into matching.
func (t *AssetType) UnmarshalText(b []byte) error {
	v, err := ParseAssetType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Asset is a user media item.
type Asset struct {
	ID           string    `json:"id" toml:"id" bson:"id"`
	Type         AssetType `json:"assetType" toml:"asset_type" bson:"asset_type"`
	URL          string    `json:"url" toml:"url" bson:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty" toml:"thumbnail_url" bson:"thumbnail_url,omitempty"`
	DisplayName  string    `json:"displayName" toml:"display_name" bson:"display_name"`
}

// Validate checks the fields the engine and stores rely on.
func (a Asset) Validate() error {
	if err := errors.ValidateID("asset", a.ID); err != nil {
		return err
	}
	if _, err := ParseAssetType(string(a.Type)); err != nil {
		return err
	}
	if err := errors.ValidateURL(a.URL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "asset %s", a.ID)
	}
	return nil
}

// Index maps asset ids to assets. When ids repeat, the first occurrence wins,
// matching the first-fit order used by auto-assignment.
func Index(assets []Asset) map[string]Asset {
	m := make(map[string]Asset, len(assets))
	for _, a := range assets {
		if _, ok := m[a.ID]; !ok {
			m[a.ID] = a
		}
	}
	return m
}
