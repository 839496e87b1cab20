package template

import (
	"strings"

	"github.com/matzehuels/slotcraft/pkg/errors"
)

// Category groups templates in the selection UI.
type Category string

// Template categories.
const (
	CategorySocial       Category = "social"
	CategoryMarketing    Category = "marketing"
	CategoryPresentation Category = "presentation"
	CategoryCollage      Category = "collage"
	CategoryPortfolio    Category = "portfolio"
	CategoryEvent        Category = "event"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategorySocial, CategoryMarketing, CategoryPresentation,
	CategoryCollage, CategoryPortfolio, CategoryEvent,
}

// ColorScheme is the palette family a template is designed for.
type ColorScheme string

// Color schemes.
const (
	SchemeLight   ColorScheme = "light"
	SchemeDark    ColorScheme = "dark"
	SchemeVibrant ColorScheme = "vibrant"
	SchemeMuted   ColorScheme = "muted"
	SchemeBrand   ColorScheme = "brand"
)

// ColorSchemes lists every color scheme.
var ColorSchemes = []ColorScheme{SchemeLight, SchemeDark, SchemeVibrant, SchemeMuted, SchemeBrand}

// AutoFit controls how an asset is scaled into its slot.
type AutoFit string

// Fit modes. Only FitFill distorts the asset's aspect ratio.
const (
	FitContain AutoFit = "contain"
	FitCover   AutoFit = "cover"
	FitFill    AutoFit = "fill"
)

// AutoFits lists every fit mode.
var AutoFits = []AutoFit{FitContain, FitCover, FitFill}

// CanvasType identifies an output canvas format.
type CanvasType string

// Canvas types.
const (
	CanvasInstagramPost    CanvasType = "instagram-post"
	CanvasInstagramStory   CanvasType = "instagram-story"
	CanvasFacebookPost     CanvasType = "facebook-post"
	CanvasTwitterPost      CanvasType = "twitter-post"
	CanvasLinkedInPost     CanvasType = "linkedin-post"
	CanvasYouTubeThumbnail CanvasType = "youtube-thumbnail"
	CanvasPresentation     CanvasType = "presentation"
	CanvasPoster           CanvasType = "poster"
)

// CanvasTypes lists every canvas type.
var CanvasTypes = []CanvasType{
	CanvasInstagramPost, CanvasInstagramStory, CanvasFacebookPost, CanvasTwitterPost,
	CanvasLinkedInPost, CanvasYouTubeThumbnail, CanvasPresentation, CanvasPoster,
}

// canvasDimensions holds the default pixel size of each canvas type.
var canvasDimensions = map[CanvasType][2]float64{
	CanvasInstagramPost:    {1080, 1080},
	CanvasInstagramStory:   {1080, 1920},
	CanvasFacebookPost:     {1200, 630},
	CanvasTwitterPost:      {1600, 900},
	CanvasLinkedInPost:     {1200, 627},
	CanvasYouTubeThumbnail: {1280, 720},
	CanvasPresentation:     {1920, 1080},
	CanvasPoster:           {2480, 3508},
}

// Dimensions returns the default pixel width and height of the canvas type.
// Unknown types report 0, 0.
func (c CanvasType) Dimensions() (width, height float64) {
	d := canvasDimensions[c]
	return d[0], d[1]
}

// ParseCategory converts s to a Category, rejecting unknown values.
func ParseCategory(s string) (Category, error) {
	return parseEnum(s, "category", Categories)
}

// ParseColorScheme converts s to a ColorScheme, rejecting unknown values.
func ParseColorScheme(s string) (ColorScheme, error) {
	return parseEnum(s, "color scheme", ColorSchemes)
}

// ParseAutoFit converts s to an AutoFit, rejecting unknown values.
func ParseAutoFit(s string) (AutoFit, error) {
	return parseEnum(s, "auto fit", AutoFits)
}

// ParseCanvasType converts s to a CanvasType, rejecting unknown values.
func ParseCanvasType(s string) (CanvasType, error) {
	return parseEnum(s, "canvas type", CanvasTypes)
}

func parseEnum[T ~string](s, kind string, values []T) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range values {
		if v == known {
			return v, nil
		}
	}
	var zero T
	return zero, errors.New(errors.ErrCodeInvalidEnum, "unknown %s %q", kind, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ColorScheme) UnmarshalText(b []byte) error {
	v, err := ParseColorScheme(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *AutoFit) UnmarshalText(b []byte) error {
	v, err := ParseAutoFit(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CanvasType) UnmarshalText(b []byte) error {
	v, err := ParseCanvasType(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
