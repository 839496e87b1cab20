package catalog

import (
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/template"
)

// Builtin returns a fresh catalog of the compiled-in templates.
func Builtin() *Catalog {
	return MustNew(builtinTemplates()...)
}

func types(ts ...media.AssetType) []media.AssetType { return ts }

func at(x, y float64) template.Position { return template.Position{X: x, Y: y} }

func sz(w, h float64) template.Size { return template.Size{Width: w, Height: h} }

func builtinTemplates() []template.Template {
	return []template.Template{
		{
			ID:           "product-spotlight",
			Name:         "Product Spotlight",
			Description:  "Large centered product shot with brand logo and optional background.",
			Category:     template.CategoryMarketing,
			TargetCanvas: []template.CanvasType{template.CanvasInstagramPost, template.CanvasFacebookPost},
			ColorScheme:  template.SchemeLight,
			Tags:         []string{"product", "ecommerce", "launch"},
			Slots: []template.Slot{
				{ID: "background", Label: "Background", AcceptedTypes: types(media.TypeBackground, media.TypePhoto),
					Position: at(50, 50), Size: sz(100, 100), ZIndex: 0, DefaultOpacity: 100, AutoFit: template.FitCover,
					Hint: "A soft texture works best"},
				{ID: "product", Label: "Product", AcceptedTypes: types(media.TypeProduct, media.TypePhoto), Required: true,
					Position: at(50, 52), Size: sz(70, 65), ZIndex: 1, DefaultOpacity: 100, AutoFit: template.FitContain},
				{ID: "logo", Label: "Logo", AcceptedTypes: types(media.TypeLogo), Required: true,
					Position: at(88, 10), Size: sz(16, 10), ZIndex: 2, DefaultOpacity: 100, AutoFit: template.FitContain},
			},
		},
		{
			ID:           "story-hero",
			Name:         "Story Hero",
			Description:  "Full-bleed vertical photo with a logo badge for stories.",
			Category:     template.CategorySocial,
			TargetCanvas: []template.CanvasType{template.CanvasInstagramStory},
			ColorScheme:  template.SchemeVibrant,
			Tags:         []string{"story", "vertical", "fullscreen"},
			Slots: []template.Slot{
				{ID: "hero", Label: "Hero photo", AcceptedTypes: types(media.TypePhoto, media.TypeProduct, media.TypeIllustration), Required: true,
					Position: at(50, 50), Size: sz(100, 100), ZIndex: 0, DefaultOpacity: 100, AutoFit: template.FitCover},
				{ID: "logo", Label: "Logo", AcceptedTypes: types(media.TypeLogo),
					Position: at(50, 90), Size: sz(30, 8), ZIndex: 1, DefaultOpacity: 95, AutoFit: template.FitContain},
			},
		},
		{
			ID:           "photo-grid-4",
			Name:         "Photo Grid",
			Description:  "Four equal tiles for a quick collage.",
			Category:     template.CategoryCollage,
			TargetCanvas: []template.CanvasType{template.CanvasInstagramPost, template.CanvasFacebookPost, template.CanvasTwitterPost},
			ColorScheme:  template.SchemeMuted,
			Tags:         []string{"grid", "collage", "photos"},
			Slots: []template.Slot{
				{ID: "tile-1", Label: "Top left", AcceptedTypes: types(media.TypePhoto, media.TypeProduct), Required: true,
					Position: at(25, 25), Size: sz(48, 48), ZIndex: 0, DefaultOpacity: 100, AutoFit: template.FitCover},
				{ID: "tile-2", Label: "Top right", AcceptedTypes: types(media.TypePhoto, media.TypeProduct), Required: true,
					Position: at(75, 25), Size: sz(48, 48), ZIndex: 0, DefaultOpacity: 100, AutoFit: template.FitCover},
				{ID: "tile-3", Label: "Bottom left", AcceptedTypes: types(media.TypePhoto, media.TypeProduct),
					Position: at(25, 75), Size: sz(48, 48), ZIndex: 0, DefaultOpacity: 100, AutoFit: template.FitCover},
				{ID: "tile-4", Label: "Bottom right", AcceptedTypes: types(media.TypePhoto, media.TypeProduct),
					Position: at(75, 75), Size: sz(48, 48), ZIndex: 0, DefaultOpacity: 100, AutoFit: template.FitCover},
			},
		},
		{
			ID:           "speaker-card",
			Name:         "Speaker Card",
			Description:  "Announce a talk with the speaker's avatar, event logo and sponsor.",
			Category:     template.CategoryEvent,
			TargetCanvas: []template.CanvasType{template.CanvasLinkedInPost, template.CanvasTwitterPost},
			ColorScheme:  template.SchemeDark,
			Tags:         []string{"conference", "speaker", "meetup"},
			IsPremium:    true,
			Slots: []template.Slot{
				{ID: "avatar", Label: "Speaker", AcceptedTypes: types(media.TypeAvatar, media.TypePhoto), Required: true,
					Position: at(25, 50), Size: sz(30, 60), ZIndex: 1, DefaultOpacity: 100, AutoFit: template.FitCover},
				{ID: "event-logo", Label: "Event logo", AcceptedTypes: types(media.TypeLogo), Required: true,
					Position: at(70, 25), Size: sz(30, 20), ZIndex: 1, DefaultOpacity: 100, AutoFit: template.FitContain},
				{ID: "sponsor", Label: "Sponsor", AcceptedTypes: types(media.TypeLogo),
					Position: at(85, 88), Size: sz(18, 10), ZIndex: 2, DefaultOpacity: 80, AutoFit: template.FitContain},
			},
		},
		{
			ID:           "title-slide",
			Name:         "Title Slide",
			Description:  "Presentation opener with illustration and company logo.",
			Category:     template.CategoryPresentation,
			TargetCanvas: []template.CanvasType{template.CanvasPresentation},
			ColorScheme:  template.SchemeBrand,
			Tags:         []string{"slides", "deck", "keynote"},
			Slots: []template.Slot{
				{ID: "illustration", Label: "Illustration", AcceptedTypes: types(media.TypeIllustration, media.TypePhoto), Required: true,
					Position: at(70, 50), Size: sz(50, 80), ZIndex: 0, DefaultOpacity: 100, AutoFit: template.FitContain},
				{ID: "logo", Label: "Logo", AcceptedTypes: types(media.TypeLogo), Required: true,
					Position: at(12, 10), Size: sz(14, 10), ZIndex: 1, DefaultOpacity: 100, AutoFit: template.FitContain},
			},
		},
		{
			ID:           "app-showcase",
			Name:         "App Showcase",
			Description:  "Two screenshots side by side with an app icon.",
			Category:     template.CategoryPortfolio,
			TargetCanvas: []template.CanvasType{template.CanvasTwitterPost, template.CanvasPresentation, template.CanvasLinkedInPost},
			ColorScheme:  template.SchemeLight,
			Tags:         []string{"app", "screenshots", "saas"},
			IsPremium:    true,
			Slots: []template.Slot{
				{ID: "screen-left", Label: "Main screenshot", AcceptedTypes: types(media.TypeScreenshot), Required: true,
					Position: at(32, 55), Size: sz(40, 75), ZIndex: 1, DefaultOpacity: 100, AutoFit: template.FitContain},
				{ID: "screen-right", Label: "Second screenshot", AcceptedTypes: types(media.TypeScreenshot),
					Position: at(68, 55), Size: sz(40, 75), ZIndex: 1, DefaultOpacity: 100, AutoFit: template.FitContain},
				{ID: "app-icon", Label: "App icon", AcceptedTypes: types(media.TypeIcon, media.TypeLogo), Required: true,
					Position: at(50, 10), Size: sz(10, 12), ZIndex: 2, DefaultOpacity: 100, AutoFit: template.FitContain},
			},
		},
		{
			ID:           "video-thumbnail",
			Name:         "Video Thumbnail",
			Description:  "Bold thumbnail with a face cut-out over a background.",
			Category:     template.CategorySocial,
			TargetCanvas: []template.CanvasType{template.CanvasYouTubeThumbnail},
			ColorScheme:  template.SchemeVibrant,
			Tags:         []string{"youtube", "video", "thumbnail"},
			Slots: []template.Slot{
				{ID: "background", Label: "Background", AcceptedTypes: types(media.TypeBackground, media.TypePhoto, media.TypeScreenshot),
					Position: at(50, 50), Size: sz(100, 100), ZIndex: 0, DefaultOpacity: 100, AutoFit: template.FitCover},
				{ID: "face", Label: "Face", AcceptedTypes: types(media.TypeAvatar, media.TypePhoto), Required: true,
					Position: at(75, 55), Size: sz(45, 90), ZIndex: 1, DefaultOpacity: 100, AutoFit: template.FitContain},
				{ID: "icon", Label: "Channel icon", AcceptedTypes: types(media.TypeIcon, media.TypeLogo),
					Position: at(8, 12), Size: sz(10, 16), ZIndex: 2, DefaultOpacity: 100, AutoFit: template.FitContain},
			},
		},
		{
			ID:           "event-poster",
			Name:         "Event Poster",
			Description:  "Print poster with headline artwork, venue photo and sponsor strip.",
			Category:     template.CategoryEvent,
			TargetCanvas: []template.CanvasType{template.CanvasPoster},
			ColorScheme:  template.SchemeBrand,
			Tags:         []string{"print", "poster", "festival"},
			IsPremium:    true,
			Slots: []template.Slot{
				{ID: "artwork", Label: "Artwork", AcceptedTypes: types(media.TypeIllustration, media.TypePhoto), Required: true,
					Position: at(50, 35), Size: sz(90, 55), ZIndex: 0, DefaultOpacity: 100, AutoFit: template.FitCover},
				{ID: "venue", Label: "Venue", AcceptedTypes: types(media.TypePhoto),
					Position: at(30, 75), Size: sz(40, 20), ZIndex: 1, DefaultOpacity: 100, AutoFit: template.FitCover},
				{ID: "logo", Label: "Organizer logo", AcceptedTypes: types(media.TypeLogo), Required: true,
					Position: at(75, 75), Size: sz(30, 12), ZIndex: 1, DefaultOpacity: 100, AutoFit: template.FitContain},
				{ID: "sponsors", Label: "Sponsors", AcceptedTypes: types(media.TypeLogo, media.TypeIcon),
					Position: at(50, 94), Size: sz(90, 8), ZIndex: 2, DefaultOpacity: 90, AutoFit: template.FitFill},
			},
		},
	}
}
