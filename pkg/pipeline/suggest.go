package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/slotcraft/pkg/cache"
	"github.com/matzehuels/slotcraft/pkg/core/catalog"
	"github.com/matzehuels/slotcraft/pkg/core/engine"
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/template"
	"github.com/matzehuels/slotcraft/pkg/errors"
	"github.com/matzehuels/slotcraft/pkg/observability"
)

// SuggestOptions narrows and bounds a suggestion list.
type SuggestOptions struct {
	// Query filters candidate templates before ranking.
	Query catalog.Query `json:"query"`

	// Limit caps the number of suggestions. Zero means no limit.
	Limit int `json:"limit,omitempty"`

	Refresh bool `json:"refresh,omitempty"`
}

// Suggestion is one ranked template.
type Suggestion struct {
	TemplateID     string                `json:"templateId"`
	Name           string                `json:"name"`
	Category       template.Category     `json:"category"`
	IsPremium      bool                  `json:"isPremium"`
	Status         engine.TemplateStatus `json:"status"`
	RequiredFilled int                   `json:"requiredFilled"`
	TotalSlots     int                   `json:"totalSlots"`
}

// Suggest auto-assigns assets into every catalog template matching
// opts.Query and ranks the results: complete templates first, then by
// required slots filled, then by slots filled, then catalog order.
// The boolean reports a cache hit.
func (r *Runner) Suggest(ctx context.Context, assets []media.Asset, opts SuggestOptions) (out []Suggestion, hit bool, err error) {
	start := time.Now()
	defer func() {
		observability.Arrange().OnSuggestComplete(ctx, len(out), time.Since(start), err)
	}()

	if len(assets) > MaxAssets {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "too many assets: %d (max %d)", len(assets), MaxAssets)
	}
	for i, a := range assets {
		if err := a.Validate(); err != nil {
			return nil, false, errors.New(errors.GetCode(err), "asset %d: %s", i, errors.UserMessage(err))
		}
	}
	if opts.Limit < 0 {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "limit must not be negative")
	}

	candidates := r.Catalog.Query(opts.Query)

	key, err := r.suggestionKey(candidates, assets, opts)
	if err != nil {
		return nil, false, err
	}
	if !opts.Refresh {
		var cached []Suggestion
		if r.load(ctx, keySuggest, key, &cached) {
			return cached, true, nil
		}
	}

	out = Rank(candidates, assets)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	r.store(ctx, keySuggest, key, out, cache.SuggestionTTL)

	r.Logger.Info("ranked templates",
		"candidates", len(candidates),
		"assets", len(assets),
		"returned", len(out),
		"duration", time.Since(start))
	return out, false, nil
}

// Rank scores every template against assets. It is the uncached core of
// [Runner.Suggest].
func Rank(ts []template.Template, assets []media.Asset) []Suggestion {
	out := make([]Suggestion, len(ts))
	for i, t := range ts {
		status := engine.Status(engine.Apply(t, engine.AutoAssign(t, assets), assets))
		out[i] = Suggestion{
			TemplateID:     t.ID,
			Name:           t.Name,
			Category:       t.Category,
			IsPremium:      t.IsPremium,
			Status:         status,
			RequiredFilled: status.TotalRequired - len(status.UnfilledRequiredSlotIDs),
			TotalSlots:     len(t.Slots),
		}
	}

	// Stable sort keeps catalog order among equals.
	slices.SortStableFunc(out, func(a, b Suggestion) int {
		if a.Status.IsComplete != b.Status.IsComplete {
			if a.Status.IsComplete {
				return -1
			}
			return 1
		}
		if a.RequiredFilled != b.RequiredFilled {
			return b.RequiredFilled - a.RequiredFilled
		}
		return b.Status.FilledCount - a.Status.FilledCount
	})
	return out
}

func (r *Runner) suggestionKey(candidates []template.Template, assets []media.Asset, opts SuggestOptions) (string, error) {
	catHash, err := cache.HashJSON(candidates)
	if err != nil {
		return "", err
	}
	assetsHash, err := cache.HashJSON(assets)
	if err != nil {
		return "", err
	}
	return r.Keyer.SuggestionKey(cache.SuggestionKeyOpts{
		CatalogHash: catHash,
		AssetsHash:  assetsHash,
		CanvasType:  string(opts.Query.CanvasType),
		Category:    string(opts.Query.Category),
		Premium:     string(opts.Query.Premium),
		Limit:       opts.Limit,
	}), nil
}
