// Package pipeline runs the arrangement engine behind the CLI and the API.
//
// The engine packages under pkg/core are pure functions. This package adds
// what both entry points need around them: template lookup in a catalog,
// request validation, result caching, logging and observability hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(catalog.Builtin(), cache, nil, logger)
//	result, hit, err := runner.Arrange(ctx, pipeline.Request{
//	    TemplateID: "product-spotlight",
//	    Assets:     assets,
//	    Elements:   true,
//	})
//
// Rank every template in the catalog for an asset pool:
//
//	suggestions, _, err := runner.Suggest(ctx, assets, pipeline.SuggestOptions{Limit: 5})
package pipeline

import (
	"time"

	"github.com/matzehuels/slotcraft/pkg/core/element"
	"github.com/matzehuels/slotcraft/pkg/core/engine"
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/placement"
	"github.com/matzehuels/slotcraft/pkg/core/template"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// MaxAssets bounds the asset pool of a single request.
	MaxAssets = 500

	// MaxBatch bounds the number of requests in one ArrangeBatch call.
	MaxBatch = 100

	// DefaultConcurrency is the number of batch requests arranged at once.
	DefaultConcurrency = 8
)

// Key types reported to the cache hooks.
const (
	keyArrange = "arrange"
	keySuggest = "suggest"
)

// =============================================================================
// Request - Arrangement Input
// =============================================================================

// Request describes one arrangement.
type Request struct {
	TemplateID string        `json:"templateId"`
	Assets     []media.Asset `json:"assets"`

	// Assignment maps slot ids to asset ids. When set it is used as is
	// instead of running auto-assignment; invalid pairs are skipped.
	Assignment map[string]string `json:"assignment,omitempty"`

	// Canvas selection for element conversion. An explicit size wins over
	// CanvasType, which wins over the template's first target canvas.
	CanvasType   template.CanvasType `json:"canvasType,omitempty"`
	CanvasWidth  float64             `json:"canvasWidth,omitempty"`
	CanvasHeight float64             `json:"canvasHeight,omitempty"`

	// Elements requests pixel-space canvas elements in the result.
	Elements bool `json:"elements,omitempty"`

	// Refresh bypasses the cache read. The fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate checks the request before any work is done.
func (r Request) Validate() error {
	if err := errors.ValidateID("template", r.TemplateID); err != nil {
		return err
	}
	if len(r.Assets) > MaxAssets {
		return errors.New(errors.ErrCodeInvalidInput, "too many assets: %d (max %d)", len(r.Assets), MaxAssets)
	}
	for i, a := range r.Assets {
		if err := a.Validate(); err != nil {
			return errors.New(errors.GetCode(err), "asset %d: %s", i, errors.UserMessage(err))
		}
	}
	if r.CanvasType != "" {
		if _, err := template.ParseCanvasType(string(r.CanvasType)); err != nil {
			return err
		}
	}
	if r.CanvasWidth < 0 || r.CanvasHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must not be negative")
	}
	if (r.CanvasWidth > 0) != (r.CanvasHeight > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "canvas width and height must be set together")
	}
	return nil
}

// canvas resolves the pixel size used for element conversion.
func (r Request) canvas(t *template.Template) (Canvas, error) {
	if r.CanvasWidth > 0 && r.CanvasHeight > 0 {
		return Canvas{Type: r.CanvasType, Width: r.CanvasWidth, Height: r.CanvasHeight}, nil
	}
	if r.CanvasType != "" {
		w, h := r.CanvasType.Dimensions()
		return Canvas{Type: r.CanvasType, Width: w, Height: h}, nil
	}
	if w, h, ok := t.DefaultCanvas(); ok {
		return Canvas{Type: t.TargetCanvas[0], Width: w, Height: h}, nil
	}
	return Canvas{}, errors.New(errors.ErrCodeInvalidInput,
		"template %s has no target canvas; pass a canvas size", t.ID)
}

// =============================================================================
// Result - Arrangement Output
// =============================================================================

// Canvas is the pixel space elements were computed for.
type Canvas struct {
	Type   template.CanvasType `json:"type,omitempty"`
	Width  float64             `json:"width"`
	Height float64             `json:"height"`
}

// Result is the outcome of one arrangement.
type Result struct {
	TemplateID string                     `json:"templateId"`
	Assignment engine.SlotAssignment      `json:"assignment"`
	Applied    placement.AppliedTemplate  `json:"applied"`
	Status     engine.TemplateStatus      `json:"status"`
	Warnings   []template.ValidationError `json:"warnings"`
	Canvas     *Canvas                    `json:"canvas,omitempty"`
	Elements   []element.ImageElement     `json:"elements,omitempty"`
	Stats      Stats                      `json:"stats"`
}

// Stats holds timing for a result. Duration covers the whole call,
// including cache lookup.
type Stats struct {
	Duration time.Duration `json:"duration"`
}
