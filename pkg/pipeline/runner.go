package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/slotcraft/pkg/cache"
	"github.com/matzehuels/slotcraft/pkg/core/catalog"
	"github.com/matzehuels/slotcraft/pkg/core/element"
	"github.com/matzehuels/slotcraft/pkg/core/engine"
	"github.com/matzehuels/slotcraft/pkg/core/template"
	"github.com/matzehuels/slotcraft/pkg/errors"
	"github.com/matzehuels/slotcraft/pkg/observability"
)

// Runner executes arrangements with caching.
// Both CLI and API use it so caching and logging behave the same everywhere.
//
// The Runner holds no per-request state. Multiple goroutines can safely
// share one Runner.
type Runner struct {
	Catalog *catalog.Catalog
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger

	// Concurrency bounds ArrangeBatch. Zero means DefaultConcurrency.
	Concurrency int
}

// NewRunner creates a runner.
// A nil catalog means the built-in catalog, a nil keyer a DefaultKeyer and
// a nil cache a NullCache (caching disabled).
func NewRunner(cat *catalog.Catalog, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if cat == nil {
		cat = catalog.Builtin()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Catalog: cat,
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
	}
}

// Arrange looks up the template, fills its slots and builds placements.
// The boolean reports a cache hit.
//
// Template validation problems do not fail the call; they are logged and
// returned as Result.Warnings.
func (r *Runner) Arrange(ctx context.Context, req Request) (res *Result, hit bool, err error) {
	start := time.Now()
	hooks := observability.Arrange()
	hooks.OnArrangeStart(ctx, req.TemplateID, len(req.Assets))
	defer func() {
		var filled int
		var complete bool
		if res != nil {
			filled, complete = res.Status.FilledCount, res.Status.IsComplete
		}
		hooks.OnArrangeComplete(ctx, req.TemplateID, filled, complete, time.Since(start), err)
	}()

	if err := req.Validate(); err != nil {
		return nil, false, err
	}
	tmpl, err := r.Catalog.Get(req.TemplateID)
	if err != nil {
		return nil, false, err
	}

	key, err := r.arrangementKey(tmpl, req)
	if err != nil {
		return nil, false, err
	}
	if !req.Refresh {
		var cached Result
		if r.load(ctx, keyArrange, key, &cached) {
			cached.Stats.Duration = time.Since(start)
			return &cached, true, nil
		}
	}

	res, err = r.arrange(tmpl, req)
	if err != nil {
		return nil, false, err
	}
	res.Stats.Duration = time.Since(start)
	r.store(ctx, keyArrange, key, res, cache.ArrangementTTL)

	r.Logger.Info("arranged",
		"template", tmpl.ID,
		"assets", len(req.Assets),
		"filled", res.Status.FilledCount,
		"complete", res.Status.IsComplete,
		"duration", res.Stats.Duration)
	return res, false, nil
}

func (r *Runner) arrange(tmpl template.Template, req Request) (*Result, error) {
	v := template.Validate(tmpl)
	if !v.Valid {
		r.Logger.Warn("template has validation errors", "template", tmpl.ID, "errors", len(v.Errors))
	}

	var a engine.SlotAssignment
	if req.Assignment != nil {
		a = engine.NewAssignment(tmpl, req.Assignment, req.Assets)
	} else {
		a = engine.AutoAssign(tmpl, req.Assets)
	}
	applied := engine.Apply(tmpl, a, req.Assets)

	res := &Result{
		TemplateID: tmpl.ID,
		Assignment: a,
		Applied:    applied,
		Status:     engine.Status(applied),
		Warnings:   v.Errors,
	}
	if res.Warnings == nil {
		res.Warnings = []template.ValidationError{}
	}

	if req.Elements {
		c, err := req.canvas(&tmpl)
		if err != nil {
			return nil, err
		}
		res.Canvas = &c
		res.Elements = element.FromPlacements(applied.Placements, c.Width, c.Height)
	}
	return res, nil
}

func (r *Runner) arrangementKey(tmpl template.Template, req Request) (string, error) {
	tmplHash, err := cache.HashJSON(tmpl)
	if err != nil {
		return "", err
	}
	assetsHash, err := cache.HashJSON(req.Assets)
	if err != nil {
		return "", err
	}
	opts := cache.ArrangementKeyOpts{
		TemplateHash: tmplHash,
		AssetsHash:   assetsHash,
	}
	if req.Assignment != nil {
		if opts.AssignmentHash, err = cache.HashJSON(req.Assignment); err != nil {
			return "", err
		}
	}
	if req.Elements {
		c, err := req.canvas(&tmpl)
		if err != nil {
			return "", err
		}
		opts.Elements = true
		opts.CanvasType = string(c.Type)
		opts.CanvasWidth, opts.CanvasHeight = c.Width, c.Height
	}
	return r.Keyer.ArrangementKey(tmpl.ID, opts), nil
}

// =============================================================================
// Batch
// =============================================================================

// BatchItem is the outcome of one request in a batch. Exactly one of
// Result and Error is set.
type BatchItem struct {
	Index    int     `json:"index"`
	Result   *Result `json:"result,omitempty"`
	CacheHit bool    `json:"cacheHit"`
	Error    string  `json:"error,omitempty"`
	Code     string  `json:"code,omitempty"`
}

// ArrangeBatch arranges reqs concurrently. A failing request does not stop
// the others; its error is reported in its item. The returned error is set
// only for an oversized batch or a cancelled context.
func (r *Runner) ArrangeBatch(ctx context.Context, reqs []Request) ([]BatchItem, error) {
	if len(reqs) > MaxBatch {
		return nil, errors.New(errors.ErrCodeInvalidInput, "batch too large: %d (max %d)", len(reqs), MaxBatch)
	}

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	items := make([]BatchItem, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, hit, err := r.Arrange(gctx, req)
			items[i] = BatchItem{Index: i, Result: res, CacheHit: hit}
			if err != nil {
				items[i].Error = errors.UserMessage(err)
				items[i].Code = string(errors.GetCode(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("arrange batch: %w", err)
	}

	r.Logger.Debug("arranged batch", "requests", len(reqs))
	return items, nil
}

// =============================================================================
// Cache helpers
// =============================================================================

// load reads key into v. Undecodable entries count as misses.
func (r *Runner) load(ctx context.Context, keyType, key string, v any) bool {
	hooks := observability.Cache()
	var (
		data []byte
		ok   bool
	)
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, ok, err = r.Cache.Get(ctx, key)
		return err
	})
	switch {
	case cache.IsCorrupt(err):
		r.Logger.Debug("discarding corrupt cache entry", "key", key, "err", err)
	case err != nil:
		r.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !ok {
		hooks.OnCacheMiss(ctx, keyType)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.Logger.Debug("discarding undecodable cache entry", "key", key, "err", err)
		hooks.OnCacheMiss(ctx, keyType)
		return false
	}
	hooks.OnCacheHit(ctx, keyType)
	return true
}

func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
