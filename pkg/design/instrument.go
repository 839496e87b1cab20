package design

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slotcraft/pkg/observability"
)

// instrumented reports every call of a wrapped store to the store hooks.
type instrumented struct {
	inner   Store
	backend string
	logger  *log.Logger
}

// Instrument wraps s so every call is reported to observability.Store()
// and logged at debug level. A nil logger disables logging.
func Instrument(s Store, backend string, logger *log.Logger) Store {
	return &instrumented{inner: s, backend: backend, logger: logger}
}

func (s *instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	d := time.Since(start)
	observability.Store().OnStoreOp(ctx, s.backend, op, d, err)
	if s.logger != nil {
		s.logger.Debug("design store", "backend", s.backend, "op", op, "duration", d, "err", err)
	}
}

func (s *instrumented) Get(ctx context.Context, owner, id string) (d *Design, err error) {
	defer func(start time.Time) { s.observe(ctx, "get", start, err) }(time.Now())
	return s.inner.Get(ctx, owner, id)
}

func (s *instrumented) Save(ctx context.Context, d *Design) (err error) {
	defer func(start time.Time) { s.observe(ctx, "save", start, err) }(time.Now())
	return s.inner.Save(ctx, d)
}

func (s *instrumented) Delete(ctx context.Context, owner, id string) (err error) {
	defer func(start time.Time) { s.observe(ctx, "delete", start, err) }(time.Now())
	return s.inner.Delete(ctx, owner, id)
}

func (s *instrumented) List(ctx context.Context, owner string) (ds []Design, err error) {
	defer func(start time.Time) { s.observe(ctx, "list", start, err) }(time.Now())
	return s.inner.List(ctx, owner)
}

func (s *instrumented) Close() error { return s.inner.Close() }
