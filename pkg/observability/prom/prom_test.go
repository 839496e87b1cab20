package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/slotcraft/pkg/observability"
)

func TestMetricsRecordEvents(t *testing.T) {
	ctx := context.Background()
	m := New(prometheus.NewRegistry())

	m.OnArrangeComplete(ctx, "hero", 2, true, time.Millisecond, nil)
	m.OnArrangeComplete(ctx, "hero", 1, false, time.Millisecond, nil)
	m.OnArrangeComplete(ctx, "hero", 0, false, time.Millisecond, errors.New("boom"))

	tests := []struct {
		outcome string
		want    float64
	}{
		{"ok", 1},
		{"incomplete", 1},
		{"error", 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.arrangements.WithLabelValues("hero", tt.outcome)); got != tt.want {
			t.Errorf("arrangements{%s} = %v, want %v", tt.outcome, got, tt.want)
		}
	}

	m.OnCacheHit(ctx, "arrange")
	m.OnCacheMiss(ctx, "arrange")
	m.OnCacheSet(ctx, "arrange", 512)
	if got := testutil.ToFloat64(m.cacheBytes.WithLabelValues("arrange")); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}

	m.OnResponse(ctx, "GET", "/api/v1/templates", 200, time.Millisecond)
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/v1/templates", "GET", "200")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}

	m.OnStoreOp(ctx, "sqlite", "save", time.Millisecond, nil)
	if got := testutil.ToFloat64(m.storeOps.WithLabelValues("sqlite", "save", "ok")); got != 1 {
		t.Errorf("store ops = %v, want 1", got)
	}
}

func TestRegisterInstallsHooks(t *testing.T) {
	defer observability.Reset()

	m := New(prometheus.NewRegistry())
	m.Register()

	if observability.Arrange() != m || observability.Cache() != m || observability.HTTP() != m || observability.Store() != m {
		t.Error("Register() did not install every hook")
	}
}
