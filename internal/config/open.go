package config

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slotcraft/pkg/cache"
	"github.com/matzehuels/slotcraft/pkg/core/catalog"
)

// OpenCache creates the configured result cache.
// The file backend defaults to CacheDir when Dir is empty.
func (c CacheConfig) OpenCache(ctx context.Context, logger *log.Logger) (cache.Cache, error) {
	var (
		out cache.Cache
		err error
	)
	switch c.Backend {
	case CacheNone:
		out = cache.NewNullCache()
	case CacheMemory, "":
		out = cache.NewMemoryCache(0)
	case CacheFile:
		dir := c.Dir
		if dir == "" {
			if dir, err = CacheDir(); err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
		}
		out, err = cache.NewFileCache(dir)
	case CacheRedis:
		out, err = cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", c.Backend, err)
	}
	if logger != nil {
		logger.Debug("cache opened", "backend", c.Backend)
	}
	return out, nil
}

// LoadCatalog returns the built-in catalog extended with the configured
// template files.
func (c CatalogConfig) LoadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(catalog.Builtin(), c.Strict, c.Files...)
}
