// Package stores opens a design store from configuration.
package stores

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slotcraft/pkg/design"
	"github.com/matzehuels/slotcraft/pkg/design/file"
	"github.com/matzehuels/slotcraft/pkg/design/memory"
	"github.com/matzehuels/slotcraft/pkg/design/mongo"
	"github.com/matzehuels/slotcraft/pkg/design/redis"
	"github.com/matzehuels/slotcraft/pkg/design/s3"
	"github.com/matzehuels/slotcraft/pkg/design/sqlite"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendS3     = "s3"
)

// Backends lists every supported backend name.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo, BackendS3}

// Config selects and configures a design store backend.
type Config struct {
	Backend string `toml:"backend"`

	// Path is the directory for the file backend and the database file
	// for sqlite.
	Path string `toml:"path"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`

	S3Bucket   string `toml:"s3_bucket"`
	S3Prefix   string `toml:"s3_prefix"`
	S3Endpoint string `toml:"s3_endpoint"`
}

// Open creates the configured store and wraps it with [design.Instrument].
// An empty backend means memory.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (design.Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendMemory
	}

	var (
		s   design.Store
		err error
	)
	switch backend {
	case BackendMemory:
		s = memory.New()
	case BackendFile:
		s, err = file.New(cfg.Path)
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "sqlite backend requires a path")
		}
		s, err = sqlite.Open(ctx, cfg.Path)
	case BackendRedis:
		s, err = redis.New(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case BackendMongo:
		s, err = mongo.New(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	case BackendS3:
		s, err = s3.New(ctx, s3.Config{Bucket: cfg.S3Bucket, Prefix: cfg.S3Prefix, Endpoint: cfg.S3Endpoint})
	default:
		return nil, errors.New(errors.ErrCodeInvalidEnum, "unknown design backend %q (want one of %s)",
			cfg.Backend, strings.Join(Backends, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("open %s design store: %w", backend, err)
	}

	if logger != nil {
		logger.Debug("design store opened", "backend", backend)
	}
	return design.Instrument(s, backend, logger), nil
}
