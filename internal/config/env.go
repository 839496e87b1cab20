package config

import (
	stderrors "errors"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/matzehuels/slotcraft/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SLOTCRAFT_"

func loadDotEnv(path string) error {
	if path == "-" {
		return nil
	}
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil || stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "load %s", path)
}

// applyEnv overrides cfg with SLOTCRAFT_* variables. The Redis variables
// configure both the cache and the design store.
func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + name)); v != "" {
			*dst = v
		}
	}
	list := func(name string, dst *[]string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + name)); v != "" {
			*dst = splitList(v)
		}
	}
	num := func(name string, dst ...*int) error {
		v := strings.TrimSpace(getenv(EnvPrefix + name))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s%s", EnvPrefix, name)
		}
		for _, d := range dst {
			*d = n
		}
		return nil
	}

	str("LOG_LEVEL", &cfg.LogLevel)

	str("ADDR", &cfg.Server.Addr)
	list("CORS_ORIGINS", &cfg.Server.CORSOrigins)
	str("OWNER_HEADER", &cfg.Server.OwnerHeader)
	if err := num("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeoutSeconds); err != nil {
		return err
	}

	str("CACHE", &cfg.Cache.Backend)
	str("CACHE_DIR", &cfg.Cache.Dir)

	str("REDIS_ADDR", &cfg.Cache.RedisAddr)
	str("REDIS_ADDR", &cfg.Store.RedisAddr)
	str("REDIS_PASSWORD", &cfg.Cache.RedisPassword)
	str("REDIS_PASSWORD", &cfg.Store.RedisPassword)
	if err := num("REDIS_DB", &cfg.Cache.RedisDB, &cfg.Store.RedisDB); err != nil {
		return err
	}

	str("STORE", &cfg.Store.Backend)
	str("STORE_PATH", &cfg.Store.Path)
	str("MONGO_URI", &cfg.Store.MongoURI)
	str("MONGO_DATABASE", &cfg.Store.MongoDatabase)
	str("S3_BUCKET", &cfg.Store.S3Bucket)
	str("S3_PREFIX", &cfg.Store.S3Prefix)
	str("S3_ENDPOINT", &cfg.Store.S3Endpoint)

	list("CATALOG", &cfg.Catalog.Files)
	if v := strings.TrimSpace(getenv(EnvPrefix + "CATALOG_STRICT")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%sCATALOG_STRICT", EnvPrefix)
		}
		cfg.Catalog.Strict = b
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
