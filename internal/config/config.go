// Package config loads slotcraft configuration.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/slotcraft/config.toml
//  3. a .env file in the working directory (existing variables are kept)
//  4. SLOTCRAFT_* environment variables
//
// Example config.toml:
//
//	log_level = "debug"
//
//	[server]
//	addr = ":8080"
//	cors_origins = ["https://editor.example.com"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "sqlite"
//	path = "/var/lib/slotcraft/designs.db"
//
//	[catalog]
//	files = ["/etc/slotcraft/templates.toml"]
//	strict = true
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/slotcraft/pkg/design/stores"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

// AppName names the XDG directories.
const AppName = "slotcraft"

// Cache backend names.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)

// Config is the complete application configuration.
type Config struct {
	LogLevel string        `toml:"log_level"`
	Server   ServerConfig  `toml:"server"`
	Cache    CacheConfig   `toml:"cache"`
	Store    stores.Config `toml:"store"`
	Catalog  CatalogConfig `toml:"catalog"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`

	// OwnerHeader names the request header carrying the design owner.
	// Authentication happens upstream of slotcraft.
	OwnerHeader string `toml:"owner_header"`

	ShutdownTimeoutSeconds int `toml:"shutdown_timeout_seconds"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

// CatalogConfig lists extra template files merged into the built-in catalog.
type CatalogConfig struct {
	Files  []string `toml:"files"`
	Strict bool     `toml:"strict"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			Addr:                   ":8080",
			CORSOrigins:            []string{"*"},
			OwnerHeader:            "X-Slotcraft-Owner",
			ShutdownTimeoutSeconds: 10,
		},
		Cache: CacheConfig{
			Backend: CacheMemory,
			Prefix:  "slotcraft:",
		},
		Store: stores.Config{
			Backend: stores.BackendMemory,
		},
	}
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheFile, CacheRedis:
	default:
		return errors.New(errors.ErrCodeInvalidEnum, "unknown cache backend %q", c.Cache.Backend)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidEnum, "unknown log level %q", c.LogLevel)
	}
	if c.Server.OwnerHeader == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server.owner_header cannot be empty")
	}
	return nil
}

// Options controls where Load looks.
type Options struct {
	// Path is an explicit config file. It must exist when set.
	// When empty, DefaultPath is used if present.
	Path string

	// DotEnv is the .env file to load. Empty means ".env"; "-" disables it.
	DotEnv string

	// Getenv reads environment variables. Nil means os.Getenv.
	Getenv func(string) string
}

// Load builds the configuration from every layer and validates it.
func Load(opts Options) (Config, error) {
	cfg := Default()

	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		// A missing default file is fine; a missing explicit one is not.
		err := decodeFile(path, &cfg)
		if err != nil && (explicit || !errors.Is(err, errors.ErrCodeFileNotFound)) {
			return Config{}, err
		}
	}

	if err := loadDotEnv(opts.DotEnv); err != nil {
		return Config{}, err
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// ConfigDir returns $XDG_CONFIG_HOME/slotcraft (~/.config/slotcraft).
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// CacheDir returns $XDG_CACHE_HOME/slotcraft (~/.cache/slotcraft).
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns $XDG_DATA_HOME/slotcraft (~/.local/share/slotcraft).
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
