package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/slotcraft/pkg/errors"
)

func noEnv(string) string { return "" }

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Cache.Backend != CacheMemory || cfg.Store.Backend != "memory" {
		t.Errorf("Default() = %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
log_level = "debug"

[server]
addr = ":9000"
cors_origins = ["https://editor.example.com"]

[cache]
backend = "file"
dir = "/tmp/slotcraft-cache"

[store]
backend = "sqlite"
path = "/tmp/designs.db"

[catalog]
files = ["a.toml", "b.toml"]
strict = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(Options{Path: path, DotEnv: "-", Getenv: noEnv})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.Server.Addr != ":9000" {
		t.Errorf("top-level = %q %q", cfg.LogLevel, cfg.Server.Addr)
	}
	if cfg.Server.OwnerHeader != "X-Slotcraft-Owner" {
		t.Errorf("OwnerHeader = %q, want default kept", cfg.Server.OwnerHeader)
	}
	if cfg.Cache.Backend != CacheFile || cfg.Store.Backend != "sqlite" || cfg.Store.Path != "/tmp/designs.db" {
		t.Errorf("cache/store = %+v %+v", cfg.Cache, cfg.Store)
	}
	if !cfg.Catalog.Strict || !slices.Equal(cfg.Catalog.Files, []string{"a.toml", "b.toml"}) {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		env  map[string]string
		code errors.Code
	}{
		{"missing explicit file", filepath.Join(dir, "nope.toml"), nil, errors.ErrCodeFileNotFound},
		{"unknown key", write("unknown.toml", "colour = \"red\"\n"), nil, errors.ErrCodeInvalidInput},
		{"bad toml", write("bad.toml", "[server\n"), nil, errors.ErrCodeInvalidInput},
		{"bad cache backend", write("cache.toml", "[cache]\nbackend = \"memcached\"\n"), nil, errors.ErrCodeInvalidEnum},
		{"bad env number", write("ok.toml", ""), map[string]string{"SLOTCRAFT_REDIS_DB": "two"}, errors.ErrCodeInvalidInput},
		{"bad log level", write("ok2.toml", ""), map[string]string{"SLOTCRAFT_LOG_LEVEL": "loud"}, errors.ErrCodeInvalidEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Options{Path: tt.path, DotEnv: "-", Getenv: envMap(tt.env)})
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestMissingDefaultFileIsFine(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load(Options{DotEnv: "-", Getenv: noEnv})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	env := map[string]string{
		"SLOTCRAFT_ADDR":           ":7000",
		"SLOTCRAFT_CORS_ORIGINS":   "https://a.example.com, https://b.example.com,",
		"SLOTCRAFT_CACHE":          "redis",
		"SLOTCRAFT_REDIS_ADDR":     "redis:6379",
		"SLOTCRAFT_REDIS_DB":       "3",
		"SLOTCRAFT_STORE":          "s3",
		"SLOTCRAFT_S3_BUCKET":      "designs",
		"SLOTCRAFT_CATALOG":        "x.toml",
		"SLOTCRAFT_CATALOG_STRICT": "true",
	}

	cfg, err := Load(Options{DotEnv: "-", Getenv: envMap(env)})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if !slices.Equal(cfg.Server.CORSOrigins, []string{"https://a.example.com", "https://b.example.com"}) {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Cache.RedisAddr != "redis:6379" || cfg.Store.RedisAddr != "redis:6379" {
		t.Errorf("redis addr not shared: %q %q", cfg.Cache.RedisAddr, cfg.Store.RedisAddr)
	}
	if cfg.Cache.RedisDB != 3 || cfg.Store.RedisDB != 3 {
		t.Errorf("redis db = %d/%d", cfg.Cache.RedisDB, cfg.Store.RedisDB)
	}
	if cfg.Store.Backend != "s3" || cfg.Store.S3Bucket != "designs" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if !cfg.Catalog.Strict || !slices.Equal(cfg.Catalog.Files, []string{"x.toml"}) {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
}

func TestDotEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SLOTCRAFT_ADDR=:6060\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Register for cleanup; godotenv sets process variables.
	t.Setenv("SLOTCRAFT_ADDR", "")
	os.Unsetenv("SLOTCRAFT_ADDR")

	cfg, err := Load(Options{DotEnv: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":6060" {
		t.Errorf("Addr = %q, want value from .env", cfg.Server.Addr)
	}

	if _, err := Load(Options{DotEnv: filepath.Join(t.TempDir(), "missing.env"), Getenv: noEnv}); err != nil {
		t.Errorf("missing .env error: %v", err)
	}
}

func TestXDGDirs(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))

	if dir, _ := CacheDir(); dir != filepath.Join(base, "cache", AppName) {
		t.Errorf("CacheDir() = %q", dir)
	}
	if dir, _ := DataDir(); dir != filepath.Join(base, "data", AppName) {
		t.Errorf("DataDir() = %q", dir)
	}
}
