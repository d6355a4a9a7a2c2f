package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pipescope/pipescope/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipescope.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("Backend = %q, want memory", cfg.Store.Backend)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"

[store]
backend = "redis"

[store.redis]
addr = "redis.internal:6379"
db = 2

[cache]
dir = "/tmp/pipescope-cache"
ttl_minutes = 30
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Store.Backend != BackendRedis {
		t.Errorf("Backend = %q, want redis", cfg.Store.Backend)
	}
	if cfg.Store.Redis.Addr != "redis.internal:6379" || cfg.Store.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Store.Redis)
	}
	if cfg.Cache.TTLMinutes != 30 {
		t.Errorf("TTLMinutes = %d, want 30", cfg.Cache.TTLMinutes)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "BadTOML", content: `[server` + "\n"},
		{name: "BadBackend", content: "[store]\nbackend = \"cassandra\"\n"},
		{name: "EmptyAddr", content: "[server]\naddr = \"\"\n"},
		{name: "NegativeTTL", content: "[cache]\nttl_minutes = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %q, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PIPESCOPE_ADDR", ":7070")
	t.Setenv("PIPESCOPE_STORE", "mongo")
	t.Setenv("PIPESCOPE_MONGO_URI", "mongodb://db.internal:27017")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", cfg.Server.Addr)
	}
	if cfg.Store.Backend != BackendMongo {
		t.Errorf("Backend = %q, want mongo", cfg.Store.Backend)
	}
	if cfg.Store.Mongo.URI != "mongodb://db.internal:27017" {
		t.Errorf("Mongo URI = %q", cfg.Store.Mongo.URI)
	}
}
