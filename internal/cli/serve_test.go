package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/pipescope/pipescope/pkg/cache"
	"github.com/pipescope/pipescope/pkg/config"
	"github.com/pipescope/pipescope/pkg/scene"
)

func TestNewStoreMemory(t *testing.T) {
	cfg := config.Default()

	store, err := newStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newStore: %v", err)
	}
	defer store.Close(context.Background())

	if _, ok := store.(*scene.MemoryStore); !ok {
		t.Errorf("store = %T, want *scene.MemoryStore", store)
	}
}

func TestNewStoreFile(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendFile
	cfg.Store.Dir = t.TempDir()

	store, err := newStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newStore: %v", err)
	}
	defer store.Close(context.Background())

	if _, ok := store.(*scene.FileStore); !ok {
		t.Errorf("store = %T, want *scene.FileStore", store)
	}
}

func TestNewKeyerScopesByBackend(t *testing.T) {
	memCfg := config.Default()
	fileCfg := config.Default()
	fileCfg.Store.Backend = config.BackendFile

	opts := cache.ArtifactKeyOpts{Format: "svg"}
	memKey := newKeyer(memCfg).ArtifactKey("h", opts)
	fileKey := newKeyer(fileCfg).ArtifactKey("h", opts)

	if !strings.HasPrefix(memKey, "memory:") {
		t.Errorf("key = %q, want memory: prefix", memKey)
	}
	if memKey == fileKey {
		t.Error("different backends produced the same artifact key")
	}
}

func TestNewArtifactCache(t *testing.T) {
	cfg := config.Default()

	c, err := newArtifactCache(cfg)
	if err != nil {
		t.Fatalf("newArtifactCache: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	cfg.Cache.Dir = t.TempDir()
	c, err = newArtifactCache(cfg)
	if err != nil {
		t.Fatalf("newArtifactCache(dir): %v", err)
	}
	defer c.Close()

	if err := c.Set(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Errorf("Set on file cache: %v", err)
	}
}
