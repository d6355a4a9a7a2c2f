package scene

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pipescope/pipescope/pkg/errors"
	"github.com/pipescope/pipescope/pkg/observability"
)

// FileStore is a file-based scene store for CLI usage.
// Scenes are stored as JSON files in a config directory, one per name.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based scene store.
// If baseDir is empty, defaults to ~/.config/pipescope/scenes/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "pipescope", "scenes")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create scene dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) scenePath(name string) (string, error) {
	// Names become file names; path separators would escape the base dir.
	if name == "" || strings.ContainsAny(name, "/\\") {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid scene name %q", name)
	}
	return filepath.Join(s.baseDir, name+".json"), nil
}

// Get retrieves a scene by name. Returns nil, nil if absent.
func (s *FileStore) Get(ctx context.Context, name string) (*Document, error) {
	start := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.scenePath(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		observability.Scene().OnSceneLoaded(ctx, name, time.Since(start), nil)
		return nil, nil
	}
	if err != nil {
		werr := errors.Wrap(errors.ErrCodeStorage, err, "read scene file")
		observability.Scene().OnSceneLoaded(ctx, name, time.Since(start), werr)
		return nil, werr
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		werr := errors.Wrap(errors.ErrCodeStorage, err, "parse scene %q", name)
		observability.Scene().OnSceneLoaded(ctx, name, time.Since(start), werr)
		return nil, werr
	}

	observability.Scene().OnSceneLoaded(ctx, name, time.Since(start), nil)
	return &doc, nil
}

// Put stores a scene.
func (s *FileStore) Put(ctx context.Context, doc *Document) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.scenePath(doc.Name)
	if err != nil {
		return err
	}
	stamp(doc)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "marshal scene %q", doc.Name)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		werr := errors.Wrap(errors.ErrCodeStorage, err, "write scene file")
		observability.Scene().OnSceneSaved(ctx, doc.Name, len(doc.Graph.Nodes), time.Since(start), werr)
		return werr
	}

	observability.Scene().OnSceneSaved(ctx, doc.Name, len(doc.Graph.Nodes), time.Since(start), nil)
	return nil
}

// List returns all scene names, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read scene dir")
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes a scene. Deleting an absent scene is not an error.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.scenePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove scene file")
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error { return nil }

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
