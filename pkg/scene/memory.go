package scene

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/pipescope/pipescope/pkg/observability"
)

// MemoryStore is an in-memory scene store for development and testing.
// Documents are copied on the way in and out, so callers cannot mutate
// stored state through retained pointers.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

// clone deep-copies a document so stored state and returned state never
// share graph slices.
func clone(doc Document) Document {
	doc.Graph.Nodes = slices.Clone(doc.Graph.Nodes)
	doc.Graph.Edges = slices.Clone(doc.Graph.Edges)
	return doc
}

// Get retrieves a scene by name. Returns nil, nil if absent.
func (s *MemoryStore) Get(ctx context.Context, name string) (*Document, error) {
	start := time.Now()
	s.mu.RLock()
	doc, ok := s.docs[name]
	s.mu.RUnlock()

	observability.Scene().OnSceneLoaded(ctx, name, time.Since(start), nil)
	if !ok {
		return nil, nil
	}
	out := clone(doc)
	return &out, nil
}

// Put stores a scene.
func (s *MemoryStore) Put(ctx context.Context, doc *Document) error {
	start := time.Now()
	stamp(doc)

	s.mu.Lock()
	s.docs[doc.Name] = clone(*doc)
	s.mu.Unlock()

	observability.Scene().OnSceneSaved(ctx, doc.Name, len(doc.Graph.Nodes), time.Since(start), nil)
	return nil
}

// List returns all scene names, sorted.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes a scene.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	delete(s.docs, name)
	s.mu.Unlock()
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
