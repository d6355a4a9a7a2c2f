// Package scene provides persistence for editor scenes.
//
// This package defines the Store interface for saving and loading named
// scene documents, with implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI usage
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB document storage for durable scene libraries
//
// # Architecture
//
// A scene document couples the serialized graph with bookkeeping
// timestamps. Documents are keyed by a caller-chosen name; Put upserts,
// Get returns (nil, nil) for absent names so callers can distinguish
// absence from backend failure without sentinel checks.
//
// # Usage
//
// Create a store and save a scene:
//
//	store := scene.NewMemoryStore()
//
//	doc := &scene.Document{Name: "demo", Graph: graph.FromScene(s)}
//	if err := store.Put(ctx, doc); err != nil {
//	    return err
//	}
//
//	loaded, err := store.Get(ctx, "demo")
//	if err != nil {
//	    return err
//	}
//	if loaded == nil {
//	    // No such scene
//	}
package scene

import (
	"context"
	"time"

	"github.com/pipescope/pipescope/pkg/graph"
)

// Document is a named, persisted scene.
type Document struct {
	Name      string      `json:"name" bson:"_id"`
	Graph     graph.Graph `json:"graph" bson:"graph"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for scene storage backends.
type Store interface {
	// Get retrieves a scene by name.
	// Returns nil, nil if the scene doesn't exist.
	Get(ctx context.Context, name string) (*Document, error)

	// Put stores a scene, overwriting any scene with the same name.
	// Implementations stamp UpdatedAt and, for new documents, CreatedAt.
	Put(ctx context.Context, doc *Document) error

	// List returns the names of all stored scenes, sorted.
	List(ctx context.Context) ([]string, error)

	// Delete removes a scene. Deleting an absent scene is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// stamp updates the document timestamps before a write.
func stamp(doc *Document) {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
}
