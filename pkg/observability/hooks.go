// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about registry mutations, scene persistence, and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRegistryHooks(&myRegistryHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Registry().OnNodeCreated(ctx, typeName, nodeID)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Registry Hooks
// =============================================================================

// RegistryHooks receives events from the pipeline node registry.
type RegistryHooks interface {
	// OnNodeCreated records a successful node instantiation.
	OnNodeCreated(ctx context.Context, typeName, nodeID string)

	// OnNodeRemoved records a node removal.
	OnNodeRemoved(ctx context.Context, nodeID string)

	// OnCreateFailed records a failed instantiation attempt.
	OnCreateFailed(ctx context.Context, typeName string, err error)

	// OnLookupMiss records a lookup of an identifier with no live node.
	// Stale editor references degrade to zero ports; this hook makes the
	// frequency of that degradation visible.
	OnLookupMiss(ctx context.Context, nodeID string)
}

// =============================================================================
// Scene Hooks
// =============================================================================

// SceneHooks receives events from scene persistence operations.
type SceneHooks interface {
	// OnSceneSaved records a scene write with its node count.
	OnSceneSaved(ctx context.Context, name string, nodeCount int, duration time.Duration, err error)

	// OnSceneLoaded records a scene read.
	OnSceneLoaded(ctx context.Context, name string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRegistryHooks is a no-op implementation of RegistryHooks.
type NoopRegistryHooks struct{}

func (NoopRegistryHooks) OnNodeCreated(context.Context, string, string) {}
func (NoopRegistryHooks) OnNodeRemoved(context.Context, string)         {}
func (NoopRegistryHooks) OnCreateFailed(context.Context, string, error) {}
func (NoopRegistryHooks) OnLookupMiss(context.Context, string)          {}

// NoopSceneHooks is a no-op implementation of SceneHooks.
type NoopSceneHooks struct{}

func (NoopSceneHooks) OnSceneSaved(context.Context, string, int, time.Duration, error) {}
func (NoopSceneHooks) OnSceneLoaded(context.Context, string, time.Duration, error)     {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Hook Registration
// =============================================================================

var (
	mu            sync.RWMutex
	registryHooks RegistryHooks = NoopRegistryHooks{}
	sceneHooks    SceneHooks    = NoopSceneHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
)

// SetRegistryHooks registers hooks for registry events.
// Pass nil to restore the no-op implementation.
func SetRegistryHooks(h RegistryHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopRegistryHooks{}
	}
	registryHooks = h
}

// Registry returns the current registry hooks.
func Registry() RegistryHooks {
	mu.RLock()
	defer mu.RUnlock()
	return registryHooks
}

// SetSceneHooks registers hooks for scene persistence events.
// Pass nil to restore the no-op implementation.
func SetSceneHooks(h SceneHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopSceneHooks{}
	}
	sceneHooks = h
}

// Scene returns the current scene hooks.
func Scene() SceneHooks {
	mu.RLock()
	defer mu.RUnlock()
	return sceneHooks
}

// SetCacheHooks registers hooks for cache events.
// Pass nil to restore the no-op implementation.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCacheHooks{}
	}
	cacheHooks = h
}

// Cache returns the current cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}
