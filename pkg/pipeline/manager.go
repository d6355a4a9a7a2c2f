package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pipescope/pipescope/pkg/errors"
	"github.com/pipescope/pipescope/pkg/observability"
)

// Manager owns live processing nodes and the factories that create them.
// It is the single authority for node identifiers: nodes are created,
// resolved, and removed through it, never held directly by the editor.
//
// Manager serializes all operations behind an internal mutex and is safe
// for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	factories map[string]Factory
	nodes     map[string]Node
}

// NewManager creates an empty Manager with no registered types.
func NewManager() *Manager {
	return &Manager{
		factories: make(map[string]Factory),
		nodes:     make(map[string]Node),
	}
}

// NewDefaultManager creates a Manager with all built-in node types registered.
func NewDefaultManager() *Manager {
	m := NewManager()
	for typeName, shape := range builtinTypes {
		// Built-in registration cannot collide on a fresh manager.
		_ = m.RegisterFactory(typeName, builtinFactory(typeName, shape))
	}
	return m
}

// RegisterFactory registers a factory for the given type name.
// Returns DUPLICATE_TYPE if the type is already registered and
// INVALID_TYPE if the name is empty or the factory is nil.
func (m *Manager) RegisterFactory(typeName string, factory Factory) error {
	if typeName == "" {
		return errors.New(errors.ErrCodeInvalidType, "type name must not be empty")
	}
	if factory == nil {
		return errors.New(errors.ErrCodeInvalidType, "factory for type %q must not be nil", typeName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.factories[typeName]; exists {
		return errors.New(errors.ErrCodeDuplicateType, "type %q is already registered", typeName)
	}
	m.factories[typeName] = factory
	return nil
}

// CreateNode instantiates a new node of the given type and returns its
// registry-assigned identifier. The identifier is derived from the type
// name plus a random suffix, so captions in the editor stay readable.
//
// Returns NODE_CREATION_FAILED if the type is unknown or its factory fails.
func (m *Manager) CreateNode(typeName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	factory, ok := m.factories[typeName]
	if !ok {
		err := errors.New(errors.ErrCodeNodeCreationFailed, "no factory for type %q", typeName)
		observability.Registry().OnCreateFailed(context.Background(), typeName, err)
		return "", err
	}

	id := newNodeID(typeName)
	node, err := factory(id)
	if err != nil {
		werr := errors.Wrap(errors.ErrCodeNodeCreationFailed, err, "factory for type %q failed", typeName)
		observability.Registry().OnCreateFailed(context.Background(), typeName, werr)
		return "", werr
	}

	m.nodes[id] = node
	observability.Registry().OnNodeCreated(context.Background(), typeName, id)
	return id, nil
}

// Node resolves a live node by identifier.
// Returns (nil, false) if no node with that identifier exists; a missing
// node is a normal outcome for stale references, not an error.
func (m *Manager) Node(id string) (Node, bool) {
	m.mu.RLock()
	node, ok := m.nodes[id]
	m.mu.RUnlock()

	if !ok {
		observability.Registry().OnLookupMiss(context.Background(), id)
		return nil, false
	}
	return node, true
}

// RemoveNode removes a live node from the registry.
// Returns NODE_NOT_FOUND if the identifier does not resolve.
func (m *Manager) RemoveNode(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.nodes[id]; !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "no node with identifier %q", id)
	}
	delete(m.nodes, id)
	observability.Registry().OnNodeRemoved(context.Background(), id)
	return nil
}

// NodeIDs returns the identifiers of all live nodes, sorted.
func (m *Manager) NodeIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.nodes))
	for id := range m.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// TypeNames returns all registered type names, sorted.
func (m *Manager) TypeNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.factories))
	for name := range m.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of live nodes.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// newNodeID builds an identifier of the form "<type>-<8 hex chars>".
// The suffix comes from a random UUID, so identifiers never repeat even
// when nodes of the same type are created and removed repeatedly.
func newNodeID(typeName string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s", strings.ToLower(typeName), suffix)
}
