// Package explorer bridges the pipeline node registry into the visual editor.
//
// An explorer [Node] projects exactly one backend processing node into the
// editor's [editor.NodeModel] contract. It is a pure identity/shape
// projection: the caption is the backend identifier, the type name is the
// backend type, and port counts come from a fresh registry lookup on every
// query. No data crosses the adapter - its data hooks are inert and every
// port reports the untyped descriptor.
//
// The adapter holds the backend node by identifier, not by reference. If
// the node is removed out-of-band the adapter goes stale and degrades to
// zero ports; it never fails a port query. Cloning asks the registry to
// instantiate a fresh node of the same type and wraps the new identifier.
package explorer

import (
	"github.com/pipescope/pipescope/pkg/editor"
	"github.com/pipescope/pipescope/pkg/pipeline"
)

// Registry is the capability the adapter needs from the backend.
// *pipeline.Manager satisfies it; tests substitute stubs.
type Registry interface {
	// CreateNode instantiates a node of the given type and returns its
	// registry-assigned identifier.
	CreateNode(typeName string) (string, error)

	// Node resolves a live node by identifier. A false result means the
	// identifier no longer resolves, which callers treat as a normal
	// outcome rather than an error.
	Node(id string) (pipeline.Node, bool)
}

// Ensure the concrete registry satisfies the capability.
var _ Registry = (*pipeline.Manager)(nil)

// Node adapts one backend processing node to the editor's node contract.
// Its two identity fields are immutable for the adapter's lifetime; all
// variability lives in the registry lookup performed on each query.
type Node struct {
	nodeID   string
	nodeType string
	registry Registry
}

// New wraps an existing backend node identifier and type name.
// The registry is injected here and reused by clones, keeping the adapter
// free of process-wide state.
func New(registry Registry, nodeID, nodeType string) *Node {
	return &Node{nodeID: nodeID, nodeType: nodeType, registry: registry}
}

// Caption returns the backend node identifier as the editor caption.
func (n *Node) Caption() string { return n.nodeID }

// Name returns the backend node type as the editor type name.
func (n *Node) Name() string { return n.nodeType }

// Clone asks the registry for a fresh backend node of the same type and
// returns an adapter over the new identifier. The new node is owned by the
// registry; on failure no adapter is produced and the registry error
// (NODE_CREATION_FAILED) is returned as-is.
func (n *Node) Clone() (editor.NodeModel, error) {
	id, err := n.registry.CreateNode(n.nodeType)
	if err != nil {
		return nil, err
	}
	return New(n.registry, id, n.nodeType), nil
}

// NPorts resolves the backend node and returns its declared port count for
// the given side. A stale identifier or PortNone yields zero; the query
// itself never fails.
func (n *Node) NPorts(dir editor.PortDirection) int {
	node, ok := n.registry.Node(n.nodeID)
	if !ok {
		return 0
	}
	switch dir {
	case editor.PortIn:
		return node.NumInputs()
	case editor.PortOut:
		return node.NumOutputs()
	default:
		return 0
	}
}

// DataType returns the untyped descriptor for every port. The adapter does
// not participate in type-checked data exchange; all connections through
// it are untyped.
func (n *Node) DataType(dir editor.PortDirection, index int) editor.DataType {
	return editor.DataType{}
}

// SetInData is inert: the adapter carries no data across ports.
func (n *Node) SetInData(data editor.Data, port int) {}

// OutData reports no value present on any output port.
func (n *Node) OutData(port int) editor.Data { return nil }

// EmbeddedWidget reports no embedded visual content; explorer nodes are
// drawn from caption, name, and ports alone.
func (n *Node) EmbeddedWidget() editor.Widget { return nil }

// Ensure Node implements the editor contract.
var _ editor.NodeModel = (*Node)(nil)
