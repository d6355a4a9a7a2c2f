// Package pipeline provides the processing-node registry for Pipescope.
//
// This package implements the backend side of the editor bridge: a Manager
// that owns named, typed processing nodes, each declaring how many input and
// output ports it has. The visual editor never touches nodes directly - it
// resolves them through the Manager by identifier, one lookup per query.
//
// # Architecture
//
// The registry consists of three pieces:
//
//  1. Node: the minimal contract a processing node exposes (type, port counts)
//  2. Factory: a constructor registered per type name
//  3. Manager: creation, lookup, and removal of live nodes by identifier
//
// Node identifiers are assigned by the Manager at creation time and stay
// stable for the node's lifetime. Callers hold identifiers, not pointers;
// a lookup after out-of-band removal simply reports absence.
//
// # Usage
//
// Create a manager with the built-in types and instantiate a node:
//
//	mgr := pipeline.NewDefaultManager()
//	id, err := mgr.CreateNode("Filter")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	node, ok := mgr.Node(id)
package pipeline

// Node is the contract a processing node exposes to the registry and,
// through it, to the visual editor. Implementations carry their own
// processing state; the registry only needs identity and port shape.
type Node interface {
	// ID returns the registry-assigned identifier.
	ID() string

	// Type returns the node's type name (the key used to create it).
	Type() string

	// NumInputs returns the number of declared input ports.
	NumInputs() int

	// NumOutputs returns the number of declared output ports.
	NumOutputs() int
}

// Factory constructs a node instance. The id parameter is the identifier
// assigned by the Manager; implementations must return a node reporting
// exactly that ID.
type Factory func(id string) (Node, error)

// =============================================================================
// ProcNode - Generic Processing Node
// =============================================================================

// ProcNode is a basic Node implementation with fixed port counts.
// The built-in node types all use it; custom types can embed it and
// attach their own processing state.
type ProcNode struct {
	id       string
	typeName string
	inputs   int
	outputs  int
}

// NewProcNode creates a node with the given identity and port shape.
func NewProcNode(id, typeName string, inputs, outputs int) *ProcNode {
	return &ProcNode{id: id, typeName: typeName, inputs: inputs, outputs: outputs}
}

// ID returns the registry-assigned identifier.
func (n *ProcNode) ID() string { return n.id }

// Type returns the node's type name.
func (n *ProcNode) Type() string { return n.typeName }

// NumInputs returns the number of input ports.
func (n *ProcNode) NumInputs() int { return n.inputs }

// NumOutputs returns the number of output ports.
func (n *ProcNode) NumOutputs() int { return n.outputs }

// Ensure ProcNode implements Node.
var _ Node = (*ProcNode)(nil)

// =============================================================================
// Built-in Node Types
// =============================================================================

// Built-in type names registered by NewDefaultManager.
const (
	TypeSource      = "Source"      // 0 in, 1 out - stream origin
	TypeSink        = "Sink"        // 1 in, 0 out - stream terminus
	TypeFilter      = "Filter"      // 1 in, 1 out - per-sample transform
	TypeUpsample    = "Upsample"    // 1 in, 1 out - rate increase
	TypeEnvelope    = "Envelope"    // 1 in, 1 out - envelope detection
	TypeScanConvert = "ScanConvert" // 1 in, 1 out - geometry conversion
	TypeMerge       = "Merge"       // 2 in, 1 out - stream combination
	TypeSplit       = "Split"       // 1 in, 2 out - stream duplication
	TypeRecorder    = "Recorder"    // 1 in, 1 out - pass-through capture
	TypeGenerator   = "Generator"   // 0 in, 1 out - synthetic test signal
)

// builtinShape describes the fixed port counts of a built-in type.
type builtinShape struct {
	inputs  int
	outputs int
}

// builtinTypes maps built-in type names to their port shapes.
var builtinTypes = map[string]builtinShape{
	TypeSource:      {0, 1},
	TypeSink:        {1, 0},
	TypeFilter:      {1, 1},
	TypeUpsample:    {1, 1},
	TypeEnvelope:    {1, 1},
	TypeScanConvert: {1, 1},
	TypeMerge:       {2, 1},
	TypeSplit:       {1, 2},
	TypeRecorder:    {1, 1},
	TypeGenerator:   {0, 1},
}

// builtinFactory returns a Factory producing ProcNodes of the given type.
func builtinFactory(typeName string, shape builtinShape) Factory {
	return func(id string) (Node, error) {
		return NewProcNode(id, typeName, shape.inputs, shape.outputs), nil
	}
}
