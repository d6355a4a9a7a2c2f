// Package editor defines the node contract and scene graph of the visual
// node-graph editor.
//
// The editor is backend-agnostic: anything implementing [NodeModel] can be
// placed in a [Scene], connected port-to-port, cloned, and rendered. The
// contract mirrors what a node editor needs to draw a node - a caption, a
// type name, port counts per direction, and optional port data types - plus
// the hooks through which data would flow between connected ports.
//
// Pipescope's primary NodeModel implementation is the registry bridge in
// the explorer subpackage, which projects backend processing nodes into
// this contract without carrying any data itself.
package editor

// PortDirection identifies which side of a node a port query refers to.
type PortDirection int

const (
	// PortNone addresses no port side; port counts for it are always zero.
	PortNone PortDirection = iota
	// PortIn addresses the input (left) side of a node.
	PortIn
	// PortOut addresses the output (right) side of a node.
	PortOut
)

// String returns the direction name for logging and error messages.
func (d PortDirection) String() string {
	switch d {
	case PortNone:
		return "none"
	case PortIn:
		return "in"
	case PortOut:
		return "out"
	default:
		return "unknown"
	}
}

// DataType describes the payload type of a port. The zero value is the
// untyped/empty descriptor: the editor treats it as a wildcard and allows
// connections without type checking.
type DataType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IsEmpty reports whether the descriptor is the untyped wildcard.
func (d DataType) IsEmpty() bool {
	return d.ID == "" && d.Name == ""
}

// Data is a payload travelling between connected ports.
type Data interface {
	// Type returns the payload's data type descriptor.
	Type() DataType
}

// Widget is optional visual content embedded inside a node's body.
// Nodes without custom content return nil from [NodeModel.EmbeddedWidget]
// and are drawn from caption, name, and ports alone.
type Widget interface {
	// View renders the widget as a string for the editor to display.
	View() string
}

// NodeModel is the capability contract every node in the editor satisfies.
// The editor depends only on this interface; concrete implementations
// decide where identity, port shape, and data come from.
//
// All methods are invoked synchronously on the editor's event loop and
// must not block.
type NodeModel interface {
	// Caption returns the editor-visible caption of the node.
	Caption() string

	// Name returns the editor-visible type name of the node.
	Name() string

	// NPorts returns the number of ports on the given side.
	NPorts(dir PortDirection) int

	// DataType returns the payload type of the port at index on the given
	// side. The zero DataType marks an untyped port.
	DataType(dir PortDirection, index int) DataType

	// Clone creates an independent copy of the node and returns its model.
	Clone() (NodeModel, error)

	// SetInData delivers data to an input port.
	SetInData(data Data, port int)

	// OutData returns the data currently available at an output port,
	// or nil if none is present.
	OutData(port int) Data

	// EmbeddedWidget returns the node's custom visual content, or nil.
	EmbeddedWidget() Widget
}
