// Package graph defines the canonical serialization format for editor scenes.
//
// A [Graph] document captures what the editor shows - nodes with their
// backend identity and port shape, plus the port-to-port connections - in a
// form usable for API responses, storage, caching, and rendering. The
// format is human-readable and designed for round-trip fidelity: a scene
// exported and re-imported against the same registry reconstructs the same
// projections.
package graph

import (
	"encoding/json"
	"fmt"

	"github.com/pipescope/pipescope/pkg/editor"
	"github.com/pipescope/pipescope/pkg/editor/explorer"
)

// Graph is the serialization format for editor scenes.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is one scene element in serialized form. Inputs and Outputs record
// the port counts observed at export time; on import the live registry is
// authoritative again.
type Node struct {
	Element string `json:"element" bson:"element"`           // scene element ID
	NodeID  string `json:"node_id" bson:"node_id"`           // backend node identifier
	Type    string `json:"type" bson:"type"`                 // backend node type name
	Inputs  int    `json:"inputs,omitempty" bson:"inputs"`   // input port count at export
	Outputs int    `json:"outputs,omitempty" bson:"outputs"` // output port count at export
}

// Edge is a directed connection from an output port to an input port,
// referencing scene element IDs.
type Edge struct {
	From     string `json:"from" bson:"from"`
	FromPort int    `json:"from_port" bson:"from_port"`
	To       string `json:"to" bson:"to"`
	ToPort   int    `json:"to_port" bson:"to_port"`
}

// FromScene converts a scene to its serialization format.
// Nodes are emitted in sorted element-ID order for deterministic output.
func FromScene(s *editor.Scene) Graph {
	ids := s.ElementIDs()

	out := Graph{
		Nodes: make([]Node, 0, len(ids)),
		Edges: make([]Edge, 0, len(s.Connections())),
	}

	for _, id := range ids {
		model, ok := s.Node(id)
		if !ok {
			continue
		}
		out.Nodes = append(out.Nodes, Node{
			Element: id,
			NodeID:  model.Caption(),
			Type:    model.Name(),
			Inputs:  model.NPorts(editor.PortIn),
			Outputs: model.NPorts(editor.PortOut),
		})
	}

	for _, c := range s.Connections() {
		out.Edges = append(out.Edges, Edge{From: c.From, FromPort: c.FromPort, To: c.To, ToPort: c.ToPort})
	}

	return out
}

// ToScene reconstructs a scene from its serialized form. Each node becomes
// a fresh explorer adapter over the recorded backend identifier; port
// counts come from live registry lookups, so edges referencing ports a
// stale node no longer offers fail validation.
func ToScene(g Graph, registry explorer.Registry) (*editor.Scene, error) {
	s := editor.NewScene()

	// Serialized element IDs are scene-local; the rebuilt scene assigns
	// its own, so edges are remapped through this table.
	elements := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Element == "" {
			return nil, fmt.Errorf("node %q: empty element ID", n.NodeID)
		}
		if _, dup := elements[n.Element]; dup {
			return nil, fmt.Errorf("duplicate element ID %q", n.Element)
		}
		elements[n.Element] = s.AddNode(explorer.New(registry, n.NodeID, n.Type))
	}

	for _, e := range g.Edges {
		from, ok := elements[e.From]
		if !ok {
			return nil, fmt.Errorf("edge references unknown element %q", e.From)
		}
		to, ok := elements[e.To]
		if !ok {
			return nil, fmt.Errorf("edge references unknown element %q", e.To)
		}
		if err := s.Connect(from, e.FromPort, to, e.ToPort); err != nil {
			return nil, fmt.Errorf("connect %s[%d] -> %s[%d]: %w", e.From, e.FromPort, e.To, e.ToPort, err)
		}
	}

	return s, nil
}

// MarshalGraph serializes a Graph to indented JSON.
func MarshalGraph(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}
