package editor

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownElement is returned when a scene operation references an
	// element ID that is not part of the scene.
	ErrUnknownElement = errors.New("unknown scene element")

	// ErrPortOutOfRange is returned by [Scene.Connect] when a port index
	// is negative or not below the node's port count for that side.
	ErrPortOutOfRange = errors.New("port index out of range")

	// ErrSelfConnection is returned by [Scene.Connect] when both endpoints
	// name the same element.
	ErrSelfConnection = errors.New("connection endpoints must differ")

	// ErrPortOccupied is returned by [Scene.Connect] when the target input
	// port already has an incoming connection. Input ports accept at most
	// one connection; output ports fan out freely.
	ErrPortOccupied = errors.New("input port already connected")

	// ErrUnknownConnection is returned by [Scene.Disconnect] when no such
	// connection exists.
	ErrUnknownConnection = errors.New("unknown connection")
)

// Connection is a directed link from an output port to an input port.
type Connection struct {
	From     string `json:"from" bson:"from"`
	FromPort int    `json:"from_port" bson:"from_port"`
	To       string `json:"to" bson:"to"`
	ToPort   int    `json:"to_port" bson:"to_port"`
}

// Scene is the editor-side graph: node models keyed by editor-assigned
// element IDs, plus the connections between their ports. Element IDs are
// local to the scene and independent of whatever identifiers the node
// models project as captions.
//
// The zero value is not usable - use NewScene. Scene is driven by the
// editor's single event loop and is not safe for concurrent use without
// external synchronization.
type Scene struct {
	nodes map[string]NodeModel
	conns []Connection
	seq   int
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{nodes: make(map[string]NodeModel)}
}

// AddNode places a node model in the scene and returns its element ID.
func (s *Scene) AddNode(model NodeModel) string {
	s.seq++
	id := fmt.Sprintf("e%d", s.seq)
	s.nodes[id] = model
	return id
}

// Node returns the model behind an element ID.
func (s *Scene) Node(id string) (NodeModel, bool) {
	model, ok := s.nodes[id]
	return model, ok
}

// RemoveNode removes an element and every connection touching it.
// Returns ErrUnknownElement if the ID is not in the scene.
func (s *Scene) RemoveNode(id string) error {
	if _, ok := s.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	delete(s.nodes, id)

	kept := s.conns[:0]
	for _, c := range s.conns {
		if c.From != id && c.To != id {
			kept = append(kept, c)
		}
	}
	s.conns = kept
	return nil
}

// CloneNode duplicates the element's node model via [NodeModel.Clone] and
// places the copy in the scene, returning the new element ID. The clone
// carries no connections.
func (s *Scene) CloneNode(id string) (string, error) {
	model, ok := s.nodes[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}

	cloned, err := model.Clone()
	if err != nil {
		return "", err
	}
	return s.AddNode(cloned), nil
}

// Connect links an output port of one element to an input port of another.
// Port indices are validated against the live port counts the models
// report at call time.
func (s *Scene) Connect(from string, fromPort int, to string, toPort int) error {
	if from == to {
		return ErrSelfConnection
	}

	src, ok := s.nodes[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownElement, from)
	}
	dst, ok := s.nodes[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownElement, to)
	}

	if fromPort < 0 || fromPort >= src.NPorts(PortOut) {
		return fmt.Errorf("%w: out port %d of %s", ErrPortOutOfRange, fromPort, from)
	}
	if toPort < 0 || toPort >= dst.NPorts(PortIn) {
		return fmt.Errorf("%w: in port %d of %s", ErrPortOutOfRange, toPort, to)
	}

	for _, c := range s.conns {
		if c.To == to && c.ToPort == toPort {
			return fmt.Errorf("%w: in port %d of %s", ErrPortOccupied, toPort, to)
		}
	}

	s.conns = append(s.conns, Connection{From: from, FromPort: fromPort, To: to, ToPort: toPort})
	return nil
}

// Disconnect removes the exact connection, if present.
func (s *Scene) Disconnect(from string, fromPort int, to string, toPort int) error {
	for i, c := range s.conns {
		if c.From == from && c.FromPort == fromPort && c.To == to && c.ToPort == toPort {
			s.conns = slices.Delete(s.conns, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%w: %s[%d] -> %s[%d]", ErrUnknownConnection, from, fromPort, to, toPort)
}

// ElementIDs returns all element IDs, sorted.
func (s *Scene) ElementIDs() []string {
	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Connections returns a copy of all connections.
func (s *Scene) Connections() []Connection {
	return slices.Clone(s.conns)
}

// Len returns the number of elements in the scene.
func (s *Scene) Len() int { return len(s.nodes) }
