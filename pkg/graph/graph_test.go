package graph

import (
	"strings"
	"testing"

	"github.com/pipescope/pipescope/pkg/editor"
	"github.com/pipescope/pipescope/pkg/editor/explorer"
	"github.com/pipescope/pipescope/pkg/pipeline"
)

// buildScene wires source -> filter -> sink against a fresh manager.
func buildScene(t *testing.T) (*editor.Scene, *pipeline.Manager) {
	t.Helper()
	mgr := pipeline.NewDefaultManager()
	s := editor.NewScene()

	var elems []string
	for _, typeName := range []string{pipeline.TypeSource, pipeline.TypeFilter, pipeline.TypeSink} {
		id, err := mgr.CreateNode(typeName)
		if err != nil {
			t.Fatalf("CreateNode(%s): %v", typeName, err)
		}
		elems = append(elems, s.AddNode(explorer.New(mgr, id, typeName)))
	}

	if err := s.Connect(elems[0], 0, elems[1], 0); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := s.Connect(elems[1], 0, elems[2], 0); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return s, mgr
}

func TestFromScene(t *testing.T) {
	s, _ := buildScene(t)
	g := FromScene(s)

	if len(g.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(g.Nodes))
	}
	if len(g.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(g.Edges))
	}

	for i := 1; i < len(g.Nodes); i++ {
		if g.Nodes[i-1].Element >= g.Nodes[i].Element {
			t.Errorf("nodes not sorted: %q >= %q", g.Nodes[i-1].Element, g.Nodes[i].Element)
		}
	}

	byType := make(map[string]Node)
	for _, n := range g.Nodes {
		byType[n.Type] = n
	}
	src := byType[pipeline.TypeSource]
	if src.Inputs != 0 || src.Outputs != 1 {
		t.Errorf("source ports = (%d, %d), want (0, 1)", src.Inputs, src.Outputs)
	}
	if !strings.HasPrefix(src.NodeID, "source-") {
		t.Errorf("source NodeID = %q, want source- prefix", src.NodeID)
	}
}

func TestRoundTrip(t *testing.T) {
	s, mgr := buildScene(t)
	g := FromScene(s)

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	parsed, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}

	rebuilt, err := ToScene(parsed, mgr)
	if err != nil {
		t.Fatalf("ToScene: %v", err)
	}

	if rebuilt.Len() != s.Len() {
		t.Errorf("rebuilt Len() = %d, want %d", rebuilt.Len(), s.Len())
	}
	if got, want := len(rebuilt.Connections()), len(s.Connections()); got != want {
		t.Errorf("rebuilt connections = %d, want %d", got, want)
	}

	// Projections survive the round trip.
	again := FromScene(rebuilt)
	if len(again.Nodes) != len(g.Nodes) {
		t.Fatalf("re-export nodes = %d, want %d", len(again.Nodes), len(g.Nodes))
	}
	for i := range again.Nodes {
		if again.Nodes[i].NodeID != g.Nodes[i].NodeID || again.Nodes[i].Type != g.Nodes[i].Type {
			t.Errorf("node %d = (%q, %q), want (%q, %q)", i,
				again.Nodes[i].NodeID, again.Nodes[i].Type, g.Nodes[i].NodeID, g.Nodes[i].Type)
		}
	}
}

func TestToSceneErrors(t *testing.T) {
	mgr := pipeline.NewDefaultManager()
	filterID, err := mgr.CreateNode(pipeline.TypeFilter)
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	sinkID, err := mgr.CreateNode(pipeline.TypeSink)
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}

	valid := []Node{
		{Element: "e1", NodeID: filterID, Type: pipeline.TypeFilter},
		{Element: "e2", NodeID: sinkID, Type: pipeline.TypeSink},
	}

	tests := []struct {
		name  string
		graph Graph
	}{
		{
			name:  "EmptyElementID",
			graph: Graph{Nodes: []Node{{Element: "", NodeID: filterID, Type: pipeline.TypeFilter}}},
		},
		{
			name: "DuplicateElementID",
			graph: Graph{Nodes: []Node{
				{Element: "e1", NodeID: filterID, Type: pipeline.TypeFilter},
				{Element: "e1", NodeID: sinkID, Type: pipeline.TypeSink},
			}},
		},
		{
			name:  "EdgeToUnknownElement",
			graph: Graph{Nodes: valid, Edges: []Edge{{From: "e1", FromPort: 0, To: "e9", ToPort: 0}}},
		},
		{
			name: "EdgeToStaleNode",
			graph: Graph{
				Nodes: []Node{
					{Element: "e1", NodeID: filterID, Type: pipeline.TypeFilter},
					{Element: "e2", NodeID: "gone-12345678", Type: pipeline.TypeSink},
				},
				// Stale target reports zero ports, so the edge fails validation.
				Edges: []Edge{{From: "e1", FromPort: 0, To: "e2", ToPort: 0}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToScene(tt.graph, mgr); err == nil {
				t.Error("ToScene succeeded, want error")
			}
		})
	}
}

func TestToSceneStaleNodeWithoutEdges(t *testing.T) {
	// A stale node with no connections imports fine and degrades to
	// zero ports.
	mgr := pipeline.NewDefaultManager()
	g := Graph{Nodes: []Node{{Element: "e1", NodeID: "gone-12345678", Type: pipeline.TypeFilter}}}

	s, err := ToScene(g, mgr)
	if err != nil {
		t.Fatalf("ToScene: %v", err)
	}

	ids := s.ElementIDs()
	if len(ids) != 1 {
		t.Fatalf("elements = %d, want 1", len(ids))
	}
	model, _ := s.Node(ids[0])
	if got := model.NPorts(editor.PortIn); got != 0 {
		t.Errorf("stale NPorts(in) = %d, want 0", got)
	}
	if model.Caption() != "gone-12345678" {
		t.Errorf("Caption() = %q, want gone-12345678", model.Caption())
	}
}
