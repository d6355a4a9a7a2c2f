package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pipescope/pipescope/pkg/graph"
	"github.com/pipescope/pipescope/pkg/pipeline"
)

func writeSceneFile(t *testing.T) string {
	t.Helper()

	g := graph.Graph{
		Nodes: []graph.Node{
			{Element: "e1", NodeID: "generator-1a2b3c4d", Type: pipeline.TypeGenerator, Outputs: 1},
			{Element: "e2", NodeID: "sink-5e6f7a8b", Type: pipeline.TypeSink, Inputs: 1},
		},
		Edges: []graph.Edge{{From: "e1", FromPort: 0, To: "e2", ToPort: 0}},
	}
	data, err := graph.MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	path := filepath.Join(t.TempDir(), "demo.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	return path
}

func TestRenderCmdDOT(t *testing.T) {
	scenePath := writeSceneFile(t)
	outPath := filepath.Join(t.TempDir(), "demo.dot")

	cmd := newRenderCmd()
	cmd.SetArgs([]string{scenePath, "--format", "dot", "--output", outPath, "--detailed"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	dot := string(out)
	if !strings.Contains(dot, "digraph scene {") {
		t.Errorf("output is not DOT: %s", dot)
	}
	if !strings.Contains(dot, pipeline.TypeGenerator) {
		t.Error("detailed output should carry the node type")
	}
}

func TestRenderCmdBadFormat(t *testing.T) {
	cmd := newRenderCmd()
	cmd.SetArgs([]string{writeSceneFile(t), "--format", "png"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("render accepted an unsupported format")
	}
}

func TestRenderCmdMissingFile(t *testing.T) {
	cmd := newRenderCmd()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "absent.json")})
	if err := cmd.Execute(); err == nil {
		t.Fatal("render succeeded on a missing scene file")
	}
}
