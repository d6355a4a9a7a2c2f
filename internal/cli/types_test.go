package cli

import (
	"testing"

	"github.com/pipescope/pipescope/pkg/pipeline"
)

func TestTypeShapes(t *testing.T) {
	shapes, err := typeShapes()
	if err != nil {
		t.Fatalf("typeShapes: %v", err)
	}
	if len(shapes) == 0 {
		t.Fatal("no type shapes returned")
	}

	byName := map[string]typeShape{}
	for _, s := range shapes {
		byName[s.Name] = s
	}

	merge, ok := byName[pipeline.TypeMerge]
	if !ok {
		t.Fatal("Merge type missing")
	}
	if merge.Inputs != 2 || merge.Outputs != 1 {
		t.Errorf("Merge shape = %+v, want 2 in 1 out", merge)
	}
}

func TestRoleOf(t *testing.T) {
	tests := []struct {
		name  string
		shape typeShape
		want  string
	}{
		{name: "Producer", shape: typeShape{Inputs: 0, Outputs: 1}, want: "producer"},
		{name: "Consumer", shape: typeShape{Inputs: 1, Outputs: 0}, want: "consumer"},
		{name: "Combiner", shape: typeShape{Inputs: 2, Outputs: 1}, want: "combiner"},
		{name: "Splitter", shape: typeShape{Inputs: 1, Outputs: 2}, want: "splitter"},
		{name: "Transform", shape: typeShape{Inputs: 1, Outputs: 1}, want: "transform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := roleOf(tt.shape); got != tt.want {
				t.Errorf("roleOf(%+v) = %q, want %q", tt.shape, got, tt.want)
			}
		})
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("v1.0.0", "abc123", "2026-01-02")

	if version != "v1.0.0" || commit != "abc123" || date != "2026-01-02" {
		t.Errorf("version info = %q %q %q", version, commit, date)
	}
}
