package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipescope/pipescope/pkg/pipeline"
)

// typeShape pairs a node type name with its port counts.
type typeShape struct {
	Name    string
	Inputs  int
	Outputs int
}

// typeShapes instantiates one node of every registered type in a scratch
// registry to read its port shape. Port counts are only observable on a
// live node, so this is the one place the CLI creates throwaway nodes.
func typeShapes() ([]typeShape, error) {
	mgr := pipeline.NewDefaultManager()

	names := mgr.TypeNames()
	shapes := make([]typeShape, 0, len(names))
	for _, name := range names {
		id, err := mgr.CreateNode(name)
		if err != nil {
			return nil, err
		}
		node, ok := mgr.Node(id)
		if !ok {
			return nil, fmt.Errorf("node %q vanished from scratch registry", id)
		}
		shapes = append(shapes, typeShape{
			Name:    name,
			Inputs:  node.NumInputs(),
			Outputs: node.NumOutputs(),
		})
	}
	return shapes, nil
}

// newTypesCmd creates the types command listing registered node types.
func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered node types and their port shapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shapes, err := typeShapes()
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render("Node Types"))
			printNewline()
			for _, s := range shapes {
				printKeyValue(s.Name, fmt.Sprintf("in: %d  out: %d", s.Inputs, s.Outputs))
			}
			printNewline()
			printNextStep("Browse interactively", "pipescope browse")
			return nil
		},
	}
}
