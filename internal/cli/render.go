package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipescope/pipescope/pkg/errors"
	"github.com/pipescope/pipescope/pkg/graph"
	"github.com/pipescope/pipescope/pkg/render/nodelink"
)

// newRenderCmd creates the render command producing SVG or DOT from a
// scene file.
func newRenderCmd() *cobra.Command {
	var (
		output    string
		format    string
		detailed  bool
		showPorts bool
	)

	cmd := &cobra.Command{
		Use:   "render <scene.json>",
		Short: "Render a scene file as a node-link diagram",
		Long: `Render reads a scene document (the JSON produced by the API or by
'pipescope scene show') and writes an SVG or DOT rendering of it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			if format != "svg" && format != "dot" {
				return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be svg or dot)", format)
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "read scene file %s", args[0])
			}
			g, err := graph.UnmarshalGraph(raw)
			if err != nil {
				return err
			}
			logger.Debug("scene loaded", "nodes", len(g.Nodes), "edges", len(g.Edges))

			if output == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				output = base + "." + format
			}

			prog := newProgress(logger)
			dot := nodelink.ToDOT(g, nodelink.Options{Detailed: detailed, ShowPorts: showPorts})

			var data []byte
			if format == "dot" {
				data = []byte(dot)
			} else {
				sp := newSpinnerWithContext(cmd.Context(), "Rendering SVG...")
				sp.Start()
				data, err = nodelink.RenderSVG(dot)
				sp.Stop()
				if err != nil {
					return err
				}
			}

			if err := os.WriteFile(output, data, 0644); err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "write %s", output)
			}

			prog.done(fmt.Sprintf("Rendered %s", output))
			printSuccess("Scene rendered")
			printFile(output)
			printStats(len(g.Nodes), len(g.Edges), false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: scene name with format extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg or dot")
	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "include type and port counts in node labels")
	cmd.Flags().BoolVarP(&showPorts, "ports", "p", false, "label edges with port indices")
	return cmd
}
