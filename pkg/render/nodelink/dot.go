// Package nodelink renders editor scenes as directed node-link diagrams.
//
// # Overview
//
// This package produces the visual form of a scene using Graphviz: each
// scene element appears as a box labeled with its caption, type name, and
// port counts, connected by arrows carrying the port indices of each
// endpoint.
//
// # Usage
//
// Convert a serialized scene to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered in-process via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses left-to-right layout (rankdir=LR), so data flows
// the way the editor draws it: inputs on the left, outputs on the right.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/pipescope/pipescope/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the type name and port counts in node labels.
	// When false, only the caption is shown.
	Detailed bool

	// ShowPorts labels each edge with its source and target port indices.
	ShowPorts bool
}

// ToDOT converts a serialized scene to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
//
// Stale nodes (zero ports in both directions on a non-terminal type) are
// drawn like any other; the document carries whatever the export observed.
func ToDOT(g graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scene {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.Element, fmtLabel(n, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if opts.ShowPorts {
			fmt.Fprintf(&buf, "  %q -> %q [taillabel=\"%d\", headlabel=\"%d\", fontsize=10];\n",
				e.From, e.To, e.FromPort, e.ToPort)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.NodeID
	}

	parts := []string{n.NodeID, n.Type}
	parts = append(parts, fmt.Sprintf("in: %d out: %d", n.Inputs, n.Outputs))
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
