// Package pkg provides the core libraries for Pipescope pipeline exploration.
//
// # Overview
//
// Pipescope bridges a registry of typed processing nodes into a visual
// node-graph editor and renders the resulting scenes as node-link diagrams.
// The pkg directory is organized into these areas:
//
//  1. [pipeline] - The processing-node registry (types, factories, lookup)
//  2. [editor] - The editor scene model and the node model contract
//  3. [editor/explorer] - The adapter projecting registry nodes into the editor
//  4. [graph] - Serialization types for scenes (JSON node-link format)
//  5. [render/nodelink] - DOT and SVG rendering via Graphviz
//  6. [scene] - Scene persistence (memory, file, Redis, MongoDB)
//  7. [cache] - Render artifact caching keyed by content hash
//  8. [config] - TOML configuration with environment overrides
//
// # Architecture
//
// The typical data flow through Pipescope:
//
//	[pipeline] registry (create and resolve nodes by identifier)
//	         ↓
//	    [editor/explorer] adapter (project nodes into the editor)
//	         ↓
//	    [editor] scene (elements + connections)
//	         ↓
//	    [graph] serialization → [scene] store
//	         ↓
//	    [render/nodelink] → SVG/DOT output (via [cache])
//
// # Quick Start
//
// Create a node, place it in a scene, and render the scene:
//
//	import (
//	    "github.com/pipescope/pipescope/pkg/editor"
//	    "github.com/pipescope/pipescope/pkg/editor/explorer"
//	    "github.com/pipescope/pipescope/pkg/graph"
//	    "github.com/pipescope/pipescope/pkg/pipeline"
//	    "github.com/pipescope/pipescope/pkg/render/nodelink"
//	)
//
//	// 1. Create a node in the registry
//	mgr := pipeline.NewDefaultManager()
//	id, _ := mgr.CreateNode("Filter")
//
//	// 2. Project it into an editor scene
//	s := editor.NewScene()
//	s.AddNode(explorer.New(mgr, id, "Filter"))
//
//	// 3. Serialize and render
//	g := graph.FromScene(s)
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, _ := nodelink.RenderSVG(dot)
//
// # Main Packages
//
// [pipeline] - The node registry. A Manager owns named, typed processing
// nodes created through per-type factories. Callers hold identifiers, not
// pointers; lookups after removal simply report absence.
//
// [editor] - The editor side of the bridge: the NodeModel contract the
// editor renders against, and the Scene holding placed models and their
// port-to-port connections.
//
// [editor/explorer] - The adapter tying the two sides together. Each
// explorer.Node projects one registry node into the editor, resolving it
// freshly on every query so removals degrade gracefully.
//
// [graph] - Serialization types for scenes. FromScene exports a scene to a
// portable document; ToScene rebuilds a live scene against a registry.
//
// [render/nodelink] - Node-link diagrams using Graphviz: DOT generation
// plus SVG rendering.
//
// [scene] - Scene persistence behind a single Store interface with
// in-memory, file, Redis, and MongoDB backends.
//
// [cache] - Caching for rendered artifacts, keyed by the content hash of
// the scene plus render options.
//
// [config] - TOML configuration for the server, store selection, and
// cache, with PIPESCOPE_* environment overrides.
//
// [errors] - Structured errors with stable codes used across all layers.
//
// [observability] - Hook points for registry, store, and cache events with
// no-op defaults.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/editor/...       # Specific package
//
// [pipeline]: https://pkg.go.dev/github.com/pipescope/pipescope/pkg/pipeline
// [editor]: https://pkg.go.dev/github.com/pipescope/pipescope/pkg/editor
// [editor/explorer]: https://pkg.go.dev/github.com/pipescope/pipescope/pkg/editor/explorer
// [graph]: https://pkg.go.dev/github.com/pipescope/pipescope/pkg/graph
// [render/nodelink]: https://pkg.go.dev/github.com/pipescope/pipescope/pkg/render/nodelink
// [scene]: https://pkg.go.dev/github.com/pipescope/pipescope/pkg/scene
// [cache]: https://pkg.go.dev/github.com/pipescope/pipescope/pkg/cache
// [config]: https://pkg.go.dev/github.com/pipescope/pipescope/pkg/config
// [errors]: https://pkg.go.dev/github.com/pipescope/pipescope/pkg/errors
// [observability]: https://pkg.go.dev/github.com/pipescope/pipescope/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/pipescope/pipescope/pkg/buildinfo
package pkg
