// Package render exports a committed layerdag.Graph as Graphviz DOT, and
// optionally rasterizes it to SVG. It is a collaborator outside the core:
// it reads a graph through the public facade's query surface and never
// reaches into layering or cycle internals.
package render

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/goccy/go-graphviz"
	"github.com/meikuraledutech/layerdag"
)

// ToDOT returns a Graphviz DOT digraph for g, with nodes grouped into
// rank=same clusters per observed layer index so the rendered picture
// mirrors the graph's topological layering.
func ToDOT(g *layerdag.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph LayerDAG {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled, fillcolor=white, shape=box];\n\n")

	layerList := g.LayerList()
	layers := g.Layers()
	for _, lid := range layerList {
		layer, ok := layers[lid]
		if !ok || len(layer.Nodes) == 0 {
			continue
		}
		nodeIDs := make([]string, len(layer.Nodes))
		for i, id := range layer.Nodes {
			nodeIDs[i] = string(id)
		}
		sort.Strings(nodeIDs)

		fmt.Fprintf(&buf, "  { rank=same;\n")
		for _, id := range nodeIDs {
			fmt.Fprintf(&buf, "    %s [label=%q];\n", dotID(id), id)
		}
		buf.WriteString("  }\n")
	}
	buf.WriteString("\n")

	ids := g.NodeIDs()
	for _, id := range ids {
		for _, e := range g.SuccEdges(id) {
			edge, ok := g.GetEdge(e)
			if !ok {
				continue
			}
			fmt.Fprintf(&buf, "  %s -> %s;\n", dotID(string(edge.SourceID)), dotID(string(edge.TargetID)))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders g as an SVG image by passing the DOT produced by ToDOT
// to the go-graphviz library, in process.
func RenderSVG(g *layerdag.Graph) ([]byte, error) {
	dot := ToDOT(g)

	gv, err := graphviz.New(context.Background())
	if err != nil {
		return nil, fmt.Errorf("layerdag/render: init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("layerdag/render: parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(context.Background(), parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("layerdag/render: render: %w", err)
	}
	return buf.Bytes(), nil
}

// dotID escapes a node id for use as a DOT identifier.
func dotID(id string) string {
	return fmt.Sprintf("%q", id)
}
