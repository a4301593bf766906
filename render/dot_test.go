package render

import (
	"strings"
	"testing"

	"github.com/meikuraledutech/layerdag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDOTGroupsByLayer(t *testing.T) {
	g := &layerdag.Graph{}
	g, err := g.AddNodes([]layerdag.Node{{ID: "n1"}, {ID: "n2"}, {ID: "n3"}})
	require.NoError(t, err)
	g, err = g.AddEdge(layerdag.Edge{SourceID: "n1", TargetID: "n2"})
	require.NoError(t, err)
	g, err = g.AddEdge(layerdag.Edge{SourceID: "n1", TargetID: "n3"})
	require.NoError(t, err)

	dot := ToDOT(g)
	assert.Contains(t, dot, "digraph LayerDAG")
	assert.Contains(t, dot, "rank=same")
	assert.Equal(t, 2, strings.Count(dot, "rank=same"), "two layers, one cluster each")
	assert.Contains(t, dot, `"n1" -> "n2"`)
	assert.Contains(t, dot, `"n1" -> "n3"`)
}

func TestToDOTEmptyGraph(t *testing.T) {
	g := &layerdag.Graph{}
	dot := ToDOT(g)
	assert.Contains(t, dot, "digraph LayerDAG")
	assert.NotContains(t, dot, "rank=same")
}
