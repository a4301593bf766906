package layerdag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddNodes(t *testing.T, g *Graph, ids ...string) *Graph {
	t.Helper()
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = Node{ID: NodeID(id)}
	}
	g2, err := g.AddNodes(nodes)
	require.NoError(t, err)
	return g2
}

func mustAddEdge(t *testing.T, g *Graph, from, to string) *Graph {
	t.Helper()
	g2, err := g.AddEdge(Edge{SourceID: NodeID(from), TargetID: NodeID(to)})
	require.NoError(t, err)
	return g2
}

func layerIdx(t *testing.T, g *Graph, id string) int {
	t.Helper()
	lid, ok := g.LayerOf(NodeID(id))
	require.True(t, ok, "node %s must have a layer assignment", id)
	layers := g.Layers()
	layer, ok := layers[lid]
	require.True(t, ok)
	return layer.Index
}

// Scenario 1: chain.
func TestScenarioChain(t *testing.T) {
	g := &Graph{}
	g = mustAddNodes(t, g, "n1", "n2", "n3")
	g = mustAddEdge(t, g, "n1", "n2")
	g = mustAddEdge(t, g, "n2", "n3")

	assert.Equal(t, 0, layerIdx(t, g, "n1"))
	assert.Equal(t, 1, layerIdx(t, g, "n2"))
	assert.Equal(t, 2, layerIdx(t, g, "n3"))

	assert.ElementsMatch(t, []NodeID{"n2"}, g.SuccNodes("n1"))
	assert.ElementsMatch(t, []NodeID{"n2"}, g.PredNodes("n3"))
}

// Scenario 2: diamond.
func TestScenarioDiamond(t *testing.T) {
	g := &Graph{}
	g = mustAddNodes(t, g, "n1", "n2", "n3", "n4")
	g = mustAddEdge(t, g, "n1", "n2")
	g = mustAddEdge(t, g, "n1", "n3")
	g = mustAddEdge(t, g, "n2", "n4")
	g = mustAddEdge(t, g, "n3", "n4")

	assert.Equal(t, 0, layerIdx(t, g, "n1"))
	assert.Equal(t, 1, layerIdx(t, g, "n2"))
	assert.Equal(t, 1, layerIdx(t, g, "n3"))
	assert.Equal(t, 2, layerIdx(t, g, "n4"))
}

// Scenario 3: closing the chain into a cycle.
func TestScenarioCycleOnChain(t *testing.T) {
	g := &Graph{}
	g = mustAddNodes(t, g, "n1", "n2", "n3")
	g = mustAddEdge(t, g, "n1", "n2")
	g = mustAddEdge(t, g, "n2", "n3")

	before := g
	_, err := g.AddEdge(Edge{SourceID: "n3", TargetID: "n1"})
	require.Error(t, err)

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.True(t, errors.Is(err, ErrCycleDetected))
	assert.ElementsMatch(t, []NodeID{"n1", "n2", "n3"}, uniqueIDs(cycleErr.Cycle))
	assert.Equal(t, cycleErr.Cycle[0], cycleErr.Cycle[len(cycleErr.Cycle)-1])

	assertSameObservations(t, before, g)
}

// Scenario 4: self-loop.
func TestScenarioSelfLoop(t *testing.T) {
	g := &Graph{}
	g = mustAddNodes(t, g, "n1")

	_, err := g.AddEdge(Edge{SourceID: "n1", TargetID: "n1"})
	require.Error(t, err)

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []NodeID{"n1", "n1"}, cycleErr.Cycle)
}

// Scenario 5: remove an edge, then reconnect differently.
func TestScenarioRemoveAndReconnect(t *testing.T) {
	g := &Graph{}
	g = mustAddNodes(t, g, "n1", "n2", "n3")
	g = mustAddEdge(t, g, "n1", "n2")
	g = mustAddEdge(t, g, "n2", "n3")

	g, err := g.RemoveEdge(ComputeEdgeID("n2", "", "n3", ""))
	require.NoError(t, err)
	assert.Equal(t, 0, layerIdx(t, g, "n3"))
	assert.Equal(t, 1, layerIdx(t, g, "n2"), "n2 still has predecessor n1, so it must not move")

	g = mustAddEdge(t, g, "n1", "n3")
	assert.Equal(t, 1, layerIdx(t, g, "n3"))
	assertInvariants(t, g)
}

// Scenario 6: closing a longer chain into a cycle, still caught.
func TestScenarioLongChainCycle(t *testing.T) {
	g := &Graph{}
	ids := make([]string, 25)
	for i := range ids {
		ids[i] = "n" + itoaTest(i)
	}
	g = mustAddNodes(t, g, ids...)
	for i := 0; i < 24; i++ {
		g = mustAddEdge(t, g, ids[i], ids[i+1])
	}

	_, err := g.AddEdge(Edge{SourceID: NodeID(ids[24]), TargetID: NodeID(ids[0])})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycleDetected))
}

// Scenario 7: removing a middle node drops its incident edges.
func TestScenarioRemoveMiddleNode(t *testing.T) {
	g := &Graph{}
	g = mustAddNodes(t, g, "n1", "n2", "n3")
	g = mustAddEdge(t, g, "n1", "n2")
	g = mustAddEdge(t, g, "n2", "n3")

	g, err := g.RemoveNode("n2")
	require.NoError(t, err)

	assert.False(t, g.HasNode("n2"))
	assert.Empty(t, g.SuccNodes("n1"))
	assert.Empty(t, g.PredNodes("n3"))
	assertInvariants(t, g)
}

func TestUnknownEndpointIsAtomic(t *testing.T) {
	g := &Graph{}
	g = mustAddNodes(t, g, "n1")

	before := g
	_, err := g.AddEdge(Edge{SourceID: "n1", TargetID: "missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEndpoint))
	assertSameObservations(t, before, g)
}

func TestStructuralSharingAndImmutability(t *testing.T) {
	g1 := &Graph{}
	g1 = mustAddNodes(t, g1, "n1")

	g2, err := g1.AddNode(Node{ID: "n2"})
	require.NoError(t, err)

	assert.Same(t, g1, g2.Prior(), "g2.prior must be g1")
	assert.False(t, g1.HasNode("n2"), "g1 must not observe g2's content")
	assert.True(t, g2.HasNode("n2"))
}

func TestRoundTripNodeAddRemove(t *testing.T) {
	g := &Graph{}
	g = mustAddNodes(t, g, "n1")

	g2, err := g.AddNode(Node{ID: "n2"})
	require.NoError(t, err)
	g3, err := g2.RemoveNode("n2")
	require.NoError(t, err)

	assertSameObservations(t, g, g3)
}

func TestLayerContiguityAfterManyMutations(t *testing.T) {
	g := &Graph{}
	g = mustAddNodes(t, g, "a", "b", "c", "d", "e")
	g = mustAddEdge(t, g, "a", "b")
	g = mustAddEdge(t, g, "b", "c")
	g = mustAddEdge(t, g, "c", "d")
	g = mustAddEdge(t, g, "a", "e")
	g = mustAddEdge(t, g, "e", "d")

	assertInvariants(t, g)

	g, err := g.RemoveNode("c")
	require.NoError(t, err)
	assertInvariants(t, g)
}

// --- helpers ---

func uniqueIDs(ids []NodeID) []NodeID {
	seen := map[NodeID]bool{}
	var out []NodeID
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func itoaTest(n int) string {
	digits := "0123456789"
	if n == 0 {
		return "0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return string(buf)
}

func assertSameObservations(t *testing.T, a, b *Graph) {
	t.Helper()
	assert.ElementsMatch(t, a.NodeIDs(), b.NodeIDs())
	for _, id := range a.NodeIDs() {
		an, _ := a.GetNode(id)
		bn, _ := b.GetNode(id)
		assert.Equal(t, an, bn)
	}
	assert.ElementsMatch(t, edgeIDs(a), edgeIDs(b))
}

func edgeIDs(g *Graph) []EdgeID {
	var out []EdgeID
	for _, e := range g.Edges() {
		out = append(out, e.ID)
	}
	return out
}

// assertInvariants checks layer monotonicity, contiguity, tightness, and
// root placement against a committed graph.
func assertInvariants(t *testing.T, g *Graph) {
	t.Helper()

	layers := g.Layers()
	seenIndices := map[int]bool{}
	for _, l := range layers {
		assert.NotEmpty(t, l.Nodes, "no layer may be empty")
		seenIndices[l.Index] = true
	}
	for i := 0; i < len(layers); i++ {
		assert.True(t, seenIndices[i], "layer indices must be {0,...,L-1}, missing %d", i)
	}

	for _, id := range g.NodeIDs() {
		idx := layerIdx(t, g, string(id))
		preds := g.PredNodes(id)
		if len(preds) == 0 {
			assert.Equal(t, 0, idx, "root %s must sit at layer 0", id)
		} else {
			maxPred := -1
			for _, p := range preds {
				pi := layerIdx(t, g, string(p))
				if pi > maxPred {
					maxPred = pi
				}
				assert.Less(t, pi, idx, "every predecessor must sit at a strictly lower layer")
			}
			assert.Equal(t, maxPred+1, idx, "layer must sit just above the highest predecessor")
		}
	}
}
