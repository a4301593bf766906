package layerdag

import (
	"sort"
	"strconv"
)

// Graph is an immutable, persistent DAG. Every mutation returns a new
// Graph value that shares unchanged structure with its predecessor; prior
// is a weak back reference for that version chain and is never read
// through by the algorithms on the new version.
type Graph struct {
	entity entityStore
	adj    adjacencyIndex
	layers layerIndex
	prior  *Graph
}

// NewGraphOptions configures Graph construction. Prior establishes
// structural sharing with an existing version; Nodes/Edges seed a first
// batch committed immediately on top of it.
type NewGraphOptions struct {
	Prior *Graph
	Nodes []Node
	Edges []Edge
}

// NewGraph builds a Graph per opts. If both Nodes and Edges are empty and
// Prior is set, the result is a fresh version on top of Prior with no
// content changes.
func NewGraph(opts NewGraphOptions) (*Graph, error) {
	base := opts.Prior
	if base == nil {
		base = &Graph{}
	}
	return base.WithMutations(func(m *Mutator) {
		m.AddNodes(opts.Nodes)
		m.AddEdges(opts.Edges)
	})
}

// Prior returns the Graph version this one was committed on top of, or
// nil if this is the first version.
func (g *Graph) Prior() *Graph {
	return g.prior
}

// WithMutations hands fn a Mutator to accumulate a batch, then commits it.
// On a CycleDetected or UnknownEndpoint error, g is returned unchanged
// alongside the error — the partially-built version is discarded.
func (g *Graph) WithMutations(fn func(m *Mutator)) (*Graph, error) {
	m := &Mutator{}
	fn(m)
	return g.commit(m.log)
}

func (g *Graph) commit(cl ChangeLog) (*Graph, error) {
	es, adj, li, dirty, err := applyChangeLog(g.entity, g.adj, g.layers, cl)
	if err != nil {
		return g, err
	}
	if cycle, found := detectCycle(es, adj, li, cl); found {
		return g, &CycleError{Cycle: cycle}
	}
	li = updateLayers(es, adj, li, dirty)
	return &Graph{entity: es, adj: adj, layers: li, prior: g}, nil
}

// AddNode commits a batch of one node addition.
func (g *Graph) AddNode(n Node) (*Graph, error) {
	return g.WithMutations(func(m *Mutator) { m.AddNode(n) })
}

// AddNodes commits a batch adding every node, in order.
func (g *Graph) AddNodes(nodes []Node) (*Graph, error) {
	return g.WithMutations(func(m *Mutator) { m.AddNodes(nodes) })
}

// RemoveNode commits a batch of one node removal. Removing an absent node
// is a no-op (still produces a new, observationally-unchanged version).
func (g *Graph) RemoveNode(id NodeID) (*Graph, error) {
	return g.WithMutations(func(m *Mutator) { m.RemoveNode(id) })
}

// RemoveNodeByID is RemoveNode(NodeID(id)) — removal by string id is
// equivalent to removal by {id: s}.
func (g *Graph) RemoveNodeByID(id string) (*Graph, error) {
	return g.RemoveNode(NodeID(id))
}

// RemoveNodes commits a batch removing every listed node id.
func (g *Graph) RemoveNodes(ids []NodeID) (*Graph, error) {
	return g.WithMutations(func(m *Mutator) { m.RemoveNodes(ids) })
}

// AddEdge commits a batch of one edge addition.
func (g *Graph) AddEdge(e Edge) (*Graph, error) {
	return g.WithMutations(func(m *Mutator) { m.AddEdge(e) })
}

// AddEdges commits a batch adding every edge, in order.
func (g *Graph) AddEdges(edges []Edge) (*Graph, error) {
	return g.WithMutations(func(m *Mutator) { m.AddEdges(edges) })
}

// RemoveEdge commits a batch of one edge removal. Removing an absent edge
// is a no-op.
func (g *Graph) RemoveEdge(id EdgeID) (*Graph, error) {
	return g.WithMutations(func(m *Mutator) { m.RemoveEdge(id) })
}

// RemoveEdges commits a batch removing every listed edge id.
func (g *Graph) RemoveEdges(ids []EdgeID) (*Graph, error) {
	return g.WithMutations(func(m *Mutator) { m.RemoveEdges(ids) })
}

// --- pure queries ---

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return g.entity.numNodes() == 0
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int {
	return g.entity.numNodes()
}

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int {
	return g.entity.numEdges()
}

// NodeIDs returns every node id, sorted lexicographically.
func (g *Graph) NodeIDs() []NodeID {
	strs := g.entity.nodes.Keys()
	sort.Strings(strs)
	out := make([]NodeID, len(strs))
	for i, s := range strs {
		out[i] = NodeID(s)
	}
	return out
}

// Nodes returns every node, ordered by NodeIDs.
func (g *Graph) Nodes() []Node {
	ids := g.NodeIDs()
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := g.entity.getNode(id); ok {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns every edge in unspecified order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.entity.numEdges())
	g.entity.edges.Range(func(_ string, e Edge) bool {
		out = append(out, e)
		return true
	})
	return out
}

// GetNode returns the node with the given id, if present.
func (g *Graph) GetNode(id NodeID) (Node, bool) {
	return g.entity.getNode(id)
}

// GetEdge returns the edge with the given id, if present.
func (g *Graph) GetEdge(id EdgeID) (Edge, bool) {
	return g.entity.getEdge(id)
}

// HasNode reports whether id is present.
func (g *Graph) HasNode(id NodeID) bool {
	return g.entity.hasNode(id)
}

// HasEdge reports whether id is present.
func (g *Graph) HasEdge(id EdgeID) bool {
	return g.entity.hasEdge(id)
}

// PredNodes returns the source node of every incoming edge of id.
func (g *Graph) PredNodes(id NodeID) []NodeID {
	return predNodeIDs(g.entity, g.adj, id)
}

// SuccNodes returns the target node of every outgoing edge of id.
func (g *Graph) SuccNodes(id NodeID) []NodeID {
	return succNodeIDs(g.entity, g.adj, id)
}

// PredEdges returns the ids of every incoming edge of id.
func (g *Graph) PredEdges(id NodeID) []EdgeID {
	strs := g.adj.predEdges(id).ToSlice()
	out := make([]EdgeID, len(strs))
	for i, s := range strs {
		out[i] = EdgeID(s)
	}
	return out
}

// SuccEdges returns the ids of every outgoing edge of id.
func (g *Graph) SuccEdges(id NodeID) []EdgeID {
	strs := g.adj.succEdges(id).ToSlice()
	out := make([]EdgeID, len(strs))
	for i, s := range strs {
		out[i] = EdgeID(s)
	}
	return out
}

// LayerOf returns the layer id assigned to id, or ok=false if id is not a
// node of this graph — consistent with HasNode.
func (g *Graph) LayerOf(id NodeID) (LayerID, bool) {
	return g.layers.layerOf(id)
}

// Layers returns every layer, keyed by LayerID. Exposed for tests and
// tooling that need to observe the layer index directly.
func (g *Graph) Layers() map[LayerID]Layer {
	out := make(map[LayerID]Layer, g.layers.numLayers())
	for _, id := range g.layers.list {
		if layer, ok := g.layers.toPublicLayer(id); ok {
			out[id] = layer
		}
	}
	return out
}

// LayerList returns layer ids ordered by current index (position = index).
func (g *Graph) LayerList() []LayerID {
	out := make([]LayerID, len(g.layers.list))
	copy(out, g.layers.list)
	return out
}

// LayerMap returns the NodeID->LayerID assignment for every node.
func (g *Graph) LayerMap() map[NodeID]LayerID {
	out := make(map[NodeID]LayerID, g.entity.numNodes())
	g.layers.nodeLayer.Range(func(k string, v LayerID) bool {
		out[NodeID(k)] = v
		return true
	})
	return out
}

// String is a compact debug summary, e.g. "Graph{nodes=3 edges=2 layers=3}".
func (g *Graph) String() string {
	return "Graph{nodes=" + strconv.Itoa(g.NumNodes()) +
		" edges=" + strconv.Itoa(g.NumEdges()) +
		" layers=" + strconv.Itoa(g.layers.numLayers()) + "}"
}
