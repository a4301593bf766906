package layerdag

// ChangeLog is the set of pending additions/removals accumulated for one
// batch. Order within each list follows insertion order into the Mutator
// that built it.
type ChangeLog struct {
	AddedNodes   []Node
	RemovedNodes []NodeID
	AddedEdges   []Edge
	RemovedEdges []EdgeID
}

func (c ChangeLog) isEmpty() bool {
	return len(c.AddedNodes) == 0 && len(c.RemovedNodes) == 0 &&
		len(c.AddedEdges) == 0 && len(c.RemovedEdges) == 0
}

// Mutator is a pure accumulator handed to the callback passed to
// Graph.WithMutations. It performs no validation — every semantic check
// (unknown endpoints, cycles) is deferred to commit.
type Mutator struct {
	log ChangeLog
}

// AddNode enqueues a node to be added. If id already exists in the graph,
// last-writer-wins: the node's data is overwritten in place at commit
// (see DESIGN.md's Open Question resolution — applied symmetrically with
// the documented edge overwrite policy).
func (m *Mutator) AddNode(n Node) {
	m.log.AddedNodes = append(m.log.AddedNodes, n)
}

// AddNodes enqueues multiple nodes, preserving the given order.
func (m *Mutator) AddNodes(nodes []Node) {
	m.log.AddedNodes = append(m.log.AddedNodes, nodes...)
}

// RemoveNode enqueues a node id for removal. Removing an absent
// node is a no-op at commit.
func (m *Mutator) RemoveNode(node NodeID) {
	m.log.RemovedNodes = append(m.log.RemovedNodes, node)
}

// RemoveNodeByID normalises a bare string to a NodeID removal, equivalent
// to RemoveNode(NodeID(id)).
func (m *Mutator) RemoveNodeByID(id string) {
	m.RemoveNode(NodeID(id))
}

// RemoveNodes enqueues multiple node ids for removal.
func (m *Mutator) RemoveNodes(ids []NodeID) {
	m.log.RemovedNodes = append(m.log.RemovedNodes, ids...)
}

// AddEdge enqueues an edge to be added. Its id is computed deterministically
// from its endpoints and ports; an edge added with an id that already
// exists overwrites the prior edge at commit.
func (m *Mutator) AddEdge(e Edge) {
	e.ID = edgeID(e.SourceID, e.SourcePort, e.TargetID, e.TargetPort)
	m.log.AddedEdges = append(m.log.AddedEdges, e)
}

// AddEdges enqueues multiple edges, preserving the given order.
func (m *Mutator) AddEdges(edges []Edge) {
	for _, e := range edges {
		m.AddEdge(e)
	}
}

// RemoveEdge enqueues an edge id for removal. Removing an absent edge is a
// no-op at commit.
func (m *Mutator) RemoveEdge(id EdgeID) {
	m.log.RemovedEdges = append(m.log.RemovedEdges, id)
}

// RemoveEdges enqueues multiple edge ids for removal.
func (m *Mutator) RemoveEdges(ids []EdgeID) {
	m.log.RemovedEdges = append(m.log.RemovedEdges, ids...)
}
