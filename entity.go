package layerdag

import "github.com/meikuraledutech/layerdag/internal/pmap"

// entityStore holds the node and edge records for one graph version.
type entityStore struct {
	nodes pmap.Map[Node]
	edges pmap.Map[Edge]
}

func (s entityStore) getNode(id NodeID) (Node, bool) {
	n, ok := s.nodes.Get(string(id))
	return n, ok
}

func (s entityStore) hasNode(id NodeID) bool {
	return s.nodes.Has(string(id))
}

func (s entityStore) putNode(n Node) entityStore {
	s.nodes = s.nodes.Set(string(n.ID), n)
	return s
}

func (s entityStore) deleteNode(id NodeID) entityStore {
	s.nodes = s.nodes.Delete(string(id))
	return s
}

func (s entityStore) getEdge(id EdgeID) (Edge, bool) {
	e, ok := s.edges.Get(string(id))
	return e, ok
}

func (s entityStore) hasEdge(id EdgeID) bool {
	return s.edges.Has(string(id))
}

func (s entityStore) putEdge(e Edge) entityStore {
	s.edges = s.edges.Set(string(e.ID), e)
	return s
}

func (s entityStore) deleteEdge(id EdgeID) entityStore {
	s.edges = s.edges.Delete(string(id))
	return s
}

func (s entityStore) numNodes() int {
	return s.nodes.Len()
}

func (s entityStore) numEdges() int {
	return s.edges.Len()
}
