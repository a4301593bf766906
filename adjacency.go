package layerdag

import "github.com/meikuraledutech/layerdag/internal/pmap"

// adjacencyIndex holds the incoming (pred) and outgoing (succ) edge-id sets
// for every node.
type adjacencyIndex struct {
	pred pmap.Map[pmap.Set] // NodeID -> set<EdgeID>
	succ pmap.Map[pmap.Set] // NodeID -> set<EdgeID>
}

func (a adjacencyIndex) predEdges(id NodeID) pmap.Set {
	s, _ := a.pred.Get(string(id))
	return s
}

func (a adjacencyIndex) succEdges(id NodeID) pmap.Set {
	s, _ := a.succ.Get(string(id))
	return s
}

func (a adjacencyIndex) initNode(id NodeID) adjacencyIndex {
	if !a.pred.Has(string(id)) {
		a.pred = a.pred.Set(string(id), pmap.Set{})
	}
	if !a.succ.Has(string(id)) {
		a.succ = a.succ.Set(string(id), pmap.Set{})
	}
	return a
}

func (a adjacencyIndex) removeNode(id NodeID) adjacencyIndex {
	a.pred = a.pred.Delete(string(id))
	a.succ = a.succ.Delete(string(id))
	return a
}

func (a adjacencyIndex) addEdge(e Edge) adjacencyIndex {
	a = a.initNode(e.SourceID)
	a = a.initNode(e.TargetID)
	a.succ = a.succ.Set(string(e.SourceID), a.succEdges(e.SourceID).Add(string(e.ID)))
	a.pred = a.pred.Set(string(e.TargetID), a.predEdges(e.TargetID).Add(string(e.ID)))
	return a
}

func (a adjacencyIndex) removeEdge(e Edge) adjacencyIndex {
	a.succ = a.succ.Set(string(e.SourceID), a.succEdges(e.SourceID).Delete(string(e.ID)))
	a.pred = a.pred.Set(string(e.TargetID), a.predEdges(e.TargetID).Delete(string(e.ID)))
	return a
}

// predNodeIDs resolves predEdges(id) to the source node of each edge.
func predNodeIDs(es entityStore, adj adjacencyIndex, id NodeID) []NodeID {
	var out []NodeID
	adj.predEdges(id).Range(func(eidStr string) bool {
		if e, ok := es.getEdge(EdgeID(eidStr)); ok {
			out = append(out, e.SourceID)
		}
		return true
	})
	return out
}

// succNodeIDs resolves succEdges(id) to the target node of each edge.
func succNodeIDs(es entityStore, adj adjacencyIndex, id NodeID) []NodeID {
	var out []NodeID
	adj.succEdges(id).Range(func(eidStr string) bool {
		if e, ok := es.getEdge(EdgeID(eidStr)); ok {
			out = append(out, e.TargetID)
		}
		return true
	})
	return out
}
