package layerdag

import "github.com/meikuraledutech/layerdag/internal/pmap"

// applyChangeLog applies cl to the entity store and adjacency index in the
// fixed order (add nodes, remove nodes, add edges, remove edges) and
// returns the resulting state plus the dirty node set that drives the
// layer updater. On UnknownEndpointError the returned state is whatever
// was built so far; callers must discard it and keep the pre-batch graph.
func applyChangeLog(es entityStore, adj adjacencyIndex, li layerIndex, cl ChangeLog) (entityStore, adjacencyIndex, layerIndex, pmap.Set, error) {
	dirty := pmap.Set{}

	// 1. Add nodes: install, init adjacency, assign layer 0. Re-adding an
	// id already present overwrites its data (last-writer-wins, mirroring
	// the documented edge policy) without disturbing its existing
	// adjacency or layer assignment.
	for _, n := range cl.AddedNodes {
		isNew := !es.hasNode(n.ID)
		es = es.putNode(n)
		if isNew {
			adj = adj.initNode(n.ID)
			li = li.moveNode(n.ID, 0)
		}
		dirty = dirty.Add(string(n.ID))
	}

	// 2. Remove nodes: snapshot incident edges before removal and queue
	// them for step 4, so a removed node's neighbors still get marked
	// dirty through the normal edge-removal path.
	removedEdges := append([]EdgeID{}, cl.RemovedEdges...)
	for _, id := range cl.RemovedNodes {
		if !es.hasNode(id) {
			continue
		}
		incident := adj.predEdges(id).Union(adj.succEdges(id))
		incident.Range(func(eid string) bool {
			removedEdges = append(removedEdges, EdgeID(eid))
			return true
		})
		li = li.removeNodeFromLayer(id)
		es = es.deleteNode(id)
		adj = adj.removeNode(id)
	}

	// 3. Add edges: validate endpoints, register, link adjacency.
	for _, e := range cl.AddedEdges {
		if !es.hasNode(e.SourceID) {
			return es, adj, li, dirty, &UnknownEndpointError{EdgeID: e.ID, NodeID: e.SourceID, Endpoint: "source"}
		}
		if !es.hasNode(e.TargetID) {
			return es, adj, li, dirty, &UnknownEndpointError{EdgeID: e.ID, NodeID: e.TargetID, Endpoint: "target"}
		}
		es = es.putEdge(e)
		adj = adj.addEdge(e)
		dirty = dirty.Add(string(e.TargetID))
	}

	// 4. Remove edges: mirror of add; missing edges are tolerated.
	for _, id := range removedEdges {
		e, ok := es.getEdge(id)
		if !ok {
			continue
		}
		es = es.deleteEdge(id)
		adj = adj.removeEdge(e)
		dirty = dirty.Add(string(e.TargetID))
	}

	return es, adj, li, dirty, nil
}
