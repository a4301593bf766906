package layerdag

import "sort"

// detectCycle runs a hybrid check: a fast incremental probe when the batch
// is small relative to the graph, a full three-colour DFS otherwise. It is
// called with the state *after* applyChangeLog but *before* the layer
// updater runs, against whichever layer assignment commit started with
// (plus layer-0 for brand-new nodes).
func detectCycle(es entityStore, adj adjacencyIndex, li layerIndex, cl ChangeLog) ([]NodeID, bool) {
	n := es.numNodes()
	c := len(cl.AddedNodes) + len(cl.AddedEdges)

	if n < 20 || float64(c)/float64(n) > 0.2 {
		return fullDetectCycle(es, adj)
	}
	return incrementalDetectCycle(es, adj, li, cl.AddedEdges)
}

// fullDetectCycle is a three-colour DFS over succNodes from every white
// node, stopping at the first back edge found.
func fullDetectCycle(es entityStore, adj adjacencyIndex) ([]NodeID, bool) {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[NodeID]int, es.numNodes())
	parent := make(map[NodeID]NodeID, es.numNodes())

	var cycle []NodeID
	found := false

	var dfs func(u NodeID) bool
	dfs = func(u NodeID) bool {
		color[u] = gray
		stop := false
		adj.succEdges(u).Range(func(eidStr string) bool {
			e, ok := es.getEdge(EdgeID(eidStr))
			if !ok {
				return true
			}
			v := e.TargetID
			switch color[v] {
			case gray:
				cycle = reconstructDFSCycle(parent, v, u)
				found = true
				stop = true
				return false
			case white:
				parent[v] = u
				if dfs(v) {
					stop = true
					return false
				}
			}
			return true
		})
		if !stop {
			color[u] = black
		}
		return stop
	}

	ids := es.nodes.Keys()
	sort.Strings(ids)
	for _, idStr := range ids {
		id := NodeID(idStr)
		if color[id] == white {
			if dfs(id) {
				break
			}
		}
	}
	return cycle, found
}

// reconstructDFSCycle walks parent pointers from end up to start
// (inclusive of start at both endpoints, reversed so traversal order is
// source→…→source).
func reconstructDFSCycle(parent map[NodeID]NodeID, start, end NodeID) []NodeID {
	path := []NodeID{end}
	cur := end
	for cur != start {
		cur = parent[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return append(path, start)
}

// incrementalDetectCycle exploits the pre-batch layer assignment: an added
// edge u→v that already respects the known order (layerOf(u) < layerOf(v))
// cannot itself close a cycle. Otherwise it checks whether v can already
// reach u; if so, the new edge closes the loop u→v→…→u.
func incrementalDetectCycle(es entityStore, adj adjacencyIndex, li layerIndex, addedEdges []Edge) ([]NodeID, bool) {
	for _, e := range addedEdges {
		u, v := e.SourceID, e.TargetID
		uIdx, vIdx := li.indexOfNode(u), li.indexOfNode(v)
		if uIdx >= 0 && vIdx >= 0 && uIdx < vIdx {
			continue
		}
		if path, ok := bfsPath(es, adj, v, u); ok {
			cycle := make([]NodeID, 0, len(path)+1)
			cycle = append(cycle, u)
			cycle = append(cycle, path...)
			return cycle, true
		}
	}
	return nil, false
}

// bfsPath returns the forward node path from→…→to (inclusive of both
// ends) along succNodes, or ok=false if to is unreachable from from.
func bfsPath(es entityStore, adj adjacencyIndex, from, to NodeID) ([]NodeID, bool) {
	if from == to {
		return []NodeID{from}, true
	}

	visited := map[NodeID]bool{from: true}
	parent := map[NodeID]NodeID{}
	queue := []NodeID{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		hit := false
		adj.succEdges(cur).Range(func(eidStr string) bool {
			e, ok := es.getEdge(EdgeID(eidStr))
			if !ok {
				return true
			}
			next := e.TargetID
			if visited[next] {
				return true
			}
			visited[next] = true
			parent[next] = cur
			if next == to {
				hit = true
				return false
			}
			queue = append(queue, next)
			return true
		})
		if hit {
			path := []NodeID{to}
			c := to
			for c != from {
				c = parent[c]
				path = append(path, c)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, true
		}
	}
	return nil, false
}
