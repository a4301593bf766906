package layerdag

import "github.com/meikuraledutech/layerdag/internal/pmap"

// updateLayers is the two-phase layer updater. Phase 1 pushes every
// dirty node (and its transitive successors) down to sit just below its
// highest predecessor. Phase 2 then pulls parents down toward their
// children, to sit just above their nearest successor (the one with the
// smallest index), tightening the layering. A final sweep
// compacts any layer phase 1/2 left empty (in particular, layers emptied
// by node removal with no cascading move to trigger compaction inline).
func updateLayers(es entityStore, adj adjacencyIndex, li layerIndex, dirty pmap.Set) layerIndex {
	li, phase2 := pushChildrenDown(es, adj, li, dirty)
	li = pullParentsUp(es, adj, li, phase2)
	return li.compactEmptyLayers()
}

// pushChildrenDown is Phase 1: a LIFO stack seeded with the dirty set.
// Popping a node recomputes its correct index from its predecessors; a
// move re-pushes its successors (who may now be too low) and remembers
// every one of its predecessors for Phase 2.
func pushChildrenDown(es entityStore, adj adjacencyIndex, li layerIndex, dirty pmap.Set) (layerIndex, pmap.Set) {
	stack := dirty.ToSlice()
	phase2 := pmap.NewSet(stack...)

	for len(stack) > 0 {
		idStr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		id := NodeID(idStr)

		if !es.hasNode(id) {
			continue
		}

		preds := predNodeIDs(es, adj, id)
		correctIndex := 0
		if len(preds) > 0 {
			maxIdx := -1
			for _, p := range preds {
				if pi := li.indexOfNode(p); pi > maxIdx {
					maxIdx = pi
				}
			}
			correctIndex = maxIdx + 1
		}

		if correctIndex != li.indexOfNode(id) {
			li = li.moveNode(id, correctIndex)
			for _, s := range succNodeIDs(es, adj, id) {
				stack = append(stack, string(s))
			}
			for _, p := range preds {
				phase2 = phase2.Add(string(p))
			}
		}
	}

	return li, phase2
}

// pullParentsUp is Phase 2: repeatedly take the node(s) currently sitting
// at the highest layer index among the pending set, and pull each down to
// just above its nearest successor (the one with the smallest index) if
// that's tighter than where it sits.
// Moving a node re-queues its own predecessors, since they may now sit
// needlessly far from their (just-moved) child.
func pullParentsUp(es entityStore, adj adjacencyIndex, li layerIndex, pending pmap.Set) layerIndex {
	for pending.Len() > 0 {
		buckets := map[int][]NodeID{}
		pending.Range(func(idStr string) bool {
			id := NodeID(idStr)
			if es.hasNode(id) {
				idx := li.indexOfNode(id)
				buckets[idx] = append(buckets[idx], id)
			}
			return true
		})
		if len(buckets) == 0 {
			break
		}

		maxIdx := -1
		for idx := range buckets {
			if idx > maxIdx {
				maxIdx = idx
			}
		}

		for _, id := range buckets[maxIdx] {
			pending = pending.Delete(string(id))

			succ := succNodeIDs(es, adj, id)
			if len(succ) == 0 {
				continue
			}
			minIdx := -1
			for _, c := range succ {
				if ci := li.indexOfNode(c); minIdx == -1 || ci < minIdx {
					minIdx = ci
				}
			}
			correctIndex := minIdx - 1
			if correctIndex >= 0 && correctIndex != li.indexOfNode(id) {
				li = li.moveNode(id, correctIndex)
				for _, p := range predNodeIDs(es, adj, id) {
					pending = pending.Add(string(p))
				}
			}
		}
	}
	return li
}
