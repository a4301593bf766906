package layerdag

import (
	"github.com/google/uuid"
	"github.com/meikuraledutech/layerdag/internal/pmap"
)

// layerRecord is the internal representation of a Layer: index is
// positional (renumbered on compaction), id is stable across compactions.
type layerRecord struct {
	id    LayerID
	index int
	nodes pmap.Set
}

// layerIndex is the persistent layerId->Layer map, the ordered list of
// layer ids (position = current index), and the NodeID->LayerID map.
type layerIndex struct {
	layers    pmap.Map[layerRecord]
	list      []LayerID
	nodeLayer pmap.Map[LayerID]
}

func (li layerIndex) layerOf(id NodeID) (LayerID, bool) {
	return li.nodeLayer.Get(string(id))
}

func (li layerIndex) indexOf(id LayerID) (int, bool) {
	rec, ok := li.layers.Get(string(id))
	if !ok {
		return 0, false
	}
	return rec.index, true
}

// indexOfNode returns the positional layer index of a node, or -1 if the
// node has no layer assignment.
func (li layerIndex) indexOfNode(id NodeID) int {
	layerID, ok := li.layerOf(id)
	if !ok {
		return -1
	}
	idx, _ := li.indexOf(layerID)
	return idx
}

func (li layerIndex) numLayers() int {
	return len(li.list)
}

// layerByIndex appends freshly allocated layers until index i exists, then
// returns the updated index plus the (now-existing) layer id at i.
func (li layerIndex) layerByIndex(i int) (layerIndex, LayerID) {
	for len(li.list) <= i {
		id := LayerID(uuid.NewString())
		rec := layerRecord{id: id, index: len(li.list), nodes: pmap.Set{}}
		li.layers = li.layers.Set(string(id), rec)

		newList := make([]LayerID, len(li.list)+1)
		copy(newList, li.list)
		newList[len(li.list)] = id
		li.list = newList
	}
	return li, li.list[i]
}

// moveNode removes id from its current layer's node set (if assigned),
// ensures a layer exists at targetIndex, inserts id there, and only then
// checks whether the vacated source layer is now empty — compacting it out
// of layers/list (and renumbering everything after it) if so. Resolving
// the target index before compacting the source matches the order in
// which callers computed targetIndex (against the pre-move layer shape).
func (li layerIndex) moveNode(id NodeID, targetIndex int) layerIndex {
	curLayerID, hadCur := li.nodeLayer.Get(string(id))
	if hadCur {
		li = li.removeFromLayerSet(curLayerID, id)
	}

	li, targetLayerID := li.layerByIndex(targetIndex)
	li = li.addToLayer(targetLayerID, id)
	li.nodeLayer = li.nodeLayer.Set(string(id), targetLayerID)

	if hadCur {
		li = li.compactIfEmpty(curLayerID)
	}
	return li
}

func (li layerIndex) addToLayer(id LayerID, node NodeID) layerIndex {
	rec, ok := li.layers.Get(string(id))
	if !ok {
		return li
	}
	rec.nodes = rec.nodes.Add(string(node))
	li.layers = li.layers.Set(string(id), rec)
	return li
}

// removeFromLayerSet removes node from id's node set without compacting,
// even if the set becomes empty. Compaction is the caller's decision,
// taken after it has finished any insertion that depends on the
// pre-compaction layer shape.
func (li layerIndex) removeFromLayerSet(id LayerID, node NodeID) layerIndex {
	rec, ok := li.layers.Get(string(id))
	if !ok {
		return li
	}
	rec.nodes = rec.nodes.Delete(string(node))
	li.layers = li.layers.Set(string(id), rec)
	return li
}

func (li layerIndex) compactIfEmpty(id LayerID) layerIndex {
	rec, ok := li.layers.Get(string(id))
	if !ok || rec.nodes.Len() > 0 {
		return li
	}
	return li.deleteLayer(id)
}

// deleteLayer removes an empty layer and renumbers every remaining layer's
// index to match its new position, preserving contiguity of {0,...,L-1}.
func (li layerIndex) deleteLayer(id LayerID) layerIndex {
	if _, ok := li.layers.Get(string(id)); !ok {
		return li
	}
	li.layers = li.layers.Delete(string(id))

	newList := make([]LayerID, 0, len(li.list)-1)
	for _, lid := range li.list {
		if lid != id {
			newList = append(newList, lid)
		}
	}
	li.list = newList

	for i, lid := range li.list {
		rec, _ := li.layers.Get(string(lid))
		if rec.index != i {
			rec.index = i
			li.layers = li.layers.Set(string(lid), rec)
		}
	}
	return li
}

// removeNodeFromLayer is used by the mutation engine when a node is
// deleted outright. Emptying a layer here does not trigger compaction —
// that is deferred to the layer updater, which may still need the
// pre-compaction layer shape to compute dirty nodes' correct indices.
func (li layerIndex) removeNodeFromLayer(id NodeID) layerIndex {
	curLayerID, ok := li.nodeLayer.Get(string(id))
	if !ok {
		return li
	}
	li = li.removeFromLayerSet(curLayerID, id)
	li.nodeLayer = li.nodeLayer.Delete(string(id))
	return li
}

// compactEmptyLayers removes every currently-empty layer from layers/list
// and renumbers the rest so indices stay contiguous. A node removal can
// leave its layer empty without any subsequent moveNode ever touching
// that layer (no dirty neighbor needed to relocate), so the engine runs
// this once per commit after the layer updater finishes, to restore
// invariant 4 unconditionally.
func (li layerIndex) compactEmptyLayers() layerIndex {
	newList := make([]LayerID, 0, len(li.list))
	for _, lid := range li.list {
		rec, ok := li.layers.Get(string(lid))
		if !ok {
			continue
		}
		if rec.nodes.Len() == 0 {
			li.layers = li.layers.Delete(string(lid))
			continue
		}
		newList = append(newList, lid)
	}
	li.list = newList

	for i, lid := range li.list {
		rec, _ := li.layers.Get(string(lid))
		if rec.index != i {
			rec.index = i
			li.layers = li.layers.Set(string(lid), rec)
		}
	}
	return li
}

func (li layerIndex) toPublicLayer(id LayerID) (Layer, bool) {
	rec, ok := li.layers.Get(string(id))
	if !ok {
		return Layer{}, false
	}
	nodeStrs := rec.nodes.ToSlice()
	nodes := make([]NodeID, len(nodeStrs))
	for i, s := range nodeStrs {
		nodes[i] = NodeID(s)
	}
	return Layer{ID: rec.id, Index: rec.index, Nodes: nodes}, true
}
