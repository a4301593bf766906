// Package pmap implements small persistent, string-keyed associative
// containers used throughout layerdag's indices.
//
// There is no hash-array-mapped-trie (or similar structural-sharing)
// library anywhere in this module's dependency set, so Map and Set fall
// back to the alternative the design explicitly allows: copy-on-write with
// a small-map optimisation. Keys are sharded into a fixed number of
// buckets; a write only copies the bucket it touches, so two versions of a
// Map still share every bucket neither of them wrote to.
package pmap

import "hash/maphash"

const numBuckets = 32

var seed = maphash.MakeSeed()

func bucketOf(key string) int {
	var h maphash.Hash
	h.SetSeed(seed)
	h.WriteString(key)
	return int(h.Sum64() % uint64(numBuckets))
}

// Map is a persistent map from string keys to values of type V. The zero
// value is a valid empty map.
type Map[V any] struct {
	buckets [numBuckets]map[string]V
	size    int
}

// Get returns the value stored under key, if any.
func (m Map[V]) Get(key string) (V, bool) {
	b := m.buckets[bucketOf(key)]
	if b == nil {
		var zero V
		return zero, false
	}
	v, ok := b[key]
	return v, ok
}

// Has reports whether key is present.
func (m Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries.
func (m Map[V]) Len() int {
	return m.size
}

// Set returns a new Map with key bound to value, leaving m untouched.
func (m Map[V]) Set(key string, value V) Map[V] {
	idx := bucketOf(key)
	out := m
	newBucket := copyBucket(m.buckets[idx])
	_, existed := newBucket[key]
	newBucket[key] = value
	out.buckets[idx] = newBucket
	if !existed {
		out.size = m.size + 1
	}
	return out
}

// Delete returns a new Map with key removed, leaving m untouched. Deleting
// an absent key returns a Map equal in content to m.
func (m Map[V]) Delete(key string) Map[V] {
	idx := bucketOf(key)
	b := m.buckets[idx]
	if b == nil {
		return m
	}
	if _, ok := b[key]; !ok {
		return m
	}
	out := m
	newBucket := copyBucket(b)
	delete(newBucket, key)
	out.buckets[idx] = newBucket
	out.size = m.size - 1
	return out
}

// Range calls fn for every entry. Iteration order is unspecified. Range
// stops early if fn returns false.
func (m Map[V]) Range(fn func(key string, value V) bool) {
	for _, b := range m.buckets {
		for k, v := range b {
			if !fn(k, v) {
				return
			}
		}
	}
}

// Keys returns all keys in unspecified order.
func (m Map[V]) Keys() []string {
	keys := make([]string, 0, m.size)
	m.Range(func(k string, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

func copyBucket[V any](b map[string]V) map[string]V {
	out := make(map[string]V, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	return out
}
