package pmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSetGetImmutable(t *testing.T) {
	m0 := Map[int]{}
	m1 := m0.Set("a", 1)
	m2 := m1.Set("b", 2)

	_, ok := m0.Get("a")
	assert.False(t, ok, "m0 must not observe writes made to derived maps")

	v, ok := m1.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = m1.Get("b")
	assert.False(t, ok, "m1 must not observe writes made after it was derived")

	v, ok = m2.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	assert.Equal(t, 0, m0.Len())
	assert.Equal(t, 1, m1.Len())
	assert.Equal(t, 2, m2.Len())
}

func TestMapSetOverwriteKeepsSize(t *testing.T) {
	m := Map[int]{}.Set("a", 1)
	m2 := m.Set("a", 2)

	assert.Equal(t, 1, m2.Len())
	v, ok := m2.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestMapDelete(t *testing.T) {
	m := Map[int]{}.Set("a", 1).Set("b", 2)
	m2 := m.Delete("a")

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 1, m2.Len())
	assert.False(t, m2.Has("a"))
	assert.True(t, m.Has("a"), "deleting from a derived map must not mutate the original")
}

func TestMapDeleteAbsentIsNoop(t *testing.T) {
	m := Map[int]{}.Set("a", 1)
	m2 := m.Delete("missing")
	assert.Equal(t, m.Len(), m2.Len())
}

func TestMapRangeVisitsAll(t *testing.T) {
	m := Map[int]{}
	want := map[string]int{}
	for i := 0; i < 100; i++ {
		k := randomKey(i)
		m = m.Set(k, i)
		want[k] = i
	}

	got := map[string]int{}
	m.Range(func(k string, v int) bool {
		got[k] = v
		return true
	})
	assert.Equal(t, want, got)
}

func TestSetOperations(t *testing.T) {
	s := NewSet("a", "b")
	assert.True(t, s.Has("a"))
	assert.True(t, s.Has("b"))
	assert.False(t, s.Has("c"))
	assert.Equal(t, 2, s.Len())

	s2 := s.Add("c")
	assert.Equal(t, 2, s.Len(), "Add must not mutate the receiver")
	assert.Equal(t, 3, s2.Len())

	s3 := s2.Delete("a")
	assert.False(t, s3.Has("a"))
	assert.True(t, s2.Has("a"))

	u := NewSet("x", "y").Union(NewSet("y", "z"))
	assert.ElementsMatch(t, []string{"x", "y", "z"}, u.ToSlice())
}

func randomKey(i int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	return string(alphabet[i%len(alphabet)]) + string(alphabet[(i/len(alphabet))%len(alphabet)])
}
