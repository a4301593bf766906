package pmap

// Set is a persistent set of strings, built on Map. The zero value is a
// valid empty set.
type Set struct {
	m Map[struct{}]
}

// NewSet builds a Set containing the given members.
func NewSet(members ...string) Set {
	var s Set
	for _, m := range members {
		s = s.Add(m)
	}
	return s
}

// Has reports whether key is a member.
func (s Set) Has(key string) bool {
	return s.m.Has(key)
}

// Len returns the number of members.
func (s Set) Len() int {
	return s.m.Len()
}

// Add returns a new Set with key added, leaving s untouched.
func (s Set) Add(key string) Set {
	return Set{m: s.m.Set(key, struct{}{})}
}

// Delete returns a new Set with key removed, leaving s untouched.
func (s Set) Delete(key string) Set {
	return Set{m: s.m.Delete(key)}
}

// Range calls fn for every member. Iteration order is unspecified.
func (s Set) Range(fn func(key string) bool) {
	s.m.Range(func(k string, _ struct{}) bool {
		return fn(k)
	})
}

// ToSlice returns all members in unspecified order.
func (s Set) ToSlice() []string {
	return s.m.Keys()
}

// Union returns a new Set containing the members of both sets.
func (s Set) Union(other Set) Set {
	out := s
	other.Range(func(k string) bool {
		out = out.Add(k)
		return true
	})
	return out
}
