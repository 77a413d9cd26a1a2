// Package kv implements the persisted configuration: an ordered set of
// key-value pairs stored one "key = value" pair per line.
//
// Order is significant. Updating an existing key keeps its position and new
// keys are appended at the end, so rewriting a file after a change produces
// a minimal textual diff.
package kv

// Pair is a single configuration assignment.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Set is an order-preserving mapping from option identifier to raw value.
// The zero value is an empty set ready to use.
type Set struct {
	pairs []Pair
	index map[string]int
}

// New creates a set from pairs. Later pairs update earlier ones with the
// same key.
func New(pairs ...Pair) *Set {
	s := &Set{}
	for _, p := range pairs {
		s.Set(p.Key, p.Value)
	}
	return s
}

// Len returns the number of keys.
func (s *Set) Len() int {
	return len(s.pairs)
}

// Get returns the value for key.
func (s *Set) Get(key string) (string, bool) {
	i, ok := s.index[key]
	if !ok {
		return "", false
	}
	return s.pairs[i].Value, true
}

// Has reports whether key is present.
func (s *Set) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Set updates key in place if present and appends it otherwise.
func (s *Set) Set(key, value string) {
	if i, ok := s.index[key]; ok {
		s.pairs[i].Value = value
		return
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[key] = len(s.pairs)
	s.pairs = append(s.pairs, Pair{Key: key, Value: value})
}

// Delete removes key, preserving the order of the remaining pairs.
// It reports whether the key was present.
func (s *Set) Delete(key string) bool {
	i, ok := s.index[key]
	if !ok {
		return false
	}
	s.pairs = append(s.pairs[:i], s.pairs[i+1:]...)
	delete(s.index, key)
	for j := i; j < len(s.pairs); j++ {
		s.index[s.pairs[j].Key] = j
	}
	return true
}

// Keys returns all keys in order.
func (s *Set) Keys() []string {
	keys := make([]string, len(s.pairs))
	for i, p := range s.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Pairs returns a copy of all pairs in order.
func (s *Set) Pairs() []Pair {
	return append([]Pair(nil), s.pairs...)
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	c := &Set{
		pairs: append([]Pair(nil), s.pairs...),
		index: make(map[string]int, len(s.index)),
	}
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}

// Equal reports whether both sets hold the same pairs in the same order.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := range s.pairs {
		if s.pairs[i] != other.pairs[i] {
			return false
		}
	}
	return true
}
