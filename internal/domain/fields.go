package domain

import "sort"

// FieldSet is a statically declared set of client-mutable field names.
type FieldSet map[string]struct{}

// NewFieldSet builds a FieldSet from names.
func NewFieldSet(names ...string) FieldSet {
	s := make(FieldSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set.
func (s FieldSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Unknown returns, sorted, every name not in the set.
func (s FieldSet) Unknown(names []string) []string {
	var out []string
	for _, n := range names {
		if !s.Contains(n) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Mutable fields accepted by profile and task updates.
var (
	UserMutableFields = NewFieldSet("name", "email", "age", "password")
	TaskMutableFields = NewFieldSet("description", "completed")
)
