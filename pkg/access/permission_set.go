package access

import "sort"

// PermissionSet is the effective set of flat permission names an actor holds,
// the union of direct grants and role-derived grants. It is materialized once
// per request and passed into the pure resolution functions below, so access
// decisions never reach back into a store mid-check.
type PermissionSet map[string]struct{}

func NewPermissionSet(names ...string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

func (s PermissionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s PermissionSet) HasAny(names ...string) bool {
	for _, name := range names {
		if s.Has(name) {
			return true
		}
	}
	return false
}

// Names returns the sorted permission names, used for logging and tests.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
