package access

// Actor is the minimal identity view the access functions need.
type Actor struct {
	ID     uint
	AreaID *uint
}

func (a Actor) HasArea() bool {
	return a.AreaID != nil
}

// SubjectView carries the routing fields of one subject record. GrantedAreaIDs
// lists historical area-access grants, letting a former owning area keep
// visibility after escalation.
type SubjectView struct {
	RequesterID    uint
	CurrentAreaID  *uint
	AssigneeID     *uint
	GrantedAreaIDs []uint
	StateFinal     bool
}

// Filter is the read-side predicate derived from a resolved scope. It never
// mutates anything; repositories translate it into SQL before pagination and
// sorting, and Match gives the equivalent in-memory answer.
type Filter struct {
	Scope   Scope
	ActorID uint
	AreaID  *uint
}

// FilterFor builds the record predicate for an actor under a resolved scope.
func FilterFor(scope Scope, actor Actor) Filter {
	return Filter{Scope: scope, ActorID: actor.ID, AreaID: actor.AreaID}
}

// Match reports whether the subject is visible under the filter.
func (f Filter) Match(s SubjectView) bool {
	switch f.Scope {
	case ScopeAll:
		return true
	case ScopeArea:
		return f.areaMatch(s)
	case ScopeAreaOwn:
		return f.areaMatch(s) || s.RequesterID == f.ActorID
	case ScopeOwn:
		return s.RequesterID == f.ActorID
	default:
		return false
	}
}

func (f Filter) areaMatch(s SubjectView) bool {
	if f.AreaID == nil {
		return false
	}
	if s.CurrentAreaID != nil && *s.CurrentAreaID == *f.AreaID {
		return true
	}
	for _, granted := range s.GrantedAreaIDs {
		if granted == *f.AreaID {
			return true
		}
	}
	return false
}
