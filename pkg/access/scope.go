package access

// Scope is the visibility tier an actor holds over one subject kind.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeOwn
	ScopeArea
	ScopeAreaOwn
	ScopeAll
)

func (s Scope) String() string {
	switch s {
	case ScopeAll:
		return "all"
	case ScopeAreaOwn:
		return "area+own"
	case ScopeArea:
		return "area"
	case ScopeOwn:
		return "own"
	default:
		return "none"
	}
}

// PermissionNames binds one subject kind (tickets, incidents, accounts,
// certificates) to the flat permission names governing it. Each module declares
// its own instance next to its permission constants.
type PermissionNames struct {
	ManageAll string
	ViewArea  string
	ViewOwn   string

	Update       string
	ChangeStatus string
	Assign       string
	Escalate     string
	Comment      string
}

// manageClass returns the operational permissions whose presence makes an actor
// part of the staff workflow for the subject kind.
func (n PermissionNames) manageClass() []string {
	return []string{n.ChangeStatus, n.Assign, n.Escalate, n.Comment}
}

// ResolveScope computes the actor's visibility class for one subject kind.
// It is a pure function of the permission set and whether the actor belongs to
// an area; precedence is manage_all, then the area/own combinations.
func ResolveScope(perms PermissionSet, hasArea bool, names PermissionNames) Scope {
	if perms.Has(names.ManageAll) {
		return ScopeAll
	}
	viewArea := perms.Has(names.ViewArea) && hasArea
	viewOwn := perms.Has(names.ViewOwn)
	switch {
	case viewArea && viewOwn:
		return ScopeAreaOwn
	case viewArea:
		return ScopeArea
	case viewOwn:
		return ScopeOwn
	default:
		return ScopeNone
	}
}
