package access

// Action is a mutating workflow operation on a subject.
type Action string

const (
	ActionUpdate       Action = "update"
	ActionChangeStatus Action = "change_status"
	ActionAssign       Action = "assign"
	ActionEscalate     Action = "escalate"
	ActionComment      Action = "comment"
)

func (n PermissionNames) forAction(action Action) (string, bool) {
	switch action {
	case ActionChangeStatus:
		return n.ChangeStatus, true
	case ActionAssign:
		return n.Assign, true
	case ActionEscalate:
		return n.Escalate, true
	case ActionComment:
		return n.Comment, true
	default:
		return "", false
	}
}

// Authorize decides whether the actor may perform a workflow action on the
// subject. manage_all is unconditional; otherwise the action's permission must
// be held and the actor must either sit in the subject's current area or be its
// assignee. ActionUpdate is the coarser rule: in-area-or-assignee plus either
// the dedicated update permission or any of the manage-class permissions.
func Authorize(perms PermissionSet, names PermissionNames, actor Actor, subject SubjectView, action Action) error {
	if perms.Has(names.ManageAll) {
		return nil
	}
	if !inAreaOrAssignee(actor, subject) {
		return ErrForbidden
	}
	if action == ActionUpdate {
		if perms.Has(names.Update) || perms.HasAny(names.manageClass()...) {
			return nil
		}
		return ErrForbidden
	}
	required, ok := names.forAction(action)
	if !ok || !perms.Has(required) {
		return ErrForbidden
	}
	return nil
}

// AuthorizeRequesterCancel is the narrow "my own request" policy, kept separate
// from the staff workflow on purpose. The requester may cancel only while the
// subject is unassigned; a finalized subject yields a state conflict rather
// than an authorization failure.
func AuthorizeRequesterCancel(actor Actor, subject SubjectView) error {
	if subject.RequesterID != actor.ID {
		return ErrForbidden
	}
	if subject.AssigneeID != nil {
		return ErrForbidden
	}
	if subject.StateFinal {
		return ErrConflictState
	}
	return nil
}

func inAreaOrAssignee(actor Actor, subject SubjectView) bool {
	if subject.AssigneeID != nil && *subject.AssigneeID == actor.ID {
		return true
	}
	if actor.AreaID != nil && subject.CurrentAreaID != nil && *actor.AreaID == *subject.CurrentAreaID {
		return true
	}
	return false
}
