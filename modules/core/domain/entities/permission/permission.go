package permission

import "github.com/google/uuid"

type Resource string

type Action string

const (
	ActionView         Action = "view"
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionAssign       Action = "assign"
	ActionEscalate     Action = "escalate"
	ActionComment      Action = "comment"
	ActionChangeStatus Action = "change_status"
	ActionManage       Action = "manage"
)

type Modifier string

const (
	ModifierAll  Modifier = "all"
	ModifierArea Modifier = "area"
	ModifierOwn  Modifier = "own"
)

// Permission is one grantable capability. Name is the flat dotted identifier
// stored in the database and carried inside access.PermissionSet; the
// resource/action/modifier triple only describes it for admin screens.
type Permission struct {
	ID       uuid.UUID
	Name     string
	Resource Resource
	Action   Action
	Modifier Modifier
}
