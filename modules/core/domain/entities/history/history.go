package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SubjectKind string

const (
	KindTicket      SubjectKind = "ticket"
	KindIncident    SubjectKind = "incident"
	KindAccount     SubjectKind = "account"
	KindCertificate SubjectKind = "certificate"
)

type Action string

const (
	ActionStateChange      Action = "state_change"
	ActionAssignment       Action = "assignment"
	ActionEscalation       Action = "escalation"
	ActionComment          Action = "comment"
	ActionRequesterComment Action = "requester_comment"
	ActionRequesterAlert   Action = "requester_alert"
	ActionCancellation     Action = "cancellation"
	ActionExpiration       Action = "expiration"
)

// Record is one immutable line of a subject's audit trail. Area and assignee
// transitions keep both sides so the trail can be replayed without joining
// against current state.
type Record struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	SubjectKind    SubjectKind
	SubjectID      uuid.UUID
	ActorID        uint
	Action         Action
	FromStateID    *uint
	ToStateID      *uint
	FromAreaID     *uint
	ToAreaID       *uint
	FromAssigneeID *uint
	ToAssigneeID   *uint
	Note           string
	CreatedAt      time.Time
}

type Repository interface {
	Create(ctx context.Context, data *Record) (*Record, error)
	ListForSubject(ctx context.Context, kind SubjectKind, subjectID uuid.UUID) ([]*Record, error)
	CountForSubject(ctx context.Context, kind SubjectKind, subjectID uuid.UUID) (int64, error)
}
