package events

import (
	"time"

	"github.com/google/uuid"
)

// Outbox topics. One envelope type serves every module; the topic tells the
// dispatcher which family of subjects the event belongs to.
const (
	TopicTicketEvent      = "helpdesk.tickets.v1"
	TopicIncidentEvent    = "helpdesk.incidents.v1"
	TopicAccountEvent     = "sigua.accounts.v1"
	TopicCertificateEvent = "sigua.certificates.v1"
	TopicSweepSummary     = "sigua.sweeps.v1"
)

// EntityEvent is the fanout envelope written to the outbox inside the same
// transaction as the change it describes. Recipients are declared by intent
// (an area, a permission, explicit user IDs) and resolved at dispatch time.
type EntityEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	SubjectKind string    `json:"subject_kind"`
	SubjectID   uuid.UUID `json:"subject_id"`
	Action      string    `json:"action"`
	ActorID     uint      `json:"actor_id"`
	Message     string    `json:"message"`

	NotifyAreaID     *uint  `json:"notify_area_id,omitempty"`
	NotifyPermission string `json:"notify_permission,omitempty"`
	NotifyUserIDs    []uint `json:"notify_user_ids,omitempty"`
	ExcludeActor     bool   `json:"exclude_actor"`

	OccurredAt time.Time `json:"occurred_at"`
}

func NewEntityEvent(tenantID uuid.UUID, subjectKind string, subjectID uuid.UUID, action string) EntityEvent {
	return EntityEvent{
		EventID:     uuid.New(),
		TenantID:    tenantID,
		SubjectKind: subjectKind,
		SubjectID:   subjectID,
		Action:      action,
		OccurredAt:  time.Now(),
	}
}
