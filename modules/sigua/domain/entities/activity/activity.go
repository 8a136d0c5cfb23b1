package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Context is one operational log the portal expects regular entries in
// (account reviews, revocation runs, certification audits). ToleranceDays
// of zero means the sweep-wide default applies.
type Context struct {
	ID            uint
	TenantID      uuid.UUID
	Name          string
	ManagerID     uint
	ToleranceDays int
	Active        bool
}

// Entry is one recorded action inside a context.
type Entry struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	ContextID  uint
	ActorID    uint
	Detail     string
	RecordedAt time.Time
}

type Repository interface {
	GetContexts(ctx context.Context) ([]*Context, error)
	Record(ctx context.Context, data *Entry) (*Entry, error)
	LastEntryAt(ctx context.Context, contextID uint) (time.Time, bool, error)
	ListEntries(ctx context.Context, contextID uint, limit, offset int) ([]*Entry, error)
}
