package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	UserID      uint
	Kind        string
	SubjectKind string
	SubjectID   uuid.UUID
	Message     string
	Read        bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

type FindParams struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, data *Notification) (*Notification, error)
	ListForUser(ctx context.Context, userID uint, params *FindParams) ([]*Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}
