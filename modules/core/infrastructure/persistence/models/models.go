package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uint
	TenantID  uuid.UUID
	Email     string
	FirstName string
	LastName  string
	AreaID    *uint
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role struct {
	ID          uint
	TenantID    uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Area struct {
	ID        uint
	TenantID  uuid.UUID
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

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

type HistoryRecord struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	SubjectKind    string
	SubjectID      uuid.UUID
	ActorID        uint
	Action         string
	FromStateID    *uint
	ToStateID      *uint
	FromAreaID     *uint
	ToAreaID       *uint
	FromAssigneeID *uint
	ToAssigneeID   *uint
	Note           string
	CreatedAt      time.Time
}
