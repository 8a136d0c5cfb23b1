package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Login     string
	System    string
	Campaign  string
	Site      string
	ManagerID uint
	AreaID    *uint
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Certificate struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	ManagerID uint
	Campaign  string
	Site      string
	System    string
	Status    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ActivityContext struct {
	ID            uint
	TenantID      uuid.UUID
	Name          string
	ManagerID     uint
	ToleranceDays int
	Active        bool
}

type ActivityEntry struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	ContextID  uint
	ActorID    uint
	Detail     string
	RecordedAt time.Time
}
