package models

import (
	"time"

	"github.com/google/uuid"
)

type State struct {
	ID        uint
	TenantID  uuid.UUID
	Name      string
	IsFinal   bool
	IsCancel  bool
	SortOrder int
}

type Ticket struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Folio       string
	Title       string
	Description string
	RequesterID uint
	AreaID      *uint
	AssigneeID  *uint
	StateID     uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Incident struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Folio       string
	Title       string
	Description string
	Severity    string
	ReporterID  uint
	AreaID      *uint
	AssigneeID  *uint
	StateID     uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
