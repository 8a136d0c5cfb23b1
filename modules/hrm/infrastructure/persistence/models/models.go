package models

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uint
	TenantID     uuid.UUID
	Login        string
	FirstName    string
	LastName     string
	Email        string
	Position     string
	AreaID       *uint
	Status       string
	HiredAt      time.Time
	TerminatedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AttendanceRecord struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	EmployeeID uint
	CheckIn    time.Time
	CheckOut   *time.Time
}
