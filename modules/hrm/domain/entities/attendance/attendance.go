package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one presence interval. CheckOut stays nil while the employee is
// clocked in.
type Record struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	EmployeeID uint
	CheckIn    time.Time
	CheckOut   *time.Time
}

func (r *Record) Open() bool {
	return r.CheckOut == nil
}

type Repository interface {
	Create(ctx context.Context, data *Record) (*Record, error)
	Close(ctx context.Context, id uuid.UUID, at time.Time) (*Record, error)
	OpenForEmployee(ctx context.Context, employeeID uint) (*Record, error)
	ListForEmployee(ctx context.Context, employeeID uint, from, to time.Time) ([]*Record, error)
}
