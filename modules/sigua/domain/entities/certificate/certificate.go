package certificate

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusValid     Status = "valid"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Certificate attests that a manager completed the access-governance
// certification for one campaign/site/system combination. At most one valid
// certificate may exist per combination.
type Certificate struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	ManagerID uint
	Campaign  string
	Site      string
	System    string
	Status    Status
	IssuedAt  time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Certificate) Active() bool {
	return c.Status == StatusValid
}

type FindParams struct {
	ManagerID *uint
	Status    *Status
	Limit     int
	Offset    int
}

type Repository interface {
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Certificate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Certificate, error)
	// FindValid returns the valid certificate for the combination, if any.
	FindValid(ctx context.Context, managerID uint, campaign, site, system string) (*Certificate, error)
	Create(ctx context.Context, data *Certificate) (*Certificate, error)
	Update(ctx context.Context, data *Certificate) (*Certificate, error)
	// ExpireAllDue flips every valid certificate whose expiry falls strictly
	// before the given day boundary in one statement and returns the flipped
	// certificates. A certificate expiring today is still valid all day.
	ExpireAllDue(ctx context.Context, before time.Time) ([]*Certificate, error)
	// ListExpiringWithin returns valid certificates whose expiry falls in
	// [from, until].
	ListExpiringWithin(ctx context.Context, from, until time.Time) ([]*Certificate, error)
}
