package area

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Area is an organizational unit tickets and incidents route through.
type Area struct {
	ID        uint
	TenantID  uuid.UUID
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Area, error)
	GetByID(ctx context.Context, id uint) (*Area, error)
	Create(ctx context.Context, data *Area) (*Area, error)
	Update(ctx context.Context, data *Area) (*Area, error)
}
