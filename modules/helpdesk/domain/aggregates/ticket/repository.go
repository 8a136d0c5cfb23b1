package ticket

import (
	"context"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/pkg/access"
)

type FindParams struct {
	Filter  access.Filter
	StateID *uint
	Search  string
	Limit   int
	Offset  int
}

type Repository interface {
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	Create(ctx context.Context, data *Ticket) (*Ticket, error)
	Update(ctx context.Context, data *Ticket) (*Ticket, error)
	AddAreaGrant(ctx context.Context, id uuid.UUID, areaID uint) error
	NextFolio(ctx context.Context) (string, error)
}
