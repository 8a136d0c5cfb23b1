package account

import (
	"context"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/pkg/access"
)

type FindParams struct {
	Filter   access.Filter
	System   string
	Campaign string
	Status   *Status
	Limit    int
	Offset   int
}

type Repository interface {
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	Create(ctx context.Context, data *Account) (*Account, error)
	Update(ctx context.Context, data *Account) (*Account, error)
	// ActiveLogins returns the distinct logins of every active account; the
	// orphan sweep diffs it against the HR roster.
	ActiveLogins(ctx context.Context) ([]string, error)
	// ListByLogins returns the active accounts behind the given logins.
	ListByLogins(ctx context.Context, logins []string) ([]*Account, error)
}
