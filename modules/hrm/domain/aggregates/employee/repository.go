package employee

import "context"

type FindParams struct {
	AreaID *uint
	Status *Status
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Employee, error)
	GetByID(ctx context.Context, id uint) (*Employee, error)
	GetByLogin(ctx context.Context, login string) (*Employee, error)
	Create(ctx context.Context, data *Employee) (*Employee, error)
	Update(ctx context.Context, data *Employee) (*Employee, error)
	ActiveLogins(ctx context.Context) ([]string, error)
}
