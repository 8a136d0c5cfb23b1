package user

import "context"

type FindParams struct {
	AreaID *uint
	Active *bool
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]User, error)
	GetByID(ctx context.Context, id uint) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ListByArea(ctx context.Context, areaID uint) ([]User, error)
	ListWithPermission(ctx context.Context, permName string) ([]User, error)
	HasRoleAssignments(ctx context.Context) (bool, error)
	Create(ctx context.Context, data User) (User, error)
	Update(ctx context.Context, data User) (User, error)
}
