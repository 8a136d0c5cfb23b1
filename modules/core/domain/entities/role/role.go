package role

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Role struct {
	ID          uint
	TenantID    uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Role, error)
	GetByID(ctx context.Context, id uint) (*Role, error)
	Create(ctx context.Context, data *Role) (*Role, error)
	AssignToUser(ctx context.Context, roleID, userID uint) error
	RemoveFromUser(ctx context.Context, roleID, userID uint) error
	PermissionNames(ctx context.Context, roleID uint) ([]string, error)
}
