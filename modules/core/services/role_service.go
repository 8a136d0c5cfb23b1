package services

import (
	"context"

	"github.com/grupovertice/intranet/modules/core/domain/entities/role"
	"github.com/grupovertice/intranet/pkg/authz"
	"github.com/grupovertice/intranet/pkg/composables"
)

type RoleService struct {
	repo role.Repository
}

func NewRoleService(repo role.Repository) *RoleService {
	return &RoleService{repo: repo}
}

func (s *RoleService) GetAll(ctx context.Context) ([]*role.Role, error) {
	if err := authorizeCore(ctx, "roles", "list"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*role.Role, error) {
		return s.repo.GetAll(txCtx)
	})
}

func (s *RoleService) GetByID(ctx context.Context, id uint) (*role.Role, error) {
	if err := authorizeCore(ctx, "roles", "view"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*role.Role, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *RoleService) Create(ctx context.Context, data *role.Role) (*role.Role, error) {
	if err := authorizeCore(ctx, "roles", "create"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*role.Role, error) {
		return s.repo.Create(txCtx, data)
	})
}

// AssignToUser grants a role. The first successful assignment ends the
// bootstrap window: from then on the coarse guard enforces.
func (s *RoleService) AssignToUser(ctx context.Context, roleID, userID uint) error {
	if err := authorizeCore(ctx, "roles", "update"); err != nil {
		return err
	}
	err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.AssignToUser(txCtx, roleID, userID)
	})
	if err != nil {
		return err
	}
	authz.Use().SetBootstrapped(true)
	return nil
}

func (s *RoleService) RemoveFromUser(ctx context.Context, roleID, userID uint) error {
	if err := authorizeCore(ctx, "roles", "update"); err != nil {
		return err
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.RemoveFromUser(txCtx, roleID, userID)
	})
}

func (s *RoleService) PermissionNames(ctx context.Context, roleID uint) ([]string, error) {
	if err := authorizeCore(ctx, "roles", "view"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]string, error) {
		return s.repo.PermissionNames(txCtx, roleID)
	})
}
