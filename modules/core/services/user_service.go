package services

import (
	"context"

	"github.com/grupovertice/intranet/modules/core/domain/aggregates/user"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/eventbus"
)

type UserCreatedEvent struct {
	Result user.User
}

type UserUpdatedEvent struct {
	Result user.User
}

type UserService struct {
	repo      user.Repository
	publisher eventbus.EventBus
}

func NewUserService(repo user.Repository, publisher eventbus.EventBus) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *UserService) Count(ctx context.Context, params *user.FindParams) (int64, error) {
	if err := authorizeCore(ctx, "users", "list"); err != nil {
		return 0, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx, params)
	})
}

func (s *UserService) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	if err := authorizeCore(ctx, "users", "list"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]user.User, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *UserService) GetByID(ctx context.Context, id uint) (user.User, error) {
	if err := authorizeCore(ctx, "users", "view"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		return s.repo.GetByEmail(txCtx, email)
	})
}

func (s *UserService) Create(ctx context.Context, data user.User) (user.User, error) {
	if err := authorizeCore(ctx, "users", "create"); err != nil {
		return nil, err
	}
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		return s.repo.Create(txCtx, data)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(UserCreatedEvent{Result: created})
	return created, nil
}

func (s *UserService) Update(ctx context.Context, data user.User) (user.User, error) {
	if err := authorizeCore(ctx, "users", "update"); err != nil {
		return nil, err
	}
	updated, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		return s.repo.Update(txCtx, data)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(UserUpdatedEvent{Result: updated})
	return updated, nil
}

// HasRoleAssignments reports whether any user has been granted a role yet.
// The server uses it at startup to decide whether enforcement applies or the
// portal is still in its bootstrap window.
func (s *UserService) HasRoleAssignments(ctx context.Context) (bool, error) {
	return s.repo.HasRoleAssignments(ctx)
}
