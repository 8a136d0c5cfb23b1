package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/core/domain/entities/history"
	"github.com/grupovertice/intranet/modules/core/domain/events"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/sigua/domain/aggregates/account"
	"github.com/grupovertice/intranet/modules/sigua/permissions"
	"github.com/grupovertice/intranet/pkg/access"
	"github.com/grupovertice/intranet/pkg/composables"
)

type AccountService struct {
	accounts  account.Repository
	histories history.Repository
	publisher *coreservices.EventPublisher
}

func NewAccountService(
	accounts account.Repository,
	histories history.Repository,
	publisher *coreservices.EventPublisher,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		histories: histories,
		publisher: publisher,
	}
}

func (s *AccountService) scopedFilter(ctx context.Context) (access.Filter, error) {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return access.Filter{}, err
	}
	scope := access.ResolveScope(u.Permissions(), u.Actor().HasArea(), permissions.AccountNames())
	if scope == access.ScopeNone {
		return access.Filter{}, access.ErrForbidden
	}
	return access.FilterFor(scope, u.Actor()), nil
}

func (s *AccountService) Count(ctx context.Context, params *account.FindParams) (int64, error) {
	if err := authorizeSigua(ctx, "accounts", "list"); err != nil {
		return 0, err
	}
	filter, err := s.scopedFilter(ctx)
	if err != nil {
		return 0, err
	}
	params.Filter = filter
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.accounts.Count(txCtx, params)
	})
}

func (s *AccountService) GetPaginated(ctx context.Context, params *account.FindParams) ([]*account.Account, error) {
	if err := authorizeSigua(ctx, "accounts", "list"); err != nil {
		return nil, err
	}
	filter, err := s.scopedFilter(ctx)
	if err != nil {
		return nil, err
	}
	params.Filter = filter
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*account.Account, error) {
		return s.accounts.GetPaginated(txCtx, params)
	})
}

func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	if err := authorizeSigua(ctx, "accounts", "view"); err != nil {
		return nil, err
	}
	filter, err := s.scopedFilter(ctx)
	if err != nil {
		return nil, err
	}
	entity, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*account.Account, error) {
		return s.accounts.GetByID(txCtx, id)
	})
	if err != nil {
		return nil, err
	}
	if !filter.Match(entity.View()) {
		return nil, access.ErrForbidden
	}
	return entity, nil
}

type ProvisionAccountInput struct {
	Login     string
	System    string
	Campaign  string
	Site      string
	ManagerID uint
	AreaID    *uint
}

func (s *AccountService) Provision(ctx context.Context, input ProvisionAccountInput) (*account.Account, error) {
	if err := authorizeSigua(ctx, "accounts", "create"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*account.Account, error) {
		created, err := s.accounts.Create(txCtx, account.New(
			tenantID, input.Login, input.System, input.Campaign, input.Site,
			input.ManagerID, input.AreaID,
		))
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindAccount,
			SubjectID:   created.ID(),
			ActorID:     u.ID(),
			Action:      history.ActionStateChange,
			Note:        "provisioned",
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(tenantID, string(history.KindAccount), created.ID(), string(history.ActionStateChange))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Access account %s provisioned on %s", created.Login(), created.System())
		ev.NotifyUserIDs = []uint{created.ManagerID()}
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicAccountEvent, ev); err != nil {
			return nil, err
		}
		return created, nil
	})
}

func (s *AccountService) Suspend(ctx context.Context, id uuid.UUID, note string) (*account.Account, error) {
	return s.transition(ctx, id, note, "suspended", func(a *account.Account) error {
		if a.Status() != account.StatusActive {
			return access.ErrConflictState
		}
		a.Suspend()
		return nil
	})
}

func (s *AccountService) Reactivate(ctx context.Context, id uuid.UUID, note string) (*account.Account, error) {
	return s.transition(ctx, id, note, "reactivated", func(a *account.Account) error {
		if a.Status() != account.StatusSuspended {
			return access.ErrConflictState
		}
		a.Reactivate()
		return nil
	})
}

// Revoke is terminal; a revoked account never comes back.
func (s *AccountService) Revoke(ctx context.Context, id uuid.UUID, note string) (*account.Account, error) {
	return s.transition(ctx, id, note, "revoked", func(a *account.Account) error {
		if a.Status() == account.StatusRevoked {
			return access.ErrConflictState
		}
		a.Revoke()
		return nil
	})
}

func (s *AccountService) transition(
	ctx context.Context,
	id uuid.UUID,
	note, action string,
	mutate func(*account.Account) error,
) (*account.Account, error) {
	if err := authorizeSigua(ctx, "accounts", "update"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*account.Account, error) {
		entity, err := s.accounts.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := mutate(entity); err != nil {
			return nil, err
		}
		updated, err := s.accounts.Update(txCtx, entity)
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindAccount,
			SubjectID:   id,
			ActorID:     u.ID(),
			Action:      history.ActionStateChange,
			Note:        note,
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(entity.TenantID(), string(history.KindAccount), id, action)
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Access account %s %s", entity.Login(), action)
		ev.NotifyUserIDs = []uint{entity.ManagerID()}
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicAccountEvent, ev); err != nil {
			return nil, err
		}
		return updated, nil
	})
}
