package services

import (
	"context"

	"github.com/grupovertice/intranet/modules/sigua/domain/entities/activity"
	"github.com/grupovertice/intranet/pkg/composables"
)

type ActivityService struct {
	repo activity.Repository
}

func NewActivityService(repo activity.Repository) *ActivityService {
	return &ActivityService{repo: repo}
}

func (s *ActivityService) Contexts(ctx context.Context) ([]*activity.Context, error) {
	if err := authorizeSigua(ctx, "activity", "list"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*activity.Context, error) {
		return s.repo.GetContexts(txCtx)
	})
}

func (s *ActivityService) Record(ctx context.Context, contextID uint, detail string) (*activity.Entry, error) {
	if err := authorizeSigua(ctx, "activity", "create"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*activity.Entry, error) {
		return s.repo.Record(txCtx, &activity.Entry{
			ContextID: contextID,
			ActorID:   u.ID(),
			Detail:    detail,
		})
	})
}

func (s *ActivityService) Entries(ctx context.Context, contextID uint, limit, offset int) ([]*activity.Entry, error) {
	if err := authorizeSigua(ctx, "activity", "list"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*activity.Entry, error) {
		return s.repo.ListEntries(txCtx, contextID, limit, offset)
	})
}
