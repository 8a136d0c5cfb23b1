package services

import (
	"context"

	"github.com/grupovertice/intranet/modules/core/domain/entities/area"
	"github.com/grupovertice/intranet/pkg/composables"
)

type AreaService struct {
	repo area.Repository
}

func NewAreaService(repo area.Repository) *AreaService {
	return &AreaService{repo: repo}
}

func (s *AreaService) GetAll(ctx context.Context) ([]*area.Area, error) {
	if err := authorizeCore(ctx, "areas", "list"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*area.Area, error) {
		return s.repo.GetAll(txCtx)
	})
}

func (s *AreaService) GetByID(ctx context.Context, id uint) (*area.Area, error) {
	if err := authorizeCore(ctx, "areas", "view"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*area.Area, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *AreaService) Create(ctx context.Context, data *area.Area) (*area.Area, error) {
	if err := authorizeCore(ctx, "areas", "create"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*area.Area, error) {
		return s.repo.Create(txCtx, data)
	})
}

func (s *AreaService) Update(ctx context.Context, data *area.Area) (*area.Area, error) {
	if err := authorizeCore(ctx, "areas", "update"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*area.Area, error) {
		return s.repo.Update(txCtx, data)
	})
}
