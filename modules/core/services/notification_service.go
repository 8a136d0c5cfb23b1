package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/core/domain/entities/notification"
	"github.com/grupovertice/intranet/pkg/composables"
)

// NotificationService exposes each user's own inbox. No permission check is
// needed: every operation is keyed by the authenticated user's ID.
type NotificationService struct {
	repo notification.Repository
}

func NewNotificationService(repo notification.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) ListOwn(ctx context.Context, params *notification.FindParams) ([]*notification.Notification, error) {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*notification.Notification, error) {
		return s.repo.ListForUser(txCtx, u.ID(), params)
	})
}

func (s *NotificationService) CountUnread(ctx context.Context) (int64, error) {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return 0, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.CountUnread(txCtx, u.ID())
	})
}

func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return err
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.MarkRead(txCtx, id, u.ID())
	})
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return err
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.MarkAllRead(txCtx, u.ID())
	})
}
