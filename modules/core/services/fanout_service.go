package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/grupovertice/intranet/modules/core/domain/aggregates/user"
	"github.com/grupovertice/intranet/modules/core/domain/entities/notification"
	"github.com/grupovertice/intranet/modules/core/domain/events"
	"github.com/grupovertice/intranet/pkg/composables"
)

type DeliveryFailure struct {
	UserID uint
	Err    string
}

// DeliveryReport summarizes one fanout pass. Delivered may be lower than
// Recipients when individual notification writes fail; those failures never
// abort the pass.
type DeliveryReport struct {
	Recipients int
	Delivered  int
	Failures   []DeliveryFailure
}

type FanoutService struct {
	users         user.Repository
	notifications notification.Repository
	logger        *logrus.Logger
}

func NewFanoutService(
	users user.Repository,
	notifications notification.Repository,
	logger *logrus.Logger,
) *FanoutService {
	return &FanoutService{
		users:         users,
		notifications: notifications,
		logger:        logger,
	}
}

// Deliver resolves the recipient intent of an event into concrete users and
// writes one notification row per recipient. Resolution failures are
// returned (the caller may retry the event); per-recipient write failures
// are isolated and reported.
func (s *FanoutService) Deliver(ctx context.Context, ev events.EntityEvent) (DeliveryReport, error) {
	ctx = composables.WithTenantID(ctx, ev.TenantID)

	recipients, err := s.resolveRecipients(ctx, ev)
	if err != nil {
		return DeliveryReport{}, err
	}

	report := DeliveryReport{Recipients: len(recipients)}
	for _, userID := range recipients {
		err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
			_, err := s.notifications.Create(txCtx, &notification.Notification{
				TenantID:    ev.TenantID,
				UserID:      userID,
				Kind:        ev.Action,
				SubjectKind: ev.SubjectKind,
				SubjectID:   ev.SubjectID,
				Message:     ev.Message,
			})
			return err
		})
		if err != nil {
			report.Failures = append(report.Failures, DeliveryFailure{
				UserID: userID,
				Err:    err.Error(),
			})
			s.logger.WithFields(logrus.Fields{
				"event_id": ev.EventID,
				"user_id":  userID,
				"error":    err.Error(),
			}).Error("notification delivery failed")
			continue
		}
		report.Delivered++
	}
	return report, nil
}

func (s *FanoutService) resolveRecipients(ctx context.Context, ev events.EntityEvent) ([]uint, error) {
	seen := make(map[uint]struct{})
	var recipients []uint

	add := func(id uint) {
		if id == 0 {
			return
		}
		if ev.ExcludeActor && id == ev.ActorID {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}

	err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		if ev.NotifyAreaID != nil {
			areaUsers, err := s.users.ListByArea(txCtx, *ev.NotifyAreaID)
			if err != nil {
				return fmt.Errorf("resolve area recipients: %w", err)
			}
			for _, u := range areaUsers {
				add(u.ID())
			}
		}
		if ev.NotifyPermission != "" {
			permUsers, err := s.users.ListWithPermission(txCtx, ev.NotifyPermission)
			if err != nil {
				return fmt.Errorf("resolve permission recipients: %w", err)
			}
			for _, u := range permUsers {
				add(u.ID())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, id := range ev.NotifyUserIDs {
		add(id)
	}
	return recipients, nil
}
