package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/grupovertice/intranet/modules/core/domain/events"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/sigua/domain/entities/activity"
	siguapermissions "github.com/grupovertice/intranet/modules/sigua/permissions"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/schedule"
)

// ActivitySweep flags operational log contexts with no entries inside their
// business-day tolerance. A failing context never stops the others; the run
// error aggregates whatever went wrong per context.
type ActivitySweep struct {
	activities       activity.Repository
	publisher        *coreservices.EventPublisher
	calendar         schedule.Calendar
	clock            clockwork.Clock
	defaultTolerance int
	logger           *logrus.Logger
}

type ActivitySweepResult struct {
	Checked int
	Overdue []string
	Errors  int
}

func NewActivitySweep(
	activities activity.Repository,
	publisher *coreservices.EventPublisher,
	calendar schedule.Calendar,
	clock clockwork.Clock,
	defaultTolerance int,
	logger *logrus.Logger,
) *ActivitySweep {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ActivitySweep{
		activities:       activities,
		publisher:        publisher,
		calendar:         calendar,
		clock:            clock,
		defaultTolerance: defaultTolerance,
		logger:           logger,
	}
}

func (s *ActivitySweep) Run(ctx context.Context) error {
	result, err := s.RunOnce(ctx)
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"checked": result.Checked,
		"overdue": len(result.Overdue),
		"errors":  result.Errors,
	}).Info("activity sweep finished")
	return nil
}

func (s *ActivitySweep) RunOnce(ctx context.Context) (ActivitySweepResult, error) {
	var result ActivitySweepResult
	var contextErrs []error
	now := s.clock.Now()

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		contexts, err := s.activities.GetContexts(txCtx)
		if err != nil {
			return fmt.Errorf("list activity contexts: %w", err)
		}
		result.Checked = len(contexts)

		day := now.Format("2006-01-02")
		for _, c := range contexts {
			last, found, err := s.activities.LastEntryAt(txCtx, c.ID)
			if err != nil {
				result.Errors++
				contextErrs = append(contextErrs, fmt.Errorf("context %q: %w", c.Name, err))
				continue
			}
			tolerance := c.ToleranceDays
			if tolerance <= 0 {
				tolerance = s.defaultTolerance
			}
			if found && s.calendar.BusinessDaysBetween(last, now) <= tolerance {
				continue
			}
			result.Overdue = append(result.Overdue, c.Name)

			ev := events.NewEntityEvent(c.TenantID, "activity_context", uuid.Nil, "missing_activity")
			// One event per context per day: reruns dedupe in the outbox.
			ev.EventID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(
				fmt.Sprintf("activity:%d:%s", c.ID, day),
			))
			if found {
				ev.Message = fmt.Sprintf("No entries in %q since %s", c.Name, last.Format("2006-01-02"))
			} else {
				ev.Message = fmt.Sprintf("No entries have ever been recorded in %q", c.Name)
			}
			if c.ManagerID != 0 {
				ev.NotifyUserIDs = []uint{c.ManagerID}
			}
			ev.NotifyPermission = siguapermissions.AdminNotifyPermission
			if err := s.publisher.Publish(txCtx, events.TopicSweepSummary, ev); err != nil {
				result.Errors++
				contextErrs = append(contextErrs, fmt.Errorf("context %q: %w", c.Name, err))
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, errors.Join(contextErrs...)
}
