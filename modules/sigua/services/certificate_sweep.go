package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/grupovertice/intranet/modules/core/domain/entities/history"
	"github.com/grupovertice/intranet/modules/core/domain/events"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/sigua/domain/entities/certificate"
	siguapermissions "github.com/grupovertice/intranet/modules/sigua/permissions"
	"github.com/grupovertice/intranet/pkg/composables"
)

// CertificateSweep expires due certificates and warns about ones entering
// the expiry horizon. Every event carries a deterministic ID, so a rerun of
// the same day's sweep enqueues nothing new.
type CertificateSweep struct {
	certificates certificate.Repository
	publisher    *coreservices.EventPublisher
	clock        clockwork.Clock
	horizonDays  int
	logger       *logrus.Logger
}

type CertificateSweepResult struct {
	Expired  int
	Upcoming int
	Errors   int
}

func NewCertificateSweep(
	certificates certificate.Repository,
	publisher *coreservices.EventPublisher,
	clock clockwork.Clock,
	horizonDays int,
	logger *logrus.Logger,
) *CertificateSweep {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CertificateSweep{
		certificates: certificates,
		publisher:    publisher,
		clock:        clock,
		horizonDays:  horizonDays,
		logger:       logger,
	}
}

func (s *CertificateSweep) Run(ctx context.Context) error {
	result, err := s.RunOnce(ctx)
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"expired":  result.Expired,
		"upcoming": result.Upcoming,
	}).Info("certificate sweep finished")
	return nil
}

func (s *CertificateSweep) RunOnce(ctx context.Context) (CertificateSweepResult, error) {
	var result CertificateSweepResult
	var publishErrs []error
	now := s.clock.Now()
	// Expiry is a date, not an instant: a certificate dated today holds
	// until midnight, so both cutoffs start from the day boundary.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizon := today.AddDate(0, 0, s.horizonDays)

	publish := func(txCtx context.Context, cert *certificate.Certificate, ev events.EntityEvent) {
		if err := s.publisher.Publish(txCtx, events.TopicCertificateEvent, ev); err != nil {
			result.Errors++
			publishErrs = append(publishErrs, fmt.Errorf("certificate %s: %w", cert.ID, err))
		}
	}

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		expired, err := s.certificates.ExpireAllDue(txCtx, today)
		if err != nil {
			return fmt.Errorf("expire due certificates: %w", err)
		}
		result.Expired = len(expired)

		for _, cert := range expired {
			publish(txCtx, cert, s.certificateEvent(cert, "expired",
				fmt.Sprintf("Certification for %s/%s/%s has expired", cert.Campaign, cert.Site, cert.System)))
		}

		upcoming, err := s.certificates.ListExpiringWithin(txCtx, today, horizon)
		if err != nil {
			return fmt.Errorf("list expiring certificates: %w", err)
		}
		result.Upcoming = len(upcoming)

		for _, cert := range upcoming {
			publish(txCtx, cert, s.certificateEvent(cert, "expiring",
				fmt.Sprintf("Certification for %s/%s/%s expires on %s",
					cert.Campaign, cert.Site, cert.System, cert.ExpiresAt.Format("2006-01-02"))))
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, errors.Join(publishErrs...)
}

func (s *CertificateSweep) certificateEvent(cert *certificate.Certificate, action, message string) events.EntityEvent {
	ev := events.NewEntityEvent(cert.TenantID, string(history.KindCertificate), cert.ID, action)
	// Stable per certificate and expiry date: reruns dedupe in the outbox.
	ev.EventID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(
		fmt.Sprintf("certificate:%s:%s:%s", action, cert.ID, cert.ExpiresAt.Format("2006-01-02")),
	))
	ev.Message = message
	ev.NotifyUserIDs = []uint{cert.ManagerID}
	ev.NotifyPermission = siguapermissions.CertificateView.Name
	return ev
}
