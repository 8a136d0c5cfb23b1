package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/core/domain/entities/history"
	"github.com/grupovertice/intranet/modules/core/domain/events"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/sigua/domain/entities/certificate"
	"github.com/grupovertice/intranet/modules/sigua/infrastructure/persistence"
	"github.com/grupovertice/intranet/pkg/access"
	"github.com/grupovertice/intranet/pkg/composables"
)

type CertificateService struct {
	certificates certificate.Repository
	histories    history.Repository
	publisher    *coreservices.EventPublisher
	validity     time.Duration
}

// DefaultCertificateValidity is the lifetime of a fresh certification.
const DefaultCertificateValidity = 90 * 24 * time.Hour

func NewCertificateService(
	certificates certificate.Repository,
	histories history.Repository,
	publisher *coreservices.EventPublisher,
) *CertificateService {
	return &CertificateService{
		certificates: certificates,
		histories:    histories,
		publisher:    publisher,
		validity:     DefaultCertificateValidity,
	}
}

func (s *CertificateService) Count(ctx context.Context, params *certificate.FindParams) (int64, error) {
	if err := authorizeSigua(ctx, "certificates", "list"); err != nil {
		return 0, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.certificates.Count(txCtx, params)
	})
}

func (s *CertificateService) GetPaginated(ctx context.Context, params *certificate.FindParams) ([]*certificate.Certificate, error) {
	if err := authorizeSigua(ctx, "certificates", "list"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*certificate.Certificate, error) {
		return s.certificates.GetPaginated(txCtx, params)
	})
}

func (s *CertificateService) GetByID(ctx context.Context, id uuid.UUID) (*certificate.Certificate, error) {
	if err := authorizeSigua(ctx, "certificates", "view"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*certificate.Certificate, error) {
		return s.certificates.GetByID(txCtx, id)
	})
}

type CertifyInput struct {
	ManagerID uint
	Campaign  string
	Site      string
	System    string
}

// Certify issues a certificate for the combination. A still-valid existing
// certificate makes the request a state conflict, not an overwrite.
func (s *CertificateService) Certify(ctx context.Context, input CertifyInput) (*certificate.Certificate, error) {
	if err := authorizeSigua(ctx, "certificates", "create"); err != nil {
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

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*certificate.Certificate, error) {
		existing, err := s.certificates.FindValid(txCtx, input.ManagerID, input.Campaign, input.Site, input.System)
		if err != nil && !errors.Is(err, persistence.ErrCertificateNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrCertificateExists
		}

		now := time.Now()
		created, err := s.certificates.Create(txCtx, &certificate.Certificate{
			ManagerID: input.ManagerID,
			Campaign:  input.Campaign,
			Site:      input.Site,
			System:    input.System,
			Status:    certificate.StatusValid,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.validity),
		})
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindCertificate,
			SubjectID:   created.ID,
			ActorID:     u.ID(),
			Action:      history.ActionStateChange,
			Note:        "issued",
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(tenantID, string(history.KindCertificate), created.ID, string(history.ActionStateChange))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Certification issued for %s/%s/%s", created.Campaign, created.Site, created.System)
		ev.NotifyUserIDs = []uint{created.ManagerID}
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicCertificateEvent, ev); err != nil {
			return nil, err
		}
		return created, nil
	})
}

// Renew extends a valid certificate for another validity window.
func (s *CertificateService) Renew(ctx context.Context, id uuid.UUID) (*certificate.Certificate, error) {
	if err := authorizeSigua(ctx, "certificates", "update"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*certificate.Certificate, error) {
		cert, err := s.certificates.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if !cert.Active() {
			return nil, access.ErrConflictState
		}

		now := time.Now()
		cert.IssuedAt = now
		cert.ExpiresAt = now.Add(s.validity)
		updated, err := s.certificates.Update(txCtx, cert)
		if err != nil {
			return nil, err
		}

		_, err = s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindCertificate,
			SubjectID:   id,
			ActorID:     u.ID(),
			Action:      history.ActionStateChange,
			Note:        "renewed",
		})
		return updated, err
	})
}

func (s *CertificateService) Cancel(ctx context.Context, id uuid.UUID, note string) (*certificate.Certificate, error) {
	if err := authorizeSigua(ctx, "certificates", "delete"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*certificate.Certificate, error) {
		cert, err := s.certificates.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if !cert.Active() {
			return nil, access.ErrConflictState
		}

		cert.Status = certificate.StatusCancelled
		updated, err := s.certificates.Update(txCtx, cert)
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindCertificate,
			SubjectID:   id,
			ActorID:     u.ID(),
			Action:      history.ActionCancellation,
			Note:        note,
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(cert.TenantID, string(history.KindCertificate), id, string(history.ActionCancellation))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Certification for %s/%s/%s cancelled", cert.Campaign, cert.Site, cert.System)
		ev.NotifyUserIDs = []uint{cert.ManagerID}
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicCertificateEvent, ev); err != nil {
			return nil, err
		}
		return updated, nil
	})
}
