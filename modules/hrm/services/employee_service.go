package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/core/domain/events"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/hrm/domain/aggregates/employee"
	"github.com/grupovertice/intranet/pkg/authz"
	"github.com/grupovertice/intranet/pkg/composables"
)

// authorizeHRM is swappable so service tests can bypass the enforcer.
var authorizeHRM = func(ctx context.Context, resource, action string) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		tenantID = uuid.Nil
	}
	var userID uint
	if u, err := composables.UseUser(ctx); err == nil {
		userID = u.ID()
	}
	req := authz.NewRequest(
		authz.SubjectForUser(tenantID, userID),
		authz.DomainFromTenant(tenantID),
		authz.ObjectName("hrm", resource),
		action,
	)
	return authz.Use().Authorize(ctx, req)
}

// adminAlertPermission marks who gets told when a departure may strand
// access accounts.
const adminAlertPermission = "accounts.manage_all"

type EmployeeService struct {
	repo      employee.Repository
	publisher *coreservices.EventPublisher
}

func NewEmployeeService(repo employee.Repository, publisher *coreservices.EventPublisher) *EmployeeService {
	return &EmployeeService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *EmployeeService) Count(ctx context.Context, params *employee.FindParams) (int64, error) {
	if err := authorizeHRM(ctx, "employees", "list"); err != nil {
		return 0, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx, params)
	})
}

func (s *EmployeeService) GetPaginated(ctx context.Context, params *employee.FindParams) ([]*employee.Employee, error) {
	if err := authorizeHRM(ctx, "employees", "list"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*employee.Employee, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *EmployeeService) GetByID(ctx context.Context, id uint) (*employee.Employee, error) {
	if err := authorizeHRM(ctx, "employees", "view"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*employee.Employee, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *EmployeeService) Create(ctx context.Context, data *employee.Employee) (*employee.Employee, error) {
	if err := authorizeHRM(ctx, "employees", "create"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*employee.Employee, error) {
		return s.repo.Create(txCtx, data)
	})
}

func (s *EmployeeService) Update(ctx context.Context, data *employee.Employee) (*employee.Employee, error) {
	if err := authorizeHRM(ctx, "employees", "update"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*employee.Employee, error) {
		return s.repo.Update(txCtx, data)
	})
}

// Terminate closes the employment record and alerts the access-governance
// admins so the departed person's accounts get reviewed before the next
// orphan sweep.
func (s *EmployeeService) Terminate(ctx context.Context, id uint, at time.Time) (*employee.Employee, error) {
	if err := authorizeHRM(ctx, "employees", "update"); err != nil {
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

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*employee.Employee, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		entity.Terminate(at)
		updated, err := s.repo.Update(txCtx, entity)
		if err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(tenantID, "employee", uuid.Nil, "terminated")
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("%s (%s) left the company; review their access accounts", entity.FullName(), entity.Login())
		ev.NotifyPermission = adminAlertPermission
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicSweepSummary, ev); err != nil {
			return nil, err
		}
		return updated, nil
	})
}

// ActiveLogins satisfies the roster interface the orphan sweep consumes.
func (s *EmployeeService) ActiveLogins(ctx context.Context) ([]string, error) {
	return s.repo.ActiveLogins(ctx)
}
