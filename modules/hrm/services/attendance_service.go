package services

import (
	"context"
	"errors"
	"time"

	"github.com/grupovertice/intranet/modules/hrm/domain/entities/attendance"
	"github.com/grupovertice/intranet/modules/hrm/infrastructure/persistence"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/serrors"
)

var (
	ErrAlreadyCheckedIn = serrors.NewError(
		"HRM_ALREADY_CHECKED_IN",
		"an open attendance interval already exists",
		"hrm.errors.alreadyCheckedIn",
	)
	ErrNotCheckedIn = serrors.NewError(
		"HRM_NOT_CHECKED_IN",
		"no open attendance interval to close",
		"hrm.errors.notCheckedIn",
	)
)

type AttendanceService struct {
	repo attendance.Repository
}

func NewAttendanceService(repo attendance.Repository) *AttendanceService {
	return &AttendanceService{repo: repo}
}

// CheckIn opens a presence interval for the current user. A second check-in
// while one is open is a conflict, not a new interval.
func (s *AttendanceService) CheckIn(ctx context.Context) (*attendance.Record, error) {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*attendance.Record, error) {
		_, err := s.repo.OpenForEmployee(txCtx, u.ID())
		if err == nil {
			return nil, ErrAlreadyCheckedIn
		}
		if !errors.Is(err, persistence.ErrAttendanceNotFound) {
			return nil, err
		}
		return s.repo.Create(txCtx, &attendance.Record{EmployeeID: u.ID()})
	})
}

func (s *AttendanceService) CheckOut(ctx context.Context) (*attendance.Record, error) {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*attendance.Record, error) {
		open, err := s.repo.OpenForEmployee(txCtx, u.ID())
		if err != nil {
			if errors.Is(err, persistence.ErrAttendanceNotFound) {
				return nil, ErrNotCheckedIn
			}
			return nil, err
		}
		return s.repo.Close(txCtx, open.ID, time.Now())
	})
}

func (s *AttendanceService) ListOwn(ctx context.Context, from, to time.Time) ([]*attendance.Record, error) {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*attendance.Record, error) {
		return s.repo.ListForEmployee(txCtx, u.ID(), from, to)
	})
}

// ListForEmployee is the manager view over someone else's intervals.
func (s *AttendanceService) ListForEmployee(ctx context.Context, employeeID uint, from, to time.Time) ([]*attendance.Record, error) {
	if err := authorizeHRM(ctx, "attendance", "list"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*attendance.Record, error) {
		return s.repo.ListForEmployee(txCtx, employeeID, from, to)
	})
}
