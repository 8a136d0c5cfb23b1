package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/hrm/domain/entities/attendance"
	"github.com/grupovertice/intranet/modules/hrm/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/composables"
)

var ErrAttendanceNotFound = errors.New("attendance record not found")

const (
	insertAttendanceQuery = `
		INSERT INTO attendance_records (id, tenant_id, employee_id, check_in)
		VALUES ($1, $2, $3, $4)`

	closeAttendanceQuery = `
		UPDATE attendance_records SET check_out = $1
		WHERE id = $2 AND check_out IS NULL
		RETURNING id, tenant_id, employee_id, check_in, check_out`

	openAttendanceQuery = `
		SELECT id, tenant_id, employee_id, check_in, check_out
		FROM attendance_records
		WHERE employee_id = $1 AND check_out IS NULL
		ORDER BY check_in DESC
		LIMIT 1`

	listAttendanceQuery = `
		SELECT id, tenant_id, employee_id, check_in, check_out
		FROM attendance_records
		WHERE employee_id = $1 AND check_in >= $2 AND check_in < $3
		ORDER BY check_in`
)

type PgAttendanceRepository struct{}

func NewAttendanceRepository() attendance.Repository {
	return &PgAttendanceRepository{}
}

func scanAttendance(scan func(dest ...any) error) (*attendance.Record, error) {
	var r models.AttendanceRecord
	if err := scan(&r.ID, &r.TenantID, &r.EmployeeID, &r.CheckIn, &r.CheckOut); err != nil {
		return nil, err
	}
	return &attendance.Record{
		ID:         r.ID,
		TenantID:   r.TenantID,
		EmployeeID: r.EmployeeID,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
	}, nil
}

func (g *PgAttendanceRepository) Create(ctx context.Context, data *attendance.Record) (*attendance.Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	entity := *data
	if entity.ID == uuid.Nil {
		entity.ID = uuid.New()
	}
	entity.TenantID = tenantID
	if entity.CheckIn.IsZero() {
		entity.CheckIn = time.Now()
	}

	_, err = tx.Exec(ctx, insertAttendanceQuery, entity.ID, entity.TenantID, entity.EmployeeID, entity.CheckIn)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (g *PgAttendanceRepository) Close(ctx context.Context, id uuid.UUID, at time.Time) (*attendance.Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	record, err := scanAttendance(tx.QueryRow(ctx, closeAttendanceQuery, at, id).Scan)
	if err != nil {
		return nil, ErrAttendanceNotFound
	}
	return record, nil
}

func (g *PgAttendanceRepository) OpenForEmployee(ctx context.Context, employeeID uint) (*attendance.Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	record, err := scanAttendance(tx.QueryRow(ctx, openAttendanceQuery, employeeID).Scan)
	if err != nil {
		return nil, ErrAttendanceNotFound
	}
	return record, nil
}

func (g *PgAttendanceRepository) ListForEmployee(ctx context.Context, employeeID uint, from, to time.Time) ([]*attendance.Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, listAttendanceQuery, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*attendance.Record
	for rows.Next() {
		record, err := scanAttendance(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
