package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/grupovertice/intranet/modules/hrm/domain/aggregates/employee"
	"github.com/grupovertice/intranet/modules/hrm/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/repo"
)

var ErrEmployeeNotFound = errors.New("employee not found")

const (
	selectEmployeeQuery = `
		SELECT e.id, e.tenant_id, e.login, e.first_name, e.last_name, e.email,
			e.position, e.area_id, e.status, e.hired_at, e.terminated_at,
			e.created_at, e.updated_at
		FROM employees e`

	countEmployeeQuery = `SELECT COUNT(*) FROM employees e`

	insertEmployeeQuery = `
		INSERT INTO employees (
			tenant_id, login, first_name, last_name, email, position, area_id,
			status, hired_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	updateEmployeeQuery = `
		UPDATE employees
		SET first_name = $1, last_name = $2, email = $3, position = $4,
			area_id = $5, status = $6, terminated_at = $7, updated_at = $8
		WHERE id = $9 AND tenant_id = $10`

	activeEmployeeLoginsQuery = `
		SELECT DISTINCT login FROM employees WHERE status = 'active' ORDER BY login`
)

type PgEmployeeRepository struct{}

func NewEmployeeRepository() employee.Repository {
	return &PgEmployeeRepository{}
}

func (g *PgEmployeeRepository) buildFilters(params *employee.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}

	if params.AreaID != nil {
		args = append(args, *params.AreaID)
		where = append(where, fmt.Sprintf("e.area_id = $%d", len(args)))
	}
	if params.Status != nil {
		args = append(args, string(*params.Status))
		where = append(where, fmt.Sprintf("e.status = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+strings.ToLower(params.Search)+"%")
		where = append(where, fmt.Sprintf(
			"(LOWER(e.login) LIKE $%d OR LOWER(e.first_name || ' ' || e.last_name) LIKE $%d)",
			len(args), len(args),
		))
	}
	return where, args
}

func (g *PgEmployeeRepository) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]*employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*employee.Employee
	for rows.Next() {
		var r models.Employee
		if err := rows.Scan(
			&r.ID,
			&r.TenantID,
			&r.Login,
			&r.FirstName,
			&r.LastName,
			&r.Email,
			&r.Position,
			&r.AreaID,
			&r.Status,
			&r.HiredAt,
			&r.TerminatedAt,
			&r.CreatedAt,
			&r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entities = append(entities, employee.Hydrate(
			r.ID,
			r.TenantID,
			r.Login,
			r.FirstName,
			r.LastName,
			r.Email,
			r.Position,
			r.AreaID,
			employee.Status(r.Status),
			r.HiredAt,
			r.TerminatedAt,
			r.CreatedAt,
			r.UpdatedAt,
		))
	}
	return entities, rows.Err()
}

func (g *PgEmployeeRepository) Count(ctx context.Context, params *employee.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := g.buildFilters(params)
	var count int64
	err = tx.QueryRow(
		ctx,
		countEmployeeQuery+" WHERE "+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	return count, err
}

func (g *PgEmployeeRepository) GetPaginated(ctx context.Context, params *employee.FindParams) ([]*employee.Employee, error) {
	where, args := g.buildFilters(params)
	query := selectEmployeeQuery + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY e.last_name, e.first_name " +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	return g.queryEmployees(ctx, query, args...)
}

func (g *PgEmployeeRepository) GetByID(ctx context.Context, id uint) (*employee.Employee, error) {
	entities, err := g.queryEmployees(ctx, selectEmployeeQuery+" WHERE e.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrEmployeeNotFound
	}
	return entities[0], nil
}

func (g *PgEmployeeRepository) GetByLogin(ctx context.Context, login string) (*employee.Employee, error) {
	entities, err := g.queryEmployees(ctx, selectEmployeeQuery+" WHERE LOWER(e.login) = LOWER($1)", login)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrEmployeeNotFound
	}
	return entities[0], nil
}

func (g *PgEmployeeRepository) Create(ctx context.Context, data *employee.Employee) (*employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var id uint
	err = tx.QueryRow(
		ctx,
		insertEmployeeQuery,
		tenantID,
		data.Login(),
		data.FirstName(),
		data.LastName(),
		data.Email(),
		data.Position(),
		data.AreaID(),
		string(data.Status()),
		data.HiredAt(),
		now,
		now,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return g.GetByID(ctx, id)
}

func (g *PgEmployeeRepository) Update(ctx context.Context, data *employee.Employee) (*employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	cmd, err := tx.Exec(
		ctx,
		updateEmployeeQuery,
		data.FirstName(),
		data.LastName(),
		data.Email(),
		data.Position(),
		data.AreaID(),
		string(data.Status()),
		data.TerminatedAt(),
		time.Now(),
		data.ID(),
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrEmployeeNotFound
	}
	return g.GetByID(ctx, data.ID())
}

func (g *PgEmployeeRepository) ActiveLogins(ctx context.Context) ([]string, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, activeEmployeeLoginsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logins []string
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, err
		}
		logins = append(logins, login)
	}
	return logins, rows.Err()
}
