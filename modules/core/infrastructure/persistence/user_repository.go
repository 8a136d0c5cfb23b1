package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/grupovertice/intranet/modules/core/domain/aggregates/user"
	"github.com/grupovertice/intranet/modules/core/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/access"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/repo"
)

var ErrUserNotFound = errors.New("user not found")

const (
	selectUserQuery = `
		SELECT id, tenant_id, email, first_name, last_name, area_id, active, created_at, updated_at
		FROM users u`

	countUserQuery = `SELECT COUNT(*) FROM users u`

	insertUserQuery = `
		INSERT INTO users (tenant_id, email, first_name, last_name, area_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	updateUserQuery = `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, area_id = $4, active = $5, updated_at = $6
		WHERE id = $7 AND tenant_id = $8`

	// Effective permission names: direct grants unioned with role grants.
	userPermissionNamesQuery = `
		SELECT p.name
		FROM permissions p
		JOIN user_permissions up ON up.permission_id = p.id
		WHERE up.user_id = $1
		UNION
		SELECT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1`

	hasRoleAssignmentsQuery = `SELECT EXISTS (SELECT 1 FROM user_roles)`
)

type PgUserRepository struct{}

func NewUserRepository() user.Repository {
	return &PgUserRepository{}
}

func (g *PgUserRepository) buildFilters(params *user.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}

	if params.AreaID != nil {
		args = append(args, *params.AreaID)
		where = append(where, fmt.Sprintf("u.area_id = $%d", len(args)))
	}
	if params.Active != nil {
		args = append(args, *params.Active)
		where = append(where, fmt.Sprintf("u.active = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+strings.ToLower(params.Search)+"%")
		where = append(where, fmt.Sprintf(
			"(LOWER(u.email) LIKE $%d OR LOWER(u.first_name || ' ' || u.last_name) LIKE $%d)",
			len(args), len(args),
		))
	}
	return where, args
}

func (g *PgUserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dbRows []*models.User
	for rows.Next() {
		var r models.User
		if err := rows.Scan(
			&r.ID,
			&r.TenantID,
			&r.Email,
			&r.FirstName,
			&r.LastName,
			&r.AreaID,
			&r.Active,
			&r.CreatedAt,
			&r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		dbRows = append(dbRows, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entities := make([]user.User, 0, len(dbRows))
	for _, r := range dbRows {
		perms, err := g.permissionsFor(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		entities = append(entities, toDomainUser(r, perms))
	}
	return entities, nil
}

func (g *PgUserRepository) permissionsFor(ctx context.Context, userID uint) (access.PermissionSet, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, userPermissionNamesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return access.NewPermissionSet(names...), nil
}

func (g *PgUserRepository) Count(ctx context.Context, params *user.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := g.buildFilters(params)
	var count int64
	err = tx.QueryRow(
		ctx,
		countUserQuery+" WHERE "+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (g *PgUserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	where, args := g.buildFilters(params)
	query := selectUserQuery + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY u.last_name, u.first_name " +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	return g.queryUsers(ctx, query, args...)
}

func (g *PgUserRepository) GetByID(ctx context.Context, id uint) (user.User, error) {
	entities, err := g.queryUsers(ctx, selectUserQuery+" WHERE u.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrUserNotFound
	}
	return entities[0], nil
}

func (g *PgUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	entities, err := g.queryUsers(ctx, selectUserQuery+" WHERE LOWER(u.email) = LOWER($1)", email)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrUserNotFound
	}
	return entities[0], nil
}

func (g *PgUserRepository) ListByArea(ctx context.Context, areaID uint) ([]user.User, error) {
	return g.queryUsers(ctx, selectUserQuery+" WHERE u.area_id = $1 AND u.active", areaID)
}

func (g *PgUserRepository) ListWithPermission(ctx context.Context, permName string) ([]user.User, error) {
	query := selectUserQuery + ` WHERE u.active AND u.id IN (
		SELECT up.user_id
		FROM user_permissions up
		JOIN permissions p ON p.id = up.permission_id
		WHERE p.name = $1
		UNION
		SELECT ur.user_id
		FROM user_roles ur
		JOIN role_permissions rp ON rp.role_id = ur.role_id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE p.name = $1
	)`
	return g.queryUsers(ctx, query, permName)
}

func (g *PgUserRepository) HasRoleAssignments(ctx context.Context) (bool, error) {
	pool, err := composables.UsePool(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := pool.QueryRow(ctx, hasRoleAssignmentsQuery).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (g *PgUserRepository) Create(ctx context.Context, data user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	dbRow := toDBUser(data)
	now := time.Now()
	var id uint
	err = tx.QueryRow(
		ctx,
		insertUserQuery,
		tenantID,
		dbRow.Email,
		dbRow.FirstName,
		dbRow.LastName,
		dbRow.AreaID,
		dbRow.Active,
		now,
		now,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return g.GetByID(ctx, id)
}

func (g *PgUserRepository) Update(ctx context.Context, data user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	dbRow := toDBUser(data)
	cmd, err := tx.Exec(
		ctx,
		updateUserQuery,
		dbRow.Email,
		dbRow.FirstName,
		dbRow.LastName,
		dbRow.AreaID,
		dbRow.Active,
		time.Now(),
		dbRow.ID,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}
	return g.GetByID(ctx, dbRow.ID)
}
