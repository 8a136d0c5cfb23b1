package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/grupovertice/intranet/modules/core/domain/entities/role"
	"github.com/grupovertice/intranet/modules/core/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/composables"
)

var ErrRoleNotFound = errors.New("role not found")

const (
	selectRoleQuery = `
		SELECT id, tenant_id, name, description, created_at, updated_at
		FROM roles`

	insertRoleQuery = `
		INSERT INTO roles (tenant_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	assignRoleQuery = `
		INSERT INTO user_roles (role_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	removeRoleQuery = `DELETE FROM user_roles WHERE role_id = $1 AND user_id = $2`

	rolePermissionNamesQuery = `
		SELECT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.name`
)

type PgRoleRepository struct{}

func NewRoleRepository() role.Repository {
	return &PgRoleRepository{}
}

func (g *PgRoleRepository) queryRoles(ctx context.Context, query string, args ...interface{}) ([]*role.Role, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*role.Role
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		entities = append(entities, toDomainRole(&r))
	}
	return entities, rows.Err()
}

func (g *PgRoleRepository) GetAll(ctx context.Context) ([]*role.Role, error) {
	return g.queryRoles(ctx, selectRoleQuery+" ORDER BY name")
}

func (g *PgRoleRepository) GetByID(ctx context.Context, id uint) (*role.Role, error) {
	entities, err := g.queryRoles(ctx, selectRoleQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrRoleNotFound
	}
	return entities[0], nil
}

func (g *PgRoleRepository) Create(ctx context.Context, data *role.Role) (*role.Role, error) {
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
	err = tx.QueryRow(ctx, insertRoleQuery, tenantID, data.Name, data.Description, now, now).Scan(&id)
	if err != nil {
		return nil, err
	}
	return g.GetByID(ctx, id)
}

func (g *PgRoleRepository) AssignToUser(ctx context.Context, roleID, userID uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, assignRoleQuery, roleID, userID)
	return err
}

func (g *PgRoleRepository) RemoveFromUser(ctx context.Context, roleID, userID uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, removeRoleQuery, roleID, userID)
	return err
}

func (g *PgRoleRepository) PermissionNames(ctx context.Context, roleID uint) ([]string, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, rolePermissionNamesQuery, roleID)
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
	return names, rows.Err()
}
