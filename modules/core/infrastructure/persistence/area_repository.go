package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/grupovertice/intranet/modules/core/domain/entities/area"
	"github.com/grupovertice/intranet/modules/core/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/composables"
)

var ErrAreaNotFound = errors.New("area not found")

const (
	selectAreaQuery = `
		SELECT id, tenant_id, name, active, created_at, updated_at
		FROM areas`

	insertAreaQuery = `
		INSERT INTO areas (tenant_id, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	updateAreaQuery = `
		UPDATE areas SET name = $1, active = $2, updated_at = $3
		WHERE id = $4 AND tenant_id = $5`
)

type PgAreaRepository struct{}

func NewAreaRepository() area.Repository {
	return &PgAreaRepository{}
}

func (g *PgAreaRepository) queryAreas(ctx context.Context, query string, args ...interface{}) ([]*area.Area, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*area.Area
	for rows.Next() {
		var r models.Area
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Name, &r.Active, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		entities = append(entities, toDomainArea(&r))
	}
	return entities, rows.Err()
}

func (g *PgAreaRepository) GetAll(ctx context.Context) ([]*area.Area, error) {
	return g.queryAreas(ctx, selectAreaQuery+" ORDER BY name")
}

func (g *PgAreaRepository) GetByID(ctx context.Context, id uint) (*area.Area, error) {
	entities, err := g.queryAreas(ctx, selectAreaQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrAreaNotFound
	}
	return entities[0], nil
}

func (g *PgAreaRepository) Create(ctx context.Context, data *area.Area) (*area.Area, error) {
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
	err = tx.QueryRow(ctx, insertAreaQuery, tenantID, data.Name, data.Active, now, now).Scan(&id)
	if err != nil {
		return nil, err
	}
	return g.GetByID(ctx, id)
}

func (g *PgAreaRepository) Update(ctx context.Context, data *area.Area) (*area.Area, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	cmd, err := tx.Exec(ctx, updateAreaQuery, data.Name, data.Active, time.Now(), data.ID, tenantID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrAreaNotFound
	}
	return g.GetByID(ctx, data.ID)
}
