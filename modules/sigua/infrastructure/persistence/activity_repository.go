package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/sigua/domain/entities/activity"
	"github.com/grupovertice/intranet/modules/sigua/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/repo"
)

const (
	selectContextsQuery = `
		SELECT id, tenant_id, name, manager_id, tolerance_days, active
		FROM activity_contexts
		WHERE active
		ORDER BY id`

	insertEntryQuery = `
		INSERT INTO activity_entries (id, tenant_id, context_id, actor_id, detail, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	lastEntryQuery = `
		SELECT MAX(recorded_at) FROM activity_entries WHERE context_id = $1`

	selectEntriesQuery = `
		SELECT id, tenant_id, context_id, actor_id, detail, recorded_at
		FROM activity_entries
		WHERE context_id = $1
		ORDER BY recorded_at DESC`
)

type PgActivityRepository struct{}

func NewActivityRepository() activity.Repository {
	return &PgActivityRepository{}
}

func (g *PgActivityRepository) GetContexts(ctx context.Context) ([]*activity.Context, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectContextsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*activity.Context
	for rows.Next() {
		var r models.ActivityContext
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Name, &r.ManagerID, &r.ToleranceDays, &r.Active); err != nil {
			return nil, err
		}
		entities = append(entities, &activity.Context{
			ID:            r.ID,
			TenantID:      r.TenantID,
			Name:          r.Name,
			ManagerID:     r.ManagerID,
			ToleranceDays: r.ToleranceDays,
			Active:        r.Active,
		})
	}
	return entities, rows.Err()
}

func (g *PgActivityRepository) Record(ctx context.Context, data *activity.Entry) (*activity.Entry, error) {
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
	if entity.RecordedAt.IsZero() {
		entity.RecordedAt = time.Now()
	}

	_, err = tx.Exec(
		ctx,
		insertEntryQuery,
		entity.ID,
		entity.TenantID,
		entity.ContextID,
		entity.ActorID,
		entity.Detail,
		entity.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (g *PgActivityRepository) LastEntryAt(ctx context.Context, contextID uint) (time.Time, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	var last *time.Time
	if err := tx.QueryRow(ctx, lastEntryQuery, contextID).Scan(&last); err != nil {
		return time.Time{}, false, err
	}
	if last == nil {
		return time.Time{}, false, nil
	}
	return *last, true, nil
}

func (g *PgActivityRepository) ListEntries(ctx context.Context, contextID uint, limit, offset int) ([]*activity.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectEntriesQuery+" "+repo.FormatLimitOffset(limit, offset), contextID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*activity.Entry
	for rows.Next() {
		var r models.ActivityEntry
		if err := rows.Scan(&r.ID, &r.TenantID, &r.ContextID, &r.ActorID, &r.Detail, &r.RecordedAt); err != nil {
			return nil, err
		}
		entities = append(entities, &activity.Entry{
			ID:         r.ID,
			TenantID:   r.TenantID,
			ContextID:  r.ContextID,
			ActorID:    r.ActorID,
			Detail:     r.Detail,
			RecordedAt: r.RecordedAt,
		})
	}
	return entities, rows.Err()
}
