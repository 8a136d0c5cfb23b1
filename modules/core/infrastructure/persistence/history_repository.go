package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/core/domain/entities/history"
	"github.com/grupovertice/intranet/modules/core/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/composables"
)

const (
	insertHistoryQuery = `
		INSERT INTO history_records (
			id, tenant_id, subject_kind, subject_id, actor_id, action,
			from_state_id, to_state_id, from_area_id, to_area_id,
			from_assignee_id, to_assignee_id, note, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	selectHistoryQuery = `
		SELECT id, tenant_id, subject_kind, subject_id, actor_id, action,
			from_state_id, to_state_id, from_area_id, to_area_id,
			from_assignee_id, to_assignee_id, note, created_at
		FROM history_records
		WHERE subject_kind = $1 AND subject_id = $2
		ORDER BY created_at, id`

	countHistoryQuery = `
		SELECT COUNT(*) FROM history_records
		WHERE subject_kind = $1 AND subject_id = $2`
)

type PgHistoryRepository struct{}

func NewHistoryRepository() history.Repository {
	return &PgHistoryRepository{}
}

func (g *PgHistoryRepository) Create(ctx context.Context, data *history.Record) (*history.Record, error) {
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
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = time.Now()
	}

	_, err = tx.Exec(
		ctx,
		insertHistoryQuery,
		entity.ID,
		entity.TenantID,
		string(entity.SubjectKind),
		entity.SubjectID,
		entity.ActorID,
		string(entity.Action),
		entity.FromStateID,
		entity.ToStateID,
		entity.FromAreaID,
		entity.ToAreaID,
		entity.FromAssigneeID,
		entity.ToAssigneeID,
		entity.Note,
		entity.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (g *PgHistoryRepository) ListForSubject(ctx context.Context, kind history.SubjectKind, subjectID uuid.UUID) ([]*history.Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectHistoryQuery, string(kind), subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*history.Record
	for rows.Next() {
		var r models.HistoryRecord
		if err := rows.Scan(
			&r.ID,
			&r.TenantID,
			&r.SubjectKind,
			&r.SubjectID,
			&r.ActorID,
			&r.Action,
			&r.FromStateID,
			&r.ToStateID,
			&r.FromAreaID,
			&r.ToAreaID,
			&r.FromAssigneeID,
			&r.ToAssigneeID,
			&r.Note,
			&r.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, toDomainHistoryRecord(&r))
	}
	return records, rows.Err()
}

func (g *PgHistoryRepository) CountForSubject(ctx context.Context, kind history.SubjectKind, subjectID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countHistoryQuery, string(kind), subjectID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
