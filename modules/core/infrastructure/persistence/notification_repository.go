package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/core/domain/entities/notification"
	"github.com/grupovertice/intranet/modules/core/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/repo"
)

var ErrNotificationNotFound = errors.New("notification not found")

const (
	insertNotificationQuery = `
		INSERT INTO notifications (
			id, tenant_id, user_id, kind, subject_kind, subject_id, message, read, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)`

	selectNotificationQuery = `
		SELECT id, tenant_id, user_id, kind, subject_kind, subject_id, message, read, read_at, created_at
		FROM notifications
		WHERE user_id = $1`

	countUnreadQuery = `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`

	markReadQuery = `
		UPDATE notifications SET read = true, read_at = $1
		WHERE id = $2 AND user_id = $3 AND NOT read`

	markAllReadQuery = `
		UPDATE notifications SET read = true, read_at = $1
		WHERE user_id = $2 AND NOT read`
)

type PgNotificationRepository struct{}

func NewNotificationRepository() notification.Repository {
	return &PgNotificationRepository{}
}

func (g *PgNotificationRepository) Create(ctx context.Context, data *notification.Notification) (*notification.Notification, error) {
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
		insertNotificationQuery,
		entity.ID,
		entity.TenantID,
		entity.UserID,
		entity.Kind,
		entity.SubjectKind,
		entity.SubjectID,
		entity.Message,
		entity.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (g *PgNotificationRepository) ListForUser(ctx context.Context, userID uint, params *notification.FindParams) ([]*notification.Notification, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := selectNotificationQuery
	if params.UnreadOnly {
		query += " AND NOT read"
	}
	query += " ORDER BY created_at DESC " + repo.FormatLimitOffset(params.Limit, params.Offset)

	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*notification.Notification
	for rows.Next() {
		var r models.Notification
		if err := rows.Scan(
			&r.ID,
			&r.TenantID,
			&r.UserID,
			&r.Kind,
			&r.SubjectKind,
			&r.SubjectID,
			&r.Message,
			&r.Read,
			&r.ReadAt,
			&r.CreatedAt,
		); err != nil {
			return nil, err
		}
		entities = append(entities, toDomainNotification(&r))
	}
	return entities, rows.Err()
}

func (g *PgNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countUnreadQuery, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (g *PgNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, userID uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, markReadQuery, time.Now(), id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (g *PgNotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, markAllReadQuery, time.Now(), userID)
	return err
}
