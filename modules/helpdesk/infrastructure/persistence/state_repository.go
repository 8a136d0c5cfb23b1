package persistence

import (
	"context"
	"errors"

	"github.com/grupovertice/intranet/modules/helpdesk/domain/entities/state"
	"github.com/grupovertice/intranet/modules/helpdesk/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/composables"
)

var (
	ErrStateNotFound       = errors.New("workflow state not found")
	ErrCancelStateNotFound = errors.New("no cancel state configured")
)

const selectStateQuery = `
	SELECT id, tenant_id, name, is_final, is_cancel, sort_order
	FROM workflow_states`

type PgStateRepository struct{}

func NewStateRepository() state.Repository {
	return &PgStateRepository{}
}

func (g *PgStateRepository) queryStates(ctx context.Context, query string, args ...interface{}) ([]*state.State, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*state.State
	for rows.Next() {
		var r models.State
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Name, &r.IsFinal, &r.IsCancel, &r.SortOrder); err != nil {
			return nil, err
		}
		entities = append(entities, &state.State{
			ID:        r.ID,
			TenantID:  r.TenantID,
			Name:      r.Name,
			IsFinal:   r.IsFinal,
			IsCancel:  r.IsCancel,
			SortOrder: r.SortOrder,
		})
	}
	return entities, rows.Err()
}

func (g *PgStateRepository) GetAll(ctx context.Context) ([]*state.State, error) {
	return g.queryStates(ctx, selectStateQuery+" ORDER BY sort_order, id")
}

func (g *PgStateRepository) GetByID(ctx context.Context, id uint) (*state.State, error) {
	entities, err := g.queryStates(ctx, selectStateQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrStateNotFound
	}
	return entities[0], nil
}

func (g *PgStateRepository) GetCancelState(ctx context.Context) (*state.State, error) {
	entities, err := g.queryStates(ctx, selectStateQuery+" WHERE is_cancel ORDER BY id LIMIT 1")
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrCancelStateNotFound
	}
	return entities[0], nil
}
