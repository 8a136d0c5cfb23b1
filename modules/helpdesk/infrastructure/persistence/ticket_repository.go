package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/helpdesk/domain/aggregates/ticket"
	"github.com/grupovertice/intranet/modules/helpdesk/domain/entities/state"
	"github.com/grupovertice/intranet/modules/helpdesk/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/repo"
)

var ErrTicketNotFound = errors.New("ticket not found")

const (
	selectTicketQuery = `
		SELECT t.id, t.tenant_id, t.folio, t.title, t.description, t.requester_id,
			t.area_id, t.assignee_id, t.state_id,
			s.name, s.is_final, s.is_cancel, s.sort_order,
			t.created_at, t.updated_at
		FROM tickets t
		JOIN workflow_states s ON s.id = t.state_id`

	countTicketQuery = `SELECT COUNT(*) FROM tickets t`

	insertTicketQuery = `
		INSERT INTO tickets (
			id, tenant_id, folio, title, description, requester_id,
			area_id, assignee_id, state_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	updateTicketQuery = `
		UPDATE tickets
		SET title = $1, description = $2, area_id = $3, assignee_id = $4,
			state_id = $5, updated_at = $6
		WHERE id = $7 AND tenant_id = $8`

	ticketGrantQuery = `
		INSERT INTO ticket_area_grants (ticket_id, area_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	ticketGrantsQuery = `
		SELECT area_id FROM ticket_area_grants WHERE ticket_id = $1 ORDER BY area_id`

	nextTicketFolioQuery = `SELECT nextval('ticket_folio_seq')`
)

type PgTicketRepository struct{}

func NewTicketRepository() ticket.Repository {
	return &PgTicketRepository{}
}

func (g *PgTicketRepository) buildFilters(params *ticket.FindParams) ([]string, []interface{}) {
	var args []interface{}
	where := []string{scopeCondition(
		params.Filter, "t", "requester_id", "ticket_area_grants", "ticket_id", &args,
	)}

	if params.StateID != nil {
		args = append(args, *params.StateID)
		where = append(where, fmt.Sprintf("t.state_id = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+strings.ToLower(params.Search)+"%")
		where = append(where, fmt.Sprintf(
			"(LOWER(t.title) LIKE $%d OR LOWER(t.folio) LIKE $%d)", len(args), len(args),
		))
	}
	return where, args
}

func (g *PgTicketRepository) queryTickets(ctx context.Context, query string, args ...interface{}) ([]*ticket.Ticket, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type rowWithState struct {
		row models.Ticket
		st  state.State
	}
	var dbRows []rowWithState
	for rows.Next() {
		var r rowWithState
		if err := rows.Scan(
			&r.row.ID,
			&r.row.TenantID,
			&r.row.Folio,
			&r.row.Title,
			&r.row.Description,
			&r.row.RequesterID,
			&r.row.AreaID,
			&r.row.AssigneeID,
			&r.row.StateID,
			&r.st.Name,
			&r.st.IsFinal,
			&r.st.IsCancel,
			&r.st.SortOrder,
			&r.row.CreatedAt,
			&r.row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		r.st.ID = r.row.StateID
		r.st.TenantID = r.row.TenantID
		dbRows = append(dbRows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entities := make([]*ticket.Ticket, 0, len(dbRows))
	for i := range dbRows {
		r := &dbRows[i]
		grants, err := g.areaGrants(ctx, r.row.ID)
		if err != nil {
			return nil, err
		}
		st := r.st
		entities = append(entities, ticket.Hydrate(
			r.row.ID,
			r.row.TenantID,
			r.row.Folio,
			r.row.Title,
			r.row.Description,
			r.row.RequesterID,
			r.row.AreaID,
			r.row.AssigneeID,
			&st,
			grants,
			r.row.CreatedAt,
			r.row.UpdatedAt,
		))
	}
	return entities, nil
}

func (g *PgTicketRepository) areaGrants(ctx context.Context, id uuid.UUID) ([]uint, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, ticketGrantsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []uint
	for rows.Next() {
		var areaID uint
		if err := rows.Scan(&areaID); err != nil {
			return nil, err
		}
		grants = append(grants, areaID)
	}
	return grants, rows.Err()
}

func (g *PgTicketRepository) Count(ctx context.Context, params *ticket.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := g.buildFilters(params)
	var count int64
	err = tx.QueryRow(
		ctx,
		countTicketQuery+" WHERE "+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	return count, err
}

func (g *PgTicketRepository) GetPaginated(ctx context.Context, params *ticket.FindParams) ([]*ticket.Ticket, error) {
	where, args := g.buildFilters(params)
	query := selectTicketQuery + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY t.created_at DESC " +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	return g.queryTickets(ctx, query, args...)
}

func (g *PgTicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	entities, err := g.queryTickets(ctx, selectTicketQuery+" WHERE t.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrTicketNotFound
	}
	return entities[0], nil
}

func (g *PgTicketRepository) Create(ctx context.Context, data *ticket.Ticket) (*ticket.Ticket, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(
		ctx,
		insertTicketQuery,
		data.ID(),
		tenantID,
		data.Folio(),
		data.Title(),
		data.Description(),
		data.RequesterID(),
		data.AreaID(),
		data.AssigneeID(),
		data.State().ID,
		data.CreatedAt(),
		data.UpdatedAt(),
	)
	if err != nil {
		return nil, err
	}
	return g.GetByID(ctx, data.ID())
}

func (g *PgTicketRepository) Update(ctx context.Context, data *ticket.Ticket) (*ticket.Ticket, error) {
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
		updateTicketQuery,
		data.Title(),
		data.Description(),
		data.AreaID(),
		data.AssigneeID(),
		data.State().ID,
		time.Now(),
		data.ID(),
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrTicketNotFound
	}
	for _, areaID := range data.GrantedAreaIDs() {
		if err := g.AddAreaGrant(ctx, data.ID(), areaID); err != nil {
			return nil, err
		}
	}
	return g.GetByID(ctx, data.ID())
}

func (g *PgTicketRepository) AddAreaGrant(ctx context.Context, id uuid.UUID, areaID uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, ticketGrantQuery, id, areaID)
	return err
}

func (g *PgTicketRepository) NextFolio(ctx context.Context) (string, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return "", err
	}
	var n int64
	if err := tx.QueryRow(ctx, nextTicketFolioQuery).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("TK-%06d", n), nil
}
