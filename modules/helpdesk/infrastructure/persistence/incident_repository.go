package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/helpdesk/domain/aggregates/incident"
	"github.com/grupovertice/intranet/modules/helpdesk/domain/entities/state"
	"github.com/grupovertice/intranet/modules/helpdesk/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/repo"
)

var ErrIncidentNotFound = errors.New("incident not found")

const (
	selectIncidentQuery = `
		SELECT i.id, i.tenant_id, i.folio, i.title, i.description, i.severity,
			i.reporter_id, i.area_id, i.assignee_id, i.state_id,
			s.name, s.is_final, s.is_cancel, s.sort_order,
			i.created_at, i.updated_at
		FROM incidents i
		JOIN workflow_states s ON s.id = i.state_id`

	countIncidentQuery = `SELECT COUNT(*) FROM incidents i`

	insertIncidentQuery = `
		INSERT INTO incidents (
			id, tenant_id, folio, title, description, severity, reporter_id,
			area_id, assignee_id, state_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	updateIncidentQuery = `
		UPDATE incidents
		SET title = $1, description = $2, severity = $3, area_id = $4,
			assignee_id = $5, state_id = $6, updated_at = $7
		WHERE id = $8 AND tenant_id = $9`

	incidentGrantQuery = `
		INSERT INTO incident_area_grants (incident_id, area_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	incidentGrantsQuery = `
		SELECT area_id FROM incident_area_grants WHERE incident_id = $1 ORDER BY area_id`

	nextIncidentFolioQuery = `SELECT nextval('incident_folio_seq')`
)

type PgIncidentRepository struct{}

func NewIncidentRepository() incident.Repository {
	return &PgIncidentRepository{}
}

func (g *PgIncidentRepository) buildFilters(params *incident.FindParams) ([]string, []interface{}) {
	var args []interface{}
	where := []string{scopeCondition(
		params.Filter, "i", "reporter_id", "incident_area_grants", "incident_id", &args,
	)}

	if params.StateID != nil {
		args = append(args, *params.StateID)
		where = append(where, fmt.Sprintf("i.state_id = $%d", len(args)))
	}
	if params.Severity != nil {
		args = append(args, string(*params.Severity))
		where = append(where, fmt.Sprintf("i.severity = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+strings.ToLower(params.Search)+"%")
		where = append(where, fmt.Sprintf(
			"(LOWER(i.title) LIKE $%d OR LOWER(i.folio) LIKE $%d)", len(args), len(args),
		))
	}
	return where, args
}

func (g *PgIncidentRepository) queryIncidents(ctx context.Context, query string, args ...interface{}) ([]*incident.Incident, error) {
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
		row models.Incident
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
			&r.row.Severity,
			&r.row.ReporterID,
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

	entities := make([]*incident.Incident, 0, len(dbRows))
	for i := range dbRows {
		r := &dbRows[i]
		grants, err := g.areaGrants(ctx, r.row.ID)
		if err != nil {
			return nil, err
		}
		st := r.st
		entities = append(entities, incident.Hydrate(
			r.row.ID,
			r.row.TenantID,
			r.row.Folio,
			r.row.Title,
			r.row.Description,
			incident.Severity(r.row.Severity),
			r.row.ReporterID,
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

func (g *PgIncidentRepository) areaGrants(ctx context.Context, id uuid.UUID) ([]uint, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, incidentGrantsQuery, id)
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

func (g *PgIncidentRepository) Count(ctx context.Context, params *incident.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := g.buildFilters(params)
	var count int64
	err = tx.QueryRow(
		ctx,
		countIncidentQuery+" WHERE "+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	return count, err
}

func (g *PgIncidentRepository) GetPaginated(ctx context.Context, params *incident.FindParams) ([]*incident.Incident, error) {
	where, args := g.buildFilters(params)
	query := selectIncidentQuery + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY i.created_at DESC " +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	return g.queryIncidents(ctx, query, args...)
}

func (g *PgIncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	entities, err := g.queryIncidents(ctx, selectIncidentQuery+" WHERE i.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrIncidentNotFound
	}
	return entities[0], nil
}

func (g *PgIncidentRepository) Create(ctx context.Context, data *incident.Incident) (*incident.Incident, error) {
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
		insertIncidentQuery,
		data.ID(),
		tenantID,
		data.Folio(),
		data.Title(),
		data.Description(),
		string(data.Severity()),
		data.ReporterID(),
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

func (g *PgIncidentRepository) Update(ctx context.Context, data *incident.Incident) (*incident.Incident, error) {
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
		updateIncidentQuery,
		data.Title(),
		data.Description(),
		string(data.Severity()),
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
		return nil, ErrIncidentNotFound
	}
	for _, areaID := range data.GrantedAreaIDs() {
		if err := g.AddAreaGrant(ctx, data.ID(), areaID); err != nil {
			return nil, err
		}
	}
	return g.GetByID(ctx, data.ID())
}

func (g *PgIncidentRepository) AddAreaGrant(ctx context.Context, id uuid.UUID, areaID uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, incidentGrantQuery, id, areaID)
	return err
}

func (g *PgIncidentRepository) NextFolio(ctx context.Context) (string, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return "", err
	}
	var n int64
	if err := tx.QueryRow(ctx, nextIncidentFolioQuery).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("IN-%06d", n), nil
}
