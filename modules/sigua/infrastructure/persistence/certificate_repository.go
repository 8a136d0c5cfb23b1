package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/sigua/domain/entities/certificate"
	"github.com/grupovertice/intranet/modules/sigua/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/repo"
)

var ErrCertificateNotFound = errors.New("certificate not found")

const (
	selectCertificateQuery = `
		SELECT id, tenant_id, manager_id, campaign, site, system, status,
			issued_at, expires_at, created_at, updated_at
		FROM certificates c`

	countCertificateQuery = `SELECT COUNT(*) FROM certificates c`

	insertCertificateQuery = `
		INSERT INTO certificates (
			id, tenant_id, manager_id, campaign, site, system, status,
			issued_at, expires_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	updateCertificateQuery = `
		UPDATE certificates
		SET status = $1, issued_at = $2, expires_at = $3, updated_at = $4
		WHERE id = $5 AND tenant_id = $6`

	expireAllDueQuery = `
		UPDATE certificates
		SET status = 'expired', updated_at = $1
		WHERE status = 'valid' AND expires_at < $2
		RETURNING id, tenant_id, manager_id, campaign, site, system, status,
			issued_at, expires_at, created_at, updated_at`

	expiringWithinQuery = selectCertificateQuery + `
		WHERE c.status = 'valid' AND c.expires_at >= $1 AND c.expires_at <= $2
		ORDER BY c.expires_at`
)

type PgCertificateRepository struct{}

func NewCertificateRepository() certificate.Repository {
	return &PgCertificateRepository{}
}

func scanCertificate(scan func(dest ...any) error) (*certificate.Certificate, error) {
	var r models.Certificate
	if err := scan(
		&r.ID,
		&r.TenantID,
		&r.ManagerID,
		&r.Campaign,
		&r.Site,
		&r.System,
		&r.Status,
		&r.IssuedAt,
		&r.ExpiresAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &certificate.Certificate{
		ID:        r.ID,
		TenantID:  r.TenantID,
		ManagerID: r.ManagerID,
		Campaign:  r.Campaign,
		Site:      r.Site,
		System:    r.System,
		Status:    certificate.Status(r.Status),
		IssuedAt:  r.IssuedAt,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func (g *PgCertificateRepository) queryCertificates(ctx context.Context, query string, args ...interface{}) ([]*certificate.Certificate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*certificate.Certificate
	for rows.Next() {
		entity, err := scanCertificate(rows.Scan)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

func (g *PgCertificateRepository) buildFilters(params *certificate.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}
	if params.ManagerID != nil {
		args = append(args, *params.ManagerID)
		where = append(where, fmt.Sprintf("c.manager_id = $%d", len(args)))
	}
	if params.Status != nil {
		args = append(args, string(*params.Status))
		where = append(where, fmt.Sprintf("c.status = $%d", len(args)))
	}
	return where, args
}

func (g *PgCertificateRepository) Count(ctx context.Context, params *certificate.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := g.buildFilters(params)
	var count int64
	err = tx.QueryRow(
		ctx,
		countCertificateQuery+" WHERE "+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	return count, err
}

func (g *PgCertificateRepository) GetPaginated(ctx context.Context, params *certificate.FindParams) ([]*certificate.Certificate, error) {
	where, args := g.buildFilters(params)
	query := selectCertificateQuery + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY c.expires_at " +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	return g.queryCertificates(ctx, query, args...)
}

func (g *PgCertificateRepository) GetByID(ctx context.Context, id uuid.UUID) (*certificate.Certificate, error) {
	entities, err := g.queryCertificates(ctx, selectCertificateQuery+" WHERE c.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrCertificateNotFound
	}
	return entities[0], nil
}

func (g *PgCertificateRepository) FindValid(ctx context.Context, managerID uint, campaign, site, system string) (*certificate.Certificate, error) {
	entities, err := g.queryCertificates(
		ctx,
		selectCertificateQuery+` WHERE c.status = 'valid'
			AND c.manager_id = $1 AND c.campaign = $2 AND c.site = $3 AND c.system = $4`,
		managerID, campaign, site, system,
	)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrCertificateNotFound
	}
	return entities[0], nil
}

func (g *PgCertificateRepository) Create(ctx context.Context, data *certificate.Certificate) (*certificate.Certificate, error) {
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
	now := time.Now()
	entity.CreatedAt = now
	entity.UpdatedAt = now

	_, err = tx.Exec(
		ctx,
		insertCertificateQuery,
		entity.ID,
		entity.TenantID,
		entity.ManagerID,
		entity.Campaign,
		entity.Site,
		entity.System,
		string(entity.Status),
		entity.IssuedAt,
		entity.ExpiresAt,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (g *PgCertificateRepository) Update(ctx context.Context, data *certificate.Certificate) (*certificate.Certificate, error) {
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
		updateCertificateQuery,
		string(data.Status),
		data.IssuedAt,
		data.ExpiresAt,
		time.Now(),
		data.ID,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrCertificateNotFound
	}
	return g.GetByID(ctx, data.ID)
}

func (g *PgCertificateRepository) ExpireAllDue(ctx context.Context, before time.Time) ([]*certificate.Certificate, error) {
	return g.queryCertificates(ctx, expireAllDueQuery, time.Now(), before)
}

func (g *PgCertificateRepository) ListExpiringWithin(ctx context.Context, from, until time.Time) ([]*certificate.Certificate, error) {
	return g.queryCertificates(ctx, expiringWithinQuery, from, until)
}
