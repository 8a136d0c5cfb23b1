package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/sigua/domain/aggregates/account"
	"github.com/grupovertice/intranet/modules/sigua/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/access"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/repo"
)

var ErrAccountNotFound = errors.New("account not found")

const (
	selectAccountQuery = `
		SELECT a.id, a.tenant_id, a.login, a.system, a.campaign, a.site,
			a.manager_id, a.area_id, a.status, a.created_at, a.updated_at
		FROM access_accounts a`

	countAccountQuery = `SELECT COUNT(*) FROM access_accounts a`

	insertAccountQuery = `
		INSERT INTO access_accounts (
			id, tenant_id, login, system, campaign, site, manager_id, area_id,
			status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	updateAccountQuery = `
		UPDATE access_accounts
		SET status = $1, manager_id = $2, area_id = $3, updated_at = $4
		WHERE id = $5 AND tenant_id = $6`

	activeLoginsQuery = `
		SELECT DISTINCT login FROM access_accounts WHERE status = 'active' ORDER BY login`
)

type PgAccountRepository struct{}

func NewAccountRepository() account.Repository {
	return &PgAccountRepository{}
}

// accountScopeCondition mirrors access.Filter.Match for accounts, whose
// owner is the vouching manager and which carry no historical grants.
func accountScopeCondition(filter access.Filter, args *[]interface{}) string {
	switch filter.Scope {
	case access.ScopeAll:
		return "TRUE"
	case access.ScopeArea:
		if filter.AreaID == nil {
			return "FALSE"
		}
		*args = append(*args, *filter.AreaID)
		return fmt.Sprintf("a.area_id = $%d", len(*args))
	case access.ScopeAreaOwn:
		if filter.AreaID == nil {
			*args = append(*args, filter.ActorID)
			return fmt.Sprintf("a.manager_id = $%d", len(*args))
		}
		*args = append(*args, *filter.AreaID, filter.ActorID)
		return fmt.Sprintf("(a.area_id = $%d OR a.manager_id = $%d)", len(*args)-1, len(*args))
	case access.ScopeOwn:
		*args = append(*args, filter.ActorID)
		return fmt.Sprintf("a.manager_id = $%d", len(*args))
	default:
		return "FALSE"
	}
}

func (g *PgAccountRepository) buildFilters(params *account.FindParams) ([]string, []interface{}) {
	var args []interface{}
	where := []string{accountScopeCondition(params.Filter, &args)}

	if params.System != "" {
		args = append(args, params.System)
		where = append(where, fmt.Sprintf("a.system = $%d", len(args)))
	}
	if params.Campaign != "" {
		args = append(args, params.Campaign)
		where = append(where, fmt.Sprintf("a.campaign = $%d", len(args)))
	}
	if params.Status != nil {
		args = append(args, string(*params.Status))
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)))
	}
	return where, args
}

func (g *PgAccountRepository) queryAccounts(ctx context.Context, query string, args ...interface{}) ([]*account.Account, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*account.Account
	for rows.Next() {
		var r models.Account
		if err := rows.Scan(
			&r.ID,
			&r.TenantID,
			&r.Login,
			&r.System,
			&r.Campaign,
			&r.Site,
			&r.ManagerID,
			&r.AreaID,
			&r.Status,
			&r.CreatedAt,
			&r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entities = append(entities, account.Hydrate(
			r.ID,
			r.TenantID,
			r.Login,
			r.System,
			r.Campaign,
			r.Site,
			r.ManagerID,
			r.AreaID,
			account.Status(r.Status),
			r.CreatedAt,
			r.UpdatedAt,
		))
	}
	return entities, rows.Err()
}

func (g *PgAccountRepository) Count(ctx context.Context, params *account.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := g.buildFilters(params)
	var count int64
	err = tx.QueryRow(
		ctx,
		countAccountQuery+" WHERE "+strings.Join(where, " AND "),
		args...,
	).Scan(&count)
	return count, err
}

func (g *PgAccountRepository) GetPaginated(ctx context.Context, params *account.FindParams) ([]*account.Account, error) {
	where, args := g.buildFilters(params)
	query := selectAccountQuery + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY a.login " +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	return g.queryAccounts(ctx, query, args...)
}

func (g *PgAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	entities, err := g.queryAccounts(ctx, selectAccountQuery+" WHERE a.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrAccountNotFound
	}
	return entities[0], nil
}

func (g *PgAccountRepository) Create(ctx context.Context, data *account.Account) (*account.Account, error) {
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
		insertAccountQuery,
		data.ID(),
		tenantID,
		data.Login(),
		data.System(),
		data.Campaign(),
		data.Site(),
		data.ManagerID(),
		data.AreaID(),
		string(data.Status()),
		data.CreatedAt(),
		data.UpdatedAt(),
	)
	if err != nil {
		return nil, err
	}
	return g.GetByID(ctx, data.ID())
}

func (g *PgAccountRepository) Update(ctx context.Context, data *account.Account) (*account.Account, error) {
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
		updateAccountQuery,
		string(data.Status()),
		data.ManagerID(),
		data.AreaID(),
		time.Now(),
		data.ID(),
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrAccountNotFound
	}
	return g.GetByID(ctx, data.ID())
}

func (g *PgAccountRepository) ActiveLogins(ctx context.Context) ([]string, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, activeLoginsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logins []string
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, err
		}
		logins = append(logins, login)
	}
	return logins, rows.Err()
}

func (g *PgAccountRepository) ListByLogins(ctx context.Context, logins []string) ([]*account.Account, error) {
	if len(logins) == 0 {
		return nil, nil
	}
	return g.queryAccounts(
		ctx,
		selectAccountQuery+" WHERE a.status = 'active' AND a.login = ANY($1) ORDER BY a.login",
		logins,
	)
}
