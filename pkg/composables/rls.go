package composables

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ApplyTenantRLS pins the current tenant on the transaction so row-level
// security policies can reference app.current_tenant. A missing tenant is not
// an error: background jobs run without one and scope queries explicitly.
func ApplyTenantRLS(ctx context.Context, tx pgx.Tx) error {
	tenantID, err := UseTenantID(ctx)
	if err != nil {
		return nil
	}
	if _, err := tx.Exec(ctx, "SELECT set_config('app.current_tenant', $1, true)", tenantID.String()); err != nil {
		return fmt.Errorf("failed to set rls tenant context: %w", err)
	}
	return nil
}
