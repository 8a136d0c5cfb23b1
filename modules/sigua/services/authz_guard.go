package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/pkg/authz"
	"github.com/grupovertice/intranet/pkg/composables"
)

// authorizeSigua is swappable so service tests can bypass the enforcer.
var authorizeSigua = func(ctx context.Context, resource, action string) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		tenantID = uuid.Nil
	}
	var userID uint
	if u, err := composables.UseUser(ctx); err == nil {
		userID = u.ID()
	}
	req := authz.NewRequest(
		authz.SubjectForUser(tenantID, userID),
		authz.DomainFromTenant(tenantID),
		authz.ObjectName("sigua", resource),
		action,
	)
	return authz.Use().Authorize(ctx, req)
}
