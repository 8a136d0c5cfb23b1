package authz

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, mode Mode) *Service {
	t.Helper()
	root := filepath.Join("testdata")
	svc, err := NewService(Config{
		ModelPath:  filepath.Join(root, "model.conf"),
		PolicyPath: filepath.Join(root, "policy.csv"),
		Mode:       mode,
	})
	require.NoError(t, err)
	return svc
}

func TestServiceAuthorize(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	req := NewRequest(
		SubjectForUser(uuid.Nil, 7),
		DomainFromTenant(uuid.Nil),
		ObjectName("helpdesk", "tickets"),
		"list",
	)
	require.NoError(t, svc.Authorize(context.Background(), req))
}

func TestServiceAuthorizeDenied(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	req := NewRequest(
		SubjectForUser(uuid.Nil, 7),
		DomainFromTenant(uuid.Nil),
		ObjectName("sigua", "certificates"),
		"list",
	)
	require.Error(t, svc.Authorize(context.Background(), req))
}

func TestServiceActionWildcard(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	req := NewRequest(
		SubjectForUser(uuid.Nil, 8),
		DomainFromTenant(uuid.Nil),
		ObjectName("sigua", "certificates"),
		"renew",
	)
	require.NoError(t, svc.Authorize(context.Background(), req))
}

func TestServiceShadowModeAllows(t *testing.T) {
	svc := newTestService(t, ModeShadow)
	req := NewRequest(
		SubjectForUser(uuid.Nil, 999),
		DomainFromTenant(uuid.Nil),
		ObjectName("helpdesk", "tickets"),
		"edit",
	)
	require.NoError(t, svc.Authorize(context.Background(), req))
}

func TestServiceBootstrapWindowAllows(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	svc.SetBootstrapped(false)

	req := NewRequest(
		SubjectForUser(uuid.Nil, 999),
		DomainFromTenant(uuid.Nil),
		ObjectName("sigua", "certificates"),
		"list",
	)
	require.NoError(t, svc.Authorize(context.Background(), req))

	svc.SetBootstrapped(true)
	require.Error(t, svc.Authorize(context.Background(), req))
}

func TestSubjectAndObjectNames(t *testing.T) {
	require.Equal(t, "tenant:global:user:7", SubjectForUser(uuid.Nil, 7))
	require.Equal(t, "tenant:global:user:anonymous", SubjectForUser(uuid.Nil, 0))
	require.Equal(t, "role:mesa_ayuda", SubjectForRole("Mesa_Ayuda"))
	require.Equal(t, "helpdesk.tickets", ObjectName("HelpDesk", "Tickets"))
	require.Equal(t, "*", NormalizeAction("  "))
}
