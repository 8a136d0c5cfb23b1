package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupovertice/intranet/modules/core/domain/aggregates/user"
	"github.com/grupovertice/intranet/modules/core/domain/entities/history"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/helpdesk/domain/aggregates/ticket"
	"github.com/grupovertice/intranet/modules/helpdesk/domain/entities/state"
	"github.com/grupovertice/intranet/pkg/access"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/outbox"
	"github.com/grupovertice/intranet/pkg/repo"
)

type stubTx struct {
	pgx.Tx
}

func (stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

var testTenantID = uuid.MustParse("2b1f7c30-9f14-4a14-8a3b-6c2e5d8f9a01")

func bypassAuthz(t *testing.T) {
	t.Helper()
	original := authorizeHelpdesk
	authorizeHelpdesk = func(ctx context.Context, resource, action string) error {
		return nil
	}
	t.Cleanup(func() {
		authorizeHelpdesk = original
	})
}

func ctxWithUser(u user.User) context.Context {
	ctx := composables.WithTx(context.Background(), stubTx{})
	ctx = composables.WithTenantID(ctx, testTenantID)
	return composables.WithUser(ctx, u)
}

func staffUser(id uint, areaID uint, perms ...string) user.User {
	return user.Hydrate(
		id, testTenantID, fmt.Sprintf("staff%d@example.com", id), "Staff", "User",
		&areaID, true, access.NewPermissionSet(perms...), time.Time{}, time.Time{},
	)
}

func requesterUser(id uint) user.User {
	return user.Hydrate(
		id, testTenantID, fmt.Sprintf("req%d@example.com", id), "Req", "User",
		nil, true, access.NewPermissionSet("tickets.view_own"), time.Time{}, time.Time{},
	)
}

type mockTicketRepo struct {
	tickets map[uuid.UUID]*ticket.Ticket
	folio   int
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{tickets: make(map[uuid.UUID]*ticket.Ticket)}
}

func (m *mockTicketRepo) Count(ctx context.Context, params *ticket.FindParams) (int64, error) {
	entities, err := m.GetPaginated(ctx, params)
	return int64(len(entities)), err
}

func (m *mockTicketRepo) GetPaginated(ctx context.Context, params *ticket.FindParams) ([]*ticket.Ticket, error) {
	var out []*ticket.Ticket
	for _, t := range m.tickets {
		if params.Filter.Match(t.View()) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTicketRepo) GetByID(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket not found")
	}
	return t, nil
}

func (m *mockTicketRepo) Create(ctx context.Context, data *ticket.Ticket) (*ticket.Ticket, error) {
	m.tickets[data.ID()] = data
	return data, nil
}

func (m *mockTicketRepo) Update(ctx context.Context, data *ticket.Ticket) (*ticket.Ticket, error) {
	m.tickets[data.ID()] = data
	return data, nil
}

func (m *mockTicketRepo) AddAreaGrant(ctx context.Context, id uuid.UUID, areaID uint) error {
	return nil
}

func (m *mockTicketRepo) NextFolio(ctx context.Context) (string, error) {
	m.folio++
	return fmt.Sprintf("TK-%06d", m.folio), nil
}

type mockStateRepo struct {
	states []*state.State
}

func workflowStates() *mockStateRepo {
	return &mockStateRepo{states: []*state.State{
		{ID: 1, Name: "Open", SortOrder: 1},
		{ID: 2, Name: "In Progress", SortOrder: 2},
		{ID: 3, Name: "Resolved", IsFinal: true, SortOrder: 3},
		{ID: 4, Name: "Cancelled", IsFinal: true, IsCancel: true, SortOrder: 4},
	}}
}

func (m *mockStateRepo) GetAll(ctx context.Context) ([]*state.State, error) {
	return m.states, nil
}

func (m *mockStateRepo) GetByID(ctx context.Context, id uint) (*state.State, error) {
	for _, st := range m.states {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, fmt.Errorf("state not found")
}

func (m *mockStateRepo) GetCancelState(ctx context.Context) (*state.State, error) {
	for _, st := range m.states {
		if st.IsCancel {
			return st, nil
		}
	}
	return nil, fmt.Errorf("no cancel state")
}

type mockHistoryRepo struct {
	records []*history.Record
}

func (m *mockHistoryRepo) Create(ctx context.Context, data *history.Record) (*history.Record, error) {
	m.records = append(m.records, data)
	return data, nil
}

func (m *mockHistoryRepo) ListForSubject(ctx context.Context, kind history.SubjectKind, subjectID uuid.UUID) ([]*history.Record, error) {
	var out []*history.Record
	for _, r := range m.records {
		if r.SubjectKind == kind && r.SubjectID == subjectID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockHistoryRepo) CountForSubject(ctx context.Context, kind history.SubjectKind, subjectID uuid.UUID) (int64, error) {
	records, _ := m.ListForSubject(ctx, kind, subjectID)
	return int64(len(records)), nil
}

type mockOutboxPublisher struct {
	messages []outbox.Message
}

func (m *mockOutboxPublisher) Enqueue(ctx context.Context, tx repo.Tx, table pgx.Identifier, msg outbox.Message) (int64, error) {
	m.messages = append(m.messages, msg)
	return int64(len(m.messages)), nil
}

type ticketFixture struct {
	svc       *TicketService
	tickets   *mockTicketRepo
	histories *mockHistoryRepo
	outbox    *mockOutboxPublisher
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	bypassAuthz(t)
	tickets := newMockTicketRepo()
	histories := &mockHistoryRepo{}
	ob := &mockOutboxPublisher{}
	svc := NewTicketService(tickets, workflowStates(), histories, coreservices.NewEventPublisher(ob))
	return &ticketFixture{svc: svc, tickets: tickets, histories: histories, outbox: ob}
}

func agentPerms() []string {
	return []string{"tickets.view_area", "tickets.change_status", "tickets.assign", "tickets.escalate", "tickets.comment"}
}

func TestTicketLifecycleGrowsHistoryByOnePerMutation(t *testing.T) {
	f := newTicketFixture(t)
	areaID := uint(5)
	agent := staffUser(10, areaID, agentPerms()...)
	ctx := ctxWithUser(agent)

	created, err := f.svc.Create(ctx, CreateTicketInput{Title: "printer down", AreaID: &areaID})
	require.NoError(t, err)
	count, _ := f.histories.CountForSubject(ctx, history.KindTicket, created.ID())
	assert.EqualValues(t, 1, count)

	_, err = f.svc.Assign(ctx, created.ID(), 11)
	require.NoError(t, err)
	count, _ = f.histories.CountForSubject(ctx, history.KindTicket, created.ID())
	assert.EqualValues(t, 2, count)

	_, err = f.svc.ChangeStatus(ctx, created.ID(), 2, "working on it")
	require.NoError(t, err)
	count, _ = f.histories.CountForSubject(ctx, history.KindTicket, created.ID())
	assert.EqualValues(t, 3, count)

	_, err = f.svc.Escalate(ctx, created.ID(), 8, "needs networking")
	require.NoError(t, err)
	count, _ = f.histories.CountForSubject(ctx, history.KindTicket, created.ID())
	assert.EqualValues(t, 4, count)

	assert.Len(t, f.outbox.messages, 4)
}

func TestTicketEscalationKeepsPreviousAreaVisibility(t *testing.T) {
	f := newTicketFixture(t)
	areaID := uint(5)
	agent := staffUser(10, areaID, agentPerms()...)
	ctx := ctxWithUser(agent)

	created, err := f.svc.Create(ctx, CreateTicketInput{Title: "vpn broken", AreaID: &areaID})
	require.NoError(t, err)

	_, err = f.svc.Escalate(ctx, created.ID(), 8, "")
	require.NoError(t, err)

	got, err := f.svc.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Contains(t, got.GrantedAreaIDs(), areaID)
	require.NotNil(t, got.AreaID())
	assert.Equal(t, uint(8), *got.AreaID())
}

func TestTicketGetByIDOutsideScopeIsForbidden(t *testing.T) {
	f := newTicketFixture(t)
	areaID := uint(5)
	owner := staffUser(10, areaID, agentPerms()...)

	created, err := f.svc.Create(ctxWithUser(owner), CreateTicketInput{Title: "secret", AreaID: &areaID})
	require.NoError(t, err)

	otherArea := uint(9)
	outsider := staffUser(20, otherArea, agentPerms()...)
	_, err = f.svc.GetByID(ctxWithUser(outsider), created.ID())
	require.ErrorIs(t, err, access.ErrForbidden)
}

func TestTicketChangeStatusOnFinalStateConflicts(t *testing.T) {
	f := newTicketFixture(t)
	areaID := uint(5)
	agent := staffUser(10, areaID, agentPerms()...)
	ctx := ctxWithUser(agent)

	created, err := f.svc.Create(ctx, CreateTicketInput{Title: "done soon", AreaID: &areaID})
	require.NoError(t, err)

	_, err = f.svc.ChangeStatus(ctx, created.ID(), 3, "resolved")
	require.NoError(t, err)

	_, err = f.svc.ChangeStatus(ctx, created.ID(), 2, "reopen")
	require.ErrorIs(t, err, access.ErrConflictState)
}

func TestRequesterCancelUnassignedTicket(t *testing.T) {
	f := newTicketFixture(t)
	areaID := uint(5)
	requester := requesterUser(30)
	ctx := ctxWithUser(requester)

	created, err := f.svc.Create(ctx, CreateTicketInput{Title: "nevermind", AreaID: &areaID})
	require.NoError(t, err)

	cancelled, err := f.svc.RequesterCancel(ctx, created.ID(), "solved it myself")
	require.NoError(t, err)
	assert.True(t, cancelled.State().IsCancel)

	records, _ := f.histories.ListForSubject(ctx, history.KindTicket, created.ID())
	require.Len(t, records, 2)
	assert.Equal(t, history.ActionStateChange, records[1].Action)
	require.NotNil(t, records[1].ToStateID)
	assert.Equal(t, cancelled.State().ID, *records[1].ToStateID)
}

func TestRequesterCancelAssignedTicketForbidden(t *testing.T) {
	f := newTicketFixture(t)
	areaID := uint(5)
	requester := requesterUser(30)

	created, err := f.svc.Create(ctxWithUser(requester), CreateTicketInput{Title: "in flight", AreaID: &areaID})
	require.NoError(t, err)

	agent := staffUser(10, areaID, agentPerms()...)
	_, err = f.svc.Assign(ctxWithUser(agent), created.ID(), 11)
	require.NoError(t, err)

	_, err = f.svc.RequesterCancel(ctxWithUser(requester), created.ID(), "")
	require.ErrorIs(t, err, access.ErrForbidden)
}

func TestRequesterCancelByOtherUserForbidden(t *testing.T) {
	f := newTicketFixture(t)
	areaID := uint(5)
	requester := requesterUser(30)

	created, err := f.svc.Create(ctxWithUser(requester), CreateTicketInput{Title: "mine", AreaID: &areaID})
	require.NoError(t, err)

	stranger := requesterUser(31)
	_, err = f.svc.RequesterCancel(ctxWithUser(stranger), created.ID(), "")
	require.ErrorIs(t, err, access.ErrForbidden)
}

func TestRequesterCancelFinalTicketConflicts(t *testing.T) {
	f := newTicketFixture(t)
	areaID := uint(5)
	requester := requesterUser(30)

	created, err := f.svc.Create(ctxWithUser(requester), CreateTicketInput{Title: "late", AreaID: &areaID})
	require.NoError(t, err)

	agent := staffUser(10, areaID, agentPerms()...)
	_, err = f.svc.ChangeStatus(ctxWithUser(agent), created.ID(), 3, "resolved")
	require.NoError(t, err)

	_, err = f.svc.RequesterCancel(ctxWithUser(requester), created.ID(), "")
	require.ErrorIs(t, err, access.ErrConflictState)
}

func TestRequesterCommentRaisesAreaAlert(t *testing.T) {
	f := newTicketFixture(t)
	areaID := uint(5)
	requester := requesterUser(30)
	ctx := ctxWithUser(requester)

	created, err := f.svc.Create(ctx, CreateTicketInput{Title: "any update?", AreaID: &areaID})
	require.NoError(t, err)

	require.NoError(t, f.svc.Comment(ctx, created.ID(), "still waiting"))

	records, _ := f.histories.ListForSubject(ctx, history.KindTicket, created.ID())
	require.Len(t, records, 2)
	assert.Equal(t, history.ActionRequesterComment, records[1].Action)
	require.Len(t, f.outbox.messages, 2)
}

func TestManageAllBypassesAreaScoping(t *testing.T) {
	f := newTicketFixture(t)
	areaID := uint(5)
	requester := requesterUser(30)

	created, err := f.svc.Create(ctxWithUser(requester), CreateTicketInput{Title: "anywhere", AreaID: &areaID})
	require.NoError(t, err)

	admin := staffUser(99, 1, "tickets.manage_all")
	got, err := f.svc.GetByID(ctxWithUser(admin), created.ID())
	require.NoError(t, err)
	assert.Equal(t, created.ID(), got.ID())

	_, err = f.svc.Assign(ctxWithUser(admin), created.ID(), 12)
	require.NoError(t, err)
}
