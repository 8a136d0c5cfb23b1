package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupovertice/intranet/modules/core/domain/aggregates/user"
	"github.com/grupovertice/intranet/modules/core/domain/entities/notification"
	"github.com/grupovertice/intranet/modules/core/domain/events"
	"github.com/grupovertice/intranet/pkg/access"
	"github.com/grupovertice/intranet/pkg/composables"
)

type stubTx struct {
	pgx.Tx
}

func (stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func testContext() context.Context {
	return composables.WithTx(context.Background(), stubTx{})
}

type mockUserRepo struct {
	user.Repository
	byArea map[uint][]user.User
	byPerm map[string][]user.User
	err    error
}

func (m *mockUserRepo) ListByArea(ctx context.Context, areaID uint) ([]user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byArea[areaID], nil
}

func (m *mockUserRepo) ListWithPermission(ctx context.Context, permName string) ([]user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byPerm[permName], nil
}

type mockNotificationRepo struct {
	notification.Repository
	created []*notification.Notification
	failFor map[uint]error
}

func (m *mockNotificationRepo) Create(ctx context.Context, data *notification.Notification) (*notification.Notification, error) {
	if err, ok := m.failFor[data.UserID]; ok {
		return nil, err
	}
	m.created = append(m.created, data)
	return data, nil
}

func testUser(id uint) user.User {
	return user.Hydrate(
		id,
		uuid.New(),
		"user@example.com",
		"Test",
		"User",
		nil,
		true,
		access.NewPermissionSet(),
		time.Time{},
		time.Time{},
	)
}

func newEvent(action string) events.EntityEvent {
	ev := events.NewEntityEvent(uuid.New(), "ticket", uuid.New(), action)
	ev.Message = "test message"
	return ev
}

func TestFanoutDeliversToAreaAndPermissionWithoutDuplicates(t *testing.T) {
	areaID := uint(4)
	users := &mockUserRepo{
		byArea: map[uint][]user.User{
			areaID: {testUser(1), testUser(2)},
		},
		byPerm: map[string][]user.User{
			"tickets.manage_all": {testUser(2), testUser(3)},
		},
	}
	notifications := &mockNotificationRepo{}
	svc := NewFanoutService(users, notifications, logrus.New())

	ev := newEvent("state_change")
	ev.NotifyAreaID = &areaID
	ev.NotifyPermission = "tickets.manage_all"
	ev.NotifyUserIDs = []uint{3, 5}

	report, err := svc.Deliver(testContext(), ev)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Recipients)
	assert.Equal(t, 5, report.Delivered)
	assert.Empty(t, report.Failures)
	assert.Len(t, notifications.created, 5)
}

func TestFanoutExcludesActor(t *testing.T) {
	areaID := uint(4)
	users := &mockUserRepo{
		byArea: map[uint][]user.User{
			areaID: {testUser(1), testUser(2)},
		},
	}
	notifications := &mockNotificationRepo{}
	svc := NewFanoutService(users, notifications, logrus.New())

	ev := newEvent("assignment")
	ev.NotifyAreaID = &areaID
	ev.ActorID = 2
	ev.ExcludeActor = true

	report, err := svc.Deliver(testContext(), ev)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Recipients)
	require.Len(t, notifications.created, 1)
	assert.Equal(t, uint(1), notifications.created[0].UserID)
}

func TestFanoutIsolatesPerRecipientFailures(t *testing.T) {
	areaID := uint(4)
	users := &mockUserRepo{
		byArea: map[uint][]user.User{
			areaID: {testUser(1), testUser(2), testUser(3)},
		},
	}
	notifications := &mockNotificationRepo{
		failFor: map[uint]error{2: errors.New("insert failed")},
	}
	svc := NewFanoutService(users, notifications, logrus.New())

	ev := newEvent("comment")
	ev.NotifyAreaID = &areaID

	report, err := svc.Deliver(testContext(), ev)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Recipients)
	assert.Equal(t, 2, report.Delivered)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, uint(2), report.Failures[0].UserID)
	assert.Len(t, notifications.created, 2)
}

func TestFanoutResolutionFailurePropagates(t *testing.T) {
	areaID := uint(4)
	users := &mockUserRepo{err: errors.New("query failed")}
	svc := NewFanoutService(users, &mockNotificationRepo{}, logrus.New())

	ev := newEvent("state_change")
	ev.NotifyAreaID = &areaID

	_, err := svc.Deliver(testContext(), ev)
	require.Error(t, err)
}

func TestFanoutNotificationFields(t *testing.T) {
	users := &mockUserRepo{}
	notifications := &mockNotificationRepo{}
	svc := NewFanoutService(users, notifications, logrus.New())

	ev := newEvent("escalation")
	ev.NotifyUserIDs = []uint{9}

	_, err := svc.Deliver(testContext(), ev)
	require.NoError(t, err)
	require.Len(t, notifications.created, 1)
	n := notifications.created[0]
	assert.Equal(t, ev.TenantID, n.TenantID)
	assert.Equal(t, "escalation", n.Kind)
	assert.Equal(t, "ticket", n.SubjectKind)
	assert.Equal(t, ev.SubjectID, n.SubjectID)
	assert.Equal(t, "test message", n.Message)
}
