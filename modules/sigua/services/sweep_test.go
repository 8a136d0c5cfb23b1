package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupovertice/intranet/modules/core/domain/events"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/sigua/domain/aggregates/account"
	"github.com/grupovertice/intranet/modules/sigua/domain/entities/activity"
	"github.com/grupovertice/intranet/modules/sigua/domain/entities/certificate"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/outbox"
	"github.com/grupovertice/intranet/pkg/repo"
	"github.com/grupovertice/intranet/pkg/schedule"
)

type stubTx struct {
	pgx.Tx
}

func (stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

var sweepTenantID = uuid.MustParse("7f3e2a10-5b6c-4d8e-9f01-2a3b4c5d6e7f")

func sweepContext() context.Context {
	return composables.WithTx(context.Background(), stubTx{})
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

type mockOutboxPublisher struct {
	messages []outbox.Message
	rejectIf func(msg outbox.Message) error
}

func (m *mockOutboxPublisher) Enqueue(ctx context.Context, tx repo.Tx, table pgx.Identifier, msg outbox.Message) (int64, error) {
	if m.rejectIf != nil {
		if err := m.rejectIf(msg); err != nil {
			return 0, err
		}
	}
	m.messages = append(m.messages, msg)
	return int64(len(m.messages)), nil
}

func (m *mockOutboxPublisher) decoded(t *testing.T) []events.EntityEvent {
	t.Helper()
	out := make([]events.EntityEvent, 0, len(m.messages))
	for _, msg := range m.messages {
		var ev events.EntityEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		out = append(out, ev)
	}
	return out
}

type mockCertificateRepo struct {
	certificate.Repository

	due      []*certificate.Certificate
	upcoming []*certificate.Certificate
}

func (m *mockCertificateRepo) ExpireAllDue(ctx context.Context, before time.Time) ([]*certificate.Certificate, error) {
	var out []*certificate.Certificate
	for _, c := range m.due {
		if c.ExpiresAt.Before(before) {
			c.Status = certificate.StatusExpired
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCertificateRepo) ListExpiringWithin(ctx context.Context, from, until time.Time) ([]*certificate.Certificate, error) {
	var out []*certificate.Certificate
	for _, c := range m.upcoming {
		if !c.ExpiresAt.Before(from) && !c.ExpiresAt.After(until) {
			out = append(out, c)
		}
	}
	return out, nil
}

func sweptCertificate(managerID uint, campaign string, expiresAt time.Time) *certificate.Certificate {
	return &certificate.Certificate{
		ID:        uuid.New(),
		TenantID:  sweepTenantID,
		ManagerID: managerID,
		Campaign:  campaign,
		Site:      "madrid",
		System:    "dialer",
		Status:    certificate.StatusValid,
		IssuedAt:  expiresAt.AddDate(0, -3, 0),
		ExpiresAt: expiresAt,
	}
}

func TestCertificateSweepPublishesExpiryAndHorizonEvents(t *testing.T) {
	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	certs := &mockCertificateRepo{
		due: []*certificate.Certificate{
			sweptCertificate(11, "acme", now.AddDate(0, 0, -1)),
			sweptCertificate(12, "globex", now.AddDate(0, 0, -40)),
		},
		upcoming: []*certificate.Certificate{
			sweptCertificate(13, "initech", now.AddDate(0, 0, 10)),
		},
	}
	ob := &mockOutboxPublisher{}
	sweep := NewCertificateSweep(certs, coreservices.NewEventPublisher(ob), clockwork.NewFakeClockAt(now), 15, quietLogger())

	result, err := sweep.RunOnce(sweepContext())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Expired)
	assert.Equal(t, 1, result.Upcoming)

	evs := ob.decoded(t)
	require.Len(t, evs, 3)
	assert.Equal(t, "expired", evs[0].Action)
	assert.Equal(t, "expired", evs[1].Action)
	assert.Equal(t, "expiring", evs[2].Action)
	assert.Equal(t, []uint{11}, evs[0].NotifyUserIDs)
	assert.Equal(t, "certificates.view", evs[0].NotifyPermission)
	assert.Contains(t, evs[2].Message, now.AddDate(0, 0, 10).Format("2006-01-02"))
	for _, msg := range ob.messages {
		assert.Equal(t, events.TopicCertificateEvent, msg.Topic)
	}
}

func TestCertificateSweepKeepsTodaysCertificatesValid(t *testing.T) {
	now := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	stillValid := sweptCertificate(11, "acme", today)
	certs := &mockCertificateRepo{
		due:      []*certificate.Certificate{stillValid},
		upcoming: []*certificate.Certificate{stillValid},
	}
	ob := &mockOutboxPublisher{}
	sweep := NewCertificateSweep(certs, coreservices.NewEventPublisher(ob), clockwork.NewFakeClockAt(now), 15, quietLogger())

	result, err := sweep.RunOnce(sweepContext())
	require.NoError(t, err)
	assert.Zero(t, result.Expired)
	assert.Equal(t, 1, result.Upcoming)
	assert.Equal(t, certificate.StatusValid, stillValid.Status)

	evs := ob.decoded(t)
	require.Len(t, evs, 1)
	assert.Equal(t, "expiring", evs[0].Action)
}

func TestCertificateSweepRejectedEventSkipsOnlyThatCertificate(t *testing.T) {
	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	certs := &mockCertificateRepo{
		due: []*certificate.Certificate{
			sweptCertificate(11, "acme", now.AddDate(0, 0, -1)),
			sweptCertificate(12, "globex", now.AddDate(0, 0, -2)),
		},
	}
	ob := &mockOutboxPublisher{rejectIf: func(msg outbox.Message) error {
		if bytes.Contains(msg.Payload, []byte("acme")) {
			return errors.New("payload too large")
		}
		return nil
	}}
	sweep := NewCertificateSweep(certs, coreservices.NewEventPublisher(ob), clockwork.NewFakeClockAt(now), 15, quietLogger())

	result, err := sweep.RunOnce(sweepContext())
	require.Error(t, err)
	assert.Equal(t, 2, result.Expired)
	assert.Equal(t, 1, result.Errors)

	evs := ob.decoded(t)
	require.Len(t, evs, 1)
	assert.Contains(t, evs[0].Message, "globex")
}

func TestCertificateSweepEventIDsAreStableAcrossRuns(t *testing.T) {
	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	certs := &mockCertificateRepo{
		due: []*certificate.Certificate{sweptCertificate(11, "acme", now.AddDate(0, 0, -1))},
	}
	ob := &mockOutboxPublisher{}
	sweep := NewCertificateSweep(certs, coreservices.NewEventPublisher(ob), clockwork.NewFakeClockAt(now), 15, quietLogger())

	_, err := sweep.RunOnce(sweepContext())
	require.NoError(t, err)
	_, err = sweep.RunOnce(sweepContext())
	require.NoError(t, err)

	require.Len(t, ob.messages, 2)
	// Same certificate, same expiry date: the outbox dedupes on this ID.
	assert.Equal(t, ob.messages[0].EventID, ob.messages[1].EventID)
}

type mockAccountSweepRepo struct {
	account.Repository

	accounts []*account.Account
}

func (m *mockAccountSweepRepo) ActiveLogins(ctx context.Context) ([]string, error) {
	logins := make([]string, 0, len(m.accounts))
	for _, a := range m.accounts {
		logins = append(logins, a.Login())
	}
	return logins, nil
}

func (m *mockAccountSweepRepo) ListByLogins(ctx context.Context, logins []string) ([]*account.Account, error) {
	wanted := make(map[string]struct{}, len(logins))
	for _, l := range logins {
		wanted[l] = struct{}{}
	}
	var out []*account.Account
	for _, a := range m.accounts {
		if _, ok := wanted[a.Login()]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

type staticRoster []string

func (r staticRoster) ActiveLogins(ctx context.Context) ([]string, error) {
	return r, nil
}

type failingRoster struct{}

func (failingRoster) ActiveLogins(ctx context.Context) ([]string, error) {
	return nil, errors.New("hr export unavailable")
}

func sweptAccount(tenantID uuid.UUID, login string) *account.Account {
	return account.New(tenantID, login, "dialer", "acme", "madrid", 7, nil)
}

func TestOrphanSweepDiffIsCaseInsensitive(t *testing.T) {
	otherTenant := uuid.MustParse("9c8b7a60-1234-4cde-8f90-abcdef012345")
	accounts := &mockAccountSweepRepo{accounts: []*account.Account{
		sweptAccount(sweepTenantID, "jdoe"),
		sweptAccount(sweepTenantID, "MSMITH"),
		sweptAccount(sweepTenantID, "zghost"),
		sweptAccount(otherTenant, "aghost"),
	}}
	roster := staticRoster{"JDoe", "msmith"}
	ob := &mockOutboxPublisher{}
	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	sweep := NewOrphanSweep(accounts, roster, coreservices.NewEventPublisher(ob), nil, time.Hour, clockwork.NewFakeClockAt(now), quietLogger())

	result, err := sweep.RunOnce(sweepContext())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Checked)
	assert.Equal(t, []string{"aghost", "zghost"}, result.Orphans)

	evs := ob.decoded(t)
	require.Len(t, evs, 2)
	byTenant := map[uuid.UUID]events.EntityEvent{}
	for _, ev := range evs {
		byTenant[ev.TenantID] = ev
	}
	require.Contains(t, byTenant, sweepTenantID)
	require.Contains(t, byTenant, otherTenant)
	assert.Contains(t, byTenant[sweepTenantID].Message, "zghost")
	assert.Contains(t, byTenant[otherTenant].Message, "aghost")
	assert.Equal(t, "orphan_summary", byTenant[sweepTenantID].Action)
	assert.Equal(t, "accounts.manage_all", byTenant[sweepTenantID].NotifyPermission)
}

func TestOrphanSweepPublishesNothingWhenRosterCoversEverything(t *testing.T) {
	accounts := &mockAccountSweepRepo{accounts: []*account.Account{
		sweptAccount(sweepTenantID, "jdoe"),
	}}
	ob := &mockOutboxPublisher{}
	sweep := NewOrphanSweep(accounts, staticRoster{"jdoe"}, coreservices.NewEventPublisher(ob), nil, time.Hour, nil, quietLogger())

	result, err := sweep.RunOnce(sweepContext())
	require.NoError(t, err)
	assert.Empty(t, result.Orphans)
	assert.Empty(t, ob.messages)
}

func TestOrphanSweepRosterFailureAborts(t *testing.T) {
	accounts := &mockAccountSweepRepo{accounts: []*account.Account{
		sweptAccount(sweepTenantID, "jdoe"),
	}}
	ob := &mockOutboxPublisher{}
	sweep := NewOrphanSweep(accounts, failingRoster{}, coreservices.NewEventPublisher(ob), nil, time.Hour, nil, quietLogger())

	_, err := sweep.RunOnce(sweepContext())
	require.Error(t, err)
	assert.Empty(t, ob.messages)
}

func TestOrphanSweepRejectedSummaryKeepsOtherTenants(t *testing.T) {
	otherTenant := uuid.MustParse("9c8b7a60-1234-4cde-8f90-abcdef012345")
	accounts := &mockAccountSweepRepo{accounts: []*account.Account{
		sweptAccount(sweepTenantID, "zghost"),
		sweptAccount(otherTenant, "aghost"),
	}}
	ob := &mockOutboxPublisher{rejectIf: func(msg outbox.Message) error {
		if bytes.Contains(msg.Payload, []byte("zghost")) {
			return errors.New("tenant outbox unavailable")
		}
		return nil
	}}
	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	sweep := NewOrphanSweep(accounts, staticRoster{}, coreservices.NewEventPublisher(ob), nil, time.Hour, clockwork.NewFakeClockAt(now), quietLogger())

	result, err := sweep.RunOnce(sweepContext())
	require.Error(t, err)
	assert.Equal(t, []string{"aghost", "zghost"}, result.Orphans)
	assert.Equal(t, 1, result.Errors)

	evs := ob.decoded(t)
	require.Len(t, evs, 1)
	assert.Equal(t, otherTenant, evs[0].TenantID)
	assert.Contains(t, evs[0].Message, "aghost")
}

func TestOrphanSweepCachedCountWithoutRedis(t *testing.T) {
	sweep := NewOrphanSweep(&mockAccountSweepRepo{}, staticRoster{}, nil, nil, time.Hour, nil, quietLogger())

	count, ok, err := sweep.CachedOrphanCount(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, count)
}

type mockActivityRepo struct {
	activity.Repository

	contexts []*activity.Context
	lastAt   map[uint]time.Time
	failFor  map[uint]error
}

func (m *mockActivityRepo) GetContexts(ctx context.Context) ([]*activity.Context, error) {
	return m.contexts, nil
}

func (m *mockActivityRepo) LastEntryAt(ctx context.Context, contextID uint) (time.Time, bool, error) {
	if err, ok := m.failFor[contextID]; ok {
		return time.Time{}, false, err
	}
	last, ok := m.lastAt[contextID]
	return last, ok, nil
}

func TestActivitySweepFlagsQuietContexts(t *testing.T) {
	// Wednesday; the calendar counts Mon/Tue/Wed since the prior Friday.
	now := time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC)
	activities := &mockActivityRepo{
		contexts: []*activity.Context{
			{ID: 1, TenantID: sweepTenantID, Name: "recording-reviews", ManagerID: 41, ToleranceDays: 2, Active: true},
			{ID: 2, TenantID: sweepTenantID, Name: "password-rotations", Active: true},
			{ID: 3, TenantID: sweepTenantID, Name: "badge-audits", ManagerID: 42, Active: true},
		},
		lastAt: map[uint]time.Time{
			1: time.Date(2026, 1, 9, 17, 0, 0, 0, time.UTC),
			2: time.Date(2026, 1, 13, 11, 0, 0, 0, time.UTC),
		},
	}
	ob := &mockOutboxPublisher{}
	sweep := NewActivitySweep(activities, coreservices.NewEventPublisher(ob), schedule.NewCalendar(), clockwork.NewFakeClockAt(now), 3, quietLogger())

	result, err := sweep.RunOnce(sweepContext())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Checked)
	assert.Equal(t, []string{"recording-reviews", "badge-audits"}, result.Overdue)
	assert.Zero(t, result.Errors)

	evs := ob.decoded(t)
	require.Len(t, evs, 2)
	assert.Equal(t, "missing_activity", evs[0].Action)
	assert.Contains(t, evs[0].Message, "recording-reviews")
	assert.Equal(t, []uint{41}, evs[0].NotifyUserIDs)
	assert.Equal(t, "accounts.manage_all", evs[0].NotifyPermission)
	assert.Contains(t, evs[1].Message, "never been recorded")
	assert.Equal(t, []uint{42}, evs[1].NotifyUserIDs)
	assert.Equal(t, events.TopicSweepSummary, ob.messages[0].Topic)
}

func TestActivitySweepHolidaysExtendTheWindow(t *testing.T) {
	// Tuesday after a Monday holiday: only Tuesday counts as a business day.
	now := time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)
	holiday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	activities := &mockActivityRepo{
		contexts: []*activity.Context{
			{ID: 1, TenantID: sweepTenantID, Name: "recording-reviews", ToleranceDays: 1, Active: true},
		},
		lastAt: map[uint]time.Time{
			1: time.Date(2026, 1, 2, 17, 0, 0, 0, time.UTC),
		},
	}
	ob := &mockOutboxPublisher{}
	sweep := NewActivitySweep(activities, coreservices.NewEventPublisher(ob), schedule.NewCalendar(holiday), clockwork.NewFakeClockAt(now), 3, quietLogger())

	result, err := sweep.RunOnce(sweepContext())
	require.NoError(t, err)
	assert.Empty(t, result.Overdue)
	assert.Empty(t, ob.messages)
}

func TestActivitySweepIsolatesContextErrors(t *testing.T) {
	now := time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC)
	activities := &mockActivityRepo{
		contexts: []*activity.Context{
			{ID: 1, TenantID: sweepTenantID, Name: "recording-reviews", Active: true},
			{ID: 2, TenantID: sweepTenantID, Name: "password-rotations", Active: true},
		},
		lastAt:  map[uint]time.Time{},
		failFor: map[uint]error{1: errors.New("entries table locked")},
	}
	ob := &mockOutboxPublisher{}
	sweep := NewActivitySweep(activities, coreservices.NewEventPublisher(ob), schedule.NewCalendar(), clockwork.NewFakeClockAt(now), 3, quietLogger())

	result, err := sweep.RunOnce(sweepContext())
	require.Error(t, err)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, []string{"password-rotations"}, result.Overdue)

	// The failing context does not suppress the event for the healthy one.
	evs := ob.decoded(t)
	require.Len(t, evs, 1)
	assert.Contains(t, evs[0].Message, "password-rotations")
}

func TestActivitySweepRejectedEventDoesNotStopOtherContexts(t *testing.T) {
	now := time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC)
	activities := &mockActivityRepo{
		contexts: []*activity.Context{
			{ID: 1, TenantID: sweepTenantID, Name: "recording-reviews", Active: true},
			{ID: 2, TenantID: sweepTenantID, Name: "password-rotations", Active: true},
		},
		lastAt: map[uint]time.Time{},
	}
	ob := &mockOutboxPublisher{rejectIf: func(msg outbox.Message) error {
		if bytes.Contains(msg.Payload, []byte("recording-reviews")) {
			return errors.New("tenant missing on context row")
		}
		return nil
	}}
	sweep := NewActivitySweep(activities, coreservices.NewEventPublisher(ob), schedule.NewCalendar(), clockwork.NewFakeClockAt(now), 3, quietLogger())

	result, err := sweep.RunOnce(sweepContext())
	require.Error(t, err)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, []string{"recording-reviews", "password-rotations"}, result.Overdue)

	evs := ob.decoded(t)
	require.Len(t, evs, 1)
	assert.Contains(t, evs[0].Message, "password-rotations")
}

func TestActivitySweepEventIDsAreStablePerDay(t *testing.T) {
	now := time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC)
	activities := &mockActivityRepo{
		contexts: []*activity.Context{
			{ID: 1, TenantID: sweepTenantID, Name: "recording-reviews", Active: true},
		},
		lastAt: map[uint]time.Time{},
	}
	ob := &mockOutboxPublisher{}
	sweep := NewActivitySweep(activities, coreservices.NewEventPublisher(ob), schedule.NewCalendar(), clockwork.NewFakeClockAt(now), 3, quietLogger())

	_, err := sweep.RunOnce(sweepContext())
	require.NoError(t, err)
	_, err = sweep.RunOnce(sweepContext())
	require.NoError(t, err)

	require.Len(t, ob.messages, 2)
	assert.Equal(t, ob.messages[0].EventID, ob.messages[1].EventID)
}
