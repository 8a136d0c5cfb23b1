package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupovertice/intranet/modules/core/domain/entities/history"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/helpdesk/domain/aggregates/incident"
	"github.com/grupovertice/intranet/pkg/access"
)

type mockIncidentRepo struct {
	incidents map[uuid.UUID]*incident.Incident
	folio     int
}

func newMockIncidentRepo() *mockIncidentRepo {
	return &mockIncidentRepo{incidents: make(map[uuid.UUID]*incident.Incident)}
}

func (m *mockIncidentRepo) Count(ctx context.Context, params *incident.FindParams) (int64, error) {
	entities, err := m.GetPaginated(ctx, params)
	return int64(len(entities)), err
}

func (m *mockIncidentRepo) GetPaginated(ctx context.Context, params *incident.FindParams) ([]*incident.Incident, error) {
	var out []*incident.Incident
	for _, i := range m.incidents {
		if params.Filter.Match(i.View()) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *mockIncidentRepo) GetByID(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	i, ok := m.incidents[id]
	if !ok {
		return nil, fmt.Errorf("incident not found")
	}
	return i, nil
}

func (m *mockIncidentRepo) Create(ctx context.Context, data *incident.Incident) (*incident.Incident, error) {
	m.incidents[data.ID()] = data
	return data, nil
}

func (m *mockIncidentRepo) Update(ctx context.Context, data *incident.Incident) (*incident.Incident, error) {
	m.incidents[data.ID()] = data
	return data, nil
}

func (m *mockIncidentRepo) AddAreaGrant(ctx context.Context, id uuid.UUID, areaID uint) error {
	return nil
}

func (m *mockIncidentRepo) NextFolio(ctx context.Context) (string, error) {
	m.folio++
	return fmt.Sprintf("IN-%06d", m.folio), nil
}

type incidentFixture struct {
	svc       *IncidentService
	incidents *mockIncidentRepo
	histories *mockHistoryRepo
	outbox    *mockOutboxPublisher
}

func newIncidentFixture(t *testing.T) *incidentFixture {
	t.Helper()
	bypassAuthz(t)
	incidents := newMockIncidentRepo()
	histories := &mockHistoryRepo{}
	ob := &mockOutboxPublisher{}
	svc := NewIncidentService(incidents, workflowStates(), histories, coreservices.NewEventPublisher(ob))
	return &incidentFixture{svc: svc, incidents: incidents, histories: histories, outbox: ob}
}

func TestReporterCancelRecordsStateChange(t *testing.T) {
	f := newIncidentFixture(t)
	areaID := uint(5)
	reporter := requesterUser(30)
	ctx := ctxWithUser(reporter)

	created, err := f.svc.Report(ctx, ReportIncidentInput{
		Title: "false alarm", Severity: incident.SeverityLow, AreaID: &areaID,
	})
	require.NoError(t, err)

	cancelled, err := f.svc.ReporterCancel(ctx, created.ID(), "misread the alert")
	require.NoError(t, err)
	assert.True(t, cancelled.State().IsCancel)

	records, _ := f.histories.ListForSubject(ctx, history.KindIncident, created.ID())
	require.Len(t, records, 2)
	assert.Equal(t, history.ActionStateChange, records[1].Action)
	require.NotNil(t, records[1].ToStateID)
	assert.Equal(t, cancelled.State().ID, *records[1].ToStateID)
}

func TestReporterCancelFinalIncidentConflicts(t *testing.T) {
	f := newIncidentFixture(t)
	areaID := uint(5)
	reporter := requesterUser(30)
	ctx := ctxWithUser(reporter)

	created, err := f.svc.Report(ctx, ReportIncidentInput{
		Title: "outage", Severity: incident.SeverityHigh, AreaID: &areaID,
	})
	require.NoError(t, err)

	agent := staffUser(10, areaID, "incidents.view_area", "incidents.change_status")
	_, err = f.svc.ChangeStatus(ctxWithUser(agent), created.ID(), 3, "resolved")
	require.NoError(t, err)

	_, err = f.svc.ReporterCancel(ctx, created.ID(), "")
	require.ErrorIs(t, err, access.ErrConflictState)
}
