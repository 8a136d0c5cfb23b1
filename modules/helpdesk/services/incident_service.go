package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/core/domain/entities/history"
	"github.com/grupovertice/intranet/modules/core/domain/events"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/helpdesk/domain/aggregates/incident"
	"github.com/grupovertice/intranet/modules/helpdesk/domain/entities/state"
	"github.com/grupovertice/intranet/modules/helpdesk/permissions"
	"github.com/grupovertice/intranet/pkg/access"
	"github.com/grupovertice/intranet/pkg/composables"
)

type IncidentService struct {
	incidents incident.Repository
	states    state.Repository
	histories history.Repository
	publisher *coreservices.EventPublisher
}

func NewIncidentService(
	incidents incident.Repository,
	states state.Repository,
	histories history.Repository,
	publisher *coreservices.EventPublisher,
) *IncidentService {
	return &IncidentService{
		incidents: incidents,
		states:    states,
		histories: histories,
		publisher: publisher,
	}
}

func (s *IncidentService) scopedFilter(ctx context.Context) (access.Filter, error) {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return access.Filter{}, err
	}
	scope := access.ResolveScope(u.Permissions(), u.Actor().HasArea(), permissions.IncidentNames())
	if scope == access.ScopeNone {
		return access.Filter{}, access.ErrForbidden
	}
	return access.FilterFor(scope, u.Actor()), nil
}

func (s *IncidentService) Count(ctx context.Context, params *incident.FindParams) (int64, error) {
	if err := authorizeHelpdesk(ctx, "incidents", "list"); err != nil {
		return 0, err
	}
	filter, err := s.scopedFilter(ctx)
	if err != nil {
		return 0, err
	}
	params.Filter = filter
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.incidents.Count(txCtx, params)
	})
}

func (s *IncidentService) GetPaginated(ctx context.Context, params *incident.FindParams) ([]*incident.Incident, error) {
	if err := authorizeHelpdesk(ctx, "incidents", "list"); err != nil {
		return nil, err
	}
	filter, err := s.scopedFilter(ctx)
	if err != nil {
		return nil, err
	}
	params.Filter = filter
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*incident.Incident, error) {
		return s.incidents.GetPaginated(txCtx, params)
	})
}

func (s *IncidentService) GetByID(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	if err := authorizeHelpdesk(ctx, "incidents", "view"); err != nil {
		return nil, err
	}
	filter, err := s.scopedFilter(ctx)
	if err != nil {
		return nil, err
	}
	entity, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*incident.Incident, error) {
		return s.incidents.GetByID(txCtx, id)
	})
	if err != nil {
		return nil, err
	}
	if !filter.Match(entity.View()) {
		return nil, access.ErrForbidden
	}
	return entity, nil
}

func (s *IncidentService) History(ctx context.Context, id uuid.UUID) ([]*history.Record, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*history.Record, error) {
		return s.histories.ListForSubject(txCtx, history.KindIncident, id)
	})
}

type ReportIncidentInput struct {
	Title       string
	Description string
	Severity    incident.Severity
	AreaID      *uint
}

func (s *IncidentService) Report(ctx context.Context, input ReportIncidentInput) (*incident.Incident, error) {
	if err := authorizeHelpdesk(ctx, "incidents", "create"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*incident.Incident, error) {
		states, err := s.states.GetAll(txCtx)
		if err != nil {
			return nil, err
		}
		if len(states) == 0 {
			return nil, ErrNoWorkflowStates
		}

		folio, err := s.incidents.NextFolio(txCtx)
		if err != nil {
			return nil, err
		}

		created, err := s.incidents.Create(txCtx, incident.New(
			tenantID, folio, input.Title, input.Description, input.Severity, u.ID(), input.AreaID, states[0],
		))
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindIncident,
			SubjectID:   created.ID(),
			ActorID:     u.ID(),
			Action:      history.ActionStateChange,
			ToStateID:   &states[0].ID,
			ToAreaID:    created.AreaID(),
			Note:        "reported",
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(tenantID, string(history.KindIncident), created.ID(), string(history.ActionStateChange))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Incident %s reported: %s", created.Folio(), created.Title())
		ev.NotifyAreaID = created.AreaID()
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicIncidentEvent, ev); err != nil {
			return nil, err
		}
		return created, nil
	})
}

func (s *IncidentService) ChangeStatus(ctx context.Context, id uuid.UUID, stateID uint, note string) (*incident.Incident, error) {
	if err := authorizeHelpdesk(ctx, "incidents", "change_status"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*incident.Incident, error) {
		entity, err := s.incidents.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := access.Authorize(u.Permissions(), permissions.IncidentNames(), u.Actor(), entity.View(), access.ActionChangeStatus); err != nil {
			return nil, err
		}
		if entity.State().IsFinal {
			return nil, access.ErrConflictState
		}
		next, err := s.states.GetByID(txCtx, stateID)
		if err != nil {
			return nil, err
		}

		fromState := entity.State().ID
		entity.ChangeState(next)
		updated, err := s.incidents.Update(txCtx, entity)
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindIncident,
			SubjectID:   id,
			ActorID:     u.ID(),
			Action:      history.ActionStateChange,
			FromStateID: &fromState,
			ToStateID:   &next.ID,
			Note:        note,
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(entity.TenantID(), string(history.KindIncident), id, string(history.ActionStateChange))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Incident %s moved to %s", entity.Folio(), next.Name)
		ev.NotifyAreaID = entity.AreaID()
		ev.NotifyUserIDs = []uint{entity.ReporterID()}
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicIncidentEvent, ev); err != nil {
			return nil, err
		}
		return updated, nil
	})
}

func (s *IncidentService) Assign(ctx context.Context, id uuid.UUID, assigneeID uint) (*incident.Incident, error) {
	if err := authorizeHelpdesk(ctx, "incidents", "assign"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*incident.Incident, error) {
		entity, err := s.incidents.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := access.Authorize(u.Permissions(), permissions.IncidentNames(), u.Actor(), entity.View(), access.ActionAssign); err != nil {
			return nil, err
		}
		if entity.State().IsFinal {
			return nil, access.ErrConflictState
		}

		fromAssignee := entity.AssigneeID()
		entity.Assign(&assigneeID)
		updated, err := s.incidents.Update(txCtx, entity)
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind:    history.KindIncident,
			SubjectID:      id,
			ActorID:        u.ID(),
			Action:         history.ActionAssignment,
			FromAssigneeID: fromAssignee,
			ToAssigneeID:   &assigneeID,
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(entity.TenantID(), string(history.KindIncident), id, string(history.ActionAssignment))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Incident %s assigned to you", entity.Folio())
		ev.NotifyUserIDs = []uint{assigneeID}
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicIncidentEvent, ev); err != nil {
			return nil, err
		}
		return updated, nil
	})
}

func (s *IncidentService) Escalate(ctx context.Context, id uuid.UUID, toAreaID uint, note string) (*incident.Incident, error) {
	if err := authorizeHelpdesk(ctx, "incidents", "escalate"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*incident.Incident, error) {
		entity, err := s.incidents.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := access.Authorize(u.Permissions(), permissions.IncidentNames(), u.Actor(), entity.View(), access.ActionEscalate); err != nil {
			return nil, err
		}
		if entity.State().IsFinal {
			return nil, access.ErrConflictState
		}

		fromArea := entity.AreaID()
		entity.EscalateTo(toAreaID)
		updated, err := s.incidents.Update(txCtx, entity)
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindIncident,
			SubjectID:   id,
			ActorID:     u.ID(),
			Action:      history.ActionEscalation,
			FromAreaID:  fromArea,
			ToAreaID:    &toAreaID,
			Note:        note,
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(entity.TenantID(), string(history.KindIncident), id, string(history.ActionEscalation))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Incident %s escalated", entity.Folio())
		ev.NotifyAreaID = &toAreaID
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicIncidentEvent, ev); err != nil {
			return nil, err
		}
		return updated, nil
	})
}

func (s *IncidentService) Comment(ctx context.Context, id uuid.UUID, note string) error {
	if err := authorizeHelpdesk(ctx, "incidents", "comment"); err != nil {
		return err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return err
	}

	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		entity, err := s.incidents.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		reporterOwn := entity.ReporterID() == u.ID()
		if !reporterOwn {
			if err := access.Authorize(u.Permissions(), permissions.IncidentNames(), u.Actor(), entity.View(), access.ActionComment); err != nil {
				return err
			}
		}

		action := history.ActionComment
		if reporterOwn {
			action = history.ActionRequesterComment
		}
		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindIncident,
			SubjectID:   id,
			ActorID:     u.ID(),
			Action:      action,
			Note:        note,
		}); err != nil {
			return err
		}

		ev := events.NewEntityEvent(entity.TenantID(), string(history.KindIncident), id, string(action))
		ev.ActorID = u.ID()
		ev.ExcludeActor = true
		if reporterOwn {
			ev.Action = string(history.ActionRequesterAlert)
			ev.Message = fmt.Sprintf("Reporter commented on incident %s", entity.Folio())
			ev.NotifyAreaID = entity.AreaID()
		} else {
			ev.Message = fmt.Sprintf("New comment on incident %s", entity.Folio())
			ev.NotifyUserIDs = []uint{entity.ReporterID()}
		}
		return s.publisher.Publish(txCtx, events.TopicIncidentEvent, ev)
	})
}

func (s *IncidentService) ReporterCancel(ctx context.Context, id uuid.UUID, note string) (*incident.Incident, error) {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*incident.Incident, error) {
		entity, err := s.incidents.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := access.AuthorizeRequesterCancel(u.Actor(), entity.View()); err != nil {
			return nil, err
		}
		cancel, err := s.states.GetCancelState(txCtx)
		if err != nil {
			return nil, err
		}

		fromState := entity.State().ID
		entity.ChangeState(cancel)
		updated, err := s.incidents.Update(txCtx, entity)
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindIncident,
			SubjectID:   id,
			ActorID:     u.ID(),
			Action:      history.ActionStateChange,
			FromStateID: &fromState,
			ToStateID:   &cancel.ID,
			Note:        note,
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(entity.TenantID(), string(history.KindIncident), id, string(history.ActionCancellation))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Incident %s cancelled by its reporter", entity.Folio())
		ev.NotifyAreaID = entity.AreaID()
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicIncidentEvent, ev); err != nil {
			return nil, err
		}
		return updated, nil
	})
}
