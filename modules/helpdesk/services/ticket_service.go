package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/core/domain/entities/history"
	"github.com/grupovertice/intranet/modules/core/domain/events"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/modules/helpdesk/domain/aggregates/ticket"
	"github.com/grupovertice/intranet/modules/helpdesk/domain/entities/state"
	"github.com/grupovertice/intranet/modules/helpdesk/permissions"
	"github.com/grupovertice/intranet/pkg/access"
	"github.com/grupovertice/intranet/pkg/composables"
)

type TicketService struct {
	tickets   ticket.Repository
	states    state.Repository
	histories history.Repository
	publisher *coreservices.EventPublisher
}

func NewTicketService(
	tickets ticket.Repository,
	states state.Repository,
	histories history.Repository,
	publisher *coreservices.EventPublisher,
) *TicketService {
	return &TicketService{
		tickets:   tickets,
		states:    states,
		histories: histories,
		publisher: publisher,
	}
}

func (s *TicketService) scopedFilter(ctx context.Context) (access.Filter, error) {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return access.Filter{}, err
	}
	scope := access.ResolveScope(u.Permissions(), u.Actor().HasArea(), permissions.TicketNames())
	if scope == access.ScopeNone {
		return access.Filter{}, access.ErrForbidden
	}
	return access.FilterFor(scope, u.Actor()), nil
}

func (s *TicketService) Count(ctx context.Context, params *ticket.FindParams) (int64, error) {
	if err := authorizeHelpdesk(ctx, "tickets", "list"); err != nil {
		return 0, err
	}
	filter, err := s.scopedFilter(ctx)
	if err != nil {
		return 0, err
	}
	params.Filter = filter
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.tickets.Count(txCtx, params)
	})
}

func (s *TicketService) GetPaginated(ctx context.Context, params *ticket.FindParams) ([]*ticket.Ticket, error) {
	if err := authorizeHelpdesk(ctx, "tickets", "list"); err != nil {
		return nil, err
	}
	filter, err := s.scopedFilter(ctx)
	if err != nil {
		return nil, err
	}
	params.Filter = filter
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*ticket.Ticket, error) {
		return s.tickets.GetPaginated(txCtx, params)
	})
}

func (s *TicketService) GetByID(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	if err := authorizeHelpdesk(ctx, "tickets", "view"); err != nil {
		return nil, err
	}
	filter, err := s.scopedFilter(ctx)
	if err != nil {
		return nil, err
	}
	t, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*ticket.Ticket, error) {
		return s.tickets.GetByID(txCtx, id)
	})
	if err != nil {
		return nil, err
	}
	if !filter.Match(t.View()) {
		return nil, access.ErrForbidden
	}
	return t, nil
}

func (s *TicketService) History(ctx context.Context, id uuid.UUID) ([]*history.Record, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*history.Record, error) {
		return s.histories.ListForSubject(txCtx, history.KindTicket, id)
	})
}

type CreateTicketInput struct {
	Title       string
	Description string
	AreaID      *uint
}

func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*ticket.Ticket, error) {
	if err := authorizeHelpdesk(ctx, "tickets", "create"); err != nil {
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

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*ticket.Ticket, error) {
		states, err := s.states.GetAll(txCtx)
		if err != nil {
			return nil, err
		}
		if len(states) == 0 {
			return nil, ErrNoWorkflowStates
		}
		initial := states[0]

		folio, err := s.tickets.NextFolio(txCtx)
		if err != nil {
			return nil, err
		}

		created, err := s.tickets.Create(txCtx, ticket.New(
			tenantID, folio, input.Title, input.Description, u.ID(), input.AreaID, initial,
		))
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindTicket,
			SubjectID:   created.ID(),
			ActorID:     u.ID(),
			Action:      history.ActionStateChange,
			ToStateID:   &initial.ID,
			ToAreaID:    created.AreaID(),
			Note:        "created",
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(tenantID, string(history.KindTicket), created.ID(), string(history.ActionStateChange))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Ticket %s created: %s", created.Folio(), created.Title())
		ev.NotifyAreaID = created.AreaID()
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicTicketEvent, ev); err != nil {
			return nil, err
		}
		return created, nil
	})
}

func (s *TicketService) ChangeStatus(ctx context.Context, id uuid.UUID, stateID uint, note string) (*ticket.Ticket, error) {
	if err := authorizeHelpdesk(ctx, "tickets", "change_status"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*ticket.Ticket, error) {
		t, err := s.tickets.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := access.Authorize(u.Permissions(), permissions.TicketNames(), u.Actor(), t.View(), access.ActionChangeStatus); err != nil {
			return nil, err
		}
		if t.State().IsFinal {
			return nil, access.ErrConflictState
		}
		next, err := s.states.GetByID(txCtx, stateID)
		if err != nil {
			return nil, err
		}

		fromState := t.State().ID
		t.ChangeState(next)
		updated, err := s.tickets.Update(txCtx, t)
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindTicket,
			SubjectID:   id,
			ActorID:     u.ID(),
			Action:      history.ActionStateChange,
			FromStateID: &fromState,
			ToStateID:   &next.ID,
			Note:        note,
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(t.TenantID(), string(history.KindTicket), id, string(history.ActionStateChange))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Ticket %s moved to %s", t.Folio(), next.Name)
		ev.NotifyAreaID = t.AreaID()
		ev.NotifyUserIDs = []uint{t.RequesterID()}
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicTicketEvent, ev); err != nil {
			return nil, err
		}
		return updated, nil
	})
}

func (s *TicketService) Assign(ctx context.Context, id uuid.UUID, assigneeID uint) (*ticket.Ticket, error) {
	if err := authorizeHelpdesk(ctx, "tickets", "assign"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*ticket.Ticket, error) {
		t, err := s.tickets.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := access.Authorize(u.Permissions(), permissions.TicketNames(), u.Actor(), t.View(), access.ActionAssign); err != nil {
			return nil, err
		}
		if t.State().IsFinal {
			return nil, access.ErrConflictState
		}

		fromAssignee := t.AssigneeID()
		t.Assign(&assigneeID)
		updated, err := s.tickets.Update(txCtx, t)
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind:    history.KindTicket,
			SubjectID:      id,
			ActorID:        u.ID(),
			Action:         history.ActionAssignment,
			FromAssigneeID: fromAssignee,
			ToAssigneeID:   &assigneeID,
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(t.TenantID(), string(history.KindTicket), id, string(history.ActionAssignment))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Ticket %s assigned to you", t.Folio())
		ev.NotifyUserIDs = []uint{assigneeID}
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicTicketEvent, ev); err != nil {
			return nil, err
		}
		return updated, nil
	})
}

func (s *TicketService) Escalate(ctx context.Context, id uuid.UUID, toAreaID uint, note string) (*ticket.Ticket, error) {
	if err := authorizeHelpdesk(ctx, "tickets", "escalate"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*ticket.Ticket, error) {
		t, err := s.tickets.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := access.Authorize(u.Permissions(), permissions.TicketNames(), u.Actor(), t.View(), access.ActionEscalate); err != nil {
			return nil, err
		}
		if t.State().IsFinal {
			return nil, access.ErrConflictState
		}

		fromArea := t.AreaID()
		t.EscalateTo(toAreaID)
		updated, err := s.tickets.Update(txCtx, t)
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindTicket,
			SubjectID:   id,
			ActorID:     u.ID(),
			Action:      history.ActionEscalation,
			FromAreaID:  fromArea,
			ToAreaID:    &toAreaID,
			Note:        note,
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(t.TenantID(), string(history.KindTicket), id, string(history.ActionEscalation))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Ticket %s escalated", t.Folio())
		ev.NotifyAreaID = &toAreaID
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicTicketEvent, ev); err != nil {
			return nil, err
		}
		return updated, nil
	})
}

// Comment appends a note to the trail. Staff comments notify the requester;
// a requester commenting their own ticket instead raises an alert for the
// area currently holding it.
func (s *TicketService) Comment(ctx context.Context, id uuid.UUID, note string) error {
	if err := authorizeHelpdesk(ctx, "tickets", "comment"); err != nil {
		return err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return err
	}

	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		t, err := s.tickets.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		requesterOwn := t.RequesterID() == u.ID()
		if !requesterOwn {
			if err := access.Authorize(u.Permissions(), permissions.TicketNames(), u.Actor(), t.View(), access.ActionComment); err != nil {
				return err
			}
		}

		action := history.ActionComment
		if requesterOwn {
			action = history.ActionRequesterComment
		}
		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindTicket,
			SubjectID:   id,
			ActorID:     u.ID(),
			Action:      action,
			Note:        note,
		}); err != nil {
			return err
		}

		ev := events.NewEntityEvent(t.TenantID(), string(history.KindTicket), id, string(action))
		ev.ActorID = u.ID()
		ev.ExcludeActor = true
		if requesterOwn {
			ev.Action = string(history.ActionRequesterAlert)
			ev.Message = fmt.Sprintf("Requester commented on ticket %s", t.Folio())
			ev.NotifyAreaID = t.AreaID()
			if t.AssigneeID() != nil {
				ev.NotifyUserIDs = []uint{*t.AssigneeID()}
			}
		} else {
			ev.Message = fmt.Sprintf("New comment on ticket %s", t.Folio())
			ev.NotifyUserIDs = []uint{t.RequesterID()}
		}
		return s.publisher.Publish(txCtx, events.TopicTicketEvent, ev)
	})
}

type UpdateTicketInput struct {
	Title       string
	Description string
}

func (s *TicketService) Update(ctx context.Context, id uuid.UUID, input UpdateTicketInput) (*ticket.Ticket, error) {
	if err := authorizeHelpdesk(ctx, "tickets", "update"); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*ticket.Ticket, error) {
		t, err := s.tickets.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := access.Authorize(u.Permissions(), permissions.TicketNames(), u.Actor(), t.View(), access.ActionUpdate); err != nil {
			return nil, err
		}
		if t.State().IsFinal {
			return nil, access.ErrConflictState
		}
		t.SetTitle(input.Title)
		t.SetDescription(input.Description)
		return s.tickets.Update(txCtx, t)
	})
}

// RequesterCancel lets the requester withdraw their own ticket while nobody
// has picked it up yet.
func (s *TicketService) RequesterCancel(ctx context.Context, id uuid.UUID, note string) (*ticket.Ticket, error) {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*ticket.Ticket, error) {
		t, err := s.tickets.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := access.AuthorizeRequesterCancel(u.Actor(), t.View()); err != nil {
			return nil, err
		}
		cancel, err := s.states.GetCancelState(txCtx)
		if err != nil {
			return nil, err
		}

		fromState := t.State().ID
		t.ChangeState(cancel)
		updated, err := s.tickets.Update(txCtx, t)
		if err != nil {
			return nil, err
		}

		if _, err := s.histories.Create(txCtx, &history.Record{
			SubjectKind: history.KindTicket,
			SubjectID:   id,
			ActorID:     u.ID(),
			Action:      history.ActionStateChange,
			FromStateID: &fromState,
			ToStateID:   &cancel.ID,
			Note:        note,
		}); err != nil {
			return nil, err
		}

		ev := events.NewEntityEvent(t.TenantID(), string(history.KindTicket), id, string(history.ActionCancellation))
		ev.ActorID = u.ID()
		ev.Message = fmt.Sprintf("Ticket %s cancelled by its requester", t.Folio())
		ev.NotifyAreaID = t.AreaID()
		ev.ExcludeActor = true
		if err := s.publisher.Publish(txCtx, events.TopicTicketEvent, ev); err != nil {
			return nil, err
		}
		return updated, nil
	})
}
