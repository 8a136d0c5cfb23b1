package ticket

import (
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/helpdesk/domain/entities/state"
	"github.com/grupovertice/intranet/pkg/access"
)

// Ticket is a helpdesk request moving through areas and workflow states.
// State and the granted-area list are hydrated alongside the row so access
// decisions never need a second round trip.
type Ticket struct {
	id             uuid.UUID
	tenantID       uuid.UUID
	folio          string
	title          string
	description    string
	requesterID    uint
	areaID         *uint
	assigneeID     *uint
	state          *state.State
	grantedAreaIDs []uint
	createdAt      time.Time
	updatedAt      time.Time
}

func New(
	tenantID uuid.UUID,
	folio, title, description string,
	requesterID uint,
	areaID *uint,
	initial *state.State,
) *Ticket {
	now := time.Now()
	return &Ticket{
		id:          uuid.New(),
		tenantID:    tenantID,
		folio:       folio,
		title:       title,
		description: description,
		requesterID: requesterID,
		areaID:      areaID,
		state:       initial,
		createdAt:   now,
		updatedAt:   now,
	}
}

func Hydrate(
	id, tenantID uuid.UUID,
	folio, title, description string,
	requesterID uint,
	areaID, assigneeID *uint,
	st *state.State,
	grantedAreaIDs []uint,
	createdAt, updatedAt time.Time,
) *Ticket {
	return &Ticket{
		id:             id,
		tenantID:       tenantID,
		folio:          folio,
		title:          title,
		description:    description,
		requesterID:    requesterID,
		areaID:         areaID,
		assigneeID:     assigneeID,
		state:          st,
		grantedAreaIDs: grantedAreaIDs,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (t *Ticket) ID() uuid.UUID          { return t.id }
func (t *Ticket) TenantID() uuid.UUID    { return t.tenantID }
func (t *Ticket) Folio() string          { return t.folio }
func (t *Ticket) Title() string          { return t.title }
func (t *Ticket) Description() string    { return t.description }
func (t *Ticket) RequesterID() uint      { return t.requesterID }
func (t *Ticket) AreaID() *uint          { return t.areaID }
func (t *Ticket) AssigneeID() *uint      { return t.assigneeID }
func (t *Ticket) State() *state.State    { return t.state }
func (t *Ticket) GrantedAreaIDs() []uint { return t.grantedAreaIDs }
func (t *Ticket) CreatedAt() time.Time   { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time   { return t.updatedAt }

func (t *Ticket) View() access.SubjectView {
	return access.SubjectView{
		RequesterID:    t.requesterID,
		CurrentAreaID:  t.areaID,
		AssigneeID:     t.assigneeID,
		GrantedAreaIDs: t.grantedAreaIDs,
		StateFinal:     t.state != nil && t.state.IsFinal,
	}
}

func (t *Ticket) SetTitle(title string) {
	t.title = title
	t.touch()
}

func (t *Ticket) SetDescription(description string) {
	t.description = description
	t.touch()
}

func (t *Ticket) ChangeState(st *state.State) {
	t.state = st
	t.touch()
}

func (t *Ticket) Assign(assigneeID *uint) {
	t.assigneeID = assigneeID
	t.touch()
}

// EscalateTo moves the ticket to the target area, clears the assignee and
// keeps the previous area in the granted list so its agents retain access.
func (t *Ticket) EscalateTo(areaID uint) {
	if t.areaID != nil {
		prev := *t.areaID
		found := false
		for _, id := range t.grantedAreaIDs {
			if id == prev {
				found = true
				break
			}
		}
		if !found {
			t.grantedAreaIDs = append(t.grantedAreaIDs, prev)
		}
	}
	t.areaID = &areaID
	t.assigneeID = nil
	t.touch()
}

func (t *Ticket) touch() {
	t.updatedAt = time.Now()
}
