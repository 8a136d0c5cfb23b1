package incident

import (
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/helpdesk/domain/entities/state"
	"github.com/grupovertice/intranet/pkg/access"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Incident is an unplanned service interruption report. It shares the
// ticket workflow but carries a severity and is reported rather than
// requested.
type Incident struct {
	id             uuid.UUID
	tenantID       uuid.UUID
	folio          string
	title          string
	description    string
	severity       Severity
	reporterID     uint
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
	severity Severity,
	reporterID uint,
	areaID *uint,
	initial *state.State,
) *Incident {
	now := time.Now()
	return &Incident{
		id:          uuid.New(),
		tenantID:    tenantID,
		folio:       folio,
		title:       title,
		description: description,
		severity:    severity,
		reporterID:  reporterID,
		areaID:      areaID,
		state:       initial,
		createdAt:   now,
		updatedAt:   now,
	}
}

func Hydrate(
	id, tenantID uuid.UUID,
	folio, title, description string,
	severity Severity,
	reporterID uint,
	areaID, assigneeID *uint,
	st *state.State,
	grantedAreaIDs []uint,
	createdAt, updatedAt time.Time,
) *Incident {
	return &Incident{
		id:             id,
		tenantID:       tenantID,
		folio:          folio,
		title:          title,
		description:    description,
		severity:       severity,
		reporterID:     reporterID,
		areaID:         areaID,
		assigneeID:     assigneeID,
		state:          st,
		grantedAreaIDs: grantedAreaIDs,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (i *Incident) ID() uuid.UUID          { return i.id }
func (i *Incident) TenantID() uuid.UUID    { return i.tenantID }
func (i *Incident) Folio() string          { return i.folio }
func (i *Incident) Title() string          { return i.title }
func (i *Incident) Description() string    { return i.description }
func (i *Incident) Severity() Severity     { return i.severity }
func (i *Incident) ReporterID() uint       { return i.reporterID }
func (i *Incident) AreaID() *uint          { return i.areaID }
func (i *Incident) AssigneeID() *uint      { return i.assigneeID }
func (i *Incident) State() *state.State    { return i.state }
func (i *Incident) GrantedAreaIDs() []uint { return i.grantedAreaIDs }
func (i *Incident) CreatedAt() time.Time   { return i.createdAt }
func (i *Incident) UpdatedAt() time.Time   { return i.updatedAt }

func (i *Incident) View() access.SubjectView {
	return access.SubjectView{
		RequesterID:    i.reporterID,
		CurrentAreaID:  i.areaID,
		AssigneeID:     i.assigneeID,
		GrantedAreaIDs: i.grantedAreaIDs,
		StateFinal:     i.state != nil && i.state.IsFinal,
	}
}

func (i *Incident) SetSeverity(severity Severity) {
	i.severity = severity
	i.touch()
}

func (i *Incident) ChangeState(st *state.State) {
	i.state = st
	i.touch()
}

func (i *Incident) Assign(assigneeID *uint) {
	i.assigneeID = assigneeID
	i.touch()
}

func (i *Incident) EscalateTo(areaID uint) {
	if i.areaID != nil {
		prev := *i.areaID
		found := false
		for _, id := range i.grantedAreaIDs {
			if id == prev {
				found = true
				break
			}
		}
		if !found {
			i.grantedAreaIDs = append(i.grantedAreaIDs, prev)
		}
	}
	i.areaID = &areaID
	i.assigneeID = nil
	i.touch()
}

func (i *Incident) touch() {
	i.updatedAt = time.Now()
}
