package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/pkg/access"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusRevoked   Status = "revoked"
)

// Account is one system access grant under governance: a login provisioned
// on some system for an employee of a campaign/site, vouched for by a
// manager.
type Account struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	login     string
	system    string
	campaign  string
	site      string
	managerID uint
	areaID    *uint
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func New(
	tenantID uuid.UUID,
	login, system, campaign, site string,
	managerID uint,
	areaID *uint,
) *Account {
	now := time.Now()
	return &Account{
		id:        uuid.New(),
		tenantID:  tenantID,
		login:     login,
		system:    system,
		campaign:  campaign,
		site:      site,
		managerID: managerID,
		areaID:    areaID,
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
	}
}

func Hydrate(
	id, tenantID uuid.UUID,
	login, system, campaign, site string,
	managerID uint,
	areaID *uint,
	status Status,
	createdAt, updatedAt time.Time,
) *Account {
	return &Account{
		id:        id,
		tenantID:  tenantID,
		login:     login,
		system:    system,
		campaign:  campaign,
		site:      site,
		managerID: managerID,
		areaID:    areaID,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (a *Account) ID() uuid.UUID        { return a.id }
func (a *Account) TenantID() uuid.UUID  { return a.tenantID }
func (a *Account) Login() string        { return a.login }
func (a *Account) System() string       { return a.system }
func (a *Account) Campaign() string     { return a.campaign }
func (a *Account) Site() string         { return a.site }
func (a *Account) ManagerID() uint      { return a.managerID }
func (a *Account) AreaID() *uint        { return a.areaID }
func (a *Account) Status() Status       { return a.status }
func (a *Account) CreatedAt() time.Time { return a.createdAt }
func (a *Account) UpdatedAt() time.Time { return a.updatedAt }

func (a *Account) View() access.SubjectView {
	return access.SubjectView{
		RequesterID:   a.managerID,
		CurrentAreaID: a.areaID,
		StateFinal:    a.status == StatusRevoked,
	}
}

func (a *Account) Suspend() {
	a.status = StatusSuspended
	a.touch()
}

func (a *Account) Reactivate() {
	a.status = StatusActive
	a.touch()
}

func (a *Account) Revoke() {
	a.status = StatusRevoked
	a.touch()
}

func (a *Account) touch() {
	a.updatedAt = time.Now()
}
