package employee

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusTerminated Status = "terminated"
)

// Employee is one person on the payroll. Login is the corporate identity the
// access-governance sweeps reconcile system accounts against.
type Employee struct {
	id           uint
	tenantID     uuid.UUID
	login        string
	firstName    string
	lastName     string
	email        string
	position     string
	areaID       *uint
	status       Status
	hiredAt      time.Time
	terminatedAt *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func New(
	tenantID uuid.UUID,
	login, firstName, lastName, email, position string,
	areaID *uint,
	hiredAt time.Time,
) *Employee {
	now := time.Now()
	return &Employee{
		tenantID:  tenantID,
		login:     login,
		firstName: firstName,
		lastName:  lastName,
		email:     email,
		position:  position,
		areaID:    areaID,
		status:    StatusActive,
		hiredAt:   hiredAt,
		createdAt: now,
		updatedAt: now,
	}
}

func Hydrate(
	id uint,
	tenantID uuid.UUID,
	login, firstName, lastName, email, position string,
	areaID *uint,
	status Status,
	hiredAt time.Time,
	terminatedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Employee {
	return &Employee{
		id:           id,
		tenantID:     tenantID,
		login:        login,
		firstName:    firstName,
		lastName:     lastName,
		email:        email,
		position:     position,
		areaID:       areaID,
		status:       status,
		hiredAt:      hiredAt,
		terminatedAt: terminatedAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (e *Employee) ID() uint                 { return e.id }
func (e *Employee) TenantID() uuid.UUID      { return e.tenantID }
func (e *Employee) Login() string            { return e.login }
func (e *Employee) FirstName() string        { return e.firstName }
func (e *Employee) LastName() string         { return e.lastName }
func (e *Employee) Email() string            { return e.email }
func (e *Employee) Position() string         { return e.position }
func (e *Employee) AreaID() *uint            { return e.areaID }
func (e *Employee) Status() Status           { return e.status }
func (e *Employee) HiredAt() time.Time       { return e.hiredAt }
func (e *Employee) TerminatedAt() *time.Time { return e.terminatedAt }
func (e *Employee) CreatedAt() time.Time     { return e.createdAt }
func (e *Employee) UpdatedAt() time.Time     { return e.updatedAt }

func (e *Employee) FullName() string {
	if e.firstName == "" {
		return e.lastName
	}
	return e.firstName + " " + e.lastName
}

func (e *Employee) Active() bool {
	return e.status == StatusActive
}

func (e *Employee) SetPosition(position string) {
	e.position = position
	e.touch()
}

func (e *Employee) SetArea(areaID *uint) {
	e.areaID = areaID
	e.touch()
}

func (e *Employee) Terminate(at time.Time) {
	e.status = StatusTerminated
	e.terminatedAt = &at
	e.touch()
}

func (e *Employee) touch() {
	e.updatedAt = time.Now()
}
