package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/grupovertice/intranet/pkg/access"
)

type User interface {
	ID() uint
	TenantID() uuid.UUID
	Email() string
	FirstName() string
	LastName() string
	FullName() string
	AreaID() *uint
	Active() bool
	Permissions() access.PermissionSet
	Can(name string) bool
	Actor() access.Actor
	CreatedAt() time.Time
	UpdatedAt() time.Time

	SetArea(areaID *uint) User
	SetActive(active bool) User
	SetPermissions(perms access.PermissionSet) User
}

func New(
	tenantID uuid.UUID,
	email, firstName, lastName string,
	opts ...Option,
) User {
	u := &user{
		tenantID:    tenantID,
		email:       email,
		firstName:   firstName,
		lastName:    lastName,
		active:      true,
		permissions: access.NewPermissionSet(),
		createdAt:   time.Now(),
		updatedAt:   time.Now(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func Hydrate(
	id uint,
	tenantID uuid.UUID,
	email, firstName, lastName string,
	areaID *uint,
	active bool,
	perms access.PermissionSet,
	createdAt, updatedAt time.Time,
) User {
	return &user{
		id:          id,
		tenantID:    tenantID,
		email:       email,
		firstName:   firstName,
		lastName:    lastName,
		areaID:      areaID,
		active:      active,
		permissions: perms,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

type Option func(*user)

func WithID(id uint) Option {
	return func(u *user) {
		u.id = id
	}
}

func WithArea(areaID *uint) Option {
	return func(u *user) {
		u.areaID = areaID
	}
}

type user struct {
	id          uint
	tenantID    uuid.UUID
	email       string
	firstName   string
	lastName    string
	areaID      *uint
	active      bool
	permissions access.PermissionSet
	createdAt   time.Time
	updatedAt   time.Time
}

func (u *user) ID() uint {
	return u.id
}

func (u *user) TenantID() uuid.UUID {
	return u.tenantID
}

func (u *user) Email() string {
	return u.email
}

func (u *user) FirstName() string {
	return u.firstName
}

func (u *user) LastName() string {
	return u.lastName
}

func (u *user) FullName() string {
	if u.firstName == "" {
		return u.lastName
	}
	if u.lastName == "" {
		return u.firstName
	}
	return u.firstName + " " + u.lastName
}

func (u *user) AreaID() *uint {
	return u.areaID
}

func (u *user) Active() bool {
	return u.active
}

func (u *user) Permissions() access.PermissionSet {
	return u.permissions
}

func (u *user) Can(name string) bool {
	return u.permissions.Has(name)
}

func (u *user) Actor() access.Actor {
	return access.Actor{
		ID:     u.id,
		AreaID: u.areaID,
	}
}

func (u *user) CreatedAt() time.Time {
	return u.createdAt
}

func (u *user) UpdatedAt() time.Time {
	return u.updatedAt
}

func (u *user) clone() *user {
	c := *u
	return &c
}

func (u *user) SetArea(areaID *uint) User {
	c := u.clone()
	c.areaID = areaID
	c.updatedAt = time.Now()
	return c
}

func (u *user) SetActive(active bool) User {
	c := u.clone()
	c.active = active
	c.updatedAt = time.Now()
	return c
}

func (u *user) SetPermissions(perms access.PermissionSet) User {
	c := u.clone()
	c.permissions = perms
	return c
}
