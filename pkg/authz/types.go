package authz

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	globalDomain        = "global"
	subjectTenantPrefix = "tenant"
	subjectUserPrefix   = "user"
	rolePrefix          = "role"
	objectSeparator     = "."
	subjectSeparator    = ":"
	actionWildcard      = "*"
)

// Request encapsulates the parameters of one enforcement decision.
type Request struct {
	Subject string
	Domain  string
	Object  string
	Action  string
}

// NewRequest constructs a Request with normalized fields.
func NewRequest(subject, domain, object, action string) Request {
	return Request{
		Subject: subject,
		Domain:  domain,
		Object:  object,
		Action:  NormalizeAction(action),
	}
}

// SubjectForUser builds a subject identifier in the form tenant:{tenant}:user:{id}.
func SubjectForUser(tenantID uuid.UUID, userID uint) string {
	userPart := "anonymous"
	if userID != 0 {
		userPart = fmt.Sprintf("%d", userID)
	}
	tenantPart := DomainFromTenant(tenantID)
	return subjectTenantPrefix + subjectSeparator + tenantPart + subjectSeparator +
		subjectUserPrefix + subjectSeparator + userPart
}

// SubjectForRole returns the canonical identifier for a role-based subject.
func SubjectForRole(roleSlug string) string {
	roleSlug = strings.TrimSpace(roleSlug)
	if roleSlug == "" {
		roleSlug = "unnamed"
	}
	if strings.HasPrefix(roleSlug, rolePrefix+subjectSeparator) {
		return roleSlug
	}
	return rolePrefix + subjectSeparator + strings.ToLower(roleSlug)
}

// DomainFromTenant converts a tenant ID into a casbin domain string.
func DomainFromTenant(id uuid.UUID) string {
	if id == uuid.Nil {
		return globalDomain
	}
	return strings.ToLower(id.String())
}

// ObjectName returns the canonical module.resource string, lowercased.
func ObjectName(module, resource string) string {
	module = strings.ToLower(strings.TrimSpace(module))
	resource = strings.ToLower(strings.TrimSpace(resource))
	if module == "" {
		module = "global"
	}
	if resource == "" {
		resource = "resource"
	}
	return module + objectSeparator + resource
}

// NormalizeAction returns a normalized action string.
func NormalizeAction(action string) string {
	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		return actionWildcard
	}
	return action
}
