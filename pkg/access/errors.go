package access

import "github.com/grupovertice/intranet/pkg/serrors"

var (
	// ErrForbidden is deliberately generic: callers surface it as-is so the
	// response never reveals which rule denied the request.
	ErrForbidden = serrors.NewError("ACCESS_FORBIDDEN", "not authorized", "Access.Forbidden")

	// ErrConflictState signals that the subject is in a state that does not
	// admit the requested action, e.g. cancelling a finalized request.
	ErrConflictState = serrors.NewError("ACCESS_CONFLICT_STATE", "action conflicts with current state", "Access.ConflictState")
)
