package services

import "github.com/grupovertice/intranet/pkg/serrors"

var ErrNoWorkflowStates = serrors.NewError(
	"HELPDESK_NO_STATES",
	"no workflow states configured",
	"helpdesk.errors.noStates",
)
