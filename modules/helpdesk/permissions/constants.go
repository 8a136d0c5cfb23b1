package permissions

import (
	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/core/domain/entities/permission"
	"github.com/grupovertice/intranet/pkg/access"
)

const (
	ResourceTicket   permission.Resource = "ticket"
	ResourceIncident permission.Resource = "incident"
)

// TicketNames maps the ticket permission identifiers into the scope
// resolver.
func TicketNames() access.PermissionNames {
	return access.PermissionNames{
		ManageAll:    "tickets.manage_all",
		ViewArea:     "tickets.view_area",
		ViewOwn:      "tickets.view_own",
		Update:       "tickets.update",
		ChangeStatus: "tickets.change_status",
		Assign:       "tickets.assign",
		Escalate:     "tickets.escalate",
		Comment:      "tickets.comment",
	}
}

func IncidentNames() access.PermissionNames {
	return access.PermissionNames{
		ManageAll:    "incidents.manage_all",
		ViewArea:     "incidents.view_area",
		ViewOwn:      "incidents.view_own",
		Update:       "incidents.update",
		ChangeStatus: "incidents.change_status",
		Assign:       "incidents.assign",
		Escalate:     "incidents.escalate",
		Comment:      "incidents.comment",
	}
}

var (
	TicketManageAll = &permission.Permission{
		ID:       uuid.MustParse("d3a3b9a2-51f4-4f7a-9c6f-2a7f0f9a1c01"),
		Name:     "tickets.manage_all",
		Resource: ResourceTicket,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	TicketViewArea = &permission.Permission{
		ID:       uuid.MustParse("d3a3b9a2-51f4-4f7a-9c6f-2a7f0f9a1c02"),
		Name:     "tickets.view_area",
		Resource: ResourceTicket,
		Action:   permission.ActionView,
		Modifier: permission.ModifierArea,
	}
	TicketViewOwn = &permission.Permission{
		ID:       uuid.MustParse("d3a3b9a2-51f4-4f7a-9c6f-2a7f0f9a1c03"),
		Name:     "tickets.view_own",
		Resource: ResourceTicket,
		Action:   permission.ActionView,
		Modifier: permission.ModifierOwn,
	}
	TicketUpdate = &permission.Permission{
		ID:       uuid.MustParse("d3a3b9a2-51f4-4f7a-9c6f-2a7f0f9a1c04"),
		Name:     "tickets.update",
		Resource: ResourceTicket,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierArea,
	}
	TicketChangeStatus = &permission.Permission{
		ID:       uuid.MustParse("d3a3b9a2-51f4-4f7a-9c6f-2a7f0f9a1c05"),
		Name:     "tickets.change_status",
		Resource: ResourceTicket,
		Action:   permission.ActionChangeStatus,
		Modifier: permission.ModifierArea,
	}
	TicketAssign = &permission.Permission{
		ID:       uuid.MustParse("d3a3b9a2-51f4-4f7a-9c6f-2a7f0f9a1c06"),
		Name:     "tickets.assign",
		Resource: ResourceTicket,
		Action:   permission.ActionAssign,
		Modifier: permission.ModifierArea,
	}
	TicketEscalate = &permission.Permission{
		ID:       uuid.MustParse("d3a3b9a2-51f4-4f7a-9c6f-2a7f0f9a1c07"),
		Name:     "tickets.escalate",
		Resource: ResourceTicket,
		Action:   permission.ActionEscalate,
		Modifier: permission.ModifierArea,
	}
	TicketComment = &permission.Permission{
		ID:       uuid.MustParse("d3a3b9a2-51f4-4f7a-9c6f-2a7f0f9a1c08"),
		Name:     "tickets.comment",
		Resource: ResourceTicket,
		Action:   permission.ActionComment,
		Modifier: permission.ModifierArea,
	}

	IncidentManageAll = &permission.Permission{
		ID:       uuid.MustParse("e1b7c8d4-62a5-4b8c-8d7e-3b8a1fab2d01"),
		Name:     "incidents.manage_all",
		Resource: ResourceIncident,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	IncidentViewArea = &permission.Permission{
		ID:       uuid.MustParse("e1b7c8d4-62a5-4b8c-8d7e-3b8a1fab2d02"),
		Name:     "incidents.view_area",
		Resource: ResourceIncident,
		Action:   permission.ActionView,
		Modifier: permission.ModifierArea,
	}
	IncidentViewOwn = &permission.Permission{
		ID:       uuid.MustParse("e1b7c8d4-62a5-4b8c-8d7e-3b8a1fab2d03"),
		Name:     "incidents.view_own",
		Resource: ResourceIncident,
		Action:   permission.ActionView,
		Modifier: permission.ModifierOwn,
	}
	IncidentUpdate = &permission.Permission{
		ID:       uuid.MustParse("e1b7c8d4-62a5-4b8c-8d7e-3b8a1fab2d04"),
		Name:     "incidents.update",
		Resource: ResourceIncident,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierArea,
	}
	IncidentChangeStatus = &permission.Permission{
		ID:       uuid.MustParse("e1b7c8d4-62a5-4b8c-8d7e-3b8a1fab2d05"),
		Name:     "incidents.change_status",
		Resource: ResourceIncident,
		Action:   permission.ActionChangeStatus,
		Modifier: permission.ModifierArea,
	}
	IncidentAssign = &permission.Permission{
		ID:       uuid.MustParse("e1b7c8d4-62a5-4b8c-8d7e-3b8a1fab2d06"),
		Name:     "incidents.assign",
		Resource: ResourceIncident,
		Action:   permission.ActionAssign,
		Modifier: permission.ModifierArea,
	}
	IncidentEscalate = &permission.Permission{
		ID:       uuid.MustParse("e1b7c8d4-62a5-4b8c-8d7e-3b8a1fab2d07"),
		Name:     "incidents.escalate",
		Resource: ResourceIncident,
		Action:   permission.ActionEscalate,
		Modifier: permission.ModifierArea,
	}
	IncidentComment = &permission.Permission{
		ID:       uuid.MustParse("e1b7c8d4-62a5-4b8c-8d7e-3b8a1fab2d08"),
		Name:     "incidents.comment",
		Resource: ResourceIncident,
		Action:   permission.ActionComment,
		Modifier: permission.ModifierArea,
	}
)

var Permissions = []*permission.Permission{
	TicketManageAll,
	TicketViewArea,
	TicketViewOwn,
	TicketUpdate,
	TicketChangeStatus,
	TicketAssign,
	TicketEscalate,
	TicketComment,
	IncidentManageAll,
	IncidentViewArea,
	IncidentViewOwn,
	IncidentUpdate,
	IncidentChangeStatus,
	IncidentAssign,
	IncidentEscalate,
	IncidentComment,
}
