package persistence

import (
	"github.com/grupovertice/intranet/modules/core/domain/aggregates/user"
	"github.com/grupovertice/intranet/modules/core/domain/entities/area"
	"github.com/grupovertice/intranet/modules/core/domain/entities/history"
	"github.com/grupovertice/intranet/modules/core/domain/entities/notification"
	"github.com/grupovertice/intranet/modules/core/domain/entities/role"
	"github.com/grupovertice/intranet/modules/core/infrastructure/persistence/models"
	"github.com/grupovertice/intranet/pkg/access"
)

func toDomainUser(dbRow *models.User, perms access.PermissionSet) user.User {
	return user.Hydrate(
		dbRow.ID,
		dbRow.TenantID,
		dbRow.Email,
		dbRow.FirstName,
		dbRow.LastName,
		dbRow.AreaID,
		dbRow.Active,
		perms,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	)
}

func toDBUser(entity user.User) *models.User {
	return &models.User{
		ID:        entity.ID(),
		TenantID:  entity.TenantID(),
		Email:     entity.Email(),
		FirstName: entity.FirstName(),
		LastName:  entity.LastName(),
		AreaID:    entity.AreaID(),
		Active:    entity.Active(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func toDomainArea(dbRow *models.Area) *area.Area {
	return &area.Area{
		ID:        dbRow.ID,
		TenantID:  dbRow.TenantID,
		Name:      dbRow.Name,
		Active:    dbRow.Active,
		CreatedAt: dbRow.CreatedAt,
		UpdatedAt: dbRow.UpdatedAt,
	}
}

func toDomainRole(dbRow *models.Role) *role.Role {
	return &role.Role{
		ID:          dbRow.ID,
		TenantID:    dbRow.TenantID,
		Name:        dbRow.Name,
		Description: dbRow.Description,
		CreatedAt:   dbRow.CreatedAt,
		UpdatedAt:   dbRow.UpdatedAt,
	}
}

func toDomainNotification(dbRow *models.Notification) *notification.Notification {
	return &notification.Notification{
		ID:          dbRow.ID,
		TenantID:    dbRow.TenantID,
		UserID:      dbRow.UserID,
		Kind:        dbRow.Kind,
		SubjectKind: dbRow.SubjectKind,
		SubjectID:   dbRow.SubjectID,
		Message:     dbRow.Message,
		Read:        dbRow.Read,
		ReadAt:      dbRow.ReadAt,
		CreatedAt:   dbRow.CreatedAt,
	}
}

func toDomainHistoryRecord(dbRow *models.HistoryRecord) *history.Record {
	return &history.Record{
		ID:             dbRow.ID,
		TenantID:       dbRow.TenantID,
		SubjectKind:    history.SubjectKind(dbRow.SubjectKind),
		SubjectID:      dbRow.SubjectID,
		ActorID:        dbRow.ActorID,
		Action:         history.Action(dbRow.Action),
		FromStateID:    dbRow.FromStateID,
		ToStateID:      dbRow.ToStateID,
		FromAreaID:     dbRow.FromAreaID,
		ToAreaID:       dbRow.ToAreaID,
		FromAssigneeID: dbRow.FromAssigneeID,
		ToAssigneeID:   dbRow.ToAssigneeID,
		Note:           dbRow.Note,
		CreatedAt:      dbRow.CreatedAt,
	}
}
