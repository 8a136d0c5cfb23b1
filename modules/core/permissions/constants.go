package permissions

import (
	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/core/domain/entities/permission"
)

const (
	ResourceUser permission.Resource = "user"
	ResourceRole permission.Resource = "role"
	ResourceArea permission.Resource = "area"
)

var (
	UserManage = &permission.Permission{
		ID:       uuid.MustParse("8531e922-3ef1-45b0-9e4a-bfcc66a7d8a1"),
		Name:     "users.manage",
		Resource: ResourceUser,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	UserView = &permission.Permission{
		ID:       uuid.MustParse("c9157cc4-14e5-4a41-a854-30f4d1e7fc62"),
		Name:     "users.view",
		Resource: ResourceUser,
		Action:   permission.ActionView,
		Modifier: permission.ModifierAll,
	}
	RoleManage = &permission.Permission{
		ID:       uuid.MustParse("52aaa7de-0fc8-4e20-8edc-19d3f4e0c6a5"),
		Name:     "roles.manage",
		Resource: ResourceRole,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	AreaManage = &permission.Permission{
		ID:       uuid.MustParse("6f5cfd9f-24f0-4d55-9a49-6ad6b24f4c2e"),
		Name:     "areas.manage",
		Resource: ResourceArea,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
)

var Permissions = []*permission.Permission{
	UserManage,
	UserView,
	RoleManage,
	AreaManage,
}
