package permissions

import (
	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/core/domain/entities/permission"
	"github.com/grupovertice/intranet/pkg/access"
)

const (
	ResourceAccount     permission.Resource = "account"
	ResourceCertificate permission.Resource = "certificate"
)

func AccountNames() access.PermissionNames {
	return access.PermissionNames{
		ManageAll: "accounts.manage_all",
		ViewArea:  "accounts.view_area",
		ViewOwn:   "accounts.view_own",
	}
}

var (
	AccountManageAll = &permission.Permission{
		ID:       uuid.MustParse("f4c2d1e0-73b6-4c9d-9e8f-4c9b2fbc3e01"),
		Name:     "accounts.manage_all",
		Resource: ResourceAccount,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	AccountViewArea = &permission.Permission{
		ID:       uuid.MustParse("f4c2d1e0-73b6-4c9d-9e8f-4c9b2fbc3e02"),
		Name:     "accounts.view_area",
		Resource: ResourceAccount,
		Action:   permission.ActionView,
		Modifier: permission.ModifierArea,
	}
	AccountViewOwn = &permission.Permission{
		ID:       uuid.MustParse("f4c2d1e0-73b6-4c9d-9e8f-4c9b2fbc3e03"),
		Name:     "accounts.view_own",
		Resource: ResourceAccount,
		Action:   permission.ActionView,
		Modifier: permission.ModifierOwn,
	}
	CertificateManage = &permission.Permission{
		ID:       uuid.MustParse("f4c2d1e0-73b6-4c9d-9e8f-4c9b2fbc3e04"),
		Name:     "certificates.manage",
		Resource: ResourceCertificate,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	CertificateView = &permission.Permission{
		ID:       uuid.MustParse("f4c2d1e0-73b6-4c9d-9e8f-4c9b2fbc3e05"),
		Name:     "certificates.view",
		Resource: ResourceCertificate,
		Action:   permission.ActionView,
		Modifier: permission.ModifierAll,
	}
)

// AdminNotifyPermission is the permission whose holders receive sweep
// summaries.
const AdminNotifyPermission = "accounts.manage_all"

var Permissions = []*permission.Permission{
	AccountManageAll,
	AccountViewArea,
	AccountViewOwn,
	CertificateManage,
	CertificateView,
}
