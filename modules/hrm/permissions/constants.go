package permissions

import (
	"github.com/google/uuid"

	"github.com/grupovertice/intranet/modules/core/domain/entities/permission"
)

const (
	ResourceEmployee   permission.Resource = "employee"
	ResourceAttendance permission.Resource = "attendance"
)

var (
	EmployeeManage = &permission.Permission{
		ID:       uuid.MustParse("a7e1f2b3-84c5-4d6e-9f01-5d2c3b4a5e01"),
		Name:     "employees.manage",
		Resource: ResourceEmployee,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
	EmployeeView = &permission.Permission{
		ID:       uuid.MustParse("a7e1f2b3-84c5-4d6e-9f01-5d2c3b4a5e02"),
		Name:     "employees.view",
		Resource: ResourceEmployee,
		Action:   permission.ActionView,
		Modifier: permission.ModifierAll,
	}
	AttendanceManage = &permission.Permission{
		ID:       uuid.MustParse("a7e1f2b3-84c5-4d6e-9f01-5d2c3b4a5e03"),
		Name:     "attendance.manage",
		Resource: ResourceAttendance,
		Action:   permission.ActionManage,
		Modifier: permission.ModifierAll,
	}
)

var Permissions = []*permission.Permission{
	EmployeeManage,
	EmployeeView,
	AttendanceManage,
}
