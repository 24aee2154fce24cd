package employee

import "slices"

type Permission string

const (
	// Profile permissions
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Employee management permissions
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeApprove Permission = "employee.approve"
	PermissionEmployeeManage  Permission = "employee.manage"
	PermissionEmployeeDelete  Permission = "employee.delete"

	// Attendance permissions
	PermissionAttendanceSelf    Permission = "attendance.self"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Payroll permissions
	PermissionPayrollViewOwn  Permission = "payroll.view_own"
	PermissionPayrollViewAll  Permission = "payroll.view_all"
	PermissionPayrollGenerate Permission = "payroll.generate"

	// Review permissions
	PermissionReviewViewOwn Permission = "review.view_own"
	PermissionReviewViewAll Permission = "review.view_all"
	PermissionReviewWrite   Permission = "review.write"
)

var employeePermissions = []Permission{
	PermissionViewOwnProfile,
	PermissionEditOwnProfile,
	PermissionAttendanceSelf,
	PermissionPayrollViewOwn,
	PermissionReviewViewOwn,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleEmployee: employeePermissions,
	RoleHR: append(slices.Clone(employeePermissions),
		PermissionEmployeeViewAll,
		PermissionEmployeeApprove,
		PermissionEmployeeManage,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionPayrollViewAll,
		PermissionPayrollGenerate,
		PermissionReviewViewAll,
		PermissionReviewWrite,
	),
	RoleAdmin: append(slices.Clone(employeePermissions),
		PermissionEmployeeViewAll,
		PermissionEmployeeApprove,
		PermissionEmployeeManage,
		PermissionEmployeeDelete,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionPayrollViewAll,
		PermissionPayrollGenerate,
		PermissionReviewViewAll,
		PermissionReviewWrite,
	),
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	return slices.Contains(RolePermissions[role], permission)
}
