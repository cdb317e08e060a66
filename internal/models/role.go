package models

import "sort"

// Permission names a capability granted through a role.
type Permission = string

// WildcardPermission grants every capability.
const WildcardPermission Permission = "*"

const (
	PermManageEmployees   Permission = "manage_employees"
	PermViewEmployees     Permission = "view_employees"
	PermManageDepartments Permission = "manage_departments"
	PermManageAttendance  Permission = "manage_attendance"
	PermRequestLeave      Permission = "request_leave"
	PermApproveLeave      Permission = "approve_leave"
	PermManagePayroll     Permission = "manage_payroll"
	PermViewPayroll       Permission = "view_payroll"
	PermManageRecruitment Permission = "manage_recruitment"
	PermManageTraining    Permission = "manage_training"
	PermManagePerformance Permission = "manage_performance"
	PermManageDocuments   Permission = "manage_documents"
	PermManageProjects    Permission = "manage_projects"
	PermManageChecklists  Permission = "manage_checklists"
	PermViewReports       Permission = "view_reports"
	PermViewActivity      Permission = "view_activity"
	PermManageSettings    Permission = "manage_settings"
)

// PermissionCatalog lists every known permission.
var PermissionCatalog = []Permission{
	PermManageEmployees, PermViewEmployees, PermManageDepartments, PermManageAttendance,
	PermRequestLeave, PermApproveLeave, PermManagePayroll, PermViewPayroll,
	PermManageRecruitment, PermManageTraining, PermManagePerformance, PermManageDocuments,
	PermManageProjects, PermManageChecklists, PermViewReports, PermViewActivity,
	PermManageSettings,
}

// Role ids of the seeded roles.
const (
	RoleAdmin     = "admin"
	RoleHRManager = "hr_manager"
	RoleManager   = "manager"
	RoleEmployee  = "employee"
)

// Role is a named bundle of permissions. Level is an ordering for display only.
type Role struct {
	ID          string       `bson:"_id" json:"id"`
	Name        string       `bson:"name" json:"name" validate:"required"`
	Level       int          `bson:"level" json:"level"`
	Permissions []Permission `bson:"permissions" json:"permissions"`
}

// Grants reports whether the role carries p or the wildcard.
func (r Role) Grants(p Permission) bool {
	for _, granted := range r.Permissions {
		if granted == p || granted == WildcardPermission {
			return true
		}
	}
	return false
}

// DefaultRoles are written by the bootstrap seed.
var DefaultRoles = []Role{
	{
		ID:          RoleAdmin,
		Name:        "Administrator",
		Level:       100,
		Permissions: []Permission{WildcardPermission},
	},
	{
		ID:    RoleHRManager,
		Name:  "HR Manager",
		Level: 80,
		Permissions: []Permission{
			PermManageEmployees, PermViewEmployees, PermManageDepartments, PermManageAttendance,
			PermRequestLeave, PermApproveLeave, PermManagePayroll, PermViewPayroll,
			PermManageRecruitment, PermManageTraining, PermManagePerformance, PermManageDocuments,
			PermManageChecklists, PermViewReports, PermViewActivity,
		},
	},
	{
		ID:    RoleManager,
		Name:  "Department Manager",
		Level: 50,
		Permissions: []Permission{
			PermViewEmployees, PermRequestLeave, PermApproveLeave, PermManagePerformance,
			PermManageProjects, PermManageChecklists, PermViewReports,
		},
	},
	{
		ID:          RoleEmployee,
		Name:        "Employee",
		Level:       10,
		Permissions: []Permission{PermRequestLeave},
	},
}

// PermissionSet is a resolved set of permissions.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from a list.
func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has is true if p or the wildcard is in the set.
func (s PermissionSet) Has(p Permission) bool {
	if _, ok := s[WildcardPermission]; ok {
		return true
	}
	_, ok := s[p]
	return ok
}

// HasAny is true if at least one of perms is granted.
func (s PermissionSet) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if s.Has(p) {
			return true
		}
	}
	return false
}

// HasAll is true if every one of perms is granted.
func (s PermissionSet) HasAll(perms ...Permission) bool {
	for _, p := range perms {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// List returns the permissions sorted by name.
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
