package models

// Collection names in the document store.
const (
	CollectionUsers           = "users"
	CollectionRoles           = "roles"
	CollectionDepartments     = "departments"
	CollectionProjects        = "projects"
	CollectionChecklists      = "checklists"
	CollectionAttendance      = "attendance"
	CollectionLeaves          = "leaves"
	CollectionPayroll         = "payroll"
	CollectionDocuments       = "documents"
	CollectionPerformance     = "performance"
	CollectionActivities      = "activities"
	CollectionJobPostings     = "jobPostings"
	CollectionTrainings       = "trainings"
	CollectionEmploymentTypes = "employmentTypes"
	CollectionLeaveTypes      = "leaveTypes"
)

// Actor identifies who performs a mutation. It is supplied by the caller on
// every write so audit records never fall back to a placeholder identity.
type Actor struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
}

// System is the actor used by bootstrap and other unattended writes.
var System = Actor{UserID: "system", Name: "System"}
