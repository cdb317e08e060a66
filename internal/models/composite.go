package models

// EmployeeDetails is a user joined with every record it owns.
type EmployeeDetails struct {
	User
	Attendance  []Attendance        `json:"attendance"`
	Leaves      []LeaveRequest      `json:"leaves"`
	Payroll     []PayrollRecord     `json:"payroll"`
	Documents   []Document          `json:"documents"`
	Performance []PerformanceReview `json:"performance"`
}

// ProjectDetails is a project with its team resolved to users. Members whose
// user document no longer exists are left out.
type ProjectDetails struct {
	Project
	TeamMembers []User `json:"teamMembers"`
}

// DepartmentDetails is a department with the users that reference it.
type DepartmentDetails struct {
	Department
	Employees []User `json:"employees"`
}
