package database

import (
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
)

// Collections bundles a typed handle for every entity collection.
type Collections struct {
	Users           store.Collection[models.User]
	Roles           store.Collection[models.Role]
	Departments     store.Collection[models.Department]
	Projects        store.Collection[models.Project]
	Checklists      store.Collection[models.Checklist]
	Attendance      store.Collection[models.Attendance]
	Leaves          store.Collection[models.LeaveRequest]
	Payroll         store.Collection[models.PayrollRecord]
	Documents       store.Collection[models.Document]
	Performance     store.Collection[models.PerformanceReview]
	Activities      store.Collection[models.Activity]
	JobPostings     store.Collection[models.JobPosting]
	Trainings       store.Collection[models.Training]
	EmploymentTypes store.Collection[models.EmploymentType]
	LeaveTypes      store.Collection[models.LeaveType]
}

// NewCollections opens every collection on b.
func NewCollections(b store.Backend) *Collections {
	return &Collections{
		Users:           store.For[models.User](b, models.CollectionUsers),
		Roles:           store.For[models.Role](b, models.CollectionRoles),
		Departments:     store.For[models.Department](b, models.CollectionDepartments),
		Projects:        store.For[models.Project](b, models.CollectionProjects),
		Checklists:      store.For[models.Checklist](b, models.CollectionChecklists),
		Attendance:      store.For[models.Attendance](b, models.CollectionAttendance),
		Leaves:          store.For[models.LeaveRequest](b, models.CollectionLeaves),
		Payroll:         store.For[models.PayrollRecord](b, models.CollectionPayroll),
		Documents:       store.For[models.Document](b, models.CollectionDocuments),
		Performance:     store.For[models.PerformanceReview](b, models.CollectionPerformance),
		Activities:      store.For[models.Activity](b, models.CollectionActivities),
		JobPostings:     store.For[models.JobPosting](b, models.CollectionJobPostings),
		Trainings:       store.For[models.Training](b, models.CollectionTrainings),
		EmploymentTypes: store.For[models.EmploymentType](b, models.CollectionEmploymentTypes),
		LeaveTypes:      store.For[models.LeaveType](b, models.CollectionLeaveTypes),
	}
}
