// Package validation holds pure record validators. Each validator returns a
// map from field name to message for every violated rule; an empty map means
// the record is valid. No validator consults stored state.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
)

// Errors maps a field name to a human-readable message.
type Errors map[string]string

// Valid is true when no rule was violated.
func (e Errors) Valid() bool { return len(e) == 0 }

const MsgDateRange = "End date must be after start date"

var (
	validate    = validator.New()
	phoneRegex  = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{6,19}$`)
	periodRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

// IsEmail reports whether s is a well-formed email address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// IsPhone reports whether s looks like a phone number.
func IsPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// IsPayPeriod reports whether s is a YYYY-MM pay period.
func IsPayPeriod(s string) bool {
	return periodRegex.MatchString(s)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func required(errs Errors, field, value, message string) {
	if blank(value) {
		errs[field] = message
	}
}

func requiredTime(errs Errors, field string, value time.Time, message string) {
	if value.IsZero() {
		errs[field] = message
	}
}

// dateRange flags end before start. Equal dates are allowed.
func dateRange(errs Errors, start, end time.Time) {
	if start.IsZero() || end.IsZero() {
		return
	}
	if end.Before(start) {
		errs["dateRange"] = MsgDateRange
	}
}

// ValidateEmployeeData checks a user record before it is written.
func ValidateEmployeeData(u models.User) Errors {
	errs := Errors{}
	required(errs, "firstName", u.FirstName, "First name is required")
	if blank(u.Email) {
		errs["email"] = "Email is required"
	} else if !IsEmail(u.Email) {
		errs["email"] = "Invalid email format"
	}
	if u.Phone != "" && !IsPhone(u.Phone) {
		errs["phone"] = "Invalid phone number format"
	}
	required(errs, "department", u.Department, "Department is required")
	required(errs, "position", u.Position, "Position is required")
	if u.Salary < 0 {
		errs["salary"] = "Salary cannot be negative"
	}
	if u.Status != "" && !u.Status.Valid() {
		errs["status"] = "Invalid employee status"
	}
	return errs
}

// ValidateLeaveRequest checks a leave request.
func ValidateLeaveRequest(l models.LeaveRequest) Errors {
	errs := Errors{}
	required(errs, "userId", l.UserID, "Employee is required")
	required(errs, "type", l.Type, "Leave type is required")
	requiredTime(errs, "startDate", l.StartDate, "Start date is required")
	requiredTime(errs, "endDate", l.EndDate, "End date is required")
	required(errs, "reason", l.Reason, "Reason is required")
	dateRange(errs, l.StartDate, l.EndDate)
	return errs
}

// ValidateJobPosting checks a job posting.
func ValidateJobPosting(j models.JobPosting) Errors {
	errs := Errors{}
	required(errs, "title", j.Title, "Job title is required")
	required(errs, "department", j.Department, "Department is required")
	required(errs, "description", j.Description, "Description is required")
	required(errs, "employmentType", j.EmploymentType, "Employment type is required")
	if j.SalaryMin < 0 || j.SalaryMax < 0 {
		errs["salary"] = "Salary cannot be negative"
	} else if j.SalaryMin > 0 && j.SalaryMax > 0 && j.SalaryMax < j.SalaryMin {
		errs["salaryRange"] = "Maximum salary must be greater than minimum salary"
	}
	return errs
}

// ValidateProject checks a project.
func ValidateProject(p models.Project) Errors {
	errs := Errors{}
	required(errs, "name", p.Name, "Project name is required")
	requiredTime(errs, "startDate", p.StartDate, "Start date is required")
	if p.EndDate != nil {
		dateRange(errs, p.StartDate, *p.EndDate)
	}
	switch p.Status {
	case "", models.ProjectPlanning, models.ProjectActive, models.ProjectOnHold,
		models.ProjectCompleted, models.ProjectCancelled:
	default:
		errs["status"] = "Invalid project status"
	}
	if p.Budget < 0 {
		errs["budget"] = "Budget cannot be negative"
	}
	return errs
}

// MaxTrainingCapacity bounds Training.Capacity.
const MaxTrainingCapacity = 500

// ValidateTraining checks a training session.
func ValidateTraining(t models.Training) Errors {
	errs := Errors{}
	required(errs, "title", t.Title, "Training title is required")
	required(errs, "trainer", t.Trainer, "Trainer is required")
	requiredTime(errs, "startDate", t.StartDate, "Start date is required")
	requiredTime(errs, "endDate", t.EndDate, "End date is required")
	dateRange(errs, t.StartDate, t.EndDate)
	if t.Capacity < 1 || t.Capacity > MaxTrainingCapacity {
		errs["capacity"] = "Capacity must be between 1 and 500"
	} else if len(t.Participants) > t.Capacity {
		errs["participants"] = "Participants exceed capacity"
	}
	return errs
}

// ValidatePerformanceReview checks a performance review.
func ValidatePerformanceReview(r models.PerformanceReview) Errors {
	errs := Errors{}
	required(errs, "userId", r.UserID, "Employee is required")
	required(errs, "reviewerId", r.ReviewerID, "Reviewer is required")
	required(errs, "period", r.Period, "Review period is required")
	if r.Rating < 1 || r.Rating > 5 {
		errs["rating"] = "Rating must be between 1 and 5"
	}
	return errs
}

// ValidateDepartment checks a department.
func ValidateDepartment(d models.Department) Errors {
	errs := Errors{}
	required(errs, "name", d.Name, "Department name is required")
	return errs
}

// ValidatePayroll checks a payroll record.
func ValidatePayroll(p models.PayrollRecord) Errors {
	errs := Errors{}
	required(errs, "userId", p.UserID, "Employee is required")
	if blank(p.Period) {
		errs["period"] = "Pay period is required"
	} else if !IsPayPeriod(p.Period) {
		errs["period"] = "Pay period must be in YYYY-MM format"
	}
	if p.BaseSalary < 0 {
		errs["baseSalary"] = "Base salary cannot be negative"
	}
	if p.Allowances < 0 {
		errs["allowances"] = "Allowances cannot be negative"
	}
	if p.Deductions < 0 {
		errs["deductions"] = "Deductions cannot be negative"
	}
	return errs
}

// ValidateDocument checks document metadata.
func ValidateDocument(d models.Document) Errors {
	errs := Errors{}
	required(errs, "userId", d.UserID, "Employee is required")
	required(errs, "title", d.Title, "Title is required")
	required(errs, "url", d.URL, "File is required")
	return errs
}

// ValidateChecklist checks a checklist.
func ValidateChecklist(c models.Checklist) Errors {
	errs := Errors{}
	required(errs, "title", c.Title, "Title is required")
	for _, item := range c.Items {
		if blank(item.Title) {
			errs["items"] = "Every item needs a title"
			break
		}
	}
	return errs
}
