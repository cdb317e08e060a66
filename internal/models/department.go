package models

import "time"

// Department groups users. Referenced by User.Department.
type Department struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	ManagerID   string    `bson:"managerId,omitempty" json:"managerId,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EmploymentType is a lookup value such as full_time.
type EmploymentType struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// LeaveType is a lookup value such as annual or sick leave.
type LeaveType struct {
	ID          string `bson:"_id" json:"id"`
	Name        string `bson:"name" json:"name"`
	DaysPerYear int    `bson:"daysPerYear" json:"daysPerYear"`
	Paid        bool   `bson:"paid" json:"paid"`
}

// DefaultDepartments are written by the bootstrap seed.
var DefaultDepartments = []Department{
	{ID: "hr", Name: "Human Resources", Description: "People operations and recruitment"},
	{ID: "engineering", Name: "Engineering", Description: "Product development"},
	{ID: "finance", Name: "Finance", Description: "Accounting and payroll"},
	{ID: "operations", Name: "Operations", Description: "Facilities and administration"},
	{ID: "sales", Name: "Sales", Description: "Sales and customer success"},
}

// DefaultEmploymentTypes are written by the bootstrap seed.
var DefaultEmploymentTypes = []EmploymentType{
	{ID: "full_time", Name: "Full-time"},
	{ID: "part_time", Name: "Part-time"},
	{ID: "contract", Name: "Contract"},
	{ID: "intern", Name: "Intern"},
}

// DefaultLeaveTypes are written by the bootstrap seed.
var DefaultLeaveTypes = []LeaveType{
	{ID: "annual", Name: "Annual Leave", DaysPerYear: 21, Paid: true},
	{ID: "sick", Name: "Sick Leave", DaysPerYear: 14, Paid: true},
	{ID: "personal", Name: "Personal Leave", DaysPerYear: 3, Paid: true},
	{ID: "maternity", Name: "Maternity Leave", DaysPerYear: 90, Paid: true},
	{ID: "unpaid", Name: "Unpaid Leave", DaysPerYear: 0, Paid: false},
}
