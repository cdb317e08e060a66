package models

import "time"

// DashboardPeriod defines possible date filters
type DashboardPeriod string

const (
	PeriodDaily   DashboardPeriod = "daily"
	PeriodWeekly  DashboardPeriod = "weekly"
	PeriodMonthly DashboardPeriod = "monthly"
	PeriodCustom  DashboardPeriod = "custom"
)

// StatusCount is the number of users in one employment status.
type StatusCount struct {
	Status UserStatus `json:"status"`
	Count  int64      `json:"count"`
}

// DepartmentCount is the number of users referencing one department.
type DepartmentCount struct {
	DepartmentID string `json:"departmentId"`
	Name         string `json:"name"`
	Count        int64  `json:"count"`
}

// DashboardMetricsResponse holds HR headline figures for the dashboard
type DashboardMetricsResponse struct {
	TotalEmployees int64             `json:"totalEmployees"`
	NewHires       int64             `json:"newHires"`      // hired within the period
	LeaveRequests  int64             `json:"leaveRequests"` // submitted within the period
	PendingLeaves  int64             `json:"pendingLeaves"`
	OpenPositions  int64             `json:"openPositions"`
	ActiveProjects int64             `json:"activeProjects"`
	ByStatus       []StatusCount     `json:"byStatus"`
	ByDepartment   []DepartmentCount `json:"byDepartment"`
	StartDate      *time.Time        `json:"startDate,omitempty"`
	EndDate        *time.Time        `json:"endDate,omitempty"`
	Period         DashboardPeriod   `json:"period"`
}
