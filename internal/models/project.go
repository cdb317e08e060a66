package models

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// Project references its members by user id in Team.
type Project struct {
	ID          string        `bson:"_id" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Department  string        `bson:"department,omitempty" json:"department,omitempty"`
	ManagerID   string        `bson:"managerId,omitempty" json:"managerId,omitempty"`
	Team        []string      `bson:"team" json:"team"`
	Status      ProjectStatus `bson:"status" json:"status"`
	Budget      float64       `bson:"budget,omitempty" json:"budget,omitempty"`
	StartDate   time.Time     `bson:"startDate" json:"startDate"`
	EndDate     *time.Time    `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// ChecklistStatus is the progress of a checklist.
type ChecklistStatus string

const (
	ChecklistPending    ChecklistStatus = "pending"
	ChecklistInProgress ChecklistStatus = "in_progress"
	ChecklistCompleted  ChecklistStatus = "completed"
)

// ChecklistItem is a single line of a checklist.
type ChecklistItem struct {
	Title string `bson:"title" json:"title"`
	Done  bool   `bson:"done" json:"done"`
}

// Checklist is an onboarding/offboarding list assigned to at most one user.
// AssignedTo is nil when unassigned and is stored as null.
type Checklist struct {
	ID          string          `bson:"_id" json:"id"`
	Title       string          `bson:"title" json:"title"`
	Type        string          `bson:"type" json:"type"`
	Items       []ChecklistItem `bson:"items" json:"items"`
	AssignedTo  *string         `bson:"assignedTo" json:"assignedTo"`
	Status      ChecklistStatus `bson:"status" json:"status"`
	DueDate     *time.Time      `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	CompletedAt *time.Time      `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`
}
