package models

import "time"

// ActivityType is the entity family an activity is about.
type ActivityType string

const (
	ActivityUser        ActivityType = "user"
	ActivityEmployee    ActivityType = "employee"
	ActivityDepartment  ActivityType = "department"
	ActivityLeave       ActivityType = "leave"
	ActivityPayroll     ActivityType = "payroll"
	ActivityRecruitment ActivityType = "recruitment"
	ActivityProject     ActivityType = "project"
	ActivityTraining    ActivityType = "training"
	ActivityPerformance ActivityType = "performance"
	ActivityDocument    ActivityType = "document"
	ActivityFreelancer  ActivityType = "freelancer"
	ActivityChecklist   ActivityType = "checklist"
	ActivityReport      ActivityType = "report"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityUser, ActivityEmployee, ActivityDepartment, ActivityLeave, ActivityPayroll,
		ActivityRecruitment, ActivityProject, ActivityTraining, ActivityPerformance,
		ActivityDocument, ActivityFreelancer, ActivityChecklist, ActivityReport:
		return true
	}
	return false
}

// ActivityAction is what happened.
type ActivityAction string

const (
	ActionCreate   ActivityAction = "create"
	ActionUpdate   ActivityAction = "update"
	ActionDelete   ActivityAction = "delete"
	ActionApprove  ActivityAction = "approve"
	ActionReject   ActivityAction = "reject"
	ActionAssign   ActivityAction = "assign"
	ActionComplete ActivityAction = "complete"
	ActionSubmit   ActivityAction = "submit"
	ActionReview   ActivityAction = "review"
)

// Valid reports whether a is a known action.
func (a ActivityAction) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionApprove, ActionReject,
		ActionAssign, ActionComplete, ActionSubmit, ActionReview:
		return true
	}
	return false
}

// Activity is an append-only audit record. It is never updated or deleted.
type Activity struct {
	ID          string         `bson:"_id" json:"id"`
	UserID      string         `bson:"userId" json:"userId"`
	Type        ActivityType   `bson:"type" json:"type"`
	Action      ActivityAction `bson:"action" json:"action"`
	Title       string         `bson:"title" json:"title"`
	Description string         `bson:"description" json:"description"`
	RelatedID   string         `bson:"relatedId,omitempty" json:"relatedId,omitempty"`
	Metadata    map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Timestamp   time.Time      `bson:"timestamp" json:"timestamp"`
}

// ActivityEntry is the input to the activity logger.
type ActivityEntry struct {
	UserID      string
	Type        ActivityType
	Action      ActivityAction
	Title       string
	Description string
	RelatedID   string
	Metadata    map[string]any
}
