package models

import "time"

// JobStatus is the state of a job posting.
type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

// JobPosting is an open position.
type JobPosting struct {
	ID             string     `bson:"_id" json:"id"`
	Title          string     `bson:"title" json:"title"`
	Department     string     `bson:"department" json:"department"`
	Description    string     `bson:"description" json:"description"`
	Requirements   []string   `bson:"requirements,omitempty" json:"requirements,omitempty"`
	EmploymentType string     `bson:"employmentType" json:"employmentType"`
	Location       string     `bson:"location,omitempty" json:"location,omitempty"`
	SalaryMin      float64    `bson:"salaryMin,omitempty" json:"salaryMin,omitempty"`
	SalaryMax      float64    `bson:"salaryMax,omitempty" json:"salaryMax,omitempty"`
	Deadline       *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Status         JobStatus  `bson:"status" json:"status"`
	PostedBy       string     `bson:"postedBy" json:"postedBy"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// TrainingStatus is the state of a training session.
type TrainingStatus string

const (
	TrainingScheduled TrainingStatus = "scheduled"
	TrainingOngoing   TrainingStatus = "ongoing"
	TrainingCompleted TrainingStatus = "completed"
)

// Training is a scheduled course with a bounded number of participants.
type Training struct {
	ID           string         `bson:"_id" json:"id"`
	Title        string         `bson:"title" json:"title"`
	Description  string         `bson:"description" json:"description"`
	Trainer      string         `bson:"trainer" json:"trainer"`
	StartDate    time.Time      `bson:"startDate" json:"startDate"`
	EndDate      time.Time      `bson:"endDate" json:"endDate"`
	Capacity     int            `bson:"capacity" json:"capacity"`
	Participants []string       `bson:"participants" json:"participants"`
	Status       TrainingStatus `bson:"status" json:"status"`
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt" json:"updatedAt"`
}
