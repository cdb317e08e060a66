package models

import "time"

// AttendanceStatus classifies a day of attendance.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceHalfDay AttendanceStatus = "half_day"
)

// Attendance is one user's record for one day.
type Attendance struct {
	ID        string           `bson:"_id" json:"id"`
	UserID    string           `bson:"userId" json:"userId"`
	Date      time.Time        `bson:"date" json:"date"`
	CheckIn   *time.Time       `bson:"checkIn,omitempty" json:"checkIn,omitempty"`
	CheckOut  *time.Time       `bson:"checkOut,omitempty" json:"checkOut,omitempty"`
	Status    AttendanceStatus `bson:"status" json:"status"`
	Notes     string           `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`
}

// LeaveStatus is the review state of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveRequest is a request for time off.
type LeaveRequest struct {
	ID         string      `bson:"_id" json:"id"`
	UserID     string      `bson:"userId" json:"userId"`
	Type       string      `bson:"type" json:"type"`
	StartDate  time.Time   `bson:"startDate" json:"startDate"`
	EndDate    time.Time   `bson:"endDate" json:"endDate"`
	Days       int         `bson:"days" json:"days"`
	Reason     string      `bson:"reason" json:"reason"`
	Status     LeaveStatus `bson:"status" json:"status"`
	ReviewedBy string      `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewNote string      `bson:"reviewNote,omitempty" json:"reviewNote,omitempty"`
	ReviewedAt *time.Time  `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	CreatedAt  time.Time   `bson:"createdAt" json:"createdAt"`
}

// PayrollStatus is the processing state of a payroll record.
type PayrollStatus string

const (
	PayrollDraft     PayrollStatus = "draft"
	PayrollProcessed PayrollStatus = "processed"
	PayrollPaid      PayrollStatus = "paid"
)

// PayrollRecord is one pay period for one user.
type PayrollRecord struct {
	ID         string        `bson:"_id" json:"id"`
	UserID     string        `bson:"userId" json:"userId"`
	Period     string        `bson:"period" json:"period"`
	BaseSalary float64       `bson:"baseSalary" json:"baseSalary"`
	Allowances float64       `bson:"allowances" json:"allowances"`
	Deductions float64       `bson:"deductions" json:"deductions"`
	NetPay     float64       `bson:"netPay" json:"netPay"`
	Status     PayrollStatus `bson:"status" json:"status"`
	PaidAt     *time.Time    `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Document is a file stored for a user.
type Document struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"userId" json:"userId"`
	Title      string    `bson:"title" json:"title"`
	Category   string    `bson:"category" json:"category"`
	URL        string    `bson:"url" json:"url"`
	PublicID   string    `bson:"publicId,omitempty" json:"publicId,omitempty"`
	FileName   string    `bson:"fileName,omitempty" json:"fileName,omitempty"`
	Size       int64     `bson:"size,omitempty" json:"size,omitempty"`
	UploadedBy string    `bson:"uploadedBy" json:"uploadedBy"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// ReviewStatus is the state of a performance review.
type ReviewStatus string

const (
	ReviewDraft     ReviewStatus = "draft"
	ReviewSubmitted ReviewStatus = "submitted"
	ReviewCompleted ReviewStatus = "completed"
)

// PerformanceReview rates a user for a period.
type PerformanceReview struct {
	ID         string       `bson:"_id" json:"id"`
	UserID     string       `bson:"userId" json:"userId"`
	ReviewerID string       `bson:"reviewerId" json:"reviewerId"`
	Period     string       `bson:"period" json:"period"`
	Rating     int          `bson:"rating" json:"rating"`
	Goals      []string     `bson:"goals,omitempty" json:"goals,omitempty"`
	Comments   string       `bson:"comments,omitempty" json:"comments,omitempty"`
	Status     ReviewStatus `bson:"status" json:"status"`
	CreatedAt  time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time    `bson:"updatedAt" json:"updatedAt"`
}
