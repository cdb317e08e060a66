package models

import "time"

// UserStatus is the employment status of a user.
type UserStatus string

const (
	StatusActive     UserStatus = "active"
	StatusOnLeave    UserStatus = "on_leave"
	StatusTerminated UserStatus = "terminated"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusOnLeave, StatusTerminated:
		return true
	}
	return false
}

// User is an employee account. Users are never hard-deleted; termination is a
// status transition.
type User struct {
	ID             string     `bson:"_id" json:"id"`
	FirstName      string     `bson:"firstName" json:"firstName"`
	LastName       string     `bson:"lastName" json:"lastName"`
	Email          string     `bson:"email" json:"email"`
	Password       string     `bson:"password" json:"-"`
	Phone          string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Role           string     `bson:"role" json:"role"`
	Department     string     `bson:"department" json:"department"`
	Position       string     `bson:"position" json:"position"`
	EmploymentType string     `bson:"employmentType,omitempty" json:"employmentType,omitempty"`
	Status         UserStatus `bson:"status" json:"status"`
	Salary         float64    `bson:"salary,omitempty" json:"salary,omitempty"`
	HireDate       time.Time  `bson:"hireDate" json:"hireDate"`
	AvatarURL      string     `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// CreateEmployeeRequest is the payload for provisioning an employee.
type CreateEmployeeRequest struct {
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Password       string    `json:"password"`
	Phone          string    `json:"phone"`
	Role           string    `json:"role"`
	Department     string    `json:"department"`
	Position       string    `json:"position"`
	EmploymentType string    `json:"employmentType"`
	Salary         float64   `json:"salary"`
	HireDate       time.Time `json:"hireDate"`
}

// UpdateEmployeeRequest changes profile fields; nil fields are left untouched.
type UpdateEmployeeRequest struct {
	FirstName      *string  `json:"firstName,omitempty"`
	LastName       *string  `json:"lastName,omitempty"`
	Email          *string  `json:"email,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Role           *string  `json:"role,omitempty"`
	Department     *string  `json:"department,omitempty"`
	Position       *string  `json:"position,omitempty"`
	EmploymentType *string  `json:"employmentType,omitempty"`
	Salary         *float64 `json:"salary,omitempty"`
	AvatarURL      *string  `json:"avatarUrl,omitempty"`
}

// UpdateStatusRequest changes a user's employment status.
type UpdateStatusRequest struct {
	Status UserStatus `json:"status" validate:"required,oneof=active on_leave terminated"`
}

// EmployeeFilter narrows employee listings.
type EmployeeFilter struct {
	Department string
	Status     UserStatus
	Role       string
}

// UserLoginRequest is used for login requests.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the response body for a successful login.
type LoginResponse struct {
	Token       string       `json:"token"`
	UserID      string       `json:"userId"`
	Role        string       `json:"role"`
	Permissions []Permission `json:"permissions"`
}

// AuthContext holds the authenticated caller for the current request.
type AuthContext struct {
	UserID      string
	Name        string
	Role        string
	Permissions PermissionSet
}

// HasPermission checks the resolved permission set, honouring the wildcard.
func (ac *AuthContext) HasPermission(permission Permission) bool {
	return ac.Permissions.Has(permission)
}

// Actor converts the caller into the identity recorded on writes.
func (ac *AuthContext) Actor() Actor {
	return Actor{UserID: ac.UserID, Name: ac.Name}
}
