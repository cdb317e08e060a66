package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
	"github.com/ahmed7gendy/hr-edecs/internal/validation"
)

// EmployeeService provides methods for employee records
type EmployeeService struct {
	cols          *database.Collections
	relationships *RelationshipService
	activity      ActivityRecorder
	log           *zap.Logger
	now           func() time.Time
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(cols *database.Collections, rel *RelationshipService, activity ActivityRecorder, log *zap.Logger) *EmployeeService {
	return &EmployeeService{
		cols:          cols,
		relationships: rel,
		activity:      activity,
		log:           logger.OrNop(log).Named("employees"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create provisions a new employee account. Role defaults to employee and
// status to active.
func (s *EmployeeService) Create(ctx context.Context, actor models.Actor, req models.CreateEmployeeRequest) (*models.User, error) {
	now := s.now()
	user := models.User{
		ID:             store.NewID(),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          req.Phone,
		Role:           req.Role,
		Department:     req.Department,
		Position:       req.Position,
		EmploymentType: req.EmploymentType,
		Status:         models.StatusActive,
		Salary:         req.Salary,
		HireDate:       req.HireDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if user.Role == "" {
		user.Role = models.RoleEmployee
	}
	if user.HireDate.IsZero() {
		user.HireDate = now
	}

	errs := validation.ValidateEmployeeData(user)
	if len(req.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters"
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, user.Role, user.Department); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, user.Email, ""); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindUnknown, "Failed to hash password")
	}
	user.Password = hash

	if err := s.cols.Users.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflict("Email already registered")
		}
		return nil, apperror.FromStore(err, "create employee")
	}

	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityEmployee,
		Action:      models.ActionCreate,
		Title:       "Employee added",
		Description: user.FullName() + " joined " + user.Department,
		RelatedID:   user.ID,
	})
	logger.WithContext(ctx, s.log).Info("employee created", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return &user, nil
}

// Get retrieves an employee by id
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.cols.Users.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "employee", id, "get employee")
	}
	return &user, nil
}

// GetByEmail retrieves an employee by email address
func (s *EmployeeService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	users, err := s.cols.Users.Find(ctx, store.Where("email", email).Limit(1))
	if err != nil {
		return nil, apperror.FromStore(err, "get employee by email")
	}
	if len(users) == 0 {
		return nil, apperror.NotFound("employee", email)
	}
	return &users[0], nil
}

// List returns employees matching filter, ordered by last name.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.User, error) {
	q := store.NewQuery()
	if filter.Department != "" {
		q = q.Eq("department", filter.Department)
	}
	if filter.Status != "" {
		q = q.Eq("status", filter.Status)
	}
	if filter.Role != "" {
		q = q.Eq("role", filter.Role)
	}

	users, err := s.cols.Users.Find(ctx, q.OrderBy("lastName", false))
	if err != nil {
		return nil, apperror.FromStore(err, "list employees")
	}
	return users, nil
}

// Update applies the non-nil fields of req. The merged record is validated
// before anything is written.
func (s *EmployeeService) Update(ctx context.Context, actor models.Actor, id string, req models.UpdateEmployeeRequest) (*models.User, error) {
	user, err := s.cols.Users.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "employee", id, "get employee")
	}

	fields := map[string]any{}
	set := func(key string, dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
			fields[key] = *dst
		}
	}
	set("firstName", &user.FirstName, req.FirstName)
	set("lastName", &user.LastName, req.LastName)
	set("phone", &user.Phone, req.Phone)
	set("role", &user.Role, req.Role)
	set("department", &user.Department, req.Department)
	set("position", &user.Position, req.Position)
	set("employmentType", &user.EmploymentType, req.EmploymentType)
	set("avatarUrl", &user.AvatarURL, req.AvatarURL)
	emailChanged := false
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		emailChanged = email != user.Email
		user.Email = email
		fields["email"] = email
	}
	if req.Salary != nil {
		user.Salary = *req.Salary
		fields["salary"] = *req.Salary
	}

	if err := invalid(validation.ValidateEmployeeData(user)); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return &user, nil
	}
	if req.Role != nil || req.Department != nil {
		if err := s.checkReferences(ctx, user.Role, user.Department); err != nil {
			return nil, err
		}
	}
	if emailChanged {
		if err := s.ensureEmailFree(ctx, user.Email, id); err != nil {
			return nil, err
		}
	}

	user.UpdatedAt = s.now()
	fields["updatedAt"] = user.UpdatedAt
	if err := s.cols.Users.Update(ctx, id, fields); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflict("Email already registered")
		}
		return nil, lookupErr(err, "employee", id, "update employee")
	}

	changed := make([]string, 0, len(fields))
	for k := range fields {
		if k != "updatedAt" {
			changed = append(changed, k)
		}
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityEmployee,
		Action:      models.ActionUpdate,
		Title:       "Employee updated",
		Description: user.FullName() + " profile updated",
		RelatedID:   id,
		Metadata:    map[string]any{"fields": changed},
	})
	return &user, nil
}

// ChangeStatus moves the employee to status, running the termination cleanup
// when needed.
func (s *EmployeeService) ChangeStatus(ctx context.Context, actor models.Actor, id string, status models.UserStatus) error {
	return s.relationships.UpdateEmployeeStatus(ctx, actor, id, status)
}

func (s *EmployeeService) checkReferences(ctx context.Context, roleID, departmentID string) error {
	errs := validation.Errors{}
	if _, err := s.cols.Roles.Get(ctx, roleID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return apperror.FromStore(err, "get role")
		}
		errs["role"] = "Unknown role"
	}
	if _, err := s.cols.Departments.Get(ctx, departmentID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return apperror.FromStore(err, "get department")
		}
		errs["department"] = "Unknown department"
	}
	return invalid(errs)
}

func (s *EmployeeService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	users, err := s.cols.Users.Find(ctx, store.Where("email", email).Limit(2))
	if err != nil {
		return apperror.FromStore(err, "check email")
	}
	for _, u := range users {
		if u.ID != exceptID {
			return conflict("Email already registered")
		}
	}
	return nil
}
