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
	"github.com/ahmed7gendy/hr-edecs/internal/validation"
)

// DepartmentService manages departments and the employment/leave type lookups.
type DepartmentService struct {
	cols     *database.Collections
	activity ActivityRecorder
	log      *zap.Logger
	now      func() time.Time
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(cols *database.Collections, activity ActivityRecorder, log *zap.Logger) *DepartmentService {
	return &DepartmentService{
		cols:     cols,
		activity: activity,
		log:      logger.OrNop(log).Named("departments"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create adds a department. An empty id is generated.
func (s *DepartmentService) Create(ctx context.Context, actor models.Actor, dept models.Department) (*models.Department, error) {
	dept.Name = strings.TrimSpace(dept.Name)
	if err := invalid(validation.ValidateDepartment(dept)); err != nil {
		return nil, err
	}
	if dept.ID == "" {
		dept.ID = store.NewID()
	}
	dept.CreatedAt = s.now()
	dept.UpdatedAt = dept.CreatedAt

	if err := s.cols.Departments.Insert(ctx, dept); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflict("Department already exists")
		}
		return nil, apperror.FromStore(err, "create department")
	}

	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityDepartment,
		Action:      models.ActionCreate,
		Title:       "Department created",
		Description: dept.Name,
		RelatedID:   dept.ID,
	})
	return &dept, nil
}

// List returns every department ordered by name.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	depts, err := s.cols.Departments.Find(ctx, store.NewQuery().OrderBy("name", false))
	if err != nil {
		return nil, apperror.FromStore(err, "list departments")
	}
	return depts, nil
}

// Get returns one department.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	dept, err := s.cols.Departments.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "department", id, "get department")
	}
	return &dept, nil
}

// Update replaces name, description and manager.
func (s *DepartmentService) Update(ctx context.Context, actor models.Actor, id string, in models.Department) (*models.Department, error) {
	dept, err := s.cols.Departments.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "department", id, "get department")
	}
	dept.Name = strings.TrimSpace(in.Name)
	dept.Description = in.Description
	dept.ManagerID = in.ManagerID
	if err := invalid(validation.ValidateDepartment(dept)); err != nil {
		return nil, err
	}
	dept.UpdatedAt = s.now()

	if err := s.cols.Departments.Replace(ctx, id, dept); err != nil {
		return nil, lookupErr(err, "department", id, "update department")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityDepartment,
		Action:      models.ActionUpdate,
		Title:       "Department updated",
		Description: dept.Name,
		RelatedID:   id,
	})
	return &dept, nil
}

// Delete removes a department that no user references.
func (s *DepartmentService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if _, err := s.cols.Departments.Get(ctx, id); err != nil {
		return lookupErr(err, "department", id, "get department")
	}
	n, err := s.cols.Users.Count(ctx, store.Where("department", id))
	if err != nil {
		return apperror.FromStore(err, "count department employees")
	}
	if n > 0 {
		return apperror.New(apperror.KindValidation, "Department still has employees").
			WithDetail("employees", n)
	}

	if err := s.cols.Departments.Delete(ctx, id); err != nil {
		return lookupErr(err, "department", id, "delete department")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:    actor.UserID,
		Type:      models.ActivityDepartment,
		Action:    models.ActionDelete,
		Title:     "Department deleted",
		RelatedID: id,
	})
	logger.WithContext(ctx, s.log).Info("department deleted", zap.String("department_id", id))
	return nil
}

// EmploymentTypes lists the seeded employment types.
func (s *DepartmentService) EmploymentTypes(ctx context.Context) ([]models.EmploymentType, error) {
	items, err := s.cols.EmploymentTypes.Find(ctx, store.NewQuery())
	if err != nil {
		return nil, apperror.FromStore(err, "list employment types")
	}
	return items, nil
}

// LeaveTypes lists the seeded leave types.
func (s *DepartmentService) LeaveTypes(ctx context.Context) ([]models.LeaveType, error) {
	items, err := s.cols.LeaveTypes.Find(ctx, store.NewQuery())
	if err != nil {
		return nil, apperror.FromStore(err, "list leave types")
	}
	return items, nil
}
