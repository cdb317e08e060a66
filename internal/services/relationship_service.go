package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
)

// CascadeError reports a termination cleanup that stopped partway. Steps
// before Completed were applied and are not rolled back.
type CascadeError struct {
	UserID    string
	Completed int
	Total     int
	Step      string
	Err       error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade for user %s stopped at %q after %d of %d steps: %v",
		e.UserID, e.Step, e.Completed, e.Total, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

// PartiallyApplied reports true: the status change itself was written.
func (e *CascadeError) PartiallyApplied() bool { return true }

// cascadeStep is one independent, idempotent write.
type cascadeStep struct {
	name string
	run  func(ctx context.Context) error
}

// RelationshipService builds composite views across collections and applies
// the cleanup that follows an employee's termination.
type RelationshipService struct {
	cols     *database.Collections
	activity ActivityRecorder
	log      *zap.Logger
	now      func() time.Time
}

// NewRelationshipService creates a new RelationshipService
func NewRelationshipService(cols *database.Collections, activity ActivityRecorder, log *zap.Logger) *RelationshipService {
	return &RelationshipService{
		cols:     cols,
		activity: activity,
		log:      logger.OrNop(log).Named("relationship"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetEmployeeDetails loads the user and, concurrently, every record it owns.
// Any failed lookup fails the whole call.
func (s *RelationshipService) GetEmployeeDetails(ctx context.Context, userID string) (*models.EmployeeDetails, error) {
	user, err := s.cols.Users.Get(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "employee", userID, "get employee")
	}

	details := &models.EmployeeDetails{User: user}
	owned := store.Where("userId", userID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		details.Attendance, err = s.cols.Attendance.Find(gctx, owned.OrderBy("date", true))
		return wrapLookup(err, "attendance", userID)
	})
	g.Go(func() (err error) {
		details.Leaves, err = s.cols.Leaves.Find(gctx, owned.OrderBy("startDate", true))
		return wrapLookup(err, "leaves", userID)
	})
	g.Go(func() (err error) {
		details.Payroll, err = s.cols.Payroll.Find(gctx, owned.OrderBy("period", true))
		return wrapLookup(err, "payroll", userID)
	})
	g.Go(func() (err error) {
		details.Documents, err = s.cols.Documents.Find(gctx, owned.OrderBy("createdAt", true))
		return wrapLookup(err, "documents", userID)
	})
	g.Go(func() (err error) {
		details.Performance, err = s.cols.Performance.Find(gctx, owned.OrderBy("createdAt", true))
		return wrapLookup(err, "performance", userID)
	})

	if err := g.Wait(); err != nil {
		logger.WithContext(ctx, s.log).Warn("employee details lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return details, nil
}

func wrapLookup(err error, what, id string) error {
	if err == nil {
		return nil
	}
	return apperror.FromStore(fmt.Errorf("load %s for %s: %w", what, id, err), "load "+what)
}

// GetProjectDetails loads the project and resolves its team in parallel.
// Team ids that no longer resolve to a user are left out; any other lookup
// failure fails the call. Member order follows the team list.
func (s *RelationshipService) GetProjectDetails(ctx context.Context, projectID string) (*models.ProjectDetails, error) {
	project, err := s.cols.Projects.Get(ctx, projectID)
	if err != nil {
		return nil, lookupErr(err, "project", projectID, "get project")
	}

	resolved := make([]*models.User, len(project.Team))
	g, gctx := errgroup.WithContext(ctx)
	for i, memberID := range project.Team {
		g.Go(func() error {
			u, err := s.cols.Users.Get(gctx, memberID)
			switch {
			case err == nil:
				resolved[i] = &u
				return nil
			case errors.Is(err, store.ErrNotFound):
				logger.WithContext(ctx, s.log).Debug("dropping dangling team member",
					zap.String("project_id", projectID),
					zap.String("user_id", memberID),
				)
				return nil
			default:
				return wrapLookup(err, "team member "+memberID, projectID)
			}
		})
	}
	if err := g.Wait(); err != nil {
		logger.WithContext(ctx, s.log).Warn("project details lookup failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, err
	}

	members := make([]models.User, 0, len(resolved))
	for _, u := range resolved {
		if u != nil {
			members = append(members, *u)
		}
	}
	return &models.ProjectDetails{Project: project, TeamMembers: members}, nil
}

// GetDepartmentDetails loads the department and the users referencing it.
func (s *RelationshipService) GetDepartmentDetails(ctx context.Context, departmentID string) (*models.DepartmentDetails, error) {
	dept, err := s.cols.Departments.Get(ctx, departmentID)
	if err != nil {
		return nil, lookupErr(err, "department", departmentID, "get department")
	}

	employees, err := s.cols.Users.Find(ctx, store.Where("department", departmentID).OrderBy("lastName", false))
	if err != nil {
		return nil, wrapLookup(err, "employees", departmentID)
	}
	return &models.DepartmentDetails{Department: dept, Employees: employees}, nil
}

// UpdateEmployeeStatus sets the user's status. On termination the user is
// removed from every project team and every checklist assigned to them is
// unassigned and reset to pending with no item done. Cleanup runs one document at a time; a
// failure stops it and returns an error wrapping *CascadeError, leaving the
// earlier writes in place. Calling again with the same status re-runs the
// remaining cleanup.
func (s *RelationshipService) UpdateEmployeeStatus(ctx context.Context, actor models.Actor, userID string, status models.UserStatus) error {
	if !status.Valid() {
		return apperror.Validation(map[string]string{"status": "Invalid employee status"})
	}
	log := logger.WithContext(ctx, s.log).With(zap.String("user_id", userID), zap.String("status", string(status)))

	user, err := s.cols.Users.Get(ctx, userID)
	if err != nil {
		return lookupErr(err, "employee", userID, "get employee")
	}

	if err := s.cols.Users.Update(ctx, userID, map[string]any{
		"status":    status,
		"updatedAt": s.now(),
	}); err != nil {
		return apperror.FromStore(err, "update employee status")
	}

	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityEmployee,
		Action:      models.ActionUpdate,
		Title:       "Employee status changed",
		Description: fmt.Sprintf("%s is now %s", user.FullName(), status),
		RelatedID:   userID,
		Metadata: map[string]any{
			"previousStatus": string(user.Status),
			"status":         string(status),
		},
	})

	if status != models.StatusTerminated {
		return nil
	}

	steps, err := s.terminationSteps(ctx, userID)
	if err != nil {
		cerr := &CascadeError{UserID: userID, Step: "plan cleanup", Err: err}
		log.Error("termination cleanup could not be planned", zap.Error(cerr))
		return apperror.Wrap(cerr, apperror.KindDatabase, "Status updated but cleanup could not start").
			WithDetail("completed", 0)
	}

	for i, step := range steps {
		if err := step.run(ctx); err != nil {
			cerr := &CascadeError{UserID: userID, Completed: i, Total: len(steps), Step: step.name, Err: err}
			log.Error("termination cleanup stopped", zap.Error(cerr))
			return apperror.Wrap(cerr, apperror.KindDatabase, "Status updated but cleanup was only partially applied").
				WithDetail("completed", i).
				WithDetail("total", len(steps)).
				WithDetail("step", step.name)
		}
	}

	log.Info("termination cleanup applied", zap.Int("steps", len(steps)))
	return nil
}

// terminationSteps lists one write per referencing project and checklist.
func (s *RelationshipService) terminationSteps(ctx context.Context, userID string) ([]cascadeStep, error) {
	projects, err := s.cols.Projects.Find(ctx, store.Where("team", userID))
	if err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}
	checklists, err := s.cols.Checklists.Find(ctx, store.Where("assignedTo", userID))
	if err != nil {
		return nil, fmt.Errorf("find checklists: %w", err)
	}

	steps := make([]cascadeStep, 0, len(projects)+len(checklists))
	for _, p := range projects {
		team := without(p.Team, userID)
		steps = append(steps, cascadeStep{
			name: "remove from project " + p.ID,
			run: func(ctx context.Context) error {
				return s.cols.Projects.Update(ctx, p.ID, map[string]any{
					"team":      team,
					"updatedAt": s.now(),
				})
			},
		})
	}
	for _, c := range checklists {
		items := make([]models.ChecklistItem, len(c.Items))
		for i, it := range c.Items {
			items[i] = models.ChecklistItem{Title: it.Title}
		}
		steps = append(steps, cascadeStep{
			name: "unassign checklist " + c.ID,
			run: func(ctx context.Context) error {
				return s.cols.Checklists.Update(ctx, c.ID, map[string]any{
					"assignedTo":  nil,
					"status":      models.ChecklistPending,
					"items":       items,
					"completedAt": nil,
					"updatedAt":   s.now(),
				})
			},
		})
	}
	return steps, nil
}

// assignable loads a user about to be referenced by a project team or a
// checklist. Terminated users are refused with refusal.
func assignable(ctx context.Context, users store.Collection[models.User], userID, refusal string) (models.User, error) {
	user, err := users.Get(ctx, userID)
	if err != nil {
		return models.User{}, lookupErr(err, "employee", userID, "get employee")
	}
	if user.Status == models.StatusTerminated {
		return models.User{}, apperror.New(apperror.KindValidation, refusal).WithDetail("userId", userID)
	}
	return user, nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
