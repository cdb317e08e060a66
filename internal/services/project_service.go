package services

import (
	"context"
	"slices"
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

const msgTerminatedMember = "Terminated employees cannot join projects"

// ProjectService manages projects and their teams.
type ProjectService struct {
	cols     *database.Collections
	activity ActivityRecorder
	log      *zap.Logger
	now      func() time.Time
}

// NewProjectService creates a new ProjectService
func NewProjectService(cols *database.Collections, activity ActivityRecorder, log *zap.Logger) *ProjectService {
	return &ProjectService{
		cols:     cols,
		activity: activity,
		log:      logger.OrNop(log).Named("projects"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create adds a project. Status defaults to planning.
func (s *ProjectService) Create(ctx context.Context, actor models.Actor, p models.Project) (*models.Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Status == "" {
		p.Status = models.ProjectPlanning
	}
	p.Team = uniqueIDs(p.Team)
	if err := invalid(validation.ValidateProject(p)); err != nil {
		return nil, err
	}
	for _, id := range p.Team {
		if _, err := assignable(ctx, s.cols.Users, id, msgTerminatedMember); err != nil {
			return nil, err
		}
	}

	p.ID = store.NewID()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	if err := s.cols.Projects.Insert(ctx, p); err != nil {
		return nil, apperror.FromStore(err, "create project")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityProject,
		Action:      models.ActionCreate,
		Title:       "Project created",
		Description: p.Name,
		RelatedID:   p.ID,
	})
	return &p, nil
}

// Update replaces the descriptive fields. Team is changed through AddMember
// and RemoveMember.
func (s *ProjectService) Update(ctx context.Context, actor models.Actor, id string, in models.Project) (*models.Project, error) {
	p, err := s.cols.Projects.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "project", id, "get project")
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Department = in.Department
	p.ManagerID = in.ManagerID
	p.Budget = in.Budget
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	if in.Status != "" {
		p.Status = in.Status
	}
	if err := invalid(validation.ValidateProject(p)); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()

	if err := s.cols.Projects.Replace(ctx, id, p); err != nil {
		return nil, lookupErr(err, "project", id, "update project")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityProject,
		Action:      models.ActionUpdate,
		Title:       "Project updated",
		Description: p.Name,
		RelatedID:   id,
	})
	return &p, nil
}

// Delete removes a project.
func (s *ProjectService) Delete(ctx context.Context, actor models.Actor, id string) error {
	p, err := s.cols.Projects.Get(ctx, id)
	if err != nil {
		return lookupErr(err, "project", id, "get project")
	}
	if err := s.cols.Projects.Delete(ctx, id); err != nil {
		return lookupErr(err, "project", id, "delete project")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityProject,
		Action:      models.ActionDelete,
		Title:       "Project deleted",
		Description: p.Name,
		RelatedID:   id,
	})
	return nil
}

// List returns projects by name, optionally by status or member.
func (s *ProjectService) List(ctx context.Context, status models.ProjectStatus, memberID string) ([]models.Project, error) {
	q := store.NewQuery()
	if status != "" {
		q = q.Eq("status", status)
	}
	if memberID != "" {
		q = q.Eq("team", memberID)
	}
	items, err := s.cols.Projects.Find(ctx, q.OrderBy("name", false))
	if err != nil {
		return nil, apperror.FromStore(err, "list projects")
	}
	return items, nil
}

// AddMember puts userID on the team. Adding an existing member is a no-op.
func (s *ProjectService) AddMember(ctx context.Context, actor models.Actor, id, userID string) (*models.Project, error) {
	p, err := s.cols.Projects.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "project", id, "get project")
	}
	if slices.Contains(p.Team, userID) {
		return &p, nil
	}
	user, err := assignable(ctx, s.cols.Users, userID, msgTerminatedMember)
	if err != nil {
		return nil, err
	}

	return s.setTeam(ctx, actor, p, append(p.Team, userID), models.ActionAssign, user.FullName()+" joined the team")
}

// RemoveMember takes userID off the team.
func (s *ProjectService) RemoveMember(ctx context.Context, actor models.Actor, id, userID string) (*models.Project, error) {
	p, err := s.cols.Projects.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "project", id, "get project")
	}
	if !slices.Contains(p.Team, userID) {
		return &p, nil
	}
	return s.setTeam(ctx, actor, p, without(p.Team, userID), models.ActionUpdate, userID+" left the team")
}

func (s *ProjectService) setTeam(ctx context.Context, actor models.Actor, p models.Project, team []string, action models.ActivityAction, desc string) (*models.Project, error) {
	p.Team = team
	p.UpdatedAt = s.now()
	if err := s.cols.Projects.Update(ctx, p.ID, map[string]any{"team": team, "updatedAt": p.UpdatedAt}); err != nil {
		return nil, lookupErr(err, "project", p.ID, "update team")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityProject,
		Action:      action,
		Title:       "Project team changed",
		Description: desc,
		RelatedID:   p.ID,
		Metadata:    map[string]any{"team": team},
	})
	logger.WithContext(ctx, s.log).Debug("team changed", zap.String("project_id", p.ID), zap.Int("size", len(team)))
	return &p, nil
}

// uniqueIDs drops blanks and repeats, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
