package services

import (
	"context"
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

const msgTerminatedAssignee = "Terminated employees cannot be assigned checklists"

// ChecklistService provides methods for onboarding and offboarding checklists
type ChecklistService struct {
	cols     *database.Collections
	activity ActivityRecorder
	log      *zap.Logger
	now      func() time.Time
}

// NewChecklistService creates a new ChecklistService
func NewChecklistService(cols *database.Collections, activity ActivityRecorder, log *zap.Logger) *ChecklistService {
	return &ChecklistService{
		cols:     cols,
		activity: activity,
		log:      logger.OrNop(log).Named("checklists"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create creates a new checklist, optionally already assigned.
func (s *ChecklistService) Create(ctx context.Context, actor models.Actor, c models.Checklist) (*models.Checklist, error) {
	c.Title = strings.TrimSpace(c.Title)
	if c.Items == nil {
		c.Items = []models.ChecklistItem{}
	}
	if err := invalid(validation.ValidateChecklist(c)); err != nil {
		return nil, err
	}
	if c.AssignedTo != nil {
		if *c.AssignedTo == "" {
			c.AssignedTo = nil
		} else if _, err := assignable(ctx, s.cols.Users, *c.AssignedTo, msgTerminatedAssignee); err != nil {
			return nil, err
		}
	}

	c.ID = store.NewID()
	c.Status = progressOf(c.Items)
	c.CompletedAt = nil
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	if c.Status == models.ChecklistCompleted {
		c.CompletedAt = &c.CreatedAt
	}

	if err := s.cols.Checklists.Insert(ctx, c); err != nil {
		return nil, apperror.FromStore(err, "create checklist")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityChecklist,
		Action:      models.ActionCreate,
		Title:       "Checklist created",
		Description: c.Title,
		RelatedID:   c.ID,
	})
	return &c, nil
}

// Get retrieves a checklist by its ID
func (s *ChecklistService) Get(ctx context.Context, id string) (*models.Checklist, error) {
	c, err := s.cols.Checklists.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "checklist", id, "get checklist")
	}
	return &c, nil
}

// Assign hands the checklist to userID. An empty userID unassigns it.
func (s *ChecklistService) Assign(ctx context.Context, actor models.Actor, id, userID string) (*models.Checklist, error) {
	c, err := s.cols.Checklists.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "checklist", id, "get checklist")
	}

	var assignee *string
	desc := "Checklist unassigned"
	if userID != "" {
		user, err := assignable(ctx, s.cols.Users, userID, msgTerminatedAssignee)
		if err != nil {
			return nil, err
		}
		assignee = &userID
		desc = "Assigned to " + user.FullName()
	}

	c.AssignedTo = assignee
	c.UpdatedAt = s.now()
	if err := s.cols.Checklists.Update(ctx, id, map[string]any{"assignedTo": assignee, "updatedAt": c.UpdatedAt}); err != nil {
		return nil, lookupErr(err, "checklist", id, "assign checklist")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityChecklist,
		Action:      models.ActionAssign,
		Title:       c.Title,
		Description: desc,
		RelatedID:   id,
	})
	return &c, nil
}

// SetItem marks one item done or not done and recomputes the status.
func (s *ChecklistService) SetItem(ctx context.Context, actor models.Actor, id string, index int, done bool) (*models.Checklist, error) {
	c, err := s.cols.Checklists.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "checklist", id, "get checklist")
	}
	if index < 0 || index >= len(c.Items) {
		return nil, apperror.Validation(map[string]string{"index": "Item does not exist"})
	}

	was := c.Status
	c.Items[index].Done = done
	return s.saveProgress(ctx, actor, c, was)
}

// Complete marks every item done.
func (s *ChecklistService) Complete(ctx context.Context, actor models.Actor, id string) (*models.Checklist, error) {
	c, err := s.cols.Checklists.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "checklist", id, "get checklist")
	}
	was := c.Status
	for i := range c.Items {
		c.Items[i].Done = true
	}
	if len(c.Items) == 0 {
		c.Status = models.ChecklistCompleted
	}
	return s.saveProgress(ctx, actor, c, was)
}

func (s *ChecklistService) saveProgress(ctx context.Context, actor models.Actor, c models.Checklist, was models.ChecklistStatus) (*models.Checklist, error) {
	if len(c.Items) > 0 {
		c.Status = progressOf(c.Items)
	}
	now := s.now()
	c.UpdatedAt = now
	fields := map[string]any{"items": c.Items, "status": c.Status, "updatedAt": now}
	switch {
	case c.Status == models.ChecklistCompleted && was != models.ChecklistCompleted:
		c.CompletedAt = &now
		fields["completedAt"] = now
	case c.Status != models.ChecklistCompleted:
		c.CompletedAt = nil
		fields["completedAt"] = nil
	}

	if err := s.cols.Checklists.Update(ctx, c.ID, fields); err != nil {
		return nil, lookupErr(err, "checklist", c.ID, "update checklist")
	}
	if c.Status == models.ChecklistCompleted && was != models.ChecklistCompleted {
		s.activity.LogActivity(ctx, models.ActivityEntry{
			UserID:      actor.UserID,
			Type:        models.ActivityChecklist,
			Action:      models.ActionComplete,
			Title:       "Checklist completed",
			Description: c.Title,
			RelatedID:   c.ID,
		})
	}
	return &c, nil
}

// List returns checklists, newest first, optionally by assignee and status.
func (s *ChecklistService) List(ctx context.Context, assignedTo string, status models.ChecklistStatus) ([]models.Checklist, error) {
	q := store.NewQuery()
	if assignedTo != "" {
		q = q.Eq("assignedTo", assignedTo)
	}
	if status != "" {
		q = q.Eq("status", status)
	}
	items, err := s.cols.Checklists.Find(ctx, q.OrderBy("createdAt", true))
	if err != nil {
		return nil, apperror.FromStore(err, "list checklists")
	}
	return items, nil
}

// progressOf derives the status from item completion.
func progressOf(items []models.ChecklistItem) models.ChecklistStatus {
	done := 0
	for _, it := range items {
		if it.Done {
			done++
		}
	}
	switch {
	case len(items) > 0 && done == len(items):
		return models.ChecklistCompleted
	case done > 0:
		return models.ChecklistInProgress
	}
	return models.ChecklistPending
}
