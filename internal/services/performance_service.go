package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
	"github.com/ahmed7gendy/hr-edecs/internal/validation"
)

// PerformanceService manages performance reviews.
type PerformanceService struct {
	cols     *database.Collections
	activity ActivityRecorder
	log      *zap.Logger
	now      func() time.Time
}

// NewPerformanceService creates a new PerformanceService
func NewPerformanceService(cols *database.Collections, activity ActivityRecorder, log *zap.Logger) *PerformanceService {
	return &PerformanceService{
		cols:     cols,
		activity: activity,
		log:      logger.OrNop(log).Named("performance"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create drafts a review. The reviewer defaults to the acting user.
func (s *PerformanceService) Create(ctx context.Context, actor models.Actor, r models.PerformanceReview) (*models.PerformanceReview, error) {
	if r.ReviewerID == "" {
		r.ReviewerID = actor.UserID
	}
	if err := invalid(validation.ValidatePerformanceReview(r)); err != nil {
		return nil, err
	}
	if r.UserID == r.ReviewerID {
		return nil, apperror.Validation(map[string]string{"reviewerId": "Employees cannot review themselves"})
	}
	if _, err := s.cols.Users.Get(ctx, r.UserID); err != nil {
		return nil, lookupErr(err, "employee", r.UserID, "get employee")
	}

	r.ID = store.NewID()
	r.Status = models.ReviewDraft
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt
	if err := s.cols.Performance.Insert(ctx, r); err != nil {
		return nil, apperror.FromStore(err, "create review")
	}

	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityPerformance,
		Action:      models.ActionCreate,
		Title:       "Performance review drafted",
		Description: r.Period,
		RelatedID:   r.ID,
		Metadata:    map[string]any{"employeeId": r.UserID, "rating": r.Rating},
	})
	return &r, nil
}

// Submit sends a draft review to the employee.
func (s *PerformanceService) Submit(ctx context.Context, actor models.Actor, id string) (*models.PerformanceReview, error) {
	return s.transition(ctx, actor, id, models.ReviewDraft, models.ReviewSubmitted, models.ActionSubmit)
}

// Complete closes a submitted review.
func (s *PerformanceService) Complete(ctx context.Context, actor models.Actor, id string) (*models.PerformanceReview, error) {
	return s.transition(ctx, actor, id, models.ReviewSubmitted, models.ReviewCompleted, models.ActionReview)
}

func (s *PerformanceService) transition(ctx context.Context, actor models.Actor, id string, from, to models.ReviewStatus, action models.ActivityAction) (*models.PerformanceReview, error) {
	r, err := s.cols.Performance.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "performance review", id, "get review")
	}
	if r.Status != from {
		return nil, apperror.New(apperror.KindValidation, "Review must be "+string(from)+" to become "+string(to)).
			WithDetail("status", r.Status)
	}

	r.Status = to
	r.UpdatedAt = s.now()
	if err := s.cols.Performance.Update(ctx, id, map[string]any{"status": to, "updatedAt": r.UpdatedAt}); err != nil {
		return nil, lookupErr(err, "performance review", id, "update review")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityPerformance,
		Action:      action,
		Title:       "Performance review " + string(to),
		Description: r.Period,
		RelatedID:   id,
		Metadata:    map[string]any{"employeeId": r.UserID},
	})
	return &r, nil
}

// List returns reviews for userID, newest first.
func (s *PerformanceService) List(ctx context.Context, userID string) ([]models.PerformanceReview, error) {
	q := store.NewQuery()
	if userID != "" {
		q = q.Eq("userId", userID)
	}
	items, err := s.cols.Performance.Find(ctx, q.OrderBy("createdAt", true))
	if err != nil {
		return nil, apperror.FromStore(err, "list reviews")
	}
	return items, nil
}
