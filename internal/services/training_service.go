package services

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
	"github.com/ahmed7gendy/hr-edecs/internal/validation"
)

// TrainingService manages training sessions and enrolment.
type TrainingService struct {
	cols     *database.Collections
	activity ActivityRecorder
	log      *zap.Logger
	now      func() time.Time
}

// NewTrainingService creates a new TrainingService
func NewTrainingService(cols *database.Collections, activity ActivityRecorder, log *zap.Logger) *TrainingService {
	return &TrainingService{
		cols:     cols,
		activity: activity,
		log:      logger.OrNop(log).Named("training"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create schedules a training session.
func (s *TrainingService) Create(ctx context.Context, actor models.Actor, t models.Training) (*models.Training, error) {
	if t.Participants == nil {
		t.Participants = []string{}
	}
	if err := invalid(validation.ValidateTraining(t)); err != nil {
		return nil, err
	}
	t.ID = store.NewID()
	t.Status = models.TrainingScheduled
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt

	if err := s.cols.Trainings.Insert(ctx, t); err != nil {
		return nil, apperror.FromStore(err, "create training")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityTraining,
		Action:      models.ActionCreate,
		Title:       "Training scheduled",
		Description: t.Title,
		RelatedID:   t.ID,
	})
	return &t, nil
}

// Update replaces schedule and capacity. Participants are kept.
func (s *TrainingService) Update(ctx context.Context, actor models.Actor, id string, in models.Training) (*models.Training, error) {
	t, err := s.cols.Trainings.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "training", id, "get training")
	}
	t.Title = in.Title
	t.Description = in.Description
	t.Trainer = in.Trainer
	t.StartDate = in.StartDate
	t.EndDate = in.EndDate
	t.Capacity = in.Capacity
	if in.Status != "" {
		t.Status = in.Status
	}
	if err := invalid(validation.ValidateTraining(t)); err != nil {
		return nil, err
	}
	t.UpdatedAt = s.now()

	if err := s.cols.Trainings.Replace(ctx, id, t); err != nil {
		return nil, lookupErr(err, "training", id, "update training")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityTraining,
		Action:      models.ActionUpdate,
		Title:       "Training updated",
		Description: t.Title,
		RelatedID:   id,
	})
	return &t, nil
}

// Enroll adds userID to the session. Enrolling twice is a no-op; a full
// session refuses new participants.
func (s *TrainingService) Enroll(ctx context.Context, actor models.Actor, id, userID string) (*models.Training, error) {
	t, err := s.cols.Trainings.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "training", id, "get training")
	}
	if slices.Contains(t.Participants, userID) {
		return &t, nil
	}
	if t.Status == models.TrainingCompleted {
		return nil, apperror.New(apperror.KindValidation, "Training has already completed")
	}
	if len(t.Participants) >= t.Capacity {
		return nil, apperror.New(apperror.KindValidation, "Training is full").
			WithDetail("capacity", t.Capacity)
	}
	user, err := s.cols.Users.Get(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "employee", userID, "get employee")
	}
	if user.Status == models.StatusTerminated {
		return nil, apperror.New(apperror.KindValidation, "Terminated employees cannot enroll")
	}

	t.Participants = append(t.Participants, userID)
	t.UpdatedAt = s.now()
	if err := s.cols.Trainings.Update(ctx, id, map[string]any{
		"participants": t.Participants,
		"updatedAt":    t.UpdatedAt,
	}); err != nil {
		return nil, lookupErr(err, "training", id, "enroll")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityTraining,
		Action:      models.ActionAssign,
		Title:       "Enrolled in training",
		Description: user.FullName() + " enrolled in " + t.Title,
		RelatedID:   id,
		Metadata:    map[string]any{"employeeId": userID},
	})
	logger.WithContext(ctx, s.log).Debug("enrolled", zap.String("training_id", id), zap.String("user_id", userID))
	return &t, nil
}

// List returns sessions ordered by start date, optionally by status.
func (s *TrainingService) List(ctx context.Context, status models.TrainingStatus) ([]models.Training, error) {
	q := store.NewQuery()
	if status != "" {
		q = q.Eq("status", status)
	}
	items, err := s.cols.Trainings.Find(ctx, q.OrderBy("startDate", false))
	if err != nil {
		return nil, apperror.FromStore(err, "list trainings")
	}
	return items, nil
}
