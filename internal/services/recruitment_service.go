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

// RecruitmentService manages job postings.
type RecruitmentService struct {
	cols     *database.Collections
	activity ActivityRecorder
	log      *zap.Logger
	now      func() time.Time
}

// NewRecruitmentService creates a new RecruitmentService
func NewRecruitmentService(cols *database.Collections, activity ActivityRecorder, log *zap.Logger) *RecruitmentService {
	return &RecruitmentService{
		cols:     cols,
		activity: activity,
		log:      logger.OrNop(log).Named("recruitment"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreatePosting opens a job posting.
func (s *RecruitmentService) CreatePosting(ctx context.Context, actor models.Actor, j models.JobPosting) (*models.JobPosting, error) {
	if err := invalid(validation.ValidateJobPosting(j)); err != nil {
		return nil, err
	}
	j.ID = store.NewID()
	j.Status = models.JobOpen
	j.PostedBy = actor.UserID
	j.CreatedAt = s.now()
	j.UpdatedAt = j.CreatedAt

	if err := s.cols.JobPostings.Insert(ctx, j); err != nil {
		return nil, apperror.FromStore(err, "create job posting")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityRecruitment,
		Action:      models.ActionCreate,
		Title:       "Job posted",
		Description: j.Title,
		RelatedID:   j.ID,
		Metadata:    map[string]any{"department": j.Department},
	})
	return &j, nil
}

// UpdatePosting replaces the editable fields of a posting.
func (s *RecruitmentService) UpdatePosting(ctx context.Context, actor models.Actor, id string, in models.JobPosting) (*models.JobPosting, error) {
	j, err := s.cols.JobPostings.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "job posting", id, "get job posting")
	}
	j.Title = in.Title
	j.Department = in.Department
	j.Description = in.Description
	j.Requirements = in.Requirements
	j.EmploymentType = in.EmploymentType
	j.Location = in.Location
	j.SalaryMin = in.SalaryMin
	j.SalaryMax = in.SalaryMax
	j.Deadline = in.Deadline
	if err := invalid(validation.ValidateJobPosting(j)); err != nil {
		return nil, err
	}
	j.UpdatedAt = s.now()

	if err := s.cols.JobPostings.Replace(ctx, id, j); err != nil {
		return nil, lookupErr(err, "job posting", id, "update job posting")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityRecruitment,
		Action:      models.ActionUpdate,
		Title:       "Job posting updated",
		Description: j.Title,
		RelatedID:   id,
	})
	return &j, nil
}

// ClosePosting stops accepting candidates for a posting.
func (s *RecruitmentService) ClosePosting(ctx context.Context, actor models.Actor, id string) (*models.JobPosting, error) {
	j, err := s.cols.JobPostings.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "job posting", id, "get job posting")
	}
	if j.Status == models.JobClosed {
		return &j, nil
	}

	j.Status = models.JobClosed
	j.UpdatedAt = s.now()
	if err := s.cols.JobPostings.Update(ctx, id, map[string]any{"status": j.Status, "updatedAt": j.UpdatedAt}); err != nil {
		return nil, lookupErr(err, "job posting", id, "close job posting")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityRecruitment,
		Action:      models.ActionComplete,
		Title:       "Job posting closed",
		Description: j.Title,
		RelatedID:   id,
	})
	logger.WithContext(ctx, s.log).Info("job posting closed", zap.String("posting_id", id))
	return &j, nil
}

// ListPostings returns postings, newest first, optionally by status and department.
func (s *RecruitmentService) ListPostings(ctx context.Context, status models.JobStatus, department string) ([]models.JobPosting, error) {
	q := store.NewQuery()
	if status != "" {
		q = q.Eq("status", status)
	}
	if department != "" {
		q = q.Eq("department", department)
	}
	items, err := s.cols.JobPostings.Find(ctx, q.OrderBy("createdAt", true))
	if err != nil {
		return nil, apperror.FromStore(err, "list job postings")
	}
	return items, nil
}
