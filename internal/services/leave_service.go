package services

import (
	"context"
	"errors"
	"fmt"
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

// LeaveService handles leave requests and their review.
type LeaveService struct {
	cols     *database.Collections
	activity ActivityRecorder
	log      *zap.Logger
	now      func() time.Time
}

// NewLeaveService creates a new LeaveService
func NewLeaveService(cols *database.Collections, activity ActivityRecorder, log *zap.Logger) *LeaveService {
	return &LeaveService{
		cols:     cols,
		activity: activity,
		log:      logger.OrNop(log).Named("leave"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// leaveDays counts calendar days in [start, end].
func leaveDays(start, end time.Time) int {
	return int(dayOf(end).Sub(dayOf(start)).Hours()/24) + 1
}

// Submit files a pending leave request.
func (s *LeaveService) Submit(ctx context.Context, actor models.Actor, req models.LeaveRequest) (*models.LeaveRequest, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	errs := validation.ValidateLeaveRequest(req)
	if req.Type != "" {
		if _, err := s.cols.LeaveTypes.Get(ctx, req.Type); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return nil, apperror.FromStore(err, "get leave type")
			}
			errs["type"] = "Unknown leave type"
		}
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}
	if _, err := s.cols.Users.Get(ctx, req.UserID); err != nil {
		return nil, lookupErr(err, "employee", req.UserID, "get employee")
	}

	req.ID = store.NewID()
	req.StartDate = dayOf(req.StartDate)
	req.EndDate = dayOf(req.EndDate)
	req.Days = leaveDays(req.StartDate, req.EndDate)
	req.Status = models.LeavePending
	req.ReviewedBy, req.ReviewNote, req.ReviewedAt = "", "", nil
	req.CreatedAt = s.now()

	if err := s.cols.Leaves.Insert(ctx, req); err != nil {
		return nil, apperror.FromStore(err, "submit leave")
	}

	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityLeave,
		Action:      models.ActionSubmit,
		Title:       "Leave requested",
		Description: fmt.Sprintf("%d day(s) of %s leave", req.Days, req.Type),
		RelatedID:   req.ID,
		Metadata:    map[string]any{"employeeId": req.UserID},
	})
	return &req, nil
}

// Approve accepts a pending request.
func (s *LeaveService) Approve(ctx context.Context, actor models.Actor, id, note string) (*models.LeaveRequest, error) {
	return s.review(ctx, actor, id, note, models.LeaveApproved)
}

// Reject declines a pending request.
func (s *LeaveService) Reject(ctx context.Context, actor models.Actor, id, note string) (*models.LeaveRequest, error) {
	return s.review(ctx, actor, id, note, models.LeaveRejected)
}

func (s *LeaveService) review(ctx context.Context, actor models.Actor, id, note string, outcome models.LeaveStatus) (*models.LeaveRequest, error) {
	req, err := s.cols.Leaves.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "leave request", id, "get leave")
	}
	if req.Status != models.LeavePending {
		return nil, apperror.New(apperror.KindValidation, "Only pending requests can be reviewed").
			WithDetail("status", req.Status)
	}
	if req.UserID == actor.UserID {
		return nil, apperror.Forbidden("You cannot review your own leave request")
	}

	now := s.now()
	req.Status = outcome
	req.ReviewedBy = actor.UserID
	req.ReviewNote = strings.TrimSpace(note)
	req.ReviewedAt = &now
	if err := s.cols.Leaves.Update(ctx, id, map[string]any{
		"status":     req.Status,
		"reviewedBy": req.ReviewedBy,
		"reviewNote": req.ReviewNote,
		"reviewedAt": now,
	}); err != nil {
		return nil, lookupErr(err, "leave request", id, "review leave")
	}

	action := models.ActionApprove
	if outcome == models.LeaveRejected {
		action = models.ActionReject
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityLeave,
		Action:      action,
		Title:       "Leave " + string(outcome),
		Description: fmt.Sprintf("%d day(s) of %s leave", req.Days, req.Type),
		RelatedID:   id,
		Metadata:    map[string]any{"employeeId": req.UserID},
	})
	logger.WithContext(ctx, s.log).Info("leave reviewed", zap.String("leave_id", id), zap.String("status", string(outcome)))
	return &req, nil
}

// List returns leave requests, newest first, optionally narrowed by user and status.
func (s *LeaveService) List(ctx context.Context, userID string, status models.LeaveStatus) ([]models.LeaveRequest, error) {
	q := store.NewQuery()
	if userID != "" {
		q = q.Eq("userId", userID)
	}
	if status != "" {
		q = q.Eq("status", status)
	}
	items, err := s.cols.Leaves.Find(ctx, q.OrderBy("createdAt", true))
	if err != nil {
		return nil, apperror.FromStore(err, "list leave")
	}
	return items, nil
}

// Get retrieves a leave request by id
func (s *LeaveService) Get(ctx context.Context, id string) (*models.LeaveRequest, error) {
	req, err := s.cols.Leaves.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "leave request", id, "get leave")
	}
	return &req, nil
}
