package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
)

const (
	// Check-ins after this offset from midnight UTC are late.
	lateAfter = 9*time.Hour + 15*time.Minute
	// Days shorter than this are recorded as half days.
	halfDayBelow = 4 * time.Hour
)

// AttendanceService records daily check-in and check-out.
type AttendanceService struct {
	cols *database.Collections
	log  *zap.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(cols *database.Collections, log *zap.Logger) *AttendanceService {
	return &AttendanceService{cols: cols, log: logger.OrNop(log).Named("attendance")}
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckIn opens the day's record for userID. A user gets one record per day.
func (s *AttendanceService) CheckIn(ctx context.Context, userID string, at time.Time) (*models.Attendance, error) {
	user, err := s.cols.Users.Get(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "employee", userID, "get employee")
	}
	if user.Status == models.StatusTerminated {
		return nil, apperror.New(apperror.KindValidation, "Terminated employees cannot check in")
	}

	at = at.UTC()
	day := dayOf(at)
	if _, err := s.today(ctx, userID, day); err == nil {
		return nil, conflict("Already checked in today")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperror.FromStore(err, "find attendance")
	}

	rec := models.Attendance{
		ID:        store.NewID(),
		UserID:    userID,
		Date:      day,
		CheckIn:   &at,
		Status:    models.AttendancePresent,
		CreatedAt: at,
	}
	if at.Sub(day) > lateAfter {
		rec.Status = models.AttendanceLate
	}

	if err := s.cols.Attendance.Insert(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflict("Already checked in today")
		}
		return nil, apperror.FromStore(err, "check in")
	}
	logger.WithContext(ctx, s.log).Debug("checked in", zap.String("user_id", userID), zap.String("status", string(rec.Status)))
	return &rec, nil
}

// CheckOut closes the day's record for userID.
func (s *AttendanceService) CheckOut(ctx context.Context, userID string, at time.Time) (*models.Attendance, error) {
	at = at.UTC()
	rec, err := s.today(ctx, userID, dayOf(at))
	if err != nil {
		return nil, lookupErr(err, "attendance", userID, "find attendance")
	}
	if rec.CheckOut != nil {
		return nil, conflict("Already checked out today")
	}
	if rec.CheckIn != nil && at.Before(*rec.CheckIn) {
		return nil, apperror.Validation(map[string]string{"checkOut": "Check-out must be after check-in"})
	}

	rec.CheckOut = &at
	fields := map[string]any{"checkOut": at}
	if rec.CheckIn != nil && at.Sub(*rec.CheckIn) < halfDayBelow {
		rec.Status = models.AttendanceHalfDay
		fields["status"] = rec.Status
	}
	if err := s.cols.Attendance.Update(ctx, rec.ID, fields); err != nil {
		return nil, lookupErr(err, "attendance", rec.ID, "check out")
	}
	return &rec, nil
}

// List returns a user's records within [from, to], newest first. Nil bounds are open.
func (s *AttendanceService) List(ctx context.Context, userID string, from, to *time.Time) ([]models.Attendance, error) {
	q := store.NewQuery()
	if userID != "" {
		q = q.Eq("userId", userID)
	}
	var lo, hi any
	if from != nil {
		lo = dayOf(*from)
	}
	if to != nil {
		hi = dayOf(*to)
	}
	items, err := s.cols.Attendance.Find(ctx, q.Between("date", lo, hi).OrderBy("date", true))
	if err != nil {
		return nil, apperror.FromStore(err, "list attendance")
	}
	return items, nil
}

func (s *AttendanceService) today(ctx context.Context, userID string, day time.Time) (models.Attendance, error) {
	items, err := s.cols.Attendance.Find(ctx, store.Where("userId", userID).Eq("date", day).Limit(1))
	if err != nil {
		return models.Attendance{}, err
	}
	if len(items) == 0 {
		return models.Attendance{}, store.ErrNotFound
	}
	return items[0], nil
}
