package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
	"github.com/ahmed7gendy/hr-edecs/internal/validation"
)

// PayrollService manages per-period payroll records.
type PayrollService struct {
	cols     *database.Collections
	activity ActivityRecorder
	log      *zap.Logger
	now      func() time.Time
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(cols *database.Collections, activity ActivityRecorder, log *zap.Logger) *PayrollService {
	return &PayrollService{
		cols:     cols,
		activity: activity,
		log:      logger.OrNop(log).Named("payroll"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create drafts a payroll record. Base salary defaults to the employee's
// salary; net pay is always derived.
func (s *PayrollService) Create(ctx context.Context, actor models.Actor, rec models.PayrollRecord) (*models.PayrollRecord, error) {
	if err := invalid(validation.ValidatePayroll(rec)); err != nil {
		return nil, err
	}
	user, err := s.cols.Users.Get(ctx, rec.UserID)
	if err != nil {
		return nil, lookupErr(err, "employee", rec.UserID, "get employee")
	}

	n, err := s.cols.Payroll.Count(ctx, store.Where("userId", rec.UserID).Eq("period", rec.Period))
	if err != nil {
		return nil, apperror.FromStore(err, "check payroll period")
	}
	if n > 0 {
		return nil, conflict("Payroll already exists for this period")
	}

	if rec.BaseSalary == 0 {
		rec.BaseSalary = user.Salary
	}
	rec.ID = store.NewID()
	rec.NetPay = rec.BaseSalary + rec.Allowances - rec.Deductions
	rec.Status = models.PayrollDraft
	rec.PaidAt = nil
	rec.CreatedAt = s.now()
	rec.UpdatedAt = rec.CreatedAt

	if err := s.cols.Payroll.Insert(ctx, rec); err != nil {
		return nil, apperror.FromStore(err, "create payroll")
	}
	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityPayroll,
		Action:      models.ActionCreate,
		Title:       "Payroll drafted",
		Description: fmt.Sprintf("%s payroll for %s", rec.Period, user.FullName()),
		RelatedID:   rec.ID,
		Metadata:    map[string]any{"employeeId": rec.UserID, "netPay": rec.NetPay},
	})
	return &rec, nil
}

// MarkProcessed moves a draft record to processed.
func (s *PayrollService) MarkProcessed(ctx context.Context, actor models.Actor, id string) (*models.PayrollRecord, error) {
	return s.advance(ctx, actor, id, models.PayrollDraft, models.PayrollProcessed)
}

// MarkPaid moves a processed record to paid.
func (s *PayrollService) MarkPaid(ctx context.Context, actor models.Actor, id string) (*models.PayrollRecord, error) {
	return s.advance(ctx, actor, id, models.PayrollProcessed, models.PayrollPaid)
}

func (s *PayrollService) advance(ctx context.Context, actor models.Actor, id string, from, to models.PayrollStatus) (*models.PayrollRecord, error) {
	rec, err := s.cols.Payroll.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "payroll", id, "get payroll")
	}
	if rec.Status != from {
		return nil, apperror.New(apperror.KindValidation, fmt.Sprintf("Payroll must be %s to become %s", from, to)).
			WithDetail("status", rec.Status)
	}

	now := s.now()
	rec.Status = to
	rec.UpdatedAt = now
	fields := map[string]any{"status": to, "updatedAt": now}
	if to == models.PayrollPaid {
		rec.PaidAt = &now
		fields["paidAt"] = now
	}
	if err := s.cols.Payroll.Update(ctx, id, fields); err != nil {
		return nil, lookupErr(err, "payroll", id, "update payroll")
	}

	s.activity.LogActivity(ctx, models.ActivityEntry{
		UserID:      actor.UserID,
		Type:        models.ActivityPayroll,
		Action:      models.ActionUpdate,
		Title:       "Payroll " + string(to),
		Description: rec.Period,
		RelatedID:   id,
		Metadata:    map[string]any{"employeeId": rec.UserID},
	})
	logger.WithContext(ctx, s.log).Info("payroll advanced", zap.String("payroll_id", id), zap.String("status", string(to)))
	return &rec, nil
}

// List returns payroll records, newest period first.
func (s *PayrollService) List(ctx context.Context, userID, period string) ([]models.PayrollRecord, error) {
	q := store.NewQuery()
	if userID != "" {
		q = q.Eq("userId", userID)
	}
	if period != "" {
		q = q.Eq("period", period)
	}
	items, err := s.cols.Payroll.Find(ctx, q.OrderBy("period", true))
	if err != nil {
		return nil, apperror.FromStore(err, "list payroll")
	}
	return items, nil
}
