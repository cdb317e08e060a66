package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
)

// ReportService provides methods for fetching HR dashboard metrics
type ReportService struct {
	cols *database.Collections
	log  *zap.Logger
	now  func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(cols *database.Collections, log *zap.Logger) *ReportService {
	return &ReportService{
		cols: cols,
		log:  logger.OrNop(log).Named("reports"),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// periodRange resolves the reporting window. Custom periods need both bounds.
func periodRange(period models.DashboardPeriod, startDate, endDate *time.Time, now time.Time) (time.Time, time.Time, bool) {
	today := dayOf(now)
	switch period {
	case models.PeriodDaily:
		return today, now, true
	case models.PeriodWeekly:
		weekday := int(now.Weekday())
		if weekday == 0 { // Sunday
			weekday = 7
		}
		return today.AddDate(0, 0, -(weekday - 1)), now, true
	case models.PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), now, true
	case models.PeriodCustom:
		if startDate != nil && endDate != nil {
			return *startDate, *endDate, true
		}
	}
	return time.Time{}, time.Time{}, false
}

// GetDashboardMetrics counts headcount, hires, leave and openings. Counts run
// concurrently; any failure fails the report.
func (s *ReportService) GetDashboardMetrics(ctx context.Context, period models.DashboardPeriod, startDate, endDate *time.Time) (*models.DashboardMetricsResponse, error) {
	if period == "" {
		period = models.PeriodMonthly
	}
	metrics := &models.DashboardMetricsResponse{Period: period}

	start, end, windowed := periodRange(period, startDate, endDate, s.now())
	if period == models.PeriodCustom && !windowed {
		return nil, apperror.Validation(map[string]string{"dateRange": "Custom period needs startDate and endDate"})
	}
	if windowed {
		if end.Before(start) {
			return nil, apperror.Validation(map[string]string{"dateRange": "End date must be after start date"})
		}
		metrics.StartDate, metrics.EndDate = &start, &end
	}

	depts, err := s.cols.Departments.Find(ctx, store.NewQuery().OrderBy("name", false))
	if err != nil {
		return nil, apperror.FromStore(err, "list departments")
	}
	statuses := []models.UserStatus{models.StatusActive, models.StatusOnLeave, models.StatusTerminated}
	metrics.ByStatus = make([]models.StatusCount, len(statuses))
	metrics.ByDepartment = make([]models.DepartmentCount, len(depts))

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, op string, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return apperror.FromStore(err, op)
			}
			*dst = n
			return nil
		})
	}

	count(&metrics.TotalEmployees, "count employees", func(ctx context.Context) (int64, error) {
		return s.cols.Users.Count(ctx, store.NewQuery().In("status", []string{string(models.StatusActive), string(models.StatusOnLeave)}))
	})
	count(&metrics.PendingLeaves, "count pending leave", func(ctx context.Context) (int64, error) {
		return s.cols.Leaves.Count(ctx, store.Where("status", models.LeavePending))
	})
	count(&metrics.OpenPositions, "count open postings", func(ctx context.Context) (int64, error) {
		return s.cols.JobPostings.Count(ctx, store.Where("status", models.JobOpen))
	})
	count(&metrics.ActiveProjects, "count active projects", func(ctx context.Context) (int64, error) {
		return s.cols.Projects.Count(ctx, store.Where("status", models.ProjectActive))
	})
	if windowed {
		count(&metrics.NewHires, "count new hires", func(ctx context.Context) (int64, error) {
			return s.cols.Users.Count(ctx, store.NewQuery().Between("hireDate", start, end))
		})
		count(&metrics.LeaveRequests, "count leave requests", func(ctx context.Context) (int64, error) {
			return s.cols.Leaves.Count(ctx, store.NewQuery().Between("createdAt", start, end))
		})
	}
	for i, st := range statuses {
		metrics.ByStatus[i].Status = st
		count(&metrics.ByStatus[i].Count, "count by status", func(ctx context.Context) (int64, error) {
			return s.cols.Users.Count(ctx, store.Where("status", st))
		})
	}
	for i, d := range depts {
		metrics.ByDepartment[i].DepartmentID = d.ID
		metrics.ByDepartment[i].Name = d.Name
		count(&metrics.ByDepartment[i].Count, "count by department", func(ctx context.Context) (int64, error) {
			return s.cols.Users.Count(ctx, store.Where("department", d.ID))
		})
	}

	if err := g.Wait(); err != nil {
		logger.WithContext(ctx, s.log).Warn("dashboard metrics failed", zap.Error(err))
		return nil, err
	}
	return metrics, nil
}
