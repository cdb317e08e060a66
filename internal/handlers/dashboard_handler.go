package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// DashboardHandler handles dashboard related HTTP requests
type DashboardHandler struct {
	reports  *services.ReportService
	activity *services.ActivityLogger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(rs *services.ReportService, al *services.ActivityLogger) *DashboardHandler {
	return &DashboardHandler{reports: rs, activity: al}
}

// GetDashboardMetrics handles GET /dashboard/metrics?period=&start_date=&end_date=
func (h *DashboardHandler) GetDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	periodStr := r.URL.Query().Get("period")
	if periodStr == "" {
		periodStr = string(models.PeriodMonthly)
	}
	period := models.DashboardPeriod(strings.ToLower(periodStr))

	var startDate, endDate *time.Time
	switch period {
	case models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly:
	case models.PeriodCustom:
		var err error
		if startDate, err = queryDate(r, "start_date"); err != nil {
			utils.RespondWithAppError(w, err)
			return
		}
		if endDate, err = queryDate(r, "end_date"); err != nil {
			utils.RespondWithAppError(w, err)
			return
		}
		// a bare end date covers the whole day
		if endDate != nil && len(r.URL.Query().Get("end_date")) == len(dateLayout) {
			end := endDate.Add(24*time.Hour - time.Nanosecond)
			endDate = &end
		}
	default:
		utils.RespondWithAppError(w, apperror.Validation(map[string]string{
			"period": "Must be 'daily', 'weekly', 'monthly', or 'custom'",
		}))
		return
	}

	metrics, err := h.reports.GetDashboardMetrics(r.Context(), period, startDate, endDate)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, metrics)
}

// ListActivity handles GET /activity?userId=&relatedId=&limit=
func (h *DashboardHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := queryLimit(r, 50, 500)

	var (
		items []models.Activity
		err   error
	)
	switch {
	case q.Get("relatedId") != "":
		items, err = h.activity.ForRelated(r.Context(), q.Get("relatedId"))
	case q.Get("userId") != "":
		items, err = h.activity.ForUser(r.Context(), q.Get("userId"), limit)
	default:
		items, err = h.activity.Recent(r.Context(), limit)
	}
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}
