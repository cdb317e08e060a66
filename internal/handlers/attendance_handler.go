package handlers

import (
	"net/http"
	"time"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// AttendanceHandler handles check-in, check-out and attendance history.
type AttendanceHandler struct {
	attendance *services.AttendanceService
	now        func() time.Time
}

// NewAttendanceHandler creates a new AttendanceHandler
func NewAttendanceHandler(as *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: as, now: time.Now}
}

// CheckIn handles POST /attendance/check-in?userId=. HR may record for others.
func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	userID, ok := scopeUser(w, ac, r.URL.Query().Get("userId"), models.PermManageAttendance)
	if !ok {
		return
	}
	rec, err := h.attendance.CheckIn(r.Context(), userID, h.now())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, rec)
}

// CheckOut handles POST /attendance/check-out?userId=
func (h *AttendanceHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	userID, ok := scopeUser(w, ac, r.URL.Query().Get("userId"), models.PermManageAttendance)
	if !ok {
		return
	}
	rec, err := h.attendance.CheckOut(r.Context(), userID, h.now())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rec)
}

// ListAttendance handles GET /attendance?userId=&from=&to=
func (h *AttendanceHandler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	userID, ok := scopeUser(w, ac, r.URL.Query().Get("userId"), models.PermManageAttendance, models.PermViewEmployees)
	if !ok {
		return
	}
	from, err := queryDate(r, "from")
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	items, err := h.attendance.List(r.Context(), userID, from, to)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}
