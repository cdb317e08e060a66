package handlers

import (
	"net/http"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// PayrollHandler handles payroll records.
type PayrollHandler struct {
	payroll *services.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(ps *services.PayrollService) *PayrollHandler {
	return &PayrollHandler{payroll: ps}
}

// CreatePayroll handles POST /payroll
func (h *PayrollHandler) CreatePayroll(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var rec models.PayrollRecord
	if !decodeJSON(w, r, nil, &rec) {
		return
	}
	created, err := h.payroll.Create(r.Context(), ac.Actor(), rec)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// ListPayroll handles GET /payroll?userId=&period=. Without view_payroll a
// caller only sees their own payslips.
func (h *PayrollHandler) ListPayroll(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	userID := q.Get("userId")
	if !ac.Permissions.HasAny(models.PermViewPayroll, models.PermManagePayroll) {
		userID = ac.UserID
	}
	items, err := h.payroll.List(r.Context(), userID, q.Get("period"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// ProcessPayroll handles PUT /payroll/{id}/process
func (h *PayrollHandler) ProcessPayroll(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	rec, err := h.payroll.MarkProcessed(r.Context(), ac.Actor(), pathVar(r, "id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rec)
}

// PayPayroll handles PUT /payroll/{id}/pay
func (h *PayrollHandler) PayPayroll(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	rec, err := h.payroll.MarkPaid(r.Context(), ac.Actor(), pathVar(r, "id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rec)
}
