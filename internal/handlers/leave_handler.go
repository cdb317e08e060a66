package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

type reviewLeaveRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Note     string `json:"note"`
}

// LeaveHandler handles leave requests and their review.
type LeaveHandler struct {
	leaves    *services.LeaveService
	validator *validator.Validate
}

// NewLeaveHandler creates a new LeaveHandler
func NewLeaveHandler(ls *services.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaves: ls, validator: newValidator()}
}

// SubmitLeave handles POST /leaves. The request is for the caller unless
// userId names someone else and the caller may manage leave.
func (h *LeaveHandler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.LeaveRequest
	if !decodeJSON(w, r, nil, &req) {
		return
	}
	userID, ok := scopeUser(w, ac, req.UserID, models.PermApproveLeave)
	if !ok {
		return
	}
	req.UserID = userID

	created, err := h.leaves.Submit(r.Context(), ac.Actor(), req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// ListLeaves handles GET /leaves?userId=&status=. Without approve_leave a
// caller only sees their own requests.
func (h *LeaveHandler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	userID := q.Get("userId")
	if !ac.HasPermission(models.PermApproveLeave) {
		userID = ac.UserID
	}

	items, err := h.leaves.List(r.Context(), userID, models.LeaveStatus(q.Get("status")))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// ReviewLeave handles PUT /leaves/{id}/review
func (h *LeaveHandler) ReviewLeave(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var req reviewLeaveRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	review := h.leaves.Approve
	if req.Decision == "reject" {
		review = h.leaves.Reject
	}
	updated, err := review(r.Context(), ac.Actor(), pathVar(r, "id"), req.Note)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}
