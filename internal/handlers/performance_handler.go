package handlers

import (
	"net/http"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// PerformanceHandler handles performance reviews.
type PerformanceHandler struct {
	reviews *services.PerformanceService
}

// NewPerformanceHandler creates a new PerformanceHandler
func NewPerformanceHandler(ps *services.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{reviews: ps}
}

// CreateReview handles POST /performance
func (h *PerformanceHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var review models.PerformanceReview
	if !decodeJSON(w, r, nil, &review) {
		return
	}
	created, err := h.reviews.Create(r.Context(), ac.Actor(), review)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// ListReviews handles GET /performance?userId=
func (h *PerformanceHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	userID, ok := scopeUser(w, ac, r.URL.Query().Get("userId"), models.PermManagePerformance)
	if !ok {
		return
	}
	items, err := h.reviews.List(r.Context(), userID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// SubmitReview handles PUT /performance/{id}/submit
func (h *PerformanceHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	review, err := h.reviews.Submit(r.Context(), ac.Actor(), pathVar(r, "id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, review)
}

// CompleteReview handles PUT /performance/{id}/complete
func (h *PerformanceHandler) CompleteReview(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	review, err := h.reviews.Complete(r.Context(), ac.Actor(), pathVar(r, "id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, review)
}
