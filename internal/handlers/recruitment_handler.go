package handlers

import (
	"net/http"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// RecruitmentHandler handles job postings.
type RecruitmentHandler struct {
	recruitment *services.RecruitmentService
}

// NewRecruitmentHandler creates a new RecruitmentHandler
func NewRecruitmentHandler(rs *services.RecruitmentService) *RecruitmentHandler {
	return &RecruitmentHandler{recruitment: rs}
}

// CreatePosting handles POST /recruitment/jobs
func (h *RecruitmentHandler) CreatePosting(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var job models.JobPosting
	if !decodeJSON(w, r, nil, &job) {
		return
	}
	created, err := h.recruitment.CreatePosting(r.Context(), ac.Actor(), job)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// ListPostings handles GET /recruitment/jobs?status=&department=
func (h *RecruitmentHandler) ListPostings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.recruitment.ListPostings(r.Context(), models.JobStatus(q.Get("status")), q.Get("department"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// UpdatePosting handles PUT /recruitment/jobs/{id}
func (h *RecruitmentHandler) UpdatePosting(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var job models.JobPosting
	if !decodeJSON(w, r, nil, &job) {
		return
	}
	updated, err := h.recruitment.UpdatePosting(r.Context(), ac.Actor(), pathVar(r, "id"), job)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// ClosePosting handles PUT /recruitment/jobs/{id}/close
func (h *RecruitmentHandler) ClosePosting(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	closed, err := h.recruitment.ClosePosting(r.Context(), ac.Actor(), pathVar(r, "id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, closed)
}
