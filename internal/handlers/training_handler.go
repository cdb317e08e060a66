package handlers

import (
	"net/http"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// TrainingHandler handles training sessions and enrolment.
type TrainingHandler struct {
	training *services.TrainingService
}

// NewTrainingHandler creates a new TrainingHandler
func NewTrainingHandler(ts *services.TrainingService) *TrainingHandler {
	return &TrainingHandler{training: ts}
}

// CreateTraining handles POST /training
func (h *TrainingHandler) CreateTraining(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var t models.Training
	if !decodeJSON(w, r, nil, &t) {
		return
	}
	created, err := h.training.Create(r.Context(), ac.Actor(), t)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// ListTraining handles GET /training?status=
func (h *TrainingHandler) ListTraining(w http.ResponseWriter, r *http.Request) {
	items, err := h.training.List(r.Context(), models.TrainingStatus(r.URL.Query().Get("status")))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// UpdateTraining handles PUT /training/{id}
func (h *TrainingHandler) UpdateTraining(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var t models.Training
	if !decodeJSON(w, r, nil, &t) {
		return
	}
	updated, err := h.training.Update(r.Context(), ac.Actor(), pathVar(r, "id"), t)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// Enroll handles POST /training/{id}/enroll?userId=. Employees enrol
// themselves; training managers may enrol anyone.
func (h *TrainingHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	userID, ok := scopeUser(w, ac, r.URL.Query().Get("userId"), models.PermManageTraining)
	if !ok {
		return
	}
	t, err := h.training.Enroll(r.Context(), ac.Actor(), pathVar(r, "id"), userID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, t)
}
