package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

type assignRequest struct {
	// Empty unassigns.
	UserID string `json:"userId"`
}

type setItemRequest struct {
	Done *bool `json:"done" validate:"required"`
}

// ChecklistHandler handles onboarding and offboarding checklists.
type ChecklistHandler struct {
	checklists *services.ChecklistService
	validator  *validator.Validate
}

// NewChecklistHandler creates a new ChecklistHandler
func NewChecklistHandler(cs *services.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{checklists: cs, validator: newValidator()}
}

// CreateChecklist handles POST /checklists
func (h *ChecklistHandler) CreateChecklist(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var c models.Checklist
	if !decodeJSON(w, r, nil, &c) {
		return
	}
	created, err := h.checklists.Create(r.Context(), ac.Actor(), c)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// ListChecklists handles GET /checklists?assignedTo=&status=
// Without manage_checklists only the caller's own checklists are listed.
func (h *ChecklistHandler) ListChecklists(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	assignedTo := q.Get("assignedTo")
	if !ac.HasPermission(models.PermManageChecklists) {
		assignedTo = ac.UserID
	}
	items, err := h.checklists.List(r.Context(), assignedTo, models.ChecklistStatus(q.Get("status")))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// GetChecklist handles GET /checklists/{id}
func (h *ChecklistHandler) GetChecklist(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	c, ok := h.accessible(w, r, ac)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// accessible loads the checklist named by the path, refusing callers that
// neither manage checklists nor are its assignee.
func (h *ChecklistHandler) accessible(w http.ResponseWriter, r *http.Request, ac *models.AuthContext) (*models.Checklist, bool) {
	c, err := h.checklists.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return nil, false
	}
	if ac.HasPermission(models.PermManageChecklists) || (c.AssignedTo != nil && *c.AssignedTo == ac.UserID) {
		return c, true
	}
	utils.RespondWithAppError(w, apperror.Forbidden("You can only access checklists assigned to you"))
	return nil, false
}

// AssignChecklist handles PUT /checklists/{id}/assign
func (h *ChecklistHandler) AssignChecklist(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var req assignRequest
	if !decodeJSON(w, r, nil, &req) {
		return
	}
	c, err := h.checklists.Assign(r.Context(), ac.Actor(), pathVar(r, "id"), req.UserID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// SetItem handles PUT /checklists/{id}/items/{index}
func (h *ChecklistHandler) SetItem(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(pathVar(r, "index"))
	if err != nil {
		utils.RespondWithAppError(w, apperror.Validation(map[string]string{"index": "Item index must be a number"}))
		return
	}
	var req setItemRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}
	if _, ok := h.accessible(w, r, ac); !ok {
		return
	}
	c, err := h.checklists.SetItem(r.Context(), ac.Actor(), pathVar(r, "id"), index, *req.Done)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// CompleteChecklist handles PUT /checklists/{id}/complete
func (h *ChecklistHandler) CompleteChecklist(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	c, err := h.checklists.Complete(r.Context(), ac.Actor(), pathVar(r, "id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}
