package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

type memberRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// ProjectHandler handles projects and their teams.
type ProjectHandler struct {
	projects      *services.ProjectService
	relationships *services.RelationshipService
	validator     *validator.Validate
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(ps *services.ProjectService, rs *services.RelationshipService) *ProjectHandler {
	return &ProjectHandler{projects: ps, relationships: rs, validator: newValidator()}
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var p models.Project
	if !decodeJSON(w, r, nil, &p) {
		return
	}
	created, err := h.projects.Create(r.Context(), ac.Actor(), p)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// ListProjects handles GET /projects?status=&memberId=
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.projects.List(r.Context(), models.ProjectStatus(q.Get("status")), q.Get("memberId"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// GetProjectDetails handles GET /projects/{id}/details
func (h *ProjectHandler) GetProjectDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.relationships.GetProjectDetails(r.Context(), pathVar(r, "id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, details)
}

// UpdateProject handles PUT /projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var p models.Project
	if !decodeJSON(w, r, nil, &p) {
		return
	}
	updated, err := h.projects.Update(r.Context(), ac.Actor(), pathVar(r, "id"), p)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteProject handles DELETE /projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.projects.Delete(r.Context(), ac.Actor(), pathVar(r, "id")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Project deleted")
}

// AddMember handles POST /projects/{id}/members
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var req memberRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}
	p, err := h.projects.AddMember(r.Context(), ac.Actor(), pathVar(r, "id"), req.UserID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// RemoveMember handles DELETE /projects/{id}/members/{userId}
func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	p, err := h.projects.RemoveMember(r.Context(), ac.Actor(), pathVar(r, "id"), pathVar(r, "userId"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}
