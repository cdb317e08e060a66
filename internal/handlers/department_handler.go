package handlers

import (
	"net/http"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// DepartmentHandler handles departments and the reference lookups.
type DepartmentHandler struct {
	departments   *services.DepartmentService
	relationships *services.RelationshipService
}

// NewDepartmentHandler creates a new DepartmentHandler
func NewDepartmentHandler(ds *services.DepartmentService, rs *services.RelationshipService) *DepartmentHandler {
	return &DepartmentHandler{departments: ds, relationships: rs}
}

// CreateDepartment handles POST /departments
func (h *DepartmentHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var dept models.Department
	if !decodeJSON(w, r, nil, &dept) {
		return
	}
	created, err := h.departments.Create(r.Context(), ac.Actor(), dept)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// ListDepartments handles GET /departments
func (h *DepartmentHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	depts, err := h.departments.List(r.Context())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, depts)
}

// GetDepartment handles GET /departments/{id}
func (h *DepartmentHandler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	dept, err := h.departments.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dept)
}

// UpdateDepartment handles PUT /departments/{id}
func (h *DepartmentHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var dept models.Department
	if !decodeJSON(w, r, nil, &dept) {
		return
	}
	updated, err := h.departments.Update(r.Context(), ac.Actor(), pathVar(r, "id"), dept)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteDepartment handles DELETE /departments/{id}
func (h *DepartmentHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.departments.Delete(r.Context(), ac.Actor(), pathVar(r, "id")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Department deleted")
}

// GetDepartmentDetails handles GET /departments/{id}/details
func (h *DepartmentHandler) GetDepartmentDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.relationships.GetDepartmentDetails(r.Context(), pathVar(r, "id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, details)
}

// ListEmploymentTypes handles GET /lookups/employment-types
func (h *DepartmentHandler) ListEmploymentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.departments.EmploymentTypes(r.Context())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, types)
}

// ListLeaveTypes handles GET /lookups/leave-types
func (h *DepartmentHandler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.departments.LeaveTypes(r.Context())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, types)
}
