package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// EmployeeHandler handles employee records and their composite views.
type EmployeeHandler struct {
	employees     *services.EmployeeService
	relationships *services.RelationshipService
	validator     *validator.Validate
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(es *services.EmployeeService, rs *services.RelationshipService) *EmployeeHandler {
	return &EmployeeHandler{
		employees:     es,
		relationships: rs,
		validator:     newValidator(),
	}
}

// CreateEmployee handles POST /employees
func (h *EmployeeHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.CreateEmployeeRequest
	if !decodeJSON(w, r, nil, &req) {
		return
	}

	user, err := h.employees.Create(r.Context(), ac.Actor(), req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

// ListEmployees handles GET /employees?department=&status=&role=
func (h *EmployeeHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := h.employees.List(r.Context(), models.EmployeeFilter{
		Department: q.Get("department"),
		Status:     models.UserStatus(q.Get("status")),
		Role:       q.Get("role"),
	})
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

// GetEmployee handles GET /employees/{id}
func (h *EmployeeHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	user, err := h.employees.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateEmployee handles PUT /employees/{id}. Only fields present in the body
// change.
func (h *EmployeeHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.UpdateEmployeeRequest
	if !decodeJSON(w, r, nil, &req) {
		return
	}

	user, err := h.employees.Update(r.Context(), ac.Actor(), pathVar(r, "id"), req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateStatus handles PUT /employees/{id}/status. Terminating an employee
// cascades through their project and checklist assignments.
func (h *EmployeeHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}
	var req models.UpdateStatusRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	if err := h.employees.ChangeStatus(r.Context(), ac.Actor(), pathVar(r, "id"), req.Status); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Employee status updated")
}

// GetEmployeeDetails handles GET /employees/{id}/details
func (h *EmployeeHandler) GetEmployeeDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.relationships.GetEmployeeDetails(r.Context(), pathVar(r, "id"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, details)
}
