package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahmed7gendy/hr-edecs/internal/handlers"
	"github.com/ahmed7gendy/hr-edecs/internal/middleware"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// Handlers groups every HTTP handler the router serves.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Employees   *handlers.EmployeeHandler
	Departments *handlers.DepartmentHandler
	Attendance  *handlers.AttendanceHandler
	Leaves      *handlers.LeaveHandler
	Payroll     *handlers.PayrollHandler
	Documents   *handlers.DocumentHandler
	Performance *handlers.PerformanceHandler
	Recruitment *handlers.RecruitmentHandler
	Training    *handlers.TrainingHandler
	Projects    *handlers.ProjectHandler
	Checklists  *handlers.ChecklistHandler
	Dashboard   *handlers.DashboardHandler
}

// SetupRoutes configures all API routes. metricsHandler may be nil to leave
// /metrics unrouted.
func SetupRoutes(router *mux.Router, authMiddleware *middleware.AuthMiddleware, h Handlers, metricsHandler http.Handler) {
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusNotFound, "Resource not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	if metricsHandler != nil {
		router.Handle("/metrics", metricsHandler).Methods("GET")
	}

	v1 := router.PathPrefix("/api/v1").Subrouter()
	auth := authMiddleware.JWTAuth
	anyOf := authMiddleware.RequireAny

	// Authentication routes
	v1.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")
	v1.HandleFunc("/auth/me", auth(h.Auth.Me, "")).Methods("GET")

	// Employees
	v1.HandleFunc("/employees", auth(h.Employees.CreateEmployee, models.PermManageEmployees)).Methods("POST")
	v1.HandleFunc("/employees", anyOf(h.Employees.ListEmployees, models.PermViewEmployees, models.PermManageEmployees)).Methods("GET")
	v1.HandleFunc("/employees/{id}", anyOf(h.Employees.GetEmployee, models.PermViewEmployees, models.PermManageEmployees)).Methods("GET")
	v1.HandleFunc("/employees/{id}", auth(h.Employees.UpdateEmployee, models.PermManageEmployees)).Methods("PUT")
	v1.HandleFunc("/employees/{id}/status", auth(h.Employees.UpdateStatus, models.PermManageEmployees)).Methods("PUT")
	v1.HandleFunc("/employees/{id}/details", anyOf(h.Employees.GetEmployeeDetails, models.PermViewEmployees, models.PermManageEmployees)).Methods("GET")

	// Departments and lookups
	v1.HandleFunc("/departments", auth(h.Departments.ListDepartments, "")).Methods("GET")
	v1.HandleFunc("/departments", auth(h.Departments.CreateDepartment, models.PermManageDepartments)).Methods("POST")
	v1.HandleFunc("/departments/{id}", auth(h.Departments.GetDepartment, "")).Methods("GET")
	v1.HandleFunc("/departments/{id}", auth(h.Departments.UpdateDepartment, models.PermManageDepartments)).Methods("PUT")
	v1.HandleFunc("/departments/{id}", auth(h.Departments.DeleteDepartment, models.PermManageDepartments)).Methods("DELETE")
	v1.HandleFunc("/departments/{id}/details", anyOf(h.Departments.GetDepartmentDetails, models.PermViewEmployees, models.PermManageDepartments)).Methods("GET")
	v1.HandleFunc("/lookups/employment-types", auth(h.Departments.ListEmploymentTypes, "")).Methods("GET")
	v1.HandleFunc("/lookups/leave-types", auth(h.Departments.ListLeaveTypes, "")).Methods("GET")

	// Attendance (self-service, scoped in the handler)
	v1.HandleFunc("/attendance/check-in", auth(h.Attendance.CheckIn, "")).Methods("POST")
	v1.HandleFunc("/attendance/check-out", auth(h.Attendance.CheckOut, "")).Methods("POST")
	v1.HandleFunc("/attendance", auth(h.Attendance.ListAttendance, "")).Methods("GET")

	// Leave
	v1.HandleFunc("/leaves", anyOf(h.Leaves.SubmitLeave, models.PermRequestLeave, models.PermApproveLeave)).Methods("POST")
	v1.HandleFunc("/leaves", auth(h.Leaves.ListLeaves, "")).Methods("GET")
	v1.HandleFunc("/leaves/{id}/review", auth(h.Leaves.ReviewLeave, models.PermApproveLeave)).Methods("PUT")

	// Payroll
	v1.HandleFunc("/payroll", auth(h.Payroll.CreatePayroll, models.PermManagePayroll)).Methods("POST")
	v1.HandleFunc("/payroll", auth(h.Payroll.ListPayroll, "")).Methods("GET")
	v1.HandleFunc("/payroll/{id}/process", auth(h.Payroll.ProcessPayroll, models.PermManagePayroll)).Methods("PUT")
	v1.HandleFunc("/payroll/{id}/pay", auth(h.Payroll.PayPayroll, models.PermManagePayroll)).Methods("PUT")

	// Documents
	v1.HandleFunc("/documents/upload", auth(h.Documents.UploadDocument, "")).Methods("POST")
	v1.HandleFunc("/documents", auth(h.Documents.CreateDocument, "")).Methods("POST")
	v1.HandleFunc("/documents", auth(h.Documents.ListDocuments, "")).Methods("GET")
	v1.HandleFunc("/documents/{id}", auth(h.Documents.DeleteDocument, models.PermManageDocuments)).Methods("DELETE")

	// Performance
	v1.HandleFunc("/performance", auth(h.Performance.CreateReview, models.PermManagePerformance)).Methods("POST")
	v1.HandleFunc("/performance", auth(h.Performance.ListReviews, "")).Methods("GET")
	v1.HandleFunc("/performance/{id}/submit", auth(h.Performance.SubmitReview, models.PermManagePerformance)).Methods("PUT")
	v1.HandleFunc("/performance/{id}/complete", auth(h.Performance.CompleteReview, models.PermManagePerformance)).Methods("PUT")

	// Recruitment
	v1.HandleFunc("/recruitment/jobs", auth(h.Recruitment.ListPostings, "")).Methods("GET")
	v1.HandleFunc("/recruitment/jobs", auth(h.Recruitment.CreatePosting, models.PermManageRecruitment)).Methods("POST")
	v1.HandleFunc("/recruitment/jobs/{id}", auth(h.Recruitment.UpdatePosting, models.PermManageRecruitment)).Methods("PUT")
	v1.HandleFunc("/recruitment/jobs/{id}/close", auth(h.Recruitment.ClosePosting, models.PermManageRecruitment)).Methods("PUT")

	// Training
	v1.HandleFunc("/training", auth(h.Training.ListTraining, "")).Methods("GET")
	v1.HandleFunc("/training", auth(h.Training.CreateTraining, models.PermManageTraining)).Methods("POST")
	v1.HandleFunc("/training/{id}", auth(h.Training.UpdateTraining, models.PermManageTraining)).Methods("PUT")
	v1.HandleFunc("/training/{id}/enroll", auth(h.Training.Enroll, "")).Methods("POST")

	// Projects
	v1.HandleFunc("/projects", auth(h.Projects.ListProjects, "")).Methods("GET")
	v1.HandleFunc("/projects", auth(h.Projects.CreateProject, models.PermManageProjects)).Methods("POST")
	v1.HandleFunc("/projects/{id}", auth(h.Projects.UpdateProject, models.PermManageProjects)).Methods("PUT")
	v1.HandleFunc("/projects/{id}", auth(h.Projects.DeleteProject, models.PermManageProjects)).Methods("DELETE")
	v1.HandleFunc("/projects/{id}/details", anyOf(h.Projects.GetProjectDetails, models.PermViewEmployees, models.PermManageProjects)).Methods("GET")
	v1.HandleFunc("/projects/{id}/members", auth(h.Projects.AddMember, models.PermManageProjects)).Methods("POST")
	v1.HandleFunc("/projects/{id}/members/{userId}", auth(h.Projects.RemoveMember, models.PermManageProjects)).Methods("DELETE")

	// Checklists
	v1.HandleFunc("/checklists", auth(h.Checklists.ListChecklists, "")).Methods("GET")
	v1.HandleFunc("/checklists", auth(h.Checklists.CreateChecklist, models.PermManageChecklists)).Methods("POST")
	v1.HandleFunc("/checklists/{id}", auth(h.Checklists.GetChecklist, "")).Methods("GET")
	v1.HandleFunc("/checklists/{id}/assign", auth(h.Checklists.AssignChecklist, models.PermManageChecklists)).Methods("PUT")
	v1.HandleFunc("/checklists/{id}/items/{index:[0-9]+}", auth(h.Checklists.SetItem, "")).Methods("PUT")
	v1.HandleFunc("/checklists/{id}/complete", auth(h.Checklists.CompleteChecklist, models.PermManageChecklists)).Methods("PUT")

	// Dashboard and activity feed
	v1.HandleFunc("/dashboard/metrics", auth(h.Dashboard.GetDashboardMetrics, models.PermViewReports)).Methods("GET")
	v1.HandleFunc("/activity", auth(h.Dashboard.ListActivity, models.PermViewActivity)).Methods("GET")
}

// MetricsHandler serves the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
