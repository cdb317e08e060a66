package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// AuthHandler handles authentication related HTTP requests
type AuthHandler struct {
	authService *services.AuthService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(as *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: as,
		validator:   newValidator(),
	}
}

// Login handles user login via POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.UserLoginRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	loginResponse, err := h.authService.Login(r.Context(), req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, loginResponse)
}

// Me returns the caller's profile and resolved permissions.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ac, ok := caller(w, r)
	if !ok {
		return
	}

	profile, err := h.authService.Me(r.Context(), ac)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}
