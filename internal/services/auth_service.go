package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// Profile is the authenticated user with their resolved permissions.
type Profile struct {
	User        *models.User        `json:"user"`
	Permissions []models.Permission `json:"permissions"`
}

// AuthService provides methods for user authentication and JWT operations
type AuthService struct {
	employees   *EmployeeService
	permissions *PermissionService
	jwtSecret   []byte
	tokenTTL    time.Duration
	log         *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(es *EmployeeService, ps *PermissionService, jwtSecret []byte, tokenTTL time.Duration, log *zap.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		employees:   es,
		permissions: ps,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		log:         logger.OrNop(log).Named("auth"),
	}
}

func invalidCredentials() error {
	return apperror.New(apperror.KindAuthentication, "Invalid credentials")
}

// Login handles user login and JWT generation. Terminated users are refused.
func (s *AuthService) Login(ctx context.Context, req models.UserLoginRequest) (*models.LoginResponse, error) {
	log := logger.WithContext(ctx, s.log).With(zap.String("email", logger.MaskEmail(req.Email)))

	user, err := s.employees.GetByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			log.Info("login failed: unknown email")
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		log.Info("login failed: wrong password")
		return nil, invalidCredentials()
	}
	if user.Status == models.StatusTerminated {
		log.Info("login refused: account terminated")
		return nil, apperror.New(apperror.KindAuthentication, "User account is not active")
	}

	token, err := utils.GenerateToken(user.ID, user.Email, s.tokenTTL, s.jwtSecret)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindUnknown, "Failed to generate token")
	}

	log.Info("login succeeded", zap.String("user_id", user.ID))
	return &models.LoginResponse{
		Token:       token,
		UserID:      user.ID,
		Role:        user.Role,
		Permissions: s.permissions.GetUserPermissions(ctx, user.ID).List(),
	}, nil
}

// Authenticate validates a bearer token and resolves the caller.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.AuthContext, error) {
	claims, err := utils.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindAuthentication, "Invalid or expired token")
	}
	return s.permissions.AuthContext(ctx, claims.UserID)
}

// Me returns the caller's profile.
func (s *AuthService) Me(ctx context.Context, ac *models.AuthContext) (*Profile, error) {
	user, err := s.employees.Get(ctx, ac.UserID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Permissions: ac.Permissions.List()}, nil
}
