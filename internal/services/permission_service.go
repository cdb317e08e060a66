package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
)

// Decision is the outcome of a permission check. Unknown means the user or
// role could not be resolved and must be treated as a denial.
type Decision int

const (
	DecisionUnknown Decision = iota
	DecisionDenied
	DecisionGranted
)

func (d Decision) String() string {
	switch d {
	case DecisionGranted:
		return "granted"
	case DecisionDenied:
		return "denied"
	}
	return "unknown"
}

// Allowed is true only for DecisionGranted.
func (d Decision) Allowed() bool { return d == DecisionGranted }

// PermissionService resolves a user's permissions through their single role.
// Every boolean or list query fails closed: lookup errors are logged and
// reported as "no permission" rather than returned.
type PermissionService struct {
	users store.Collection[models.User]
	roles store.Collection[models.Role]
	log   *zap.Logger
}

// NewPermissionService creates a new PermissionService
func NewPermissionService(cols *database.Collections, log *zap.Logger) *PermissionService {
	return &PermissionService{
		users: cols.Users,
		roles: cols.Roles,
		log:   logger.OrNop(log).Named("permission.resolver"),
	}
}

// resolve loads the user and its role.
func (s *PermissionService) resolve(ctx context.Context, userID string) (models.User, models.PermissionSet, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return user, nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	if user.Role == "" {
		return user, nil, fmt.Errorf("user %s has no role: %w", userID, store.ErrNotFound)
	}
	role, err := s.roles.Get(ctx, user.Role)
	if err != nil {
		return user, nil, fmt.Errorf("load role %s: %w", user.Role, err)
	}
	return user, models.NewPermissionSet(role.Permissions...), nil
}

// resolveOrEmpty is resolve with the fail-closed policy applied.
func (s *PermissionService) resolveOrEmpty(ctx context.Context, userID string) (models.PermissionSet, bool) {
	_, perms, err := s.resolve(ctx, userID)
	if err != nil {
		s.logFailure(ctx, "permission lookup failed", userID, err)
		return models.PermissionSet{}, false
	}
	return perms, true
}

func (s *PermissionService) logFailure(ctx context.Context, msg, userID string, err error) {
	log := logger.WithContext(ctx, s.log)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug(msg, zap.String("user_id", userID), zap.Error(err))
		return
	}
	log.Warn(msg, zap.String("user_id", userID), zap.Error(err))
}

// Check returns the tri-state decision for one permission.
func (s *PermissionService) Check(ctx context.Context, userID string, permission models.Permission) Decision {
	perms, ok := s.resolveOrEmpty(ctx, userID)
	if !ok {
		return DecisionUnknown
	}
	if perms.Has(permission) {
		return DecisionGranted
	}
	return DecisionDenied
}

// HasPermission is true iff the user's role grants permission or the wildcard.
func (s *PermissionService) HasPermission(ctx context.Context, userID string, permission models.Permission) bool {
	return s.Check(ctx, userID, permission).Allowed()
}

// GetUserPermissions returns the resolved set, or an empty set if the user or
// role cannot be resolved.
func (s *PermissionService) GetUserPermissions(ctx context.Context, userID string) models.PermissionSet {
	perms, _ := s.resolveOrEmpty(ctx, userID)
	return perms
}

// HasAnyPermission is true if at least one of permissions is granted.
func (s *PermissionService) HasAnyPermission(ctx context.Context, userID string, permissions []models.Permission) bool {
	perms, ok := s.resolveOrEmpty(ctx, userID)
	return ok && perms.HasAny(permissions...)
}

// HasAllPermissions is true if every one of permissions is granted. An empty
// list is satisfied by any resolvable user.
func (s *PermissionService) HasAllPermissions(ctx context.Context, userID string, permissions []models.Permission) bool {
	perms, ok := s.resolveOrEmpty(ctx, userID)
	return ok && perms.HasAll(permissions...)
}

// GetUsersWithPermission finds every user whose role grants permission.
// Roles are scanned first, then users referencing the matching role ids.
func (s *PermissionService) GetUsersWithPermission(ctx context.Context, permission models.Permission) []models.User {
	log := logger.WithContext(ctx, s.log).With(zap.String("permission", permission))

	roles, err := s.roles.Find(ctx, store.NewQuery())
	if err != nil {
		log.Warn("list roles failed", zap.Error(err))
		return []models.User{}
	}

	roleIDs := make([]string, 0, len(roles))
	for _, r := range roles {
		if r.Grants(permission) {
			roleIDs = append(roleIDs, r.ID)
		}
	}
	if len(roleIDs) == 0 {
		return []models.User{}
	}

	users, err := s.users.Find(ctx, store.NewQuery().In("role", roleIDs).OrderBy("lastName", false))
	if err != nil {
		log.Warn("list users by role failed", zap.Strings("roles", roleIDs), zap.Error(err))
		return []models.User{}
	}
	return users
}

// AuthContext builds the request identity for an authenticated user. Unlike
// the boolean queries it reports why resolution failed, so the HTTP layer can
// distinguish a bad token from an outage. Terminated users are refused.
func (s *PermissionService) AuthContext(ctx context.Context, userID string) (*models.AuthContext, error) {
	user, perms, err := s.resolve(ctx, userID)
	if err != nil {
		s.logFailure(ctx, "auth context resolution failed", userID, err)
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.Wrap(err, apperror.KindAuthentication, "User account is not available")
		}
		return nil, apperror.FromStore(err, "resolve auth context")
	}
	if user.Status == models.StatusTerminated {
		return nil, apperror.New(apperror.KindAuthentication, "User account is not active")
	}

	return &models.AuthContext{
		UserID:      user.ID,
		Name:        user.FullName(),
		Role:        user.Role,
		Permissions: perms,
	}, nil
}
