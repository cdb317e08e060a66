package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

// AdminAccount is the first administrator created by Bootstrap.
type AdminAccount struct {
	Email    string
	Password string
}

// Bootstrap writes the seed catalog (roles, departments, employment types,
// leave types) and the initial admin the first time it runs. The presence of
// any user with the admin role marks the database as already seeded.
// It reports whether anything was written.
func Bootstrap(ctx context.Context, cols *Collections, admin AdminAccount, log *zap.Logger) (bool, error) {
	log = logger.OrNop(log).Named("bootstrap")

	admins, err := cols.Users.Count(ctx, store.Where("role", models.RoleAdmin).Limit(1))
	if err != nil {
		return false, fmt.Errorf("check for admin user: %w", err)
	}
	if admins > 0 {
		log.Debug("admin user present, skipping seed")
		return false, nil
	}

	now := time.Now().UTC()

	for _, role := range models.DefaultRoles {
		if err := insertOnce(ctx, cols.Roles, role); err != nil {
			return false, fmt.Errorf("seed role %s: %w", role.ID, err)
		}
	}
	for _, dept := range models.DefaultDepartments {
		dept.CreatedAt, dept.UpdatedAt = now, now
		if err := insertOnce(ctx, cols.Departments, dept); err != nil {
			return false, fmt.Errorf("seed department %s: %w", dept.ID, err)
		}
	}
	for _, et := range models.DefaultEmploymentTypes {
		if err := insertOnce(ctx, cols.EmploymentTypes, et); err != nil {
			return false, fmt.Errorf("seed employment type %s: %w", et.ID, err)
		}
	}
	for _, lt := range models.DefaultLeaveTypes {
		if err := insertOnce(ctx, cols.LeaveTypes, lt); err != nil {
			return false, fmt.Errorf("seed leave type %s: %w", lt.ID, err)
		}
	}

	hash, err := utils.HashPassword(admin.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	user := models.User{
		ID:         store.NewID(),
		FirstName:  "System",
		LastName:   "Administrator",
		Email:      admin.Email,
		Password:   hash,
		Role:       models.RoleAdmin,
		Department: "hr",
		Position:   "Administrator",
		Status:     models.StatusActive,
		HireDate:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := cols.Users.Insert(ctx, user); err != nil {
		return false, fmt.Errorf("create admin user: %w", err)
	}

	log.Info("seeded default data",
		zap.Int("roles", len(models.DefaultRoles)),
		zap.Int("departments", len(models.DefaultDepartments)),
		zap.String("admin_id", user.ID),
	)
	return true, nil
}

// insertOnce inserts doc, treating an existing document with the same id as success.
func insertOnce[T any](ctx context.Context, coll store.Collection[T], doc T) error {
	err := coll.Insert(ctx, doc)
	if errors.Is(err, store.ErrDuplicate) {
		return nil
	}
	return err
}
