package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
)

func TestPermissionService_HasPermission(t *testing.T) {
	cols := newTestCollections(t)
	ctx := context.Background()
	for _, r := range models.DefaultRoles {
		addUser(t, cols, "u-"+r.ID, r.ID)
	}
	ps := NewPermissionService(cols, zap.NewNop())

	for _, role := range models.DefaultRoles {
		for _, perm := range models.PermissionCatalog {
			want := role.Grants(perm)
			got := ps.HasPermission(ctx, "u-"+role.ID, perm)
			assert.Equal(t, want, got, "role %s permission %s", role.ID, perm)
		}
	}

	assert.True(t, ps.HasPermission(ctx, "u-admin", "anything_at_all"), "wildcard grants unknown permissions")
	assert.Equal(t, DecisionDenied, ps.Check(ctx, "u-employee", models.PermManagePayroll))
	assert.Equal(t, DecisionGranted, ps.Check(ctx, "u-employee", models.PermRequestLeave))
}

func TestPermissionService_Unresolvable(t *testing.T) {
	cols := newTestCollections(t)
	ctx := context.Background()
	addUser(t, cols, "orphan", "ghost_role")
	addUser(t, cols, "roleless", "")
	ps := NewPermissionService(cols, nil)

	for _, id := range []string{"missing", "orphan", "roleless"} {
		t.Run(id, func(t *testing.T) {
			assert.Equal(t, DecisionUnknown, ps.Check(ctx, id, models.PermRequestLeave))
			assert.False(t, ps.HasPermission(ctx, id, models.PermRequestLeave))
			assert.Empty(t, ps.GetUserPermissions(ctx, id))
			assert.False(t, ps.HasAnyPermission(ctx, id, []models.Permission{models.PermRequestLeave}))
			assert.False(t, ps.HasAllPermissions(ctx, id, nil))
		})
	}
}

func TestPermissionService_StoreFailureDenies(t *testing.T) {
	cols := newTestCollections(t)
	addUser(t, cols, "u1", models.RoleAdmin)
	cols.Users = &failingCollection[models.User]{Collection: cols.Users, err: errStoreDown, failGet: true, failFind: true}

	core, logs := observer.New(zapcore.WarnLevel)
	ps := NewPermissionService(cols, zap.New(core))
	ctx := context.Background()

	assert.False(t, ps.HasPermission(ctx, "u1", models.PermManageEmployees))
	assert.Empty(t, ps.GetUserPermissions(ctx, "u1"))
	assert.Empty(t, ps.GetUsersWithPermission(ctx, models.PermManageEmployees))

	require.GreaterOrEqual(t, logs.Len(), 3)
	assert.Equal(t, "permission.resolver", logs.All()[0].LoggerName)

	_, err := ps.AuthContext(ctx, "u1")
	assert.Equal(t, apperror.KindDatabase, apperror.KindOf(err))
}

func TestPermissionService_AnyAll(t *testing.T) {
	cols := newTestCollections(t)
	ctx := context.Background()
	addUser(t, cols, "mgr", models.RoleManager)
	addUser(t, cols, "root", models.RoleAdmin)
	ps := NewPermissionService(cols, nil)

	both := []models.Permission{models.PermApproveLeave, models.PermManagePayroll}

	assert.True(t, ps.HasAnyPermission(ctx, "mgr", both))
	assert.False(t, ps.HasAllPermissions(ctx, "mgr", both))
	assert.True(t, ps.HasAllPermissions(ctx, "mgr", both[:1]))
	assert.False(t, ps.HasAnyPermission(ctx, "mgr", nil))
	assert.True(t, ps.HasAllPermissions(ctx, "mgr", nil))

	assert.True(t, ps.HasAnyPermission(ctx, "root", both))
	assert.True(t, ps.HasAllPermissions(ctx, "root", both))
}

func TestPermissionService_GetUsersWithPermission(t *testing.T) {
	cols := newTestCollections(t)
	ctx := context.Background()
	addUser(t, cols, "a", models.RoleAdmin)
	addUser(t, cols, "h", models.RoleHRManager)
	addUser(t, cols, "m", models.RoleManager)
	addUser(t, cols, "e", models.RoleEmployee)
	ps := NewPermissionService(cols, nil)

	ids := func(users []models.User) []string {
		out := make([]string, 0, len(users))
		for _, u := range users {
			out = append(out, u.ID)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"a", "h", "m"}, ids(ps.GetUsersWithPermission(ctx, models.PermApproveLeave)))
	assert.ElementsMatch(t, []string{"a", "h"}, ids(ps.GetUsersWithPermission(ctx, models.PermManagePayroll)))
	assert.ElementsMatch(t, []string{"a"}, ids(ps.GetUsersWithPermission(ctx, models.PermManageSettings)))
}

func TestPermissionService_AuthContext(t *testing.T) {
	cols := newTestCollections(t)
	ctx := context.Background()
	addUser(t, cols, "m", models.RoleManager, func(u *models.User) { u.FirstName, u.LastName = "Mona", "Said" })
	addUser(t, cols, "gone", models.RoleManager, func(u *models.User) { u.Status = models.StatusTerminated })
	ps := NewPermissionService(cols, nil)

	ac, err := ps.AuthContext(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, "Mona Said", ac.Name)
	assert.True(t, ac.HasPermission(models.PermApproveLeave))
	assert.Equal(t, models.Actor{UserID: "m", Name: "Mona Said"}, ac.Actor())

	_, err = ps.AuthContext(ctx, "gone")
	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))

	_, err = ps.AuthContext(ctx, "nobody")
	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))
}
