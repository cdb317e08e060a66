package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

var testSecret = []byte("test-secret")

func newAuthService(t *testing.T) (*AuthService, *database.Collections) {
	t.Helper()
	cols := newTestCollections(t)
	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	withPassword := func(u *models.User) { u.Password = hash }
	addUser(t, cols, "mgr", models.RoleManager, withPassword)
	addUser(t, cols, "gone", models.RoleEmployee, withPassword, func(u *models.User) { u.Status = models.StatusTerminated })

	activity := &recordingActivity{}
	es := NewEmployeeService(cols, NewRelationshipService(cols, activity, nil), activity, nil)
	ps := NewPermissionService(cols, nil)
	return NewAuthService(es, ps, testSecret, time.Hour, nil), cols
}

func TestAuthService_Login(t *testing.T) {
	as, _ := newAuthService(t)
	ctx := context.Background()

	resp, err := as.Login(ctx, models.UserLoginRequest{Email: "MGR@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "mgr", resp.UserID)
	assert.Equal(t, models.RoleManager, resp.Role)
	assert.Contains(t, resp.Permissions, models.PermApproveLeave)
	assert.NotEmpty(t, resp.Token)

	ac, err := as.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "mgr", ac.UserID)
	assert.True(t, ac.HasPermission(models.PermManageProjects))

	profile, err := as.Me(ctx, ac)
	require.NoError(t, err)
	assert.Equal(t, "mgr@example.com", profile.User.Email)
	assert.Equal(t, ac.Permissions.List(), profile.Permissions)
}

func TestAuthService_LoginFailures(t *testing.T) {
	as, _ := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.UserLoginRequest
	}{
		{"unknown email", models.UserLoginRequest{Email: "nobody@example.com", Password: "correct-horse"}},
		{"wrong password", models.UserLoginRequest{Email: "mgr@example.com", Password: "wrong"}},
		{"terminated", models.UserLoginRequest{Email: "gone@example.com", Password: "correct-horse"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := as.Login(ctx, tt.req)
			assert.Nil(t, resp)
			assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	as, cols := newAuthService(t)
	ctx := context.Background()

	_, err := as.Authenticate(ctx, "not-a-token")
	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))

	foreign, err := utils.GenerateToken("mgr", "mgr@example.com", time.Hour, []byte("other-secret"))
	require.NoError(t, err)
	_, err = as.Authenticate(ctx, foreign)
	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))

	expired, err := utils.GenerateToken("mgr", "mgr@example.com", -time.Minute, testSecret)
	require.NoError(t, err)
	_, err = as.Authenticate(ctx, expired)
	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))

	// a token outlives the account's termination but no longer authenticates
	token, err := utils.GenerateToken("mgr", "mgr@example.com", time.Hour, testSecret)
	require.NoError(t, err)
	require.NoError(t, cols.Users.Update(ctx, "mgr", map[string]any{"status": models.StatusTerminated}))
	_, err = as.Authenticate(ctx, token)
	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))
}
