package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	cols := NewCollections(store.NewMemoryBackend())
	admin := AdminAccount{Email: "admin@example.com", Password: "s3cret!"}

	seeded, err := Bootstrap(ctx, cols, admin, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, seeded)

	roles, err := cols.Roles.Find(ctx, store.NewQuery())
	require.NoError(t, err)
	assert.Len(t, roles, len(models.DefaultRoles))

	adminRole, err := cols.Roles.Get(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []models.Permission{models.WildcardPermission}, adminRole.Permissions)

	for name, n := range map[string]int{
		"departments":     count(t, cols.Departments),
		"employmentTypes": count(t, cols.EmploymentTypes),
		"leaveTypes":      count(t, cols.LeaveTypes),
	} {
		assert.Positive(t, n, name)
	}

	users, err := cols.Users.Find(ctx, store.Where("role", models.RoleAdmin))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, admin.Email, users[0].Email)
	assert.Equal(t, models.StatusActive, users[0].Status)
	assert.True(t, utils.CheckPasswordHash(admin.Password, users[0].Password))

	t.Run("second run is a no-op", func(t *testing.T) {
		seeded, err := Bootstrap(ctx, cols, admin, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, seeded)

		n, err := cols.Users.Count(ctx, store.NewQuery())
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestBootstrapToleratesPartialCatalog(t *testing.T) {
	ctx := context.Background()
	cols := NewCollections(store.NewMemoryBackend())

	// A previous run wrote the roles but died before creating the admin.
	for _, r := range models.DefaultRoles {
		require.NoError(t, cols.Roles.Insert(ctx, r))
	}

	seeded, err := Bootstrap(ctx, cols, AdminAccount{Email: "a@example.com", Password: "pw"}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Equal(t, 1, count(t, cols.Users))
}

func count[T any](t *testing.T, coll store.Collection[T]) int {
	t.Helper()
	n, err := coll.Count(context.Background(), store.NewQuery())
	require.NoError(t, err)
	return int(n)
}

func TestBootstrapWithoutLogger(t *testing.T) {
	cols := NewCollections(store.NewMemoryBackend())
	require.NotPanics(t, func() {
		seeded, err := Bootstrap(context.Background(), cols, AdminAccount{Email: "root@example.com", Password: "s3cret!"}, nil)
		require.NoError(t, err)
		assert.True(t, seeded)
	})
}
