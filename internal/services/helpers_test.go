package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
)

var (
	errStoreDown = errors.New("connection refused")
	testActor    = models.Actor{UserID: "hr-1", Name: "Hana HR"}
)

func newTestCollections(t *testing.T) *database.Collections {
	t.Helper()
	cols := database.NewCollections(store.NewMemoryBackend())
	ctx := context.Background()
	for _, r := range models.DefaultRoles {
		require.NoError(t, cols.Roles.Insert(ctx, r))
	}
	for _, d := range models.DefaultDepartments {
		require.NoError(t, cols.Departments.Insert(ctx, d))
	}
	for _, lt := range models.DefaultLeaveTypes {
		require.NoError(t, cols.LeaveTypes.Insert(ctx, lt))
	}
	return cols
}

func addUser(t *testing.T, cols *database.Collections, id, role string, mods ...func(*models.User)) models.User {
	t.Helper()
	u := models.User{
		ID:         id,
		FirstName:  "User",
		LastName:   id,
		Email:      id + "@example.com",
		Role:       role,
		Department: "engineering",
		Position:   "Engineer",
		Status:     models.StatusActive,
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, m := range mods {
		m(&u)
	}
	require.NoError(t, cols.Users.Insert(context.Background(), u))
	return u
}

func ptrTo[T any](v T) *T { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// recordingActivity captures entries synchronously.
type recordingActivity struct {
	mu      sync.Mutex
	entries []models.ActivityEntry
}

func (r *recordingActivity) LogActivity(_ context.Context, e models.ActivityEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recordingActivity) all() []models.ActivityEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ActivityEntry(nil), r.entries...)
}

func (r *recordingActivity) actions() []models.ActivityAction {
	var out []models.ActivityAction
	for _, e := range r.all() {
		out = append(out, e.Action)
	}
	return out
}

// failingCollection wraps a collection and fails selected operations.
// failUpdateAfter lets that many updates through before failing.
type failingCollection[T any] struct {
	store.Collection[T]
	err             error
	failGet         bool
	failFind        bool
	failInsert      bool
	failUpdate      bool
	failUpdateAfter int

	mu      sync.Mutex
	updates int
}

func (f *failingCollection[T]) Get(ctx context.Context, id string) (T, error) {
	if f.failGet {
		var zero T
		return zero, f.err
	}
	return f.Collection.Get(ctx, id)
}

func (f *failingCollection[T]) Find(ctx context.Context, q store.Query) ([]T, error) {
	if f.failFind {
		return nil, f.err
	}
	return f.Collection.Find(ctx, q)
}

func (f *failingCollection[T]) Insert(ctx context.Context, doc T) error {
	if f.failInsert {
		return f.err
	}
	return f.Collection.Insert(ctx, doc)
}

func (f *failingCollection[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	f.updates++
	n := f.updates
	f.mu.Unlock()
	if f.failUpdate && n > f.failUpdateAfter {
		return f.err
	}
	return f.Collection.Update(ctx, id, fields)
}

// fieldErrors extracts the per-field messages of a validation error.
func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperror.KindValidation, appErr.Kind)
	fields, _ := appErr.Details["fields"].(map[string]string)
	return fields
}

func (f *failingCollection[T]) Count(ctx context.Context, q store.Query) (int64, error) {
	if f.failFind {
		return 0, f.err
	}
	return f.Collection.Count(ctx, q)
}
