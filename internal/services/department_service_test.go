package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
)

func TestDepartmentService_CRUD(t *testing.T) {
	cols := newTestCollections(t)
	activity := &recordingActivity{}
	ds := NewDepartmentService(cols, activity, nil)
	ctx := context.Background()

	legal, err := ds.Create(ctx, testActor, models.Department{ID: "legal", Name: " Legal "})
	require.NoError(t, err)
	assert.Equal(t, "Legal", legal.Name)

	_, err = ds.Create(ctx, testActor, models.Department{ID: "hr", Name: "People"})
	assert.Equal(t, http.StatusConflict, apperror.HTTPStatus(err))

	generated, err := ds.Create(ctx, testActor, models.Department{Name: "Research"})
	require.NoError(t, err)
	assert.NotEmpty(t, generated.ID)

	got, err := ds.Get(ctx, "legal")
	require.NoError(t, err)
	assert.Equal(t, "Legal", got.Name)

	updated, err := ds.Update(ctx, testActor, "legal", models.Department{Name: "Legal & Compliance"})
	require.NoError(t, err)
	assert.Equal(t, "Legal & Compliance", updated.Name)

	all, err := ds.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(models.DefaultDepartments)+2)

	require.NoError(t, ds.Delete(ctx, testActor, "legal"))
	_, err = ds.Update(ctx, testActor, "legal", models.Department{Name: "x"})
	assert.Equal(t, http.StatusNotFound, apperror.HTTPStatus(err))
	_, err = ds.Get(ctx, "legal")
	assert.Equal(t, http.StatusNotFound, apperror.HTTPStatus(err))

	assert.Equal(t, []models.ActivityAction{
		models.ActionCreate, models.ActionCreate, models.ActionUpdate, models.ActionDelete,
	}, activity.actions())
}

func TestDepartmentService_DeleteInUse(t *testing.T) {
	cols := newTestCollections(t)
	addUser(t, cols, "u1", models.RoleEmployee)
	ds := NewDepartmentService(cols, &recordingActivity{}, nil)

	err := ds.Delete(context.Background(), testActor, "engineering")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.EqualValues(t, 1, appErr.Details["employees"])

	_, err = cols.Departments.Get(context.Background(), "engineering")
	assert.NoError(t, err)
}

func TestDepartmentService_Lookups(t *testing.T) {
	cols := newTestCollections(t)
	ds := NewDepartmentService(cols, &recordingActivity{}, nil)

	leaveTypes, err := ds.LeaveTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, leaveTypes, len(models.DefaultLeaveTypes))

	types, err := ds.EmploymentTypes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, types, "not seeded by the test fixture")
}
