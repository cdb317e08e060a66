package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
)

func TestProjectService_Team(t *testing.T) {
	cols := newTestCollections(t)
	addUser(t, cols, "a", models.RoleEmployee)
	addUser(t, cols, "b", models.RoleEmployee)
	addUser(t, cols, "gone", models.RoleEmployee, func(u *models.User) { u.Status = models.StatusTerminated })
	activity := &recordingActivity{}
	ps := NewProjectService(cols, activity, nil)
	ctx := context.Background()

	p, err := ps.Create(ctx, testActor, models.Project{
		Name:      " Intranet ",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Team:      []string{"b", "a", "b", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "Intranet", p.Name)
	assert.Equal(t, models.ProjectPlanning, p.Status)
	assert.Equal(t, []string{"b", "a"}, p.Team)

	_, err = ps.AddMember(ctx, testActor, p.ID, "gone")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	p, err = ps.RemoveMember(ctx, testActor, p.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, p.Team)

	p, err = ps.AddMember(ctx, testActor, p.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Team)

	mine, err := ps.List(ctx, "", "b")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	none, err := ps.List(ctx, models.ProjectActive, "")
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.Equal(t, []models.ActivityAction{models.ActionCreate, models.ActionUpdate, models.ActionAssign}, activity.actions())
}

func TestProjectService_Validation(t *testing.T) {
	cols := newTestCollections(t)
	ps := NewProjectService(cols, &recordingActivity{}, nil)
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	_, err := ps.Create(context.Background(), testActor, models.Project{Name: "x", StartDate: start, EndDate: ptrTo(start.AddDate(0, 0, -1)), Budget: -5})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "dateRange")
	assert.Contains(t, fields, "budget")
}

func TestProjectService_CreateChecksTeam(t *testing.T) {
	cols := newTestCollections(t)
	addUser(t, cols, "a", models.RoleEmployee)
	addUser(t, cols, "gone", models.RoleEmployee, func(u *models.User) { u.Status = models.StatusTerminated })
	activity := &recordingActivity{}
	ps := NewProjectService(cols, activity, nil)
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := ps.Create(ctx, testActor, models.Project{Name: "Intranet", StartDate: start, Team: []string{"a", "gone"}})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = ps.Create(ctx, testActor, models.Project{Name: "Intranet", StartDate: start, Team: []string{"a", "nobody"}})
	assert.Equal(t, http.StatusNotFound, apperror.HTTPStatus(err))

	all, err := ps.List(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, activity.actions())
}
