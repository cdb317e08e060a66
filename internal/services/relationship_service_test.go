package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
)

func strPtr(s string) *string { return &s }

func seedOwnedRecords(t *testing.T, cols *database.Collections, userID string, n int) {
	t.Helper()
	ctx := context.Background()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		suffix := fmt.Sprintf("%s-%d", userID, i)
		require.NoError(t, cols.Attendance.Insert(ctx, models.Attendance{ID: "att-" + suffix, UserID: userID, Date: day.AddDate(0, 0, i), Status: models.AttendancePresent}))
		require.NoError(t, cols.Leaves.Insert(ctx, models.LeaveRequest{ID: "lv-" + suffix, UserID: userID, Type: "annual", StartDate: day, EndDate: day, Days: 1, Status: models.LeavePending}))
		require.NoError(t, cols.Payroll.Insert(ctx, models.PayrollRecord{ID: "pay-" + suffix, UserID: userID, Period: fmt.Sprintf("2024-%02d", i+1), Status: models.PayrollDraft}))
		require.NoError(t, cols.Documents.Insert(ctx, models.Document{ID: "doc-" + suffix, UserID: userID, Title: "Contract", Category: "general"}))
		require.NoError(t, cols.Performance.Insert(ctx, models.PerformanceReview{ID: "perf-" + suffix, UserID: userID, ReviewerID: "boss", Period: "2024-Q1", Rating: 4, Status: models.ReviewDraft}))
	}
}

func TestRelationshipService_GetEmployeeDetails(t *testing.T) {
	cols := newTestCollections(t)
	addUser(t, cols, "e1", models.RoleEmployee)
	addUser(t, cols, "e2", models.RoleEmployee)
	seedOwnedRecords(t, cols, "e1", 3)
	seedOwnedRecords(t, cols, "e2", 2)
	rs := NewRelationshipService(cols, &recordingActivity{}, nil)

	details, err := rs.GetEmployeeDetails(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", details.ID)
	assert.Len(t, details.Attendance, 3)
	assert.Len(t, details.Leaves, 3)
	assert.Len(t, details.Payroll, 3)
	assert.Len(t, details.Documents, 3)
	assert.Len(t, details.Performance, 3)
	for _, a := range details.Attendance {
		assert.Equal(t, "e1", a.UserID)
	}
	assert.True(t, details.Attendance[0].Date.After(details.Attendance[2].Date), "attendance is newest first")

	empty, err := rs.GetEmployeeDetails(context.Background(), "e2")
	require.NoError(t, err)
	assert.Len(t, empty.Payroll, 2)
}

func TestRelationshipService_GetEmployeeDetailsErrors(t *testing.T) {
	cols := newTestCollections(t)
	addUser(t, cols, "e1", models.RoleEmployee)
	rs := NewRelationshipService(cols, &recordingActivity{}, nil)

	_, err := rs.GetEmployeeDetails(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.HTTPStatus(err))

	cols.Payroll = &failingCollection[models.PayrollRecord]{Collection: cols.Payroll, err: errStoreDown, failFind: true}
	details, err := rs.GetEmployeeDetails(context.Background(), "e1")
	require.Error(t, err)
	assert.Nil(t, details)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, apperror.KindDatabase, apperror.KindOf(err))
}

func TestRelationshipService_GetProjectDetails(t *testing.T) {
	cols := newTestCollections(t)
	ctx := context.Background()
	addUser(t, cols, "u1", models.RoleEmployee)
	addUser(t, cols, "u3", models.RoleEmployee)
	require.NoError(t, cols.Projects.Insert(ctx, models.Project{
		ID:     "p1",
		Name:   "Payroll revamp",
		Team:   []string{"u3", "ghost", "u1"},
		Status: models.ProjectActive,
	}))
	rs := NewRelationshipService(cols, &recordingActivity{}, nil)

	details, err := rs.GetProjectDetails(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, details.TeamMembers, 2)
	assert.Equal(t, "u3", details.TeamMembers[0].ID)
	assert.Equal(t, "u1", details.TeamMembers[1].ID)
	assert.Equal(t, []string{"u3", "ghost", "u1"}, details.Team)

	_, err = rs.GetProjectDetails(ctx, "nope")
	assert.Equal(t, http.StatusNotFound, apperror.HTTPStatus(err))

	cols.Users = &failingCollection[models.User]{Collection: cols.Users, err: errStoreDown, failGet: true}
	_, err = rs.GetProjectDetails(ctx, "p1")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestRelationshipService_GetDepartmentDetails(t *testing.T) {
	cols := newTestCollections(t)
	addUser(t, cols, "a", models.RoleEmployee)
	addUser(t, cols, "b", models.RoleEmployee, func(u *models.User) { u.Department = "finance" })
	rs := NewRelationshipService(cols, &recordingActivity{}, nil)

	details, err := rs.GetDepartmentDetails(context.Background(), "finance")
	require.NoError(t, err)
	assert.Equal(t, "Finance", details.Name)
	require.Len(t, details.Employees, 1)
	assert.Equal(t, "b", details.Employees[0].ID)

	_, err = rs.GetDepartmentDetails(context.Background(), "legal")
	assert.Equal(t, http.StatusNotFound, apperror.HTTPStatus(err))
}

// seedTermination creates nProjects projects and nChecklists checklists that
// reference victim, plus one of each that does not.
func seedTermination(t *testing.T, cols *database.Collections, victim string, nProjects, nChecklists int) {
	t.Helper()
	ctx := context.Background()
	addUser(t, cols, victim, models.RoleEmployee)
	addUser(t, cols, "peer", models.RoleEmployee)
	for i := 0; i < nProjects; i++ {
		require.NoError(t, cols.Projects.Insert(ctx, models.Project{
			ID:     fmt.Sprintf("p%d", i),
			Name:   "Project",
			Team:   []string{"peer", victim},
			Status: models.ProjectActive,
		}))
	}
	require.NoError(t, cols.Projects.Insert(ctx, models.Project{ID: "p-other", Name: "Other", Team: []string{"peer"}, Status: models.ProjectActive}))
	for i := 0; i < nChecklists; i++ {
		require.NoError(t, cols.Checklists.Insert(ctx, models.Checklist{
			ID:         fmt.Sprintf("c%d", i),
			Title:      "Onboarding",
			Items:      []models.ChecklistItem{{Title: "Laptop", Done: true}, {Title: "Badge"}},
			AssignedTo: strPtr(victim),
			Status:     models.ChecklistInProgress,
		}))
	}
	require.NoError(t, cols.Checklists.Insert(ctx, models.Checklist{
		ID:         "c-other",
		Title:      "Onboarding",
		AssignedTo: strPtr("peer"),
		Status:     models.ChecklistInProgress,
	}))
}

func TestRelationshipService_TerminationCascade(t *testing.T) {
	cols := newTestCollections(t)
	ctx := context.Background()
	seedTermination(t, cols, "leaver", 3, 2)
	activity := &recordingActivity{}
	rs := NewRelationshipService(cols, activity, zap.NewNop())

	require.NoError(t, rs.UpdateEmployeeStatus(ctx, testActor, "leaver", models.StatusTerminated))

	user, err := cols.Users.Get(ctx, "leaver")
	require.NoError(t, err)
	assert.Equal(t, models.StatusTerminated, user.Status)

	for i := 0; i < 3; i++ {
		p, err := cols.Projects.Get(ctx, fmt.Sprintf("p%d", i))
		require.NoError(t, err)
		assert.Equal(t, []string{"peer"}, p.Team)
	}
	other, err := cols.Projects.Get(ctx, "p-other")
	require.NoError(t, err)
	assert.Equal(t, []string{"peer"}, other.Team)

	for i := 0; i < 2; i++ {
		c, err := cols.Checklists.Get(ctx, fmt.Sprintf("c%d", i))
		require.NoError(t, err)
		assert.Nil(t, c.AssignedTo)
		assert.Equal(t, models.ChecklistPending, c.Status)
		assert.Equal(t, []models.ChecklistItem{{Title: "Laptop"}, {Title: "Badge"}}, c.Items)
		assert.Nil(t, c.CompletedAt)
	}
	kept, err := cols.Checklists.Get(ctx, "c-other")
	require.NoError(t, err)
	require.NotNil(t, kept.AssignedTo)
	assert.Equal(t, "peer", *kept.AssignedTo)
	assert.Equal(t, models.ChecklistInProgress, kept.Status)

	entries := activity.all()
	require.Len(t, entries, 1)
	assert.Equal(t, testActor.UserID, entries[0].UserID)
	assert.Equal(t, models.ActivityEmployee, entries[0].Type)
	assert.Equal(t, "leaver", entries[0].RelatedID)
	assert.Equal(t, "active", entries[0].Metadata["previousStatus"])
}

func TestRelationshipService_NonTerminalStatusSkipsCleanup(t *testing.T) {
	cols := newTestCollections(t)
	ctx := context.Background()
	seedTermination(t, cols, "resting", 1, 1)
	rs := NewRelationshipService(cols, &recordingActivity{}, nil)

	require.NoError(t, rs.UpdateEmployeeStatus(ctx, testActor, "resting", models.StatusOnLeave))

	p, err := cols.Projects.Get(ctx, "p0")
	require.NoError(t, err)
	assert.Contains(t, p.Team, "resting")
	c, err := cols.Checklists.Get(ctx, "c0")
	require.NoError(t, err)
	require.NotNil(t, c.AssignedTo)
}

func TestRelationshipService_PartialCascade(t *testing.T) {
	cols := newTestCollections(t)
	ctx := context.Background()
	seedTermination(t, cols, "leaver", 2, 3)

	flaky := &failingCollection[models.Checklist]{Collection: cols.Checklists, err: errStoreDown, failUpdate: true, failUpdateAfter: 1}
	cols.Checklists = flaky
	rs := NewRelationshipService(cols, &recordingActivity{}, nil)

	err := rs.UpdateEmployeeStatus(ctx, testActor, "leaver", models.StatusTerminated)
	require.Error(t, err)

	var cerr *CascadeError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "leaver", cerr.UserID)
	assert.Equal(t, 3, cerr.Completed, "both projects and one checklist applied")
	assert.Equal(t, 5, cerr.Total)
	assert.ErrorIs(t, err, errStoreDown)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 3, appErr.Details["completed"])
	assert.Equal(t, 5, appErr.Details["total"])

	user, err := cols.Users.Get(ctx, "leaver")
	require.NoError(t, err)
	assert.Equal(t, models.StatusTerminated, user.Status, "status change is not rolled back")

	// retrying finishes the remaining cleanup
	flaky.failUpdate = false
	require.NoError(t, rs.UpdateEmployeeStatus(ctx, testActor, "leaver", models.StatusTerminated))
	remaining, err := cols.Checklists.Find(ctx, store.Where("assignedTo", "leaver"))
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestRelationshipService_CascadeMissingDocumentIsServerError(t *testing.T) {
	cols := newTestCollections(t)
	ctx := context.Background()
	seedTermination(t, cols, "leaver", 1, 0)

	cols.Projects = &failingCollection[models.Project]{Collection: cols.Projects, err: store.ErrNotFound, failUpdate: true}
	rs := NewRelationshipService(cols, &recordingActivity{}, nil)

	err := rs.UpdateEmployeeStatus(ctx, testActor, "leaver", models.StatusTerminated)
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, http.StatusInternalServerError, apperror.HTTPStatus(err))
}

func TestRelationshipService_UpdateEmployeeStatusValidation(t *testing.T) {
	cols := newTestCollections(t)
	rs := NewRelationshipService(cols, &recordingActivity{}, nil)

	err := rs.UpdateEmployeeStatus(context.Background(), testActor, "x", "retired")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	err = rs.UpdateEmployeeStatus(context.Background(), testActor, "x", models.StatusActive)
	assert.Equal(t, http.StatusNotFound, apperror.HTTPStatus(err))
}
