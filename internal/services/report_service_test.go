package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
)

func TestPeriodRange(t *testing.T) {
	now := time.Date(2024, 6, 12, 10, 30, 0, 0, time.UTC) // Wednesday
	tests := []struct {
		period    models.DashboardPeriod
		wantStart time.Time
	}{
		{models.PeriodDaily, time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)},
		{models.PeriodWeekly, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
		{models.PeriodMonthly, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			start, end, ok := periodRange(tt.period, nil, nil, now)
			require.True(t, ok)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, now, end)
		})
	}

	sunday := time.Date(2024, 6, 16, 8, 0, 0, 0, time.UTC)
	start, _, _ := periodRange(models.PeriodWeekly, nil, nil, sunday)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), start)

	_, _, ok := periodRange(models.PeriodCustom, &now, nil, now)
	assert.False(t, ok)
}

func TestReportService_GetDashboardMetrics(t *testing.T) {
	cols := newTestCollections(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	june := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	addUser(t, cols, "old", models.RoleEmployee, func(u *models.User) { u.HireDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) })
	addUser(t, cols, "new", models.RoleEmployee, func(u *models.User) { u.HireDate = june })
	addUser(t, cols, "away", models.RoleEmployee, func(u *models.User) { u.Status = models.StatusOnLeave; u.Department = "finance" })
	addUser(t, cols, "gone", models.RoleEmployee, func(u *models.User) { u.Status = models.StatusTerminated; u.Department = "finance" })

	require.NoError(t, cols.Leaves.Insert(ctx, models.LeaveRequest{ID: "l1", UserID: "old", Status: models.LeavePending, CreatedAt: june}))
	require.NoError(t, cols.Leaves.Insert(ctx, models.LeaveRequest{ID: "l2", UserID: "old", Status: models.LeaveApproved, CreatedAt: june.AddDate(0, -2, 0)}))
	require.NoError(t, cols.JobPostings.Insert(ctx, models.JobPosting{ID: "j1", Title: "x", Status: models.JobOpen}))
	require.NoError(t, cols.JobPostings.Insert(ctx, models.JobPosting{ID: "j2", Title: "y", Status: models.JobClosed}))
	require.NoError(t, cols.Projects.Insert(ctx, models.Project{ID: "p1", Name: "p", Status: models.ProjectActive}))

	rs := NewReportService(cols, nil)
	rs.now = fixedClock(now)

	m, err := rs.GetDashboardMetrics(ctx, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodMonthly, m.Period)
	assert.EqualValues(t, 3, m.TotalEmployees)
	assert.EqualValues(t, 1, m.NewHires)
	assert.EqualValues(t, 1, m.LeaveRequests)
	assert.EqualValues(t, 1, m.PendingLeaves)
	assert.EqualValues(t, 1, m.OpenPositions)
	assert.EqualValues(t, 1, m.ActiveProjects)
	require.NotNil(t, m.StartDate)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *m.StartDate)

	byStatus := map[models.UserStatus]int64{}
	for _, sc := range m.ByStatus {
		byStatus[sc.Status] = sc.Count
	}
	assert.Equal(t, map[models.UserStatus]int64{
		models.StatusActive: 2, models.StatusOnLeave: 1, models.StatusTerminated: 1,
	}, byStatus)

	byDept := map[string]int64{}
	for _, dc := range m.ByDepartment {
		byDept[dc.DepartmentID] = dc.Count
	}
	assert.EqualValues(t, 2, byDept["engineering"])
	assert.EqualValues(t, 2, byDept["finance"])
	assert.EqualValues(t, 0, byDept["hr"])

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	custom, err := rs.GetDashboardMetrics(ctx, models.PeriodCustom, &from, &now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, custom.NewHires)
	assert.EqualValues(t, 2, custom.LeaveRequests)
}

func TestReportService_Errors(t *testing.T) {
	cols := newTestCollections(t)
	rs := NewReportService(cols, nil)
	ctx := context.Background()
	now := time.Now().UTC()
	earlier := now.Add(-time.Hour)

	_, err := rs.GetDashboardMetrics(ctx, models.PeriodCustom, &now, nil)
	assert.Contains(t, fieldErrors(t, err), "dateRange")

	_, err = rs.GetDashboardMetrics(ctx, models.PeriodCustom, &now, &earlier)
	assert.Contains(t, fieldErrors(t, err), "dateRange")

	cols.Leaves = &failingCollection[models.LeaveRequest]{Collection: cols.Leaves, err: errStoreDown, failFind: true}
	_, err = rs.GetDashboardMetrics(ctx, models.PeriodDaily, nil, nil)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, apperror.KindDatabase, apperror.KindOf(err))
}
