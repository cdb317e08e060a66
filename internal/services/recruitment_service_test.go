package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
)

func TestRecruitmentService_Postings(t *testing.T) {
	cols := newTestCollections(t)
	activity := &recordingActivity{}
	rs := NewRecruitmentService(cols, activity, nil)
	ctx := context.Background()

	posting := models.JobPosting{
		Title:          "Payroll Specialist",
		Department:     "finance",
		Description:    "Runs monthly payroll",
		EmploymentType: "full_time",
		SalaryMin:      3000,
		SalaryMax:      4000,
	}
	j, err := rs.CreatePosting(ctx, testActor, posting)
	require.NoError(t, err)
	assert.Equal(t, models.JobOpen, j.Status)
	assert.Equal(t, testActor.UserID, j.PostedBy)

	posting.SalaryMax = 2000
	_, err = rs.UpdatePosting(ctx, testActor, j.ID, posting)
	assert.Contains(t, fieldErrors(t, err), "salaryRange")

	posting.SalaryMax = 4500
	updated, err := rs.UpdatePosting(ctx, testActor, j.ID, posting)
	require.NoError(t, err)
	assert.Equal(t, 4500.0, updated.SalaryMax)
	assert.Equal(t, models.JobOpen, updated.Status)

	closed, err := rs.ClosePosting(ctx, testActor, j.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobClosed, closed.Status)
	_, err = rs.ClosePosting(ctx, testActor, j.ID)
	require.NoError(t, err)

	open, err := rs.ListPostings(ctx, models.JobOpen, "")
	require.NoError(t, err)
	assert.Empty(t, open)
	finance, err := rs.ListPostings(ctx, "", "finance")
	require.NoError(t, err)
	assert.Len(t, finance, 1)

	assert.Equal(t, []models.ActivityAction{models.ActionCreate, models.ActionUpdate, models.ActionComplete}, activity.actions())
}
