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

func TestAttendanceService_CheckInAndOut(t *testing.T) {
	cols := newTestCollections(t)
	addUser(t, cols, "early", models.RoleEmployee)
	addUser(t, cols, "late", models.RoleEmployee)
	as := NewAttendanceService(cols, nil)
	ctx := context.Background()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	rec, err := as.CheckIn(ctx, "early", day.Add(8*time.Hour+55*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, rec.Status)
	assert.True(t, day.Equal(rec.Date))

	_, err = as.CheckIn(ctx, "early", day.Add(11*time.Hour))
	assert.Equal(t, http.StatusConflict, apperror.HTTPStatus(err))

	lateRec, err := as.CheckIn(ctx, "late", day.Add(9*time.Hour+30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLate, lateRec.Status)

	out, err := as.CheckOut(ctx, "late", day.Add(12*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceHalfDay, out.Status)
	require.NotNil(t, out.CheckOut)

	_, err = as.CheckOut(ctx, "late", day.Add(13*time.Hour))
	assert.Equal(t, http.StatusConflict, apperror.HTTPStatus(err))

	full, err := as.CheckOut(ctx, "early", day.Add(17*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, full.Status)

	// next day is a fresh record
	_, err = as.CheckIn(ctx, "early", day.AddDate(0, 0, 1).Add(8*time.Hour))
	require.NoError(t, err)
}

func TestAttendanceService_Refusals(t *testing.T) {
	cols := newTestCollections(t)
	addUser(t, cols, "gone", models.RoleEmployee, func(u *models.User) { u.Status = models.StatusTerminated })
	addUser(t, cols, "u1", models.RoleEmployee)
	as := NewAttendanceService(cols, nil)
	ctx := context.Background()
	at := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	_, err := as.CheckIn(ctx, "gone", at)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = as.CheckIn(ctx, "nobody", at)
	assert.Equal(t, http.StatusNotFound, apperror.HTTPStatus(err))

	_, err = as.CheckOut(ctx, "u1", at)
	assert.Equal(t, http.StatusNotFound, apperror.HTTPStatus(err))

	_, err = as.CheckIn(ctx, "u1", at)
	require.NoError(t, err)
	_, err = as.CheckOut(ctx, "u1", at.Add(-time.Minute))
	assert.Contains(t, fieldErrors(t, err), "checkOut")
}

func TestAttendanceService_List(t *testing.T) {
	cols := newTestCollections(t)
	addUser(t, cols, "u1", models.RoleEmployee)
	as := NewAttendanceService(cols, nil)
	ctx := context.Background()
	first := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := as.CheckIn(ctx, "u1", first.AddDate(0, 0, i))
		require.NoError(t, err)
	}

	all, err := as.List(ctx, "u1", nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	from := first.AddDate(0, 0, 1)
	to := first.AddDate(0, 0, 3)
	window, err := as.List(ctx, "u1", &from, &to)
	require.NoError(t, err)
	require.Len(t, window, 3)
	assert.True(t, dayOf(to).Equal(window[0].Date), "newest first")

	open, err := as.List(ctx, "u1", &to, nil)
	require.NoError(t, err)
	assert.Len(t, open, 2)
}
