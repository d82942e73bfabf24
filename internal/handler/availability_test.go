package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lab-reservation/internal/model"
	"github.com/iliyamo/lab-reservation/internal/occupancy"
)

// stubSource serves one lab with one Friday slot and no bookings.
type stubSource struct{}

func (stubSource) LabsWithSlots(_ context.Context, dayOfWeek string) ([]model.Lab, map[uint64][]model.AvailabilitySlot, error) {
	labs := []model.Lab{{ID: 1, Name: "Physics Lab", Capacity: 10}}
	byLab := map[uint64][]model.AvailabilitySlot{}
	if dayOfWeek == "Friday" {
		byLab[1] = []model.AvailabilitySlot{
			{ID: 1, LabID: 1, DayOfWeek: "Friday", StartTime: "09:00", EndTime: "11:00"},
		}
	}
	return labs, byLab, nil
}

func (stubSource) BookingsByDate(context.Context, string) ([]model.BookingDetail, error) {
	return nil, nil
}

func (stubSource) DisabledLabs(context.Context, string) (map[uint64]*string, error) {
	return map[uint64]*string{}, nil
}

func (stubSource) AssignedLabIDs(context.Context, string) ([]uint64, error) {
	return []uint64{1}, nil
}

func availabilityCtx(t *testing.T, role, date string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	target := "/v1/labs/available"
	if date != "" {
		target += "?date=" + date
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "S001")
	c.Set("role", role)
	return c, rec
}

func futureFriday() string {
	d := time.Now().UTC().AddDate(0, 0, 1)
	for d.Weekday() != time.Friday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func TestAvailableStudentView(t *testing.T) {
	h := NewAvailabilityHandler(occupancy.NewResolver(stubSource{}))
	c, rec := availabilityCtx(t, "student", futureFriday())

	require.NoError(t, h.Available(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view occupancy.StudentView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Labs, 1)
	assert.Equal(t, []string{"09:00-11:00"}, view.Labs[0].AvailableSlots)
}

func TestAvailableStudentRejectsPastDate(t *testing.T) {
	h := NewAvailabilityHandler(occupancy.NewResolver(stubSource{}))
	c, rec := availabilityCtx(t, "student", "2020-01-03")

	require.NoError(t, h.Available(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailableAdminMayViewPastDates(t *testing.T) {
	h := NewAvailabilityHandler(occupancy.NewResolver(stubSource{}))
	c, rec := availabilityCtx(t, "admin", "2020-01-03")

	require.NoError(t, h.Available(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view occupancy.AdminView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "Friday", view.DayOfWeek)
	assert.Equal(t, 1, view.TotalLabs)
}

func TestAvailableBadDate(t *testing.T) {
	h := NewAvailabilityHandler(occupancy.NewResolver(stubSource{}))
	c, rec := availabilityCtx(t, "admin", "03-01-2026")

	require.NoError(t, h.Available(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailableUnknownRole(t *testing.T) {
	h := NewAvailabilityHandler(occupancy.NewResolver(stubSource{}))
	c, rec := availabilityCtx(t, "superuser", futureFriday())

	require.NoError(t, h.Available(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAssignedLabsDefaultsToToday(t *testing.T) {
	h := NewAvailabilityHandler(occupancy.NewResolver(stubSource{}))
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/assistant/labs/assigned", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "A100")
	c.Set("role", "lab_assistant")

	require.NoError(t, h.AssignedLabs(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view occupancy.AssistantView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), view.Date)
	assert.Equal(t, 1, view.TotalAssigned)
}
