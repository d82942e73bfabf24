package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-reservation/internal/occupancy"
)

// AvailabilityHandler serves the role-shaped occupancy views. Every request
// recomputes the view from current bookings; nothing here is cached, so a
// booking approved a second ago is reflected immediately.
type AvailabilityHandler struct {
	Resolver *occupancy.Resolver
}

func NewAvailabilityHandler(r *occupancy.Resolver) *AvailabilityHandler {
	return &AvailabilityHandler{Resolver: r}
}

// Available returns the availability view for the authenticated user's
// role. The ?date=YYYY-MM-DD query parameter defaults to today (UTC).
// Students cannot ask for past dates; there is nothing left to book there.
func (h *AvailabilityHandler) Available(c echo.Context) error {
	roleStr, _ := c.Get("role").(string)
	role, err := occupancy.ParseRole(roleStr)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unknown role"})
	}
	collegeID, _ := c.Get("user_id").(string)

	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	day, err := occupancy.ParseDate(date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	if role == occupancy.RoleStudent {
		today, _ := occupancy.ParseDate(time.Now().UTC().Format("2006-01-02"))
		if day.Before(today) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot view availability for past dates"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Resolver.ViewForRole(ctx, role, date, collegeID)
	if err != nil {
		if errors.Is(err, occupancy.ErrUnknownRole) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "unknown role"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "compute availability failed"})
	}
	return c.JSON(http.StatusOK, view)
}

// AssignedLabs returns the lab-assistant view of the labs assigned to the
// caller. Accepts ?date=; an empty date means today.
func (h *AvailabilityHandler) AssignedLabs(c echo.Context) error {
	collegeID, _ := c.Get("user_id").(string)

	date := c.QueryParam("date")
	if date != "" {
		if _, err := occupancy.ParseDate(date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Resolver.AssistantView(ctx, collegeID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "compute availability failed"})
	}
	return c.JSON(http.StatusOK, view)
}
