package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-reservation/internal/model"
	"github.com/iliyamo/lab-reservation/internal/occupancy"
	"github.com/iliyamo/lab-reservation/internal/repository"
)

// AdminLabHandler covers lab administration: CRUD over labs and their
// weekly schedules, per-date closures, assistant assignments and the user
// directory. All routes are admin-only.
type AdminLabHandler struct {
	Labs        *repository.LabRepo
	Slots       *repository.SlotRepo
	Disabled    *repository.DisabledLabRepo
	Assignments *repository.AssignmentRepo
	Users       *repository.UserRepo
}

func NewAdminLabHandler(labs *repository.LabRepo, slots *repository.SlotRepo,
	disabled *repository.DisabledLabRepo, assignments *repository.AssignmentRepo,
	users *repository.UserRepo) *AdminLabHandler {
	return &AdminLabHandler{Labs: labs, Slots: slots, Disabled: disabled, Assignments: assignments, Users: users}
}

type slotReq struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type labReq struct {
	Name      string    `json:"name"`
	Capacity  uint32    `json:"capacity"`
	Equipment []string  `json:"equipment"`
	Slots     []slotReq `json:"availability_slots"`
}

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// validateSlots checks weekday names and HH:MM ranges before anything is
// written; a single bad slot rejects the whole request.
func validateSlots(slots []slotReq) error {
	for _, s := range slots {
		if !weekdays[s.DayOfWeek] {
			return errors.New("invalid day_of_week: " + s.DayOfWeek)
		}
		if err := occupancy.ValidateClockRange(s.StartTime, s.EndTime); err != nil {
			return errors.New("invalid slot time range " + s.StartTime + "-" + s.EndTime)
		}
	}
	return nil
}

// CreateLab creates a lab together with its weekly availability slots.
func (h *AdminLabHandler) CreateLab(c echo.Context) error {
	var req labReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	if err := validateSlots(req.Slots); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lab := model.Lab{Name: req.Name, Capacity: req.Capacity, Equipment: req.Equipment}
	if err := h.Labs.Create(ctx, &lab); err != nil {
		if errors.Is(err, repository.ErrLabNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "lab name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create lab failed"})
	}

	slots := make([]model.AvailabilitySlot, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, model.AvailabilitySlot{
			LabID: lab.ID, DayOfWeek: s.DayOfWeek, StartTime: s.StartTime, EndTime: s.EndTime,
		})
	}
	if err := h.Slots.CreateBulk(ctx, slots); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slots failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"lab_id": lab.ID, "name": lab.Name, "slots_created": len(slots),
	})
}

// UpdateLab rewrites a lab's name, capacity and equipment.
func (h *AdminLabHandler) UpdateLab(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}
	var req labReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and positive capacity required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lab := model.Lab{ID: id, Name: req.Name, Capacity: req.Capacity, Equipment: req.Equipment}
	if err := h.Labs.Update(ctx, &lab); err != nil {
		switch {
		case errors.Is(err, repository.ErrLabNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
		case errors.Is(err, repository.ErrLabNameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "lab name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update lab failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lab_id": id, "updated": true})
}

// DeleteLab removes a lab. Labs still referenced by bookings cannot be
// deleted.
func (h *AdminLabHandler) DeleteLab(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Slots.DeleteByLab(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete slots failed"})
	}
	if err := h.Labs.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrLabNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "lab has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete lab failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ReplaceSlots swaps a lab's whole weekly schedule for a new one.
func (h *AdminLabHandler) ReplaceSlots(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}
	var req struct {
		Slots []slotReq `json:"availability_slots"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validateSlots(req.Slots); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Labs.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrLabNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lab failed"})
	}
	if err := h.Slots.DeleteByLab(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "replace slots failed"})
	}
	slots := make([]model.AvailabilitySlot, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, model.AvailabilitySlot{
			LabID: id, DayOfWeek: s.DayOfWeek, StartTime: s.StartTime, EndTime: s.EndTime,
		})
	}
	if err := h.Slots.CreateBulk(ctx, slots); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "replace slots failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lab_id": id, "slots": len(slots)})
}

type disableReq struct {
	Date   string  `json:"date"`
	Reason *string `json:"reason"`
}

// DisableLab closes a lab for one date, hiding it from students.
func (h *AdminLabHandler) DisableLab(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}
	var req disableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if _, err := occupancy.ParseDate(req.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Labs.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrLabNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lab failed"})
	}
	if err := h.Disabled.Disable(ctx, id, req.Date, req.Reason); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "disable lab failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lab_id": id, "date": req.Date, "disabled": true})
}

// EnableLab reopens a lab on a date.
func (h *AdminLabHandler) EnableLab(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}
	var req disableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if _, err := occupancy.ParseDate(req.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Disabled.Enable(ctx, id, req.Date); err != nil {
		if errors.Is(err, repository.ErrNotDisabled) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not disabled on this date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "enable lab failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lab_id": id, "date": req.Date, "disabled": false})
}

type assignReq struct {
	AssistantCollegeID string `json:"assistant_college_id"`
}

// AssignAssistant links a lab assistant to a lab so it appears in their
// assigned view. The target user must exist and hold the lab_assistant role.
func (h *AdminLabHandler) AssignAssistant(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}
	var req assignReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.AssistantCollegeID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "assistant_college_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Labs.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrLabNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lab failed"})
	}
	u, err := h.Users.GetByCollegeID(ctx, req.AssistantCollegeID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if u.Role != occupancy.RoleLabAssistant.String() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user is not a lab assistant"})
	}

	a, err := h.Assignments.Assign(ctx, id, u.CollegeID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "assistant already assigned to this lab"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"assignment_id": a.ID, "lab_id": a.LabID, "assistant_college_id": a.AssistantCollegeID,
	})
}

// UnassignAssistant removes the assistant's link to the lab.
func (h *AdminLabHandler) UnassignAssistant(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}
	var req assignReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.AssistantCollegeID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "assistant_college_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Assignments.Unassign(ctx, id, req.AssistantCollegeID); err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "assignment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unassign failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUsers returns the user directory, optionally filtered by ?role=.
func (h *AdminLabHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		users []model.User
		err   error
	)
	if role := strings.TrimSpace(c.QueryParam("role")); role != "" {
		if _, perr := occupancy.ParseRole(role); perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
		}
		users, err = h.Users.ListByRole(ctx, role)
	} else {
		users, err = h.Users.List(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}

	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, userPart{CollegeID: u.CollegeID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out, "total": len(out)})
}
