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
	"github.com/iliyamo/lab-reservation/internal/queue"
	"github.com/iliyamo/lab-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/lab-reservation/internal/service"
)

// BookingHandler covers the booking lifecycle: students request a slot,
// admins approve, reject or override. Approval publishes a broker event
// for the audit log consumer.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Labs     *repository.LabRepo
	Slots    *repository.SlotRepo
	Disabled *repository.DisabledLabRepo
	Users    *repository.UserRepo
}

func NewBookingHandler(b *repository.BookingRepo, l *repository.LabRepo,
	s *repository.SlotRepo, d *repository.DisabledLabRepo, u *repository.UserRepo) *BookingHandler {
	return &BookingHandler{Bookings: b, Labs: l, Slots: s, Disabled: d, Users: u}
}

type bookingReq struct {
	LabName     string `json:"lab_name"`
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type bookingPart struct {
	ID          uint64  `json:"id"`
	CollegeID   string  `json:"college_id"`
	LabName     string  `json:"lab_name"`
	BookingDate string  `json:"booking_date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

func toBookingPart(b model.Booking) bookingPart {
	p := bookingPart{
		ID:          b.ID,
		CollegeID:   b.CollegeID,
		LabName:     b.LabName,
		BookingDate: b.BookingDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if b.UpdatedAt != nil {
		s := b.UpdatedAt.UTC().Format(time.RFC3339)
		p.UpdatedAt = &s
	}
	return p
}

// reqProblem is a validation outcome that maps directly onto an HTTP
// error response; a nil *reqProblem means the request passed.
type reqProblem struct {
	status int
	msg    string
}

func (p *reqProblem) respond(c echo.Context) error {
	return c.JSON(p.status, echo.Map{"error": p.msg})
}

// validateBookingReq runs the request through the shared date/time rules
// and checks the lab state.
func (h *BookingHandler) validateBookingReq(ctx context.Context, req *bookingReq, slotAligned bool) *reqProblem {
	req.LabName = strings.TrimSpace(req.LabName)
	if req.LabName == "" {
		return &reqProblem{http.StatusBadRequest, "lab_name required"}
	}
	day, err := occupancy.ParseDate(req.BookingDate)
	if err != nil {
		return &reqProblem{http.StatusBadRequest, "invalid booking_date, expected YYYY-MM-DD"}
	}
	today, _ := occupancy.ParseDate(time.Now().UTC().Format("2006-01-02"))
	if day.Before(today) {
		return &reqProblem{http.StatusBadRequest, "cannot book past dates"}
	}
	if err := occupancy.ValidateClockRange(req.StartTime, req.EndTime); err != nil {
		return &reqProblem{http.StatusBadRequest, "invalid time range"}
	}

	lab, err := h.Labs.GetByName(ctx, req.LabName)
	if err != nil {
		if errors.Is(err, repository.ErrLabNotFound) {
			return &reqProblem{http.StatusNotFound, "lab not found"}
		}
		return &reqProblem{http.StatusInternalServerError, "load lab failed"}
	}
	off, err := h.Disabled.IsDisabled(ctx, lab.ID, req.BookingDate)
	if err != nil {
		return &reqProblem{http.StatusInternalServerError, "load lab failed"}
	}
	if off {
		return &reqProblem{http.StatusConflict, "lab is disabled on this date"}
	}

	if slotAligned {
		// Students book published slots, not arbitrary ranges. The
		// request must match one of the lab's slots for that weekday.
		weekday, _ := occupancy.DayOfWeek(req.BookingDate)
		slots, err := h.Slots.ListByLab(ctx, lab.ID)
		if err != nil {
			return &reqProblem{http.StatusInternalServerError, "load slots failed"}
		}
		match := false
		for _, s := range slots {
			if s.DayOfWeek == weekday && s.StartTime == req.StartTime && s.EndTime == req.EndTime {
				match = true
				break
			}
		}
		if !match {
			return &reqProblem{http.StatusBadRequest, "time range does not match an availability slot"}
		}
	}
	return nil
}

// Create books a lab for the authenticated user. Students must pick a
// published slot; the range must be free of other active bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	collegeID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)

	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slotAligned := role == occupancy.RoleStudent.String()
	if p := h.validateBookingReq(ctx, &req, slotAligned); p != nil {
		return p.respond(c)
	}

	taken, err := h.Bookings.HasOverlap(ctx, req.LabName, req.BookingDate, req.StartTime, req.EndTime, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check availability failed"})
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "time range already booked"})
	}

	b := model.Booking{
		CollegeID:   collegeID,
		LabName:     req.LabName,
		BookingDate: req.BookingDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      model.BookingPending,
	}
	if err := h.Bookings.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	return c.JSON(http.StatusCreated, toBookingPart(b))
}

// ListMine returns the caller's bookings, newest first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	collegeID, _ := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListByUser(ctx, collegeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	out := make([]bookingPart, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingPart(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out, "total": len(out)})
}

// Modify rewrites the caller's booking to a new slot and resets it to
// pending for re-approval.
func (h *BookingHandler) Modify(c echo.Context) error {
	collegeID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByIDForUser(ctx, id, collegeID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if req.LabName == "" {
		req.LabName = b.LabName
	}
	if req.LabName != b.LabName {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot move booking to another lab"})
	}

	slotAligned := role == occupancy.RoleStudent.String()
	if p := h.validateBookingReq(ctx, &req, slotAligned); p != nil {
		return p.respond(c)
	}

	taken, err := h.Bookings.HasOverlap(ctx, req.LabName, req.BookingDate, req.StartTime, req.EndTime, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check availability failed"})
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "time range already booked"})
	}

	if err := h.Bookings.UpdateTimes(ctx, id, req.BookingDate, req.StartTime, req.EndTime); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booking failed"})
	}
	updated, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusOK, toBookingPart(*updated))
}

// Cancel deletes a booking. Owners cancel their own; admins may cancel any.
func (h *BookingHandler) Cancel(c echo.Context) error {
	collegeID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if b.CollegeID != collegeID && role != occupancy.RoleAdmin.String() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Bookings.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel booking failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAll returns every booking for admins, optionally filtered by
// ?status=pending|approved|rejected.
func (h *BookingHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		bookings []model.Booking
		err      error
	)
	switch status := strings.TrimSpace(c.QueryParam("status")); status {
	case "":
		bookings, err = h.Bookings.ListAll(ctx)
	case model.BookingPending, model.BookingApproved, model.BookingRejected:
		bookings, err = h.Bookings.ListByStatus(ctx, status)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	out := make([]bookingPart, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingPart(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out, "total": len(out)})
}

// Approve moves a pending booking to approved and publishes the approval
// event. Approving checks the range is still free: another booking may
// have been approved since this one was requested.
func (h *BookingHandler) Approve(c echo.Context) error {
	adminID, _ := c.Get("user_id").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if b.Status == model.BookingApproved {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already approved"})
	}

	taken, err := h.Bookings.HasApprovedOverlap(ctx, b.LabName, b.BookingDate, b.StartTime, b.EndTime, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check availability failed"})
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "time range already booked"})
	}

	if err := h.Bookings.UpdateStatus(ctx, id, model.BookingApproved); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}

	h.publishApproved(ctx, *b, adminID)
	return c.JSON(http.StatusOK, echo.Map{"booking_id": id, "status": model.BookingApproved})
}

// Reject moves a booking to rejected.
func (h *BookingHandler) Reject(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.UpdateStatus(ctx, id, model.BookingRejected); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": id, "status": model.BookingRejected})
}

// Override lets an admin rewrite a booking to arbitrary times (no slot
// alignment) and approves it in one step.
func (h *BookingHandler) Override(c echo.Context) error {
	adminID, _ := c.Get("user_id").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if req.LabName == "" {
		req.LabName = b.LabName
	}
	if p := h.validateBookingReq(ctx, &req, false); p != nil {
		return p.respond(c)
	}

	taken, err := h.Bookings.HasApprovedOverlap(ctx, req.LabName, req.BookingDate, req.StartTime, req.EndTime, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check availability failed"})
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "time range already booked"})
	}

	if err := h.Bookings.UpdateTimes(ctx, id, req.BookingDate, req.StartTime, req.EndTime); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "override failed"})
	}
	if err := h.Bookings.UpdateStatus(ctx, id, model.BookingApproved); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "override failed"})
	}

	updated, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	h.publishApproved(ctx, *updated, adminID)
	return c.JSON(http.StatusOK, toBookingPart(*updated))
}

// publishApproved emits the approval event in the background. Broker
// failures are logged by the publisher; approval itself never depends on
// the broker being up.
func (h *BookingHandler) publishApproved(ctx context.Context, b model.Booking, adminID string) {
	ev := queue.BookingApprovedEvent{
		BookingID:   b.ID,
		CollegeID:   b.CollegeID,
		LabName:     b.LabName,
		BookingDate: b.BookingDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		ApprovedBy:  adminID,
		ApprovedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if u, err := h.Users.GetByCollegeID(ctx, b.CollegeID); err == nil {
		ev.RequesterName = u.Name
		ev.RequesterEmail = u.Email
	}
	go func() {
		_ = queue_publisher.PublishBookingApproved(context.Background(), ev)
	}()
}
