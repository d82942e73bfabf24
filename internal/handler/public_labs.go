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
	"github.com/iliyamo/lab-reservation/internal/repository"
)

// PublicLabHandler serves the unauthenticated lab catalog: the list of
// labs, a single lab's detail with its weekly schedule, and equipment
// search. These routes sit behind the response cache.
type PublicLabHandler struct {
	Labs  *repository.LabRepo
	Slots *repository.SlotRepo
}

func NewPublicLabHandler(labs *repository.LabRepo, slots *repository.SlotRepo) *PublicLabHandler {
	return &PublicLabHandler{Labs: labs, Slots: slots}
}

type labPart struct {
	ID        uint64   `json:"id"`
	Name      string   `json:"name"`
	Capacity  uint32   `json:"capacity"`
	Equipment []string `json:"equipment"`
}

type slotPart struct {
	ID        uint64 `json:"id"`
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ListLabs returns the catalog. With ?equipment=<term> only labs whose
// equipment list contains the term are returned.
func (h *PublicLabHandler) ListLabs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		labs []model.Lab
		err  error
	)
	if term := strings.TrimSpace(c.QueryParam("equipment")); term != "" {
		labs, err = h.Labs.SearchByEquipment(ctx, term)
	} else {
		labs, err = h.Labs.List(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list labs failed"})
	}

	out := make([]labPart, 0, len(labs))
	for _, l := range labs {
		out = append(out, toLabPart(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"labs": out, "total": len(out)})
}

// GetLab returns one lab with its full weekly slot schedule.
func (h *PublicLabHandler) GetLab(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lab, err := h.Labs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLabNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lab failed"})
	}
	slots, err := h.Slots.ListByLab(ctx, lab.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load slots failed"})
	}

	sp := make([]slotPart, 0, len(slots))
	for _, s := range slots {
		sp = append(sp, slotPart{ID: s.ID, DayOfWeek: s.DayOfWeek, StartTime: s.StartTime, EndTime: s.EndTime})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"lab":                toLabPart(*lab),
		"availability_slots": sp,
	})
}

func toLabPart(l model.Lab) labPart {
	eq := l.Equipment
	if eq == nil {
		eq = []string{}
	}
	return labPart{ID: l.ID, Name: l.Name, Capacity: l.Capacity, Equipment: eq}
}
