package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filmnight/screening-rsvp/internal/model"
	"github.com/filmnight/screening-rsvp/internal/repository"
)

// ScheduleHandler manages an event's film lineup (ADMIN only).
type ScheduleHandler struct {
	Events *repository.EventRepo
	Lineup *repository.EventFilmRepo
}

func NewScheduleHandler(e *repository.EventRepo, l *repository.EventFilmRepo) *ScheduleHandler {
	return &ScheduleHandler{Events: e, Lineup: l}
}

type addFilmReq struct {
	FilmID    uint64  `json:"film_id" validate:"required"`
	SlotOrder *int    `json:"slot_order"`
	Note      *string `json:"note"`
}

type reorderReq struct {
	SlotOrder int `json:"slot_order"`
}

// Add schedules a film into the event.  Omitting slot_order appends at the
// end.  A film already in the lineup is a 409: reorder it instead of
// adding it twice.
func (h *ScheduleHandler) Add(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	e, errResp := requireMutableEvent(c, h.Events, eventID)
	if e == nil {
		return errResp
	}
	var req addFilmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ef, err := h.Lineup.Add(ctx, eventID, req.FilmID, req.SlotOrder, req.Note)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, ef)
}

// Reorder moves a lineup entry to a new slot.
func (h *ScheduleHandler) Reorder(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	filmID, err := pathID(c, "film_id")
	if err != nil {
		return err
	}
	e, errResp := requireMutableEvent(c, h.Events, eventID)
	if e == nil {
		return errResp
	}
	var req reorderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ef, err := h.Lineup.Reorder(ctx, eventID, filmID, req.SlotOrder)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ef)
}

// Remove takes a film out of the lineup.  Remaining slots keep their
// numbers.
func (h *ScheduleHandler) Remove(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	filmID, err := pathID(c, "film_id")
	if err != nil {
		return err
	}
	e, errResp := requireMutableEvent(c, h.Events, eventID)
	if e == nil {
		return errResp
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Lineup.Remove(ctx, eventID, filmID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns the lineup in display order.
func (h *ScheduleHandler) List(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		return fail(c, err)
	}
	lineup, err := h.Lineup.ListByEvent(ctx, eventID)
	if err != nil {
		return fail(c, err)
	}
	if lineup == nil {
		lineup = []model.LineupEntry{}
	}
	return c.JSON(http.StatusOK, lineup)
}
