package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filmnight/screening-rsvp/internal/middleware"
	"github.com/filmnight/screening-rsvp/internal/model"
	"github.com/filmnight/screening-rsvp/internal/repository"
)

// EventHandler exposes event registry management (ADMIN only).
type EventHandler struct {
	Events *repository.EventRepo
}

func NewEventHandler(e *repository.EventRepo) *EventHandler { return &EventHandler{Events: e} }

type createEventReq struct {
	Slug        string     `json:"slug" validate:"required,max=128"`
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description"`
	ScheduledAt time.Time  `json:"scheduled_at" validate:"required"`
	DoorTime    *time.Time `json:"door_time"`
	Location    *string    `json:"location"`
	HeroImage   *string    `json:"hero_image" validate:"omitempty,url"`
	IsPublished bool       `json:"is_published"`
}

type updateEventReq struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	DoorTime    *time.Time `json:"door_time"`
	Location    *string    `json:"location"`
	HeroImage   *string    `json:"hero_image" validate:"omitempty,url"`
}

// Create registers a screening.  The creator is taken from the JWT, never
// from the body, and cannot change afterwards.  A taken slug is a 409.
func (h *EventHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e := &model.Event{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
		DoorTime:    req.DoorTime,
		Location:    req.Location,
		HeroImage:   req.HeroImage,
		IsPublished: req.IsPublished,
		CreatedByID: uid,
	}
	if err := h.Events.Create(ctx, e); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

// List returns every event, including drafts and archived ones.
func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	events, err := h.Events.List(ctx, false)
	if err != nil {
		return fail(c, err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return c.JSON(http.StatusOK, events)
}

// Get returns one event by ID.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Update patches mutable event fields.  Slug and creator are immutable;
// requests naming them are simply ignored by the DTO shape.
func (h *EventHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.Update(ctx, id, repository.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
		DoorTime:    req.DoorTime,
		Location:    req.Location,
		HeroImage:   req.HeroImage,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Publish makes an event publicly visible.
func (h *EventHandler) Publish(c echo.Context) error { return h.setPublished(c, true) }

// Unpublish hides an event from the public surface again.
func (h *EventHandler) Unpublish(c echo.Context) error { return h.setPublished(c, false) }

func (h *EventHandler) setPublished(c echo.Context, published bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.SetPublished(ctx, id, published)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Archive freezes an event: it stays readable (and possibly published)
// but scheduling and invitation writes are refused from then on.
func (h *EventHandler) Archive(c echo.Context) error { return h.setArchived(c, true) }

// Unarchive lifts the freeze.
func (h *EventHandler) Unarchive(c echo.Context) error { return h.setArchived(c, false) }

func (h *EventHandler) setArchived(c echo.Context, archived bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.SetArchived(ctx, id, archived)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Delete removes an event along with its lineup and invitations.
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// requireMutableEvent loads an event and refuses writes on archived ones.
// Shared by the scheduling and invitation handlers.
func requireMutableEvent(c echo.Context, events *repository.EventRepo, id uint64) (*model.Event, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := events.GetByID(ctx, id)
	if err != nil {
		return nil, fail(c, err)
	}
	if e.IsArchived {
		return nil, c.JSON(http.StatusConflict, echo.Map{"error": "event is archived"})
	}
	return e, nil
}
