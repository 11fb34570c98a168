package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filmnight/screening-rsvp/internal/model"
	"github.com/filmnight/screening-rsvp/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: published
// events and their lineups.  These endpoints sit behind the Redis
// response cache.
type PublicHandler struct {
	Events *repository.EventRepo
	Lineup *repository.EventFilmRepo
}

func NewPublicHandler(e *repository.EventRepo, l *repository.EventFilmRepo) *PublicHandler {
	return &PublicHandler{Events: e, Lineup: l}
}

// eventView is the public shape of an event: creator and flags stay
// internal.
type eventView struct {
	Slug        string              `json:"slug"`
	Title       string              `json:"title"`
	Description *string             `json:"description,omitempty"`
	ScheduledAt string              `json:"scheduled_at"`
	DoorTime    *string             `json:"door_time,omitempty"`
	Location    *string             `json:"location,omitempty"`
	HeroImage   *string             `json:"hero_image,omitempty"`
	Lineup      []model.LineupEntry `json:"lineup,omitempty"`
}

func publicEvent(e *model.Event, lineup []model.LineupEntry) eventView {
	v := eventView{
		Slug:        e.Slug,
		Title:       e.Title,
		Description: e.Description,
		ScheduledAt: e.ScheduledAt.Format("2006-01-02T15:04:05Z07:00"),
		Location:    e.Location,
		HeroImage:   e.HeroImage,
		Lineup:      lineup,
	}
	if e.DoorTime != nil {
		s := e.DoorTime.Format("2006-01-02T15:04:05Z07:00")
		v.DoorTime = &s
	}
	return v
}

// ListEvents returns published, non-archived events ordered by schedule.
func (h *PublicHandler) ListEvents(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	events, err := h.Events.List(ctx, true)
	if err != nil {
		return fail(c, err)
	}
	views := make([]eventView, 0, len(events))
	for i := range events {
		views = append(views, publicEvent(&events[i], nil))
	}
	return c.JSON(http.StatusOK, views)
}

// GetEvent returns one published event by slug, lineup included.
// Unpublished events 404 here regardless of existence so drafts do not
// leak through slug probing.
func (h *PublicHandler) GetEvent(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		return fail(c, err)
	}
	if !e.IsPublished {
		return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrEventNotFound.Error()})
	}
	lineup, err := h.Lineup.ListByEvent(ctx, e.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, publicEvent(e, lineup))
}
