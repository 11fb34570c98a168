package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filmnight/screening-rsvp/internal/middleware"
	"github.com/filmnight/screening-rsvp/internal/model"
	"github.com/filmnight/screening-rsvp/internal/repository"
)

// FeatureRequestHandler accepts film suggestions from anyone and exposes
// the moderation surface to admins.
type FeatureRequestHandler struct {
	Requests *repository.FeatureRequestRepo
}

func NewFeatureRequestHandler(r *repository.FeatureRequestRepo) *FeatureRequestHandler {
	return &FeatureRequestHandler{Requests: r}
}

type submitFeatureRequestReq struct {
	FilmTitle      string  `json:"film_title" validate:"required"`
	SubmittedEmail string  `json:"submitted_email" validate:"required,email"`
	SubmitterName  *string `json:"submitter_name"`
	EventID        *uint64 `json:"event_id"`
	FilmID         *uint64 `json:"film_id"`
	LetterboxdURL  *string `json:"letterboxd_url" validate:"omitempty,url"`
	Notes          *string `json:"notes"`
}

type moderateReq struct {
	Status string `json:"status" validate:"required"`
}

// Submit stores a PENDING suggestion.  The route is public; when the
// caller happens to be authenticated the account is linked as submitter.
// Duplicate suggestions are accepted; moderators see them as-is.
func (h *FeatureRequestHandler) Submit(c echo.Context) error {
	var req submitFeatureRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	fr := &model.FeatureRequest{
		EventID:        req.EventID,
		FilmID:         req.FilmID,
		SubmittedEmail: req.SubmittedEmail,
		SubmitterName:  req.SubmitterName,
		FilmTitle:      req.FilmTitle,
		LetterboxdURL:  req.LetterboxdURL,
		Notes:          req.Notes,
	}
	if uid, ok := middleware.UserID(c); ok {
		fr.SubmittedByID = &uid
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Requests.Create(ctx, fr); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, fr)
}

// List returns suggestions for moderators, optionally filtered with
// ?status=PENDING.
func (h *FeatureRequestHandler) List(c echo.Context) error {
	var status *model.FeatureRequestStatus
	if raw := c.QueryParam("status"); raw != "" {
		s, ok := model.ParseFeatureRequestStatus(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		status = &s
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	frs, err := h.Requests.List(ctx, status)
	if err != nil {
		return fail(c, err)
	}
	if frs == nil {
		frs = []model.FeatureRequest{}
	}
	return c.JSON(http.StatusOK, frs)
}

// Get returns one suggestion.
func (h *FeatureRequestHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	fr, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, fr)
}

// Moderate applies a one-way status transition; anything outside the
// table (including re-opening an ARCHIVED request) is a 400.
func (h *FeatureRequestHandler) Moderate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req moderateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	next, ok := model.ParseFeatureRequestStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	fr, err := h.Requests.Moderate(ctx, id, next)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, fr)
}
