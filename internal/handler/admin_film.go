package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filmnight/screening-rsvp/internal/model"
	"github.com/filmnight/screening-rsvp/internal/repository"
)

// FilmHandler exposes the catalog management endpoints (ADMIN only).
type FilmHandler struct {
	Films *repository.FilmRepo
}

func NewFilmHandler(f *repository.FilmRepo) *FilmHandler { return &FilmHandler{Films: f} }

type createFilmReq struct {
	Title        string  `json:"title" validate:"required"`
	ReferenceURL string  `json:"reference_url" validate:"required,url"`
	Synopsis     *string `json:"synopsis"`
	RuntimeMin   *int    `json:"runtime_min" validate:"omitempty,gt=0"`
	ReleaseYear  *int    `json:"release_year" validate:"omitempty,gte=1888"`
	PosterURL    *string `json:"poster_url" validate:"omitempty,url"`
	Director     *string `json:"director"`
}

type updateFilmReq struct {
	Title        *string `json:"title"`
	ReferenceURL *string `json:"reference_url" validate:"omitempty,url"`
	Synopsis     *string `json:"synopsis"`
	RuntimeMin   *int    `json:"runtime_min" validate:"omitempty,gt=0"`
	ReleaseYear  *int    `json:"release_year" validate:"omitempty,gte=1888"`
	PosterURL    *string `json:"poster_url" validate:"omitempty,url"`
	Director     *string `json:"director"`
}

// Create adds a film to the catalog.  A duplicate reference URL is a 409;
// the existing entry should be reused instead.
func (h *FilmHandler) Create(c echo.Context) error {
	var req createFilmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	f := &model.Film{
		Title:        req.Title,
		ReferenceURL: req.ReferenceURL,
		Synopsis:     req.Synopsis,
		RuntimeMin:   req.RuntimeMin,
		ReleaseYear:  req.ReleaseYear,
		PosterURL:    req.PosterURL,
		Director:     req.Director,
	}
	if err := h.Films.Create(ctx, f); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// List returns the whole catalog.
func (h *FilmHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	films, err := h.Films.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	if films == nil {
		films = []model.Film{}
	}
	return c.JSON(http.StatusOK, films)
}

// Get returns one film by ID.
func (h *FilmHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	f, err := h.Films.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// Update patches film metadata.
func (h *FilmHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateFilmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	f, err := h.Films.Update(ctx, id, req.Title, req.ReferenceURL, req.Synopsis, req.PosterURL, req.Director, req.RuntimeMin, req.ReleaseYear)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// Delete removes a film that is not scheduled anywhere.
func (h *FilmHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Films.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
