// Package handler implements the HTTP endpoints.  Handlers bind and
// validate DTOs, call repositories with a bounded context and translate
// the repository error taxonomy into HTTP statuses.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/filmnight/screening-rsvp/internal/repository"
)

// dbTimeout bounds every repository call issued from a request handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// Validator adapts go-playground/validator to Echo's Validator interface
// so handlers can call c.Validate on bound DTOs.
type Validator struct{ V *validator.Validate }

func NewValidator() *Validator { return &Validator{V: validator.New()} }

func (v *Validator) Validate(i interface{}) error {
	if err := v.V.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// fail maps repository sentinels onto HTTP statuses: validation and bad
// transitions are 400, missing references 404, uniqueness and referential
// conflicts 409.  Anything unrecognized is a 500 with a generic message so
// driver details never leak to clients.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrValidation),
		errors.Is(err, repository.ErrInvalidTransition):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrFilmNotFound),
		errors.Is(err, repository.ErrLineupEntryNotFound),
		errors.Is(err, repository.ErrInvitationNotFound),
		errors.Is(err, repository.ErrFeatureRequestNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrConstraint):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
