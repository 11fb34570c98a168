package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filmnight/screening-rsvp/internal/middleware"
	"github.com/filmnight/screening-rsvp/internal/model"
	"github.com/filmnight/screening-rsvp/internal/queue"
	"github.com/filmnight/screening-rsvp/internal/repository"
	queue_publisher "github.com/filmnight/screening-rsvp/internal/service"
)

// RSVPHandler records guests' decisions, either via the token from an
// invitation link (no auth) or via the authenticated path.
type RSVPHandler struct {
	Events      *repository.EventRepo
	Invitations *repository.InvitationRepo
	Users       *repository.UserRepo
}

func NewRSVPHandler(e *repository.EventRepo, i *repository.InvitationRepo, u *repository.UserRepo) *RSVPHandler {
	return &RSVPHandler{Events: e, Invitations: i, Users: u}
}

type rsvpReq struct {
	Status   string  `json:"status" validate:"required"`
	PlusOnes *int    `json:"plus_ones"`
	Note     *string `json:"note"`
}

// rsvpView is what a token holder sees before deciding: the invitation
// plus enough event context to know what they were invited to.
type rsvpView struct {
	Invitation *model.Invitation `json:"invitation"`
	Event      *model.Event      `json:"event"`
}

// Show resolves an RSVP link token to the invitation and its event.  An
// unknown token is a 404; tokens are unguessable so this endpoint needs no
// other protection.
func (h *RSVPHandler) Show(c echo.Context) error {
	token := c.Param("token")
	ctx, cancel := reqCtx(c)
	defer cancel()

	inv, err := h.Invitations.GetByToken(ctx, token)
	if err != nil {
		return fail(c, err)
	}
	e, err := h.Events.GetByID(ctx, inv.EventID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rsvpView{Invitation: inv, Event: e})
}

// Respond records a decision via the link token.  The status must be
// ACCEPTED, DECLINED or MAYBE; re-RSVP overwrites the previous decision
// and refreshes rsvp_at; one row per invitation, no history.
func (h *RSVPHandler) Respond(c echo.Context) error {
	token := c.Param("token")
	var req rsvpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	status, ok := model.ParseInvitationStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// The archived check needs the event, which needs the invitation.
	inv, err := h.Invitations.GetByToken(ctx, token)
	if err != nil {
		return fail(c, err)
	}
	e, err := h.Events.GetByID(ctx, inv.EventID)
	if err != nil {
		return fail(c, err)
	}
	if e.IsArchived {
		return c.JSON(http.StatusConflict, echo.Map{"error": "event is archived"})
	}

	inv, err = h.Invitations.RSVPByToken(ctx, token, status, req.PlusOnes, req.Note)
	if err != nil {
		return fail(c, err)
	}
	h.publishRSVP(c, e, inv)
	return c.JSON(http.StatusOK, inv)
}

// RespondAsUser is the authenticated path: the caller's account (or its
// email) locates the invitation for the event, no token needed.
func (h *RSVPHandler) RespondAsUser(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req rsvpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	status, ok := model.ParseInvitationStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		return fail(c, err)
	}
	if e.IsArchived {
		return c.JSON(http.StatusConflict, echo.Map{"error": "event is archived"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	inv, err := h.Invitations.RSVPByEventAndUser(ctx, eventID, uid, u.Email, status, req.PlusOnes, req.Note)
	if err != nil {
		return fail(c, err)
	}
	h.publishRSVP(c, e, inv)
	return c.JSON(http.StatusOK, inv)
}

func (h *RSVPHandler) publishRSVP(c echo.Context, e *model.Event, inv *model.Invitation) {
	rsvpAt := ""
	if inv.RSVPAt != nil {
		rsvpAt = inv.RSVPAt.Format(time.RFC3339)
	}
	_ = queue_publisher.PublishRSVPRecorded(c.Request().Context(), queue.RSVPRecordedEvent{
		InvitationID: inv.ID,
		EventID:      e.ID,
		EventSlug:    e.Slug,
		Email:        inv.Email,
		Status:       string(inv.Status),
		PlusOnes:     inv.PlusOnes,
		RSVPAt:       rsvpAt,
	})
}
