package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filmnight/screening-rsvp/internal/model"
	"github.com/filmnight/screening-rsvp/internal/queue"
	"github.com/filmnight/screening-rsvp/internal/repository"
	queue_publisher "github.com/filmnight/screening-rsvp/internal/service"
)

// InvitationHandler issues and lists invitations (ADMIN only).  The RSVP
// side lives in rsvp.go.
type InvitationHandler struct {
	Events      *repository.EventRepo
	Invitations *repository.InvitationRepo
	Users       *repository.UserRepo
}

func NewInvitationHandler(e *repository.EventRepo, i *repository.InvitationRepo, u *repository.UserRepo) *InvitationHandler {
	return &InvitationHandler{Events: e, Invitations: i, Users: u}
}

type inviteReq struct {
	Email       string  `json:"email" validate:"required,email"`
	InviteeName *string `json:"invitee_name"`
	PlusOnes    int     `json:"plus_ones" validate:"gte=0"`
}

// Invite creates a PENDING invitation with a fresh token and publishes a
// notification event for the mailer.  A second invite for the same email
// is a 409; use Resend to fetch the existing token.
func (h *InvitationHandler) Invite(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	e, errResp := requireMutableEvent(c, h.Events, eventID)
	if e == nil {
		return errResp
	}
	var req inviteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// Link the invitation to an existing account up front when one matches.
	userID, err := h.Users.FindIDByEmail(ctx, req.Email)
	if err != nil {
		return fail(c, err)
	}

	inv, err := h.Invitations.Create(ctx, eventID, req.Email, req.InviteeName, req.PlusOnes, userID)
	if err != nil {
		return fail(c, err)
	}

	// Best effort: the invitation row is committed either way.
	name := ""
	if inv.InviteeName != nil {
		name = *inv.InviteeName
	}
	_ = queue_publisher.PublishInvitationCreated(ctx, queue.InvitationCreatedEvent{
		InvitationID: inv.ID,
		EventID:      e.ID,
		EventSlug:    e.Slug,
		EventTitle:   e.Title,
		ScheduledAt:  e.ScheduledAt.Format(time.RFC3339),
		Email:        inv.Email,
		InviteeName:  name,
		Token:        inv.Token,
		CreatedAt:    inv.CreatedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, inv)
}

// List returns every invitation for an event, responses first.
func (h *InvitationHandler) List(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		return fail(c, err)
	}
	invs, err := h.Invitations.ListByEvent(ctx, eventID)
	if err != nil {
		return fail(c, err)
	}
	if invs == nil {
		invs = []model.Invitation{}
	}
	return c.JSON(http.StatusOK, invs)
}

// Resend looks up the existing invitation for an address and republishes
// the notification event, so a lost invite mail can be sent again without
// minting a second invitation.
func (h *InvitationHandler) Resend(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email query param required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		return fail(c, err)
	}
	inv, err := h.Invitations.GetByEventAndEmail(ctx, eventID, email)
	if err != nil {
		return fail(c, err)
	}

	name := ""
	if inv.InviteeName != nil {
		name = *inv.InviteeName
	}
	_ = queue_publisher.PublishInvitationCreated(ctx, queue.InvitationCreatedEvent{
		InvitationID: inv.ID,
		EventID:      e.ID,
		EventSlug:    e.Slug,
		EventTitle:   e.Title,
		ScheduledAt:  e.ScheduledAt.Format(time.RFC3339),
		Email:        inv.Email,
		InviteeName:  name,
		Token:        inv.Token,
		CreatedAt:    inv.CreatedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, inv)
}
