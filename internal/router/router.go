// Package router wires HTTP routes to handlers and middleware, split by
// audience: public browse/RSVP, authenticated guest endpoints and the
// ADMIN management surface.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/filmnight/screening-rsvp/internal/config"
	"github.com/filmnight/screening-rsvp/internal/handler"
	"github.com/filmnight/screening-rsvp/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication or
// dependencies: currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the identity endpoints.  Register/login/refresh
// live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated surface: event browsing
// (cached), token RSVP and feature-request submission (rate limited).
// Submission also runs OptionalJWT so a logged-in caller gets linked as
// the submitter while anonymous submissions still go through.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, r *handler.RSVPHandler, f *handler.FeatureRequestHandler, rdb *redis.Client, jwtSecret string) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e.GET("/v1/events", p.ListEvents, cache)
	e.GET("/v1/events/:slug", p.GetEvent, cache)

	e.GET("/v1/rsvp/:token", r.Show, limit)
	e.POST("/v1/rsvp/:token", r.Respond, limit)

	e.POST("/v1/feature-requests", f.Submit, middleware.OptionalJWT(jwtSecret), limit)
}

// RegisterGuest registers endpoints for any authenticated user (GUEST or
// ADMIN): the token-free RSVP path.
func RegisterGuest(e *echo.Echo, r *handler.RSVPHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "GUEST"),
	)
	g.POST("/events/:id/rsvp", r.RespondAsUser)
}

// RegisterAdmin registers the management surface: catalog, events,
// lineups, invitations and feature-request moderation.  Everything here
// requires the ADMIN role.
func RegisterAdmin(e *echo.Echo, films *handler.FilmHandler, events *handler.EventHandler, sched *handler.ScheduleHandler, inv *handler.InvitationHandler, fr *handler.FeatureRequestHandler, jwtSecret string) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	g.POST("/films", films.Create)
	g.GET("/films", films.List)
	g.GET("/films/:id", films.Get)
	g.PATCH("/films/:id", films.Update)
	g.DELETE("/films/:id", films.Delete)

	g.POST("/events", events.Create)
	g.GET("/events", events.List)
	g.GET("/events/:id", events.Get)
	g.PATCH("/events/:id", events.Update)
	g.POST("/events/:id/publish", events.Publish)
	g.POST("/events/:id/unpublish", events.Unpublish)
	g.POST("/events/:id/archive", events.Archive)
	g.POST("/events/:id/unarchive", events.Unarchive)
	g.DELETE("/events/:id", events.Delete)

	g.POST("/events/:id/films", sched.Add)
	g.GET("/events/:id/films", sched.List)
	g.PATCH("/events/:id/films/:film_id", sched.Reorder)
	g.DELETE("/events/:id/films/:film_id", sched.Remove)

	g.POST("/events/:id/invitations", inv.Invite)
	g.GET("/events/:id/invitations", inv.List)
	g.POST("/events/:id/invitations/resend", inv.Resend)

	g.GET("/feature-requests", fr.List)
	g.GET("/feature-requests/:id", fr.Get)
	g.POST("/feature-requests/:id/moderate", fr.Moderate)
}
