package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/filmnight/screening-rsvp/internal/config"
	"github.com/filmnight/screening-rsvp/internal/database"
	"github.com/filmnight/screening-rsvp/internal/handler"
	"github.com/filmnight/screening-rsvp/internal/queue"
	"github.com/filmnight/screening-rsvp/internal/repository"
	"github.com/filmnight/screening-rsvp/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the env directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Repositories are constructed once here and handed to handlers
	// explicitly; there is no ambient data-access singleton.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	films := repository.NewFilmRepo(db)
	events := repository.NewEventRepo(db)
	lineup := repository.NewEventFilmRepo(db)
	invitations := repository.NewInvitationRepo(db)
	requests := repository.NewFeatureRequestRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	filmH := handler.NewFilmHandler(films)
	eventH := handler.NewEventHandler(events)
	schedH := handler.NewScheduleHandler(events, lineup)
	invH := handler.NewInvitationHandler(events, invitations, users)
	rsvpH := handler.NewRSVPHandler(events, invitations, users)
	frH := handler.NewFeatureRequestHandler(requests)
	publicH := handler.NewPublicHandler(events, lineup)

	// Redis is optional: without it caching and rate limiting disable
	// themselves.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	// Notification consumer runs for the life of the process and
	// reconnects on broker failures.
	go queue.StartNotificationConsumer()

	e := echo.New()
	e.Validator = handler.NewValidator()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, rsvpH, frH, rdb, cfg.JWTSecret)
	router.RegisterGuest(e, rsvpH, cfg.JWTSecret)
	router.RegisterAdmin(e, filmH, eventH, schedH, invH, frH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
