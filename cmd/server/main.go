package main // entry point wiring config, storage, broker and routes

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-reservation/internal/config"
	"github.com/iliyamo/lab-reservation/internal/database"
	"github.com/iliyamo/lab-reservation/internal/handler"
	"github.com/iliyamo/lab-reservation/internal/middleware"
	"github.com/iliyamo/lab-reservation/internal/occupancy"
	"github.com/iliyamo/lab-reservation/internal/queue"
	"github.com/iliyamo/lab-reservation/internal/repository"
	"github.com/iliyamo/lab-reservation/internal/router"
)

func main() {
	// .env is a convenience for local development; in production the
	// environment is already populated and the file is absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and the
	// catalog cache but the API stays up.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and catalog cache disabled")
	}

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	labs := repository.NewLabRepo(db)
	slots := repository.NewSlotRepo(db)
	bookings := repository.NewBookingRepo(db)
	disabled := repository.NewDisabledLabRepo(db)
	assignments := repository.NewAssignmentRepo(db)

	resolver := occupancy.NewResolver(repository.NewAvailabilitySource(db))

	// Handlers
	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicLabHandler(labs, slots)
	availH := handler.NewAvailabilityHandler(resolver)
	bookingH := handler.NewBookingHandler(bookings, labs, slots, disabled, users)
	adminH := handler.NewAdminLabHandler(labs, slots, disabled, assignments, users)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, config.LoadCacheConfig(), rdb)
	router.RegisterAvailability(e, availH, cfg.JWTSecret)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// The approval-event consumer runs for the lifetime of the process
	// and reconnects on broker failures.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
