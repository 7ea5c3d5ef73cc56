package main // Entry point package

import (
	"context" // Context for the sweeper's lifetime
	"log"     // Logging library
	"time"    // Converting configured lead-time hours

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/sonamoo/counsel-scheduling/internal/config"   // Internal config loader
	"github.com/sonamoo/counsel-scheduling/internal/database" // MySQL connection helper
	"github.com/sonamoo/counsel-scheduling/internal/handler"
	"github.com/sonamoo/counsel-scheduling/internal/queue"
	"github.com/sonamoo/counsel-scheduling/internal/repository"
	"github.com/sonamoo/counsel-scheduling/internal/router" // Internal router setup
	"github.com/sonamoo/counsel-scheduling/internal/scheduling"
	queue_publisher "github.com/sonamoo/counsel-scheduling/internal/service"
	"github.com/sonamoo/counsel-scheduling/internal/sweeper"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments inject env directly

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared pool.
	bookingRepo := repository.NewBookingRepo(db)
	windowRepo := repository.NewAvailabilityRepo(db)
	tenantRepo := repository.NewTenantRepo(db)
	tenantRepo.SetDefaultCancelLeadTime(time.Duration(cfg.CancelLeadTimeHours) * time.Hour)
	consultRepo := repository.NewConsultationRepo(db)

	// The scheduling core.  Booking transitions publish lifecycle
	// events to RabbitMQ through the BrokerNotifier.
	svc := scheduling.NewService(bookingRepo, windowRepo, tenantRepo,
		queue_publisher.BrokerNotifier{}, consultRepo)

	// Auto-completion sweeper: CONFIRMED bookings whose slot has fully
	// elapsed are driven to COMPLETED in the background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.New(bookingRepo, svc, cfg.SweepInterval, cfg.SweepRowTimeout).Run(ctx)

	// Event consumer: drains booking.events into the audit log.  Runs
	// with reconnect/backoff; a broker outage only pauses consumption.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New()          // Create Echo instance
	router.RegisterRoutes(e) // Register application routes

	rdb := config.NewRedisClient() // nil disables rate limiting and caching
	bookingHandler := handler.NewBookingHandler(svc, bookingRepo)
	availabilityHandler := handler.NewAvailabilityHandler(windowRepo)
	router.RegisterScheduling(e, bookingHandler, availabilityHandler, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
