package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/ticketbox/ticketbox/internal/config"     // Internal config loader
	"github.com/ticketbox/ticketbox/internal/database"   // MySQL connection pool
	"github.com/ticketbox/ticketbox/internal/handler"    // HTTP handlers
	"github.com/ticketbox/ticketbox/internal/middleware" // rate limiting and response caching
	"github.com/ticketbox/ticketbox/internal/payment"    // payment QR generation
	"github.com/ticketbox/ticketbox/internal/queue"      // payment event consumer
	"github.com/ticketbox/ticketbox/internal/repository" // data access layer
	"github.com/ticketbox/ticketbox/internal/router"     // Internal router setup
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg) // Connect to MySQL
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and caching
	// but the API keeps serving.
	rdb := config.NewRedisClient()

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Repositories share the single pool.
	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)
	sessions := repository.NewSessionRepo(db)
	pricing := repository.NewPricingRepo(db)
	orders := repository.NewOrderRepo(db)
	tickets := repository.NewTicketRepo(db)
	payments := repository.NewPaymentRepo(db)
	reports := repository.NewReportRepo(db)

	qr := payment.NewService(cfg)

	authH := handler.NewAuthHandler(cfg, users)
	userH := handler.NewUserHandler(users, tickets)
	publicEventH := handler.NewPublicEventHandler(events)
	adminEventH := handler.NewAdminEventHandler(events, sessions, pricing, users)
	adminSessionH := handler.NewAdminSessionHandler(sessions)
	orderH := handler.NewOrderHandler(orders, tickets, sessions, pricing, users)
	paymentH := handler.NewPaymentHandler(orders, tickets, payments, qr)
	reportH := handler.NewReportHandler(reports)

	router.RegisterRoutes(e) // health check and metrics
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicEventH, orderH, paymentH, cache)
	router.RegisterCustomer(e, userH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminEventH, adminSessionH, reportH, cfg.JWTSecret)

	// The consumer reconnects on its own; a missing broker must not stop
	// the API from serving.
	go func() {
		if err := queue.StartPaymentConsumer(); err != nil {
			log.Printf("payment consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
