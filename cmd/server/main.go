package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"                                // Optional .env loader for local development
	"github.com/labstack/echo/v4"                             // Echo web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Prometheus metrics handler

	"github.com/nextup/campus-queue/internal/config"     // Internal config loader
	"github.com/nextup/campus-queue/internal/engine"     // Queue engine and status projector
	"github.com/nextup/campus-queue/internal/handler"    // HTTP handlers
	"github.com/nextup/campus-queue/internal/middleware" // Admin gate and rate limiter
	"github.com/nextup/campus-queue/internal/queue"      // Broker event consumer
	"github.com/nextup/campus-queue/internal/repository" // Queue store and sequencer
	"github.com/nextup/campus-queue/internal/router"     // Internal router setup
)

func main() {
	_ = godotenv.Load() // load .env when present; real environment variables win
	cfg := config.Load()

	catalog, err := config.LoadServices(cfg.ServicesFile) // static service catalog, immutable at runtime
	if err != nil {
		log.Fatalf("service catalog: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb == nil {
		log.Print("redis unavailable: rate limiting and the status mirror are disabled")
	}

	store := repository.NewQueueStore(catalog, cfg.StoreWaitTimeout) // per-service atomic ticket store
	seq := repository.NewSequencer(catalog)                          // gap-free ticket numbering
	proj := engine.NewProjector(catalog, rdb, cfg.EventsEnabled)     // read-optimized snapshots + change feed
	eng := engine.New(catalog, store, seq, proj)

	// Select the admin gate implementation. Handlers only see the
	// AdminGate interface, so swapping schemes is a config change.
	var gate middleware.AdminGate
	switch cfg.AdminGate {
	case "token":
		gate = middleware.NewTokenGate(cfg.AdminTokenSecret)
	default:
		gate = middleware.NewSharedCodeGate(cfg.AdminCode, cfg.AdminCodeBcrypt, cfg.AdminAllowList)
	}

	if cfg.AuditConsumer {
		go func() {
			if err := queue.StartAuditConsumer(); err != nil {
				log.Printf("audit consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	router.RegisterRoutes(e) // health check
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterQueue(e, handler.NewQueueHandler(eng), limiter)
	router.RegisterAdmin(e, handler.NewAdminHandler(eng), gate)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler())) // operation counters

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, services=%d)", addr, cfg.Env, len(catalog))

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
