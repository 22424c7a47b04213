package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/karim076/dvd-rental/internal/config"
	"github.com/karim076/dvd-rental/internal/database"
	"github.com/karim076/dvd-rental/internal/handler"
	"github.com/karim076/dvd-rental/internal/queue"
	"github.com/karim076/dvd-rental/internal/rental"
	"github.com/karim076/dvd-rental/internal/repository"
	"github.com/karim076/dvd-rental/internal/router"
	queue_publisher "github.com/karim076/dvd-rental/internal/service"
	"github.com/karim076/dvd-rental/internal/validation"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db)
	svc := rental.New(store, queue_publisher.PublishRentalEvent, cfg.ExtendDays)

	// Invariant repair before serving: backfill zero amounts and normalize
	// legacy processing statuses so no caller ever observes them.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	report, err := svc.RunRecovery(ctx)
	cancel()
	if err != nil {
		log.Fatalf("recovery: %v", err)
	}
	log.Printf("recovery: amounts=%d statuses=%d", report.AmountsRepaired, report.StatusesNormalized)

	// Background consumer logs lifecycle events; it reconnects on its own
	// and never takes the server down.
	go func() {
		if err := queue.StartRentalConsumer(); err != nil {
			log.Printf("rental consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; features degrade
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	e := echo.New()
	e.Validator = validation.New()
	router.RegisterRoutes(e)
	router.RegisterCustomer(e, handler.NewCustomerRentalHandler(svc), cfg.JWTSecret, rdb, rlCfg, cacheCfg)
	router.RegisterStaff(e, handler.NewStaffRentalHandler(svc), cfg.JWTSecret, rdb, rlCfg)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
