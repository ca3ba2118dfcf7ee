package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/config"
	"github.com/iliyamo/cinema-ticketing/internal/database"
	"github.com/iliyamo/cinema-ticketing/internal/handler"
	custommw "github.com/iliyamo/cinema-ticketing/internal/middleware"
	"github.com/iliyamo/cinema-ticketing/internal/queue"
	"github.com/iliyamo/cinema-ticketing/internal/region"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
	"github.com/iliyamo/cinema-ticketing/internal/router"
	"github.com/iliyamo/cinema-ticketing/internal/sweeper"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	// One database pool per region.  A region is a hard partition: every
	// request resolves to exactly one of these and nothing ever joins
	// across them.
	regions := region.NewRegistry()
	for _, name := range cfg.Regions {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.RegionDBNames[name])
		if err != nil {
			log.Fatalf("open region %s database: %v", name, err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = database.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Fatalf("migrate region %s database: %v", name, err)
		}
		regions.Add(&region.Dataset{
			Name:         name,
			DB:           db,
			Halls:        repository.NewHallRepo(db),
			Seats:        repository.NewSeatRepo(db),
			Movies:       repository.NewMovieRepo(db),
			Shows:        repository.NewShowRepo(db, uint32(cfg.ScheduleBufferMin), uint32(cfg.MaxRuntimeMin)),
			Reservations: repository.NewReservationRepo(db),
			Payments:     repository.NewPaymentRepo(db),
		})
	}
	defer func() { _ = regions.Close() }()

	// Background audit consumer: payment.settled and reservation.expired
	// events land in logs/ regardless of which instance published them.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	// Expiry sweep: unpaid reservations older than the TTL are expired
	// and their seats released.
	ttl := time.Duration(cfg.ReservationTTLMin) * time.Minute
	sw := sweeper.New(regions, ttl, time.Duration(cfg.SweepIntervalSec)*time.Second)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sw.Run(sweepCtx)

	e := echo.New()
	e.HideBanner = true

	// Redis-backed rate limiting and response caching.  Both degrade to
	// no-ops when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(custommw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(custommw.NewRedisCache(config.LoadCacheConfig(), rdb, router.CacheSkipper))

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewPublicHandler(regions))
	router.RegisterStaff(e, handler.NewAdminHandler(regions), cfg.JWTSecret)
	router.RegisterCustomer(e, handler.NewCustomerHandler(regions, ttl), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, regions=%v)", addr, cfg.Env, regions.Names())

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
