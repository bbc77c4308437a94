package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/config"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/database"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/handler"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/queue"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/repository"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/router"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables the seat map cache and
	// the rate limiter but leaves every booking flow fully functional.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadSeatMapCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	layoutRepo := repository.NewSeatLayoutRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	flightRepo := repository.NewFlightRepo(db)
	scheduleRepo := repository.NewScheduleRepo(db)
	flightSeatRepo := repository.NewFlightSeatRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	seatSvc := service.NewSeatService(db, flightSeatRepo, reservationRepo)

	searchHandler := handler.NewFlightSearchHandler(scheduleRepo)
	seatHandler := handler.NewSeatHandler(seatSvc, rdb, cacheCfg)
	bookingHandler := handler.NewBookingHandler(seatSvc, reservationRepo, flightSeatRepo, scheduleRepo, rdb, cacheCfg)
	adminHandler := handler.NewAdminHandler(layoutRepo, seatRepo, flightRepo, scheduleRepo)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterFlights(e, searchHandler)
	router.RegisterSeats(e, seatHandler, cfg.JWTSecret, cacheCfg, rlCfg, rdb)
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret, rlCfg, rdb)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	// The audit consumer runs for the lifetime of the process and
	// reconnects on its own; it never takes the API down with it.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
