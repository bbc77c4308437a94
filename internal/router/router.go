package router // wires HTTP routes to their handlers and middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/config"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/handler"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check used by load balancers and
// monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterFlights registers the public flight search.  Browsing routes
// and dates happens before login, so the route takes no auth
// middleware; booking anything found here still does.
func RegisterFlights(e *echo.Echo, f *handler.FlightSearchHandler) {
	e.GET("/v1/flights/search", f.SearchFlights)
}

// RegisterSeats registers the seat map and the raw claim/release
// endpoints.  The seat map is readable by any authenticated user and
// sits behind the Redis response cache; the direct seat operations are
// agent tooling and additionally require the AGENT or ADMIN role.
func RegisterSeats(e *echo.Echo, s *handler.SeatHandler, jwtSecret string, cacheCfg config.SeatMapCacheConfig, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.NewTokenBucket(rlCfg, rdb))

	auth.GET("/schedules/:id/seats", s.GetSeatMap, middleware.NewSeatMapCache(cacheCfg, rdb))

	ops := auth.Group("/seats")
	ops.Use(middleware.RequireRole("AGENT", "ADMIN"))
	ops.POST("/reserve", s.ReserveSeat)
	ops.POST("/reserve/leg", s.ReserveSeatForLeg)
	ops.POST("/release", s.ReleaseSeat)
	ops.POST("/release/leg", s.ReleaseSeatForLeg)
}

// RegisterBookings registers the passenger booking workflows.  All
// routes require a valid access token; ownership of individual
// reservations is enforced inside the handlers.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.NewTokenBucket(rlCfg, rdb))

	auth.POST("/bookings", b.CreateBooking)
	auth.GET("/reservations/:id", b.GetReservation)
	auth.DELETE("/reservations/:id", b.CancelReservation)
	auth.POST("/reservations/:id/reschedule", b.RescheduleLeg)
	auth.GET("/my-reservations", b.ListReservations)
}

// RegisterAdmin registers provisioning endpoints for layouts, flights
// and schedules.  Everything under /v1/admin requires the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))

	admin.POST("/layouts", a.CreateLayout)
	admin.GET("/layouts/:id", a.GetLayout)
	admin.POST("/flights", a.CreateFlight)
	admin.PUT("/flights/:id/layout", a.SetFlightLayout)
	admin.POST("/schedules", a.CreateSchedule)
}
