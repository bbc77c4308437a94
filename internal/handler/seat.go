package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/config"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/middleware"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/queue"
	qp "github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/queue_publisher"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/repository"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/service"
)

// SeatHandler exposes the seat inventory engine over HTTP: per-schedule
// seat maps for passengers and direct claim/release operations for
// agents.  A lost race surfaces as 409 so clients know to refresh the
// map and pick again; the seat map cache for the affected schedule is
// dropped after every successful mutation.
type SeatHandler struct {
	Svc      *service.SeatService
	RDB      *redis.Client // may be nil when Redis is unavailable
	CacheCfg config.SeatMapCacheConfig
}

// NewSeatHandler constructs a SeatHandler.  The Redis client is
// optional; everything degrades to uncached behavior without it.
func NewSeatHandler(svc *service.SeatService, rdb *redis.Client, cacheCfg config.SeatMapCacheConfig) *SeatHandler {
	if svc == nil {
		panic("nil service passed to NewSeatHandler")
	}
	return &SeatHandler{Svc: svc, RDB: rdb, CacheCfg: cacheCfg}
}

// GetSeatMap handles GET /v1/schedules/:id/seats.  It materializes the
// schedule's inventory on first access and returns every seat still
// open for sale in row/column order.  An unknown schedule yields 404;
// a schedule whose flight has no seat layout yields 422 because there
// is nothing to materialize from.
func (h *SeatHandler) GetSeatMap(c echo.Context) error {
	scheduleID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx := c.Request().Context()
	if err := h.Svc.EnsureFlightSeats(ctx, scheduleID); err != nil {
		switch {
		case errors.Is(err, repository.ErrScheduleNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		case errors.Is(err, repository.ErrLayoutNotConfigured):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "flight has no seat layout configured"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to prepare seat inventory"})
	}
	seats, err := h.Svc.AvailableSeats(ctx, scheduleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id": scheduleID,
		"count":       len(seats),
		"seats":       seats,
	})
}

// ReserveSeat handles POST /v1/seats/reserve.  The body carries a
// flight seat and the reservation that wants it.  A 409 means the seat
// was taken (or never existed); nothing changed and the caller should
// offer a different seat.
func (h *SeatHandler) ReserveSeat(c echo.Context) error {
	var body struct {
		FlightSeatID  uint64 `json:"flight_seat_id"`
		ReservationID uint64 `json:"reservation_id"`
	}
	if err := c.Bind(&body); err != nil || body.FlightSeatID == 0 || body.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_seat_id and reservation_id are required"})
	}
	ctx := c.Request().Context()
	scheduleID, err := h.Svc.ReserveSeat(ctx, body.FlightSeatID, body.ReservationID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat is not available"})
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve seat"})
	}
	middleware.InvalidateSeatMap(ctx, h.RDB, h.CacheCfg, scheduleID)
	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id":    scheduleID,
		"flight_seat_id": body.FlightSeatID,
		"reservation_id": body.ReservationID,
	})
}

// ReserveSeatForLeg handles POST /v1/seats/reserve/leg.  Same contract
// as ReserveSeat but the claim is attached to one leg of a multi-leg
// itinerary.
func (h *SeatHandler) ReserveSeatForLeg(c echo.Context) error {
	var body struct {
		FlightSeatID uint64 `json:"flight_seat_id"`
		LegID        uint64 `json:"leg_id"`
	}
	if err := c.Bind(&body); err != nil || body.FlightSeatID == 0 || body.LegID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_seat_id and leg_id are required"})
	}
	ctx := c.Request().Context()
	scheduleID, err := h.Svc.ReserveSeatForLeg(ctx, body.FlightSeatID, body.LegID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat is not available"})
		case errors.Is(err, repository.ErrLegNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation leg not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve seat"})
	}
	middleware.InvalidateSeatMap(ctx, h.RDB, h.CacheCfg, scheduleID)
	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id":    scheduleID,
		"flight_seat_id": body.FlightSeatID,
		"leg_id":         body.LegID,
	})
}

// ReleaseSeat handles POST /v1/seats/release.  It returns the seat held
// by a reservation to the open pool.  A reservation holding nothing
// yields 404 and no state change; a holder mismatch (someone else
// re-claimed the seat already) yields 409.
func (h *SeatHandler) ReleaseSeat(c echo.Context) error {
	var body struct {
		ReservationID uint64 `json:"reservation_id"`
	}
	if err := c.Bind(&body); err != nil || body.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id is required"})
	}
	ctx := c.Request().Context()
	scheduleID, err := h.Svc.ReleaseSeat(ctx, body.ReservationID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrFlightSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no seat held by this reservation"})
		case errors.Is(err, repository.ErrSeatConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat is no longer held by this reservation"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seat"})
	}
	middleware.InvalidateSeatMap(ctx, h.RDB, h.CacheCfg, scheduleID)
	_ = qp.PublishSeatReleased(ctx, queue.SeatReleasedEvent{
		ReservationID: body.ReservationID,
		ScheduleID:    scheduleID,
		Reason:        "released",
		ReleasedAt:    time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id":    scheduleID,
		"reservation_id": body.ReservationID,
		"released":       true,
	})
}

// ReleaseSeatForLeg handles POST /v1/seats/release/leg.  Leg-level
// counterpart of ReleaseSeat.
func (h *SeatHandler) ReleaseSeatForLeg(c echo.Context) error {
	var body struct {
		LegID uint64 `json:"leg_id"`
	}
	if err := c.Bind(&body); err != nil || body.LegID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "leg_id is required"})
	}
	ctx := c.Request().Context()
	scheduleID, err := h.Svc.ReleaseSeatForLeg(ctx, body.LegID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLegNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation leg not found"})
		case errors.Is(err, repository.ErrFlightSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no seat held by this leg"})
		case errors.Is(err, repository.ErrSeatConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat is no longer held by this leg"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seat"})
	}
	middleware.InvalidateSeatMap(ctx, h.RDB, h.CacheCfg, scheduleID)
	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id": scheduleID,
		"leg_id":      body.LegID,
		"released":    true,
	})
}
