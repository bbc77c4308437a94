package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/config"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/middleware"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/model"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/queue"
	qp "github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/queue_publisher"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/repository"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/service"
)

// maxLegsPerBooking bounds one itinerary; anything longer is a routing
// mistake, not a booking.
const maxLegsPerBooking = 4

// BookingHandler implements the passenger-facing booking workflows:
// create a multi-leg reservation with seats, cancel it, reschedule one
// leg, and read it back.  Every mutation runs in a single transaction
// so a booking either gets all of its seats or none of them.
type BookingHandler struct {
	SeatSvc         *service.SeatService
	ReservationRepo *repository.ReservationRepo
	FlightSeatRepo  *repository.FlightSeatRepo
	ScheduleRepo    *repository.ScheduleRepo
	RDB             *redis.Client // may be nil when Redis is unavailable
	CacheCfg        config.SeatMapCacheConfig
}

// NewBookingHandler constructs a BookingHandler.  Repositories and the
// seat service must be non-nil; the Redis client is optional.
func NewBookingHandler(seatSvc *service.SeatService, reservationRepo *repository.ReservationRepo, flightSeatRepo *repository.FlightSeatRepo, scheduleRepo *repository.ScheduleRepo, rdb *redis.Client, cacheCfg config.SeatMapCacheConfig) *BookingHandler {
	if seatSvc == nil || reservationRepo == nil || flightSeatRepo == nil || scheduleRepo == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{
		SeatSvc:         seatSvc,
		ReservationRepo: reservationRepo,
		FlightSeatRepo:  flightSeatRepo,
		ScheduleRepo:    scheduleRepo,
		RDB:             rdb,
		CacheCfg:        cacheCfg,
	}
}

type bookingLegRequest struct {
	ScheduleID   uint64 `json:"schedule_id"`
	FlightSeatID uint64 `json:"flight_seat_id"` // 0 means book the leg without a seat assignment
}

// CreateBooking handles POST /v1/bookings.  The body lists one to four
// legs in travel order, each naming a schedule and optionally a seat.
// All requested seats are claimed inside one transaction: if any seat
// is lost to a concurrent booker the whole booking is rolled back with
// 409 and the client can pick again.  On success a confirmation number
// is returned and a booking.confirmed event is published.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Legs []bookingLegRequest `json:"legs"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Legs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "legs is required"})
	}
	if len(body.Legs) > maxLegsPerBooking {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many legs"})
	}
	ctx := c.Request().Context()

	// Validate schedules and materialize inventory before opening the
	// claim transaction; materialization is idempotent and must not
	// extend the claim's lock window.
	for _, leg := range body.Legs {
		if leg.ScheduleID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id is required on every leg"})
		}
		if _, err := h.ScheduleRepo.GetByID(ctx, leg.ScheduleID); err != nil {
			if errors.Is(err, repository.ErrScheduleNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if leg.FlightSeatID != 0 {
			if err := h.SeatSvc.EnsureFlightSeats(ctx, leg.ScheduleID); err != nil {
				if errors.Is(err, repository.ErrLayoutNotConfigured) {
					return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "flight has no seat layout configured"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to prepare seat inventory"})
			}
		}
	}

	confNum, err := repository.NewConfirmationNumber()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate confirmation number"})
	}

	tx, err := h.FlightSeatRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res := &model.Reservation{
		UserID:             userID,
		Status:             model.ReservationConfirmed,
		ConfirmationNumber: confNum,
	}
	// Single-segment bookings carry their schedule on the reservation
	// itself; itineraries express schedules through their legs.
	if len(body.Legs) == 1 {
		res.ScheduleID = &body.Legs[0].ScheduleID
	}
	if err := h.ReservationRepo.CreateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}

	claimedSeats := make([]uint64, 0, len(body.Legs))
	touchedSchedules := make([]uint64, 0, len(body.Legs))
	for i, legReq := range body.Legs {
		leg := &model.ReservationLeg{
			ReservationID: res.ID,
			ScheduleID:    legReq.ScheduleID,
			LegOrder:      uint32(i + 1),
		}
		if err := h.ReservationRepo.CreateLegTx(ctx, tx, leg); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation leg"})
		}
		if legReq.FlightSeatID == 0 {
			continue
		}
		scheduleID, err := h.SeatSvc.ReserveSeatForLegTx(ctx, tx, legReq.FlightSeatID, leg.ID)
		if err != nil {
			if errors.Is(err, repository.ErrSeatConflict) {
				return c.JSON(http.StatusConflict, echo.Map{
					"error":          "seat is not available",
					"flight_seat_id": legReq.FlightSeatID,
				})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve seat"})
		}
		if scheduleID != legReq.ScheduleID {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":          "seat does not belong to the leg's schedule",
				"flight_seat_id": legReq.FlightSeatID,
			})
		}
		claimedSeats = append(claimedSeats, legReq.FlightSeatID)
		touchedSchedules = append(touchedSchedules, scheduleID)
	}

	// Single-segment bookings also carry the seat on the reservation
	// itself, so the leg-less release path finds it.
	if len(body.Legs) == 1 && body.Legs[0].FlightSeatID != 0 {
		if err := h.ReservationRepo.SetSeatTx(ctx, tx, res.ID, body.Legs[0].FlightSeatID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to attach seat"})
		}
	}

	total, err := h.FlightSeatRepo.TotalPriceTx(ctx, tx, claimedSeats)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to price booking"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	for _, sid := range touchedSchedules {
		middleware.InvalidateSeatMap(ctx, h.RDB, h.CacheCfg, sid)
	}

	// Event publication is best-effort; the booking is already durable.
	if detail, derr := h.ReservationRepo.GetDetailForUser(ctx, res.ID, userID); derr == nil {
		ev := queue.BookingConfirmedEvent{
			ReservationID:      res.ID,
			UserID:             userID,
			ConfirmationNumber: confNum,
			TotalAmountCents:   total,
			ConfirmedAt:        time.Now().UTC().Format(time.RFC3339),
		}
		for _, leg := range detail.Legs {
			ev.FlightNumbers = append(ev.FlightNumbers, leg.FlightNumber)
			ev.FlightDates = append(ev.FlightDates, leg.FlightDate)
			if leg.SeatLabel != nil {
				ev.SeatLabels = append(ev.SeatLabels, *leg.SeatLabel)
			}
		}
		_ = qp.PublishBookingConfirmed(ctx, ev)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id":      res.ID,
		"confirmation_number": confNum,
		"total_amount_cents":  total,
	})
}

// CancelReservation handles DELETE /v1/reservations/:id.  It releases
// every seat the reservation holds and marks the reservation CANCELLED.
// The record is kept, never deleted, so the confirmation number stays
// resolvable.  Cancelling an already cancelled reservation yields 409.
func (h *BookingHandler) CancelReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	tx, err := h.FlightSeatRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.ReservationRepo.GetTx(ctx, tx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	if res.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if res.Status == model.ReservationCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already cancelled"})
	}

	legs, err := h.ReservationRepo.LegsByReservationTx(ctx, tx, resID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load legs"})
	}
	released := make([]queue.SeatReleasedEvent, 0, len(legs))
	for _, leg := range legs {
		if leg.FlightSeatID == nil {
			continue
		}
		seatID := *leg.FlightSeatID
		scheduleID, err := h.SeatSvc.ReleaseSeatForLegTx(ctx, tx, leg.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seat"})
		}
		released = append(released, queue.SeatReleasedEvent{
			ReservationID: resID,
			ScheduleID:    scheduleID,
			FlightSeatID:  seatID,
			Reason:        "cancelled",
		})
	}
	// A reservation-level claim (no legs) is released through the
	// holder index; the mirror pointer on single-segment bookings is
	// cleared regardless.
	if len(released) == 0 && res.FlightSeatID != nil {
		seatID, scheduleID, err := h.FlightSeatRepo.FindHeldByReservationTx(ctx, tx, resID)
		if err == nil {
			if err := h.FlightSeatRepo.ReleaseTx(ctx, tx, seatID, resID); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seat"})
			}
			released = append(released, queue.SeatReleasedEvent{
				ReservationID: resID,
				ScheduleID:    scheduleID,
				FlightSeatID:  seatID,
				Reason:        "cancelled",
			})
		} else if !errors.Is(err, repository.ErrFlightSeatNotFound) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seat"})
		}
	}
	if res.FlightSeatID != nil {
		if err := h.ReservationRepo.ClearSeatTx(ctx, tx, resID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to detach seat"})
		}
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, resID, model.ReservationCancelled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	now := time.Now().UTC().Format(time.RFC3339)
	for _, ev := range released {
		middleware.InvalidateSeatMap(ctx, h.RDB, h.CacheCfg, ev.ScheduleID)
		ev.ReleasedAt = now
		_ = qp.PublishSeatReleased(ctx, ev)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"reservation_id": resID,
		"status":         model.ReservationCancelled,
		"seats_released": len(released),
	})
}

// RescheduleLeg handles POST /v1/reservations/:id/reschedule.  It moves
// one leg to a new schedule, releasing the old seat and claiming the
// requested one in a single transaction: losing the new seat rolls the
// whole move back, so the passenger keeps their original seat.
func (h *BookingHandler) RescheduleLeg(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		LegID           uint64 `json:"leg_id"`
		NewScheduleID   uint64 `json:"new_schedule_id"`
		NewFlightSeatID uint64 `json:"new_flight_seat_id"` // 0 keeps the leg seatless after the move
	}
	if err := c.Bind(&body); err != nil || body.LegID == 0 || body.NewScheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "leg_id and new_schedule_id are required"})
	}
	ctx := c.Request().Context()

	if _, err := h.ScheduleRepo.GetByID(ctx, body.NewScheduleID); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if body.NewFlightSeatID != 0 {
		if err := h.SeatSvc.EnsureFlightSeats(ctx, body.NewScheduleID); err != nil {
			if errors.Is(err, repository.ErrLayoutNotConfigured) {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "flight has no seat layout configured"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to prepare seat inventory"})
		}
	}

	tx, err := h.FlightSeatRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.ReservationRepo.GetTx(ctx, tx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	if res.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if res.Status == model.ReservationCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is cancelled"})
	}
	leg, err := h.ReservationRepo.GetLegTx(ctx, tx, body.LegID)
	if err != nil {
		if errors.Is(err, repository.ErrLegNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation leg not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load leg"})
	}
	if leg.ReservationID != resID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var releasedEv *queue.SeatReleasedEvent
	if leg.FlightSeatID != nil {
		seatID := *leg.FlightSeatID
		oldScheduleID, err := h.SeatSvc.ReleaseSeatForLegTx(ctx, tx, leg.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release current seat"})
		}
		releasedEv = &queue.SeatReleasedEvent{
			ReservationID: resID,
			ScheduleID:    oldScheduleID,
			FlightSeatID:  seatID,
			Reason:        "rescheduled",
		}
	}
	if err := h.ReservationRepo.UpdateLegScheduleTx(ctx, tx, leg.ID, body.NewScheduleID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to move leg"})
	}
	if body.NewFlightSeatID != 0 {
		scheduleID, err := h.SeatSvc.ReserveSeatForLegTx(ctx, tx, body.NewFlightSeatID, leg.ID)
		if err != nil {
			if errors.Is(err, repository.ErrSeatConflict) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "seat is not available"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve seat"})
		}
		if scheduleID != body.NewScheduleID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat does not belong to the new schedule"})
		}
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, resID, model.ReservationRescheduled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	middleware.InvalidateSeatMap(ctx, h.RDB, h.CacheCfg, body.NewScheduleID)
	if releasedEv != nil {
		middleware.InvalidateSeatMap(ctx, h.RDB, h.CacheCfg, releasedEv.ScheduleID)
		releasedEv.ReleasedAt = time.Now().UTC().Format(time.RFC3339)
		_ = qp.PublishSeatReleased(ctx, *releasedEv)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"reservation_id": resID,
		"leg_id":         body.LegID,
		"schedule_id":    body.NewScheduleID,
		"status":         model.ReservationRescheduled,
	})
}

// GetReservation handles GET /v1/reservations/:id.  Ownership is
// enforced in the query, so another user's reservation is
// indistinguishable from a missing one.
func (h *BookingHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	detail, err := h.ReservationRepo.GetDetailForUser(c.Request().Context(), resID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// ListReservations handles GET /v1/my-reservations.  Returns every
// reservation of the current user, newest first, with legs and seat
// labels resolved.
func (h *BookingHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.ReservationRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}
