// Package service contains the seat inventory engine: materialization
// of per-schedule seat inventory and the transactional claim/release
// protocol that guarantees a seat is never sold twice.
package service

import (
	"context"
	"database/sql"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/repository"
)

// SeatService is the reservation engine.  Every mutation is one
// single-row conditional update on flight_seats plus at most one
// holder back-pointer update, wrapped in a transaction: either both
// commit or neither does, so a seat can never be Reserved without a
// reachable holder nor held by an entity that does not point back at
// it.  The engine takes its store explicitly and keeps no state of
// its own, so any number of server processes can run it against the
// same database.
//
// The engine has no notion of a booking: atomicity is per seat claim.
// Callers composing multi-seat bookings either run the claims inside
// their own outer transaction via the ...Tx methods, or use
// ReserveSeatsForLegs which does exactly that on their behalf.
type SeatService struct {
	db           *sql.DB
	seats        *repository.FlightSeatRepo
	reservations *repository.ReservationRepo
}

// NewSeatService constructs a SeatService.  All dependencies must be
// non-nil.
func NewSeatService(db *sql.DB, seats *repository.FlightSeatRepo, reservations *repository.ReservationRepo) *SeatService {
	if db == nil || seats == nil || reservations == nil {
		panic("nil dependency passed to NewSeatService")
	}
	return &SeatService{db: db, seats: seats, reservations: reservations}
}

// EnsureFlightSeats lazily materializes the seat inventory of a
// schedule from its flight's seat layout.  It is idempotent and safe
// to call concurrently: the common case short-circuits on an indexed
// existence check, and the insert itself tolerates racing duplicates
// through the unique (schedule_id, seat_id) key.  It must run before
// any availability query or claim against the schedule, otherwise the
// schedule legitimately appears to have no seats.
//
// Returns repository.ErrScheduleNotFound for an unknown schedule and
// repository.ErrLayoutNotConfigured when the flight has no layout –
// the engine does not fabricate seats for unconfigured aircraft.
func (s *SeatService) EnsureFlightSeats(ctx context.Context, scheduleID uint64) error {
	exists, err := s.seats.HasForSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if _, err := s.seats.LayoutForSchedule(ctx, scheduleID); err != nil {
		return err
	}
	return s.seats.MaterializeForSchedule(ctx, scheduleID)
}

// AvailableSeats lists every seat still claimable on a schedule in
// stable row/column order.  Read-only; the caller is responsible for
// having ensured the inventory exists.
func (s *SeatService) AvailableSeats(ctx context.Context, scheduleID uint64) ([]repository.AvailableSeat, error) {
	return s.seats.ListAvailableBySchedule(ctx, scheduleID)
}

// ReserveSeat claims a flight seat for a whole reservation (the
// single-segment booking shape).  On success the seat row holds the
// reservation and the reservation points back at the seat, both
// committed together.  Returns the seat's schedule so the caller can
// refresh its seat map.
//
// Losing the race returns repository.ErrSeatConflict with nothing
// changed.  A claim whose reservation turns out not to exist is rolled
// back whole: the conditional update and the back-pointer are inside
// one transaction, so the seat reverts to Available automatically.
func (s *SeatService) ReserveSeat(ctx context.Context, flightSeatID, reservationID uint64) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.seats.ClaimTx(ctx, tx, flightSeatID, reservationID); err != nil {
		return 0, err
	}
	if err := s.reservations.SetSeatTx(ctx, tx, reservationID, flightSeatID); err != nil {
		return 0, err
	}
	scheduleID, err := s.seats.ScheduleOfTx(ctx, tx, flightSeatID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return scheduleID, nil
}

// ReserveSeatForLegTx claims a flight seat for one reservation leg
// inside the caller's transaction.  The flight_seats holder column
// stores the leg's parent reservation, so release guards work the
// same for leg and whole-booking claims.  This is the composable
// per-seat operation multi-leg booking flows loop over; the caller
// decides the transaction boundary and therefore the all-or-nothing
// scope.
func (s *SeatService) ReserveSeatForLegTx(ctx context.Context, tx *sql.Tx, flightSeatID, legID uint64) (uint64, error) {
	leg, err := s.reservations.GetLegTx(ctx, tx, legID)
	if err != nil {
		return 0, err
	}
	if err := s.seats.ClaimTx(ctx, tx, flightSeatID, leg.ReservationID); err != nil {
		return 0, err
	}
	if err := s.reservations.SetLegSeatTx(ctx, tx, legID, flightSeatID); err != nil {
		return 0, err
	}
	return s.seats.ScheduleOfTx(ctx, tx, flightSeatID)
}

// ReserveSeatForLeg is the one-shot form of ReserveSeatForLegTx,
// running in its own transaction.
func (s *SeatService) ReserveSeatForLeg(ctx context.Context, flightSeatID, legID uint64) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	scheduleID, err := s.ReserveSeatForLegTx(ctx, tx, flightSeatID, legID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return scheduleID, nil
}

// ReleaseSeat returns the seat held by a reservation to the pool and
// clears the reservation's back-pointer.  Releasing a reservation that
// holds nothing returns repository.ErrFlightSeatNotFound and changes
// no state – callers treat it as an idempotent no-op, not a failure.
// The release update is guarded on the holder, so a stale release can
// never strip a seat that was already re-claimed by someone else.
func (s *SeatService) ReleaseSeat(ctx context.Context, reservationID uint64) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	flightSeatID, scheduleID, err := s.seats.FindHeldByReservationTx(ctx, tx, reservationID)
	if err != nil {
		return 0, err
	}
	if err := s.seats.ReleaseTx(ctx, tx, flightSeatID, reservationID); err != nil {
		return 0, err
	}
	if err := s.reservations.ClearSeatTx(ctx, tx, reservationID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return scheduleID, nil
}

// ReleaseSeatForLegTx releases the seat held by one leg inside the
// caller's transaction.  A leg holding no seat returns
// repository.ErrFlightSeatNotFound without touching anything.
func (s *SeatService) ReleaseSeatForLegTx(ctx context.Context, tx *sql.Tx, legID uint64) (uint64, error) {
	leg, err := s.reservations.GetLegTx(ctx, tx, legID)
	if err != nil {
		return 0, err
	}
	if leg.FlightSeatID == nil {
		return 0, repository.ErrFlightSeatNotFound
	}
	flightSeatID := *leg.FlightSeatID
	scheduleID, err := s.seats.ScheduleOfTx(ctx, tx, flightSeatID)
	if err != nil {
		return 0, err
	}
	if err := s.seats.ReleaseTx(ctx, tx, flightSeatID, leg.ReservationID); err != nil {
		return 0, err
	}
	if err := s.reservations.ClearLegSeatTx(ctx, tx, legID); err != nil {
		return 0, err
	}
	return scheduleID, nil
}

// ReleaseSeatForLeg is the one-shot form of ReleaseSeatForLegTx.
func (s *SeatService) ReleaseSeatForLeg(ctx context.Context, legID uint64) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	scheduleID, err := s.ReleaseSeatForLegTx(ctx, tx, legID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return scheduleID, nil
}

// LegSeatAssignment pairs one reservation leg with the flight seat it
// wants to claim.
type LegSeatAssignment struct {
	LegID        uint64
	FlightSeatID uint64
}

// ReserveSeatsForLegs claims one seat per leg, all inside a single
// transaction: if any claim conflicts, every claim made so far is
// rolled back and the conflicting seat is reported.  Callers that
// already run their own transaction, such as booking creation which
// inserts the legs it then seats, loop over ReserveSeatForLegTx inside
// that scope instead.
func (s *SeatService) ReserveSeatsForLegs(ctx context.Context, assignments []LegSeatAssignment) ([]uint64, error) {
	if len(assignments) == 0 {
		return nil, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	scheduleIDs := make([]uint64, 0, len(assignments))
	for _, a := range assignments {
		scheduleID, err := s.ReserveSeatForLegTx(ctx, tx, a.FlightSeatID, a.LegID)
		if err != nil {
			return nil, err
		}
		scheduleIDs = append(scheduleIDs, scheduleID)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return scheduleIDs, nil
}
