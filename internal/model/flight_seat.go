package model

import "time"

// SeatStatus is the tri-state availability of one flight seat.  The
// engine only ever moves seats between Available and Reserved;
// Blocked is an administrative state (crew seat, broken recliner)
// that reservation code respects but never enters or leaves.
type SeatStatus uint8

const (
    SeatAvailable SeatStatus = iota // free to claim
    SeatReserved                    // claimed by exactly one reservation
    SeatBlocked                     // withheld from sale by an administrator
)

// String returns the status name used in API responses.
func (s SeatStatus) String() string {
    switch s {
    case SeatAvailable:
        return "AVAILABLE"
    case SeatReserved:
        return "RESERVED"
    case SeatBlocked:
        return "BLOCKED"
    }
    return "UNKNOWN"
}

// FlightSeat is the per-schedule materialization of a seat template:
// the unit of reservation.  There is at most one row per
// (schedule, seat) pair, enforced by a unique key.  The holder
// reference is non-nil exactly when Status is SeatReserved.  Rows are
// never deleted; a cancellation reverts the row to Available so the
// unique-slot invariant survives and re-materialization races cannot
// occur.
//
// Fields:
//  ID                      – primary key identifier.
//  ScheduleID              – schedule this seat is sold on.
//  SeatID                  – seat template being materialized.
//  Status                  – availability status.
//  ReservedByReservationID – reservation currently holding the seat,
//                            nil unless Status is SeatReserved.  For a
//                            leg-level claim this stores the leg's
//                            parent reservation.
//  Price                   – optional per-schedule price override in cents.
//  CreatedAt               – when the row was materialized.
//  UpdatedAt               – last claim or release, nil until touched.
type FlightSeat struct {
    ID                      uint64     // flight_seats.id
    ScheduleID              uint64     // flight_seats.schedule_id
    SeatID                  uint64     // flight_seats.seat_id
    Status                  SeatStatus // flight_seats.status
    ReservedByReservationID *uint64    // flight_seats.reserved_by_reservation_id (nullable)
    Price                   *uint32    // flight_seats.price (nullable, cents)
    CreatedAt               time.Time  // flight_seats.created_at
    UpdatedAt               *time.Time // flight_seats.updated_at (nullable)
}
