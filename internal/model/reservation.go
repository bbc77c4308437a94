package model

import "time"

// Reservation records a passenger's booking.  A single-segment
// booking holds its flight seat directly via FlightSeatID; a
// multi-segment booking holds one seat per leg through its
// ReservationLeg rows instead.  Either way a reservation owns a
// flight seat exclusively while that seat is Reserved, and ownership
// returns to the pool on cancellation.
//
// Fields:
//  ID                 – primary key identifier.
//  UserID             – passenger who booked, from the identity service.
//  ScheduleID         – schedule for single-segment bookings, nil when
//                       the itinerary is expressed through legs.
//  Status             – CONFIRMED, CANCELLED or RESCHEDULED.
//  ConfirmationNumber – booking reference shown to the passenger.
//  FlightSeatID       – seat held by a single-segment booking (nullable).
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last modification timestamp.
type Reservation struct {
    ID                 uint64     // reservations.id
    UserID             uint64     // reservations.user_id
    ScheduleID         *uint64    // reservations.schedule_id (nullable)
    Status             string     // reservations.status
    ConfirmationNumber string     // reservations.confirmation_number
    FlightSeatID       *uint64    // reservations.flight_seat_id (nullable)
    CreatedAt          time.Time  // reservations.created_at
    UpdatedAt          *time.Time // reservations.updated_at (nullable)
}

// Reservation status values persisted in reservations.status.
const (
    ReservationConfirmed   = "CONFIRMED"
    ReservationCancelled   = "CANCELLED"
    ReservationRescheduled = "RESCHEDULED"
)

// ReservationLeg is one travel segment of a reservation.  Each leg
// may hold exactly one flight seat on its schedule; the seat row's
// holder column stores the parent reservation so that the engine's
// holder guard works the same for leg and whole-booking claims.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – parent reservation.
//  ScheduleID    – schedule this leg travels on.
//  LegOrder      – 1 for the first segment, 2 for the return, etc.
//  FlightSeatID  – flight seat held by this leg (nullable).
type ReservationLeg struct {
    ID            uint64  // reservation_legs.id
    ReservationID uint64  // reservation_legs.reservation_id
    ScheduleID    uint64  // reservation_legs.schedule_id
    LegOrder      uint32  // reservation_legs.leg_order
    FlightSeatID  *uint64 // reservation_legs.flight_seat_id (nullable)
}
