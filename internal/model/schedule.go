package model

// Schedule is one flight operated on one calendar date.  Seat
// inventory is materialized per schedule, not per flight, so two
// dates of the same flight never contend for the same seats.
//
// Fields:
//  ID         – primary key identifier.
//  FlightID   – flight being operated.
//  FlightDate – the calendar date, stored as "2006-01-02".
//  Status     – operational state (SCHEDULED, DELAYED, CANCELLED,
//               COMPLETED).
type Schedule struct {
    ID         uint64 // schedules.id
    FlightID   uint64 // schedules.flight_id
    FlightDate string // schedules.flight_date
    Status     string // schedules.status
}
