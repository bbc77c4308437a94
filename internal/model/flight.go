package model

// Flight is a route operated under a flight number.  The optional
// SeatLayoutID links the flight to its aircraft seat map; a flight
// without a layout cannot have per-schedule seat inventory and any
// attempt to materialize one is a configuration error.
//
// Fields:
//  ID           – primary key identifier.
//  FlightNumber – airline designator plus number, e.g. "VN1205".
//  Origin       – IATA code of the departure airport.
//  Destination  – IATA code of the arrival airport.
//  BaseFareCents– base fare in cents before seat surcharges.
//  SeatLayoutID – aircraft layout, nil when not yet configured.
type Flight struct {
    ID            uint64  // flights.id
    FlightNumber  string  // flights.flight_number
    Origin        string  // flights.origin
    Destination   string  // flights.destination
    BaseFareCents uint32  // flights.base_fare_cents
    SeatLayoutID  *uint64 // flights.seat_layout_id (nullable)
}
