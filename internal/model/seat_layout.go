package model

// SeatLayout groups the seat templates of one aircraft configuration,
// e.g. "A320-180".  Flights reference a layout; every schedule of such
// a flight materializes its per-date inventory from the layout's seats.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – layout name, unique per fleet configuration.
//  MetadataJSON – optional rendering metadata (aisle gaps, decks).
type SeatLayout struct {
    ID           uint64  // seat_layouts.id
    Name         string  // seat_layouts.name
    MetadataJSON *string // seat_layouts.metadata_json (nullable)
}
