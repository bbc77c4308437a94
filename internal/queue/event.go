// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a reservation is successfully
// confirmed with all of its seats claimed. It carries enough denormalized
// detail for downstream consumers to log, notify, or feed analytics
// without querying the primary database.
type BookingConfirmedEvent struct {
	ReservationID      uint64   `json:"reservation_id"`
	UserID             uint64   `json:"user_id"`
	ConfirmationNumber string   `json:"confirmation_number"`
	FlightNumbers      []string `json:"flight_numbers"`
	FlightDates        []string `json:"flight_dates"`
	SeatLabels         []string `json:"seats"`
	TotalAmountCents   uint32   `json:"total_amount_cents"`
	ConfirmedAt        string   `json:"confirmed_at"`
}

// SeatReleasedEvent is published whenever a claimed seat returns to the
// open pool, whether through cancellation or reschedule. Consumers use
// it to invalidate caches and to notify waitlisted passengers.
type SeatReleasedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	ScheduleID    uint64 `json:"schedule_id"`
	FlightSeatID  uint64 `json:"flight_seat_id"`
	Reason        string `json:"reason"` // "cancelled" or "rescheduled"
	ReleasedAt    string `json:"released_at"`
}
