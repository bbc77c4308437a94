package repository // repository defines data access for flights

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/model"
)

// ErrFlightNotFound is returned when a flight lookup yields no rows.
var ErrFlightNotFound = errors.New("flight not found")

// FlightRepo manages persistence for flights.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo constructs a FlightRepo with the given DB handle.
func NewFlightRepo(db *sql.DB) *FlightRepo {
	return &FlightRepo{db: db}
}

// Create inserts a new flight and assigns the generated ID back to the
// struct.  SeatLayoutID may be nil for flights whose aircraft has not
// been assigned yet; such flights cannot be sold seats until a layout
// is configured.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) error {
	const q = `INSERT INTO flights (flight_number, origin, destination, base_fare_cents, seat_layout_id)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.FlightNumber, f.Origin, f.Destination, f.BaseFareCents, f.SeatLayoutID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID retrieves a flight by its id.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*model.Flight, error) {
	const q = `SELECT id, flight_number, origin, destination, base_fare_cents, seat_layout_id
	           FROM flights WHERE id = ?`
	var f model.Flight
	var layoutID sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&f.ID, &f.FlightNumber, &f.Origin, &f.Destination, &f.BaseFareCents, &layoutID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	if layoutID.Valid {
		l := uint64(layoutID.Int64)
		f.SeatLayoutID = &l
	}
	return &f, nil
}

// SetLayout assigns a seat layout to a flight.  Existing schedules
// pick the layout up the next time their inventory is materialized.
func (r *FlightRepo) SetLayout(ctx context.Context, flightID, layoutID uint64) error {
	const q = `UPDATE flights SET seat_layout_id = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, layoutID, flightID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFlightNotFound
	}
	return nil
}
