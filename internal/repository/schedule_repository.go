package repository // repository defines data access for schedules

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/model"
)

// ErrScheduleNotFound is returned when a schedule lookup yields no rows.
var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepo manages persistence for schedules.  A schedule is one
// flight on one calendar date; it is the scope within which seat
// inventory is materialized and reserved.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the given DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// Create inserts a new schedule and assigns the generated ID back to
// the struct.  FlightDate must be formatted "2006-01-02"; Status
// defaults to SCHEDULED in the database when empty.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.Schedule) error {
	const q = `INSERT INTO schedules (flight_id, flight_date) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.FlightID, s.FlightDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	// Query back the row to pick up the DB-default status.
	const sel = `SELECT id, flight_id, flight_date, status FROM schedules WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(&s.ID, &s.FlightID, &s.FlightDate, &s.Status)
}

// GetByID retrieves a schedule by its id.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*model.Schedule, error) {
	const q = `SELECT id, flight_id, flight_date, status FROM schedules WHERE id = ?`
	var s model.Schedule
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.FlightID, &s.FlightDate, &s.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}
