package repository // repository for per-schedule flight seat persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/model"
)

// ErrFlightSeatNotFound is returned when a flight seat lookup yields no rows.
var ErrFlightSeatNotFound = errors.New("flight seat not found")

// FlightSeatRepo encapsulates database operations for flight_seats,
// the per-schedule seat inventory.  All mutual exclusion between
// concurrent bookers is delegated to the database: claims and releases
// are single-row conditional updates whose affected-row count decides
// the outcome, so correctness holds across multiple server processes
// sharing one database.  No in-process locking is used anywhere.
type FlightSeatRepo struct {
	db *sql.DB
}

// NewFlightSeatRepo constructs a FlightSeatRepo given a DB handle.
func NewFlightSeatRepo(db *sql.DB) *FlightSeatRepo {
	return &FlightSeatRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *FlightSeatRepo) DB() *sql.DB {
	return r.db
}

// LayoutForSchedule resolves the seat layout of the flight operating a
// schedule.  It returns ErrScheduleNotFound when the schedule does not
// exist and ErrLayoutNotConfigured when the flight has no layout
// assigned, in which case no inventory can be materialized.
func (r *FlightSeatRepo) LayoutForSchedule(ctx context.Context, scheduleID uint64) (uint64, error) {
	const q = `SELECT f.seat_layout_id
	           FROM schedules s
	           JOIN flights f ON f.id = s.flight_id
	           WHERE s.id = ?`
	var layoutID sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, scheduleID).Scan(&layoutID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrScheduleNotFound
		}
		return 0, err
	}
	if !layoutID.Valid {
		return 0, ErrLayoutNotConfigured
	}
	return uint64(layoutID.Int64), nil
}

// HasForSchedule reports whether any inventory row exists for the
// schedule.  Materialization uses it as a cheap short-circuit so the
// common case (inventory already present) costs one indexed lookup.
func (r *FlightSeatRepo) HasForSchedule(ctx context.Context, scheduleID uint64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM flight_seats WHERE schedule_id = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, scheduleID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// MaterializeForSchedule inserts one Available flight_seats row per
// seat template of the schedule's layout, skipping templates that
// already have a row.  INSERT IGNORE together with the unique key on
// (schedule_id, seat_id) makes the statement safe under concurrent
// callers: a duplicate insert attempt is a no-op, never an error, so
// two requests racing to materialize the same schedule both succeed
// and the inventory ends up with exactly one row per template.
func (r *FlightSeatRepo) MaterializeForSchedule(ctx context.Context, scheduleID uint64) error {
	const q = `INSERT IGNORE INTO flight_seats (schedule_id, seat_id, status)
	           SELECT s.id, se.id, ?
	           FROM schedules s
	           JOIN flights f ON f.id = s.flight_id
	           JOIN seats se ON se.seat_layout_id = f.seat_layout_id
	           WHERE s.id = ?`
	_, err := r.db.ExecContext(ctx, q, uint8(model.SeatAvailable), scheduleID)
	return err
}

// AvailableSeat is the seat-map descriptor returned for every seat a
// booker may still claim.  PriceCents is the effective price: the
// per-schedule override when set, otherwise the flight's base fare
// plus the template's modifier.
type AvailableSeat struct {
	FlightSeatID uint64           `json:"flight_seat_id"`
	SeatID       uint64           `json:"seat_id"`
	Label        string           `json:"label"`
	RowNumber    uint32           `json:"row_number"`
	ColLetter    string           `json:"col_letter"`
	CabinClass   model.CabinClass `json:"-"`
	Cabin        string           `json:"cabin"`
	IsExitRow    bool             `json:"is_exit_row"`
	PriceCents   uint32           `json:"price_cents"`
}

// ListAvailableBySchedule returns every Available seat of a schedule
// ordered by row then column.  It is a pure read: it does not touch
// status and does not materialize missing inventory – callers must
// ensure the inventory exists first or the result is legitimately
// empty.
func (r *FlightSeatRepo) ListAvailableBySchedule(ctx context.Context, scheduleID uint64) ([]AvailableSeat, error) {
	const q = `SELECT fs.id, se.id, se.label, se.row_num, se.col_letter, se.cabin_class, se.is_exit_row,
	                  COALESCE(fs.price, f.base_fare_cents + COALESCE(se.price_modifier, 0))
	           FROM flight_seats fs
	           JOIN seats se ON se.id = fs.seat_id
	           JOIN schedules s ON s.id = fs.schedule_id
	           JOIN flights f ON f.id = s.flight_id
	           WHERE fs.schedule_id = ? AND fs.status = ?
	           ORDER BY se.row_num, se.col_letter`
	rows, err := r.db.QueryContext(ctx, q, scheduleID, uint8(model.SeatAvailable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]AvailableSeat, 0)
	for rows.Next() {
		var a AvailableSeat
		var cabin uint8
		if err := rows.Scan(
			&a.FlightSeatID, &a.SeatID, &a.Label, &a.RowNumber, &a.ColLetter,
			&cabin, &a.IsExitRow, &a.PriceCents,
		); err != nil {
			return nil, err
		}
		a.CabinClass = model.CabinClass(cabin)
		a.Cabin = a.CabinClass.String()
		seats = append(seats, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// ClaimTx atomically marks a seat Reserved for a reservation, only if
// the seat is currently Available.  The single conditional UPDATE is
// the compare-and-swap primitive of the whole engine: of N concurrent
// claimants on one seat exactly one statement matches the row, the
// rest see zero affected rows and get ErrSeatConflict.  A Blocked
// seat fails the status predicate the same way, so claims respect
// administrative blocks without special-casing them.
func (r *FlightSeatRepo) ClaimTx(ctx context.Context, tx *sql.Tx, flightSeatID, reservationID uint64) error {
	const q = `UPDATE flight_seats
	           SET status = ?, reserved_by_reservation_id = ?, updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, uint8(model.SeatReserved), reservationID, flightSeatID, uint8(model.SeatAvailable))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return ErrSeatConflict
	}
	return nil
}

// ReleaseTx atomically returns a seat to the pool, guarded by the
// holder: the row only matches while reserved_by_reservation_id still
// equals the releasing reservation.  A stale release (the seat was
// already released and re-claimed by someone else) therefore affects
// zero rows and returns ErrSeatConflict instead of clobbering the new
// holder.
func (r *FlightSeatRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, flightSeatID, reservationID uint64) error {
	const q = `UPDATE flight_seats
	           SET status = ?, reserved_by_reservation_id = NULL, updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND reserved_by_reservation_id = ?`
	res, err := tx.ExecContext(ctx, q, uint8(model.SeatAvailable), flightSeatID, reservationID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return ErrSeatConflict
	}
	return nil
}

// FindHeldByReservationTx returns the id and schedule of the seat
// currently held under a reservation.  For a leg-level claim the
// holder column stores the parent reservation, so multi-leg bookings
// can match several rows; the lowest id is returned, mirroring how
// single-seat cancellation walks its one seat.  Returns
// ErrFlightSeatNotFound when the reservation holds nothing.
func (r *FlightSeatRepo) FindHeldByReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (uint64, uint64, error) {
	const q = `SELECT id, schedule_id FROM flight_seats
	           WHERE reserved_by_reservation_id = ?
	           ORDER BY id LIMIT 1`
	var id, scheduleID uint64
	err := tx.QueryRowContext(ctx, q, reservationID).Scan(&id, &scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrFlightSeatNotFound
		}
		return 0, 0, err
	}
	return id, scheduleID, nil
}

// ScheduleOfTx resolves the schedule a flight seat belongs to.  Claim
// paths use it to report which seat map to refresh after a commit.
func (r *FlightSeatRepo) ScheduleOfTx(ctx context.Context, tx *sql.Tx, flightSeatID uint64) (uint64, error) {
	const q = `SELECT schedule_id FROM flight_seats WHERE id = ?`
	var scheduleID uint64
	err := tx.QueryRowContext(ctx, q, flightSeatID).Scan(&scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrFlightSeatNotFound
		}
		return 0, err
	}
	return scheduleID, nil
}

// TotalPriceTx sums the effective price of the given flight seats,
// falling back to the flight's base fare plus the seat template's
// modifier when no per-seat price override is set.  Booking flows call
// it inside the claim transaction so the quoted total matches the rows
// that actually committed.
func (r *FlightSeatRepo) TotalPriceTx(ctx context.Context, tx *sql.Tx, flightSeatIDs []uint64) (uint32, error) {
	if len(flightSeatIDs) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(flightSeatIDs)), ",")
	q := `SELECT COALESCE(SUM(COALESCE(fs.price, f.base_fare_cents + COALESCE(se.price_modifier, 0))), 0)
	      FROM flight_seats fs
	      JOIN seats se ON se.id = fs.seat_id
	      JOIN schedules s ON s.id = fs.schedule_id
	      JOIN flights f ON f.id = s.flight_id
	      WHERE fs.id IN (` + placeholders + `)`
	args := make([]interface{}, len(flightSeatIDs))
	for i, id := range flightSeatIDs {
		args[i] = id
	}
	var total uint32
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// GetByID retrieves a single inventory row.  Mostly useful for
// diagnostics and tests; reservation paths go through the Tx methods.
func (r *FlightSeatRepo) GetByID(ctx context.Context, id uint64) (*model.FlightSeat, error) {
	const q = `SELECT id, schedule_id, seat_id, status, reserved_by_reservation_id, price, created_at, updated_at
	           FROM flight_seats WHERE id = ?`
	var fs model.FlightSeat
	var status uint8
	var holder sql.NullInt64
	var price sql.NullInt64
	var updated sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&fs.ID, &fs.ScheduleID, &fs.SeatID, &status, &holder, &price, &fs.CreatedAt, &updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightSeatNotFound
		}
		return nil, err
	}
	fs.Status = model.SeatStatus(status)
	if holder.Valid {
		h := uint64(holder.Int64)
		fs.ReservedByReservationID = &h
	}
	if price.Valid {
		p := uint32(price.Int64)
		fs.Price = &p
	}
	if updated.Valid {
		u := updated.Time
		fs.UpdatedAt = &u
	}
	return &fs, nil
}
