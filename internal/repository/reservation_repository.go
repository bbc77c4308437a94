package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/model"
)

// ErrReservationNotFound is returned when a reservation lookup yields no rows.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrLegNotFound is returned when a reservation leg lookup yields no rows.
var ErrLegNotFound = errors.New("reservation leg not found")

// ReservationRepo provides CRUD operations for reservations and their
// legs.  A reservation groups one seat per travel segment; the seat
// references live both on the flight_seats row (holder column) and on
// the reservation/leg row (flight_seat_id back-pointer), and the two
// must be updated inside one transaction so neither can dangle.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// NewConfirmationNumber generates the booking reference handed to the
// passenger: 12 uppercase hex characters from a CSPRNG, long enough
// that collisions are not a practical concern at airline volumes.
func NewConfirmationNumber() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction.  It populates the generated ID and the DB-default
// timestamps on the provided record.  The caller must commit or roll
// back the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, schedule_id, status, confirmation_number) VALUES (?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.UserID, res.ScheduleID, res.Status, res.ConfirmationNumber)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	var updated sql.NullTime
	if err := tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &updated); err != nil {
		return err
	}
	if updated.Valid {
		u := updated.Time
		res.UpdatedAt = &u
	}
	return nil
}

// CreateLegTx inserts a single reservation leg within the provided
// transaction and populates its generated ID.  Legs are inserted one
// by one rather than in bulk because the seat claim that follows needs
// each leg's ID.
func (r *ReservationRepo) CreateLegTx(ctx context.Context, tx *sql.Tx, leg *model.ReservationLeg) error {
	const q = `INSERT INTO reservation_legs (reservation_id, schedule_id, leg_order) VALUES (?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, leg.ReservationID, leg.ScheduleID, leg.LegOrder)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	leg.ID = uint64(id)
	return nil
}

// GetTx retrieves a reservation by id within a transaction, returning
// ErrReservationNotFound when it does not exist.
func (r *ReservationRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, user_id, schedule_id, status, confirmation_number, flight_seat_id, created_at, updated_at
	           FROM reservations WHERE id = ?`
	return scanReservation(tx.QueryRowContext(ctx, q, id))
}

// GetLegTx retrieves a reservation leg by id within a transaction,
// returning ErrLegNotFound when it does not exist.  The engine uses it
// to resolve a leg's parent reservation before claiming, since the
// flight_seats holder column stores the parent.
func (r *ReservationRepo) GetLegTx(ctx context.Context, tx *sql.Tx, legID uint64) (*model.ReservationLeg, error) {
	const q = `SELECT id, reservation_id, schedule_id, leg_order, flight_seat_id
	           FROM reservation_legs WHERE id = ?`
	var leg model.ReservationLeg
	var seatID sql.NullInt64
	err := tx.QueryRowContext(ctx, q, legID).Scan(&leg.ID, &leg.ReservationID, &leg.ScheduleID, &leg.LegOrder, &seatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLegNotFound
		}
		return nil, err
	}
	if seatID.Valid {
		s := uint64(seatID.Int64)
		leg.FlightSeatID = &s
	}
	return &leg, nil
}

// LegsByReservationTx returns all legs of a reservation in leg order.
func (r *ReservationRepo) LegsByReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) ([]model.ReservationLeg, error) {
	const q = `SELECT id, reservation_id, schedule_id, leg_order, flight_seat_id
	           FROM reservation_legs WHERE reservation_id = ? ORDER BY leg_order`
	rows, err := tx.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var legs []model.ReservationLeg
	for rows.Next() {
		var leg model.ReservationLeg
		var seatID sql.NullInt64
		if err := rows.Scan(&leg.ID, &leg.ReservationID, &leg.ScheduleID, &leg.LegOrder, &seatID); err != nil {
			return nil, err
		}
		if seatID.Valid {
			s := uint64(seatID.Int64)
			leg.FlightSeatID = &s
		}
		legs = append(legs, leg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return legs, nil
}

// SetSeatTx points a reservation at the flight seat it just claimed.
// Zero affected rows means the reservation does not exist, in which
// case the caller must roll back the claim – the seat row and the
// back-pointer move together or not at all.
func (r *ReservationRepo) SetSeatTx(ctx context.Context, tx *sql.Tx, reservationID, flightSeatID uint64) error {
	const q = `UPDATE reservations SET flight_seat_id = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, flightSeatID, reservationID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// ClearSeatTx removes a reservation's seat back-pointer after release.
// A reservation that never pointed anywhere is not an error here; the
// release itself was already validated against the seat row.
func (r *ReservationRepo) ClearSeatTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
	const q = `UPDATE reservations SET flight_seat_id = NULL, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, reservationID)
	return err
}

// SetLegSeatTx points a reservation leg at the flight seat it just
// claimed.  Like SetSeatTx, zero affected rows aborts the claim.
func (r *ReservationRepo) SetLegSeatTx(ctx context.Context, tx *sql.Tx, legID, flightSeatID uint64) error {
	const q = `UPDATE reservation_legs SET flight_seat_id = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, flightSeatID, legID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLegNotFound
	}
	return nil
}

// ClearLegSeatTx removes a leg's seat back-pointer after release.
func (r *ReservationRepo) ClearLegSeatTx(ctx context.Context, tx *sql.Tx, legID uint64) error {
	const q = `UPDATE reservation_legs SET flight_seat_id = NULL WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, legID)
	return err
}

// UpdateLegScheduleTx moves a leg onto a different schedule during a
// reschedule.  The caller must have released the old seat and claimed
// one on the new schedule inside the same transaction.
func (r *ReservationRepo) UpdateLegScheduleTx(ctx context.Context, tx *sql.Tx, legID, scheduleID uint64) error {
	const q = `UPDATE reservation_legs SET schedule_id = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, scheduleID, legID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLegNotFound
	}
	return nil
}

// UpdateStatusTx sets the reservation status (CONFIRMED, CANCELLED,
// RESCHEDULED).
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, reservationID uint64, status string) error {
	const q = `UPDATE reservations SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, reservationID)
	return err
}

// LegSeatDetail is one leg of a reservation as presented to the
// passenger, with the seat label resolved when a seat is held.
type LegSeatDetail struct {
	LegID        uint64  `json:"leg_id"`
	ScheduleID   uint64  `json:"schedule_id"`
	LegOrder     uint32  `json:"leg_order"`
	FlightNumber string  `json:"flight_number"`
	FlightDate   string  `json:"flight_date"`
	FlightSeatID *uint64 `json:"flight_seat_id,omitempty"`
	SeatLabel    *string `json:"seat_label,omitempty"`
}

// ReservationDetail aggregates a reservation with its legs for display.
type ReservationDetail struct {
	ID                 uint64          `json:"id"`
	Status             string          `json:"status"`
	ConfirmationNumber string          `json:"confirmation_number"`
	Legs               []LegSeatDetail `json:"legs"`
}

// GetDetailForUser returns a single reservation with its legs for the
// given user.  Ownership is enforced in the query: a reservation
// belonging to another user comes back as ErrReservationNotFound, the
// same as one that does not exist.
func (r *ReservationRepo) GetDetailForUser(ctx context.Context, reservationID, userID uint64) (*ReservationDetail, error) {
	const q = `SELECT id, status, confirmation_number FROM reservations WHERE id = ? AND user_id = ?`
	var det ReservationDetail
	err := r.db.QueryRowContext(ctx, q, reservationID, userID).Scan(&det.ID, &det.Status, &det.ConfirmationNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	legs, err := r.legDetails(ctx, det.ID)
	if err != nil {
		return nil, err
	}
	det.Legs = legs
	return &det, nil
}

// ListByUser returns all reservations of a user, newest first, each
// with its legs and resolved seat labels.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT id, status, confirmation_number FROM reservations
	           WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(&d.ID, &d.Status, &d.ConfirmationNumber); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range details {
		legs, err := r.legDetails(ctx, details[i].ID)
		if err != nil {
			return nil, err
		}
		details[i].Legs = legs
	}
	return details, nil
}

// legDetails loads the legs of one reservation with flight and seat
// information joined in.
func (r *ReservationRepo) legDetails(ctx context.Context, reservationID uint64) ([]LegSeatDetail, error) {
	const q = `SELECT rl.id, rl.schedule_id, rl.leg_order, f.flight_number, s.flight_date,
	                  rl.flight_seat_id, se.label
	           FROM reservation_legs rl
	           JOIN schedules s ON s.id = rl.schedule_id
	           JOIN flights f ON f.id = s.flight_id
	           LEFT JOIN flight_seats fs ON fs.id = rl.flight_seat_id
	           LEFT JOIN seats se ON se.id = fs.seat_id
	           WHERE rl.reservation_id = ?
	           ORDER BY rl.leg_order`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	legs := make([]LegSeatDetail, 0)
	for rows.Next() {
		var l LegSeatDetail
		var seatID sql.NullInt64
		var label sql.NullString
		if err := rows.Scan(&l.LegID, &l.ScheduleID, &l.LegOrder, &l.FlightNumber, &l.FlightDate, &seatID, &label); err != nil {
			return nil, err
		}
		if seatID.Valid {
			s := uint64(seatID.Int64)
			l.FlightSeatID = &s
		}
		if label.Valid {
			lb := label.String
			l.SeatLabel = &lb
		}
		legs = append(legs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return legs, nil
}

// scanReservation scans one reservations row from a QueryRow result.
func scanReservation(row *sql.Row) (*model.Reservation, error) {
	var res model.Reservation
	var scheduleID, seatID sql.NullInt64
	var updated sql.NullTime
	err := row.Scan(&res.ID, &res.UserID, &scheduleID, &res.Status, &res.ConfirmationNumber, &seatID, &res.CreatedAt, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if scheduleID.Valid {
		s := uint64(scheduleID.Int64)
		res.ScheduleID = &s
	}
	if seatID.Valid {
		s := uint64(seatID.Int64)
		res.FlightSeatID = &s
	}
	if updated.Valid {
		u := updated.Time
		res.UpdatedAt = &u
	}
	return &res, nil
}
