package repository // repository defines data access for seat templates

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/model"
)

// SeatRepo provides methods to work with seat templates.  Templates
// belong to a seat layout and are shared by every schedule of every
// flight using that layout; they are written once at provisioning time
// and read-only afterwards.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// CreateBulkTx inserts multiple seat templates in a single statement
// within the provided transaction.  Passing an empty slice has no
// effect and returns nil.  The ID fields of the passed structures are
// not populated.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (seat_layout_id, row_num, col_letter, label, cabin_class, is_exit_row, is_premium, price_modifier) VALUES `
	args := make([]interface{}, 0, len(seats)*8)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, s.SeatLayoutID, s.RowNumber, s.ColLetter, s.Label, uint8(s.CabinClass), s.IsExitRow, s.IsPremium, s.PriceModifier)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByLayout retrieves all seat templates of a layout ordered by row
// then column, the same stable order the seat map presents.
func (r *SeatRepo) GetByLayout(ctx context.Context, layoutID uint64) ([]model.Seat, error) {
	const q = `SELECT id, seat_layout_id, row_num, col_letter, label, cabin_class, is_exit_row, is_premium, price_modifier
	           FROM seats
	           WHERE seat_layout_id = ?
	           ORDER BY row_num, col_letter`
	rows, err := r.db.QueryContext(ctx, q, layoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		var cabin uint8
		var modifier sql.NullInt64
		if err := rows.Scan(
			&s.ID, &s.SeatLayoutID, &s.RowNumber, &s.ColLetter, &s.Label,
			&cabin, &s.IsExitRow, &s.IsPremium, &modifier,
		); err != nil {
			return nil, err
		}
		s.CabinClass = model.CabinClass(cabin)
		if modifier.Valid {
			m := uint32(modifier.Int64)
			s.PriceModifier = &m
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountByLayout returns the number of seat templates in a layout.
// Provisioning uses it to refuse assigning a seatless layout to a
// flight.
func (r *SeatRepo) CountByLayout(ctx context.Context, layoutID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE seat_layout_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, layoutID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
