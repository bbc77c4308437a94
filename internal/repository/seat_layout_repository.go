package repository // repository defines data access for seat layouts

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions
)

// ErrLayoutNotFound is returned when a seat layout lookup yields no rows.
var ErrLayoutNotFound = errors.New("seat layout not found")

// SeatLayoutRepo provides methods to work with aircraft seat layouts.
type SeatLayoutRepo struct {
	db *sql.DB
}

// NewSeatLayoutRepo constructs a SeatLayoutRepo with the given DB handle.
func NewSeatLayoutRepo(db *sql.DB) *SeatLayoutRepo {
	return &SeatLayoutRepo{db: db}
}

// DB exposes the underlying sql.DB so layout provisioning can run the
// layout insert and the seat grid bulk insert under one transaction.
func (r *SeatLayoutRepo) DB() *sql.DB {
	return r.db
}

// LayoutRecord mirrors the seat_layouts table.
type LayoutRecord struct {
	ID           uint64
	Name         string
	MetadataJSON *string
}

// CreateTx inserts a layout within the provided transaction and
// populates the generated ID.  Layout provisioning also bulk-inserts
// the layout's seat grid, so both happen under one transaction.
func (r *SeatLayoutRepo) CreateTx(ctx context.Context, tx *sql.Tx, l *LayoutRecord) error {
	const q = `INSERT INTO seat_layouts (name, metadata_json) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, q, l.Name, l.MetadataJSON)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByID retrieves a layout by its id.
func (r *SeatLayoutRepo) GetByID(ctx context.Context, id uint64) (*LayoutRecord, error) {
	const q = `SELECT id, name, metadata_json FROM seat_layouts WHERE id = ?`
	var l LayoutRecord
	var meta sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&l.ID, &l.Name, &meta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLayoutNotFound
		}
		return nil, err
	}
	if meta.Valid {
		m := meta.String
		l.MetadataJSON = &m
	}
	return &l, nil
}
