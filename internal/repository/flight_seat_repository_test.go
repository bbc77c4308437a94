package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*FlightSeatRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewFlightSeatRepo(db), mock
}

func TestClaimTxMarksAvailableSeatReserved(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE flight_seats").
		WithArgs(int64(1), int64(77), int64(10), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := repo.DB().BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if err := repo.ClaimTx(ctx, tx, 10, 77); err != nil {
		t.Errorf("ClaimTx = %v, want nil", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestClaimTxLosesRaceOnTakenSeat(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	// zero affected rows: the seat was no longer Available
	mock.ExpectExec("UPDATE flight_seats").
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, _ := repo.DB().BeginTx(ctx, nil)
	if err := repo.ClaimTx(ctx, tx, 10, 77); !errors.Is(err, ErrSeatConflict) {
		t.Errorf("ClaimTx = %v, want ErrSeatConflict", err)
	}
}

func TestReleaseTxRejectsStaleHolder(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	// the holder guard matched no row: someone else holds the seat now
	mock.ExpectExec("UPDATE flight_seats").
		WithArgs(int64(0), int64(10), int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, _ := repo.DB().BeginTx(ctx, nil)
	if err := repo.ReleaseTx(ctx, tx, 10, 77); !errors.Is(err, ErrSeatConflict) {
		t.Errorf("ReleaseTx = %v, want ErrSeatConflict", err)
	}
}

func TestReleaseTxReturnsSeatToPool(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE flight_seats").
		WithArgs(int64(0), int64(10), int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, _ := repo.DB().BeginTx(ctx, nil)
	if err := repo.ReleaseTx(ctx, tx, 10, 77); err != nil {
		t.Errorf("ReleaseTx = %v, want nil", err)
	}
}

func TestMaterializeForSchedule(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT IGNORE INTO flight_seats").
		WithArgs(int64(0), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 180))

	if err := repo.MaterializeForSchedule(ctx, 5); err != nil {
		t.Errorf("MaterializeForSchedule = %v, want nil", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLayoutForSchedule(t *testing.T) {
	t.Run("unknown schedule", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT f.seat_layout_id").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"seat_layout_id"}))

		if _, err := repo.LayoutForSchedule(context.Background(), 99); !errors.Is(err, ErrScheduleNotFound) {
			t.Errorf("LayoutForSchedule = %v, want ErrScheduleNotFound", err)
		}
	})

	t.Run("flight without layout", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT f.seat_layout_id").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"seat_layout_id"}).AddRow(nil))

		if _, err := repo.LayoutForSchedule(context.Background(), 5); !errors.Is(err, ErrLayoutNotConfigured) {
			t.Errorf("LayoutForSchedule = %v, want ErrLayoutNotConfigured", err)
		}
	})

	t.Run("configured", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT f.seat_layout_id").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"seat_layout_id"}).AddRow(int64(3)))

		layoutID, err := repo.LayoutForSchedule(context.Background(), 5)
		if err != nil {
			t.Fatalf("LayoutForSchedule: %v", err)
		}
		if layoutID != 3 {
			t.Errorf("layoutID = %d, want 3", layoutID)
		}
	})
}

func TestListAvailableBySchedule(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{
		"id", "seat_id", "label", "row_num", "col_letter", "cabin_class", "is_exit_row", "price",
	}).
		AddRow(int64(11), int64(1), "1A", int64(1), "A", int64(0), false, int64(45000)).
		AddRow(int64(14), int64(4), "2B", int64(2), "B", int64(2), true, int64(12500))
	mock.ExpectQuery("SELECT fs.id, se.id, se.label").
		WithArgs(int64(5), int64(0)).
		WillReturnRows(rows)

	seats, err := repo.ListAvailableBySchedule(ctx, 5)
	if err != nil {
		t.Fatalf("ListAvailableBySchedule: %v", err)
	}
	if len(seats) != 2 {
		t.Fatalf("len(seats) = %d, want 2", len(seats))
	}
	if seats[0].Cabin != "FIRST" {
		t.Errorf("seats[0].Cabin = %v, want FIRST", seats[0].Cabin)
	}
	if seats[1].Cabin != "ECONOMY" {
		t.Errorf("seats[1].Cabin = %v, want ECONOMY", seats[1].Cabin)
	}
	if seats[1].PriceCents != 12500 {
		t.Errorf("seats[1].PriceCents = %d, want 12500", seats[1].PriceCents)
	}
	if !seats[1].IsExitRow {
		t.Errorf("seats[1].IsExitRow = false, want true")
	}
}

func TestTotalPriceTx(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(int64(11), int64(14)).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(57500)))

	tx, _ := repo.DB().BeginTx(ctx, nil)
	total, err := repo.TotalPriceTx(ctx, tx, []uint64{11, 14})
	if err != nil {
		t.Fatalf("TotalPriceTx: %v", err)
	}
	if total != 57500 {
		t.Errorf("total = %d, want 57500", total)
	}
}

func TestTotalPriceTxEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	tx, _ := repo.DB().BeginTx(ctx, nil)
	total, err := repo.TotalPriceTx(ctx, tx, nil)
	if err != nil || total != 0 {
		t.Errorf("TotalPriceTx(nil) = (%d, %v), want (0, nil)", total, err)
	}
}
