package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/repository"
)

func newMockService(t *testing.T) (*SeatService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	svc := NewSeatService(db, repository.NewFlightSeatRepo(db), repository.NewReservationRepo(db))
	return svc, mock
}

func TestReserveSeatCommitsClaimAndBackPointer(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE flight_seats").
		WithArgs(int64(1), int64(77), int64(10), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE reservations").
		WithArgs(int64(10), int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT schedule_id FROM flight_seats").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id"}).AddRow(int64(9)))
	mock.ExpectCommit()

	scheduleID, err := svc.ReserveSeat(context.Background(), 10, 77)
	if err != nil {
		t.Fatalf("ReserveSeat: %v", err)
	}
	if scheduleID != 9 {
		t.Errorf("scheduleID = %d, want 9", scheduleID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReserveSeatLostRaceRollsBack(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE flight_seats").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.ReserveSeat(context.Background(), 10, 77)
	if !errors.Is(err, repository.ErrSeatConflict) {
		t.Errorf("ReserveSeat = %v, want ErrSeatConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReserveSeatMissingReservationRollsBackClaim(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	// the claim itself succeeds
	mock.ExpectExec("UPDATE flight_seats").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// but the back-pointer matches no reservation, so everything reverts
	mock.ExpectExec("UPDATE reservations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.ReserveSeat(context.Background(), 10, 404)
	if !errors.Is(err, repository.ErrReservationNotFound) {
		t.Errorf("ReserveSeat = %v, want ErrReservationNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReleaseSeatWithNothingHeld(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, schedule_id FROM flight_seats").
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schedule_id"}))
	mock.ExpectRollback()

	_, err := svc.ReleaseSeat(context.Background(), 77)
	if !errors.Is(err, repository.ErrFlightSeatNotFound) {
		t.Errorf("ReleaseSeat = %v, want ErrFlightSeatNotFound", err)
	}
}

func TestReleaseSeatRoundTrip(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, schedule_id FROM flight_seats").
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schedule_id"}).AddRow(int64(10), int64(9)))
	mock.ExpectExec("UPDATE flight_seats").
		WithArgs(int64(0), int64(10), int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE reservations").
		WithArgs(int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	scheduleID, err := svc.ReleaseSeat(context.Background(), 77)
	if err != nil {
		t.Fatalf("ReleaseSeat: %v", err)
	}
	if scheduleID != 9 {
		t.Errorf("scheduleID = %d, want 9", scheduleID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEnsureFlightSeatsShortCircuitsWhenMaterialized(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	if err := svc.EnsureFlightSeats(context.Background(), 5); err != nil {
		t.Errorf("EnsureFlightSeats = %v, want nil", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEnsureFlightSeatsMaterializesOnFirstAccess(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("SELECT f.seat_layout_id").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_layout_id"}).AddRow(int64(3)))
	mock.ExpectExec("INSERT IGNORE INTO flight_seats").
		WithArgs(int64(0), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 180))

	if err := svc.EnsureFlightSeats(context.Background(), 5); err != nil {
		t.Errorf("EnsureFlightSeats = %v, want nil", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEnsureFlightSeatsWithoutLayout(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("SELECT f.seat_layout_id").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_layout_id"}).AddRow(nil))

	if err := svc.EnsureFlightSeats(context.Background(), 5); !errors.Is(err, repository.ErrLayoutNotConfigured) {
		t.Errorf("EnsureFlightSeats = %v, want ErrLayoutNotConfigured", err)
	}
}

func TestReserveSeatsForLegsAllOrNothing(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	// first leg claims fine
	mock.ExpectQuery("SELECT id, reservation_id, schedule_id").
		WithArgs(int64(201)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_id", "schedule_id", "leg_order", "flight_seat_id"}).
			AddRow(int64(201), int64(77), int64(5), int64(1), nil))
	mock.ExpectExec("UPDATE flight_seats").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE reservation_legs").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT schedule_id FROM flight_seats").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id"}).AddRow(int64(5)))
	// second leg loses its seat, so the first claim must revert too
	mock.ExpectQuery("SELECT id, reservation_id, schedule_id").
		WithArgs(int64(202)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_id", "schedule_id", "leg_order", "flight_seat_id"}).
			AddRow(int64(202), int64(77), int64(6), int64(2), nil))
	mock.ExpectExec("UPDATE flight_seats").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.ReserveSeatsForLegs(context.Background(), []LegSeatAssignment{
		{LegID: 201, FlightSeatID: 10},
		{LegID: 202, FlightSeatID: 20},
	})
	if !errors.Is(err, repository.ErrSeatConflict) {
		t.Errorf("ReserveSeatsForLegs = %v, want ErrSeatConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReserveSeatsForLegsEmpty(t *testing.T) {
	svc, _ := newMockService(t)
	ids, err := svc.ReserveSeatsForLegs(context.Background(), nil)
	if err != nil || ids != nil {
		t.Errorf("ReserveSeatsForLegs(nil) = (%v, %v), want (nil, nil)", ids, err)
	}
}
