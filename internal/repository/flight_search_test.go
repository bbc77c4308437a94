package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockScheduleRepo(t *testing.T) (*ScheduleRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewScheduleRepo(db), mock
}

func TestSearchFlightsFiltersByRouteAndDate(t *testing.T) {
	repo, mock := newMockScheduleRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("2026-09-15", "SGN", "HAN").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("FROM schedules s").
		WithArgs("2026-09-15", "SGN", "HAN", int64(20), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "flight_id", "flight_number", "origin", "destination",
			"flight_date", "status", "base_fare_cents",
		}).
			AddRow(int64(31), int64(4), "VN1205", "SGN", "HAN", "2026-09-15", "SCHEDULED", int64(150000)).
			AddRow(int64(32), int64(7), "VN1331", "SGN", "HAN", "2026-09-15", "SCHEDULED", int64(182500)))

	items, total, err := repo.SearchFlights(ctx, FlightSearchQuery{
		Origin:      "sgn",
		Destination: "han",
		Date:        "2026-09-15",
		Page:        1,
		PageSize:    20,
	})
	if err != nil {
		t.Fatalf("SearchFlights: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total = %d, len = %d, want 2 and 2", total, len(items))
	}
	if items[0].ScheduleID != 31 || items[0].FlightNumber != "VN1205" {
		t.Errorf("first row = %+v, want schedule 31 VN1205", items[0])
	}
	if items[1].BaseFare != 1825.00 {
		t.Errorf("BaseFare = %v, want 1825.00", items[1].BaseFare)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSearchFlightsDefaultsToUpcoming(t *testing.T) {
	repo, mock := newMockScheduleRepo(t)
	ctx := context.Background()

	// no date filter argument: the query pins flight_date >= CURDATE()
	mock.ExpectQuery("flight_date >= CURDATE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("flight_date >= CURDATE").
		WithArgs(int64(20), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "flight_id", "flight_number", "origin", "destination",
			"flight_date", "status", "base_fare_cents",
		}).AddRow(int64(31), int64(4), "VN1205", "SGN", "HAN", "2026-09-15", "SCHEDULED", int64(150000)))

	items, total, err := repo.SearchFlights(ctx, FlightSearchQuery{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("SearchFlights: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("total = %d, len = %d, want 1 and 1", total, len(items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSearchFlightsPaginatesWithOffset(t *testing.T) {
	repo, mock := newMockScheduleRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))
	mock.ExpectQuery("FROM schedules s").
		WithArgs(int64(10), int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "flight_id", "flight_number", "origin", "destination",
			"flight_date", "status", "base_fare_cents",
		}))

	items, total, err := repo.SearchFlights(ctx, FlightSearchQuery{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("SearchFlights: %v", err)
	}
	if total != 45 || len(items) != 0 {
		t.Fatalf("total = %d, len = %d, want 45 and 0", total, len(items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
