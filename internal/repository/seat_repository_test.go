package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockSeatRepo(t *testing.T) (*SeatRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSeatRepo(db), mock
}

func TestCountByLayoutReportsGridSize(t *testing.T) {
	repo, mock := newMockSeatRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(180))

	n, err := repo.CountByLayout(ctx, 5)
	if err != nil {
		t.Fatalf("CountByLayout: %v", err)
	}
	if n != 180 {
		t.Errorf("CountByLayout = %d, want 180", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCountByLayoutSeesEmptyLayout(t *testing.T) {
	repo, mock := newMockSeatRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	n, err := repo.CountByLayout(ctx, 9)
	if err != nil {
		t.Fatalf("CountByLayout: %v", err)
	}
	if n != 0 {
		t.Errorf("CountByLayout = %d, want 0", n)
	}
}
