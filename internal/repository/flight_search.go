package repository

import (
	"context"
	"strings"
)

// FlightSearchQuery defines filters & pagination for searching
// scheduled flights.  Origin and Destination are IATA codes and match
// exactly; Date is "2006-01-02" and empty means any date from today
// onward.
type FlightSearchQuery struct {
	Origin      string
	Destination string
	Date        string
	Page        int
	PageSize    int
}

// FlightSearchRow is one bookable schedule in search results: the
// flight's route joined with the dated operation a passenger would
// actually book.
type FlightSearchRow struct {
	ScheduleID    uint64  `json:"schedule_id"`
	FlightID      uint64  `json:"flight_id"`
	FlightNumber  string  `json:"flight_number"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	FlightDate    string  `json:"flight_date"`
	Status        string  `json:"status"`
	BaseFareCents uint32  `json:"base_fare_cents"`
	BaseFare      float64 `json:"base_fare"`
}

// SearchFlights returns schedules matching the query plus the total
// match count for pagination.  Cancelled schedules are never offered.
func (r *ScheduleRepo) SearchFlights(ctx context.Context, q FlightSearchQuery) ([]FlightSearchRow, int64, error) {
	where := []string{"s.status <> 'CANCELLED'"}
	args := []any{}

	if q.Date != "" {
		where = append(where, "s.flight_date = ?")
		args = append(args, q.Date)
	} else {
		where = append(where, "s.flight_date >= CURDATE()")
	}
	if q.Origin != "" {
		where = append(where, "f.origin = ?")
		args = append(args, strings.ToUpper(q.Origin))
	}
	if q.Destination != "" {
		where = append(where, "f.destination = ?")
		args = append(args, strings.ToUpper(q.Destination))
	}

	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM schedules s
		JOIN flights f ON f.id = s.flight_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			s.id,
			f.id AS flight_id,
			f.flight_number,
			f.origin,
			f.destination,
			s.flight_date,
			s.status,
			f.base_fare_cents
		FROM schedules s
		JOIN flights f ON f.id = s.flight_id
		WHERE ` + cond + `
		ORDER BY s.flight_date ASC, f.flight_number ASC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]FlightSearchRow, 0, limit)
	for rows.Next() {
		var d FlightSearchRow
		if err := rows.Scan(
			&d.ScheduleID,
			&d.FlightID,
			&d.FlightNumber,
			&d.Origin,
			&d.Destination,
			&d.FlightDate,
			&d.Status,
			&d.BaseFareCents,
		); err != nil {
			return nil, 0, err
		}
		d.BaseFare = float64(d.BaseFareCents) / 100.0
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
