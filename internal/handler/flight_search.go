package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/repository"
)

// FlightSearchHandler serves the public flight search.  It needs no
// authentication: route and date data carry nothing sensitive, and
// passengers browse before they hold an account or a token.
type FlightSearchHandler struct {
	ScheduleRepo *repository.ScheduleRepo
}

// NewFlightSearchHandler constructs a FlightSearchHandler.
func NewFlightSearchHandler(scheduleRepo *repository.ScheduleRepo) *FlightSearchHandler {
	if scheduleRepo == nil {
		panic("nil repository passed to NewFlightSearchHandler")
	}
	return &FlightSearchHandler{ScheduleRepo: scheduleRepo}
}

// SearchFlights handles GET /v1/flights/search.  Query parameters:
// origin and destination (IATA codes, optional), date (YYYY-MM-DD,
// optional; defaults to any upcoming date), page and page_size.
func (h *FlightSearchHandler) SearchFlights(c echo.Context) error {
	origin := strings.ToUpper(strings.TrimSpace(c.QueryParam("origin")))
	destination := strings.ToUpper(strings.TrimSpace(c.QueryParam("destination")))
	date := strings.TrimSpace(c.QueryParam("date"))
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	ps, _ := strconv.Atoi(c.QueryParam("page_size"))
	if ps < 1 {
		ps = 20
	}
	if ps > 100 {
		ps = 100
	}

	q := repository.FlightSearchQuery{
		Origin:      origin,
		Destination: destination,
		Date:        date,
		Page:        page,
		PageSize:    ps,
	}

	items, total, err := h.ScheduleRepo.SearchFlights(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":      items,
		"total":     total,
		"page":      page,
		"page_size": ps,
	})
}
