package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/model"
	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/repository"
)

// AdminHandler covers the provisioning side of the system: seat
// layouts with their seat grids, flights, and flight schedules.  All
// routes require the admin role.
type AdminHandler struct {
	LayoutRepo   *repository.SeatLayoutRepo
	SeatRepo     *repository.SeatRepo
	FlightRepo   *repository.FlightRepo
	ScheduleRepo *repository.ScheduleRepo
}

// NewAdminHandler constructs an AdminHandler.  All dependencies must be
// non-nil.
func NewAdminHandler(layoutRepo *repository.SeatLayoutRepo, seatRepo *repository.SeatRepo, flightRepo *repository.FlightRepo, scheduleRepo *repository.ScheduleRepo) *AdminHandler {
	if layoutRepo == nil || seatRepo == nil || flightRepo == nil || scheduleRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		LayoutRepo:   layoutRepo,
		SeatRepo:     seatRepo,
		FlightRepo:   flightRepo,
		ScheduleRepo: scheduleRepo,
	}
}

type cabinSectionRequest struct {
	Cabin              string   `json:"cabin"` // FIRST, BUSINESS or ECONOMY
	Rows               uint32   `json:"rows"`
	Cols               uint32   `json:"cols"`
	PriceModifierCents *uint32  `json:"price_modifier_cents,omitempty"`
	ExitRows           []uint32 `json:"exit_rows,omitempty"` // 1-based within this section
	Premium            bool     `json:"premium"`
}

func parseCabin(s string) (model.CabinClass, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIRST":
		return model.CabinFirst, true
	case "BUSINESS":
		return model.CabinBusiness, true
	case "ECONOMY":
		return model.CabinEconomy, true
	}
	return 0, false
}

// CreateLayout handles POST /v1/admin/layouts.  The body names the
// layout and describes its cabin sections front to back; the handler
// generates the full seat grid with continuous row numbering and
// bulk-inserts it together with the layout record in one transaction.
func (h *AdminHandler) CreateLayout(c echo.Context) error {
	var body struct {
		Name         string                `json:"name"`
		MetadataJSON *string               `json:"metadata_json,omitempty"`
		Cabins       []cabinSectionRequest `json:"cabins"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if len(body.Cabins) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cabins is required"})
	}

	seats := make([]model.Seat, 0)
	rowOffset := uint32(0)
	for _, sect := range body.Cabins {
		cabin, ok := parseCabin(sect.Cabin)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown cabin: " + sect.Cabin})
		}
		if sect.Rows == 0 || sect.Cols == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows and cols must be positive"})
		}
		exit := make(map[uint32]bool, len(sect.ExitRows))
		for _, r := range sect.ExitRows {
			exit[r] = true
		}
		for row := uint32(1); row <= sect.Rows; row++ {
			for col := uint32(0); col < sect.Cols; col++ {
				letter := indexToRowLabel(int(col))
				absRow := rowOffset + row
				seats = append(seats, model.Seat{
					RowNumber:     absRow,
					ColLetter:     letter,
					Label:         strconv.FormatUint(uint64(absRow), 10) + letter,
					CabinClass:    cabin,
					IsExitRow:     exit[row],
					IsPremium:     sect.Premium,
					PriceModifier: sect.PriceModifierCents,
				})
			}
		}
		rowOffset += sect.Rows
	}

	ctx := c.Request().Context()
	tx, err := h.LayoutRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	layout := &repository.LayoutRecord{Name: body.Name, MetadataJSON: body.MetadataJSON}
	if err := h.LayoutRepo.CreateTx(ctx, tx, layout); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create layout"})
	}
	for i := range seats {
		seats[i].SeatLayoutID = layout.ID
	}
	if err := h.SeatRepo.CreateBulkTx(ctx, tx, seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"seat_layout_id": layout.ID,
		"seat_count":     len(seats),
	})
}

// GetLayout handles GET /v1/admin/layouts/:id and returns the layout
// with its full seat grid.
func (h *AdminHandler) GetLayout(c echo.Context) error {
	layoutID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid layout id"})
	}
	ctx := c.Request().Context()
	layout, err := h.LayoutRepo.GetByID(ctx, layoutID)
	if err != nil {
		if errors.Is(err, repository.ErrLayoutNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "layout not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load layout"})
	}
	seats, err := h.SeatRepo.GetByLayout(ctx, layoutID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	type seatView struct {
		ID        uint64 `json:"id"`
		Label     string `json:"label"`
		RowNumber uint32 `json:"row_number"`
		ColLetter string `json:"col_letter"`
		Cabin     string `json:"cabin"`
		IsExitRow bool   `json:"is_exit_row"`
		IsPremium bool   `json:"is_premium"`
	}
	views := make([]seatView, 0, len(seats))
	for _, s := range seats {
		views = append(views, seatView{
			ID:        s.ID,
			Label:     s.Label,
			RowNumber: s.RowNumber,
			ColLetter: s.ColLetter,
			Cabin:     s.CabinClass.String(),
			IsExitRow: s.IsExitRow,
			IsPremium: s.IsPremium,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"seat_layout_id": layout.ID,
		"name":           layout.Name,
		"seat_count":     len(views),
		"seats":          views,
	})
}

// CreateFlight handles POST /v1/admin/flights.
func (h *AdminHandler) CreateFlight(c echo.Context) error {
	var body struct {
		FlightNumber  string  `json:"flight_number"`
		Origin        string  `json:"origin"`
		Destination   string  `json:"destination"`
		BaseFareCents uint32  `json:"base_fare_cents"`
		SeatLayoutID  *uint64 `json:"seat_layout_id,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.FlightNumber = strings.TrimSpace(body.FlightNumber)
	body.Origin = strings.ToUpper(strings.TrimSpace(body.Origin))
	body.Destination = strings.ToUpper(strings.TrimSpace(body.Destination))
	if body.FlightNumber == "" || body.Origin == "" || body.Destination == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_number, origin and destination are required"})
	}
	if body.Origin == body.Destination {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination must differ"})
	}
	ctx := c.Request().Context()
	if body.SeatLayoutID != nil {
		if _, err := h.LayoutRepo.GetByID(ctx, *body.SeatLayoutID); err != nil {
			if errors.Is(err, repository.ErrLayoutNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "layout not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	f := &model.Flight{
		FlightNumber:  body.FlightNumber,
		Origin:        body.Origin,
		Destination:   body.Destination,
		BaseFareCents: body.BaseFareCents,
		SeatLayoutID:  body.SeatLayoutID,
	}
	if err := h.FlightRepo.Create(ctx, f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create flight"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"flight_id": f.ID})
}

// SetFlightLayout handles PUT /v1/admin/flights/:id/layout.  Assigning
// a layout only affects schedules whose inventory has not been
// materialized yet; existing flight_seats rows are never regenerated.
func (h *AdminHandler) SetFlightLayout(c echo.Context) error {
	flightID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	var body struct {
		SeatLayoutID uint64 `json:"seat_layout_id"`
	}
	if err := c.Bind(&body); err != nil || body.SeatLayoutID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_layout_id is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.LayoutRepo.GetByID(ctx, body.SeatLayoutID); err != nil {
		if errors.Is(err, repository.ErrLayoutNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "layout not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	// A layout with no seats would materialize empty inventory for
	// every schedule of this flight; refuse it up front.
	n, err := h.SeatRepo.CountByLayout(ctx, body.SeatLayoutID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if n == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "layout has no seats"})
	}
	if err := h.FlightRepo.SetLayout(ctx, flightID, body.SeatLayoutID); err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update flight"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"flight_id":      flightID,
		"seat_layout_id": body.SeatLayoutID,
	})
}

// CreateSchedule handles POST /v1/admin/schedules.  A schedule is one
// dated operation of a flight; its seat inventory is materialized
// lazily on first access, not here.
func (h *AdminHandler) CreateSchedule(c echo.Context) error {
	var body struct {
		FlightID   uint64 `json:"flight_id"`
		FlightDate string `json:"flight_date"` // YYYY-MM-DD
	}
	if err := c.Bind(&body); err != nil || body.FlightID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_id is required"})
	}
	if _, err := time.Parse("2006-01-02", body.FlightDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_date must be YYYY-MM-DD"})
	}
	ctx := c.Request().Context()
	if _, err := h.FlightRepo.GetByID(ctx, body.FlightID); err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	s := &model.Schedule{
		FlightID:   body.FlightID,
		FlightDate: body.FlightDate,
	}
	if err := h.ScheduleRepo.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create schedule"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"schedule_id": s.ID,
		"flight_id":   s.FlightID,
		"flight_date": s.FlightDate,
	})
}
