package handler // handler package contains staff-facing hall inventory handlers

import (
	"net/http" // http defines status code constants
	"strings"  // strings trims request fields

	"github.com/iliyamo/cinema-ticketing/internal/repository" // repository exposes the data access layer
	"github.com/labstack/echo/v4"                             // echo framework supplies the request context
)

// CreateHall handles POST /v1/halls.  Hall names are unique per region;
// a duplicate name is rejected with 409.
func (h *AdminHandler) CreateHall(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	hall, err := ds.Halls.Create(c.Request().Context(), name)
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusCreated, hall)
}

// AddRows handles POST /v1/halls/:id/rows.  The body carries a batch of
// rows; the whole batch lands or none of it does.  Row numbers must be
// unique within the hall and seat counts positive.
func (h *AdminHandler) AddRows(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	hallID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var body struct {
		Rows []repository.RowInput `json:"rows"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Rows) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows is required"})
	}
	for _, in := range body.Rows {
		if in.RowNumber == 0 || in.SeatCount == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "row_number and seat_count must be greater than zero"})
		}
	}
	rows, err := ds.Halls.AddRows(c.Request().Context(), hallID, body.Rows)
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"rows": rows})
}

// MaterializeSeats handles POST /v1/rows/:id/seats.  It generates the
// physical seats 1..seat_count for the row; a row whose seats already
// exist is rejected with 409 so seat IDs stay stable once referenced by
// reservations.
func (h *AdminHandler) MaterializeSeats(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	rowID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid row id"})
	}
	var body struct {
		SeatType string `json:"seat_type"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	seatType := strings.TrimSpace(body.SeatType)
	if seatType == "" {
		seatType = "standard"
	}
	seats, err := ds.Seats.Materialize(c.Request().Context(), rowID, seatType)
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"seats": seats})
}

// DeleteHall handles DELETE /v1/halls/:id, ADMIN only.  A hall that any
// show references cannot be removed.
func (h *AdminHandler) DeleteHall(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	hallID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	if err := ds.Halls.Delete(c.Request().Context(), hallID); err != nil {
		return domainJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
