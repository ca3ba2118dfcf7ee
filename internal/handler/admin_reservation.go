package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ReserveForUser handles POST /v1/shows/:id/reserve-for-user.  Staff at
// the box office reserve on behalf of a walk-in customer by supplying
// the target user_id; the hold obeys the same all-or-nothing semantics
// as a self-service reservation.
func (h *AdminHandler) ReserveForUser(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	showID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var body struct {
		UserID  uint64   `json:"user_id"`
		SeatIDs []uint64 `json:"seat_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}
	if len(body.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
	}
	res, err := ds.Reservations.Reserve(c.Request().Context(), body.UserID, showID, body.SeatIDs)
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// ListPayments handles GET /v1/payments, ADMIN only.  Payments are
// immutable settlement records, newest first.
func (h *AdminHandler) ListPayments(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	payments, err := ds.Payments.ListAll(c.Request().Context())
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": payments})
}
