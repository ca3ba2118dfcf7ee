package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/iliyamo/cinema-ticketing/internal/money"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
	"github.com/labstack/echo/v4"
)

// CreateShow handles POST /v1/shows.  The start time is RFC3339 and the
// price a decimal string like "20.00"; the show's end time is derived
// from the movie runtime and never part of the request.  An overlap
// with another scheduled show in the same hall fails with 409 naming
// the conflicting shows.
func (h *AdminHandler) CreateShow(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	var body struct {
		MovieID   uint64 `json:"movie_id"`
		HallID    uint64 `json:"hall_id"`
		StartTime string `json:"start_time"`
		Price     string `json:"price"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MovieID == 0 || body.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and hall_id are required"})
	}
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(body.StartTime))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC3339"})
	}
	priceCents, err := money.ParseAmount(body.Price)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price: " + err.Error()})
	}
	show, err := ds.Shows.Schedule(c.Request().Context(), body.MovieID, body.HallID, start.UTC(), priceCents)
	if err != nil {
		return domainJSON(c, err)
	}
	startOut := show.StartTime
	if t, perr := repository.ParseDBTime(show.StartTime); perr == nil {
		startOut = t.Format(time.RFC3339)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         show.ID,
		"movie_id":   show.MovieID,
		"hall_id":    show.HallID,
		"start_time": startOut,
		"price":      money.FormatCents(show.PriceCents),
		"status":     show.Status,
		"created_at": show.CreatedAt,
	})
}

// CancelShow handles DELETE /v1/shows/:id.  Shows are cancelled, never
// deleted, because settled reservations keep referencing them.  A show
// with pending or paid reservations cannot be cancelled.
func (h *AdminHandler) CancelShow(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	showID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	if err := ds.Shows.Cancel(c.Request().Context(), showID); err != nil {
		return domainJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
