package handler

import (
	"net/http"
	"time"

	"github.com/iliyamo/cinema-ticketing/internal/repository"
	"github.com/labstack/echo/v4"
)

// ListShows handles GET /v1/shows with optional movie_id, hall_id, from
// and to filters (RFC3339).  Cancelled shows are hidden unless all=true
// is passed, which staff views use.
func (h *PublicHandler) ListShows(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	var f repository.ShowFilter
	if raw := c.QueryParam("movie_id"); raw != "" {
		id, perr := parseUintParam(raw)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie_id"})
		}
		f.MovieID = id
	}
	if raw := c.QueryParam("hall_id"); raw != "" {
		id, perr := parseUintParam(raw)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall_id"})
		}
		f.HallID = id
	}
	if raw := c.QueryParam("from"); raw != "" {
		t, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be RFC3339"})
		}
		f.From = t.UTC()
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be RFC3339"})
		}
		f.To = t.UTC()
	}
	f.All = c.QueryParam("all") == "true" && isStaff(c)
	shows, err := ds.Shows.List(c.Request().Context(), f)
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": shows})
}

// GetShow handles GET /v1/shows/:id and returns the show joined with
// its movie and hall, including the derived end time.
func (h *PublicHandler) GetShow(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	showID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	detail, err := ds.Shows.GetDetail(c.Request().Context(), showID)
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Availability handles GET /v1/shows/:id/availability.  The response is
// the authoritative list of held seat IDs; it is never served from the
// response cache so a losing reserver always sees fresh state.
func (h *PublicHandler) Availability(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	showID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	held, err := ds.Reservations.Availability(c.Request().Context(), showID)
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"show_id": showID, "reserved_seat_ids": held})
}

// MoviesWithShows handles GET /v1/movies-with-shows: every movie that
// still has an upcoming scheduled show, with those shows nested.
func (h *PublicHandler) MoviesWithShows(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	movies, err := ds.Shows.ListUpcomingByMovie(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}
