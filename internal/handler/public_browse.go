package handler

import (
	"net/http"

	"github.com/iliyamo/cinema-ticketing/internal/region"
	"github.com/labstack/echo/v4"
)

// PublicHandler serves the unauthenticated catalog routes: regions,
// halls, seat layouts, movies and show browsing.
type PublicHandler struct {
	Regions *region.Registry
}

// NewPublicHandler constructs a PublicHandler and panics on a nil registry.
func NewPublicHandler(regions *region.Registry) *PublicHandler {
	if regions == nil {
		panic("nil region registry passed to NewPublicHandler")
	}
	return &PublicHandler{Regions: regions}
}

// ListRegions handles GET /v1/regions and returns the closed set of
// configured region names.
func (h *PublicHandler) ListRegions(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"regions": h.Regions.Names()})
}

// ListHalls handles GET /v1/halls.
func (h *PublicHandler) ListHalls(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	halls, err := ds.Halls.List(c.Request().Context())
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"halls": halls})
}

// ListRows handles GET /v1/halls/:id/rows.
func (h *PublicHandler) ListRows(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	hallID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	rows, err := ds.Halls.ListRows(c.Request().Context(), hallID)
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rows": rows})
}

// HallLayout handles GET /v1/halls/:id/layout.  With a show_id query
// parameter each seat carries its live reserved flag for that show;
// without one the layout is purely structural.
func (h *PublicHandler) HallLayout(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	hallID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var showID uint64
	if raw := c.QueryParam("show_id"); raw != "" {
		id, perr := parseUintParam(raw)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show_id"})
		}
		showID = id
	}
	layout, err := ds.Seats.Layout(c.Request().Context(), hallID, showID)
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hall_id": hallID, "rows": layout})
}

// ListMovies handles GET /v1/movies.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	movies, err := ds.Movies.List(c.Request().Context())
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}
