package handler

import (
	"net/http"
	"strings"

	"github.com/iliyamo/cinema-ticketing/internal/repository"
	"github.com/labstack/echo/v4"
)

// CreateMovie handles POST /v1/movies.  Runtime must be positive since
// show end times are derived from it.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	var body struct {
		Title      string `json:"title"`
		RuntimeMin uint32 `json:"runtime_min"`
		PosterURL  string `json:"poster_url"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title := strings.TrimSpace(body.Title)
	if title == "" || body.RuntimeMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and a positive runtime_min are required"})
	}
	m := &repository.Movie{
		Title:      title,
		RuntimeMin: body.RuntimeMin,
		PosterURL:  strings.TrimSpace(body.PosterURL),
	}
	if err := ds.Movies.Create(c.Request().Context(), m); err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// DeleteMovie handles DELETE /v1/movies/:id, ADMIN only.  Movies with
// scheduled shows cannot be removed.
func (h *AdminHandler) DeleteMovie(c echo.Context) error {
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	movieID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	if err := ds.Movies.Delete(c.Request().Context(), movieID); err != nil {
		return domainJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
