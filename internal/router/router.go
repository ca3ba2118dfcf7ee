package router // router defines how HTTP routes are registered for the API

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/handler"
	"github.com/iliyamo/cinema-ticketing/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints: region
// discovery, hall and seat layouts, the movie catalog and show listings
// including live seat availability.  No JWT or role middleware applies.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/regions", p.ListRegions)
	e.GET("/v1/halls", p.ListHalls)
	e.GET("/v1/halls/:id/rows", p.ListRows)
	e.GET("/v1/halls/:id/layout", p.HallLayout)
	e.GET("/v1/movies", p.ListMovies)
	e.GET("/v1/movies-with-shows", p.MoviesWithShows)
	e.GET("/v1/shows", p.ListShows)
	e.GET("/v1/shows/:id", p.GetShow)
	e.GET("/v1/shows/:id/availability", p.Availability)
}

// RegisterStaff registers the management endpoints under /v1.  All
// routes require a valid JWT; inventory writes accept ADMIN and
// EMPLOYEE while destructive operations and payment listings are
// ADMIN-only.
func RegisterStaff(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "EMPLOYEE"),
	)

	// ---- Halls & seats ----
	g.POST("/halls", a.CreateHall)
	g.POST("/halls/:id/rows", a.AddRows)
	g.POST("/rows/:id/seats", a.MaterializeSeats)

	// ---- Movies ----
	g.POST("/movies", a.CreateMovie)

	// ---- Shows ----
	g.POST("/shows", a.CreateShow)

	// ---- Box office ----
	g.POST("/shows/:id/reserve-for-user", a.ReserveForUser)

	admin := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	admin.DELETE("/halls/:id", a.DeleteHall)
	admin.DELETE("/movies/:id", a.DeleteMovie)
	admin.DELETE("/shows/:id", a.CancelShow)
	admin.GET("/payments", a.ListPayments)
}

// RegisterCustomer registers the ticket-buyer endpoints under /v1.
// Staff roles are accepted too so the box office can inspect and cancel
// reservations on a customer's behalf.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN", "EMPLOYEE"),
	)

	g.POST("/shows/:id/reserve", h.Reserve)
	g.GET("/my-reservations", h.MyReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.DELETE("/reservations/:id", h.CancelReservation)
	g.POST("/reservations/:id/pay", h.Pay)
	g.GET("/reservations/:id/ticket", h.Ticket)
}

// CacheSkipper exempts freshness-critical GETs from the response cache.
// Seat availability and reservation state feed a purchase decision; a
// cached answer there would hand the client a seat map that is already
// stale.
func CacheSkipper(c echo.Context) bool {
	p := c.Path()
	if strings.HasSuffix(p, "/availability") {
		return true
	}
	if strings.HasPrefix(p, "/v1/reservations") || p == "/v1/my-reservations" {
		return true
	}
	// A layout annotated with a show's seat state is as fresh-critical
	// as the availability endpoint itself.
	if strings.HasSuffix(p, "/layout") && c.QueryParam("show_id") != "" {
		return true
	}
	return false
}
