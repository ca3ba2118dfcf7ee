package handler // handler defines the HTTP layer on top of the region registry

import (
	"errors"  // errors provides sentinel comparisons via errors.Is and errors.As
	"net/http" // net/http supplies status code constants
	"strconv" // strconv parses URL parameters to numbers
	"strings" // strings trims and normalizes the region parameter

	"github.com/iliyamo/cinema-ticketing/internal/region"     // region resolves names to datasets
	"github.com/iliyamo/cinema-ticketing/internal/repository" // repository exposes the domain errors
	"github.com/labstack/echo/v4"                             // echo supplies the request context
)

// getUserID extracts the authenticated user ID placed in the context by
// the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole returns the role claim set by the JWT middleware, empty when absent.
func getRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// isStaff reports whether the request carries an ADMIN or EMPLOYEE role.
func isStaff(c echo.Context) bool {
	r := getRole(c)
	return r == "ADMIN" || r == "EMPLOYEE"
}

// paramID parses the named path parameter as a positive integer ID.
func paramID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseUintParam parses a raw query value as a positive integer ID.
func parseUintParam(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// resolveRegion picks the dataset for the request.  The region comes
// from the "region" query parameter, falling back to the X-Region
// header.  Every data route is scoped to exactly one region; there is
// no cross-region fallback.
func resolveRegion(c echo.Context, reg *region.Registry) (*region.Dataset, error) {
	name := strings.ToLower(strings.TrimSpace(c.QueryParam("region")))
	if name == "" {
		name = strings.ToLower(strings.TrimSpace(c.Request().Header.Get("X-Region")))
	}
	if name == "" {
		return nil, errRegionRequired
	}
	return reg.Resolve(name)
}

var errRegionRequired = errors.New("region is required")

// domainJSON maps a domain error to its HTTP response.  Every error
// body carries an "error" message and a machine-readable "kind";
// conflict variants attach their payloads so clients can retry with
// different seats or times.  Unrecognized errors become an opaque 500.
func domainJSON(c echo.Context, err error) error {
	var schedErr *repository.ScheduleConflictError
	var seatsErr *repository.SeatsReservedError
	var invalidErr *repository.InvalidSeatsError
	switch {
	case errors.Is(err, errRegionRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "region is required", "kind": "bad_request"})
	case errors.Is(err, repository.ErrNoSeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "kind": "bad_request"})
	case errors.Is(err, region.ErrUnknownRegion):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown region", "kind": "unknown_region"})
	case errors.Is(err, repository.ErrHallNotFound),
		errors.Is(err, repository.ErrRowNotFound),
		errors.Is(err, repository.ErrMovieNotFound),
		errors.Is(err, repository.ErrShowNotFound),
		errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error(), "kind": "not_found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "kind": "forbidden"})
	case errors.As(err, &schedErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     schedErr.Error(),
			"kind":      "schedule_conflict",
			"conflicts": schedErr.Conflicts,
		})
	case errors.As(err, &seatsErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    seatsErr.Error(),
			"kind":     "seat_already_reserved",
			"seat_ids": seatsErr.SeatIDs,
		})
	case errors.As(err, &invalidErr):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":    invalidErr.Error(),
			"kind":     "invalid_seat",
			"seat_ids": invalidErr.SeatIDs,
		})
	case errors.Is(err, repository.ErrHasReservations):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "kind": "has_reservations"})
	case errors.Is(err, repository.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "operation not allowed in current state", "kind": "invalid_state"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "kind": "conflict"})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error", "kind": "internal"})
}

// Health is a plain liveness endpoint for load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
