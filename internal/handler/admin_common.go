package handler

import (
	"github.com/iliyamo/cinema-ticketing/internal/region"
)

// AdminHandler serves the staff-facing management routes: hall and seat
// inventory, the movie catalog, show scheduling and payment listings.
// Role enforcement happens in middleware; handlers only distinguish
// ADMIN from EMPLOYEE where an operation is admin-only.
type AdminHandler struct {
	Regions *region.Registry
}

// NewAdminHandler constructs an AdminHandler and panics on a nil registry.
func NewAdminHandler(regions *region.Registry) *AdminHandler {
	if regions == nil {
		panic("nil region registry passed to NewAdminHandler")
	}
	return &AdminHandler{Regions: regions}
}
