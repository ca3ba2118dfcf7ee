package handler

import (
	"net/http"

	"github.com/iliyamo/cinema-ticketing/internal/repository"
	"github.com/iliyamo/cinema-ticketing/internal/ticket"
	"github.com/labstack/echo/v4"
)

// Ticket handles GET /v1/reservations/:id/ticket and streams the PDF
// e-ticket.  Only paid reservations have tickets; pending, cancelled
// and expired ones come back as 409.
func (h *CustomerHandler) Ticket(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	resID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	detail, err := ds.Reservations.GetDetail(c.Request().Context(), resID)
	if err != nil {
		return domainJSON(c, err)
	}
	if detail.UserID != userID && !isStaff(c) {
		return domainJSON(c, repository.ErrForbidden)
	}
	if detail.Status != repository.ReservationPaid {
		return domainJSON(c, repository.ErrInvalidState)
	}
	pdfBytes, err := ticket.Render(detail)
	if err != nil {
		return domainJSON(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="ticket-`+detail.Code+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}
