package handler

import (
	"net/http" // HTTP status codes
	"strings"
	"time" // expiry timestamp rendering

	"github.com/iliyamo/cinema-ticketing/internal/queue"
	"github.com/iliyamo/cinema-ticketing/internal/region"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
	queue_publisher "github.com/iliyamo/cinema-ticketing/internal/service"
	"github.com/labstack/echo/v4"
)

// CustomerHandler groups the routes a ticket buyer uses: reserving
// seats, inspecting and cancelling their reservations, paying, and
// downloading the e-ticket.  JWT authentication and role checks have
// already run in middleware; methods may still return 401 when the
// user ID cannot be extracted from the context.
type CustomerHandler struct {
	Regions *region.Registry
	TTL     time.Duration // how long a pending reservation lives before the sweep expires it
}

// NewCustomerHandler constructs a CustomerHandler with the provided
// registry and pending-reservation lifetime.
func NewCustomerHandler(regions *region.Registry, ttl time.Duration) *CustomerHandler {
	if regions == nil {
		panic("nil region registry passed to NewCustomerHandler")
	}
	return &CustomerHandler{Regions: regions, TTL: ttl}
}

// Reserve handles POST /v1/shows/:id/reserve.  The body carries a
// "seat_ids" array; the hold is all or nothing, and a lost race comes
// back as 409 naming the seats that are already taken.  The response
// includes expires_at: an unpaid reservation is expired by the sweep
// after the configured lifetime.
func (h *CustomerHandler) Reserve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	showID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var body struct {
		SeatIDs []uint64 `json:"seat_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
	}
	res, err := ds.Reservations.Reserve(c.Request().Context(), userID, showID, body.SeatIDs)
	if err != nil {
		return domainJSON(c, err)
	}
	resp := echo.Map{"reservation": res}
	if created, perr := repository.ParseDBTime(res.CreatedAt); perr == nil {
		resp["expires_at"] = created.Add(h.TTL).Format(time.RFC3339)
	}
	return c.JSON(http.StatusCreated, resp)
}

// CancelReservation handles DELETE /v1/reservations/:id.  Only pending
// reservations can be cancelled; the freed seats become reservable the
// moment the transaction commits.  Staff may cancel any reservation,
// customers only their own.
func (h *CustomerHandler) CancelReservation(c echo.Context) error {
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
	if err := ds.Reservations.Cancel(c.Request().Context(), resID, userID, isStaff(c)); err != nil {
		return domainJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MyReservations handles GET /v1/my-reservations and lists the caller's
// reservations with show, hall, movie and seat details, newest first.
func (h *CustomerHandler) MyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ds, err := resolveRegion(c, h.Regions)
	if err != nil {
		return domainJSON(c, err)
	}
	details, err := ds.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return domainJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": details})
}

// GetReservation handles GET /v1/reservations/:id.  Customers can only
// read their own reservations; staff can read any.
func (h *CustomerHandler) GetReservation(c echo.Context) error {
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
	return c.JSON(http.StatusOK, detail)
}

// Pay handles POST /v1/reservations/:id/pay.  The body carries the
// payment_method string recorded on the payment row.  Settlement is
// atomic: the payment record and the pending-to-paid promotion commit
// together, and the charged amount comes from the price snapshot taken
// at reservation time, so later price edits never change what an
// existing reservation owes.  A payment.settled event is published
// best-effort after commit.
func (h *CustomerHandler) Pay(c echo.Context) error {
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
	var body struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	method := strings.TrimSpace(body.PaymentMethod)
	if method == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method is required"})
	}
	payment, err := ds.Payments.Settle(c.Request().Context(), resID, userID, method, isStaff(c))
	if err != nil {
		return domainJSON(c, err)
	}
	// Enrich and publish after commit; a broker outage must not fail the
	// settlement that already happened.
	event := queue.PaymentSettledEvent{
		Region:        ds.Name,
		PaymentID:     payment.ID,
		Reference:     payment.Reference,
		ReservationID: payment.ReservationID,
		UserID:        payment.UserID,
		AmountCents:   payment.AmountCents,
		Method:        payment.Method,
		SettledAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if detail, derr := ds.Reservations.GetDetail(c.Request().Context(), resID); derr == nil {
		event.Code = detail.Code
		event.ShowID = detail.ShowID
		event.MovieTitle = detail.MovieTitle
		event.HallName = detail.HallName
		event.SeatCount = uint32(len(detail.Seats))
	}
	if perr := queue_publisher.PublishPaymentSettled(c.Request().Context(), event); perr != nil {
		c.Logger().Warnf("payment.settled publish failed: %v", perr)
	}
	return c.JSON(http.StatusCreated, payment)
}
