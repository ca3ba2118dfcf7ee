// Package repository defines error types that are reused across multiple
// repositories. These sentinel and typed values allow higher layers such
// as handlers to distinguish between different failure scenarios and to
// answer callers with enough detail to retry intelligently: a seat
// conflict names the seats that were lost, a schedule conflict names the
// shows that block the slot.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a create or delete cannot be performed
// because of conflicting state, such as adding a row number that already
// exists in a hall or deleting a hall that still has shows. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrInvalidState is returned when an operation is not valid for the
// current reservation or payment state: settling a paid or expired
// reservation, cancelling anything that is not pending.
var ErrInvalidState = errors.New("invalid state")

// ErrNoSeats is returned when a reservation request carries no usable
// seat IDs after deduplication.
var ErrNoSeats = errors.New("seat_ids must be non-empty")

// ErrHasReservations is returned when a show cannot be cancelled because
// non-cancelled reservations still reference it. Operators must cancel
// those reservations first; the repository never cascades over paid
// bookings.
var ErrHasReservations = errors.New("show has reservations")

// SeatsReservedError reports a reservation attempt that lost one or more
// seats to an earlier committer. SeatIDs lists exactly the requested
// seats that are already linked to a pending or paid reservation, so the
// client can re-render availability and retry with a different set.
type SeatsReservedError struct {
	SeatIDs []uint64
}

func (e *SeatsReservedError) Error() string {
	return fmt.Sprintf("seats already reserved: %s", joinIDs(e.SeatIDs))
}

// InvalidSeatsError reports requested seat IDs that do not belong to the
// show's hall.
type InvalidSeatsError struct {
	SeatIDs []uint64
}

func (e *InvalidSeatsError) Error() string {
	return fmt.Sprintf("seats not in show's hall: %s", joinIDs(e.SeatIDs))
}

// ScheduleConflictError reports a scheduling attempt that overlaps
// existing shows in the same hall. Conflicts carries the blocking shows
// with their derived intervals so the operator can pick another slot.
type ScheduleConflictError struct {
	Conflicts []ShowConflict
}

// ShowConflict describes one existing show that overlaps a proposed slot.
type ShowConflict struct {
	ShowID     uint64 `json:"show_id"`
	MovieTitle string `json:"movie_title"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

func (e *ScheduleConflictError) Error() string {
	ids := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids = append(ids, fmt.Sprintf("%d", c.ShowID))
	}
	return fmt.Sprintf("schedule conflict with shows: %s", strings.Join(ids, ", "))
}

func joinIDs(ids []uint64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return strings.Join(parts, ", ")
}

// isDuplicateKey reports whether err is the MySQL duplicate-entry error
// (1062). The unique key on reservation_seats(show_id, seat_id) turns a
// racing insert into this error, which repositories translate into a
// SeatsReservedError so callers see the same failure as a pre-checked
// conflict.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
