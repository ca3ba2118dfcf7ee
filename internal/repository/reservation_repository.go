package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinema-ticketing/internal/money"
)

// Reservation statuses.  pending is the only non-terminal state: it can
// move to paid (settlement), cancelled (explicit) or expired (sweep).
const (
	ReservationPending   = "pending"
	ReservationPaid      = "paid"
	ReservationCancelled = "cancelled"
	ReservationExpired   = "expired"
)

// canTransition reports whether a reservation may move between the two
// states.  paid, cancelled and expired are terminal.
func canTransition(from, to string) bool {
	if from != ReservationPending {
		return false
	}
	switch to {
	case ReservationPaid, ReservationCancelled, ReservationExpired:
		return true
	}
	return false
}

// ErrReservationNotFound indicates that a reservation was not located.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides the seat reservation engine: atomic seat
// holds, availability reads, cancellation, the expiry sweep and the
// denormalized listing views.  Seats reserved under a reservation are
// stored in the reservation_seats table; a link exists exactly while the
// owning reservation is pending or paid, and the unique key on
// (show_id, seat_id) is the anti-double-booking invariant.  All
// timestamp fields are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Reservation mirrors the reservations table plus the linked seat IDs.
type Reservation struct {
	ID         uint64   `json:"id"`
	Code       string   `json:"code"`
	UserID     uint64   `json:"user_id"`
	ShowID     uint64   `json:"show_id"`
	Status     string   `json:"status"`
	PriceCents uint32   `json:"-"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
	SeatIDs    []uint64 `json:"seat_ids"`
}

// Reserve converts a seat set into a pending reservation for the given
// show, all or nothing.  The flow runs in a single transaction:
//
//  1. the show is loaded (price snapshot, hall, status);
//  2. every requested seat must belong to the show's hall, otherwise
//     the request fails with *InvalidSeatsError naming the outliers;
//  3. existing (show_id, seat_id) links intersecting the request are
//     read FOR UPDATE — any hit aborts with *SeatsReservedError naming
//     the conflicting seats;
//  4. the reservation row and all seat links are inserted.
//
// Steps 3 and 4 are indivisible: the locks serialize racing requests
// for the same seats, and the unique key on (show_id, seat_id) turns
// any insert that slips past the check into the same
// *SeatsReservedError.  First committer wins; losers must re-query
// availability and retry with different seats.  Partial holds are never
// left behind.
func (r *ReservationRepo) Reserve(ctx context.Context, userID, showID uint64, seatIDs []uint64) (*Reservation, error) {
	seatIDs = dedupeIDs(seatIDs)
	if len(seatIDs) == 0 {
		return nil, ErrNoSeats
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var hallID uint64
	var priceCents uint32
	var showStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT hall_id, price_cents, status FROM shows WHERE id = ?`, showID,
	).Scan(&hallID, &priceCents, &showStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	if showStatus != ShowScheduled {
		return nil, ErrInvalidState
	}
	// Validate seat membership against the show's hall.
	inHall, err := seatIDsInHallTx(ctx, tx, hallID, seatIDs)
	if err != nil {
		return nil, err
	}
	if foreign := missingIDs(seatIDs, inHall); len(foreign) > 0 {
		return nil, &InvalidSeatsError{SeatIDs: foreign}
	}
	// Re-check holds under lock.  The FOR UPDATE rows block a concurrent
	// Reserve for the same seats until this transaction commits or rolls
	// back.
	held, err := heldIntersectionTx(ctx, tx, showID, seatIDs)
	if err != nil {
		return nil, err
	}
	if len(held) > 0 {
		return nil, &SeatsReservedError{SeatIDs: held}
	}
	code := uuid.NewString()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (code, user_id, show_id, status, price_cents) VALUES (?, ?, ?, ?, ?)`,
		code, userID, showID, ReservationPending, priceCents,
	)
	if err != nil {
		return nil, err
	}
	resID64, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	resID := uint64(resID64)
	if err = insertSeatLinksTx(ctx, tx, resID, showID, seatIDs); err != nil {
		if isDuplicateKey(err) {
			// A racing insert won a seat between our lock scan and this
			// statement (possible when the scan matched no rows, so there
			// was nothing to lock).  Name the seats that are now held.
			held, lookupErr := heldIntersectionTx(ctx, tx, showID, seatIDs)
			if lookupErr == nil && len(held) > 0 {
				return nil, &SeatsReservedError{SeatIDs: held}
			}
			return nil, &SeatsReservedError{SeatIDs: seatIDs}
		}
		return nil, err
	}
	out := &Reservation{SeatIDs: seatIDs}
	const sel = `SELECT id, code, user_id, show_id, status, price_cents, created_at, updated_at
	             FROM reservations WHERE id = ?`
	if err = tx.QueryRowContext(ctx, sel, resID).Scan(
		&out.ID, &out.Code, &out.UserID, &out.ShowID, &out.Status, &out.PriceCents, &out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return out, nil
}

// Availability returns the seat IDs currently held by a pending or paid
// reservation for the show, ordered ascending.  Links are deleted when
// a reservation is cancelled or expired, so the table itself is the
// live answer.
func (r *ReservationRepo) Availability(ctx context.Context, showID uint64) ([]uint64, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM shows WHERE id = ?`, showID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return heldSeatIDs(ctx, r.db, showID)
}

// Cancel moves a pending reservation to cancelled and releases its seat
// links, making those (show_id, seat_id) pairs immediately reservable
// by others.  Only the owner may cancel unless admin is set.  Anything
// other than pending fails with ErrInvalidState; the paid path belongs
// to a refund flow that does not exist here.
func (r *ReservationRepo) Cancel(ctx context.Context, reservationID, userID uint64, admin bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var status string
	var ownerID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT status, user_id FROM reservations WHERE id = ? FOR UPDATE`, reservationID,
	).Scan(&status, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}
	if !admin && ownerID != userID {
		return ErrForbidden
	}
	if !canTransition(status, ReservationCancelled) {
		return ErrInvalidState
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		ReservationCancelled, reservationID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM reservation_seats WHERE reservation_id = ?`, reservationID); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ExpiredReservation carries what the sweeper needs to publish an
// expiry event after the transaction commits.
type ExpiredReservation struct {
	ID      uint64
	Code    string
	UserID  uint64
	ShowID  uint64
	SeatIDs []uint64
}

// SweepExpired transitions every pending reservation created at or
// before the cutoff to expired and deletes its seat links, all in one
/// transaction.  The sweep is idempotent: terminal reservations are
// never selected, so re-running it (or racing a concurrent settle —
// whichever transaction commits first wins the row lock) is a no-op
// for rows that already moved on.
func (r *ReservationRepo) SweepExpired(ctx context.Context, cutoff time.Time) ([]ExpiredReservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	rows, err := tx.QueryContext(ctx,
		`SELECT id, code, user_id, show_id FROM reservations
		 WHERE status = ? AND created_at <= ?
		 FOR UPDATE`,
		ReservationPending, FormatDBTime(cutoff),
	)
	if err != nil {
		return nil, err
	}
	expired := make([]ExpiredReservation, 0)
	for rows.Next() {
		var e ExpiredReservation
		if scanErr := rows.Scan(&e.ID, &e.Code, &e.UserID, &e.ShowID); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		expired = append(expired, e)
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		if err = tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return expired, nil
	}
	ids := make([]interface{}, 0, len(expired))
	for _, e := range expired {
		ids = append(ids, e.ID)
	}
	ph := placeholders(len(expired))
	for i := range expired {
		seatRows, seatErr := tx.QueryContext(ctx,
			`SELECT seat_id FROM reservation_seats WHERE reservation_id = ? ORDER BY seat_id`, expired[i].ID)
		if seatErr != nil {
			return nil, seatErr
		}
		for seatRows.Next() {
			var sid uint64
			if scanErr := seatRows.Scan(&sid); scanErr != nil {
				seatRows.Close()
				return nil, scanErr
			}
			expired[i].SeatIDs = append(expired[i].SeatIDs, sid)
		}
		if seatErr = seatRows.Close(); seatErr != nil {
			return nil, seatErr
		}
	}
	updArgs := append([]interface{}{ReservationExpired}, ids...)
	if _, err = tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id IN (`+ph+`)`, updArgs...); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM reservation_seats WHERE reservation_id IN (`+ph+`)`, ids...); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return expired, nil
}

// ReservedSeat is one seat inside a reservation detail view.
type ReservedSeat struct {
	SeatID     uint64 `json:"seat_id"`
	RowNumber  uint32 `json:"row_number"`
	SeatNumber uint32 `json:"seat_number"`
	SeatType   string `json:"seat_type"`
}

// ReservationDetail is the denormalized view of a reservation with its
// show, hall, movie and seat information, used for display and payment
// calculation.
type ReservationDetail struct {
	ID            uint64         `json:"id"`
	Code          string         `json:"code"`
	UserID        uint64         `json:"user_id"`
	ShowID        uint64         `json:"show_id"`
	Status        string         `json:"status"`
	PricePerSeat  string         `json:"price_per_seat"`
	TotalAmount   string         `json:"total_amount"`
	CreatedAt     string         `json:"created_at"`
	ShowStartTime string         `json:"show_start_time"`
	MovieTitle    string         `json:"movie_title"`
	RuntimeMin    uint32         `json:"runtime_min"`
	HallID        uint64         `json:"hall_id"`
	HallName      string         `json:"hall_name"`
	Seats         []ReservedSeat `json:"seats"`
}

const reservationDetailQ = `SELECT r.id, r.code, r.user_id, r.show_id, r.status, r.price_cents, r.created_at,
       s.start_time, m.title, m.runtime_min, h.id, h.name
       FROM reservations r
       JOIN shows s ON s.id = r.show_id
       JOIN movies m ON m.id = s.movie_id
       JOIN halls h ON h.id = s.hall_id`

// GetDetail returns the full denormalized view of one reservation.  It
// returns ErrReservationNotFound when no row exists; ownership checks
// belong to the caller, which is why UserID is included.
func (r *ReservationRepo) GetDetail(ctx context.Context, reservationID uint64) (*ReservationDetail, error) {
	const q = reservationDetailQ + ` WHERE r.id = ?`
	var d ReservationDetail
	var priceCents uint32
	var startStr string
	err := r.db.QueryRowContext(ctx, q, reservationID).Scan(
		&d.ID, &d.Code, &d.UserID, &d.ShowID, &d.Status, &priceCents, &d.CreatedAt,
		&startStr, &d.MovieTitle, &d.RuntimeMin, &d.HallID, &d.HallName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if t, err2 := ParseDBTime(startStr); err2 == nil {
		d.ShowStartTime = t.Format(time.RFC3339)
	}
	if err := r.attachSeats(ctx, []*ReservationDetail{&d}); err != nil {
		return nil, err
	}
	d.PricePerSeat = money.FormatCents(priceCents)
	d.TotalAmount = money.FormatCents(priceCents * uint32(len(d.Seats)))
	return &d, nil
}

// ListByUser returns all reservations for the given user with show,
// hall, movie and seat details, newest first.  When no reservations
// exist an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = reservationDetailQ + ` WHERE r.user_id = ? ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	prices := make([]uint32, 0)
	for rows.Next() {
		var d ReservationDetail
		var priceCents uint32
		var startStr string
		if err := rows.Scan(
			&d.ID, &d.Code, &d.UserID, &d.ShowID, &d.Status, &priceCents, &d.CreatedAt,
			&startStr, &d.MovieTitle, &d.RuntimeMin, &d.HallID, &d.HallName,
		); err != nil {
			return nil, err
		}
		if t, err2 := ParseDBTime(startStr); err2 == nil {
			d.ShowStartTime = t.Format(time.RFC3339)
		}
		details = append(details, d)
		prices = append(prices, priceCents)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	ptrs := make([]*ReservationDetail, len(details))
	for i := range details {
		ptrs[i] = &details[i]
	}
	if err := r.attachSeats(ctx, ptrs); err != nil {
		return nil, err
	}
	for i := range details {
		details[i].PricePerSeat = money.FormatCents(prices[i])
		details[i].TotalAmount = money.FormatCents(prices[i] * uint32(len(details[i].Seats)))
	}
	return details, nil
}

// attachSeats populates the Seats slice of each detail in a single
// query.  Cancelled and expired reservations have no links left, so
// their seat lists legitimately come back empty.
func (r *ReservationRepo) attachSeats(ctx context.Context, details []*ReservationDetail) error {
	ids := make([]interface{}, 0, len(details))
	index := make(map[uint64]*ReservationDetail, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		index[d.ID] = d
		d.Seats = []ReservedSeat{}
	}
	query := `SELECT rs.reservation_id, rs.seat_id, hr.row_num, se.seat_number, se.seat_type
	          FROM reservation_seats rs
	          JOIN seats se ON se.id = rs.seat_id
	          JOIN hall_rows hr ON hr.id = se.row_id
	          WHERE rs.reservation_id IN (` + placeholders(len(ids)) + `)
	          ORDER BY rs.reservation_id, hr.row_num, se.seat_number`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var resID uint64
		var s ReservedSeat
		if err := rows.Scan(&resID, &s.SeatID, &s.RowNumber, &s.SeatNumber, &s.SeatType); err != nil {
			return err
		}
		if d, ok := index[resID]; ok {
			d.Seats = append(d.Seats, s)
		}
	}
	return rows.Err()
}

// seatIDsInHallTx mirrors SeatRepo.SeatIDsInHall but runs inside the
// reservation transaction.
func seatIDsInHallTx(ctx context.Context, tx *sql.Tx, hallID uint64, seatIDs []uint64) ([]uint64, error) {
	query := `SELECT s.id FROM seats s
	          JOIN hall_rows hr ON hr.id = s.row_id
	          WHERE hr.hall_id = ? AND s.id IN (` + placeholders(len(seatIDs)) + `)`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, hallID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var found []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

// heldIntersectionTx returns the subset of seatIDs already linked to an
// active reservation for the show, locking the matching link rows.
func heldIntersectionTx(ctx context.Context, tx *sql.Tx, showID uint64, seatIDs []uint64) ([]uint64, error) {
	query := `SELECT seat_id FROM reservation_seats
	          WHERE show_id = ? AND seat_id IN (` + placeholders(len(seatIDs)) + `)
	          ORDER BY seat_id
	          FOR UPDATE`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var held []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		held = append(held, id)
	}
	return held, rows.Err()
}

// insertSeatLinksTx bulk-inserts one reservation_seats row per seat.
func insertSeatLinksTx(ctx context.Context, tx *sql.Tx, reservationID, showID uint64, seatIDs []uint64) error {
	query := `INSERT INTO reservation_seats (reservation_id, show_id, seat_id) VALUES `
	parts := make([]string, 0, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)*3)
	for _, sid := range seatIDs {
		parts = append(parts, "(?, ?, ?)")
		args = append(args, reservationID, showID, sid)
	}
	_, err := tx.ExecContext(ctx, query+strings.Join(parts, ","), args...)
	return err
}

// dedupeIDs drops zero and duplicate IDs while preserving order.
func dedupeIDs(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// missingIDs returns the members of want that do not appear in have,
// preserving the order of want.
func missingIDs(want, have []uint64) []uint64 {
	set := make(map[uint64]struct{}, len(have))
	for _, id := range have {
		set[id] = struct{}{}
	}
	var missing []uint64
	for _, id := range want {
		if _, ok := set[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
