package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/cinema-ticketing/internal/money"
)

// PaymentCompleted is the only terminal payment status recorded here.
const PaymentCompleted = "completed"

// Payment mirrors the payments table.  Amount is derived at settlement
// time from the reservation's snapshotted per-seat price, never from
// the live show price.
type Payment struct {
	ID            uint64 `json:"id"`
	Reference     string `json:"reference"`
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	AmountCents   uint32 `json:"-"`
	Amount        string `json:"amount"`
	Method        string `json:"payment_method"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// settleAmount computes the charge for a settlement: seat count times
// the per-seat price snapshot taken at reservation time.  The live show
// price never participates.
func settleAmount(priceCents, seatCount uint32) uint32 {
	return priceCents * seatCount
}

// PaymentRepo settles reservations and lists recorded payments.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Settle records a completed payment for a pending reservation and
// promotes it to paid, atomically.  The reservation row is locked FOR
// UPDATE so a racing sweep or cancel serializes against the settlement;
// whichever commits first wins and the loser sees a terminal state.
// Settling anything other than a pending reservation (including a
// second settle of the same one) fails with ErrInvalidState, and the
// unique key on payments.reservation_id backstops double payment at
// the schema level.  The amount is seat count times the price snapshot
// taken when the reservation was created; method is the caller-supplied
// payment method string recorded on the payment row.
func (r *PaymentRepo) Settle(ctx context.Context, reservationID, userID uint64, method string, admin bool) (*Payment, error) {
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
	var status string
	var ownerID uint64
	var priceCents uint32
	err = tx.QueryRowContext(ctx,
		`SELECT status, user_id, price_cents FROM reservations WHERE id = ? FOR UPDATE`, reservationID,
	).Scan(&status, &ownerID, &priceCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if !admin && ownerID != userID {
		return nil, ErrForbidden
	}
	if !canTransition(status, ReservationPaid) {
		return nil, ErrInvalidState
	}
	var seatCount uint32
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservation_seats WHERE reservation_id = ?`, reservationID,
	).Scan(&seatCount); err != nil {
		return nil, err
	}
	amount := settleAmount(priceCents, seatCount)
	reference := uuid.NewString()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (reference, reservation_id, user_id, amount_cents, payment_method, status) VALUES (?, ?, ?, ?, ?, ?)`,
		reference, reservationID, ownerID, amount, method, PaymentCompleted,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrInvalidState
		}
		return nil, err
	}
	payID64, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		ReservationPaid, reservationID); err != nil {
		return nil, err
	}
	out := &Payment{}
	if err = tx.QueryRowContext(ctx,
		`SELECT id, reference, reservation_id, user_id, amount_cents, payment_method, status, created_at
		 FROM payments WHERE id = ?`, uint64(payID64),
	).Scan(&out.ID, &out.Reference, &out.ReservationID, &out.UserID, &out.AmountCents, &out.Method, &out.Status, &out.CreatedAt); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	out.Amount = money.FormatCents(out.AmountCents)
	return out, nil
}

// ListAll returns every payment, newest first.
func (r *PaymentRepo) ListAll(ctx context.Context) ([]Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, reference, reservation_id, user_id, amount_cents, payment_method, status, created_at
		 FROM payments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := make([]Payment, 0)
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.Reference, &p.ReservationID, &p.UserID, &p.AmountCents, &p.Method, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Amount = money.FormatCents(p.AmountCents)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
