// Package queue defines message payloads exchanged over the message broker.
package queue

// PaymentSettledEvent is published when a pending reservation is settled.
// It carries enough for downstream consumers to write audit records or
// trigger notifications without querying the region database.
type PaymentSettledEvent struct {
	Region        string `json:"region"`
	PaymentID     uint64 `json:"payment_id"`
	Reference     string `json:"reference"`
	ReservationID uint64 `json:"reservation_id"`
	Code          string `json:"code"`
	UserID        uint64 `json:"user_id"`
	ShowID        uint64 `json:"show_id"`
	MovieTitle    string `json:"movie_title"`
	HallName      string `json:"hall_name"`
	SeatCount     uint32 `json:"seat_count"`
	AmountCents   uint32 `json:"amount_cents"`
	Method        string `json:"payment_method"`
	SettledAt     string `json:"settled_at"`
}

// ReservationExpiredEvent is published for each pending reservation the
// sweep transitions to expired.
type ReservationExpiredEvent struct {
	Region        string   `json:"region"`
	ReservationID uint64   `json:"reservation_id"`
	Code          string   `json:"code"`
	UserID        uint64   `json:"user_id"`
	ShowID        uint64   `json:"show_id"`
	SeatIDs       []uint64 `json:"seat_ids"`
	ExpiredAt     string   `json:"expired_at"`
}
