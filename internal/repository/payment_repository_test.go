package repository

import (
	"encoding/json"
	"testing"

	"github.com/iliyamo/cinema-ticketing/internal/money"
)

func TestSettleAmount(t *testing.T) {
	tests := []struct {
		name       string
		priceCents uint32
		seatCount  uint32
		want       uint32
	}{
		{"two seats at 25.00", 2500, 2, 5000},
		{"single seat", 1800, 1, 1800},
		{"four seats odd price", 1999, 4, 7996},
		{"free screening", 0, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := settleAmount(tt.priceCents, tt.seatCount); got != tt.want {
				t.Errorf("settleAmount(%d, %d) = %d, want %d", tt.priceCents, tt.seatCount, got, tt.want)
			}
		})
	}
	// The rendered amount for the two-seat case is what the settlement
	// response carries.
	if got := money.FormatCents(settleAmount(2500, 2)); got != "50.00" {
		t.Errorf("formatted amount = %q, want %q", got, "50.00")
	}
}

func TestSettleBlockedFromTerminalStates(t *testing.T) {
	for _, status := range []string{ReservationPaid, ReservationCancelled, ReservationExpired} {
		if canTransition(status, ReservationPaid) {
			t.Errorf("canTransition(%q, paid) = true, want false", status)
		}
	}
	if !canTransition(ReservationPending, ReservationPaid) {
		t.Error("canTransition(pending, paid) = false, want true")
	}
}

func TestPaymentCarriesMethod(t *testing.T) {
	p := Payment{
		ID:            7,
		Reference:     "ref-7",
		ReservationID: 3,
		UserID:        11,
		AmountCents:   5000,
		Amount:        "50.00",
		Method:        "blik",
		Status:        PaymentCompleted,
	}
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["payment_method"] != "blik" {
		t.Errorf("payment_method = %v, want %q", body["payment_method"], "blik")
	}
	if body["amount"] != "50.00" {
		t.Errorf("amount = %v, want %q", body["amount"], "50.00")
	}
	if _, ok := body["amount_cents"]; ok {
		t.Error("amount_cents leaked into the JSON body")
	}
}
