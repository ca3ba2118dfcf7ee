package repository

import (
	"reflect"
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{ReservationPending, ReservationPaid, true},
		{ReservationPending, ReservationCancelled, true},
		{ReservationPending, ReservationExpired, true},
		{ReservationPaid, ReservationCancelled, false},
		{ReservationPaid, ReservationExpired, false},
		{ReservationPaid, ReservationPaid, false},
		{ReservationCancelled, ReservationPaid, false},
		{ReservationExpired, ReservationPaid, false},
		{ReservationPending, ReservationPending, false},
	}
	for _, tt := range tests {
		if got := canTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("canTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDedupeIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []uint64
		want []uint64
	}{
		{"drops duplicates keeping order", []uint64{3, 1, 3, 2, 1}, []uint64{3, 1, 2}},
		{"drops zero ids", []uint64{0, 5, 0}, []uint64{5}},
		{"empty input", nil, []uint64{}},
		{"already unique", []uint64{7, 8, 9}, []uint64{7, 8, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dedupeIDs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("dedupeIDs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMissingIDs(t *testing.T) {
	tests := []struct {
		name       string
		want, have []uint64
		expect     []uint64
	}{
		{"all present", []uint64{1, 2}, []uint64{2, 1}, nil},
		{"some missing", []uint64{1, 2, 3}, []uint64{2}, []uint64{1, 3}},
		{"none present", []uint64{4, 5}, nil, []uint64{4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := missingIDs(tt.want, tt.have)
			if !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("missingIDs(%v, %v) = %v, want %v", tt.want, tt.have, got, tt.expect)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(1); got != "?" {
		t.Errorf("placeholders(1) = %q", got)
	}
	if got := placeholders(3); got != "?, ?, ?" {
		t.Errorf("placeholders(3) = %q", got)
	}
}

func TestSeatsReservedErrorMessage(t *testing.T) {
	err := &SeatsReservedError{SeatIDs: []uint64{4, 9}}
	if msg := err.Error(); msg == "" {
		t.Fatal("empty error message")
	}
}
