package ticket

import (
	"bytes"
	"testing"

	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

func sampleDetail() *repository.ReservationDetail {
	return &repository.ReservationDetail{
		ID:            7,
		Code:          "3f1c2d44-9a6b-4f1e-8c2a-1b2c3d4e5f60",
		UserID:        42,
		ShowID:        3,
		Status:        repository.ReservationPaid,
		PricePerSeat:  "20.00",
		TotalAmount:   "40.00",
		ShowStartTime: "2026-09-01T18:00:00Z",
		MovieTitle:    "Interstellar",
		HallName:      "Hall A",
		Seats: []repository.ReservedSeat{
			{SeatID: 10, RowNumber: 1, SeatNumber: 3, SeatType: "standard"},
			{SeatID: 11, RowNumber: 1, SeatNumber: 4, SeatType: "standard"},
		},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := Render(sampleDetail())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF header")
	}
	if len(out) < 1000 {
		t.Errorf("suspiciously small PDF: %d bytes", len(out))
	}
}

func TestFormatSeats(t *testing.T) {
	d := sampleDetail()
	if got, want := formatSeats(d.Seats), "R1-S3, R1-S4"; got != want {
		t.Errorf("formatSeats = %q, want %q", got, want)
	}
	if got := formatSeats(nil); got != "" {
		t.Errorf("formatSeats(nil) = %q, want empty", got)
	}
}
