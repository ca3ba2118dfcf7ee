package repository

import "testing"

func TestMarkReserved(t *testing.T) {
	rows := []LayoutRow{
		{RowID: 1, RowNumber: 1, SeatCount: 3, Seats: []LayoutSeat{
			{ID: 10, SeatNumber: 1}, {ID: 11, SeatNumber: 2}, {ID: 12, SeatNumber: 3},
		}},
		{RowID: 2, RowNumber: 2, SeatCount: 2, Seats: []LayoutSeat{
			{ID: 20, SeatNumber: 1}, {ID: 21, SeatNumber: 2},
		}},
	}
	markReserved(rows, []uint64{11, 20}) // held must be sorted ascending

	wantReserved := map[uint64]bool{10: false, 11: true, 12: false, 20: true, 21: false}
	for _, row := range rows {
		for _, s := range row.Seats {
			if s.Reserved != wantReserved[s.ID] {
				t.Errorf("seat %d reserved = %v, want %v", s.ID, s.Reserved, wantReserved[s.ID])
			}
		}
	}
}

func TestMarkReservedEmptyHeld(t *testing.T) {
	rows := []LayoutRow{{Seats: []LayoutSeat{{ID: 1}, {ID: 2}}}}
	markReserved(rows, nil)
	for _, s := range rows[0].Seats {
		if s.Reserved {
			t.Errorf("seat %d unexpectedly reserved", s.ID)
		}
	}
}
