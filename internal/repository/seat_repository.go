package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
)

// Seat represents a single seat inside a hall row.  Seat identity is
// permanent: once a reservation has referenced a seat it is never
// deleted (the hall-delete guard enforces this transitively).
type Seat struct {
	ID         uint64 `json:"id"`
	RowID      uint64 `json:"row_id"`
	SeatNumber uint32 `json:"seat_number"`
	SeatType   string `json:"seat_type"`
}

// SeatRepo provides seat materialization and the layout read model.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// Materialize creates the physical seats of a row, numbered 1 through
// the row's seat_count, all with the given seat type.  Seats can only be
// materialized once per row; a second call returns ErrConflict.  An
// unknown row returns ErrRowNotFound.
func (r *SeatRepo) Materialize(ctx context.Context, rowID uint64, seatType string) ([]Seat, error) {
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
	var seatCount uint32
	err = tx.QueryRowContext(ctx, `SELECT seat_count FROM hall_rows WHERE id = ? FOR UPDATE`, rowID).Scan(&seatCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRowNotFound
		}
		return nil, err
	}
	var existing int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats WHERE row_id = ?`, rowID).Scan(&existing); err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrConflict
	}
	seats := make([]Seat, 0, seatCount)
	for n := uint32(1); n <= seatCount; n++ {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO seats (row_id, seat_number, seat_type) VALUES (?, ?, ?)`,
			rowID, n, seatType,
		)
		if err != nil {
			if isDuplicateKey(err) {
				return nil, ErrConflict
			}
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		seats = append(seats, Seat{ID: uint64(id), RowID: rowID, SeatNumber: n, SeatType: seatType})
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return seats, nil
}

// SeatIDsInHall returns, for the requested seat IDs, the subset that
// actually belongs to the given hall.  Callers diff the result against
// the request to detect seats from foreign halls.
func (r *SeatRepo) SeatIDsInHall(ctx context.Context, hallID uint64, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return []uint64{}, nil
	}
	query := `SELECT s.id FROM seats s
              JOIN hall_rows hr ON hr.id = s.row_id
              WHERE hr.hall_id = ? AND s.id IN (` + placeholders(len(seatIDs)) + `)`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, hallID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
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
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return found, nil
}

// LayoutSeat is a seat in the layout read model, annotated with whether
// it is held by a pending or paid reservation for the requested show.
type LayoutSeat struct {
	ID         uint64 `json:"id"`
	SeatNumber uint32 `json:"seat_number"`
	SeatType   string `json:"seat_type"`
	Reserved   bool   `json:"reserved"`
}

// LayoutRow groups the seats of one hall row.
type LayoutRow struct {
	RowID     uint64       `json:"row_id"`
	RowNumber uint32       `json:"row_number"`
	SeatCount uint32       `json:"seat_count"`
	Seats     []LayoutSeat `json:"seats"`
}

// Layout returns the rows of a hall with nested seats.  When showID is
// non-zero each seat is annotated with its live reservation state for
// that show.  Reservation state is always read from the store at call
// time; no cached copy is consulted.
func (r *SeatRepo) Layout(ctx context.Context, hallID, showID uint64) ([]LayoutRow, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM halls WHERE id = ?`, hallID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	const q = `SELECT hr.id, hr.row_num, hr.seat_count, s.id, s.seat_number, s.seat_type
               FROM hall_rows hr
               LEFT JOIN seats s ON s.row_id = hr.id
               WHERE hr.hall_id = ?
               ORDER BY hr.row_num, s.seat_number`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	byRow := make(map[uint64]*LayoutRow)
	order := make([]uint64, 0)
	for rows.Next() {
		var rowID uint64
		var rowNumber, seatCount uint32
		var seatID sql.NullInt64
		var seatNumber sql.NullInt32
		var seatType sql.NullString
		if err := rows.Scan(&rowID, &rowNumber, &seatCount, &seatID, &seatNumber, &seatType); err != nil {
			return nil, err
		}
		lr, ok := byRow[rowID]
		if !ok {
			lr = &LayoutRow{RowID: rowID, RowNumber: rowNumber, SeatCount: seatCount, Seats: []LayoutSeat{}}
			byRow[rowID] = lr
			order = append(order, rowID)
		}
		if seatID.Valid {
			lr.Seats = append(lr.Seats, LayoutSeat{
				ID:         uint64(seatID.Int64),
				SeatNumber: uint32(seatNumber.Int32),
				SeatType:   seatType.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]LayoutRow, 0, len(order))
	for _, id := range order {
		out = append(out, *byRow[id])
	}
	if showID != 0 {
		held, err := heldSeatIDs(ctx, r.db, showID)
		if err != nil {
			return nil, err
		}
		markReserved(out, held)
	}
	return out, nil
}

// heldSeatIDs returns the seat IDs currently linked to a pending or paid
// reservation for the show.  Links only exist while their reservation is
// active, so a plain select over reservation_seats is the authoritative
// answer.
func heldSeatIDs(ctx context.Context, db *sql.DB, showID uint64) ([]uint64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT seat_id FROM reservation_seats WHERE show_id = ? ORDER BY seat_id`, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	held := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		held = append(held, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return held, nil
}

// markReserved flags every layout seat whose ID appears in held.  The
// held slice is sorted ascending, as returned by heldSeatIDs.
func markReserved(rows []LayoutRow, held []uint64) {
	for ri := range rows {
		for si := range rows[ri].Seats {
			id := rows[ri].Seats[si].ID
			idx := sort.Search(len(held), func(i int) bool { return held[i] >= id })
			if idx < len(held) && held[idx] == id {
				rows[ri].Seats[si].Reserved = true
			}
		}
	}
}

// placeholders builds an "?, ?, ?" list of the given length for IN
// clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, n*3-2)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',', ' ')
		}
		out = append(out, '?')
	}
	return string(out)
}
