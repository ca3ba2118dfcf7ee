package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions
)

// Hall represents a screening hall within a region's cinema.  The hall
// owns an ordered collection of rows; rows own seats.  Region scoping is
// implicit: every HallRepo is bound to one region's database.
type Hall struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// HallRow represents one numbered row inside a hall and how many seats
// it can hold once materialized.
type HallRow struct {
	ID        uint64 `json:"id"`
	HallID    uint64 `json:"hall_id"`
	RowNumber uint32 `json:"row_number"`
	SeatCount uint32 `json:"seat_count"`
}

// ErrHallNotFound is returned when a hall lookup fails.
var ErrHallNotFound = errors.New("hall not found")

// ErrRowNotFound is returned when a hall row lookup fails.
var ErrRowNotFound = errors.New("row not found")

// HallRepo provides methods to create and retrieve halls and their rows.
type HallRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories bound to the same region.
func (r *HallRepo) DB() *sql.DB {
	return r.db
}

// Create inserts a new hall.  Hall names are unique within a region; a
// duplicate name surfaces as ErrConflict.  After insert the record is
// read back so timestamps reflect the DB defaults.
func (r *HallRepo) Create(ctx context.Context, name string) (*Hall, error) {
	const qInsert = `INSERT INTO halls (name) VALUES (?)`
	res, err := r.db.ExecContext(ctx, qInsert, name)
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
	const qSelect = `SELECT id, name, created_at, updated_at FROM halls WHERE id = ?`
	var h Hall
	if err := r.db.QueryRowContext(ctx, qSelect, id).
		Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

// GetByID retrieves a hall by its ID.  It returns ErrHallNotFound when
// no row is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*Hall, error) {
	const q = `SELECT id, name, created_at, updated_at FROM halls WHERE id = ?`
	var h Hall
	err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns all halls in the region ordered by ID.
func (r *HallRepo) List(ctx context.Context) ([]Hall, error) {
	const q = `SELECT id, name, created_at, updated_at FROM halls ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Hall, 0)
	for rows.Next() {
		var h Hall
		if err := rows.Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RowInput describes one row to be added to a hall.
type RowInput struct {
	RowNumber uint32 `json:"row_number"`
	SeatCount uint32 `json:"seat_count"`
}

// AddRows inserts multiple rows into a hall within a single transaction.
// Row numbers must be unique within the hall, both among the inputs and
// against rows already stored; any duplicate aborts the whole batch with
// ErrConflict.  Adding rows to an unknown hall returns ErrHallNotFound.
func (r *HallRepo) AddRows(ctx context.Context, hallID uint64, inputs []RowInput) ([]HallRow, error) {
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
	// Verify the hall exists and lock it so a concurrent delete cannot
	// pull the hall out from under the insert.
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM halls WHERE id = ? FOR UPDATE`, hallID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	// Reject duplicates among the inputs themselves.
	seen := make(map[uint32]struct{}, len(inputs))
	for _, in := range inputs {
		if _, ok := seen[in.RowNumber]; ok {
			return nil, ErrConflict
		}
		seen[in.RowNumber] = struct{}{}
	}
	created := make([]HallRow, 0, len(inputs))
	for _, in := range inputs {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO hall_rows (hall_id, row_num, seat_count) VALUES (?, ?, ?)`,
			hallID, in.RowNumber, in.SeatCount,
		)
		if err != nil {
			// The unique key on (hall_id, row_num) catches rows that
			// already exist in the hall.
			if isDuplicateKey(err) {
				return nil, ErrConflict
			}
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		created = append(created, HallRow{
			ID:        uint64(id),
			HallID:    hallID,
			RowNumber: in.RowNumber,
			SeatCount: in.SeatCount,
		})
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return created, nil
}

// ListRows returns the rows of a hall ordered by row number.  It returns
// ErrHallNotFound when the hall does not exist.
func (r *HallRepo) ListRows(ctx context.Context, hallID uint64) ([]HallRow, error) {
	if _, err := r.GetByID(ctx, hallID); err != nil {
		return nil, err
	}
	const q = `SELECT id, hall_id, row_num, seat_count FROM hall_rows WHERE hall_id = ? ORDER BY row_num`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]HallRow, 0)
	for rows.Next() {
		var hr HallRow
		if err := rows.Scan(&hr.ID, &hr.HallID, &hr.RowNumber, &hr.SeatCount); err != nil {
			return nil, err
		}
		out = append(out, hr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRow fetches a single hall row by ID, returning ErrRowNotFound when
// it does not exist.
func (r *HallRepo) GetRow(ctx context.Context, rowID uint64) (*HallRow, error) {
	const q = `SELECT id, hall_id, row_num, seat_count FROM hall_rows WHERE id = ?`
	var hr HallRow
	err := r.db.QueryRowContext(ctx, q, rowID).Scan(&hr.ID, &hr.HallID, &hr.RowNumber, &hr.SeatCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRowNotFound
		}
		return nil, err
	}
	return &hr, nil
}

// Delete removes a hall together with its rows and seats.  The deletion
// is blocked with ErrConflict while any show still references the hall:
// a hall is immutable once shows are scheduled into it, and seats that
// reservations reference must outlive those reservations.
func (r *HallRepo) Delete(ctx context.Context, hallID uint64) error {
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
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM halls WHERE id = ? FOR UPDATE`, hallID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrHallNotFound
		}
		return err
	}
	var showCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM shows WHERE hall_id = ?`, hallID).Scan(&showCount); err != nil {
		return err
	}
	if showCount > 0 {
		return ErrConflict
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM seats WHERE row_id IN (SELECT id FROM hall_rows WHERE hall_id = ?)`, hallID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM hall_rows WHERE hall_id = ?`, hallID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM halls WHERE id = ?`, hallID); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
