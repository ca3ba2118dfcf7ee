// Package repository contains data access logic for Show domain operations. This file defines
// the Show model and repository methods for shows. A Show represents a scheduled
// screening of a movie in a hall. The show's end time is never stored: it is
// derived from the movie runtime (plus the configured cleaning buffer) wherever
// a conflict window is needed, so a runtime correction propagates everywhere.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinema-ticketing/internal/money"
)

// Show statuses.  cancelShow never deletes the row because terminal
// reservations keep referencing it.
const (
	ShowScheduled = "scheduled"
	ShowCancelled = "cancelled"
)

// Show represents a scheduled screening of a movie in a particular hall.
// StartTime is stored in DB format ("2006-01-02 15:04:05" UTC); PriceCents
// is the per-seat ticket price.
type Show struct {
	ID         uint64 `json:"id"`
	MovieID    uint64 `json:"movie_id"`
	HallID     uint64 `json:"hall_id"`
	StartTime  string `json:"start_time"`
	PriceCents uint32 `json:"-"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// ShowDetail joins a show with its movie and hall for listings and the
// booking page.  EndTime carries the derived conflict window end.
type ShowDetail struct {
	Show
	MovieTitle string `json:"movie_title"`
	RuntimeMin uint32 `json:"runtime_min"`
	HallName   string `json:"hall_name"`
	EndTime    string `json:"end_time"`
	Price      string `json:"price"`
}

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db        *sql.DB
	bufferMin uint32 // cleaning gap enforced between shows in a hall
	windowMin uint32 // floor for the overlap prefilter window
}

// NewShowRepo constructs a ShowRepo.  bufferMin widens every show's
// conflict window; windowMin is only a floor for the overlap prefilter,
// which is widened per schedule call to the longest stored runtime plus
// buffer so no movie can outrun the scan.
func NewShowRepo(db *sql.DB, bufferMin, windowMin uint32) *ShowRepo {
	if windowMin < bufferMin {
		windowMin = bufferMin
	}
	return &ShowRepo{db: db, bufferMin: bufferMin, windowMin: windowMin}
}

// prefilterWindowMin returns how many minutes before the proposed start
// the overlap scan must look.  The configured floor is widened to the
// longest stored runtime plus buffer: a show starting earlier than that
// cannot still be running at the proposed start, so nothing outside the
// window can overlap it.
func prefilterWindowMin(floor, maxRuntimeMin, bufferMin uint32) uint32 {
	if need := maxRuntimeMin + bufferMin; need > floor {
		return need
	}
	return floor
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

// Schedule places a movie into a hall at the given start time.  The
// overlap scan and the insert run in one transaction: candidate shows of
// the hall whose start time falls inside the bounded prefilter window
// are locked with FOR UPDATE, their derived intervals are tested against
// the proposed window, and the insert proceeds only when no interval
// overlaps.  Two concurrent schedule calls against the same hall window
// therefore serialize; the later committer observes the earlier insert.
// Overlap is reported as *ScheduleConflictError naming the blocking
// shows.  Unknown movie or hall surface as ErrMovieNotFound /
// ErrHallNotFound.
func (r *ShowRepo) Schedule(ctx context.Context, movieID, hallID uint64, start time.Time, priceCents uint32) (*Show, error) {
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
	var runtimeMin uint32
	err = tx.QueryRowContext(ctx, `SELECT runtime_min FROM movies WHERE id = ?`, movieID).Scan(&runtimeMin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM halls WHERE id = ?`, hallID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	newStart, newEnd := ShowWindow(start.UTC(), runtimeMin, r.bufferMin)
	// Bounded prefilter: only shows starting inside
	// [newStart - window, newEnd) can possibly overlap the proposed
	// window, where window covers the longest runtime any stored movie
	// could contribute.  The locked candidate set also blocks concurrent
	// inserts into the same window until this transaction resolves.
	var maxRuntimeMin uint32
	if err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(runtime_min), 0) FROM movies`,
	).Scan(&maxRuntimeMin); err != nil {
		return nil, err
	}
	window := prefilterWindowMin(r.windowMin, maxRuntimeMin, r.bufferMin)
	lo := newStart.Add(-time.Duration(window) * time.Minute)
	const scanQ = `SELECT s.id, s.start_time, m.runtime_min, m.title
	               FROM shows s
	               JOIN movies m ON m.id = s.movie_id
	               WHERE s.hall_id = ? AND s.status = ? AND s.start_time >= ? AND s.start_time < ?
	               FOR UPDATE`
	rows, err := tx.QueryContext(ctx, scanQ, hallID, ShowScheduled, FormatDBTime(lo), FormatDBTime(newEnd))
	if err != nil {
		return nil, err
	}
	var conflicts []ShowConflict
	for rows.Next() {
		var id uint64
		var startStr, title string
		var rt uint32
		if scanErr := rows.Scan(&id, &startStr, &rt, &title); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		exStart, parseErr := ParseDBTime(startStr)
		if parseErr != nil {
			rows.Close()
			return nil, parseErr
		}
		exStart, exEnd := ShowWindow(exStart, rt, r.bufferMin)
		if Overlaps(newStart, newEnd, exStart, exEnd) {
			conflicts = append(conflicts, ShowConflict{
				ShowID:     id,
				MovieTitle: title,
				StartTime:  exStart.Format(time.RFC3339),
				EndTime:    exEnd.Format(time.RFC3339),
			})
		}
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ScheduleConflictError{Conflicts: conflicts}
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO shows (movie_id, hall_id, start_time, price_cents) VALUES (?, ?, ?, ?)`,
		movieID, hallID, FormatDBTime(newStart), priceCents,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var s Show
	const sel = `SELECT id, movie_id, hall_id, start_time, price_cents, status, created_at, updated_at
	             FROM shows WHERE id = ?`
	if err = tx.QueryRowContext(ctx, sel, id).Scan(
		&s.ID, &s.MovieID, &s.HallID, &s.StartTime, &s.PriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &s, nil
}

// ShowFilter narrows a show listing.  Zero values mean "no constraint".
type ShowFilter struct {
	MovieID uint64
	HallID  uint64
	From    time.Time
	To      time.Time
	All     bool // include cancelled shows (operator views)
}

// List returns shows matching the filter joined with movie and hall
// detail, ordered by start time ascending.
func (r *ShowRepo) List(ctx context.Context, f ShowFilter) ([]ShowDetail, error) {
	query := `SELECT s.id, s.movie_id, s.hall_id, s.start_time, s.price_cents, s.status, s.created_at, s.updated_at,
	                 m.title, m.runtime_min, h.name
	          FROM shows s
	          JOIN movies m ON m.id = s.movie_id
	          JOIN halls h ON h.id = s.hall_id
	          WHERE 1 = 1`
	args := make([]interface{}, 0, 5)
	if !f.All {
		query += ` AND s.status = ?`
		args = append(args, ShowScheduled)
	}
	if f.MovieID != 0 {
		query += ` AND s.movie_id = ?`
		args = append(args, f.MovieID)
	}
	if f.HallID != 0 {
		query += ` AND s.hall_id = ?`
		args = append(args, f.HallID)
	}
	if !f.From.IsZero() {
		query += ` AND s.start_time >= ?`
		args = append(args, FormatDBTime(f.From))
	}
	if !f.To.IsZero() {
		query += ` AND s.start_time < ?`
		args = append(args, FormatDBTime(f.To))
	}
	query += ` ORDER BY s.start_time ASC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ShowDetail, 0)
	for rows.Next() {
		var d ShowDetail
		if err := rows.Scan(
			&d.ID, &d.MovieID, &d.HallID, &d.StartTime, &d.PriceCents, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.MovieTitle, &d.RuntimeMin, &d.HallName,
		); err != nil {
			return nil, err
		}
		if start, err := ParseDBTime(d.StartTime); err == nil {
			_, end := ShowWindow(start, d.RuntimeMin, r.bufferMin)
			d.EndTime = end.Format(time.RFC3339)
			d.StartTime = start.Format(time.RFC3339)
		}
		d.Price = money.FormatCents(d.PriceCents)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDetail retrieves one show joined with movie and hall, for the
// booking page and reservation display.  It returns ErrShowNotFound
// when no row exists.
func (r *ShowRepo) GetDetail(ctx context.Context, id uint64) (*ShowDetail, error) {
	const q = `SELECT s.id, s.movie_id, s.hall_id, s.start_time, s.price_cents, s.status, s.created_at, s.updated_at,
	                  m.title, m.runtime_min, h.name
	           FROM shows s
	           JOIN movies m ON m.id = s.movie_id
	           JOIN halls h ON h.id = s.hall_id
	           WHERE s.id = ?`
	var d ShowDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.MovieID, &d.HallID, &d.StartTime, &d.PriceCents, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.MovieTitle, &d.RuntimeMin, &d.HallName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	if start, err := ParseDBTime(d.StartTime); err == nil {
		_, end := ShowWindow(start, d.RuntimeMin, r.bufferMin)
		d.EndTime = end.Format(time.RFC3339)
		d.StartTime = start.Format(time.RFC3339)
	}
	d.Price = money.FormatCents(d.PriceCents)
	return &d, nil
}

// Cancel marks a show cancelled so its hall window frees up.  It is
// rejected with ErrHasReservations while any pending or paid reservation
// references the show: operators must cancel those first, an explicit
// two-phase action that never silently discards paid bookings.
func (r *ShowRepo) Cancel(ctx context.Context, id uint64) error {
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
	err = tx.QueryRowContext(ctx, `SELECT status FROM shows WHERE id = ? FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowNotFound
		}
		return err
	}
	if status == ShowCancelled {
		return ErrInvalidState
	}
	var active int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE show_id = ? AND status IN (?, ?)`,
		id, ReservationPending, ReservationPaid,
	).Scan(&active)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrHasReservations
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE shows SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, ShowCancelled, id); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// MovieShows groups a movie with its upcoming shows for the browse page.
type MovieShows struct {
	MovieID   uint64 `json:"movie_id"`
	Title     string `json:"title"`
	PosterURL string `json:"poster_url,omitempty"`
	Shows     []struct {
		ID        uint64 `json:"id"`
		StartTime string `json:"start_time"`
	} `json:"shows"`
}

// ListUpcomingByMovie returns movies that have at least one scheduled
// show starting after now, each with its upcoming shows ordered by start
// time.
func (r *ShowRepo) ListUpcomingByMovie(ctx context.Context, now time.Time) ([]MovieShows, error) {
	const q = `SELECT m.id, m.title, m.poster_url, s.id, s.start_time
	           FROM shows s
	           JOIN movies m ON m.id = s.movie_id
	           WHERE s.status = ? AND s.start_time > ?
	           ORDER BY m.title, s.start_time`
	rows, err := r.db.QueryContext(ctx, q, ShowScheduled, FormatDBTime(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]MovieShows, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var movieID, showID uint64
		var title, startStr string
		var poster sql.NullString
		if err := rows.Scan(&movieID, &title, &poster, &showID, &startStr); err != nil {
			return nil, err
		}
		idx, ok := index[movieID]
		if !ok {
			idx = len(out)
			index[movieID] = idx
			out = append(out, MovieShows{MovieID: movieID, Title: title, PosterURL: poster.String})
		}
		entry := struct {
			ID        uint64 `json:"id"`
			StartTime string `json:"start_time"`
		}{ID: showID}
		if t, err := ParseDBTime(startStr); err == nil {
			entry.StartTime = t.Format(time.RFC3339)
		}
		out[idx].Shows = append(out[idx].Shows, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
