package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Movie represents a film that shows can be scheduled for.  RuntimeMin
// is essential to conflict detection: a show's end time is derived from
// it and never stored.  Metadata here is maintained by an external
// catalog flow; this repository only records what scheduling needs.
type Movie struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	RuntimeMin uint32 `json:"runtime_min"`
	PosterURL  string `json:"poster_url,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ErrMovieNotFound indicates that a movie was not located in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo manages persistence for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create inserts a new movie and reads the record back to populate
// DB-default fields.
func (r *MovieRepo) Create(ctx context.Context, m *Movie) error {
	const q = `INSERT INTO movies (title, runtime_min, poster_url) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.RuntimeMin, m.PosterURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT id, title, runtime_min, poster_url, created_at FROM movies WHERE id = ?`
	var poster sql.NullString
	if err := r.db.QueryRowContext(ctx, sel, m.ID).Scan(&m.ID, &m.Title, &m.RuntimeMin, &poster, &m.CreatedAt); err != nil {
		return err
	}
	m.PosterURL = poster.String
	return nil
}

// GetByID retrieves a movie by its ID, returning ErrMovieNotFound when
// no row exists.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*Movie, error) {
	const q = `SELECT id, title, runtime_min, poster_url, created_at FROM movies WHERE id = ?`
	var m Movie
	var poster sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.RuntimeMin, &poster, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	m.PosterURL = poster.String
	return &m, nil
}

// List returns all movies in the region ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]Movie, error) {
	const q = `SELECT id, title, runtime_min, poster_url, created_at FROM movies ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Movie, 0)
	for rows.Next() {
		var m Movie
		var poster sql.NullString
		if err := rows.Scan(&m.ID, &m.Title, &m.RuntimeMin, &poster, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.PosterURL = poster.String
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a movie.  Deletion is blocked with ErrConflict while
// any show references the movie, cancelled or not, because runtime
// lookups for historical shows must keep working.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
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
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ? FOR UPDATE`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMovieNotFound
		}
		return err
	}
	var showCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM shows WHERE movie_id = ?`, id).Scan(&showCount); err != nil {
		return err
	}
	if showCount > 0 {
		return ErrConflict
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
