package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to a single MySQL schema and verifies the connection.
// The service opens one pool per region; callers pass the schema name
// resolved from configuration.  Identifiers never cross schemas, so two
// regions can number their halls and seats independently.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// DATETIME columns are scanned as strings in the storage layout and
	// parsed by the repositories; the session timezone is pinned to UTC so
	// CURRENT_TIMESTAMP defaults agree with the stored values.
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&time_zone=%s",
		auth, host, port, name, "%27%2B00%3A00%27")

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings; each region gets its own pool so a hot region cannot
	// starve the others.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
