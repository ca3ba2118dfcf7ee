package database

import (
	"context"
	"database/sql"
)

// schema holds the per-region DDL.  Every region database carries the
// same tables; statements are idempotent so Migrate can run on every
// startup.  The unique key on reservation_seats (show_id, seat_id) is
// the anti-double-booking guarantee and the unique key on
// payments.reservation_id blocks double settlement.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS halls (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(100) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_halls_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS hall_rows (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		hall_id BIGINT UNSIGNED NOT NULL,
		row_num INT UNSIGNED NOT NULL,
		seat_count INT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_hall_rows (hall_id, row_num),
		CONSTRAINT fk_hall_rows_hall FOREIGN KEY (hall_id) REFERENCES halls (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS seats (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		row_id BIGINT UNSIGNED NOT NULL,
		seat_number INT UNSIGNED NOT NULL,
		seat_type VARCHAR(20) NOT NULL DEFAULT 'standard',
		PRIMARY KEY (id),
		UNIQUE KEY uq_seats (row_id, seat_number),
		CONSTRAINT fk_seats_row FOREIGN KEY (row_id) REFERENCES hall_rows (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS movies (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title VARCHAR(255) NOT NULL,
		runtime_min INT UNSIGNED NOT NULL,
		poster_url VARCHAR(500) NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS shows (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		movie_id BIGINT UNSIGNED NOT NULL,
		hall_id BIGINT UNSIGNED NOT NULL,
		start_time DATETIME NOT NULL,
		price_cents INT UNSIGNED NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_shows_hall_start (hall_id, start_time),
		CONSTRAINT fk_shows_movie FOREIGN KEY (movie_id) REFERENCES movies (id),
		CONSTRAINT fk_shows_hall FOREIGN KEY (hall_id) REFERENCES halls (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		code CHAR(36) NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		show_id BIGINT UNSIGNED NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		price_cents INT UNSIGNED NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_reservations_code (code),
		KEY idx_reservations_user (user_id),
		KEY idx_reservations_status_created (status, created_at),
		CONSTRAINT fk_reservations_show FOREIGN KEY (show_id) REFERENCES shows (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reservation_seats (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		reservation_id BIGINT UNSIGNED NOT NULL,
		show_id BIGINT UNSIGNED NOT NULL,
		seat_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_reservation_seats_show_seat (show_id, seat_id),
		KEY idx_reservation_seats_res (reservation_id),
		CONSTRAINT fk_reservation_seats_res FOREIGN KEY (reservation_id) REFERENCES reservations (id),
		CONSTRAINT fk_reservation_seats_seat FOREIGN KEY (seat_id) REFERENCES seats (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS payments (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		reference CHAR(36) NOT NULL,
		reservation_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		amount_cents INT UNSIGNED NOT NULL,
		payment_method VARCHAR(32) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'completed',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_payments_reference (reference),
		UNIQUE KEY uq_payments_reservation (reservation_id),
		CONSTRAINT fk_payments_reservation FOREIGN KEY (reservation_id) REFERENCES reservations (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema to one region database.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
