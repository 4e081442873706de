package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"dmchat/internal/domain"
)

// Open opens a PostgreSQL database using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL migrations for the dmchat schema on PostgreSQL.
func Migrate(db *sql.DB) error {
	stmts := []string{
		// Users
		`CREATE TABLE IF NOT EXISTS users (
			id                    BIGSERIAL    PRIMARY KEY,
			username              VARCHAR(50)  UNIQUE NOT NULL,
			email                 VARCHAR(100) UNIQUE,
			phone                 VARCHAR(20)  UNIQUE,
			password_hash         VARCHAR(255) NOT NULL,
			avatar_initials       VARCHAR(10)  NOT NULL DEFAULT '',
			avatar_url            TEXT,
			birth_date            DATE,
			online                BOOLEAN      NOT NULL DEFAULT FALSE,
			created_at            TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			last_seen             TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			username_last_changed TIMESTAMPTZ
		)`,

		// Messages: append-only ledger of directed messages.
		`CREATE TABLE IF NOT EXISTS messages (
			id             BIGSERIAL   PRIMARY KEY,
			sender_id      BIGINT      NOT NULL REFERENCES users(id),
			receiver_id    BIGINT      NOT NULL REFERENCES users(id),
			message_text   TEXT,
			voice_url      TEXT,
			voice_duration INTEGER,
			is_voice       BOOLEAN     NOT NULL DEFAULT FALSE,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			read_at        TIMESTAMPTZ
		)`,

		// Recovery codes: never deleted, only flipped to used.
		`CREATE TABLE IF NOT EXISTS recovery_codes (
			id         BIGSERIAL   PRIMARY KEY,
			user_id    BIGINT      NOT NULL REFERENCES users(id),
			code       VARCHAR(6)  NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMPTZ NOT NULL,
			used       BOOLEAN     NOT NULL DEFAULT FALSE
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(sender_id, receiver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(receiver_id, read_at)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_recovery_codes_user ON recovery_codes(user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w\nSQL: %s", err, stmt)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// mapConstraintErr converts unique violations into the domain error so races
// lost at the database land as ErrDuplicate, not a generic failure.
func mapConstraintErr(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}
