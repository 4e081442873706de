package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dmchat/internal/domain"
)

type RecoveryRepo struct {
	db *sql.DB
}

func NewRecoveryRepo(db *sql.DB) *RecoveryRepo {
	return &RecoveryRepo{db: db}
}

var _ domain.RecoveryRepository = (*RecoveryRepo)(nil)

func (r *RecoveryRepo) Create(ctx context.Context, rc *domain.RecoveryCode) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recovery_codes (user_id, code, created_at, expires_at, used)
		VALUES (?, ?, ?, ?, 0)
	`, rc.UserID, rc.Code, fmtTime(now), fmtTime(rc.ExpiresAt))
	if err != nil {
		return fmt.Errorf("insert recovery code: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	rc.ID = id
	rc.CreatedAt = now
	return nil
}

// Consume looks up a matching unused code, checks its expiry, and in the same
// transaction replaces the user's password hash and marks the code used.
// Either both effects commit or neither does.
func (r *RecoveryRepo) Consume(ctx context.Context, userID int64, code string, newPasswordHash string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset tx: %w", err)
	}
	defer tx.Rollback()

	var codeID int64
	var expiresAt time.Time
	err = tx.QueryRowContext(ctx, `
		SELECT id, expires_at FROM recovery_codes
		WHERE user_id = ? AND code = ? AND used = 0
		ORDER BY id DESC
		LIMIT 1
	`, userID, code).Scan(&codeID, &expiresAt)
	if err == sql.ErrNoRows {
		return domain.ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("find recovery code: %w", err)
	}
	if !time.Now().Before(expiresAt) {
		return domain.ErrInvalidCode
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, newPasswordHash, userID,
	); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE recovery_codes SET used = 1 WHERE id = ?`, codeID,
	); err != nil {
		return fmt.Errorf("mark code used: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset tx: %w", err)
	}
	return nil
}
